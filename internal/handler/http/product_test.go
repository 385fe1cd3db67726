package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/catalog-service/internal/domain"
	"github.com/utafrali/catalog-service/internal/repository"
	"github.com/utafrali/catalog-service/internal/service"
	apperrors "github.com/utafrali/catalog-service/pkg/errors"
	"github.com/utafrali/catalog-service/pkg/httputil"
)

const (
	testProductID  = "7b0f4e88-31a5-4c55-9c2d-64c19c2f8a01"
	testCategoryID = "d2a6f0c1-9e4b-4d6a-8f3e-1b7c5a9d2e30"
	testTypeID     = "a91c3d72-5e8f-4b01-9a6d-3c2e7f4b8d15"
)

type productHandlerMocks struct {
	repo      *mockProductRepo
	catRepo   *mockCategoryRepo
	typeRepo  *mockProductTypeRepo
	lineRepo  *mockLineRepo
	imageRepo *mockImageRepo
}

func newTestProductHandler() (*ProductHandler, *productHandlerMocks) {
	m := &productHandlerMocks{
		repo:      new(mockProductRepo),
		catRepo:   new(mockCategoryRepo),
		typeRepo:  new(mockProductTypeRepo),
		lineRepo:  new(mockLineRepo),
		imageRepo: new(mockImageRepo),
	}
	logger := handlerTestLogger()
	svc := service.NewProductService(
		m.repo, m.catRepo, m.typeRepo, m.lineRepo, m.imageRepo,
		handlerTestEventProducer(), nil, logger,
	)
	return NewProductHandler(svc, logger), m
}

func productRouter(h *ProductHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Post("/", h.CreateProduct)
		r.Get("/{idOrSlug}", h.GetProduct)
		r.Put("/{id}", h.UpdateProduct)
		r.Delete("/{id}", h.DeleteProduct)
	})
	return r
}

func sampleProduct() *domain.Product {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &domain.Product{
		ID:            testProductID,
		PID:           "NK-0001",
		Name:          "Air Max Trainer",
		Slug:          "air-max-trainer",
		Description:   "Lightweight running shoe",
		IsActive:      true,
		CategoryID:    testCategoryID,
		ProductTypeID: testTypeID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// =============================================================================
// GET /api/v1/products
// =============================================================================

func TestListProducts_Success(t *testing.T) {
	handler, m := newTestProductHandler()

	products := []domain.Product{*sampleProduct()}
	m.repo.On("List", mock.Anything, repository.ProductFilter{Page: 1, PerPage: 20}).
		Return(products, 1, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	rec := httptest.NewRecorder()
	productRouter(handler).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp httputil.PaginatedResponse[domain.Product]
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "air-max-trainer", resp.Data[0].Slug)
	assert.Equal(t, 1, resp.TotalCount)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 20, resp.PerPage)
	m.repo.AssertExpectations(t)
}

func TestListProducts_ForwardsFilters(t *testing.T) {
	handler, m := newTestProductHandler()

	active := true
	search := "trainer"
	catID := testCategoryID
	m.repo.On("List", mock.Anything, repository.ProductFilter{
		CategoryID: &catID,
		Active:     &active,
		Search:     &search,
		Page:       2,
		PerPage:    5,
	}).Return([]domain.Product{}, 0, nil)

	target := "/api/v1/products?page=2&per_page=5&active=true&search=trainer&category_id=" + testCategoryID
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	productRouter(handler).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	m.repo.AssertExpectations(t)
}

func TestListProducts_InvalidActiveParam(t *testing.T) {
	handler, m := newTestProductHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?active=maybe", nil)
	rec := httptest.NewRecorder()
	productRouter(handler).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_PARAMETER", resp.Error.Code)
	m.repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

// =============================================================================
// GET /api/v1/products/{idOrSlug}
// =============================================================================

func TestGetProduct_ByID(t *testing.T) {
	handler, m := newTestProductHandler()

	m.repo.On("GetByID", mock.Anything, testProductID).Return(sampleProduct(), nil)
	m.catRepo.On("GetByID", mock.Anything, testCategoryID).
		Return(&domain.Category{ID: testCategoryID, Name: "Shoes"}, nil)
	m.typeRepo.On("GetByID", mock.Anything, testTypeID).
		Return(&domain.ProductType{ID: testTypeID, Name: "Sneaker"}, nil)
	m.lineRepo.On("ListByProduct", mock.Anything, testProductID).
		Return([]domain.ProductLine{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+testProductID, nil)
	rec := httptest.NewRecorder()
	productRouter(handler).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data domain.ProductDetail `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, testProductID, resp.Data.ID)
	require.NotNil(t, resp.Data.Category)
	assert.Equal(t, "Shoes", resp.Data.Category.Name)
	m.repo.AssertExpectations(t)
}

func TestGetProduct_BySlug(t *testing.T) {
	handler, m := newTestProductHandler()

	m.repo.On("GetBySlug", mock.Anything, "air-max-trainer").Return(sampleProduct(), nil)
	m.catRepo.On("GetByID", mock.Anything, testCategoryID).
		Return(&domain.Category{ID: testCategoryID, Name: "Shoes"}, nil)
	m.typeRepo.On("GetByID", mock.Anything, testTypeID).
		Return(&domain.ProductType{ID: testTypeID, Name: "Sneaker"}, nil)
	m.lineRepo.On("ListByProduct", mock.Anything, testProductID).
		Return([]domain.ProductLine{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/air-max-trainer", nil)
	rec := httptest.NewRecorder()
	productRouter(handler).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	m.repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	m.repo.AssertExpectations(t)
}

func TestGetProduct_NotFound(t *testing.T) {
	handler, m := newTestProductHandler()

	m.repo.On("GetByID", mock.Anything, testProductID).Return(nil, apperrors.ErrNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+testProductID, nil)
	rec := httptest.NewRecorder()
	productRouter(handler).ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

// =============================================================================
// POST /api/v1/products
// =============================================================================

func TestCreateProduct_Success(t *testing.T) {
	handler, m := newTestProductHandler()

	m.repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Product")).Return(nil)

	body := `{
		"pid": "NK-0001",
		"name": "Air Max Trainer",
		"is_active": true,
		"category_id": "` + testCategoryID + `",
		"product_type_id": "` + testTypeID + `"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	productRouter(handler).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Data domain.Product `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "NK-0001", resp.Data.PID)
	assert.Equal(t, "air-max-trainer", resp.Data.Slug)
	assert.NotEmpty(t, resp.Data.ID)
	m.repo.AssertExpectations(t)
}

func TestCreateProduct_InvalidJSON(t *testing.T) {
	handler, m := newTestProductHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	productRouter(handler).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
	m.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateProduct_ValidationError(t *testing.T) {
	handler, m := newTestProductHandler()

	// Missing pid and a malformed category_id.
	body := `{"name": "Air Max Trainer", "category_id": "not-a-uuid", "product_type_id": "` + testTypeID + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	productRouter(handler).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Contains(t, resp.Error.Fields, "pid")
	assert.Contains(t, resp.Error.Fields, "category_id")
	m.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateProduct_PIDTooLong(t *testing.T) {
	handler, m := newTestProductHandler()

	body := `{
		"pid": "NK-00000001",
		"name": "Air Max Trainer",
		"category_id": "` + testCategoryID + `",
		"product_type_id": "` + testTypeID + `"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	productRouter(handler).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	m.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateProduct_RepositoryError(t *testing.T) {
	handler, m := newTestProductHandler()

	m.repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Product")).
		Return(assert.AnError)

	body := `{
		"pid": "NK-0001",
		"name": "Air Max Trainer",
		"category_id": "` + testCategoryID + `",
		"product_type_id": "` + testTypeID + `"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	productRouter(handler).ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INTERNAL_ERROR", resp.Error.Code)
}

// =============================================================================
// PUT /api/v1/products/{id}
// =============================================================================

func TestUpdateProduct_Success(t *testing.T) {
	handler, m := newTestProductHandler()

	m.repo.On("GetByID", mock.Anything, testProductID).Return(sampleProduct(), nil)
	m.repo.On("Update", mock.Anything, mock.MatchedBy(func(p *domain.Product) bool {
		return p.Name == "Air Max Trainer v2" && p.Slug == "air-max-trainer-v2"
	})).Return(nil)

	body := `{"name": "Air Max Trainer v2"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/products/"+testProductID, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	productRouter(handler).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data domain.Product `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "air-max-trainer-v2", resp.Data.Slug)
	m.repo.AssertExpectations(t)
}

func TestUpdateProduct_InvalidID(t *testing.T) {
	handler, m := newTestProductHandler()

	body := `{"name": "Renamed"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/products/not-a-uuid", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	productRouter(handler).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	m.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateProduct_NotFound(t *testing.T) {
	handler, m := newTestProductHandler()

	m.repo.On("GetByID", mock.Anything, testProductID).Return(nil, apperrors.ErrNotFound)

	body := `{"name": "Renamed"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/products/"+testProductID, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	productRouter(handler).ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

// =============================================================================
// DELETE /api/v1/products/{id}
// =============================================================================

func TestDeleteProduct_Success(t *testing.T) {
	handler, m := newTestProductHandler()

	m.repo.On("GetByID", mock.Anything, testProductID).Return(sampleProduct(), nil)
	m.repo.On("Delete", mock.Anything, testProductID).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/products/"+testProductID, nil)
	rec := httptest.NewRecorder()
	productRouter(handler).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "deleted", resp.Data["status"])
	m.repo.AssertExpectations(t)
}

func TestDeleteProduct_Protected(t *testing.T) {
	handler, m := newTestProductHandler()

	m.repo.On("GetByID", mock.Anything, testProductID).Return(sampleProduct(), nil)
	m.repo.On("Delete", mock.Anything, testProductID).
		Return(apperrors.Protected("product", "product lines"))

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/products/"+testProductID, nil)
	rec := httptest.NewRecorder()
	productRouter(handler).ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "PROTECTED", resp.Error.Code)
}

// =============================================================================
// Request body handling
// =============================================================================

func TestCreateProduct_OversizedBody(t *testing.T) {
	handler, m := newTestProductHandler()

	// Larger than the 1 MB request body limit.
	huge := bytes.Repeat([]byte("a"), 1<<20+1)
	body := `{"pid": "NK-0001", "name": "` + string(huge) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	productRouter(handler).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	m.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
