package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/utafrali/catalog-service/internal/domain"
	"github.com/utafrali/catalog-service/internal/repository"
	"github.com/utafrali/catalog-service/internal/service"
	"github.com/utafrali/catalog-service/pkg/httputil"
	"github.com/utafrali/catalog-service/pkg/validator"
)

// ProductHandler handles HTTP requests for product endpoints.
type ProductHandler struct {
	service *service.ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new product HTTP handler.
func NewProductHandler(svc *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// CreateProductRequest is the JSON request body for creating a product.
type CreateProductRequest struct {
	PID           string `json:"pid" validate:"required,min=1,max=10"`
	Name          string `json:"name" validate:"required,min=1,max=500"`
	Description   string `json:"description"`
	IsDigital     bool   `json:"is_digital"`
	IsActive      bool   `json:"is_active"`
	CategoryID    string `json:"category_id" validate:"required,uuid"`
	ProductTypeID string `json:"product_type_id" validate:"required,uuid"`
}

// UpdateProductRequest is the JSON request body for updating a product.
type UpdateProductRequest struct {
	PID           *string `json:"pid" validate:"omitempty,min=1,max=10"`
	Name          *string `json:"name" validate:"omitempty,min=1,max=500"`
	Description   *string `json:"description"`
	IsDigital     *bool   `json:"is_digital"`
	IsActive      *bool   `json:"is_active"`
	CategoryID    *string `json:"category_id" validate:"omitempty,uuid"`
	ProductTypeID *string `json:"product_type_id" validate:"omitempty,uuid"`
}

// --- Handlers ---

// ListProducts handles GET /api/v1/products
// @Summary List all products
// @Description Returns paginated list of products with optional filtering
// @Tags products
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page (max 100)" default(20)
// @Param category_id query string false "Filter by category UUID"
// @Param product_type_id query string false "Filter by product type UUID"
// @Param active query bool false "Filter by active flag"
// @Param search query string false "Full-text search query"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/products [get]
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	filter := repository.ProductFilter{
		Page:    1,
		PerPage: 20,
	}

	if v := r.URL.Query().Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "page must be a valid positive integer"},
			})
			return
		}
		filter.Page = page
	}
	if v := r.URL.Query().Get("per_page"); v != "" {
		perPage, err := strconv.Atoi(v)
		if err != nil || perPage < 1 || perPage > 100 {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "per_page must be a valid integer between 1 and 100"},
			})
			return
		}
		filter.PerPage = perPage
	}
	if v := r.URL.Query().Get("category_id"); v != "" {
		filter.CategoryID = &v
	}
	if v := r.URL.Query().Get("product_type_id"); v != "" {
		filter.ProductTypeID = &v
	}
	if v := r.URL.Query().Get("active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "active must be true or false"},
			})
			return
		}
		filter.Active = &active
	}
	if v := r.URL.Query().Get("search"); v != "" {
		filter.Search = &v
	}

	products, total, err := h.service.ListProducts(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(products, total, filter.Page, filter.PerPage))
}

// GetProduct handles GET /api/v1/products/{idOrSlug}
// It accepts both a UUID (product ID) and a slug for lookup.
// Returns the enriched detail including category, product type, and lines
// with flattened attributes and ordered images.
// @Summary Get product by ID or slug
// @Description Returns a product detail. Accepts both UUID and URL slug.
// @Tags products
// @Produce json
// @Param idOrSlug path string true "Product UUID or URL slug"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/products/{idOrSlug} [get]
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	idOrSlug := chi.URLParam(r, "idOrSlug")
	if idOrSlug == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "product id or slug is required"},
		})
		return
	}

	var (
		detail *domain.ProductDetail
		err    error
	)

	if _, parseErr := uuid.Parse(idOrSlug); parseErr == nil {
		detail, err = h.service.GetProductDetail(r.Context(), idOrSlug)
	} else {
		detail, err = h.service.GetProductDetailBySlug(r.Context(), idOrSlug)
	}

	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: detail})
}

// CreateProduct handles POST /api/v1/products
// @Summary Create a product
// @Description Creates a new product in the catalog
// @Tags products
// @Accept json
// @Produce json
// @Param request body CreateProductRequest true "Product to create"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Router /api/v1/products [post]
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	// Limit request body to 1MB to prevent DoS via large payloads.
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	input := &service.CreateProductInput{
		PID:           req.PID,
		Name:          req.Name,
		Description:   req.Description,
		IsDigital:     req.IsDigital,
		IsActive:      req.IsActive,
		CategoryID:    req.CategoryID,
		ProductTypeID: req.ProductTypeID,
	}

	product, err := h.service.CreateProduct(r.Context(), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: product})
}

// UpdateProduct handles PUT /api/v1/products/{id}
// @Summary Update a product
// @Description Partially updates a product, all fields are optional
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product UUID"
// @Param request body UpdateProductRequest true "Fields to update"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/products/{id} [put]
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	// Limit request body to 1MB to prevent DoS via large payloads.
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	input := &service.UpdateProductInput{
		PID:           req.PID,
		Name:          req.Name,
		Description:   req.Description,
		IsDigital:     req.IsDigital,
		IsActive:      req.IsActive,
		CategoryID:    req.CategoryID,
		ProductTypeID: req.ProductTypeID,
	}

	product, err := h.service.UpdateProduct(r.Context(), id.String(), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// DeleteProduct handles DELETE /api/v1/products/{id}
// @Summary Delete a product
// @Description Deletes a product by UUID. Products with lines are protected.
// @Tags products
// @Produce json
// @Param id path string true "Product UUID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/products/{id} [delete]
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.DeleteProduct(r.Context(), id.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"id": id.String(), "status": "deleted"}})
}
