package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/utafrali/catalog-service/internal/domain"
	"github.com/utafrali/catalog-service/internal/service"
	"github.com/utafrali/catalog-service/pkg/httputil"
	"github.com/utafrali/catalog-service/pkg/validator"
)

// BrandHandler handles HTTP requests for brand endpoints.
type BrandHandler struct {
	service *service.BrandService
	logger  *slog.Logger
}

// NewBrandHandler creates a new brand HTTP handler.
func NewBrandHandler(svc *service.BrandService, logger *slog.Logger) *BrandHandler {
	return &BrandHandler{
		service: svc,
		logger:  logger,
	}
}

// CreateBrandRequest is the JSON request body for creating a brand.
type CreateBrandRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=255"`
	IsActive bool   `json:"is_active"`
}

// UpdateBrandRequest is the JSON request body for updating a brand.
type UpdateBrandRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=255"`
	IsActive *bool   `json:"is_active"`
}

// ListBrands handles GET /api/v1/brands
func (h *BrandHandler) ListBrands(w http.ResponseWriter, r *http.Request) {
	activeOnly := false
	if v := r.URL.Query().Get("active"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "active must be true or false"},
			})
			return
		}
		activeOnly = parsed
	}

	brands, err := h.service.ListBrands(r.Context(), activeOnly)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: brands})
}

// GetBrand handles GET /api/v1/brands/{idOrSlug}
func (h *BrandHandler) GetBrand(w http.ResponseWriter, r *http.Request) {
	idOrSlug := chi.URLParam(r, "idOrSlug")

	var (
		brand *domain.Brand
		err   error
	)
	if _, parseErr := uuid.Parse(idOrSlug); parseErr == nil {
		brand, err = h.service.GetBrand(r.Context(), idOrSlug)
	} else {
		brand, err = h.service.GetBrandBySlug(r.Context(), idOrSlug)
	}
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: brand})
}

// CreateBrand handles POST /api/v1/brands
func (h *BrandHandler) CreateBrand(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req CreateBrandRequest
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

	brand, err := h.service.CreateBrand(r.Context(), &service.CreateBrandInput{
		Name:     req.Name,
		IsActive: req.IsActive,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: brand})
}

// UpdateBrand handles PUT /api/v1/brands/{id}
func (h *BrandHandler) UpdateBrand(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req UpdateBrandRequest
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

	brand, err := h.service.UpdateBrand(r.Context(), id.String(), &service.UpdateBrandInput{
		Name:     req.Name,
		IsActive: req.IsActive,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: brand})
}

// DeleteBrand handles DELETE /api/v1/brands/{id}
func (h *BrandHandler) DeleteBrand(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.DeleteBrand(r.Context(), id.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"id": id.String(), "status": "deleted"}})
}
