package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/catalog-service/internal/service"
	"github.com/utafrali/catalog-service/pkg/httputil"
	"github.com/utafrali/catalog-service/pkg/validator"
)

// ProductTypeHandler handles HTTP requests for product type endpoints,
// including the permitted-attribute set each type owns.
type ProductTypeHandler struct {
	service *service.ProductTypeService
	logger  *slog.Logger
}

// NewProductTypeHandler creates a new product type HTTP handler.
func NewProductTypeHandler(svc *service.ProductTypeService, logger *slog.Logger) *ProductTypeHandler {
	return &ProductTypeHandler{
		service: svc,
		logger:  logger,
	}
}

// CreateProductTypeRequest is the JSON request body for creating a product type.
type CreateProductTypeRequest struct {
	Name     string  `json:"name" validate:"required,min=1,max=255"`
	ParentID *string `json:"parent_id" validate:"omitempty,uuid"`
}

// UpdateProductTypeRequest is the JSON request body for updating a product type.
type UpdateProductTypeRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=255"`
	ParentID *string `json:"parent_id" validate:"omitempty,uuid"`
}

// ListProductTypes handles GET /api/v1/product-types
func (h *ProductTypeHandler) ListProductTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.service.ListProductTypes(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: types})
}

// GetProductType handles GET /api/v1/product-types/{id}
// The response includes the type's permitted attributes.
func (h *ProductTypeHandler) GetProductType(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	pt, err := h.service.GetProductType(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: pt})
}

// CreateProductType handles POST /api/v1/product-types
func (h *ProductTypeHandler) CreateProductType(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req CreateProductTypeRequest
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

	pt, err := h.service.CreateProductType(r.Context(), &service.CreateProductTypeInput{
		Name:     req.Name,
		ParentID: req.ParentID,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: pt})
}

// UpdateProductType handles PUT /api/v1/product-types/{id}
func (h *ProductTypeHandler) UpdateProductType(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req UpdateProductTypeRequest
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

	pt, err := h.service.UpdateProductType(r.Context(), id.String(), &service.UpdateProductTypeInput{
		Name:     req.Name,
		ParentID: req.ParentID,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: pt})
}

// DeleteProductType handles DELETE /api/v1/product-types/{id}
// Types referenced by products, lines, or child types return 409.
func (h *ProductTypeHandler) DeleteProductType(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.DeleteProductType(r.Context(), id.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"id": id.String(), "status": "deleted"}})
}

// ListAttributes handles GET /api/v1/product-types/{id}/attributes
func (h *ProductTypeHandler) ListAttributes(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	pt, err := h.service.GetProductType(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: pt.Attributes})
}

// AddAttribute handles POST /api/v1/product-types/{id}/attributes/{attributeID}
// Linking an already-permitted attribute returns 409.
func (h *ProductTypeHandler) AddAttribute(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	attributeID, ok := httputil.ParseUUID(w, chi.URLParam(r, "attributeID"))
	if !ok {
		return
	}

	if err := h.service.AddAttribute(r.Context(), id.String(), attributeID.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: map[string]string{
		"product_type_id": id.String(),
		"attribute_id":    attributeID.String(),
	}})
}

// RemoveAttribute handles DELETE /api/v1/product-types/{id}/attributes/{attributeID}
func (h *ProductTypeHandler) RemoveAttribute(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	attributeID, ok := httputil.ParseUUID(w, chi.URLParam(r, "attributeID"))
	if !ok {
		return
	}

	if err := h.service.RemoveAttribute(r.Context(), id.String(), attributeID.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "removed"}})
}

// ListEligibleValues handles GET /api/v1/product-types/{id}/attribute-values
// Only values of attributes permitted for the type are returned.
func (h *ProductTypeHandler) ListEligibleValues(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	values, err := h.service.ListEligibleValues(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: values})
}
