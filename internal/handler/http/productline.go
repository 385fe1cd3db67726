package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/utafrali/catalog-service/internal/service"
	"github.com/utafrali/catalog-service/pkg/httputil"
	"github.com/utafrali/catalog-service/pkg/validator"
)

// ProductLineHandler handles HTTP requests for product line endpoints,
// including their attribute values.
type ProductLineHandler struct {
	service *service.ProductLineService
	logger  *slog.Logger
}

// NewProductLineHandler creates a new product line HTTP handler.
func NewProductLineHandler(svc *service.ProductLineService, logger *slog.Logger) *ProductLineHandler {
	return &ProductLineHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// CreateProductLineRequest is the JSON request body for creating a product
// line. DisplayOrder is optional; when omitted the line takes the next free
// position within its product.
type CreateProductLineRequest struct {
	ProductTypeID     string           `json:"product_type_id" validate:"required,uuid"`
	SKU               string           `json:"sku" validate:"required,min=1,max=255"`
	SecondName        string           `json:"second_name" validate:"omitempty,max=255"`
	SecondDescription string           `json:"second_description"`
	Price             decimal.Decimal  `json:"price"`
	Weight            *decimal.Decimal `json:"weight"`
	Quantity          int              `json:"quantity" validate:"gte=0"`
	IsActive          bool             `json:"is_active"`
	DisplayOrder      *int             `json:"display_order" validate:"omitempty,gte=1"`
}

// UpdateProductLineRequest is the JSON request body for updating a product
// line. An omitted display_order keeps the stored order.
type UpdateProductLineRequest struct {
	SKU               *string          `json:"sku" validate:"omitempty,min=1,max=255"`
	SecondName        *string          `json:"second_name" validate:"omitempty,max=255"`
	SecondDescription *string          `json:"second_description"`
	Price             *decimal.Decimal `json:"price"`
	Weight            *decimal.Decimal `json:"weight"`
	Quantity          *int             `json:"quantity" validate:"omitempty,gte=0"`
	IsActive          *bool            `json:"is_active"`
	DisplayOrder      *int             `json:"display_order" validate:"omitempty,gte=1"`
}

// AttachAttributeValueRequest is the JSON request body for attaching an
// attribute value to a line.
type AttachAttributeValueRequest struct {
	AttributeValueID string `json:"attribute_value_id" validate:"required,uuid"`
}

// --- Handlers ---

// ListLines handles GET /api/v1/products/{id}/lines
// Lines are returned in display order.
func (h *ProductLineHandler) ListLines(w http.ResponseWriter, r *http.Request) {
	productID, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	lines, err := h.service.ListLines(r.Context(), productID.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: lines})
}

// CreateLine handles POST /api/v1/products/{id}/lines
// An explicit display_order already in use within the product returns 409.
func (h *ProductLineHandler) CreateLine(w http.ResponseWriter, r *http.Request) {
	productID, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req CreateProductLineRequest
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

	line, err := h.service.CreateLine(r.Context(), productID.String(), &service.CreateProductLineInput{
		ProductTypeID:     req.ProductTypeID,
		SKU:               req.SKU,
		SecondName:        req.SecondName,
		SecondDescription: req.SecondDescription,
		Price:             req.Price,
		Weight:            req.Weight,
		Quantity:          req.Quantity,
		IsActive:          req.IsActive,
		DisplayOrder:      req.DisplayOrder,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: line})
}

// GetLine handles GET /api/v1/product-lines/{id}
// Returns the line with its flattened attributes and ordered images.
func (h *ProductLineHandler) GetLine(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	detail, err := h.service.GetLineDetail(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: detail})
}

// UpdateLine handles PUT /api/v1/product-lines/{id}
// Carrying the stored display_order re-validates and succeeds; a sibling's
// order returns 409.
func (h *ProductLineHandler) UpdateLine(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req UpdateProductLineRequest
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

	line, err := h.service.UpdateLine(r.Context(), id.String(), &service.UpdateProductLineInput{
		SKU:               req.SKU,
		SecondName:        req.SecondName,
		SecondDescription: req.SecondDescription,
		Price:             req.Price,
		Weight:            req.Weight,
		Quantity:          req.Quantity,
		IsActive:          req.IsActive,
		DisplayOrder:      req.DisplayOrder,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: line})
}

// DeleteLine handles DELETE /api/v1/product-lines/{id}
func (h *ProductLineHandler) DeleteLine(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.DeleteLine(r.Context(), id.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"id": id.String(), "status": "deleted"}})
}

// ListAttributeValues handles GET /api/v1/product-lines/{id}/attribute-values
func (h *ProductLineHandler) ListAttributeValues(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	links, err := h.service.ListAttributeValues(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: links})
}

// AttachAttributeValue handles POST /api/v1/product-lines/{id}/attribute-values
// A value of a non-permitted attribute returns 400; a second value of an
// attribute the line already carries returns 409.
func (h *ProductLineHandler) AttachAttributeValue(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req AttachAttributeValueRequest
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

	link, err := h.service.AttachAttributeValue(r.Context(), id.String(), req.AttributeValueID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: link})
}

// RebindAttributeValue handles PUT /api/v1/product-lines/{id}/attribute-values/{valueID}
// The body carries the replacement value. The old link is excluded from
// duplicate validation so swapping between values of the same attribute
// succeeds; both changes apply atomically.
func (h *ProductLineHandler) RebindAttributeValue(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	valueID, ok := httputil.ParseUUID(w, chi.URLParam(r, "valueID"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req AttachAttributeValueRequest
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

	link, err := h.service.RebindAttributeValue(r.Context(), id.String(), valueID.String(), req.AttributeValueID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: link})
}

// DetachAttributeValue handles DELETE /api/v1/product-lines/{id}/attribute-values/{valueID}
func (h *ProductLineHandler) DetachAttributeValue(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	valueID, ok := httputil.ParseUUID(w, chi.URLParam(r, "valueID"))
	if !ok {
		return
	}

	if err := h.service.DetachAttributeValue(r.Context(), id.String(), valueID.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "detached"}})
}
