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

// AttributeHandler handles HTTP requests for attribute and attribute value
// endpoints.
type AttributeHandler struct {
	service *service.AttributeService
	logger  *slog.Logger
}

// NewAttributeHandler creates a new attribute HTTP handler.
func NewAttributeHandler(svc *service.AttributeService, logger *slog.Logger) *AttributeHandler {
	return &AttributeHandler{
		service: svc,
		logger:  logger,
	}
}

// AttributeRequest is the JSON request body for creating or renaming an
// attribute.
type AttributeRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
}

// AttributeValueRequest is the JSON request body for creating or updating an
// attribute value.
type AttributeValueRequest struct {
	Value string `json:"value" validate:"required,min=1,max=255"`
}

// ListAttributes handles GET /api/v1/attributes
func (h *AttributeHandler) ListAttributes(w http.ResponseWriter, r *http.Request) {
	attributes, err := h.service.ListAttributes(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: attributes})
}

// GetAttribute handles GET /api/v1/attributes/{id}
func (h *AttributeHandler) GetAttribute(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	attribute, err := h.service.GetAttribute(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: attribute})
}

// CreateAttribute handles POST /api/v1/attributes
func (h *AttributeHandler) CreateAttribute(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req AttributeRequest
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

	attribute, err := h.service.CreateAttribute(r.Context(), req.Name)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: attribute})
}

// UpdateAttribute handles PUT /api/v1/attributes/{id}
func (h *AttributeHandler) UpdateAttribute(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req AttributeRequest
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

	attribute, err := h.service.UpdateAttribute(r.Context(), id.String(), req.Name)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: attribute})
}

// DeleteAttribute handles DELETE /api/v1/attributes/{id}
func (h *AttributeHandler) DeleteAttribute(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.DeleteAttribute(r.Context(), id.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"id": id.String(), "status": "deleted"}})
}

// ListValues handles GET /api/v1/attributes/{id}/values
func (h *AttributeHandler) ListValues(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	values, err := h.service.ListAttributeValues(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: values})
}

// CreateValue handles POST /api/v1/attributes/{id}/values
func (h *AttributeHandler) CreateValue(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req AttributeValueRequest
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

	value, err := h.service.CreateAttributeValue(r.Context(), id.String(), req.Value)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: value})
}

// GetValue handles GET /api/v1/attribute-values/{id}
func (h *AttributeHandler) GetValue(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	value, err := h.service.GetAttributeValue(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: value})
}

// UpdateValue handles PUT /api/v1/attribute-values/{id}
func (h *AttributeHandler) UpdateValue(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req AttributeValueRequest
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

	value, err := h.service.UpdateAttributeValue(r.Context(), id.String(), req.Value)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: value})
}

// DeleteValue handles DELETE /api/v1/attribute-values/{id}
func (h *AttributeHandler) DeleteValue(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.DeleteAttributeValue(r.Context(), id.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"id": id.String(), "status": "deleted"}})
}
