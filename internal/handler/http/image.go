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

// ImageHandler handles HTTP requests for product image endpoints.
type ImageHandler struct {
	service *service.ProductLineService
	logger  *slog.Logger
}

// NewImageHandler creates a new product image HTTP handler.
func NewImageHandler(svc *service.ProductLineService, logger *slog.Logger) *ImageHandler {
	return &ImageHandler{
		service: svc,
		logger:  logger,
	}
}

// CreateImageRequest is the JSON request body for adding an image to a line.
type CreateImageRequest struct {
	URL          string `json:"url" validate:"required,url"`
	AltText      string `json:"alt_text" validate:"omitempty,max=255"`
	DisplayOrder *int   `json:"display_order" validate:"omitempty,gte=1"`
}

// UpdateImageRequest is the JSON request body for updating an image.
type UpdateImageRequest struct {
	URL          *string `json:"url" validate:"omitempty,url"`
	AltText      *string `json:"alt_text" validate:"omitempty,max=255"`
	DisplayOrder *int    `json:"display_order" validate:"omitempty,gte=1"`
}

// ListImages handles GET /api/v1/product-lines/{id}/images
// Images are returned in display order.
func (h *ImageHandler) ListImages(w http.ResponseWriter, r *http.Request) {
	lineID, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	images, err := h.service.ListImages(r.Context(), lineID.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: images})
}

// CreateImage handles POST /api/v1/product-lines/{id}/images
// An explicit display_order already in use within the line returns 409.
func (h *ImageHandler) CreateImage(w http.ResponseWriter, r *http.Request) {
	lineID, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req CreateImageRequest
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

	img, err := h.service.CreateImage(r.Context(), lineID.String(), &service.CreateImageInput{
		URL:          req.URL,
		AltText:      req.AltText,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: img})
}

// UpdateImage handles PUT /api/v1/product-images/{id}
func (h *ImageHandler) UpdateImage(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req UpdateImageRequest
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

	img, err := h.service.UpdateImage(r.Context(), id.String(), &service.UpdateImageInput{
		URL:          req.URL,
		AltText:      req.AltText,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: img})
}

// DeleteImage handles DELETE /api/v1/product-images/{id}
func (h *ImageHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.DeleteImage(r.Context(), id.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"id": id.String(), "status": "deleted"}})
}
