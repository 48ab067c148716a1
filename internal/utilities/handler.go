package utilities

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hmalik/clipstash/pkg/response"
)

// Handler handles HTTP requests for utility operations
type Handler struct {
	service *Service
}

// NewHandler creates a new utilities handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for utility endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/validate-content", h.Validate)
	r.Post("/format-content", h.Format)
	r.Post("/analyze-content", h.Analyze)
	r.Post("/batch-process", h.Batch)
	r.Get("/supported-formats", h.SupportedFormats)

	return r
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidOperation), errors.Is(err, ErrInvalidType),
		errors.Is(err, ErrBatchTooLarge), errors.Is(err, ErrInvalidJSON):
		response.BadRequest(w, err.Error())
	default:
		response.InternalError(w, "Internal server error")
	}
}

// Validate handles POST /utilities/validate-content
// @Summary      Validate content against its declared type
// @Tags         utilities
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body ValidateRequest true "Content"
// @Success      200 {object} ValidateResponse
// @Router       /utilities/validate-content [post]
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	resp, err := h.service.Validate(&req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, resp)
}

// Format handles POST /utilities/format-content
func (h *Handler) Format(w http.ResponseWriter, r *http.Request) {
	var req FormatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	resp, err := h.service.Format(&req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, resp)
}

// Analyze handles POST /utilities/analyze-content
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	response.JSON(w, http.StatusOK, h.service.Analyze(&req))
}

// Batch handles POST /utilities/batch-process
func (h *Handler) Batch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	results, err := h.service.Batch(&req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{"results": results})
}

// SupportedFormats handles GET /utilities/supported-formats
func (h *Handler) SupportedFormats(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.service.SupportedFormats())
}
