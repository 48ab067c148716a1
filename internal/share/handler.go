package share

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hmalik/clipstash/internal/clipboard"
	"github.com/hmalik/clipstash/internal/user"
	"github.com/hmalik/clipstash/pkg/middleware"
	"github.com/hmalik/clipstash/pkg/response"
)

// Handler handles HTTP requests for share operations
type Handler struct {
	service *Service
}

// NewHandler creates a new share handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for share endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/received", h.Received)
	r.Get("/sent", h.Sent)
	r.Get("/stats", h.Stats)
	r.Get("/analytics", h.Analytics)
	r.Put("/{entryId}/{userId}", h.Update)
	r.Delete("/{entryId}/{userId}", h.Remove)

	return r
}

func principalID(r *http.Request) (primitive.ObjectID, bool) {
	id, ok := middleware.GetUserID(r.Context())
	if !ok {
		return primitive.NilObjectID, false
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrShareNotFound), errors.Is(err, clipboard.ErrEntryNotFound),
		errors.Is(err, user.ErrUserNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrAccessDenied):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrInvalidLevel), errors.Is(err, ErrSelfShare):
		response.BadRequest(w, err.Error())
	default:
		response.InternalError(w, "Internal server error")
	}
}

func shareIDs(r *http.Request) (entryID, targetID primitive.ObjectID, err error) {
	entryID, err = primitive.ObjectIDFromHex(chi.URLParam(r, "entryId"))
	if err != nil {
		return
	}
	targetID, err = primitive.ObjectIDFromHex(chi.URLParam(r, "userId"))
	return
}

// Create handles POST /shares
// @Summary      Share an entry with a user
// @Tags         shares
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateShareRequest true "Share"
// @Success      201 {object} clipboard.EntryResponse
// @Failure      403 {object} map[string]string
// @Router       /shares [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := principalID(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreateShareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	e, err := h.service.Create(r.Context(), uid, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, e.ToResponse(uid.Hex()))
}

// Update handles PUT /shares/{entryId}/{userId}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	uid, ok := principalID(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}
	entryID, targetID, err := shareIDs(r)
	if err != nil {
		response.BadRequest(w, "Invalid entry or user ID")
		return
	}

	var req UpdateShareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	e, err := h.service.Update(r.Context(), uid, entryID, targetID, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, e.ToResponse(uid.Hex()))
}

// Remove handles DELETE /shares/{entryId}/{userId}
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	uid, ok := principalID(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}
	entryID, targetID, err := shareIDs(r)
	if err != nil {
		response.BadRequest(w, "Invalid entry or user ID")
		return
	}

	if err := h.service.Remove(r.Context(), uid, entryID, targetID); err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Share removed successfully"})
}

// Received handles GET /shares/received
func (h *Handler) Received(w http.ResponseWriter, r *http.Request) {
	h.listShared(w, r, h.service.Received)
}

// Sent handles GET /shares/sent
func (h *Handler) Sent(w http.ResponseWriter, r *http.Request) {
	h.listShared(w, r, h.service.Sent)
}

// Stats handles GET /shares/stats
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	uid, ok := principalID(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	stats, err := h.service.Stats(r.Context(), uid)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, stats)
}

// Analytics handles GET /shares/analytics
func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	uid, ok := principalID(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	analytics, err := h.service.Analytics(r.Context(), uid)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, analytics)
}

type listFunc func(ctx context.Context, principalID primitive.ObjectID, page, perPage int) ([]*clipboard.Entry, int, error)

func (h *Handler) listShared(w http.ResponseWriter, r *http.Request, list listFunc) {
	uid, ok := principalID(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	entries, total, err := list(r.Context(), uid, page, perPage)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := make([]*clipboard.EntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, e.ToResponse(uid.Hex()))
	}
	meta := &response.Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: (total + perPage - 1) / perPage,
	}
	response.JSONWithMeta(w, http.StatusOK, resp, meta)
}
