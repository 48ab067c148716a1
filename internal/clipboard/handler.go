package clipboard

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hmalik/clipstash/internal/product"
	"github.com/hmalik/clipstash/pkg/middleware"
	"github.com/hmalik/clipstash/pkg/response"
)

// Handler handles HTTP requests for clipboard operations
type Handler struct {
	service *Service
}

// NewHandler creates a new clipboard handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for clipboard endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Post("/search", h.Search)
	r.Post("/bulk", h.Bulk)
	r.Get("/{id}", h.GetByID)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Post("/{id}/favorite", h.Favorite)

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
	case errors.Is(err, ErrEntryNotFound), errors.Is(err, product.ErrProductNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrAccessDenied):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrInvalidType), errors.Is(err, ErrEmptyContent),
		errors.Is(err, ErrBulkTooLarge), errors.Is(err, ErrInvalidAction):
		response.BadRequest(w, err.Error())
	default:
		response.InternalError(w, "Internal server error")
	}
}

// Create handles POST /clipboard
// @Summary      Create a clipboard entry
// @Tags         clipboard
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateEntryRequest true "Entry"
// @Success      201 {object} EntryResponse
// @Failure      403 {object} map[string]string
// @Router       /clipboard [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := principalID(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreateEntryRequest
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

// List handles GET /clipboard?productId=...
// @Summary      List visible entries in a product
// @Tags         clipboard
// @Produce      json
// @Security     BearerAuth
// @Param        productId query string true "Product ID"
// @Success      200 {object} map[string]interface{}
// @Router       /clipboard [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := principalID(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}
	productID, err := primitive.ObjectIDFromHex(r.URL.Query().Get("productId"))
	if err != nil {
		response.BadRequest(w, "Invalid or missing productId")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	page, perPage = normalizePaging(page, perPage)

	entries, total, err := h.service.List(r.Context(), uid, productID, page, perPage)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.writeEntries(w, uid, entries, total, page, perPage)
}

// Search handles POST /clipboard/search
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	uid, ok := principalID(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	page, perPage := normalizePaging(req.Page, req.PerPage)
	entries, total, err := h.service.Search(r.Context(), uid, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.writeEntries(w, uid, entries, total, page, perPage)
}

// Bulk handles POST /clipboard/bulk
func (h *Handler) Bulk(w http.ResponseWriter, r *http.Request) {
	uid, ok := principalID(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req BulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	results, err := h.service.Bulk(r.Context(), uid, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{"results": results})
}

// GetByID handles GET /clipboard/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	uid, ok := principalID(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid entry ID")
		return
	}

	e, err := h.service.GetByID(r.Context(), uid, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, e.ToResponse(uid.Hex()))
}

// Update handles PUT /clipboard/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	uid, ok := principalID(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid entry ID")
		return
	}

	var req UpdateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	e, err := h.service.Update(r.Context(), uid, id, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, e.ToResponse(uid.Hex()))
}

// Delete handles DELETE /clipboard/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, ok := principalID(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid entry ID")
		return
	}

	if err := h.service.Delete(r.Context(), uid, id); err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Entry deleted successfully"})
}

// Favorite handles POST /clipboard/{id}/favorite
func (h *Handler) Favorite(w http.ResponseWriter, r *http.Request) {
	uid, ok := principalID(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid entry ID")
		return
	}

	e, favorited, err := h.service.ToggleFavorite(r.Context(), uid, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{
		"entry":       e.ToResponse(uid.Hex()),
		"is_favorite": favorited,
	})
}

func (h *Handler) writeEntries(w http.ResponseWriter, uid primitive.ObjectID, entries []*Entry, total, page, perPage int) {
	resp := make([]*EntryResponse, 0, len(entries))
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
