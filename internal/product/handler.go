package product

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hmalik/clipstash/pkg/middleware"
	"github.com/hmalik/clipstash/pkg/response"
)

// Handler handles HTTP requests for product operations
type Handler struct {
	service *Service
}

// NewHandler creates a new product handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for product endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.GetByID)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)

	r.Post("/{id}/invite", h.Invite)
	r.Post("/{id}/join", h.Join)
	r.Put("/{id}/members/{userId}", h.UpdateMember)
	r.Delete("/{id}/members/{userId}", h.RemoveMember)

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

func urlObjectID(r *http.Request, key string) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(chi.URLParam(r, key))
}

// writeServiceError maps product service errors to the HTTP envelope.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrProductNotFound):
		response.NotFound(w, ErrProductNotFound.Error())
	case errors.Is(err, ErrAccessDenied), errors.Is(err, ErrOwnerImmutable):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrInvalidName):
		response.ValidationErrors(w, []response.FieldError{{Field: "name", Message: err.Error()}})
	case errors.Is(err, ErrDuplicateName),
		errors.Is(err, ErrAlreadyMember),
		errors.Is(err, ErrProductFull),
		errors.Is(err, ErrLastAdmin),
		errors.Is(err, ErrProductNotEmpty),
		errors.Is(err, ErrInvitationExpired):
		response.Conflict(w, err.Error())
	case errors.Is(err, ErrInvitationNotFound):
		response.NotFound(w, err.Error())
	default:
		response.InternalError(w, "Internal server error")
	}
}

// Create handles POST /products
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateProductRequest true "Product creation request"
// @Success      201 {object} ProductResponse
// @Failure      409 {object} map[string]string
// @Router       /products [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := principalID(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	p, err := h.service.Create(r.Context(), uid, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, p.ToResponse())
}

// List handles GET /products
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
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
	if perPage < 1 {
		perPage = 20
	}

	products, total, err := h.service.List(r.Context(), uid, page, perPage)
	if err != nil {
		response.InternalError(w, "Failed to list products")
		return
	}

	resp := make([]*ProductResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, p.ToResponse())
	}
	meta := &response.Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: (total + perPage - 1) / perPage,
	}
	response.JSONWithMeta(w, http.StatusOK, resp, meta)
}

// GetByID handles GET /products/{id}
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Product ID"
// @Success      200 {object} ProductResponse
// @Failure      404 {object} map[string]string
// @Router       /products/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	uid, ok := principalID(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}
	id, err := urlObjectID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid product ID")
		return
	}

	p, err := h.service.GetByID(r.Context(), uid, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, p.ToResponse())
}

// Update handles PUT /products/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	uid, ok := principalID(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}
	id, err := urlObjectID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid product ID")
		return
	}

	var req UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	p, err := h.service.Update(r.Context(), uid, id, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, p.ToResponse())
}

// Delete handles DELETE /products/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, ok := principalID(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}
	id, err := urlObjectID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid product ID")
		return
	}

	if err := h.service.Delete(r.Context(), uid, id); err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Product deleted successfully"})
}

// Invite handles POST /products/{id}/invite
// @Summary      Invite a user to a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Product ID"
// @Param        request body InviteRequest true "Invitation"
// @Success      200 {object} ProductResponse
// @Failure      409 {object} map[string]string
// @Router       /products/{id}/invite [post]
func (h *Handler) Invite(w http.ResponseWriter, r *http.Request) {
	uid, ok := principalID(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}
	id, err := urlObjectID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid product ID")
		return
	}

	var req InviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	p, err := h.service.Invite(r.Context(), uid, id, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, p.ToResponse())
}

// Join handles POST /products/{id}/join
func (h *Handler) Join(w http.ResponseWriter, r *http.Request) {
	uid, ok := principalID(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}
	id, err := urlObjectID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid product ID")
		return
	}

	p, err := h.service.Join(r.Context(), uid, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, p.ToResponse())
}

// UpdateMember handles PUT /products/{id}/members/{userId}
func (h *Handler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	uid, ok := principalID(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}
	id, err := urlObjectID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid product ID")
		return
	}
	targetID, err := urlObjectID(r, "userId")
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	var req UpdateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	p, err := h.service.UpdateMember(r.Context(), uid, id, targetID, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, p.ToResponse())
}

// RemoveMember handles DELETE /products/{id}/members/{userId}
func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	uid, ok := principalID(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}
	id, err := urlObjectID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid product ID")
		return
	}
	targetID, err := urlObjectID(r, "userId")
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	if err := h.service.RemoveMember(r.Context(), uid, id, targetID); err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Member removed successfully"})
}
