package family

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hmalik/clipstash/internal/user"
	"github.com/hmalik/clipstash/pkg/middleware"
	"github.com/hmalik/clipstash/pkg/response"
)

// Handler handles HTTP requests for family group operations
type Handler struct {
	service *Service
}

// NewHandler creates a new family group handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for family group endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Post("/join", h.Join)
	r.Post("/decline", h.Decline)
	r.Get("/{id}", h.Get)
	r.Post("/{id}/invite", h.Invite)
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

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrGroupNotFound), errors.Is(err, ErrInvitationNotFound),
		errors.Is(err, ErrMemberNotFound), errors.Is(err, user.ErrUserNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrAccessDenied), errors.Is(err, ErrEmailMismatch):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrAlreadyInGroup), errors.Is(err, ErrGroupFull),
		errors.Is(err, ErrLastOwner):
		response.Conflict(w, err.Error())
	case errors.Is(err, ErrInvalidName), errors.Is(err, ErrInvalidRole),
		errors.Is(err, ErrInvitationExpired):
		response.BadRequest(w, err.Error())
	default:
		response.InternalError(w, "Internal server error")
	}
}

// Create handles POST /family
// @Summary      Create a family group
// @Tags         family
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateGroupRequest true "Group"
// @Success      201 {object} GroupResponse
// @Router       /family [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := principalID(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	g, err := h.service.Create(r.Context(), uid, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, g.ToResponse(true))
}

// Get handles GET /family/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	uid, ok := principalID(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	g, includeInvitations, err := h.service.Get(r.Context(), uid, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, g.ToResponse(includeInvitations))
}

// Invite handles POST /family/{id}/invite
func (h *Handler) Invite(w http.ResponseWriter, r *http.Request) {
	uid, ok := principalID(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	var req InviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	g, err := h.service.Invite(r.Context(), uid, id, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, g.ToResponse(true))
}

// Join handles POST /family/join
func (h *Handler) Join(w http.ResponseWriter, r *http.Request) {
	uid, ok := principalID(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req JoinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	g, err := h.service.Join(r.Context(), uid, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, g.ToResponse(false))
}

// Decline handles POST /family/decline
func (h *Handler) Decline(w http.ResponseWriter, r *http.Request) {
	uid, ok := principalID(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req JoinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.service.Decline(r.Context(), uid, &req); err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Invitation declined"})
}

// UpdateMember handles PUT /family/{id}/members/{userId}
func (h *Handler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	uid, ok := principalID(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}
	targetID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userId"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	var req UpdateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	g, err := h.service.UpdateMember(r.Context(), uid, id, targetID, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, g.ToResponse(false))
}

// RemoveMember handles DELETE /family/{id}/members/{userId}
func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	uid, ok := principalID(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}
	targetID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userId"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	g, err := h.service.RemoveMember(r.Context(), uid, id, targetID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, g.ToResponse(false))
}
