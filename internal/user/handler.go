package user

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hmalik/clipstash/pkg/middleware"
	"github.com/hmalik/clipstash/pkg/response"
)

// Handler handles HTTP requests for user operations
type Handler struct {
	service *Service
}

// NewHandler creates a new user handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for user endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/profile", h.GetProfile)
	r.Put("/profile", h.UpdateProfile)

	r.Get("/friends", h.ListFriends)
	r.Get("/friends/requests", h.ListFriendRequests)
	r.Post("/friends/request", h.SendFriendRequest)
	r.Post("/friends/{userId}/accept", h.AcceptFriendRequest)
	r.Post("/friends/{userId}/decline", h.DeclineFriendRequest)
	r.Delete("/friends/{userId}", h.RemoveFriend)

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

// GetProfile handles GET /users/profile
// @Summary      Get current profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} ProfileResponse
// @Failure      401 {object} map[string]string
// @Router       /users/profile [get]
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	uid, ok := principalID(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	u, err := h.service.GetProfile(r.Context(), uid)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to get profile")
		return
	}

	response.JSON(w, http.StatusOK, u.ToProfileResponse())
}

// UpdateProfile handles PUT /users/profile
// @Summary      Update current profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body UpdateProfileRequest true "Profile fields"
// @Success      200 {object} ProfileResponse
// @Router       /users/profile [put]
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	uid, ok := principalID(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	u, err := h.service.UpdateProfile(r.Context(), uid, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrInvalidUsername):
			response.ValidationErrors(w, []response.FieldError{{Field: "username", Message: err.Error()}})
		default:
			response.InternalError(w, "Failed to update profile")
		}
		return
	}

	response.JSON(w, http.StatusOK, u.ToProfileResponse())
}

// SendFriendRequest handles POST /users/friends/request
func (h *Handler) SendFriendRequest(w http.ResponseWriter, r *http.Request) {
	uid, ok := principalID(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req FriendRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	toID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	if err := h.service.SendFriendRequest(r.Context(), uid, toID); err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrSelfFriendRequest):
			response.BadRequest(w, err.Error())
		case errors.Is(err, ErrAlreadyFriends), errors.Is(err, ErrRequestAlreadySent):
			response.Conflict(w, err.Error())
		default:
			response.InternalError(w, "Failed to send friend request")
		}
		return
	}

	response.JSON(w, http.StatusCreated, map[string]string{"message": "Friend request sent"})
}

// AcceptFriendRequest handles POST /users/friends/{userId}/accept
func (h *Handler) AcceptFriendRequest(w http.ResponseWriter, r *http.Request) {
	h.resolveFriendRequest(w, r, true)
}

// DeclineFriendRequest handles POST /users/friends/{userId}/decline
func (h *Handler) DeclineFriendRequest(w http.ResponseWriter, r *http.Request) {
	h.resolveFriendRequest(w, r, false)
}

func (h *Handler) resolveFriendRequest(w http.ResponseWriter, r *http.Request, accept bool) {
	uid, ok := principalID(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}
	fromID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userId"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	if accept {
		err = h.service.AcceptFriendRequest(r.Context(), uid, fromID)
	} else {
		err = h.service.DeclineFriendRequest(r.Context(), uid, fromID)
	}
	if err != nil {
		switch {
		case errors.Is(err, ErrRequestNotFound), errors.Is(err, ErrUserNotFound):
			response.NotFound(w, err.Error())
		default:
			response.InternalError(w, "Failed to resolve friend request")
		}
		return
	}

	msg := "Friend request declined"
	if accept {
		msg = "Friend request accepted"
	}
	response.JSON(w, http.StatusOK, map[string]string{"message": msg})
}

// RemoveFriend handles DELETE /users/friends/{userId}
func (h *Handler) RemoveFriend(w http.ResponseWriter, r *http.Request) {
	uid, ok := principalID(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}
	friendID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userId"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	if err := h.service.RemoveFriend(r.Context(), uid, friendID); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to remove friend")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Friend removed"})
}

// ListFriends handles GET /users/friends
func (h *Handler) ListFriends(w http.ResponseWriter, r *http.Request) {
	uid, ok := principalID(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	friends, err := h.service.ListFriends(r.Context(), uid)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to list friends")
		return
	}

	resp := make([]*FriendResponse, 0, len(friends))
	for _, f := range friends {
		resp = append(resp, f.ToFriendResponse())
	}
	response.JSON(w, http.StatusOK, resp)
}

// ListFriendRequests handles GET /users/friends/requests
func (h *Handler) ListFriendRequests(w http.ResponseWriter, r *http.Request) {
	uid, ok := principalID(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	senders, requests, err := h.service.ListFriendRequests(r.Context(), uid)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to list friend requests")
		return
	}

	byID := make(map[primitive.ObjectID]*User, len(senders))
	for _, s := range senders {
		byID[s.ID] = s
	}
	resp := make([]*FriendRequestResponse, 0, len(requests))
	for _, req := range requests {
		fr := &FriendRequestResponse{
			FromID:    req.FromID.Hex(),
			CreatedAt: req.CreatedAt.Format(time.RFC3339),
		}
		if s, ok := byID[req.FromID]; ok {
			fr.Username = s.Username
		}
		resp = append(resp, fr)
	}
	response.JSON(w, http.StatusOK, resp)
}
