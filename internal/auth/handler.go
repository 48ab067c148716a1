package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hmalik/clipstash/pkg/response"
)

// Handler handles HTTP requests for authentication
type Handler struct {
	service *Service
}

// NewHandler creates a new auth handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for auth endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Post("/refresh", h.Refresh)
	r.Post("/logout", h.Logout)

	return r
}

// Register handles POST /auth/register
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration request"
// @Success      201 {object} TokenResponse
// @Failure      400 {object} map[string]string
// @Failure      409 {object} map[string]string
// @Router       /auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if errs := ValidateRegister(&req); len(errs) > 0 {
		response.ValidationErrors(w, errs)
		return
	}

	u, err := h.service.Register(r.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrEmailAlreadyInUse) {
			response.Conflict(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to register")
		return
	}

	tokens, err := h.service.issueTokens(u)
	if err != nil {
		response.InternalError(w, "Failed to issue tokens")
		return
	}
	tokens.User = u.ToProfileResponse()

	response.JSON(w, http.StatusCreated, tokens)
}

// Login handles POST /auth/login
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login request"
// @Success      200 {object} TokenResponse
// @Failure      401 {object} map[string]string
// @Router       /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	u, tokens, err := h.service.Login(r.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Unauthorized(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to log in")
		return
	}
	tokens.User = u.ToProfileResponse()

	response.JSON(w, http.StatusOK, tokens)
}

// Refresh handles POST /auth/refresh
// @Summary      Refresh the token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RefreshRequest true "Refresh request"
// @Success      200 {object} TokenResponse
// @Failure      401 {object} map[string]string
// @Router       /auth/refresh [post]
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	tokens, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, ErrTokenExpired),
			errors.Is(err, ErrTokenMalformed),
			errors.Is(err, ErrWrongTokenType),
			errors.Is(err, ErrUserInactive):
			response.Unauthorized(w, err.Error())
		default:
			response.InternalError(w, "Failed to refresh token")
		}
		return
	}

	response.JSON(w, http.StatusOK, tokens)
}

// Logout handles POST /auth/logout. Tokens are stateless; the client drops
// them and the rotated refresh token stops being honored at expiry.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}
