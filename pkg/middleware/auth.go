package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/hmalik/clipstash/pkg/response"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// PrincipalKey is the context key for the authenticated principal
	PrincipalKey ContextKey = "principal"
)

// Principal identifies the authenticated user for the current request.
type Principal struct {
	ID   string
	Role string
}

// Verifier checks a bearer token and resolves the principal behind it.
// requireGrant additionally demands at least one active resource grant;
// routes that only need a valid identity (profile, first product) pass false.
type Verifier interface {
	Verify(ctx context.Context, token string, requireGrant bool) (Principal, error)
}

// Auth authenticates requests with a bearer token.
func Auth(v Verifier) func(http.Handler) http.Handler {
	return authMiddleware(v, false)
}

// AuthWithGrant authenticates requests and rejects principals that hold
// no active resource grant anywhere in the system.
func AuthWithGrant(v Verifier) func(http.Handler) http.Handler {
	return authMiddleware(v, true)
}

func authMiddleware(v Verifier, requireGrant bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				response.Unauthorized(w, "Authorization header required")
				return
			}

			// Extract token from "Bearer <token>"
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				response.Unauthorized(w, "Invalid authorization header format")
				return
			}

			principal, err := v.Verify(r.Context(), parts[1], requireGrant)
			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			ctx := context.WithValue(r.Context(), PrincipalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetPrincipal extracts the authenticated principal from the request context.
func GetPrincipal(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(PrincipalKey).(Principal)
	return p, ok
}

// GetUserID extracts the authenticated user ID from the request context.
func GetUserID(ctx context.Context) (string, bool) {
	p, ok := GetPrincipal(ctx)
	if !ok {
		return "", false
	}
	return p.ID, true
}
