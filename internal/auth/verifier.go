package auth

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hmalik/clipstash/internal/user"
	"github.com/hmalik/clipstash/pkg/middleware"
)

// Principal resolution failure modes.
var (
	ErrUserInactive = errors.New("User not found or inactive")
	ErrNoGrants     = errors.New("No active access grants")
)

// Verifier resolves bearer tokens to principals for the auth middleware.
// Checks run in order: signature, expiry, principal active, and on
// grant-scoped routes, at least one active resource grant. Ownership is
// recorded as an admin-level access entry, so owners always pass.
type Verifier struct {
	tokens *TokenService
	users  *user.Repository
}

// NewVerifier creates a verifier from the token service and user repository.
func NewVerifier(tokens *TokenService, users *user.Repository) *Verifier {
	return &Verifier{tokens: tokens, users: users}
}

// Verify implements middleware.Verifier.
func (v *Verifier) Verify(ctx context.Context, token string, requireGrant bool) (middleware.Principal, error) {
	claims, err := v.tokens.ParseAccess(token)
	if err != nil {
		return middleware.Principal{}, err
	}

	uid, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return middleware.Principal{}, ErrTokenMalformed
	}

	u, err := v.users.GetByID(ctx, uid)
	if err != nil {
		return middleware.Principal{}, err
	}
	if u == nil || !u.Active {
		return middleware.Principal{}, ErrUserInactive
	}

	if requireGrant && u.ActiveGrantCount(time.Now().UTC()) == 0 {
		return middleware.Principal{}, ErrNoGrants
	}

	return middleware.Principal{ID: u.ID.Hex(), Role: string(u.Role)}, nil
}
