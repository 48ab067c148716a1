package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour, 24*time.Hour)

	signed, expiresAt, err := svc.SignAccess("user-123")
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := svc.ParseAccess(signed)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
}

func TestTokenExpired(t *testing.T) {
	svc := NewTokenService("test-secret", -time.Minute, 24*time.Hour)

	signed, _, err := svc.SignAccess("user-123")
	require.NoError(t, err)

	_, err = svc.ParseAccess(signed)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenMalformed(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour, 24*time.Hour)

	_, err := svc.ParseAccess("not-a-jwt")
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestTokenWrongSecret(t *testing.T) {
	issuer := NewTokenService("secret-a", time.Hour, 24*time.Hour)
	verifier := NewTokenService("secret-b", time.Hour, 24*time.Hour)

	signed, _, err := issuer.SignAccess("user-123")
	require.NoError(t, err)

	_, err = verifier.ParseAccess(signed)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestRefreshTokenNotAcceptedAsAccess(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour, 24*time.Hour)

	refresh, _, err := svc.SignRefresh("user-123")
	require.NoError(t, err)

	_, err = svc.ParseAccess(refresh)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	claims, err := svc.ParseRefresh(refresh)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
}
