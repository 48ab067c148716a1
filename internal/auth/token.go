package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token verification failure modes. Each maps to a distinct 401 message so
// clients can tell an expired token from a malformed one.
var (
	ErrTokenExpired   = errors.New("Token expired")
	ErrTokenMalformed = errors.New("Malformed token")
	ErrWrongTokenType = errors.New("Wrong token type")
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// Claims binds a principal to a signed, time-limited credential.
type Claims struct {
	UserID    string `json:"uid"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// TokenService signs and parses HS256 JWTs.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenService creates a token service with the given signing secret.
func NewTokenService(secret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// SignAccess issues an access token for the user.
func (s *TokenService) SignAccess(userID string) (string, time.Time, error) {
	return s.sign(userID, tokenTypeAccess, s.accessTTL)
}

// SignRefresh issues a refresh token for the user.
func (s *TokenService) SignRefresh(userID string) (string, time.Time, error) {
	return s.sign(userID, tokenTypeRefresh, s.refreshTTL)
}

func (s *TokenService) sign(userID, typ string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(ttl)
	claims := &Claims{
		UserID:    userID,
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseAccess verifies an access token: signature first, then expiry.
func (s *TokenService) ParseAccess(tokenStr string) (*Claims, error) {
	return s.parse(tokenStr, tokenTypeAccess)
}

// ParseRefresh verifies a refresh token.
func (s *TokenService) ParseRefresh(tokenStr string) (*Claims, error) {
	return s.parse(tokenStr, tokenTypeRefresh)
}

func (s *TokenService) parse(tokenStr, typ string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenMalformed
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenMalformed
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenMalformed
	}
	if claims.TokenType != typ {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}
