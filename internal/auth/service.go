package auth

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/hmalik/clipstash/internal/user"
	"github.com/hmalik/clipstash/pkg/response"
)

// Common errors
var (
	ErrEmailAlreadyInUse  = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Service handles registration and login
type Service struct {
	users  *user.Repository
	tokens *TokenService
}

// NewService creates a new auth service
func NewService(users *user.Repository, tokens *TokenService) *Service {
	return &Service{users: users, tokens: tokens}
}

// ValidateRegister returns per-field errors for a registration request.
func ValidateRegister(req *RegisterRequest) []response.FieldError {
	var errs []response.FieldError
	if !emailRe.MatchString(strings.TrimSpace(req.Email)) {
		errs = append(errs, response.FieldError{Field: "email", Message: "must be a valid email address"})
	}
	if n := len(strings.TrimSpace(req.Username)); n < 3 || n > 50 {
		errs = append(errs, response.FieldError{Field: "username", Message: "must be between 3 and 50 characters"})
	}
	if len(req.Password) < 8 {
		errs = append(errs, response.FieldError{Field: "password", Message: "must be at least 8 characters"})
	}
	return errs
}

// Register creates a new user account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*user.User, error) {
	existing, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyInUse
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u, err := s.users.Create(ctx, &user.User{
		Email:        req.Email,
		Username:     strings.TrimSpace(req.Username),
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, err
	}
	if u == nil {
		// Unique index raced another registration for the same email.
		return nil, ErrEmailAlreadyInUse
	}
	return u, nil
}

// Login verifies credentials and issues a token pair.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*user.User, *TokenResponse, error) {
	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, nil, err
	}
	if u == nil || !u.Active {
		return nil, nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(u)
	if err != nil {
		return nil, nil, err
	}
	return u, tokens, nil
}

// Refresh rotates a refresh token into a fresh token pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return nil, err
	}

	uid, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, ErrTokenMalformed
	}
	u, err := s.users.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if u == nil || !u.Active {
		return nil, ErrUserInactive
	}

	return s.issueTokens(u)
}

func (s *Service) issueTokens(u *user.User) (*TokenResponse, error) {
	access, expiresAt, err := s.tokens.SignAccess(u.ID.Hex())
	if err != nil {
		return nil, err
	}
	refresh, _, err := s.tokens.SignRefresh(u.ID.Hex())
	if err != nil {
		return nil, err
	}
	return &TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt.Format(time.RFC3339),
	}, nil
}
