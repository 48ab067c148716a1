package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Common errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrAlreadyFriends     = errors.New("users are already friends")
	ErrRequestAlreadySent = errors.New("friend request already pending")
	ErrRequestNotFound    = errors.New("no pending friend request from this user")
	ErrSelfFriendRequest  = errors.New("cannot send a friend request to yourself")
	ErrInvalidUsername    = errors.New("username must be between 3 and 50 characters")
)

// Service handles user business logic
type Service struct {
	repo *Repository
}

// NewService creates a new user service
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// GetProfile retrieves the current user's profile
func (s *Service) GetProfile(ctx context.Context, userID primitive.ObjectID) (*User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// UpdateProfile modifies the current user's profile
func (s *Service) UpdateProfile(ctx context.Context, userID primitive.ObjectID, req *UpdateProfileRequest) (*User, error) {
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		name := strings.TrimSpace(*req.Username)
		if len(name) < 3 || len(name) > 50 {
			return nil, ErrInvalidUsername
		}
		u.Username = name
	}

	if err := s.repo.Save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// SendFriendRequest records a pending request on the target user.
func (s *Service) SendFriendRequest(ctx context.Context, fromID, toID primitive.ObjectID) error {
	if fromID == toID {
		return ErrSelfFriendRequest
	}

	target, err := s.repo.GetByID(ctx, toID)
	if err != nil {
		return err
	}
	if target == nil || !target.Active {
		return ErrUserNotFound
	}
	if target.HasFriend(fromID) {
		return ErrAlreadyFriends
	}
	if target.RequestFrom(fromID) != nil {
		return ErrRequestAlreadySent
	}

	target.FriendRequests = append(target.FriendRequests, FriendRequest{
		FromID:    fromID,
		CreatedAt: time.Now().UTC(),
	})
	return s.repo.Save(ctx, target)
}

// AcceptFriendRequest consumes a pending request and links both users.
// The two saves are independent documents; a failure between them leaves a
// one-sided friendship that the next accept repairs (last-writer-wins model).
func (s *Service) AcceptFriendRequest(ctx context.Context, userID, fromID primitive.ObjectID) error {
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	if u.RequestFrom(fromID) == nil {
		return ErrRequestNotFound
	}

	other, err := s.repo.GetByID(ctx, fromID)
	if err != nil {
		return err
	}
	if other == nil {
		return ErrUserNotFound
	}

	u.RemoveRequestFrom(fromID)
	if !u.HasFriend(fromID) {
		u.Friends = append(u.Friends, fromID)
	}
	if err := s.repo.Save(ctx, u); err != nil {
		return err
	}

	if !other.HasFriend(userID) {
		other.Friends = append(other.Friends, userID)
		return s.repo.Save(ctx, other)
	}
	return nil
}

// DeclineFriendRequest drops a pending request without linking.
func (s *Service) DeclineFriendRequest(ctx context.Context, userID, fromID primitive.ObjectID) error {
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	if u.RequestFrom(fromID) == nil {
		return ErrRequestNotFound
	}
	u.RemoveRequestFrom(fromID)
	return s.repo.Save(ctx, u)
}

// RemoveFriend unlinks both users.
func (s *Service) RemoveFriend(ctx context.Context, userID, friendID primitive.ObjectID) error {
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	if !u.RemoveFriend(friendID) {
		return ErrUserNotFound
	}
	if err := s.repo.Save(ctx, u); err != nil {
		return err
	}

	other, err := s.repo.GetByID(ctx, friendID)
	if err != nil || other == nil {
		return err
	}
	if other.RemoveFriend(userID) {
		return s.repo.Save(ctx, other)
	}
	return nil
}

// ListFriends resolves the user's friend set to user records.
func (s *Service) ListFriends(ctx context.Context, userID primitive.ObjectID) ([]*User, error) {
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByIDs(ctx, u.Friends)
}

// ListFriendRequests resolves pending incoming requests with sender info.
func (s *Service) ListFriendRequests(ctx context.Context, userID primitive.ObjectID) ([]*User, []FriendRequest, error) {
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(u.FriendRequests))
	for _, r := range u.FriendRequests {
		ids = append(ids, r.FromID)
	}
	senders, err := s.repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	return senders, u.FriendRequests, nil
}
