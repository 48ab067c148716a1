package product

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hmalik/clipstash/internal/access"
	"github.com/hmalik/clipstash/internal/user"
)

// Common errors
var (
	ErrProductNotFound    = errors.New("product not found")
	ErrAccessDenied       = errors.New("not authorized to perform this action")
	ErrDuplicateName      = errors.New("a product with this name already exists")
	ErrInvalidName        = errors.New("product name must be between 1 and 100 characters")
	ErrAlreadyMember      = errors.New("user is already a member of this product")
	ErrInvitationNotFound = errors.New("no pending invitation for this product")
	ErrInvitationExpired  = errors.New("invitation has expired")
	ErrProductFull        = errors.New("product has reached its member limit")
	ErrLastAdmin          = errors.New("cannot demote or remove the last admin of this product")
	ErrProductNotEmpty    = errors.New("product still has members and cannot be deleted")
	ErrOwnerImmutable     = errors.New("the owner cannot be modified or removed")
)

const (
	defaultMaxUsers   = 10
	defaultInviteTTL  = 7 * 24 * time.Hour
	maxInviteTTLHours = 30 * 24
)

// Service handles product business logic
type Service struct {
	repo  *Repository
	users *user.Repository
}

// NewService creates a new product service
func NewService(repo *Repository, users *user.Repository) *Service {
	return &Service{repo: repo, users: users}
}

// Create creates a new product owned by ownerID. The owner's admin grant
// is mirrored onto their access-entry list so the grant check in the token
// verifier counts ownership.
func (s *Service) Create(ctx context.Context, ownerID primitive.ObjectID, req *CreateProductRequest) (*Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > 100 {
		return nil, ErrInvalidName
	}

	maxUsers := req.MaxUsers
	if maxUsers <= 0 {
		maxUsers = defaultMaxUsers
	}
	accessLevel := AccessPrivate
	if req.AccessLevel == string(AccessPublic) {
		accessLevel = AccessPublic
	}

	p, err := s.repo.Create(ctx, &Product{
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		OwnerID:     ownerID,
		AccessLevel: accessLevel,
		MaxUsers:    maxUsers,
	})
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrDuplicateName
	}

	if err := s.grantAccess(ctx, ownerID, p.ID, access.LevelAdmin.String(), ownerID, nil); err != nil {
		return nil, err
	}
	return p, nil
}

// GetByID retrieves a product the principal can read. Denials surface as
// not-found so inaccessible products are indistinguishable from absent ones.
func (s *Service) GetByID(ctx context.Context, principalID primitive.ObjectID, id primitive.ObjectID) (*Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}

	d := access.Evaluate(principalID.Hex(), p.Resource(), access.LevelRead, time.Now().UTC())
	if !d.Allowed {
		return nil, ErrProductNotFound
	}
	return p, nil
}

// Evaluate exposes the access decision for a product so other features
// (clipboard, shares, realtime) can gate on product access.
func (s *Service) Evaluate(ctx context.Context, principalID primitive.ObjectID, id primitive.ObjectID, level access.Level) (*Product, access.Decision, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, access.Decision{}, err
	}
	if p == nil {
		return nil, access.Decision{Reason: access.ReasonNotFound}, ErrProductNotFound
	}
	return p, access.Evaluate(principalID.Hex(), p.Resource(), level, time.Now().UTC()), nil
}

// ReadableIDs lists the ids of products the principal can read. The share
// listings use it to keep cross-product queries inside the visibility rule.
func (s *Service) ReadableIDs(ctx context.Context, principalID primitive.ObjectID) ([]primitive.ObjectID, error) {
	return s.repo.ReadableIDs(ctx, principalID)
}

// List retrieves products the principal owns or belongs to
func (s *Service) List(ctx context.Context, principalID primitive.ObjectID, page, perPage int) ([]*Product, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return s.repo.ListByUser(ctx, principalID, perPage, (page-1)*perPage)
}

// Update modifies a product. Requires admin.
func (s *Service) Update(ctx context.Context, principalID, id primitive.ObjectID, req *UpdateProductRequest) (*Product, error) {
	p, err := s.requireLevel(ctx, principalID, id, access.LevelAdmin)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" || len(name) > 100 {
			return nil, ErrInvalidName
		}
		p.Name = name
	}
	if req.Description != nil {
		p.Description = strings.TrimSpace(*req.Description)
	}
	if req.AccessLevel != nil {
		if *req.AccessLevel == string(AccessPublic) {
			p.AccessLevel = AccessPublic
		} else {
			p.AccessLevel = AccessPrivate
		}
	}
	if req.MaxUsers != nil && *req.MaxUsers > 0 {
		p.MaxUsers = *req.MaxUsers
	}

	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a product. Only the owner may delete, and only while the
// owner is the sole remaining user.
func (s *Service) Delete(ctx context.Context, principalID, id primitive.ObjectID) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrProductNotFound
	}
	if p.OwnerID != principalID {
		return ErrAccessDenied
	}
	if len(p.Members) > 0 {
		return ErrProductNotEmpty
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	return s.revokeAccess(ctx, principalID, id)
}

// Invite records a pending invitation. Requires admin. Re-inviting the
// same user refreshes level and expiry instead of duplicating the entry.
func (s *Service) Invite(ctx context.Context, principalID, id primitive.ObjectID, req *InviteRequest) (*Product, error) {
	p, err := s.requireLevel(ctx, principalID, id, access.LevelAdmin)
	if err != nil {
		return nil, err
	}

	targetID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		return nil, ErrInvitationNotFound
	}
	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target == nil || !target.Active {
		return nil, user.ErrUserNotFound
	}
	if targetID == p.OwnerID || p.Member(targetID) != nil {
		return nil, ErrAlreadyMember
	}

	level := access.ParseLevel(req.Level)
	if level == access.LevelNone {
		level = access.LevelRead
	}
	ttl := defaultInviteTTL
	if req.ExpiresInHours > 0 && req.ExpiresInHours <= maxInviteTTLHours {
		ttl = time.Duration(req.ExpiresInHours) * time.Hour
	}

	p.RemoveInvitation(targetID)
	p.InvitedUsers = append(p.InvitedUsers, Invitation{
		UserID:    targetID,
		Level:     level.String(),
		InvitedBy: principalID,
		ExpiresAt: time.Now().UTC().Add(ttl),
	})

	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Join consumes the principal's pending invitation. An expired invitation
// is removed and rejected rather than honored.
func (s *Service) Join(ctx context.Context, principalID, id primitive.ObjectID) (*Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	if p.OwnerID == principalID || p.Member(principalID) != nil {
		return nil, ErrAlreadyMember
	}

	inv := p.Invitation(principalID)
	if inv == nil {
		return nil, ErrInvitationNotFound
	}
	if !inv.ExpiresAt.After(time.Now().UTC()) {
		p.RemoveInvitation(principalID)
		if err := s.repo.Save(ctx, p); err != nil {
			return nil, err
		}
		return nil, ErrInvitationExpired
	}
	if p.IsFull() {
		return nil, ErrProductFull
	}

	level := inv.Level
	invitedBy := inv.InvitedBy
	p.RemoveInvitation(principalID)
	p.Members = append(p.Members, Member{
		UserID:   principalID,
		Level:    level,
		JoinedAt: time.Now().UTC(),
	})

	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	if err := s.grantAccess(ctx, principalID, p.ID, level, invitedBy, nil); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateMember changes a member's level. Requires admin. Demoting the sole
// explicit admin is rejected so the product never loses its last admin.
func (s *Service) UpdateMember(ctx context.Context, principalID, id, targetID primitive.ObjectID, req *UpdateMemberRequest) (*Product, error) {
	p, err := s.requireLevel(ctx, principalID, id, access.LevelAdmin)
	if err != nil {
		return nil, err
	}
	if targetID == p.OwnerID {
		return nil, ErrOwnerImmutable
	}

	m := p.Member(targetID)
	if m == nil {
		return nil, ErrProductNotFound
	}

	newLevel := access.ParseLevel(req.Level)
	if newLevel == access.LevelNone {
		newLevel = access.LevelRead
	}
	if access.ParseLevel(m.Level) == access.LevelAdmin && newLevel != access.LevelAdmin && p.OtherAdmins(targetID) == 0 {
		return nil, ErrLastAdmin
	}

	m.Level = newLevel.String()
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	if err := s.grantAccess(ctx, targetID, p.ID, newLevel.String(), principalID, nil); err != nil {
		return nil, err
	}
	return p, nil
}

// RemoveMember removes a member. Admins may remove anyone but the owner;
// members may remove themselves (leave). The last-admin rule applies.
func (s *Service) RemoveMember(ctx context.Context, principalID, id, targetID primitive.ObjectID) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrProductNotFound
	}
	if targetID == p.OwnerID {
		return ErrOwnerImmutable
	}

	if principalID != targetID {
		d := access.Evaluate(principalID.Hex(), p.Resource(), access.LevelAdmin, time.Now().UTC())
		if !d.Allowed {
			return ErrAccessDenied
		}
	}

	m := p.Member(targetID)
	if m == nil {
		return ErrProductNotFound
	}
	if access.ParseLevel(m.Level) == access.LevelAdmin && p.OtherAdmins(targetID) == 0 {
		return ErrLastAdmin
	}

	p.RemoveMember(targetID)
	if err := s.repo.Save(ctx, p); err != nil {
		return err
	}
	return s.revokeAccess(ctx, targetID, p.ID)
}

// requireLevel fetches the product and enforces the requested level,
// mapping no-access denials to not-found.
func (s *Service) requireLevel(ctx context.Context, principalID, id primitive.ObjectID, level access.Level) (*Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}

	d := access.Evaluate(principalID.Hex(), p.Resource(), level, time.Now().UTC())
	if !d.Allowed {
		if d.Reason == access.ReasonInsufficient {
			return nil, ErrAccessDenied
		}
		return nil, ErrProductNotFound
	}
	return p, nil
}

// grantAccess mirrors a product grant onto the user's access-entry list.
func (s *Service) grantAccess(ctx context.Context, userID, productID primitive.ObjectID, level string, grantedBy primitive.ObjectID, expiresAt *time.Time) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil || u == nil {
		return err
	}
	u.UpsertProductAccess(user.ProductAccess{
		ProductID: productID,
		Level:     level,
		GrantedBy: grantedBy,
		GrantedAt: time.Now().UTC(),
		ExpiresAt: expiresAt,
		Active:    true,
	})
	return s.users.Save(ctx, u)
}

// revokeAccess soft-disables the user's access entry for the product.
func (s *Service) revokeAccess(ctx context.Context, userID, productID primitive.ObjectID) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil || u == nil {
		return err
	}
	if u.DeactivateProductAccess(productID) {
		return s.users.Save(ctx, u)
	}
	return nil
}
