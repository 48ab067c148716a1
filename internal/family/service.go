package family

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hmalik/clipstash/internal/access"
	"github.com/hmalik/clipstash/internal/user"
)

// Common errors
var (
	ErrGroupNotFound      = errors.New("family group not found")
	ErrAccessDenied       = errors.New("not authorized to perform this action on the family group")
	ErrInvalidName        = errors.New("name must be between 3 and 100 characters")
	ErrInvalidRole        = errors.New("role must be one of owner, admin, member, guest")
	ErrAlreadyInGroup     = errors.New("user already belongs to a family group")
	ErrInvitationNotFound = errors.New("invitation not found")
	ErrInvitationExpired  = errors.New("invitation has expired")
	ErrEmailMismatch      = errors.New("invitation was issued to a different email")
	ErrGroupFull          = errors.New("family group has reached its member limit")
	ErrMemberNotFound     = errors.New("member not found in family group")
	ErrLastOwner          = errors.New("cannot demote or remove the only owner of the family group")
)

const inviteTTL = 7 * 24 * time.Hour

// Service handles family group business logic
type Service struct {
	repo  *Repository
	users *user.Repository
}

// NewService creates a new family group service
func NewService(repo *Repository, users *user.Repository) *Service {
	return &Service{repo: repo, users: users}
}

// Create creates a family group with the caller as its owner member.
func (s *Service) Create(ctx context.Context, principalID primitive.ObjectID, req *CreateGroupRequest) (*Group, error) {
	name := strings.TrimSpace(req.Name)
	if len(name) < 3 || len(name) > 100 {
		return nil, ErrInvalidName
	}

	u, err := s.users.GetByID(ctx, principalID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, user.ErrUserNotFound
	}
	if u.FamilyGroupID != nil {
		return nil, ErrAlreadyInGroup
	}

	maxMembers := req.MaxMembers
	if maxMembers < 1 || maxMembers > 50 {
		maxMembers = defaultMaxMembers
	}

	g := &Group{
		Name:       name,
		OwnerID:    principalID,
		MaxMembers: maxMembers,
		Members: []Member{{
			UserID:      principalID,
			Role:        access.RoleOwner.String(),
			Permissions: access.DefaultPermissions(access.RoleOwner),
			JoinedAt:    time.Now().UTC(),
		}},
	}
	g, err = s.repo.Create(ctx, g)
	if err != nil {
		return nil, err
	}

	u.FamilyGroupID = &g.ID
	if err := s.users.Save(ctx, u); err != nil {
		return nil, err
	}
	return g, nil
}

// Get returns a group visible to one of its members. Pending invitations
// show only for members whose bundle carries the invite permission.
func (s *Service) Get(ctx context.Context, principalID, id primitive.ObjectID) (*Group, bool, error) {
	g, _, err := s.evaluate(ctx, principalID, id, access.RoleGuest)
	if err != nil {
		return nil, false, err
	}
	m := g.Member(principalID)
	includeInvitations := g.OwnerID == principalID || (m != nil && m.Permissions.Invite)
	return g, includeInvitations, nil
}

// Invite adds a pending invitation for an email. Re-inviting the same
// email replaces the earlier pending entry.
func (s *Service) Invite(ctx context.Context, principalID, id primitive.ObjectID, req *InviteRequest) (*Group, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, user.ErrUserNotFound
	}
	role := req.Role
	if role == "" {
		role = access.RoleMember.String()
	}
	if !validRole(role) || role == access.RoleOwner.String() {
		return nil, ErrInvalidRole
	}

	g, err := s.requirePermission(ctx, principalID, id, func(p access.Permissions) bool { return p.Invite })
	if err != nil {
		return nil, err
	}
	if g.IsFull() {
		return nil, ErrGroupFull
	}

	if prev := g.PendingFor(email); prev != nil {
		prev.Status = StatusDeclined
	}
	g.PendingInvitations = append(g.PendingInvitations, Invitation{
		ID:        uuid.NewString(),
		Email:     email,
		Role:      role,
		InvitedBy: principalID,
		ExpiresAt: time.Now().UTC().Add(inviteTTL),
		Status:    StatusPending,
	})

	if err := s.repo.Save(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// Join accepts an invitation by its token. The caller's email must match
// the invitation; accepting past expiry marks the invitation expired.
func (s *Service) Join(ctx context.Context, principalID primitive.ObjectID, req *JoinRequest) (*Group, error) {
	g, err := s.repo.GetByInvitation(ctx, req.InvitationID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrInvitationNotFound
	}
	inv := g.Invitation(req.InvitationID)
	if inv == nil || inv.Status != StatusPending {
		return nil, ErrInvitationNotFound
	}

	u, err := s.users.GetByID(ctx, principalID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, user.ErrUserNotFound
	}
	if !strings.EqualFold(u.Email, inv.Email) {
		return nil, ErrEmailMismatch
	}
	if u.FamilyGroupID != nil {
		return nil, ErrAlreadyInGroup
	}

	if !inv.Accept(time.Now().UTC()) {
		// Accept flipped the status to expired; persist the transition.
		if err := s.repo.Save(ctx, g); err != nil {
			return nil, err
		}
		return nil, ErrInvitationExpired
	}
	if g.IsFull() {
		return nil, ErrGroupFull
	}

	g.Members = append(g.Members, Member{
		UserID:      principalID,
		Role:        inv.Role,
		Permissions: access.DefaultPermissions(access.ParseFamilyRole(inv.Role)),
		JoinedAt:    time.Now().UTC(),
	})
	if err := s.repo.Save(ctx, g); err != nil {
		return nil, err
	}

	u.FamilyGroupID = &g.ID
	if err := s.users.Save(ctx, u); err != nil {
		return nil, err
	}
	return g, nil
}

// Decline refuses an invitation by its token.
func (s *Service) Decline(ctx context.Context, principalID primitive.ObjectID, req *JoinRequest) error {
	g, err := s.repo.GetByInvitation(ctx, req.InvitationID)
	if err != nil {
		return err
	}
	if g == nil {
		return ErrInvitationNotFound
	}
	inv := g.Invitation(req.InvitationID)
	if inv == nil || inv.Status != StatusPending {
		return ErrInvitationNotFound
	}

	u, err := s.users.GetByID(ctx, principalID)
	if err != nil {
		return err
	}
	if u == nil {
		return user.ErrUserNotFound
	}
	if !strings.EqualFold(u.Email, inv.Email) {
		return ErrEmailMismatch
	}

	if !inv.Decline() {
		return ErrInvitationNotFound
	}
	return s.repo.Save(ctx, g)
}

// UpdateMember changes a member's role. The role change resets the
// permission bundle to the static default table. Demoting the only
// owner-role member is rejected.
func (s *Service) UpdateMember(ctx context.Context, principalID, id, targetID primitive.ObjectID, req *UpdateMemberRequest) (*Group, error) {
	if !validRole(req.Role) {
		return nil, ErrInvalidRole
	}

	g, err := s.requirePermission(ctx, principalID, id, func(p access.Permissions) bool { return p.ManageMembers })
	if err != nil {
		return nil, err
	}

	m := g.Member(targetID)
	if m == nil {
		return nil, ErrMemberNotFound
	}
	if m.Role == access.RoleOwner.String() && req.Role != access.RoleOwner.String() {
		if access.OthersWithRole(g.AccessMembers(), targetID.Hex(), access.RoleOwner) == 0 {
			return nil, ErrLastOwner
		}
	}

	m.SetRole(req.Role)
	if err := s.repo.Save(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// RemoveMember removes a member from the group. Members may remove
// themselves; removing the only owner is rejected.
func (s *Service) RemoveMember(ctx context.Context, principalID, id, targetID primitive.ObjectID) (*Group, error) {
	var g *Group
	var err error
	if principalID == targetID {
		g, _, err = s.evaluate(ctx, principalID, id, access.RoleGuest)
	} else {
		g, err = s.requirePermission(ctx, principalID, id, func(p access.Permissions) bool { return p.ManageMembers })
	}
	if err != nil {
		return nil, err
	}

	m := g.Member(targetID)
	if m == nil {
		return nil, ErrMemberNotFound
	}
	if m.Role == access.RoleOwner.String() &&
		access.OthersWithRole(g.AccessMembers(), targetID.Hex(), access.RoleOwner) == 0 {
		return nil, ErrLastOwner
	}

	g.RemoveMember(targetID)
	if err := s.repo.Save(ctx, g); err != nil {
		return nil, err
	}

	if u, err := s.users.GetByID(ctx, targetID); err == nil && u != nil &&
		u.FamilyGroupID != nil && *u.FamilyGroupID == g.ID {
		u.FamilyGroupID = nil
		if err := s.users.Save(ctx, u); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// evaluate loads the group and checks the principal holds at least the
// requested role. Denials without membership read as not found.
func (s *Service) evaluate(ctx context.Context, principalID, id primitive.ObjectID, role access.FamilyRole) (*Group, access.FamilyDecision, error) {
	g, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, access.FamilyDecision{}, err
	}
	if g == nil {
		return nil, access.FamilyDecision{}, ErrGroupNotFound
	}

	d := access.EvaluateFamily(principalID.Hex(), g.OwnerID.Hex(), g.AccessMembers(), role)
	if !d.Allowed {
		if d.Reason == access.ReasonInsufficient {
			return nil, d, ErrAccessDenied
		}
		return nil, d, ErrGroupNotFound
	}
	return g, d, nil
}

// requirePermission loads the group and checks the principal's permission
// bundle. The owner always passes.
func (s *Service) requirePermission(ctx context.Context, principalID, id primitive.ObjectID, allowed func(access.Permissions) bool) (*Group, error) {
	g, _, err := s.evaluate(ctx, principalID, id, access.RoleGuest)
	if err != nil {
		return nil, err
	}
	if g.OwnerID == principalID {
		return g, nil
	}
	m := g.Member(principalID)
	if m == nil || !allowed(m.Permissions) {
		return nil, ErrAccessDenied
	}
	return g, nil
}

func validRole(role string) bool {
	switch role {
	case access.RoleOwner.String(), access.RoleFamilyAdmin.String(),
		access.RoleMember.String(), access.RoleGuest.String():
		return true
	}
	return false
}
