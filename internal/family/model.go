package family

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hmalik/clipstash/internal/access"
)

// Invitation statuses. An invitation transitions out of pending exactly
// once; accepted, declined and expired are terminal.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusDeclined = "declined"
	StatusExpired  = "expired"
)

const defaultMaxMembers = 8

// Member is one family group member with a role and its permission bundle.
type Member struct {
	UserID      primitive.ObjectID `bson:"user_id" json:"user_id"`
	Role        string             `bson:"role" json:"role"`
	Permissions access.Permissions `bson:"permissions" json:"permissions"`
	JoinedAt    time.Time          `bson:"joined_at" json:"joined_at"`
}

// Invitation is an email-addressed pending invitation. The ID doubles as
// the join token sent to the invitee.
type Invitation struct {
	ID        string             `bson:"id" json:"id"`
	Email     string             `bson:"email" json:"email"`
	Role      string             `bson:"role" json:"role"`
	InvitedBy primitive.ObjectID `bson:"invited_by" json:"invited_by"`
	ExpiresAt time.Time          `bson:"expires_at" json:"expires_at"`
	Status    string             `bson:"status" json:"status"`
}

// Group represents a family group document in MongoDB
type Group struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name               string             `bson:"name" json:"name"`
	OwnerID            primitive.ObjectID `bson:"owner_id" json:"owner_id"`
	MaxMembers         int                `bson:"max_members" json:"max_members"`
	Members            []Member           `bson:"members" json:"members"`
	PendingInvitations []Invitation       `bson:"pending_invitations" json:"pending_invitations"`
	CreatedAt          time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time          `bson:"updated_at" json:"updated_at"`
}

// AccessMembers converts the member list for role evaluation.
func (g *Group) AccessMembers() []access.FamilyMember {
	out := make([]access.FamilyMember, 0, len(g.Members))
	for _, m := range g.Members {
		out = append(out, access.FamilyMember{
			UserID: m.UserID.Hex(),
			Role:   access.ParseFamilyRole(m.Role),
		})
	}
	return out
}

// Member returns the member entry for a user, or nil.
func (g *Group) Member(userID primitive.ObjectID) *Member {
	for i := range g.Members {
		if g.Members[i].UserID == userID {
			return &g.Members[i]
		}
	}
	return nil
}

// RemoveMember drops a user from the member list. Returns false when the
// user was not a member.
func (g *Group) RemoveMember(userID primitive.ObjectID) bool {
	for i := range g.Members {
		if g.Members[i].UserID == userID {
			g.Members = append(g.Members[:i], g.Members[i+1:]...)
			return true
		}
	}
	return false
}

// SetRole changes a member's role and resets their permissions to the
// static default table. Custom permissions never survive a role change.
func (m *Member) SetRole(role string) {
	m.Role = role
	m.Permissions = access.DefaultPermissions(access.ParseFamilyRole(role))
}

// IsFull reports whether the group reached its member cap.
func (g *Group) IsFull() bool {
	return len(g.Members) >= g.MaxMembers
}

// Invitation returns the pending-invitation entry with the given ID, or nil.
func (g *Group) Invitation(id string) *Invitation {
	for i := range g.PendingInvitations {
		if g.PendingInvitations[i].ID == id {
			return &g.PendingInvitations[i]
		}
	}
	return nil
}

// PendingFor returns the pending invitation addressed to an email, or nil.
func (g *Group) PendingFor(email string) *Invitation {
	for i := range g.PendingInvitations {
		inv := &g.PendingInvitations[i]
		if inv.Status == StatusPending && inv.Email == email {
			return inv
		}
	}
	return nil
}

// Accept transitions a pending invitation to accepted. An invitation past
// its expiry transitions to expired instead and Accept reports false. Any
// non-pending invitation is left untouched.
func (inv *Invitation) Accept(now time.Time) bool {
	if inv.Status != StatusPending {
		return false
	}
	if !inv.ExpiresAt.After(now) {
		inv.Status = StatusExpired
		return false
	}
	inv.Status = StatusAccepted
	return true
}

// Decline transitions a pending invitation to declined.
func (inv *Invitation) Decline() bool {
	if inv.Status != StatusPending {
		return false
	}
	inv.Status = StatusDeclined
	return true
}
