package product

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hmalik/clipstash/internal/access"
)

// AccessLevel controls baseline visibility of a product
type AccessLevel string

const (
	AccessPrivate AccessLevel = "private"
	AccessPublic  AccessLevel = "public"
)

// Member represents a user's membership in a product
type Member struct {
	UserID   primitive.ObjectID `bson:"user_id" json:"user_id"`
	Level    string             `bson:"level" json:"level"`
	JoinedAt time.Time          `bson:"joined_at" json:"joined_at"`
}

// Invitation represents a pending invitation to join a product
type Invitation struct {
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Level     string             `bson:"level" json:"level"`
	InvitedBy primitive.ObjectID `bson:"invited_by" json:"invited_by"`
	ExpiresAt time.Time          `bson:"expires_at" json:"expires_at"`
}

// Product represents a shared clipboard workspace.
// The owner is immutable, holds admin implicitly, and is never listed in
// Members.
type Product struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	NameCI       string             `bson:"name_ci" json:"-"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	OwnerID      primitive.ObjectID `bson:"owner_id" json:"owner_id"`
	AccessLevel  AccessLevel        `bson:"access_level" json:"access_level"`
	Members      []Member           `bson:"members" json:"members"`
	InvitedUsers []Invitation       `bson:"invited_users" json:"invited_users,omitempty"`
	MaxUsers     int                `bson:"max_users" json:"max_users"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

// Resource converts the product to its access-control view.
func (p *Product) Resource() access.Resource {
	grants := make([]access.Grant, 0, len(p.Members))
	for _, m := range p.Members {
		grants = append(grants, access.Grant{
			UserID: m.UserID.Hex(),
			Level:  access.ParseLevel(m.Level),
			Active: true,
		})
	}
	return access.Resource{
		OwnerID: p.OwnerID.Hex(),
		Public:  p.AccessLevel == AccessPublic,
		Grants:  grants,
	}
}

// Member returns the membership entry for userID, if any.
func (p *Product) Member(userID primitive.ObjectID) *Member {
	for i := range p.Members {
		if p.Members[i].UserID == userID {
			return &p.Members[i]
		}
	}
	return nil
}

// Invitation returns the pending invitation for userID, if any.
func (p *Product) Invitation(userID primitive.ObjectID) *Invitation {
	for i := range p.InvitedUsers {
		if p.InvitedUsers[i].UserID == userID {
			return &p.InvitedUsers[i]
		}
	}
	return nil
}

// RemoveInvitation drops the pending invitation for userID.
func (p *Product) RemoveInvitation(userID primitive.ObjectID) {
	out := p.InvitedUsers[:0]
	for _, inv := range p.InvitedUsers {
		if inv.UserID != userID {
			out = append(out, inv)
		}
	}
	p.InvitedUsers = out
}

// RemoveMember drops the membership entry for userID. Returns false when
// the user was not a member.
func (p *Product) RemoveMember(userID primitive.ObjectID) bool {
	for i := range p.Members {
		if p.Members[i].UserID == userID {
			p.Members = append(p.Members[:i], p.Members[i+1:]...)
			return true
		}
	}
	return false
}

// UserCount counts current users including the implicit owner.
func (p *Product) UserCount() int {
	return len(p.Members) + 1
}

// IsFull reports whether the product has reached its member cap.
func (p *Product) IsFull() bool {
	return p.MaxUsers > 0 && p.UserCount() >= p.MaxUsers
}

// OtherAdmins counts explicit admin-level members other than userID.
// Used for the last-admin rule on demote and remove.
func (p *Product) OtherAdmins(userID primitive.ObjectID) int {
	n := 0
	for _, m := range p.Members {
		if m.UserID != userID && access.ParseLevel(m.Level) == access.LevelAdmin {
			n++
		}
	}
	return n
}
