package family

import (
	"time"

	"github.com/hmalik/clipstash/internal/access"
)

// CreateGroupRequest represents the request to create a family group
type CreateGroupRequest struct {
	Name       string `json:"name"`
	MaxMembers int    `json:"max_members,omitempty"`
}

// InviteRequest represents the request to invite someone by email
type InviteRequest struct {
	Email string `json:"email"`
	Role  string `json:"role,omitempty"` // defaults to member
}

// JoinRequest carries the invitation token sent to the invitee
type JoinRequest struct {
	InvitationID string `json:"invitation_id"`
}

// UpdateMemberRequest represents the request to change a member's role
type UpdateMemberRequest struct {
	Role string `json:"role"`
}

// MemberResponse represents a member in API responses
type MemberResponse struct {
	UserID      string             `json:"user_id"`
	Role        string             `json:"role"`
	Permissions access.Permissions `json:"permissions"`
	JoinedAt    time.Time          `json:"joined_at"`
}

// InvitationResponse represents a pending invitation in API responses
type InvitationResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	InvitedBy string    `json:"invited_by"`
	ExpiresAt time.Time `json:"expires_at"`
	Status    string    `json:"status"`
}

// GroupResponse represents a family group in API responses
type GroupResponse struct {
	ID                 string               `json:"id"`
	Name               string               `json:"name"`
	OwnerID            string               `json:"owner_id"`
	MaxMembers         int                  `json:"max_members"`
	Members            []MemberResponse     `json:"members"`
	PendingInvitations []InvitationResponse `json:"pending_invitations,omitempty"`
	CreatedAt          time.Time            `json:"created_at"`
}

// ToResponse converts a Group to GroupResponse. Pending invitations are
// included only for viewers allowed to see them (admins).
func (g *Group) ToResponse(includeInvitations bool) *GroupResponse {
	resp := &GroupResponse{
		ID:         g.ID.Hex(),
		Name:       g.Name,
		OwnerID:    g.OwnerID.Hex(),
		MaxMembers: g.MaxMembers,
		Members:    make([]MemberResponse, 0, len(g.Members)),
		CreatedAt:  g.CreatedAt,
	}
	for _, m := range g.Members {
		resp.Members = append(resp.Members, MemberResponse{
			UserID:      m.UserID.Hex(),
			Role:        m.Role,
			Permissions: m.Permissions,
			JoinedAt:    m.JoinedAt,
		})
	}
	if includeInvitations {
		for _, inv := range g.PendingInvitations {
			if inv.Status != StatusPending {
				continue
			}
			resp.PendingInvitations = append(resp.PendingInvitations, InvitationResponse{
				ID:        inv.ID,
				Email:     inv.Email,
				Role:      inv.Role,
				InvitedBy: inv.InvitedBy.Hex(),
				ExpiresAt: inv.ExpiresAt,
				Status:    inv.Status,
			})
		}
	}
	return resp
}
