package product

import "time"

// CreateProductRequest represents the request to create a product
type CreateProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	AccessLevel string `json:"access_level,omitempty"`
	MaxUsers    int    `json:"max_users,omitempty"`
}

// UpdateProductRequest represents the request to update a product
type UpdateProductRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	AccessLevel *string `json:"access_level,omitempty"`
	MaxUsers    *int    `json:"max_users,omitempty"`
}

// InviteRequest represents the request to invite a user to a product
type InviteRequest struct {
	UserID         string `json:"user_id"`
	Level          string `json:"level"`
	ExpiresInHours int    `json:"expires_in_hours,omitempty"`
}

// UpdateMemberRequest represents the request to change a member's level
type UpdateMemberRequest struct {
	Level string `json:"level"`
}

// ProductResponse represents the response for a product
type ProductResponse struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	Description  string               `json:"description,omitempty"`
	OwnerID      string               `json:"owner_id"`
	AccessLevel  AccessLevel          `json:"access_level"`
	MaxUsers     int                  `json:"max_users"`
	Members      []MemberResponse     `json:"members"`
	InvitedUsers []InvitationResponse `json:"invited_users,omitempty"`
	CreatedAt    string               `json:"created_at"`
}

// MemberResponse represents a member in a product response
type MemberResponse struct {
	UserID   string `json:"user_id"`
	Level    string `json:"level"`
	JoinedAt string `json:"joined_at"`
}

// InvitationResponse represents a pending invitation in a product response
type InvitationResponse struct {
	UserID    string `json:"user_id"`
	Level     string `json:"level"`
	InvitedBy string `json:"invited_by"`
	ExpiresAt string `json:"expires_at"`
}

// ToResponse converts a Product model to a ProductResponse DTO
func (p *Product) ToResponse() *ProductResponse {
	resp := &ProductResponse{
		ID:          p.ID.Hex(),
		Name:        p.Name,
		Description: p.Description,
		OwnerID:     p.OwnerID.Hex(),
		AccessLevel: p.AccessLevel,
		MaxUsers:    p.MaxUsers,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
	}
	resp.Members = make([]MemberResponse, 0, len(p.Members))
	for _, m := range p.Members {
		resp.Members = append(resp.Members, MemberResponse{
			UserID:   m.UserID.Hex(),
			Level:    m.Level,
			JoinedAt: m.JoinedAt.Format(time.RFC3339),
		})
	}
	for _, inv := range p.InvitedUsers {
		resp.InvitedUsers = append(resp.InvitedUsers, InvitationResponse{
			UserID:    inv.UserID.Hex(),
			Level:     inv.Level,
			InvitedBy: inv.InvitedBy.Hex(),
			ExpiresAt: inv.ExpiresAt.Format(time.RFC3339),
		})
	}
	return resp
}
