package user

import "time"

// UpdateProfileRequest represents the request body for updating a profile
type UpdateProfileRequest struct {
	Username *string `json:"username,omitempty"`
}

// FriendRequestRequest represents the request body for sending a friend request
type FriendRequestRequest struct {
	UserID string `json:"user_id"`
}

// ProfileResponse represents the response for the current user's profile
type ProfileResponse struct {
	ID            string                  `json:"id"`
	Email         string                  `json:"email"`
	Username      string                  `json:"username"`
	Role          Role                    `json:"role"`
	FamilyGroupID string                  `json:"family_group_id,omitempty"`
	ProductAccess []ProductAccessResponse `json:"product_access"`
	CreatedAt     string                  `json:"created_at"`
}

// ProductAccessResponse represents one access entry in a profile response
type ProductAccessResponse struct {
	ProductID string `json:"product_id"`
	Level     string `json:"level"`
	GrantedBy string `json:"granted_by"`
	GrantedAt string `json:"granted_at"`
	ExpiresAt string `json:"expires_at,omitempty"`
	Active    bool   `json:"active"`
}

// FriendResponse represents a friend in a friend list response
type FriendResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// FriendRequestResponse represents a pending incoming request
type FriendRequestResponse struct {
	FromID    string `json:"from_id"`
	Username  string `json:"username"`
	CreatedAt string `json:"created_at"`
}

// ToProfileResponse converts a User model to a ProfileResponse DTO
func (u *User) ToProfileResponse() *ProfileResponse {
	resp := &ProfileResponse{
		ID:        u.ID.Hex(),
		Email:     u.Email,
		Username:  u.Username,
		Role:      u.Role,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
	if u.FamilyGroupID != nil {
		resp.FamilyGroupID = u.FamilyGroupID.Hex()
	}
	resp.ProductAccess = make([]ProductAccessResponse, 0, len(u.ProductAccess))
	for _, a := range u.ProductAccess {
		ar := ProductAccessResponse{
			ProductID: a.ProductID.Hex(),
			Level:     a.Level,
			GrantedBy: a.GrantedBy.Hex(),
			GrantedAt: a.GrantedAt.Format(time.RFC3339),
			Active:    a.Active,
		}
		if a.ExpiresAt != nil {
			ar.ExpiresAt = a.ExpiresAt.Format(time.RFC3339)
		}
		resp.ProductAccess = append(resp.ProductAccess, ar)
	}
	return resp
}

// ToFriendResponse converts a User model to a FriendResponse DTO
func (u *User) ToFriendResponse() *FriendResponse {
	return &FriendResponse{
		ID:       u.ID.Hex(),
		Username: u.Username,
		Email:    u.Email,
	}
}
