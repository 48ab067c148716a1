package user

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the account-wide role of a user
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleFamily Role = "family"
	RoleFriend Role = "friend"
	RoleUser   Role = "user"
)

// ProductAccess is one access entry granting a user a level on a product.
// Entries are soft-disabled rather than removed so grant history survives.
type ProductAccess struct {
	ProductID primitive.ObjectID `bson:"product_id" json:"product_id"`
	Level     string             `bson:"level" json:"level"`
	GrantedBy primitive.ObjectID `bson:"granted_by" json:"granted_by"`
	GrantedAt time.Time          `bson:"granted_at" json:"granted_at"`
	ExpiresAt *time.Time         `bson:"expires_at,omitempty" json:"expires_at,omitempty"`
	Active    bool               `bson:"active" json:"active"`
}

// FriendRequest is a pending incoming friend request.
type FriendRequest struct {
	FromID    primitive.ObjectID `bson:"from_id" json:"from_id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// User represents a user account
type User struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Email          string               `bson:"email" json:"email"`
	Username       string               `bson:"username" json:"username"`
	PasswordHash   string               `bson:"password_hash" json:"-"`
	Role           Role                 `bson:"role" json:"role"`
	Active         bool                 `bson:"active" json:"active"`
	Friends        []primitive.ObjectID `bson:"friends" json:"friends"`
	FriendRequests []FriendRequest      `bson:"friend_requests" json:"friend_requests,omitempty"`
	FamilyGroupID  *primitive.ObjectID  `bson:"family_group_id,omitempty" json:"family_group_id,omitempty"`
	ProductAccess  []ProductAccess      `bson:"product_access" json:"product_access"`
	CreatedAt      time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time            `bson:"updated_at" json:"updated_at"`
}

// UpsertProductAccess records a grant, soft-disabling any previously active
// entry for the same product. Keeps the invariant of at most one active
// entry per product while preserving history.
func (u *User) UpsertProductAccess(a ProductAccess) {
	for i := range u.ProductAccess {
		if u.ProductAccess[i].ProductID == a.ProductID && u.ProductAccess[i].Active {
			u.ProductAccess[i].Active = false
		}
	}
	u.ProductAccess = append(u.ProductAccess, a)
}

// DeactivateProductAccess soft-disables the active entry for a product.
// Returns false when no active entry existed.
func (u *User) DeactivateProductAccess(productID primitive.ObjectID) bool {
	found := false
	for i := range u.ProductAccess {
		if u.ProductAccess[i].ProductID == productID && u.ProductAccess[i].Active {
			u.ProductAccess[i].Active = false
			found = true
		}
	}
	return found
}

// ActiveGrantCount counts access entries that are active and unexpired.
// Ownership grants are recorded like any other entry at admin level.
func (u *User) ActiveGrantCount(now time.Time) int {
	n := 0
	for _, a := range u.ProductAccess {
		if !a.Active {
			continue
		}
		if a.ExpiresAt != nil && !a.ExpiresAt.After(now) {
			continue
		}
		n++
	}
	return n
}

// HasFriend reports whether id is in the user's friend set.
func (u *User) HasFriend(id primitive.ObjectID) bool {
	for _, f := range u.Friends {
		if f == id {
			return true
		}
	}
	return false
}

// RequestFrom returns the pending friend request from id, if any.
func (u *User) RequestFrom(id primitive.ObjectID) *FriendRequest {
	for i := range u.FriendRequests {
		if u.FriendRequests[i].FromID == id {
			return &u.FriendRequests[i]
		}
	}
	return nil
}

// RemoveRequestFrom drops the pending request from id.
func (u *User) RemoveRequestFrom(id primitive.ObjectID) {
	out := u.FriendRequests[:0]
	for _, r := range u.FriendRequests {
		if r.FromID != id {
			out = append(out, r)
		}
	}
	u.FriendRequests = out
}

// RemoveFriend drops id from the friend set. Returns false when absent.
func (u *User) RemoveFriend(id primitive.ObjectID) bool {
	for i, f := range u.Friends {
		if f == id {
			u.Friends = append(u.Friends[:i], u.Friends[i+1:]...)
			return true
		}
	}
	return false
}
