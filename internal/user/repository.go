package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Repository handles user data persistence
type Repository struct {
	c *mongo.Collection
}

// NewRepository creates a new user repository
func NewRepository(db *mongo.Database) *Repository {
	return &Repository{c: db.Collection("users")}
}

// Create inserts a new user document
func (r *Repository) Create(ctx context.Context, u *User) (*User, error) {
	now := time.Now().UTC()
	u.ID = primitive.NewObjectID()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Role == "" {
		u.Role = RoleUser
	}
	u.Active = true
	if u.Friends == nil {
		u.Friends = []primitive.ObjectID{}
	}
	if u.ProductAccess == nil {
		u.ProductAccess = []ProductAccess{}
	}
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := r.c.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

// GetByID retrieves a user by ID
func (r *Repository) GetByID(ctx context.Context, id primitive.ObjectID) (*User, error) {
	var u User
	if err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

// GetByEmail retrieves a user by email
func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.c.FindOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &u, nil
}

// GetByIDs retrieves multiple users by ID
func (r *Repository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := r.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer cur.Close(ctx)

	var users []*User
	for cur.Next(ctx) {
		var u User
		if err := cur.Decode(&u); err != nil {
			return nil, fmt.Errorf("failed to decode user: %w", err)
		}
		users = append(users, &u)
	}
	return users, cur.Err()
}

// Save replaces the whole user document so a single write carries every
// invariant the caller validated against its fetched snapshot.
func (r *Repository) Save(ctx context.Context, u *User) error {
	u.UpdatedAt = time.Now().UTC()
	res, err := r.c.ReplaceOne(ctx, bson.M{"_id": u.ID}, u)
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("failed to save user: no document matched")
	}
	return nil
}
