package family

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Repository handles family group data persistence
type Repository struct {
	c *mongo.Collection
}

// NewRepository creates a new family group repository
func NewRepository(db *mongo.Database) *Repository {
	return &Repository{c: db.Collection("family_groups")}
}

// Create inserts a new family group
func (r *Repository) Create(ctx context.Context, g *Group) (*Group, error) {
	now := time.Now().UTC()
	g.ID = primitive.NewObjectID()
	if g.Members == nil {
		g.Members = []Member{}
	}
	if g.PendingInvitations == nil {
		g.PendingInvitations = []Invitation{}
	}
	g.CreatedAt = now
	g.UpdatedAt = now

	if _, err := r.c.InsertOne(ctx, g); err != nil {
		return nil, fmt.Errorf("failed to create family group: %w", err)
	}
	return g, nil
}

// GetByID retrieves a family group by ID
func (r *Repository) GetByID(ctx context.Context, id primitive.ObjectID) (*Group, error) {
	var g Group
	if err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get family group: %w", err)
	}
	return &g, nil
}

// GetByInvitation retrieves the group holding a pending invitation ID
func (r *Repository) GetByInvitation(ctx context.Context, invitationID string) (*Group, error) {
	var g Group
	err := r.c.FindOne(ctx, bson.M{"pending_invitations.id": invitationID}).Decode(&g)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get family group by invitation: %w", err)
	}
	return &g, nil
}

// Save replaces the whole group document so invitation transitions and
// member-list invariants persist atomically per record.
func (r *Repository) Save(ctx context.Context, g *Group) error {
	g.UpdatedAt = time.Now().UTC()
	res, err := r.c.ReplaceOne(ctx, bson.M{"_id": g.ID}, g)
	if err != nil {
		return fmt.Errorf("failed to save family group: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("failed to save family group: no document matched")
	}
	return nil
}

// Delete removes a family group document
func (r *Repository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete family group: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrGroupNotFound
	}
	return nil
}
