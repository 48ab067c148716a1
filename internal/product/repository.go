package product

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repository handles product data persistence
type Repository struct {
	c *mongo.Collection
}

// NewRepository creates a new product repository
func NewRepository(db *mongo.Database) *Repository {
	return &Repository{c: db.Collection("products")}
}

// Create inserts a new product. Returns nil when the owner already has a
// product with the same name (unique owner_id+name_ci index).
func (r *Repository) Create(ctx context.Context, p *Product) (*Product, error) {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.NameCI = strings.ToLower(strings.TrimSpace(p.Name))
	if p.AccessLevel == "" {
		p.AccessLevel = AccessPrivate
	}
	if p.Members == nil {
		p.Members = []Member{}
	}
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := r.c.InsertOne(ctx, p); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return p, nil
}

// GetByID retrieves a product by ID
func (r *Repository) GetByID(ctx context.Context, id primitive.ObjectID) (*Product, error) {
	var p Product
	if err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &p, nil
}

// ListByUser retrieves products the user owns or belongs to
func (r *Repository) ListByUser(ctx context.Context, userID primitive.ObjectID, limit, offset int) ([]*Product, int, error) {
	filter := bson.M{"$or": []bson.M{
		{"owner_id": userID},
		{"members.user_id": userID},
	}}

	total, err := r.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))
	cur, err := r.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer cur.Close(ctx)

	var products []*Product
	for cur.Next(ctx) {
		var p Product
		if err := cur.Decode(&p); err != nil {
			return nil, 0, fmt.Errorf("failed to decode product: %w", err)
		}
		products = append(products, &p)
	}
	return products, int(total), cur.Err()
}

// ReadableIDs returns the ids of every product the user can read: ones
// they own or belong to, plus public ones. Cross-product listings scope
// their queries with the result.
func (r *Repository) ReadableIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	filter := bson.M{"$or": []bson.M{
		{"owner_id": userID},
		{"members.user_id": userID},
		{"access_level": AccessPublic},
	}}
	raw, err := r.c.Distinct(ctx, "_id", filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list product ids: %w", err)
	}

	ids := make([]primitive.ObjectID, 0, len(raw))
	for _, v := range raw {
		if id, ok := v.(primitive.ObjectID); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Save replaces the whole product document. Invariant checks run against
// the same snapshot the caller fetched; the single replace keeps them
// atomic per record.
func (r *Repository) Save(ctx context.Context, p *Product) error {
	p.NameCI = strings.ToLower(strings.TrimSpace(p.Name))
	p.UpdatedAt = time.Now().UTC()
	res, err := r.c.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateName
		}
		return fmt.Errorf("failed to save product: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("failed to save product: no document matched")
	}
	return nil
}

// Delete removes a product document
func (r *Repository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}
