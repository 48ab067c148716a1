package clipboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repository handles clipboard entry persistence
type Repository struct {
	c *mongo.Collection
}

// NewRepository creates a new clipboard repository
func NewRepository(db *mongo.Database) *Repository {
	return &Repository{c: db.Collection("clipboard_entries")}
}

// visibilityFilter builds the query predicate encoding the read rule:
// public OR own OR explicitly shared, scoped to one product, excluding
// archived and expired entries. Applying it inside the query keeps
// inaccessible entries out of results instead of filtering after the fact.
func visibilityFilter(principalID, productID primitive.ObjectID, now time.Time) bson.M {
	return bson.M{
		"product_id": productID,
		"archived":   false,
		"$and": []bson.M{
			{"$or": []bson.M{
				{"is_public": true},
				{"created_by": principalID},
				{"shared_with.user_id": principalID},
			}},
			{"$or": notExpired(now)},
		},
	}
}

// notExpired matches entries whose expiry is unset or in the future.
func notExpired(now time.Time) []bson.M {
	return []bson.M{
		{"expires_at": bson.M{"$exists": false}},
		{"expires_at": nil},
		{"expires_at": bson.M{"$gt": now}},
	}
}

// Create inserts a new entry
func (r *Repository) Create(ctx context.Context, e *Entry) (*Entry, error) {
	now := time.Now().UTC()
	e.ID = primitive.NewObjectID()
	if e.Tags == nil {
		e.Tags = []string{}
	}
	if e.SharedWith == nil {
		e.SharedWith = []ShareGrant{}
	}
	if e.FavoritedBy == nil {
		e.FavoritedBy = []primitive.ObjectID{}
	}
	e.CreatedAt = now
	e.UpdatedAt = now

	if _, err := r.c.InsertOne(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to create entry: %w", err)
	}
	return e, nil
}

// GetByID retrieves an entry by ID without any visibility filtering;
// callers evaluate access on the returned snapshot.
func (r *Repository) GetByID(ctx context.Context, id primitive.ObjectID) (*Entry, error) {
	var e Entry
	if err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}
	return &e, nil
}

// ListVisible retrieves entries in a product visible to the principal
func (r *Repository) ListVisible(ctx context.Context, principalID, productID primitive.ObjectID, limit, offset int) ([]*Entry, int, error) {
	filter := visibilityFilter(principalID, productID, time.Now().UTC())
	return r.find(ctx, filter, limit, offset)
}

// Search retrieves visible entries matching the given filter set. All
// criteria are combined into a single query so visibility and search
// conditions apply together.
func (r *Repository) Search(ctx context.Context, principalID, productID primitive.ObjectID, req *SearchRequest, limit, offset int) ([]*Entry, int, error) {
	filter := visibilityFilter(principalID, productID, time.Now().UTC())

	if req.Type != "" {
		filter["type"] = req.Type
	}
	if len(req.Tags) > 0 {
		filter["tags"] = bson.M{"$all": req.Tags}
	}
	if req.Query != "" {
		filter["$text"] = bson.M{"$search": req.Query}
	}

	created := bson.M{}
	if req.From != "" {
		if from, err := time.Parse(time.RFC3339, req.From); err == nil {
			created["$gte"] = from
		}
	}
	if req.To != "" {
		if to, err := time.Parse(time.RFC3339, req.To); err == nil {
			created["$lte"] = to
		}
	}
	if len(created) > 0 {
		filter["created_at"] = created
	}

	return r.find(ctx, filter, limit, offset)
}

func (r *Repository) find(ctx context.Context, filter bson.M, limit, offset int) ([]*Entry, int, error) {
	total, err := r.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count entries: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))
	cur, err := r.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list entries: %w", err)
	}
	defer cur.Close(ctx)

	var entries []*Entry
	for cur.Next(ctx) {
		var e Entry
		if err := cur.Decode(&e); err != nil {
			return nil, 0, fmt.Errorf("failed to decode entry: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, int(total), cur.Err()
}

// ListSharedWith retrieves live entries shared with the user. The listing
// crosses products, so it carries the same visibility conditions the
// per-product reads apply: only products the user can currently read, and
// no expired entries.
func (r *Repository) ListSharedWith(ctx context.Context, userID primitive.ObjectID, productIDs []primitive.ObjectID, limit, offset int) ([]*Entry, int, error) {
	return r.find(ctx, bson.M{
		"archived":            false,
		"product_id":          bson.M{"$in": productIDs},
		"shared_with.user_id": userID,
		"$or":                 notExpired(time.Now().UTC()),
	}, limit, offset)
}

// ListSharedBy retrieves live entries the user created and shared, scoped
// to products the user can currently read.
func (r *Repository) ListSharedBy(ctx context.Context, userID primitive.ObjectID, productIDs []primitive.ObjectID, limit, offset int) ([]*Entry, int, error) {
	return r.find(ctx, bson.M{
		"archived":      false,
		"product_id":    bson.M{"$in": productIDs},
		"created_by":    userID,
		"shared_with.0": bson.M{"$exists": true},
		"$or":           notExpired(time.Now().UTC()),
	}, limit, offset)
}

// Save replaces the whole entry document
func (r *Repository) Save(ctx context.Context, e *Entry) error {
	e.UpdatedAt = time.Now().UTC()
	res, err := r.c.ReplaceOne(ctx, bson.M{"_id": e.ID}, e)
	if err != nil {
		return fmt.Errorf("failed to save entry: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("failed to save entry: no document matched")
	}
	return nil
}

// Delete removes an entry document
func (r *Repository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrEntryNotFound
	}
	return nil
}

// Aggregate runs an aggregation pipeline over the entry collection.
// The share feature uses it for stats and analytics.
func (r *Repository) Aggregate(ctx context.Context, pipeline mongo.Pipeline, out interface{}) error {
	cur, err := r.c.Aggregate(ctx, pipeline)
	if err != nil {
		return fmt.Errorf("failed to aggregate entries: %w", err)
	}
	defer cur.Close(ctx)
	if err := cur.All(ctx, out); err != nil {
		return fmt.Errorf("failed to decode aggregation: %w", err)
	}
	return nil
}

// Count counts non-archived entries, optionally scoped to a product.
func (r *Repository) Count(ctx context.Context, productID *primitive.ObjectID) (int64, error) {
	filter := bson.M{"archived": false}
	if productID != nil {
		filter["product_id"] = *productID
	}
	return r.c.CountDocuments(ctx, filter)
}
