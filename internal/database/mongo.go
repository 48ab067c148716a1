package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Connect opens a MongoDB client and verifies the connection with a ping.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return client, nil
}

// EnsureIndexes creates the indexes each collection relies on.
// Safe to call at every startup; index creation is idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	indexes := map[string][]mongo.IndexModel{
		"users": {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "product_access.product_id", Value: 1}}},
		},
		"products": {
			{
				Keys:    bson.D{{Key: "owner_id", Value: 1}, {Key: "name_ci", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "members.user_id", Value: 1}}},
		},
		"clipboard_entries": {
			{Keys: bson.D{{Key: "product_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "shared_with.user_id", Value: 1}}},
			{Keys: bson.D{{Key: "tags", Value: 1}}},
			{Keys: bson.D{{Key: "content", Value: "text"}}},
		},
		"family_groups": {
			{Keys: bson.D{{Key: "members.user_id", Value: 1}}},
			{Keys: bson.D{{Key: "pending_invitations.id", Value: 1}}},
		},
	}

	for coll, models := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes for %s: %w", coll, err)
		}
		logger.Debug("indexes ensured", zap.String("collection", coll), zap.Int("count", len(models)))
	}

	return nil
}
