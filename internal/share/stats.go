package share

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Stats aggregates the principal's sharing activity with a pipeline per
// facet, keeping the counting inside the database.
func (s *Service) Stats(ctx context.Context, principalID primitive.ObjectID) (*StatsResponse, error) {
	resp := &StatsResponse{
		GrantsByLevel: map[string]int{},
		SharedByType:  map[string]int{},
	}

	var counts []struct {
		ID    string `bson:"_id"`
		Count int    `bson:"count"`
	}

	// Grants on entries I created, grouped by level.
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"archived":      false,
			"created_by":    principalID,
			"shared_with.0": bson.M{"$exists": true},
		}}},
		{{Key: "$unwind", Value: "$shared_with"}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$shared_with.level",
			"count": bson.M{"$sum": 1},
		}}},
	}
	if err := s.entries.Aggregate(ctx, pipeline, &counts); err != nil {
		return nil, err
	}
	for _, c := range counts {
		resp.GrantsByLevel[c.ID] = c.Count
	}

	// Entries I created and shared, grouped by type.
	counts = nil
	pipeline = mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"archived":      false,
			"created_by":    principalID,
			"shared_with.0": bson.M{"$exists": true},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$type",
			"count": bson.M{"$sum": 1},
		}}},
	}
	if err := s.entries.Aggregate(ctx, pipeline, &counts); err != nil {
		return nil, err
	}
	for _, c := range counts {
		resp.SharedByType[c.ID] = c.Count
		resp.SharedEntries += c.Count
	}

	var received []struct {
		Count int `bson:"count"`
	}
	pipeline = mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"archived":            false,
			"shared_with.user_id": principalID,
		}}},
		{{Key: "$count", Value: "count"}},
	}
	if err := s.entries.Aggregate(ctx, pipeline, &received); err != nil {
		return nil, err
	}
	if len(received) > 0 {
		resp.ReceivedEntries = received[0].Count
	}

	return resp, nil
}

// Analytics breaks the principal's shared entries down by product and by
// recipient.
func (s *Service) Analytics(ctx context.Context, principalID primitive.ObjectID) (*AnalyticsResponse, error) {
	resp := &AnalyticsResponse{
		ByProduct:     []ProductShareStats{},
		TopRecipients: []RecipientStats{},
	}

	var byProduct []struct {
		ID          primitive.ObjectID `bson:"_id"`
		EntryCount  int                `bson:"entry_count"`
		GrantCount  int                `bson:"grant_count"`
		PublicCount int                `bson:"public_count"`
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"archived":   false,
			"created_by": principalID,
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":         "$product_id",
			"entry_count": bson.M{"$sum": 1},
			"grant_count": bson.M{"$sum": bson.M{"$size": "$shared_with"}},
			"public_count": bson.M{"$sum": bson.M{
				"$cond": bson.A{"$is_public", 1, 0},
			}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "grant_count", Value: -1}}}},
	}
	if err := s.entries.Aggregate(ctx, pipeline, &byProduct); err != nil {
		return nil, err
	}
	for _, p := range byProduct {
		resp.ByProduct = append(resp.ByProduct, ProductShareStats{
			ProductID:   p.ID.Hex(),
			EntryCount:  p.EntryCount,
			GrantCount:  p.GrantCount,
			PublicCount: p.PublicCount,
		})
	}

	var recipients []struct {
		ID    primitive.ObjectID `bson:"_id"`
		Count int                `bson:"count"`
	}
	pipeline = mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"archived":      false,
			"created_by":    principalID,
			"shared_with.0": bson.M{"$exists": true},
		}}},
		{{Key: "$unwind", Value: "$shared_with"}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$shared_with.user_id",
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
		{{Key: "$limit", Value: 10}},
	}
	if err := s.entries.Aggregate(ctx, pipeline, &recipients); err != nil {
		return nil, err
	}
	for _, r := range recipients {
		resp.TopRecipients = append(resp.TopRecipients, RecipientStats{
			UserID:     r.ID.Hex(),
			GrantCount: r.Count,
		})
	}

	return resp, nil
}
