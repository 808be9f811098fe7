package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DelegationRepository provides operations on the delegation audit log
type DelegationRepository struct {
	collection  *mongo.Collection
	environment string
}

// NewDelegationRepository creates a repository bound to the given connection
func NewDelegationRepository(conn *Connection) *DelegationRepository {
	return &DelegationRepository{
		collection:  conn.GetCollection(delegationsCollection),
		environment: conn.Config.Environment,
	}
}

// Insert stores a delegation record
func (r *DelegationRepository) Insert(ctx context.Context, record *DelegationRecord) error {
	record.CreatedAt = time.Now()
	if record.Environment == "" {
		record.Environment = r.environment
	}

	if _, err := r.collection.InsertOne(ctx, record); err != nil {
		return fmt.Errorf("failed to insert delegation record: %w", err)
	}
	return nil
}

// FindBySessionID retrieves delegation records for a session, most recent first
func (r *DelegationRepository) FindBySessionID(ctx context.Context, sessionID string, limit int64) ([]*DelegationRecord, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{"session_id": sessionID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find delegation records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*DelegationRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode delegation records: %w", err)
	}
	return records, nil
}

// Recent retrieves the most recent delegation records
func (r *DelegationRepository) Recent(ctx context.Context, limit, offset int64) ([]*DelegationRecord, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find delegation records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*DelegationRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode delegation records: %w", err)
	}
	return records, nil
}

// CountByAgent returns per-agent delegation counts
func (r *DelegationRepository) CountByAgent(ctx context.Context) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$target_agent"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate delegation counts: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Agent string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode delegation counts: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Agent] = row.Count
	}
	return counts, nil
}
