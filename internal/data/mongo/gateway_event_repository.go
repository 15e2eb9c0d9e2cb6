package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/givebridge-donation-platform/internal/domain/audit"
)

const (
	// GatewayEventCollectionName is the name of the webhook audit collection in MongoDB
	GatewayEventCollectionName = "gateway_events"
)

// GatewayEventRepository implements the audit.Repository interface for MongoDB
type GatewayEventRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewGatewayEventRepository creates a new MongoDB gateway event repository
func NewGatewayEventRepository(logger *slog.Logger, db *mongo.Database) audit.Repository {
	return &GatewayEventRepository{
		db:     db,
		logger: logger,
	}
}

// Record stores a webhook delivery audit record
func (r *GatewayEventRepository) Record(ctx context.Context, event *audit.GatewayEvent) error {
	collection := r.db.Collection(GatewayEventCollectionName)

	_, err := collection.InsertOne(ctx, event)
	if err != nil {
		r.logger.Error("Failed to record gateway event",
			"event_id", event.EventID,
			"result", string(event.Result),
			"error", err)
		return fmt.Errorf("failed to record gateway event: %w", err)
	}

	return nil
}

// ListByDonation retrieves paginated audit records for a donation.
// Results are sorted by receipt time in descending order (newest first).
func (r *GatewayEventRepository) ListByDonation(ctx context.Context, donationID string, limit, offset int) ([]*audit.GatewayEvent, error) {
	collection := r.db.Collection(GatewayEventCollectionName)

	filter := bson.M{"donation_id": donationID}
	opts := options.Find().
		SetSort(bson.M{"received_at": -1}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to list gateway events",
			"donation_id", donationID,
			"error", err)
		return nil, fmt.Errorf("failed to list gateway events: %w", err)
	}
	defer cursor.Close(ctx)

	var events []*audit.GatewayEvent
	if err := cursor.All(ctx, &events); err != nil {
		r.logger.Error("Failed to decode gateway events",
			"donation_id", donationID,
			"error", err)
		return nil, fmt.Errorf("failed to decode gateway events: %w", err)
	}

	return events, nil
}

// ListByTimeRange retrieves paginated audit records within the specified time window.
// Results are sorted by receipt time in descending order for recent-first access.
func (r *GatewayEventRepository) ListByTimeRange(ctx context.Context, startTime, endTime time.Time, limit, offset int) ([]*audit.GatewayEvent, error) {
	collection := r.db.Collection(GatewayEventCollectionName)

	filter := bson.M{
		"received_at": bson.M{
			"$gte": startTime,
			"$lte": endTime,
		},
	}
	opts := options.Find().
		SetSort(bson.M{"received_at": -1}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to list gateway events by time range",
			"start_time", startTime,
			"end_time", endTime,
			"error", err)
		return nil, fmt.Errorf("failed to list gateway events by time range: %w", err)
	}
	defer cursor.Close(ctx)

	var events []*audit.GatewayEvent
	if err := cursor.All(ctx, &events); err != nil {
		r.logger.Error("Failed to decode gateway events",
			"start_time", startTime,
			"end_time", endTime,
			"error", err)
		return nil, fmt.Errorf("failed to decode gateway events: %w", err)
	}

	return events, nil
}

// CountByResult counts audit records with the given handling result
func (r *GatewayEventRepository) CountByResult(ctx context.Context, result audit.Result) (int64, error) {
	collection := r.db.Collection(GatewayEventCollectionName)

	filter := bson.M{"result": result}
	count, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		r.logger.Error("Failed to count gateway events",
			"result", string(result),
			"error", err)
		return 0, fmt.Errorf("failed to count gateway events: %w", err)
	}

	return count, nil
}
