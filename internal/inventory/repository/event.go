package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	inventoryerrors "rinkside/internal/inventory/errors"
	"rinkside/pkg/config"
	"rinkside/pkg/model"
)

const EventCollectionName = "events"

// EventRepository owns the shared-capacity half of the inventory model.
// Events hold no lock: admission is the capacity filter on the write.
type EventRepository interface {
	FindByID(ctx context.Context, id string) (*model.Event, error)
	// Admit increments booked_count and recomputes status, guarded by
	// booked_count < capacity inside the filter so concurrent
	// confirmations cannot overshoot capacity.
	Admit(ctx context.Context, eventID string) error
}

type mongoEventRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoEventRepository(cfg *config.Config) EventRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoEventRepository{
		cfg:        cfg,
		collection: db.Collection(EventCollectionName),
	}
}

func (r *mongoEventRepository) FindByID(ctx context.Context, id string) (*model.Event, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", inventoryerrors.ErrInvalidID, id)
	}

	var event model.Event
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&event)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, inventoryerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}
	event.ID = id

	return &event, nil
}

func (r *mongoEventRepository) Admit(ctx context.Context, eventID string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(eventID)
	if err != nil {
		return fmt.Errorf("%w: %s", inventoryerrors.ErrInvalidID, eventID)
	}

	filter := bson.M{
		"_id":    objectID,
		"status": bson.M{"$ne": model.EventEnded},
		"$expr":  bson.M{"$lt": []any{"$booked_count", "$capacity"}},
	}

	// Pipeline update so the increment and the full/active recompute
	// land in one atomic write.
	update := mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.M{
			"booked_count": bson.M{"$add": []any{"$booked_count", 1}},
			"status": bson.M{"$cond": []any{
				bson.M{"$gte": []any{
					bson.M{"$add": []any{"$booked_count", 1}},
					"$capacity",
				}},
				model.EventFull,
				model.EventActive,
			}},
			"updated_at": time.Now().UTC(),
		}}},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to admit booking to event: %w", err)
	}

	if result.MatchedCount == 0 {
		if _, err := r.FindByID(ctx, eventID); err != nil {
			return err
		}
		return inventoryerrors.ErrCapacityFull
	}

	return nil
}
