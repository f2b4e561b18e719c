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

const SlotCollectionName = "slots"

// SlotRepository owns the slot half of the inventory model. Every status
// transition is a single conditional update: the filter carries the
// expected current status, so two concurrent writers cannot both win.
type SlotRepository interface {
	FindByID(ctx context.Context, id string) (*model.Slot, error)
	// Lock performs available -> requested, recording the locking
	// booking and user. A missed condition is a conflict, never an
	// overwrite.
	Lock(ctx context.Context, slotID, bookingID, userID string) error
	// Approve performs requested -> approved_pending_payment. Already
	// being in the target status is a no-op (decision retry).
	Approve(ctx context.Context, slotID string) error
	// Release reverts a held slot to available and clears the lock
	// fields. Only the reject and sweep paths call it.
	Release(ctx context.Context, slotID string) error
	// MarkSold performs the terminal transition to sold_out on payment
	// confirmation.
	MarkSold(ctx context.Context, slotID string) error
}

type mongoSlotRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoSlotRepository(cfg *config.Config) SlotRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSlotRepository{
		cfg:        cfg,
		collection: db.Collection(SlotCollectionName),
	}
}

func (r *mongoSlotRepository) FindByID(ctx context.Context, id string) (*model.Slot, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", inventoryerrors.ErrInvalidID, id)
	}

	var slot model.Slot
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&slot)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, inventoryerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find slot: %w", err)
	}
	slot.ID = id

	return &slot, nil
}

func (r *mongoSlotRepository) Lock(ctx context.Context, slotID, bookingID, userID string) error {
	return r.transition(ctx, slotID,
		bson.M{"status": model.SlotAvailable},
		bson.M{
			"$set": bson.M{
				"status":     model.SlotRequested,
				"locked_by":  userID,
				"booking_id": bookingID,
				"updated_at": time.Now().UTC(),
			},
		},
		nil,
	)
}

func (r *mongoSlotRepository) Approve(ctx context.Context, slotID string) error {
	return r.transition(ctx, slotID,
		bson.M{"status": model.SlotRequested},
		bson.M{
			"$set": bson.M{
				"status":     model.SlotPendingPayment,
				"updated_at": time.Now().UTC(),
			},
		},
		[]string{model.SlotPendingPayment},
	)
}

func (r *mongoSlotRepository) Release(ctx context.Context, slotID string) error {
	return r.transition(ctx, slotID,
		bson.M{"status": bson.M{"$in": []string{model.SlotRequested, model.SlotPendingPayment}}},
		bson.M{
			"$set": bson.M{
				"status":     model.SlotAvailable,
				"updated_at": time.Now().UTC(),
			},
			"$unset": bson.M{
				"locked_by":  "",
				"booking_id": "",
			},
		},
		[]string{model.SlotAvailable},
	)
}

func (r *mongoSlotRepository) MarkSold(ctx context.Context, slotID string) error {
	return r.transition(ctx, slotID,
		bson.M{"status": model.SlotPendingPayment},
		bson.M{
			"$set": bson.M{
				"status":     model.SlotSoldOut,
				"updated_at": time.Now().UTC(),
			},
		},
		[]string{model.SlotSoldOut},
	)
}

// transition applies a conditional update. When the condition misses, the
// slot is re-read: absent means not found, a status in tolerated means the
// transition already happened (idempotent retry), anything else is a
// conflict.
func (r *mongoSlotRepository) transition(ctx context.Context, slotID string, condition, update bson.M, tolerated []string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(slotID)
	if err != nil {
		return fmt.Errorf("%w: %s", inventoryerrors.ErrInvalidID, slotID)
	}

	filter := bson.M{"_id": objectID}
	for k, v := range condition {
		filter[k] = v
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update slot: %w", err)
	}

	if result.MatchedCount > 0 {
		return nil
	}

	slot, err := r.FindByID(ctx, slotID)
	if err != nil {
		return err
	}
	for _, status := range tolerated {
		if slot.Status == status {
			return nil
		}
	}
	return inventoryerrors.ErrUnavailable
}
