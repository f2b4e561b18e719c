package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	inventoryerrors "rinkside/internal/inventory/errors"
	"rinkside/pkg/model"
)

// ResourceRepository resolves a (kind, id) pair into the matching variant
// of the resource union.
type ResourceRepository interface {
	FindResource(ctx context.Context, kind model.ResourceKind, id string) (model.Resource, error)
}

type resourceRepository struct {
	slots  SlotRepository
	events EventRepository
}

func NewResourceRepository(slots SlotRepository, events EventRepository) ResourceRepository {
	return &resourceRepository{slots: slots, events: events}
}

func (r *resourceRepository) FindResource(ctx context.Context, kind model.ResourceKind, id string) (model.Resource, error) {
	switch kind {
	case model.KindSlot:
		return r.slots.FindByID(ctx, id)
	case model.KindEvent:
		return r.events.FindByID(ctx, id)
	default:
		return nil, fmt.Errorf("%w: unknown resource kind %q", inventoryerrors.ErrInvalidID, kind)
	}
}

// withTimeout wraps the context with a timeout unless already inside a
// transaction; a SessionContext cannot be wrapped without breaking
// transaction semantics.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}
