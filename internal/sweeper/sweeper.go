package sweeper

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "rinkside/internal/bookings/errors"
	bookingsrepo "rinkside/internal/bookings/repository"
	inventoryrepo "rinkside/internal/inventory/repository"
	"rinkside/pkg/config"
	"rinkside/pkg/model"
)

const sweepBatchSize = 100

// Sweeper expires approved bookings whose payment never arrived within
// the hold TTL, releasing the slot back to inventory so it can be
// booked again.
type Sweeper struct {
	bookings bookingsrepo.BookingRepository
	slots    inventoryrepo.SlotRepository
	cfg      *config.Config
}

func NewSweeper(bookings bookingsrepo.BookingRepository, slots inventoryrepo.SlotRepository, cfg *config.Config) *Sweeper {
	return &Sweeper{
		bookings: bookings,
		slots:    slots,
		cfg:      cfg,
	}
}

// Run loops on the sweep interval until the context is cancelled. One
// pass runs immediately on startup so a restart never extends a hold.
func (s *Sweeper) Run(ctx context.Context) {
	s.cfg.Log.Info("Stale-hold sweeper started",
		"hold_ttl", s.cfg.HoldTTL.String(),
		"interval", s.cfg.SweepInterval.String(),
	)

	s.sweep(ctx)

	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.cfg.Log.Info("Stale-hold sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-s.cfg.HoldTTL)

	stale, err := s.bookings.FindStaleApproved(ctx, cutoff, sweepBatchSize)
	if err != nil {
		s.cfg.Log.Error("Failed to query stale bookings", "error", err)
		return
	}
	if len(stale) == 0 {
		return
	}

	expired := 0
	for _, booking := range stale {
		if err := s.expire(ctx, booking); err != nil {
			s.cfg.Log.Error("Failed to expire stale booking",
				"booking_id", booking.ID,
				"error", err,
			)
			continue
		}
		expired++
	}

	s.cfg.Log.Info("Sweep pass finished",
		"cutoff", cutoff,
		"candidates", len(stale),
		"expired", expired,
	)
}

// expire rejects one stale booking and releases its slot. A booking
// that got paid between the query and the update loses the transition
// race and is left alone.
func (s *Sweeper) expire(ctx context.Context, booking *model.Booking) error {
	return s.bookings.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		err := s.bookings.UpdateStatus(sessCtx, booking.ID, model.BookingApproved, model.BookingRejected)
		if err != nil {
			if errors.Is(err, bookingserrors.ErrAlreadyDecided) || errors.Is(err, bookingserrors.ErrInvalidTransition) {
				return nil
			}
			return err
		}

		if booking.ResourceKind == model.KindSlot {
			if err := s.slots.Release(sessCtx, booking.ResourceID); err != nil {
				return err
			}
		}

		s.cfg.Log.Info("Stale booking expired",
			"booking_id", booking.ID,
			"resource_id", booking.ResourceID,
			"resource_kind", booking.ResourceKind,
			"decided_at", booking.DecidedAt,
		)
		return nil
	})
}
