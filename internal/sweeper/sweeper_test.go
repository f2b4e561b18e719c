package sweeper

import (
	"context"
	"io"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "rinkside/internal/bookings/errors"
	inventoryerrors "rinkside/internal/inventory/errors"
	"rinkside/pkg/config"
	mongotx "rinkside/pkg/db/mongo"
	"rinkside/pkg/logger"
	"rinkside/pkg/model"
)

const (
	testBookingID = "665f1c2b8e4d3a001234567a"
	testSlotID    = "665f1c2b8e4d3a0012345678"
)

type mockBookingRepo struct {
	findStaleApprovedFn func(ctx context.Context, cutoff time.Time, limit int) ([]*model.Booking, error)
	updateStatusFn      func(ctx context.Context, id, from, to string) error
}

func (m *mockBookingRepo) Create(ctx context.Context, booking *model.Booking) error {
	return nil
}

func (m *mockBookingRepo) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	return nil, bookingserrors.ErrNotFound
}

func (m *mockBookingRepo) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, error) {
	return nil, nil
}

func (m *mockBookingRepo) Count(ctx context.Context) (int64, error) {
	return 0, nil
}

func (m *mockBookingRepo) UpdateStatus(ctx context.Context, id, from, to string) error {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, from, to)
	}
	return nil
}

func (m *mockBookingRepo) MarkPaid(ctx context.Context, id, sessionID string, amountPaid float64, paidAt time.Time) error {
	return nil
}

func (m *mockBookingRepo) FindByPaymentSession(ctx context.Context, sessionID string) (*model.Booking, error) {
	return nil, bookingserrors.ErrNotFound
}

func (m *mockBookingRepo) FindStaleApproved(ctx context.Context, cutoff time.Time, limit int) ([]*model.Booking, error) {
	return m.findStaleApprovedFn(ctx, cutoff, limit)
}

func (m *mockBookingRepo) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	var sessCtx mongo.SessionContext
	return fn(sessCtx)
}

type mockSlotRepo struct {
	releaseFn func(ctx context.Context, slotID string) error
}

func (m *mockSlotRepo) FindByID(ctx context.Context, id string) (*model.Slot, error) {
	return nil, inventoryerrors.ErrNotFound
}

func (m *mockSlotRepo) Lock(ctx context.Context, slotID, bookingID, userID string) error {
	return nil
}

func (m *mockSlotRepo) Approve(ctx context.Context, slotID string) error {
	return nil
}

func (m *mockSlotRepo) Release(ctx context.Context, slotID string) error {
	if m.releaseFn != nil {
		return m.releaseFn(ctx, slotID)
	}
	return nil
}

func (m *mockSlotRepo) MarkSold(ctx context.Context, slotID string) error {
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Log:           logger.New(logger.Config{Output: io.Discard}),
		HoldTTL:       48 * time.Hour,
		SweepInterval: 10 * time.Minute,
	}
}

func staleBooking() *model.Booking {
	return &model.Booking{
		ID:           testBookingID,
		ResourceID:   testSlotID,
		ResourceKind: model.KindSlot,
		Status:       model.BookingApproved,
		DecidedAt:    time.Now().UTC().Add(-72 * time.Hour),
	}
}

func TestSweep_ExpiresStaleSlotHold(t *testing.T) {
	var transition [2]string
	released := ""
	var gotCutoff time.Time

	repo := &mockBookingRepo{
		findStaleApprovedFn: func(ctx context.Context, cutoff time.Time, limit int) ([]*model.Booking, error) {
			gotCutoff = cutoff
			return []*model.Booking{staleBooking()}, nil
		},
		updateStatusFn: func(ctx context.Context, id, from, to string) error {
			transition = [2]string{from, to}
			return nil
		},
	}
	slots := &mockSlotRepo{
		releaseFn: func(ctx context.Context, slotID string) error {
			released = slotID
			return nil
		},
	}

	cfg := testConfig()
	s := NewSweeper(repo, slots, cfg)
	s.sweep(context.Background())

	if transition != [2]string{model.BookingApproved, model.BookingRejected} {
		t.Errorf("unexpected status transition %v", transition)
	}
	if released != testSlotID {
		t.Errorf("expected slot %s released, got %q", testSlotID, released)
	}

	wantCutoff := time.Now().UTC().Add(-cfg.HoldTTL)
	if diff := wantCutoff.Sub(gotCutoff); diff < -time.Minute || diff > time.Minute {
		t.Errorf("expected cutoff near %v, got %v", wantCutoff, gotCutoff)
	}
}

func TestSweep_PaidBookingWinsTheRace(t *testing.T) {
	released := false

	repo := &mockBookingRepo{
		findStaleApprovedFn: func(ctx context.Context, cutoff time.Time, limit int) ([]*model.Booking, error) {
			return []*model.Booking{staleBooking()}, nil
		},
		updateStatusFn: func(ctx context.Context, id, from, to string) error {
			// Payment landed between the query and the update.
			return bookingserrors.ErrInvalidTransition
		},
	}
	slots := &mockSlotRepo{
		releaseFn: func(ctx context.Context, slotID string) error {
			released = true
			return nil
		},
	}

	s := NewSweeper(repo, slots, testConfig())
	s.sweep(context.Background())

	if released {
		t.Error("expected no slot release when the booking got paid")
	}
}

func TestSweep_EventBookingSkipsSlotRelease(t *testing.T) {
	released := false

	booking := staleBooking()
	booking.ResourceKind = model.KindEvent

	repo := &mockBookingRepo{
		findStaleApprovedFn: func(ctx context.Context, cutoff time.Time, limit int) ([]*model.Booking, error) {
			return []*model.Booking{booking}, nil
		},
	}
	slots := &mockSlotRepo{
		releaseFn: func(ctx context.Context, slotID string) error {
			released = true
			return nil
		},
	}

	s := NewSweeper(repo, slots, testConfig())
	s.sweep(context.Background())

	if released {
		t.Error("expected no slot release for an event booking")
	}
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	repo := &mockBookingRepo{
		findStaleApprovedFn: func(ctx context.Context, cutoff time.Time, limit int) ([]*model.Booking, error) {
			return nil, nil
		},
	}

	s := NewSweeper(repo, &mockSlotRepo{}, testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop on context cancel")
	}
}
