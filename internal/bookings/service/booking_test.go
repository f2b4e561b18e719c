package service

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "rinkside/internal/bookings/errors"
	"rinkside/internal/bookings/validator"
	inventoryerrors "rinkside/internal/inventory/errors"
	"rinkside/internal/notifications"
	"rinkside/pkg/config"
	mongotx "rinkside/pkg/db/mongo"
	apperrors "rinkside/pkg/errors"
	"rinkside/pkg/logger"
	"rinkside/pkg/model"
)

const (
	testSlotID    = "665f1c2b8e4d3a0012345678"
	testEventID   = "665f1c2b8e4d3a0012345679"
	testBookingID = "665f1c2b8e4d3a001234567a"
)

type mockBookingRepo struct {
	createFn       func(ctx context.Context, booking *model.Booking) error
	findByIDFn     func(ctx context.Context, id string) (*model.Booking, error)
	updateStatusFn func(ctx context.Context, id, from, to string) error
}

func (m *mockBookingRepo) Create(ctx context.Context, booking *model.Booking) error {
	if m.createFn != nil {
		return m.createFn(ctx, booking)
	}
	booking.ID = testBookingID
	return nil
}

func (m *mockBookingRepo) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
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
	return nil, nil
}

func (m *mockBookingRepo) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	var sessCtx mongo.SessionContext
	return fn(sessCtx)
}

type mockResourceRepo struct {
	findResourceFn func(ctx context.Context, kind model.ResourceKind, id string) (model.Resource, error)
}

func (m *mockResourceRepo) FindResource(ctx context.Context, kind model.ResourceKind, id string) (model.Resource, error) {
	return m.findResourceFn(ctx, kind, id)
}

type mockSlotRepo struct {
	lockFn    func(ctx context.Context, slotID, bookingID, userID string) error
	approveFn func(ctx context.Context, slotID string) error
	releaseFn func(ctx context.Context, slotID string) error
}

func (m *mockSlotRepo) FindByID(ctx context.Context, id string) (*model.Slot, error) {
	return nil, inventoryerrors.ErrNotFound
}

func (m *mockSlotRepo) Lock(ctx context.Context, slotID, bookingID, userID string) error {
	if m.lockFn != nil {
		return m.lockFn(ctx, slotID, bookingID, userID)
	}
	return nil
}

func (m *mockSlotRepo) Approve(ctx context.Context, slotID string) error {
	if m.approveFn != nil {
		return m.approveFn(ctx, slotID)
	}
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

type mockPublisher struct {
	requested []notifications.BookingRequested
	paid      []notifications.BookingPaid
}

func (m *mockPublisher) BookingRequested(ctx context.Context, event notifications.BookingRequested) {
	m.requested = append(m.requested, event)
}

func (m *mockPublisher) BookingPaid(ctx context.Context, event notifications.BookingPaid) {
	m.paid = append(m.paid, event)
}

func testConfig() *config.Config {
	return &config.Config{
		Log:        logger.New(logger.Config{Output: io.Discard}),
		AdminEmail: "admin@example.com",
	}
}

func availableSlot() *model.Slot {
	return &model.Slot{
		ID:          testSlotID,
		PackageName: "Elite Goalie Session",
		Price:       100,
		Status:      model.SlotAvailable,
	}
}

func validRequest(kind model.ResourceKind, resourceID string) *model.Booking {
	return &model.Booking{
		ResourceID:   resourceID,
		ResourceKind: kind,
		UserID:       "user-1",
		ClientName:   "Jamie Doe",
		ClientEmail:  "jamie@example.com",
		ClientPhone:  "4165551234",
	}
}

func newTestService(repo *mockBookingRepo, resources *mockResourceRepo, slots *mockSlotRepo, pub *mockPublisher) BookingService {
	cfg := testConfig()
	return NewBookingService(repo, resources, slots, validator.NewBookingValidator(cfg.Log), pub, cfg)
}

func TestRequest_SlotSuccess(t *testing.T) {
	slot := availableSlot()
	var lockedBooking, lockedSlot string

	repo := &mockBookingRepo{}
	resources := &mockResourceRepo{
		findResourceFn: func(ctx context.Context, kind model.ResourceKind, id string) (model.Resource, error) {
			return slot, nil
		},
	}
	slots := &mockSlotRepo{
		lockFn: func(ctx context.Context, slotID, bookingID, userID string) error {
			lockedSlot = slotID
			lockedBooking = bookingID
			return nil
		},
	}
	pub := &mockPublisher{}

	svc := newTestService(repo, resources, slots, pub)
	booking := validRequest(model.KindSlot, testSlotID)

	if err := svc.Request(context.Background(), booking); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.Status != model.BookingPending {
		t.Errorf("expected status %q, got %q", model.BookingPending, booking.Status)
	}
	if booking.PackageName != slot.PackageName || booking.Price != slot.Price {
		t.Errorf("expected price snapshot %q/%v, got %q/%v",
			slot.PackageName, slot.Price, booking.PackageName, booking.Price)
	}
	if lockedSlot != testSlotID || lockedBooking != testBookingID {
		t.Errorf("expected slot %s locked by booking %s, got %s/%s",
			testSlotID, testBookingID, lockedSlot, lockedBooking)
	}
	if len(pub.requested) != 1 {
		t.Fatalf("expected 1 requested notification, got %d", len(pub.requested))
	}
	if pub.requested[0].AdminEmail != "admin@example.com" {
		t.Errorf("expected admin email on notification, got %q", pub.requested[0].AdminEmail)
	}
}

func TestRequest_EventDoesNotLockSlot(t *testing.T) {
	event := &model.Event{
		ID:          testEventID,
		Title:       "Summer Camp Week 1",
		Price:       250,
		Capacity:    20,
		BookedCount: 5,
		Status:      model.EventActive,
	}

	lockCalled := false
	repo := &mockBookingRepo{}
	resources := &mockResourceRepo{
		findResourceFn: func(ctx context.Context, kind model.ResourceKind, id string) (model.Resource, error) {
			return event, nil
		},
	}
	slots := &mockSlotRepo{
		lockFn: func(ctx context.Context, slotID, bookingID, userID string) error {
			lockCalled = true
			return nil
		},
	}

	svc := newTestService(repo, resources, slots, &mockPublisher{})
	booking := validRequest(model.KindEvent, testEventID)

	if err := svc.Request(context.Background(), booking); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lockCalled {
		t.Error("expected no slot lock for an event booking")
	}
	if booking.PackageName != event.Title {
		t.Errorf("expected package snapshot %q, got %q", event.Title, booking.PackageName)
	}
}

func TestRequest_ValidationFailure(t *testing.T) {
	svc := newTestService(&mockBookingRepo{}, &mockResourceRepo{}, &mockSlotRepo{}, &mockPublisher{})

	booking := validRequest(model.KindSlot, testSlotID)
	booking.ClientEmail = "not-an-email"

	err := svc.Request(context.Background(), booking)
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if appErr.StatusCode() != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", appErr.StatusCode())
	}
}

func TestRequest_ResourceUnavailable(t *testing.T) {
	slot := availableSlot()
	slot.Status = model.SlotRequested

	resources := &mockResourceRepo{
		findResourceFn: func(ctx context.Context, kind model.ResourceKind, id string) (model.Resource, error) {
			return slot, nil
		},
	}

	svc := newTestService(&mockBookingRepo{}, resources, &mockSlotRepo{}, &mockPublisher{})

	err := svc.Request(context.Background(), validRequest(model.KindSlot, testSlotID))
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestRequest_ConcurrentSlotLockLoses(t *testing.T) {
	// The slot reads available, but another request wins the lock
	// inside the transaction. The loser gets a conflict.
	slot := availableSlot()

	resources := &mockResourceRepo{
		findResourceFn: func(ctx context.Context, kind model.ResourceKind, id string) (model.Resource, error) {
			return slot, nil
		},
	}
	slots := &mockSlotRepo{
		lockFn: func(ctx context.Context, slotID, bookingID, userID string) error {
			return inventoryerrors.ErrUnavailable
		},
	}
	pub := &mockPublisher{}

	svc := newTestService(&mockBookingRepo{}, resources, slots, pub)

	err := svc.Request(context.Background(), validRequest(model.KindSlot, testSlotID))
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if len(pub.requested) != 0 {
		t.Error("expected no notification for a failed request")
	}
}

func TestRequest_ResourceNotFound(t *testing.T) {
	resources := &mockResourceRepo{
		findResourceFn: func(ctx context.Context, kind model.ResourceKind, id string) (model.Resource, error) {
			return nil, inventoryerrors.ErrNotFound
		},
	}

	svc := newTestService(&mockBookingRepo{}, resources, &mockSlotRepo{}, &mockPublisher{})

	err := svc.Request(context.Background(), validRequest(model.KindSlot, testSlotID))
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestDecide_ApproveSlot(t *testing.T) {
	approved := ""
	var transition [2]string

	repo := &mockBookingRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Booking, error) {
			return &model.Booking{
				ID:           testBookingID,
				ResourceID:   testSlotID,
				ResourceKind: model.KindSlot,
				Status:       model.BookingPending,
			}, nil
		},
		updateStatusFn: func(ctx context.Context, id, from, to string) error {
			transition = [2]string{from, to}
			return nil
		},
	}
	slots := &mockSlotRepo{
		approveFn: func(ctx context.Context, slotID string) error {
			approved = slotID
			return nil
		},
	}

	svc := newTestService(repo, &mockResourceRepo{}, slots, &mockPublisher{})

	booking, err := svc.Decide(context.Background(), testBookingID, DecisionApprove)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.Status != model.BookingApproved {
		t.Errorf("expected status %q, got %q", model.BookingApproved, booking.Status)
	}
	if transition != [2]string{model.BookingPending, model.BookingApproved} {
		t.Errorf("unexpected status transition %v", transition)
	}
	if approved != testSlotID {
		t.Errorf("expected slot %s approved, got %q", testSlotID, approved)
	}
}

func TestDecide_RejectReleasesSlot(t *testing.T) {
	released := ""

	repo := &mockBookingRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Booking, error) {
			return &model.Booking{
				ID:           testBookingID,
				ResourceID:   testSlotID,
				ResourceKind: model.KindSlot,
				Status:       model.BookingPending,
			}, nil
		},
	}
	slots := &mockSlotRepo{
		releaseFn: func(ctx context.Context, slotID string) error {
			released = slotID
			return nil
		},
	}

	svc := newTestService(repo, &mockResourceRepo{}, slots, &mockPublisher{})

	booking, err := svc.Decide(context.Background(), testBookingID, DecisionReject)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.Status != model.BookingRejected {
		t.Errorf("expected status %q, got %q", model.BookingRejected, booking.Status)
	}
	if released != testSlotID {
		t.Errorf("expected slot %s released, got %q", testSlotID, released)
	}
}

func TestDecide_RepeatedDecisionIsNoop(t *testing.T) {
	updateCalled := false

	repo := &mockBookingRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Booking, error) {
			return &model.Booking{
				ID:           testBookingID,
				ResourceID:   testSlotID,
				ResourceKind: model.KindSlot,
				Status:       model.BookingApproved,
			}, nil
		},
		updateStatusFn: func(ctx context.Context, id, from, to string) error {
			updateCalled = true
			return nil
		},
	}

	svc := newTestService(repo, &mockResourceRepo{}, &mockSlotRepo{}, &mockPublisher{})

	booking, err := svc.Decide(context.Background(), testBookingID, DecisionApprove)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.Status != model.BookingApproved {
		t.Errorf("expected status to stay %q, got %q", model.BookingApproved, booking.Status)
	}
	if updateCalled {
		t.Error("expected no status update for a repeated decision")
	}
}

func TestDecide_FlippingDecisionConflicts(t *testing.T) {
	repo := &mockBookingRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Booking, error) {
			return &model.Booking{
				ID:           testBookingID,
				ResourceID:   testSlotID,
				ResourceKind: model.KindSlot,
				Status:       model.BookingRejected,
			}, nil
		},
		updateStatusFn: func(ctx context.Context, id, from, to string) error {
			return bookingserrors.ErrInvalidTransition
		},
	}

	svc := newTestService(repo, &mockResourceRepo{}, &mockSlotRepo{}, &mockPublisher{})

	_, err := svc.Decide(context.Background(), testBookingID, DecisionApprove)
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if appErr.StatusCode() != http.StatusConflict {
		t.Errorf("expected status 409, got %d", appErr.StatusCode())
	}
}

func TestDecide_InvalidVerb(t *testing.T) {
	svc := newTestService(&mockBookingRepo{}, &mockResourceRepo{}, &mockSlotRepo{}, &mockPublisher{})

	_, err := svc.Decide(context.Background(), testBookingID, "maybe")
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeInvalidInput {
		t.Fatalf("expected invalid input error, got %v", err)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo := &mockBookingRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Booking, error) {
			return nil, bookingserrors.ErrNotFound
		},
	}

	svc := newTestService(repo, &mockResourceRepo{}, &mockSlotRepo{}, &mockPublisher{})

	_, err := svc.GetByID(context.Background(), testBookingID)
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}
