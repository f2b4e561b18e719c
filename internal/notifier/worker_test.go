package notifier

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"rinkside/internal/notifications"
	"rinkside/pkg/config"
	"rinkside/pkg/kafka"
	"rinkside/pkg/logger"
)

type recordingNotifier struct {
	admin  []notifications.BookingRequested
	client []notifications.BookingPaid
}

func (r *recordingNotifier) NotifyAdmin(ctx context.Context, event notifications.BookingRequested) error {
	r.admin = append(r.admin, event)
	return nil
}

func (r *recordingNotifier) NotifyClient(ctx context.Context, event notifications.BookingPaid) error {
	r.client = append(r.client, event)
	return nil
}

func testWorker(n Notifier) *Worker {
	return &Worker{
		notifier: n,
		cfg: &config.Config{
			Log: logger.New(logger.Config{Output: io.Discard}),
		},
	}
}

func messageFor(t *testing.T, eventType string, payload any) kafka.Message {
	t.Helper()
	value, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	return kafka.Message{
		Key:   "booking-1",
		Value: value,
		Headers: map[string]string{
			kafka.HeaderEventType: eventType,
		},
	}
}

func TestHandle_BookingRequested(t *testing.T) {
	n := &recordingNotifier{}
	w := testWorker(n)

	event := notifications.BookingRequested{
		BookingID:   "booking-1",
		ClientName:  "Jamie Doe",
		AdminEmail:  "admin@example.com",
		RequestedAt: time.Now().UTC(),
	}

	err := w.handle(context.Background(), messageFor(t, notifications.EventBookingRequested, event))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(n.admin) != 1 {
		t.Fatalf("expected 1 admin notification, got %d", len(n.admin))
	}
	if n.admin[0].BookingID != "booking-1" {
		t.Errorf("expected booking-1, got %q", n.admin[0].BookingID)
	}
}

func TestHandle_BookingPaid(t *testing.T) {
	n := &recordingNotifier{}
	w := testWorker(n)

	event := notifications.BookingPaid{
		BookingID:   "booking-1",
		ClientEmail: "jamie@example.com",
		AmountPaid:  113,
	}

	err := w.handle(context.Background(), messageFor(t, notifications.EventBookingPaid, event))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(n.client) != 1 {
		t.Fatalf("expected 1 client notification, got %d", len(n.client))
	}
	if n.client[0].AmountPaid != 113 {
		t.Errorf("expected amount 113, got %v", n.client[0].AmountPaid)
	}
}

func TestHandle_UnknownEventTypeSkipped(t *testing.T) {
	n := &recordingNotifier{}
	w := testWorker(n)

	err := w.handle(context.Background(), messageFor(t, "booking.archived", map[string]string{}))
	if err != nil {
		t.Fatalf("expected unknown event to be skipped, got %v", err)
	}
	if len(n.admin)+len(n.client) != 0 {
		t.Error("expected no notifications for unknown event type")
	}
}

func TestHandle_MalformedPayload(t *testing.T) {
	n := &recordingNotifier{}
	w := testWorker(n)

	msg := kafka.Message{
		Key:   "booking-1",
		Value: []byte("{broken"),
		Headers: map[string]string{
			kafka.HeaderEventType: notifications.EventBookingRequested,
		},
	}

	if err := w.handle(context.Background(), msg); err == nil {
		t.Error("expected malformed payload to error for DLQ routing")
	}
}
