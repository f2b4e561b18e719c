package notifier

import (
	"context"

	"rinkside/internal/notifications"
	"rinkside/pkg/logger"
)

// Notifier delivers booking notifications to their audience. The admin
// hears about new requests; the client hears about settled payments.
type Notifier interface {
	NotifyAdmin(ctx context.Context, event notifications.BookingRequested) error
	NotifyClient(ctx context.Context, event notifications.BookingPaid) error
}

// logNotifier writes notifications to the structured log. It stands in
// for a mail or SMS sender until one is wired up.
type logNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) Notifier {
	return &logNotifier{log: log}
}

func (n *logNotifier) NotifyAdmin(ctx context.Context, event notifications.BookingRequested) error {
	n.log.Info("Admin notification: booking requested",
		"admin_email", event.AdminEmail,
		"booking_id", event.BookingID,
		"resource_id", event.ResourceID,
		"resource_kind", event.ResourceKind,
		"package", event.PackageLabel,
		"client_name", event.ClientName,
		"client_email", event.ClientEmail,
		"client_phone", event.ClientPhone,
		"requested_at", event.RequestedAt,
	)
	return nil
}

func (n *logNotifier) NotifyClient(ctx context.Context, event notifications.BookingPaid) error {
	n.log.Info("Client notification: booking paid",
		"client_email", event.ClientEmail,
		"client_name", event.ClientName,
		"booking_id", event.BookingID,
		"package", event.PackageLabel,
		"amount_paid", event.AmountPaid,
		"paid_at", event.PaidAt,
	)
	return nil
}
