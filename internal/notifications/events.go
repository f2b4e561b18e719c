package notifications

import "time"

// Event types carried on the notifications topic.
const (
	EventBookingRequested = "booking.requested"
	EventBookingPaid      = "booking.paid"
)

// BookingRequested is published when a client submits a booking request.
// The admin channel picks it up to prompt an approval decision.
type BookingRequested struct {
	BookingID    string    `json:"booking_id"`
	ResourceID   string    `json:"resource_id"`
	ResourceKind string    `json:"resource_kind"`
	PackageLabel string    `json:"package_label"`
	ClientName   string    `json:"client_name"`
	ClientEmail  string    `json:"client_email"`
	ClientPhone  string    `json:"client_phone"`
	AdminEmail   string    `json:"admin_email"`
	RequestedAt  time.Time `json:"requested_at"`
}

// BookingPaid is published after the payment gateway confirms settlement.
type BookingPaid struct {
	BookingID    string    `json:"booking_id"`
	ResourceID   string    `json:"resource_id"`
	ResourceKind string    `json:"resource_kind"`
	PackageLabel string    `json:"package_label"`
	ClientName   string    `json:"client_name"`
	ClientEmail  string    `json:"client_email"`
	AmountPaid   float64   `json:"amount_paid"`
	PaidAt       time.Time `json:"paid_at"`
}
