package model

import "time"

// Booking statuses. Transitions are monotonic:
// pending -> approved -> paid, or pending -> rejected.
const (
	BookingPending  = "pending"
	BookingApproved = "approved"
	BookingRejected = "rejected"
	BookingPaid     = "paid"
)

// Booking is a client's reservation request against a Slot or an Event.
// PackageName and Price are snapshots taken at request time.
type Booking struct {
	ID           string       `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ResourceID   string       `json:"resourceId" bson:"resource_id" validate:"required,mongodb"`
	ResourceKind ResourceKind `json:"resourceType" bson:"resource_type" validate:"required,oneof=slot event"`
	UserID       string       `json:"userId" bson:"user_id" validate:"required"`
	ClientName   string       `json:"clientName" bson:"client_name" validate:"required,min=2,max=100"`
	ClientEmail  string       `json:"clientEmail" bson:"client_email" validate:"required,email"`
	ClientPhone  string       `json:"clientPhone" bson:"client_phone" validate:"required,min=7,max=20"`
	PackageName  string       `json:"packageName" bson:"package_name"`
	Price        float64      `json:"price" bson:"price"`
	Status       string       `json:"status" bson:"status"`
	CreatedAt    time.Time    `json:"createdAt" bson:"created_at"`
	DecidedAt    time.Time    `json:"decidedAt,omitempty" bson:"decided_at,omitempty"`

	PaymentSessionID string    `json:"paymentSessionId,omitempty" bson:"payment_session_id,omitempty"`
	AmountPaid       float64   `json:"amountPaid,omitempty" bson:"amount_paid,omitempty"`
	PaidAt           time.Time `json:"paidAt,omitempty" bson:"paid_at,omitempty"`
}

// Terminal reports whether the booking can never change state again.
func (b *Booking) Terminal() bool {
	return b.Status == BookingRejected || b.Status == BookingPaid
}

var bookingTransitions = map[string][]string{
	BookingPending:  {BookingApproved, BookingRejected},
	BookingApproved: {BookingPaid, BookingRejected},
}

// CanTransition reports whether moving a booking from one status to
// another is legal. approved -> rejected exists only for the stale-hold
// sweep; the admin decision path always starts from pending.
func CanTransition(from, to string) bool {
	for _, next := range bookingTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
