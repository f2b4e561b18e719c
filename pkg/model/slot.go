package model

import "time"

// Slot statuses. The status field doubles as the exclusive lock: at most
// one non-terminal booking may hold a slot, and the conditional transition
// available -> requested is the acquire.
const (
	SlotAvailable      = "available"
	SlotRequested      = "requested"
	SlotPendingPayment = "approved_pending_payment"
	SlotSoldOut        = "sold_out"
)

// Slot is a single scheduled training session, exclusively reservable.
type Slot struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty"`
	Date        string    `json:"date" bson:"date"`
	StartTime   string    `json:"startTime" bson:"start_time"`
	PackageName string    `json:"packageName" bson:"package_name"`
	Price       float64   `json:"price" bson:"price"`
	Status      string    `json:"status" bson:"status"`
	LockedBy    string    `json:"lockHolder,omitempty" bson:"locked_by,omitempty"`
	BookingID   string    `json:"bookingId,omitempty" bson:"booking_id,omitempty"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updated_at"`
}

func (s *Slot) ResourceID() string   { return s.ID }
func (s *Slot) Kind() ResourceKind   { return KindSlot }
func (s *Slot) Available() bool      { return s.Status == SlotAvailable }
func (s *Slot) PackageLabel() string { return s.PackageName }
func (s *Slot) UnitPrice() float64   { return s.Price }

func (s *Slot) sealedResource() {}

// Locked reports whether the slot is exclusively held by a non-terminal
// booking. Both requested and approved_pending_payment count as held.
func (s *Slot) Locked() bool {
	return s.Status == SlotRequested || s.Status == SlotPendingPayment
}
