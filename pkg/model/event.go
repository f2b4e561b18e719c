package model

import "time"

// Event statuses. Events carry no lock; admission is capacity based.
const (
	EventActive = "active"
	EventFull   = "full"
	EventEnded  = "ended"
)

// Event is a multi-day camp with shared capacity across independent
// bookings. Invariant: 0 <= BookedCount <= Capacity.
type Event struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	StartDate   string    `json:"startDate" bson:"start_date"`
	EndDate     string    `json:"endDate" bson:"end_date"`
	Price       float64   `json:"price" bson:"price"`
	Capacity    int       `json:"capacity" bson:"capacity"`
	BookedCount int       `json:"bookedCount" bson:"booked_count"`
	Status      string    `json:"status" bson:"status"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updated_at"`
}

func (e *Event) ResourceID() string   { return e.ID }
func (e *Event) Kind() ResourceKind   { return KindEvent }
func (e *Event) PackageLabel() string { return e.Title }
func (e *Event) UnitPrice() float64   { return e.Price }

func (e *Event) Available() bool {
	return e.Status != EventEnded && e.BookedCount < e.Capacity
}

func (e *Event) sealedResource() {}
