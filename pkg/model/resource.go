package model

// ResourceKind discriminates the two reservable resource types.
type ResourceKind string

const (
	KindSlot  ResourceKind = "slot"
	KindEvent ResourceKind = "event"
)

func (k ResourceKind) Valid() bool {
	return k == KindSlot || k == KindEvent
}

// Resource is the closed union of reservable inventory. Only *Slot and
// *Event implement it; handlers switch on the concrete type instead of
// branching on a raw string discriminator.
type Resource interface {
	ResourceID() string
	Kind() ResourceKind
	// Available reports whether a new booking request may reference
	// this resource right now.
	Available() bool
	// PackageLabel and UnitPrice are snapshotted onto the Booking at
	// request time so later catalog edits cannot change its charge.
	PackageLabel() string
	UnitPrice() float64

	sealedResource()
}
