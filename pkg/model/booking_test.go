package model

import "testing"

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		allowed bool
	}{
		{"pending to approved", BookingPending, BookingApproved, true},
		{"pending to rejected", BookingPending, BookingRejected, true},
		{"approved to paid", BookingApproved, BookingPaid, true},
		{"approved to rejected", BookingApproved, BookingRejected, true},
		{"pending to paid", BookingPending, BookingPaid, false},
		{"rejected to approved", BookingRejected, BookingApproved, false},
		{"rejected to paid", BookingRejected, BookingPaid, false},
		{"paid to rejected", BookingPaid, BookingRejected, false},
		{"paid to approved", BookingPaid, BookingApproved, false},
		{"approved to pending", BookingApproved, BookingPending, false},
		{"unknown status", "cancelled", BookingApproved, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.allowed {
				t.Errorf("CanTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.allowed)
			}
		})
	}
}

func TestBooking_Terminal(t *testing.T) {
	tests := []struct {
		status   string
		terminal bool
	}{
		{BookingPending, false},
		{BookingApproved, false},
		{BookingRejected, true},
		{BookingPaid, true},
	}

	for _, tt := range tests {
		b := &Booking{Status: tt.status}
		if got := b.Terminal(); got != tt.terminal {
			t.Errorf("Terminal() for status %q = %v, want %v", tt.status, got, tt.terminal)
		}
	}
}

func TestSlot_Available(t *testing.T) {
	tests := []struct {
		status    string
		available bool
	}{
		{SlotAvailable, true},
		{SlotRequested, false},
		{SlotPendingPayment, false},
		{SlotSoldOut, false},
	}

	for _, tt := range tests {
		s := &Slot{Status: tt.status}
		if got := s.Available(); got != tt.available {
			t.Errorf("Available() for status %q = %v, want %v", tt.status, got, tt.available)
		}
	}
}

func TestEvent_Available(t *testing.T) {
	tests := []struct {
		name      string
		event     Event
		available bool
	}{
		{"active with room", Event{Status: EventActive, Capacity: 10, BookedCount: 3}, true},
		{"active at capacity", Event{Status: EventActive, Capacity: 10, BookedCount: 10}, false},
		{"full status", Event{Status: EventFull, Capacity: 10, BookedCount: 10}, false},
		{"ended with room", Event{Status: EventEnded, Capacity: 10, BookedCount: 0}, false},
		{"zero capacity", Event{Status: EventActive, Capacity: 0, BookedCount: 0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.event.Available(); got != tt.available {
				t.Errorf("Available() = %v, want %v", got, tt.available)
			}
		})
	}
}
