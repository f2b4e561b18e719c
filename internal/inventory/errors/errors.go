package errors

import "errors"

var (
	ErrNotFound = errors.New("resource not found")

	ErrInvalidID = errors.New("invalid resource ID format")

	// ErrUnavailable means the conditional status transition missed: the
	// slot is locked by another booking or already settled.
	ErrUnavailable = errors.New("resource unavailable")

	// ErrCapacityFull means an event's admission filter rejected the
	// write because booked_count reached capacity.
	ErrCapacityFull = errors.New("event capacity reached")
)
