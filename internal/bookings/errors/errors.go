package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	// ErrInvalidTransition means the requested status change is not on
	// the pending -> approved -> paid / pending -> rejected machine.
	ErrInvalidTransition = errors.New("invalid booking status transition")

	// ErrAlreadyDecided means the conditional update missed but the
	// booking already carries the requested decision; callers treat it
	// as a no-op.
	ErrAlreadyDecided = errors.New("booking already decided")
)
