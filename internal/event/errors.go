package event

import "errors"

// Sentinel errors for the event bus.
var (
	// ErrNilBus is returned by operations on a nil bus.
	ErrNilBus = errors.New("nil event bus")

	// ErrPoolExhausted is returned by Subscribe when every pool slot is
	// in use. Callers degrade; the condition is never fatal.
	ErrPoolExhausted = errors.New("subscription pool exhausted")

	// ErrNilHandler is returned when a nil handler is provided.
	ErrNilHandler = errors.New("handler cannot be nil")

	// ErrNilOwner is returned when a nil owner is provided.
	ErrNilOwner = errors.New("owner cannot be nil")

	// ErrInvalidType is returned for an out-of-range event type.
	ErrInvalidType = errors.New("invalid event type")

	// ErrInvalidPriority is returned for an out-of-range priority.
	ErrInvalidPriority = errors.New("invalid priority")

	// ErrCaptureHeld is returned when an owner requests capture while a
	// different owner holds it.
	ErrCaptureHeld = errors.New("capture held by another owner")
)
