package event

// Priority determines handler execution order within one event type.
// Lower values run first.
type Priority int

const (
	// PrioritySystem is for the compositor's own handlers, which must
	// see events before anything else.
	PrioritySystem Priority = 0

	// PriorityHigh is for modal UI such as menus and dialogs.
	PriorityHigh Priority = 1

	// PriorityNormal is the usual priority for view components.
	PriorityNormal Priority = 2

	// PriorityLow runs after normal handlers.
	PriorityLow Priority = 3

	// PriorityDefault is for fallback and logging handlers. Default
	// handlers always run; their handled result never stops dispatch.
	PriorityDefault Priority = 4
)

// String returns a human-readable priority name.
func (p Priority) String() string {
	switch p {
	case PrioritySystem:
		return "system"
	case PriorityHigh:
		return "high"
	case PriorityNormal:
		return "normal"
	case PriorityLow:
		return "low"
	case PriorityDefault:
		return "default"
	default:
		return "unknown"
	}
}

// valid reports whether p is one of the defined classes.
func (p Priority) valid() bool {
	return p >= PrioritySystem && p <= PriorityDefault
}

// Handler processes one event and reports whether it consumed it.
// A true result stops dispatch for non-default priorities.
type Handler func(ev Event) bool

// Stats describes the bus's current occupancy.
type Stats struct {
	// Subscriptions is the number of live subscriptions.
	Subscriptions int

	// FreeSlots is the remaining pool capacity.
	FreeSlots int

	// Captured reports whether some owner holds modal capture.
	Captured bool
}
