// Package event implements the input event bus: priority-ordered
// publish/subscribe keyed by event type, with reference-counted modal
// capture.
//
// # Model
//
// Subscriptions live in one singly linked list per event type, sorted
// by ascending priority value (PrioritySystem first, PriorityDefault
// last). Dispatch walks the list for the event's type and stops at
// the first handler that reports the event handled, with one
// exception: PriorityDefault handlers always run, so any number of
// fallback and logging subscribers can observe every event.
//
// # Capture
//
// While an owner holds capture, dispatch offers events only to that
// owner's subscriptions. Unhandled events are not retried against
// other subscribers. Capture is reference counted per owner, so
// nested captures from the same owner balance correctly; a second
// owner cannot take capture until the count returns to zero.
//
// # Storage
//
// Subscriptions come from a fixed pool with an intrusive free list.
// The bus never allocates per subscription after construction. When
// the pool is exhausted Subscribe returns ErrPoolExhausted and the
// caller degrades; it is never fatal. UnsubscribeAll must run when a
// subscriber is destroyed or its slots leak until the next reset.
//
// The bus is single-threaded. It is driven entirely from the frame
// loop and performs no locking; it must not be shared across
// goroutines.
package event
