package event

import "github.com/tesseraos/tessera/internal/logging"

// Bus routes events to subscribers. See the package documentation for
// the dispatch and capture rules. The zero value is not usable; call
// New. All methods tolerate a nil receiver.
//
// Owners are compared with ==, so they must be comparable values,
// conventionally a pointer to the subscribing component.
type Bus struct {
	lists    [typeCount]*subscription
	pool     *pool
	poolSize int
	log      *logging.Logger

	captureOwner any
	captureCount int

	// depth is nonzero while Dispatch runs. Removals during dispatch
	// mark nodes dead instead of unlinking them; the outermost
	// dispatch sweeps the dead back to the pool.
	depth   int
	hasDead bool
}

// New creates a bus with every pool slot free.
func New(opts ...Option) *Bus {
	b := &Bus{
		poolSize: DefaultPoolSize,
		log:      logging.Null,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.pool = newPool(b.poolSize)
	return b
}

// Subscribe registers handler for events of type t at the given
// priority. Equal priorities dispatch in subscription order. Returns
// ErrPoolExhausted when no slot is free.
func (b *Bus) Subscribe(owner any, t Type, pri Priority, handler Handler) error {
	if b == nil {
		return ErrNilBus
	}
	if owner == nil {
		return ErrNilOwner
	}
	if handler == nil {
		return ErrNilHandler
	}
	if !t.Valid() {
		return ErrInvalidType
	}
	if !pri.valid() {
		return ErrInvalidPriority
	}

	s := b.pool.get()
	if s == nil {
		b.log.Warn("subscription pool exhausted for %v (capacity %d)", t, b.pool.capacity())
		return ErrPoolExhausted
	}
	s.owner = owner
	s.typ = t
	s.priority = pri
	s.handler = handler

	// Insert after existing entries of equal priority so subscription
	// order is preserved within a class.
	pp := &b.lists[t]
	for *pp != nil && (*pp).priority <= pri {
		pp = &(*pp).next
	}
	s.next = *pp
	*pp = s
	return nil
}

// Unsubscribe removes every subscription owner holds for type t and
// returns the number removed.
func (b *Bus) Unsubscribe(owner any, t Type) int {
	if b == nil || owner == nil || !t.Valid() {
		return 0
	}
	return b.removeMatching(t, func(s *subscription) bool { return s.owner == owner })
}

// UnsubscribeAll removes every subscription owner holds across all
// event types and drops any capture it held. It must be called when a
// subscriber is destroyed or its pool slots leak until the next heap
// reset.
func (b *Bus) UnsubscribeAll(owner any) int {
	if b == nil || owner == nil {
		return 0
	}
	n := 0
	for t := Type(0); t < typeCount; t++ {
		n += b.removeMatching(t, func(s *subscription) bool { return s.owner == owner })
	}
	if b.captureCount > 0 && b.captureOwner == owner {
		b.captureOwner = nil
		b.captureCount = 0
	}
	return n
}

// Dispatch offers ev to subscribers of its type in priority order and
// reports whether any handler consumed it.
//
// While capture is held, only the capturing owner's subscriptions are
// offered the event; an unhandled event is not retried against other
// subscribers. Without capture, dispatch stops at the first handler
// returning true, except that PriorityDefault handlers always run.
//
// Handlers may subscribe and unsubscribe freely during dispatch. A
// subscription removed mid-dispatch receives nothing further,
// including the event in flight; one added mid-dispatch may or may
// not be offered the in-flight event depending on where it lands in
// the list.
func (b *Bus) Dispatch(ev Event) bool {
	if b == nil || !ev.Type.Valid() {
		return false
	}

	captured := b.captureCount > 0
	owner := b.captureOwner
	handled := false

	b.depth++
	s := b.lists[ev.Type]
	for s != nil {
		next := s.next
		switch {
		case s.handler == nil:
		case captured && s.owner != owner:
		case handled && s.priority != PriorityDefault:
		default:
			if s.handler(ev) {
				handled = true
			}
		}
		s = next
	}
	b.depth--
	if b.depth == 0 && b.hasDead {
		b.sweep()
	}
	return handled
}

// Capture routes all subsequent events exclusively to owner's
// subscriptions. Calls nest: each successful Capture needs one
// ReleaseCapture. A different owner's request fails with
// ErrCaptureHeld until the count returns to zero.
func (b *Bus) Capture(owner any) error {
	if b == nil {
		return ErrNilBus
	}
	if owner == nil {
		return ErrNilOwner
	}
	if b.captureCount > 0 && b.captureOwner != owner {
		return ErrCaptureHeld
	}
	b.captureOwner = owner
	b.captureCount++
	return nil
}

// ReleaseCapture undoes one Capture by owner. Releases by an owner
// not holding capture are ignored.
func (b *Bus) ReleaseCapture(owner any) {
	if b == nil || b.captureCount == 0 || b.captureOwner != owner {
		return
	}
	b.captureCount--
	if b.captureCount == 0 {
		b.captureOwner = nil
	}
}

// Captured returns the capturing owner, if any.
func (b *Bus) Captured() (owner any, ok bool) {
	if b == nil || b.captureCount == 0 {
		return nil, false
	}
	return b.captureOwner, true
}

// Stats returns current occupancy.
func (b *Bus) Stats() Stats {
	if b == nil {
		return Stats{}
	}
	return Stats{
		Subscriptions: b.pool.inUse,
		FreeSlots:     b.pool.available(),
		Captured:      b.captureCount > 0,
	}
}

// removeMatching removes every subscription in t's list for which
// match returns true. During dispatch the nodes are only marked dead,
// keeping every in-flight next pointer valid; they return to the pool
// when the outermost dispatch ends.
func (b *Bus) removeMatching(t Type, match func(*subscription) bool) int {
	n := 0
	if b.depth > 0 {
		for s := b.lists[t]; s != nil; s = s.next {
			if s.handler != nil && match(s) {
				s.owner = nil
				s.handler = nil
				b.hasDead = true
				n++
			}
		}
		return n
	}
	pp := &b.lists[t]
	for *pp != nil {
		s := *pp
		if match(s) {
			*pp = s.next
			b.pool.put(s)
			n++
		} else {
			pp = &s.next
		}
	}
	return n
}

// sweep unlinks and recycles every dead node. Runs only between
// dispatches.
func (b *Bus) sweep() {
	b.hasDead = false
	for t := Type(0); t < typeCount; t++ {
		pp := &b.lists[t]
		for *pp != nil {
			s := *pp
			if s.handler == nil {
				*pp = s.next
				b.pool.put(s)
			} else {
				pp = &s.next
			}
		}
	}
}
