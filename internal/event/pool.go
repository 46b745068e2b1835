package event

// subscription is one entry in a per-type dispatch list. Entries are
// pool slots; next threads either a dispatch list or the free list.
type subscription struct {
	owner    any
	typ      Type
	priority Priority
	handler  Handler
	next     *subscription
}

// pool is a fixed arena of subscription slots with an intrusive free
// list. get and put never allocate.
type pool struct {
	slots []subscription
	free  *subscription
	inUse int
}

func newPool(size int) *pool {
	p := &pool{slots: make([]subscription, size)}
	for i := size - 1; i >= 0; i-- {
		p.slots[i].next = p.free
		p.free = &p.slots[i]
	}
	return p
}

// get takes a slot from the free list, or nil when exhausted.
func (p *pool) get() *subscription {
	s := p.free
	if s == nil {
		return nil
	}
	p.free = s.next
	p.inUse++
	*s = subscription{}
	return s
}

// put resets a slot and returns it to the free list.
func (p *pool) put(s *subscription) {
	*s = subscription{next: p.free}
	p.free = s
	p.inUse--
}

func (p *pool) capacity() int {
	return len(p.slots)
}

func (p *pool) available() int {
	return len(p.slots) - p.inUse
}
