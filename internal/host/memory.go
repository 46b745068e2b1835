package host

import (
	"sync"

	"github.com/tesseraos/tessera/internal/event"
	"github.com/tesseraos/tessera/internal/geom"
	"github.com/tesseraos/tessera/internal/hw"
)

// Memory is a headless host for tests and CI. Input is injected
// programmatically, time advances through the Sim, and presents are
// recorded instead of displayed.
type Memory struct {
	sim    *hw.Sim
	events chan event.Event

	mu     sync.Mutex
	closed bool

	frames    int
	presented []geom.Rect
}

var _ Host = (*Memory)(nil)

// NewMemory creates a headless host with a w×h framebuffer.
func NewMemory(w, h int) *Memory {
	return &Memory{
		sim:    newMachine(w, h),
		events: make(chan event.Event, eventQueueSize),
	}
}

// Init is a no-op; the memory host has no surface to acquire.
func (m *Memory) Init() error { return nil }

// Shutdown closes the event stream. Safe to call more than once.
func (m *Memory) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	close(m.events)
}

// Framebuffer returns the simulated pixel memory.
func (m *Memory) Framebuffer() hw.Framebuffer { return m.sim }

// Ports returns the simulated port I/O.
func (m *Memory) Ports() hw.PortIO { return m.sim }

// Ticks returns the simulated tick counter.
func (m *Memory) Ticks() hw.TickSource { return m.sim }

// Sim exposes the underlying machine so tests can advance time and
// inspect the DAC.
func (m *Memory) Sim() *hw.Sim { return m.sim }

// Poll returns the injected event stream.
func (m *Memory) Poll() <-chan event.Event { return m.events }

// Inject queues an event as if the user produced it. Events are
// dropped rather than blocking when the queue is full, and ignored
// after Shutdown.
func (m *Memory) Inject(ev event.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	select {
	case m.events <- ev:
	default:
	}
}

// Present records the presented regions for later inspection. Empty
// presents are not counted.
func (m *Memory) Present(dirty []geom.Rect) {
	if len(dirty) == 0 {
		return
	}
	m.frames++
	m.presented = append(m.presented[:0], dirty...)
}

// Frames returns how many non-empty presents have happened.
func (m *Memory) Frames() int { return m.frames }

// LastPresent returns the regions of the most recent present.
func (m *Memory) LastPresent() []geom.Rect { return m.presented }

// Size returns the framebuffer dimensions.
func (m *Memory) Size() (w, h int) { return m.sim.Size() }
