// Package host provides the surfaces the compositor runs on: a
// terminal (tcell), a desktop window (ebiten), and an in-memory host
// for tests. A host provisions the simulated machine the display
// driver talks to, presents finished frames, and produces raw input
// events. Hosts are the only concurrent edge of the system: whatever
// they hand the compositor is either confined to the loop goroutine
// or delivered over a channel the loop drains.
package host

import (
	"errors"

	"github.com/tesseraos/tessera/internal/event"
	"github.com/tesseraos/tessera/internal/geom"
	"github.com/tesseraos/tessera/internal/hw"
)

// ErrWindowUnavailable reports that the binary was built without the
// window host.
var ErrWindowUnavailable = errors.New("host: window host not available in this build")

// eventQueueSize bounds each host's input queue. Hosts drop events
// rather than block their input goroutine when the queue is full.
const eventQueueSize = 64

// QEMU standard VGA identity, advertised on the simulated PCI bus so
// driver discovery finds the display.
const (
	qemuVendor  = 0x1234
	qemuDevice  = 0x1111
	displaySlot = 1
	lfbAddr     = 0xE0000000
)

// Host owns presentation and raw input. The compositor core never
// sees a Host directly: it draws through the display driver, and the
// application loop feeds it events drained from Poll.
type Host interface {
	// Init acquires the presentation surface. It must be called before
	// Present or Poll.
	Init() error

	// Shutdown releases the surface. Safe to call more than once.
	Shutdown()

	// Framebuffer returns the pixel memory the display driver maps.
	Framebuffer() hw.Framebuffer

	// Ports returns the port I/O backing the machine.
	Ports() hw.PortIO

	// Ticks returns the millisecond counter components read for timing.
	Ticks() hw.TickSource

	// Poll returns the input event stream. The channel closes when the
	// host stops producing input: window closed, terminal finalized, or
	// Shutdown called.
	Poll() <-chan event.Event

	// Present pushes the given framebuffer regions to the surface.
	Present(dirty []geom.Rect)

	// Size returns the video mode dimensions in pixels.
	Size() (w, h int)
}

// newMachine builds the simulated machine every host runs on: a w×h
// framebuffer with the display device visible on PCI bus 0.
func newMachine(w, h int) *hw.Sim {
	sim := hw.NewSim(w, h)
	sim.AddDisplayDevice(displaySlot, qemuVendor, qemuDevice, lfbAddr)
	return sim
}
