//go:build headless

package host

import (
	"github.com/tesseraos/tessera/internal/event"
	"github.com/tesseraos/tessera/internal/geom"
	"github.com/tesseraos/tessera/internal/hw"
	"github.com/tesseraos/tessera/internal/logging"
)

// Window is unavailable in headless builds. Init reports
// ErrWindowUnavailable so callers can fall back to another host.
type Window struct {
	sim    *hw.Sim
	events chan event.Event
	w, h   int
}

var _ Host = (*Window)(nil)

// NewWindow creates the headless stub.
func NewWindow(w, h int, title string, scale int, log *logging.Logger) *Window {
	return &Window{sim: newMachine(w, h), events: make(chan event.Event), w: w, h: h}
}

func (w *Window) Init() error                 { return ErrWindowUnavailable }
func (w *Window) Shutdown()                   {}
func (w *Window) Framebuffer() hw.Framebuffer { return w.sim }
func (w *Window) Ports() hw.PortIO            { return w.sim }
func (w *Window) Ticks() hw.TickSource        { return w.sim }
func (w *Window) Poll() <-chan event.Event    { return w.events }
func (w *Window) Present(dirty []geom.Rect)   {}
func (w *Window) Size() (int, int)            { return w.w, w.h }
