package widget

import (
	"fmt"

	"github.com/tesseraos/tessera/internal/display"
	"github.com/tesseraos/tessera/internal/event"
	"github.com/tesseraos/tessera/internal/geom"
	"github.com/tesseraos/tessera/internal/input"
	"github.com/tesseraos/tessera/internal/theme"
	"github.com/tesseraos/tessera/internal/view"
)

const statusPad = 4

// StatusBar shows a status segment on the left and an uptime clock on
// the right, rebuilt each frame from the tick source. Dragging the
// bar takes modal capture: every event routes to the bar until the
// button is released, and the left segment tracks the pointer.
type StatusBar struct {
	view.Base
	text     string
	clock    string
	drag     string
	dragging bool

	ctx *view.Context
}

// NewStatusBar creates an empty status bar.
func NewStatusBar() *StatusBar {
	v := view.New()
	s := &StatusBar{Base: view.NewBase(v)}
	v.SetInterface(s)
	v.OnDraw = s.draw
	v.OnUpdate = s.update
	v.OnEvent = s.handleEvent
	return s
}

// Init captures the component context.
func (s *StatusBar) Init(ctx *view.Context) error {
	s.ctx = ctx
	return nil
}

// Destroy ends a drag in flight so the capture and its subscriptions
// cannot outlive the component.
func (s *StatusBar) Destroy() {
	if s.dragging {
		s.endDrag()
	}
}

// Text returns the left status segment.
func (s *StatusBar) Text() string {
	return s.text
}

// SetText replaces the left status segment.
func (s *StatusBar) SetText(text string) {
	if s.text == text {
		return
	}
	s.text = text
	s.View().Invalidate()
}

// update rebuilds the clock segment from the tick source.
func (s *StatusBar) update(_ *view.View) {
	if s.ctx == nil || s.ctx.Ticks == nil {
		return
	}
	c := uptime(s.ctx.Ticks.Millis())
	if c != s.clock {
		s.clock = c
		s.View().Invalidate()
	}
}

// uptime formats a millisecond counter as "up HH:MM:SS".
func uptime(ms uint64) string {
	secs := ms / 1000
	return fmt.Sprintf("up %02d:%02d:%02d", secs/3600, secs/60%60, secs%60)
}

func (s *StatusBar) handleEvent(_ *view.View, ev event.Event) bool {
	if ev.Type != event.MouseDown || ev.Button != input.ButtonLeft {
		return false
	}
	if s.dragging || s.ctx == nil || s.ctx.Bus == nil {
		return false
	}

	v := s.View()
	bus := s.ctx.Bus
	if err := bus.Subscribe(v, event.MouseMove, event.PriorityHigh, s.dragMove); err != nil {
		s.ctx.Log.Warn("status drag unavailable: %v", err)
		return false
	}
	if err := bus.Subscribe(v, event.MouseUp, event.PriorityHigh, s.dragEnd); err != nil {
		bus.UnsubscribeAll(v)
		s.ctx.Log.Warn("status drag unavailable: %v", err)
		return false
	}
	if err := bus.Capture(v); err != nil {
		bus.UnsubscribeAll(v)
		s.ctx.Log.Warn("status drag unavailable: %v", err)
		return false
	}

	s.dragging = true
	s.drag = fmt.Sprintf("drag %d,%d", ev.X, ev.Y)
	v.Invalidate()
	return true
}

func (s *StatusBar) dragMove(ev event.Event) bool {
	s.drag = fmt.Sprintf("drag %d,%d", ev.X, ev.Y)
	s.View().Invalidate()
	return true
}

func (s *StatusBar) dragEnd(event.Event) bool {
	s.endDrag()
	return true
}

func (s *StatusBar) endDrag() {
	if s.ctx != nil && s.ctx.Bus != nil {
		s.ctx.Bus.ReleaseCapture(s.View())
		s.ctx.Bus.UnsubscribeAll(s.View())
	}
	s.dragging = false
	s.drag = ""
	s.View().Invalidate()
}

func (s *StatusBar) draw(_ *view.View, dc *display.Context) {
	if s.ctx == nil {
		return
	}
	th := s.ctx.Theme
	size := dc.Clip().Size()
	bg := th.Color(theme.RoleStatusBG)
	fg := th.Color(theme.RoleStatusFG)

	dc.SetFillMode(display.FillSolid)
	dc.SetColors(bg, bg)
	dc.FillRect(geom.NewRect(0, 0, size.W, size.H))

	face := s.ctx.Resources.DefaultFace()
	left := s.text
	if s.dragging {
		left = s.drag
	}
	dc.SetColors(fg, bg)
	dc.DrawText(face, left, geom.Pt(statusPad, (size.H-display.TextSize(face, left).H)/2))

	if s.clock != "" {
		ts := display.TextSize(face, s.clock)
		dc.DrawText(face, s.clock, geom.Pt(size.W-ts.W-statusPad, (size.H-ts.H)/2))
	}
}
