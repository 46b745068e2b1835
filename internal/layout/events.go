package layout

import (
	"github.com/tesseraos/tessera/internal/event"
	"github.com/tesseraos/tessera/internal/view"
)

// HandleEvent is the single input funnel. Bus subscribers get first
// refusal; while a capture is held the bus is the only route and
// nothing falls through to hit-testing. Pointer events then go to the
// topmost view under the pixel, with Enter/Leave synthesized on hover
// transitions and a press promoting the hit region to active and
// refocusing. Key events go to the focused view. Reports whether any
// stage handled the event.
func (m *Manager) HandleEvent(ev event.Event) bool {
	if m == nil {
		return false
	}

	if _, held := m.bus.Captured(); held {
		return m.bus.Dispatch(ev)
	}
	if m.bus.Dispatch(ev) {
		return true
	}

	switch {
	case ev.Type.IsMouse():
		return m.routePointer(ev)
	case ev.Type.IsKey():
		return m.routeKey(ev)
	default:
		return false
	}
}

// routePointer hit-tests the tree at pixel precision and walks the
// event through hover synthesis, press promotion, and delivery.
func (m *Manager) routePointer(ev event.Event) bool {
	hit := m.root.HitTest(m.grid, ev.X, ev.Y)

	if hit != m.hover {
		if m.hover != nil {
			m.hover.HandleEvent(event.NewMouse(event.MouseLeave, ev.X, ev.Y, ev.Button))
		}
		if hit != nil {
			hit.HandleEvent(event.NewMouse(event.MouseEnter, ev.X, ev.Y, ev.Button))
		}
		m.hover = hit
	}

	prev := m.focused
	if ev.Type == event.MouseDown {
		m.promote(hit, ev.X, ev.Y)
	}

	if hit != nil && hit.HandleEvent(ev) {
		return true
	}
	if prev != nil && prev != hit && prev.HandleEvent(ev) {
		return true
	}
	return false
}

// promote makes the pressed region active and moves focus to the
// deepest focus-accepting view at the press point, falling back to
// the region's content. Presses outside every region, the bar band
// included, change nothing.
func (m *Manager) promote(hit *view.View, x, y int) {
	rx, ry, ok := m.grid.PixelToRegion(x, y)
	if !ok {
		return
	}
	p := m.regions[ry][rx]
	if p == nil {
		return
	}
	m.setActive(p)

	target := focusableFrom(hit)
	if target == nil {
		target = p.content
	}
	m.Focus(target)
}

// routeKey delivers key events to the focused view.
func (m *Manager) routeKey(ev event.Event) bool {
	if m.focused == nil {
		return false
	}
	return m.focused.HandleEvent(ev)
}
