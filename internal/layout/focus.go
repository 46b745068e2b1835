package layout

import (
	"github.com/tesseraos/tessera/internal/event"
	"github.com/tesseraos/tessera/internal/grid"
	"github.com/tesseraos/tessera/internal/view"
)

// Focus moves keyboard focus to v. The outgoing view is unfocused and
// stripped of its bus subscriptions before the incoming view is
// focused, so a component that subscribes on FocusGained cannot leak
// pool slots across focus changes. Passing nil clears focus.
func (m *Manager) Focus(v *view.View) {
	if m == nil || m.focused == v {
		return
	}

	old := m.focused
	if old != nil {
		old.SetFocused(false)
		m.bus.UnsubscribeAll(old)
		old.HandleEvent(event.Event{Type: event.FocusLost})
	}

	m.focused = v
	if v != nil {
		v.SetFocused(true)
		v.HandleEvent(event.Event{Type: event.FocusGained})
	}
}

// Focused returns the view holding keyboard focus.
func (m *Manager) Focused() *view.View {
	if m == nil {
		return nil
	}
	return m.focused
}

// MoveFocus walks the region grid from the active placement in the
// direction (dx, dy), one region per step, skipping empty regions and
// the active placement's own cells. The first foreign placement found
// becomes active and its content takes focus. Reports whether focus
// moved.
func (m *Manager) MoveFocus(dx, dy int) bool {
	if m == nil || (dx == 0 && dy == 0) {
		return false
	}

	if m.active == nil {
		for _, p := range m.placements() {
			m.activate(p)
			return true
		}
		return false
	}

	x, y := m.active.rect.X, m.active.rect.Y
	for {
		x += dx
		y += dy
		if !grid.ValidRegion(x, y) {
			return false
		}
		p := m.regions[y][x]
		if p == nil || p == m.active {
			continue
		}
		m.activate(p)
		return true
	}
}

// activate makes p the active placement and focuses its content.
func (m *Manager) activate(p *placement) {
	m.setActive(p)
	if p != nil {
		m.Focus(p.content)
	}
}

// setActive flips the active flag between placements, invalidating
// both sides so chrome that renders the flag repaints.
func (m *Manager) setActive(p *placement) {
	if m == nil || m.active == p {
		return
	}
	if m.active != nil {
		m.active.active = false
		if m.active.content != nil {
			m.active.content.Invalidate()
		}
	}
	m.active = p
	if p != nil {
		p.active = true
		if p.content != nil {
			p.content.Invalidate()
		}
	}
}

// focusableFrom walks from v toward the root and returns the first
// view that accepts focus, or nil.
func focusableFrom(v *view.View) *view.View {
	for a := v; a != nil; a = a.Parent() {
		if a.CanFocus() {
			return a
		}
	}
	return nil
}
