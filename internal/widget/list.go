package widget

import (
	"github.com/tesseraos/tessera/internal/display"
	"github.com/tesseraos/tessera/internal/event"
	"github.com/tesseraos/tessera/internal/geom"
	"github.com/tesseraos/tessera/internal/grid"
	"github.com/tesseraos/tessera/internal/input"
	"github.com/tesseraos/tessera/internal/theme"
	"github.com/tesseraos/tessera/internal/view"
)

// One list row is one text cell high.
const rowHeight = grid.CellHeight

const listPad = 4

// List shows selectable lines. It accepts focus, moves its selection
// with the arrow, home/end and page keys or a press on a row, and
// reports changes through OnSelect; as the navigator side of a split
// the callback is how it drives its controlled target. Enter commits
// the selection through OnActivate and hands keyboard focus to the
// linked target pane when one exists.
type List struct {
	view.Base
	items    []string
	selected int
	top      int

	// OnSelect fires whenever the selection lands on a new index.
	OnSelect func(index int, item string)

	// OnActivate fires when the selection is committed with Enter.
	OnActivate func(index int, item string)

	ctx *view.Context
}

// NewList creates a list over a copy of items with the first one
// selected.
func NewList(items []string) *List {
	v := view.New()
	l := &List{Base: view.NewBase(v), items: append([]string(nil), items...)}
	v.SetInterface(l)
	v.OnDraw = l.draw
	v.OnEvent = l.handleEvent
	return l
}

// Init captures the component context.
func (l *List) Init(ctx *view.Context) error {
	l.ctx = ctx
	return nil
}

// CanFocus reports that lists take keyboard focus.
func (l *List) CanFocus() bool {
	return true
}

// Items returns a copy of the list content.
func (l *List) Items() []string {
	return append([]string(nil), l.items...)
}

// SetItems replaces the list content, clamping the selection.
func (l *List) SetItems(items []string) {
	l.items = append([]string(nil), items...)
	if l.selected >= len(l.items) {
		l.selected = len(l.items) - 1
	}
	if l.selected < 0 {
		l.selected = 0
	}
	l.top = 0
	l.ensureVisible()
	l.View().Invalidate()
}

// Selected returns the current index and item, or -1 when empty.
func (l *List) Selected() (int, string) {
	if len(l.items) == 0 {
		return -1, ""
	}
	return l.selected, l.items[l.selected]
}

// Select moves the selection to index i, clamped to the content, and
// fires OnSelect when it actually moved.
func (l *List) Select(i int) {
	if len(l.items) == 0 {
		return
	}
	if i < 0 {
		i = 0
	}
	if i >= len(l.items) {
		i = len(l.items) - 1
	}
	if i == l.selected {
		return
	}
	l.selected = i
	l.ensureVisible()
	l.View().Invalidate()
	if l.OnSelect != nil {
		l.OnSelect(i, l.items[i])
	}
}

// visibleRows returns how many rows fit the current pixel height.
func (l *List) visibleRows() int {
	if l.ctx == nil {
		return 1
	}
	n := l.View().PixelBounds(l.ctx.Grid).H / rowHeight
	if n < 1 {
		n = 1
	}
	return n
}

// ensureVisible scrolls just enough to keep the selection on screen.
func (l *List) ensureVisible() {
	n := l.visibleRows()
	if l.selected < l.top {
		l.top = l.selected
	}
	if l.selected >= l.top+n {
		l.top = l.selected - n + 1
	}
}

func (l *List) handleEvent(_ *view.View, ev event.Event) bool {
	switch ev.Type {
	case event.KeyDown:
		return l.handleKey(ev)
	case event.MouseDown:
		if ev.Button != input.ButtonLeft {
			return false
		}
		return l.press(ev.Y)
	default:
		return false
	}
}

func (l *List) handleKey(ev event.Event) bool {
	switch ev.Key {
	case input.KeyUp:
		l.Select(l.selected - 1)
	case input.KeyDown:
		l.Select(l.selected + 1)
	case input.KeyHome:
		l.Select(0)
	case input.KeyEnd:
		l.Select(len(l.items) - 1)
	case input.KeyPageUp:
		l.Select(l.selected - l.visibleRows())
	case input.KeyPageDown:
		l.Select(l.selected + l.visibleRows())
	case input.KeyEnter:
		if i, item := l.Selected(); i >= 0 {
			if l.OnActivate != nil {
				l.OnActivate(i, item)
			}
			l.focusTarget()
		}
	default:
		return false
	}
	return true
}

// focusTarget hands keyboard focus to the linked target pane, if any.
func (l *List) focusTarget() {
	if l.ctx == nil || l.ctx.Layout == nil {
		return
	}
	if t := l.ctx.Layout.Linked(l.View()); t != nil {
		l.ctx.Layout.Focus(t)
	}
}

// press selects the row under a screen-space y coordinate.
func (l *List) press(y int) bool {
	if l.ctx == nil {
		return false
	}
	px := l.View().PixelBounds(l.ctx.Grid)
	row := l.top + (y-px.Y)/rowHeight
	if row < 0 || row >= len(l.items) {
		return false
	}
	l.Select(row)
	return true
}

func (l *List) draw(v *view.View, dc *display.Context) {
	if l.ctx == nil {
		return
	}
	th := l.ctx.Theme
	size := dc.Clip().Size()
	bg := th.Color(theme.RoleBackground)

	dc.SetFillMode(display.FillSolid)
	dc.SetColors(bg, bg)
	dc.FillRect(geom.NewRect(0, 0, size.W, size.H))

	face := l.ctx.Resources.DefaultFace()
	for i := 0; i < size.H/rowHeight; i++ {
		idx := l.top + i
		if idx >= len(l.items) {
			break
		}
		rowBG := bg
		fg := th.Color(theme.RoleText)
		if idx == l.selected {
			rowBG = th.Color(theme.RoleSelection)
			fg = th.Color(theme.RoleStatusFG)
			dc.SetColors(rowBG, rowBG)
			dc.FillRect(geom.NewRect(0, i*rowHeight, size.W, rowHeight))
		}
		dc.SetColors(fg, rowBG)
		dc.DrawText(face, l.items[idx], geom.Pt(listPad, i*rowHeight+1))
	}

	if v.Focused() {
		dc.SetColors(th.Color(theme.RoleFocus), bg)
		dc.DrawRect(geom.NewRect(0, 0, size.W, size.H))
	}
}
