package view

import (
	"github.com/tesseraos/tessera/internal/event"
	"github.com/tesseraos/tessera/internal/geom"
	"github.com/tesseraos/tessera/internal/grid"
	"github.com/tesseraos/tessera/internal/hw"
	"github.com/tesseraos/tessera/internal/logging"
	"github.com/tesseraos/tessera/internal/resource"
	"github.com/tesseraos/tessera/internal/theme"
)

// Layouter is the slice of the layout manager exposed to components:
// enough to ask for keyboard focus, see who holds it, and reach the
// other side of a navigator/target link.
type Layouter interface {
	// Focus moves keyboard focus to v.
	Focus(v *View)

	// Focused returns the view holding keyboard focus, or nil.
	Focused() *View

	// Linked returns the content on the other side of v's placement
	// link: the controlled view for a navigator, the controlling view
	// for a target, nil for standalone content.
	Linked(v *View) *View
}

// Context carries the live services a component needs: the layout,
// the event bus, the coordinate grid, theme and resources, the tick
// source, and a logger. The layout manager builds a fresh Context
// whenever content is placed, so components always observe current
// wiring no matter when they were constructed.
type Context struct {
	Layout    Layouter
	Bus       *event.Bus
	Grid      *grid.Grid
	Theme     *theme.Theme
	Resources *resource.Set
	Ticks     hw.TickSource
	Log       *logging.Logger
}

// Interface is the component callback table. Components embed Base,
// which supplies the default behavior for every method, and override
// only what they need:
//
//   - Init, Destroy, ParentChanged, ChildAdded, ChildRemoved and
//     EnabledChanged default to no-ops.
//   - FocusChanged and VisibilityChanged default to invalidating the
//     view, so focus rings and reveals repaint without component code.
//   - CanFocus defaults to false.
//   - PreferredSize defaults to the view's current bounds size.
type Interface interface {
	// Init wires the component to live services. It runs when the
	// layout places the component and again whenever the content is
	// re-placed, always with a fresh Context.
	Init(ctx *Context) error

	// Destroy releases logical state. It must drop every bus
	// subscription the component holds, or pool slots leak.
	Destroy()

	// ParentChanged reports attachment to a new parent (nil on
	// detach).
	ParentChanged(parent *View)

	// ChildAdded reports a new direct child.
	ChildAdded(child *View)

	// ChildRemoved reports removal of a direct child.
	ChildRemoved(child *View)

	// FocusChanged reports keyboard focus movement.
	FocusChanged(focused bool)

	// VisibilityChanged reports a SetVisible transition.
	VisibilityChanged(visible bool)

	// EnabledChanged reports a SetEnabled transition.
	EnabledChanged(enabled bool)

	// CanFocus reports whether the component accepts keyboard focus.
	CanFocus() bool

	// PreferredSize returns the component's natural size in region
	// units.
	PreferredSize() geom.Size
}

// Base supplies the documented defaults for Interface. Components
// embed it with the View they manage:
//
//	type Label struct {
//		view.Base
//		text string
//	}
//
//	func NewLabel(text string) *Label {
//		v := view.New()
//		l := &Label{Base: view.NewBase(v), text: text}
//		v.SetInterface(l)
//		v.OnDraw = l.draw
//		return l
//	}
type Base struct {
	view *View
}

// NewBase binds the defaults to v.
func NewBase(v *View) Base {
	return Base{view: v}
}

// View returns the bound view.
func (b *Base) View() *View {
	return b.view
}

// Init is a no-op by default.
func (b *Base) Init(*Context) error { return nil }

// Destroy is a no-op by default.
func (b *Base) Destroy() {}

// ParentChanged is a no-op by default.
func (b *Base) ParentChanged(*View) {}

// ChildAdded is a no-op by default.
func (b *Base) ChildAdded(*View) {}

// ChildRemoved is a no-op by default.
func (b *Base) ChildRemoved(*View) {}

// FocusChanged invalidates the view by default so focus decorations
// repaint.
func (b *Base) FocusChanged(bool) {
	b.view.Invalidate()
}

// VisibilityChanged invalidates the view by default.
func (b *Base) VisibilityChanged(bool) {
	b.view.Invalidate()
}

// EnabledChanged is a no-op by default.
func (b *Base) EnabledChanged(bool) {}

// CanFocus reports false by default.
func (b *Base) CanFocus() bool { return false }

// PreferredSize returns the view's bounds size by default.
func (b *Base) PreferredSize() geom.Size {
	return b.view.Bounds().Size()
}

var _ Interface = (*Base)(nil)

// InitTree runs Interface.Init across the subtree in pre-order. A
// component whose Init fails is logged and left in place; one broken
// component never takes the tree down.
func InitTree(v *View, ctx *Context) {
	if v == nil || ctx == nil {
		return
	}
	if v.iface != nil {
		if err := v.iface.Init(ctx); err != nil && ctx.Log != nil {
			ctx.Log.Warn("component init failed: %v", err)
		}
	}
	for _, c := range v.children {
		InitTree(c, ctx)
	}
}
