// Package view implements the retained-mode view tree. A View carries
// parent-relative region-space bounds, an owned child list, visibility
// and redraw flags, and optional hooks for drawing, per-frame update,
// event handling and teardown. Components build on View by embedding
// Base and implementing the parts of Interface they care about; every
// Interface method has a documented default.
//
// All methods tolerate a nil receiver, so partially constructed UIs
// degrade to no-ops instead of faulting.
package view

import (
	"github.com/tesseraos/tessera/internal/display"
	"github.com/tesseraos/tessera/internal/event"
	"github.com/tesseraos/tessera/internal/geom"
	"github.com/tesseraos/tessera/internal/grid"
)

// View is one node of the tree. Bounds are in region units relative
// to the parent's origin; the pixel rectangle is derived through the
// grid at draw and hit-test time so bar movement needs no re-layout.
type View struct {
	bounds   geom.Rect
	parent   *View
	children []*View

	visible     bool
	enabled     bool
	focused     bool
	needsRedraw bool

	// OnDraw paints the view. The context arrives clipped to the
	// view's absolute pixel rectangle and translated to its origin,
	// so hooks draw in local pixel coordinates from (0,0).
	OnDraw func(v *View, dc *display.Context)

	// OnUpdate runs once per frame before drawing.
	OnUpdate func(v *View)

	// OnEvent handles an event delivered directly or by broadcast and
	// reports whether it consumed it.
	OnEvent func(v *View, ev event.Event) bool

	// OnDestroy runs during Destroy, after the children have been
	// destroyed.
	OnDestroy func(v *View)

	iface Interface
}

// New creates a visible, enabled view with empty bounds and no hooks.
func New() *View {
	return &View{visible: true, enabled: true, needsRedraw: true}
}

// SetInterface attaches the component callback table. A nil iface
// restores pure default behavior.
func (v *View) SetInterface(iface Interface) {
	if v == nil {
		return
	}
	v.iface = iface
}

// Iface returns the attached component interface, or nil.
func (v *View) Iface() Interface {
	if v == nil {
		return nil
	}
	return v.iface
}

// Bounds returns the parent-relative region-space bounds.
func (v *View) Bounds() geom.Rect {
	if v == nil {
		return geom.Rect{}
	}
	return v.bounds
}

// SetBounds moves or resizes the view and invalidates it.
func (v *View) SetBounds(r geom.Rect) {
	if v == nil || v.bounds.Equals(r) {
		return
	}
	v.bounds = r
	v.Invalidate()
}

// Parent returns the containing view, or nil at the root.
func (v *View) Parent() *View {
	if v == nil {
		return nil
	}
	return v.parent
}

// Children returns a copy of the child list in z-order; later entries
// render in front.
func (v *View) Children() []*View {
	if v == nil || len(v.children) == 0 {
		return nil
	}
	out := make([]*View, len(v.children))
	copy(out, v.children)
	return out
}

// ChildCount returns the number of direct children.
func (v *View) ChildCount() int {
	if v == nil {
		return 0
	}
	return len(v.children)
}

// AddChild appends child to v's child list, detaching it from any
// previous parent first so a view belongs to exactly one parent.
// Nil children, self-adoption and cycles are no-ops.
func (v *View) AddChild(child *View) {
	if v == nil || child == nil || child == v {
		return
	}
	// Refuse to adopt an ancestor; the tree must stay acyclic.
	for a := v; a != nil; a = a.parent {
		if a == child {
			return
		}
	}
	if child.parent != nil {
		child.parent.RemoveChild(child)
	}

	child.parent = v
	v.children = append(v.children, child)
	v.Invalidate()

	if v.iface != nil {
		v.iface.ChildAdded(child)
	}
	if child.iface != nil {
		child.iface.ParentChanged(v)
	}
}

// RemoveChild unlinks child from v. Views that are not children of v
// are left untouched.
func (v *View) RemoveChild(child *View) {
	if v == nil || child == nil || child.parent != v {
		return
	}
	for i, c := range v.children {
		if c == child {
			v.children = append(v.children[:i], v.children[i+1:]...)
			break
		}
	}
	child.parent = nil
	v.Invalidate()

	if v.iface != nil {
		v.iface.ChildRemoved(child)
	}
	if child.iface != nil {
		child.iface.ParentChanged(nil)
	}
}

// AbsoluteBounds returns the view's region-space rectangle with all
// ancestor offsets applied. O(depth).
func (v *View) AbsoluteBounds() geom.Rect {
	if v == nil {
		return geom.Rect{}
	}
	r := v.bounds
	for a := v.parent; a != nil; a = a.parent {
		r.X += a.bounds.X
		r.Y += a.bounds.Y
	}
	return r
}

// PixelBounds returns the view's absolute screen rectangle.
func (v *View) PixelBounds(g *grid.Grid) geom.Rect {
	if v == nil || g == nil {
		return geom.Rect{}
	}
	abs := v.AbsoluteBounds()
	return g.RegionRect(abs.X, abs.Y, abs.W, abs.H)
}

// Visible reports whether the view participates in drawing and
// hit-testing.
func (v *View) Visible() bool {
	return v != nil && v.visible
}

// SetVisible toggles visibility, notifies the component, and
// invalidates the parent so uncovered content repaints.
func (v *View) SetVisible(visible bool) {
	if v == nil || v.visible == visible {
		return
	}
	v.visible = visible
	if v.iface != nil {
		v.iface.VisibilityChanged(visible)
	}
	v.Invalidate()
	v.parent.Invalidate()
}

// Enabled reports whether the view accepts focus and interaction.
func (v *View) Enabled() bool {
	return v != nil && v.enabled
}

// SetEnabled toggles interactivity and notifies the component.
func (v *View) SetEnabled(enabled bool) {
	if v == nil || v.enabled == enabled {
		return
	}
	v.enabled = enabled
	if v.iface != nil {
		v.iface.EnabledChanged(enabled)
	}
	v.Invalidate()
}

// Focused reports whether the view holds keyboard focus.
func (v *View) Focused() bool {
	return v != nil && v.focused
}

// SetFocused records focus state and notifies the component. The
// layout manager is the only caller; it keeps at most one view
// focused.
func (v *View) SetFocused(focused bool) {
	if v == nil || v.focused == focused {
		return
	}
	v.focused = focused
	if v.iface != nil {
		v.iface.FocusChanged(focused)
	}
}

// CanFocus reports whether the component accepts keyboard focus.
// Views without a component never do.
func (v *View) CanFocus() bool {
	return v != nil && v.enabled && v.iface != nil && v.iface.CanFocus()
}

// Invalidate marks the view and every ancestor as needing redraw, so
// checking the root is enough to know whether a repaint pass is due.
func (v *View) Invalidate() {
	for a := v; a != nil; a = a.parent {
		a.needsRedraw = true
	}
}

// NeedsRedraw reports whether the view or any descendant invalidated
// since the last draw pass.
func (v *View) NeedsRedraw() bool {
	return v != nil && v.needsRedraw
}

// DrawTree paints the subtree in pre-order: the view first, then its
// children, later siblings in front. For each visible node the
// context clip is set to the node's absolute pixel rectangle and the
// translation to its origin; the redraw flag clears as nodes paint.
// Invisible subtrees are skipped entirely.
func (v *View) DrawTree(dc *display.Context, g *grid.Grid) {
	if v == nil || dc == nil || g == nil || !v.visible {
		return
	}

	px := v.PixelBounds(g)
	if !px.IsEmpty() {
		dc.SetClip(px)
		dc.SetTranslation(px.X, px.Y)
		if v.OnDraw != nil {
			v.OnDraw(v, dc)
		}
	}

	for _, c := range v.children {
		c.DrawTree(dc, g)
	}
	v.needsRedraw = false
}

// UpdateTree runs OnUpdate hooks across the visible subtree in
// pre-order. Hidden subtrees are dormant.
func (v *View) UpdateTree() {
	if v == nil || !v.visible {
		return
	}
	if v.OnUpdate != nil {
		v.OnUpdate(v)
	}
	for _, c := range v.children {
		c.UpdateTree()
	}
}

// HitTest returns the deepest visible view whose absolute pixel
// rectangle contains (x, y), preferring later siblings since they
// render in front. It returns nil when the point is outside v.
func (v *View) HitTest(g *grid.Grid, x, y int) *View {
	if v == nil || g == nil || !v.visible {
		return nil
	}
	if !v.PixelBounds(g).Contains(x, y) {
		return nil
	}
	for i := len(v.children) - 1; i >= 0; i-- {
		if hit := v.children[i].HitTest(g, x, y); hit != nil {
			return hit
		}
	}
	return v
}

// HandleEvent offers ev to the view's own handler and reports whether
// it was consumed.
func (v *View) HandleEvent(ev event.Event) bool {
	if v == nil || v.OnEvent == nil {
		return false
	}
	return v.OnEvent(v, ev)
}

// Broadcast offers ev to the subtree in pre-order and stops at the
// first view that handles it.
func (v *View) Broadcast(ev event.Event) bool {
	if v == nil {
		return false
	}
	if v.HandleEvent(ev) {
		return true
	}
	for _, c := range v.children {
		if c.Broadcast(ev) {
			return true
		}
	}
	return false
}

// Destroy tears the subtree down depth-first: children are destroyed
// before the view's own OnDestroy and Interface.Destroy run, then the
// view unlinks from its parent. Destroy only resets logical state; it
// reclaims no memory.
func (v *View) Destroy() {
	if v == nil {
		return
	}
	for _, c := range v.Children() {
		c.Destroy()
	}
	if v.OnDestroy != nil {
		v.OnDestroy(v)
	}
	if v.iface != nil {
		v.iface.Destroy()
	}
	if v.parent != nil {
		v.parent.RemoveChild(v)
	}
	v.children = nil
}
