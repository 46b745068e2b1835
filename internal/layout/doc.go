// Package layout owns the screen arrangement: the 7×6 region grid,
// the movable bar, and the view-tree root. It is the single input
// funnel and the keeper of keyboard focus and the active region.
//
// # Arrangements
//
// Content enters the tree through three arrangements. SetSingle fills
// the whole grid with one view. SetSplit places a navigator left of a
// bar column and a target to its right, linking the two placements so
// either side can reach the other through Linked. SetRegionContent
// claims an arbitrary region span. A new placement evicts whatever
// overlaps it: the old subtree detaches, its bus subscriptions drop,
// and a severed link leaves the survivor standalone.
//
// # Focus
//
// One placement is active at a time and one view holds keyboard
// focus. Focus moves explicitly through Focus and MoveFocus, or
// implicitly when a pointer press promotes the region under the
// pixel. MoveFocus walks region geometry in a compass direction and
// lands on the nearest placement; with no active placement it falls
// back to the first one.
//
// # Events
//
// HandleEvent is the single funnel from host input to the tree. Bus
// subscribers get first refusal, and a held capture makes the bus the
// only route. Pointer events then hit-test the tree at pixel
// precision, synthesizing Enter/Leave on hover transitions; key
// events go to the focused view.
//
// Subscription discipline: components subscribe to the bus with their
// *view.View as owner. The manager calls UnsubscribeAll for a view
// when it loses focus or when its content is removed, so transient
// subscriptions cannot leak pool slots; anything needed regardless of
// focus belongs on a non-focusable view.
//
// The manager is single-threaded. It is driven entirely from the
// frame loop and performs no locking; it must not be shared across
// goroutines.
package layout
