package dispi

import "github.com/tesseraos/tessera/internal/geom"

// MaxDirtyRects is the size of the damage table. Overflow collapses
// tracking to a single full-screen rectangle.
const MaxDirtyRects = 16

// dirtyTable tracks damaged screen areas between flips. Insertion
// merges into the first overlapping or adjacent entry by replacing it
// with the union bounding box. The merge is deliberately loose: a
// union may over-grow and is never re-tightened; the full-screen
// collapse is the safety valve.
type dirtyTable struct {
	rects [MaxDirtyRects]geom.Rect
	count int
}

// mark records a damaged rectangle, clipped to the screen.
func (t *dirtyTable) mark(r, screen geom.Rect) {
	r = r.Intersect(screen)
	if r.IsEmpty() {
		return
	}

	for i := 0; i < t.count; i++ {
		if t.rects[i].Overlaps(r) || t.rects[i].Adjacent(r) {
			t.rects[i] = t.rects[i].Union(r)
			return
		}
	}

	if t.count == MaxDirtyRects {
		t.rects[0] = screen
		t.count = 1
		return
	}

	t.rects[t.count] = r
	t.count++
}

// take returns the live rectangles and empties the table.
func (t *dirtyTable) take() []geom.Rect {
	if t.count == 0 {
		return nil
	}
	out := make([]geom.Rect, t.count)
	copy(out, t.rects[:t.count])
	t.count = 0
	return out
}

// live returns the number of tracked rectangles.
func (t *dirtyTable) live() int {
	return t.count
}
