// Package geom provides the shared pixel-space geometry types for the
// compositor. This package breaks import cycles between the display,
// grid, view, and layout packages.
package geom

import "fmt"

// Point represents a pixel position (0-indexed, origin top-left).
type Point struct {
	X int
	Y int
}

// Pt creates a point.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// Add returns a new point offset by the given delta.
func (p Point) Add(dx, dy int) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Sub returns the component-wise difference p - other.
func (p Point) Sub(other Point) Point {
	return Point{X: p.X - other.X, Y: p.Y - other.Y}
}

// In returns true if the point lies inside the rectangle.
func (p Point) In(r Rect) bool {
	return r.Contains(p.X, p.Y)
}

// String returns a string representation of the point.
func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Size represents a width/height pair in pixels.
type Size struct {
	W int
	H int
}

// Sz creates a size.
func Sz(w, h int) Size {
	return Size{W: w, H: h}
}

// IsZero returns true if the size has no area.
func (s Size) IsZero() bool {
	return s.W <= 0 || s.H <= 0
}

// Rect represents a rectangle as origin plus extent.
// The right and bottom edges are exclusive.
type Rect struct {
	X int
	Y int
	W int
	H int
}

// NewRect creates a rectangle from origin and extent.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// RectFromCorners creates a rectangle spanning two corner points.
func RectFromCorners(x0, y0, x1, y1 int) Rect {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Right returns the exclusive right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Size returns the rectangle's extent.
func (r Rect) Size() Size {
	return Size{W: r.W, H: r.H}
}

// IsEmpty returns true if the rectangle covers no area.
func (r Rect) IsEmpty() bool {
	return r.W <= 0 || r.H <= 0
}

// Contains returns true if the pixel (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// ContainsRect returns true if other lies entirely within r.
func (r Rect) ContainsRect(other Rect) bool {
	if other.IsEmpty() {
		return false
	}
	return other.X >= r.X && other.Right() <= r.Right() &&
		other.Y >= r.Y && other.Bottom() <= r.Bottom()
}

// Overlaps returns true if two rectangles share at least one pixel.
func (r Rect) Overlaps(other Rect) bool {
	if r.IsEmpty() || other.IsEmpty() {
		return false
	}
	return r.X < other.Right() && r.Right() > other.X &&
		r.Y < other.Bottom() && r.Bottom() > other.Y
}

// Adjacent returns true if two rectangles touch along an edge segment
// without overlapping. Corner-only contact does not count.
func (r Rect) Adjacent(other Rect) bool {
	if r.IsEmpty() || other.IsEmpty() {
		return false
	}
	vertOverlap := r.Y < other.Bottom() && r.Bottom() > other.Y
	horizOverlap := r.X < other.Right() && r.Right() > other.X
	if vertOverlap && (r.Right() == other.X || other.Right() == r.X) {
		return true
	}
	if horizOverlap && (r.Bottom() == other.Y || other.Bottom() == r.Y) {
		return true
	}
	return false
}

// Union returns the smallest rectangle containing both rectangles.
func (r Rect) Union(other Rect) Rect {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	x0 := min(r.X, other.X)
	y0 := min(r.Y, other.Y)
	x1 := max(r.Right(), other.Right())
	y1 := max(r.Bottom(), other.Bottom())
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Intersect returns the overlapping area of two rectangles.
// Returns the zero Rect if they do not overlap.
func (r Rect) Intersect(other Rect) Rect {
	if !r.Overlaps(other) {
		return Rect{}
	}
	x0 := max(r.X, other.X)
	y0 := max(r.Y, other.Y)
	x1 := min(r.Right(), other.Right())
	y1 := min(r.Bottom(), other.Bottom())
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Translate returns the rectangle shifted by the given delta.
func (r Rect) Translate(dx, dy int) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}

// Expand returns the rectangle grown by n pixels on every side.
// A negative n shrinks it.
func (r Rect) Expand(n int) Rect {
	return Rect{X: r.X - n, Y: r.Y - n, W: r.W + 2*n, H: r.H + 2*n}
}

// Equals returns true if two rectangles are identical.
func (r Rect) Equals(other Rect) bool {
	return r == other
}

// String returns a string representation of the rectangle.
func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.W, r.H)
}
