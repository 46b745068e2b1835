// Package grid maps between the three coordinate spaces of the
// screen: pixels, 9×16 text cells, and 90×80 placement regions. It is
// the single conversion path in the system; the layout manager derives
// every pixel rectangle through it, so the bar offset is applied
// consistently everywhere.
package grid

import "github.com/tesseraos/tessera/internal/geom"

// Grid space dimensions for the fixed 640×480 mode.
const (
	CellWidth  = 9
	CellHeight = 16
	CellCols   = 71
	CellRows   = 30

	RegionWidth  = 90
	RegionHeight = 80
	Cols         = 7
	Rows         = 6

	// BarWidth is the fixed width of the vertical bar. Seven region
	// columns cover 630 of the 640 pixels; a visible bar consumes the
	// remaining ten.
	BarWidth = 10

	// BarHidden is the bar column value meaning no bar.
	BarHidden = -1
)

// Grid performs the coordinate conversions. It carries the one mutable
// piece of state the math depends on: the bar column. The bar band
// sits immediately left of its column; that column and all columns
// past it shift right by BarWidth.
type Grid struct {
	barCol int
}

// New creates a grid with the bar hidden.
func New() *Grid {
	return &Grid{barCol: BarHidden}
}

// BarColumn returns the bar column, or BarHidden.
func (g *Grid) BarColumn() int {
	return g.barCol
}

// SetBarColumn moves the bar. Valid positions are BarHidden and
// 0..Cols inclusive (Cols parks the bar in the slack right of the
// last column); out-of-range values hide the bar.
func (g *Grid) SetBarColumn(col int) {
	if col < 0 || col > Cols {
		g.barCol = BarHidden
		return
	}
	g.barCol = col
}

// BarVisible reports whether the bar occupies a pixel band.
func (g *Grid) BarVisible() bool {
	return g.barCol != BarHidden
}

// BarBand returns the pixel band covered by the bar. ok is false when
// the bar is hidden.
func (g *Grid) BarBand() (band geom.Rect, ok bool) {
	if g.barCol == BarHidden {
		return geom.Rect{}, false
	}
	return geom.NewRect(g.barCol*RegionWidth, 0, BarWidth, Rows*RegionHeight), true
}

// RegionToPixel returns the top-left pixel of a region.
func (g *Grid) RegionToPixel(rx, ry int) geom.Point {
	x := rx * RegionWidth
	if g.barCol != BarHidden && rx >= g.barCol {
		x += BarWidth
	}
	return geom.Pt(x, ry*RegionHeight)
}

// RegionRect returns the pixel rectangle spanning w×h regions
// anchored at (rx, ry). When the bar band falls strictly inside the
// span the band is covered as well; a span cannot be discontiguous.
// Degenerate extents yield an empty rectangle.
func (g *Grid) RegionRect(rx, ry, w, h int) geom.Rect {
	if w < 1 || h < 1 {
		return geom.Rect{}
	}
	origin := g.RegionToPixel(rx, ry)
	end := g.RegionToPixel(rx+w-1, ry).X + RegionWidth
	return geom.NewRect(origin.X, origin.Y, end-origin.X, h*RegionHeight)
}

// PixelToRegion returns the region containing a pixel. ok is false
// for pixels inside the bar band and for pixels outside the region
// grid; no approximate region is ever returned.
func (g *Grid) PixelToRegion(x, y int) (rx, ry int, ok bool) {
	if x < 0 || y < 0 || y >= Rows*RegionHeight {
		return 0, 0, false
	}

	if g.barCol != BarHidden {
		bandStart := g.barCol * RegionWidth
		switch {
		case x >= bandStart && x < bandStart+BarWidth:
			return 0, 0, false
		case x >= bandStart+BarWidth:
			rx = (x - BarWidth) / RegionWidth
		default:
			rx = x / RegionWidth
		}
	} else {
		rx = x / RegionWidth
	}

	if rx >= Cols {
		return 0, 0, false
	}
	return rx, y / RegionHeight, true
}

// CellToPixel returns the top-left pixel of a text cell. Cell space
// is independent of the bar.
func (g *Grid) CellToPixel(cx, cy int) geom.Point {
	return geom.Pt(cx*CellWidth, cy*CellHeight)
}

// PixelToCell returns the text cell containing a pixel. ok is false
// outside the cell grid.
func (g *Grid) PixelToCell(x, y int) (cx, cy int, ok bool) {
	if x < 0 || y < 0 {
		return 0, 0, false
	}
	cx, cy = x/CellWidth, y/CellHeight
	if cx >= CellCols || cy >= CellRows {
		return 0, 0, false
	}
	return cx, cy, true
}

// ValidRegion reports whether (rx, ry) indexes a region.
func ValidRegion(rx, ry int) bool {
	return rx >= 0 && rx < Cols && ry >= 0 && ry < Rows
}

// ValidRegionRect reports whether an origin+extent pair stays within
// the region grid. The layout manager refuses placements that fail
// this check.
func ValidRegionRect(rx, ry, w, h int) bool {
	if w < 1 || h < 1 {
		return false
	}
	return ValidRegion(rx, ry) && rx+w <= Cols && ry+h <= Rows
}

// ValidCell reports whether (cx, cy) indexes a text cell.
func ValidCell(cx, cy int) bool {
	return cx >= 0 && cx < CellCols && cy >= 0 && cy < CellRows
}
