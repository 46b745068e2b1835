package display

import "github.com/tesseraos/tessera/internal/geom"

// FillMode selects how FillRect paints.
type FillMode uint8

const (
	// FillSolid paints every pixel with the foreground color.
	FillSolid FillMode = iota
	// FillPattern tiles the 8×8 pattern, foreground on set bits and
	// background on clear bits.
	FillPattern
)

// Context carries per-operation drawing state: clip rectangle,
// integer translation, fill mode, and colors. Every entrypoint applies
// the translation, then clips, then delegates to the driver. Contexts
// are ephemeral; each draw pass builds fresh ones.
type Context struct {
	drv  Driver
	clip geom.Rect // device space
	tx   int
	ty   int
	mode FillMode
	fg   Color
	bg   Color
	pat  *Pattern
}

// NewContext creates a context over the driver with a full-screen
// clip, no translation, solid fill, and white-on-black colors.
func NewContext(drv Driver) *Context {
	w, h := drv.Size()
	return &Context{
		drv:  drv,
		clip: geom.NewRect(0, 0, w, h),
		fg:   ColorWhite,
		bg:   ColorBlack,
	}
}

// Driver returns the underlying driver.
func (c *Context) Driver() Driver {
	return c.drv
}

// Size returns the screen dimensions in pixels.
func (c *Context) Size() (w, h int) {
	return c.drv.Size()
}

// SetClip sets the clip rectangle in device coordinates, intersected
// with the screen.
func (c *Context) SetClip(r geom.Rect) {
	w, h := c.drv.Size()
	c.clip = r.Intersect(geom.NewRect(0, 0, w, h))
}

// Clip returns the current clip rectangle in device coordinates.
func (c *Context) Clip() geom.Rect {
	return c.clip
}

// SetTranslation sets the translation applied to all coordinates.
func (c *Context) SetTranslation(dx, dy int) {
	c.tx, c.ty = dx, dy
}

// Translation returns the current translation offset.
func (c *Context) Translation() (dx, dy int) {
	return c.tx, c.ty
}

// SetColors sets the foreground and background colors.
func (c *Context) SetColors(fg, bg Color) {
	c.fg, c.bg = fg, bg
}

// Colors returns the current foreground and background colors.
func (c *Context) Colors() (fg, bg Color) {
	return c.fg, c.bg
}

// SetFillMode sets the fill mode.
func (c *Context) SetFillMode(m FillMode) {
	c.mode = m
}

// SetPattern sets the fill tile and switches to pattern mode. Passing
// nil resets to solid fill.
func (c *Context) SetPattern(p *Pattern) {
	c.pat = p
	if p == nil {
		c.mode = FillSolid
	} else {
		c.mode = FillPattern
	}
}

// FillRect fills a rectangle in the current mode. Pattern phase is
// taken from the caller's pre-translation coordinates, so a tile stays
// aligned with its content when the fill is clipped or the context
// translated.
func (c *Context) FillRect(r geom.Rect) {
	if r.IsEmpty() {
		return
	}
	vis := r.Translate(c.tx, c.ty).Intersect(c.clip)
	if vis.IsEmpty() {
		return
	}
	if c.mode == FillSolid || c.pat == nil {
		c.drv.FillRect(vis, c.fg)
		return
	}
	for dy := vis.Y; dy < vis.Bottom(); dy++ {
		ly := dy - c.ty
		for dx := vis.X; dx < vis.Right(); dx++ {
			if c.pat.At(dx-c.tx, ly) {
				c.drv.SetPixel(dx, dy, c.fg)
			} else {
				c.drv.SetPixel(dx, dy, c.bg)
			}
		}
	}
}

// DrawRect draws a one-pixel rectangle outline in the foreground
// color.
func (c *Context) DrawRect(r geom.Rect) {
	if r.IsEmpty() {
		return
	}
	dev := r.Translate(c.tx, c.ty)
	c.fillDevice(geom.NewRect(dev.X, dev.Y, dev.W, 1))
	c.fillDevice(geom.NewRect(dev.X, dev.Bottom()-1, dev.W, 1))
	c.fillDevice(geom.NewRect(dev.X, dev.Y+1, 1, dev.H-2))
	c.fillDevice(geom.NewRect(dev.Right()-1, dev.Y+1, 1, dev.H-2))
}

// fillDevice fills a device-space rectangle with the foreground color.
func (c *Context) fillDevice(r geom.Rect) {
	vis := r.Intersect(c.clip)
	if !vis.IsEmpty() {
		c.drv.FillRect(vis, c.fg)
	}
}

// DrawLine draws a line between two points in the foreground color,
// clipped with the Cohen–Sutherland algorithm before any pixel is
// plotted.
func (c *Context) DrawLine(x0, y0, x1, y1 int) {
	x0 += c.tx
	y0 += c.ty
	x1 += c.tx
	y1 += c.ty

	cx0, cy0, cx1, cy1, ok := clipLine(x0, y0, x1, y1, c.clip)
	if !ok {
		return
	}
	if ld, isLD := c.drv.(LineDrawer); isLD {
		ld.DrawLine(cx0, cy0, cx1, cy1, c.fg)
		return
	}
	c.bresenham(cx0, cy0, cx1, cy1)
}

// bresenham plots an 8-connected line with the dual-threshold integer
// stepping.
func (c *Context) bresenham(x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx - dy

	for {
		c.drv.SetPixel(x0, y0, c.fg)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawCircle draws a circle outline in the foreground color. When the
// whole circle lies inside the clip and the driver accelerates
// circles, drawing is delegated; otherwise a midpoint walk plots each
// visible pixel.
func (c *Context) DrawCircle(cx, cy, r int) {
	if r < 0 {
		return
	}
	cx += c.tx
	cy += c.ty
	bbox := geom.NewRect(cx-r, cy-r, 2*r+1, 2*r+1)
	if !c.clip.Overlaps(bbox) {
		return
	}
	if cd, isCD := c.drv.(CircleDrawer); isCD && c.clip.ContainsRect(bbox) {
		cd.DrawCircle(cx, cy, r, c.fg)
		return
	}

	x := r
	y := 0
	p := 1 - r
	for x >= y {
		c.plotClipped(cx+x, cy+y)
		c.plotClipped(cx-x, cy+y)
		c.plotClipped(cx+x, cy-y)
		c.plotClipped(cx-x, cy-y)
		c.plotClipped(cx+y, cy+x)
		c.plotClipped(cx-y, cy+x)
		c.plotClipped(cx+y, cy-x)
		c.plotClipped(cx-y, cy-x)
		y++
		if p < 0 {
			p += 2*y + 1
		} else {
			x--
			p += 2*(y-x) + 1
		}
	}
}

// plotClipped writes one device pixel if it lies inside the clip.
func (c *Context) plotClipped(x, y int) {
	if c.clip.Contains(x, y) {
		c.drv.SetPixel(x, y, c.fg)
	}
}

// Blit copies the srcRect portion of an 8bpp buffer to dst, clipped to
// the context.
func (c *Context) Blit(dst geom.Point, src []byte, srcStride int, srcRect geom.Rect) {
	if len(src) == 0 || srcRect.IsEmpty() {
		return
	}
	dev := geom.NewRect(dst.X+c.tx, dst.Y+c.ty, srcRect.W, srcRect.H)
	vis := dev.Intersect(c.clip)
	if vis.IsEmpty() {
		return
	}
	adj := geom.NewRect(srcRect.X+vis.X-dev.X, srcRect.Y+vis.Y-dev.Y, vis.W, vis.H)
	c.drv.Blit(geom.Pt(vis.X, vis.Y), src, srcStride, adj)
}

// Cohen–Sutherland outcodes.
const (
	outInside = 0
	outLeft   = 1
	outRight  = 2
	outBottom = 4
	outTop    = 8
)

// outcode classifies a point against the clip rectangle.
func outcode(x, y int, r geom.Rect) int {
	code := outInside
	if x < r.X {
		code |= outLeft
	} else if x > r.Right()-1 {
		code |= outRight
	}
	if y < r.Y {
		code |= outTop
	} else if y > r.Bottom()-1 {
		code |= outBottom
	}
	return code
}

// clipLine clips a segment to r with Cohen–Sutherland: iteratively
// replace whichever endpoint violates a boundary until both outcodes
// are zero (accept) or share a bit (reject).
func clipLine(x0, y0, x1, y1 int, r geom.Rect) (int, int, int, int, bool) {
	if r.IsEmpty() {
		return 0, 0, 0, 0, false
	}
	xmin, ymin := r.X, r.Y
	xmax, ymax := r.Right()-1, r.Bottom()-1

	c0 := outcode(x0, y0, r)
	c1 := outcode(x1, y1, r)
	for {
		if c0|c1 == 0 {
			return x0, y0, x1, y1, true
		}
		if c0&c1 != 0 {
			return 0, 0, 0, 0, false
		}

		co := c0
		if co == 0 {
			co = c1
		}

		var x, y int
		switch {
		case co&outTop != 0:
			x = x0 + (x1-x0)*(ymin-y0)/(y1-y0)
			y = ymin
		case co&outBottom != 0:
			x = x0 + (x1-x0)*(ymax-y0)/(y1-y0)
			y = ymax
		case co&outRight != 0:
			y = y0 + (y1-y0)*(xmax-x0)/(x1-x0)
			x = xmax
		default: // outLeft
			y = y0 + (y1-y0)*(xmin-x0)/(x1-x0)
			x = xmin
		}

		if co == c0 {
			x0, y0 = x, y
			c0 = outcode(x0, y0, r)
		} else {
			x1, y1 = x, y
			c1 = outcode(x1, y1, r)
		}
	}
}

// abs returns the absolute value of an int.
func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
