package display

import "github.com/tesseraos/tessera/internal/geom"

// NullDriver is an in-memory driver for tests. It implements only the
// required Driver surface, none of the optional capabilities, so
// callers' fallback paths get exercised.
type NullDriver struct {
	w, h    int
	pix     []byte
	palette Palette
	vsyncs  int
}

// NewNullDriver creates a null driver with the given screen size.
func NewNullDriver(w, h int) *NullDriver {
	return &NullDriver{
		w:       w,
		h:       h,
		pix:     make([]byte, w*h),
		palette: DefaultPalette(),
	}
}

// Size returns the screen dimensions.
func (d *NullDriver) Size() (w, h int) {
	return d.w, d.h
}

// SetPixel writes one pixel, ignoring out-of-range coordinates.
func (d *NullDriver) SetPixel(x, y int, c Color) {
	if x < 0 || x >= d.w || y < 0 || y >= d.h {
		return
	}
	d.pix[y*d.w+x] = byte(c)
}

// GetPixel reads one pixel, returning zero out of range.
func (d *NullDriver) GetPixel(x, y int) Color {
	if x < 0 || x >= d.w || y < 0 || y >= d.h {
		return 0
	}
	return Color(d.pix[y*d.w+x])
}

// FillRect fills a rectangle, clipped to the screen.
func (d *NullDriver) FillRect(r geom.Rect, c Color) {
	vis := r.Intersect(geom.NewRect(0, 0, d.w, d.h))
	for y := vis.Y; y < vis.Bottom(); y++ {
		row := d.pix[y*d.w : y*d.w+d.w]
		for x := vis.X; x < vis.Right(); x++ {
			row[x] = byte(c)
		}
	}
}

// Blit copies the srcRect portion of src to dst, clipped to the
// screen.
func (d *NullDriver) Blit(dst geom.Point, src []byte, srcStride int, srcRect geom.Rect) {
	vis := geom.NewRect(dst.X, dst.Y, srcRect.W, srcRect.H).
		Intersect(geom.NewRect(0, 0, d.w, d.h))
	if vis.IsEmpty() {
		return
	}
	sx := srcRect.X + vis.X - dst.X
	sy := srcRect.Y + vis.Y - dst.Y
	for row := 0; row < vis.H; row++ {
		srcOff := (sy+row)*srcStride + sx
		if srcOff < 0 || srcOff+vis.W > len(src) {
			continue
		}
		dstOff := (vis.Y+row)*d.w + vis.X
		copy(d.pix[dstOff:dstOff+vis.W], src[srcOff:srcOff+vis.W])
	}
}

// SetPalette stores the palette.
func (d *NullDriver) SetPalette(p Palette) {
	d.palette = p
}

// Palette returns the stored palette.
func (d *NullDriver) Palette() Palette {
	return d.palette
}

// Clear fills the whole screen with one color.
func (d *NullDriver) Clear(c Color) {
	for i := range d.pix {
		d.pix[i] = byte(c)
	}
}

// WaitVSync counts calls and returns immediately.
func (d *NullDriver) WaitVSync() {
	d.vsyncs++
}

// VSyncs returns how many times WaitVSync has been called.
func (d *NullDriver) VSyncs() int {
	return d.vsyncs
}
