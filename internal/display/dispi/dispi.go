// Package dispi implements the display driver over a linear
// 640×480×8bpp framebuffer: an optional backbuffer, dirty-rectangle
// tracking, and accelerated fill/line/circle primitives. The device
// is confined to the compositor loop and takes no locks.
package dispi

import (
	"encoding/binary"
	"errors"

	"github.com/tesseraos/tessera/internal/display"
	"github.com/tesseraos/tessera/internal/geom"
	"github.com/tesseraos/tessera/internal/hw"
	"github.com/tesseraos/tessera/internal/logging"
)

// Fixed video mode.
const (
	Width  = 640
	Height = 480
)

// vsyncSpinLimit bounds the retrace poll so a stuck status port can
// never hang the loop.
const vsyncSpinLimit = 1 << 16

// ErrNoFramebuffer reports that no usable framebuffer was supplied.
var ErrNoFramebuffer = errors.New("dispi: no framebuffer")

// Device is the concrete display driver.
type Device struct {
	fb    hw.Framebuffer
	ports hw.PortIO
	log   *logging.Logger

	front  []byte
	back   []byte
	stride int
	w, h   int

	dirty   dirtyTable
	pal     display.Palette
	lfbAddr uint32

	wantBack bool
}

var (
	_ display.Driver       = (*Device)(nil)
	_ display.LineDrawer   = (*Device)(nil)
	_ display.CircleDrawer = (*Device)(nil)
	_ display.HFiller      = (*Device)(nil)
	_ display.Flipper      = (*Device)(nil)
)

// Option configures a Device.
type Option func(*Device)

// WithLogger sets the device logger.
func WithLogger(l *logging.Logger) Option {
	return func(d *Device) {
		if l != nil {
			d.log = l
		}
	}
}

// WithDoubleBuffering enables the backbuffer at construction.
// Enabling can degrade; the device stays usable either way.
func WithDoubleBuffering() Option {
	return func(d *Device) {
		d.wantBack = true
	}
}

// New creates a device over the given framebuffer and ports. The
// ports may be nil, in which case palette and vsync port traffic is
// skipped. Construction runs PCI discovery and programs the standard
// palette.
func New(fb hw.Framebuffer, ports hw.PortIO, opts ...Option) (*Device, error) {
	if fb == nil || len(fb.Bytes()) == 0 {
		return nil, ErrNoFramebuffer
	}
	w, h := fb.Size()
	d := &Device{
		fb:     fb,
		ports:  ports,
		log:    logging.Null,
		front:  fb.Bytes(),
		stride: fb.Stride(),
		w:      w,
		h:      h,
		pal:    display.DefaultPalette(),
	}
	for _, opt := range opts {
		opt(d)
	}

	d.lfbAddr = Discover(ports, d.log)
	d.SetPalette(d.pal)
	if d.wantBack {
		d.SetDoubleBuffered(true)
	}
	return d, nil
}

// Size returns the screen dimensions.
func (d *Device) Size() (w, h int) {
	return d.w, d.h
}

// FramebufferAddr returns the linear framebuffer address found by PCI
// discovery.
func (d *Device) FramebufferAddr() uint32 {
	return d.lfbAddr
}

// screen returns the full-screen rectangle.
func (d *Device) screen() geom.Rect {
	return geom.NewRect(0, 0, d.w, d.h)
}

// target returns the active write target: the backbuffer when double
// buffering is on, the framebuffer otherwise.
func (d *Device) target() []byte {
	if d.back != nil {
		return d.back
	}
	return d.front
}

// SetPixel writes one pixel. Out-of-range coordinates are ignored.
func (d *Device) SetPixel(x, y int, c display.Color) {
	if x < 0 || x >= d.w || y < 0 || y >= d.h {
		return
	}
	d.target()[y*d.stride+x] = byte(c)
	d.dirty.mark(geom.NewRect(x, y, 1, 1), d.screen())
}

// GetPixel reads one pixel from the active write target, returning
// zero out of range.
func (d *Device) GetPixel(x, y int) display.Color {
	if x < 0 || x >= d.w || y < 0 || y >= d.h {
		return 0
	}
	return display.Color(d.target()[y*d.stride+x])
}

// FillRect fills a rectangle, clipped to the screen.
func (d *Device) FillRect(r geom.Rect, c display.Color) {
	vis := r.Intersect(d.screen())
	if vis.IsEmpty() {
		return
	}
	for y := vis.Y; y < vis.Bottom(); y++ {
		d.hlineRaw(vis.X, y, vis.W, byte(c))
	}
	d.dirty.mark(vis, d.screen())
}

// HLine fills a horizontal pixel run, clipped to the screen.
func (d *Device) HLine(x, y, w int, c display.Color) {
	vis := geom.NewRect(x, y, w, 1).Intersect(d.screen())
	if vis.IsEmpty() {
		return
	}
	d.hlineRaw(vis.X, vis.Y, vis.W, byte(c))
	d.dirty.mark(vis, d.screen())
}

// hlineRaw writes a run already known to be in bounds. The middle is
// written as 32-bit words on 4-byte offsets, head and tail as bytes.
func (d *Device) hlineRaw(x, y, w int, c byte) {
	buf := d.target()
	off := y*d.stride + x
	end := off + w
	word := uint32(c) * 0x01010101

	for off < end && off%4 != 0 {
		buf[off] = c
		off++
	}
	for off+4 <= end {
		binary.LittleEndian.PutUint32(buf[off:off+4], word)
		off += 4
	}
	for off < end {
		buf[off] = c
		off++
	}
}

// DrawLine draws an 8-connected line with dual-threshold integer
// Bresenham stepping, bounds-checking each pixel.
func (d *Device) DrawLine(x0, y0, x1, y1 int, c display.Color) {
	bbox := geom.RectFromCorners(x0, y0, x1, y1)
	bbox.W++
	bbox.H++

	dx := iabs(x1 - x0)
	dy := iabs(y1 - y0)
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
		d.plot(x0, y0, byte(c))
		if x0 == x1 && y0 == y1 {
			break
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

	d.dirty.mark(bbox, d.screen())
}

// DrawCircle draws a circle outline with the midpoint algorithm,
// plotting all eight octants per step and bounds-checking each pixel.
func (d *Device) DrawCircle(cx, cy, r int, c display.Color) {
	if r < 0 {
		return
	}
	cb := byte(c)
	x := r
	y := 0
	p := 1 - r
	for x >= y {
		d.plot(cx+x, cy+y, cb)
		d.plot(cx-x, cy+y, cb)
		d.plot(cx+x, cy-y, cb)
		d.plot(cx-x, cy-y, cb)
		d.plot(cx+y, cy+x, cb)
		d.plot(cx-y, cy+x, cb)
		d.plot(cx+y, cy-x, cb)
		d.plot(cx-y, cy-x, cb)
		y++
		if p < 0 {
			p += 2*y + 1
		} else {
			x--
			p += 2*(y-x) + 1
		}
	}

	d.dirty.mark(geom.NewRect(cx-r, cy-r, 2*r+1, 2*r+1), d.screen())
}

// plot writes one bounds-checked pixel without touching the dirty
// table; primitives mark their whole bounding box once.
func (d *Device) plot(x, y int, c byte) {
	if x < 0 || x >= d.w || y < 0 || y >= d.h {
		return
	}
	d.target()[y*d.stride+x] = c
}

// Blit copies the srcRect portion of an 8bpp buffer to dst, clipped
// to the screen.
func (d *Device) Blit(dst geom.Point, src []byte, srcStride int, srcRect geom.Rect) {
	vis := geom.NewRect(dst.X, dst.Y, srcRect.W, srcRect.H).Intersect(d.screen())
	if vis.IsEmpty() || len(src) == 0 {
		return
	}
	sx := srcRect.X + vis.X - dst.X
	sy := srcRect.Y + vis.Y - dst.Y
	buf := d.target()
	for row := 0; row < vis.H; row++ {
		srcOff := (sy+row)*srcStride + sx
		if srcOff < 0 || srcOff+vis.W > len(src) {
			continue
		}
		dstOff := (vis.Y+row)*d.stride + vis.X
		copy(buf[dstOff:dstOff+vis.W], src[srcOff:srcOff+vis.W])
	}
	d.dirty.mark(vis, d.screen())
}

// Clear fills the whole screen with one color.
func (d *Device) Clear(c display.Color) {
	for y := 0; y < d.h; y++ {
		d.hlineRaw(0, y, d.w, byte(c))
	}
	d.dirty.mark(d.screen(), d.screen())
}

// SetPalette stores the palette and programs the DAC: per entry, one
// index write followed by three 6-bit channel writes.
func (d *Device) SetPalette(p display.Palette) {
	d.pal = p
	if d.ports == nil {
		return
	}
	for i, e := range p {
		d.ports.Out8(hw.PortDACWriteIndex, uint8(i))
		d.ports.Out8(hw.PortDACData, e.R>>2)
		d.ports.Out8(hw.PortDACData, e.G>>2)
		d.ports.Out8(hw.PortDACData, e.B>>2)
	}
}

// Palette returns the stored palette.
func (d *Device) Palette() display.Palette {
	return d.pal
}

// WaitVSync polls the retrace bit, bounded so a stuck port cannot
// hang the loop.
func (d *Device) WaitVSync() {
	if d.ports == nil {
		return
	}
	for i := 0; i < vsyncSpinLimit; i++ {
		if d.ports.In8(hw.PortInputStatus1)&hw.VSyncBit != 0 {
			return
		}
	}
}

// SetDoubleBuffered enables or disables the backbuffer and reports
// the state in effect. Enabling degrades to direct framebuffer writes
// when the hardware buffer is undersized.
func (d *Device) SetDoubleBuffered(on bool) bool {
	if !on {
		d.back = nil
		return false
	}
	if d.back != nil {
		return true
	}
	if len(d.front) < d.stride*d.h {
		d.log.Warn("backbuffer unavailable (framebuffer %d bytes, need %d), drawing direct",
			len(d.front), d.stride*d.h)
		return false
	}
	d.back = make([]byte, len(d.front))
	copy(d.back, d.front)
	return true
}

// Buffered reports whether the backbuffer is active.
func (d *Device) Buffered() bool {
	return d.back != nil
}

// Flip copies the whole backbuffer to the framebuffer.
func (d *Device) Flip() {
	if d.back == nil {
		return
	}
	copy(d.front, d.back)
}

// FlipDirty copies only the tracked dirty rectangles row-by-row and
// returns them; the table is empty afterwards. Cost is O(damage), not
// O(screen).
func (d *Device) FlipDirty() []geom.Rect {
	rects := d.dirty.take()
	if d.back == nil {
		return rects
	}
	for _, r := range rects {
		for y := r.Y; y < r.Bottom(); y++ {
			off := y*d.stride + r.X
			copy(d.front[off:off+r.W], d.back[off:off+r.W])
		}
	}
	return rects
}

// DirtyCount returns the number of live dirty rectangles.
func (d *Device) DirtyCount() int {
	return d.dirty.live()
}

// iabs returns the absolute value of an int.
func iabs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
