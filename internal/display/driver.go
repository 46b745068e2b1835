// Package display provides the display driver interface and the
// graphics context that every draw call is funneled through. Concrete
// drivers live in subpackages (dispi); a NullDriver is provided for
// tests.
package display

import (
	"github.com/tesseraos/tessera/internal/geom"
	"github.com/tesseraos/tessera/internal/hw"
)

// Color is an index into the 16-entry palette.
type Color uint8

// The standard palette indices.
const (
	ColorBlack Color = iota
	ColorBlue
	ColorGreen
	ColorCyan
	ColorRed
	ColorMagenta
	ColorBrown
	ColorLightGray
	ColorDarkGray
	ColorLightBlue
	ColorLightGreen
	ColorLightCyan
	ColorLightRed
	ColorLightMagenta
	ColorYellow
	ColorWhite
)

// String returns the conventional name of a palette index.
func (c Color) String() string {
	names := [...]string{
		"black", "blue", "green", "cyan",
		"red", "magenta", "brown", "lightgray",
		"darkgray", "lightblue", "lightgreen", "lightcyan",
		"lightred", "lightmagenta", "yellow", "white",
	}
	if int(c) < len(names) {
		return names[c]
	}
	return "invalid"
}

// PaletteSize is the number of palette entries in the fixed video mode.
const PaletteSize = 16

// Palette holds the 16 full-range RGB entries of the video palette.
// Drivers quantize to their DAC depth on write.
type Palette [PaletteSize]hw.RGB

// DefaultPalette returns the standard 16-color palette.
func DefaultPalette() Palette {
	return Palette{
		{R: 0x00, G: 0x00, B: 0x00}, // black
		{R: 0x00, G: 0x00, B: 0xAA}, // blue
		{R: 0x00, G: 0xAA, B: 0x00}, // green
		{R: 0x00, G: 0xAA, B: 0xAA}, // cyan
		{R: 0xAA, G: 0x00, B: 0x00}, // red
		{R: 0xAA, G: 0x00, B: 0xAA}, // magenta
		{R: 0xAA, G: 0x55, B: 0x00}, // brown
		{R: 0xAA, G: 0xAA, B: 0xAA}, // light gray
		{R: 0x55, G: 0x55, B: 0x55}, // dark gray
		{R: 0x55, G: 0x55, B: 0xFF}, // light blue
		{R: 0x55, G: 0xFF, B: 0x55}, // light green
		{R: 0x55, G: 0xFF, B: 0xFF}, // light cyan
		{R: 0xFF, G: 0x55, B: 0x55}, // light red
		{R: 0xFF, G: 0x55, B: 0xFF}, // light magenta
		{R: 0xFF, G: 0xFF, B: 0x55}, // yellow
		{R: 0xFF, G: 0xFF, B: 0xFF}, // white
	}
}

// Driver is the required surface of a video device. Coordinates
// outside the screen are the driver's problem: SetPixel/GetPixel are
// bounds-checked no-ops, FillRect and Blit clip before writing.
type Driver interface {
	// Size returns the screen dimensions in pixels.
	Size() (w, h int)

	// SetPixel writes one pixel. Out-of-range coordinates are ignored.
	SetPixel(x, y int, c Color)

	// GetPixel reads one pixel. Out-of-range coordinates return zero.
	GetPixel(x, y int) Color

	// FillRect fills a rectangle, clipped to the screen.
	FillRect(r geom.Rect, c Color)

	// Blit copies the srcRect portion of an 8bpp source buffer to dst,
	// clipped to the screen.
	Blit(dst geom.Point, src []byte, srcStride int, srcRect geom.Rect)

	// SetPalette programs the video palette.
	SetPalette(p Palette)

	// Clear fills the whole screen with one color.
	Clear(c Color)

	// WaitVSync blocks until the next vertical retrace, bounded.
	WaitVSync()
}

// LineDrawer is an optional driver capability for accelerated lines.
// Callers fall back to per-pixel plotting when absent.
type LineDrawer interface {
	// DrawLine draws an 8-connected line between two points, clipped to
	// the screen.
	DrawLine(x0, y0, x1, y1 int, c Color)
}

// CircleDrawer is an optional driver capability for accelerated
// circle outlines.
type CircleDrawer interface {
	// DrawCircle draws a circle outline, clipped to the screen.
	DrawCircle(cx, cy, r int, c Color)
}

// HFiller is an optional driver capability for fast horizontal runs.
type HFiller interface {
	// HLine fills a horizontal pixel run, clipped to the screen.
	HLine(x, y, w int, c Color)
}

// Flipper is an optional driver capability for double buffering and
// damage-bounded presentation.
type Flipper interface {
	// SetDoubleBuffered enables or disables the backbuffer and reports
	// the state actually in effect (enabling can degrade).
	SetDoubleBuffered(on bool) bool

	// Flip copies the whole backbuffer to the framebuffer.
	Flip()

	// FlipDirty copies only the tracked dirty rectangles and returns
	// them; the table is empty afterwards.
	FlipDirty() []geom.Rect
}
