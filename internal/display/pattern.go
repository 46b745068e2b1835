package display

// Pattern is an 8×8 fill tile, one bit per pixel per row, bit 7 the
// leftmost pixel. Set bits paint the foreground color, clear bits the
// background.
type Pattern struct {
	Rows [8]uint8
}

// At reports whether the pattern bit at (x, y) is set. Coordinates are
// taken mod 8, so any pixel position may be passed directly.
func (p *Pattern) At(x, y int) bool {
	return p.Rows[y&7]&(0x80>>uint(x&7)) != 0
}

// Built-in fill patterns.
var (
	// PatternChecker alternates single pixels.
	PatternChecker = &Pattern{Rows: [8]uint8{0xAA, 0x55, 0xAA, 0x55, 0xAA, 0x55, 0xAA, 0x55}}

	// PatternDither25 sets one pixel in four.
	PatternDither25 = &Pattern{Rows: [8]uint8{0x88, 0x22, 0x88, 0x22, 0x88, 0x22, 0x88, 0x22}}

	// PatternDither50 is a 50% checkerboard at double scale.
	PatternDither50 = &Pattern{Rows: [8]uint8{0xCC, 0xCC, 0x33, 0x33, 0xCC, 0xCC, 0x33, 0x33}}

	// PatternDither75 clears one pixel in four.
	PatternDither75 = &Pattern{Rows: [8]uint8{0x77, 0xDD, 0x77, 0xDD, 0x77, 0xDD, 0x77, 0xDD}}

	// PatternHLines draws every other row.
	PatternHLines = &Pattern{Rows: [8]uint8{0xFF, 0x00, 0xFF, 0x00, 0xFF, 0x00, 0xFF, 0x00}}

	// PatternVLines draws every other column.
	PatternVLines = &Pattern{Rows: [8]uint8{0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA}}
)
