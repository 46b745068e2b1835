package dispi

import (
	"testing"

	"github.com/tesseraos/tessera/internal/display"
	"github.com/tesseraos/tessera/internal/geom"
	"github.com/tesseraos/tessera/internal/hw"
)

func newTestDevice(t *testing.T, opts ...Option) (*Device, *hw.Sim) {
	t.Helper()
	sim := hw.NewSim(Width, Height)
	sim.AddDisplayDevice(1, 0x1234, 0x1111, 0xE0000000)
	d, err := New(sim, sim, opts...)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return d, sim
}

func TestNewRequiresFramebuffer(t *testing.T) {
	if _, err := New(nil, nil); err != ErrNoFramebuffer {
		t.Errorf("New(nil) error = %v, want ErrNoFramebuffer", err)
	}
}

func TestSetPixelBoundsChecked(t *testing.T) {
	d, sim := newTestDevice(t)

	d.SetPixel(-1, 0, display.ColorWhite)
	d.SetPixel(0, -1, display.ColorWhite)
	d.SetPixel(Width, 0, display.ColorWhite)
	d.SetPixel(0, Height, display.ColorWhite)

	for _, b := range sim.Bytes() {
		if b != 0 {
			t.Fatal("out-of-range SetPixel wrote to the framebuffer")
		}
	}

	d.SetPixel(3, 4, display.ColorCyan)
	if got := d.GetPixel(3, 4); got != display.ColorCyan {
		t.Errorf("GetPixel(3,4) = %v, want cyan", got)
	}
	if got := d.GetPixel(-1, -1); got != 0 {
		t.Errorf("out-of-range GetPixel = %v, want 0", got)
	}
}

func TestHLineAllAlignmentsAndWidths(t *testing.T) {
	d, sim := newTestDevice(t)

	// Word-write middle plus byte head/tail must be byte-exact for
	// every start alignment and short width.
	for x0 := 0; x0 < 4; x0++ {
		for w := 0; w <= 9; w++ {
			for i := range sim.Bytes() {
				sim.Bytes()[i] = 0
			}
			d.HLine(x0, 7, w, display.Color(9))

			row := sim.Bytes()[7*Width : 8*Width]
			for x := 0; x < Width; x++ {
				want := byte(0)
				if x >= x0 && x < x0+w {
					want = 9
				}
				if row[x] != want {
					t.Fatalf("x0=%d w=%d: row[%d] = %d, want %d", x0, w, x, row[x], want)
				}
			}
		}
	}
}

func TestFillRectClipsToScreen(t *testing.T) {
	d, sim := newTestDevice(t)

	d.FillRect(geom.NewRect(Width-5, Height-5, 10, 10), display.ColorRed)

	if got := d.GetPixel(Width-1, Height-1); got != display.ColorRed {
		t.Errorf("corner pixel = %v, want red", got)
	}
	// Nothing may be written past the buffer; the Sim buffer is exactly
	// Width*Height so an overrun would have panicked.
	_ = sim
}

func TestLineMarksBoundingBoxDirty(t *testing.T) {
	d, _ := newTestDevice(t)
	d.FlipDirty() // drop construction damage

	d.DrawLine(10, 10, 20, 15, display.ColorWhite)

	rects := d.FlipDirty()
	if len(rects) != 1 {
		t.Fatalf("dirty rects = %d, want 1", len(rects))
	}
	want := geom.NewRect(10, 10, 11, 6)
	if rects[0] != want {
		t.Errorf("line dirty bbox = %v, want %v", rects[0], want)
	}
}

func TestCircleEndpointsPlotted(t *testing.T) {
	d, _ := newTestDevice(t)

	d.DrawCircle(100, 100, 20, display.ColorYellow)

	for _, p := range []geom.Point{
		geom.Pt(120, 100), geom.Pt(80, 100), geom.Pt(100, 120), geom.Pt(100, 80),
	} {
		if got := d.GetPixel(p.X, p.Y); got != display.ColorYellow {
			t.Errorf("circle extreme %v = %v, want yellow", p, got)
		}
	}
}

func TestBlitCopiesAndClips(t *testing.T) {
	d, _ := newTestDevice(t)

	src := make([]byte, 4*4)
	for i := range src {
		src[i] = byte(i + 1)
	}
	d.Blit(geom.Pt(Width-2, 0), src, 4, geom.NewRect(0, 0, 4, 4))

	if got := d.GetPixel(Width-2, 0); got != display.Color(src[0]) {
		t.Errorf("blit pixel = %v, want %v", got, src[0])
	}
	if got := d.GetPixel(Width-1, 1); got != display.Color(src[5]) {
		t.Errorf("blit pixel row 1 = %v, want %v", got, src[5])
	}
}

func TestDoubleBufferingWritesBackThenFlips(t *testing.T) {
	d, sim := newTestDevice(t)
	d.Clear(display.ColorBlack)
	d.Flip()
	d.FlipDirty()

	if !d.SetDoubleBuffered(true) {
		t.Fatal("SetDoubleBuffered(true) degraded unexpectedly")
	}
	d.SetPixel(5, 5, display.ColorWhite)

	// The framebuffer must not change until a flip.
	if sim.Bytes()[5*Width+5] != 0 {
		t.Error("buffered write reached the framebuffer before flip")
	}
	if got := d.GetPixel(5, 5); got != display.ColorWhite {
		t.Error("GetPixel should read the pending backbuffer write")
	}

	rects := d.FlipDirty()
	if len(rects) == 0 {
		t.Fatal("FlipDirty returned no rects")
	}
	if sim.Bytes()[5*Width+5] != byte(display.ColorWhite) {
		t.Error("flip did not copy the dirty pixel to the framebuffer")
	}
}

func TestFlipDirtyTwiceSecondIsNoop(t *testing.T) {
	d, _ := newTestDevice(t, WithDoubleBuffering())

	d.FillRect(geom.NewRect(0, 0, 10, 10), display.ColorGreen)

	if rects := d.FlipDirty(); len(rects) == 0 {
		t.Fatal("first FlipDirty returned no rects")
	}
	if rects := d.FlipDirty(); rects != nil {
		t.Errorf("second FlipDirty = %v, want nil", rects)
	}
	if d.DirtyCount() != 0 {
		t.Errorf("DirtyCount = %d, want 0", d.DirtyCount())
	}
}

func TestFlipDirtyCopiesOnlyDamage(t *testing.T) {
	d, sim := newTestDevice(t, WithDoubleBuffering())
	d.FlipDirty() // settle construction state

	// Stamp the framebuffer behind the driver's back; an exact flip
	// must not disturb pixels outside the damaged area.
	sim.Bytes()[100*Width+100] = 0xE

	d.FillRect(geom.NewRect(0, 0, 8, 8), display.ColorBlue)
	d.FlipDirty()

	if sim.Bytes()[100*Width+100] != 0xE {
		t.Error("FlipDirty touched pixels outside the dirty rects")
	}
	if sim.Bytes()[0] != byte(display.ColorBlue) {
		t.Error("FlipDirty did not copy the damaged area")
	}
}

func TestSetDoubleBufferedDegradesOnShortBuffer(t *testing.T) {
	fb := &shortFramebuffer{buf: make([]byte, 16)}
	d, err := New(fb, nil)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if d.SetDoubleBuffered(true) {
		t.Error("enabling on an undersized framebuffer should degrade")
	}
	if d.Buffered() {
		t.Error("device reports buffered after degrade")
	}

	// Direct writes must still work.
	d.SetPixel(0, 0, display.ColorWhite)
	if fb.buf[0] != byte(display.ColorWhite) {
		t.Error("degraded device did not write directly to the framebuffer")
	}
}

func TestSetPaletteEmitsDACSequence(t *testing.T) {
	sim := hw.NewSim(Width, Height)
	d, err := New(sim, sim)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	var pal display.Palette
	pal[1] = hw.RGB{R: 0xFF, G: 0x54, B: 0x00}
	before := len(sim.Out8Log())
	d.SetPalette(pal)

	log := sim.Out8Log()[before:]
	// Entry 1 starts after entry 0's four writes.
	entry1 := log[4:8]
	wantPorts := []uint16{hw.PortDACWriteIndex, hw.PortDACData, hw.PortDACData, hw.PortDACData}
	wantVals := []uint8{1, 0xFF >> 2, 0x54 >> 2, 0x00}
	for i, w := range entry1 {
		if w.Port != wantPorts[i] || w.Value != wantVals[i] {
			t.Errorf("write %d = port %#x val %#x, want port %#x val %#x",
				i, w.Port, w.Value, wantPorts[i], wantVals[i])
		}
	}

	if got := sim.PaletteEntry(1); got != (hw.RGB{R: 0xFF, G: 0x55, B: 0x00}) {
		t.Errorf("sim resolved entry 1 = %+v", got)
	}
}

func TestWaitVSyncTerminates(t *testing.T) {
	d, _ := newTestDevice(t)

	// The Sim alternates the retrace bit; the poll must return.
	d.WaitVSync()
	d.WaitVSync()
}

// shortFramebuffer is a deliberately undersized buffer for degrade
// tests.
type shortFramebuffer struct {
	buf []byte
}

func (f *shortFramebuffer) Bytes() []byte      { return f.buf }
func (f *shortFramebuffer) Stride() int        { return 8 }
func (f *shortFramebuffer) Size() (w, h int)   { return 8, 8 }
