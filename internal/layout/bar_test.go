package layout

import (
	"testing"

	"github.com/tesseraos/tessera/internal/display"
	"github.com/tesseraos/tessera/internal/geom"
	"github.com/tesseraos/tessera/internal/view"
)

func solidView(c display.Color) *view.View {
	v := view.New()
	v.OnDraw = func(_ *view.View, dc *display.Context) {
		w, h := dc.Size()
		dc.SetFillMode(display.FillSolid)
		dc.SetColors(c, c)
		dc.FillRect(geom.NewRect(0, 0, w, h))
	}
	return v
}

func TestDrawPaintsBandOverContent(t *testing.T) {
	m := New()
	nav := solidView(display.ColorGreen)
	target := solidView(display.ColorRed)
	if err := m.SetSplit(nav, target, 3); err != nil {
		t.Fatalf("SetSplit() error = %v", err)
	}

	drv := display.NewNullDriver(640, 480)
	dc := display.NewContext(drv)
	m.Draw(dc)

	tests := []struct {
		name string
		x, y int
		want display.Color
	}{
		{"navigator content", 100, 100, display.ColorGreen},
		{"band left edge", 270, 100, display.ColorDarkGray},
		{"band interior", 275, 100, display.ColorDarkGray},
		{"target content", 285, 100, display.ColorRed},
		{"target far side", 600, 400, display.ColorRed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := drv.GetPixel(tt.x, tt.y); got != tt.want {
				t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}

	if m.Root().NeedsRedraw() {
		t.Error("redraw flag still set after draw pass")
	}
}

func TestBarContentHook(t *testing.T) {
	m := New()
	if err := m.SetSplit(solidView(display.ColorGreen), solidView(display.ColorRed), 3); err != nil {
		t.Fatalf("SetSplit() error = %v", err)
	}

	// The hook draws in band-local coordinates and may not escape
	// the band clip.
	m.Bar().OnDraw = func(dc *display.Context) {
		dc.SetFillMode(display.FillSolid)
		dc.SetColors(display.ColorWhite, display.ColorWhite)
		dc.FillRect(geom.NewRect(0, 0, 2, 480))
		dc.FillRect(geom.NewRect(8, 0, 20, 480))
	}

	drv := display.NewNullDriver(640, 480)
	m.Draw(display.NewContext(drv))

	if got := drv.GetPixel(271, 5); got != display.ColorWhite {
		t.Errorf("band hook pixel = %v, want white", got)
	}
	if got := drv.GetPixel(275, 5); got != display.ColorDarkGray {
		t.Errorf("band fill pixel = %v, want darkgray", got)
	}
	if got := drv.GetPixel(285, 5); got != display.ColorRed {
		t.Errorf("pixel past the band = %v, want target red", got)
	}
}

func TestBarMoveRepaints(t *testing.T) {
	m := New()
	if err := m.SetSplit(solidView(display.ColorGreen), solidView(display.ColorRed), 3); err != nil {
		t.Fatalf("SetSplit() error = %v", err)
	}

	drv := display.NewNullDriver(640, 480)
	dc := display.NewContext(drv)
	m.Draw(dc)

	m.SetBarColumn(2)
	if !m.Root().NeedsRedraw() {
		t.Fatal("bar move did not mark the tree for redraw")
	}
	m.Draw(dc)

	// Everything derives from the grid: the band sits at its new
	// column and the navigator has reclaimed the old band pixels.
	if got := drv.GetPixel(185, 5); got != display.ColorDarkGray {
		t.Errorf("new band pixel = %v, want darkgray", got)
	}
	if got := drv.GetPixel(275, 5); got != display.ColorGreen {
		t.Errorf("old band pixel = %v, want navigator green", got)
	}
}
