package widget

import (
	"testing"

	"github.com/tesseraos/tessera/internal/display"
	"github.com/tesseraos/tessera/internal/event"
	"github.com/tesseraos/tessera/internal/input"
)

func TestCanvasStroke(t *testing.T) {
	c := NewCanvas()
	m, drv := mount(t, c.View())

	m.HandleEvent(event.NewMouse(event.MouseDown, 100, 100, input.ButtonLeft))
	m.HandleEvent(event.NewMouse(event.MouseMove, 150, 100, input.ButtonNone))
	m.HandleEvent(event.NewMouse(event.MouseMove, 200, 100, input.ButtonNone))
	m.HandleEvent(event.NewMouse(event.MouseUp, 200, 100, input.ButtonLeft))

	if got := c.StrokeCount(); got != 1 {
		t.Fatalf("StrokeCount() = %d, want 1", got)
	}
	if got := len(c.strokes[0]); got != 3 {
		t.Errorf("stroke has %d points, want 3", got)
	}

	// Moves after release extend nothing.
	m.HandleEvent(event.NewMouse(event.MouseMove, 300, 100, input.ButtonNone))
	if got := len(c.strokes[0]); got != 3 {
		t.Errorf("stroke grew to %d points after release", got)
	}

	m.Draw(display.NewContext(drv))
	if got := drv.GetPixel(150, 100); got != display.ColorLightCyan {
		t.Errorf("stroke pixel = %v, want accent", got)
	}
}

func TestCanvasMarks(t *testing.T) {
	c := NewCanvas()
	m, drv := mount(t, c.View())

	m.HandleEvent(event.NewMouse(event.MouseDown, 300, 200, input.ButtonRight))
	if got := c.MarkCount(); got != 1 {
		t.Fatalf("MarkCount() = %d, want 1", got)
	}

	m.Draw(display.NewContext(drv))
	if got := drv.GetPixel(300+markRadius, 200); got != display.ColorYellow {
		t.Errorf("mark outline pixel = %v, want yellow", got)
	}
	if got := drv.GetPixel(300, 200); got == display.ColorYellow {
		t.Error("mark center painted; circles are outlines")
	}
}

func TestCanvasClear(t *testing.T) {
	c := NewCanvas()
	m, drv := mount(t, c.View())

	m.HandleEvent(event.NewMouse(event.MouseDown, 100, 100, input.ButtonLeft))
	m.HandleEvent(event.NewMouse(event.MouseMove, 200, 100, input.ButtonNone))
	m.HandleEvent(event.NewMouse(event.MouseDown, 300, 200, input.ButtonRight))

	c.Clear()
	if c.StrokeCount() != 0 || c.MarkCount() != 0 {
		t.Error("Clear() left content behind")
	}

	m.Draw(display.NewContext(drv))
	if got := countColor(drv, display.ColorLightCyan); got != 0 {
		t.Errorf("%d stroke pixels after Clear()", got)
	}
}

func TestCanvasPatternBackdrop(t *testing.T) {
	c := NewCanvas()
	m, drv := mount(t, c.View())

	m.Draw(display.NewContext(drv))
	if countColor(drv, display.ColorDarkGray) == 0 {
		t.Error("dither backdrop painted no border-color pixels")
	}

	c.SetPattern(nil)
	m.Draw(display.NewContext(drv))
	if got := drv.GetPixel(100, 100); got != display.ColorBlack {
		t.Errorf("solid backdrop pixel = %v, want background", got)
	}
}
