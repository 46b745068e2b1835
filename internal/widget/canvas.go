package widget

import (
	"github.com/tesseraos/tessera/internal/display"
	"github.com/tesseraos/tessera/internal/event"
	"github.com/tesseraos/tessera/internal/geom"
	"github.com/tesseraos/tessera/internal/input"
	"github.com/tesseraos/tessera/internal/theme"
	"github.com/tesseraos/tessera/internal/view"
)

const (
	markRadius    = 6
	strokeRampLen = 4
)

// Canvas is a free drawing surface: a left drag lays down a polyline
// stroke, a right press drops a circle mark, and the backdrop is a
// tiled fill pattern. Successive strokes step through a palette ramp
// from the accent color toward the text color. Strokes are stored in
// local pixels so the content survives bar moves and re-placement.
type Canvas struct {
	view.Base
	strokes [][]geom.Point
	marks   []geom.Point
	pattern *display.Pattern
	drawing bool

	ctx *view.Context
}

// NewCanvas creates an empty canvas with the light dither backdrop.
func NewCanvas() *Canvas {
	v := view.New()
	c := &Canvas{Base: view.NewBase(v), pattern: display.PatternDither25}
	v.SetInterface(c)
	v.OnDraw = c.draw
	v.OnEvent = c.handleEvent
	return c
}

// Init captures the component context.
func (c *Canvas) Init(ctx *view.Context) error {
	c.ctx = ctx
	return nil
}

// SetPattern replaces the backdrop tile. Nil means a solid backdrop.
func (c *Canvas) SetPattern(p *display.Pattern) {
	c.pattern = p
	c.View().Invalidate()
}

// Clear drops all strokes and marks.
func (c *Canvas) Clear() {
	c.strokes = nil
	c.marks = nil
	c.drawing = false
	c.View().Invalidate()
}

// StrokeCount returns how many strokes have been laid down.
func (c *Canvas) StrokeCount() int {
	return len(c.strokes)
}

// MarkCount returns how many circle marks have been dropped.
func (c *Canvas) MarkCount() int {
	return len(c.marks)
}

// local converts a screen-space point to canvas-local pixels.
func (c *Canvas) local(x, y int) geom.Point {
	px := c.View().PixelBounds(c.ctx.Grid)
	return geom.Pt(x-px.X, y-px.Y)
}

func (c *Canvas) handleEvent(_ *view.View, ev event.Event) bool {
	if c.ctx == nil {
		return false
	}
	switch ev.Type {
	case event.MouseDown:
		switch ev.Button {
		case input.ButtonLeft:
			c.drawing = true
			c.strokes = append(c.strokes, []geom.Point{c.local(ev.X, ev.Y)})
		case input.ButtonRight:
			c.marks = append(c.marks, c.local(ev.X, ev.Y))
		default:
			return false
		}
		c.View().Invalidate()
		return true

	case event.MouseMove:
		if !c.drawing || len(c.strokes) == 0 {
			return false
		}
		last := len(c.strokes) - 1
		c.strokes[last] = append(c.strokes[last], c.local(ev.X, ev.Y))
		c.View().Invalidate()
		return true

	case event.MouseUp:
		if !c.drawing {
			return false
		}
		c.drawing = false
		return true

	case event.MouseLeave:
		// The pointer escaped the canvas; the stroke ends where it was.
		c.drawing = false
		return false

	default:
		return false
	}
}

func (c *Canvas) draw(_ *view.View, dc *display.Context) {
	if c.ctx == nil {
		return
	}
	th := c.ctx.Theme
	size := dc.Clip().Size()
	bg := th.Color(theme.RoleBackground)

	if c.pattern != nil {
		dc.SetPattern(c.pattern)
		dc.SetColors(th.Color(theme.RoleBorder), bg)
	} else {
		dc.SetFillMode(display.FillSolid)
		dc.SetColors(bg, bg)
	}
	dc.FillRect(geom.NewRect(0, 0, size.W, size.H))
	dc.SetPattern(nil)

	ramp := th.Ramp(th.Color(theme.RoleAccent), th.Color(theme.RoleText), strokeRampLen)
	if len(ramp) == 0 {
		ramp = []display.Color{th.Color(theme.RoleAccent)}
	}
	for n, s := range c.strokes {
		dc.SetColors(ramp[n%len(ramp)], bg)
		if len(s) == 1 {
			dc.DrawLine(s[0].X, s[0].Y, s[0].X, s[0].Y)
			continue
		}
		for i := 1; i < len(s); i++ {
			dc.DrawLine(s[i-1].X, s[i-1].Y, s[i].X, s[i].Y)
		}
	}

	dc.SetColors(th.Color(theme.RoleFocus), bg)
	for _, m := range c.marks {
		dc.DrawCircle(m.X, m.Y, markRadius)
	}
}
