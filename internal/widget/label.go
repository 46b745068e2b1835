package widget

import (
	"github.com/tesseraos/tessera/internal/display"
	"github.com/tesseraos/tessera/internal/geom"
	"github.com/tesseraos/tessera/internal/theme"
	"github.com/tesseraos/tessera/internal/view"
)

// Align selects horizontal text placement inside a Label.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

const labelPad = 3

// Label is a single line of themed text.
type Label struct {
	view.Base
	text  string
	align Align
	role  theme.Role

	ctx *view.Context
}

// NewLabel creates a label showing text in the standard text role.
func NewLabel(text string) *Label {
	v := view.New()
	l := &Label{Base: view.NewBase(v), text: text, role: theme.RoleText}
	v.SetInterface(l)
	v.OnDraw = l.draw
	return l
}

// Init captures the component context.
func (l *Label) Init(ctx *view.Context) error {
	l.ctx = ctx
	return nil
}

// Text returns the displayed string.
func (l *Label) Text() string {
	return l.text
}

// SetText replaces the displayed string.
func (l *Label) SetText(text string) {
	if l.text == text {
		return
	}
	l.text = text
	l.View().Invalidate()
}

// SetAlign changes the horizontal placement.
func (l *Label) SetAlign(a Align) {
	if l.align == a {
		return
	}
	l.align = a
	l.View().Invalidate()
}

// SetRole changes the theme role the text is painted with.
func (l *Label) SetRole(r theme.Role) {
	if l.role == r {
		return
	}
	l.role = r
	l.View().Invalidate()
}

func (l *Label) draw(_ *view.View, dc *display.Context) {
	if l.ctx == nil {
		return
	}
	th := l.ctx.Theme
	size := dc.Clip().Size()
	bg := th.Color(theme.RoleBackground)

	dc.SetFillMode(display.FillSolid)
	dc.SetColors(bg, bg)
	dc.FillRect(geom.NewRect(0, 0, size.W, size.H))

	face := l.ctx.Resources.DefaultFace()
	ts := display.TextSize(face, l.text)
	x := labelPad
	switch l.align {
	case AlignCenter:
		x = (size.W - ts.W) / 2
	case AlignRight:
		x = size.W - ts.W - labelPad
	}
	dc.SetColors(th.Color(l.role), bg)
	dc.DrawText(face, l.text, geom.Pt(x, (size.H-ts.H)/2))
}
