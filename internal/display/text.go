package display

import (
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/tesseraos/tessera/internal/geom"
)

// DrawText renders a string with the given face, anchored at the
// top-left point p, in the foreground color. Coverage of 50% or more
// paints a pixel; indexed video has no blending. Advance is per rune,
// no shaping.
func (c *Context) DrawText(face font.Face, s string, p geom.Point) {
	if face == nil || s == "" {
		return
	}
	ascent := face.Metrics().Ascent.Ceil()
	dot := fixed.P(p.X+c.tx, p.Y+c.ty+ascent)
	prev := rune(-1)
	for _, r := range s {
		if prev >= 0 {
			dot.X += face.Kern(prev, r)
		}
		dr, mask, maskp, advance, ok := face.Glyph(dot, r)
		if !ok {
			prev = r
			continue
		}
		c.blitMask(dr, mask, maskp)
		dot.X += advance
		prev = r
	}
}

// TextSize measures the pixel extent of a string in the given face.
func TextSize(face font.Face, s string) geom.Size {
	if face == nil || s == "" {
		return geom.Size{}
	}
	m := face.Metrics()
	w := font.MeasureString(face, s).Ceil()
	return geom.Sz(w, (m.Ascent + m.Descent).Ceil())
}

// blitMask paints glyph mask coverage as foreground pixels, honoring
// the clip.
func (c *Context) blitMask(dr image.Rectangle, mask image.Image, maskp image.Point) {
	vis := geom.NewRect(dr.Min.X, dr.Min.Y, dr.Dx(), dr.Dy()).Intersect(c.clip)
	if vis.IsEmpty() {
		return
	}
	for y := vis.Y; y < vis.Bottom(); y++ {
		my := maskp.Y + (y - dr.Min.Y)
		for x := vis.X; x < vis.Right(); x++ {
			mx := maskp.X + (x - dr.Min.X)
			if _, _, _, a := mask.At(mx, my).RGBA(); a >= 0x8000 {
				c.drv.SetPixel(x, y, c.fg)
			}
		}
	}
}
