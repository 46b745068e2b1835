package layout

import (
	"github.com/tesseraos/tessera/internal/display"
	"github.com/tesseraos/tessera/internal/geom"
)

// Draw paints the arrangement: the view tree first, then the bar band
// on top so no content bleeds through the divider.
func (m *Manager) Draw(dc *display.Context) {
	if m == nil || dc == nil {
		return
	}
	m.root.DrawTree(dc, m.grid)
	m.drawBar(dc)
}

// Update runs the per-frame update pass over the visible tree.
func (m *Manager) Update() {
	if m == nil {
		return
	}
	m.root.UpdateTree()
}

// drawBar fills the bar band and runs the optional band content hook
// with the context clipped and translated to the band.
func (m *Manager) drawBar(dc *display.Context) {
	band, ok := m.grid.BarBand()
	if !ok {
		return
	}

	w, h := dc.Size()
	dc.SetClip(geom.NewRect(0, 0, w, h))
	dc.SetTranslation(0, 0)
	dc.SetFillMode(display.FillSolid)
	dc.SetColors(m.bar.Color, m.bar.Color)
	dc.FillRect(band)

	if m.bar.OnDraw != nil {
		dc.SetClip(band)
		dc.SetTranslation(band.X, band.Y)
		m.bar.OnDraw(dc)
	}
}
