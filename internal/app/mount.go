package app

import (
	"fmt"
	"strings"

	"github.com/tesseraos/tessera/internal/config"
	"github.com/tesseraos/tessera/internal/script"
	"github.com/tesseraos/tessera/internal/view"
	"github.com/tesseraos/tessera/internal/widget"
)

// Built-in factory kinds the manifest accepts besides .lua paths.
const (
	factoryLabel     = "label"
	factoryList      = "list"
	factoryCanvas    = "canvas"
	factoryStatusBar = "statusbar"
)

// MountDemo installs the built-in desktop shown when no manifest is
// configured: a pattern list navigating a canvas, split at column 3.
// Selecting a row switches the canvas backdrop; Enter hands focus to
// the canvas for free drawing.
func (a *App) MountDemo() {
	items := []string{"checker", "dither25", "dither50", "dither75", "hlines", "vlines"}

	cv := widget.NewCanvas()
	if p, ok := a.res.Pattern(items[0]); ok {
		cv.SetPattern(&p)
	}
	lst := widget.NewList(items)
	lst.OnSelect = func(_ int, item string) {
		if p, ok := a.res.Pattern(item); ok {
			cv.SetPattern(&p)
		}
	}

	if err := a.layout.SetSplit(lst.View(), cv.View(), 3); err != nil {
		a.log.Warn("demo desktop not mounted: %v", err)
		return
	}
	a.mounted = append(a.mounted, lst.View(), cv.View())
	a.log.Info("mounted demo desktop")
}

// mount places every manifest component. A failing entry is skipped;
// boot continues with whatever mounted.
func (a *App) mount(man config.Manifest) {
	for _, c := range man.Components {
		v, err := a.build(c)
		if err != nil {
			a.log.Warn("component %s skipped: %v", c.Name, err)
			continue
		}
		r := c.Region
		if err := a.layout.SetRegionContent(r.X, r.Y, r.W, r.H, v); err != nil {
			a.log.Warn("component %s not placed at %d,%d: %v", c.Name, r.X, r.Y, err)
			v.Destroy()
			continue
		}
		a.mounted = append(a.mounted, v)
		a.log.Info("mounted %s (%s) at %d,%d %dx%d", c.Name, c.Factory, r.X, r.Y, r.W, r.H)
	}
}

// build instantiates one manifest component. Factories ending in .lua
// load as script components; everything else must name a widget kind.
func (a *App) build(c config.Component) (*view.View, error) {
	if strings.HasSuffix(c.Factory, ".lua") {
		comp, err := script.Load(c.Factory, script.WithLogger(a.log))
		if err != nil {
			return nil, err
		}
		if len(c.Params) > 0 {
			comp.SetGlobal("params", c.Params)
		}
		return comp.View(), nil
	}

	switch c.Factory {
	case factoryLabel:
		l := widget.NewLabel(stringParam(c.Params, "text", c.Name))
		switch stringParam(c.Params, "align", "") {
		case "center":
			l.SetAlign(widget.AlignCenter)
		case "right":
			l.SetAlign(widget.AlignRight)
		}
		return l.View(), nil

	case factoryList:
		return widget.NewList(stringsParam(c.Params, "items")).View(), nil

	case factoryCanvas:
		cv := widget.NewCanvas()
		if name := stringParam(c.Params, "pattern", ""); name != "" {
			if p, ok := a.res.Pattern(name); ok {
				cv.SetPattern(&p)
			} else {
				a.log.Warn("canvas %s: unknown pattern %q", c.Name, name)
			}
		}
		return cv.View(), nil

	case factoryStatusBar:
		s := widget.NewStatusBar()
		if text := stringParam(c.Params, "text", ""); text != "" {
			s.SetText(text)
		}
		return s.View(), nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownFactory, c.Factory)
}

// unmount destroys app-owned content. Runs on the loop goroutine when
// the loop exits, so script states close without racing a draw pass.
func (a *App) unmount() {
	for _, v := range a.mounted {
		v.Destroy()
	}
	a.mounted = nil
}

// stringParam reads a string manifest parameter.
func stringParam(params map[string]any, key, fallback string) string {
	if s, ok := params[key].(string); ok {
		return s
	}
	return fallback
}

// stringsParam reads a string list manifest parameter; non-string
// entries stringify.
func stringsParam(params map[string]any, key string) []string {
	raw, ok := params[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		} else {
			out = append(out, fmt.Sprint(item))
		}
	}
	return out
}
