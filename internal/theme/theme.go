// Package theme maps named UI roles to palette indices. Themes load
// from JSON documents; color values are either conventional palette
// names ("cyan", "light_gray") or hex triplets ("#00aaff") quantized
// to the nearest palette entry by CIE76 distance.
package theme

import (
	"fmt"
	"os"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/tesseraos/tessera/internal/display"
	"github.com/tesseraos/tessera/internal/hw"
	"github.com/tesseraos/tessera/internal/logging"
)

// Role names one themable element of the UI.
type Role string

// The roles the built-in components consult.
const (
	RoleBackground Role = "background"
	RoleText       Role = "text"
	RoleAccent     Role = "accent"
	RoleBorder     Role = "border"
	RoleSelection  Role = "selection"
	RoleFocus      Role = "focus"
	RoleBar        Role = "bar"
	RoleStatusBG   Role = "status_background"
	RoleStatusFG   Role = "status_text"
)

// defaults is the fallback assignment for every role; a loaded theme
// overrides entries without ever removing one.
var defaults = map[Role]display.Color{
	RoleBackground: display.ColorBlack,
	RoleText:       display.ColorLightGray,
	RoleAccent:     display.ColorLightCyan,
	RoleBorder:     display.ColorDarkGray,
	RoleSelection:  display.ColorBlue,
	RoleFocus:      display.ColorYellow,
	RoleBar:        display.ColorDarkGray,
	RoleStatusBG:   display.ColorBlue,
	RoleStatusFG:   display.ColorWhite,
}

// Theme is a role-to-color assignment. The zero value is unusable;
// call New. A nil Theme answers every lookup with the built-in
// default, so components need no nil checks.
type Theme struct {
	name  string
	pal   display.Palette
	roles map[Role]display.Color
	log   *logging.Logger
}

// Option configures a Theme.
type Option func(*Theme)

// WithLogger sets the logger used for load diagnostics.
func WithLogger(log *logging.Logger) Option {
	return func(t *Theme) {
		if log != nil {
			t.log = log
		}
	}
}

// WithPalette sets the palette hex values quantize against.
func WithPalette(pal display.Palette) Option {
	return func(t *Theme) {
		t.pal = pal
	}
}

// New returns a theme holding the built-in defaults.
func New(opts ...Option) *Theme {
	t := &Theme{
		name:  "builtin",
		pal:   display.DefaultPalette(),
		roles: make(map[Role]display.Color, len(defaults)),
		log:   logging.Null,
	}
	for r, c := range defaults {
		t.roles[r] = c
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Name returns the loaded theme's name.
func (t *Theme) Name() string {
	if t == nil {
		return "builtin"
	}
	return t.name
}

// Color resolves a role. Unknown roles fall back to the built-in
// default, then to white.
func (t *Theme) Color(role Role) display.Color {
	if t != nil {
		if c, ok := t.roles[role]; ok {
			return c
		}
	}
	if c, ok := defaults[role]; ok {
		return c
	}
	return display.ColorWhite
}

// Set assigns a role directly.
func (t *Theme) Set(role Role, c display.Color) {
	if t == nil || c >= display.PaletteSize {
		return
	}
	t.roles[role] = c
}

// Ramp returns steps palette indices blending from one palette entry
// to another in Lab space, each step quantized to the nearest entry.
// Adjacent steps may repeat an index when the palette has no closer
// entry to offer.
func (t *Theme) Ramp(from, to display.Color, steps int) []display.Color {
	if t == nil || steps <= 0 ||
		from >= display.PaletteSize || to >= display.PaletteSize {
		return nil
	}
	out := make([]display.Color, steps)
	if steps == 1 {
		out[0] = from
		return out
	}
	a := rgbToColorful(t.pal[from])
	b := rgbToColorful(t.pal[to])
	for i := range out {
		out[i] = t.nearest(a.BlendLab(b, float64(i)/float64(steps-1)))
	}
	return out
}

// LoadJSON applies a theme document. A malformed document is rejected
// whole and the current assignment stays in effect; individually
// unparseable color values are skipped with a warning.
func (t *Theme) LoadJSON(data []byte) error {
	if t == nil {
		return nil
	}
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("theme: invalid JSON document")
	}

	colors := gjson.GetBytes(data, "colors")
	if !colors.IsObject() {
		return fmt.Errorf("theme: missing colors object")
	}
	if name := gjson.GetBytes(data, "name"); name.Exists() {
		t.name = name.String()
	}

	colors.ForEach(func(key, value gjson.Result) bool {
		c, ok := t.parseColor(value.String())
		if !ok {
			t.log.Warn("unparseable theme color %q = %q", key.String(), value.String())
			return true
		}
		t.roles[Role(key.String())] = c
		return true
	})

	t.log.Info("theme %q loaded", t.name)
	return nil
}

// LoadFile reads and applies a theme document from disk.
func (t *Theme) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("theme: %w", err)
	}
	return t.LoadJSON(data)
}

// DefaultJSON renders the built-in assignment as a theme document,
// the seed written to disk when no theme file exists yet.
func DefaultJSON() []byte {
	doc, _ := sjson.Set("{}", "name", "builtin")
	for r, c := range defaults {
		doc, _ = sjson.Set(doc, "colors."+string(r), c.String())
	}
	return []byte(doc)
}

// parseColor resolves a single color value: first as a palette name,
// then as a hex triplet quantized to the nearest palette entry.
func (t *Theme) parseColor(s string) (display.Color, bool) {
	if c, ok := namedColors[normalizeName(s)]; ok {
		return c, true
	}

	hex, err := colorful.Hex(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return t.nearest(hex), true
}

// nearest returns the palette index with the least CIE76 distance.
func (t *Theme) nearest(c colorful.Color) display.Color {
	best := display.ColorBlack
	bestDist := -1.0
	for i := 0; i < display.PaletteSize; i++ {
		d := c.DistanceCIE76(rgbToColorful(t.pal[i]))
		if bestDist < 0 || d < bestDist {
			bestDist = d
			best = display.Color(i)
		}
	}
	return best
}

func rgbToColorful(c hw.RGB) colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

// namedColors maps normalized palette names to indices.
var namedColors = func() map[string]display.Color {
	m := make(map[string]display.Color, display.PaletteSize)
	for i := 0; i < display.PaletteSize; i++ {
		m[display.Color(i).String()] = display.Color(i)
	}
	// Common alternate spellings.
	m["grey"] = display.ColorLightGray
	m["gray"] = display.ColorLightGray
	m["lightgrey"] = display.ColorLightGray
	m["darkgrey"] = display.ColorDarkGray
	return m
}()

// normalizeName lowercases and strips separators so "Light_Gray" and
// "light-gray" both resolve.
func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "_", "")
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, " ", "")
	return s
}
