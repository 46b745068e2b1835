// Package config loads the compositor's settings and app manifest and
// watches both for live reload.
//
// Settings live in a single TOML file decoded over explicit defaults,
// so a missing file or a partial one always yields a runnable
// configuration. The manifest is a YAML list of components to mount at
// boot. The watcher reports changes over a channel the frame loop
// drains; which settings apply live is the app's decision, not ours.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/tesseraos/tessera/internal/grid"
	"github.com/tesseraos/tessera/internal/input"
)

// Host kinds accepted in the host field.
const (
	HostAuto     = "auto"
	HostTerminal = "terminal"
	HostWindow   = "window"
	HostMemory   = "memory"
)

// Config is the decoded tessera.toml.
type Config struct {
	// Host selects the presentation backend. Auto picks a window when
	// a display is available and falls back to the terminal.
	Host string `toml:"host"`

	// Scale is the integer pixel scale for the window host.
	Scale int `toml:"scale"`

	// Theme is the path of a theme document, empty for built-ins.
	Theme string `toml:"theme"`

	// BarColumn is the divider position in region columns, -1 hidden.
	BarColumn int `toml:"bar_column"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`

	// Manifest is the path of the apps.yaml to mount at boot.
	Manifest string `toml:"manifest"`

	Keys Keys `toml:"keys"`
}

// Keys holds the chord bindings the funnel consults before routing.
type Keys struct {
	Quit       string `toml:"quit"`
	FocusLeft  string `toml:"focus_left"`
	FocusRight string `toml:"focus_right"`
	FocusUp    string `toml:"focus_up"`
	FocusDown  string `toml:"focus_down"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Host:      HostAuto,
		Scale:     1,
		BarColumn: grid.BarHidden,
		LogLevel:  "info",
		Keys: Keys{
			Quit:       "ctrl+q",
			FocusLeft:  "alt+left",
			FocusRight: "alt+right",
			FocusUp:    "alt+up",
			FocusDown:  "alt+down",
		},
	}
}

// Load reads path and decodes it over the defaults. A missing file is
// not an error; the defaults come back as-is.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field domains. It returns the first violation.
func (c Config) Validate() error {
	switch c.Host {
	case HostAuto, HostTerminal, HostWindow, HostMemory:
	default:
		return fmt.Errorf("unknown host %q", c.Host)
	}
	if c.Scale < 1 || c.Scale > 8 {
		return fmt.Errorf("scale %d out of range 1..8", c.Scale)
	}
	if c.BarColumn != grid.BarHidden && (c.BarColumn < 1 || c.BarColumn >= grid.Cols) {
		return fmt.Errorf("bar_column %d out of range 1..%d", c.BarColumn, grid.Cols-1)
	}

	for _, b := range []struct {
		name, spec string
	}{
		{"quit", c.Keys.Quit},
		{"focus_left", c.Keys.FocusLeft},
		{"focus_right", c.Keys.FocusRight},
		{"focus_up", c.Keys.FocusUp},
		{"focus_down", c.Keys.FocusDown},
	} {
		if b.spec == "" {
			continue
		}
		if _, err := input.ParseChord(b.spec); err != nil {
			return fmt.Errorf("keys.%s: %w", b.name, err)
		}
	}
	return nil
}
