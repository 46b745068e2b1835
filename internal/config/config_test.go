package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func write(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "tessera.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := write(t, "tessera.toml", `
host = "memory"
bar_column = 3
log_level = "debug"

[keys]
quit = "ctrl+x"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Host != HostMemory {
		t.Errorf("Host = %q", cfg.Host)
	}
	if cfg.BarColumn != 3 {
		t.Errorf("BarColumn = %d", cfg.BarColumn)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.Keys.Quit != "ctrl+x" {
		t.Errorf("Keys.Quit = %q", cfg.Keys.Quit)
	}

	// Fields absent from the file keep their defaults.
	if cfg.Scale != 1 {
		t.Errorf("Scale = %d, want default 1", cfg.Scale)
	}
	if cfg.Keys.FocusLeft != "alt+left" {
		t.Errorf("Keys.FocusLeft = %q, want default", cfg.Keys.FocusLeft)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"broken syntax", `host = [`, "config"},
		{"unknown host", `host = "vga"`, "unknown host"},
		{"zero scale", `scale = 0`, "scale"},
		{"bar too far right", `bar_column = 7`, "bar_column"},
		{"bar at left edge", `bar_column = 0`, "bar_column"},
		{"unparseable chord", "[keys]\nquit = \"hyper+q\"", "keys.quit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := write(t, "tessera.toml", tt.body)
			cfg, err := Load(path)
			if err == nil {
				t.Fatalf("Load accepted %q", tt.body)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
			if diff := cmp.Diff(Default(), cfg); diff != "" {
				t.Errorf("rejected load should fall back to defaults (-want +got):\n%s", diff)
			}
		})
	}
}

func TestHiddenBarIsValid(t *testing.T) {
	path := write(t, "tessera.toml", "bar_column = -1")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BarColumn != -1 {
		t.Errorf("BarColumn = %d", cfg.BarColumn)
	}
}
