package logging

import (
	"strings"
	"testing"
)

func TestLoggerLevelFiltering(t *testing.T) {
	var buf strings.Builder
	l := New(Config{Level: LevelWarn, Output: &buf, Prefix: "test"})

	l.Debug("debug message")
	l.Info("info message")
	l.Warn("warn message")
	l.Error("error message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("levels below Warn should be filtered, got %q", out)
	}
	if !strings.Contains(out, "warn message") || !strings.Contains(out, "error message") {
		t.Errorf("Warn and Error should be logged, got %q", out)
	}
}

func TestLoggerFormatArgs(t *testing.T) {
	var buf strings.Builder
	l := New(Config{Level: LevelDebug, Output: &buf})

	l.Info("value is %d at %s", 42, "origin")

	if !strings.Contains(buf.String(), "value is 42 at origin") {
		t.Errorf("format args not applied, got %q", buf.String())
	}
}

func TestLoggerWithComponent(t *testing.T) {
	var buf strings.Builder
	l := New(Config{Level: LevelDebug, Output: &buf}).WithComponent("dispi")

	l.Info("hello")

	if !strings.Contains(buf.String(), "component=dispi") {
		t.Errorf("component field missing, got %q", buf.String())
	}
}

func TestSetLevelReachesDerivedLoggers(t *testing.T) {
	var buf strings.Builder
	root := New(Config{Level: LevelInfo, Output: &buf})
	child := root.WithComponent("layout")

	child.Debug("before")
	root.SetLevel(LevelDebug)
	child.Debug("after")

	out := buf.String()
	if strings.Contains(out, "before") {
		t.Errorf("debug logged before SetLevel, got %q", out)
	}
	if !strings.Contains(out, "after") {
		t.Errorf("derived logger did not pick up new level, got %q", out)
	}
}

func TestNullLoggerDiscards(t *testing.T) {
	// Must not panic and must write nothing.
	Null.Error("should vanish")
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger
	l.Info("no-op on nil")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warning", LevelWarn},
		{"ERROR", LevelError},
		{"bogus", LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
