package script

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func loadEnv(t *testing.T, src string) *Component {
	t.Helper()
	c, err := LoadString(t.Name()+".lua", src+"\nreturn {}")
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	t.Cleanup(c.Destroy)
	return c
}

func TestGlobalConversion(t *testing.T) {
	c := loadEnv(t, `
		num = 4
		frac = 2.5
		ok = true
		name = "tessera"
		list = {1, "two", 3}
		dict = {a = 1, b = {c = "d"}}
		mixed = {1, 2, x = 3}
	`)

	tests := []struct {
		name string
		want any
	}{
		{"num", int64(4)},
		{"frac", 2.5},
		{"ok", true},
		{"name", "tessera"},
		{"list", []any{int64(1), "two", int64(3)}},
		{"dict", map[string]any{"a": int64(1), "b": map[string]any{"c": "d"}}},
		{"mixed", map[string]any{"1": int64(1), "2": int64(2), "x": int64(3)}},
		{"missing", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, c.Global(tt.name)); diff != "" {
				t.Errorf("Global(%q) mismatch (-want +got):\n%s", tt.name, diff)
			}
		})
	}
}

func TestCircularTableConverts(t *testing.T) {
	c := loadEnv(t, `
		t = {}
		t.self = t
		t.n = 1
	`)

	want := map[string]any{"self": nil, "n": int64(1)}
	if diff := cmp.Diff(want, c.Global("t")); diff != "" {
		t.Errorf("circular table mismatch (-want +got):\n%s", diff)
	}
}

func TestSetGlobalRoundTrip(t *testing.T) {
	c := loadEnv(t, "")

	c.SetGlobal("v", map[string]any{
		"n":    7,
		"s":    "x",
		"b":    false,
		"list": []any{int64(1), "a"},
		"deep": map[string]string{"k": "v"},
	})

	want := map[string]any{
		"n":    int64(7),
		"s":    "x",
		"b":    false,
		"list": []any{int64(1), "a"},
		"deep": map[string]any{"k": "v"},
	}
	if diff := cmp.Diff(want, c.Global("v")); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSandboxExcludesHostAccess(t *testing.T) {
	for _, name := range []string{"io", "os", "debug", "dofile", "loadfile", "load"} {
		c, err := LoadString("sandbox.lua", "seen = "+name+" ~= nil\nreturn {}")
		if err != nil {
			t.Fatalf("probe %s: %v", name, err)
		}
		if got := c.Global("seen"); got != false {
			t.Errorf("%s visible to scripts (seen = %v)", name, got)
		}
		c.Destroy()
	}
}
