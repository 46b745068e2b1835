package script

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tesseraos/tessera/internal/display"
	"github.com/tesseraos/tessera/internal/event"
	"github.com/tesseraos/tessera/internal/input"
	"github.com/tesseraos/tessera/internal/layout"
	"github.com/tesseraos/tessera/internal/logging"
)

// mount loads a script and places it full screen.
func mount(t *testing.T, src string, opts ...layout.Option) (*Component, *layout.Manager, *display.NullDriver) {
	t.Helper()
	c, err := LoadString(t.Name()+".lua", src)
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	m := layout.New(opts...)
	if err := m.SetSingle(c.View()); err != nil {
		t.Fatalf("SetSingle: %v", err)
	}
	return c, m, display.NewNullDriver(640, 480)
}

func countColor(drv *display.NullDriver, c display.Color) int {
	n := 0
	w, h := drv.Size()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if drv.GetPixel(x, y) == c {
				n++
			}
		}
	}
	return n
}

func TestLoadStringNoComponent(t *testing.T) {
	for _, src := range []string{"return 1", "return nil", "", "x = 1"} {
		if _, err := LoadString("t.lua", src); !errors.Is(err, ErrNoComponent) {
			t.Errorf("LoadString(%q) error = %v, want ErrNoComponent", src, err)
		}
	}
}

func TestLoadStringSyntaxError(t *testing.T) {
	_, err := LoadString("t.lua", "return {")
	if err == nil {
		t.Fatal("expected error for unterminated table")
	}
	if errors.Is(err, ErrNoComponent) {
		t.Fatalf("syntax failure reported as ErrNoComponent: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clock.lua")
	src := "return { draw = function() end }"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer c.Destroy()

	if c.Path() != path {
		t.Errorf("Path() = %q, want %q", c.Path(), path)
	}
	if c.ID() == "" {
		t.Error("ID() is empty")
	}
	if c.View() == nil {
		t.Error("View() is nil")
	}
}

func TestDrawPaintsThroughModule(t *testing.T) {
	c, m, drv := mount(t, `
		return {
			draw = function()
				local w, h = tessera.size()
				tessera.set_color(2)
				tessera.fill_rect(0, 0, w, h)
				tessera.set_color(14)
				tessera.draw_text(4, 4, "hi")
			end,
		}`)
	defer c.Destroy()

	m.Draw(display.NewContext(drv))

	if got := drv.GetPixel(100, 100); got != display.ColorGreen {
		t.Errorf("pixel (100,100) = %v, want green fill", got)
	}
	if countColor(drv, display.ColorYellow) == 0 {
		t.Error("no yellow text pixels drawn")
	}
	if m.Root().NeedsRedraw() {
		t.Error("tree still dirty after draw")
	}
}

func TestEventLocalCoordinates(t *testing.T) {
	c, err := LoadString("hit.lua", `
		return {
			on_event = function(ev)
				if ev.type == "mouse_down" then
					hx, hy, hb = ev.x, ev.y, ev.button
					return true
				end
				return false
			end,
		}`)
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	defer c.Destroy()

	m := layout.New()
	if err := m.SetRegionContent(1, 1, 2, 2, c.View()); err != nil {
		t.Fatalf("SetRegionContent: %v", err)
	}

	// Region (1,1) starts at pixel (90,80) with the bar hidden.
	if !m.HandleEvent(event.NewMouse(event.MouseDown, 100, 101, input.ButtonLeft)) {
		t.Fatal("press not handled by script")
	}
	if got := c.Global("hx"); got != int64(10) {
		t.Errorf("hx = %v, want 10", got)
	}
	if got := c.Global("hy"); got != int64(21) {
		t.Errorf("hy = %v, want 21", got)
	}
	if got := c.Global("hb"); got != "left" {
		t.Errorf("hb = %v, want left", got)
	}
}

func TestKeyEventFields(t *testing.T) {
	c, m, _ := mount(t, `
		return {
			on_event = function(ev)
				if ev.type == "key_down" then
					k, r, ctrl = ev.key, ev.rune, ev.ctrl
					return true
				end
				return false
			end,
		}`)
	defer c.Destroy()

	if !m.HandleEvent(event.NewKey(event.KeyDown, input.KeyRune, 'q', input.ModCtrl)) {
		t.Fatal("key not handled by script")
	}
	if got := c.Global("k"); got != "rune" {
		t.Errorf("key = %v, want rune", got)
	}
	if got := c.Global("r"); got != "q" {
		t.Errorf("rune = %v, want q", got)
	}
	if got := c.Global("ctrl"); got != true {
		t.Errorf("ctrl = %v, want true", got)
	}
}

func TestUpdateRunsAndInvalidates(t *testing.T) {
	c, m, drv := mount(t, `
		n = 0
		return {
			update = function()
				n = n + 1
				tessera.invalidate()
			end,
		}`)
	defer c.Destroy()

	m.Draw(display.NewContext(drv))
	if m.Root().NeedsRedraw() {
		t.Fatal("tree dirty after initial draw")
	}

	m.Update()
	if got := c.Global("n"); got != int64(1) {
		t.Errorf("n = %v, want 1", got)
	}
	if !m.Root().NeedsRedraw() {
		t.Error("invalidate did not mark the tree dirty")
	}
}

func TestHookErrorDegrades(t *testing.T) {
	var buf bytes.Buffer
	lg := logging.New(logging.Config{Level: logging.LevelWarn, Output: &buf})

	c, m, drv := mount(t, `
		return {
			draw = function()
				local w, h = tessera.size()
				tessera.set_color(2)
				tessera.fill_rect(0, 0, w, h)
				error("boom")
			end,
		}`, layout.WithLogger(lg))
	defer c.Destroy()

	m.Draw(display.NewContext(drv))
	c.View().Invalidate()
	m.Draw(display.NewContext(drv))

	if got := drv.GetPixel(100, 100); got != display.ColorGreen {
		t.Errorf("pixel (100,100) = %v, want the paint preceding the error", got)
	}
	if n := strings.Count(buf.String(), "boom"); n != 1 {
		t.Errorf("logged %d times, want 1 (repeats suppressed):\n%s", n, buf.String())
	}
}

func TestCanFocusFollowsEventHook(t *testing.T) {
	listener, err := LoadString("a.lua", "return { on_event = function(ev) return false end }")
	if err != nil {
		t.Fatal(err)
	}
	defer listener.Destroy()
	if !listener.CanFocus() {
		t.Error("script with on_event should accept focus")
	}

	painter, err := LoadString("b.lua", "return { draw = function() end }")
	if err != nil {
		t.Fatal(err)
	}
	defer painter.Destroy()
	if painter.CanFocus() {
		t.Error("script without on_event should refuse focus")
	}
}

func TestDestroyStopsHooks(t *testing.T) {
	c, m, drv := mount(t, `
		n = 0
		return { update = function() n = n + 1 end }`)

	m.Update()
	if got := c.Global("n"); got != int64(1) {
		t.Fatalf("n = %v, want 1", got)
	}

	c.View().Destroy()
	if got := c.Global("n"); got != nil {
		t.Errorf("Global after destroy = %v, want nil", got)
	}
	c.SetGlobal("n", 5)
	c.Destroy()

	m.Update()
	m.Draw(display.NewContext(drv))
}

func TestManifestParams(t *testing.T) {
	c, err := LoadString("p.lua", `
		return {
			init = function(ctx)
				title = params.title
				count = params.count
				first = params.tags[1]
				boot_id = ctx.id
				w, h = ctx.width, ctx.height
			end,
		}`)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Destroy()
	c.SetGlobal("params", map[string]any{
		"title": "hello",
		"count": 3,
		"tags":  []string{"a", "b"},
	})

	m := layout.New()
	if err := m.SetSingle(c.View()); err != nil {
		t.Fatal(err)
	}

	if got := c.Global("title"); got != "hello" {
		t.Errorf("title = %v", got)
	}
	if got := c.Global("count"); got != int64(3) {
		t.Errorf("count = %v", got)
	}
	if got := c.Global("first"); got != "a" {
		t.Errorf("first = %v", got)
	}
	if got := c.Global("boot_id"); got != c.ID() {
		t.Errorf("boot_id = %v, want %v", got, c.ID())
	}
	if got := c.Global("w"); got != int64(630) {
		t.Errorf("width = %v, want 630", got)
	}
	if got := c.Global("h"); got != int64(480) {
		t.Errorf("height = %v, want 480", got)
	}
}
