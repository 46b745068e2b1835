package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tesseraos/tessera/internal/config"
	"github.com/tesseraos/tessera/internal/display"
	"github.com/tesseraos/tessera/internal/event"
	"github.com/tesseraos/tessera/internal/host"
	"github.com/tesseraos/tessera/internal/hw"
	"github.com/tesseraos/tessera/internal/input"
	"github.com/tesseraos/tessera/internal/layout"
	"github.com/tesseraos/tessera/internal/theme"
)

func newMemoryApp(t *testing.T) *App {
	t.Helper()
	a, err := New(Options{Host: config.HostMemory, LogOutput: io.Discard})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(a.Shutdown)
	return a
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func waitRunning(t *testing.T, a *App) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !a.IsRunning() {
		if time.Now().After(deadline) {
			t.Fatal("loop did not start")
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func TestNewBootsOnMemoryHost(t *testing.T) {
	a := newMemoryApp(t)

	if a.Device() == nil {
		t.Fatal("no display device")
	}
	if a.Layout() == nil || a.Bus() == nil || a.Theme() == nil {
		t.Fatal("core services missing")
	}

	mem, ok := a.Host().(*host.Memory)
	if !ok {
		t.Fatalf("host is %T, want *host.Memory", a.Host())
	}
	if got, want := mem.Sim().PaletteEntry(15), (hw.RGB{R: 0xFF, G: 0xFF, B: 0xFF}); got != want {
		t.Errorf("white DAC entry = %v, want %v", got, want)
	}
}

func TestBootMountsManifest(t *testing.T) {
	dir := t.TempDir()
	mani := writeFile(t, dir, "apps.yaml", `
components:
  - name: title
    factory: label
    region: {x: 0, y: 0, w: 3, h: 1}
    params: {text: hello, align: center}
  - name: files
    factory: list
    region: {x: 0, y: 1, w: 2, h: 4}
    params:
      items: [alpha, beta]
  - name: status
    factory: statusbar
    region: {x: 0, y: 5, w: 7, h: 1}
`)
	cfg := writeFile(t, dir, "tessera.toml",
		fmt.Sprintf("host = %q\nmanifest = %q\n", "memory", mani))

	a, err := New(Options{ConfigPath: cfg, LogOutput: io.Discard})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(a.Shutdown)

	if len(a.mounted) != 3 {
		t.Fatalf("mounted %d components, want 3", len(a.mounted))
	}
	info, ok := a.Layout().RegionInfo(0, 0)
	if !ok || info.Content == nil {
		t.Fatal("label not placed at 0,0")
	}

	a.frame()

	mem := a.Host().(*host.Memory)
	if mem.Frames() != 1 {
		t.Fatalf("presented %d frames, want 1", mem.Frames())
	}
	painted := false
	for _, b := range mem.Sim().Bytes() {
		if b == byte(display.ColorLightGray) {
			painted = true
			break
		}
	}
	if !painted {
		t.Error("label text never reached the framebuffer")
	}
}

func TestMountDemoPopulatesSplit(t *testing.T) {
	a := newMemoryApp(t)
	a.MountDemo()

	lay := a.Layout()
	info, ok := lay.RegionInfo(0, 0)
	if !ok || info.Role != layout.RoleNavigator || info.Linked == nil {
		t.Fatalf("regions[0][0] = %+v, want a linked navigator", info)
	}
	if got := lay.BarColumn(); got != 3 {
		t.Errorf("bar column = %d, want 3", got)
	}
	if lay.Focused() == nil {
		t.Fatal("demo navigator not focused")
	}

	mem := a.Host().(*host.Memory)
	darkGray := func() int {
		n := 0
		for _, b := range mem.Sim().Bytes() {
			if b == byte(display.ColorDarkGray) {
				n++
			}
		}
		return n
	}

	a.frame()
	before := darkGray()
	if before == 0 {
		t.Fatal("demo canvas painted nothing")
	}

	// Arrow down picks a sparser dither; the linked canvas repaints.
	lay.HandleEvent(event.NewKey(event.KeyDown, input.KeyDown, 0, input.ModNone))
	a.frame()
	if after := darkGray(); after >= before {
		t.Errorf("backdrop pixels after selection = %d, want fewer than %d", after, before)
	}
}

func TestMountSkipsBrokenEntries(t *testing.T) {
	a := newMemoryApp(t)

	a.mount(config.Manifest{Components: []config.Component{
		{Name: "mystery", Factory: "gizmo", Region: config.Region{X: 0, Y: 0, W: 1, H: 1}},
		{Name: "offgrid", Factory: "label", Region: config.Region{X: 9, Y: 9, W: 3, H: 3}},
		{Name: "ok", Factory: "label", Region: config.Region{X: 1, Y: 1, W: 2, H: 1}},
	}})

	if len(a.mounted) != 1 {
		t.Fatalf("mounted %d components, want 1", len(a.mounted))
	}
	if info, ok := a.Layout().RegionInfo(1, 1); !ok || info.Content == nil {
		t.Error("surviving label not placed")
	}
	if info, _ := a.Layout().RegionInfo(0, 0); info.Content != nil {
		t.Error("unknown factory produced content")
	}
}

func TestMountScriptComponent(t *testing.T) {
	a := newMemoryApp(t)
	path := writeFile(t, t.TempDir(), "box.lua", `
return {
  draw = function()
    tessera.fill_rect(0, 0, 20, 20)
  end,
}
`)

	a.mount(config.Manifest{Components: []config.Component{{
		Name:    "box",
		Factory: path,
		Region:  config.Region{X: 4, Y: 0, W: 3, H: 2},
		Params:  map[string]any{"tz": "utc"},
	}}})

	if len(a.mounted) != 1 {
		t.Fatalf("mounted %d components, want 1", len(a.mounted))
	}
	if info, ok := a.Layout().RegionInfo(4, 0); !ok || info.Content == nil {
		t.Error("script component not placed")
	}
}

func TestRunQuitChordExits(t *testing.T) {
	a := newMemoryApp(t)
	mem := a.Host().(*host.Memory)

	done := make(chan error, 1)
	go func() { done <- a.Run(context.Background()) }()

	mem.Inject(event.NewKey(event.KeyDown, input.KeyRune, 'q', input.ModCtrl))

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("quit chord did not stop the loop")
	}
}

func TestRunExitsWhenHostCloses(t *testing.T) {
	a := newMemoryApp(t)
	mem := a.Host().(*host.Memory)

	done := make(chan error, 1)
	go func() { done <- a.Run(context.Background()) }()
	waitRunning(t, a)

	mem.Shutdown()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("host close did not stop the loop")
	}
}

func TestRunHonorsContext(t *testing.T) {
	a := newMemoryApp(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()
	waitRunning(t, a)

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("cancellation did not stop the loop")
	}
}

func TestRunTwice(t *testing.T) {
	a := newMemoryApp(t)

	done := make(chan error, 1)
	go func() { done <- a.Run(context.Background()) }()
	waitRunning(t, a)

	if err := a.Run(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Run = %v, want ErrAlreadyRunning", err)
	}

	a.Shutdown()
	<-done
}

func TestShutdownIdempotent(t *testing.T) {
	a := newMemoryApp(t)
	a.Shutdown()
	a.Shutdown()
	a.Shutdown()
}

func TestFocusChordsWalkRegions(t *testing.T) {
	a := newMemoryApp(t)
	a.mount(config.Manifest{Components: []config.Component{
		{Name: "left", Factory: "list", Region: config.Region{X: 0, Y: 0, W: 2, H: 2}},
		{Name: "right", Factory: "list", Region: config.Region{X: 2, Y: 0, W: 2, H: 2}},
	}})

	right := event.NewKey(event.KeyDown, input.KeyRight, 0, input.ModAlt)
	if a.route(right) {
		t.Fatal("focus chord reported quit")
	}
	r, ok := a.Layout().ActiveRegion()
	if !ok || r.X != 0 {
		t.Fatalf("first chord activated %v, want the 0,0 placement", r)
	}

	a.route(right)
	r, ok = a.Layout().ActiveRegion()
	if !ok || r.X != 2 {
		t.Errorf("second chord activated %v, want the 2,0 placement", r)
	}
	if a.Layout().Focused() == nil {
		t.Error("focus did not follow the active region")
	}
}

func TestReloadConfigAppliesLiveSettings(t *testing.T) {
	var buf strings.Builder
	dir := t.TempDir()
	path := writeFile(t, dir, "tessera.toml", "host = \"memory\"\n")

	a, err := New(Options{ConfigPath: path, LogOutput: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(a.Shutdown)

	writeFile(t, dir, "tessera.toml", "host = \"memory\"\nbar_column = 3\nlog_level = \"debug\"\n")
	a.reloadConfig(path)

	if got := a.Layout().BarColumn(); got != 3 {
		t.Errorf("bar column = %d, want 3", got)
	}
	if !a.Layout().BarVisible() {
		t.Error("bar not visible after reload")
	}

	a.Logger().Debug("probe %d", 7)
	if !strings.Contains(buf.String(), "probe 7") {
		t.Error("debug level not applied live")
	}
}

func TestReloadConfigRejectsInvalid(t *testing.T) {
	var buf strings.Builder
	dir := t.TempDir()
	path := writeFile(t, dir, "tessera.toml", "host = \"memory\"\nbar_column = 2\n")

	a, err := New(Options{ConfigPath: path, LogOutput: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(a.Shutdown)

	writeFile(t, dir, "tessera.toml", "host = \"memory\"\nscale = 99\n")
	a.reloadConfig(path)

	if got := a.Layout().BarColumn(); got != 2 {
		t.Errorf("bar column = %d after rejected reload, want 2", got)
	}
	if !strings.Contains(buf.String(), "reload rejected") {
		t.Error("rejected reload not logged")
	}
}

func TestReloadThemeRepaintsAndDegrades(t *testing.T) {
	a := newMemoryApp(t)
	dir := t.TempDir()

	a.frame()
	if a.Layout().Root().NeedsRedraw() {
		t.Fatal("tree still dirty after frame")
	}

	good := writeFile(t, dir, "theme.json", `{"name":"night","colors":{"background":"blue"}}`)
	a.reloadTheme(good)

	if got := a.Theme().Color(theme.RoleBackground); got != display.ColorBlue {
		t.Errorf("background = %v, want blue", got)
	}
	if !a.Layout().Root().NeedsRedraw() {
		t.Error("theme reload did not schedule a repaint")
	}

	bad := writeFile(t, dir, "theme.json", `{"name":`)
	a.reloadTheme(bad)

	if got := a.Theme().Color(theme.RoleBackground); got != display.ColorBlue {
		t.Errorf("background = %v after bad reload, want blue kept", got)
	}
}

func TestNewSeedsThemeFile(t *testing.T) {
	dir := t.TempDir()
	themePath := filepath.Join(dir, "theme.json")
	cfg := writeFile(t, dir, "tessera.toml",
		fmt.Sprintf("host = %q\ntheme = %q\n", "memory", themePath))

	a, err := New(Options{ConfigPath: cfg, LogOutput: io.Discard})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(a.Shutdown)

	if _, err := os.Stat(themePath); err != nil {
		t.Fatalf("theme file not seeded: %v", err)
	}
	if got := a.Theme().Name(); got != "builtin" {
		t.Errorf("seeded theme name = %q, want builtin", got)
	}
}

func TestNewUnknownHostKind(t *testing.T) {
	_, err := New(Options{Host: "vga", LogOutput: io.Discard})
	if err == nil {
		t.Fatal("expected an error")
	}
	var initErr *InitError
	if !errors.As(err, &initErr) {
		t.Fatalf("error is %T, want *InitError", err)
	}
	if !strings.Contains(initErr.Error(), "vga") {
		t.Errorf("error %q does not name the host kind", initErr)
	}
}

func TestInitErrorUnwrap(t *testing.T) {
	sentinel := errors.New("boom")
	err := &InitError{Component: "display", Err: sentinel}

	if !errors.Is(err, sentinel) {
		t.Error("Unwrap lost the cause")
	}
	if got := err.Error(); !strings.Contains(got, "display") {
		t.Errorf("Error() = %q, want the component named", got)
	}
}
