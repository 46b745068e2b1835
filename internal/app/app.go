// Package app wires the compositor together and runs the frame loop.
// Bootstrap follows dependency order: logger, configuration, host,
// display device, theme, resources, bus, layout, manifest mount. Every
// stage after the host degrades on failure; only a missing host or
// display device is fatal.
package app

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/tesseraos/tessera/internal/config"
	"github.com/tesseraos/tessera/internal/display"
	"github.com/tesseraos/tessera/internal/display/dispi"
	"github.com/tesseraos/tessera/internal/event"
	"github.com/tesseraos/tessera/internal/grid"
	"github.com/tesseraos/tessera/internal/host"
	"github.com/tesseraos/tessera/internal/layout"
	"github.com/tesseraos/tessera/internal/logging"
	"github.com/tesseraos/tessera/internal/resource"
	"github.com/tesseraos/tessera/internal/theme"
	"github.com/tesseraos/tessera/internal/view"
)

// Options configures the application.
type Options struct {
	// ConfigPath is the tessera.toml location. Empty runs on defaults.
	ConfigPath string

	// Host overrides the configured host kind when non-empty.
	Host string

	// LogLevel overrides the configured level when non-empty.
	LogLevel string

	// LogOutput receives log lines. Defaults to os.Stderr.
	LogOutput io.Writer

	// Title is the window host's title. Defaults to "tessera".
	Title string
}

// App is the assembled compositor: one host, one display device, one
// layout. Construct with New; Run drives the loop and Shutdown
// releases the host.
type App struct {
	opts Options
	cfg  config.Config
	log  *logging.Logger

	host    host.Host
	device  *dispi.Device
	dc      *display.Context
	theme   *theme.Theme
	res     *resource.Set
	bus     *event.Bus
	layout  *layout.Manager
	watcher *config.Watcher

	keys    bindings
	mounted []*view.View

	running  atomic.Bool
	done     chan struct{}
	stopOnce sync.Once
}

// New builds and initializes the application. The returned App holds a
// live host; the caller owns a Shutdown call even when Run is never
// reached.
func New(opts Options) (*App, error) {
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stderr
	}
	if opts.Title == "" {
		opts.Title = "tessera"
	}

	a := &App{
		opts: opts,
		done: make(chan struct{}),
		log: logging.New(logging.Config{
			Level:  logging.LevelInfo,
			Output: opts.LogOutput,
			Prefix: "tessera",
		}),
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		a.log.Warn("using default configuration: %v", err)
	}
	a.cfg = cfg

	level := cfg.LogLevel
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	a.log.SetLevel(logging.ParseLevel(level))
	a.keys = parseBindings(cfg.Keys, a.log)

	if err := a.initHost(); err != nil {
		return nil, err
	}

	dev, err := dispi.New(a.host.Framebuffer(), a.host.Ports(),
		dispi.WithDoubleBuffering(),
		dispi.WithLogger(a.log.WithComponent("dispi")))
	if err != nil {
		a.host.Shutdown()
		return nil, &InitError{Component: "display", Err: err}
	}
	a.device = dev
	a.dc = display.NewContext(dev)

	a.theme = theme.New(theme.WithLogger(a.log.WithComponent("theme")))
	if cfg.Theme != "" {
		a.loadThemeFile(cfg.Theme)
	}

	a.res = resource.NewSet()
	a.bus = event.New(event.WithLogger(a.log.WithComponent("event")))
	a.layout = layout.New(
		layout.WithBus(a.bus),
		layout.WithTheme(a.theme),
		layout.WithResources(a.res),
		layout.WithTicks(a.host.Ticks()),
		layout.WithLogger(a.log.WithComponent("layout")),
	)
	if cfg.BarColumn != grid.BarHidden {
		a.layout.SetBarColumn(cfg.BarColumn)
	}

	if man, err := config.LoadManifest(cfg.Manifest); err != nil {
		a.log.Warn("manifest skipped: %v", err)
	} else {
		a.mount(man)
	}

	a.initWatcher()
	return a, nil
}

// initHost resolves the host kind and brings the host up. An auto pick
// that lands on the window host falls back to the terminal when the
// window cannot start.
func (a *App) initHost() error {
	kind := a.cfg.Host
	if a.opts.Host != "" {
		kind = a.opts.Host
	}
	auto := kind == config.HostAuto
	if auto {
		kind = detectHost()
	}

	h, err := a.newHost(kind)
	if err == nil {
		err = h.Init()
	}
	if err != nil && auto && kind == config.HostWindow {
		a.log.Warn("window host unavailable, falling back to terminal: %v", err)
		kind = config.HostTerminal
		h, err = a.newHost(kind)
		if err == nil {
			err = h.Init()
		}
	}
	if err != nil {
		return &InitError{Component: kind + " host", Err: err}
	}

	a.host = h
	w, hgt := h.Size()
	a.log.Info("%s host ready (%dx%d)", kind, w, hgt)
	return nil
}

// newHost constructs a host of the given kind without initializing it.
func (a *App) newHost(kind string) (host.Host, error) {
	switch kind {
	case config.HostTerminal:
		return host.NewTerminal(dispi.Width, dispi.Height, a.log)
	case config.HostWindow:
		return host.NewWindow(dispi.Width, dispi.Height, a.opts.Title, a.cfg.Scale, a.log), nil
	case config.HostMemory:
		return host.NewMemory(dispi.Width, dispi.Height), nil
	default:
		return nil, fmt.Errorf("unknown host kind %q", kind)
	}
}

// detectHost resolves the auto host kind: a window when a graphical
// session is visible in the environment, the terminal otherwise.
func detectHost() string {
	if os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != "" {
		return config.HostWindow
	}
	return config.HostTerminal
}

// loadThemeFile applies a theme document, seeding the default document
// on first run so users have a file to edit.
func (a *App) loadThemeFile(path string) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, theme.DefaultJSON(), 0o644); err != nil {
			a.log.Warn("cannot seed theme file %s: %v", path, err)
			return
		}
		a.log.Info("wrote default theme to %s", path)
	}
	if err := a.theme.LoadFile(path); err != nil {
		a.log.Warn("theme %s rejected, keeping defaults: %v", path, err)
	}
}

// initWatcher wires live reload for the config and theme files. No
// watchable files means no watcher.
func (a *App) initWatcher() {
	if a.opts.ConfigPath == "" && a.cfg.Theme == "" {
		return
	}

	w, err := config.NewWatcher(a.log.WithComponent("config"))
	if err != nil {
		a.log.Warn("live reload disabled: %v", err)
		return
	}
	if a.opts.ConfigPath != "" {
		if err := w.Add(config.KindConfig, a.opts.ConfigPath); err != nil {
			a.log.Warn("not watching %s: %v", a.opts.ConfigPath, err)
		}
	}
	if a.cfg.Theme != "" {
		if err := w.Add(config.KindTheme, a.cfg.Theme); err != nil {
			a.log.Warn("not watching %s: %v", a.cfg.Theme, err)
		}
	}
	a.watcher = w
}

// Shutdown stops the loop and releases the watcher and the host. Safe
// to call more than once and without Run.
func (a *App) Shutdown() {
	a.stopOnce.Do(func() {
		close(a.done)
	})
	if a.watcher != nil {
		a.watcher.Close()
	}
	if a.host != nil {
		a.host.Shutdown()
	}
}

// IsRunning reports whether the frame loop is active.
func (a *App) IsRunning() bool {
	return a.running.Load()
}

// Host returns the presentation host.
func (a *App) Host() host.Host {
	return a.host
}

// Device returns the display device.
func (a *App) Device() *dispi.Device {
	return a.device
}

// Layout returns the layout manager.
func (a *App) Layout() *layout.Manager {
	return a.layout
}

// Bus returns the event bus.
func (a *App) Bus() *event.Bus {
	return a.bus
}

// Theme returns the live theme.
func (a *App) Theme() *theme.Theme {
	return a.theme
}

// Config returns the configuration loaded at boot, updated by live
// reloads.
func (a *App) Config() config.Config {
	return a.cfg
}

// Logger returns the root logger.
func (a *App) Logger() *logging.Logger {
	return a.log
}
