package app

import (
	"context"
	"time"

	"github.com/tesseraos/tessera/internal/config"
	"github.com/tesseraos/tessera/internal/event"
	"github.com/tesseraos/tessera/internal/input"
	"github.com/tesseraos/tessera/internal/logging"
	"github.com/tesseraos/tessera/internal/theme"
)

const (
	targetFPS = 60
	frameTime = time.Second / targetFPS
)

// bindings is the parsed chord set the funnel consults before routing
// to the layout.
type bindings struct {
	quit       input.Chord
	focusLeft  input.Chord
	focusRight input.Chord
	focusUp    input.Chord
	focusDown  input.Chord
}

// parseBindings parses the configured chord specs. A bad or empty spec
// leaves that binding unbound.
func parseBindings(k config.Keys, log *logging.Logger) bindings {
	parse := func(name, spec string) input.Chord {
		if spec == "" {
			return input.Chord{}
		}
		c, err := input.ParseChord(spec)
		if err != nil {
			log.Warn("ignoring keys.%s = %q: %v", name, spec, err)
			return input.Chord{}
		}
		return c
	}
	return bindings{
		quit:       parse("quit", k.Quit),
		focusLeft:  parse("focus_left", k.FocusLeft),
		focusRight: parse("focus_right", k.FocusRight),
		focusUp:    parse("focus_up", k.FocusUp),
		focusDown:  parse("focus_down", k.FocusDown),
	}
}

// Run drives the frame loop until the context is canceled, the host
// closes, Shutdown is called, or the quit chord fires. All compositor
// state is touched only here; hosts hand events over via channels.
func (a *App) Run(ctx context.Context) error {
	if !a.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer a.running.Store(false)
	defer a.unmount()

	ticker := time.NewTicker(frameTime)
	defer ticker.Stop()

	events := a.host.Poll()
	var changes <-chan config.Change
	if a.watcher != nil {
		changes = a.watcher.Changes()
	}

	a.layout.Root().Invalidate()
	a.frame()

	for {
		select {
		case <-ctx.Done():
			a.log.Info("context canceled, exiting")
			return nil

		case <-a.done:
			return nil

		case ev, ok := <-events:
			if !ok {
				a.log.Info("host closed, exiting")
				return nil
			}
			if a.route(ev) {
				a.log.Info("quit chord, exiting")
				return nil
			}

		case ch, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			a.applyChange(ch)

		case <-ticker.C:
			a.frame()
		}
	}
}

// route funnels one host event: app chords first, then the layout.
// Reports whether the quit chord fired.
func (a *App) route(ev event.Event) bool {
	if ev.Type == event.KeyDown {
		k := a.keys
		switch {
		case k.quit.Matches(ev.Key, ev.Rune, ev.Mod):
			return true
		case k.focusLeft.Matches(ev.Key, ev.Rune, ev.Mod):
			a.layout.MoveFocus(-1, 0)
			return false
		case k.focusRight.Matches(ev.Key, ev.Rune, ev.Mod):
			a.layout.MoveFocus(1, 0)
			return false
		case k.focusUp.Matches(ev.Key, ev.Rune, ev.Mod):
			a.layout.MoveFocus(0, -1)
			return false
		case k.focusDown.Matches(ev.Key, ev.Rune, ev.Mod):
			a.layout.MoveFocus(0, 1)
			return false
		}
	}
	a.layout.HandleEvent(ev)
	return false
}

// frame runs one update/draw/flip/present pass. Present runs every
// frame, empty or not, so hosts can satisfy deferred repaints.
func (a *App) frame() {
	a.layout.Update()
	if a.layout.Root().NeedsRedraw() {
		a.layout.Draw(a.dc)
	}
	a.host.Present(a.device.FlipDirty())
}

// applyChange applies one watched-file change to the running app.
func (a *App) applyChange(ch config.Change) {
	switch ch.Kind {
	case config.KindTheme:
		a.reloadTheme(ch.Path)
	case config.KindConfig:
		a.reloadConfig(ch.Path)
	}
}

// reloadTheme re-reads a theme document and repaints. A rejected
// document keeps the current theme.
func (a *App) reloadTheme(path string) {
	if err := a.theme.LoadFile(path); err != nil {
		a.log.Warn("theme reload failed, keeping current: %v", err)
		return
	}
	a.layout.Bar().Color = a.theme.Color(theme.RoleBar)
	a.layout.Root().Invalidate()
}

// reloadConfig re-reads the config file and applies what can change
// live: log level, bar column, key bindings, theme path. Host, scale
// and manifest changes need a restart.
func (a *App) reloadConfig(path string) {
	cfg, err := config.Load(path)
	if err != nil {
		a.log.Warn("config reload rejected: %v", err)
		return
	}
	old := a.cfg
	a.cfg = cfg

	if cfg.LogLevel != old.LogLevel && a.opts.LogLevel == "" {
		a.log.SetLevel(logging.ParseLevel(cfg.LogLevel))
		a.log.Info("log level now %s", cfg.LogLevel)
	}
	if cfg.BarColumn != old.BarColumn {
		a.layout.SetBarColumn(cfg.BarColumn)
	}
	a.keys = parseBindings(cfg.Keys, a.log)

	if cfg.Theme != old.Theme && cfg.Theme != "" {
		if a.watcher != nil {
			if err := a.watcher.Add(config.KindTheme, cfg.Theme); err != nil {
				a.log.Warn("not watching %s: %v", cfg.Theme, err)
			}
		}
		a.reloadTheme(cfg.Theme)
	}
	if cfg.Host != old.Host || cfg.Scale != old.Scale || cfg.Manifest != old.Manifest {
		a.log.Info("host, scale and manifest changes apply on restart")
	}
}
