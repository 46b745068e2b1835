package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/tesseraos/tessera/internal/logging"
)

// ChangeKind identifies which watched file changed.
type ChangeKind int

const (
	// KindConfig marks a tessera.toml change.
	KindConfig ChangeKind = iota

	// KindTheme marks a theme document change.
	KindTheme
)

// String returns the kind name.
func (k ChangeKind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindTheme:
		return "theme"
	default:
		return fmt.Sprintf("ChangeKind(%d)", int(k))
	}
}

// Change reports that a watched file has settled after modification.
type Change struct {
	Kind ChangeKind
	Path string
}

// Watcher delivers debounced file change notices over a channel the
// frame loop drains. Editors save through temp-file renames, so the
// watcher registers parent directories with fsnotify and filters by
// exact path; a burst of events for one file coalesces into a single
// Change.
type Watcher struct {
	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	targets map[string]ChangeKind
	dirs    map[string]bool

	changes  chan Change
	debounce time.Duration
	log      *logging.Logger

	done   chan struct{}
	wg     sync.WaitGroup
	closed bool
}

// NewWatcher starts the watch loop. It owns one goroutine until Close.
func NewWatcher(log *logging.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config watcher: %w", err)
	}
	if log == nil {
		log = logging.Null
	}

	w := &Watcher{
		fsw:      fsw,
		targets:  make(map[string]ChangeKind),
		dirs:     make(map[string]bool),
		changes:  make(chan Change, 8),
		debounce: 100 * time.Millisecond,
		log:      log,
		done:     make(chan struct{}),
	}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Add registers a file. The file itself may not exist yet; its
// directory must.
func (w *Watcher) Add(kind ChangeKind, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	dir := filepath.Dir(abs)
	if !w.dirs[dir] {
		if err := w.fsw.Add(dir); err != nil {
			return fmt.Errorf("config watcher: %w", err)
		}
		w.dirs[dir] = true
	}
	w.targets[abs] = kind
	return nil
}

// Changes returns the notification channel. It closes when the
// watcher does.
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// Close stops the loop and releases the fsnotify handle.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	close(w.done)
	err := w.fsw.Close()
	w.wg.Wait()
	close(w.changes)
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		<-timer.C
	}
	pending := make(map[string]ChangeKind)

	for {
		select {
		case <-w.done:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			kind, hit := w.match(ev)
			if !hit {
				continue
			}
			pending[filepath.Clean(ev.Name)] = kind
			timer.Reset(w.debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("config watcher: %v", err)

		case <-timer.C:
			for path, kind := range pending {
				delete(pending, path)
				select {
				case w.changes <- Change{Kind: kind, Path: path}:
				default:
					// Reader is behind; drop rather than block
					// the watch loop.
				}
			}
		}
	}
}

// match reports whether the event touches a registered file with an
// operation that changes content.
func (w *Watcher) match(ev fsnotify.Event) (ChangeKind, bool) {
	if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
		return 0, false
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	kind, hit := w.targets[filepath.Clean(ev.Name)]
	return kind, hit
}
