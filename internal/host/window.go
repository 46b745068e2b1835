//go:build !headless

package host

import (
	"errors"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/tesseraos/tessera/internal/event"
	"github.com/tesseraos/tessera/internal/geom"
	"github.com/tesseraos/tessera/internal/hw"
	"github.com/tesseraos/tessera/internal/input"
	"github.com/tesseraos/tessera/internal/logging"
)

// Window presents the framebuffer in a desktop window through ebiten.
// The game loop runs on its own goroutine: Present stages RGBA pixels
// under a lock and the next ebiten frame uploads them.
type Window struct {
	sim   *hw.Sim
	clock *hw.Clock
	log   *logging.Logger
	title string
	scale int
	w, h  int

	mu   sync.RWMutex
	rgba []byte
	tex  *ebiten.Image

	events    chan event.Event
	stop      chan struct{}
	done      chan struct{}
	ready     chan struct{}
	readyOnce sync.Once
	stopOnce  sync.Once
	runErr    error

	// Pointer state, owned by the game goroutine.
	cursorX, cursorY int
	hasCursor        bool
}

var (
	_ Host        = (*Window)(nil)
	_ ebiten.Game = (*Window)(nil)
)

// NewWindow creates a window host for a w×h video mode, upscaled by
// an integer factor.
func NewWindow(w, h int, title string, scale int, log *logging.Logger) *Window {
	if log == nil {
		log = logging.Null
	}
	if scale < 1 {
		scale = 1
	}
	return &Window{
		sim:    newMachine(w, h),
		clock:  hw.NewClock(),
		log:    log.WithComponent("host.window"),
		title:  title,
		scale:  scale,
		w:      w,
		h:      h,
		rgba:   make([]byte, w*h*4),
		events: make(chan event.Event, eventQueueSize),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
		ready:  make(chan struct{}),
	}
}

// Init opens the window and blocks until the first frame is on screen.
func (w *Window) Init() error {
	ebiten.SetWindowSize(w.w*w.scale, w.h*w.scale)
	ebiten.SetWindowTitle(w.title)
	ebiten.SetScreenClearedEveryFrame(false)
	go func() {
		defer close(w.done)
		defer close(w.events)
		if err := ebiten.RunGame(w); err != nil && !errors.Is(err, ebiten.Termination) {
			w.runErr = err
			w.log.Error("window loop: %v", err)
		}
	}()
	select {
	case <-w.ready:
		return nil
	case <-w.done:
		if w.runErr != nil {
			return w.runErr
		}
		return ErrWindowUnavailable
	}
}

// Shutdown asks the game loop to exit and waits for it.
func (w *Window) Shutdown() {
	w.stopOnce.Do(func() { close(w.stop) })
	<-w.done
}

// Framebuffer returns the simulated pixel memory.
func (w *Window) Framebuffer() hw.Framebuffer { return w.sim }

// Ports returns the simulated port I/O.
func (w *Window) Ports() hw.PortIO { return w.sim }

// Ticks returns a wall-clock millisecond counter.
func (w *Window) Ticks() hw.TickSource { return w.clock }

// Poll returns the input event stream. The channel closes when the
// window is closed.
func (w *Window) Poll() <-chan event.Event { return w.events }

// Size returns the video mode dimensions.
func (w *Window) Size() (int, int) { return w.w, w.h }

// Present expands the dirty framebuffer regions to RGBA for the next
// ebiten frame.
func (w *Window) Present(dirty []geom.Rect) {
	if len(dirty) == 0 {
		return
	}
	pal := w.sim.Palette()
	w.mu.Lock()
	for _, r := range dirty {
		expandRGBA(w.rgba, w.w, w.h, w.sim.Bytes(), w.sim.Stride(), r, pal)
	}
	w.mu.Unlock()
}

// Update polls input and forwards it to the event queue. It runs on
// the game goroutine at the display rate.
func (w *Window) Update() error {
	select {
	case <-w.stop:
		return ebiten.Termination
	default:
	}
	w.pollMouse()
	w.pollKeys()
	return nil
}

// Draw uploads the staged pixels. The first draw unblocks Init.
func (w *Window) Draw(screen *ebiten.Image) {
	if w.tex == nil {
		w.tex = ebiten.NewImage(w.w, w.h)
	}
	w.mu.RLock()
	w.tex.WritePixels(w.rgba)
	w.mu.RUnlock()
	screen.DrawImage(w.tex, nil)
	w.readyOnce.Do(func() { close(w.ready) })
}

// Layout reports the logical resolution; ebiten scales it to the
// window size.
func (w *Window) Layout(_, _ int) (int, int) {
	return w.w, w.h
}

func (w *Window) send(ev event.Event) {
	select {
	case w.events <- ev:
	default:
		w.log.Debug("input queue full, dropping %s", ev)
	}
}

func (w *Window) pollMouse() {
	x, y := ebiten.CursorPosition()
	x = min(max(x, 0), w.w-1)
	y = min(max(y, 0), w.h-1)
	mod := heldMods()

	if w.hasCursor && (x != w.cursorX || y != w.cursorY) {
		ev := event.NewMouse(event.MouseMove, x, y, input.ButtonNone)
		ev.Mod = mod
		w.send(ev)
	}
	w.cursorX, w.cursorY = x, y
	w.hasCursor = true

	for _, b := range windowButtons {
		if inpututil.IsMouseButtonJustPressed(b.eb) {
			ev := event.NewMouse(event.MouseDown, x, y, b.button)
			ev.Mod = mod
			w.send(ev)
		}
		if inpututil.IsMouseButtonJustReleased(b.eb) {
			ev := event.NewMouse(event.MouseUp, x, y, b.button)
			ev.Mod = mod
			w.send(ev)
		}
	}
}

func (w *Window) pollKeys() {
	mod := heldMods()

	// With ctrl or alt held the characters never reach
	// AppendInputChars, so letter and digit keys are scanned directly
	// to keep chords working.
	if mod.Has(input.ModCtrl) || mod.Has(input.ModAlt) {
		for _, k := range windowRuneKeys {
			if inpututil.IsKeyJustPressed(k.eb) {
				w.send(event.NewKey(event.KeyDown, input.KeyRune, k.r, mod))
			}
		}
	} else {
		for _, r := range ebiten.AppendInputChars(nil) {
			w.send(event.NewKey(event.KeyDown, input.KeyRune, r, mod))
		}
	}

	for _, k := range windowSpecialKeys {
		if inpututil.IsKeyJustPressed(k.eb) {
			w.send(event.NewKey(event.KeyDown, k.key, 0, mod))
		}
		if inpututil.IsKeyJustReleased(k.eb) {
			w.send(event.NewKey(event.KeyUp, k.key, 0, mod))
		}
	}
}

func heldMods() input.Mod {
	var mod input.Mod
	if ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight) {
		mod = mod.With(input.ModShift)
	}
	if ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight) {
		mod = mod.With(input.ModCtrl)
	}
	if ebiten.IsKeyPressed(ebiten.KeyAltLeft) || ebiten.IsKeyPressed(ebiten.KeyAltRight) {
		mod = mod.With(input.ModAlt)
	}
	return mod
}

// expandRGBA converts one 8bpp rect to RGBA into dst, a dstW×dstH
// image in row-major RGBA order.
func expandRGBA(dst []byte, dstW, dstH int, src []byte, stride int, r geom.Rect, pal [16]hw.RGB) {
	r = r.Intersect(geom.NewRect(0, 0, dstW, dstH))
	if r.IsEmpty() {
		return
	}
	for y := r.Y; y < r.Bottom(); y++ {
		srow := src[y*stride:]
		drow := dst[y*dstW*4:]
		for x := r.X; x < r.Right(); x++ {
			c := pal[srow[x]&0x0F]
			o := x * 4
			drow[o] = c.R
			drow[o+1] = c.G
			drow[o+2] = c.B
			drow[o+3] = 0xFF
		}
	}
}

var windowButtons = []struct {
	eb     ebiten.MouseButton
	button input.Button
}{
	{ebiten.MouseButtonLeft, input.ButtonLeft},
	{ebiten.MouseButtonMiddle, input.ButtonMiddle},
	{ebiten.MouseButtonRight, input.ButtonRight},
}

var windowSpecialKeys = []struct {
	eb  ebiten.Key
	key input.Key
}{
	{ebiten.KeyEscape, input.KeyEscape},
	{ebiten.KeyEnter, input.KeyEnter},
	{ebiten.KeyNumpadEnter, input.KeyEnter},
	{ebiten.KeyTab, input.KeyTab},
	{ebiten.KeyBackspace, input.KeyBackspace},
	{ebiten.KeyDelete, input.KeyDelete},
	{ebiten.KeyInsert, input.KeyInsert},
	{ebiten.KeyHome, input.KeyHome},
	{ebiten.KeyEnd, input.KeyEnd},
	{ebiten.KeyPageUp, input.KeyPageUp},
	{ebiten.KeyPageDown, input.KeyPageDown},
	{ebiten.KeyArrowUp, input.KeyUp},
	{ebiten.KeyArrowDown, input.KeyDown},
	{ebiten.KeyArrowLeft, input.KeyLeft},
	{ebiten.KeyArrowRight, input.KeyRight},
	{ebiten.KeyF1, input.KeyF1},
	{ebiten.KeyF2, input.KeyF2},
	{ebiten.KeyF3, input.KeyF3},
	{ebiten.KeyF4, input.KeyF4},
	{ebiten.KeyF5, input.KeyF5},
	{ebiten.KeyF6, input.KeyF6},
	{ebiten.KeyF7, input.KeyF7},
	{ebiten.KeyF8, input.KeyF8},
	{ebiten.KeyF9, input.KeyF9},
	{ebiten.KeyF10, input.KeyF10},
	{ebiten.KeyF11, input.KeyF11},
	{ebiten.KeyF12, input.KeyF12},
}

var windowRuneKeys = []struct {
	eb ebiten.Key
	r  rune
}{
	{ebiten.KeyA, 'a'}, {ebiten.KeyB, 'b'}, {ebiten.KeyC, 'c'},
	{ebiten.KeyD, 'd'}, {ebiten.KeyE, 'e'}, {ebiten.KeyF, 'f'},
	{ebiten.KeyG, 'g'}, {ebiten.KeyH, 'h'}, {ebiten.KeyI, 'i'},
	{ebiten.KeyJ, 'j'}, {ebiten.KeyK, 'k'}, {ebiten.KeyL, 'l'},
	{ebiten.KeyM, 'm'}, {ebiten.KeyN, 'n'}, {ebiten.KeyO, 'o'},
	{ebiten.KeyP, 'p'}, {ebiten.KeyQ, 'q'}, {ebiten.KeyR, 'r'},
	{ebiten.KeyS, 's'}, {ebiten.KeyT, 't'}, {ebiten.KeyU, 'u'},
	{ebiten.KeyV, 'v'}, {ebiten.KeyW, 'w'}, {ebiten.KeyX, 'x'},
	{ebiten.KeyY, 'y'}, {ebiten.KeyZ, 'z'},
	{ebiten.KeyDigit0, '0'}, {ebiten.KeyDigit1, '1'},
	{ebiten.KeyDigit2, '2'}, {ebiten.KeyDigit3, '3'},
	{ebiten.KeyDigit4, '4'}, {ebiten.KeyDigit5, '5'},
	{ebiten.KeyDigit6, '6'}, {ebiten.KeyDigit7, '7'},
	{ebiten.KeyDigit8, '8'}, {ebiten.KeyDigit9, '9'},
	{ebiten.KeySpace, ' '},
}
