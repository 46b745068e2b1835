package host

import (
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"

	"github.com/tesseraos/tessera/internal/event"
	"github.com/tesseraos/tessera/internal/geom"
	"github.com/tesseraos/tessera/internal/hw"
	"github.com/tesseraos/tessera/internal/input"
	"github.com/tesseraos/tessera/internal/logging"
)

// halfBlock shows two vertically stacked pixels per terminal cell:
// the foreground color fills the upper half, the background the lower.
const halfBlock = '▀'

// Terminal presents the framebuffer in a terminal through tcell. Each
// cell carries a 1×2 pixel column, so a 640×480 mode wants a 640×240
// terminal; smaller terminals show the top-left crop.
type Terminal struct {
	screen tcell.Screen
	sim    *hw.Sim
	clock  *hw.Clock
	log    *logging.Logger

	events   chan event.Event
	stop     chan struct{}
	stopOnce sync.Once

	// needsSync is set by the poll goroutine on terminal resize and
	// consumed by the next Present, which then repaints everything.
	needsSync atomic.Bool

	// Button and pointer state, owned by the poll goroutine.
	buttons      tcell.ButtonMask
	lastX, lastY int
}

var _ Host = (*Terminal)(nil)

// NewTerminal creates a terminal host for a w×h video mode on the
// process's terminal.
func NewTerminal(w, h int, log *logging.Logger) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return newTerminal(screen, w, h, log), nil
}

// newTerminal wires an explicit screen; tests pass a simulation screen.
func newTerminal(screen tcell.Screen, w, h int, log *logging.Logger) *Terminal {
	if log == nil {
		log = logging.Null
	}
	return &Terminal{
		screen: screen,
		sim:    newMachine(w, h),
		clock:  hw.NewClock(),
		log:    log.WithComponent("host.terminal"),
		events: make(chan event.Event, eventQueueSize),
		stop:   make(chan struct{}),
		lastX:  -1,
		lastY:  -1,
	}
}

// Init initializes the screen, enables mouse reporting, and starts
// the input poller.
func (t *Terminal) Init() error {
	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.EnableMouse()
	t.screen.HideCursor()
	t.screen.SetStyle(tcell.StyleDefault)
	t.needsSync.Store(true)
	go t.pollLoop()
	return nil
}

// Shutdown stops the poller and restores the terminal. Safe to call
// more than once.
func (t *Terminal) Shutdown() {
	t.stopOnce.Do(func() {
		close(t.stop)
		t.screen.Fini()
	})
}

// Framebuffer returns the simulated pixel memory.
func (t *Terminal) Framebuffer() hw.Framebuffer { return t.sim }

// Ports returns the simulated port I/O.
func (t *Terminal) Ports() hw.PortIO { return t.sim }

// Ticks returns a wall-clock millisecond counter.
func (t *Terminal) Ticks() hw.TickSource { return t.clock }

// Poll returns the input event stream.
func (t *Terminal) Poll() <-chan event.Event { return t.events }

// Size returns the video mode dimensions.
func (t *Terminal) Size() (w, h int) { return t.sim.Size() }

// Present pushes the dirty regions to the terminal. An empty dirty
// set still repaints after a terminal resize.
func (t *Terminal) Present(dirty []geom.Rect) {
	full := t.needsSync.Swap(false)
	if full {
		w, h := t.sim.Size()
		dirty = []geom.Rect{geom.NewRect(0, 0, w, h)}
	}
	if len(dirty) == 0 {
		return
	}
	pal := t.palette()
	for _, r := range dirty {
		t.blit(r, pal)
	}
	if full {
		t.screen.Sync()
		return
	}
	t.screen.Show()
}

// palette resolves the machine DAC each frame so palette writes show
// up without a restart.
func (t *Terminal) palette() [16]tcell.Color {
	var out [16]tcell.Color
	for i, c := range t.sim.Palette() {
		out[i] = tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
	}
	return out
}

// blit writes one framebuffer rectangle as half-block cells. Rows are
// widened to the even boundary so both pixels of a cell stay in step.
func (t *Terminal) blit(r geom.Rect, pal [16]tcell.Color) {
	w, h := t.sim.Size()
	r = r.Intersect(geom.NewRect(0, 0, w, h))
	if r.IsEmpty() {
		return
	}
	buf, stride := t.sim.Bytes(), t.sim.Stride()
	for y := r.Y &^ 1; y < r.Bottom(); y += 2 {
		upper := buf[y*stride:]
		var lower []byte
		if y+1 < h {
			lower = buf[(y+1)*stride:]
		}
		for x := r.X; x < r.Right(); x++ {
			fg := pal[upper[x]&0x0F]
			bg := pal[0]
			if lower != nil {
				bg = pal[lower[x]&0x0F]
			}
			style := tcell.StyleDefault.Foreground(fg).Background(bg)
			t.screen.SetContent(x, y/2, halfBlock, nil, style)
		}
	}
}

// pollLoop converts tcell events until the screen is finalized.
func (t *Terminal) pollLoop() {
	defer close(t.events)
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case <-t.stop:
			return
		default:
		}
		t.handle(ev)
	}
}

func (t *Terminal) handle(ev tcell.Event) {
	switch e := ev.(type) {
	case *tcell.EventKey:
		key, r, mod := keyFromTcell(e)
		if key == input.KeyNone {
			return
		}
		t.send(event.NewKey(event.KeyDown, key, r, mod))
	case *tcell.EventMouse:
		for _, out := range t.mouseFromTcell(e) {
			t.send(out)
		}
	case *tcell.EventResize:
		t.needsSync.Store(true)
	}
}

func (t *Terminal) send(ev event.Event) {
	select {
	case t.events <- ev:
	default:
		t.log.Debug("input queue full, dropping %s", ev)
	}
}

// pixelAt maps a terminal cell to the framebuffer pixel under its
// upper half, clamped to the mode.
func (t *Terminal) pixelAt(cx, cy int) (int, int) {
	w, h := t.sim.Size()
	x := min(max(cx, 0), w-1)
	y := min(max(cy*2, 0), h-1)
	return x, y
}

// mouseFromTcell converts one tcell mouse report into zero or more
// events. tcell reports the full button state each time, so presses
// and releases are derived from the previous report.
func (t *Terminal) mouseFromTcell(e *tcell.EventMouse) []event.Event {
	cx, cy := e.Position()
	x, y := t.pixelAt(cx, cy)
	mod := modFromTcell(e.Modifiers())

	var out []event.Event
	cur := e.Buttons() & knownButtons
	for _, b := range buttonMap {
		was := t.buttons&b.mask != 0
		is := cur&b.mask != 0
		switch {
		case is && !was:
			ev := event.NewMouse(event.MouseDown, x, y, b.button)
			ev.Mod = mod
			out = append(out, ev)
		case was && !is:
			ev := event.NewMouse(event.MouseUp, x, y, b.button)
			ev.Mod = mod
			out = append(out, ev)
		}
	}
	if len(out) == 0 && (x != t.lastX || y != t.lastY) {
		ev := event.NewMouse(event.MouseMove, x, y, input.ButtonNone)
		ev.Mod = mod
		out = append(out, ev)
	}
	t.buttons = cur
	t.lastX, t.lastY = x, y
	return out
}

var buttonMap = []struct {
	mask   tcell.ButtonMask
	button input.Button
}{
	{tcell.ButtonPrimary, input.ButtonLeft},
	{tcell.ButtonMiddle, input.ButtonMiddle},
	{tcell.ButtonSecondary, input.ButtonRight},
}

const knownButtons = tcell.ButtonPrimary | tcell.ButtonMiddle | tcell.ButtonSecondary

// keyFromTcell translates a tcell key event. Control-letter codes
// become the plain letter with ModCtrl set, matching the chord model;
// Enter, Tab, Backspace and Escape shadow their control aliases.
func keyFromTcell(e *tcell.EventKey) (input.Key, rune, input.Mod) {
	mod := modFromTcell(e.Modifiers())
	k := e.Key()
	switch k {
	case tcell.KeyRune:
		return input.KeyRune, e.Rune(), mod
	case tcell.KeyEscape:
		return input.KeyEscape, 0, mod
	case tcell.KeyEnter:
		return input.KeyEnter, 0, mod
	case tcell.KeyTab:
		return input.KeyTab, 0, mod
	case tcell.KeyBacktab:
		return input.KeyTab, 0, mod.With(input.ModShift)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return input.KeyBackspace, 0, mod
	case tcell.KeyDelete:
		return input.KeyDelete, 0, mod
	case tcell.KeyInsert:
		return input.KeyInsert, 0, mod
	case tcell.KeyHome:
		return input.KeyHome, 0, mod
	case tcell.KeyEnd:
		return input.KeyEnd, 0, mod
	case tcell.KeyPgUp:
		return input.KeyPageUp, 0, mod
	case tcell.KeyPgDn:
		return input.KeyPageDown, 0, mod
	case tcell.KeyUp:
		return input.KeyUp, 0, mod
	case tcell.KeyDown:
		return input.KeyDown, 0, mod
	case tcell.KeyLeft:
		return input.KeyLeft, 0, mod
	case tcell.KeyRight:
		return input.KeyRight, 0, mod
	}
	if k >= tcell.KeyF1 && k <= tcell.KeyF12 {
		return input.KeyF1 + input.Key(k-tcell.KeyF1), 0, mod
	}
	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		return input.KeyRune, 'a' + rune(k-tcell.KeyCtrlA), mod.With(input.ModCtrl)
	}
	return input.KeyNone, 0, mod
}

func modFromTcell(m tcell.ModMask) input.Mod {
	var out input.Mod
	if m&tcell.ModShift != 0 {
		out = out.With(input.ModShift)
	}
	if m&tcell.ModCtrl != 0 {
		out = out.With(input.ModCtrl)
	}
	if m&tcell.ModAlt != 0 {
		out = out.With(input.ModAlt)
	}
	return out
}
