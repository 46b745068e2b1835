package script

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	lua "github.com/yuin/gopher-lua"

	"github.com/tesseraos/tessera/internal/display"
	"github.com/tesseraos/tessera/internal/event"
	"github.com/tesseraos/tessera/internal/geom"
	"github.com/tesseraos/tessera/internal/grid"
	"github.com/tesseraos/tessera/internal/input"
	"github.com/tesseraos/tessera/internal/logging"
	"github.com/tesseraos/tessera/internal/theme"
	"github.com/tesseraos/tessera/internal/view"
)

// Component hosts one Lua script instance behind the view Interface.
// The script's hook table binds to the view's hooks at load time; a
// missing hook simply leaves the default behavior in place.
type Component struct {
	view.Base

	id   string
	path string
	L    *lua.LState

	initFn   *lua.LFunction
	drawFn   *lua.LFunction
	updateFn *lua.LFunction
	eventFn  *lua.LFunction

	ctx    *view.Context
	log    *logging.Logger
	dc     *display.Context
	fg, bg display.Color
	penSet bool
	closed bool

	lastErr map[string]string
}

// Option configures a Component before its script runs.
type Option func(*Component)

// WithLogger sets the logger used for load-time failures. Once placed,
// the component switches to the logger its Context carries.
func WithLogger(log *logging.Logger) Option {
	return func(c *Component) {
		if log != nil {
			c.log = log
		}
	}
}

// Load evaluates a component script from disk and binds its hooks to a
// fresh view.
func Load(path string, opts ...Option) (*Component, error) {
	c := newComponent(path, opts...)
	if err := c.L.DoFile(path); err != nil {
		c.L.Close()
		return nil, fmt.Errorf("script %s: %w", path, err)
	}
	return c.bind()
}

// LoadString evaluates source as a component script. The name stands
// in for the path in errors and logs.
func LoadString(name, source string, opts ...Option) (*Component, error) {
	c := newComponent(name, opts...)
	if err := c.L.DoString(source); err != nil {
		c.L.Close()
		return nil, fmt.Errorf("script %s: %w", name, err)
	}
	return c.bind()
}

func newComponent(path string, opts ...Option) *Component {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(L)

	c := &Component{
		id:      uuid.New().String(),
		path:    path,
		L:       L,
		log:     logging.Null,
		fg:      display.ColorWhite,
		bg:      display.ColorBlack,
		lastErr: make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.install()
	return c
}

// openSafeLibraries opens the Lua base set minus anything that touches
// the machine: no io, os, debug or package. Loaders go too; a
// component is a single chunk.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}

	// Each open call pushes its module table. Drop them so a chunk's
	// return values start at stack slot 1.
	L.SetTop(0)
}

// bind extracts the hook table left by the chunk and wires the view.
func (c *Component) bind() (*Component, error) {
	ret := c.L.Get(1)
	c.L.Pop(c.L.GetTop())

	tbl, ok := ret.(*lua.LTable)
	if !ok {
		c.L.Close()
		return nil, fmt.Errorf("script %s: %w", c.path, ErrNoComponent)
	}

	c.initFn = tableFunc(tbl, "init")
	c.drawFn = tableFunc(tbl, "draw")
	c.updateFn = tableFunc(tbl, "update")
	c.eventFn = tableFunc(tbl, "on_event")

	v := view.New()
	c.Base = view.NewBase(v)
	v.SetInterface(c)
	if c.drawFn != nil {
		v.OnDraw = c.draw
	}
	if c.updateFn != nil {
		v.OnUpdate = c.update
	}
	if c.eventFn != nil {
		v.OnEvent = c.handleEvent
	}
	return c, nil
}

func tableFunc(t *lua.LTable, key string) *lua.LFunction {
	if fn, ok := t.RawGetString(key).(*lua.LFunction); ok {
		return fn
	}
	return nil
}

// ID returns the instance identity used in logs.
func (c *Component) ID() string {
	return c.id
}

// Path returns the source the component was loaded from.
func (c *Component) Path() string {
	return c.path
}

// Global reads a global from the script environment, converted to Go
// types.
func (c *Component) Global(name string) any {
	if c.closed {
		return nil
	}
	return toGo(c.L.GetGlobal(name))
}

// SetGlobal publishes a Go value to the script environment under name.
// Manifest parameters arrive this way before init runs.
func (c *Component) SetGlobal(name string, v any) {
	if c.closed {
		return
	}
	c.L.SetGlobal(name, toLua(c.L, v))
}

// Init stores the placement context and runs the script's init hook.
// A failing hook is reported but never blocks placement.
func (c *Component) Init(ctx *view.Context) error {
	c.ctx = ctx
	if ctx.Log != nil {
		c.log = ctx.Log.WithField("script", c.id)
	}
	if !c.penSet && ctx.Theme != nil {
		c.fg = ctx.Theme.Color(theme.RoleText)
		c.bg = ctx.Theme.Color(theme.RoleBackground)
	}
	if c.closed || c.initFn == nil {
		return nil
	}
	if _, err := c.call("init", c.initFn, c.initTable()); err != nil {
		return err
	}
	return nil
}

// Destroy drops any bus subscriptions held on the component's behalf
// and closes the Lua state. Hooks stop running afterwards.
func (c *Component) Destroy() {
	if c.ctx != nil && c.ctx.Bus != nil {
		c.ctx.Bus.UnsubscribeAll(c.View())
	}
	if !c.closed {
		c.closed = true
		c.L.Close()
	}
}

// CanFocus reports true when the script listens for events, so keys
// can reach its on_event hook.
func (c *Component) CanFocus() bool {
	return c.eventFn != nil
}

func (c *Component) draw(_ *view.View, dc *display.Context) {
	if c.closed || c.drawFn == nil {
		return
	}
	dc.SetColors(c.fg, c.bg)
	c.dc = dc
	_, err := c.call("draw", c.drawFn)
	c.dc = nil
	if err != nil {
		c.fail("draw", err)
		return
	}
	c.ok("draw")
}

func (c *Component) update(*view.View) {
	if c.closed || c.updateFn == nil {
		return
	}
	if _, err := c.call("update", c.updateFn); err != nil {
		c.fail("update", err)
		return
	}
	c.ok("update")
}

func (c *Component) handleEvent(_ *view.View, ev event.Event) bool {
	if c.closed || c.eventFn == nil {
		return false
	}
	ret, err := c.call("on_event", c.eventFn, c.eventTable(ev))
	if err != nil {
		c.fail("on_event", err)
		return false
	}
	c.ok("on_event")
	return lua.LVAsBool(ret)
}

// call pushes fn and args, runs it with panic recovery, and returns
// the first result. The stack is restored on every path.
func (c *Component) call(hook string, fn *lua.LFunction, args ...lua.LValue) (lua.LValue, error) {
	top := c.L.GetTop()
	c.L.Push(fn)
	for _, a := range args {
		c.L.Push(a)
	}

	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("lua panic: %v", r)
			}
		}()
		err = c.L.PCall(len(args), lua.MultRet, nil)
	}()
	if err != nil {
		c.L.SetTop(top)
		return lua.LNil, &HandlerError{Owner: c.id, Type: hook, Err: err}
	}

	ret := lua.LValue(lua.LNil)
	if n := c.L.GetTop() - top; n > 0 {
		ret = c.L.Get(top + 1)
		c.L.Pop(n)
	}
	return ret, nil
}

// fail logs a hook error once per distinct message so a broken draw
// hook does not flood the log at frame rate.
func (c *Component) fail(hook string, err error) {
	msg := err.Error()
	if c.lastErr[hook] == msg {
		return
	}
	c.lastErr[hook] = msg
	c.log.Warn("%v", err)
}

func (c *Component) ok(hook string) {
	delete(c.lastErr, hook)
}

func (c *Component) initTable() *lua.LTable {
	t := c.L.NewTable()
	t.RawSetString("id", lua.LString(c.id))
	if c.ctx != nil && c.ctx.Grid != nil {
		sz := c.View().PixelBounds(c.ctx.Grid).Size()
		t.RawSetString("width", lua.LNumber(sz.W))
		t.RawSetString("height", lua.LNumber(sz.H))
	}
	if c.ctx != nil && c.ctx.Ticks != nil {
		t.RawSetString("millis", lua.LNumber(c.ctx.Ticks.Millis()))
	}
	return t
}

var eventNames = map[event.Type]string{
	event.MouseDown:   "mouse_down",
	event.MouseUp:     "mouse_up",
	event.MouseMove:   "mouse_move",
	event.MouseEnter:  "mouse_enter",
	event.MouseLeave:  "mouse_leave",
	event.KeyDown:     "key_down",
	event.KeyUp:       "key_up",
	event.FocusGained: "focus_gained",
	event.FocusLost:   "focus_lost",
}

// eventTable renders an event for the script. Pointer coordinates are
// local to the component's view.
func (c *Component) eventTable(ev event.Event) *lua.LTable {
	name, known := eventNames[ev.Type]
	if !known {
		name = strings.ToLower(ev.Type.String())
	}

	t := c.L.NewTable()
	t.RawSetString("type", lua.LString(name))
	switch {
	case ev.Type.IsMouse():
		x, y := ev.X, ev.Y
		if c.ctx != nil && c.ctx.Grid != nil {
			px := c.View().PixelBounds(c.ctx.Grid)
			x -= px.X
			y -= px.Y
		}
		t.RawSetString("x", lua.LNumber(x))
		t.RawSetString("y", lua.LNumber(y))
		t.RawSetString("button", lua.LString(strings.ToLower(ev.Button.String())))
	case ev.Type.IsKey():
		t.RawSetString("key", lua.LString(strings.ToLower(ev.Key.String())))
		if ev.Key == input.KeyRune {
			t.RawSetString("rune", lua.LString(string(ev.Rune)))
		}
		t.RawSetString("shift", lua.LBool(ev.Mod.Has(input.ModShift)))
		t.RawSetString("ctrl", lua.LBool(ev.Mod.Has(input.ModCtrl)))
		t.RawSetString("alt", lua.LBool(ev.Mod.Has(input.ModAlt)))
	}
	return t
}

// install registers the tessera module in the script environment.
func (c *Component) install() {
	mod := c.L.SetFuncs(c.L.NewTable(), map[string]lua.LGFunction{
		"set_color":  c.luaSetColor,
		"fill_rect":  c.luaFillRect,
		"draw_rect":  c.luaDrawRect,
		"draw_line":  c.luaDrawLine,
		"draw_text":  c.luaDrawText,
		"size":       c.luaSize,
		"invalidate": c.luaInvalidate,
		"log":        c.luaLog,
	})
	mod.RawSetString("cell_w", lua.LNumber(grid.CellWidth))
	mod.RawSetString("cell_h", lua.LNumber(grid.CellHeight))
	c.L.SetGlobal("tessera", mod)
}

func (c *Component) luaSetColor(L *lua.LState) int {
	c.fg = display.Color(L.CheckInt(1) & 0x0f)
	if L.GetTop() >= 2 {
		c.bg = display.Color(L.CheckInt(2) & 0x0f)
	}
	c.penSet = true
	if c.dc != nil {
		c.dc.SetColors(c.fg, c.bg)
	}
	return 0
}

func (c *Component) luaFillRect(L *lua.LState) int {
	if c.dc == nil {
		return 0
	}
	c.dc.FillRect(geom.NewRect(L.CheckInt(1), L.CheckInt(2), L.CheckInt(3), L.CheckInt(4)))
	return 0
}

func (c *Component) luaDrawRect(L *lua.LState) int {
	if c.dc == nil {
		return 0
	}
	c.dc.DrawRect(geom.NewRect(L.CheckInt(1), L.CheckInt(2), L.CheckInt(3), L.CheckInt(4)))
	return 0
}

func (c *Component) luaDrawLine(L *lua.LState) int {
	if c.dc == nil {
		return 0
	}
	c.dc.DrawLine(L.CheckInt(1), L.CheckInt(2), L.CheckInt(3), L.CheckInt(4))
	return 0
}

func (c *Component) luaDrawText(L *lua.LState) int {
	if c.dc == nil || c.ctx == nil || c.ctx.Resources == nil {
		return 0
	}
	x, y := L.CheckInt(1), L.CheckInt(2)
	s := L.CheckString(3)
	c.dc.DrawText(c.ctx.Resources.DefaultFace(), s, geom.Pt(x, y))
	return 0
}

func (c *Component) luaSize(L *lua.LState) int {
	var sz geom.Size
	switch {
	case c.dc != nil:
		sz = c.dc.Clip().Size()
	case c.ctx != nil && c.ctx.Grid != nil:
		sz = c.View().PixelBounds(c.ctx.Grid).Size()
	}
	L.Push(lua.LNumber(sz.W))
	L.Push(lua.LNumber(sz.H))
	return 2
}

func (c *Component) luaInvalidate(*lua.LState) int {
	c.View().Invalidate()
	return 0
}

func (c *Component) luaLog(L *lua.LState) int {
	c.log.Info("%s", L.Get(1).String())
	return 0
}

var _ view.Interface = (*Component)(nil)
