package event

import (
	"fmt"

	"github.com/tesseraos/tessera/internal/input"
)

// Type identifies the kind of an event. The bus keys its subscription
// lists by Type, so the set is fixed.
type Type int

const (
	// MouseDown is a button press at a pixel position.
	MouseDown Type = iota

	// MouseUp is a button release at a pixel position.
	MouseUp

	// MouseMove is pointer movement with no button change.
	MouseMove

	// MouseEnter is synthesized when the pointer crosses into a view.
	MouseEnter

	// MouseLeave is synthesized when the pointer crosses out of a view.
	MouseLeave

	// KeyDown is a key press.
	KeyDown

	// KeyUp is a key release.
	KeyUp

	// FocusGained is delivered to a view receiving keyboard focus.
	FocusGained

	// FocusLost is delivered to a view losing keyboard focus.
	FocusLost

	typeCount
)

// String returns a human-readable event type name.
func (t Type) String() string {
	names := [...]string{
		"MouseDown", "MouseUp", "MouseMove", "MouseEnter", "MouseLeave",
		"KeyDown", "KeyUp", "FocusGained", "FocusLost",
	}
	if t >= 0 && int(t) < len(names) {
		return names[t]
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Valid reports whether t names a known event type.
func (t Type) Valid() bool {
	return t >= 0 && t < typeCount
}

// IsMouse reports whether t is a pointer event.
func (t Type) IsMouse() bool {
	return t >= MouseDown && t <= MouseLeave
}

// IsKey reports whether t is a keyboard event.
func (t Type) IsKey() bool {
	return t == KeyDown || t == KeyUp
}

// Event is a single input occurrence. Mouse events carry pixel
// coordinates and a button; key events carry key, rune and modifiers.
// Events are plain values and are copied freely.
type Event struct {
	Type Type

	// X, Y are screen pixel coordinates for mouse events.
	X, Y int

	// Button is set on MouseDown and MouseUp.
	Button input.Button

	// Key identifies the pressed key; KeyRune for characters.
	Key input.Key

	// Rune is the character for KeyRune events.
	Rune rune

	// Mod is the modifier mask held during the event.
	Mod input.Mod
}

// NewMouse builds a mouse event.
func NewMouse(t Type, x, y int, button input.Button) Event {
	return Event{Type: t, X: x, Y: y, Button: button}
}

// NewKey builds a keyboard event.
func NewKey(t Type, key input.Key, r rune, mod input.Mod) Event {
	return Event{Type: t, Key: key, Rune: r, Mod: mod}
}

// Pos returns the event's pixel coordinates.
func (e Event) Pos() (x, y int) {
	return e.X, e.Y
}

// String returns a compact description for logs.
func (e Event) String() string {
	switch {
	case e.Type.IsMouse():
		return fmt.Sprintf("%s(%d,%d %s)", e.Type, e.X, e.Y, e.Button)
	case e.Type.IsKey():
		name := e.Key.String()
		if e.Key == input.KeyRune {
			name = fmt.Sprintf("%q", e.Rune)
		}
		if e.Mod != input.ModNone {
			name += " " + e.Mod.String()
		}
		return fmt.Sprintf("%s(%s)", e.Type, name)
	default:
		return e.Type.String()
	}
}
