package event

import (
	"testing"

	"github.com/tesseraos/tessera/internal/input"
)

func TestTypeClassification(t *testing.T) {
	mouse := []Type{MouseDown, MouseUp, MouseMove, MouseEnter, MouseLeave}
	for _, typ := range mouse {
		if !typ.IsMouse() || typ.IsKey() {
			t.Errorf("%v: IsMouse %v IsKey %v", typ, typ.IsMouse(), typ.IsKey())
		}
	}

	for _, typ := range []Type{KeyDown, KeyUp} {
		if typ.IsMouse() || !typ.IsKey() {
			t.Errorf("%v: IsMouse %v IsKey %v", typ, typ.IsMouse(), typ.IsKey())
		}
	}

	if Type(-1).Valid() || Type(int(typeCount)).Valid() {
		t.Error("out-of-range types reported valid")
	}
	if !FocusGained.Valid() {
		t.Error("FocusGained invalid")
	}
}

func TestEventString(t *testing.T) {
	ev := NewMouse(MouseDown, 50, 60, input.ButtonLeft)
	if got := ev.String(); got != "MouseDown(50,60 Left)" {
		t.Errorf("mouse String = %q", got)
	}

	key := NewKey(KeyDown, input.KeyRune, 'x', input.ModCtrl)
	if got := key.String(); got != `KeyDown('x' Ctrl)` {
		t.Errorf("rune String = %q", got)
	}

	enter := NewKey(KeyUp, input.KeyEnter, 0, input.ModNone)
	if got := enter.String(); got != "KeyUp(Enter)" {
		t.Errorf("special String = %q", got)
	}
}

func TestPos(t *testing.T) {
	ev := NewMouse(MouseMove, 7, 9, input.ButtonNone)
	if x, y := ev.Pos(); x != 7 || y != 9 {
		t.Errorf("Pos = (%d, %d)", x, y)
	}
}
