package host

import (
	"testing"

	"github.com/tesseraos/tessera/internal/display/dispi"
	"github.com/tesseraos/tessera/internal/event"
	"github.com/tesseraos/tessera/internal/geom"
	"github.com/tesseraos/tessera/internal/hw"
	"github.com/tesseraos/tessera/internal/input"
)

func TestMemoryHostBootsDriver(t *testing.T) {
	m := NewMemory(dispi.Width, dispi.Height)
	if err := m.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer m.Shutdown()

	if w, h := m.Size(); w != dispi.Width || h != dispi.Height {
		t.Fatalf("Size = %dx%d, want %dx%d", w, h, dispi.Width, dispi.Height)
	}

	if _, err := dispi.New(m.Framebuffer(), m.Ports()); err != nil {
		t.Fatalf("dispi.New: %v", err)
	}

	// Discovery saw the advertised device and the driver programmed
	// the DAC through the ports.
	want := hw.RGB{R: 0xFF, G: 0xFF, B: 0xFF}
	if got := m.Sim().PaletteEntry(15); got != want {
		t.Errorf("palette entry 15 = %+v, want %+v", got, want)
	}
}

func TestMemoryInjectAndPoll(t *testing.T) {
	m := NewMemory(64, 48)

	m.Inject(event.NewMouse(event.MouseDown, 3, 4, input.ButtonLeft))
	m.Inject(event.NewKey(event.KeyDown, input.KeyRune, 'a', input.ModNone))

	first := <-m.Poll()
	if first.Type != event.MouseDown || first.X != 3 || first.Y != 4 {
		t.Fatalf("first event = %s, want MouseDown(3,4)", first)
	}
	second := <-m.Poll()
	if second.Type != event.KeyDown || second.Rune != 'a' {
		t.Fatalf("second event = %s, want KeyDown 'a'", second)
	}
}

func TestMemoryInjectDropsWhenFull(t *testing.T) {
	m := NewMemory(64, 48)

	for i := 0; i < eventQueueSize+8; i++ {
		m.Inject(event.NewMouse(event.MouseMove, i, 0, input.ButtonNone))
	}

	drained := 0
	for {
		select {
		case <-m.Poll():
			drained++
		default:
			if drained != eventQueueSize {
				t.Fatalf("drained %d events, want %d", drained, eventQueueSize)
			}
			return
		}
	}
}

func TestMemoryShutdownClosesPoll(t *testing.T) {
	m := NewMemory(64, 48)
	m.Shutdown()
	m.Shutdown()

	if _, ok := <-m.Poll(); ok {
		t.Fatal("Poll delivered an event after Shutdown")
	}

	// Late injects are ignored rather than panicking on the closed
	// channel.
	m.Inject(event.NewMouse(event.MouseMove, 1, 1, input.ButtonNone))
}

func TestMemoryPresentRecords(t *testing.T) {
	m := NewMemory(64, 48)

	m.Present(nil)
	if m.Frames() != 0 {
		t.Fatalf("Frames after empty present = %d, want 0", m.Frames())
	}

	m.Present([]geom.Rect{geom.NewRect(0, 0, 10, 10)})
	m.Present([]geom.Rect{geom.NewRect(5, 5, 2, 2), geom.NewRect(20, 20, 4, 4)})

	if m.Frames() != 2 {
		t.Errorf("Frames = %d, want 2", m.Frames())
	}
	last := m.LastPresent()
	if len(last) != 2 || !last[0].Equals(geom.NewRect(5, 5, 2, 2)) {
		t.Errorf("LastPresent = %v, want the second present's rects", last)
	}
}
