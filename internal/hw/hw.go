// Package hw defines the hardware boundary of the compositor: the
// framebuffer memory, the I/O ports, and the tick counter of the
// underlying machine. Hosts supply implementations; the compositor
// core only ever talks to these interfaces.
package hw

import "time"

// Well-known I/O ports consumed by the display driver.
const (
	// PortDACWriteIndex selects the palette entry for subsequent DAC writes.
	PortDACWriteIndex = 0x3C8
	// PortDACData receives three sequential 6-bit channel writes per entry.
	PortDACData = 0x3C9
	// PortInputStatus1 exposes the vertical retrace bit (bit 3).
	PortInputStatus1 = 0x3DA
	// PortPCIAddress selects a PCI configuration register (mechanism #1).
	PortPCIAddress = 0xCF8
	// PortPCIData reads/writes the selected PCI configuration register.
	PortPCIData = 0xCFC
)

// VSyncBit is the vertical retrace flag in input status register 1.
const VSyncBit = 0x08

// Framebuffer is a byte-addressable pixel buffer. It is mapped, not
// owned: the driver writes into it but never allocates or frees it.
type Framebuffer interface {
	// Bytes returns the backing pixel storage, one byte per pixel.
	Bytes() []byte
	// Stride returns the byte offset between the starts of adjacent rows.
	Stride() int
	// Size returns the pixel dimensions of the buffer.
	Size() (w, h int)
}

// PortIO performs port-mapped I/O. Hosts emulate the handful of ports
// the driver touches (DAC, status, PCI configuration space).
type PortIO interface {
	In8(port uint16) uint8
	Out8(port uint16, v uint8)
	In16(port uint16) uint16
	Out16(port uint16, v uint16)
	In32(port uint16) uint32
	Out32(port uint16, v uint32)
}

// TickSource is a read-only monotonic millisecond counter. The
// compositor core never reads it; components needing timing poll it.
type TickSource interface {
	Millis() uint64
}

// RGB is a full-range 8-bit color triple.
type RGB struct {
	R, G, B uint8
}

// Clock is a wall-clock TickSource for real hosts.
type Clock struct {
	start time.Time
}

// NewClock creates a Clock counting from now.
func NewClock() *Clock {
	return &Clock{start: time.Now()}
}

// Millis returns milliseconds elapsed since the clock was created.
func (c *Clock) Millis() uint64 {
	return uint64(time.Since(c.start).Milliseconds())
}
