package hw

// Sim is an in-memory machine: framebuffer bytes, a DAC that latches
// 6-bit channel writes, a toggling retrace bit, and a tiny PCI
// configuration space. Hosts embed one; tests drive it directly.
// A Sim is confined to the compositor loop and takes no locks.
type Sim struct {
	buf    []byte
	stride int
	w, h   int

	dacIndex uint8
	dacPhase int
	dacLatch [3]uint8
	palette  [256]RGB

	statusFlip bool
	pciAddr    uint32
	pciDevs    map[uint8]*pciDevice

	ticks uint64

	out8Log []Write
}

// Write records a single 8-bit port write, in order.
type Write struct {
	Port  uint16
	Value uint8
}

type pciDevice struct {
	vendorDevice uint32
	classReg     uint32
	bars         [6]uint32
}

// NewSim creates a simulated machine with a w×h byte framebuffer.
func NewSim(w, h int) *Sim {
	return &Sim{
		buf:     make([]byte, w*h),
		stride:  w,
		w:       w,
		h:       h,
		pciDevs: make(map[uint8]*pciDevice),
	}
}

// Bytes returns the framebuffer storage.
func (s *Sim) Bytes() []byte { return s.buf }

// Stride returns the framebuffer row stride in bytes.
func (s *Sim) Stride() int { return s.stride }

// Size returns the framebuffer dimensions.
func (s *Sim) Size() (w, h int) { return s.w, s.h }

// Millis returns the simulated tick counter.
func (s *Sim) Millis() uint64 { return s.ticks }

// Advance moves the simulated tick counter forward.
func (s *Sim) Advance(ms uint64) { s.ticks += ms }

// AddDisplayDevice registers a display-class PCI device at the given
// bus-0 slot with the supplied base address registers.
func (s *Sim) AddDisplayDevice(slot uint8, vendor, device uint16, bars ...uint32) {
	dev := &pciDevice{
		vendorDevice: uint32(device)<<16 | uint32(vendor),
		classReg:     0x03 << 24,
	}
	for i, b := range bars {
		if i >= len(dev.bars) {
			break
		}
		dev.bars[i] = b
	}
	s.pciDevs[slot&0x1F] = dev
}

// Palette returns the 16 resolved palette entries, 6-bit DAC values
// expanded to full range.
func (s *Sim) Palette() [16]RGB {
	var p [16]RGB
	copy(p[:], s.palette[:16])
	return p
}

// PaletteEntry returns one resolved palette entry.
func (s *Sim) PaletteEntry(i uint8) RGB {
	return s.palette[i]
}

// Out8Log returns every 8-bit port write seen so far, in order.
func (s *Sim) Out8Log() []Write {
	out := make([]Write, len(s.out8Log))
	copy(out, s.out8Log)
	return out
}

// In8 reads an 8-bit port.
func (s *Sim) In8(port uint16) uint8 {
	switch port {
	case PortInputStatus1:
		// Retrace bit alternates so bounded vsync polls terminate.
		s.statusFlip = !s.statusFlip
		if s.statusFlip {
			return VSyncBit
		}
		return 0
	default:
		return 0
	}
}

// Out8 writes an 8-bit port.
func (s *Sim) Out8(port uint16, v uint8) {
	s.out8Log = append(s.out8Log, Write{Port: port, Value: v})

	switch port {
	case PortDACWriteIndex:
		s.dacIndex = v
		s.dacPhase = 0
	case PortDACData:
		s.dacLatch[s.dacPhase] = v & 0x3F
		s.dacPhase++
		if s.dacPhase == 3 {
			s.palette[s.dacIndex] = RGB{
				R: expand6(s.dacLatch[0]),
				G: expand6(s.dacLatch[1]),
				B: expand6(s.dacLatch[2]),
			}
			s.dacIndex++
			s.dacPhase = 0
		}
	}
}

// In16 reads a 16-bit port.
func (s *Sim) In16(port uint16) uint16 {
	return uint16(s.In32(port))
}

// Out16 writes a 16-bit port.
func (s *Sim) Out16(port uint16, v uint16) {
	s.Out32(port, uint32(v))
}

// In32 reads a 32-bit port.
func (s *Sim) In32(port uint16) uint32 {
	if port != PortPCIData {
		return 0
	}
	if s.pciAddr&0x80000000 == 0 {
		return 0xFFFFFFFF
	}
	bus := (s.pciAddr >> 16) & 0xFF
	slot := uint8((s.pciAddr >> 11) & 0x1F)
	reg := s.pciAddr & 0xFC
	if bus != 0 {
		return 0xFFFFFFFF
	}
	dev, ok := s.pciDevs[slot]
	if !ok {
		return 0xFFFFFFFF
	}
	switch reg {
	case 0x00:
		return dev.vendorDevice
	case 0x08:
		return dev.classReg
	default:
		if reg >= 0x10 && reg <= 0x24 {
			return dev.bars[(reg-0x10)/4]
		}
		return 0
	}
}

// Out32 writes a 32-bit port.
func (s *Sim) Out32(port uint16, v uint32) {
	if port == PortPCIAddress {
		s.pciAddr = v
	}
}

// expand6 widens a 6-bit DAC channel to the full 8-bit range.
func expand6(v uint8) uint8 {
	return v<<2 | v>>4
}
