package dispi

import (
	"github.com/tesseraos/tessera/internal/hw"
	"github.com/tesseraos/tessera/internal/logging"
)

// FallbackAddr is the linear framebuffer address assumed when no
// display device is found on the PCI bus. Discovery is never fatal.
const FallbackAddr = 0xE0000000

// classDisplay is the PCI class code for display controllers.
const classDisplay = 0x03

// vendorVMware exposes its framebuffer through BAR1 instead of BAR0.
const vendorVMware = 0x15AD

// Discover scans PCI bus 0 for a display-class device and returns its
// linear framebuffer address. With no device present it returns
// FallbackAddr.
func Discover(ports hw.PortIO, log *logging.Logger) uint32 {
	if ports == nil {
		return FallbackAddr
	}

	for slot := uint8(0); slot < 32; slot++ {
		vd := pciRead32(ports, slot, 0x00)
		if vd == 0xFFFFFFFF {
			continue
		}
		class := pciRead32(ports, slot, 0x08) >> 24
		if class != classDisplay {
			continue
		}

		reg := uint32(0x10) // BAR0
		if uint16(vd) == vendorVMware {
			reg = 0x14 // BAR1
		}
		addr := pciRead32(ports, slot, reg) &^ 0xF

		log.Debug("display device %04x:%04x at slot %d, lfb %#x",
			uint16(vd), uint16(vd>>16), slot, addr)
		return addr
	}

	log.Warn("no display device on PCI bus 0, using fallback %#x", uint32(FallbackAddr))
	return FallbackAddr
}

// pciRead32 reads a configuration register via mechanism #1.
func pciRead32(ports hw.PortIO, slot uint8, reg uint32) uint32 {
	addr := 0x80000000 | uint32(slot)<<11 | (reg & 0xFC)
	ports.Out32(hw.PortPCIAddress, addr)
	return ports.In32(hw.PortPCIData)
}
