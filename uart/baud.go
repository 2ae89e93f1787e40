package uart

import (
	"fmt"

	"github.com/ardnew/softuart/hal"
	"github.com/ardnew/softuart/pkg"
)

// BaudRate is the line rate programmed at attach.
const BaudRate = 115200

// oversample is the number of clock cycles per bit in 16x mode.
const oversample = 16

// Divisor returns the divisor latch value that yields BaudRate from an
// input clock of clock Hz. The result always fits the 16-bit latch.
func Divisor(clock uint32) uint16 {
	return uint16(DivisorFor(clock, BaudRate))
}

// DivisorFor returns clock/16/baud using floor division. A zero baud
// yields zero.
func DivisorFor(clock, baud uint32) uint32 {
	if baud == 0 {
		return 0
	}
	return clock / oversample / baud
}

// ConfigureBaudRate programs the divisor latch for BaudRate using the
// frequency reported by clk, and leaves the line at 8 data bits.
//
// If clk cannot report a frequency the error wraps
// pkg.ErrMissingClockFrequency and no register is written. A zero divisor
// is written as is.
func ConfigureBaudRate(h *Handle, clk hal.ClockSource) error {
	hz, err := clk.ClockFrequency()
	if err != nil {
		return fmt.Errorf("%w: %w", pkg.ErrMissingClockFrequency, err)
	}
	ProgramDivisor(h, Divisor(hz))
	return nil
}

// ProgramDivisor runs the divisor latch sequence. The order is fixed by
// the hardware: MDR1 must hold the UART in its disabled mode while DLAB
// is set, and the final LCR write drops DLAB.
func ProgramDivisor(h *Handle, divisor uint16) {
	pkg.LogDebug(pkg.ComponentUART, "programming divisor", "divisor", divisor)

	h.Write(MDR1ModeConfig, RegMDR1)
	h.Write(LCRWordLen5, RegLCR)
	h.Write(LCRDLAB, RegLCR)
	h.Write(uint32(divisor)&0xff, RegDLL)
	h.Write(uint32(divisor>>8)&0xff, RegDLM)
	h.Write(LCRWordLen8, RegLCR)
	h.Write(MDR1Mode16x, RegMDR1)
}

// ClearFIFOs discards the contents of both hardware FIFOs with a single
// FCR write.
func ClearFIFOs(h *Handle) {
	h.Write(FCRClearBoth, RegFCR)
}
