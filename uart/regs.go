package uart

// Register indices of the OMAP-style 16550 register file. These are slot
// numbers, not byte offsets; the byte offset is index*hal.RegisterWidth.
// Several slots are shared and selected by LCR.DLAB.
const (
	RegTX   uint32 = 0 // Transmit holding register (write, DLAB=0)
	RegDLL  uint32 = 0 // Divisor latch low (DLAB=1)
	RegDLM  uint32 = 1 // Divisor latch high (DLAB=1)
	RegFCR  uint32 = 2 // FIFO control (write)
	RegLCR  uint32 = 3 // Line control
	RegLSR  uint32 = 5 // Line status (read)
	RegMDR1 uint32 = 8 // Mode definition 1 (OMAP)
)

// NumRegisters is the number of register slots the driver touches. A
// window smaller than NumRegisters*hal.RegisterWidth bytes cannot host the
// device.
const NumRegisters = RegMDR1 + 1

// Line control register bits.
const (
	LCRWordLen5 uint32 = 0x00 // 5 data bits
	LCRWordLen8 uint32 = 0x03 // 8 data bits
	LCRDLAB     uint32 = 0x80 // Divisor latch access
)

// FIFO control register bits.
const (
	FCREnable    uint32 = 0x01 // Enable FIFOs
	FCRClearRecv uint32 = 0x02 // Clear receive FIFO
	FCRClearXmit uint32 = 0x04 // Clear transmit FIFO

	FCRClearBoth = FCRClearRecv | FCRClearXmit
)

// Line status register bits.
const (
	LSRDataReady uint32 = 0x01 // Receiver data ready
	LSRTHRE      uint32 = 0x20 // Transmit holding register empty
	LSRTEMT      uint32 = 0x40 // Transmitter empty
)

// MDR1 mode values.
const (
	MDR1Mode16x    uint32 = 0x00 // UART 16x mode
	MDR1ModeConfig uint32 = 0x07 // Disabled, used while reprogramming the divisor
)
