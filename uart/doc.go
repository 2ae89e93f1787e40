// Package uart implements register-level control of an OMAP-style 16550
// UART: divisor programming, FIFO reset, and polled transmission.
//
// Every operation goes through a [Handle], which owns the mapped register
// window of one device:
//
//	h, err := uart.NewHandle(window)
//	if err != nil {
//	    return err
//	}
//	if err := uart.ConfigureBaudRate(h, clock); err != nil {
//	    return err
//	}
//	uart.ClearFIFOs(h)
//	uart.WriteChar(h, uart.Sentinel)
//
// Register writes are issued in program order with no batching. Nothing in
// this package takes locks; callers serialize access per handle.
//
// # Polling
//
// [WriteChar] spins on the THRE bit of the line status register with no
// timeout. [WriteCharContext] accepts a [Poller], so a caller may opt into
// [ContextPoller] to bound the wait without changing the default.
package uart
