// Package sim provides a simulated HAL for the softuart driver.
//
// The simulated register file records every access in order, so tests can
// assert on the exact write sequence a driver issues:
//
//	w := sim.NewWindow(sim.DefaultWindowSize)
//	w.OnRead(5, sim.ReadyAfter(3, 0x00, 0x60)) // LSR busy for three reads
//
//	d := sim.NewDescriptor("serial0", []string{"bootlin,serial"},
//	    sim.WithWindow(w), sim.WithClock(48_000_000))
//
// Registers behave as plain storage: a read returns the last value
// written unless a [ReadHook] overrides it. No bank switching (for example
// on LCR.DLAB) is modelled.
package sim
