// Package driver implements the lifecycle of the serial platform driver
// and the registry through which the enumeration layer reaches it.
//
// A driver is registered explicitly, once, at startup:
//
//	drv := driver.New()
//	if err := driver.Register(driver.DefaultRegistry, drv); err != nil {
//	    return err
//	}
//
// The enumeration layer then hands each discovered device to the
// registry, which matches compatible strings and runs the driver's
// Attach:
//
//	if err := driver.DefaultRegistry.Probe(desc); err != nil {
//	    return err
//	}
//	defer driver.DefaultRegistry.Remove(desc)
//
// # Attach
//
// Attach reserves driver state, maps register resource 0, enables the
// power domain, programs 115200 baud 8N1, clears both FIFOs, and writes
// one sentinel byte. If the clock frequency cannot be read, the power
// domain is disabled again and a *pkg.ConfigError is returned.
//
// # Detach
//
// Detach disables the power domain and invalidates the handle without
// touching any register. A second Detach for the same attach returns
// pkg.ErrNotAttached and does not disable the domain again.
package driver
