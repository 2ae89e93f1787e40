// Package pkg provides shared utilities for the softuart driver.
//
// This package contains common functionality used by the UART core, the
// driver lifecycle, and the hardware backends, including:
//
//   - Structured logging via Go's standard [log/slog] package
//   - Sentinel errors and the typed attach errors [ConfigError] and
//     [ResourceError]
//   - Component identifiers for log filtering
//
// # Logging
//
// The logging subsystem wraps [log/slog] with a component attribute. The
// shared logger writes text to stderr at warn level until the command
// configures it:
//
//	pkg.ConfigureLogging(pkg.LogOptions{Level: slog.LevelDebug, Format: pkg.LogFormatJSON})
//	pkg.LogInfo(pkg.ComponentDriver, "device attached", "device", "serial@48022000")
//
// # Errors
//
// Attach failures are reported as typed values that wrap a sentinel:
//
//	var rerr *pkg.ResourceError
//	if errors.As(err, &rerr) && rerr.Kind == pkg.ResourceMap {
//	    // register window could not be mapped
//	}
//
//	if errors.Is(err, pkg.ErrMissingClockFrequency) {
//	    // device tree lacks a clock-frequency property
//	}
package pkg
