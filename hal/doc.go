// Package hal defines the Hardware Abstraction Layer consumed by the
// softuart driver.
//
// The driver core never touches hardware directly. It is handed a
// [Descriptor] by the enumeration layer and obtains everything else
// through it:
//
//   - [RegisterWindow]: 32-bit register access at word-aligned indices
//   - [ClockSource]: the peripheral input clock in Hz
//   - [PowerDomain]: enable/disable of the power-gated region
//
// # Implementing a HAL
//
// Two implementations ship with the module:
//
//   - [github.com/ardnew/softuart/hal/linux] maps the register file from
//     /dev/mem, reads the clock from the flattened device tree, and drives
//     runtime power management through sysfs.
//   - [github.com/ardnew/softuart/hal/sim] emulates the register file in
//     memory and records every access, for tests and dry runs.
//
// A new platform implements [Descriptor] and returns its own window,
// clock, and power domain from it.
package hal
