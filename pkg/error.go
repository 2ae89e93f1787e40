package pkg

import (
	"errors"
	"fmt"
)

// Driver errors.
var (
	// ErrMissingClockFrequency indicates the clock source could not supply
	// the peripheral input clock.
	ErrMissingClockFrequency = errors.New("clock-frequency not available")

	// ErrNoMemory indicates the per-device state could not be allocated.
	ErrNoMemory = errors.New("insufficient memory")

	// ErrMapRegisters indicates the register window could not be mapped.
	ErrMapRegisters = errors.New("register window not mapped")

	// ErrNoResource indicates the descriptor has no resource at the
	// requested index.
	ErrNoResource = errors.New("no such resource")

	// ErrHandleReleased indicates a register access through a handle whose
	// window has been released.
	ErrHandleReleased = errors.New("handle released")

	// ErrAlreadyAttached indicates attach was called for a device that is
	// already bound.
	ErrAlreadyAttached = errors.New("device already attached")

	// ErrNotAttached indicates detach was called for a device that is not
	// bound, including a second detach after a successful one.
	ErrNotAttached = errors.New("device not attached")

	// ErrAlreadyRegistered indicates a compatible string is already claimed
	// by another driver.
	ErrAlreadyRegistered = errors.New("driver already registered")

	// ErrNotRegistered indicates no driver is registered under a key.
	ErrNotRegistered = errors.New("driver not registered")

	// ErrNoMatch indicates no registered driver matches a descriptor.
	ErrNoMatch = errors.New("no matching driver")

	// ErrInvalidParameter indicates an invalid parameter was provided.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// ConfigError reports a configuration input that the attach sequence
// required but could not obtain.
type ConfigError struct {
	Device   string // Device name as reported by the descriptor
	Property string // Missing property, e.g. "clock-frequency"
	Err      error  // Underlying cause
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: property %q: %v", e.Device, e.Property, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// ResourceKind identifies which resource acquisition failed.
type ResourceKind int

// Resource kinds.
const (
	ResourceAllocate ResourceKind = iota // Per-device state allocation
	ResourceMap                          // Register window mapping
)

// String returns a string representation of the resource kind.
func (k ResourceKind) String() string {
	switch k {
	case ResourceAllocate:
		return "allocate"
	case ResourceMap:
		return "map"
	default:
		return "unknown"
	}
}

// ResourceError reports a failure to acquire a resource during attach.
// It matches both its kind sentinel and the collaborator's own error.
type ResourceError struct {
	Kind   ResourceKind
	Device string
	Err    error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Device, e.Kind, e.Err)
}

func (e *ResourceError) Unwrap() []error {
	return []error{e.Kind.sentinel(), e.Err}
}

func (k ResourceKind) sentinel() error {
	switch k {
	case ResourceAllocate:
		return ErrNoMemory
	default:
		return ErrMapRegisters
	}
}
