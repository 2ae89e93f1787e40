//go:build !profile

package prof

// Profiling errors, never returned without the "profile" build tag.
var (
	ErrCPUProfileActive error
	ErrInvalidProfile   error
)

// Enabled reports whether the binary was built with profiling support.
const Enabled = false

// StartCPU is a no-op when built without the "profile" tag.
func StartCPU(_ string) error { return nil }

// StopCPU is a no-op when built without the "profile" tag.
func StopCPU() {}

// Write is a no-op when built without the "profile" tag.
func Write(_, _ string) error { return nil }
