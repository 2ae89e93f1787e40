package uart

import (
	"fmt"

	"github.com/ardnew/softuart/hal"
	"github.com/ardnew/softuart/pkg"
)

// noCopy flags copies of the containing struct under go vet's copylocks
// check.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Handle owns a mapped register window for the lifetime of one attached
// device. Only *Handle is passed around; a Handle must not be copied.
//
// A Handle is not safe for concurrent use. Callers serialize access per
// device.
type Handle struct {
	noCopy noCopy

	window   hal.RegisterWindow
	count    uint32 // Register slots addressable through window
	released bool
}

// NewHandle takes ownership of window. The window must cover at least
// NumRegisters slots.
func NewHandle(window hal.RegisterWindow) (*Handle, error) {
	if window == nil {
		return nil, fmt.Errorf("nil register window: %w", pkg.ErrInvalidParameter)
	}
	count := window.Size() / hal.RegisterWidth
	if count < NumRegisters {
		return nil, fmt.Errorf("register window of %d bytes, need %d: %w",
			window.Size(), NumRegisters*hal.RegisterWidth, pkg.ErrInvalidParameter)
	}
	return &Handle{window: window, count: count}, nil
}

// Read returns the register at index offset.
//
// An offset outside the window or a released handle is a programming error
// and panics.
func (h *Handle) Read(offset uint32) uint32 {
	h.check(offset)
	return h.window.Read32(offset)
}

// Write stores value to the register at index offset. The argument order
// (value before offset) follows the kernel's writel.
func (h *Handle) Write(value, offset uint32) {
	h.check(offset)
	h.window.Write32(offset, value)
}

// Release invalidates h. The window itself is unmapped by whoever mapped
// it; after Release the handle no longer refers to it.
func (h *Handle) Release() {
	h.released = true
	h.window = nil
}

// Released reports whether Release has been called.
func (h *Handle) Released() bool { return h.released }

func (h *Handle) check(offset uint32) {
	if h.released {
		panic(pkg.ErrHandleReleased)
	}
	if offset >= h.count {
		panic(fmt.Sprintf("uart: register %d outside %d-slot window", offset, h.count))
	}
}
