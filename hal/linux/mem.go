//go:build linux

package linux

import (
	"fmt"
	"os"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/ardnew/softuart/hal"
	"github.com/ardnew/softuart/pkg"
)

// Window is a hal.RegisterWindow backed by a shared mapping of physical
// memory. Accesses are single 32-bit atomic loads and stores, which the
// compiler neither elides nor reorders.
type Window struct {
	mapping []byte // Page-aligned mapping
	regs    []byte // Register window within mapping
	base    uint64
}

// MapWindow maps size bytes of physical memory at base through the memory
// device at path (normally MemPath). base must be 4-byte aligned.
func MapWindow(path string, base uint64, size uint32) (*Window, error) {
	if base%hal.RegisterWidth != 0 || size < hal.RegisterWidth {
		return nil, fmt.Errorf("map %#x+%#x: %w", base, size, pkg.ErrInvalidParameter)
	}

	fd, err := unix.Open(path, unix.O_RDWR|unix.O_SYNC|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, &os.PathError{Op: "open", Path: path, Err: err}
	}
	// The mapping outlives the descriptor.
	defer unix.Close(fd)

	page := uint64(unix.Getpagesize())
	pageBase := base &^ (page - 1)
	delta := base - pageBase
	length := int(delta) + int(size)

	mapping, err := unix.Mmap(fd, int64(pageBase), length, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap %s at %#x: %w", path, pageBase, err)
	}

	pkg.LogDebug(pkg.ComponentHAL, "register window mapped",
		"base", fmt.Sprintf("%#x", base), "size", size)

	return &Window{
		mapping: mapping,
		regs:    mapping[delta : delta+uint64(size)],
		base:    base,
	}, nil
}

// Read32 implements hal.RegisterWindow.
func (w *Window) Read32(offset uint32) uint32 {
	return atomic.LoadUint32(w.reg(offset))
}

// Write32 implements hal.RegisterWindow.
func (w *Window) Write32(offset uint32, value uint32) {
	atomic.StoreUint32(w.reg(offset), value)
}

// Size implements hal.RegisterWindow.
func (w *Window) Size() uint32 { return uint32(len(w.regs)) }

// Base returns the physical address of register 0.
func (w *Window) Base() uint64 { return w.base }

// Close unmaps the window. The window must not be used afterwards.
func (w *Window) Close() error {
	if w.mapping == nil {
		return nil
	}
	err := unix.Munmap(w.mapping)
	w.mapping, w.regs = nil, nil
	return err
}

func (w *Window) reg(offset uint32) *uint32 {
	at := uint64(offset) * hal.RegisterWidth
	if at+hal.RegisterWidth > uint64(len(w.regs)) {
		panic(fmt.Sprintf("linux: register %d outside %d-byte window", offset, len(w.regs)))
	}
	return (*uint32)(unsafe.Pointer(&w.regs[at]))
}
