package sim

import (
	"fmt"
	"sync"

	"github.com/ardnew/softuart/hal"
)

// Op is the direction of a recorded register access.
type Op uint8

// Access directions.
const (
	OpRead Op = iota
	OpWrite
)

// String returns a string representation of the access direction.
func (o Op) String() string {
	switch o {
	case OpRead:
		return "read"
	case OpWrite:
		return "write"
	default:
		return "unknown"
	}
}

// Access is one recorded register access.
type Access struct {
	Op     Op
	Offset uint32 // Register index
	Value  uint32 // Value read or written
}

func (a Access) String() string {
	return fmt.Sprintf("%s[%d]=%#x", a.Op, a.Offset, a.Value)
}

// ReadHook computes the value returned by the n-th read (starting at 0) of
// a register. stored is the last value written to the register or set by
// Preset.
type ReadHook func(n int, stored uint32) uint32

// Window is an in-memory register file implementing hal.RegisterWindow.
// Registers behave as plain storage unless a ReadHook is installed. Every
// access made through the hal.RegisterWindow methods is recorded.
type Window struct {
	mutex sync.Mutex

	regs  []uint32
	hooks map[uint32]ReadHook
	reads map[uint32]int
	log   []Access
}

// NewWindow returns a zeroed window of size bytes, rounded down to whole
// registers.
func NewWindow(size uint32) *Window {
	return &Window{
		regs:  make([]uint32, size/hal.RegisterWidth),
		hooks: make(map[uint32]ReadHook),
		reads: make(map[uint32]int),
	}
}

// Read32 implements hal.RegisterWindow.
func (w *Window) Read32(offset uint32) uint32 {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	w.bounds(offset)
	v := w.regs[offset]
	if hook, ok := w.hooks[offset]; ok {
		v = hook(w.reads[offset], v)
	}
	w.reads[offset]++
	w.log = append(w.log, Access{Op: OpRead, Offset: offset, Value: v})
	return v
}

// Write32 implements hal.RegisterWindow.
func (w *Window) Write32(offset uint32, value uint32) {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	w.bounds(offset)
	w.regs[offset] = value
	w.log = append(w.log, Access{Op: OpWrite, Offset: offset, Value: value})
}

// Size implements hal.RegisterWindow.
func (w *Window) Size() uint32 {
	return uint32(len(w.regs)) * hal.RegisterWidth
}

// Preset stores value without recording an access.
func (w *Window) Preset(offset, value uint32) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.bounds(offset)
	w.regs[offset] = value
}

// Peek returns the stored value of a register without recording an access
// or running its hook.
func (w *Window) Peek(offset uint32) uint32 {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.bounds(offset)
	return w.regs[offset]
}

// OnRead installs hook for reads of offset, replacing any previous hook.
func (w *Window) OnRead(offset uint32, hook ReadHook) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.bounds(offset)
	w.hooks[offset] = hook
	w.reads[offset] = 0
}

// Accesses returns a copy of the access log.
func (w *Window) Accesses() []Access {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return append([]Access(nil), w.log...)
}

// Writes returns the recorded writes in order.
func (w *Window) Writes() []Access {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	var out []Access
	for _, a := range w.log {
		if a.Op == OpWrite {
			out = append(out, a)
		}
	}
	return out
}

// Reads returns how many times offset has been read.
func (w *Window) Reads(offset uint32) int {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.reads[offset]
}

// ResetLog clears the access log and read counters. Register contents and
// hooks are kept.
func (w *Window) ResetLog() {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.log = nil
	clear(w.reads)
}

func (w *Window) bounds(offset uint32) {
	if offset >= uint32(len(w.regs)) {
		panic(fmt.Sprintf("sim: register %d outside %d-slot window", offset, len(w.regs)))
	}
}

// ReadyAfter returns a hook that reports busy for the first n reads and
// ready from read n+1 on.
func ReadyAfter(n int, busy, ready uint32) ReadHook {
	return func(i int, _ uint32) uint32 {
		if i < n {
			return busy
		}
		return ready
	}
}

// Constant returns a hook that always reports v, regardless of writes.
func Constant(v uint32) ReadHook {
	return func(int, uint32) uint32 { return v }
}
