package hal

// RegisterWidth is the size in bytes of one register slot. Register
// offsets passed to a [RegisterWindow] are indices into the window, and
// the byte address of index n is n*RegisterWidth.
const RegisterWidth = 4

// RegisterWindow is a mapped, contiguous range of 32-bit peripheral
// registers.
//
// Implementations must perform exactly one bus access per call and must
// not reorder, merge, or elide accesses: the target is live hardware, and
// a write to a command register is a side effect even when the same value
// is written twice in a row.
type RegisterWindow interface {
	// Read32 returns the register at index offset.
	Read32(offset uint32) uint32

	// Write32 stores value to the register at index offset.
	Write32(offset uint32, value uint32)

	// Size returns the extent of the window in bytes. The extent is fixed
	// when the window is mapped.
	Size() uint32
}

// ClockSource supplies the peripheral's input clock.
type ClockSource interface {
	// ClockFrequency returns the input clock in Hz, or an error when the
	// platform description does not carry one.
	ClockFrequency() (uint32, error)
}

// PowerDomain gates power to the peripheral. Registers are only
// meaningful between Enable and Disable. Neither call reports failure.
type PowerDomain interface {
	Enable()
	Disable()
}

// Descriptor is the platform's view of one discovered peripheral, handed
// to a driver by the enumeration layer. It owns every resource it hands
// out: a mapped window stays valid until the descriptor itself releases
// it, independently of the driver.
type Descriptor interface {
	// Name returns a unique, human-readable device name.
	Name() string

	// Compatible returns the compatible strings of the device, most
	// specific first.
	Compatible() []string

	// Allocate reserves the per-device driver state.
	Allocate() error

	// MapRegisters maps the memory resource at index into a register
	// window.
	MapRegisters(index int) (RegisterWindow, error)

	// PowerDomain returns the power domain feeding the device.
	PowerDomain() PowerDomain

	// ClockSource returns the source of the device's input clock.
	ClockSource() ClockSource
}

// ClockFunc adapts an ordinary function to [ClockSource].
type ClockFunc func() (uint32, error)

// ClockFrequency calls f.
func (f ClockFunc) ClockFrequency() (uint32, error) { return f() }

// FixedClock is a [ClockSource] that always reports the same frequency.
type FixedClock uint32

// ClockFrequency returns c.
func (c FixedClock) ClockFrequency() (uint32, error) { return uint32(c), nil }
