package sim

import (
	"errors"
	"fmt"

	"github.com/ardnew/softuart/hal"
	"github.com/ardnew/softuart/pkg"
)

// ErrNoProperty is returned by the clock source of a descriptor created
// WithoutClock.
var ErrNoProperty = errors.New("property not present")

// DefaultWindowSize is the register window size used when no window is
// supplied: 0x1000 bytes, as on the AM335x UARTs.
const DefaultWindowSize = 0x1000

// Descriptor is a hal.Descriptor backed entirely by simulated resources.
type Descriptor struct {
	name       string
	compatible []string

	window *Window
	power  *Power
	clock  hal.ClockSource

	allocErr error
	mapErr   error

	allocs int
	maps   int
}

// Option configures a Descriptor.
type Option func(*Descriptor)

// WithWindow uses w as the device register file.
func WithWindow(w *Window) Option {
	return func(d *Descriptor) { d.window = w }
}

// WithPower uses p as the device power domain.
func WithPower(p *Power) Option {
	return func(d *Descriptor) { d.power = p }
}

// WithClock reports hz as the input clock.
func WithClock(hz uint32) Option {
	return func(d *Descriptor) { d.clock = hal.FixedClock(hz) }
}

// WithoutClock makes the clock source fail with ErrNoProperty.
func WithoutClock() Option {
	return func(d *Descriptor) {
		d.clock = hal.ClockFunc(func() (uint32, error) {
			return 0, fmt.Errorf("clock-frequency: %w", ErrNoProperty)
		})
	}
}

// WithAllocError makes Allocate fail with err.
func WithAllocError(err error) Option {
	return func(d *Descriptor) { d.allocErr = err }
}

// WithMapError makes MapRegisters fail with err.
func WithMapError(err error) Option {
	return func(d *Descriptor) { d.mapErr = err }
}

// NewDescriptor returns a descriptor named name. Without options it has a
// zeroed DefaultWindowSize window, a fresh power domain, and no clock.
func NewDescriptor(name string, compatible []string, opts ...Option) *Descriptor {
	d := &Descriptor{
		name:       name,
		compatible: compatible,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.window == nil {
		d.window = NewWindow(DefaultWindowSize)
	}
	if d.power == nil {
		d.power = NewPower(name)
	}
	if d.clock == nil {
		WithoutClock()(d)
	}
	return d
}

// Name implements hal.Descriptor.
func (d *Descriptor) Name() string { return d.name }

// Compatible implements hal.Descriptor.
func (d *Descriptor) Compatible() []string { return d.compatible }

// Allocate implements hal.Descriptor.
func (d *Descriptor) Allocate() error {
	d.allocs++
	return d.allocErr
}

// MapRegisters implements hal.Descriptor. Only resource 0 exists.
func (d *Descriptor) MapRegisters(index int) (hal.RegisterWindow, error) {
	if d.mapErr != nil {
		return nil, d.mapErr
	}
	if index != 0 {
		return nil, fmt.Errorf("resource %d: %w", index, pkg.ErrNoResource)
	}
	d.maps++
	return d.window, nil
}

// PowerDomain implements hal.Descriptor.
func (d *Descriptor) PowerDomain() hal.PowerDomain { return d.power }

// ClockSource implements hal.Descriptor.
func (d *Descriptor) ClockSource() hal.ClockSource { return d.clock }

// Window returns the simulated register file.
func (d *Descriptor) Window() *Window { return d.window }

// Power returns the simulated power domain.
func (d *Descriptor) Power() *Power { return d.power }

// Allocations returns how many times Allocate was called.
func (d *Descriptor) Allocations() int { return d.allocs }

// Mappings returns how many windows were handed out.
func (d *Descriptor) Mappings() int { return d.maps }
