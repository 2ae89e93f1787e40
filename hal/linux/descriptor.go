//go:build linux

package linux

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ardnew/softuart/hal"
	"github.com/ardnew/softuart/pkg"
)

// Descriptor is a hal.Descriptor for a platform UART on a Linux host. It
// reads its description from a device-tree node; every field can be
// overridden for boards whose tree lacks it.
type Descriptor struct {
	node       Node
	name       string
	compatible []string

	memPath  string
	sysfsDir string

	// Region overrides the reg property when size is non-zero.
	base uint64
	size uint32

	addressCells int
	sizeCells    int

	clock  hal.ClockSource
	window *Window
	power  *RuntimePower
}

// Option configures a Descriptor.
type Option func(*Descriptor)

// WithName overrides the device name.
func WithName(name string) Option {
	return func(d *Descriptor) { d.name = name }
}

// WithCompatible overrides the compatible property.
func WithCompatible(compatible ...string) Option {
	return func(d *Descriptor) { d.compatible = compatible }
}

// WithRegion overrides the reg property.
func WithRegion(base uint64, size uint32) Option {
	return func(d *Descriptor) { d.base, d.size = base, size }
}

// WithCells sets #address-cells and #size-cells of the parent bus. The
// default is one cell each.
func WithCells(addressCells, sizeCells int) Option {
	return func(d *Descriptor) { d.addressCells, d.sizeCells = addressCells, sizeCells }
}

// WithClock overrides the clock-frequency property.
func WithClock(hz uint32) Option {
	return func(d *Descriptor) { d.clock = hal.FixedClock(hz) }
}

// WithMemPath maps registers through path instead of MemPath.
func WithMemPath(path string) Option {
	return func(d *Descriptor) { d.memPath = path }
}

// WithSysfsDir sets the sysfs device directory used for runtime PM.
func WithSysfsDir(dir string) Option {
	return func(d *Descriptor) { d.sysfsDir = dir }
}

// NewDescriptor returns the descriptor of node. A zero Node is allowed
// when every property is supplied through options.
func NewDescriptor(node Node, opts ...Option) *Descriptor {
	d := &Descriptor{
		node:         node,
		memPath:      MemPath,
		addressCells: 1,
		sizeCells:    1,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.name == "" && node.Path != "" {
		d.name = node.Name()
	}
	if d.compatible == nil && node.Path != "" {
		d.compatible, _ = node.Strings(PropCompatible)
	}
	if d.clock == nil {
		d.clock = hal.ClockFunc(d.readClock)
	}
	if d.sysfsDir == "" {
		d.sysfsDir = filepath.Join(SysfsPlatformPath, platformDeviceName(d.name))
	}
	d.power = NewRuntimePower(d.sysfsDir)
	return d
}

// Name implements hal.Descriptor.
func (d *Descriptor) Name() string { return d.name }

// Compatible implements hal.Descriptor.
func (d *Descriptor) Compatible() []string { return d.compatible }

// Allocate implements hal.Descriptor. Driver state lives on the Go heap,
// so there is nothing to reserve.
func (d *Descriptor) Allocate() error { return nil }

// MapRegisters implements hal.Descriptor. The window is mapped on first
// use and shared by later calls until Close.
func (d *Descriptor) MapRegisters(index int) (hal.RegisterWindow, error) {
	if index != 0 {
		return nil, fmt.Errorf("resource %d: %w", index, pkg.ErrNoResource)
	}
	if d.window != nil {
		return d.window, nil
	}

	base, size := d.base, uint64(d.size)
	if size == 0 {
		if d.node.Path == "" {
			return nil, fmt.Errorf("%s: no reg and no device-tree node: %w", d.name, pkg.ErrNoResource)
		}
		var err error
		base, size, err = d.node.Reg(d.addressCells, d.sizeCells)
		if err != nil {
			return nil, err
		}
	}
	if size > 1<<32-1 {
		return nil, fmt.Errorf("reg size %#x: %w", size, pkg.ErrInvalidParameter)
	}

	w, err := MapWindow(d.memPath, base, uint32(size))
	if err != nil {
		return nil, err
	}
	d.window = w
	return w, nil
}

// PowerDomain implements hal.Descriptor.
func (d *Descriptor) PowerDomain() hal.PowerDomain { return d.power }

// ClockSource implements hal.Descriptor.
func (d *Descriptor) ClockSource() hal.ClockSource { return d.clock }

// Close unmaps the register window, if mapped.
func (d *Descriptor) Close() error {
	if d.window == nil {
		return nil
	}
	err := d.window.Close()
	d.window = nil
	return err
}

func (d *Descriptor) readClock() (uint32, error) {
	if d.node.Path == "" {
		return 0, fmt.Errorf("%s: no device-tree node", d.name)
	}
	return d.node.U32(PropClockFrequency)
}

// platformDeviceName converts a node name "serial@48022000" into the
// kernel's platform device name "48022000.serial".
func platformDeviceName(node string) string {
	name, unit, ok := strings.Cut(node, "@")
	if !ok {
		return node
	}
	return unit + "." + name
}
