package driver

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ardnew/softuart/hal"
	"github.com/ardnew/softuart/pkg"
	"github.com/ardnew/softuart/uart"
)

// Compatible is the device-tree compatible string the serial driver binds.
const Compatible = "bootlin,serial"

// Name is the driver name.
const Name = "serial"

// ClockProperty names the device-tree property holding the input clock.
const ClockProperty = "clock-frequency"

// Driver is the serial platform driver. One Driver serves any number of
// devices; each attached device gets its own uart.Handle.
type Driver struct {
	name       string
	compatible []string
	poller     uart.Poller

	mutex   sync.Mutex
	devices map[string]*device // nil value: attach in progress
}

// device is the per-device state reserved at attach.
type device struct {
	handle *uart.Handle
	power  hal.PowerDomain
	log    *slog.Logger
}

// Option configures a Driver.
type Option func(*Driver)

// WithPoller sets the poller used for the attach-time sentinel byte. The
// default is uart.SpinPoller, which never gives up.
func WithPoller(p uart.Poller) Option {
	return func(d *Driver) { d.poller = p }
}

// WithCompatible replaces the compatible strings the driver binds.
func WithCompatible(compatible ...string) Option {
	return func(d *Driver) { d.compatible = compatible }
}

// New returns the serial driver.
func New(opts ...Option) *Driver {
	d := &Driver{
		name:       Name,
		compatible: []string{Compatible},
		poller:     uart.SpinPoller{},
		devices:    make(map[string]*device),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Name returns the driver name.
func (d *Driver) Name() string { return d.name }

// Compatible returns the compatible strings the driver binds.
func (d *Driver) Compatible() []string { return d.compatible }

// Attach brings up the device described by desc: it reserves driver
// state, maps the register window, powers the device, programs the baud
// rate, clears the FIFOs, and transmits uart.Sentinel.
//
// Resource failures are returned as *pkg.ResourceError with nothing to
// undo. A missing clock is returned as *pkg.ConfigError after the power
// domain has been disabled again.
func (d *Driver) Attach(desc hal.Descriptor) error {
	name := desc.Name()
	log := pkg.Logger(pkg.ComponentDriver, "device", name)
	log.Debug("attach")

	if !d.reserve(name) {
		return pkg.ErrAlreadyAttached
	}
	dev, err := d.bringUp(desc, log)
	d.mutex.Lock()
	if err != nil {
		delete(d.devices, name)
	} else {
		d.devices[name] = dev
	}
	d.mutex.Unlock()
	if err != nil {
		return err
	}

	log.Info("attached", "baud", uart.BaudRate)
	return nil
}

// reserve claims name for an attach in progress. It fails if the device is
// attached or another attach of it is running.
func (d *Driver) reserve(name string) bool {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if _, ok := d.devices[name]; ok {
		return false
	}
	d.devices[name] = nil
	return true
}

// bringUp runs the attach sequence for a reserved device. On error every
// step already taken has been undone.
func (d *Driver) bringUp(desc hal.Descriptor, log *slog.Logger) (*device, error) {
	name := desc.Name()

	if err := desc.Allocate(); err != nil {
		return nil, &pkg.ResourceError{Kind: pkg.ResourceAllocate, Device: name, Err: err}
	}

	window, err := desc.MapRegisters(0)
	if err != nil {
		return nil, &pkg.ResourceError{Kind: pkg.ResourceMap, Device: name, Err: err}
	}
	h, err := uart.NewHandle(window)
	if err != nil {
		return nil, &pkg.ResourceError{Kind: pkg.ResourceMap, Device: name, Err: err}
	}

	dev := &device{handle: h, power: desc.PowerDomain(), log: log}
	dev.power.Enable()

	if err := uart.ConfigureBaudRate(h, desc.ClockSource()); err != nil {
		log.Error(ClockProperty+" property not found in device tree", "error", err)
		dev.teardown()
		return nil, &pkg.ConfigError{Device: name, Property: ClockProperty, Err: err}
	}
	uart.ClearFIFOs(h)

	err = uart.WriteCharContext(context.Background(), h, uart.Sentinel, d.poller)
	if err != nil {
		log.Error("sentinel not transmitted", "error", err)
		dev.teardown()
		return nil, err
	}
	return dev, nil
}

// Detach powers down the device described by desc. It touches no
// registers; the window is unmapped by the descriptor's owner. Detaching
// a device that is not attached returns pkg.ErrNotAttached and leaves the
// power domain alone.
func (d *Driver) Detach(desc hal.Descriptor) error {
	name := desc.Name()

	d.mutex.Lock()
	dev := d.devices[name]
	if dev != nil {
		delete(d.devices, name)
	}
	d.mutex.Unlock()

	if dev == nil {
		pkg.LogWarn(pkg.ComponentDriver, "detach of unattached device", "device", name)
		return pkg.ErrNotAttached
	}

	dev.log.Debug("detach")
	dev.teardown()
	return nil
}

// Handle returns the register handle of an attached device.
func (d *Driver) Handle(desc hal.Descriptor) (*uart.Handle, bool) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	dev := d.devices[desc.Name()]
	if dev == nil {
		return nil, false
	}
	return dev.handle, true
}

// Attached returns the number of devices currently bound.
func (d *Driver) Attached() int {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	n := 0
	for _, dev := range d.devices {
		if dev != nil {
			n++
		}
	}
	return n
}

func (dev *device) teardown() {
	dev.power.Disable()
	dev.handle.Release()
}
