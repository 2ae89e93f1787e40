package main

import (
	"errors"
	"fmt"

	"github.com/ardnew/softuart/config"
	"github.com/ardnew/softuart/driver"
	"github.com/ardnew/softuart/hal"
	"github.com/ardnew/softuart/hal/sim"
	"github.com/ardnew/softuart/uart"
)

var (
	errSimAllocate = errors.New("simulated allocation failure")
	errSimMap      = errors.New("simulated mapping failure")
)

// boardDevice is a descriptor built from a board entry, with whatever
// cleanup its backend needs once the device is removed.
type boardDevice struct {
	desc  hal.Descriptor
	close func() error
}

// buildDevices returns one descriptor per board entry. forceSim binds
// every entry to the simulator regardless of its backend.
func buildDevices(b *config.Board, forceSim bool) ([]boardDevice, error) {
	devs := make([]boardDevice, 0, len(b.Devices))
	for _, d := range b.Devices {
		backend := b.BackendOf(d)
		if forceSim {
			backend = config.BackendSim
		}

		var (
			dev boardDevice
			err error
		)
		switch backend {
		case config.BackendSim:
			dev = boardDevice{desc: simDescriptor(d), close: func() error { return nil }}
		case config.BackendLinux:
			dev, err = linuxDevice(d)
		default:
			err = fmt.Errorf("unknown backend %q", backend)
		}
		if err != nil {
			for _, prev := range devs {
				_ = prev.close()
			}
			return nil, fmt.Errorf("%s: %w", deviceName(d), err)
		}
		devs = append(devs, dev)
	}
	return devs, nil
}

// simDescriptor builds a simulated device whose LSR reports the
// transmitter busy for the configured number of polls.
func simDescriptor(d config.Device) *sim.Descriptor {
	size := uint32(sim.DefaultWindowSize)
	if d.Reg != nil && d.Reg.Size != 0 {
		size = d.Reg.Size
	}
	w := sim.NewWindow(size)

	busy := 0
	if d.Sim != nil {
		busy = d.Sim.BusyPolls
	}
	if uart.RegLSR*hal.RegisterWidth < size {
		w.OnRead(uart.RegLSR, sim.ReadyAfter(busy, 0, uart.LSRTHRE|uart.LSRTEMT))
	}

	opts := []sim.Option{sim.WithWindow(w)}
	if d.ClockFrequency != nil {
		opts = append(opts, sim.WithClock(*d.ClockFrequency))
	}
	if d.Sim != nil && d.Sim.FailAllocate {
		opts = append(opts, sim.WithAllocError(errSimAllocate))
	}
	if d.Sim != nil && d.Sim.FailMap {
		opts = append(opts, sim.WithMapError(errSimMap))
	}

	compatible := d.Compatible
	if compatible == nil {
		compatible = []string{driver.Compatible}
	}
	return sim.NewDescriptor(deviceName(d), compatible, opts...)
}

func deviceName(d config.Device) string {
	if d.Name != "" {
		return d.Name
	}
	return d.Node
}
