//go:build linux

package main

import (
	"github.com/ardnew/softuart/config"
	"github.com/ardnew/softuart/hal/linux"
)

func linuxDevice(d config.Device) (boardDevice, error) {
	var opts []linux.Option
	if d.Name != "" {
		opts = append(opts, linux.WithName(d.Name))
	}
	if d.Compatible != nil {
		opts = append(opts, linux.WithCompatible(d.Compatible...))
	}
	if d.Reg != nil {
		opts = append(opts, linux.WithRegion(d.Reg.Base, d.Reg.Size))
	}
	if d.ClockFrequency != nil {
		opts = append(opts, linux.WithClock(*d.ClockFrequency))
	}
	if d.Power != "" {
		opts = append(opts, linux.WithSysfsDir(d.Power))
	}

	desc := linux.NewDescriptor(linux.Node{Path: d.Node}, opts...)
	return boardDevice{desc: desc, close: desc.Close}, nil
}
