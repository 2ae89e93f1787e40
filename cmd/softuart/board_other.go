//go:build !linux

package main

import (
	"errors"

	"github.com/ardnew/softuart/config"
)

var errNoLinux = errors.New("linux backend not available on this platform, use --sim")

func linuxDevice(config.Device) (boardDevice, error) {
	return boardDevice{}, errNoLinux
}
