package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ardnew/softuart/pkg"
)

// Backend selects the HAL a device is bound through.
type Backend string

// Supported backends.
const (
	BackendLinux Backend = "linux"
	BackendSim   Backend = "sim"
)

// Board describes the UART devices of one board.
type Board struct {
	Name    string   `yaml:"name"`
	Backend Backend  `yaml:"backend"`
	Devices []Device `yaml:"devices"`
}

// Device describes one UART. Fields left empty are read from the device
// tree by the linux backend.
type Device struct {
	Name       string   `yaml:"name"`
	Compatible []string `yaml:"compatible"`

	// Node is the device-tree node directory, for example
	// /proc/device-tree/ocp/serial@48022000.
	Node string `yaml:"node"`

	Reg *Region `yaml:"reg"`

	// ClockFrequency is the input clock in Hz. Nil means "not present".
	ClockFrequency *uint32 `yaml:"clock-frequency"`

	// Power is the sysfs device directory used for runtime PM.
	Power string `yaml:"power"`

	// Backend overrides the board backend for this device.
	Backend Backend `yaml:"backend"`

	// Sim configures the simulated register file.
	Sim *Sim `yaml:"sim"`
}

// Region is a physical register region.
type Region struct {
	Base uint64 `yaml:"base"`
	Size uint32 `yaml:"size"`
}

// Sim configures a simulated device.
type Sim struct {
	// BusyPolls is how many LSR reads report the transmitter busy before
	// THRE is set.
	BusyPolls int `yaml:"busy-polls"`

	// FailAllocate and FailMap inject resource failures.
	FailAllocate bool `yaml:"fail-allocate"`
	FailMap      bool `yaml:"fail-map"`
}

// Error reports an invalid board description.
type Error struct {
	File    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.File != "" {
		msg = e.File + ": " + msg
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// Parse decodes and validates a board description.
func Parse(data []byte) (*Board, error) {
	var b Board
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, &Error{Message: "failed to parse YAML", Cause: err}
	}
	if b.Backend == "" {
		b.Backend = BackendLinux
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	pkg.LogDebug(pkg.ComponentConfig, "board loaded", "board", b.Name, "devices", len(b.Devices))
	return &b, nil
}

// Load reads and parses the board description at path.
func Load(path string) (*Board, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{File: path, Message: "failed to read file", Cause: err}
	}
	b, err := Parse(data)
	if err != nil {
		if ce, ok := err.(*Error); ok {
			ce.File = path
			return nil, ce
		}
		return nil, &Error{File: path, Message: err.Error()}
	}
	return b, nil
}

// Validate checks that every device can be bound.
func (b *Board) Validate() error {
	if len(b.Devices) == 0 {
		return &Error{Message: "board has no devices"}
	}
	if !b.Backend.valid() {
		return &Error{Message: fmt.Sprintf("unknown backend %q", b.Backend), Cause: pkg.ErrInvalidParameter}
	}

	seen := make(map[string]bool, len(b.Devices))
	for i, d := range b.Devices {
		backend := b.BackendOf(d)
		switch {
		case d.Name == "" && d.Node == "":
			return &Error{Message: fmt.Sprintf("device %d: name or node required", i)}
		case !backend.valid():
			return &Error{Message: fmt.Sprintf("device %d: unknown backend %q", i, backend), Cause: pkg.ErrInvalidParameter}
		case d.Reg != nil && d.Reg.Base%4 != 0:
			return &Error{Message: fmt.Sprintf("device %d: reg base %#x not word aligned", i, d.Reg.Base)}
		case backend == BackendLinux && d.Node == "" && d.Reg == nil:
			return &Error{Message: fmt.Sprintf("device %d: linux backend needs node or reg", i)}
		case d.Sim != nil && d.Sim.BusyPolls < 0:
			return &Error{Message: fmt.Sprintf("device %d: negative busy-polls", i)}
		}

		key := d.Name
		if key == "" {
			key = d.Node
		}
		if seen[key] {
			return &Error{Message: fmt.Sprintf("device %d: duplicate device %q", i, key)}
		}
		seen[key] = true
	}
	return nil
}

// BackendOf returns the effective backend of d.
func (b *Board) BackendOf(d Device) Backend {
	if d.Backend != "" {
		return d.Backend
	}
	return b.Backend
}

func (k Backend) valid() bool {
	return k == BackendLinux || k == BackendSim
}
