package linux

import (
	"os"
	"path/filepath"

	"github.com/ardnew/softuart/pkg"
)

// RuntimePower is a hal.PowerDomain driven through the runtime PM control
// attribute of a platform device. Enable pins the device active; Disable
// hands it back to the kernel's autosuspend.
//
// The hal.PowerDomain contract has no failure path, so write errors are
// logged and remembered rather than returned.
type RuntimePower struct {
	device string // Device directory in sysfs
	err    error
}

// NewRuntimePower returns the power domain of the sysfs device directory
// dir, for example /sys/bus/platform/devices/48022000.serial.
func NewRuntimePower(dir string) *RuntimePower {
	return &RuntimePower{device: dir}
}

// Enable implements hal.PowerDomain.
func (p *RuntimePower) Enable() { p.set(PowerControlOn) }

// Disable implements hal.PowerDomain.
func (p *RuntimePower) Disable() { p.set(PowerControlAuto) }

// Err returns the last write error, if any.
func (p *RuntimePower) Err() error { return p.err }

func (p *RuntimePower) set(value string) {
	path := filepath.Join(p.device, PowerControlAttr)
	p.err = os.WriteFile(path, []byte(value), 0)
	if p.err != nil {
		pkg.LogError(pkg.ComponentPower, "runtime pm write failed",
			"path", path, "value", value, "error", p.err)
		return
	}
	pkg.LogDebug(pkg.ComponentPower, "runtime pm", "path", path, "value", value)
}
