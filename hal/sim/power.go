package sim

import (
	"sync"

	"github.com/ardnew/softuart/pkg"
)

// Power is a hal.PowerDomain that counts transitions.
type Power struct {
	mutex    sync.Mutex
	name     string
	enabled  bool
	enables  int
	disables int
}

// NewPower returns a disabled power domain. name is used for logging.
func NewPower(name string) *Power {
	return &Power{name: name}
}

// Enable implements hal.PowerDomain.
func (p *Power) Enable() {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.enabled = true
	p.enables++
	pkg.LogDebug(pkg.ComponentPower, "power domain enabled", "domain", p.name)
}

// Disable implements hal.PowerDomain. Disabling an already disabled
// domain is counted and logged but otherwise harmless.
func (p *Power) Disable() {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if !p.enabled {
		pkg.LogWarn(pkg.ComponentPower, "power domain already disabled", "domain", p.name)
	}
	p.enabled = false
	p.disables++
	pkg.LogDebug(pkg.ComponentPower, "power domain disabled", "domain", p.name)
}

// Enabled reports whether the domain is currently on.
func (p *Power) Enabled() bool {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.enabled
}

// Counts returns the number of Enable and Disable calls so far.
func (p *Power) Counts() (enables, disables int) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.enables, p.disables
}
