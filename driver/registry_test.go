package driver

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/softuart/hal"
	"github.com/ardnew/softuart/hal/sim"
	"github.com/ardnew/softuart/pkg"
)

func countingEntry(name string, attaches, detaches *int, attachErr error) Entry {
	return Entry{
		Name: name,
		Attach: func(hal.Descriptor) error {
			*attaches++
			return attachErr
		},
		Detach: func(hal.Descriptor) error {
			*detaches++
			return nil
		},
	}
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()
	var a, d int

	require.NoError(t, r.Register("vendor,b", countingEntry("b", &a, &d, nil)))
	require.NoError(t, r.Register("vendor,a", countingEntry("a", &a, &d, nil)))
	assert.Equal(t, []string{"vendor,a", "vendor,b"}, r.Keys())

	err := r.Register("vendor,a", countingEntry("dup", &a, &d, nil))
	assert.ErrorIs(t, err, pkg.ErrAlreadyRegistered)

	e, ok := r.Lookup("vendor,a")
	require.True(t, ok)
	assert.Equal(t, "a", e.Name)

	assert.ErrorIs(t, r.Register("", countingEntry("x", &a, &d, nil)), pkg.ErrInvalidParameter)
	assert.ErrorIs(t, r.Register("vendor,c", Entry{Name: "c"}), pkg.ErrInvalidParameter)
}

func TestRegistryUnregister(t *testing.T) {
	r := NewRegistry()
	var a, d int
	require.NoError(t, r.Register("vendor,a", countingEntry("a", &a, &d, nil)))

	require.NoError(t, r.Unregister("vendor,a"))
	assert.ErrorIs(t, r.Unregister("vendor,a"), pkg.ErrNotRegistered)
	assert.Empty(t, r.Keys())
}

func TestRegistryProbeMatchesInDescriptorOrder(t *testing.T) {
	r := NewRegistry()
	var genericA, genericD, specificA, specificD int
	require.NoError(t, r.Register("ns16550a", countingEntry("generic", &genericA, &genericD, nil)))
	require.NoError(t, r.Register("ti,am3352-uart", countingEntry("specific", &specificA, &specificD, nil)))

	desc := sim.NewDescriptor("serial0", []string{"ti,am3352-uart", "ns16550a"})
	require.NoError(t, r.Probe(desc))
	assert.Equal(t, 1, specificA)
	assert.Zero(t, genericA)
	assert.True(t, r.Bound(desc))

	assert.ErrorIs(t, r.Probe(desc), pkg.ErrAlreadyAttached)
	assert.Equal(t, 1, specificA)

	require.NoError(t, r.Remove(desc))
	assert.Equal(t, 1, specificD)
	assert.False(t, r.Bound(desc))

	assert.ErrorIs(t, r.Remove(desc), pkg.ErrNotAttached)
	assert.Equal(t, 1, specificD)
}

func TestRegistryProbeNoMatch(t *testing.T) {
	r := NewRegistry()
	desc := sim.NewDescriptor("serial0", []string{"acme,uart"})
	assert.ErrorIs(t, r.Probe(desc), pkg.ErrNoMatch)
}

func TestRegistryProbeAttachFailureNotBound(t *testing.T) {
	r := NewRegistry()
	var a, d int
	cause := errors.New("attach failed")
	require.NoError(t, r.Register("vendor,a", countingEntry("a", &a, &d, cause)))

	desc := sim.NewDescriptor("serial0", []string{"vendor,a"})
	assert.ErrorIs(t, r.Probe(desc), cause)
	assert.False(t, r.Bound(desc))
	assert.ErrorIs(t, r.Remove(desc), pkg.ErrNotAttached)
	assert.Zero(t, d)
}

func TestRegisterSerialDriver(t *testing.T) {
	r := NewRegistry()
	drv := New()
	require.NoError(t, Register(r, drv))
	assert.Equal(t, []string{Compatible}, r.Keys())

	desc := newDesc()
	require.NoError(t, r.Probe(desc))
	assert.Equal(t, 1, drv.Attached())
	assert.Equal(t, uint32('x'), desc.Window().Peek(0))

	require.NoError(t, r.Remove(desc))
	assert.Zero(t, drv.Attached())
	_, disables := desc.Power().Counts()
	assert.Equal(t, 1, disables)

	require.NoError(t, Unregister(r, drv))
	assert.Empty(t, r.Keys())
}

func TestRegisterRollsBackOnConflict(t *testing.T) {
	r := NewRegistry()
	var a, d int
	require.NoError(t, r.Register("ti,omap3-uart", countingEntry("other", &a, &d, nil)))

	drv := New(WithCompatible("ti,am3352-uart", "ti,omap3-uart"))
	assert.ErrorIs(t, Register(r, drv), pkg.ErrAlreadyRegistered)
	assert.Equal(t, []string{"ti,omap3-uart"}, r.Keys())
}

func TestRemoveAfterUnregister(t *testing.T) {
	r := NewRegistry()
	drv := New()
	require.NoError(t, Register(r, drv))

	desc := newDesc()
	require.NoError(t, r.Probe(desc))
	require.NoError(t, Unregister(r, drv))
	assert.True(t, r.Bound(desc))

	require.NoError(t, r.Remove(desc))
	_, disables := desc.Power().Counts()
	assert.Equal(t, 1, disables)
	assert.Zero(t, drv.Attached())
	assert.False(t, r.Bound(desc))
	assert.ErrorIs(t, r.Remove(desc), pkg.ErrNotAttached)
}

func TestRegistryProbeConcurrentSameDevice(t *testing.T) {
	r := NewRegistry()
	entered := make(chan struct{})
	release := make(chan struct{})
	var attaches, detaches atomic.Int32
	require.NoError(t, r.Register("vendor,a", Entry{
		Name: "a",
		Attach: func(hal.Descriptor) error {
			attaches.Add(1)
			close(entered)
			<-release
			return nil
		},
		Detach: func(hal.Descriptor) error {
			detaches.Add(1)
			return nil
		},
	}))

	desc := sim.NewDescriptor("serial0", []string{"vendor,a"})
	done := make(chan error, 1)
	go func() { done <- r.Probe(desc) }()
	<-entered

	assert.ErrorIs(t, r.Probe(desc), pkg.ErrAlreadyAttached)
	assert.False(t, r.Bound(desc), "bound before attach returned")
	assert.ErrorIs(t, r.Remove(desc), pkg.ErrNotAttached)

	close(release)
	require.NoError(t, <-done)
	assert.True(t, r.Bound(desc))
	assert.EqualValues(t, 1, attaches.Load())

	require.NoError(t, r.Remove(desc))
	assert.EqualValues(t, 1, detaches.Load())
}

func TestRegistryProbeConcurrentSerialDriver(t *testing.T) {
	r := NewRegistry()
	gate := newGatePoller()
	drv := New(WithPoller(gate))
	require.NoError(t, Register(r, drv))

	desc := newDesc()
	done := make(chan error, 1)
	go func() { done <- r.Probe(desc) }()
	<-gate.entered

	assert.ErrorIs(t, r.Probe(desc), pkg.ErrAlreadyAttached)
	close(gate.release)
	require.NoError(t, <-done)

	enables, _ := desc.Power().Counts()
	assert.Equal(t, 1, enables)
	assert.Equal(t, 1, drv.Attached())
}
