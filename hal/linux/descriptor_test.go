//go:build linux

package linux

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/softuart/pkg"
)

func TestDescriptorFromNode(t *testing.T) {
	page := os.Getpagesize()
	mem := backingFile(t, page)
	n := writeNode(t, filepath.Join(t.TempDir(), "serial@40"), map[string][]byte{
		PropCompatible:     []byte("bootlin,serial\x00"),
		PropReg:            be32(0x40, 0x40),
		PropClockFrequency: be32(48_000_000),
	})

	d := NewDescriptor(n, WithMemPath(mem))
	t.Cleanup(func() { _ = d.Close() })

	assert.Equal(t, "serial@40", d.Name())
	assert.Equal(t, []string{"bootlin,serial"}, d.Compatible())
	assert.NoError(t, d.Allocate())

	hz, err := d.ClockSource().ClockFrequency()
	require.NoError(t, err)
	assert.Equal(t, uint32(48_000_000), hz)

	w, err := d.MapRegisters(0)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x40), w.Size())

	again, err := d.MapRegisters(0)
	require.NoError(t, err)
	assert.Same(t, w, again)

	_, err = d.MapRegisters(1)
	assert.ErrorIs(t, err, pkg.ErrNoResource)

	assert.Equal(t, filepath.Join(SysfsPlatformPath, "40.serial"), d.power.device)
}

func TestDescriptorOverrides(t *testing.T) {
	mem := backingFile(t, os.Getpagesize())
	sysfs := t.TempDir()

	d := NewDescriptor(Node{},
		WithName("uart4"),
		WithCompatible("bootlin,serial"),
		WithRegion(0x100, 0x40),
		WithClock(1_843_200),
		WithMemPath(mem),
		WithSysfsDir(sysfs),
	)
	t.Cleanup(func() { _ = d.Close() })

	assert.Equal(t, "uart4", d.Name())
	hz, err := d.ClockSource().ClockFrequency()
	require.NoError(t, err)
	assert.Equal(t, uint32(1_843_200), hz)

	w, err := d.MapRegisters(0)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x40), w.Size())
	assert.Equal(t, sysfs, d.power.device)
}

func TestDescriptorMissingClock(t *testing.T) {
	n := writeNode(t, filepath.Join(t.TempDir(), "serial@40"), map[string][]byte{
		PropCompatible: []byte("bootlin,serial\x00"),
	})
	_, err := NewDescriptor(n).ClockSource().ClockFrequency()
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = NewDescriptor(Node{}, WithName("uart4")).ClockSource().ClockFrequency()
	assert.Error(t, err)
}

func TestDescriptorMissingReg(t *testing.T) {
	n := writeNode(t, filepath.Join(t.TempDir(), "serial@40"), nil)
	_, err := NewDescriptor(n).MapRegisters(0)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = NewDescriptor(Node{}, WithName("uart4")).MapRegisters(0)
	assert.ErrorIs(t, err, pkg.ErrNoResource)
}

func TestPlatformDeviceName(t *testing.T) {
	assert.Equal(t, "48022000.serial", platformDeviceName("serial@48022000"))
	assert.Equal(t, "serial0", platformDeviceName("serial0"))
}
