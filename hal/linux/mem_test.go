//go:build linux

package linux

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/softuart/pkg"
)

// backingFile creates a zeroed regular file that stands in for /dev/mem.
func backingFile(t *testing.T, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mem")
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o600))
	return path
}

func TestMapWindowReadWrite(t *testing.T) {
	page := os.Getpagesize()
	path := backingFile(t, 2*page)

	base := uint64(page) + 0x20
	w, err := MapWindow(path, base, 64)
	require.NoError(t, err)
	assert.Equal(t, uint32(64), w.Size())
	assert.Equal(t, base, w.Base())

	w.Write32(3, 0x83)
	w.Write32(15, 0xdeadbeef)
	assert.Equal(t, uint32(0x83), w.Read32(3))
	assert.Equal(t, uint32(0xdeadbeef), w.Read32(15))
	assert.Panics(t, func() { w.Read32(16) })
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	at := int(base) + 3*4
	assert.Equal(t, uint32(0x83), binary.NativeEndian.Uint32(data[at:]))
}

func TestMapWindowOffsetWraps(t *testing.T) {
	w, err := MapWindow(backingFile(t, os.Getpagesize()), 0, 64)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	// Offsets whose byte address wraps to 0 or 4 in 32 bits.
	for _, off := range []uint32{1 << 30, 1<<30 + 1, 0xffffffff} {
		assert.Panics(t, func() { w.Read32(off) }, "offset %#x", off)
		assert.Panics(t, func() { w.Write32(off, 1) }, "offset %#x", off)
	}
	assert.Zero(t, w.Read32(0))
	assert.Zero(t, w.Read32(1))
}

func TestMapWindowInvalid(t *testing.T) {
	path := backingFile(t, os.Getpagesize())

	_, err := MapWindow(path, 0x2, 64)
	assert.ErrorIs(t, err, pkg.ErrInvalidParameter)

	_, err = MapWindow(path, 0, 0)
	assert.ErrorIs(t, err, pkg.ErrInvalidParameter)

	_, err = MapWindow(filepath.Join(t.TempDir(), "missing"), 0, 64)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
