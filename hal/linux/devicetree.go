package linux

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ErrBadProperty indicates a device-tree property of unexpected length.
var ErrBadProperty = errors.New("malformed device-tree property")

// =============================================================================
// Device Tree Nodes
// =============================================================================

// Node is a device-tree node as exported under DeviceTreePath. Each
// property is a file whose contents are the raw big-endian property value.
type Node struct {
	Path string // Absolute directory of the node
}

// Name returns the node name including its unit address, for example
// "serial@48022000".
func (n Node) Name() string { return filepath.Base(n.Path) }

// Property returns the raw value of property name.
func (n Node) Property(name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(n.Path, name))
}

// U32 returns a single-cell property.
func (n Node) U32(name string) (uint32, error) {
	data, err := n.Property(name)
	if err != nil {
		return 0, err
	}
	if len(data) != CellSize {
		return 0, fmt.Errorf("%s/%s: %d bytes: %w", n.Name(), name, len(data), ErrBadProperty)
	}
	return binary.BigEndian.Uint32(data), nil
}

// Strings returns a string-list property such as compatible.
func (n Node) Strings(name string) ([]string, error) {
	data, err := n.Property(name)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimRight(data, "\x00")
	if len(data) == 0 {
		return nil, nil
	}
	return strings.Split(string(data), "\x00"), nil
}

// Reg returns the first (address, size) pair of the reg property. Cells
// are read as addressCells and sizeCells wide, each 1 or 2.
func (n Node) Reg(addressCells, sizeCells int) (base, size uint64, err error) {
	data, err := n.Property(PropReg)
	if err != nil {
		return 0, 0, err
	}
	need := (addressCells + sizeCells) * CellSize
	if addressCells < 1 || addressCells > 2 || sizeCells < 1 || sizeCells > 2 || len(data) < need {
		return 0, 0, fmt.Errorf("%s/%s: %w", n.Name(), PropReg, ErrBadProperty)
	}
	base = readCells(data[:addressCells*CellSize])
	size = readCells(data[addressCells*CellSize : need])
	return base, size, nil
}

// Enabled reports whether the node's status allows binding. A missing
// status property means enabled.
func (n Node) Enabled() bool {
	data, err := n.Property(PropStatus)
	if err != nil {
		return true
	}
	s := string(bytes.TrimRight(data, "\x00"))
	return s == "okay" || s == "ok"
}

func readCells(b []byte) uint64 {
	var v uint64
	for len(b) >= CellSize {
		v = v<<32 | uint64(binary.BigEndian.Uint32(b))
		b = b[CellSize:]
	}
	return v
}

// =============================================================================
// Node Discovery
// =============================================================================

// FindCompatible walks the tree rooted at root and returns every enabled
// node listing compatible among its compatible strings, in walk order.
func FindCompatible(root, compatible string) ([]Node, error) {
	var nodes []Node
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		n := Node{Path: path}
		list, err := n.Strings(PropCompatible)
		if err != nil {
			return nil
		}
		if slices.Contains(list, compatible) && n.Enabled() {
			nodes = append(nodes, n)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return nodes, nil
}
