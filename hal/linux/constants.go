package linux

// =============================================================================
// System Paths
// =============================================================================

// MemPath is the physical memory device mapped for register access.
const MemPath = "/dev/mem"

// DeviceTreePath is the root of the flattened device tree exported by the
// kernel.
const DeviceTreePath = "/proc/device-tree"

// SysfsPlatformPath is the base path for platform devices in sysfs.
const SysfsPlatformPath = "/sys/bus/platform/devices"

// =============================================================================
// Device Tree Properties
// =============================================================================

// Property names read from a device node.
const (
	PropCompatible     = "compatible"
	PropReg            = "reg"
	PropClockFrequency = "clock-frequency"
	PropStatus         = "status"
)

// CellSize is the size in bytes of one device-tree cell.
const CellSize = 4

// =============================================================================
// Runtime Power Management
// =============================================================================

// PowerControlAttr is the sysfs attribute controlling runtime PM, relative
// to the device directory.
const PowerControlAttr = "power/control"

// Values accepted by PowerControlAttr.
const (
	PowerControlOn   = "on"   // Device kept active
	PowerControlAuto = "auto" // Device may runtime-suspend
)
