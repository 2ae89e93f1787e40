// Package linux provides a softuart HAL for Linux hosts with a
// flattened device tree.
//
// Registers are reached by mapping /dev/mem, device properties are read
// from /proc/device-tree, and the power domain is driven through the
// runtime PM attribute of the platform device in sysfs. It is pure Go with
// no cgo dependencies.
//
// # Requirements
//
// Mapping /dev/mem needs CAP_SYS_RAWIO, and on kernels built with
// CONFIG_STRICT_DEVMEM the UART region must not be claimed by a kernel
// driver. Unbind the kernel's own 8250/omap-serial driver first.
//
// # Discovery
//
//	nodes, err := linux.FindCompatible(linux.DeviceTreePath, "bootlin,serial")
//	for _, n := range nodes {
//	    desc := linux.NewDescriptor(n)
//	    defer desc.Close()
//	    // hand desc to the driver registry
//	}
package linux
