// Package config loads YAML board descriptions for the softuart command.
//
// A board lists the UARTs to bind and, for each, where its description
// comes from:
//
//	name: beaglebone-black
//	backend: linux
//	devices:
//	  - node: /proc/device-tree/ocp/serial@48022000
//	  - name: uart4
//	    compatible: [bootlin,serial]
//	    reg: {base: 0x481a8000, size: 0x1000}
//	    clock-frequency: 48000000
//	    power: /sys/bus/platform/devices/481a8000.serial
//
// Devices with backend "sim" are bound to an in-memory register file; a
// missing clock-frequency there exercises the driver's error path.
package config
