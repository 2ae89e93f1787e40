// Command softuart binds the serial driver to the UARTs of a board.
//
// Usage:
//
//	softuart attach --board board.yaml [--sim] [--hold] [--timeout 1s]
//	softuart divisor <clock-hz> [--baud 115200]
//
// Global options:
//
//	-v, --verbose        Enable verbose (debug) logging
//	    --json           Use JSON log format (also for --trace records)
//	    --log-file       Append log records to a file instead of stderr
//	    --cpuprofile     Write a CPU profile (requires -tags profile)
package main

import (
	"os"

	"github.com/ardnew/softuart/pkg"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		pkg.LogError(component, "command failed", "error", err)
		os.Exit(exitCode(err))
	}
}
