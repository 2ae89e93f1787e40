package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ardnew/softuart/uart"
)

func newDivisorCmd() *cobra.Command {
	var baud uint32

	cmd := &cobra.Command{
		Use:   "divisor <clock-hz>",
		Short: "Print the divisor latch value for an input clock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clock, err := strconv.ParseUint(args[0], 0, 32)
			if err != nil {
				return fmt.Errorf("clock %q: %w", args[0], err)
			}
			div := uart.DivisorFor(uint32(clock), baud)
			actual := 0.0
			if div != 0 {
				actual = float64(clock) / 16 / float64(div)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "divisor=%d dll=%#02x dlm=%#02x actual=%.0f\n",
				div, div&0xff, (div>>8)&0xff, actual)
			return nil
		},
	}

	cmd.Flags().Uint32Var(&baud, "baud", uart.BaudRate, "target baud rate")
	return cmd
}
