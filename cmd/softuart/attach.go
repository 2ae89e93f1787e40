package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ardnew/softuart/config"
	"github.com/ardnew/softuart/driver"
	"github.com/ardnew/softuart/hal/sim"
	"github.com/ardnew/softuart/pkg"
	"github.com/ardnew/softuart/uart"
)

type attachOptions struct {
	board   string
	sim     bool
	hold    bool
	trace   bool
	timeout time.Duration
	format  pkg.LogFormat // format of --trace records
}

func newAttachCmd() *cobra.Command {
	opts := &attachOptions{}

	cmd := &cobra.Command{
		Use:   "attach",
		Short: "Probe every UART of a board, then detach",
		Long: `Attach registers the serial driver, probes each device listed in the
board file, and reports the result. Each attached device transmits one
sentinel byte. Devices are detached again on exit, or on SIGINT/SIGTERM
when --hold is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := config.Load(opts.board)
			if err != nil {
				return err
			}

			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				opts.format = pkg.LogFormatJSON
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return runAttach(ctx, cmd.OutOrStdout(), driver.DefaultRegistry, b, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.board, "board", "b", "", "board description `file` (YAML)")
	flags.BoolVar(&opts.sim, "sim", false, "bind every device to the simulator")
	flags.BoolVar(&opts.hold, "hold", false, "keep devices attached until interrupted")
	flags.BoolVar(&opts.trace, "trace", false, "write the register access log of simulated devices as log records")
	flags.DurationVar(&opts.timeout, "timeout", 0, "bound the sentinel transmit wait (0 waits forever)")
	_ = cmd.MarkFlagRequired("board")
	return cmd
}

// runAttach probes every device of b through reg and detaches the ones
// that attached before returning. It fails if any device failed to
// attach.
func runAttach(ctx context.Context, out io.Writer, reg *driver.Registry, b *config.Board, opts *attachOptions) error {
	var driverOpts []driver.Option
	if opts.timeout > 0 {
		driverOpts = append(driverOpts, driver.WithPoller(uart.DeadlinePoller{Timeout: opts.timeout}))
	}
	drv := driver.New(driverOpts...)
	if err := driver.Register(reg, drv); err != nil {
		return err
	}
	defer func() { _ = driver.Unregister(reg, drv) }()

	devs, err := buildDevices(b, opts.sim)
	if err != nil {
		return err
	}

	var failed []error
	var bound []boardDevice
	for _, dev := range devs {
		name := dev.desc.Name()
		if err := reg.Probe(dev.desc); err != nil {
			fmt.Fprintf(out, "%s: attach failed: %v\n", name, err)
			failed = append(failed, err)
			continue
		}
		fmt.Fprintf(out, "%s: attached at %d baud\n", name, uart.BaudRate)
		bound = append(bound, dev)
	}

	if opts.trace {
		trace := pkg.NewLogger(out, opts.format, slog.LevelInfo)
		for _, dev := range devs {
			if sd, ok := dev.desc.(*sim.Descriptor); ok {
				for _, a := range sd.Window().Accesses() {
					trace.Info("register access", "device", sd.Name(),
						"op", a.Op.String(), "offset", a.Offset, "value", fmt.Sprintf("%#x", a.Value))
				}
			}
		}
	}

	if opts.hold && len(bound) > 0 {
		pkg.LogInfo(component, "holding devices, interrupt to detach", "devices", len(bound))
		<-ctx.Done()
	}

	for _, dev := range bound {
		if err := reg.Remove(dev.desc); err != nil {
			pkg.LogError(component, "detach failed", "device", dev.desc.Name(), "error", err)
			failed = append(failed, err)
			continue
		}
		fmt.Fprintf(out, "%s: detached\n", dev.desc.Name())
	}
	for _, dev := range devs {
		if err := dev.close(); err != nil {
			pkg.LogWarn(component, "release failed", "device", dev.desc.Name(), "error", err)
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("%d of %d devices failed: %w", len(failed), len(devs), errors.Join(failed...))
	}
	return nil
}

// exitCode maps err to the process exit status: 2 for a missing
// configuration input, 3 for a resource failure, 1 otherwise.
func exitCode(err error) int {
	var cerr *pkg.ConfigError
	var rerr *pkg.ResourceError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &cerr):
		return 2
	case errors.As(err, &rerr):
		return 3
	default:
		return 1
	}
}
