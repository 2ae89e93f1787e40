package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ardnew/softuart/pkg"
	"github.com/ardnew/softuart/pkg/prof"
)

// component identifies this executable for structured logging.
const component = pkg.ComponentDriver

type rootOptions struct {
	verbose    bool
	jsonLog    bool
	logFile    string
	cpuProfile string

	logOut io.Closer
}

// logFormat is the record format selected by --json.
func (o *rootOptions) logFormat() pkg.LogFormat {
	if o.jsonLog {
		return pkg.LogFormatJSON
	}
	return pkg.LogFormatText
}

// configureLogging points the shared logger at stderr or --log-file.
func (o *rootOptions) configureLogging() error {
	lo := pkg.LogOptions{Level: slog.LevelWarn, Format: o.logFormat()}
	if o.verbose {
		lo.Level = slog.LevelDebug
	}
	if o.logFile != "" {
		f, err := os.OpenFile(o.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		lo.Output = f
		o.logOut = f
	}
	pkg.ConfigureLogging(lo)
	return nil
}

func (o *rootOptions) closeLog() {
	if o.logOut == nil {
		return
	}
	pkg.ConfigureLogging(pkg.LogOptions{Level: slog.LevelWarn, Format: o.logFormat()})
	_ = o.logOut.Close()
	o.logOut = nil
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "softuart",
		Short:         "Bind the serial driver to memory-mapped UARTs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.configureLogging(); err != nil {
				return err
			}
			if opts.cpuProfile != "" {
				if !prof.Enabled {
					pkg.LogWarn(component, "profiling not compiled in, rebuild with -tags profile")
				}
				return prof.StartCPU(opts.cpuProfile)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			prof.StopCPU()
			opts.closeLog()
		},
	}

	flags := cmd.PersistentFlags()
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose (debug) logging")
	flags.BoolVar(&opts.jsonLog, "json", false, "use JSON log format")
	flags.StringVar(&opts.logFile, "log-file", "", "append log records to `file` instead of stderr")
	flags.StringVar(&opts.cpuProfile, "cpuprofile", "", "write a CPU profile to `file`")

	cmd.AddCommand(newAttachCmd(), newDivisorCmd())
	return cmd
}
