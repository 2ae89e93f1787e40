package pkg

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
)

// Component identifies a subsystem for log filtering.
type Component string

// Driver component identifiers.
const (
	ComponentDriver   Component = "driver"
	ComponentRegistry Component = "registry"
	ComponentUART     Component = "uart"
	ComponentHAL      Component = "hal"
	ComponentPower    Component = "power"
	ComponentConfig   Component = "config"
)

// LogFormat specifies the output format for logging.
type LogFormat int

// Log format options.
const (
	LogFormatText LogFormat = iota // Text format (default)
	LogFormatJSON                  // JSON format
)

// LogOptions configures the shared logger.
type LogOptions struct {
	Level  slog.Level
	Format LogFormat
	Output io.Writer // nil means os.Stderr
}

var (
	// level filters every logger built with a nil Leveler.
	level = new(slog.LevelVar)

	shared atomic.Pointer[slog.Logger]
)

func init() {
	level.Set(slog.LevelWarn)
	shared.Store(NewLogger(os.Stderr, LogFormatText, nil))
}

// ConfigureLogging replaces the shared logger used by the Log functions
// and by [Logger]. Loggers already returned by [Logger] keep writing to
// the previous output.
func ConfigureLogging(opts LogOptions) {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	level.Set(opts.Level)
	shared.Store(NewLogger(out, opts.Format, nil))
}

// NewLogger returns a logger writing records in format to w. Records below
// lvl are dropped; a nil lvl follows the level set by [ConfigureLogging].
func NewLogger(w io.Writer, format LogFormat, lvl slog.Leveler) *slog.Logger {
	if lvl == nil {
		lvl = level
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if format == LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Logger returns the shared logger bound to component. Attributes added by
// the caller (for example a device name) stay attached to every record
// written through the returned logger.
func Logger(component Component, args ...any) *slog.Logger {
	return shared.Load().With(append([]any{"component", string(component)}, args...)...)
}

func logAt(lvl slog.Level, component Component, msg string, args []any) {
	l := shared.Load()
	ctx := context.Background()
	if !l.Enabled(ctx, lvl) {
		return
	}
	l.Log(ctx, lvl, msg, append([]any{"component", string(component)}, args...)...)
}

// LogDebug logs a debug message with the given component.
func LogDebug(component Component, msg string, args ...any) {
	logAt(slog.LevelDebug, component, msg, args)
}

// LogInfo logs an info message with the given component.
func LogInfo(component Component, msg string, args ...any) {
	logAt(slog.LevelInfo, component, msg, args)
}

// LogWarn logs a warning message with the given component.
func LogWarn(component Component, msg string, args ...any) {
	logAt(slog.LevelWarn, component, msg, args)
}

// LogError logs an error message with the given component.
func LogError(component Component, msg string, args ...any) {
	logAt(slog.LevelError, component, msg, args)
}
