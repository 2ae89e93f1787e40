package pkg

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureLogs points the shared logger at a buffer for the rest of the
// test.
func captureLogs(t *testing.T, lvl slog.Level, format LogFormat) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	ConfigureLogging(LogOptions{Level: lvl, Format: format, Output: &buf})
	t.Cleanup(func() { ConfigureLogging(LogOptions{Level: slog.LevelWarn}) })
	return &buf
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		name  string
		level slog.Level
		log   func(Component, string, ...any)
		want  bool
	}{
		{"debug at debug", slog.LevelDebug, LogDebug, true},
		{"debug at info", slog.LevelInfo, LogDebug, false},
		{"info at info", slog.LevelInfo, LogInfo, true},
		{"info at warn", slog.LevelWarn, LogInfo, false},
		{"warn at warn", slog.LevelWarn, LogWarn, true},
		{"warn at error", slog.LevelError, LogWarn, false},
		{"error at error", slog.LevelError, LogError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLogs(t, tt.level, LogFormatText)
			tt.log(ComponentDriver, "message", "key", "value")
			if !tt.want {
				assert.Empty(t, buf.String())
				return
			}
			assert.Contains(t, buf.String(), "msg=message")
			assert.Contains(t, buf.String(), "component=driver")
			assert.Contains(t, buf.String(), "key=value")
		})
	}
}

func TestConfigureLoggingJSON(t *testing.T) {
	buf := captureLogs(t, slog.LevelInfo, LogFormatJSON)

	LogInfo(ComponentUART, "divisor programmed", "divisor", 26)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "divisor programmed", rec["msg"])
	assert.Equal(t, "uart", rec["component"])
	assert.EqualValues(t, 26, rec["divisor"])
}

func TestLoggerComponent(t *testing.T) {
	buf := captureLogs(t, slog.LevelWarn, LogFormatText)

	Logger(ComponentPower, "device", "serial0").Warn("power domain disabled twice")
	assert.Contains(t, buf.String(), "component=power")
	assert.Contains(t, buf.String(), "device=serial0")
}

func TestNewLoggerLevel(t *testing.T) {
	captureLogs(t, slog.LevelError, LogFormatText)

	var follow, fixed bytes.Buffer
	NewLogger(&follow, LogFormatText, nil).Info("dropped")
	NewLogger(&fixed, LogFormatJSON, slog.LevelDebug).Info("kept")

	assert.Empty(t, follow.String())
	assert.Contains(t, fixed.String(), `"msg":"kept"`)
}
