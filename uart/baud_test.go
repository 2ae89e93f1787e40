package uart_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/softuart/hal"
	"github.com/ardnew/softuart/hal/sim"
	"github.com/ardnew/softuart/pkg"
	"github.com/ardnew/softuart/uart"
)

func TestDivisor(t *testing.T) {
	tests := []struct {
		clock uint32
		want  uint16
	}{
		{0, 0},
		{1, 0},
		{1_843_200, 1},
		{48_000_000, 26},
		{3_686_400, 2},
		{0xffffffff, 2330},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, uart.Divisor(tt.clock), "Divisor(%d)", tt.clock)
		assert.Equal(t, uint32(tt.want), tt.clock/16/115200)
	}
}

func TestDivisorFor(t *testing.T) {
	assert.Equal(t, uint32(12), uart.DivisorFor(1_843_200, 9600))
	assert.Equal(t, uint32(0), uart.DivisorFor(1_843_200, 0))
	assert.Equal(t, uint32(uart.Divisor(48_000_000)), uart.DivisorFor(48_000_000, uart.BaudRate))
}

func expectedSequence(divisor uint16) []sim.Access {
	return []sim.Access{
		{Op: sim.OpWrite, Offset: uart.RegMDR1, Value: 0x07},
		{Op: sim.OpWrite, Offset: uart.RegLCR, Value: 0x00},
		{Op: sim.OpWrite, Offset: uart.RegLCR, Value: uart.LCRDLAB},
		{Op: sim.OpWrite, Offset: uart.RegDLL, Value: uint32(divisor) & 0xff},
		{Op: sim.OpWrite, Offset: uart.RegDLM, Value: uint32(divisor) >> 8},
		{Op: sim.OpWrite, Offset: uart.RegLCR, Value: uart.LCRWordLen8},
		{Op: sim.OpWrite, Offset: uart.RegMDR1, Value: 0x00},
	}
}

func TestConfigureBaudRateSequence(t *testing.T) {
	for _, clock := range []uint32{0, 1, 1_843_200, 48_000_000, 0xffffffff} {
		h, w := newHandle(t)

		require.NoError(t, uart.ConfigureBaudRate(h, hal.FixedClock(clock)))
		assert.Equal(t, expectedSequence(uart.Divisor(clock)), w.Accesses(), "clock %d", clock)
	}
}

func TestConfigureBaudRateRoundTrip(t *testing.T) {
	for _, clock := range []uint32{1_843_200, 48_000_000, 0xffffffff} {
		h, w := newHandle(t)
		require.NoError(t, uart.ConfigureBaudRate(h, hal.FixedClock(clock)))

		got := uint16(w.Peek(uart.RegDLM))<<8 | uint16(w.Peek(uart.RegDLL))
		assert.Equal(t, uart.Divisor(clock), got, "clock %d", clock)
	}
}

func TestConfigureBaudRateMissingClock(t *testing.T) {
	h, w := newHandle(t)
	cause := errors.New("no clock-frequency property")

	err := uart.ConfigureBaudRate(h, hal.ClockFunc(func() (uint32, error) {
		return 0, cause
	}))
	require.Error(t, err)
	assert.ErrorIs(t, err, pkg.ErrMissingClockFrequency)
	assert.ErrorIs(t, err, cause)
	assert.Empty(t, w.Accesses())
}

func TestClearFIFOs(t *testing.T) {
	h, w := newHandle(t)

	uart.ClearFIFOs(h)
	assert.Equal(t, []sim.Access{
		{Op: sim.OpWrite, Offset: uart.RegFCR, Value: 0x06},
	}, w.Accesses())
}
