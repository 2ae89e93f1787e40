package uart

import (
	"context"
	"runtime"
	"time"
)

// Sentinel is the byte transmitted once at attach to show the line is
// alive.
const Sentinel byte = 'x'

// Poller waits for a hardware condition.
//
// Wait returns nil once ready reports true. Implementations decide
// whether ctx is observed at all; see [SpinPoller].
type Poller interface {
	Wait(ctx context.Context, ready func() bool) error
}

// SpinPoller busy-waits on ready with no timeout and never observes its
// context. If the condition never becomes true, Wait never returns.
//
// Whether an unbounded wait on THRE is a sound hardware assumption or a
// missing timeout is an open question. Callers that need a bound use
// [ContextPoller] explicitly.
type SpinPoller struct {
	// Relax is called between polls. It must not sleep. Nil means
	// runtime.Gosched.
	Relax func()
}

// Wait implements Poller.
func (p SpinPoller) Wait(_ context.Context, ready func() bool) error {
	relax := p.Relax
	if relax == nil {
		relax = runtime.Gosched
	}
	for !ready() {
		relax()
	}
	return nil
}

// ContextPoller spins like SpinPoller but gives up when ctx is done.
type ContextPoller struct {
	Relax func()
}

// Wait implements Poller. It returns ctx.Err() if ctx ends before ready
// reports true. ready is always consulted at least once.
func (p ContextPoller) Wait(ctx context.Context, ready func() bool) error {
	relax := p.Relax
	if relax == nil {
		relax = runtime.Gosched
	}
	for !ready() {
		if err := ctx.Err(); err != nil {
			return err
		}
		relax()
	}
	return nil
}

// DeadlinePoller spins for at most Timeout per Wait, in addition to
// honouring ctx.
type DeadlinePoller struct {
	Timeout time.Duration
	Relax   func()
}

// Wait implements Poller. It returns context.DeadlineExceeded when the
// timeout elapses first.
func (p DeadlinePoller) Wait(ctx context.Context, ready func() bool) error {
	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()
	return ContextPoller{Relax: p.Relax}.Wait(ctx, ready)
}

// WriteChar waits until the transmit holding register is empty and then
// writes b to it exactly once. It spins the way [SpinPoller] does and
// blocks until the hardware reports THRE, however long that takes.
func WriteChar(h *Handle, b byte) {
	for h.Read(RegLSR)&LSRTHRE == 0 {
		runtime.Gosched()
	}
	h.Write(uint32(b), RegTX)
}

// WriteCharContext is WriteChar with an explicit poller. On a poller
// error nothing is written.
func WriteCharContext(ctx context.Context, h *Handle, b byte, p Poller) error {
	err := p.Wait(ctx, func() bool {
		return h.Read(RegLSR)&LSRTHRE != 0
	})
	if err != nil {
		return err
	}
	h.Write(uint32(b), RegTX)
	return nil
}
