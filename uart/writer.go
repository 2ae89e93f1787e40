package uart

import "context"

// Writer transmits bytes one at a time through the transmit holding
// register. It implements io.Writer and io.ByteWriter.
type Writer struct {
	h      *Handle
	ctx    context.Context
	poller Poller
}

// NewWriter returns a Writer on h that spins with a SpinPoller.
func NewWriter(h *Handle) *Writer {
	return &Writer{h: h, ctx: context.Background(), poller: SpinPoller{}}
}

// WithPoller returns a copy of w that waits with p under ctx.
func (w *Writer) WithPoller(ctx context.Context, p Poller) *Writer {
	return &Writer{h: w.h, ctx: ctx, poller: p}
}

// Write transmits p in order. It stops at the first poller error and
// reports how many bytes were written before it.
func (w *Writer) Write(p []byte) (int, error) {
	for i, b := range p {
		if err := WriteCharContext(w.ctx, w.h, b, w.poller); err != nil {
			return i, err
		}
	}
	return len(p), nil
}

// WriteByte transmits c.
func (w *Writer) WriteByte(c byte) error {
	return WriteCharContext(w.ctx, w.h, c, w.poller)
}
