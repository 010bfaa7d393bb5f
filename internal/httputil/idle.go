// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// ErrIdleTimeout is the cancellation cause when no data arrived within the
// idle period.
var ErrIdleTimeout = errors.New("transfer idle timeout")

// IdleDeadline cancels a context once Touch has not been called for its
// period. Unlike http.Client.Timeout it never cuts off a transfer that is
// still receiving data.
type IdleDeadline struct {
	d     time.Duration
	timer *time.Timer
}

// WithIdleDeadline returns a context cancelled with ErrIdleTimeout after d
// without a Touch. A non-positive d disables the deadline. The returned stop
// function must be called to release the timer.
func WithIdleDeadline(parent context.Context, d time.Duration) (context.Context, *IdleDeadline, func()) {
	ctx, cancel := context.WithCancelCause(parent)
	dl := &IdleDeadline{d: d}
	if d > 0 {
		dl.timer = time.AfterFunc(d, func() { cancel(ErrIdleTimeout) })
	}
	stop := func() {
		if dl.timer != nil {
			dl.timer.Stop()
		}
		cancel(context.Canceled)
	}
	return ctx, dl, stop
}

// Touch restarts the idle period.
func (dl *IdleDeadline) Touch() {
	if dl.timer != nil {
		dl.timer.Reset(dl.d)
	}
}

// Reader wraps r so that every successful read touches the deadline.
func (dl *IdleDeadline) Reader(r io.Reader) io.Reader {
	return &idleReader{r: r, dl: dl}
}

type idleReader struct {
	r  io.Reader
	dl *IdleDeadline
}

func (ir *idleReader) Read(p []byte) (int, error) {
	n, err := ir.r.Read(p)
	if n > 0 {
		ir.dl.Touch()
	}
	return n, err
}

// IdleCause returns ErrIdleTimeout wrapped with the period when ctx was
// cancelled by its idle deadline, and err unchanged otherwise.
func IdleCause(ctx context.Context, d time.Duration, err error) error {
	if errors.Is(context.Cause(ctx), ErrIdleTimeout) {
		return fmt.Errorf("%w: no data for %s", ErrIdleTimeout, d)
	}
	return err
}
