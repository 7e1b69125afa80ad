package callthrottle

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/semaphore"
)

// AsyncThrottle caps the call rate of one call site whose callers must stay
// cancellable. Callers queue on a weighted semaphore of size one, which hands
// the lock out in FIFO order, and the wait is a timer select, so a caller
// whose context ends leaves the queue or the wait immediately.
type AsyncThrottle struct {
	core
	sem *semaphore.Weighted
}

// NewAsync creates an AsyncThrottle that admits at most maxCalls calls per
// window. maxCalls and window must be greater than zero.
func NewAsync(maxCalls int, window time.Duration, opts ...Option) (*AsyncThrottle, error) {
	c, err := newCore(maxCalls, window, opts)
	if err != nil {
		return nil, err
	}

	return &AsyncThrottle{
		core: c,
		sem:  semaphore.NewWeighted(1),
	}, nil
}

// Wait suspends until the caller may proceed. It returns ErrThrottleExceeded
// when the throttle rejects, and an error wrapping ErrContextEnded or
// ErrWaitingFailed together with ctx.Err() when ctx ends first. A call
// cancelled during its wait is neither recorded as completed nor counted
// against the window.
func (t *AsyncThrottle) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w early: %w", ErrContextEnded, err)
	}

	if err := t.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("%w: %w", ErrWaitingFailed, err)
	}
	defer t.sem.Release(1)

	wait, err := t.admit()
	if err != nil {
		return err
	}

	if wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-ctx.Done():
			t.abandon(wait)
			return fmt.Errorf("%w during wait: %w", ErrContextEnded, ctx.Err())
		}
	}

	t.complete(wait)

	return nil
}

// WaitAsync runs Wait in its own goroutine and delivers its result on the
// returned channel, which is closed afterwards.
func (t *AsyncThrottle) WaitAsync(ctx context.Context) <-chan error {
	errc := make(chan error, 1)

	go func() {
		defer close(errc)
		errc <- t.Wait(ctx)
	}()

	return errc
}
