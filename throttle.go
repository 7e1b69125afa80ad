package callthrottle

import (
	"sync"
	"time"
)

// Throttle caps the call rate of one synchronous call site. It is safe for
// concurrent use by multiple goroutines; each Wait blocks its goroutine.
type Throttle struct {
	core
	mutex sync.Mutex
}

// New creates a Throttle that admits at most maxCalls calls per window.
// maxCalls and window must be greater than zero.
func New(maxCalls int, window time.Duration, opts ...Option) (*Throttle, error) {
	c, err := newCore(maxCalls, window, opts)
	if err != nil {
		return nil, err
	}

	return &Throttle{core: c}, nil
}

// Wait blocks until the caller may proceed, or returns ErrThrottleExceeded
// when the throttle rejects. The decision, the sleep and the completion
// timestamp happen under one lock, so concurrent callers queue behind a
// sleeping one. The guarded function should be called after Wait returns,
// outside the lock.
func (t *Throttle) Wait() error {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	wait, err := t.admit()
	if err != nil {
		return err
	}

	if wait > 0 {
		time.Sleep(wait)
	}

	t.complete(wait)

	return nil
}
