package limiter

import (
	"container/ring"
	"time"
)

// RingLimiter is a sliding-log implementation of the Limiter interface using a
// ring buffer of the last maxCalls completion timestamps.
// Unlike the WindowLimiter it never admits more than maxCalls calls inside
// any span of one window, at the cost of keeping maxCalls timestamps.
type RingLimiter struct {
	ring     *ring.Ring
	size     int
	window   time.Duration
	reject   bool
	lastCall time.Time
}

// NewRingLimiterConstructorFunc returns a function that creates a new RingLimiter.
func NewRingLimiterConstructorFunc() NewLimiterFunc {
	return func(maxCalls int, window time.Duration, reject bool) Limiter {
		return NewRingLimiter(maxCalls, window, reject)
	}
}

// NewRingLimiter creates a RingLimiter.
func NewRingLimiter(size int, window time.Duration, reject bool) *RingLimiter {
	return &RingLimiter{
		ring:   ring.New(size),
		size:   size,
		window: window,
		reject: reject,
	}
}

// Admit implements the Limiter interface for the RingLimiter.
// The current ring position holds the oldest recorded call.
func (rl *RingLimiter) Admit(now time.Time) (time.Duration, error) {
	oldest, ok := rl.ring.Value.(time.Time)
	if !ok {
		return 0, nil
	}

	elapsed := now.Sub(oldest)
	if elapsed >= rl.window {
		return 0, nil
	}

	if rl.reject {
		return 0, ErrThrottleExceeded
	}

	wait := rl.window - elapsed
	if wait > rl.window {
		wait = rl.window
	}

	return wait, nil
}

// Complete adds the call to the ring buffer, overwriting the oldest entry.
func (rl *RingLimiter) Complete(now time.Time) {
	if now.After(rl.lastCall) {
		rl.lastCall = now
	}

	rl.ring.Value = rl.lastCall
	rl.ring = rl.ring.Next()
}

// Abandon implements the Limiter interface for the RingLimiter. Admit records
// nothing, so there is nothing to undo.
func (rl *RingLimiter) Abandon() {}

// LimitDetails returns the size and window of the limiter.
func (rl *RingLimiter) LimitDetails() (int, time.Duration) {
	return rl.size, rl.window
}
