package limiter

import (
	"time"
)

// WindowLimiter is a fixed-window call counter. The window is re-anchored to
// the moment each admitted call completes its wait, not to clock-aligned
// boundaries.
type WindowLimiter struct {
	maxCalls int
	window   time.Duration
	reject   bool

	calls    int
	prev     int       // calls before the last Admit
	lastCall time.Time // zero value, so the first call is never throttled
}

// NewWindowLimiterConstructorFunc returns a function that creates a new WindowLimiter.
// This is used by default by the throttles.
func NewWindowLimiterConstructorFunc() NewLimiterFunc {
	return func(maxCalls int, window time.Duration, reject bool) Limiter {
		return NewWindowLimiter(maxCalls, window, reject)
	}
}

// NewWindowLimiter returns a new WindowLimiter. Arguments are validated by the
// throttle constructors.
func NewWindowLimiter(maxCalls int, window time.Duration, reject bool) *WindowLimiter {
	return &WindowLimiter{
		maxCalls: maxCalls,
		window:   window,
		reject:   reject,
	}
}

// Admit implements the Limiter interface for the WindowLimiter.
//
// The counter is reset when a new window begins or when a wait is imposed,
// never on a plain admitted call inside an active window. A rejected call
// leaves the counter as it is.
func (wl *WindowLimiter) Admit(now time.Time) (time.Duration, error) {
	elapsed := now.Sub(wl.lastCall)
	wl.prev = wl.calls
	wl.calls++

	// A clock that steps backwards yields a negative elapsed, which is
	// handled as "within the window".
	if elapsed >= wl.window {
		wl.calls = 0
		return 0, nil
	}

	if wl.calls < wl.maxCalls {
		return 0, nil
	}

	if wl.reject {
		return 0, ErrThrottleExceeded
	}

	wl.calls = 0

	wait := wl.window - elapsed
	if wait > wl.window {
		wait = wl.window
	}

	return wait, nil
}

// Complete implements the Limiter interface for the WindowLimiter.
// The anchor never moves backwards.
func (wl *WindowLimiter) Complete(now time.Time) {
	if now.After(wl.lastCall) {
		wl.lastCall = now
	}
}

// Abandon implements the Limiter interface for the WindowLimiter. The counter
// goes back to its value before the last Admit, so a wait given up half way
// does not hand the next caller a fresh window.
func (wl *WindowLimiter) Abandon() {
	wl.calls = wl.prev
}

// LimitDetails returns the call budget and window of the limiter.
func (wl *WindowLimiter) LimitDetails() (int, time.Duration) {
	return wl.maxCalls, wl.window
}
