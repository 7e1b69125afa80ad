package limiter

import (
	"errors"
	"time"
)

// ErrThrottleExceeded is returned by Admit when the call budget of the
// current window is exhausted and the limiter rejects instead of waiting.
var ErrThrottleExceeded = errors.New("too many calls")

// Limiter is the interface that abstracts the admission decision.
//
// Implementations are not safe for concurrent use. The throttles serialize
// Admit, the wait it asks for, and Complete under one lock.
type Limiter interface {
	// Admit counts a call arriving at now and returns how long the caller
	// must wait before proceeding, or ErrThrottleExceeded.
	Admit(now time.Time) (time.Duration, error)
	// Complete records now as the moment the admitted call finished waiting.
	Complete(now time.Time)
	// Abandon undoes the counting done by the last Admit, for a call that
	// gave up during its wait and never completed.
	Abandon()
	// LimitDetails returns the call budget and the window.
	LimitDetails() (int, time.Duration)
}

// NewLimiterFunc builds a Limiter for a call budget, a window and a policy.
type NewLimiterFunc func(maxCalls int, window time.Duration, reject bool) Limiter
