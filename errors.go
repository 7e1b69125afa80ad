package callthrottle

import (
	"errors"

	"github.com/parkerroan/callthrottle/limiter"
)

var (
	// ErrThrottleExceeded is returned when the window's call budget is
	// exhausted and the throttle rejects instead of waiting.
	ErrThrottleExceeded = limiter.ErrThrottleExceeded

	// ErrMustNotBeZero is returned by the constructors for a non-positive
	// call budget or window.
	ErrMustNotBeZero = errors.New("must be greater than zero")
	// ErrInvalidConfig wraps config and window values that cannot be used.
	ErrInvalidConfig = errors.New("invalid throttle config")
	// ErrNilThrottle is returned when an adapter is given no throttle.
	ErrNilThrottle = errors.New("throttle must not be nil")
	// ErrWaitingFailed wraps the context error of a call that gave up while
	// queued for the throttle's lock.
	ErrWaitingFailed = errors.New("throttle waiting failed")
	// ErrContextEnded wraps the context error of a call whose context ended
	// before or during its wait.
	ErrContextEnded = errors.New("throttle context ended")
)
