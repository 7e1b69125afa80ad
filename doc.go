/*
Package callthrottle caps the rate at which one call site is invoked: at most
maxCalls calls per window, after which calls either wait out the rest of the
window or fail with ErrThrottleExceeded.

Two throttles share one admission algorithm:
  - Throttle blocks the calling goroutine with a mutex and a sleep.
  - AsyncThrottle queues callers on a semaphore and waits on a timer, so a
    caller's context can end the wait.

# Waiting on a throttle

Example:

	import (
		"time"
		"github.com/parkerroan/callthrottle"
	)

	// At most 2 calls per second, extra calls wait.
	t, err := callthrottle.New(2, time.Second)
	if err != nil {
		return err
	}

	fetch := callthrottle.Wrap(t, func() (string, error) {
		return client.Fetch()
	})

# Rejecting instead of waiting

	t, err := callthrottle.NewAsync(10, 100*time.Millisecond,
		callthrottle.WithRejectOnThrottle(true),
	)

	if err := t.Wait(ctx); errors.Is(err, callthrottle.ErrThrottleExceeded) {
		// retrying is up to the caller
	}

The admission strategy defaults to a fixed window counter that re-anchors
its window on the completion of each call. A sliding-log strategy can be
selected with WithLimiterConstructorFunc(limiter.NewRingLimiterConstructorFunc()).

HTTPMiddleware throttles an inbound handler, NewRoundTripper throttles an
outbound http.Client and the redishook package throttles a Redis client.
*/
package callthrottle
