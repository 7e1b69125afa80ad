package callthrottle

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPMiddleware creates a new middleware function that throttles the wrapped
// handler as a single call site.
// This function is compatible with both standard net/http and mux handlers.
//
// A rejecting throttle answers 429 with RateLimit headers. A waiting throttle
// holds the request until it is admitted; a request whose context ends while
// queued is answered with 503.
func HTTPMiddleware(t *AsyncThrottle) func(next http.Handler) http.Handler {
	limit, window := t.LimitDetails()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := t.Wait(r.Context()); err != nil {
				if errors.Is(err, ErrThrottleExceeded) {
					w.Header().Add("RateLimit-Limit", fmt.Sprintf("%v", limit))
					w.Header().Add("RateLimit-Policy", fmt.Sprintf("%v;w=%v", limit, window.Seconds()))
					w.WriteHeader(http.StatusTooManyRequests)
					return
				}

				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}

			// Proceed to the next handler once admitted
			next.ServeHTTP(w, r)
		})
	}
}
