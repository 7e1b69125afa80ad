package callthrottle

import (
	"fmt"
	"net/http"
)

// roundTripper is an http.RoundTripper that admits every outbound request
// through one AsyncThrottle.
type roundTripper struct {
	throttle *AsyncThrottle
	next     http.RoundTripper
}

// NewRoundTripper returns an http.RoundTripper that throttles outbound
// requests. The request context bounds the time spent waiting. A nil next
// uses http.DefaultTransport.
func NewRoundTripper(t *AsyncThrottle, next http.RoundTripper) (http.RoundTripper, error) {
	if t == nil {
		return nil, ErrNilThrottle
	}

	if next == nil {
		next = http.DefaultTransport
	}

	return &roundTripper{
		throttle: t,
		next:     next,
	}, nil
}

func (rt *roundTripper) RoundTrip(r *http.Request) (*http.Response, error) {
	ctx := r.Context()

	if err := rt.throttle.Wait(ctx); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil { // Check context hasn't expired again.
		return nil, fmt.Errorf("%w post-wait: %w", ErrContextEnded, err)
	}

	return rt.next.RoundTrip(r)
}
