// Package clock provides the time sources a throttle reads "now" from.
package clock

import (
	"fmt"
	"time"

	"github.com/beevik/ntp"
)

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// System reads the local wall clock. Readings carry the monotonic clock, so
// elapsed times between them never go negative.
type System struct{}

// Now implements Clock.
func (System) Now() time.Time { return time.Now() }

// Offset is the local clock shifted by a fixed correction.
type Offset struct {
	offset time.Duration
}

// NewOffset returns a Clock that reports the local time plus offset.
func NewOffset(offset time.Duration) *Offset {
	return &Offset{offset: offset}
}

// Now implements Clock. Adding a constant keeps the monotonic reading intact.
func (o *Offset) Now() time.Time { return time.Now().Add(o.offset) }

// Correction returns the applied offset.
func (o *Offset) Correction() time.Duration { return o.offset }

// NTP queries host once and returns a Clock corrected by the measured offset.
// Use it when throttle windows have to line up with a remote service's
// notion of time.
func NTP(host string) (*Offset, error) {
	resp, err := ntp.Query(host)
	if err != nil {
		return nil, fmt.Errorf("query ntp server %q: %w", host, err)
	}

	if err := resp.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ntp response from %q: %w", host, err)
	}

	return NewOffset(resp.ClockOffset), nil
}
