package callthrottle_test

import (
	"sync"
	"time"

	"github.com/parkerroan/callthrottle"
)

// fakeClock is a clock.Clock under test control.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// recorder collects the state transitions reported to an observer.
type recorder struct {
	mu     sync.Mutex
	states []callthrottle.State
	waits  []time.Duration
}

func (r *recorder) observe(state callthrottle.State, wait time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, state)
	if state == callthrottle.StateWaiting {
		r.waits = append(r.waits, wait)
	}
}

func (r *recorder) take() []callthrottle.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	states := r.states
	r.states = nil
	return states
}

func (r *recorder) imposed() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Duration(nil), r.waits...)
}

// quiet keeps throttle logs out of test output.
var quiet = callthrottle.WithLogger(nil)
