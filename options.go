package callthrottle

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/parkerroan/callthrottle/clock"
	"github.com/parkerroan/callthrottle/limiter"
)

// Option configures a Throttle or an AsyncThrottle.
type Option func(*options)

type options struct {
	name        string
	reject      bool
	limiterFunc limiter.NewLimiterFunc
	clock       clock.Clock
	logger      *slog.Logger
	observer    func(State, time.Duration)
}

// WithRejectOnThrottle makes an exhausted window fail with
// ErrThrottleExceeded instead of waiting.
// default: false
func WithRejectOnThrottle(reject bool) Option {
	return func(o *options) {
		o.reject = reject
	}
}

// WithName sets the name logged with every throttle event, a good value
// would be the name of the guarded call site.
// default: a random UUID
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithLimiterConstructorFunc selects the admission strategy.
// default: limiter.NewWindowLimiterConstructorFunc()
func WithLimiterConstructorFunc(fn limiter.NewLimiterFunc) Option {
	return func(o *options) {
		o.limiterFunc = fn
	}
}

// WithClock sets the time source admissions are measured against.
// default: clock.System{}
func WithClock(c clock.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// WithLogger sets the logger. A nil logger discards all throttle events.
// default: slog.Default()
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = slog.New(slog.DiscardHandler)
		}
		o.logger = logger
	}
}

// WithObserver registers fn to be called on every state transition of an
// admission. fn runs while the throttle's lock is held and must not block.
// wait is the imposed wait for StateWaiting and StateDone, zero otherwise.
func WithObserver(fn func(state State, wait time.Duration)) Option {
	return func(o *options) {
		o.observer = fn
	}
}

// core is the state and behaviour shared by both throttles. Every method that
// touches the limiter must be called with the owning throttle's lock held.
type core struct {
	name     string
	maxCalls int
	window   time.Duration
	limiter  limiter.Limiter
	clock    clock.Clock
	logger   *slog.Logger
	observer func(State, time.Duration)
}

func newCore(maxCalls int, window time.Duration, opts []Option) (core, error) {
	if maxCalls <= 0 || window <= 0 {
		return core{}, fmt.Errorf("maxCalls[%d] and window[%s] %w", maxCalls, window, ErrMustNotBeZero)
	}

	o := options{
		name:        uuid.NewString(),
		limiterFunc: limiter.NewWindowLimiterConstructorFunc(),
		clock:       clock.System{},
		logger:      slog.Default(),
	}

	// Apply all provided options
	for _, opt := range opts {
		opt(&o)
	}

	if o.limiterFunc == nil {
		o.limiterFunc = limiter.NewWindowLimiterConstructorFunc()
	}
	if o.clock == nil {
		o.clock = clock.System{}
	}

	return core{
		name:     o.name,
		maxCalls: maxCalls,
		window:   window,
		limiter:  o.limiterFunc(maxCalls, window, o.reject),
		clock:    o.clock,
		logger:   o.logger,
		observer: o.observer,
	}, nil
}

// Name returns the throttle's name.
func (c *core) Name() string {
	return c.name
}

// LimitDetails returns the call budget and the window.
func (c *core) LimitDetails() (int, time.Duration) {
	return c.maxCalls, c.window
}

func (c *core) admit() (time.Duration, error) {
	c.observe(StateDeciding, 0)

	wait, err := c.limiter.Admit(c.clock.Now())
	if err != nil {
		c.observe(StateRejected, 0)
		c.logger.Warn("throttle rejected call", "name", c.name, "max_calls", c.maxCalls, "window", c.window.String())
		return 0, fmt.Errorf("throttle %s: %w", c.name, err)
	}

	if wait > 0 {
		c.observe(StateWaiting, wait)
		c.logger.Info("throttle engaged", "name", c.name, "wait", wait.String(), "max_calls", c.maxCalls, "window", c.window.String())
	}

	return wait, nil
}

func (c *core) complete(wait time.Duration) {
	c.limiter.Complete(c.clock.Now())

	if wait > 0 {
		c.logger.Debug("throttle wait complete", "name", c.name, "waited", wait.String())
	}

	c.observe(StateDone, wait)
}

func (c *core) abandon(wait time.Duration) {
	c.limiter.Abandon()
	c.logger.Info("throttle wait abandoned", "name", c.name, "wait", wait.String())
}

func (c *core) observe(state State, wait time.Duration) {
	if c.observer != nil {
		c.observer(state, wait)
	}
}
