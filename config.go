package callthrottle

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config holds the throttle parameters as they are read from the
// environment, e.g. THROTTLE_MAX_CALLS, THROTTLE_WINDOW and
// THROTTLE_REJECT_ON_THROTTLE for the prefix "THROTTLE".
type Config struct {
	MaxCalls         int           `envconfig:"MAX_CALLS" default:"1" validate:"gt=0"`
	Window           time.Duration `envconfig:"WINDOW" default:"1s" validate:"gt=0"`
	RejectOnThrottle bool          `envconfig:"REJECT_ON_THROTTLE" default:"false"`
}

// LoadConfig reads a Config from the environment and validates it.
func LoadConfig(prefix string) (Config, error) {
	var cfg Config
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks that the call budget and the window are positive.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return nil
}

// Options returns the options that carry the policy part of c.
func (c Config) Options() []Option {
	return []Option{WithRejectOnThrottle(c.RejectOnThrottle)}
}

// NewFromConfig creates a Throttle from cfg. opts are applied after the
// config's own.
func NewFromConfig(cfg Config, opts ...Option) (*Throttle, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return New(cfg.MaxCalls, cfg.Window, append(cfg.Options(), opts...)...)
}

// NewAsyncFromConfig creates an AsyncThrottle from cfg.
func NewAsyncFromConfig(cfg Config, opts ...Option) (*AsyncThrottle, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return NewAsync(cfg.MaxCalls, cfg.Window, append(cfg.Options(), opts...)...)
}
