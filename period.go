package callthrottle

import (
	"fmt"
	"math"
	"time"
)

// maxSeconds is the longest window, in whole seconds, a time.Duration holds.
const maxSeconds = math.MaxInt64 / int64(time.Second)

// Seconds converts a window given in seconds to a time.Duration. Values
// beyond the range of time.Duration saturate at its limits.
func Seconds(s float64) time.Duration {
	d := s * float64(time.Second)
	switch {
	case d >= math.MaxInt64:
		return math.MaxInt64
	case d <= math.MinInt64:
		return math.MinInt64
	}

	return time.Duration(d)
}

// Period normalizes a window given either as a time.Duration or as a number
// of seconds. The result must still be validated as positive by the
// constructors.
func Period(v any) (time.Duration, error) {
	switch p := v.(type) {
	case time.Duration:
		return p, nil
	case int:
		return periodFromInt(int64(p))
	case int64:
		return periodFromInt(p)
	case float32:
		return periodFromFloat(float64(p))
	case float64:
		return periodFromFloat(p)
	default:
		return 0, fmt.Errorf("%w: unsupported window type %T", ErrInvalidConfig, v)
	}
}

func periodFromInt(s int64) (time.Duration, error) {
	if s > maxSeconds || s < -maxSeconds {
		return 0, fmt.Errorf("%w: window of %d seconds is out of range", ErrInvalidConfig, s)
	}

	return time.Duration(s) * time.Second, nil
}

func periodFromFloat(s float64) (time.Duration, error) {
	if math.IsNaN(s) || math.IsInf(s, 0) {
		return 0, fmt.Errorf("%w: window %v is not a finite number of seconds", ErrInvalidConfig, s)
	}

	if math.Abs(s) > float64(maxSeconds) {
		return 0, fmt.Errorf("%w: window of %v seconds is out of range", ErrInvalidConfig, s)
	}

	return Seconds(s), nil
}
