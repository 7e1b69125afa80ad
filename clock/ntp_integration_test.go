//go:build integration

package clock_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkerroan/callthrottle/clock"
)

func TestNTP_Integration(t *testing.T) {
	host := os.Getenv("NTP_TEST_HOST")
	if host == "" {
		host = "pool.ntp.org"
	}

	c, err := clock.NTP(host)
	require.NoError(t, err)

	// A sane host is not hours away from the local clock.
	assert.Less(t, c.Correction().Abs(), time.Hour)
}
