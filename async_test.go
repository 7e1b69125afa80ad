package callthrottle_test

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/parkerroan/callthrottle"
)

func TestAsyncThrottle_ExhaustedWindowWaits(t *testing.T) {
	thr, err := callthrottle.NewAsync(2, 100*time.Millisecond, quiet)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, thr.Wait(ctx))
	require.NoError(t, thr.Wait(ctx))

	start := time.Now()
	require.NoError(t, thr.Wait(ctx))
	assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
}

func TestAsyncThrottle_Reject(t *testing.T) {
	clk := newFakeClock()
	thr, err := callthrottle.NewAsync(1, 100*time.Millisecond,
		callthrottle.WithRejectOnThrottle(true),
		callthrottle.WithClock(clk),
		quiet,
	)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, thr.Wait(ctx))

	clk.Advance(50 * time.Millisecond)
	require.ErrorIs(t, <-thr.WaitAsync(ctx), callthrottle.ErrThrottleExceeded)

	clk.Advance(150 * time.Millisecond)
	errc := thr.WaitAsync(ctx)
	require.NoError(t, <-errc)

	_, open := <-errc
	assert.False(t, open, "result channel should be closed after delivery")
}

func TestAsyncThrottle_Context(t *testing.T) {
	t.Run("pre-cancelled context fails early", func(t *testing.T) {
		thr, err := callthrottle.NewAsync(1, time.Second, quiet)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err = thr.Wait(ctx)
		assert.ErrorIs(t, err, callthrottle.ErrContextEnded)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("deadline during the wait", func(t *testing.T) {
		rec := &recorder{}
		thr, err := callthrottle.NewAsync(1, time.Second, callthrottle.WithObserver(rec.observe), quiet)
		require.NoError(t, err)

		require.NoError(t, thr.Wait(context.Background()))
		rec.take()

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		start := time.Now()
		err = thr.Wait(ctx)
		assert.ErrorIs(t, err, callthrottle.ErrContextEnded)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Less(t, time.Since(start), 500*time.Millisecond)

		// An abandoned wait never reaches done.
		assert.Equal(t, []callthrottle.State{callthrottle.StateDeciding, callthrottle.StateWaiting}, rec.take())
	})

	t.Run("deadline while queued behind a waiting call", func(t *testing.T) {
		thr, err := callthrottle.NewAsync(1, 300*time.Millisecond, quiet)
		require.NoError(t, err)

		require.NoError(t, thr.Wait(context.Background()))

		// This call holds the lock for the rest of the window.
		holder := thr.WaitAsync(context.Background())
		time.Sleep(30 * time.Millisecond)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		err = thr.Wait(ctx)
		assert.ErrorIs(t, err, callthrottle.ErrWaitingFailed)
		assert.ErrorIs(t, err, context.DeadlineExceeded)

		assert.NoError(t, <-holder)
	})
}

func TestAsyncThrottle_Concurrent(t *testing.T) {
	window := 50 * time.Millisecond
	thr, err := callthrottle.NewAsync(1, window, quiet)
	require.NoError(t, err)

	const callers = 5

	var (
		mu    sync.Mutex
		times []time.Time
	)

	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < callers; i++ {
		g.Go(func() error {
			_, err := callthrottle.DoContext(ctx, thr, func(context.Context) (struct{}, error) {
				mu.Lock()
				times = append(times, time.Now())
				mu.Unlock()
				return struct{}{}, nil
			})
			return err
		})
	}
	require.NoError(t, g.Wait())

	require.Len(t, times, callers)
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
	for i := 1; i < len(times); i++ {
		assert.GreaterOrEqual(t, times[i].Sub(times[i-1]), window-10*time.Millisecond, "calls %d and %d share a window", i-1, i)
	}
}

func TestAsyncThrottle_MatchesThrottle(t *testing.T) {
	syncClk, asyncClk := newFakeClock(), newFakeClock()
	syncRec, asyncRec := &recorder{}, &recorder{}

	st, err := callthrottle.New(2, 30*time.Millisecond,
		callthrottle.WithClock(syncClk), callthrottle.WithObserver(syncRec.observe), quiet)
	require.NoError(t, err)
	at, err := callthrottle.NewAsync(2, 30*time.Millisecond,
		callthrottle.WithClock(asyncClk), callthrottle.WithObserver(asyncRec.observe), quiet)
	require.NoError(t, err)

	steps := []time.Duration{0, 5, 5, 40, 1, 1, 1}
	for _, step := range steps {
		syncClk.Advance(step * time.Millisecond)
		asyncClk.Advance(step * time.Millisecond)
		require.NoError(t, st.Wait())
		require.NoError(t, at.Wait(context.Background()))
	}

	assert.Equal(t, syncRec.imposed(), asyncRec.imposed())
	assert.Equal(t, syncRec.take(), asyncRec.take())
}

func TestAsyncThrottle_AbandonedWaitKeepsBudget(t *testing.T) {
	clk := newFakeClock()
	rec := &recorder{}
	thr, err := callthrottle.NewAsync(2, time.Second,
		callthrottle.WithClock(clk),
		callthrottle.WithObserver(rec.observe),
		quiet,
	)
	require.NoError(t, err)

	require.NoError(t, thr.Wait(context.Background()))
	clk.Advance(10 * time.Millisecond)
	require.NoError(t, thr.Wait(context.Background()))

	waitBriefly := func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		return thr.Wait(ctx)
	}

	// The third call is throttled and its caller gives up.
	clk.Advance(10 * time.Millisecond)
	require.ErrorIs(t, waitBriefly(), callthrottle.ErrContextEnded)

	// The window is still exhausted, so the next call has to wait too.
	clk.Advance(20 * time.Millisecond)
	require.ErrorIs(t, waitBriefly(), callthrottle.ErrContextEnded)

	assert.Equal(t, []time.Duration{990 * time.Millisecond, 970 * time.Millisecond}, rec.imposed())
}
