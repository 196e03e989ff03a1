package fetch_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/marksuguitan/beautrafil-scrape/fetch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSleep captures requested delays without waiting.
func recordingSleep(delays *[]time.Duration) fetch.SleepFunc {
	return func(_ context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
}

func TestRetryCoordinator_SuccessPath(t *testing.T) {
	t.Parallel()

	c := fetch.NewRetryCoordinator(true, 2, fetch.WithSleep(recordingSleep(&[]time.Duration{})))

	c.BeginNavigation()
	c.ObserveResponse(200, "https://example.com/")

	dec, err := c.Decide(context.Background(), nil)

	require.NoError(t, err)
	assert.False(t, dec.Retry)
	assert.Equal(t, fetch.StateLoaded, c.State())
	assert.Equal(t, 0, c.Attempts())
	assert.False(t, c.Exhausted())
}

func TestRetryCoordinator_DisabledNeverRetries(t *testing.T) {
	t.Parallel()

	c := fetch.NewRetryCoordinator(false, 2)

	c.BeginNavigation()
	c.ObserveResponse(403, "https://example.com/")
	c.ObserveResponse(403, "https://example.com/")

	dec, err := c.Decide(context.Background(), nil)

	require.NoError(t, err)
	assert.False(t, dec.Retry)
	assert.Equal(t, fetch.StateLoaded, c.State())
	assert.Equal(t, 0, c.Attempts())
}

func TestRetryCoordinator_RetriesOn403(t *testing.T) {
	t.Parallel()

	var delays []time.Duration
	rotated := 0
	rotate := func(context.Context) error {
		rotated++
		return nil
	}

	c := fetch.NewRetryCoordinator(true, 2, fetch.WithSleep(recordingSleep(&delays)))

	c.BeginNavigation()
	c.ObserveResponse(403, "https://example.com/blocked")

	dec, err := c.Decide(context.Background(), rotate)

	require.NoError(t, err)
	assert.True(t, dec.Retry)
	assert.Equal(t, "https://example.com/blocked", dec.URL)
	assert.Equal(t, 1, c.Attempts())
	assert.Equal(t, 1, rotated)
	require.Len(t, delays, 1)
	assert.Equal(t, 800*time.Millisecond, delays[0])
}

func TestRetryCoordinator_LinearBackoff(t *testing.T) {
	t.Parallel()

	var delays []time.Duration
	c := fetch.NewRetryCoordinator(true, 3, fetch.WithSleep(recordingSleep(&delays)))

	// Every attempt comes back 403.
	for k := 1; k <= 3; k++ {
		c.BeginNavigation()
		c.ObserveResponse(403, "https://example.com/")
		dec, err := c.Decide(context.Background(), nil)
		require.NoError(t, err)
		require.True(t, dec.Retry)
		assert.Equal(t, k, c.Attempts())
	}

	// Backoff before retry attempt k is 0.8s × k.
	assert.Equal(t, []time.Duration{
		800 * time.Millisecond,
		1600 * time.Millisecond,
		2400 * time.Millisecond,
	}, delays)
}

func TestRetryCoordinator_ExhaustsAfterMaxRetries(t *testing.T) {
	t.Parallel()

	var delays []time.Duration
	c := fetch.NewRetryCoordinator(true, 2, fetch.WithSleep(recordingSleep(&delays)))

	retries := 0
	for {
		c.BeginNavigation()
		c.ObserveResponse(403, "https://example.com/")
		dec, err := c.Decide(context.Background(), nil)
		require.NoError(t, err)
		if !dec.Retry {
			break
		}
		retries++
	}

	// Exactly maxRetries additional navigations, then terminal Exhausted.
	assert.Equal(t, 2, retries)
	assert.Equal(t, 2, c.Attempts())
	assert.True(t, c.Exhausted())
	assert.Equal(t, fetch.StateExhausted, c.State())
	assert.Len(t, delays, 2)
}

func TestRetryCoordinator_ZeroBudgetExhaustsImmediately(t *testing.T) {
	t.Parallel()

	c := fetch.NewRetryCoordinator(true, 0, fetch.WithSleep(recordingSleep(&[]time.Duration{})))

	c.BeginNavigation()
	c.ObserveResponse(403, "https://example.com/")

	dec, err := c.Decide(context.Background(), nil)

	require.NoError(t, err)
	assert.False(t, dec.Retry)
	assert.True(t, c.Exhausted())
	assert.Equal(t, 0, c.Attempts())
}

func TestRetryCoordinator_IgnoresOtherStatuses(t *testing.T) {
	t.Parallel()

	c := fetch.NewRetryCoordinator(true, 2)

	c.BeginNavigation()
	c.ObserveResponse(404, "https://example.com/")
	c.ObserveResponse(500, "https://example.com/")
	c.ObserveResponse(301, "https://example.com/")

	dec, err := c.Decide(context.Background(), nil)

	require.NoError(t, err)
	assert.False(t, dec.Retry)
	assert.Equal(t, fetch.StateLoaded, c.State())
}

func TestRetryCoordinator_ConcurrentDuplicate403sCountOnce(t *testing.T) {
	t.Parallel()

	var delays []time.Duration
	c := fetch.NewRetryCoordinator(true, 5, fetch.WithSleep(recordingSleep(&delays)))

	c.BeginNavigation()

	// A burst of duplicate 403 events for the same navigation, delivered
	// from concurrent handler goroutines, drives exactly one retry.
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.ObserveResponse(403, "https://example.com/burst")
		}()
	}
	wg.Wait()

	dec, err := c.Decide(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, dec.Retry)
	assert.Equal(t, 1, c.Attempts())
}

func TestRetryCoordinator_Late403AfterDecisionIgnored(t *testing.T) {
	t.Parallel()

	c := fetch.NewRetryCoordinator(true, 5, fetch.WithSleep(recordingSleep(&[]time.Duration{})))

	c.BeginNavigation()
	c.ObserveResponse(403, "https://example.com/")
	dec, err := c.Decide(context.Background(), nil)
	require.NoError(t, err)
	require.True(t, dec.Retry)

	// Straggler event for the previous attempt arrives before the new
	// navigation begins: it must not count against the budget.
	c.ObserveResponse(403, "https://example.com/")
	assert.Equal(t, 1, c.Attempts())

	// The next attempt succeeds.
	c.BeginNavigation()
	c.ObserveResponse(200, "https://example.com/")
	dec, err = c.Decide(context.Background(), nil)
	require.NoError(t, err)
	assert.False(t, dec.Retry)
	assert.Equal(t, fetch.StateLoaded, c.State())
	assert.Equal(t, 1, c.Attempts())
}

func TestRetryCoordinator_ContextCanceledDuringBackoff(t *testing.T) {
	t.Parallel()

	c := fetch.NewRetryCoordinator(true, 2, fetch.WithBackoffBase(time.Hour))

	c.BeginNavigation()
	c.ObserveResponse(403, "https://example.com/")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Decide(ctx, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRetryCoordinator_RotateErrorPropagates(t *testing.T) {
	t.Parallel()

	c := fetch.NewRetryCoordinator(true, 2, fetch.WithSleep(recordingSleep(&[]time.Duration{})))

	c.BeginNavigation()
	c.ObserveResponse(403, "https://example.com/")

	rotateErr := context.DeadlineExceeded
	_, err := c.Decide(context.Background(), func(context.Context) error { return rotateErr })

	require.Error(t, err)
	assert.ErrorIs(t, err, rotateErr)
}
