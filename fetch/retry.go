package fetch

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// State identifies where a navigation lifecycle stands in the 403 retry
// state machine.
type State string

// Retry coordinator states. Loaded and Exhausted are terminal.
const (
	StateNavigating State = "navigating"
	StateLoaded     State = "loaded"
	StateBlocked    State = "blocked"
	StateRetrying   State = "retrying"
	StateExhausted  State = "exhausted"
)

// DefaultBackoffBase is the base delay before retry attempt k; the actual
// delay grows linearly as k × base so repeated retries don't hammer the
// blocking endpoint.
const DefaultBackoffBase = 800 * time.Millisecond

// SleepFunc suspends for d or until the context is canceled.
type SleepFunc func(ctx context.Context, d time.Duration) error

// RotateFunc swaps the session identity before a retry: a new user agent
// plus no-cache request headers.
type RotateFunc func(ctx context.Context) error

// Decision is the outcome of resolving one settled navigation attempt.
type Decision struct {
	// Retry is true when the orchestrator should navigate again.
	Retry bool

	// URL is the address that produced the 403 and should be revisited.
	URL string
}

// RetryCoordinator watches response statuses for a single fetch call and
// decides whether a blocked navigation should be retried. It owns the only
// mutable retry state of the fetch: the attempt counter, which increments
// on each detected block and never resets mid-fetch.
//
// ObserveResponse may be called concurrently from event goroutines; the
// first 403 observed during a navigation attempt wins and later duplicates
// are ignored.
type RetryCoordinator struct {
	enabled     bool
	maxRetries  int
	backoffBase time.Duration
	sleep       SleepFunc
	logger      *slog.Logger

	mu         sync.Mutex
	state      State
	attempts   int
	blockedURL string
}

// RetryOption configures a RetryCoordinator.
type RetryOption func(*RetryCoordinator)

// WithBackoffBase overrides the base backoff delay.
func WithBackoffBase(d time.Duration) RetryOption {
	return func(c *RetryCoordinator) {
		c.backoffBase = d
	}
}

// WithSleep replaces the sleep function. Used by tests to verify backoff
// without waiting for real delays.
func WithSleep(sleep SleepFunc) RetryOption {
	return func(c *RetryCoordinator) {
		c.sleep = sleep
	}
}

// WithLogger sets the logger used for retry and exhaustion events.
func WithLogger(logger *slog.Logger) RetryOption {
	return func(c *RetryCoordinator) {
		c.logger = logger
	}
}

// NewRetryCoordinator creates a coordinator for one fetch call. When enabled
// is false the coordinator never leaves the Navigating/Loaded path no matter
// what statuses it observes.
func NewRetryCoordinator(enabled bool, maxRetries int, opts ...RetryOption) *RetryCoordinator {
	c := &RetryCoordinator{
		enabled:     enabled,
		maxRetries:  maxRetries,
		backoffBase: DefaultBackoffBase,
		sleep:       sleepContext,
		logger:      slog.Default(),
		state:       StateNavigating,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BeginNavigation marks the start of a navigation attempt. Any block
// recorded for the previous attempt is cleared; the attempt counter is not.
func (c *RetryCoordinator) BeginNavigation() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateNavigating
	c.blockedURL = ""
}

// ObserveResponse records a response status seen while the current
// navigation is in flight. Only HTTP 403 transitions the machine; all other
// statuses are left to the orchestrator's ordinary completion path.
func (c *RetryCoordinator) ObserveResponse(status int, url string) {
	if !c.enabled || status != 403 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// First qualifying 403 per attempt wins; duplicates and stragglers
	// arriving outside the Navigating window are dropped.
	if c.state != StateNavigating {
		return
	}
	c.state = StateBlocked
	c.blockedURL = url
}

// Decide resolves a settled navigation attempt. If the attempt was blocked
// and budget remains, it rotates identity, sleeps the linear backoff, and
// tells the orchestrator to navigate again. Otherwise it moves to a terminal
// state: Loaded on success, Exhausted when the budget is spent.
func (c *RetryCoordinator) Decide(ctx context.Context, rotate RotateFunc) (Decision, error) {
	c.mu.Lock()
	if c.state != StateBlocked {
		c.state = StateLoaded
		c.mu.Unlock()
		return Decision{}, nil
	}
	if c.attempts >= c.maxRetries {
		c.state = StateExhausted
		attempts := c.attempts
		c.mu.Unlock()
		c.logger.Warn("403 retries exhausted, keeping last rendered page",
			"attempts", attempts,
		)
		return Decision{}, nil
	}
	c.attempts++
	attempt := c.attempts
	target := c.blockedURL
	c.state = StateRetrying
	c.mu.Unlock()

	if rotate != nil {
		if err := rotate(ctx); err != nil {
			return Decision{}, err
		}
	}

	c.logger.Info("blocked with 403, retrying with rotated identity",
		"url", target,
		"attempt", attempt,
	)

	if err := c.sleep(ctx, time.Duration(attempt)*c.backoffBase); err != nil {
		return Decision{}, err
	}

	return Decision{Retry: true, URL: target}, nil
}

// State returns the current state.
func (c *RetryCoordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Attempts returns the number of retries performed so far.
func (c *RetryCoordinator) Attempts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attempts
}

// Exhausted reports whether the fetch ended with its retry budget spent on
// repeated 403 responses.
func (c *RetryCoordinator) Exhausted() bool {
	return c.State() == StateExhausted
}

// sleepContext sleeps for d or returns early with the context's error.
func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
