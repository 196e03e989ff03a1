package fetch

import (
	"context"
	"time"
)

// Auto-scroll defaults. The step/interval pair walks the page quickly
// enough to trigger lazy loaders without outrunning them; the settle pause
// gives the final burst of requests time to resolve.
const (
	DefaultScrollStep     = 1024
	DefaultScrollInterval = 40 * time.Millisecond
	DefaultScrollSettle   = 400 * time.Millisecond

	// DefaultMaxScrollSteps caps the walk on pages whose height grows as
	// fast as the scroll advances (infinite feeds). Without a cap the loop
	// would only terminate when the page stops growing.
	DefaultMaxScrollSteps = 64
)

// Pager is the minimal surface the scroller needs from a browser page.
type Pager interface {
	// ScrollBy scrolls the viewport down by the given number of pixels.
	ScrollBy(ctx context.Context, pixels int) error

	// DocumentHeight returns the current scroll height of the document.
	DocumentHeight(ctx context.Context) (int, error)
}

// Scroller walks a page downward in fixed steps until the scrolled distance
// reaches the measured document height, then pauses so late lazy-load
// requests can resolve. Termination is bounded both by the page's own
// height and by MaxSteps.
type Scroller struct {
	// Step is the scroll distance per iteration in pixels.
	Step int

	// Interval is the pause between scroll steps.
	Interval time.Duration

	// Settle is the final pause after the last step.
	Settle time.Duration

	// MaxSteps bounds the number of scroll iterations. Zero means
	// DefaultMaxScrollSteps.
	MaxSteps int

	// Sleep suspends between steps; tests inject their own.
	Sleep SleepFunc
}

// NewScroller creates a Scroller with the default step, interval, settle
// pause and iteration cap.
func NewScroller() *Scroller {
	return &Scroller{
		Step:     DefaultScrollStep,
		Interval: DefaultScrollInterval,
		Settle:   DefaultScrollSettle,
		MaxSteps: DefaultMaxScrollSteps,
		Sleep:    sleepContext,
	}
}

// Run performs the scroll sequence on the given page. It returns once the
// scrolled distance covers the document height or the iteration cap is hit,
// after the settle pause.
func (s *Scroller) Run(ctx context.Context, page Pager) error {
	step := s.Step
	if step <= 0 {
		step = DefaultScrollStep
	}
	maxSteps := s.MaxSteps
	if maxSteps <= 0 {
		maxSteps = DefaultMaxScrollSteps
	}
	sleep := s.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	scrolled := 0
	for i := 0; i < maxSteps; i++ {
		if err := page.ScrollBy(ctx, step); err != nil {
			return err
		}
		scrolled += step

		height, err := page.DocumentHeight(ctx)
		if err != nil {
			return err
		}
		if scrolled >= height {
			break
		}

		if err := sleep(ctx, s.Interval); err != nil {
			return err
		}
	}

	return sleep(ctx, s.Settle)
}
