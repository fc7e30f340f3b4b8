package locator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"screenpilot/internal/model"
	"screenpilot/internal/platform"
)

// Polling defaults. The interval starts small so fast transitions are caught
// quickly, then backs off to avoid hammering the accessibility bus and the
// OCR engine on slow screens.
const (
	DefaultWaitTimeout   = 10 * time.Second
	DefaultInitialPoll   = 500 * time.Millisecond
	DefaultMaxPoll       = 2 * time.Second
	DefaultBackoffFactor = 1.5
)

// ElementSource is the query surface the Waiter polls. *Finder satisfies it;
// tests substitute scripted fakes.
type ElementSource interface {
	Find(q platform.Query, visibleOnly bool) *model.Element
	FindText(text string, exact, caseSensitive bool) *model.Element
}

// TimeoutError reports that a condition did not hold within the deadline.
type TimeoutError struct {
	What    string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out after %s waiting for %s", e.Timeout, e.What)
}

// WaiterConfig tunes the polling schedule. Zero values take the defaults.
type WaiterConfig struct {
	Timeout         time.Duration
	InitialInterval time.Duration
	MaxInterval     time.Duration
	BackoffFactor   float64
}

func (c WaiterConfig) withDefaults() WaiterConfig {
	if c.Timeout == 0 {
		c.Timeout = DefaultWaitTimeout
	}
	if c.InitialInterval == 0 {
		c.InitialInterval = DefaultInitialPoll
	}
	if c.MaxInterval == 0 {
		c.MaxInterval = DefaultMaxPoll
	}
	if c.BackoffFactor == 0 {
		c.BackoffFactor = DefaultBackoffFactor
	}
	return c
}

// Waiter polls an ElementSource until a condition holds or a deadline
// expires. Each wait re-queries from scratch: elements are never assumed to
// stay where they were.
type Waiter struct {
	source ElementSource
	cfg    WaiterConfig
}

// NewWaiter builds a Waiter over the given source.
func NewWaiter(source ElementSource, cfg WaiterConfig) *Waiter {
	return &Waiter{source: source, cfg: cfg.withDefaults()}
}

// WaitResult reports the outcome of a wait: the matched element (if any),
// how long it took, and how many polls ran.
type WaitResult struct {
	Element *model.Element
	Elapsed time.Duration
	Polls   int
}

// WaitForElement polls until an element matching the query appears.
func (w *Waiter) WaitForElement(ctx context.Context, q platform.Query, visibleOnly bool) (*WaitResult, error) {
	return pollUntil(ctx, w.cfg, q.Describe(), func() (*model.Element, bool) {
		el := w.source.Find(q, visibleOnly)
		return el, el != nil
	})
}

// WaitForText polls until the given text is visible on screen.
func (w *Waiter) WaitForText(ctx context.Context, text string, exact, caseSensitive bool) (*WaitResult, error) {
	return pollUntil(ctx, w.cfg, fmt.Sprintf("text %q", text), func() (*model.Element, bool) {
		el := w.source.FindText(text, exact, caseSensitive)
		return el, el != nil
	})
}

// WaitUntilGone polls until no element matches the query. "Gone" means the
// same query that previously matched now matches nothing.
func (w *Waiter) WaitUntilGone(ctx context.Context, q platform.Query) (*WaitResult, error) {
	return pollUntil(ctx, w.cfg, fmt.Sprintf("%s to disappear", q.Describe()), func() (*model.Element, bool) {
		el := w.source.Find(q, true)
		return nil, el == nil
	})
}

// WaitUntilTextGone polls until the given text is no longer on screen.
func (w *Waiter) WaitUntilTextGone(ctx context.Context, text string, exact, caseSensitive bool) (*WaitResult, error) {
	return pollUntil(ctx, w.cfg, fmt.Sprintf("text %q to disappear", text), func() (*model.Element, bool) {
		el := w.source.FindText(text, exact, caseSensitive)
		return nil, el == nil
	})
}

// WaitForAny polls until any of the queries matches, returning the index of
// the query that hit along with the element. On each poll the queries are
// tried in order, so when several appear in the same interval the
// lowest-indexed one wins.
func (w *Waiter) WaitForAny(ctx context.Context, queries []platform.Query, visibleOnly bool) (int, *WaitResult, error) {
	if len(queries) == 0 {
		return -1, nil, fmt.Errorf("wait for any: no queries given")
	}
	matched := -1
	descs := make([]string, len(queries))
	for i, q := range queries {
		descs[i] = q.Describe()
	}
	what := fmt.Sprintf("any of: %s", strings.Join(descs, ", "))
	res, err := pollUntil(ctx, w.cfg, what, func() (*model.Element, bool) {
		for i, q := range queries {
			if el := w.source.Find(q, visibleOnly); el != nil {
				matched = i
				return el, true
			}
		}
		return nil, false
	})
	if err != nil {
		return -1, nil, err
	}
	return matched, res, nil
}

// WaitForStable polls until the element's position stops changing for
// stableFor, then returns it. Useful after animations and window resizes.
// Polling runs at the initial interval without backoff: backoff would
// stretch the measurement window past stableFor.
func (w *Waiter) WaitForStable(ctx context.Context, q platform.Query, stableFor time.Duration) (*WaitResult, error) {
	if stableFor == 0 {
		stableFor = 500 * time.Millisecond
	}
	start := time.Now()
	deadline := start.Add(w.cfg.Timeout)
	polls := 0

	var lastPos [2]int
	var stableSince time.Time

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		polls++
		el := w.source.Find(q, false)
		now := time.Now()
		pos := [2]int{}
		if el != nil {
			pos = [2]int{el.Bounds[0], el.Bounds[1]}
		}
		if el == nil {
			stableSince = time.Time{}
		} else if stableSince.IsZero() || pos != lastPos {
			lastPos = pos
			stableSince = now
		} else if now.Sub(stableSince) >= stableFor {
			return &WaitResult{Element: el, Elapsed: time.Since(start), Polls: polls}, nil
		}

		if now.After(deadline) {
			return nil, &TimeoutError{
				What:    fmt.Sprintf("%s to become stable", q.Describe()),
				Timeout: w.cfg.Timeout,
			}
		}
		if err := sleepCtx(ctx, w.cfg.InitialInterval); err != nil {
			return nil, err
		}
	}
}

// WaitWithCallback polls an arbitrary condition. The callback returns the
// element to report (may be nil) and whether the condition holds.
func (w *Waiter) WaitWithCallback(ctx context.Context, what string, cond func() (*model.Element, bool)) (*WaitResult, error) {
	return pollUntil(ctx, w.cfg, what, cond)
}

// pollUntil is the shared polling engine: poll immediately, then sleep with
// exponential backoff between polls. The sleep is clamped to both the max
// interval and the time remaining, so the final poll lands at the deadline
// rather than overshooting it. The condition is always checked at least once.
func pollUntil(ctx context.Context, cfg WaiterConfig, what string, cond func() (*model.Element, bool)) (*WaitResult, error) {
	start := time.Now()
	deadline := start.Add(cfg.Timeout)
	interval := cfg.InitialInterval
	polls := 0

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		polls++
		if el, ok := cond(); ok {
			return &WaitResult{Element: el, Elapsed: time.Since(start), Polls: polls}, nil
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, &TimeoutError{What: what, Timeout: cfg.Timeout}
		}
		sleep := min(interval, cfg.MaxInterval, remaining)
		if err := sleepCtx(ctx, sleep); err != nil {
			return nil, err
		}
		// Grow in float space and compare before converting back: repeated
		// multiplication would otherwise overflow time.Duration and turn the
		// interval negative, collapsing the sleep to zero.
		if next := float64(interval) * cfg.BackoffFactor; next >= float64(cfg.MaxInterval) {
			interval = cfg.MaxInterval
		} else {
			interval = time.Duration(next)
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
