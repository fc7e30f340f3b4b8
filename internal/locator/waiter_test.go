package locator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screenpilot/internal/model"
	"screenpilot/internal/platform"
)

// scriptedSource replays a fixed sequence of results, one per poll.
// After the script runs out the last entry repeats.
type scriptedSource struct {
	script []*model.Element
	polls  int
}

func (s *scriptedSource) next() *model.Element {
	i := s.polls
	s.polls++
	if len(s.script) == 0 {
		return nil
	}
	if i >= len(s.script) {
		i = len(s.script) - 1
	}
	return s.script[i]
}

func (s *scriptedSource) Find(q platform.Query, visibleOnly bool) *model.Element {
	return s.next()
}

func (s *scriptedSource) FindText(text string, exact, caseSensitive bool) *model.Element {
	return s.next()
}

func el(name string) *model.Element {
	e := model.NewAXElement(name, [4]int{10, 10, 50, 20}, model.AXMeta{RoleName: "push button"})
	return &e
}

// fastConfig keeps test wall time low while preserving the backoff shape.
func fastConfig(timeout time.Duration) WaiterConfig {
	return WaiterConfig{
		Timeout:         timeout,
		InitialInterval: 10 * time.Millisecond,
		MaxInterval:     40 * time.Millisecond,
		BackoffFactor:   1.5,
	}
}

func TestWaitForElementImmediateHit(t *testing.T) {
	src := &scriptedSource{script: []*model.Element{el("Save")}}
	w := NewWaiter(src, fastConfig(time.Second))

	res, err := w.WaitForElement(context.Background(), platform.Query{Name: "Save"}, false)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Polls, "first poll runs without sleeping")
	assert.Equal(t, "Save", res.Element.Name)
}

func TestWaitForElementAppearsLater(t *testing.T) {
	src := &scriptedSource{script: []*model.Element{nil, nil, el("Dialog")}}
	w := NewWaiter(src, fastConfig(time.Second))

	start := time.Now()
	res, err := w.WaitForElement(context.Background(), platform.Query{Name: "Dialog"}, false)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Polls)
	// Two sleeps happened: 10ms then 15ms.
	assert.GreaterOrEqual(t, time.Since(start), 25*time.Millisecond)
}

func TestWaitTimeout(t *testing.T) {
	src := &scriptedSource{}
	timeout := 100 * time.Millisecond
	w := NewWaiter(src, fastConfig(timeout))

	start := time.Now()
	res, err := w.WaitForElement(context.Background(), platform.Query{Name: "Ghost", Role: "button"}, false)
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.Nil(t, res)
	assert.GreaterOrEqual(t, elapsed, timeout, "must wait out the full timeout")

	var timeoutErr *TimeoutError
	require.True(t, errors.As(err, &timeoutErr))
	assert.Equal(t, timeout, timeoutErr.Timeout)
	assert.Contains(t, timeoutErr.Error(), `name="Ghost"`)
	assert.Contains(t, timeoutErr.Error(), `role="button"`)

	// Backoff schedule from 10ms: sleeps 10+15+22.5+33.75+18.75(clamped)
	// gives 6 polls; allow slack for scheduler jitter but forbid hot-looping.
	assert.GreaterOrEqual(t, src.polls, 4)
	assert.LessOrEqual(t, src.polls, 8)
}

func TestWaitSleepClampedToRemaining(t *testing.T) {
	src := &scriptedSource{}
	timeout := 50 * time.Millisecond
	w := NewWaiter(src, WaiterConfig{
		Timeout:         timeout,
		InitialInterval: time.Second, // would overshoot wildly without the clamp
		MaxInterval:     time.Second,
		BackoffFactor:   1.5,
	})

	start := time.Now()
	_, err := w.WaitForElement(context.Background(), platform.Query{Name: "x"}, false)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 200*time.Millisecond, "sleep must be clamped to the time remaining")
}

func TestWaitBackoffCappedAtMaxInterval(t *testing.T) {
	src := &scriptedSource{}
	timeout := 300 * time.Millisecond
	w := NewWaiter(src, WaiterConfig{
		Timeout: timeout,
		// Large enough that one more backoff multiplication would overflow
		// time.Duration if the interval were not held at MaxInterval.
		InitialInterval: time.Duration(1 << 62),
		MaxInterval:     20 * time.Millisecond,
		BackoffFactor:   1.5,
	})

	start := time.Now()
	_, err := w.WaitForElement(context.Background(), platform.Query{Name: "x"}, false)
	require.Error(t, err)
	assert.GreaterOrEqual(t, time.Since(start), timeout)
	// Every sleep is MaxInterval, so the poll count stays near
	// timeout/MaxInterval; a collapsed interval would yield thousands.
	assert.LessOrEqual(t, src.polls, 30, "polling must keep sleeping at MaxInterval")
}

func TestWaitUntilGone(t *testing.T) {
	src := &scriptedSource{script: []*model.Element{el("Spinner"), el("Spinner"), nil}}
	w := NewWaiter(src, fastConfig(time.Second))

	res, err := w.WaitUntilGone(context.Background(), platform.Query{Name: "Spinner"})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Polls, "gone on the third poll")
	assert.Nil(t, res.Element)
}

func TestWaitUntilTextGone(t *testing.T) {
	src := &scriptedSource{script: []*model.Element{el("Loading..."), nil}}
	w := NewWaiter(src, fastConfig(time.Second))

	res, err := w.WaitUntilTextGone(context.Background(), "Loading...", false, false)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Polls)
}

func TestWaitUntilGoneTimesOut(t *testing.T) {
	src := &scriptedSource{script: []*model.Element{el("Modal")}}
	w := NewWaiter(src, fastConfig(80*time.Millisecond))

	_, err := w.WaitUntilGone(context.Background(), platform.Query{Name: "Modal"})
	var timeoutErr *TimeoutError
	require.True(t, errors.As(err, &timeoutErr))
	assert.Contains(t, timeoutErr.What, "disappear")
}

// orderedSource answers different queries differently so WaitForAny's
// priority order is observable.
type orderedSource struct {
	byName map[string]*model.Element
}

func (s *orderedSource) Find(q platform.Query, visibleOnly bool) *model.Element {
	return s.byName[q.Name]
}

func (s *orderedSource) FindText(text string, exact, caseSensitive bool) *model.Element {
	return nil
}

func TestWaitForAnyPriority(t *testing.T) {
	src := &orderedSource{byName: map[string]*model.Element{
		"Error":   el("Error"),
		"Success": el("Success"),
	}}
	w := NewWaiter(src, fastConfig(time.Second))

	queries := []platform.Query{{Name: "Success"}, {Name: "Error"}}
	idx, res, err := w.WaitForAny(context.Background(), queries, false)
	require.NoError(t, err)
	// Both match; the lower index wins.
	assert.Equal(t, 0, idx)
	assert.Equal(t, "Success", res.Element.Name)
}

func TestWaitForAnySecondMatches(t *testing.T) {
	src := &orderedSource{byName: map[string]*model.Element{"Error": el("Error")}}
	w := NewWaiter(src, fastConfig(time.Second))

	idx, res, err := w.WaitForAny(context.Background(), []platform.Query{{Name: "Success"}, {Name: "Error"}}, false)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	assert.Equal(t, "Error", res.Element.Name)
}

func TestWaitForAnyNoQueries(t *testing.T) {
	w := NewWaiter(&scriptedSource{}, fastConfig(time.Second))
	_, _, err := w.WaitForAny(context.Background(), nil, false)
	assert.Error(t, err)
}

// movingSource reports an element whose bounds shift for the first few polls
// and then settle.
type movingSource struct {
	polls       int
	movingPolls int
}

func (s *movingSource) Find(q platform.Query, visibleOnly bool) *model.Element {
	s.polls++
	x := 0
	if s.polls < s.movingPolls {
		x = s.polls * 10
	}
	e := model.NewAXElement("Panel", [4]int{x, 50, 200, 100}, model.AXMeta{RoleName: "panel"})
	return &e
}

func (s *movingSource) FindText(text string, exact, caseSensitive bool) *model.Element {
	return nil
}

func TestWaitForStable(t *testing.T) {
	src := &movingSource{movingPolls: 3}
	w := NewWaiter(src, fastConfig(2*time.Second))

	res, err := w.WaitForStable(context.Background(), platform.Query{Name: "Panel"}, 50*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, [4]int{0, 50, 200, 100}, res.Element.Bounds)
	assert.GreaterOrEqual(t, res.Polls, 4, "needs settled polls spanning the stable window")
}

func TestWaitForStableTimesOutWhileMoving(t *testing.T) {
	src := &movingSource{movingPolls: 1 << 30} // never settles
	w := NewWaiter(src, fastConfig(100*time.Millisecond))

	_, err := w.WaitForStable(context.Background(), platform.Query{Name: "Panel"}, time.Hour)
	var timeoutErr *TimeoutError
	require.True(t, errors.As(err, &timeoutErr))
	assert.Contains(t, timeoutErr.What, "stable")
}

func TestWaitContextCancellation(t *testing.T) {
	src := &scriptedSource{}
	w := NewWaiter(src, fastConfig(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := w.WaitForElement(ctx, platform.Query{Name: "x"}, false)
	require.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

func TestWaitWithCallback(t *testing.T) {
	calls := 0
	w := NewWaiter(&scriptedSource{}, fastConfig(time.Second))
	res, err := w.WaitWithCallback(context.Background(), "third call", func() (*model.Element, bool) {
		calls++
		return nil, calls >= 3
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Polls)
}

func TestWaiterDefaults(t *testing.T) {
	cfg := WaiterConfig{}.withDefaults()
	assert.Equal(t, DefaultWaitTimeout, cfg.Timeout)
	assert.Equal(t, DefaultInitialPoll, cfg.InitialInterval)
	assert.Equal(t, DefaultMaxPoll, cfg.MaxInterval)
	assert.Equal(t, DefaultBackoffFactor, cfg.BackoffFactor)
}
