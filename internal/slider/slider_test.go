package slider

import (
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// manualClock fires timers only when Advance is called.
type manualClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*manualTimer
}

type manualTimer struct {
	clock   *manualClock
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{clock: c, at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	c.mu.Unlock()
	for {
		c.mu.Lock()
		var due []*manualTimer
		for _, t := range c.timers {
			if !t.stopped && !t.fired && t.at <= target {
				due = append(due, t)
			}
		}
		if len(due) == 0 {
			c.now = target
			c.mu.Unlock()
			return
		}
		sort.SliceStable(due, func(i, j int) bool { return due[i].at < due[j].at })
		next := due[0]
		next.fired = true
		c.now = next.at
		c.mu.Unlock()
		next.f()
	}
}

func (c *manualClock) pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

type advance struct{ from, to int }

func newTestSlider(items []Item) (*Slider, *manualClock, *[]advance) {
	clock := &manualClock{}
	s := New(items, clock)
	var mu sync.Mutex
	events := &[]advance{}
	s.OnAdvance(func(from, to int) {
		mu.Lock()
		*events = append(*events, advance{from, to})
		mu.Unlock()
	})
	return s, clock, events
}

func TestAdvanceInterval(t *testing.T) {
	require.Equal(t, 10*time.Second, AdvanceInterval(KindImage, 0, false))
	require.Equal(t, 10*time.Second, AdvanceInterval(KindImage, time.Minute, true))
	require.Equal(t, 10*time.Second, AdvanceInterval(KindVideo, 3*time.Second, true))
	require.Equal(t, 35*time.Second, AdvanceInterval(KindVideo, 30*time.Second, true))
	require.Equal(t, 10*time.Second, AdvanceInterval(KindVideo, 0, false))
	// max((d+5)*1000, 10000) for a fractional duration
	require.Equal(t, 17500*time.Millisecond, AdvanceInterval(KindVideo, 12500*time.Millisecond, true))
}

func TestImagesAdvanceEveryTenSeconds(t *testing.T) {
	s, clock, events := newTestSlider([]Item{{ID: "a", Kind: KindImage}, {ID: "b", Kind: KindImage}})
	require.NoError(t, s.Start())

	clock.Advance(9999 * time.Millisecond)
	require.Empty(t, *events)
	clock.Advance(time.Millisecond)
	require.Equal(t, []advance{{0, 1}}, *events)
	clock.Advance(10 * time.Second)
	require.Equal(t, []advance{{0, 1}, {1, 0}}, *events)
	require.Equal(t, 0, s.Current())
}

func TestVideoRevealAndDiscoveredDuration(t *testing.T) {
	s, clock, events := newTestSlider([]Item{{ID: "reel", Kind: KindVideo}, {ID: "still", Kind: KindImage}})
	var revealed []int
	s.OnReveal(func(i int) { revealed = append(revealed, i) })
	require.NoError(t, s.Start())

	clock.Advance(4 * time.Second)
	require.False(t, s.Revealed())
	clock.Advance(time.Second)
	require.True(t, s.Revealed())
	require.Equal(t, []int{0}, revealed)

	// metadata arrives at t=5s: the timer restarts with 20s+5s
	s.MetadataLoaded(0, 20*time.Second)
	clock.Advance(24 * time.Second)
	require.Empty(t, *events)
	clock.Advance(time.Second)
	require.Equal(t, []advance{{0, 1}}, *events)
	require.False(t, s.Revealed())
}

func TestVideoWithoutMetadataFallsBackToDefault(t *testing.T) {
	s, clock, events := newTestSlider([]Item{{ID: "broken", Kind: KindVideo}, {ID: "b", Kind: KindImage}})
	require.NoError(t, s.Start())
	s.MetadataFailed(0)

	clock.Advance(10 * time.Second)
	require.Equal(t, []advance{{0, 1}}, *events)
}

func TestManualSelectCancelsPendingAdvance(t *testing.T) {
	items := []Item{{ID: "a", Kind: KindImage}, {ID: "b", Kind: KindImage}, {ID: "c", Kind: KindImage}, {ID: "d", Kind: KindImage}}
	s, clock, events := newTestSlider(items)
	require.NoError(t, s.Start())

	clock.Advance(6 * time.Second)
	require.NoError(t, s.Select(2))
	require.Equal(t, 1, clock.pending())

	// the advance armed at t=0 would have fired at t=10s
	clock.Advance(4 * time.Second)
	require.Empty(t, *events)

	clock.Advance(6 * time.Second)
	require.Equal(t, []advance{{2, 3}}, *events)
	require.Equal(t, 3, s.Current())
}

func TestRepeatedSelectKeepsSingleTimer(t *testing.T) {
	items := []Item{{ID: "v", Kind: KindVideo}, {ID: "b", Kind: KindImage}}
	s, clock, events := newTestSlider(items)
	require.NoError(t, s.Start())
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Select(i%2))
	}
	// last select picked index 0 (video): advance + reveal
	require.Equal(t, 2, clock.pending())
	clock.Advance(10 * time.Second)
	require.Equal(t, []advance{{0, 1}}, *events)
}

func TestStaleMetadataIgnored(t *testing.T) {
	items := []Item{{ID: "v", Kind: KindVideo}, {ID: "b", Kind: KindImage}}
	s, clock, events := newTestSlider(items)
	require.NoError(t, s.Start())
	require.NoError(t, s.Select(1))
	s.MetadataLoaded(0, time.Minute)

	clock.Advance(10 * time.Second)
	require.Equal(t, []advance{{1, 0}}, *events)
}

func TestCloseStopsEverything(t *testing.T) {
	s, clock, events := newTestSlider([]Item{{ID: "v", Kind: KindVideo}, {ID: "b", Kind: KindImage}})
	require.NoError(t, s.Start())
	require.NoError(t, s.Close())
	require.Equal(t, 0, clock.pending())

	clock.Advance(time.Minute)
	require.Empty(t, *events)
	require.False(t, s.Revealed())
	require.NoError(t, s.Select(1))
	require.Equal(t, 0, clock.pending())
	require.NoError(t, s.Close())
}

func TestSelectValidation(t *testing.T) {
	s := New(nil, &manualClock{})
	require.ErrorIs(t, s.Start(), ErrNoItems)

	s = New([]Item{{ID: "a", Kind: KindImage}}, &manualClock{})
	require.ErrorIs(t, s.Select(1), ErrOutOfRange)
	require.ErrorIs(t, s.Select(-1), ErrOutOfRange)
}

func TestPlan(t *testing.T) {
	items := []Item{{ID: "hero", Kind: KindVideo}, {ID: "still", Kind: KindImage}, {ID: "teaser", Kind: KindVideo}}
	steps := Plan(items, map[string]time.Duration{"hero": 42 * time.Second})
	require.Len(t, steps, 3)
	require.Equal(t, 47*time.Second, steps[0].Hold)
	require.Equal(t, RevealDelay, steps[0].RevealAt)
	require.Equal(t, ImageDuration, steps[1].Hold)
	require.Zero(t, steps[1].RevealAt)
	require.Equal(t, MinDuration, steps[2].Hold)
}
