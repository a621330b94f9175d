// Package slider cycles through a list of media items, holding each one for a
// duration derived from its kind.
//
// Images stay up for ImageDuration. Videos show their poster for RevealDelay
// before switching to playback, and advance after their discovered length
// plus VideoBuffer, never sooner than MinDuration. Until the video's metadata
// arrives (or when it never does) the default duration applies, so a broken
// source cannot stall the carousel.
package slider

import (
	"errors"
	"sync"
	"time"
)

const (
	ImageDuration = 10 * time.Second
	MinDuration   = 10 * time.Second
	VideoBuffer   = 5 * time.Second
	RevealDelay   = 5 * time.Second
)

var (
	ErrOutOfRange = errors.New("slider index out of range")
	ErrNoItems    = errors.New("slider has no items")
)

// Kind is the media type of an item.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// Item is one slide.
type Item struct {
	ID        string `json:"id" yaml:"id"`
	Kind      Kind   `json:"kind" yaml:"kind"`
	PosterURL string `json:"posterUrl,omitempty" yaml:"poster_url"`
	SourceURL string `json:"sourceUrl,omitempty" yaml:"source_url"`
}

// AdvanceInterval returns how long an item stays selected. discovered is the
// video length reported by metadata and ok tells whether it was reported.
func AdvanceInterval(kind Kind, discovered time.Duration, ok bool) time.Duration {
	if kind != KindVideo || !ok || discovered <= 0 {
		return ImageDuration
	}
	d := discovered + VideoBuffer
	if d < MinDuration {
		return MinDuration
	}
	return d
}

// Slider is an auto-advancing carousel. All methods are safe for concurrent
// use. Event handlers run on timer goroutines and must not call Close.
type Slider struct {
	clock Clock
	items []Item

	mu        sync.Mutex
	current   int
	gen       uint64
	advGen    uint64
	revealed  bool
	started   bool
	closed    bool
	advance   Timer
	reveal    Timer
	onAdvance func(from, to int)
	onReveal  func(i int)

	emit sync.Mutex
}

// New returns a stopped slider over items. A nil clock means RealClock.
func New(items []Item, clock Clock) *Slider {
	if clock == nil {
		clock = RealClock
	}
	cp := make([]Item, len(items))
	copy(cp, items)
	return &Slider{clock: clock, items: cp}
}

// OnAdvance registers the handler called on every automatic advance.
func (s *Slider) OnAdvance(fn func(from, to int)) {
	s.mu.Lock()
	s.onAdvance = fn
	s.mu.Unlock()
}

// OnReveal registers the handler called when a video swaps poster for playback.
func (s *Slider) OnReveal(fn func(i int)) {
	s.mu.Lock()
	s.onReveal = fn
	s.mu.Unlock()
}

// Items returns a copy of the slides.
func (s *Slider) Items() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Start selects the first item and begins cycling.
func (s *Slider) Start() error {
	if len(s.items) == 0 {
		return ErrNoItems
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.started {
		return nil
	}
	s.started = true
	s.selectLocked(0)
	return nil
}

// Select makes item i current. Every pending timer is cancelled before the
// new ones are armed, so a manual pick can never race an older advance.
func (s *Slider) Select(i int) error {
	if i < 0 || i >= len(s.items) {
		return ErrOutOfRange
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.started = true
	s.selectLocked(i)
	return nil
}

// MetadataLoaded reports the discovered length of video i. It re-arms the
// advance timer when i is still current.
func (s *Slider) MetadataLoaded(i int, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || !s.started || i != s.current || s.items[i].Kind != KindVideo {
		return
	}
	s.armAdvanceLocked(AdvanceInterval(KindVideo, d, true))
}

// MetadataFailed reports that video i could not load metadata. The default
// timer armed at selection keeps running.
func (s *Slider) MetadataFailed(i int) {
	// Nothing to do: selectLocked already armed the image-length interval.
}

// Current returns the selected index.
func (s *Slider) Current() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Revealed reports whether the current video has switched to playback.
func (s *Slider) Revealed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revealed
}

// Close cancels all timers. No handler runs after Close returns.
func (s *Slider) Close() error {
	s.emit.Lock()
	defer s.emit.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.gen++
	s.stopTimersLocked()
	return nil
}

func (s *Slider) selectLocked(i int) {
	s.stopTimersLocked()
	s.gen++
	s.current = i
	s.revealed = false

	s.armAdvanceLocked(AdvanceInterval(s.items[i].Kind, 0, false))
	if s.items[i].Kind == KindVideo {
		gen := s.gen
		s.reveal = s.clock.AfterFunc(RevealDelay, func() { s.fireReveal(gen) })
	}
}

func (s *Slider) armAdvanceLocked(d time.Duration) {
	if s.advance != nil {
		s.advance.Stop()
	}
	s.advGen++
	gen, ag := s.gen, s.advGen
	s.advance = s.clock.AfterFunc(d, func() { s.fireAdvance(gen, ag) })
}

func (s *Slider) stopTimersLocked() {
	if s.advance != nil {
		s.advance.Stop()
		s.advance = nil
	}
	if s.reveal != nil {
		s.reveal.Stop()
		s.reveal = nil
	}
}

func (s *Slider) fireAdvance(gen, ag uint64) {
	s.emit.Lock()
	defer s.emit.Unlock()

	s.mu.Lock()
	if s.closed || gen != s.gen || ag != s.advGen {
		s.mu.Unlock()
		return
	}
	from := s.current
	to := (from + 1) % len(s.items)
	s.selectLocked(to)
	fn := s.onAdvance
	s.mu.Unlock()

	if fn != nil {
		fn(from, to)
	}
}

func (s *Slider) fireReveal(gen uint64) {
	s.emit.Lock()
	defer s.emit.Unlock()

	s.mu.Lock()
	if s.closed || gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.revealed = true
	s.reveal = nil
	i := s.current
	fn := s.onReveal
	s.mu.Unlock()

	if fn != nil {
		fn(i)
	}
}

// Step is one entry of a planned rotation.
type Step struct {
	Index    int           `json:"index"`
	ID       string        `json:"id"`
	Kind     Kind          `json:"kind"`
	Hold     time.Duration `json:"hold"`
	RevealAt time.Duration `json:"revealAt,omitempty"`
}

// Plan lists how long each item would be held given known video lengths
// keyed by item ID. Videos missing from lengths use the default duration.
func Plan(items []Item, lengths map[string]time.Duration) []Step {
	out := make([]Step, 0, len(items))
	for i, it := range items {
		d, ok := lengths[it.ID]
		st := Step{Index: i, ID: it.ID, Kind: it.Kind, Hold: AdvanceInterval(it.Kind, d, ok)}
		if it.Kind == KindVideo {
			st.RevealAt = RevealDelay
		}
		out = append(out, st)
	}
	return out
}
