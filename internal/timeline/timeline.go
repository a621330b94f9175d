// Package timeline evaluates declarative animation timelines against a
// progress value (scroll position normalized to a pinned section, or elapsed
// time).
//
// A timeline is a list of keyframes. Each keyframe drives one property from
// a start value to an end value while progress moves across its interval.
// Evaluation depends on progress alone, so seeking to the same progress twice
// yields the same state no matter which way the user scrolled in between.
package timeline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	ErrEmptyProperty = errors.New("keyframe has no property")
	ErrInterval      = errors.New("keyframe start is after end")
	ErrKindMismatch  = errors.New("keyframe from/to kinds differ")
	ErrClosed        = errors.New("sequencer closed")
)

// Keyframe drives Property from From to To while progress moves from Start
// to End.
type Keyframe struct {
	Start    float64 `yaml:"start" json:"start"`
	End      float64 `yaml:"end" json:"end"`
	Property string  `yaml:"property" json:"property"`
	From     Value   `yaml:"from" json:"from"`
	To       Value   `yaml:"to" json:"to"`
	Ease     string  `yaml:"ease" json:"ease,omitempty"`
}

// Timeline is a named set of keyframes over the virtual range [0, Length].
type Timeline struct {
	Name      string     `yaml:"name" json:"name"`
	Length    float64    `yaml:"length" json:"length"`
	Keyframes []Keyframe `yaml:"keyframes" json:"keyframes"`
}

// State maps property names to their evaluated values.
type State map[string]Value

// Validate checks every keyframe of the timeline. Ease names are not checked;
// unknown names evaluate as linear.
func (tl Timeline) Validate() error {
	for i, k := range tl.Keyframes {
		if k.Property == "" {
			return fmt.Errorf("%s keyframe %d: %w", tl.Name, i, ErrEmptyProperty)
		}
		if k.Start > k.End {
			return fmt.Errorf("%s keyframe %d (%s): %w", tl.Name, i, k.Property, ErrInterval)
		}
		if k.From.Kind != k.To.Kind {
			return fmt.Errorf("%s keyframe %d (%s): %w", tl.Name, i, k.Property, ErrKindMismatch)
		}
	}
	return nil
}

// Sequencer binds a timeline to progress updates and fans the evaluated state
// out to subscribers. Close releases every binding.
type Sequencer struct {
	tl     Timeline
	ease   []Easing
	byProp map[string][]int
	props  []string

	mu     sync.Mutex
	last   State
	subs   map[int]func(State)
	nextID int
	closed bool
	done   chan struct{}

	// emit serializes subscriber calls against Close.
	emit sync.Mutex
}

// New validates tl and returns a sequencer for it.
func New(tl Timeline) (*Sequencer, error) {
	if err := tl.Validate(); err != nil {
		return nil, err
	}
	s := &Sequencer{
		tl:     tl,
		ease:   make([]Easing, len(tl.Keyframes)),
		byProp: make(map[string][]int),
		subs:   make(map[int]func(State)),
		done:   make(chan struct{}),
	}
	for i, k := range tl.Keyframes {
		s.ease[i] = EaseByName(k.Ease)
		if _, ok := s.byProp[k.Property]; !ok {
			s.props = append(s.props, k.Property)
		}
		s.byProp[k.Property] = append(s.byProp[k.Property], i)
	}
	sort.Strings(s.props)
	return s, nil
}

// Timeline returns the timeline being sequenced.
func (s *Sequencer) Timeline() Timeline { return s.tl }

// Properties lists the animated properties in name order.
func (s *Sequencer) Properties() []string {
	out := make([]string, len(s.props))
	copy(out, s.props)
	return out
}

// Seek evaluates every property at progress p and records the result as the
// last computed state.
func (s *Sequencer) Seek(p float64) State {
	st := s.evaluate(p)
	s.mu.Lock()
	s.last = st
	s.mu.Unlock()
	return st.clone()
}

// Last returns the most recently computed state, or nil before the first seek.
func (s *Sequencer) Last() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last.clone()
}

func (s *Sequencer) evaluate(p float64) State {
	st := make(State, len(s.props))
	for _, prop := range s.props {
		st[prop] = s.valueAt(prop, p)
	}
	return st
}

// valueAt picks the keyframe that owns prop at p. An interval containing p
// wins, the latest-starting one when intervals overlap. Otherwise the value
// clamps to the end of the latest interval already passed, or to the start
// of the earliest interval when p precedes all of them.
func (s *Sequencer) valueAt(prop string, p float64) Value {
	idx := s.byProp[prop]

	active := -1
	for _, i := range idx {
		k := s.tl.Keyframes[i]
		if p >= k.Start && p <= k.End {
			if active < 0 || k.Start >= s.tl.Keyframes[active].Start {
				active = i
			}
		}
	}
	if active >= 0 {
		k := s.tl.Keyframes[active]
		t := 1.0
		if span := k.End - k.Start; span > 0 {
			t = (p - k.Start) / span
		}
		return lerp(k.From, k.To, s.ease[active](t))
	}

	passed := -1
	for _, i := range idx {
		k := s.tl.Keyframes[i]
		if k.End < p && (passed < 0 || k.End >= s.tl.Keyframes[passed].End) {
			passed = i
		}
	}
	if passed >= 0 {
		return s.tl.Keyframes[passed].To
	}

	first := idx[0]
	for _, i := range idx[1:] {
		if s.tl.Keyframes[i].Start < s.tl.Keyframes[first].Start {
			first = i
		}
	}
	return s.tl.Keyframes[first].From
}

// Subscribe registers fn to receive the state after every Update. The
// returned function removes the subscription.
func (s *Sequencer) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return func() {}
	}
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Update seeks to p and notifies subscribers. It does nothing once the
// sequencer is closed. Subscribers must not call Update or Close.
func (s *Sequencer) Update(p float64) {
	s.emit.Lock()
	defer s.emit.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	st := s.Seek(p)

	s.mu.Lock()
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(State), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.subs[id])
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(st.clone())
	}
}

// Run drives the sequencer from a progress stream until the stream closes,
// ctx is cancelled or the sequencer is closed.
func (s *Sequencer) Run(ctx context.Context, progress <-chan float64) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.done:
			return ErrClosed
		case p, ok := <-progress:
			if !ok {
				return nil
			}
			s.Update(p)
		}
	}
}

// Close drops all subscribers and stops Run. After Close returns no
// subscriber is called again. Close is idempotent.
func (s *Sequencer) Close() error {
	s.emit.Lock()
	defer s.emit.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.subs = map[int]func(State){}
	close(s.done)
	return nil
}

func (st State) clone() State {
	if st == nil {
		return nil
	}
	out := make(State, len(st))
	for k, v := range st {
		out[k] = v
	}
	return out
}
