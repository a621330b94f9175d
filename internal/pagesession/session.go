// Package pagesession holds state shared by everything on one page for the
// lifetime of a visit: the audio analyser levels and the animation resources
// that must be torn down when the visitor leaves.
package pagesession

import (
	"errors"
	"io"
	"sync"
)

// Session is created once per page visit and passed to the components that
// need it.
type Session struct {
	mu     sync.Mutex
	levels []float64
	owned  []io.Closer
	closed bool
}

func New() *Session {
	return &Session{}
}

// SetLevels replaces the current analyser levels.
func (s *Session) SetLevels(levels []float64) {
	cp := append([]float64(nil), levels...)
	s.mu.Lock()
	s.levels = cp
	s.mu.Unlock()
}

// Levels returns a copy of the current analyser levels.
func (s *Session) Levels() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]float64(nil), s.levels...)
}

// Own hands c to the session, which closes it on Close. After Close, c is
// closed immediately.
func (s *Session) Own(c io.Closer) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return c.Close()
	}
	s.owned = append(s.owned, c)
	s.mu.Unlock()
	return nil
}

// Closed reports whether Close has run.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close releases owned resources in reverse order. Only the first call does
// any work.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	owned := s.owned
	s.owned = nil
	s.levels = nil
	s.mu.Unlock()

	var errs []error
	for i := len(owned) - 1; i >= 0; i-- {
		if err := owned[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
