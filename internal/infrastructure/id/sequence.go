// Package id hands out entity identifiers.
package id

import (
	"sync"
	"time"
)

// Sequence issues time-based int64 ids (Unix milliseconds). Two calls in the
// same millisecond still get distinct, strictly increasing values.
type Sequence struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewSequence() *Sequence {
	return &Sequence{now: time.Now}
}

// NewSequenceWithClock is for tests that need a fixed clock.
func NewSequenceWithClock(now func() time.Time) *Sequence {
	return &Sequence{now: now}
}

func (s *Sequence) NewID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.now().UnixMilli()
	if next <= s.last {
		next = s.last + 1
	}
	s.last = next
	return next
}

// Observe advances the sequence past an id loaded from storage so restored
// collections never collide with fresh ids.
func (s *Sequence) Observe(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id > s.last {
		s.last = id
	}
}
