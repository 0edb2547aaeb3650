// Package clock converts host frame callbacks into simulation ticks.
package clock

import (
	"sync"
	"time"
)

// Clock is a source of monotonic timestamps.
type Clock interface {
	Now() time.Time
}

// System reads the wall clock. time.Now carries a monotonic reading, so
// differences between its results are safe to use as frame deltas.
type System struct{}

// Now returns the current time.
func (System) Now() time.Time {
	return time.Now()
}

// Manual is a clock that only moves when told to. Used by tests and the
// headless simulator.
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

// NewManual creates a manual clock starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the current manual time.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the clock forward and returns the new time.
func (m *Manual) Advance(d time.Duration) time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
	return m.now
}
