package reward

import (
	"context"
	"sync"
	"time"
)

// Simulated stands in for a real ad SDK in terminal builds: it waits for
// Delay and then grants. Cancelling ctx before that denies.
type Simulated struct {
	Delay time.Duration
}

// Request waits for the simulated reward to finish.
func (s Simulated) Request(ctx context.Context) (Outcome, error) {
	if s.Delay <= 0 {
		return Granted, nil
	}
	timer := time.NewTimer(s.Delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return Denied, ctx.Err()
	case <-timer.C:
		return Granted, nil
	}
}

// None is a provider for hosts without any reward capability.
type None struct{}

// Request always reports that no reward is available.
func (None) Request(context.Context) (Outcome, error) {
	return Unavailable, ErrUnavailable
}

// Never blocks until ctx is done. Useful for exercising timeouts.
type Never struct{}

// Request blocks until ctx is cancelled.
func (Never) Request(ctx context.Context) (Outcome, error) {
	<-ctx.Done()
	return Denied, ctx.Err()
}

// Scripted replays a fixed list of outcomes, one per request, then keeps
// returning the last one. An empty script is Unavailable.
type Scripted struct {
	mu       sync.Mutex
	outcomes []Outcome
	next     int
	calls    int
}

// NewScripted creates a scripted provider.
func NewScripted(outcomes ...Outcome) *Scripted {
	return &Scripted{outcomes: outcomes}
}

// Request returns the next scripted outcome.
func (s *Scripted) Request(context.Context) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if len(s.outcomes) == 0 {
		return Unavailable, ErrUnavailable
	}
	o := s.outcomes[s.next]
	if s.next < len(s.outcomes)-1 {
		s.next++
	}
	return o, nil
}

// Calls returns how many requests were made.
func (s *Scripted) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
