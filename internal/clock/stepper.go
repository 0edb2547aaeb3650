package clock

import (
	"time"

	"github.com/vovakirdan/tui-flappy/internal/config"
)

// Stepper turns frame callbacks into calls of a tick function with a bounded dt.
// It owns no game state.
//
// In variable-step mode each callback runs exactly one tick with
// dt = now - last, clamped to MaxDelta. In fixed-step mode the clamped delta
// is accumulated and zero or more ticks of exactly one nominal frame run in
// order; leftover time carries to the next callback.
type Stepper struct {
	frame       time.Duration
	maxDelta    time.Duration
	fixed       bool
	maxCatchup  int
	last        time.Time
	started     bool
	accumulator time.Duration
}

// NewStepper creates a stepper from the clock configuration.
func NewStepper(cfg config.Clock) *Stepper {
	s := &Stepper{
		frame:      cfg.FrameDuration(),
		maxDelta:   cfg.MaxDelta(),
		fixed:      cfg.FixedStep,
		maxCatchup: cfg.MaxCatchupSteps,
	}
	if s.maxDelta <= 0 {
		s.maxDelta = 3 * s.frame
	}
	if s.maxCatchup <= 0 {
		s.maxCatchup = 1
	}
	return s
}

// Reset primes the stepper so the next Frame measures from now.
// Must be called on every entry into the running state, otherwise the first
// tick would see the whole idle period as its dt.
func (s *Stepper) Reset(now time.Time) {
	s.last = now
	s.started = true
	s.accumulator = 0
}

// Frame handles one host callback at time now and invokes tick zero or more
// times. It returns the number of ticks run. The first callback after
// construction only primes the stepper.
func (s *Stepper) Frame(now time.Time, tick func(dt time.Duration)) int {
	if !s.started {
		s.Reset(now)
		return 0
	}

	dt := now.Sub(s.last)
	s.last = now
	if dt <= 0 {
		return 0
	}
	if dt > s.maxDelta {
		dt = s.maxDelta
	}

	if !s.fixed {
		tick(dt)
		return 1
	}

	s.accumulator += dt
	ran := 0
	for s.accumulator >= s.frame && ran < s.maxCatchup {
		tick(s.frame)
		s.accumulator -= s.frame
		ran++
	}
	if s.accumulator >= s.frame {
		// Drop what could not be caught up instead of spiralling.
		s.accumulator = 0
	}
	return ran
}

// FrameDuration returns the nominal frame duration.
func (s *Stepper) FrameDuration() time.Duration {
	return s.frame
}

// Units converts a delta into nominal frames, the unit all per-frame
// constants are expressed in.
func Units(dt, frame time.Duration) float64 {
	if frame <= 0 {
		return 0
	}
	return float64(dt) / float64(frame)
}
