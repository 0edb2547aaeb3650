package game

import (
	"fmt"
	"time"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
)

// Gate is a pair of columns with a vertical gap between them.
type Gate struct {
	ID     uint64  // Creation order
	X      float64 // Left edge
	Width  float64
	Top    float64 // Bottom edge of the top column
	Gap    float64
	Passed bool // Monotonic: once true, never reset
}

// Right returns the trailing edge x.
func (g Gate) Right() float64 {
	return g.X + g.Width
}

// TopRect returns the solid rectangle from the viewport top down to the gap.
func (g Gate) TopRect() core.Rect {
	return core.NewRect(g.X, 0, g.Width, g.Top)
}

// BottomRect returns the solid rectangle from the gap down to the viewport bottom.
func (g Gate) BottomRect(worldH float64) core.Rect {
	y := g.Top + g.Gap
	return core.NewRect(g.X, y, g.Width, worldH-y)
}

// Scheduler owns the gate queue: it spawns, scrolls and retires gates.
// Gates are kept in creation order.
type Scheduler struct {
	cfg     config.Gates
	world   config.World
	rng     Random
	gates   []Gate
	elapsed time.Duration // Time since the last spawn (time rule)
	nextID  uint64
}

// NewScheduler creates a scheduler with an empty queue.
func NewScheduler(cfg config.Config, rng Random) *Scheduler {
	s := &Scheduler{
		cfg:   cfg.Gates,
		world: cfg.World,
		rng:   rng,
		gates: make([]Gate, 0, 8),
	}
	s.Reset()
	return s
}

// Reset clears all gates and primes the spawn trigger with zero elapsed time.
func (s *Scheduler) Reset() {
	s.gates = s.gates[:0]
	s.elapsed = 0
}

// Advance scrolls gates left by speed*units, retires gates that left the
// viewport and spawns at most one new gate. A refused spawn is reported as an
// error; scrolling and retirement still happen.
func (s *Scheduler) Advance(dt time.Duration, units, speed float64) error {
	dx := speed * units
	for i := range s.gates {
		s.gates[i].X -= dx
	}

	validGates := s.gates[:0]
	for _, g := range s.gates {
		if g.Right() > -s.cfg.RetireMargin {
			validGates = append(validGates, g)
		}
	}
	s.gates = validGates

	switch s.cfg.SpawnRule {
	case config.SpawnByDistance:
		if n := len(s.gates); n > 0 && s.gates[n-1].X >= s.spawnX()-s.cfg.SpawnDistance {
			return nil
		}
	default:
		if s.cfg.SpawnInterval <= 0 {
			return ErrInvalidSpawnInterval
		}
		s.elapsed += dt
		if s.elapsed < s.cfg.SpawnInterval {
			return nil
		}
		s.elapsed -= s.cfg.SpawnInterval
	}

	_, err := s.Spawn()
	return err
}

// Spawn places a new gate just beyond the right edge with its gap top drawn
// uniformly from the configured interval.
func (s *Scheduler) Spawn() (Gate, error) {
	lo, hi, ok := s.cfg.GapRange(s.world)
	if !ok || s.cfg.Width <= 0 {
		return Gate{}, fmt.Errorf("spawn refused (gap %.0f, range [%.0f, %.0f]): %w", s.cfg.GapSize, lo, hi, ErrDegenerateGap)
	}
	s.nextID++
	g := Gate{
		ID:    s.nextID,
		X:     s.spawnX(),
		Width: s.cfg.Width,
		Top:   s.rng.Uniform(lo, hi),
		Gap:   s.cfg.GapSize,
	}
	s.gates = append(s.gates, g)
	return g, nil
}

// spawnX is the left edge of a freshly spawned gate. Distance spacing is
// measured between left edges.
func (s *Scheduler) spawnX() float64 {
	return s.world.Width + s.cfg.Width
}

// ClearNear removes gates whose horizontal extent comes within margin of x.
// Returns the number of gates removed.
func (s *Scheduler) ClearNear(x, margin float64) int {
	kept := s.gates[:0]
	removed := 0
	for _, g := range s.gates {
		if g.X < x+margin && g.Right() > x-margin {
			removed++
			continue
		}
		kept = append(kept, g)
	}
	s.gates = kept
	return removed
}

// Clear removes every gate and returns how many there were.
func (s *Scheduler) Clear() int {
	n := len(s.gates)
	s.gates = s.gates[:0]
	return n
}

// Gates returns a copy of the live gates in creation order.
func (s *Scheduler) Gates() []Gate {
	out := make([]Gate, len(s.gates))
	copy(out, s.gates)
	return out
}

// Len returns the number of live gates.
func (s *Scheduler) Len() int {
	return len(s.gates)
}
