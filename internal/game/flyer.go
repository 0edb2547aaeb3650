package game

import (
	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
)

// Flyer is the player-controlled body. X never changes during a run.
type Flyer struct {
	X, Y   float64
	VY     float64 // Positive is downward
	Radius float64
}

// SpawnFlyer returns the default spawn pose: fixed x, mid-height, at rest.
func SpawnFlyer(cfg config.Config) Flyer {
	return Flyer{
		X:      cfg.World.Width * cfg.Flyer.XRatio,
		Y:      cfg.World.Height * cfg.Flyer.YRatio,
		Radius: cfg.Flyer.Radius,
	}
}

// Flap sets the vertical velocity to -impulse, discarding any previous motion.
func (f *Flyer) Flap(impulse float64) {
	f.VY = -impulse
}

// Integrate advances the flyer by units nominal frames.
func (f *Flyer) Integrate(p config.Physics, units float64) {
	f.VY += p.Gravity * units
	if p.MaxFallSpeed > 0 && f.VY > p.MaxFallSpeed {
		f.VY = p.MaxFallSpeed
	}
	f.Y += f.VY * units
}

// Circle returns the collision footprint.
func (f Flyer) Circle() core.Circle {
	return core.Circle{X: f.X, Y: f.Y, R: f.Radius}
}

// EndReason tells what ended a run.
type EndReason int

const (
	EndNone EndReason = iota
	EndGround
	EndCeiling
	EndGate
)

func (r EndReason) String() string {
	switch r {
	case EndGround:
		return "ground"
	case EndCeiling:
		return "ceiling"
	case EndGate:
		return "gate"
	default:
		return "none"
	}
}

// CheckBounds evaluates the flyer against the ground and the ceiling right
// after integration. The ground is always lethal. Under a soft ceiling the
// flyer is clamped below the top edge with its velocity zeroed.
func CheckBounds(f *Flyer, w config.World, ceiling config.CeilingPolicy) EndReason {
	if f.Y+f.Radius > w.GroundY() {
		return EndGround
	}
	if f.Y-f.Radius < 0 {
		if ceiling == config.CeilingSoft {
			f.Y = f.Radius
			f.VY = 0
			return EndNone
		}
		return EndCeiling
	}
	return EndNone
}
