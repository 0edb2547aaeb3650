// Package config provides YAML-based game configuration loading, validation
// with fallback to documented defaults, and the score-driven difficulty ramp.
package config

import "time"

// Config contains all tunable constants of the flappy simulation.
// World units are viewport pixels; velocities and accelerations are expressed
// per nominal frame (see Clock.FrameRate).
type Config struct {
	World    World     `yaml:"world"`
	Physics  Physics   `yaml:"physics"`
	Flyer    Flyer     `yaml:"flyer"`
	Gates    Gates     `yaml:"gates"`
	Speed    SpeedRamp `yaml:"speed"`
	Rules    Rules     `yaml:"rules"`
	Continue Continue  `yaml:"continue"`
	Clock    Clock     `yaml:"clock"`
}

// World defines the viewport the simulation runs in.
type World struct {
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
	GroundHeight float64 `yaml:"ground_height"`
}

// GroundY returns the y-coordinate of the ground surface.
func (w World) GroundY() float64 {
	return w.Height - w.GroundHeight
}

// Physics defines the flyer's vertical dynamics.
type Physics struct {
	Gravity      float64 `yaml:"gravity"`        // Downward acceleration per frame
	Impulse      float64 `yaml:"impulse"`        // Upward speed set by a flap
	MaxFallSpeed float64 `yaml:"max_fall_speed"` // Terminal velocity, 0 = uncapped
}

// Flyer defines the spawn pose and footprint of the player.
type Flyer struct {
	XRatio float64 `yaml:"x_ratio"` // Fixed x as a fraction of world width
	YRatio float64 `yaml:"y_ratio"` // Spawn y as a fraction of world height
	Radius float64 `yaml:"radius"`
}

// SpawnRule selects how the scheduler decides to spawn the next gate.
type SpawnRule string

const (
	SpawnByTime     SpawnRule = "time"     // Fixed elapsed interval
	SpawnByDistance SpawnRule = "distance" // Trailing gate scrolled past a threshold
)

// Gates defines obstacle geometry and scheduling.
type Gates struct {
	Width         float64       `yaml:"width"`
	GapSize       float64       `yaml:"gap_size"`
	MarginTop     float64       `yaml:"margin_top"`
	MarginBottom  float64       `yaml:"margin_bottom"`
	SpawnRule     SpawnRule     `yaml:"spawn_rule"`
	SpawnInterval time.Duration `yaml:"spawn_interval"`
	SpawnDistance float64       `yaml:"spawn_distance"`
	RetireMargin  float64       `yaml:"retire_margin"`
}

// GapRange returns the interval the gap's top edge is drawn from.
// ok is false when the gap does not fit the viewport.
func (g Gates) GapRange(w World) (min, max float64, ok bool) {
	min = g.MarginTop
	max = w.GroundY() - g.GapSize - g.MarginBottom
	return min, max, g.GapSize > 0 && max >= min
}

// CeilingPolicy decides what touching the top of the viewport does.
type CeilingPolicy string

const (
	CeilingLethal CeilingPolicy = "lethal" // Ends the run like the ground
	CeilingSoft   CeilingPolicy = "soft"   // Clamps position and zeroes velocity
)

// Rules holds explicit gameplay policy switches.
type Rules struct {
	Ceiling CeilingPolicy `yaml:"ceiling"`
}

// GatePolicy decides what happens to live gates when a run is continued.
type GatePolicy string

const (
	GatesClearNear GatePolicy = "clear_near" // Drop gates within SafetyMargin of the flyer
	GatesKeep      GatePolicy = "keep"       // Leave every gate in place
	GatesClearAll  GatePolicy = "clear_all"  // Empty the queue
)

// Continue configures the rewarded continuation protocol.
type Continue struct {
	GatePolicy     GatePolicy    `yaml:"gate_policy"`
	SafetyMargin   float64       `yaml:"safety_margin"`
	MaxPerRun      int           `yaml:"max_per_run"` // 0 = unlimited
	BonusCoins     int           `yaml:"bonus_coins"`
	MenuBonusCoins int           `yaml:"menu_bonus_coins"`
	RewardTimeout  time.Duration `yaml:"reward_timeout"`
}

// Clock configures the frame stepper.
type Clock struct {
	FrameRate        int  `yaml:"frame_rate"`          // Nominal frames per second
	MaxFramesPerStep int  `yaml:"max_frames_per_step"` // dt clamp, in nominal frames
	FixedStep        bool `yaml:"fixed_step"`          // Run whole nominal frames only
	MaxCatchupSteps  int  `yaml:"max_catchup_steps"`   // Fixed-step updates per callback
}

// FrameDuration returns the duration of one nominal frame.
func (c Clock) FrameDuration() time.Duration {
	if c.FrameRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.FrameRate)
}

// MaxDelta returns the largest dt a single callback may feed the simulation.
func (c Clock) MaxDelta() time.Duration {
	return c.FrameDuration() * time.Duration(c.MaxFramesPerStep)
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)
