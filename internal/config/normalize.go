package config

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Normalize replaces every invalid constant with its documented default and
// returns one warning per replacement. It never fails: a bad configuration
// degrades to defaults instead of aborting the session.
func (c *Config) Normalize() []string {
	def := Default()
	var warnings []string

	positive := func(name string, v *float64, fallback float64) {
		if !finite(*v) || *v <= 0 {
			warnings = append(warnings, fmt.Sprintf("%s: invalid value %v, using default %v", name, *v, fallback))
			*v = fallback
		}
	}
	nonNegative := func(name string, v *float64, fallback float64) {
		if !finite(*v) || *v < 0 {
			warnings = append(warnings, fmt.Sprintf("%s: invalid value %v, using default %v", name, *v, fallback))
			*v = fallback
		}
	}
	ratio := func(name string, v *float64, fallback float64) {
		if !finite(*v) || *v <= 0 || *v >= 1 {
			warnings = append(warnings, fmt.Sprintf("%s: invalid value %v, using default %v", name, *v, fallback))
			*v = fallback
		}
	}
	positiveInt := func(name string, v *int, fallback int) {
		if *v <= 0 {
			warnings = append(warnings, fmt.Sprintf("%s: invalid value %d, using default %d", name, *v, fallback))
			*v = fallback
		}
	}
	nonNegativeInt := func(name string, v *int, fallback int) {
		if *v < 0 {
			warnings = append(warnings, fmt.Sprintf("%s: invalid value %d, using default %d", name, *v, fallback))
			*v = fallback
		}
	}
	positiveDuration := func(name string, v *time.Duration, fallback time.Duration) {
		if *v <= 0 {
			warnings = append(warnings, fmt.Sprintf("%s: invalid value %v, using default %v", name, *v, fallback))
			*v = fallback
		}
	}

	positive("world.width", &c.World.Width, def.World.Width)
	positive("world.height", &c.World.Height, def.World.Height)
	nonNegative("world.ground_height", &c.World.GroundHeight, def.World.GroundHeight)
	if c.World.GroundHeight >= c.World.Height {
		warnings = append(warnings, fmt.Sprintf("world.ground_height: %v leaves no playfield, using %v",
			c.World.GroundHeight, c.World.Height*def.World.GroundHeight/def.World.Height))
		c.World.GroundHeight = c.World.Height * def.World.GroundHeight / def.World.Height
	}

	positive("physics.gravity", &c.Physics.Gravity, def.Physics.Gravity)
	positive("physics.impulse", &c.Physics.Impulse, def.Physics.Impulse)
	nonNegative("physics.max_fall_speed", &c.Physics.MaxFallSpeed, def.Physics.MaxFallSpeed)

	ratio("flyer.x_ratio", &c.Flyer.XRatio, def.Flyer.XRatio)
	ratio("flyer.y_ratio", &c.Flyer.YRatio, def.Flyer.YRatio)
	positive("flyer.radius", &c.Flyer.Radius, def.Flyer.Radius)

	positive("gates.width", &c.Gates.Width, def.Gates.Width)
	positive("gates.gap_size", &c.Gates.GapSize, def.Gates.GapSize)
	nonNegative("gates.margin_top", &c.Gates.MarginTop, def.Gates.MarginTop)
	nonNegative("gates.margin_bottom", &c.Gates.MarginBottom, def.Gates.MarginBottom)
	positiveDuration("gates.spawn_interval", &c.Gates.SpawnInterval, def.Gates.SpawnInterval)
	positive("gates.spawn_distance", &c.Gates.SpawnDistance, def.Gates.SpawnDistance)
	nonNegative("gates.retire_margin", &c.Gates.RetireMargin, def.Gates.RetireMargin)
	switch c.Gates.SpawnRule {
	case SpawnByTime, SpawnByDistance:
	default:
		warnings = append(warnings, fmt.Sprintf("gates.spawn_rule: unknown rule %q, using %q", c.Gates.SpawnRule, def.Gates.SpawnRule))
		c.Gates.SpawnRule = def.Gates.SpawnRule
	}
	if _, _, ok := c.Gates.GapRange(c.World); !ok && c.Gates.GapSize != def.Gates.GapSize {
		warnings = append(warnings, fmt.Sprintf("gates.gap_size: %v does not fit the viewport, using default %v",
			c.Gates.GapSize, def.Gates.GapSize))
		c.Gates.GapSize = def.Gates.GapSize
	}
	if _, _, ok := c.Gates.GapRange(c.World); !ok {
		// Left as is: the scheduler refuses to spawn degenerate gates.
		warnings = append(warnings, "gates: gap placement interval is empty, no gates will spawn")
	}

	positive("speed.base", &c.Speed.Base, def.Speed.Base)
	nonNegative("speed.per_point", &c.Speed.PerPoint, def.Speed.PerPoint)
	nonNegative("speed.max_bonus", &c.Speed.MaxBonus, def.Speed.MaxBonus)

	switch c.Rules.Ceiling {
	case CeilingLethal, CeilingSoft:
	default:
		warnings = append(warnings, fmt.Sprintf("rules.ceiling: unknown policy %q, using %q", c.Rules.Ceiling, def.Rules.Ceiling))
		c.Rules.Ceiling = def.Rules.Ceiling
	}

	switch c.Continue.GatePolicy {
	case GatesClearNear, GatesKeep, GatesClearAll:
	default:
		warnings = append(warnings, fmt.Sprintf("continue.gate_policy: unknown policy %q, using %q", c.Continue.GatePolicy, def.Continue.GatePolicy))
		c.Continue.GatePolicy = def.Continue.GatePolicy
	}
	nonNegative("continue.safety_margin", &c.Continue.SafetyMargin, def.Continue.SafetyMargin)
	nonNegativeInt("continue.max_per_run", &c.Continue.MaxPerRun, def.Continue.MaxPerRun)
	nonNegativeInt("continue.bonus_coins", &c.Continue.BonusCoins, def.Continue.BonusCoins)
	nonNegativeInt("continue.menu_bonus_coins", &c.Continue.MenuBonusCoins, def.Continue.MenuBonusCoins)
	positiveDuration("continue.reward_timeout", &c.Continue.RewardTimeout, def.Continue.RewardTimeout)

	positiveInt("clock.frame_rate", &c.Clock.FrameRate, def.Clock.FrameRate)
	positiveInt("clock.max_frames_per_step", &c.Clock.MaxFramesPerStep, def.Clock.MaxFramesPerStep)
	positiveInt("clock.max_catchup_steps", &c.Clock.MaxCatchupSteps, def.Clock.MaxCatchupSteps)

	return warnings
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// overrideTargets maps the flat constant names accepted by ApplyOverrides to
// their fields. Names are lower-case; dashes and dots are accepted as separators.
func overrideTargets(c *Config) map[string]*float64 {
	return map[string]*float64{
		"gravity":         &c.Physics.Gravity,
		"impulse":         &c.Physics.Impulse,
		"jump_force":      &c.Physics.Impulse,
		"max_fall_speed":  &c.Physics.MaxFallSpeed,
		"gap_size":        &c.Gates.GapSize,
		"gate_width":      &c.Gates.Width,
		"spawn_distance":  &c.Gates.SpawnDistance,
		"base_speed":      &c.Speed.Base,
		"speed":           &c.Speed.Base,
		"speed_per_point": &c.Speed.PerPoint,
		"max_speed_bonus": &c.Speed.MaxBonus,
		"radius":          &c.Flyer.Radius,
		"ground_height":   &c.World.GroundHeight,
		"safety_margin":   &c.Continue.SafetyMargin,
	}
}

// OverrideNames lists the constant names accepted by ApplyOverrides.
func OverrideNames() []string {
	var c Config
	targets := overrideTargets(&c)
	names := make([]string, 0, len(targets)+1)
	for name := range targets {
		names = append(names, name)
	}
	names = append(names, "spawn_interval_ms")
	sort.Strings(names)
	return names
}

// ApplyOverrides sets constants from a flat name -> number mapping, as given
// on the command line (--set gravity=0.4). Unknown names and unparsable values
// are skipped with a warning. Call Normalize afterwards.
func (c *Config) ApplyOverrides(values map[string]string) []string {
	targets := overrideTargets(c)
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var warnings []string
	for _, raw := range keys {
		name := strings.NewReplacer("-", "_", ".", "_").Replace(strings.ToLower(strings.TrimSpace(raw)))
		v, err := strconv.ParseFloat(strings.TrimSpace(values[raw]), 64)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("override %s: not a number %q", raw, values[raw]))
			continue
		}
		if name == "spawn_interval_ms" {
			c.Gates.SpawnInterval = time.Duration(v * float64(time.Millisecond))
			continue
		}
		target, ok := targets[name]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("override %s: unknown constant", raw))
			continue
		}
		*target = v
	}
	return warnings
}
