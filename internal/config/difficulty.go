package config

import (
	"fmt"
	"math"
	"strings"
)

// SpeedRamp derives the gate scroll speed from the current score alone:
// speed = Base + min(MaxBonus, score * PerPoint).
type SpeedRamp struct {
	Base     float64 `yaml:"base"`
	PerPoint float64 `yaml:"per_point"`
	MaxBonus float64 `yaml:"max_bonus"`
}

// At returns the scroll speed, per nominal frame, for the given score.
func (r SpeedRamp) At(score int) float64 {
	if score < 0 {
		score = 0
	}
	bonus := math.Min(r.MaxBonus, float64(score)*r.PerPoint)
	if bonus < 0 {
		bonus = 0
	}
	return r.Base + bonus
}

// Max returns the speed ceiling of the ramp.
func (r SpeedRamp) Max() float64 {
	return r.Base + math.Max(r.MaxBonus, 0)
}

// Enabled reports whether speed grows with score at all.
func (r SpeedRamp) Enabled() bool {
	return r.PerPoint > 0 && r.MaxBonus > 0
}

// ParsePreset validates a difficulty preset name. An empty name means normal.
func ParsePreset(name string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(strings.ToLower(strings.TrimSpace(name))); p {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return DifficultyNormal, fmt.Errorf("config: unknown difficulty %q (want easy, normal, hard or fixed)", name)
	}
}

// ApplyPreset modifies the config based on a difficulty preset.
func ApplyPreset(cfg *Config, preset DifficultyPreset) {
	switch preset {
	case DifficultyFixed:
		cfg.Speed.PerPoint = 0
		cfg.Speed.MaxBonus = 0
	case DifficultyEasy:
		cfg.Speed.PerPoint *= 0.5
		cfg.Speed.MaxBonus *= 0.5
		cfg.Gates.GapSize *= 1.1
	case DifficultyHard:
		cfg.Speed.Base += 1
		cfg.Speed.PerPoint *= 1.5
		cfg.Gates.GapSize *= 0.85
	}
}
