package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/flappy.yaml
var defaultFlappyYAML []byte

// DefaultYAML returns the embedded default configuration document.
func DefaultYAML() []byte {
	out := make([]byte, len(defaultFlappyYAML))
	copy(out, defaultFlappyYAML)
	return out
}

// Default returns the documented default configuration.
// It mirrors defaults/flappy.yaml and backs every fallback in Normalize.
func Default() Config {
	return Config{
		World: World{
			Width:        420,
			Height:       720,
			GroundHeight: 90,
		},
		Physics: Physics{
			Gravity:      0.35,
			Impulse:      6.7,
			MaxFallSpeed: 0,
		},
		Flyer: Flyer{
			XRatio: 0.28,
			YRatio: 0.5,
			Radius: 18,
		},
		Gates: Gates{
			Width:         70,
			GapSize:       260,
			MarginTop:     40,
			MarginBottom:  40,
			SpawnRule:     SpawnByTime,
			SpawnInterval: 1600 * time.Millisecond,
			SpawnDistance: 390,
			RetireMargin:  20,
		},
		Speed: SpeedRamp{
			Base:     2.5,
			PerPoint: 0.07,
			MaxBonus: 3,
		},
		Rules: Rules{
			Ceiling: CeilingLethal,
		},
		Continue: Continue{
			GatePolicy:     GatesClearNear,
			SafetyMargin:   140,
			MaxPerRun:      0,
			BonusCoins:     5,
			MenuBonusCoins: 10,
			RewardTimeout:  30 * time.Second,
		},
		Clock: Clock{
			FrameRate:        60,
			MaxFramesPerStep: 3,
			FixedStep:        false,
			MaxCatchupSteps:  5,
		},
	}
}
