package config

import (
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestEmbeddedDefaultsMatchBuiltin(t *testing.T) {
	loaded, err := Parse(DefaultYAML())
	if err != nil {
		t.Fatalf("Parse(embedded) failed: %v", err)
	}
	if len(loaded.Warnings) != 0 {
		t.Errorf("Embedded defaults should be valid, got warnings: %v", loaded.Warnings)
	}
	if !reflect.DeepEqual(loaded.Config, Default()) {
		t.Errorf("Embedded YAML and Default() disagree:\nyaml:    %+v\nbuiltin: %+v", loaded.Config, Default())
	}
}

func TestDefaultGapRangeFits(t *testing.T) {
	cfg := Default()
	min, max, ok := cfg.Gates.GapRange(cfg.World)
	if !ok {
		t.Fatal("Default gap should fit the viewport")
	}
	// 720 - 90 - 260 - 40 = 330
	if min != 40 || max != 330 {
		t.Errorf("GapRange() = [%v, %v], expected [40, 330]", min, max)
	}
}

func TestLoadFallsBackToEmbedded(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	loaded, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if loaded.Source != SourceEmbedded {
		t.Errorf("Source = %q, expected %q", loaded.Source, SourceEmbedded)
	}
	if loaded.Config.Physics.Gravity != 0.35 {
		t.Errorf("Gravity = %v, expected 0.35", loaded.Config.Physics.Gravity)
	}
}

func TestLoadUserConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".flappy")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "flappy.yaml"), []byte("physics:\n  gravity: 0.5\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if loaded.Source != SourceUser {
		t.Errorf("Source = %q, expected %q", loaded.Source, SourceUser)
	}
	if loaded.Config.Physics.Gravity != 0.5 {
		t.Errorf("Gravity = %v, expected 0.5", loaded.Config.Physics.Gravity)
	}
	// Unspecified keys keep defaults
	if loaded.Config.Physics.Impulse != 6.7 {
		t.Errorf("Impulse = %v, expected default 6.7", loaded.Config.Physics.Impulse)
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	doc := `
gates:
  spawn_rule: distance
  spawn_interval: 2s
rules:
  ceiling: soft
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%s) failed: %v", path, err)
	}
	cfg := loaded.Config
	if cfg.Gates.SpawnRule != SpawnByDistance {
		t.Errorf("SpawnRule = %q, expected distance", cfg.Gates.SpawnRule)
	}
	if cfg.Gates.SpawnInterval != 2*time.Second {
		t.Errorf("SpawnInterval = %v, expected 2s", cfg.Gates.SpawnInterval)
	}
	if cfg.Rules.Ceiling != CeilingSoft {
		t.Errorf("Ceiling = %q, expected soft", cfg.Rules.Ceiling)
	}
}

func TestLoadCustomPathMissing(t *testing.T) {
	loaded, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("Load() should report a missing custom config")
	}
	if !reflect.DeepEqual(loaded.Config, Default()) {
		t.Error("Load() should still return the defaults on error")
	}
}

func TestLoadCustomPathMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("physics:\n  gravity: [not, a, number]\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err == nil {
		t.Fatal("Load() should report a malformed config")
	}
	if loaded.Config.Physics.Gravity != Default().Physics.Gravity {
		t.Errorf("Malformed config should fall back to default gravity, got %v", loaded.Config.Physics.Gravity)
	}
}

func TestNormalizeFallsBackToDefaults(t *testing.T) {
	cfg := Default()
	cfg.Physics.Gravity = -1
	cfg.Physics.Impulse = math.NaN()
	cfg.Flyer.XRatio = 1.5
	cfg.Gates.SpawnInterval = 0
	cfg.Gates.SpawnRule = "sometimes"
	cfg.Rules.Ceiling = "bouncy"
	cfg.Continue.GatePolicy = "shuffle"
	cfg.Continue.MaxPerRun = -2
	cfg.Clock.FrameRate = 0

	warnings := cfg.Normalize()
	def := Default()

	if len(warnings) != 9 {
		t.Errorf("Expected 9 warnings, got %d: %v", len(warnings), warnings)
	}
	if cfg.Physics.Gravity != def.Physics.Gravity {
		t.Errorf("Gravity = %v, expected default", cfg.Physics.Gravity)
	}
	if cfg.Physics.Impulse != def.Physics.Impulse {
		t.Errorf("Impulse = %v, expected default", cfg.Physics.Impulse)
	}
	if cfg.Flyer.XRatio != def.Flyer.XRatio {
		t.Errorf("XRatio = %v, expected default", cfg.Flyer.XRatio)
	}
	if cfg.Gates.SpawnInterval != def.Gates.SpawnInterval {
		t.Errorf("SpawnInterval = %v, expected default", cfg.Gates.SpawnInterval)
	}
	if cfg.Gates.SpawnRule != def.Gates.SpawnRule {
		t.Errorf("SpawnRule = %q, expected default", cfg.Gates.SpawnRule)
	}
	if cfg.Rules.Ceiling != def.Rules.Ceiling {
		t.Errorf("Ceiling = %q, expected default", cfg.Rules.Ceiling)
	}
	if cfg.Continue.GatePolicy != def.Continue.GatePolicy {
		t.Errorf("GatePolicy = %q, expected default", cfg.Continue.GatePolicy)
	}
	if cfg.Continue.MaxPerRun != 0 {
		t.Errorf("MaxPerRun = %d, expected 0", cfg.Continue.MaxPerRun)
	}
	if cfg.Clock.FrameRate != 60 {
		t.Errorf("FrameRate = %d, expected 60", cfg.Clock.FrameRate)
	}
}

func TestNormalizeOversizedGap(t *testing.T) {
	cfg := Default()
	cfg.Gates.GapSize = 700

	warnings := cfg.Normalize()
	if cfg.Gates.GapSize != Default().Gates.GapSize {
		t.Errorf("Oversized gap should fall back to default, got %v", cfg.Gates.GapSize)
	}
	if len(warnings) != 1 {
		t.Errorf("Expected 1 warning, got %v", warnings)
	}
}

func TestNormalizeViewportTooSmallForAnyGap(t *testing.T) {
	cfg := Default()
	cfg.World.Height = 300 // ground at 210, default gap 260 cannot fit

	warnings := cfg.Normalize()
	if _, _, ok := cfg.Gates.GapRange(cfg.World); ok {
		t.Fatal("GapRange should stay empty")
	}
	found := false
	for _, w := range warnings {
		if strings.Contains(w, "no gates will spawn") {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected an empty-interval warning, got %v", warnings)
	}
}

func TestApplyOverrides(t *testing.T) {
	cfg := Default()
	warnings := cfg.ApplyOverrides(map[string]string{
		"gravity":           "0.5",
		"JUMP_FORCE":        "7.5",
		"gap-size":          "240",
		"spawn_interval_ms": "1200",
		"wobble":            "3",
		"speed":             "fast",
	})

	if cfg.Physics.Gravity != 0.5 {
		t.Errorf("Gravity = %v, expected 0.5", cfg.Physics.Gravity)
	}
	if cfg.Physics.Impulse != 7.5 {
		t.Errorf("Impulse = %v, expected 7.5", cfg.Physics.Impulse)
	}
	if cfg.Gates.GapSize != 240 {
		t.Errorf("GapSize = %v, expected 240", cfg.Gates.GapSize)
	}
	if cfg.Gates.SpawnInterval != 1200*time.Millisecond {
		t.Errorf("SpawnInterval = %v, expected 1.2s", cfg.Gates.SpawnInterval)
	}
	if cfg.Speed.Base != Default().Speed.Base {
		t.Errorf("Unparsable override should be skipped, base speed = %v", cfg.Speed.Base)
	}
	if len(warnings) != 2 {
		t.Errorf("Expected 2 warnings, got %v", warnings)
	}
}

func TestMarshalRoundTripKeepsDurations(t *testing.T) {
	data, err := Marshal(Default())
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}
	if !strings.Contains(string(data), "spawn_interval: 1.6s") {
		t.Errorf("Durations should be encoded as strings, got:\n%s", data)
	}
}

func TestClockDurations(t *testing.T) {
	c := Default().Clock
	if c.FrameDuration() != time.Second/60 {
		t.Errorf("FrameDuration() = %v", c.FrameDuration())
	}
	if c.MaxDelta() != 3*(time.Second/60) {
		t.Errorf("MaxDelta() = %v", c.MaxDelta())
	}
}
