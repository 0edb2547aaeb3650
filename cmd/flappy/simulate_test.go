package main

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/game"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestSimulateFallsToGround(t *testing.T) {
	res := simulate(config.Default(), simOptions{Seed: 1, Ticks: 600}, quietLogger())

	if res.State != game.StateEnded || res.Reason != game.EndGround {
		t.Fatalf("state=%v reason=%v, expected ended by ground", res.State, res.Reason)
	}
	if res.Score != 0 {
		t.Errorf("score = %d, expected 0", res.Score)
	}
	if res.Ticks == 0 || res.Ticks >= 600 {
		t.Errorf("ticks = %d, expected an early end", res.Ticks)
	}
}

func TestSimulateIsDeterministic(t *testing.T) {
	opts := simOptions{Seed: 7, Ticks: 3000, FlapEvery: 18, Continues: 1}

	first := simulate(config.Default(), opts, quietLogger())
	second := simulate(config.Default(), opts, quietLogger())
	if first != second {
		t.Errorf("same seed and schedule gave %+v and %+v", first, second)
	}
}

func TestSimulateContinues(t *testing.T) {
	res := simulate(config.Default(), simOptions{Seed: 1, Ticks: 2000, Continues: 2}, quietLogger())

	if res.Continues != 2 {
		t.Errorf("continues = %d, expected 2", res.Continues)
	}
	if res.Coins != 2*config.Default().Continue.BonusCoins {
		t.Errorf("coins = %d, expected %d", res.Coins, 2*config.Default().Continue.BonusCoins)
	}
	if res.State != game.StateEnded {
		t.Errorf("state = %v, expected ended", res.State)
	}
}

func TestSimulateContinueLimit(t *testing.T) {
	cfg := config.Default()
	cfg.Continue.MaxPerRun = 1

	res := simulate(cfg, simOptions{Seed: 1, Ticks: 2000, Continues: 3}, quietLogger())
	if res.Continues != 1 {
		t.Errorf("continues = %d, expected the limit of 1", res.Continues)
	}
}

func TestSimulateTickBudget(t *testing.T) {
	// Flapping often enough keeps the flyer up until the budget runs out
	// or a gate is hit; either way no more than the budget is simulated.
	res := simulate(config.Default(), simOptions{Seed: 3, Ticks: 50, FlapEvery: 20}, quietLogger())
	if res.Ticks > 50 {
		t.Errorf("ticks = %d, expected at most 50", res.Ticks)
	}
}

func TestPortOf(t *testing.T) {
	tests := []struct {
		addr string
		want string
	}{
		{":23234", "23234"},
		{"localhost:2222", "2222"},
		{"nonsense", "nonsense"},
	}
	for _, tt := range tests {
		if got := portOf(tt.addr); got != tt.want {
			t.Errorf("portOf(%q) = %q, expected %q", tt.addr, got, tt.want)
		}
	}
}
