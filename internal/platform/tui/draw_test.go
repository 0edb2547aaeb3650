package tui

import (
	"strings"
	"testing"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/game"
)

// With the default 420x720 world a 42x72 screen maps ten world units to a cell.
func runningSnapshot() game.Snapshot {
	cfg := config.Default()
	return game.Snapshot{
		State: game.StateRunning,
		World: cfg.World,
		Flyer: game.Flyer{X: 117.6, Y: 360, Radius: cfg.Flyer.Radius},
		Gates: []game.Gate{
			{ID: 1, X: 200, Width: 70, Top: 200, Gap: 260},
		},
		Speed: 2.5,
	}
}

func TestDrawGround(t *testing.T) {
	screen := core.NewScreen(42, 72)
	Draw(screen, runningSnapshot())

	for _, y := range []int{63, 71} {
		if row := screen.Row(y); row != strings.Repeat(string(GroundChar), 42) {
			t.Errorf("row %d = %q, expected a full ground row", y, row)
		}
	}
	if screen.Get(5, 62) == GroundChar {
		t.Error("ground drawn above the ground surface")
	}
}

func TestDrawGate(t *testing.T) {
	screen := core.NewScreen(42, 72)
	Draw(screen, runningSnapshot())

	tests := []struct {
		name string
		x, y int
		want rune
	}{
		{"top column", 23, 5, GateChar},
		{"gap", 23, 30, ' '},
		{"bottom column", 23, 55, GateChar},
		{"left of gate", 18, 5, ' '},
		{"right of gate", 28, 5, ' '},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := screen.Get(tt.x, tt.y); got != tt.want {
				t.Errorf("cell (%d,%d) = %q, expected %q", tt.x, tt.y, got, tt.want)
			}
		})
	}
	if c := screen.GetCell(23, 5).Color; c != core.ColorGate {
		t.Errorf("gate color = %v, expected ColorGate", c)
	}
}

func TestDrawFlyer(t *testing.T) {
	screen := core.NewScreen(42, 72)
	snap := runningSnapshot()
	Draw(screen, snap)
	if got := screen.Get(11, 36); got != FlyerChar {
		t.Errorf("flyer cell = %q, expected %q", got, FlyerChar)
	}

	// Off-screen y is pinned to the edge so the flyer stays visible.
	snap.Flyer.Y = 900
	Draw(screen, snap)
	if got := screen.Get(11, 71); got != FlyerChar {
		t.Errorf("flyer below the viewport should be drawn on the last row, got %q", got)
	}

	snap.State = game.StateEnded
	snap.Flyer.Y = 100
	Draw(screen, snap)
	if got := screen.Get(11, 10); got != FlyerDeadChar {
		t.Errorf("crashed flyer cell = %q, expected %q", got, FlyerDeadChar)
	}
}

func TestDrawHUD(t *testing.T) {
	screen := core.NewScreen(80, 24)
	snap := runningSnapshot()
	snap.Score, snap.Best, snap.Coins = 7, 12, 15
	Draw(screen, snap)

	hud := screen.Row(0)
	for _, want := range []string{"Score: 7", "Best: 12", "Coins: 15", "x2.5"} {
		if !strings.Contains(hud, want) {
			t.Errorf("HUD %q missing %q", hud, want)
		}
	}
}

func TestDrawHUDTopSpeed(t *testing.T) {
	tests := []struct {
		name      string
		speed     float64
		top       float64
		continues int
		want      string
		atTop     bool
	}{
		{"ramping", 2.5, 5.5, 0, "x2.5", false},
		{"at the ceiling", 5.5, 5.5, 0, "x5.5 max", true},
		{"fixed speed", 2.5, 0, 0, "x2.5", false},
		{"with continues", 5.5, 5.5, 2, "+2  x5.5 max", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			screen := core.NewScreen(80, 24)
			snap := runningSnapshot()
			snap.Speed, snap.TopSpeed, snap.Continues = tt.speed, tt.top, tt.continues
			Draw(screen, snap)

			hud := screen.Row(0)
			if !strings.Contains(hud, tt.want) {
				t.Errorf("HUD %q missing %q", hud, tt.want)
			}
			if got := strings.Contains(hud, "max"); got != tt.atTop {
				t.Errorf("HUD %q: max shown = %v, expected %v", hud, got, tt.atTop)
			}
		})
	}
}

func TestDrawOverlays(t *testing.T) {
	tests := []struct {
		state   game.State
		message string
		want    []string
	}{
		{game.StateIdle, "", []string{"FLAPPY", "Space to flap", "M for +10 coins"}},
		{game.StateEnded, "", []string{"GAME OVER", "Score: 3  Best: 9", "C continue"}},
		{game.StateEnded, "Reward not completed", []string{"GAME OVER", "Reward not completed"}},
		{game.StateAwaitingReward, "", []string{"WAITING FOR REWARD", "R to give up"}},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			screen := core.NewScreen(80, 24)
			snap := runningSnapshot()
			snap.State = tt.state
			snap.Score, snap.Best = 3, 9
			snap.Message = tt.message
			snap.MenuBonus = 10
			Draw(screen, snap)

			out := screen.String()
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("overlay missing %q\n%s", want, out)
				}
			}
		})
	}
}

func TestDrawRunningHasNoOverlay(t *testing.T) {
	screen := core.NewScreen(80, 24)
	Draw(screen, runningSnapshot())
	if strings.Contains(screen.String(), "GAME OVER") || strings.ContainsRune(screen.String(), '┌') {
		t.Error("running state should not draw a message box")
	}
}

func TestDrawEmptyScreen(t *testing.T) {
	screen := core.NewScreen(0, 0)
	Draw(screen, runningSnapshot()) // must not panic
}

func TestRenderScreenKeepsText(t *testing.T) {
	screen := core.NewScreen(10, 2)
	screen.DrawTextColored(0, 0, "ab", core.ColorHUD)
	screen.DrawText(3, 1, "cd")

	out := RenderScreen(screen)
	if strings.Count(out, "\n") != 1 {
		t.Errorf("expected 2 rows, got %q", out)
	}
	for _, want := range []string{"ab", "cd"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered output missing %q", want)
		}
	}
}
