package tui

import (
	"fmt"
	"math"

	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/game"
)

// Glyphs used to draw the world.
const (
	SkyChar       = ' '
	GroundChar    = '▀'
	GateChar      = '█'
	GateCapTop    = '▄'
	GateCapBottom = '▀'
	FlyerChar     = '●'
	FlyerDeadChar = '✕'
)

// viewport maps world coordinates to screen cells.
type viewport struct {
	sx, sy  float64
	cols    int
	rows    int
	groundY int // First ground row
}

func newViewport(dst *core.Screen, w game.Snapshot) viewport {
	v := viewport{cols: dst.Width(), rows: dst.Height()}
	if w.World.Width > 0 {
		v.sx = float64(v.cols) / w.World.Width
	}
	if w.World.Height > 0 {
		v.sy = float64(v.rows) / w.World.Height
	}
	v.groundY = core.Clamp(int(math.Round(w.World.GroundY()*v.sy)), 1, v.rows)
	return v
}

func (v viewport) col(x float64) int { return int(math.Floor(x * v.sx)) }
func (v viewport) row(y float64) int { return int(math.Floor(y * v.sy)) }

// Draw renders a session snapshot onto dst. The whole world is scaled to the
// screen, so any terminal size shows the same viewport.
func Draw(dst *core.Screen, snap game.Snapshot) {
	dst.Clear()
	if dst.Width() == 0 || dst.Height() == 0 {
		return
	}
	v := newViewport(dst, snap)

	dst.FillRect(0, v.groundY, v.cols, v.rows-v.groundY, GroundChar, core.ColorGround)

	for _, g := range snap.Gates {
		drawGate(dst, v, g)
	}
	drawFlyer(dst, v, snap)
	drawHUD(dst, snap)

	switch snap.State {
	case game.StateIdle:
		drawMessage(dst, core.ColorHUD, "FLAPPY",
			"Space to flap",
			fmt.Sprintf("M for +%d coins", snap.MenuBonus),
			snap.Message,
		)
	case game.StateEnded:
		drawMessage(dst, core.ColorAlert, "GAME OVER",
			fmt.Sprintf("Score: %d  Best: %d", snap.Score, snap.Best),
			"R restart  |  C continue",
			snap.Message,
		)
	case game.StateAwaitingReward:
		drawMessage(dst, core.ColorCoins, "WAITING FOR REWARD",
			fmt.Sprintf("Score so far: %d", snap.Score),
			"R to give up",
		)
	}
}

func drawGate(dst *core.Screen, v viewport, g game.Gate) {
	left := v.col(g.X)
	right := int(math.Ceil(g.Right()*v.sx)) - 1
	if right < 0 || left >= v.cols {
		return
	}
	right = max(right, left)

	topEnd := v.row(g.Top)                                // First row of the gap
	bottomStart := int(math.Ceil((g.Top + g.Gap) * v.sy)) // First row below the gap

	for x := left; x <= right; x++ {
		for y := 0; y < topEnd && y < v.groundY; y++ {
			dst.SetColored(x, y, GateChar, core.ColorGate)
		}
		if topEnd > 0 && topEnd <= v.groundY {
			dst.SetColored(x, topEnd-1, GateCapTop, core.ColorGateCap)
		}
		for y := bottomStart; y < v.groundY; y++ {
			dst.SetColored(x, y, GateChar, core.ColorGate)
		}
		if bottomStart >= 0 && bottomStart < v.groundY {
			dst.SetColored(x, bottomStart, GateCapBottom, core.ColorGateCap)
		}
	}
}

func drawFlyer(dst *core.Screen, v viewport, snap game.Snapshot) {
	x := v.col(snap.Flyer.X)
	y := core.Clamp(v.row(snap.Flyer.Y), 0, v.rows-1)
	glyph := FlyerChar
	if snap.State.Ended() {
		glyph = FlyerDeadChar
	}
	dst.SetColored(x, y, glyph, core.ColorFlyer)
}

func drawHUD(dst *core.Screen, snap game.Snapshot) {
	score := fmt.Sprintf(" Score: %d  Best: %d ", snap.Score, snap.Best)
	dst.DrawTextColored(1, 0, score, core.ColorHUD)

	coins := fmt.Sprintf(" Coins: %d ", snap.Coins)
	x := 1 + len([]rune(score)) + 1
	dst.DrawTextColored(x, 0, coins, core.ColorCoins)

	label := fmt.Sprintf("x%.1f", snap.Speed)
	if snap.TopSpeed > 0 && snap.Speed >= snap.TopSpeed {
		label += " max"
	}
	speed := " " + label + " "
	if snap.Continues > 0 {
		speed = fmt.Sprintf(" +%d  %s ", snap.Continues, label)
	}
	dst.DrawTextColored(dst.Width()-len([]rune(speed))-1, 0, speed, core.ColorMuted)
}

// drawMessage draws a centered box with a title and lines below it.
// Empty lines are skipped.
func drawMessage(dst *core.Screen, titleColor core.Color, title string, lines ...string) {
	valid := lines[:0]
	for _, l := range lines {
		if l != "" {
			valid = append(valid, l)
		}
	}

	boxW := len([]rune(title))
	for _, l := range valid {
		boxW = max(boxW, len([]rune(l)))
	}
	boxW += 4
	boxH := len(valid) + 4
	boxX := (dst.Width() - boxW) / 2
	boxY := (dst.Height() - boxH) / 2

	dst.DrawBox(boxX, boxY, boxW, boxH)
	dst.DrawTextColored(boxX+(boxW-len([]rune(title)))/2, boxY+1, title, titleColor)
	for i, l := range valid {
		dst.DrawText(boxX+(boxW-len([]rune(l)))/2, boxY+3+i, l)
	}
}
