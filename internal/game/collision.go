package game

import "github.com/vovakirdan/tui-flappy/internal/core"

// HitsGate tests the footprint against both columns of a gate using the
// closest-point test. Tangency is not a hit.
func HitsGate(c core.Circle, g Gate, worldH float64) bool {
	top := c.IntersectsRect(g.TopRect())
	bottom := c.IntersectsRect(g.BottomRect(worldH))
	return top || bottom
}

// AnyCollision tests every live gate. All gates are evaluated; there is no
// early exit once one is cleared.
func AnyCollision(c core.Circle, gates []Gate, worldH float64) bool {
	hit := false
	for _, g := range gates {
		if HitsGate(c, g, worldH) {
			hit = true
		}
	}
	return hit
}

// ScorePassed marks gates whose trailing edge has scrolled past x and returns
// how many flipped this call. A gate flips at most once.
func ScorePassed(gates []Gate, x float64) int {
	passed := 0
	for i := range gates {
		if !gates[i].Passed && gates[i].Right() < x {
			gates[i].Passed = true
			passed++
		}
	}
	return passed
}
