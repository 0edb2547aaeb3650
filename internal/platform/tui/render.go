package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-flappy/internal/core"
)

// colorStyles maps the game palette to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault: lipgloss.NewStyle(),
	core.ColorSky:     lipgloss.NewStyle().Foreground(lipgloss.Color("24")),
	core.ColorFlyer:   lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true),
	core.ColorGate:    lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	core.ColorGateCap: lipgloss.NewStyle().Foreground(lipgloss.Color("82")),
	core.ColorGround:  lipgloss.NewStyle().Foreground(lipgloss.Color("130")),
	core.ColorHUD:     lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true),
	core.ColorCoins:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	core.ColorAlert:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
	core.ColorMuted:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}
