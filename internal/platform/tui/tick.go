// Package tui provides the Bubble Tea front end for the flappy game.
// It maps keys to game actions, drives the session from a frame ticker,
// draws snapshots to a cell screen and serves the same UI over SSH.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent on every host frame.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends one tick message after interval.
func tickCmd(interval time.Duration) tea.Cmd {
	if interval <= 0 {
		interval = time.Second / 60
	}
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
