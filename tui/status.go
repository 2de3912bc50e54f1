package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderStatusBar produces a full-width inverted status line showing the
// experiment, dice count, plays, and RNG position.
func (m Model) renderStatusBar() string {
	s := m.engine.State

	left := fmt.Sprintf(" %s | Dice: %d", m.defs.Game.Title, len(m.defs.Game.Dice))
	right := fmt.Sprintf("Plays: %d | Draws: %d ", s.Plays, s.RNGPosition)

	// Show the last batch and seed when they fit.
	if s.Plays > 0 {
		candidate := fmt.Sprintf("Last: %d | Seed: %d | %s", s.LastBatch, s.Seed, right)
		if lipgloss.Width(left)+lipgloss.Width(candidate)+2 < m.width {
			right = candidate
		}
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
