package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderStatusBar produces a full-width inverted status line showing the
// world title, player position, NPC count, and tick counter. With the
// live simulation running it doubles as a heartbeat.
func (m Model) renderStatusBar() string {
	w := m.engine.World
	game := m.engine.Defs.Game

	left := fmt.Sprintf(" %s | %s", game.Title, w.Player.Position)

	mode := "paused"
	if m.live {
		mode = "live"
	}
	right := fmt.Sprintf("NPCs: %d | %s | T:%d ", len(w.NPCs), mode, w.Tick)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
