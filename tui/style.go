package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleBody = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleHeader = lipgloss.NewStyle().
			Bold(true)

	styleDetail = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindBody lineKind = iota
	kindHeader
	kindDetail
	kindError
	kindTrace
)

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return kindTrace
	case strings.HasPrefix(line, "  "):
		return kindDetail
	case strings.HasSuffix(line, ":"):
		return kindHeader
	case strings.Contains(line, "failed"),
		strings.HasPrefix(line, "Unknown"),
		strings.HasPrefix(line, "Invalid"),
		strings.HasPrefix(line, "Not enough"),
		strings.HasPrefix(line, "No "):
		return kindError
	default:
		return kindBody
	}
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
