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

	styleText = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleHeading = lipgloss.NewStyle().
			Bold(true)

	styleJackpot = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228")).
			Bold(true)

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
	kindText lineKind = iota
	kindHeading
	kindJackpot
	kindTable
	kindSystem
	kindError
	kindTrace
	kindInput // echoed command
	kindMeta  // output of a "/" command, shown in brackets
)

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return kindTrace
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.HasPrefix(line, "Error:"):
		return kindError
	case strings.HasPrefix(line, "Jackpots:"):
		return kindJackpot
	case isTableLine(line):
		return kindTable
	case strings.HasSuffix(line, ":"),
		strings.HasPrefix(line, "Experiment:"):
		return kindHeading
	default:
		return kindText
	}
}

// isTableLine reports whether a line is part of a rendered table, either a
// border or a row. Styled tables carry escape codes, so look anywhere.
func isTableLine(line string) bool {
	return strings.ContainsAny(line, "│┌└├─") || strings.HasPrefix(line, "... ")
}

// styledJackpot renders "Jackpots: n of m rolls (p%)" with the count bold.
func styledJackpot(line string) string {
	const prefix = "Jackpots: "
	if !strings.HasPrefix(line, prefix) {
		return styleText.Render(line)
	}
	return styleText.Render(prefix) + styleJackpot.Render(line[len(prefix):])
}

// renderLine applies the style for a line kind.
func renderLine(text string, kind lineKind) string {
	switch kind {
	case kindInput:
		return stylePlayerInput.Render(text)
	case kindMeta:
		return styleSystem.Render("[" + text + "]")
	case kindJackpot:
		return styledJackpot(text)
	case kindHeading:
		return styleHeading.Render(text)
	case kindSystem:
		return styleSystem.Render(text)
	case kindError:
		return styleError.Render(text)
	case kindTrace:
		return styleTrace.Render(text)
	default:
		return styleText.Render(text)
	}
}
