package sessions

import (
	"fmt"

	"github.com/aquatix/whosthere/internal/application"
	"github.com/charmbracelet/lipgloss"
)

// RenderSummary draws the state overview shown by the status command.
func RenderSummary(summary application.Summary, statePath string, opts RenderOptions) string {
	s := newStyles()

	cursor := "none"
	if summary.Cursor.Source != "" {
		cursor = fmt.Sprintf("%s line %d", summary.Cursor.Source, summary.Cursor.Offset)
	}

	pairs := [][2]string{
		{"state file", statePath},
		{"cursor", cursor},
		{"clients", fmt.Sprintf("%d", summary.Clients)},
		{"sessions", fmt.Sprintf("%d (%d open)", summary.Sessions, summary.OpenSessions)},
		{"current batch", orNone(formatTimestamp(summary.CurrentTimestamp, opts.Location))},
		{"previous batch", orNone(formatTimestamp(summary.PreviousTimestamp, opts.Location))},
	}

	lines := []string{s.title.Render("whosthere state")}
	for _, pair := range pairs {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
			s.key.Render(fmt.Sprintf("%-15s", pair[0]+":")),
			s.value.Render(pair[1]),
		))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func orNone(value string) string {
	if value == "" {
		return "none"
	}
	return value
}
