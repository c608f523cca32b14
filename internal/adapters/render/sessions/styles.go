package sessions

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title   lipgloss.Style
	header  lipgloss.Style
	column  lipgloss.Style
	cell    lipgloss.Style
	client  lipgloss.Style
	present lipgloss.Style
	border  lipgloss.Style
	empty   lipgloss.Style
	key     lipgloss.Style
	value   lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:   lipgloss.NewStyle().Bold(true),
		header:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		column:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("250")).Padding(0, 1),
		cell:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Padding(0, 1),
		client:  lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Padding(0, 1),
		present: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("114")).Padding(0, 1),
		border:  lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		empty:   lipgloss.NewStyle().Faint(true),
		key:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		value:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	}
}
