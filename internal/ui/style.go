package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	idPrefixStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))

	columnTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Underline(true)

	stateStyles = map[string]lipgloss.Style{
		"TODO":     lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		"ACTIVE":   lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		"DONE":     lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		"ARCHIVED": lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// HighlightID renders an ID with its unique prefix emphasized. Lipgloss
// downgrades styling automatically when stdout is not a color terminal.
func HighlightID(id string, prefixLen int) string {
	if id == "" || prefixLen <= 0 || prefixLen > len(id) {
		return id
	}
	return idPrefixStyle.Render(id[:prefixLen]) + dimStyle.Render(id[prefixLen:])
}

// StyleState renders a state or board column name in its conventional color.
func StyleState(name string) string {
	style, ok := stateStyles[name]
	if !ok {
		return name
	}
	return style.Render(name)
}

// StyleColumnTitle renders a board column heading.
func StyleColumnTitle(name string) string {
	return columnTitleStyle.Render(name)
}

// StyleDim renders secondary text such as timestamps.
func StyleDim(value string) string {
	return dimStyle.Render(value)
}
