package prompt

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title   lipgloss.Style
	header  lipgloss.Style
	state   lipgloss.Style
	warning lipgloss.Style
	box     lipgloss.Style
	notice  lipgloss.Style
	faint   lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:   lipgloss.NewStyle().Bold(true),
		header:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		state:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		warning: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("203")).
			Padding(0, 2).
			MarginTop(1),
		notice: lipgloss.NewStyle().Foreground(lipgloss.Color("252")).MarginTop(1),
		faint:  lipgloss.NewStyle().Faint(true),
	}
}
