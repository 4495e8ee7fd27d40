// Package viz renders run summaries and trajectory plots for the terminal.
package viz

import "github.com/charmbracelet/lipgloss"

var (
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(1, 2)

	Header = lipgloss.NewStyle().
		Foreground(lipgloss.Color("86")).
		Bold(true).
		MarginBottom(1)

	Label = lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Width(14)

	Value = lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("49")).
			Bold(true)

	Graph = lipgloss.NewStyle().
		Foreground(lipgloss.Color("49")).
		Padding(1, 0)

	Help = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		MarginTop(1)
)
