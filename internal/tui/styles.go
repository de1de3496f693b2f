package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("39")  // blue
	colorAccent  = lipgloss.Color("213") // pink
	colorSuccess = lipgloss.Color("42")  // green
	colorDanger  = lipgloss.Color("196") // red
	colorMuted   = lipgloss.Color("241") // gray
	colorBorder  = lipgloss.Color("238")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Padding(0, 1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	selectedTabStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorAccent).
				Padding(0, 1)

	tabStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)

	metricLabelStyle = lipgloss.NewStyle().
				Foreground(colorMuted)

	metricValueStyle = lipgloss.NewStyle().
				Bold(true)

	metricGoodStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorSuccess)

	metricBadStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorDanger)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(1, 1, 0, 1)

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorDanger).
			Padding(1, 1)
)
