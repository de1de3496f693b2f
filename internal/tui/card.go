package tui

import "github.com/charmbracelet/lipgloss"

// metricCard displays a single metric with label, value and optional subtext.
type metricCard struct {
	label   string
	value   string
	subtext string
	good    bool
	bad     bool
	width   int
}

func newMetricCard(label, value string) metricCard {
	return metricCard{label: label, value: value, width: 26}
}

func (c metricCard) withSubtext(s string) metricCard {
	c.subtext = s
	return c
}

func (c metricCard) asGood() metricCard {
	c.good = true
	return c
}

func (c metricCard) asBad() metricCard {
	c.bad = true
	return c
}

func (c metricCard) render() string {
	valueStyle := metricValueStyle
	if c.good {
		valueStyle = metricGoodStyle
	}
	if c.bad {
		valueStyle = metricBadStyle
	}

	content := metricLabelStyle.Render(c.label) + "\n" + valueStyle.Render(c.value)
	if c.subtext != "" {
		content += "\n" + subtitleStyle.Render(c.subtext)
	}

	return cardStyle.Width(c.width).Render(content)
}

// renderCardRow lays cards out horizontally.
func renderCardRow(cards ...metricCard) string {
	rendered := make([]string, len(cards))
	for i, c := range cards {
		rendered[i] = c.render()
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}
