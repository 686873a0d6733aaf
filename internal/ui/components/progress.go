package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizline/internal/ui/theme"
)

// Countdown displays the time left on a question as a draining bar.
type Countdown struct {
	Remaining int
	Budget    int
	Width     int
}

// NewCountdown creates a countdown bar.
func NewCountdown(remaining, budget, width int) Countdown {
	return Countdown{Remaining: remaining, Budget: budget, Width: width}
}

// Fraction returns the share of the budget still left, in [0, 1].
func (c Countdown) Fraction() float64 {
	if c.Budget <= 0 {
		return 0
	}
	f := float64(c.Remaining) / float64(c.Budget)
	return max(0, min(1, f))
}

// Low reports whether a quarter or less of the budget is left.
func (c Countdown) Low() bool {
	return c.Fraction() <= 0.25
}

// View renders the bar followed by the seconds left.
func (c Countdown) View() string {
	label := fmt.Sprintf("  %ds", max(c.Remaining, 0))
	barWidth := c.Width - lipgloss.Width(label)
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * c.Fraction())
	empty := barWidth - filled

	fill := theme.ProgressFilled
	labelStyle := lipgloss.NewStyle().Foreground(theme.TextDim)
	if c.Low() {
		fill = theme.ProgressLow
		labelStyle = lipgloss.NewStyle().Foreground(theme.Error).Bold(true)
	}

	return fill.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", empty)) +
		labelStyle.Render(label)
}
