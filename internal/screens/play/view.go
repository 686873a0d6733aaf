package play

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizline/internal/quiz"
	"github.com/abhisek/quizline/internal/ui/components"
	"github.com/abhisek/quizline/internal/ui/theme"
)

func (s *Screen) View(width, height int) string {
	if s.confirmQuit {
		return renderQuitConfirm(width)
	}
	if s.sess.Phase().Terminal() {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n  Saving your results...")
	}

	q, _ := s.sess.Current()
	inner := min(width-4, 90)

	var b strings.Builder
	b.WriteString(s.renderInfoLine(q, inner))
	b.WriteString("\n")
	b.WriteString(components.NewCountdown(s.sess.Remaining(), s.sess.Budget(), inner).View())
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(inner).
		Foreground(theme.Text).
		Bold(true).
		Render(q.Prompt))
	b.WriteString("\n\n")

	marks, answered := s.sess.Marks()
	switch p := s.sess.Presentation().(type) {
	case *quiz.MatchingState:
		b.WriteString(s.renderMatching(p, marks))
	case *quiz.SequencingState:
		b.WriteString(s.renderList(p.Steps, marks, true))
	case *quiz.ChoiceState:
		b.WriteString(s.renderChoice(p, marks, answered))
	case *quiz.SortingState:
		b.WriteString(s.renderSorting(p, marks, inner))
	}

	if answered {
		b.WriteString("\n")
		b.WriteString(s.renderFeedback(q, inner))
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
}

func (s *Screen) renderInfoLine(q quiz.Question, width int) string {
	left := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("Question %d/%d  %s", s.sess.Index()+1, s.sess.Total(), q.Kind))
	right := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Score %d", s.sess.Score()))

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

// row styles one line by cursor, pick-up and grading state.
func (s *Screen) row(i int, text string, mark, marked bool) string {
	prefix := "   "
	style := theme.Unselected
	switch {
	case s.sess.Answered():
	case i == s.held:
		prefix, style = " ● ", theme.Held
	case i == s.cursor:
		prefix, style = " ▸ ", theme.Selected
	}

	line := style.Render(prefix + text)
	if marked {
		if mark {
			line += " " + theme.Correct.Render("✓")
		} else {
			line += " " + theme.Incorrect.Render("✗")
		}
	}
	return line + "\n"
}

func (s *Screen) renderMatching(p *quiz.MatchingState, marks map[int]bool) string {
	itemWidth := 0
	for _, pair := range p.Pairs {
		itemWidth = max(itemWidth, lipgloss.Width(pair.Item.Text))
	}

	var b strings.Builder
	for i, pair := range p.Pairs {
		text := pair.Item.Text + strings.Repeat(" ", itemWidth-lipgloss.Width(pair.Item.Text)) +
			"  ⟷  " + pair.Description.Text
		mark, marked := marks[pair.Item.Index]
		b.WriteString(s.row(i, text, mark, marked))
	}
	return b.String()
}

func (s *Screen) renderList(elems []quiz.Element, marks map[int]bool, numbered bool) string {
	var b strings.Builder
	for i, e := range elems {
		text := e.Text
		if numbered {
			text = fmt.Sprintf("%d. %s", i+1, e.Text)
		}
		mark, marked := marks[e.Index]
		b.WriteString(s.row(i, text, mark, marked))
	}
	return b.String()
}

func (s *Screen) renderChoice(p *quiz.ChoiceState, marks map[int]bool, answered bool) string {
	var b strings.Builder
	if !answered {
		b.WriteString(theme.Hint.Render("   The option on top is your answer."))
		b.WriteString("\n\n")
	}
	b.WriteString(s.renderList(p.Options, marks, false))
	return b.String()
}

func (s *Screen) renderSorting(p *quiz.SortingState, marks map[int]bool, width int) string {
	var b strings.Builder
	pos := 0
	for n, bucket := range p.Buckets {
		var body strings.Builder
		for _, e := range bucket.Activities {
			mark, marked := marks[e.Index]
			body.WriteString(s.row(pos, e.Text, mark, marked))
			pos++
		}
		if len(bucket.Activities) == 0 {
			body.WriteString(theme.Hint.Render("   empty"))
		}

		label := fmt.Sprintf("[%d] %s", n+1, bucket.Label)
		labelStyle := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
		if bucket.Category == quiz.UnsortedCategory {
			labelStyle = lipgloss.NewStyle().Foreground(theme.TextDim)
		}
		b.WriteString(labelStyle.Render(label))
		b.WriteString("\n")
		b.WriteString(theme.Bucket.Width(width).Render(strings.TrimRight(body.String(), "\n")))
		b.WriteString("\n")
	}
	return b.String()
}

func (s *Screen) renderFeedback(q quiz.Question, width int) string {
	res, _ := s.sess.Result()
	results := s.sess.Summary().Results

	var verdict string
	switch {
	case res.Correct:
		verdict = theme.Correct.Render("Correct!")
	case len(results) > 0 && results[len(results)-1].TimedOut:
		verdict = theme.Incorrect.Render("Time's up")
	default:
		verdict = theme.Incorrect.Render("Not quite")
	}

	var b strings.Builder
	b.WriteString(verdict)
	b.WriteString("\n")
	if q.Explanation != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(width).Foreground(theme.Text).Render(q.Explanation))
		b.WriteString("\n")
	}
	if s.sess.Index()+1 == s.sess.Total() {
		b.WriteString(theme.Hint.Render("\nPress Enter to see your results."))
	}
	return b.String()
}

func renderQuitConfirm(width int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(center.Foreground(theme.Text).Bold(true).Render("Leave this quiz?"))
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.TextDim).Render("The attempt will not count toward your best score."))
	b.WriteString("\n\n")
	b.WriteString(center.Foreground(theme.Error).Render("[Y] Yes, leave"))
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.Primary).Render("[N] No, keep going"))
	return b.String()
}
