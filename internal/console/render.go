package console

import (
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/quizline/internal/progress"
	"github.com/abhisek/quizline/internal/quiz"
	"github.com/abhisek/quizline/internal/session"
)

func (c *console) showQuestion() {
	var b strings.Builder
	c.runner.Do(func(s *session.Session) {
		q, ok := s.Current()
		if !ok {
			return
		}
		fmt.Fprintf(&b, "\nQuestion %d/%d  %s  (%ds)\n", s.Index()+1, s.Total(), q.Kind, s.Budget())
		fmt.Fprintf(&b, "%s\n\n", q.Prompt)
		b.WriteString(arrangement(s.Presentation(), nil))
	})
	c.printf("%s", b.String())
}

func (c *console) showArrangement() {
	var text string
	c.runner.Do(func(s *session.Session) {
		text = arrangement(s.Presentation(), nil)
	})
	c.printf("%s", text)
}

func (c *console) showFeedback() {
	var b strings.Builder
	c.runner.Do(func(s *session.Session) {
		res, ok := s.Result()
		if !ok {
			return
		}
		q, _ := s.Current()
		if res.Correct {
			b.WriteString("Correct!\n")
		} else {
			b.WriteString("Not quite.\n")
		}
		b.WriteString(arrangement(s.Presentation(), res.Marks))
		if q.Explanation != "" {
			fmt.Fprintf(&b, "%s\n", q.Explanation)
		}
		if s.Index()+1 == s.Total() {
			b.WriteString("Type next to see your results.\n")
		} else {
			b.WriteString("Type next to continue.\n")
		}
	})
	c.printf("%s", b.String())
}

// arrangement lists the current presentation with 1-based positions. When
// marks is set each canonical element is tagged with its grading mark.
func arrangement(p quiz.Presentation, marks map[int]bool) string {
	var b strings.Builder
	mark := func(index int) string {
		ok, marked := marks[index]
		switch {
		case !marked:
			return ""
		case ok:
			return "  ✓"
		default:
			return "  ✗"
		}
	}

	switch p := p.(type) {
	case *quiz.MatchingState:
		width := 0
		for _, pair := range p.Pairs {
			width = max(width, len([]rune(pair.Item.Text)))
		}
		for i, pair := range p.Pairs {
			pad := strings.Repeat(" ", width-len([]rune(pair.Item.Text)))
			fmt.Fprintf(&b, "  %d. %s%s  <->  %s%s\n", i+1, pair.Item.Text, pad, pair.Description.Text, mark(pair.Item.Index))
		}

	case *quiz.SequencingState:
		for i, e := range p.Steps {
			fmt.Fprintf(&b, "  %d. %s%s\n", i+1, e.Text, mark(e.Index))
		}

	case *quiz.ChoiceState:
		for i, e := range p.Options {
			prefix := "   "
			if i == 0 {
				prefix = " > "
			}
			fmt.Fprintf(&b, "%s%d. %s%s\n", prefix, i+1, e.Text, mark(e.Index))
		}

	case *quiz.SortingState:
		pos := 1
		for n, bucket := range p.Buckets {
			fmt.Fprintf(&b, "  [%d] %s\n", n+1, bucket.Label)
			if len(bucket.Activities) == 0 {
				b.WriteString("      empty\n")
			}
			for _, e := range bucket.Activities {
				fmt.Fprintf(&b, "      %d. %s%s\n", pos, e.Text, mark(e.Index))
				pos++
			}
		}
	}
	return b.String()
}

func helpText(kind quiz.Kind) string {
	var b strings.Builder
	b.WriteString("Commands:\n")
	switch kind {
	case quiz.KindMatching:
		b.WriteString("  swap A B     swap the descriptions on rows A and B\n")
	case quiz.KindSequencing:
		b.WriteString("  move FROM TO move the step at FROM to position TO\n")
	case quiz.KindMultipleChoice:
		b.WriteString("  pick N       put option N on top, the top option is your answer\n")
		b.WriteString("  move FROM TO move the option at FROM to position TO\n")
	case quiz.KindSorting:
		b.WriteString("  put N B      put activity N into bucket B\n")
	}
	b.WriteString("  submit       grade your answer\n")
	b.WriteString("  next         go to the next question\n")
	b.WriteString("  show         show the question again\n")
	b.WriteString("  quit         leave the quiz\n")
	return b.String()
}

func renderSummary(sum session.Summary, award progress.Award) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s finished in %s\n", sum.QuizTitle, sum.Duration.Round(time.Second))
	fmt.Fprintf(&b, "Score: %d/%d  Accuracy: %.0f%%  XP: +%d\n", sum.Score, sum.Total, sum.Accuracy()*100, award.XP)
	switch {
	case award.Perfect:
		b.WriteString("Perfect run!\n")
	case award.NewBest:
		b.WriteString("New best score!\n")
	}
	for _, r := range sum.Results {
		status := "✓"
		if !r.Correct {
			status = "✗"
		}
		note := ""
		if r.TimedOut {
			note = "  (timed out)"
		}
		fmt.Fprintf(&b, "  %s %d. %s%s\n", status, r.Index+1, r.Prompt, note)
	}
	return b.String()
}
