package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizline/internal/bank"
	"github.com/abhisek/quizline/internal/progress"
	"github.com/abhisek/quizline/internal/quiz"
	"github.com/abhisek/quizline/internal/router"
	"github.com/abhisek/quizline/internal/screen"
	"github.com/abhisek/quizline/internal/store"
	"github.com/abhisek/quizline/internal/ui/layout"
	"github.com/abhisek/quizline/internal/ui/theme"
)

const recentLimit = 50

type historyLoadedMsg struct {
	Results []store.QuizResult
	Kinds   []store.KindStats
	Err     error
}

// HistoryScreen displays past attempts and accuracy per question kind.
type HistoryScreen struct {
	tracker  *progress.Tracker
	bank     *bank.Bank
	results  []store.QuizResult
	kinds    []store.KindStats
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen. The bank supplies quiz titles.
func New(tracker *progress.Tracker, b *bank.Bank) *HistoryScreen {
	return &HistoryScreen{
		tracker:  tracker,
		bank:     b,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		results, err := s.tracker.Recent(ctx, recentLimit)
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		kinds, err := s.tracker.KindStats(ctx)
		if err != nil {
			return historyLoadedMsg{Results: results}
		}
		return historyLoadedMsg{Results: results, Kinds: kinds}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.results = msg.Results
			s.kinds = msg.Kinds
		}
		s.loaded = true
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.results)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) title(quizID string) string {
	if s.bank != nil {
		if q, ok := s.bank.Get(quizID); ok {
			return q.Title
		}
	}
	return quizID
}

func (s *HistoryScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	if s.errMsg != "" {
		return center.Foreground(theme.Error).Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return center.Foreground(theme.TextDim).Render("\n\n  Loading history...")
	}
	if len(s.results) == 0 {
		return center.Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No quizzes finished yet. Pick one from the home screen!")
	}

	var b strings.Builder
	b.WriteString("\n")
	if len(s.kinds) > 0 {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, renderKinds(s.kinds)))
		b.WriteString("\n\n")
	}

	for i, r := range s.results {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		line := fmt.Sprintf("%s%s  %-28s %d/%d  +%d XP",
			prefix, r.Timestamp.Local().Format("Jan 02, 2006"), truncate(s.title(r.QuizID), 28),
			r.Correct, r.Questions, r.XP)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			detail := fmt.Sprintf("    %s  took %d:%02d  session %s",
				r.Timestamp.Local().Format("15:04"), r.DurationSecs/60, r.DurationSecs%60, shortID(r.SessionID))
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Hint.Render(detail)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// renderKinds shows one accuracy column per question kind.
func renderKinds(kinds []store.KindStats) string {
	cols := make([]string, 0, len(kinds))
	for _, k := range kinds {
		label := quiz.Kind(k.Kind).String()
		body := fmt.Sprintf("%.0f%%\n%d answered", k.Accuracy()*100, k.Answered)
		if k.TimedOut > 0 {
			body += fmt.Sprintf("\n%d timed out", k.TimedOut)
		}
		cols = append(cols, theme.Bucket.Render(
			lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(label)+"\n"+body))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
