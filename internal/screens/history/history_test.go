package history

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/abhisek/quizline/internal/bank"
	"github.com/abhisek/quizline/internal/progress"
	"github.com/abhisek/quizline/internal/router"
	"github.com/abhisek/quizline/internal/store"
)

func loaded(t *testing.T) *HistoryScreen {
	t.Helper()
	b, err := bank.Default()
	if err != nil {
		t.Fatal(err)
	}
	s := New(progress.NewTracker(nil, zerolog.Nop()), b)
	s.Update(historyLoadedMsg{
		Results: []store.QuizResult{
			{Timestamp: time.Now(), SessionID: "0123456789abcdef", QuizID: "http-basics", Questions: 4, Correct: 3, XP: 30, DurationSecs: 95},
			{Timestamp: time.Now(), SessionID: "fedcba9876543210", QuizID: "gone-quiz", Questions: 2, Correct: 2, XP: 30},
		},
		Kinds: []store.KindStats{{Kind: "matching", Answered: 4, Correct: 3, TimedOut: 1}},
	})
	return s
}

func TestHistoryView(t *testing.T) {
	s := loaded(t)
	view := s.View(100, 30)
	for _, want := range []string{"HTTP Basics", "gone-quiz", "3/4", "Matching", "75%"} {
		if !strings.Contains(view, want) {
			t.Errorf("history view missing %q", want)
		}
	}
}

func TestHistoryExpand(t *testing.T) {
	s := loaded(t)
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !strings.Contains(s.View(100, 30), "01234567") {
		t.Error("expected expanded row to show the session id")
	}
}

func TestHistoryNavigation(t *testing.T) {
	s := loaded(t)
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if s.selected != 1 {
		t.Errorf("selection should stop at the last row, got %d", s.selected)
	}
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected Esc to pop")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}

func TestHistoryEmpty(t *testing.T) {
	s := New(progress.NewTracker(nil, zerolog.Nop()), nil)
	msg := s.Init()()
	s.Update(msg)
	if !strings.Contains(s.View(100, 30), "No quizzes finished yet") {
		t.Error("expected empty state")
	}
}
