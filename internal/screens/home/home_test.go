package home

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/abhisek/quizline/internal/bank"
	"github.com/abhisek/quizline/internal/progress"
	"github.com/abhisek/quizline/internal/router"
	"github.com/abhisek/quizline/internal/screens/history"
	"github.com/abhisek/quizline/internal/screens/play"
	"github.com/abhisek/quizline/internal/store"
)

func newHome(t *testing.T) *HomeScreen {
	t.Helper()
	b, err := bank.Default()
	if err != nil {
		t.Fatal(err)
	}
	return New(b, progress.NewTracker(nil, zerolog.Nop()), play.Config{Tick: time.Second, Log: zerolog.Nop()})
}

func TestHomeListsCourses(t *testing.T) {
	h := newHome(t)
	view := h.View(100, 30)
	for _, want := range []string{"Developer Foundations", "Git Essentials", "Web Foundations", "HTTP Caching", "History"} {
		if !strings.Contains(view, want) {
			t.Errorf("home view missing %q", want)
		}
	}
	if item := h.menu.Items[h.menu.Selected]; item.Label != "Git Essentials" {
		t.Errorf("expected the first quiz selected, got %q", item.Label)
	}
}

func TestHomeStartsQuiz(t *testing.T) {
	h := newHome(t)
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on Enter")
	}
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", msg)
	}
	s, ok := msg.Screen.(*play.Screen)
	if !ok {
		t.Fatalf("expected the quiz screen, got %T", msg.Screen)
	}
	if s.Session().Quiz().ID != "git-essentials" {
		t.Errorf("started %q", s.Session().Quiz().ID)
	}
}

func TestHomeOpensHistory(t *testing.T) {
	h := newHome(t)
	for i, item := range h.menu.Items {
		if item.Label == "History" {
			h.menu.Selected = i
		}
	}
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", msg)
	}
	if _, ok := msg.Screen.(*history.HistoryScreen); !ok {
		t.Errorf("expected history screen, got %T", msg.Screen)
	}
}

func TestHomeShowsBestScores(t *testing.T) {
	h := newHome(t)
	h.Update(OverviewMsg{Overview: progress.Overview{
		TotalXP: 75,
		Best:    map[string]store.QuizBest{"git-essentials": {QuizID: "git-essentials", Attempts: 2, BestCorrect: 3, Questions: 4}},
	}})
	view := h.View(100, 30)
	if !strings.Contains(view, "best 3/4") {
		t.Error("expected best score in the menu")
	}
	if !strings.Contains(view, "75 XP") {
		t.Error("expected total XP in the subtitle")
	}
}

func TestHomeResumeReloads(t *testing.T) {
	h := newHome(t)
	cmd := h.Resume()
	if cmd == nil {
		t.Fatal("expected Resume to reload progress")
	}
	if _, ok := cmd().(OverviewMsg); !ok {
		t.Error("expected OverviewMsg")
	}
}
