package home

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
	"github.com/abhisek/quizline/internal/screens/history"
	"github.com/abhisek/quizline/internal/screens/play"
	"github.com/abhisek/quizline/internal/ui/components"
	"github.com/abhisek/quizline/internal/ui/layout"
	"github.com/abhisek/quizline/internal/ui/theme"
)

// OverviewMsg carries freshly loaded progress. The app reads it too, to keep
// the header XP current.
type OverviewMsg struct {
	Overview progress.Overview
	Err      error
}

type startFailedMsg struct {
	Err error
}

// HomeScreen lists the quiz bank grouped by course.
type HomeScreen struct {
	bank     *bank.Bank
	tracker  *progress.Tracker
	play     play.Config
	menu     components.Menu
	overview progress.Overview
	errMsg   string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.Resumer = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(b *bank.Bank, tracker *progress.Tracker, cfg play.Config) *HomeScreen {
	h := &HomeScreen{bank: b, tracker: tracker, play: cfg}
	h.menu = components.NewMenu(h.items())
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.load()
}

// Resume reloads best scores after a quiz or the history screen closes.
func (h *HomeScreen) Resume() tea.Cmd {
	return h.load()
}

func (h *HomeScreen) load() tea.Cmd {
	return func() tea.Msg {
		ov, err := h.tracker.Overview(context.Background())
		return OverviewMsg{Overview: ov, Err: err}
	}
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Start"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case OverviewMsg:
		if msg.Err != nil {
			h.errMsg = "Could not load progress: " + msg.Err.Error()
			return h, nil
		}
		h.errMsg = ""
		h.overview = msg.Overview
		selected := h.menu.Selected
		h.menu = components.NewMenu(h.items())
		h.menu.Selected = selected
		return h, nil

	case startFailedMsg:
		h.errMsg = msg.Err.Error()
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) items() []components.MenuItem {
	var items []components.MenuItem
	for _, course := range h.bank.Courses() {
		label := course
		if label == "" {
			label = "Other"
		}
		items = append(items, components.MenuItem{Label: label, Heading: true})
		for _, q := range h.bank.ByCourse(course) {
			items = append(items, components.MenuItem{
				Label:  q.Title,
				Detail: h.detail(q),
				Action: h.start(q),
			})
		}
	}

	items = append(items,
		components.MenuItem{Label: "More", Heading: true},
		components.MenuItem{Label: "History", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(h.tracker, h.bank)}
			}
		}},
		components.MenuItem{Label: "Quit", Action: func() tea.Cmd {
			return tea.Quit
		}},
	)
	return items
}

func (h *HomeScreen) detail(q quiz.Quiz) string {
	parts := []string{string(q.Difficulty), fmt.Sprintf("%d questions", q.Len())}
	if best, ok := h.overview.Best[q.ID]; ok {
		parts = append(parts, fmt.Sprintf("best %d/%d", best.BestCorrect, best.Questions))
	}
	return strings.Join(parts, " · ")
}

func (h *HomeScreen) start(q quiz.Quiz) func() tea.Cmd {
	return func() tea.Cmd { return h.Start(q) }
}

// Start opens the quiz screen on q above the home screen.
func (h *HomeScreen) Start(q quiz.Quiz) tea.Cmd {
	return func() tea.Msg {
		s, err := play.New(q, h.tracker, h.play)
		if err != nil {
			return startFailedMsg{Err: err}
		}
		return router.PushScreenMsg{Screen: s}
	}
}

func (h *HomeScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(theme.Title.Width(width).Render("Pick a quiz"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Width(width).Render(
		fmt.Sprintf("%d quizzes · %d XP earned", h.bank.Len(), h.overview.TotalXP)))
	b.WriteString("\n\n")

	if h.errMsg != "" {
		b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).
			Foreground(theme.Error).Render(h.errMsg))
		b.WriteString("\n\n")
	}

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, h.menu.View()))
	return b.String()
}
