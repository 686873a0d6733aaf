// Package app hosts the interactive terminal interface.
package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/rs/zerolog"

	"github.com/abhisek/quizline/internal/bank"
	"github.com/abhisek/quizline/internal/progress"
	"github.com/abhisek/quizline/internal/router"
	"github.com/abhisek/quizline/internal/screen"
	"github.com/abhisek/quizline/internal/screens/home"
	"github.com/abhisek/quizline/internal/screens/play"
	"github.com/abhisek/quizline/internal/ui/layout"
)

// Options holds the dependencies the screens share.
type Options struct {
	Bank    *bank.Bank
	Tracker *progress.Tracker
	Play    play.Config
	Log     zerolog.Logger

	// StartQuiz opens this quiz right away when set.
	StartQuiz string
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	log    zerolog.Logger
	start  tea.Cmd
	xp     int
	width  int
	height int
}

// newAppModel creates a new AppModel with the home screen.
func newAppModel(opts Options) AppModel {
	if opts.Tracker == nil {
		opts.Tracker = progress.NewTracker(nil, opts.Log)
	}
	h := home.New(opts.Bank, opts.Tracker, opts.Play)
	m := AppModel{
		router: router.New(h),
		log:    opts.Log,
	}
	if opts.StartQuiz != "" {
		if q, ok := opts.Bank.Get(opts.StartQuiz); ok {
			m.start = h.Start(q)
		}
	}
	return m
}

func (m AppModel) Init() tea.Cmd {
	if m.start != nil {
		return tea.Batch(m.router.Active().Init(), m.start)
	}
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case home.OverviewMsg:
		if msg.Err == nil {
			m.xp = msg.Overview.TotalXP
		}

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			m.router.Close()
			return m, tea.Quit
		case "esc":
			if bh, ok := m.router.Active().(screen.BackHandler); ok && bh.HandlesBack() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render composes header, active screen and footer for the current size.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.xp, m.width)

	var footerHints []layout.KeyHint
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = hp.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := newAppModel(opts)
	p := tea.NewProgram(m)
	_, err := p.Run()
	m.router.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	opts.Log.Debug().Msg("interface closed")
	return nil
}
