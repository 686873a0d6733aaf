// Package play is the screen a learner takes a quiz on.
package play

import (
	"context"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/abhisek/quizline/internal/progress"
	"github.com/abhisek/quizline/internal/quiz"
	"github.com/abhisek/quizline/internal/router"
	"github.com/abhisek/quizline/internal/screen"
	"github.com/abhisek/quizline/internal/screens/summary"
	"github.com/abhisek/quizline/internal/session"
	"github.com/abhisek/quizline/internal/ui/layout"
)

// Config carries the session settings the screen starts quizzes with.
type Config struct {
	QuestionSeconds int
	Tick            time.Duration
	Shuffler        quiz.Shuffler
	Log             zerolog.Logger
}

// Screen runs one quiz session.
type Screen struct {
	sess     *session.Session
	tracker  *progress.Tracker
	interval time.Duration
	keys     keyMap
	ctx      context.Context

	cursor      int
	held        int // position picked up with Grab, -1 when nothing is held
	confirmQuit bool
	record      tea.Cmd // set by the completion callback
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)
var _ screen.BackHandler = (*Screen)(nil)
var _ screen.Closer = (*Screen)(nil)

// New starts a session on q. Graded answers and the outcome are recorded
// through tracker.
func New(q quiz.Quiz, tracker *progress.Tracker, cfg Config) (*Screen, error) {
	s := &Screen{
		tracker:  tracker,
		interval: cfg.Tick,
		keys:     defaultKeys(),
		ctx:      context.Background(),
		held:     -1,
	}
	if s.interval <= 0 {
		s.interval = time.Second
	}

	id := uuid.New().String()
	opts := []session.Option{
		session.WithID(id),
		session.WithLogger(cfg.Log),
		session.WithOnAnswer(func(r session.QuestionResult) {
			s.tracker.Answered(s.ctx, id, q.ID, r)
		}),
		session.WithOnComplete(func(int) { s.record = s.finish() }),
	}
	if cfg.QuestionSeconds > 0 {
		opts = append(opts, session.WithQuestionSeconds(cfg.QuestionSeconds))
	}
	if cfg.Shuffler != nil {
		opts = append(opts, session.WithShuffler(cfg.Shuffler))
	}

	sess, err := session.New(q, opts...)
	if err != nil {
		return nil, err
	}
	s.sess = sess
	return s, nil
}

// Session exposes the running session.
func (s *Screen) Session() *session.Session { return s.sess }

func (s *Screen) Init() tea.Cmd {
	id, q := s.sess.ID(), s.sess.Quiz()
	started := func() tea.Msg {
		s.tracker.Started(s.ctx, id, q)
		return nil
	}
	return tea.Batch(started, s.tick())
}

func (s *Screen) Title() string {
	return s.sess.Quiz().Title
}

// HandlesBack keeps Esc on this screen until the session is over.
func (s *Screen) HandlesBack() bool {
	return !s.sess.Phase().Terminal()
}

// Close cancels an unfinished session and records it as abandoned.
func (s *Screen) Close() {
	if s.sess.Cancel() {
		s.tracker.Cancelled(s.ctx, s.sess.Summary())
	}
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.confirmQuit {
		return layout.Hints(s.keys.Confirm, s.keys.Deny)
	}
	switch s.sess.Phase() {
	case session.PhaseAwaitingAnswer:
		hints := layout.Hints(s.keys.Up)
		if _, sorting := s.sess.Presentation().(*quiz.SortingState); sorting {
			hints = append(hints, layout.Hints(s.keys.Bucket)...)
		} else {
			hints = append(hints, layout.Hints(s.keys.MoveUp, s.keys.Grab)...)
		}
		return append(hints, layout.Hints(s.keys.Submit, s.keys.Back)...)
	case session.PhaseAnswered:
		return layout.Hints(s.keys.Next, s.keys.Back)
	}
	return nil
}

// tick arms one countdown unit for the current question.
func (s *Screen) tick() tea.Cmd {
	if s.sess.Phase() != session.PhaseAwaitingAnswer {
		return nil
	}
	gen := s.sess.Generation()
	return tea.Tick(s.interval, func(time.Time) tea.Msg {
		return tickMsg{generation: gen}
	})
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return s.handleTick(msg)
	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *Screen) handleTick(msg tickMsg) (screen.Screen, tea.Cmd) {
	if msg.generation != s.sess.Generation() {
		return s, nil
	}
	if s.sess.Tick(msg.generation) {
		s.held = -1
		return s, nil
	}
	return s, s.tick()
}

func (s *Screen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if s.confirmQuit {
		switch {
		case key.Matches(msg, s.keys.Confirm):
			s.confirmQuit = false
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case key.Matches(msg, s.keys.Deny):
			s.confirmQuit = false
		}
		return s, nil
	}

	if key.Matches(msg, s.keys.Back) {
		if s.HandlesBack() {
			s.confirmQuit = true
			return s, nil
		}
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}

	switch s.sess.Phase() {
	case session.PhaseAwaitingAnswer:
		if key.Matches(msg, s.keys.Submit) {
			s.sess.Submit()
			s.held = -1
			return s, nil
		}
		s.arrange(msg)
		return s, nil

	case session.PhaseAnswered:
		if key.Matches(msg, s.keys.Next) {
			return s.advance()
		}
	}
	return s, nil
}

func (s *Screen) advance() (screen.Screen, tea.Cmd) {
	if !s.sess.Advance() {
		return s, nil
	}
	s.cursor, s.held = 0, -1
	if s.sess.Completed() {
		cmd := s.record
		s.record = nil
		return s, cmd
	}
	return s, s.tick()
}

// finish records the completed session and hands over to the results screen.
func (s *Screen) finish() tea.Cmd {
	sum := s.sess.Summary()
	return func() tea.Msg {
		award := s.tracker.Completed(s.ctx, sum)
		return router.ReplaceScreenMsg{Screen: summary.New(sum, award)}
	}
}

// rows is the number of cursor positions of the current presentation.
func (s *Screen) rows() int {
	switch p := s.sess.Presentation().(type) {
	case *quiz.MatchingState:
		return len(p.Pairs)
	case *quiz.SequencingState:
		return len(p.Steps)
	case *quiz.ChoiceState:
		return len(p.Options)
	case *quiz.SortingState:
		return len(flatten(p))
	}
	return 0
}

// arrange maps a key to a cursor move or a quiz action on the presentation.
func (s *Screen) arrange(msg tea.KeyPressMsg) {
	n := s.rows()
	switch {
	case key.Matches(msg, s.keys.Up):
		s.cursor = max(s.cursor-1, 0)
		return
	case key.Matches(msg, s.keys.Down):
		s.cursor = max(min(s.cursor+1, n-1), 0)
		return
	}

	switch p := s.sess.Presentation().(type) {
	case *quiz.MatchingState:
		s.reorder(msg, n,
			func(from, to int) quiz.Action { return quiz.SwapDescriptions{A: from, B: to} },
			func(held, at int) quiz.Action { return quiz.SwapDescriptions{A: held, B: at} })
	case *quiz.SequencingState:
		s.reorder(msg, n,
			func(from, to int) quiz.Action { return quiz.MoveStep{From: from, To: to} },
			func(held, at int) quiz.Action { return quiz.MoveStep{From: held, To: at} })
	case *quiz.ChoiceState:
		if key.Matches(msg, s.keys.Grab) {
			if s.sess.Mutate(quiz.SelectOption{Position: s.cursor}) {
				s.cursor = 0
			}
			return
		}
		s.reorder(msg, n,
			func(from, to int) quiz.Action { return quiz.MoveOption{From: from, To: to} },
			nil)
	case *quiz.SortingState:
		s.sort(msg, p)
	}
}

// reorder handles the shared move and pick-up keys of list presentations.
// drop is nil when the presentation has no pick-up gesture.
func (s *Screen) reorder(msg tea.KeyPressMsg, n int, step, drop func(int, int) quiz.Action) {
	switch {
	case key.Matches(msg, s.keys.MoveUp):
		if s.cursor > 0 && s.sess.Mutate(step(s.cursor, s.cursor-1)) {
			s.cursor--
		}
	case key.Matches(msg, s.keys.MoveDown):
		if s.cursor < n-1 && s.sess.Mutate(step(s.cursor, s.cursor+1)) {
			s.cursor++
		}
	case drop != nil && key.Matches(msg, s.keys.Grab):
		if s.held < 0 {
			s.held = s.cursor
			return
		}
		s.sess.Mutate(drop(s.held, s.cursor))
		s.held = -1
	}
}

// sort moves the activity under the cursor. Digits pick a bucket by its
// number; Grab cycles it into the next bucket.
func (s *Screen) sort(msg tea.KeyPressMsg, p *quiz.SortingState) {
	flat := flatten(p)
	if s.cursor >= len(flat) {
		return
	}
	at := flat[s.cursor]

	target := -1
	switch {
	case key.Matches(msg, s.keys.Bucket):
		target = int(msg.String()[0]-'1')
	case key.Matches(msg, s.keys.Grab):
		target = (at.bucket + 1) % len(p.Buckets)
	}
	if target < 0 || !s.sess.Mutate(quiz.MoveActivity{Activity: at.elem.Index, Bucket: target}) {
		return
	}
	for i, f := range flatten(p) {
		if f.elem.Index == at.elem.Index {
			s.cursor = i
			break
		}
	}
}

type placed struct {
	bucket int
	elem   quiz.Element
}

// flatten lists every activity of a sorting question in display order.
func flatten(p *quiz.SortingState) []placed {
	var out []placed
	for b, bucket := range p.Buckets {
		for _, e := range bucket.Activities {
			out = append(out, placed{bucket: b, elem: e})
		}
	}
	return out
}
