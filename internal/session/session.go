package session

import (
	"fmt"
	"maps"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/abhisek/quizline/internal/quiz"
)

// Session is one learner's attempt at a quiz.
//
// A Session is driven from a single goroutine: every method must be called
// from the same event loop, or under one lock (see Runner). Operations that
// do not apply in the current phase are ignored and report false.
type Session struct {
	id         string
	quiz       quiz.Quiz
	budget     int
	shuffler   quiz.Shuffler
	log        zerolog.Logger
	now        func() time.Time
	onComplete func(score int)
	onAnswer   func(QuestionResult)

	phase        Phase
	index        int
	correct      int
	remaining    int
	generation   uint64
	presentation quiz.Presentation
	last         quiz.Result
	results      []QuestionResult
	started      time.Time
	shownAt      time.Time
	finishedAt   time.Time
}

// New validates q and starts a session on its first question. A malformed
// quiz is rejected with its *quiz.ValidationError.
func New(q quiz.Quiz, opts ...Option) (*Session, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}

	s := &Session{
		quiz:     q,
		budget:   DefaultQuestionSeconds,
		shuffler: quiz.DefaultShuffler,
		log:      zerolog.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if q.TimeLimit > 0 {
		s.budget = q.TimeLimit
	}
	if s.id == "" {
		s.id = uuid.New().String()
	}
	s.log = s.log.With().Str("session_id", s.id).Str("quiz_id", q.ID).Logger()
	s.started = s.now()
	s.results = make([]QuestionResult, 0, len(q.Questions))

	s.initializeQuestion(0)
	return s, nil
}

// initializeQuestion builds a fresh presentation for question i and resets
// the countdown. The generation bump makes ticks armed for the previous
// question stale.
func (s *Session) initializeQuestion(i int) {
	s.index = i
	s.phase = PhaseAwaitingAnswer
	s.remaining = s.budget
	s.last = quiz.Result{}
	s.generation++
	s.shownAt = s.now()

	p, err := quiz.Present(s.quiz.Questions[i], s.shuffler)
	if err != nil {
		s.log.Error().Err(err).Int("question", i).Msg("present question")
	}
	s.presentation = p

	s.log.Debug().
		Int("question", i).
		Str("kind", string(s.quiz.Questions[i].Kind)).
		Int("seconds", s.remaining).
		Msg("question shown")
}

// Mutate applies a learner interaction to the active presentation.
func (s *Session) Mutate(a quiz.Action) bool {
	if s.phase != PhaseAwaitingAnswer || s.presentation == nil {
		return false
	}
	return quiz.Apply(s.presentation, a)
}

// Submit grades the current arrangement. It applies once per question; later
// calls report false and change nothing.
func (s *Session) Submit() bool {
	return s.submit(false)
}

func (s *Session) submit(timedOut bool) bool {
	if s.phase != PhaseAwaitingAnswer {
		return false
	}

	q := s.quiz.Questions[s.index]
	s.last = quiz.Grade(q, s.presentation)
	if s.last.Correct {
		s.correct++
	}
	s.phase = PhaseAnswered

	res := QuestionResult{
		Index:    s.index,
		Kind:     q.Kind,
		Prompt:   q.Prompt,
		Correct:  s.last.Correct,
		TimedOut: timedOut,
		Elapsed:  s.now().Sub(s.shownAt),
	}
	s.results = append(s.results, res)

	s.log.Debug().
		Int("question", s.index).
		Bool("correct", res.Correct).
		Bool("timed_out", timedOut).
		Int("score", s.correct).
		Msg("answer graded")

	if s.onAnswer != nil {
		s.onAnswer(res)
	}
	return true
}

// Tick advances the countdown of the question identified by generation by one
// unit. When it reaches zero the arrangement is submitted as-is and Tick
// reports true. Ticks for another generation, or arriving after the
// question was answered, are ignored.
func (s *Session) Tick(generation uint64) bool {
	if s.phase != PhaseAwaitingAnswer || generation != s.generation {
		return false
	}
	if s.remaining > 0 {
		s.remaining--
	}
	if s.remaining > 0 {
		return false
	}
	s.log.Debug().Int("question", s.index).Msg("time expired")
	return s.submit(true)
}

// Advance moves past an answered question. Advancing past the last question
// completes the session and reports the score.
func (s *Session) Advance() bool {
	if s.phase != PhaseAnswered {
		return false
	}

	if s.index+1 < len(s.quiz.Questions) {
		s.initializeQuestion(s.index + 1)
		return true
	}

	s.index = len(s.quiz.Questions)
	s.phase = PhaseCompleted
	s.presentation = nil
	s.generation++
	s.finishedAt = s.now()

	s.log.Info().
		Int("score", s.correct).
		Int("total", len(s.quiz.Questions)).
		Dur("duration", s.finishedAt.Sub(s.started)).
		Msg("quiz completed")

	if s.onComplete != nil {
		s.onComplete(s.correct)
	}
	return true
}

// Cancel ends the session early. The completion callback is not fired and
// any pending countdown becomes stale.
func (s *Session) Cancel() bool {
	if s.phase.Terminal() {
		return false
	}
	s.phase = PhaseCancelled
	s.presentation = nil
	s.generation++
	s.finishedAt = s.now()
	s.log.Info().Int("question", s.index).Int("score", s.correct).Msg("quiz cancelled")
	return true
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Quiz returns the quiz being attempted.
func (s *Session) Quiz() quiz.Quiz { return s.quiz }

// Phase returns the lifecycle phase.
func (s *Session) Phase() Phase { return s.phase }

// Index returns the current question index; it equals Total once completed.
func (s *Session) Index() int { return s.index }

// Total returns the number of questions.
func (s *Session) Total() int { return len(s.quiz.Questions) }

// Score returns the number of questions answered correctly so far.
func (s *Session) Score() int { return s.correct }

// Remaining returns the seconds left on the current question's countdown.
func (s *Session) Remaining() int { return s.remaining }

// Budget returns the countdown each question starts with.
func (s *Session) Budget() int { return s.budget }

// Answered reports whether the current question has been graded.
func (s *Session) Answered() bool { return s.phase == PhaseAnswered }

// Completed reports whether the session finished normally.
func (s *Session) Completed() bool { return s.phase == PhaseCompleted }

// Generation identifies the current question instance. Timers tag their
// ticks with it so that ticks from an earlier question are ignored.
func (s *Session) Generation() uint64 { return s.generation }

// Presentation returns the active presentation, or nil once the session has ended.
func (s *Session) Presentation() quiz.Presentation { return s.presentation }

// Current returns the active question.
func (s *Session) Current() (quiz.Question, bool) {
	if s.phase.Terminal() {
		return quiz.Question{}, false
	}
	return s.quiz.Questions[s.index], true
}

// Result returns the grading of the current question once it is answered.
func (s *Session) Result() (quiz.Result, bool) {
	if s.phase != PhaseAnswered {
		return quiz.Result{}, false
	}
	res := s.last
	res.Marks = maps.Clone(res.Marks)
	return res, true
}

// Marks returns per-element correctness, keyed by canonical index, once the
// current question is answered.
func (s *Session) Marks() (map[int]bool, bool) {
	res, ok := s.Result()
	return res.Marks, ok
}
