// Package session runs one attempt at a quiz: it owns the active question's
// presentation, the per-question countdown, grading and the running score.
package session

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/abhisek/quizline/internal/quiz"
)

// DefaultQuestionSeconds is the countdown budget of a question when neither
// the quiz nor the host sets one.
const DefaultQuestionSeconds = 60

// Phase represents where the session is in its lifecycle.
type Phase int

const (
	PhaseAwaitingAnswer Phase = iota // Question shown, learner may rearrange it
	PhaseAnswered                    // Graded, arrangement frozen, marks visible
	PhaseCompleted                   // All questions answered, score reported
	PhaseCancelled                   // Learner left before finishing
)

func (p Phase) String() string {
	switch p {
	case PhaseAwaitingAnswer:
		return "awaiting-answer"
	case PhaseAnswered:
		return "answered"
	case PhaseCompleted:
		return "completed"
	case PhaseCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Terminal reports whether no further operation can change the session.
func (p Phase) Terminal() bool {
	return p == PhaseCompleted || p == PhaseCancelled
}

// QuestionResult records how one question was answered.
type QuestionResult struct {
	Index    int
	Kind     quiz.Kind
	Prompt   string
	Correct  bool
	TimedOut bool

	// Elapsed is wall time from the question being shown to it being graded.
	Elapsed time.Duration
}

// Option configures a Session.
type Option func(*Session)

// WithShuffler sets the randomness source for presentations.
func WithShuffler(s quiz.Shuffler) Option {
	return func(ss *Session) { ss.shuffler = s }
}

// WithQuestionSeconds sets the default countdown budget. A quiz that carries
// its own time limit overrides it.
func WithQuestionSeconds(n int) Option {
	return func(ss *Session) {
		if n > 0 {
			ss.budget = n
		}
	}
}

// WithOnComplete registers the callback fired exactly once with the final
// score when the learner advances past the last question.
func WithOnComplete(fn func(score int)) Option {
	return func(ss *Session) { ss.onComplete = fn }
}

// WithOnAnswer registers a callback fired each time a question is graded.
func WithOnAnswer(fn func(QuestionResult)) Option {
	return func(ss *Session) { ss.onAnswer = fn }
}

// WithLogger sets the session logger.
func WithLogger(l zerolog.Logger) Option {
	return func(ss *Session) { ss.log = l }
}

// WithClock overrides time.Now for elapsed-time bookkeeping.
func WithClock(now func() time.Time) Option {
	return func(ss *Session) { ss.now = now }
}

// WithID sets the session identifier instead of generating one.
func WithID(id string) Option {
	return func(ss *Session) { ss.id = id }
}
