package session

import (
	"time"

	"github.com/abhisek/quizline/internal/quiz"
)

// Summary holds the data displayed once a session ends.
type Summary struct {
	SessionID  string
	QuizID     string
	QuizTitle  string
	Difficulty quiz.Difficulty
	Score      int
	Total      int
	TimedOut   int
	Cancelled  bool
	Duration   time.Duration
	Results    []QuestionResult
}

// Accuracy returns the fraction of questions answered correctly.
func (s Summary) Accuracy() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Score) / float64(s.Total)
}

// Perfect reports whether every question was answered correctly.
func (s Summary) Perfect() bool {
	return s.Total > 0 && s.Score == s.Total
}

// Summary reports the results recorded so far.
func (s *Session) Summary() Summary {
	end := s.finishedAt
	if end.IsZero() {
		end = s.now()
	}

	timedOut := 0
	for _, r := range s.results {
		if r.TimedOut {
			timedOut++
		}
	}

	results := make([]QuestionResult, len(s.results))
	copy(results, s.results)

	return Summary{
		SessionID:  s.id,
		QuizID:     s.quiz.ID,
		QuizTitle:  s.quiz.Title,
		Difficulty: s.quiz.Difficulty,
		Score:      s.correct,
		Total:      len(s.quiz.Questions),
		TimedOut:   timedOut,
		Cancelled:  s.phase == PhaseCancelled,
		Duration:   end.Sub(s.started),
		Results:    results,
	}
}
