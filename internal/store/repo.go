package store

import (
	"context"
	"time"
)

// Quiz event actions.
const (
	ActionStart  = "start"
	ActionEnd    = "end"
	ActionCancel = "cancel"
)

// QueryOpts configures history queries.
type QueryOpts struct {
	Limit  int    // max results (0 = unlimited)
	QuizID string // restrict to one quiz when set
}

// QuizEventData captures a quiz session lifecycle event.
type QuizEventData struct {
	SessionID    string
	QuizID       string
	Action       string
	Questions    int
	Correct      int
	XP           int
	DurationSecs int
}

// AnswerEventData captures one graded question.
type AnswerEventData struct {
	SessionID     string
	QuizID        string
	QuestionIndex int
	Kind          string
	Correct       bool
	TimedOut      bool
	TimeMs        int64
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// QuizResult is one finished quiz attempt.
type QuizResult struct {
	Sequence     int64
	Timestamp    time.Time
	SessionID    string
	QuizID       string
	Questions    int
	Correct      int
	XP           int
	DurationSecs int
}

// QuizBest aggregates finished attempts of one quiz.
type QuizBest struct {
	QuizID      string
	Attempts    int
	BestCorrect int
	Questions   int
}

// KindStats aggregates graded answers of one question kind.
type KindStats struct {
	Kind     string
	Answered int
	Correct  int
	TimedOut int
}

// Accuracy returns the fraction answered correctly.
func (k KindStats) Accuracy() float64 {
	if k.Answered == 0 {
		return 0
	}
	return float64(k.Correct) / float64(k.Answered)
}

// LLMUsage aggregates model requests per purpose and model.
type LLMUsage struct {
	Purpose      string
	Model        string
	Calls        int
	Succeeded    int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo provides append and query access to quiz history.
type EventRepo interface {
	// AppendQuizEvent records a start, end or cancel of a quiz session.
	AppendQuizEvent(ctx context.Context, data QuizEventData) error

	// AppendAnswerEvent records one graded question.
	AppendAnswerEvent(ctx context.Context, data AnswerEventData) error

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// RecentResults returns finished attempts, newest first.
	RecentResults(ctx context.Context, opts QueryOpts) ([]QuizResult, error)

	// BestScores returns per-quiz aggregates keyed by quiz id.
	BestScores(ctx context.Context) (map[string]QuizBest, error)

	// TotalXP sums XP over every finished attempt.
	TotalXP(ctx context.Context) (int, error)

	// KindAccuracy returns answer statistics per question kind.
	KindAccuracy(ctx context.Context) ([]KindStats, error)

	// LLMUsage returns model request totals grouped by purpose and model.
	LLMUsage(ctx context.Context) ([]LLMUsage, error)
}
