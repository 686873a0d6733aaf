package progress

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizline/internal/quiz"
	"github.com/abhisek/quizline/internal/session"
	"github.com/abhisek/quizline/internal/store"
)

// mockEventRepo records appended events in memory.
type mockEventRepo struct {
	quizEvents   []store.QuizEventData
	answerEvents []store.AnswerEventData
	best         map[string]store.QuizBest
	failAppend   bool
}

func (m *mockEventRepo) AppendQuizEvent(_ context.Context, d store.QuizEventData) error {
	if m.failAppend {
		return errors.New("disk full")
	}
	m.quizEvents = append(m.quizEvents, d)
	return nil
}

func (m *mockEventRepo) AppendAnswerEvent(_ context.Context, d store.AnswerEventData) error {
	m.answerEvents = append(m.answerEvents, d)
	return nil
}

func (m *mockEventRepo) AppendLLMRequest(context.Context, store.LLMRequestEventData) error {
	return nil
}

func (m *mockEventRepo) RecentResults(context.Context, store.QueryOpts) ([]store.QuizResult, error) {
	return nil, nil
}

func (m *mockEventRepo) BestScores(context.Context) (map[string]store.QuizBest, error) {
	if m.best == nil {
		return map[string]store.QuizBest{}, nil
	}
	return m.best, nil
}

func (m *mockEventRepo) TotalXP(context.Context) (int, error) {
	total := 0
	for _, e := range m.quizEvents {
		total += e.XP
	}
	return total, nil
}

func (m *mockEventRepo) KindAccuracy(context.Context) ([]store.KindStats, error) {
	return nil, nil
}

func (m *mockEventRepo) LLMUsage(context.Context) ([]store.LLMUsage, error) {
	return nil, nil
}

func TestXPFor(t *testing.T) {
	tests := []struct {
		d            quiz.Difficulty
		score, total int
		want         int
	}{
		{quiz.DifficultyBeginner, 0, 4, 0},
		{quiz.DifficultyBeginner, 3, 4, 30},
		{quiz.DifficultyBeginner, 4, 4, 60},
		{quiz.DifficultyIntermediate, 2, 5, 30},
		{quiz.DifficultyAdvanced, 3, 3, 90},
		{"unknown", 1, 2, 10},
	}
	for _, tt := range tests {
		if got := XPFor(tt.d, tt.score, tt.total); got != tt.want {
			t.Errorf("XPFor(%s, %d, %d) = %d, want %d", tt.d, tt.score, tt.total, got, tt.want)
		}
	}
}

func TestCompletedRecordsEndEvent(t *testing.T) {
	repo := &mockEventRepo{best: map[string]store.QuizBest{"git": {QuizID: "git", BestCorrect: 2}}}
	tr := NewTracker(repo, zerolog.Nop())

	award := tr.Completed(context.Background(), session.Summary{
		SessionID:  "s1",
		QuizID:     "git",
		Difficulty: quiz.DifficultyIntermediate,
		Score:      3,
		Total:      3,
		Duration:   95 * time.Second,
	})

	assert.Equal(t, Award{XP: 67, Perfect: true, NewBest: true}, award)
	require.Len(t, repo.quizEvents, 1)
	ev := repo.quizEvents[0]
	assert.Equal(t, store.ActionEnd, ev.Action)
	assert.Equal(t, 3, ev.Correct)
	assert.Equal(t, 67, ev.XP)
	assert.Equal(t, 95, ev.DurationSecs)
}

func TestCompletedNotNewBest(t *testing.T) {
	repo := &mockEventRepo{best: map[string]store.QuizBest{"git": {QuizID: "git", BestCorrect: 3}}}
	award := NewTracker(repo, zerolog.Nop()).Completed(context.Background(), session.Summary{
		QuizID: "git", Difficulty: quiz.DifficultyBeginner, Score: 3, Total: 4,
	})
	assert.False(t, award.NewBest)
	assert.False(t, award.Perfect)
}

func TestStoreFailureDoesNotPanic(t *testing.T) {
	repo := &mockEventRepo{failAppend: true}
	tr := NewTracker(repo, zerolog.Nop())

	tr.Started(context.Background(), "s", quiz.Quiz{ID: "q"})
	award := tr.Completed(context.Background(), session.Summary{QuizID: "q", Difficulty: quiz.DifficultyBeginner, Score: 1, Total: 2})
	assert.Equal(t, 10, award.XP)
}

func TestAnsweredAndCancelled(t *testing.T) {
	repo := &mockEventRepo{}
	tr := NewTracker(repo, zerolog.Nop())
	ctx := context.Background()

	tr.Answered(ctx, "s", "q", session.QuestionResult{Index: 1, Kind: quiz.KindSorting, TimedOut: true, Elapsed: 1500 * time.Millisecond})
	tr.Cancelled(ctx, session.Summary{SessionID: "s", QuizID: "q", Total: 3, Score: 1})

	require.Len(t, repo.answerEvents, 1)
	assert.Equal(t, "sorting", repo.answerEvents[0].Kind)
	assert.Equal(t, int64(1500), repo.answerEvents[0].TimeMs)
	assert.True(t, repo.answerEvents[0].TimedOut)

	require.Len(t, repo.quizEvents, 1)
	assert.Equal(t, store.ActionCancel, repo.quizEvents[0].Action)
	assert.Zero(t, repo.quizEvents[0].XP)
}

func TestOverview(t *testing.T) {
	repo := &mockEventRepo{}
	tr := NewTracker(repo, zerolog.Nop())
	tr.Completed(context.Background(), session.Summary{QuizID: "a", Difficulty: quiz.DifficultyBeginner, Score: 1, Total: 2})
	tr.Completed(context.Background(), session.Summary{QuizID: "b", Difficulty: quiz.DifficultyBeginner, Score: 2, Total: 2})

	ov, err := tr.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 40, ov.TotalXP)
}

func TestNilRepo(t *testing.T) {
	tr := NewTracker(nil, zerolog.Nop())
	ov, err := tr.Overview(context.Background())
	require.NoError(t, err)
	assert.Zero(t, ov.TotalXP)
	assert.Equal(t, 20, tr.Completed(context.Background(), session.Summary{Difficulty: quiz.DifficultyBeginner, Score: 2, Total: 3}).XP)

	stats, err := tr.KindStats(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stats)
}
