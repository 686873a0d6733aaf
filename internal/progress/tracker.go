// Package progress turns finished quiz sessions into persisted history and XP.
package progress

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/abhisek/quizline/internal/quiz"
	"github.com/abhisek/quizline/internal/session"
	"github.com/abhisek/quizline/internal/store"
)

// xpPerCorrect is the XP for one correct answer at each difficulty.
var xpPerCorrect = map[quiz.Difficulty]int{
	quiz.DifficultyBeginner:     10,
	quiz.DifficultyIntermediate: 15,
	quiz.DifficultyAdvanced:     20,
}

// XPFor returns the XP earned for score correct answers out of total.
// A perfect run earns half again.
func XPFor(d quiz.Difficulty, score, total int) int {
	per, ok := xpPerCorrect[d]
	if !ok {
		per = xpPerCorrect[quiz.DifficultyBeginner]
	}
	xp := score * per
	if total > 0 && score == total {
		xp += xp / 2
	}
	return xp
}

// Award is what a learner earned for finishing a quiz.
type Award struct {
	XP      int
	Perfect bool

	// NewBest is true when the score beats every earlier attempt.
	NewBest bool
}

// Overview is the learner's progress across every quiz.
type Overview struct {
	TotalXP int
	Best    map[string]store.QuizBest
}

// Tracker records session outcomes. Store failures are logged and never
// interrupt a quiz.
type Tracker struct {
	repo store.EventRepo
	log  zerolog.Logger
}

// NewTracker creates a Tracker. A nil repo makes every method a no-op.
func NewTracker(repo store.EventRepo, log zerolog.Logger) *Tracker {
	return &Tracker{repo: repo, log: log.With().Str("component", "progress").Logger()}
}

// Started records the beginning of a session.
func (t *Tracker) Started(ctx context.Context, sessionID string, q quiz.Quiz) {
	if t.repo == nil {
		return
	}
	err := t.repo.AppendQuizEvent(ctx, store.QuizEventData{
		SessionID: sessionID,
		QuizID:    q.ID,
		Action:    store.ActionStart,
		Questions: len(q.Questions),
	})
	if err != nil {
		t.log.Warn().Err(err).Str("session_id", sessionID).Msg("record quiz start")
	}
}

// Answered records one graded question.
func (t *Tracker) Answered(ctx context.Context, sessionID, quizID string, r session.QuestionResult) {
	if t.repo == nil {
		return
	}
	err := t.repo.AppendAnswerEvent(ctx, store.AnswerEventData{
		SessionID:     sessionID,
		QuizID:        quizID,
		QuestionIndex: r.Index,
		Kind:          string(r.Kind),
		Correct:       r.Correct,
		TimedOut:      r.TimedOut,
		TimeMs:        r.Elapsed.Milliseconds(),
	})
	if err != nil {
		t.log.Warn().Err(err).Str("session_id", sessionID).Int("question", r.Index).Msg("record answer")
	}
}

// Completed records a finished session and returns the award.
func (t *Tracker) Completed(ctx context.Context, sum session.Summary) Award {
	award := Award{
		XP:      XPFor(sum.Difficulty, sum.Score, sum.Total),
		Perfect: sum.Perfect(),
	}
	if t.repo == nil {
		return award
	}

	best, err := t.repo.BestScores(ctx)
	if err != nil {
		t.log.Warn().Err(err).Msg("load best scores")
	} else {
		prev, seen := best[sum.QuizID]
		award.NewBest = !seen || sum.Score > prev.BestCorrect
	}

	err = t.repo.AppendQuizEvent(ctx, store.QuizEventData{
		SessionID:    sum.SessionID,
		QuizID:       sum.QuizID,
		Action:       store.ActionEnd,
		Questions:    sum.Total,
		Correct:      sum.Score,
		XP:           award.XP,
		DurationSecs: int(sum.Duration / time.Second),
	})
	if err != nil {
		t.log.Warn().Err(err).Str("session_id", sum.SessionID).Msg("record quiz end")
	}

	t.log.Info().
		Str("quiz_id", sum.QuizID).
		Int("score", sum.Score).
		Int("xp", award.XP).
		Bool("new_best", award.NewBest).
		Msg("quiz recorded")
	return award
}

// Cancelled records a session the learner abandoned.
func (t *Tracker) Cancelled(ctx context.Context, sum session.Summary) {
	if t.repo == nil {
		return
	}
	err := t.repo.AppendQuizEvent(ctx, store.QuizEventData{
		SessionID:    sum.SessionID,
		QuizID:       sum.QuizID,
		Action:       store.ActionCancel,
		Questions:    sum.Total,
		Correct:      sum.Score,
		DurationSecs: int(sum.Duration / time.Second),
	})
	if err != nil {
		t.log.Warn().Err(err).Str("session_id", sum.SessionID).Msg("record quiz cancel")
	}
}

// Overview loads total XP and per-quiz bests.
func (t *Tracker) Overview(ctx context.Context) (Overview, error) {
	ov := Overview{Best: map[string]store.QuizBest{}}
	if t.repo == nil {
		return ov, nil
	}
	xp, err := t.repo.TotalXP(ctx)
	if err != nil {
		return ov, err
	}
	best, err := t.repo.BestScores(ctx)
	if err != nil {
		return ov, err
	}
	ov.TotalXP = xp
	ov.Best = best
	return ov, nil
}

// Recent returns the latest finished attempts, newest first.
func (t *Tracker) Recent(ctx context.Context, limit int) ([]store.QuizResult, error) {
	if t.repo == nil {
		return nil, nil
	}
	return t.repo.RecentResults(ctx, store.QueryOpts{Limit: limit})
}

// KindStats returns answer accuracy per question kind.
func (t *Tracker) KindStats(ctx context.Context) ([]store.KindStats, error) {
	if t.repo == nil {
		return nil, nil
	}
	return t.repo.KindAccuracy(ctx)
}
