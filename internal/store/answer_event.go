package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendAnswerEvent(ctx context.Context, data AnswerEventData) error {
	err := r.insert(ctx, tableAnswerEvents,
		[]string{"session_id", "quiz_id", "question_index", "kind", "correct", "timed_out", "time_ms"},
		[]any{data.SessionID, data.QuizID, data.QuestionIndex, data.Kind, data.Correct, data.TimedOut, data.TimeMs},
	)
	if err != nil {
		return fmt.Errorf("save answer event: %w", err)
	}
	return nil
}

func (r *eventRepo) KindAccuracy(ctx context.Context) ([]KindStats, error) {
	query, args := builder().
		Select("kind", entsql.Count("*"), entsql.Sum("correct"), entsql.Sum("timed_out")).
		From(entsql.Table(tableAnswerEvents)).
		GroupBy("kind").
		OrderBy("kind").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query kind accuracy: %w", err)
	}
	defer rows.Close()

	var stats []KindStats
	for rows.Next() {
		var k KindStats
		if err := rows.Scan(&k.Kind, &k.Answered, &k.Correct, &k.TimedOut); err != nil {
			return nil, fmt.Errorf("scan kind accuracy: %w", err)
		}
		stats = append(stats, k)
	}
	return stats, rows.Err()
}
