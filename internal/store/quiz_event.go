package store

import (
	"context"
	"database/sql"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo with ent's SQL builder over the shared
// connection.
type eventRepo struct {
	db    *sql.DB
	stamp *stamper
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

// insert appends one event row, assigning the next sequence and the
// current timestamp ahead of cols.
func (r *eventRepo) insert(ctx context.Context, table string, cols []string, vals []any) error {
	seq, ts, err := r.stamp.stamp(ctx)
	if err != nil {
		return err
	}

	cols = append([]string{"sequence", "timestamp"}, cols...)
	vals = append([]any{seq, ts}, vals...)

	query, args := builder().Insert(table).Columns(cols...).Values(vals...).Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	return nil
}

func (r *eventRepo) AppendQuizEvent(ctx context.Context, data QuizEventData) error {
	err := r.insert(ctx, tableQuizEvents,
		[]string{"session_id", "quiz_id", "action", "questions", "correct", "xp", "duration_secs"},
		[]any{data.SessionID, data.QuizID, data.Action, data.Questions, data.Correct, data.XP, data.DurationSecs},
	)
	if err != nil {
		return fmt.Errorf("save quiz event: %w", err)
	}
	return nil
}

func (r *eventRepo) RecentResults(ctx context.Context, opts QueryOpts) ([]QuizResult, error) {
	sel := builder().
		Select("sequence", "timestamp", "session_id", "quiz_id", "questions", "correct", "xp", "duration_secs").
		From(entsql.Table(tableQuizEvents))

	where := entsql.EQ("action", ActionEnd)
	if opts.QuizID != "" {
		where = entsql.And(where, entsql.EQ("quiz_id", opts.QuizID))
	}
	sel.Where(where).OrderBy(entsql.Desc("sequence"))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query recent results: %w", err)
	}
	defer rows.Close()

	var results []QuizResult
	for rows.Next() {
		var qr QuizResult
		if err := rows.Scan(&qr.Sequence, &qr.Timestamp, &qr.SessionID, &qr.QuizID,
			&qr.Questions, &qr.Correct, &qr.XP, &qr.DurationSecs); err != nil {
			return nil, fmt.Errorf("scan quiz result: %w", err)
		}
		results = append(results, qr)
	}
	return results, rows.Err()
}

func (r *eventRepo) BestScores(ctx context.Context) (map[string]QuizBest, error) {
	query, args := builder().
		Select("quiz_id", entsql.Count("*"), entsql.Max("correct"), entsql.Max("questions")).
		From(entsql.Table(tableQuizEvents)).
		Where(entsql.EQ("action", ActionEnd)).
		GroupBy("quiz_id").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query best scores: %w", err)
	}
	defer rows.Close()

	best := make(map[string]QuizBest)
	for rows.Next() {
		var b QuizBest
		if err := rows.Scan(&b.QuizID, &b.Attempts, &b.BestCorrect, &b.Questions); err != nil {
			return nil, fmt.Errorf("scan best score: %w", err)
		}
		best[b.QuizID] = b
	}
	return best, rows.Err()
}

func (r *eventRepo) TotalXP(ctx context.Context) (int, error) {
	query, args := builder().
		Select(entsql.Sum("xp")).
		From(entsql.Table(tableQuizEvents)).
		Where(entsql.EQ("action", ActionEnd)).
		Query()

	var total sql.NullInt64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("query total xp: %w", err)
	}
	return int(total.Int64), nil
}
