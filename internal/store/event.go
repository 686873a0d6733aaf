package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// stamper numbers events. Every event table shares one monotonic sequence
// so quiz, answer and LLM events can be ordered against each other even when
// their timestamps collide.
type stamper struct {
	mu  sync.Mutex
	db  *sql.DB
	now func() time.Time
}

// newStamper seeds the sequence row created by migrate.
func newStamper(ctx context.Context, db *sql.DB) (*stamper, error) {
	query, args := builder().Insert(tableSequence).
		Columns("id", "next_val").
		Values(1, 1).
		OnConflict(entsql.DoNothing()).
		Query()
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}
	return &stamper{db: db, now: time.Now}, nil
}

// stamp claims the next sequence number and the event time.
func (s *stamper) stamp(ctx context.Context) (int64, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var seq int64
	err := s.db.QueryRowContext(ctx,
		`UPDATE `+tableSequence+` SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("next sequence: %w", err)
	}
	return seq, s.now().UTC(), nil
}
