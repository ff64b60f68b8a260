package practice

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

// Store persists the streak, earned badges and the completed-cycle log in
// SQLite (modernc.org/sqlite, no CGO).
type Store struct {
	db *sql.DB
}

// OpenStore opens (or creates) the database at path.
func OpenStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One writer; serialise through the pool.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Load reads the streak and badges. An empty database yields NewState.
func (s *Store) Load(ctx context.Context) (State, error) {
	st := NewState()

	var lastVisit sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT current, longest, last_visit, freeze_available FROM streak WHERE id = 1`,
	).Scan(&st.Streak.Current, &st.Streak.Longest, &lastVisit, &st.Streak.FreezeAvailable)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return State{}, fmt.Errorf("reading streak: %w", err)
	}
	if lastVisit.Valid {
		st.Streak.LastVisit = time.UnixMilli(lastVisit.Int64).UTC()
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, earned_at FROM badges`)
	if err != nil {
		return State{}, fmt.Errorf("reading badges: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		var earned int64
		if err := rows.Scan(&id, &earned); err != nil {
			return State{}, fmt.Errorf("scanning badge: %w", err)
		}
		st.Earned[id] = time.UnixMilli(earned).UTC()
	}
	return st, rows.Err()
}

// Save writes the streak and any badges not yet stored in one transaction.
func (s *Store) Save(ctx context.Context, st State) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var lastVisit sql.NullInt64
	if !st.Streak.LastVisit.IsZero() {
		lastVisit = sql.NullInt64{Int64: st.Streak.LastVisit.UnixMilli(), Valid: true}
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO streak (id, current, longest, last_visit, freeze_available)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			current = excluded.current,
			longest = excluded.longest,
			last_visit = excluded.last_visit,
			freeze_available = excluded.freeze_available`,
		st.Streak.Current, st.Streak.Longest, lastVisit, st.Streak.FreezeAvailable,
	); err != nil {
		return fmt.Errorf("writing streak: %w", err)
	}

	for id, at := range st.Earned {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO badges (id, earned_at) VALUES (?, ?)`, id, at.UnixMilli(),
		); err != nil {
			return fmt.Errorf("writing badge %s: %w", id, err)
		}
	}
	return tx.Commit()
}

// RecordCycle logs one completed breathing cycle.
func (s *Store) RecordCycle(ctx context.Context, sessionID string, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cycles (session_id, completed_at) VALUES (?, ?)`, sessionID, at.UnixMilli())
	if err != nil {
		return fmt.Errorf("recording cycle: %w", err)
	}
	return nil
}

// CyclesOn counts cycles completed on the UTC calendar day containing day.
func (s *Store) CyclesOn(ctx context.Context, day time.Time) (int, error) {
	start := dayOf(day)
	end := start.AddDate(0, 0, 1)
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM cycles WHERE completed_at >= ? AND completed_at < ?`,
		start.UnixMilli(), end.UnixMilli(),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting cycles: %w", err)
	}
	return n, nil
}

// TotalCycles counts every logged cycle.
func (s *Store) TotalCycles(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cycles`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting cycles: %w", err)
	}
	return n, nil
}
