// Package store keeps the attempt log in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/verte-zerg/tuistrum/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// memoryPath opens a private in-memory database.
const memoryPath = ":memory:"

// Store wraps SQLite access for attempt data.
type Store struct {
	db *sql.DB
}

// OpenMemory opens an attempt log that lives as long as the process and
// applies migrations.
func OpenMemory() (*Store, error) {
	db, err := sql.Open("sqlite", memoryPath)
	if err != nil {
		return nil, err
	}
	// Each connection would see its own empty database.
	db.SetMaxOpenConns(1)
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS attempts (
			id INTEGER PRIMARY KEY,
			session_id TEXT NOT NULL,
			pattern_id INTEGER NOT NULL,
			pattern_name TEXT NOT NULL,
			outcome TEXT NOT NULL,
			captured TEXT NOT NULL,
			points INTEGER NOT NULL,
			speed TEXT NOT NULL,
			avg_interval_ms REAL,
			remaining_s INTEGER NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			duration_ms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_session ON attempts(session_id);`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_pattern ON attempts(pattern_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertAttempt stores a finished attempt and returns its row id.
func (s *Store) InsertAttempt(ctx context.Context, a model.Attempt) (int64, error) {
	var avg any
	if a.HasAvgInterval {
		avg = a.AvgIntervalMs
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO attempts (session_id, pattern_id, pattern_name, outcome, captured, points, speed, avg_interval_ms, remaining_s, started_at, ended_at, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.SessionID,
		a.PatternID,
		a.PatternName,
		a.Outcome,
		a.Captured,
		a.Points,
		a.Speed,
		avg,
		a.RemainingSeconds,
		a.StartedAt.Format(time.RFC3339Nano),
		a.EndedAt.Format(time.RFC3339Nano),
		a.Duration().Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert attempt: %w", err)
	}
	return res.LastInsertId()
}

// Filter narrows attempt queries. Zero values match everything.
type Filter struct {
	SessionID string
	PatternID int
}

func (f Filter) where() (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}
	if f.SessionID != "" {
		clauses = append(clauses, "session_id = ?")
		args = append(args, f.SessionID)
	}
	if f.PatternID != 0 {
		clauses = append(clauses, "pattern_id = ?")
		args = append(args, f.PatternID)
	}
	return strings.Join(clauses, " AND "), args
}

// ListAttempts returns attempts in the order they finished.
func (s *Store) ListAttempts(ctx context.Context, f Filter) ([]model.AttemptAggregate, error) {
	where, args := f.where()
	query := fmt.Sprintf(`SELECT id, pattern_id, outcome, points, duration_ms, ended_at
		FROM attempts
		WHERE %s
		ORDER BY id ASC`, where)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var attempts []model.AttemptAggregate
	for rows.Next() {
		var agg model.AttemptAggregate
		var endedAt string
		if err := rows.Scan(&agg.AttemptID, &agg.PatternID, &agg.Outcome, &agg.Points, &agg.DurationMs, &endedAt); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		attempts = append(attempts, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return attempts, nil
}

// PatternAggregates groups attempts by pattern, ordered by pattern id.
func (s *Store) PatternAggregates(ctx context.Context, f Filter) ([]model.PatternAggregate, error) {
	where, args := f.where()
	query := fmt.Sprintf(`SELECT pattern_id, MAX(pattern_name),
		COUNT(*) AS attempts,
		SUM(CASE WHEN outcome = 'success' THEN 1 ELSE 0 END) AS successes,
		SUM(CASE WHEN outcome = 'timeout' THEN 1 ELSE 0 END) AS timeouts,
		COALESCE(MAX(points), 0) AS best_points,
		COALESCE(SUM(points), 0) AS total_points,
		COALESCE(SUM(avg_interval_ms), 0) AS avg_sum,
		COUNT(avg_interval_ms) AS avg_n,
		COALESCE(MIN(CASE WHEN outcome = 'success' THEN duration_ms END), 0) AS fastest_ms
		FROM attempts
		WHERE %s
		GROUP BY pattern_id
		ORDER BY pattern_id ASC`, where)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.PatternAggregate
	for rows.Next() {
		var agg model.PatternAggregate
		if err := rows.Scan(
			&agg.PatternID,
			&agg.PatternName,
			&agg.Attempts,
			&agg.Successes,
			&agg.Timeouts,
			&agg.BestPoints,
			&agg.TotalPoints,
			&agg.AvgIntervalSum,
			&agg.AvgIntervalN,
			&agg.FastestMs,
		); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
