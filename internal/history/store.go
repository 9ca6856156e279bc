// Package history persists checker runs to a local SQLite database so
// past invocations and their exit codes can be inspected later.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS runs (
    id          TEXT PRIMARY KEY,
    started_at  TIMESTAMP NOT NULL,
    duration_ms INTEGER NOT NULL,
    exit_code   INTEGER NOT NULL,
    dry_run     INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS invocations (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id      TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    position    INTEGER NOT NULL,
    checker     TEXT NOT NULL,
    command     TEXT NOT NULL,
    exit_code   INTEGER NOT NULL,
    duration_ms INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_invocations_run ON invocations(run_id);
`

// Invocation is one checker execution within a run.
type Invocation struct {
	Position int
	Checker  string
	Command  string
	ExitCode int
	Duration time.Duration
}

// Run is one dispatch across all configured checkers.
type Run struct {
	ID          string
	StartedAt   time.Time
	Duration    time.Duration
	ExitCode    int
	DryRun      bool
	Invocations []Invocation
}

// Store manages the SQLite database holding run history.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Open creates a Store and initializes the database at dbPath, creating
// parent directories as needed. ":memory:" is supported for tests.
func Open(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// busy_timeout first so later statements wait on locks instead of
	// failing when another typerunner process holds the database.
	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordRun inserts a run and its invocations in one transaction.
func (s *Store) RecordRun(ctx context.Context, run *Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, duration_ms, exit_code, dry_run) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.UTC(), run.Duration.Milliseconds(), run.ExitCode, run.DryRun,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, inv := range run.Invocations {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO invocations (run_id, position, checker, command, exit_code, duration_ms) VALUES (?, ?, ?, ?, ?, ?)`,
			run.ID, inv.Position, inv.Checker, inv.Command, inv.ExitCode, inv.Duration.Milliseconds(),
		)
		if err != nil {
			return fmt.Errorf("insert invocation %d: %w", inv.Position, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first, including their
// invocations. limit <= 0 means a default of 20.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, duration_ms, exit_code, dry_run FROM runs ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var durationMS int64
		if err := rows.Scan(&run.ID, &run.StartedAt, &durationMS, &run.ExitCode, &run.DryRun); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	for i := range runs {
		invocations, err := s.listInvocations(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Invocations = invocations
	}

	return runs, nil
}

// listInvocations loads the invocations of one run in position order.
func (s *Store) listInvocations(ctx context.Context, runID string) ([]Invocation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT position, checker, command, exit_code, duration_ms FROM invocations WHERE run_id = ? ORDER BY position`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query invocations: %w", err)
	}
	defer rows.Close()

	var invocations []Invocation
	for rows.Next() {
		var inv Invocation
		var durationMS int64
		if err := rows.Scan(&inv.Position, &inv.Checker, &inv.Command, &inv.ExitCode, &durationMS); err != nil {
			return nil, fmt.Errorf("scan invocation: %w", err)
		}
		inv.Duration = time.Duration(durationMS) * time.Millisecond
		invocations = append(invocations, inv)
	}
	return invocations, rows.Err()
}
