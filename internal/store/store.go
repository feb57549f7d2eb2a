// Package store keeps the run history in a local sqlite file so past
// application outcomes survive across runs.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"handshake-autopilot/internal/domain"
)

type DB struct {
	Pool *sql.DB
}

func Open(path string) (*DB, error) {
	// modernc sqlite uses DSN like: file:foo.db?_pragma=busy_timeout(5000)
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)

	pool, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	pool.SetMaxOpenConns(1) // sqlite typically wants 1 writer
	pool.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, err
	}

	if err := migrate(pool); err != nil {
		_ = pool.Close()
		return nil, err
	}

	return &DB{Pool: pool}, nil
}

func (d *DB) Close() error {
	if d == nil || d.Pool == nil {
		return nil
	}
	return d.Pool.Close()
}

func migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}
	if v >= 1 {
		return tx.Commit()
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS application_results (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  run_id TEXT NOT NULL,
  recorded_at TEXT NOT NULL,
  job_id TEXT NOT NULL,
  title TEXT NOT NULL,
  company TEXT NOT NULL,
  url TEXT NOT NULL,
  status TEXT NOT NULL,
  reason TEXT NOT NULL DEFAULT ''
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_results_run_id
ON application_results(run_id);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}

	return tx.Commit()
}

// RecordRun appends every result of one run under a shared run id.
func (d *DB) RecordRun(ctx context.Context, runID string, results []domain.ApplicationResult) error {
	tx, err := d.Pool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, r := range results {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO application_results(run_id, recorded_at, job_id, title, company, url, status, reason)
VALUES(?,?,?,?,?,?,?,?);`,
			runID, now, r.JobID, r.Title, r.Company, r.URL, r.Status, r.Reason,
		); err != nil {
			return fmt.Errorf("record result: %w", err)
		}
	}
	return tx.Commit()
}

// HistoryEntry is one stored outcome, newest first from History.
type HistoryEntry struct {
	RunID      string
	RecordedAt string
	Result     domain.ApplicationResult
}

func (d *DB) History(ctx context.Context, limit int) ([]HistoryEntry, error) {
	if limit <= 0 || limit > 2000 {
		limit = 100
	}

	rows, err := d.Pool.QueryContext(ctx, `
SELECT run_id, recorded_at, job_id, title, company, url, status, reason
FROM application_results
ORDER BY id DESC
LIMIT ?;`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(
			&e.RunID,
			&e.RecordedAt,
			&e.Result.JobID,
			&e.Result.Title,
			&e.Result.Company,
			&e.Result.URL,
			&e.Result.Status,
			&e.Result.Reason,
		); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
