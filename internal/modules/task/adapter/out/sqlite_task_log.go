package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tasktracker/internal/modules/task/domain"
	taskout "tasktracker/internal/modules/task/port/out"
	"tasktracker/internal/platform/sqlitedb"
)

type SQLiteTaskLog struct {
	db *sql.DB
}

func NewSQLiteTaskLog(ctx context.Context, db *sql.DB) (taskout.TaskLog, error) {
	log := &SQLiteTaskLog{db: db}
	if err := log.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return log, nil
}

func (s *SQLiteTaskLog) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS task_log (
  key TEXT PRIMARY KEY,
  text TEXT NOT NULL,
  fastest_seconds INTEGER NOT NULL,
  updated_at TEXT NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create task_log table: %w", err)
	}
	return nil
}

// RecordLap keeps the smaller of the stored and the new lap. The bool is true
// when the new lap became the fastest.
func (s *SQLiteTaskLog) RecordLap(ctx context.Context, key, text string, seconds int, at time.Time) (domain.LogEntry, bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.LogEntry{}, false, fmt.Errorf("begin task log tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	current, err := findEntry(ctx, tx, key)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return domain.LogEntry{}, false, err
	case current.FastestSeconds <= seconds:
		return current, false, nil
	}

	entry := domain.LogEntry{Key: key, Text: text, FastestSeconds: seconds, UpdatedAt: at}
	const stmt = `
INSERT INTO task_log (key, text, fastest_seconds, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
  text=excluded.text,
  fastest_seconds=excluded.fastest_seconds,
  updated_at=excluded.updated_at;
`
	if _, err := tx.ExecContext(ctx, stmt, entry.Key, entry.Text, entry.FastestSeconds, sqlitedb.FormatTime(at)); err != nil {
		return domain.LogEntry{}, false, fmt.Errorf("upsert task log: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return domain.LogEntry{}, false, fmt.Errorf("commit task log: %w", err)
	}
	return entry, true, nil
}

func (s *SQLiteTaskLog) List(ctx context.Context) ([]domain.LogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, text, fastest_seconds, updated_at FROM task_log ORDER BY key ASC`)
	if err != nil {
		return nil, fmt.Errorf("query task log: %w", err)
	}
	defer rows.Close()

	out := []domain.LogEntry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate task log: %w", err)
	}
	return out, nil
}

func findEntry(ctx context.Context, tx *sql.Tx, key string) (domain.LogEntry, error) {
	row := tx.QueryRowContext(ctx, `SELECT key, text, fastest_seconds, updated_at FROM task_log WHERE key = ?`, key)
	return scanEntry(row)
}

func scanEntry(row rowScanner) (domain.LogEntry, error) {
	var (
		entry     domain.LogEntry
		updatedAt string
	)
	if err := row.Scan(&entry.Key, &entry.Text, &entry.FastestSeconds, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.LogEntry{}, err
		}
		return domain.LogEntry{}, fmt.Errorf("scan task log: %w", err)
	}
	parsed, err := sqlitedb.ParseTime(updatedAt)
	if err != nil {
		return domain.LogEntry{}, err
	}
	entry.UpdatedAt = parsed
	return entry, nil
}
