package out

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"tasktracker/internal/modules/pomodoro/domain"
	pomodoroout "tasktracker/internal/modules/pomodoro/port/out"
	"tasktracker/internal/platform/sqlitedb"
)

type SQLiteSessionRecorder struct {
	db *sql.DB
}

func NewSQLiteSessionRecorder(ctx context.Context, db *sql.DB) (pomodoroout.SessionRecorder, error) {
	recorder := &SQLiteSessionRecorder{db: db}
	if err := recorder.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return recorder, nil
}

func (s *SQLiteSessionRecorder) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS pomodoro_sessions (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  phase TEXT NOT NULL,
  started_at TEXT NOT NULL,
  ended_at TEXT NOT NULL,
  duration_seconds INTEGER NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create pomodoro_sessions table: %w", err)
	}
	return nil
}

func (s *SQLiteSessionRecorder) Record(ctx context.Context, transition domain.Transition) error {
	const stmt = `
INSERT INTO pomodoro_sessions (phase, started_at, ended_at, duration_seconds)
VALUES (?, ?, ?, ?);
`
	_, err := s.db.ExecContext(ctx, stmt,
		string(transition.Finished),
		sqlitedb.FormatTime(transition.StartedAt),
		sqlitedb.FormatTime(transition.EndedAt),
		int64(transition.Duration/time.Second),
	)
	if err != nil {
		return fmt.Errorf("insert pomodoro session: %w", err)
	}
	return nil
}

// Recent returns the newest sessions first.
func (s *SQLiteSessionRecorder) Recent(ctx context.Context, limit int) ([]domain.Transition, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT phase, started_at, ended_at, duration_seconds
FROM pomodoro_sessions
ORDER BY id DESC
LIMIT ?;
`, limit)
	if err != nil {
		return nil, fmt.Errorf("query pomodoro sessions: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Transition, 0, limit)
	for rows.Next() {
		var (
			phase, startedAt, endedAt string
			seconds                   int64
		)
		if err := rows.Scan(&phase, &startedAt, &endedAt, &seconds); err != nil {
			return nil, fmt.Errorf("scan pomodoro session: %w", err)
		}
		started, err := sqlitedb.ParseTime(startedAt)
		if err != nil {
			return nil, err
		}
		ended, err := sqlitedb.ParseTime(endedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.Transition{
			Finished:  domain.Phase(phase),
			StartedAt: started,
			EndedAt:   ended,
			Duration:  time.Duration(seconds) * time.Second,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pomodoro sessions: %w", err)
	}
	return out, nil
}
