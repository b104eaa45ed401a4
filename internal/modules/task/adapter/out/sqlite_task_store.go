package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"tasktracker/internal/modules/task/domain"
	taskout "tasktracker/internal/modules/task/port/out"
	apperrors "tasktracker/internal/platform/errors"
	"tasktracker/internal/platform/sqlitedb"
)

type SQLiteTaskStore struct {
	db *sql.DB
}

func NewSQLiteTaskStore(ctx context.Context, db *sql.DB) (taskout.TaskStore, error) {
	store := &SQLiteTaskStore{db: db}
	if err := store.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteTaskStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS tasks (
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  id TEXT NOT NULL UNIQUE,
  text TEXT NOT NULL,
  priority INTEGER NOT NULL,
  deadline TEXT,
  completed INTEGER NOT NULL DEFAULT 0,
  lap_seconds INTEGER NOT NULL DEFAULT 0,
  created_at TEXT NOT NULL,
  completed_at TEXT
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create tasks table: %w", err)
	}
	return nil
}

func (s *SQLiteTaskStore) Insert(ctx context.Context, task domain.Task) error {
	const stmt = `
INSERT INTO tasks (id, text, priority, deadline, completed, lap_seconds, created_at, completed_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?);
`
	_, err := s.db.ExecContext(ctx, stmt,
		task.ID,
		task.Text,
		task.Priority,
		nullableTime(task.Deadline),
		task.Completed,
		task.LapSeconds,
		sqlitedb.FormatTime(task.CreatedAt),
		nullableTime(task.CompletedAt),
	)
	if err != nil {
		if isConstraint(err) {
			return fmt.Errorf("%w: %s", taskout.ErrDuplicateID, task.ID)
		}
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

// Save updates a stored task in place, keeping its insertion slot.
func (s *SQLiteTaskStore) Save(ctx context.Context, task domain.Task) error {
	const stmt = `
UPDATE tasks SET
  text = ?,
  priority = ?,
  deadline = ?,
  completed = ?,
  lap_seconds = ?,
  completed_at = ?
WHERE id = ?;
`
	res, err := s.db.ExecContext(ctx, stmt,
		task.Text,
		task.Priority,
		nullableTime(task.Deadline),
		task.Completed,
		task.LapSeconds,
		nullableTime(task.CompletedAt),
		task.ID,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: task %q", apperrors.ErrNotFound, task.ID)
	}
	return nil
}

// isConstraint reports a constraint violation. Every tasks column an insert
// writes is non-null or nullable by design, so the only one left is the
// unique id.
func isConstraint(err error) bool {
	var sqliteErr *sqlite.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
}

func (s *SQLiteTaskStore) FindByID(ctx context.Context, id string) (domain.Task, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, text, priority, deadline, completed, lap_seconds, created_at, completed_at
FROM tasks WHERE id = ?;
`, id)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Task{}, fmt.Errorf("%w: task %s", apperrors.ErrNotFound, id)
	}
	return task, err
}

func (s *SQLiteTaskStore) List(ctx context.Context) ([]domain.Task, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, text, priority, deadline, completed, lap_seconds, created_at, completed_at
FROM tasks ORDER BY seq ASC;
`)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	out := []domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return out, nil
}

func (s *SQLiteTaskStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: task %s", apperrors.ErrNotFound, id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (domain.Task, error) {
	var (
		task                  domain.Task
		deadline, completedAt sql.NullString
		createdAt             string
	)
	if err := row.Scan(&task.ID, &task.Text, &task.Priority, &deadline, &task.Completed, &task.LapSeconds, &createdAt, &completedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Task{}, err
		}
		return domain.Task{}, fmt.Errorf("scan task: %w", err)
	}
	var err error
	if task.CreatedAt, err = sqlitedb.ParseTime(createdAt); err != nil {
		return domain.Task{}, err
	}
	if task.Deadline, err = parseNullable(deadline); err != nil {
		return domain.Task{}, err
	}
	if task.CompletedAt, err = parseNullable(completedAt); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return sqlitedb.FormatTime(t)
}

func parseNullable(value sql.NullString) (time.Time, error) {
	if !value.Valid || value.String == "" {
		return time.Time{}, nil
	}
	return sqlitedb.ParseTime(value.String)
}
