package out

import (
	"context"
	"errors"
	"time"

	"tasktracker/internal/modules/task/domain"
)

// ErrDuplicateID is returned by Insert when the id is already taken.
var ErrDuplicateID = errors.New("task id already in use")

// TaskStore keeps tasks in insertion order. Insert never overwrites; Save
// only updates an existing task.
type TaskStore interface {
	Insert(ctx context.Context, task domain.Task) error
	Save(ctx context.Context, task domain.Task) error
	FindByID(ctx context.Context, id string) (domain.Task, error)
	List(ctx context.Context) ([]domain.Task, error)
	Delete(ctx context.Context, id string) error
}

// TaskLog keeps the fastest lap per task text.
type TaskLog interface {
	RecordLap(ctx context.Context, key, text string, seconds int, at time.Time) (domain.LogEntry, bool, error)
	List(ctx context.Context) ([]domain.LogEntry, error)
}
