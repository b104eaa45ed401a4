package out

import (
	"context"

	"tasktracker/internal/modules/pomodoro/domain"
)

// SessionRecorder persists finished sessions.
type SessionRecorder interface {
	Record(ctx context.Context, transition domain.Transition) error
	Recent(ctx context.Context, limit int) ([]domain.Transition, error)
}

// Notifier is told about every finished session exactly once.
type Notifier interface {
	SessionCompleted(ctx context.Context, transition domain.Transition) error
}
