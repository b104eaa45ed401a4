package usecase_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	countdownservice "tasktracker/internal/modules/countdown/service"
	countdownusecase "tasktracker/internal/modules/countdown/usecase"
	taskdomain "tasktracker/internal/modules/task/domain"
	taskout "tasktracker/internal/modules/task/adapter/out"
	"tasktracker/internal/modules/task/dto"
	taskin "tasktracker/internal/modules/task/port/in"
	"tasktracker/internal/modules/task/service"
	"tasktracker/internal/modules/task/usecase"
	"tasktracker/internal/platform/clock"
	apperrors "tasktracker/internal/platform/errors"
	"tasktracker/internal/platform/sqlitedb"
)

type sequentialIDs struct{ next int }

func (s *sequentialIDs) New() string {
	s.next++
	return "t" + string(rune('0'+s.next))
}

type scriptedIDs struct{ ids []string }

func (s *scriptedIDs) New() string {
	next := s.ids[0]
	if len(s.ids) > 1 {
		s.ids = s.ids[1:]
	}
	return next
}

var start = time.Date(2026, 2, 25, 9, 0, 0, 0, time.UTC)

func newUsecase(t *testing.T) (*clock.Fixed, taskin.Usecase) {
	t.Helper()
	ctx := context.Background()
	db, err := sqlitedb.Open(ctx, filepath.Join(t.TempDir(), "tasktracker.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	store, err := taskout.NewSQLiteTaskStore(ctx, db)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	log, err := taskout.NewSQLiteTaskLog(ctx, db)
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	clk := &clock.Fixed{T: start}
	countdown := countdownusecase.NewInteractor(countdownservice.NewClockService(clk, countdownservice.Settings{}), nil)
	svc := service.NewTaskService(clk, &sequentialIDs{}, store, log)
	return clk, usecase.NewInteractor(svc, countdown, nil)
}

func TestToggleRecordsLapAndResetsSpent(t *testing.T) {
	clk, uc := newUsecase(t)
	ctx := context.Background()

	added, err := uc.Add(ctx, dto.AddTaskInput{Text: "Write report"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if added.Priority != 3 {
		t.Fatalf("expected default priority 3, got %d", added.Priority)
	}

	clk.Advance(95 * time.Second)
	toggled, err := uc.Toggle(ctx, added.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !toggled.Task.Completed || toggled.Task.LapSeconds != 95 || toggled.Task.LapDisplay != "1m 35s" {
		t.Fatalf("unexpected completed task: %+v", toggled.Task)
	}
	if !toggled.NewFastest || !toggled.AllDone {
		t.Fatalf("expected new fastest and all done, got %+v", toggled)
	}

	clk.Advance(10 * time.Second)
	reopened, err := uc.Toggle(ctx, added.ID)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reopened.Task.Completed || reopened.Task.LapSeconds != 0 || reopened.AllDone {
		t.Fatalf("unexpected reopened task: %+v", reopened)
	}

	clk.Advance(60 * time.Second)
	again, err := uc.Toggle(ctx, added.ID)
	if err != nil {
		t.Fatalf("toggle again: %v", err)
	}
	if again.Task.LapSeconds != 60 || !again.NewFastest {
		t.Fatalf("spent must restart at the reopen, got %+v", again)
	}

	entries, err := uc.Log(ctx)
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if len(entries) != 1 || entries[0].Key != "write-report" || entries[0].FastestSeconds != 60 {
		t.Fatalf("unexpected log: %+v", entries)
	}
}

type brokenLog struct{}

func (brokenLog) RecordLap(context.Context, string, string, int, time.Time) (taskdomain.LogEntry, bool, error) {
	return taskdomain.LogEntry{}, false, errors.New("disk full")
}

func (brokenLog) List(context.Context) ([]taskdomain.LogEntry, error) {
	return nil, errors.New("disk full")
}

func TestToggleSurvivesFastestLogFailure(t *testing.T) {
	ctx := context.Background()
	db, err := sqlitedb.Open(ctx, filepath.Join(t.TempDir(), "tasktracker.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	store, err := taskout.NewSQLiteTaskStore(ctx, db)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	clk := &clock.Fixed{T: start}
	countdown := countdownusecase.NewInteractor(countdownservice.NewClockService(clk, countdownservice.Settings{}), nil)
	uc := usecase.NewInteractor(service.NewTaskService(clk, &sequentialIDs{}, store, brokenLog{}), countdown, nil)

	added, err := uc.Add(ctx, dto.AddTaskInput{Text: "file taxes"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	clk.Advance(90 * time.Second)
	toggled, err := uc.Toggle(ctx, added.ID)
	if err != nil {
		t.Fatalf("a log failure must not fail the toggle: %v", err)
	}
	if !toggled.Task.Completed || toggled.Task.LapSeconds != 90 || toggled.NewFastest {
		t.Fatalf("unexpected toggle: %+v", toggled)
	}
	if spent := countdown.SpentSeconds(ctx); spent != 0 {
		t.Fatalf("spent anchor must reset on completion, got %d", spent)
	}
	stored, err := store.FindByID(ctx, added.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !stored.Completed {
		t.Fatalf("stored task must match the reported state")
	}
}

func TestAddRetriesTakenID(t *testing.T) {
	ctx := context.Background()
	db, err := sqlitedb.Open(ctx, filepath.Join(t.TempDir(), "tasktracker.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	store, err := taskout.NewSQLiteTaskStore(ctx, db)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	log, err := taskout.NewSQLiteTaskLog(ctx, db)
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	clk := &clock.Fixed{T: start}
	countdown := countdownusecase.NewInteractor(countdownservice.NewClockService(clk, countdownservice.Settings{}), nil)
	ids := &scriptedIDs{ids: []string{"aaaa0001", "aaaa0001", "aaaa0002"}}
	uc := usecase.NewInteractor(service.NewTaskService(clk, ids, store, log), countdown, nil)

	first, err := uc.Add(ctx, dto.AddTaskInput{Text: "pay rent"})
	if err != nil {
		t.Fatalf("add first: %v", err)
	}
	second, err := uc.Add(ctx, dto.AddTaskInput{Text: "call bank"})
	if err != nil {
		t.Fatalf("add second: %v", err)
	}
	if first.ID != "aaaa0001" || second.ID != "aaaa0002" {
		t.Fatalf("expected a fresh id on collision, got %s and %s", first.ID, second.ID)
	}
	kept, err := store.FindByID(ctx, "aaaa0001")
	if err != nil || kept.Text != "pay rent" {
		t.Fatalf("first task must survive the collision: %+v %v", kept, err)
	}
}

func TestListCurrentOverdueAndAllDone(t *testing.T) {
	clk, uc := newUsecase(t)
	ctx := context.Background()

	empty, err := uc.List(ctx, dto.ListInput{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if empty.AllDone || empty.Current != nil || len(empty.Tasks) != 0 {
		t.Fatalf("empty list is never all done: %+v", empty)
	}

	soon := start.Add(10 * time.Minute)
	late, _ := uc.Add(ctx, dto.AddTaskInput{Text: "pay invoice", Priority: 2, Deadline: &soon})
	clk.Advance(time.Minute)
	urgent, _ := uc.Add(ctx, dto.AddTaskInput{Text: "fix outage", Priority: 1})
	clk.Advance(time.Minute)
	_, _ = uc.Add(ctx, dto.AddTaskInput{Text: "tidy desk", Priority: 5})

	clk.Advance(20 * time.Minute)
	list, err := uc.List(ctx, dto.ListInput{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list.Tasks) != 3 || list.Tasks[0].ID != late.ID {
		t.Fatalf("expected insertion order, got %+v", list.Tasks)
	}
	if list.Current == nil || list.Current.ID != urgent.ID {
		t.Fatalf("expected the priority 1 task to be current, got %+v", list.Current)
	}
	if len(list.Overdue) != 1 || list.Overdue[0] != late.ID || !list.Tasks[0].Overdue {
		t.Fatalf("expected one overdue task, got %+v", list.Overdue)
	}
	if list.Tasks[0].Age != "22 minutes ago" {
		t.Fatalf("unexpected age %q", list.Tasks[0].Age)
	}

	stats, err := uc.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 3 || stats.Incomplete != 3 || stats.Overdue != 1 || stats.CompletionRate != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestValidationAndNotFound(t *testing.T) {
	_, uc := newUsecase(t)
	ctx := context.Background()

	if _, err := uc.Add(ctx, dto.AddTaskInput{Text: "  "}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for blank text, got %v", err)
	}
	if _, err := uc.Add(ctx, dto.AddTaskInput{Text: "x", Priority: 9}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for priority 9, got %v", err)
	}
	if _, err := uc.Toggle(ctx, "missing"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := uc.Delete(ctx, "missing"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found on delete, got %v", err)
	}

	added, _ := uc.Add(ctx, dto.AddTaskInput{Text: "x", Priority: 4})
	if _, err := uc.SetPriority(ctx, dto.SetPriorityInput{ID: added.ID, Priority: 0}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid priority, got %v", err)
	}
	updated, err := uc.SetPriority(ctx, dto.SetPriorityInput{ID: added.ID, Priority: 1})
	if err != nil || updated.Priority != 1 {
		t.Fatalf("set priority: %+v %v", updated, err)
	}

	deadline := start.Add(time.Hour)
	withDeadline, err := uc.SetDeadline(ctx, dto.SetTaskDeadlineInput{ID: added.ID, Deadline: &deadline})
	if err != nil || withDeadline.Deadline == nil || !withDeadline.Deadline.Equal(deadline) {
		t.Fatalf("set deadline: %+v %v", withDeadline, err)
	}
	cleared, err := uc.SetDeadline(ctx, dto.SetTaskDeadlineInput{ID: added.ID})
	if err != nil || cleared.Deadline != nil {
		t.Fatalf("clear deadline: %+v %v", cleared, err)
	}
}

func TestListSortOrders(t *testing.T) {
	clk, uc := newUsecase(t)
	ctx := context.Background()

	due := start.Add(time.Hour)
	low, _ := uc.Add(ctx, dto.AddTaskInput{Text: "tidy desk", Priority: 5, Deadline: &due})
	clk.Advance(time.Second)
	high, _ := uc.Add(ctx, dto.AddTaskInput{Text: "fix outage", Priority: 1})

	ids := func(sort string) []string {
		t.Helper()
		list, err := uc.List(ctx, dto.ListInput{Sort: sort})
		if err != nil {
			t.Fatalf("list %q: %v", sort, err)
		}
		out := make([]string, 0, len(list.Tasks))
		for _, task := range list.Tasks {
			out = append(out, task.ID)
		}
		return out
	}

	if got := ids(""); got[0] != low.ID || got[1] != high.ID {
		t.Fatalf("expected insertion order, got %v", got)
	}
	if got := ids("priority"); got[0] != high.ID {
		t.Fatalf("expected priority order, got %v", got)
	}
	if got := ids("deadline"); got[0] != low.ID {
		t.Fatalf("expected deadline order, got %v", got)
	}
	if _, err := uc.List(ctx, dto.ListInput{Sort: "alphabet"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
