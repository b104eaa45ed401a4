// Package client talks to a running tasktracker server over its JSON API.
// The countdown and the pomodoro cycle live in the serving process; the
// one-shot CLI commands reach them through this client.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"syscall"
	"time"

	countdowndto "tasktracker/internal/modules/countdown/dto"
	pomodorodto "tasktracker/internal/modules/pomodoro/dto"
	taskdto "tasktracker/internal/modules/task/dto"
	apperrors "tasktracker/internal/platform/errors"
)

const defaultTimeout = 5 * time.Second

// ErrServerUnavailable is returned when nothing listens on the address.
var ErrServerUnavailable = errors.New("tasktracker server is not running")

type Client struct {
	baseURL string
	http    *http.Client
}

// New accepts "host:port" or a full http(s) URL.
func New(addr string) *Client {
	base := strings.TrimRight(addr, "/")
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}
	return &Client{baseURL: base, http: &http.Client{Timeout: defaultTimeout}}
}

// ─── tasks ──────────────────────────────────────────────────────────────────

func (c *Client) AddTask(ctx context.Context, input taskdto.AddTaskInput) (taskdto.TaskOutput, error) {
	var out taskdto.TaskOutput
	err := c.do(ctx, http.MethodPost, "/api/tasks", input, &out)
	return out, err
}

func (c *Client) ListTasks(ctx context.Context, sort string) (taskdto.ListOutput, error) {
	path := "/api/tasks"
	if sort != "" {
		path += "?sort=" + url.QueryEscape(sort)
	}
	var out taskdto.ListOutput
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (c *Client) ToggleTask(ctx context.Context, id string) (taskdto.ToggleOutput, error) {
	var out taskdto.ToggleOutput
	err := c.do(ctx, http.MethodPost, "/api/tasks/"+url.PathEscape(id)+"/toggle", nil, &out)
	return out, err
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/tasks/"+url.PathEscape(id), nil, nil)
}

func (c *Client) SetTaskPriority(ctx context.Context, id string, priority int) (taskdto.TaskOutput, error) {
	var out taskdto.TaskOutput
	err := c.do(ctx, http.MethodPut, "/api/tasks/"+url.PathEscape(id)+"/priority",
		taskdto.SetPriorityInput{Priority: priority}, &out)
	return out, err
}

// SetTaskDeadline clears the deadline when deadline is nil.
func (c *Client) SetTaskDeadline(ctx context.Context, id string, deadline *time.Time) (taskdto.TaskOutput, error) {
	var out taskdto.TaskOutput
	err := c.do(ctx, http.MethodPut, "/api/tasks/"+url.PathEscape(id)+"/deadline",
		taskdto.SetTaskDeadlineInput{Deadline: deadline}, &out)
	return out, err
}

func (c *Client) TaskStats(ctx context.Context) (taskdto.StatsOutput, error) {
	var out taskdto.StatsOutput
	err := c.do(ctx, http.MethodGet, "/api/tasks/stats", nil, &out)
	return out, err
}

func (c *Client) TaskLog(ctx context.Context) ([]taskdto.LogEntryOutput, error) {
	var out []taskdto.LogEntryOutput
	err := c.do(ctx, http.MethodGet, "/api/tasks/log", nil, &out)
	return out, err
}

// ─── countdown ──────────────────────────────────────────────────────────────

func (c *Client) SetDeadline(ctx context.Context, value string) (countdowndto.DeadlineOutput, error) {
	var out countdowndto.DeadlineOutput
	err := c.do(ctx, http.MethodPost, "/api/deadline", countdowndto.SetDeadlineInput{Value: value}, &out)
	return out, err
}

func (c *Client) ResetDeadline(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/deadline", nil, nil)
}

func (c *Client) Status(ctx context.Context) (countdowndto.StatusOutput, error) {
	var out countdowndto.StatusOutput
	err := c.do(ctx, http.MethodGet, "/api/deadline", nil, &out)
	return out, err
}

func (c *Client) DeadlineOptions(ctx context.Context) ([]countdowndto.OptionOutput, error) {
	var out []countdowndto.OptionOutput
	err := c.do(ctx, http.MethodGet, "/api/deadline/options", nil, &out)
	return out, err
}

// ─── pomodoro ───────────────────────────────────────────────────────────────

func (c *Client) Pomodoro(ctx context.Context) (pomodorodto.SnapshotOutput, error) {
	var out pomodorodto.SnapshotOutput
	err := c.do(ctx, http.MethodGet, "/api/pomodoro", nil, &out)
	return out, err
}

func (c *Client) ConfigurePomodoro(ctx context.Context, workMinutes, restMinutes int) (pomodorodto.SnapshotOutput, error) {
	var out pomodorodto.SnapshotOutput
	err := c.do(ctx, http.MethodPost, "/api/pomodoro/config",
		pomodorodto.ConfigureInput{WorkMinutes: workMinutes, RestMinutes: restMinutes}, &out)
	return out, err
}

func (c *Client) StartPomodoro(ctx context.Context) (pomodorodto.SnapshotOutput, error) {
	return c.pomodoroAction(ctx, "start")
}

func (c *Client) PausePomodoro(ctx context.Context) (pomodorodto.SnapshotOutput, error) {
	return c.pomodoroAction(ctx, "pause")
}

func (c *Client) ResetPomodoro(ctx context.Context) (pomodorodto.SnapshotOutput, error) {
	return c.pomodoroAction(ctx, "reset")
}

func (c *Client) SetFocus(ctx context.Context, enabled bool) (pomodorodto.SnapshotOutput, error) {
	var out pomodorodto.SnapshotOutput
	err := c.do(ctx, http.MethodPost, "/api/pomodoro/focus", pomodorodto.FocusInput{Enabled: enabled}, &out)
	return out, err
}

func (c *Client) SwitchPhase(ctx context.Context, phase string) (pomodorodto.SnapshotOutput, error) {
	var out pomodorodto.SnapshotOutput
	err := c.do(ctx, http.MethodPost, "/api/pomodoro/switch", pomodorodto.SwitchInput{Phase: phase}, &out)
	return out, err
}

func (c *Client) PomodoroStats(ctx context.Context) (pomodorodto.StatisticsOutput, error) {
	var out pomodorodto.StatisticsOutput
	err := c.do(ctx, http.MethodGet, "/api/pomodoro/stats", nil, &out)
	return out, err
}

func (c *Client) PomodoroHistory(ctx context.Context, limit int) ([]pomodorodto.TransitionOutput, error) {
	path := "/api/pomodoro/history"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var out []pomodorodto.TransitionOutput
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (c *Client) pomodoroAction(ctx context.Context, action string) (pomodorodto.SnapshotOutput, error) {
	var out pomodorodto.SnapshotOutput
	err := c.do(ctx, http.MethodPost, "/api/pomodoro/"+action, nil, &out)
	return out, err
}

// ─── transport ──────────────────────────────────────────────────────────────

type errorBody struct {
	Error string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, syscall.ECONNREFUSED) {
			return fmt.Errorf("%w at %s (start it with `tasktracker serve`)", ErrServerUnavailable, c.baseURL)
		}
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// remoteError carries the server's message and unwraps to the sentinel
// matching its status.
type remoteError struct {
	kind error
	msg  string
}

func (e *remoteError) Error() string { return e.msg }

func (e *remoteError) Unwrap() error { return e.kind }

func decodeError(resp *http.Response) error {
	var body errorBody
	_ = json.NewDecoder(resp.Body).Decode(&body)
	msg := strings.TrimSpace(body.Error)
	if msg == "" {
		msg = resp.Status
	}
	var kind error
	switch resp.StatusCode {
	case http.StatusBadRequest:
		kind = apperrors.ErrInvalidInput
	case http.StatusNotFound:
		kind = apperrors.ErrNotFound
	}
	return &remoteError{kind: kind, msg: msg}
}
