package in_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	countdownin "tasktracker/internal/modules/countdown/adapter/in"
	"tasktracker/internal/modules/countdown/dto"
	"tasktracker/internal/modules/countdown/service"
	"tasktracker/internal/modules/countdown/usecase"
	"tasktracker/internal/platform/clock"
)

func newMux(clk clock.Clock) *http.ServeMux {
	mux := http.NewServeMux()
	uc := usecase.NewInteractor(service.NewClockService(clk, service.Settings{}), nil)
	countdownin.NewHTTPHandler(uc).Register(mux)
	return mux
}

func TestDeadlineRoutes(t *testing.T) {
	t.Parallel()
	clk := &clock.Fixed{T: time.Date(2026, 2, 25, 21, 10, 0, 0, time.UTC)}
	mux := newMux(clk)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/remaining", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"remaining_seconds":-1`) {
		t.Fatalf("expected unset remaining, got %d %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/deadline", strings.NewReader(`{"value":"11:00 PM"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("set deadline: %d %s", rec.Code, rec.Body.String())
	}
	var set dto.DeadlineOutput
	if err := json.Unmarshal(rec.Body.Bytes(), &set); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if set.Display != "11:00 PM" {
		t.Fatalf("unexpected display %q", set.Display)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/deadline", nil))
	var status dto.StatusOutput
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if status.RemainingSeconds != 110*60 || status.State != "running" {
		t.Fatalf("unexpected status %+v", status)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/deadline", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("reset: %d", rec.Code)
	}
}

func TestDeadlineRejectsUnknownSelection(t *testing.T) {
	t.Parallel()
	mux := newMux(&clock.Fixed{T: time.Date(2026, 2, 25, 9, 0, 0, 0, time.UTC)})
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/deadline", strings.NewReader(`{"value":"+17 min"}`)))
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "invalid deadline") {
		t.Fatalf("expected 400 invalid deadline, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestOptionsRoute(t *testing.T) {
	t.Parallel()
	mux := newMux(&clock.Fixed{T: time.Date(2026, 2, 25, 9, 0, 0, 0, time.UTC)})
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/deadline/options", nil))
	var opts []dto.OptionOutput
	if err := json.Unmarshal(rec.Body.Bytes(), &opts); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(opts) == 0 || opts[len(opts)-1].Kind != "clock" {
		t.Fatalf("unexpected options payload: %s", rec.Body.String())
	}
}
