package httpapi_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "tasktracker/internal/platform/errors"
	"tasktracker/internal/platform/httpapi"
)

func TestStatusFor(t *testing.T) {
	t.Parallel()
	cases := map[error]int{
		fmt.Errorf("%w: nope", apperrors.ErrInvalidDeadline): http.StatusBadRequest,
		fmt.Errorf("%w: nope", apperrors.ErrInvalidConfig):   http.StatusBadRequest,
		apperrors.ErrInvalidInput:                            http.StatusBadRequest,
		fmt.Errorf("task x: %w", apperrors.ErrNotFound):      http.StatusNotFound,
		fmt.Errorf("disk on fire"):                           http.StatusInternalServerError,
	}
	for err, want := range cases {
		if got := httpapi.StatusFor(err); got != want {
			t.Fatalf("StatusFor(%v) = %d, want %d", err, got, want)
		}
	}
}

func TestWriteErrorBody(t *testing.T) {
	t.Parallel()
	rec := httptest.NewRecorder()
	httpapi.WriteError(rec, fmt.Errorf("%w: empty selection", apperrors.ErrInvalidDeadline))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"error":"invalid deadline: empty selection"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestDecode(t *testing.T) {
	t.Parallel()
	var dst struct {
		Value string `json:"value"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"value":"+5 min"}`))
	if err := httpapi.Decode(req, &dst); err != nil || dst.Value != "+5 min" {
		t.Fatalf("decode: %v %+v", err, dst)
	}
	empty := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	if err := httpapi.Decode(empty, &dst); err != nil {
		t.Fatalf("empty body should decode to nothing: %v", err)
	}
	bad := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"unknown":1}`))
	if err := httpapi.Decode(bad, &dst); err == nil {
		t.Fatalf("unknown fields should be rejected")
	}
}
