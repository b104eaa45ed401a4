// Package httpapi holds the JSON plumbing shared by every module's HTTP
// adapter.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	apperrors "tasktracker/internal/platform/errors"
)

const maxBodyBytes = 1 << 16

type errorBody struct {
	Error string `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// WriteError maps sentinel error kinds onto HTTP status codes.
func WriteError(w http.ResponseWriter, err error) {
	WriteJSON(w, StatusFor(err), errorBody{Error: err.Error()})
}

func StatusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrInvalidDeadline),
		errors.Is(err, apperrors.ErrInvalidConfig),
		errors.Is(err, apperrors.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Decode reads a JSON body into dst. An empty body leaves dst untouched.
func Decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: malformed json body: %v", apperrors.ErrInvalidInput, err)
	}
	return nil
}
