package apperrors

import "errors"

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("not found")
	ErrInvalidDeadline = errors.New("invalid deadline")
	ErrInvalidConfig   = errors.New("invalid config")
)
