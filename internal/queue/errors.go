package queue

import (
	"errors"
	"net/http"
)

// Domain errors for queue operations.
var (
	ErrNotFound       = errors.New("queue item not found")
	ErrDuplicate      = errors.New("queue item already exists")
	ErrInvalidVerdict = errors.New("verdict must be allow or block")
	ErrMissingNotes   = errors.New("notes field is required")
	ErrMissingKey     = errors.New("key field is required")
	ErrInvalidRequest = errors.New("invalid request body")
)

// MapHTTPStatus maps queue domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidVerdict),
		errors.Is(err, ErrMissingNotes),
		errors.Is(err, ErrMissingKey),
		errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
