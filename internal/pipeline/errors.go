package pipeline

import (
	"errors"
	"net/http"
)

// Domain errors for pipeline submission.
var (
	ErrDisabled     = errors.New("pipeline submission is not configured")
	ErrEmptyMessage = errors.New("mime_raw or mime_b64 is required")
	ErrUpstream     = errors.New("pipeline upstream error")
)

// MapHTTPStatus maps pipeline errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrDisabled):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrEmptyMessage):
		return http.StatusBadRequest
	case errors.Is(err, ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
