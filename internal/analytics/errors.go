package analytics

import (
	"errors"
	"net/http"
)

// Domain errors for analytics operations.
var (
	ErrMissingAddress = errors.New("address parameter is required")
	ErrInvalidRange   = errors.New("invalid date range")
)

// MapHTTPStatus maps analytics domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrMissingAddress) || errors.Is(err, ErrInvalidRange) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
