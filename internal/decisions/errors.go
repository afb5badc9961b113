package decisions

import (
	"errors"
	"net/http"
)

var (
	// ErrNotFound indicates no document exists at the requested location.
	ErrNotFound = errors.New("document not found")
	// ErrMalformed indicates a blob exists but does not decode as a JSON document.
	ErrMalformed = errors.New("malformed document")
)

// MapHTTPStatus translates document errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrMalformed):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
