package feedback

import "errors"

// ErrInvalidEntry indicates a submission missing or malforming required fields.
var ErrInvalidEntry = errors.New("invalid feedback entry")
