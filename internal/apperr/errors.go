package apperr

import "errors"

// Error taxonomy: validation failures come back to the caller as a
// user-facing message, network/store failures on list reads are logged
// and collapsed to an empty result.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrUnavailable  = errors.New("service unavailable")
)
