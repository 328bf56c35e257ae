package services

import "errors"

// Sentinel errors returned across repository boundaries. Callers branch with
// errors.Is instead of matching message text.
var (
	// ErrNotFound marks a point lookup that missed. Callers may treat it as
	// "skip this id" rather than a failure.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput marks a request rejected before any store call.
	ErrInvalidInput = errors.New("invalid input")
)
