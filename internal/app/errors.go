package app

import "errors"

// Sentinel kinds for service errors.
var (
	// ErrStalePair is returned when a judgment references a pair that is
	// not the entry under the user's cursor. Rejected before any
	// mutation.
	ErrStalePair = errors.New("pair is not the current comparison")
)
