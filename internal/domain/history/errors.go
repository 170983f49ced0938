package history

import "errors"

// Sentinel kinds for history errors.
var (
	ErrNoCurrentPair = errors.New("no pair has been presented")
)
