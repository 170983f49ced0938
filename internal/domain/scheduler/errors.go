package scheduler

import "errors"

// Sentinel kinds for scheduler errors.
var (
	ErrInsufficientItems = errors.New("fewer than 2 items in ranking set")
	ErrUnknownStrategy   = errors.New("unknown strategy")
)
