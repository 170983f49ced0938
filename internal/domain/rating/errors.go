package rating

import "errors"

// Sentinel kinds for rating errors.
var (
	ErrUnknownItem = errors.New("unknown item")
)
