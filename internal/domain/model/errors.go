package model

import "errors"

// Sentinel kinds for domain value parsing.
var (
	ErrUnknownOutcome = errors.New("unknown outcome")
)
