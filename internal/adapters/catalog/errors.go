package catalog

import "errors"

// Sentinel kinds for catalog errors.
var (
	ErrSetNotFound = errors.New("ranking set not found")
)
