package config

import "errors"

// Sentinel errors wrapped around every failure this package returns, so
// callers can branch with errors.Is.
var (
	// ErrInvalidConfig marks a configuration that loaded but failed
	// validation.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrLoadConfig marks a failure reading or decoding configuration
	// sources.
	ErrLoadConfig = errors.New("load config failed")
)
