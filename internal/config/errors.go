package config

import "errors"

// Sentinel error kinds for this package. Callers match them with errors.Is.
var (
	// ErrInvalidConfig wraps every Validate failure.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrLoadConfig wraps file, env and unmarshal failures in Load.
	ErrLoadConfig = errors.New("load config failed")
)
