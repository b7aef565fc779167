package config

import "errors"

// Configuration validation errors.
// These are returned by Config.Validate() so callers can use errors.Is.
var (
	// ErrNoURL is returned when no seed URL is given on the command line
	// or in the configuration file.
	ErrNoURL = errors.New("no base url(s) given")

	// ErrEmptyTarget is returned when the target directory is empty.
	ErrEmptyTarget = errors.New("invalid target: directory must not be empty")

	// ErrInvalidSaveFrequency is returned when the save frequency is negative.
	// Use 0 to disable periodic snapshots.
	ErrInvalidSaveFrequency = errors.New("invalid save frequency: must be non-negative")

	// ErrInvalidTimeout is returned when the request timeout is negative.
	ErrInvalidTimeout = errors.New("invalid timeout: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidLogLevel is returned for an unknown log level name.
	ErrInvalidLogLevel = errors.New("invalid log level: use DEBUG, INFO, WARNING, ERROR or CRITICAL")
)
