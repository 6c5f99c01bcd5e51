package config

import "errors"

// Sentinel errors for configuration validation.
// These allow callers to use errors.Is() for error classification.
var (
	// ErrInvalidValue indicates a config value failed validation.
	ErrInvalidValue = errors.New("invalid configuration value")

	// ErrInvalidKey indicates a config key is empty or contains
	// characters the key=value format cannot carry.
	ErrInvalidKey = errors.New("invalid configuration key")

	// ErrInvalidSyntax indicates a config file line is not key=value.
	ErrInvalidSyntax = errors.New("invalid configuration syntax")

	// ErrNotDirectory indicates the output path exists but is a file.
	ErrNotDirectory = errors.New("path is not a directory")

	// ErrNotWritable indicates the output directory cannot be written.
	ErrNotWritable = errors.New("directory is not writable")
)
