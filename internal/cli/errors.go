package cli

import "errors"

// Sentinel errors for command handling.
var (
	ErrUnknownFormat = errors.New("unknown output format")
	ErrInvalidFlag   = errors.New("invalid flag value")
)
