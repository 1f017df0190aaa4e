package service

import "errors"

// Sentinel kinds returned by the forecast operations. Only
// ErrDataUnavailable reflects a runtime failure; the rest reject input.
var (
	ErrDataUnavailable = errors.New("historical data unavailable")
	ErrInvalidLimit    = errors.New("invalid limit")
	ErrInvalidStrategy = errors.New("invalid strategy")
	ErrInvalidYear     = errors.New("invalid year")
)
