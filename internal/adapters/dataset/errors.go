package dataset

import "errors"

// Sentinel kinds for dataset loading.
var (
	// ErrDataUnavailable means the dataset is missing or unreadable.
	ErrDataUnavailable = errors.New("dataset unavailable")
	// ErrUnknownSource means the configured source kind is not supported.
	ErrUnknownSource = errors.New("unknown dataset source")
	// ErrInvalidTable means the SQLite table name is not a plain identifier.
	ErrInvalidTable = errors.New("invalid table name")
)
