package config

import (
	"errors"
)

// Sentinel kinds returned (wrapped) by Load and Validate.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)
