package cache

import "errors"

// ErrNilLoader is returned when GetOrLoad is called without a loader.
var ErrNilLoader = errors.New("cache: nil loader")
