package ranking

import "errors"

// ErrInvalidLimit is returned for a non-positive top-N limit.
var ErrInvalidLimit = errors.New("invalid ranking limit")
