package aggregate

import "errors"

// ErrInvalidBucket is returned when interval and rate give no samples per bucket.
var ErrInvalidBucket = errors.New("invalid bucket size")
