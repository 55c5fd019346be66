package transition

import "errors"

var (
	// ErrFrameNotFound is returned when a window target is not in the stream.
	ErrFrameNotFound = errors.New("frame not found")
	// ErrInvalidWindow is returned for non-positive window sizes.
	ErrInvalidWindow = errors.New("invalid window size")
)
