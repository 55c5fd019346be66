package repository

import "errors"

// Sentinel kinds for frame store errors.
var (
	ErrDuplicateFrame = errors.New("duplicate frame number")
)
