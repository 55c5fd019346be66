package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrNotReady   = errors.New("no analysis report yet")
	ErrNotFound   = errors.New("frame not analysed")
)
