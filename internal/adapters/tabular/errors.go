package tabular

import "errors"

var (
	// ErrBadHeader is returned when required columns are missing.
	ErrBadHeader = errors.New("bad header")
	// ErrBadRow is returned when a numeric field cannot be parsed.
	ErrBadRow = errors.New("bad row")
)
