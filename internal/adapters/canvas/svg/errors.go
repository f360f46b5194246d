package svg

import "errors"

// Sentinel error kinds for this package.
var (
	ErrWrite = errors.New("svg write failed")
)
