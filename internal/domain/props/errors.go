package props

import "errors"

// Sentinel error kinds for this package.
var (
	ErrDecode = errors.New("decode property objects")
)
