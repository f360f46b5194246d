package fonts

import "errors"

// Sentinel error kinds for this package.
var (
	ErrLoadFont = errors.New("load font")
)
