package raster

import "errors"

// Sentinel error kinds for this package.
var (
	ErrDraw   = errors.New("raster draw failed")
	ErrEncode = errors.New("raster encode failed")
)
