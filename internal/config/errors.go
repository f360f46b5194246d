package config

import "errors"

// ErrInvalidConfig is wrapped by Validate; ErrLoadConfig by Load.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config")
)
