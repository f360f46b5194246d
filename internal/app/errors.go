package service

import (
	"errors"

	"github.com/okian/kpidonut/internal/adapters/repository"
)

// Sentinel kinds for harness errors.
var (
	ErrNotStarted        = errors.New("service not started")
	ErrInvalidViewport   = errors.New("invalid viewport")
	ErrUnsupportedFormat = errors.New("unsupported frame format")
	ErrNoCanvas          = errors.New("frame has no canvas")
	ErrExport            = errors.New("frame export failed")

	ErrNotFound = repository.ErrNotFound
	ErrCapacity = repository.ErrCapacity
)
