package repository

import "errors"

// Sentinel kinds for visual instance store errors.
var (
	ErrNotFound = errors.New("visual instance not found")
	ErrCapacity = errors.New("visual instance capacity reached")
	ErrExists   = errors.New("visual instance already exists")
)
