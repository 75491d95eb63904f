package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound     = errors.New("receipt not found")
	ErrIDGeneration = errors.New("failed to generate receipt id")
	ErrClosed       = errors.New("store closed")
)
