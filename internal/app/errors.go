package service

import "errors"

var (
	// ErrNotStarted is returned when receipts are submitted before Start.
	ErrNotStarted = errors.New("service not started")
	// ErrUnknownBackend is returned by Start for an unsupported store backend.
	ErrUnknownBackend = errors.New("unknown store backend")
)
