package scheduler

import "errors"

var (
	// ErrInvalidConfig is returned when configuration is invalid
	ErrInvalidConfig = errors.New("invalid scheduler configuration")

	// ErrAlreadyRunning is returned when a pass is requested while one is in progress
	ErrAlreadyRunning = errors.New("alert evaluation already in progress")
)
