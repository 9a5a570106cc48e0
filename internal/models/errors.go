package models

import "errors"

// Conditions that end a monitor run without it being a failure.
var (
	ErrNoTargetClasses   = errors.New("no target class found in the model")
	ErrCameraUnavailable = errors.New("camera unavailable")
)
