package app

import "errors"

// ErrAlreadyRunning is returned by Run when the loop is already live.
var ErrAlreadyRunning = errors.New("app: already running")

// ErrUnknownFactory is returned for manifest factories that name
// neither a widget kind nor a script path.
var ErrUnknownFactory = errors.New("app: unknown component factory")

// InitError reports which bootstrap stage failed.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return "init " + e.Component + ": " + e.Err.Error()
}

func (e *InitError) Unwrap() error {
	return e.Err
}
