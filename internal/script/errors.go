package script

import (
	"errors"
	"fmt"
)

// ErrNoComponent is returned when a script does not return a hook
// table.
var ErrNoComponent = errors.New("script did not return a component table")

// HandlerError reports a failed script hook. Owner carries the
// component instance id so interleaved logs stay attributable.
type HandlerError struct {
	Owner string
	Type  string
	Err   error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("script %s hook %s: %v", e.Owner, e.Type, e.Err)
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}
