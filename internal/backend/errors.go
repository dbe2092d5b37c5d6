package backend

import (
	"errors"
	"fmt"
)

// ErrEmptyID is returned when the backend accepts a task but sends no identifier.
var ErrEmptyID = errors.New("backend returned an empty task id")

// ErrNoTask is returned when the backend answers a task read with null.
var ErrNoTask = errors.New("backend returned no task")

// Error describes a failed call to the task backend: a transport error,
// a non-2xx status or a body that could not be decoded.
type Error struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("backend %s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("backend %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status carried by err, or 0 when err is not
// a backend *Error or the call never got a response.
func StatusCode(err error) int {
	var be *Error
	if errors.As(err, &be) {
		return be.StatusCode
	}
	return 0
}
