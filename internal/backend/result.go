package backend

// Result carries the outcome of one backend call: either a value or the
// error that prevented it. Handlers branch on it instead of propagating errors.
type Result[T any] struct {
	value T
	err   error
}

// Success wraps a value returned by the backend.
func Success[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Failure wraps the error of a failed backend call.
func Failure[T any](err error) Result[T] {
	return Result[T]{err: err}
}

// Get returns the value and true on success, or the zero value and false.
func (r Result[T]) Get() (T, bool) {
	return r.value, r.err == nil
}

// OK reports whether the call succeeded.
func (r Result[T]) OK() bool {
	return r.err == nil
}

// Err returns the failure cause, or nil on success.
func (r Result[T]) Err() error {
	return r.err
}
