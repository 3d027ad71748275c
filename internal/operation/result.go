package operation

// NoError is the message returned by Tuple for a successful result.
const NoError = "no error"

// Result is the outcome of a single data access call, it carries either the
// response data or the error message.
type Result[T any] struct {
	Data    T
	Message string
	ok      bool
}

// Success returns a successful Result carrying data.
func Success[T any](data T) Result[T] {
	return Result[T]{Data: data, ok: true}
}

// Failure returns a failed Result carrying message.
func Failure[T any](message string) Result[T] {
	return Result[T]{Message: message}
}

// OK returns true for a successful result.
func (r Result[T]) OK() bool {
	return r.ok
}

// Tuple returns the result as (succeeded, data, message).
func (r Result[T]) Tuple() (succeeded bool, data T, message string) {
	if r.ok {
		return true, r.Data, NoError
	}

	return false, r.Data, r.Message
}
