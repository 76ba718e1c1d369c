package axle

// Handler consumes one event.
type Handler[T any] func(T)

// AsyncResult is the outcome of an asynchronous operation: a value on
// success or a cause on failure.
//
// The zero value is a successful result carrying the zero T.
type AsyncResult[T any] struct {
	value  T
	cause  error
	failed bool
}

// Succeeded returns a successful result carrying v.
func Succeeded[T any](v T) AsyncResult[T] {
	return AsyncResult[T]{value: v}
}

// Failed returns a failed result. A nil err is replaced with a
// CodeNilCause error so that failures always carry a cause.
func Failed[T any](err error) AsyncResult[T] {
	if err == nil {
		err = NewError(CodeNilCause, "operation failed without a cause")
	}
	return AsyncResult[T]{cause: err, failed: true}
}

// Succeeded reports whether the operation succeeded.
func (r AsyncResult[T]) Succeeded() bool { return !r.failed }

// Failed reports whether the operation failed.
func (r AsyncResult[T]) Failed() bool { return r.failed }

// Result returns the value of a successful result, or the zero T.
func (r AsyncResult[T]) Result() T { return r.value }

// Cause returns the failure cause, or nil on success.
func (r AsyncResult[T]) Cause() error { return r.cause }

// Get returns the value and cause together.
func (r AsyncResult[T]) Get() (T, error) { return r.value, r.cause }

// MapResult converts the value of a successful result with f.
// Failures keep their cause.
func MapResult[D, W any](r AsyncResult[D], f func(D) W) AsyncResult[W] {
	if r.failed {
		return AsyncResult[W]{cause: r.cause, failed: true}
	}
	return AsyncResult[W]{value: f(r.value)}
}
