package axle

import (
	"context"
	"sync"
)

// Future is a read-only handle to a value that becomes available later.
// A Future resolves exactly once, either with a value or with a cause.
// It is safe for concurrent use.
//
// Example:
//
//	f := conn.Send(msg)         // returns immediately
//	reply, err := f.Await(ctx)  // blocks until resolved or ctx is done
type Future[T any] struct {
	done chan struct{}

	mu        sync.Mutex
	result    AsyncResult[T]
	resolved  bool
	callbacks []func(AsyncResult[T])
}

// Promise is the write side of a Future.
type Promise[T any] struct {
	f *Future[T]
}

// NewPromise returns a promise whose future is pending.
func NewPromise[T any]() *Promise[T] {
	return &Promise[T]{f: &Future[T]{done: make(chan struct{})}}
}

// Future returns the handle resolved by p.
func (p *Promise[T]) Future() *Future[T] { return p.f }

// Complete resolves the future with v. It reports whether this call
// resolved the future; later calls have no effect.
func (p *Promise[T]) Complete(v T) bool {
	return p.f.resolve(Succeeded(v))
}

// Fail resolves the future with err. It reports whether this call
// resolved the future; later calls have no effect.
func (p *Promise[T]) Fail(err error) bool {
	return p.f.resolve(Failed[T](err))
}

// Handle resolves the future with ar. Its signature matches the result
// handlers taken by callback-style operations, so p.Handle can be passed
// directly as one.
func (p *Promise[T]) Handle(ar AsyncResult[T]) {
	p.f.resolve(ar)
}

func (f *Future[T]) resolve(ar AsyncResult[T]) bool {
	f.mu.Lock()
	if f.resolved {
		f.mu.Unlock()
		return false
	}
	f.result = ar
	f.resolved = true
	callbacks := f.callbacks
	f.callbacks = nil
	close(f.done)
	f.mu.Unlock()

	// Run callbacks outside the lock so they may use the future
	for _, cb := range callbacks {
		cb(ar)
	}
	return true
}

// Done returns a channel that is closed once the future is resolved.
func (f *Future[T]) Done() <-chan struct{} { return f.done }

// IsComplete reports whether the future is resolved.
func (f *Future[T]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Result returns the outcome without blocking. ok is false while the
// future is pending.
func (f *Future[T]) Result() (ar AsyncResult[T], ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result, f.resolved
}

// Await blocks until the future resolves or ctx is done. Canceling ctx
// abandons the wait only; the underlying operation keeps running.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.result.Get()
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// OnComplete registers fn to run once the future resolves. If it already
// has, fn runs immediately on the calling goroutine; otherwise it runs on
// the goroutine that resolves the future.
func (f *Future[T]) OnComplete(fn func(AsyncResult[T])) {
	f.mu.Lock()
	if !f.resolved {
		f.callbacks = append(f.callbacks, fn)
		f.mu.Unlock()
		return
	}
	ar := f.result
	f.mu.Unlock()
	fn(ar)
}

// Completed returns a future already resolved with v.
func Completed[T any](v T) *Future[T] {
	p := NewPromise[T]()
	p.Complete(v)
	return p.Future()
}

// FailedFuture returns a future already resolved with err.
func FailedFuture[T any](err error) *Future[T] {
	p := NewPromise[T]()
	p.Fail(err)
	return p.Future()
}

// Then returns a future resolved with fn applied to f's value. A failure
// of f, or an error returned by fn, fails the returned future.
func Then[T, U any](f *Future[T], fn func(T) (U, error)) *Future[U] {
	p := NewPromise[U]()
	f.OnComplete(func(ar AsyncResult[T]) {
		if ar.Failed() {
			p.Fail(ar.Cause())
			return
		}
		u, err := fn(ar.Result())
		if err != nil {
			p.Fail(err)
			return
		}
		p.Complete(u)
	})
	return p.Future()
}

// Map is like Then for conversions that cannot fail.
func Map[T, U any](f *Future[T], fn func(T) U) *Future[U] {
	return Then(f, func(v T) (U, error) { return fn(v), nil })
}

// Compose chains an asynchronous step: the returned future resolves with
// the outcome of the future fn returns.
func Compose[T, U any](f *Future[T], fn func(T) *Future[U]) *Future[U] {
	p := NewPromise[U]()
	f.OnComplete(func(ar AsyncResult[T]) {
		if ar.Failed() {
			p.Fail(ar.Cause())
			return
		}
		fn(ar.Result()).OnComplete(p.Handle)
	})
	return p.Future()
}
