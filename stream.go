package axle

import (
	"context"
	"fmt"
	"iter"
	"sync"
)

// ReadStream is the push-based stream shape of delegate APIs. Handlers are
// registered fluently; delivery starts on Resume and is held by Pause.
type ReadStream[T any] interface {
	Handler(h Handler[T]) ReadStream[T]
	ExceptionHandler(h Handler[error]) ReadStream[T]
	EndHandler(h func()) ReadStream[T]
	Pause() ReadStream[T]
	Resume() ReadStream[T]
}

// SeqStream is a ReadStream fed by an iter.Seq. The sequence runs on its
// own goroutine, started by the first Resume. Pausing holds delivery of
// the next element; it does not stop the sequence from producing it.
// Cancel stops the sequence for good.
type SeqStream[T any] struct {
	seq iter.Seq[T]

	mu       sync.Mutex
	cond     *sync.Cond
	paused   bool
	started  bool
	canceled bool
	handler Handler[T]
	onError Handler[error]
	onEnd   func()
}

// AsReadStream adapts seq to a ReadStream whose elements are converted
// with conv. The stream is paused until Resume is called:
//
//	conn.Publish(axle.AsReadStream(seq, (*Buffer).Delegate).Resume())
func AsReadStream[W, D any](seq iter.Seq[W], conv func(W) D) *SeqStream[D] {
	mapped := func(yield func(D) bool) {
		if seq == nil {
			return
		}
		for w := range seq {
			if !yield(conv(w)) {
				return
			}
		}
	}
	s := &SeqStream[D]{seq: mapped, paused: true}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Handler sets the element handler.
func (s *SeqStream[T]) Handler(h Handler[T]) ReadStream[T] {
	s.mu.Lock()
	s.handler = h
	s.mu.Unlock()
	return s
}

// ExceptionHandler sets the handler receiving a failure of the sequence.
func (s *SeqStream[T]) ExceptionHandler(h Handler[error]) ReadStream[T] {
	s.mu.Lock()
	s.onError = h
	s.mu.Unlock()
	return s
}

// EndHandler sets the handler called once the sequence is exhausted.
func (s *SeqStream[T]) EndHandler(h func()) ReadStream[T] {
	s.mu.Lock()
	s.onEnd = h
	s.mu.Unlock()
	return s
}

// Pause holds delivery until the next Resume.
func (s *SeqStream[T]) Pause() ReadStream[T] {
	s.mu.Lock()
	s.paused = true
	s.mu.Unlock()
	return s
}

// Resume starts or continues delivery. It has no effect once the stream
// is canceled.
func (s *SeqStream[T]) Resume() ReadStream[T] {
	s.mu.Lock()
	s.paused = false
	start := !s.started && !s.canceled
	s.started = true
	s.cond.Broadcast()
	s.mu.Unlock()
	if start {
		go s.run()
	}
	return s
}

// Cancel ends the stream without calling the end or exception handler.
// The sequence is stopped before its next element is delivered.
func (s *SeqStream[T]) Cancel() {
	s.mu.Lock()
	s.canceled = true
	s.cond.Broadcast()
	s.mu.Unlock()
}

// await blocks while the stream is paused and returns the current
// element handler. It reports false once the stream is canceled.
func (s *SeqStream[T]) await() (Handler[T], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.paused && !s.canceled {
		s.cond.Wait()
	}
	return s.handler, !s.canceled
}

func (s *SeqStream[T]) run() {
	var failure error
	defer func() {
		if r := recover(); r != nil {
			failure = Errorf(CodeStreamFailure, "source sequence panicked: %w", panicError(r))
		}
		s.finish(failure)
	}()
	for v := range s.seq {
		h, ok := s.await()
		if !ok {
			return
		}
		if h == nil {
			continue
		}
		if err := deliver(h, v); err != nil {
			failure = Errorf(CodeHandlerFailure, "element handler panicked: %w", err)
			return
		}
	}
}

// finish reports the outcome of run, unless the stream was canceled.
func (s *SeqStream[T]) finish(failure error) {
	s.mu.Lock()
	canceled, onErr, onEnd := s.canceled, s.onError, s.onEnd
	s.mu.Unlock()
	switch {
	case canceled:
	case failure != nil:
		if onErr != nil {
			onErr(failure)
		}
	case onEnd != nil:
		onEnd()
	}
}

func deliver[T any](h Handler[T], v T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError(r)
		}
	}()
	h(v)
	return nil
}

func panicError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("%v", r)
}

// release stops s once its consumer is gone. Streams that cannot be
// canceled are only paused, and keep whatever they hold until resumed.
func release[T any](s ReadStream[T]) {
	if c, ok := s.(interface{ Cancel() }); ok {
		c.Cancel()
		return
	}
	s.Pause()
}

// Subscribe pulls the elements of s as a sequence, converting each with
// conv. A failure reported through the stream's exception handler is
// yielded as an error and ends the sequence, as does ctx being done.
// Breaking out of the loop cancels s, or pauses it if s has no Cancel
// method.
func Subscribe[D, W any](ctx context.Context, s ReadStream[D], conv func(D) W) iter.Seq2[W, error] {
	return func(yield func(W, error) bool) {
		var zero W
		if s == nil {
			return
		}
		items := make(chan D)
		errs := make(chan error)
		end := make(chan struct{})
		stop := make(chan struct{})
		defer close(stop)
		var endOnce sync.Once

		s.Handler(func(v D) {
			select {
			case items <- v:
			case <-stop:
			}
		})
		s.ExceptionHandler(func(err error) {
			select {
			case errs <- err:
			case <-stop:
			}
		})
		s.EndHandler(func() { endOnce.Do(func() { close(end) }) })
		s.Resume()

		for {
			select {
			case v := <-items:
				if !yield(conv(v), nil) {
					release(s)
					return
				}
			case err := <-errs:
				yield(zero, err)
				return
			case <-end:
				return
			case <-ctx.Done():
				release(s)
				yield(zero, ctx.Err())
				return
			}
		}
	}
}
