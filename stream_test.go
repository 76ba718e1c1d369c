package axle

import (
	"context"
	"errors"
	"iter"
	"slices"
	"strconv"
	"testing"
	"time"
)

func counting(n int) iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := 1; i <= n; i++ {
			if !yield(i) {
				return
			}
		}
	}
}

func TestAsReadStream_Delivery(t *testing.T) {
	var got []string
	done := make(chan struct{})

	s := AsReadStream(counting(3), strconv.Itoa)
	s.Handler(func(v string) { got = append(got, v) }).
		EndHandler(func() { close(done) }).
		Resume()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("stream did not end")
	}
	if !slices.Equal(got, []string{"1", "2", "3"}) {
		t.Errorf("delivered %v", got)
	}
}

func TestAsReadStream_StartsOnResume(t *testing.T) {
	delivered := make(chan int, 10)
	s := AsReadStream(counting(2), Identity[int])
	s.Handler(func(v int) { delivered <- v })

	select {
	case v := <-delivered:
		t.Fatalf("delivered %d before Resume", v)
	case <-time.After(20 * time.Millisecond):
	}

	s.Resume()
	for want := 1; want <= 2; want++ {
		select {
		case v := <-delivered:
			if v != want {
				t.Errorf("got %d, want %d", v, want)
			}
		case <-time.After(time.Second):
			t.Fatalf("element %d not delivered", want)
		}
	}
}

func TestAsReadStream_PauseHoldsDelivery(t *testing.T) {
	delivered := make(chan int, 10)
	var s *SeqStream[int]
	s = AsReadStream(counting(3), Identity[int])
	s.Handler(func(v int) {
		if v == 1 {
			s.Pause()
		}
		delivered <- v
	})
	s.Resume()

	if v := <-delivered; v != 1 {
		t.Fatalf("first element = %d", v)
	}
	select {
	case v := <-delivered:
		t.Fatalf("delivered %d while paused", v)
	case <-time.After(20 * time.Millisecond):
	}

	s.Resume()
	for want := 2; want <= 3; want++ {
		if v := <-delivered; v != want {
			t.Errorf("got %d, want %d", v, want)
		}
	}
}

func TestAsReadStream_Panic(t *testing.T) {
	seq := func(yield func(int) bool) {
		yield(1)
		panic("source broke")
	}
	errs := make(chan error, 1)
	ended := false
	s := AsReadStream(seq, Identity[int])
	s.Handler(func(int) {}).
		ExceptionHandler(func(err error) { errs <- err }).
		EndHandler(func() { ended = true }).
		Resume()

	select {
	case err := <-errs:
		if Code(err) != CodeStreamFailure {
			t.Errorf("expected %s, got %v", CodeStreamFailure, err)
		}
	case <-time.After(time.Second):
		t.Fatal("exception handler not called")
	}
	if ended {
		t.Error("end handler must not run after a failure")
	}
}

func TestAsReadStream_NilSeq(t *testing.T) {
	done := make(chan struct{})
	AsReadStream[int](nil, strconv.Itoa).
		EndHandler(func() { close(done) }).
		Resume()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("nil sequence should end immediately")
	}
}

func TestSubscribe(t *testing.T) {
	s := AsReadStream(counting(4), Identity[int])

	var got []string
	for v, err := range Subscribe(context.Background(), s, strconv.Itoa) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got = append(got, v)
	}
	if !slices.Equal(got, []string{"1", "2", "3", "4"}) {
		t.Errorf("subscribed %v", got)
	}
}

func TestSubscribe_Break(t *testing.T) {
	s := AsReadStream(counting(100), Identity[int])

	var got []int
	for v, err := range Subscribe(context.Background(), s, Identity[int]) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got = append(got, v)
		if v == 2 {
			break
		}
	}
	if !slices.Equal(got, []int{1, 2}) {
		t.Errorf("subscribed %v", got)
	}
}

func TestSubscribe_Error(t *testing.T) {
	seq := func(yield func(int) bool) {
		yield(1)
		panic(errors.New("disk gone"))
	}
	s := AsReadStream(seq, Identity[int])

	var items int
	var last error
	for _, err := range Subscribe(context.Background(), s, Identity[int]) {
		if err != nil {
			last = err
			continue
		}
		items++
	}
	if items != 1 {
		t.Errorf("expected 1 item before the failure, got %d", items)
	}
	if Code(last) != CodeStreamFailure {
		t.Errorf("expected stream failure, got %v", last)
	}
}

func TestSubscribe_ContextDone(t *testing.T) {
	block := make(chan struct{})
	t.Cleanup(func() { close(block) })
	seq := func(yield func(int) bool) {
		if !yield(1) {
			return
		}
		<-block
	}
	s := AsReadStream(seq, Identity[int])
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var got []int
	var last error
	for v, err := range Subscribe(ctx, s, Identity[int]) {
		if err != nil {
			last = err
			break
		}
		got = append(got, v)
		cancel()
	}
	if !slices.Equal(got, []int{1}) {
		t.Errorf("subscribed %v", got)
	}
	if !errors.Is(last, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", last)
	}
}

func TestSubscribe_Nil(t *testing.T) {
	for range Subscribe[int](context.Background(), nil, Identity[int]) {
		t.Fatal("nil stream should yield nothing")
	}
}

func TestAsReadStream_HandlerPanic(t *testing.T) {
	errs := make(chan error, 1)
	s := AsReadStream(counting(3), Identity[int])
	s.Handler(func(v int) {
		if v == 2 {
			panic("handler broke")
		}
	}).
		ExceptionHandler(func(err error) { errs <- err }).
		Resume()

	select {
	case err := <-errs:
		if Code(err) != CodeHandlerFailure {
			t.Errorf("expected %s, got %v", CodeHandlerFailure, err)
		}
	case <-time.After(time.Second):
		t.Fatal("exception handler not called")
	}
}

func TestAsReadStream_Cancel(t *testing.T) {
	exited := make(chan struct{})
	seq := func(yield func(int) bool) {
		defer close(exited)
		for i := 0; yield(i); i++ {
		}
	}
	ended := make(chan struct{}, 1)
	s := AsReadStream(seq, Identity[int])
	s.Handler(func(int) {}).EndHandler(func() { ended <- struct{}{} })
	s.Pause()
	s.Resume()
	s.Pause()
	s.Cancel()

	select {
	case <-exited:
	case <-time.After(time.Second):
		t.Fatal("canceled stream left its sequence running")
	}
	select {
	case <-ended:
		t.Error("end handler must not run after Cancel")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestSubscribe_BreakStopsSource(t *testing.T) {
	exited := make(chan struct{})
	seq := func(yield func(int) bool) {
		defer close(exited)
		for i := 1; yield(i); i++ {
		}
	}
	s := AsReadStream(seq, Identity[int])
	for v, err := range Subscribe(context.Background(), s, Identity[int]) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v == 2 {
			break
		}
	}

	select {
	case <-exited:
	case <-time.After(time.Second):
		t.Fatal("source sequence still running after the consumer stopped")
	}
}
