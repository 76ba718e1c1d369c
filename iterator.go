package axle

import "iter"

// Iterator is a pull-style cursor, the shape delegate APIs use for
// iterable types.
type Iterator[T any] interface {
	HasNext() bool
	Next() T
}

type mappingIterator[D, W any] struct {
	it Iterator[D]
	f  func(D) W
}

func (m *mappingIterator[D, W]) HasNext() bool { return m.it.HasNext() }
func (m *mappingIterator[D, W]) Next() W       { return m.f(m.it.Next()) }

// NewMappingIterator returns an iterator yielding the elements of it
// converted with f. Conversion happens lazily, one element per Next.
func NewMappingIterator[D, W any](it Iterator[D], f func(D) W) Iterator[W] {
	if it == nil {
		return nil
	}
	return &mappingIterator[D, W]{it: it, f: f}
}

type sliceIterator[T any] struct {
	s []T
	i int
}

func (s *sliceIterator[T]) HasNext() bool { return s.i < len(s.s) }

func (s *sliceIterator[T]) Next() T {
	v := s.s[s.i]
	s.i++
	return v
}

// SliceIterator returns an iterator over the elements of s.
func SliceIterator[T any](s []T) Iterator[T] {
	return &sliceIterator[T]{s: s}
}

// Seq adapts it to a range-over-func sequence.
func Seq[T any](it Iterator[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		if it == nil {
			return
		}
		for it.HasNext() {
			if !yield(it.Next()) {
				return
			}
		}
	}
}
