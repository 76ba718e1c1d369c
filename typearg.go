package axle

import (
	"fmt"
	"reflect"
)

// TypeArg converts values of one generic slot of a wrapped type between
// their delegate form (carried as any) and their wrapped form T.
//
// Generated types hold one TypeArg per type parameter, fixed at
// construction. The zero value, also returned by Unknown, performs
// identity conversion in both directions.
type TypeArg[T any] struct {
	wrap   func(any) T
	unwrap func(T) any
}

// NewTypeArg returns a token from a pair of conversion functions.
func NewTypeArg[T any](wrap func(any) T, unwrap func(T) any) TypeArg[T] {
	return TypeArg[T]{wrap: wrap, unwrap: unwrap}
}

// Unknown returns the identity token, used when the concrete type argument
// cannot be determined.
func Unknown[T any]() TypeArg[T] {
	return TypeArg[T]{}
}

// APITypeArg returns a token for a wrapped API type W whose delegate type
// is D. Generated code declares one per translated class:
//
//	var ConnTypeArg = axle.APITypeArg(NewConn, (*Conn).Delegate)
func APITypeArg[D, W any](wrap func(D) W, unwrap func(W) D) TypeArg[W] {
	return TypeArg[W]{
		wrap: func(v any) W {
			d, _ := v.(D)
			return wrap(d)
		},
		unwrap: func(w W) any { return unwrap(w) },
	}
}

// IsUnknown reports whether t is the identity token.
func (t TypeArg[T]) IsUnknown() bool {
	return t.wrap == nil && t.unwrap == nil
}

// Wrap converts a delegate value to T. The identity token asserts that v
// already is a T and panics with a CodeTypeMismatch error otherwise; nil
// becomes the zero T.
func (t TypeArg[T]) Wrap(v any) T {
	if t.wrap != nil {
		return t.wrap(v)
	}
	if v == nil {
		var zero T
		return zero
	}
	w, ok := v.(T)
	if !ok {
		panic(Errorf(CodeTypeMismatch, "cannot use %T as %s", v, reflect.TypeFor[T]()))
	}
	return w
}

// Unwrap converts a wrapped value back to its delegate form.
func (t TypeArg[T]) Unwrap(v T) any {
	if t.unwrap != nil {
		return t.unwrap(v)
	}
	return v
}

// EraseTypeArg returns t as a token over any. Values that are not a T pass
// through Unwrap unchanged.
func EraseTypeArg[T any](t TypeArg[T]) TypeArg[any] {
	if t.IsUnknown() {
		return Unknown[any]()
	}
	return TypeArg[any]{
		wrap: func(v any) any { return t.Wrap(v) },
		unwrap: func(v any) any {
			if w, ok := v.(T); ok {
				return t.Unwrap(w)
			}
			return v
		},
	}
}

func (t TypeArg[T]) String() string {
	if t.IsUnknown() {
		return fmt.Sprintf("TypeArg[%s](unknown)", reflect.TypeFor[T]())
	}
	return fmt.Sprintf("TypeArg[%s]", reflect.TypeFor[T]())
}
