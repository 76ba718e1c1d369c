package axle

import "reflect"

// Class is a type literal passed to operations that need to know a type at
// run time. It pairs the delegate's reflect.Type with the token converting
// values of that type.
type Class[T any] struct {
	typ reflect.Type
	arg TypeArg[T]
}

// ClassOf returns the literal for a type that is the same on both sides.
func ClassOf[T any]() Class[T] {
	return Class[T]{typ: reflect.TypeFor[T]()}
}

// NewClass returns the literal for a wrapped type whose delegate type is
// delegate. Generated code declares one per non-generic translated class.
func NewClass[T any](delegate reflect.Type, arg TypeArg[T]) Class[T] {
	return Class[T]{typ: delegate, arg: arg}
}

// Type returns the delegate type.
func (c Class[T]) Type() reflect.Type { return c.typ }

// Erase returns c as a literal over any, the form taken by operations with
// their own type parameters.
func (c Class[T]) Erase() Class[any] {
	return Class[any]{typ: c.typ, arg: EraseTypeArg(c.arg)}
}

// UnwrapClass returns the delegate reflect.Type of c.
func UnwrapClass[T any](c Class[T]) reflect.Type {
	return c.typ
}

// TypeArgOf returns the token carried by c, erased to any.
func TypeArgOf[T any](c Class[T]) TypeArg[any] {
	return EraseTypeArg(c.arg)
}
