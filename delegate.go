package axle

import (
	"hash/maphash"
	"reflect"
)

// Delegator is implemented by every wrapped struct type.
type Delegator[D any] interface {
	Delegate() D
}

// Wrapper is implemented by every wrapped type, structs and interfaces
// alike. A wrapped struct may implement several wrapped interfaces, so
// the untyped accessor is the one they share.
type Wrapper interface {
	DelegateValue() any
}

// DelegateOf returns the delegate of w as a D, or the zero D when w is nil
// or wraps something else. Generated code uses it for wrapped interface
// values, which cannot be dereferenced safely when nil.
func DelegateOf[D any](w Wrapper) D {
	var zero D
	if w == nil {
		return zero
	}
	if v := reflect.ValueOf(w); v.Kind() == reflect.Pointer && v.IsNil() {
		return zero
	}
	d, ok := w.DelegateValue().(D)
	if !ok {
		return zero
	}
	return d
}

// SameDelegate reports whether o is a wrapped value around the same
// delegate as w.
func SameDelegate(w Wrapper, o any) bool {
	that, ok := o.(Wrapper)
	if !ok || w == nil || that == nil {
		return false
	}
	a, b := w.DelegateValue(), that.DelegateValue()
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if !ta.Comparable() {
		ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
		switch ra.Kind() {
		case reflect.Slice, reflect.Map, reflect.Func:
			return ra.Pointer() == rb.Pointer()
		}
		return false
	}
	return a == b
}

var identitySeed = maphash.MakeSeed()

// IdentityHash hashes the identity of a delegate value. Equal delegates
// hash equally within one process.
func IdentityHash(v any) uint64 {
	if v == nil {
		return 0
	}
	if !reflect.TypeOf(v).Comparable() {
		// Uncomparable values only equal themselves by address
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Map || rv.Kind() == reflect.Func {
			return maphash.Comparable(identitySeed, rv.Pointer())
		}
		return 0
	}
	return maphash.Comparable(identitySeed, v)
}
