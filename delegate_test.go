package axle

import "testing"

type bufferLike interface {
	Wrapper
	Delegate() *rawBuffer
}

type otherWrapper struct{ v any }

func (o otherWrapper) DelegateValue() any { return o.v }

func TestDelegateOf(t *testing.T) {
	d := &rawBuffer{}
	if got := DelegateOf[*rawBuffer](NewBuffer(d)); got != d {
		t.Errorf("DelegateOf = %v, want %v", got, d)
	}

	var iface bufferLike
	if got := DelegateOf[*rawBuffer](iface); got != nil {
		t.Errorf("nil interface should give nil, got %v", got)
	}

	var typedNil *Buffer
	iface = typedNil
	if got := DelegateOf[*rawBuffer](iface); got != nil {
		t.Errorf("typed nil should give nil, got %v", got)
	}

	if got := DelegateOf[*rawBuffer](otherWrapper{v: "text"}); got != nil {
		t.Errorf("foreign delegate should give nil, got %v", got)
	}
}

func TestSameDelegate(t *testing.T) {
	d := &rawBuffer{}
	a, b := NewBuffer(d), NewBuffer(d)

	if !SameDelegate(a, b) {
		t.Error("wrappers of one delegate should be the same")
	}
	if SameDelegate(a, NewBuffer(&rawBuffer{})) {
		t.Error("wrappers of distinct delegates should differ")
	}
	if SameDelegate(a, d) {
		t.Error("a bare delegate is not a wrapper")
	}
	if SameDelegate(a, nil) {
		t.Error("nil is not a wrapper")
	}

	s := []int{1}
	if !SameDelegate(otherWrapper{v: s}, otherWrapper{v: s}) {
		t.Error("slices should compare by address")
	}
	if SameDelegate(otherWrapper{v: []int{1}}, otherWrapper{v: []int{1}}) {
		t.Error("distinct slices should differ")
	}
}

func TestIdentityHash(t *testing.T) {
	a := &rawBuffer{data: "same"}
	b := &rawBuffer{data: "same"}

	if IdentityHash(a) != IdentityHash(a) {
		t.Error("hash should be stable")
	}
	if IdentityHash(a) == IdentityHash(b) {
		t.Error("distinct delegates should hash by identity")
	}
	if IdentityHash("x") != IdentityHash("x") {
		t.Error("equal values should hash equally")
	}
	if IdentityHash(nil) != 0 {
		t.Error("nil should hash to 0")
	}

	s := []int{1}
	if IdentityHash(s) != IdentityHash(s) {
		t.Error("slices should hash by address")
	}
}
