package core

import (
	"sync"

	"github.com/broady/axle"
)

// Box holds one value. Its methods are generic over the value type, and
// Of and Default are the untyped package-level forms.
type Box[T comparable] struct {
	mu     sync.Mutex
	value  T
	tally  map[T]int
	owners map[*Conn]string
}

func NewBox[T comparable](value T) *Box[T] {
	return &Box[T]{value: value, tally: map[T]int{value: 1}, owners: map[*Conn]string{}}
}

// Of boxes value without a static type.
func Of(value any) *Box[any] {
	return NewBox(value)
}

// Default returns the value an empty box would hold.
func Default() any {
	return "default"
}

func (b *Box[T]) Get() T {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.value
}

func (b *Box[T]) Set(value T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.value = value
	b.tally[value]++
}

// Load reports the current value immediately.
func (b *Box[T]) Load(handler func(axle.AsyncResult[T])) {
	handler(axle.Succeeded(b.Get()))
}

// Tally counts how often each value was stored.
func (b *Box[T]) Tally() map[T]int {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make(map[T]int, len(b.tally))
	for k, v := range b.tally {
		out[k] = v
	}
	return out
}

// Claim records c as an owner of the box.
func (b *Box[T]) Claim(c *Conn, role string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.owners[c] = role
}

func (b *Box[T]) Owners() map[*Conn]string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make(map[*Conn]string, len(b.owners))
	for k, v := range b.owners {
		out[k] = v
	}
	return out
}
