// Package core is a fake callback-style API. Callbacks are queued and only
// delivered by Flush, so callers can observe work that has not completed.
package core

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/broady/axle"
)

// ErrEmpty is reported by Send for an empty message.
var ErrEmpty = errors.New("empty message")

// Conn is the delegate connection.
type Conn struct {
	mu      sync.Mutex
	name    string
	queue   []func()
	sent    []string
	lookups atomic.Int32
}

func NewConn(name string) *Conn {
	return &Conn{name: name}
}

func (c *Conn) Name() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.name
}

func (c *Conn) SetName(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.name = name
}

// Peer returns a new connection on every call.
func (c *Conn) Peer() *Conn {
	c.lookups.Add(1)
	return NewConn(c.Name() + "-peer")
}

// PeerLookups reports how many times Peer ran.
func (c *Conn) PeerLookups() int {
	return int(c.lookups.Load())
}

// Send reports the number of bytes sent.
func (c *Conn) Send(msg string, handler func(axle.AsyncResult[int])) {
	c.enqueue(func() {
		if msg == "" {
			handler(axle.Failed[int](ErrEmpty))
			return
		}
		c.mu.Lock()
		c.sent = append(c.sent, msg)
		c.mu.Unlock()
		handler(axle.Succeeded(len(msg)))
	})
}

// Accept reports a new peer connection.
func (c *Conn) Accept(handler func(axle.AsyncResult[*Conn])) {
	c.enqueue(func() { handler(axle.Succeeded(NewConn(c.Name() + "-accepted"))) })
}

// Ping misbehaves: it reports success and then failure for one call.
func (c *Conn) Ping(handler func(axle.AsyncResult[string])) {
	c.enqueue(func() {
		handler(axle.Succeeded("pong"))
		handler(axle.Failed[string](errors.New("late failure")))
	})
}

func (c *Conn) Close(handler func(axle.AsyncResult[struct{}])) {
	c.enqueue(func() { handler(axle.Succeeded(struct{}{})) })
}

// Sent returns the delivered messages.
func (c *Conn) Sent() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.sent...)
}

// Flush delivers every queued callback and reports how many ran.
func (c *Conn) Flush() int {
	c.mu.Lock()
	q := c.queue
	c.queue = nil
	c.mu.Unlock()
	for _, fn := range q {
		fn()
	}
	return len(q)
}

func (c *Conn) enqueue(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queue = append(c.queue, fn)
}
