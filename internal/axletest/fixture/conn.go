// Package fixture holds a wrapper written by hand in the shape axlegen
// emits for a concrete class, over the fake delegate in package core.
package fixture

import (
	"fmt"
	"reflect"

	"github.com/broady/axle"
	"github.com/broady/axle/internal/axletest/fixture/core"
)

// Conn wraps [core.Conn].
type Conn struct {
	delegate *core.Conn
	cached0  axle.Cache[*Conn]
}

var ConnTypeArg = axle.APITypeArg(NewConn, (*Conn).Delegate)

var ConnClass = axle.NewClass(reflect.TypeFor[*core.Conn](), ConnTypeArg)

func newConn(delegate *core.Conn) *Conn {
	return &Conn{delegate: delegate}
}

// NewConn wraps delegate. A nil delegate yields nil.
func NewConn(delegate *core.Conn) *Conn {
	if delegate == nil {
		return nil
	}
	return newConn(delegate)
}

func (c *Conn) Delegate() *core.Conn {
	return c.delegate
}

func (c *Conn) DelegateValue() any {
	return c.delegate
}

func (c *Conn) String() string {
	return fmt.Sprint(c.delegate)
}

func (c *Conn) Equal(o any) bool {
	return axle.SameDelegate(c, o)
}

func (c *Conn) HashCode() uint64 {
	return axle.IdentityHash(c.delegate)
}

func (c *Conn) Name() string {
	return c.delegate.Name()
}

func (c *Conn) SetName(name string) *Conn {
	c.delegate.SetName(name)
	return c
}

func (c *Conn) Peer() *Conn {
	return c.cached0.Get(func() *Conn { return NewConn(c.delegate.Peer()) })
}

func (c *Conn) Send(msg string) *axle.Future[int] {
	promise := axle.NewPromise[int]()
	c.send(msg, promise.Handle)
	return promise.Future()
}

func (c *Conn) send(msg string, handler func(axle.AsyncResult[int])) {
	c.delegate.Send(msg, handler)
}

func (c *Conn) Accept() *axle.Future[*Conn] {
	promise := axle.NewPromise[*Conn]()
	c.accept(promise.Handle)
	return promise.Future()
}

func (c *Conn) accept(handler func(axle.AsyncResult[*Conn])) {
	c.delegate.Accept(func(ar axle.AsyncResult[*core.Conn]) {
		if ar.Succeeded() {
			handler(axle.Succeeded[*Conn](NewConn(ar.Result())))
		} else {
			handler(axle.Failed[*Conn](ar.Cause()))
		}
	})
}

func (c *Conn) Ping() *axle.Future[string] {
	promise := axle.NewPromise[string]()
	c.ping(promise.Handle)
	return promise.Future()
}

func (c *Conn) ping(handler func(axle.AsyncResult[string])) {
	c.delegate.Ping(handler)
}

func (c *Conn) Close() *axle.Future[struct{}] {
	promise := axle.NewPromise[struct{}]()
	c.close(promise.Handle)
	return promise.Future()
}

func (c *Conn) close(handler func(axle.AsyncResult[struct{}])) {
	c.delegate.Close(handler)
}
