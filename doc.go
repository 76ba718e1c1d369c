// Package axle is the runtime imported by code that axlegen generates.
//
// Generated wrapper types hold a delegate from a callback-style API and
// expose its asynchronous operations as methods returning [*Future]:
//
//	conn := asyncnet.NewConn(raw)
//	n, err := conn.Write(buf).Await(ctx)
//
// The package also carries the pieces generated bodies are built from:
// [TypeArg] tokens for generic slots, [Class] literals, [Cache] for
// memoized operations, collection mappers and the [ReadStream] bridge.
package axle
