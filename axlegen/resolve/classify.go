// Package resolve classifies delegate operations by their asynchronous shape
// and picks the one canonical encoding of each logical capability.
package resolve

import "github.com/broady/axle/axlegen/model"

// Shape is the asynchronous shape of an operation.
type Shape int

const (
	Plain    Shape = iota // Synchronous, or no trailing handler
	Callback              // Trailing Handler of a plain event
	Future                // Trailing Handler of an AsyncResult
)

func (s Shape) String() string {
	switch s {
	case Plain:
		return "plain"
	case Callback:
		return "callback"
	case Future:
		return "future"
	default:
		return "unknown"
	}
}

// Classify inspects only the last parameter of op. It never fails and
// never looks at the operation name.
func Classify(op *model.Operation) Shape {
	last := op.Last()
	if last == nil || last.Type == nil || last.Type.Kind != model.KindHandler {
		return Plain
	}
	if last.Type.IsResultHandler() {
		return Future
	}
	return Callback
}
