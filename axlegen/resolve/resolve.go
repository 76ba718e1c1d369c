package resolve

import (
	"fmt"
	"slices"

	"github.com/broady/axle/axlegen/model"
)

// Reason explains why an operation was dropped.
type Reason int

const (
	// SubsumedCallback marks a non-future operation replaced by a future
	// operation taking the same arguments plus a result handler.
	SubsumedCallback Reason = iota + 1

	// ConflictingFuture marks a future operation whose plain counterpart
	// must be kept instead.
	ConflictingFuture
)

func (r Reason) String() string {
	switch r {
	case SubsumedCallback:
		return "subsumed by future operation"
	case ConflictingFuture:
		return "conflicts with non-future operation"
	default:
		return "unknown"
	}
}

// Dropped records one operation removed during resolution.
type Dropped struct {
	Op     *model.Operation
	Reason Reason

	// By is the operation that caused the removal.
	By *model.Operation
}

func (d Dropped) String() string {
	return fmt.Sprintf("%s/%d: %s (%s/%d)", d.Op.Name, len(d.Op.Params), d.Reason, d.By.Name, len(d.By.Params))
}

// Result is the outcome of Resolve.
type Result struct {
	// Operations to synthesize, in their original relative order.
	Operations []*model.Operation

	// Dropped lists every removed operation in the order it was removed.
	Dropped []Dropped
}

// OverriddenBy reports whether f overrides c: both share a name, f takes
// exactly one more parameter than c, and c's parameter types match f's
// positionally. The extra trailing parameter is f's handler.
func OverriddenBy(c, f *model.Operation) bool {
	if c.Name != f.Name || len(f.Params) != len(c.Params)+1 {
		return false
	}
	for i, p := range c.Params {
		if !p.Type.Equal(f.Params[i].Type) {
			return false
		}
	}
	return true
}

// Resolve picks the operations of class to synthesize so that each logical
// capability appears once.
//
// The first pass removes every non-future operation overridden by some
// future operation of the class, whoever owns either of them.
//
// The second pass examines the remaining future operations against the
// original operations of the same name. A future owned by class is removed
// when it overrides a non-future operation that is inherited or that
// survived the first pass. An inherited future is removed when it
// overrides a non-future operation sharing one of its owners.
//
// Resolve is idempotent.
func Resolve(class *model.Class) Result {
	self := class.QualifiedName()
	ops := class.Operations

	byName := make(map[string][]*model.Operation)
	var futures []*model.Operation
	for _, op := range ops {
		byName[op.Name] = append(byName[op.Name], op)
		if Classify(op) == Future {
			futures = append(futures, op)
		}
	}

	var res Result
	working := make([]*model.Operation, 0, len(ops))
	for _, c := range ops {
		if Classify(c) != Future {
			if i := slices.IndexFunc(futures, func(f *model.Operation) bool { return OverriddenBy(c, f) }); i >= 0 {
				res.Dropped = append(res.Dropped, Dropped{Op: c, Reason: SubsumedCallback, By: futures[i]})
				continue
			}
		}
		working = append(working, c)
	}

	survived := func(op *model.Operation) bool { return slices.Contains(working, op) }

	for _, f := range working {
		if Classify(f) != Future {
			res.Operations = append(res.Operations, f)
			continue
		}
		owned := f.OwnedBy(self)
		var by *model.Operation
		for _, c := range byName[f.Name] {
			if Classify(c) == Future || !OverriddenBy(c, f) {
				continue
			}
			if owned && (!c.OwnedBy(self) || survived(c)) || !owned && c.SharesOwner(f) {
				by = c
				break
			}
		}
		if by != nil {
			res.Dropped = append(res.Dropped, Dropped{Op: f, Reason: ConflictingFuture, By: by})
			continue
		}
		res.Operations = append(res.Operations, f)
	}
	return res
}
