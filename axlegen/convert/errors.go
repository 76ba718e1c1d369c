package convert

import (
	"fmt"

	"github.com/broady/axle/axlegen/model"
)

// Direction is the side of the delegate/wrapped boundary a value crosses to.
type Direction int

const (
	ToDelegate Direction = iota
	ToWrapped
)

// Reverse returns the opposite direction.
func (d Direction) Reverse() Direction {
	if d == ToDelegate {
		return ToWrapped
	}
	return ToDelegate
}

func (d Direction) String() string {
	if d == ToDelegate {
		return "to delegate"
	}
	return "to wrapped"
}

// UnsupportedConversion is returned when no rule converts a type in the
// requested direction. It aborts synthesis of the enclosing class.
type UnsupportedConversion struct {
	Type      *model.TypeRef
	Direction Direction
	Reason    string
}

func (e *UnsupportedConversion) Error() string {
	msg := fmt.Sprintf("unsupported conversion of %s %s", e.Type, e.Direction)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func unsupported(t *model.TypeRef, d Direction, reason string) error {
	return &UnsupportedConversion{Type: t, Direction: d, Reason: reason}
}
