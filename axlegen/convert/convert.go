// Package convert generates the Go expressions that carry values across the
// boundary between a delegate API and its translated, wrapped form.
package convert

import (
	"fmt"
	"strings"

	"github.com/broady/axle/axlegen/model"
	"github.com/broady/axle/axlegen/naming"
)

// Converter produces conversion expressions for one operation body.
// It is not safe for concurrent use.
type Converter struct {
	Namer *naming.Namer

	// Receiver is the wrapped receiver expression. Empty in static
	// contexts, where class type parameters have no receiver token.
	Receiver string

	// StaticTypeParams is set when the class type parameters are type
	// parameters of the enclosing static function. They convert with the
	// unknown token.
	StaticTypeParams bool

	// Op is the operation being synthesized, nil for constants and
	// capability adapters. Its TypeArgs bindings resolve method-level
	// type variables.
	Op *model.Operation

	// Params holds the Go names of Op's parameters, by index.
	Params []string

	// Scope allocates adapter variable names. Names must not shadow the
	// parameters or receiver of the enclosing function.
	Scope *naming.Scope
}

// IsSameType reports whether values of t have the same representation on
// both sides, so no conversion is needed.
func (c *Converter) IsSameType(t *model.TypeRef) bool {
	if t == nil {
		return true
	}
	switch t.Kind {
	case model.KindBasic, model.KindJSON, model.KindDataObject, model.KindEnum,
		model.KindOther, model.KindThrowable, model.KindVoid, model.KindObject:
		return true
	case model.KindVariable:
		// A class parameter is any on the delegate side.
		if t.ClassParam {
			return false
		}
		_, ok := c.Token(t)
		return !ok
	case model.KindList, model.KindSet, model.KindAsyncResult, model.KindHandler:
		return len(t.Args) == 1 && c.IsSameType(t.Args[0])
	case model.KindMap:
		return len(t.Args) == 2 && c.IsSameType(t.Args[0]) && c.IsSameType(t.Args[1])
	case model.KindFunction:
		return len(t.Args) == 2 && c.IsSameType(t.Args[0]) && c.IsSameType(t.Args[1])
	case model.KindAPI, model.KindClassType:
		return false
	}
	return false
}

// Token returns the expression of the TypeArg token converting values of
// the type variable v, if one can be resolved.
func (c *Converter) Token(v *model.TypeRef) (string, bool) {
	if v == nil || v.Kind != model.KindVariable {
		return "", false
	}
	if c.Op != nil && c.Op.IsTypeParam(v.Name) {
		b, ok := c.Op.Binding(v.Name)
		if !ok || b.Param >= len(c.Params) {
			return "", false
		}
		param := c.Params[b.Param]
		if b.ClassType {
			return c.Namer.Runtime("TypeArgOf") + "(" + param + ")", true
		}
		if b.Param < len(c.Op.Params) {
			// Wrapped interfaces do not expose their tokens
			if pt := c.Op.Params[b.Param].Type; pt != nil && pt.Interface {
				return "", false
			}
		}
		return c.Namer.Runtime("EraseTypeArg") + "(" + param + "." + naming.TypeArgAccessor(b.Index) + "())", true
	}
	if v.ClassParam {
		switch {
		case c.Receiver != "":
			return c.Receiver + "." + naming.TypeArgField(v.Index), true
		case c.StaticTypeParams:
			return c.Namer.Runtime("Unknown") + "[" + v.Name + "]()", true
		}
	}
	return "", false
}

// variable converts expr through the token of the type variable t.
func (c *Converter) variable(t *model.TypeRef, expr string, d Direction) (string, error) {
	tok, ok := c.Token(t)
	if !ok {
		return "", unsupported(t, d, "type parameter "+t.Name+" has no token here")
	}
	if d == ToDelegate {
		return tok + ".Unwrap(" + expr + ")", nil
	}
	return tok + ".Wrap(" + expr + ")", nil
}

// ToDelegate returns an expression converting expr, a wrapped value of type
// t, to its delegate form.
func (c *Converter) ToDelegate(t *model.TypeRef, expr string) (string, error) {
	if c.IsSameType(t) {
		return expr, nil
	}
	switch t.Kind {
	case model.KindVariable:
		return c.variable(t, expr, ToDelegate)
	case model.KindAPI:
		if t.Interface {
			return c.Namer.Runtime("DelegateOf") + "[" + c.Namer.Delegate(t) + "](" + expr + ")", nil
		}
		return expr + ".Delegate()", nil
	case model.KindClassType:
		return c.Namer.Runtime("UnwrapClass") + "(" + expr + ")", nil
	case model.KindList, model.KindSet, model.KindAsyncResult, model.KindMap:
		return c.container(t, expr, ToDelegate)
	case model.KindHandler:
		return c.handler(t, expr, ToDelegate)
	case model.KindFunction:
		return c.function(t, expr, ToDelegate)
	}
	return "", unsupported(t, ToDelegate, "no rule for kind "+t.Kind.String())
}

// ToWrapped returns an expression converting expr, a delegate value of type
// t, to its wrapped form.
func (c *Converter) ToWrapped(t *model.TypeRef, expr string) (string, error) {
	if c.IsSameType(t) {
		return expr, nil
	}
	switch t.Kind {
	case model.KindVariable:
		return c.variable(t, expr, ToWrapped)
	case model.KindAPI:
		return c.newInstance(t, expr)
	case model.KindClassType:
		return "", unsupported(t, ToWrapped, "type literals are never returned")
	case model.KindList, model.KindSet, model.KindAsyncResult, model.KindMap:
		return c.container(t, expr, ToWrapped)
	case model.KindHandler:
		return c.handler(t, expr, ToWrapped)
	case model.KindFunction:
		return c.function(t, expr, ToWrapped)
	}
	return "", unsupported(t, ToWrapped, "no rule for kind "+t.Kind.String())
}

// Convert dispatches on d.
func (c *Converter) Convert(t *model.TypeRef, expr string, d Direction) (string, error) {
	if d == ToDelegate {
		return c.ToDelegate(t, expr)
	}
	return c.ToWrapped(t, expr)
}

// Func returns a function value converting single values of t in direction
// d, suitable for the runtime mapping helpers.
func (c *Converter) Func(t *model.TypeRef, d Direction) (string, error) {
	from, to := c.sides(t, d)
	if c.IsSameType(t) {
		return c.Namer.Runtime("Identity") + "[" + from + "]", nil
	}
	v := c.Scope.New(varName(t))
	body, err := c.Convert(t, v, d)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("func(%s %s) %s {\nreturn %s\n}", v, from, to, body), nil
}

// TypeArgFor returns the token expression used for a type argument when
// instantiating a generic wrapped API type.
func (c *Converter) TypeArgFor(arg *model.TypeRef) (string, error) {
	switch arg.Kind {
	case model.KindAPI:
		if len(arg.Args) == 0 {
			return c.Namer.WrappedName(arg, naming.TypeArgVar(arg.Name)), nil
		}
		toks, err := c.typeArgs(arg)
		if err != nil {
			return "", err
		}
		return c.Namer.WrappedName(arg, naming.TypeArgFunc(arg.Name)) + "(" + strings.Join(toks, ", ") + ")", nil
	case model.KindVariable:
		if tok, ok := c.Token(arg); ok {
			return tok, nil
		}
		if arg.ClassParam {
			return "", unsupported(arg, ToWrapped, "type parameter "+arg.Name+" has no token here")
		}
	}
	return c.Namer.Runtime("Unknown") + "[" + c.Namer.TypeArg(arg, true) + "]()", nil
}

func (c *Converter) typeArgs(t *model.TypeRef) ([]string, error) {
	toks := make([]string, len(t.Args))
	for i, a := range t.Args {
		tok, err := c.TypeArgFor(a)
		if err != nil {
			return nil, err
		}
		toks[i] = tok
	}
	return toks, nil
}

func (c *Converter) newInstance(t *model.TypeRef, expr string) (string, error) {
	if len(t.Args) == 0 {
		return c.Namer.WrappedName(t, naming.Factory(t.Name)) + "(" + expr + ")", nil
	}
	toks, err := c.typeArgs(t)
	if err != nil {
		return "", err
	}
	return c.Namer.WrappedName(t, naming.FactoryOf(t.Name)) + "(" + expr + ", " + strings.Join(toks, ", ") + ")", nil
}

// sides returns the Go types a value of t has before and after crossing
// in direction d.
func (c *Converter) sides(t *model.TypeRef, d Direction) (from, to string) {
	del, wr := c.Namer.TypeArg(t, false), c.Namer.TypeArg(t, true)
	if d == ToDelegate {
		return wr, del
	}
	return del, wr
}

func (c *Converter) target(t *model.TypeRef, d Direction) string {
	_, to := c.sides(t, d)
	return to
}

func (c *Converter) container(t *model.TypeRef, expr string, d Direction) (string, error) {
	if len(t.Args) != t.Kind.Arity() {
		return "", unsupported(t, d, "wrong number of type arguments")
	}
	var helper string
	elem := t.Args[0]
	switch t.Kind {
	case model.KindList:
		helper = "MapSlice"
	case model.KindSet:
		helper = "MapSet"
	case model.KindAsyncResult:
		helper = "MapResult"
	case model.KindMap:
		if !c.IsSameType(t.Args[0]) {
			return c.entries(t, expr, d)
		}
		helper = "MapValues"
		elem = t.Args[1]
	}
	fn, err := c.Func(elem, d)
	if err != nil {
		return "", err
	}
	return c.Namer.Runtime(helper) + "(" + expr + ", " + fn + ")", nil
}

// entries converts a map whose keys differ between the two sides.
func (c *Converter) entries(t *model.TypeRef, expr string, d Direction) (string, error) {
	kf, err := c.Func(t.Args[0], d)
	if err != nil {
		return "", err
	}
	vf, err := c.Func(t.Args[1], d)
	if err != nil {
		return "", err
	}
	return c.Namer.Runtime("MapEntries") + "(" + expr + ", " + kf + ", " + vf + ")", nil
}

func (c *Converter) handler(t *model.TypeRef, expr string, d Direction) (string, error) {
	if len(t.Args) != 1 {
		return "", unsupported(t, d, "wrong number of type arguments")
	}
	// The adapter lives on the target side of d and feeds expr, which
	// expects values from the opposite side.
	event, inner := t.Args[0], d.Reverse()

	if event.Kind == model.KindAsyncResult {
		if len(event.Args) != 1 {
			return "", unsupported(event, d, "wrong number of type arguments")
		}
		result := event.Args[0]
		ar := c.Scope.New("ar")
		val, err := c.Convert(result, ar+".Result()", inner)
		if err != nil {
			return "", err
		}
		res := c.target(result, inner)
		return fmt.Sprintf(
			"func(%s %s[%s]) {\nif %s.Succeeded() {\n%s(%s[%s](%s))\n} else {\n%s(%s[%s](%s.Cause()))\n}\n}",
			ar, c.Namer.Runtime("AsyncResult"), c.target(result, d),
			ar, expr, c.Namer.Runtime("Succeeded"), res, val,
			expr, c.Namer.Runtime("Failed"), res, ar,
		), nil
	}

	ev := c.Scope.New("event")
	val, err := c.Convert(event, ev, inner)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("func(%s %s) {\n%s(%s)\n}", ev, c.target(event, d), expr, val), nil
}

func (c *Converter) function(t *model.TypeRef, expr string, d Direction) (string, error) {
	if len(t.Args) != 2 {
		return "", unsupported(t, d, "wrong number of type arguments")
	}
	// The adapter takes an argument of the target side, converts it for
	// expr, and converts expr's result back to the target side.
	arg, res := t.Args[0], t.Args[1]
	a := c.Scope.New("arg")
	in, err := c.Convert(arg, a, d.Reverse())
	if err != nil {
		return "", err
	}
	call := expr + "(" + in + ")"
	if res.IsVoid() {
		return fmt.Sprintf("func(%s %s) {\n%s\n}", a, c.target(arg, d), call), nil
	}
	out, err := c.Convert(res, call, d)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("func(%s %s) %s {\nreturn %s\n}", a, c.target(arg, d), c.target(res, d), out), nil
}

func varName(t *model.TypeRef) string {
	switch t.Kind {
	case model.KindAPI:
		return "w"
	case model.KindAsyncResult:
		return "ar"
	case model.KindList, model.KindSet, model.KindMap:
		return "m"
	default:
		return "v"
	}
}
