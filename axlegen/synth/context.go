package synth

import (
	"slices"
	"strings"

	"github.com/broady/axle/axlegen/convert"
	"github.com/broady/axle/axlegen/gosrc"
	"github.com/broady/axle/axlegen/model"
	"github.com/broady/axle/axlegen/naming"
)

// classContext carries the state of one class translation. It is created
// by Synthesize, filled while declarations are built, and discarded once
// the file is complete.
type classContext struct {
	class *model.Class
	namer *naming.Namer
	file  *gosrc.File
	ops   []*model.Operation

	// name is the exported wrapped type; for abstract classes an interface.
	name string
	// structName is the struct carrying the delegate: name itself, or the
	// companion implementation of an abstract class.
	structName string

	typeParams string // "[T any]" or empty
	typeArgs   string // "[T]" or empty
	recv       string
	recvType   string // "*Conn" or "*readableImpl[T]"
	wrapped    string // type returned by factories
	delegate   string // delegate type, "*core.Conn"

	members  *naming.Scope // fields and methods of the struct
	pkg      *naming.Scope // package-level identifiers
	reserved []string      // package names a file of this class may import

	fields  *gosrc.Struct
	iface   *gosrc.Interface
	caches  int
	methods []gosrc.Decl
	statics []gosrc.Decl
}

func newClassContext(c *model.Class, d *naming.Dialect, ops []*model.Operation) *classContext {
	cc := &classContext{
		class:   c,
		namer:   naming.NewNamer(d, c.Package),
		ops:     ops,
		name:    c.Name,
		members: naming.NewScope(),
		pkg:     naming.NewScope(),
	}
	cc.structName = c.Name
	if !c.Concrete {
		cc.structName = naming.Impl(c.Name)
	}
	cc.typeParams = naming.TypeParams(c.TypeParams, cc.comparableParams())
	cc.typeArgs = naming.TypeArgs(c.TypeParams)
	cc.recvType = "*" + cc.structName + cc.typeArgs
	cc.wrapped = cc.namer.Wrapped(c.Type())
	cc.delegate = cc.namer.Delegate(c.Type())
	cc.reserved = cc.importNames(d)
	cc.recv = cc.receiverName()

	cc.pkg.Reserve(cc.reserved...)
	cc.pkg.Reserve(
		c.Name, cc.structName,
		naming.Factory(c.Name), naming.FactoryOf(c.Name),
		naming.TypeArgVar(c.Name), naming.TypeArgFunc(c.Name), naming.ClassVar(c.Name),
		naming.Constructor(c.Name), naming.ConstructorWithTypeArgs(c.Name),
		naming.EmptyConstructor(c.Name),
	)
	cc.members.Reserve("delegate", "Delegate", "DelegateValue")
	for i := range c.TypeParams {
		cc.members.Reserve(naming.TypeArgField(i), naming.TypeArgAccessor(i))
	}
	if s := c.ConcreteSuper; s != nil && c.Concrete {
		cc.members.Reserve(s.Name)
	}
	return cc
}

// importNames returns the local names of every package the file may
// import. Rendering into a scratch namer keeps imports that end up unused
// out of the real set. Locals are allocated around these names instead of
// shadowing them.
func (cc *classContext) importNames(d *naming.Dialect) []string {
	n := naming.NewNamer(d, cc.class.Package)
	render := func(t *model.TypeRef) {
		if t != nil {
			n.Delegate(t)
			n.Wrapped(t)
		}
	}
	for _, op := range cc.ops {
		for _, p := range op.Params {
			render(p.Type)
		}
		render(op.Return)
	}
	for _, k := range cc.class.Constants {
		render(k.Type)
	}
	render(cc.class.ConcreteSuper)
	for _, s := range cc.class.AbstractSupers {
		render(s)
	}
	caps := cc.class.Capabilities
	for _, t := range []*model.TypeRef{caps.Iterable, caps.Iterator, caps.Handler, caps.ReadStream} {
		render(t)
	}
	if caps.Function != nil {
		render(caps.Function.Arg)
		render(caps.Function.Result)
	}
	n.Runtime("Future")
	n.Pkg(cc.class.Package, cc.class.Name)
	for _, p := range []string{"context", "fmt", "iter", "reflect"} {
		n.Pkg(p, "_")
	}
	return n.Imports.Names()
}

func (cc *classContext) receiverName() string {
	r := strings.ToLower(cc.class.Name[:1])
	if !slices.Contains(cc.reserved, r) && naming.SafeIdent(r) == r {
		return r
	}
	return "w"
}

// comparableParams reports the class type parameters that appear as set
// elements or map keys and so need a comparable constraint.
func (cc *classContext) comparableParams() map[string]bool {
	out := make(map[string]bool)
	mark := func(t *model.TypeRef) bool {
		var key *model.TypeRef
		switch t.Kind {
		case model.KindSet:
			key = t.Arg(0)
		case model.KindMap:
			key = t.Arg(0)
		}
		if key != nil && key.Kind == model.KindVariable && key.ClassParam {
			out[key.Name] = true
		}
		return true
	}
	for _, op := range cc.ops {
		for _, p := range op.Params {
			p.Type.Walk(mark)
		}
		op.Return.Walk(mark)
	}
	for _, k := range cc.class.Constants {
		k.Type.Walk(mark)
	}
	return out
}

// localScope returns a scope for the locals of one function body.
func (cc *classContext) localScope(static bool) *naming.Scope {
	s := naming.NewScope(cc.reserved...)
	if !static {
		s.Reserve(cc.recv)
	}
	return s
}

// converter returns a converter for op, allocating Go names for its
// parameters in scope.
func (cc *classContext) converter(op *model.Operation, scope *naming.Scope) *convert.Converter {
	c := &convert.Converter{Namer: cc.namer, Op: op, Scope: scope}
	if op == nil || !op.Static {
		c.Receiver = cc.recv
	}
	if op != nil {
		c.Params = make([]string, len(op.Params))
		for i, p := range op.Params {
			c.Params[i] = scope.New(naming.SafeIdent(naming.Unexported(p.Name)))
		}
	}
	return c
}

// method adds a method on the struct.
func (cc *classContext) method(doc, name string, params []gosrc.Param, results string, body ...string) *gosrc.Func {
	fn := &gosrc.Func{
		Doc:     doc,
		Recv:    &gosrc.Param{Name: cc.recv, Type: cc.recvType},
		Name:    name,
		Params:  params,
		Results: results,
		Body:    body,
	}
	cc.methods = append(cc.methods, fn)
	return fn
}

// exported adds the signature of an exported method to the interface of an
// abstract class.
func (cc *classContext) exported(doc, name string, params []gosrc.Param, results string) {
	if cc.iface == nil {
		return
	}
	cc.iface.Methods = append(cc.iface.Methods, gosrc.Method{Doc: doc, Name: name, Params: params, Results: results})
}

// usesClassParams reports whether a static operation mentions a class type
// parameter and so must be declared generic.
func (cc *classContext) usesClassParams(op *model.Operation) bool {
	found := false
	visit := func(t *model.TypeRef) bool {
		if t.Kind == model.KindVariable && t.ClassParam {
			found = true
		}
		return !found
	}
	for _, p := range op.Params {
		p.Type.Walk(visit)
	}
	op.Return.Walk(visit)
	return found
}

// declares reports whether the class already has an operation that an
// adapter named name would duplicate. Java-style spellings count too.
func (cc *classContext) declares(name string, params ...*model.TypeRef) bool {
	aliases := []string{name}
	switch name {
	case "String":
		aliases = append(aliases, "ToString")
	case "Equal":
		aliases = append(aliases, "Equals")
	}
	return slices.ContainsFunc(cc.class.Operations, func(op *model.Operation) bool {
		if op.Static || !slices.Contains(aliases, naming.Exported(op.Name)) || len(op.Params) != len(params) {
			return false
		}
		for i, p := range op.Params {
			if params[i] != nil && !p.Type.Equal(params[i]) {
				return false
			}
		}
		return true
	})
}
