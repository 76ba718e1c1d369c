package model

import "slices"

// FunctionCapability describes a class that behaves as a function.
type FunctionCapability struct {
	Arg    *TypeRef `yaml:"arg" json:"arg" validate:"required"`
	Result *TypeRef `yaml:"result" json:"result" validate:"required"`
}

// Capabilities are structural traits that drive adapter synthesis.
// A nil field means the class lacks the trait; a set field holds the
// element type.
type Capabilities struct {
	Iterable   *TypeRef            `yaml:"iterable,omitempty" json:"iterable,omitempty"`
	Iterator   *TypeRef            `yaml:"iterator,omitempty" json:"iterator,omitempty"`
	Function   *FunctionCapability `yaml:"function,omitempty" json:"function,omitempty"`
	ReadStream *TypeRef            `yaml:"readStream,omitempty" json:"readStream,omitempty"`
	Handler    *TypeRef            `yaml:"handler,omitempty" json:"handler,omitempty"`
}

// Class describes one delegate API type to translate.
type Class struct {
	Name    string `yaml:"name" json:"name" validate:"required"`
	Package string `yaml:"package" json:"package" validate:"required"`

	// Concrete is false for abstract types, which translate to an
	// interface plus an implementation struct.
	Concrete bool `yaml:"concrete" json:"concrete"`

	TypeParams []string    `yaml:"typeParams,omitempty" json:"typeParams,omitempty" validate:"dive,required"`
	Operations []*Operation `yaml:"operations,omitempty" json:"operations,omitempty" validate:"dive,required"`
	Constants  []*Constant  `yaml:"constants,omitempty" json:"constants,omitempty" validate:"dive,required"`

	// ConcreteSuper is the single concrete API type the class extends.
	ConcreteSuper *TypeRef `yaml:"concreteSuper,omitempty" json:"concreteSuper,omitempty"`

	// AbstractSupers are the abstract API types the class implements.
	AbstractSupers []*TypeRef `yaml:"abstractSupers,omitempty" json:"abstractSupers,omitempty" validate:"dive,required"`

	Capabilities Capabilities  `yaml:"capabilities,omitempty" json:"capabilities,omitempty"`
	Doc          Documentation `yaml:"doc,omitempty" json:"doc,omitempty"`
}

// QualifiedName returns the package-qualified class name used in owner sets.
func (c *Class) QualifiedName() string {
	return c.Package + "." + c.Name
}

// Generic reports whether the class declares type parameters.
func (c *Class) Generic() bool { return len(c.TypeParams) > 0 }

// Type returns the class as a TypeRef, instantiated with its own type parameters.
func (c *Class) Type() *TypeRef {
	t := API(c.Package, c.Name)
	t.Interface = !c.Concrete
	for i, p := range c.TypeParams {
		t.Args = append(t.Args, ClassVar(p, i))
	}
	return t
}

// Declares reports whether the class already has an operation with the
// given name and parameter types.
func (c *Class) Declares(name string, params ...*TypeRef) bool {
	return slices.ContainsFunc(c.Operations, func(op *Operation) bool {
		return op.HasSignature(name, params...)
	})
}

// Lookup returns every operation with the given name, in declaration order.
func (c *Class) Lookup(name string) []*Operation {
	var out []*Operation
	for _, op := range c.Operations {
		if op.Name == name {
			out = append(out, op)
		}
	}
	return out
}

// Normalize fills in defaults that model files may omit: operations with no
// owners are owned by the class itself, and type variables naming a class
// type parameter are marked as such. Variables shadowed by an operation's
// own type parameters are left alone.
func (c *Class) Normalize() {
	qn := c.QualifiedName()
	mark := func(scope []string) func(*TypeRef) bool {
		return func(t *TypeRef) bool {
			if t.Kind != KindVariable || slices.Contains(scope, t.Name) {
				return true
			}
			if i := slices.Index(c.TypeParams, t.Name); i >= 0 {
				t.ClassParam = true
				t.Index = i
			}
			return true
		}
	}
	for _, op := range c.Operations {
		if len(op.Owners) == 0 {
			op.Owners = []string{qn}
		}
		fn := mark(op.TypeParams)
		for _, p := range op.Params {
			p.Type.Walk(fn)
		}
		op.Return.Walk(fn)
	}
	fn := mark(nil)
	for _, k := range c.Constants {
		k.Type.Walk(fn)
	}
	c.ConcreteSuper.Walk(fn)
	for _, s := range c.AbstractSupers {
		s.Walk(fn)
	}
	caps := c.Capabilities
	caps.Iterable.Walk(fn)
	caps.Iterator.Walk(fn)
	caps.ReadStream.Walk(fn)
	caps.Handler.Walk(fn)
	if caps.Function != nil {
		caps.Function.Arg.Walk(fn)
		caps.Function.Result.Walk(fn)
	}
}
