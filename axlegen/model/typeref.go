package model

import "strings"

// TypeRef is a reference to a type as seen by the delegate API.
// TypeRefs are immutable once built and may be shared by reference.
type TypeRef struct {
	// Kind selects the conversion rules that apply to this type.
	Kind Kind `yaml:"kind" json:"kind"`

	// Name is the Go type name for named kinds (Basic, API, Enum, DataObject,
	// Json, Other) or the parameter name for a Variable.
	Name string `yaml:"name,omitempty" json:"name,omitempty"`

	// Package is the import path declaring the type. Empty for builtins
	// and variables.
	Package string `yaml:"package,omitempty" json:"package,omitempty"`

	// Pointer marks named types used through a pointer.
	// API types are always used through a pointer unless Interface is set.
	Pointer bool `yaml:"pointer,omitempty" json:"pointer,omitempty"`

	// Interface marks API types that are abstract on both sides.
	Interface bool `yaml:"interface,omitempty" json:"interface,omitempty"`

	// Args are the type arguments. A TypeRef is parameterized when Args
	// is non-empty.
	Args []*TypeRef `yaml:"args,omitempty" json:"args,omitempty" validate:"omitempty,dive,required"`

	// ClassParam marks a Variable declared by the enclosing class, Index
	// being its position in the class type parameter list.
	ClassParam bool `yaml:"classParam,omitempty" json:"classParam,omitempty"`
	Index      int  `yaml:"index,omitempty" json:"index,omitempty" validate:"gte=0"`
}

// Basic returns a reference to a builtin scalar type such as string or int64.
func Basic(name string) *TypeRef { return &TypeRef{Kind: KindBasic, Name: name} }

// Object returns a reference to the untyped value type.
func Object() *TypeRef { return &TypeRef{Kind: KindObject} }

// Var returns a reference to a type variable.
func Var(name string) *TypeRef { return &TypeRef{Kind: KindVariable, Name: name} }

// ClassVar returns a reference to the index-th type parameter of the enclosing class.
func ClassVar(name string, index int) *TypeRef {
	return &TypeRef{Kind: KindVariable, Name: name, ClassParam: true, Index: index}
}

// API returns a reference to a translated API type.
func API(pkg, name string, args ...*TypeRef) *TypeRef {
	return &TypeRef{Kind: KindAPI, Package: pkg, Name: name, Args: args}
}

// HandlerOf returns a reference to a callback consuming events of type e.
func HandlerOf(e *TypeRef) *TypeRef { return &TypeRef{Kind: KindHandler, Args: []*TypeRef{e}} }

// AsyncResultOf returns a reference to a completion outcome carrying e.
func AsyncResultOf(e *TypeRef) *TypeRef {
	return &TypeRef{Kind: KindAsyncResult, Args: []*TypeRef{e}}
}

// ResultHandlerOf is shorthand for HandlerOf(AsyncResultOf(e)).
func ResultHandlerOf(e *TypeRef) *TypeRef { return HandlerOf(AsyncResultOf(e)) }

func ListOf(e *TypeRef) *TypeRef { return &TypeRef{Kind: KindList, Args: []*TypeRef{e}} }
func SetOf(e *TypeRef) *TypeRef  { return &TypeRef{Kind: KindSet, Args: []*TypeRef{e}} }

func MapOf(k, v *TypeRef) *TypeRef { return &TypeRef{Kind: KindMap, Args: []*TypeRef{k, v}} }

// FunctionOf returns a reference to a function from a to r.
func FunctionOf(a, r *TypeRef) *TypeRef {
	return &TypeRef{Kind: KindFunction, Args: []*TypeRef{a, r}}
}

// ClassTypeOf returns a reference to a type literal for e.
func ClassTypeOf(e *TypeRef) *TypeRef { return &TypeRef{Kind: KindClassType, Args: []*TypeRef{e}} }

func Throwable() *TypeRef { return &TypeRef{Kind: KindThrowable} }
func Void() *TypeRef      { return &TypeRef{Kind: KindVoid} }

func Enum(pkg, name string) *TypeRef       { return &TypeRef{Kind: KindEnum, Package: pkg, Name: name} }
func DataObject(pkg, name string) *TypeRef { return &TypeRef{Kind: KindDataObject, Package: pkg, Name: name, Pointer: true} }
func JSON(pkg, name string) *TypeRef       { return &TypeRef{Kind: KindJSON, Package: pkg, Name: name} }

// Other returns a reference to a type passed through unchanged.
func Other(pkg, name string, args ...*TypeRef) *TypeRef {
	return &TypeRef{Kind: KindOther, Package: pkg, Name: name, Args: args}
}

// SeqOf returns a reference to iter.Seq[e], the reactive-stream parameter shape.
func SeqOf(e *TypeRef) *TypeRef { return Other("iter", "Seq", e) }

// Parameterized reports whether the type carries type arguments.
func (t *TypeRef) Parameterized() bool { return t != nil && len(t.Args) > 0 }

// Arg returns the i-th type argument, or nil when absent.
func (t *TypeRef) Arg(i int) *TypeRef {
	if t == nil || i < 0 || i >= len(t.Args) {
		return nil
	}
	return t.Args[i]
}

// Raw returns the erased form of the type: a copy without type arguments.
func (t *TypeRef) Raw() *TypeRef {
	if t == nil {
		return nil
	}
	raw := *t
	raw.Args = nil
	return &raw
}

// IsVoid reports whether t denotes no value. A nil TypeRef is void.
func (t *TypeRef) IsVoid() bool { return t == nil || t.Kind == KindVoid }

// IsPublisher reports whether t is an iter.Seq stream of elements.
func (t *TypeRef) IsPublisher() bool {
	return t != nil && t.Kind == KindOther && t.Package == "iter" && t.Name == "Seq" && len(t.Args) == 1
}

// IsResultHandler reports whether t is a Handler whose event is an AsyncResult.
func (t *TypeRef) IsResultHandler() bool {
	return t != nil && t.Kind == KindHandler && t.Arg(0) != nil && t.Arg(0).Kind == KindAsyncResult
}

// Equal reports structural equality of two type references.
func (t *TypeRef) Equal(o *TypeRef) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.Kind != o.Kind || t.Name != o.Name || t.Package != o.Package ||
		t.Pointer != o.Pointer || t.Interface != o.Interface || len(t.Args) != len(o.Args) {
		return false
	}
	for i := range t.Args {
		if !t.Args[i].Equal(o.Args[i]) {
			return false
		}
	}
	return true
}

// Walk calls fn for t and every nested type argument, depth first.
// Walking stops early when fn returns false.
func (t *TypeRef) Walk(fn func(*TypeRef) bool) bool {
	if t == nil {
		return true
	}
	if !fn(t) {
		return false
	}
	for _, a := range t.Args {
		if !a.Walk(fn) {
			return false
		}
	}
	return true
}

// String returns a compact, Go-like description used in diagnostics.
func (t *TypeRef) String() string {
	if t == nil {
		return "void"
	}
	var b strings.Builder
	t.writeTo(&b)
	return b.String()
}

func (t *TypeRef) writeTo(b *strings.Builder) {
	args := func() {
		for i, a := range t.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			a.writeTo(b)
		}
	}
	switch t.Kind {
	case KindObject:
		b.WriteString("any")
	case KindVoid:
		b.WriteString("void")
	case KindThrowable:
		b.WriteString("error")
	case KindHandler, KindAsyncResult, KindList, KindSet, KindMap, KindFunction, KindClassType:
		b.WriteString(t.Kind.String())
		b.WriteByte('<')
		args()
		b.WriteByte('>')
	default:
		if t.Pointer {
			b.WriteByte('*')
		}
		if t.Package != "" {
			b.WriteString(t.Package)
			b.WriteByte('.')
		}
		b.WriteString(t.Name)
		if len(t.Args) > 0 {
			b.WriteByte('[')
			args()
			b.WriteByte(']')
		}
	}
}
