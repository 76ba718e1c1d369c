package naming

import (
	"strings"

	"github.com/broady/axle/axlegen/model"
)

// Namer renders type references as Go source for one generated file.
// Every package it mentions is recorded in its ImportSet.
type Namer struct {
	Dialect *Dialect
	Imports *ImportSet

	// Package is the import path of the file being generated.
	Package string
}

// NewNamer returns a Namer for a file holding the translation of
// delegatePkg.
func NewNamer(d *Dialect, delegatePkg string) *Namer {
	self := d.Translate(delegatePkg)
	return &Namer{Dialect: d, Imports: NewImportSet(self), Package: self}
}

// PackageName returns the package clause name of the file.
func (n *Namer) PackageName() string { return PackageName(n.Package) }

// Runtime returns a reference to a runtime symbol, e.g. "axle.Future".
func (n *Namer) Runtime(sym string) string {
	return n.Imports.Qualify(n.Dialect.Runtime, sym)
}

// Pkg returns a reference to sym in importPath.
func (n *Namer) Pkg(importPath, sym string) string {
	return n.Imports.Qualify(importPath, sym)
}

// WrappedName returns the reference to the translated API type without
// type arguments, e.g. "Conn" or "otherasync.Conn".
func (n *Namer) WrappedName(t *model.TypeRef, sym string) string {
	return n.Imports.Qualify(n.Dialect.Translate(t.Package), sym)
}

// Delegate renders t as the delegate API sees it.
// Type variables erase to any and generic API types are instantiated
// with any.
func (n *Namer) Delegate(t *model.TypeRef) string {
	return n.render(t, false)
}

// Wrapped renders t as the translated API exposes it.
// Class type parameters keep their names; method type parameters render
// as any since Go methods cannot declare their own.
func (n *Namer) Wrapped(t *model.TypeRef) string {
	return n.render(t, true)
}

// TypeArg renders t in type argument position, where void becomes struct{}.
func (n *Namer) TypeArg(t *model.TypeRef, wrapped bool) string {
	if t.IsVoid() {
		return "struct{}"
	}
	return n.render(t, wrapped)
}

func (n *Namer) render(t *model.TypeRef, wrapped bool) string {
	if t == nil {
		return ""
	}
	arg := func(i int) string { return n.TypeArg(t.Arg(i), wrapped) }
	switch t.Kind {
	case model.KindBasic:
		return n.named(t, wrapped)
	case model.KindObject:
		return "any"
	case model.KindVariable:
		if wrapped && t.ClassParam {
			return t.Name
		}
		return "any"
	case model.KindAPI:
		return n.api(t, wrapped)
	case model.KindHandler:
		if t.Arg(0).IsVoid() {
			return "func()"
		}
		return "func(" + arg(0) + ")"
	case model.KindAsyncResult:
		return n.Runtime("AsyncResult") + "[" + arg(0) + "]"
	case model.KindList:
		return "[]" + arg(0)
	case model.KindSet:
		return "map[" + arg(0) + "]struct{}"
	case model.KindMap:
		return "map[" + arg(0) + "]" + arg(1)
	case model.KindFunction:
		if t.Arg(1).IsVoid() {
			return "func(" + arg(0) + ")"
		}
		return "func(" + arg(0) + ") " + arg(1)
	case model.KindClassType:
		if wrapped {
			return n.Runtime("Class") + "[" + arg(0) + "]"
		}
		return n.Pkg("reflect", "Type")
	case model.KindThrowable:
		return "error"
	case model.KindVoid:
		return ""
	case model.KindOther:
		if t.IsPublisher() && !wrapped {
			return n.Runtime("ReadStream") + "[" + arg(0) + "]"
		}
		return n.named(t, wrapped)
	default: // Enum, DataObject, Json
		return n.named(t, wrapped)
	}
}

func (n *Namer) named(t *model.TypeRef, wrapped bool) string {
	var b strings.Builder
	if t.Pointer {
		b.WriteByte('*')
	}
	b.WriteString(n.Pkg(t.Package, t.Name))
	n.args(&b, t, wrapped)
	return b.String()
}

func (n *Namer) api(t *model.TypeRef, wrapped bool) string {
	var b strings.Builder
	if !t.Interface {
		b.WriteByte('*')
	}
	if wrapped {
		b.WriteString(n.WrappedName(t, t.Name))
		n.args(&b, t, true)
		return b.String()
	}
	b.WriteString(n.Pkg(t.Package, t.Name))
	if len(t.Args) > 0 {
		b.WriteByte('[')
		for i := range t.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString("any")
		}
		b.WriteByte(']')
	}
	return b.String()
}

func (n *Namer) args(b *strings.Builder, t *model.TypeRef, wrapped bool) {
	if len(t.Args) == 0 {
		return
	}
	b.WriteByte('[')
	for i, a := range t.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(n.TypeArg(a, wrapped))
	}
	b.WriteByte(']')
}

// TypeParams renders a type parameter list such as "[K comparable, V any]".
// Class type parameters are unconstrained except when used as set elements
// or map keys, which the caller marks in comparable.
func TypeParams(names []string, comparable map[string]bool) string {
	if len(names) == 0 {
		return ""
	}
	parts := make([]string, len(names))
	for i, p := range names {
		c := "any"
		if comparable[p] {
			c = "comparable"
		}
		parts[i] = p + " " + c
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// TypeArgs renders an instantiation such as "[K, V]".
func TypeArgs(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return "[" + strings.Join(names, ", ") + "]"
}
