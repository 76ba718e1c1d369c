// Package gosrc holds a structured representation of one generated Go file.
// Synthesis builds a File; Render prints and formats it once.
package gosrc

import "github.com/broady/axle/axlegen/naming"

// File is one generated Go source file.
type File struct {
	// Header holds comment lines emitted before everything else, such as a
	// license notice. Lines are written verbatim after "// ".
	Header []string

	// Generator names the tool in the "Code generated" line.
	Generator string

	// Doc is the package doc comment, usually empty.
	Doc string

	Package string
	Imports []naming.Import
	Decls   []Decl
}

// Decl is a top-level declaration.
type Decl interface {
	// DeclName returns the declared identifier, "Type.Method" for methods.
	DeclName() string
	decl()
}

// Field is a struct field. An embedded field has no Name.
type Field struct {
	Name string
	Type string
	Doc  string
}

// Method is a method signature in an interface.
type Method struct {
	Doc     string
	Name    string
	Params  []Param
	Results string
}

// Param is one function parameter.
type Param struct {
	Name string
	Type string
}

// Type declares a named struct or interface type.
type Type struct {
	Doc        string
	Name       string
	TypeParams string // rendered list such as "[T any]"

	// Exactly one of Struct and Interface is set.
	Struct    *Struct
	Interface *Interface
}

type Struct struct {
	Fields []Field
}

type Interface struct {
	Embeds  []string
	Methods []Method
}

// Func declares a function or, when Recv is set, a method.
type Func struct {
	Doc        string
	Recv       *Param
	Name       string
	TypeParams string
	Params     []Param
	Results    string

	// Body holds the statements of the function, one per entry. Entries
	// may span lines.
	Body []string
}

// Var declares a package-level variable.
type Var struct {
	Doc   string
	Name  string
	Type  string
	Value string
}

func (t *Type) DeclName() string { return t.Name }
func (f *Func) DeclName() string {
	if f.Recv != nil {
		return recvTypeName(f.Recv.Type) + "." + f.Name
	}
	return f.Name
}
func (v *Var) DeclName() string { return v.Name }

func (*Type) decl() {}
func (*Func) decl() {}
func (*Var) decl()  {}

// Add appends declarations to the file.
func (f *File) Add(decls ...Decl) {
	f.Decls = append(f.Decls, decls...)
}

// Lookup returns the declaration with the given name, or nil.
func (f *File) Lookup(name string) Decl {
	for _, d := range f.Decls {
		if d.DeclName() == name {
			return d
		}
	}
	return nil
}

// Func returns the function or method with the given name, or nil.
func (f *File) Func(name string) *Func {
	fn, _ := f.Lookup(name).(*Func)
	return fn
}

// Type returns the type declaration with the given name, or nil.
func (f *File) Type(name string) *Type {
	t, _ := f.Lookup(name).(*Type)
	return t
}

// Names returns the names of every declaration in order.
func (f *File) Names() []string {
	out := make([]string, len(f.Decls))
	for i, d := range f.Decls {
		out[i] = d.DeclName()
	}
	return out
}

// recvTypeName strips pointers and type arguments: "*Box[T]" becomes "Box".
func recvTypeName(t string) string {
	for len(t) > 0 && t[0] == '*' {
		t = t[1:]
	}
	for i := 0; i < len(t); i++ {
		if t[i] == '[' {
			return t[:i]
		}
	}
	return t
}
