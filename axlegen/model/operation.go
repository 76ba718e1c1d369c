package model

import "slices"

// Documentation holds doc comment text carried over from the delegate API.
type Documentation struct {
	// Summary is the first sentence, used when only a line fits.
	Summary string `yaml:"summary,omitempty" json:"summary,omitempty"`

	// Body is the complete text including the summary.
	Body string `yaml:"body,omitempty" json:"body,omitempty"`
}

// IsZero returns true if the documentation is empty.
func (d Documentation) IsZero() bool {
	return d.Summary == "" && d.Body == ""
}

// Text returns Body, falling back to Summary.
func (d Documentation) Text() string {
	if d.Body != "" {
		return d.Body
	}
	return d.Summary
}

// Param is a named operation parameter.
type Param struct {
	Name string   `yaml:"name" json:"name" validate:"required"`
	Type *TypeRef `yaml:"type" json:"type" validate:"required"`
	Doc  string   `yaml:"doc,omitempty" json:"doc,omitempty"`
}

// TypeArgBinding ties a method-level type parameter to the parameter that
// carries its runtime token.
type TypeArgBinding struct {
	// TypeParam is the name of the operation's type parameter.
	TypeParam string `yaml:"typeParam" json:"typeParam" validate:"required"`

	// Param is the index of the parameter carrying the token.
	Param int `yaml:"param" json:"param" validate:"gte=0"`

	// Index is the type argument slot of the parameter's API type.
	// Ignored when ClassType is set.
	Index int `yaml:"index,omitempty" json:"index,omitempty" validate:"gte=0"`

	// ClassType marks a parameter that is itself a type literal for the
	// type parameter.
	ClassType bool `yaml:"classType,omitempty" json:"classType,omitempty"`
}

// Operation describes one method of a delegate API class.
type Operation struct {
	Name   string   `yaml:"name" json:"name" validate:"required"`
	Params []*Param `yaml:"params,omitempty" json:"params,omitempty" validate:"dive,required"`

	// Return is the result type; nil means void.
	Return *TypeRef `yaml:"return,omitempty" json:"return,omitempty"`

	Static      bool `yaml:"static,omitempty" json:"static,omitempty"`
	Fluent      bool `yaml:"fluent,omitempty" json:"fluent,omitempty"`
	CacheReturn bool `yaml:"cacheReturn,omitempty" json:"cacheReturn,omitempty"`
	Deprecated  bool `yaml:"deprecated,omitempty" json:"deprecated,omitempty"`

	// DeprecatedNote is appended to the emitted "Deprecated:" paragraph.
	DeprecatedNote string `yaml:"deprecatedNote,omitempty" json:"deprecatedNote,omitempty"`

	// Owners are the qualified names of every type that declares the
	// operation. Inherited operations list their supertypes.
	Owners []string `yaml:"owners,omitempty" json:"owners,omitempty" validate:"min=1,dive,required"`

	TypeParams []string         `yaml:"typeParams,omitempty" json:"typeParams,omitempty" validate:"dive,required"`
	TypeArgs   []TypeArgBinding `yaml:"typeArgs,omitempty" json:"typeArgs,omitempty" validate:"dive"`

	Doc Documentation `yaml:"doc,omitempty" json:"doc,omitempty"`
}

// OwnedBy reports whether the class with the given qualified name
// declares the operation.
func (op *Operation) OwnedBy(class string) bool {
	return slices.Contains(op.Owners, class)
}

// SharesOwner reports whether the owner sets of op and o intersect.
func (op *Operation) SharesOwner(o *Operation) bool {
	for _, owner := range op.Owners {
		if o.OwnedBy(owner) {
			return true
		}
	}
	return false
}

// Last returns the trailing parameter, or nil for a parameterless operation.
func (op *Operation) Last() *Param {
	if len(op.Params) == 0 {
		return nil
	}
	return op.Params[len(op.Params)-1]
}

// HasSignature reports whether op is named name and takes exactly params.
func (op *Operation) HasSignature(name string, params ...*TypeRef) bool {
	if op.Name != name || len(op.Params) != len(params) {
		return false
	}
	for i, p := range op.Params {
		if !p.Type.Equal(params[i]) {
			return false
		}
	}
	return true
}

// IsTypeParam reports whether name is declared by the operation itself.
func (op *Operation) IsTypeParam(name string) bool {
	return slices.Contains(op.TypeParams, name)
}

// Binding returns the token binding for a method-level type parameter.
func (op *Operation) Binding(typeParam string) (TypeArgBinding, bool) {
	for _, b := range op.TypeArgs {
		if b.TypeParam == typeParam {
			return b, true
		}
	}
	return TypeArgBinding{}, false
}

// Constant is a named value exposed by a class.
type Constant struct {
	Name string        `yaml:"name" json:"name" validate:"required"`
	Type *TypeRef      `yaml:"type" json:"type" validate:"required"`
	Doc  Documentation `yaml:"doc,omitempty" json:"doc,omitempty"`
}
