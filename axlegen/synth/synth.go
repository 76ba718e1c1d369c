// Package synth assembles the translated declaration of one class: the
// wrapped type, its constructors and factories, type argument tokens,
// capability adapters and one method per resolved operation.
package synth

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/broady/axle/axlegen/gosrc"
	"github.com/broady/axle/axlegen/model"
	"github.com/broady/axle/axlegen/naming"
	"github.com/broady/axle/axlegen/resolve"
)

// Synthesizer translates classes for one dialect. It holds no state
// between calls and is safe for concurrent use.
type Synthesizer struct {
	dialect *naming.Dialect
	header  []string
}

// New returns a Synthesizer emitting files that start with header.
func New(d *naming.Dialect, header ...string) *Synthesizer {
	return &Synthesizer{dialect: d, header: header}
}

// Result is the translation of one class.
type Result struct {
	File *gosrc.File

	// Package is the import path of the translated package.
	Package string

	// Dropped lists the operations removed by override resolution.
	Dropped []resolve.Dropped
}

// Synthesize translates c, which must be normalized and valid.
// An operation whose types cannot be converted aborts the whole class with
// a *convert.UnsupportedConversion in the error chain.
func (s *Synthesizer) Synthesize(c *model.Class) (*Result, error) {
	res := resolve.Resolve(c)
	cc := newClassContext(c, s.dialect, res.Operations)
	cc.file = &gosrc.File{
		Header:  s.header,
		Package: cc.namer.PackageName(),
	}

	cc.declareTypes()
	cc.declareTokens()
	if err := cc.declareConstants(); err != nil {
		return nil, err
	}
	if err := cc.declareConstructors(); err != nil {
		return nil, err
	}
	cc.declareFactories()
	cc.declareAccessors()
	cc.declareIdentity()
	if err := cc.declareCapabilities(); err != nil {
		return nil, err
	}
	for _, op := range cc.ops {
		if err := cc.declareOperation(op); err != nil {
			return nil, errors.Wrapf(err, "%s.%s", c.QualifiedName(), op.Name)
		}
	}

	cc.file.Add(cc.methods...)
	cc.file.Add(cc.statics...)
	cc.file.Imports = cc.namer.Imports.Imports()
	return &Result{File: cc.file, Package: cc.namer.Package, Dropped: res.Dropped}, nil
}

func (cc *classContext) declareTypes() {
	c := cc.class
	typeDoc := cc.name + " wraps [" + cc.namer.Pkg(c.Package, c.Name) + "]."
	if text := c.Doc.Text(); text != "" {
		typeDoc += "\n\n" + text
	}

	cc.fields = &gosrc.Struct{Fields: []gosrc.Field{{Name: "delegate", Type: cc.delegate}}}
	if s := c.ConcreteSuper; s != nil && c.Concrete {
		cc.fields.Fields = append(cc.fields.Fields, gosrc.Field{Type: cc.namer.Wrapped(s)})
	}
	for i, p := range c.TypeParams {
		cc.fields.Fields = append(cc.fields.Fields, gosrc.Field{
			Name: naming.TypeArgField(i),
			Type: cc.namer.Runtime("TypeArg") + "[" + p + "]",
		})
	}

	if c.Concrete {
		cc.file.Add(&gosrc.Type{Doc: typeDoc, Name: cc.name, TypeParams: cc.typeParams, Struct: cc.fields})
		return
	}

	cc.iface = &gosrc.Interface{}
	for _, s := range c.AbstractSupers {
		cc.iface.Embeds = append(cc.iface.Embeds, cc.namer.Wrapped(s))
	}
	cc.iface.Embeds = append(cc.iface.Embeds, cc.namer.Runtime("Wrapper"))
	cc.file.Add(
		&gosrc.Type{Doc: typeDoc, Name: cc.name, TypeParams: cc.typeParams, Interface: cc.iface},
		&gosrc.Type{
			Doc:        cc.structName + " implements " + cc.name + " over a delegate.",
			Name:       cc.structName,
			TypeParams: cc.typeParams,
			Struct:     cc.fields,
		},
	)
}

// unwrapFunc returns a function value taking a wrapped instance to its
// delegate. Interfaces have no typed accessor, so they go through
// axle.DelegateOf.
func (cc *classContext) unwrapFunc() string {
	if cc.class.Concrete {
		return "(" + cc.wrapped + ").Delegate"
	}
	return "func(w " + cc.wrapped + ") " + cc.delegate + " {\nreturn " +
		cc.namer.Runtime("DelegateOf") + "[" + cc.delegate + "](w)\n}"
}

func (cc *classContext) declareTokens() {
	c := cc.class
	typeArg := cc.namer.Runtime("TypeArg")
	if !c.Generic() {
		tok := naming.TypeArgVar(c.Name)
		cc.file.Add(
			&gosrc.Var{
				Doc:   tok + " converts between " + cc.delegate + " and " + cc.wrapped + ".",
				Name:  tok,
				Value: cc.namer.Runtime("APITypeArg") + "(" + naming.Factory(c.Name) + ", " + cc.unwrapFunc() + ")",
			},
			&gosrc.Var{
				Doc:  naming.ClassVar(c.Name) + " is the type literal of " + cc.name + ".",
				Name: naming.ClassVar(c.Name),
				Value: cc.namer.Runtime("NewClass") + "(" + cc.namer.Pkg("reflect", "TypeFor") +
					"[" + cc.delegate + "](), " + tok + ")",
			},
		)
		return
	}

	params, args := cc.tokenParams()
	fn := naming.TypeArgFunc(c.Name)
	cc.file.Add(&gosrc.Func{
		Doc:        fn + " returns the token converting between " + cc.delegate + " and " + cc.wrapped + ".",
		Name:       fn,
		TypeParams: cc.typeParams,
		Params:     params,
		Results:    typeArg + "[" + cc.wrapped + "]",
		Body: []string{
			"return " + cc.namer.Runtime("APITypeArg") + "(func(d " + cc.delegate + ") " + cc.wrapped + " {\n" +
				"return " + naming.FactoryOf(c.Name) + "(d, " + args + ")\n}, " + cc.unwrapFunc() + ")",
		},
	})
}

// tokenParams returns the typeArgN parameters of a generic class and the
// matching argument list.
func (cc *classContext) tokenParams() ([]gosrc.Param, string) {
	typeArg := cc.namer.Runtime("TypeArg")
	params := make([]gosrc.Param, len(cc.class.TypeParams))
	names := make([]string, len(cc.class.TypeParams))
	for i, p := range cc.class.TypeParams {
		names[i] = naming.TypeArgField(i)
		params[i] = gosrc.Param{Name: names[i], Type: typeArg + "[" + p + "]"}
	}
	return params, strings.Join(names, ", ")
}

func (cc *classContext) declareConstructors() error {
	c := cc.class
	self := "*" + cc.structName + cc.typeArgs
	delegateParam := gosrc.Param{Name: "delegate", Type: cc.delegate}

	// Embedded super, built from the delegate's own embedded super.
	var init []string
	if s := c.ConcreteSuper; s != nil && c.Concrete {
		conv := cc.converter(nil, cc.localScope(false))
		super, err := conv.ToWrapped(s, "delegate."+s.Name)
		if err != nil {
			return errors.Wrapf(err, "%s: concrete super", c.QualifiedName())
		}
		init = []string{"if delegate != nil {\n" + cc.recv + "." + s.Name + " = " + super + "\n}"}
	}
	build := func(lit string) []string {
		if len(init) == 0 {
			return []string{"return " + lit}
		}
		body := []string{cc.recv + " := " + lit}
		body = append(body, init...)
		return append(body, "return "+cc.recv)
	}

	if !c.Generic() {
		cc.file.Add(&gosrc.Func{
			Name:    naming.Constructor(c.Name),
			Params:  []gosrc.Param{delegateParam},
			Results: self,
			Body:    build("&" + cc.structName + "{delegate: delegate}"),
		})
	} else {
		params, _ := cc.tokenParams()
		fields := make([]string, 0, len(params)+1)
		fields = append(fields, "delegate: delegate")
		for _, p := range params {
			fields = append(fields, p.Name+": "+p.Name)
		}
		cc.file.Add(
			&gosrc.Func{
				Name:       naming.ConstructorWithTypeArgs(c.Name),
				TypeParams: cc.typeParams,
				Params:     append([]gosrc.Param{delegateParam}, params...),
				Results:    self,
				Body:       build("&" + cc.structName + cc.typeArgs + "{" + strings.Join(fields, ", ") + "}"),
			},
			&gosrc.Func{
				Name:       naming.Constructor(c.Name),
				TypeParams: cc.typeParams,
				Params:     []gosrc.Param{delegateParam},
				Results:    self,
				Body:       []string{"return " + naming.ConstructorWithTypeArgs(c.Name) + "(delegate, " + cc.unknownTokens() + ")"},
			},
		)
	}

	empty := naming.EmptyConstructor(c.Name)
	cc.file.Add(&gosrc.Func{
		Doc: empty + " returns " + article(cc.name) + " without a delegate, for frameworks that\n" +
			"construct values before injecting their state.",
		Name:       empty,
		TypeParams: cc.typeParams,
		Results:    cc.wrapped,
		Body:       []string{"return " + naming.Constructor(c.Name) + cc.typeArgs + "(nil)"},
	})
	return nil
}

// unknownTokens returns the identity token for each class type parameter.
func (cc *classContext) unknownTokens() string {
	toks := make([]string, len(cc.class.TypeParams))
	for i, p := range cc.class.TypeParams {
		toks[i] = cc.namer.Runtime("Unknown") + "[" + p + "]()"
	}
	return strings.Join(toks, ", ")
}

func (cc *classContext) declareFactories() {
	c := cc.class
	delegateParam := gosrc.Param{Name: "delegate", Type: cc.delegate}
	guard := "if delegate == nil {\nreturn nil\n}"

	factory := naming.Factory(c.Name)
	cc.file.Add(&gosrc.Func{
		Doc:        factory + " wraps delegate. It returns nil if delegate is nil.",
		Name:       factory,
		TypeParams: cc.typeParams,
		Params:     []gosrc.Param{delegateParam},
		Results:    cc.wrapped,
		Body:       []string{guard, "return " + naming.Constructor(c.Name) + cc.typeArgs + "(delegate)"},
	})
	if !c.Generic() {
		return
	}

	params, args := cc.tokenParams()
	factoryOf := naming.FactoryOf(c.Name)
	cc.file.Add(&gosrc.Func{
		Doc: factoryOf + " wraps delegate, converting its type arguments with the\n" +
			"given tokens. It returns nil if delegate is nil.",
		Name:       factoryOf,
		TypeParams: cc.typeParams,
		Params:     append([]gosrc.Param{delegateParam}, params...),
		Results:    cc.wrapped,
		Body:       []string{guard, "return " + naming.ConstructorWithTypeArgs(c.Name) + "(delegate, " + args + ")"},
	})
}

func (cc *classContext) declareAccessors() {
	c := cc.class
	cc.method("Delegate returns the wrapped "+strings.TrimPrefix(cc.delegate, "*")+".",
		"Delegate", nil, cc.delegate, "return "+cc.recv+".delegate")
	cc.method("", "DelegateValue", nil, "any", "return "+cc.recv+".delegate")
	for i, p := range c.TypeParams {
		acc := naming.TypeArgAccessor(i)
		results := cc.namer.Runtime("TypeArg") + "[" + p + "]"
		cc.method(acc+" returns the token converting values of "+p+".",
			acc, nil, results, "return "+cc.recv+"."+naming.TypeArgField(i))
	}
}

func article(name string) string {
	if name != "" && strings.ContainsRune("AEIOU", rune(name[0])) {
		return "an " + name
	}
	return "a " + name
}
