package synth

import (
	"strings"

	"github.com/broady/axle/axlegen/convert"
	"github.com/broady/axle/axlegen/gosrc"
	"github.com/broady/axle/axlegen/model"
	"github.com/broady/axle/axlegen/naming"
	"github.com/broady/axle/axlegen/resolve"
)

// opBuilder holds the per-operation names shared by the public and private
// declarations of one operation.
type opBuilder struct {
	cc    *classContext
	op    *model.Operation
	scope *naming.Scope
	conv  *convert.Converter

	// typeParams and typeArgs are set for static operations of generic
	// classes that mention a class type parameter.
	typeParams string
	typeArgs   string
}

func (cc *classContext) declareOperation(op *model.Operation) error {
	b := &opBuilder{cc: cc, op: op}
	b.scope = cc.localScope(op.Static)
	b.conv = cc.converter(op, b.scope)
	if op.Static && cc.usesClassParams(op) {
		b.typeParams, b.typeArgs = cc.typeParams, cc.typeArgs
		b.conv.StaticTypeParams = true
	}

	var public string
	if op.Static {
		public = cc.pkg.New(naming.Static(cc.class.Name, op.Name))
	} else {
		public = cc.members.New(naming.Exported(op.Name))
	}

	switch resolve.Classify(op) {
	case resolve.Future:
		private := b.privateName(public)
		if err := b.callbackForm(private); err != nil {
			return err
		}
		return b.futureForm(public, private)
	case resolve.Callback:
		private := b.privateName(public)
		if err := b.callbackForm(private); err != nil {
			return err
		}
		return b.callbackEntry(public, private)
	default:
		return b.plain(public)
	}
}

func (b *opBuilder) privateName(public string) string {
	if b.op.Static {
		return b.cc.pkg.New(naming.SafeIdent(naming.Unexported(public)))
	}
	return b.cc.members.New(naming.MethodIdent(naming.Unexported(b.op.Name)))
}

// params renders the first n parameters of the operation.
func (b *opBuilder) params(n int) []gosrc.Param {
	out := make([]gosrc.Param, n)
	for i, p := range b.op.Params[:n] {
		out[i] = gosrc.Param{Name: b.conv.Params[i], Type: b.cc.namer.Wrapped(p.Type)}
	}
	return out
}

// args converts every parameter to its delegate form. Stream parameters
// are adapted to a resumed read stream.
func (b *opBuilder) args() ([]string, error) {
	out := make([]string, len(b.op.Params))
	for i, p := range b.op.Params {
		name := b.conv.Params[i]
		if p.Type.IsPublisher() {
			fn, err := b.conv.Func(p.Type.Arg(0), convert.ToDelegate)
			if err != nil {
				return nil, err
			}
			out[i] = b.cc.namer.Runtime("AsReadStream") + "(" + name + ", " + fn + ").Resume()"
			continue
		}
		v, err := b.conv.ToDelegate(p.Type, name)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// invoke returns the call of the delegate operation.
func (b *opBuilder) invoke() (string, error) {
	args, err := b.args()
	if err != nil {
		return "", err
	}
	var target string
	if b.op.Static {
		target = b.cc.namer.Pkg(b.cc.class.Package, b.op.Name)
	} else {
		target = b.cc.recv + ".delegate." + b.op.Name
	}
	return target + "(" + strings.Join(args, ", ") + ")", nil
}

// results returns the Go result list of the operation as called directly.
func (b *opBuilder) results() string {
	if b.op.Return.IsVoid() {
		return ""
	}
	return b.cc.namer.Wrapped(b.op.Return)
}

// returnValue converts call's result for the caller, memoizing it when the
// operation caches its return.
func (b *opBuilder) returnValue(call string) (string, error) {
	if b.op.Return.IsPublisher() {
		return "", &convert.UnsupportedConversion{Type: b.op.Return, Direction: convert.ToWrapped, Reason: "streams are only accepted as parameters"}
	}
	v, err := b.conv.ToWrapped(b.op.Return, call)
	if err != nil {
		return "", err
	}
	if !b.op.CacheReturn {
		return v, nil
	}
	if b.op.Static && b.typeParams != "" {
		return "", &convert.UnsupportedConversion{Type: b.op.Return, Direction: convert.ToWrapped, Reason: "package caches cannot hold class type parameters"}
	}
	cache := b.cacheSlot()
	return cache + ".Get(func() " + b.results() + " {\nreturn " + v + "\n})", nil
}

// cacheSlot declares the cache of the operation and returns a reference to
// it: a field for instance operations, a package variable for statics.
func (b *opBuilder) cacheSlot() string {
	cc := b.cc
	typ := cc.namer.Runtime("Cache") + "[" + b.results() + "]"
	if b.op.Static {
		name := cc.pkg.New(naming.Unexported(naming.Static(cc.class.Name, b.op.Name)) + "Cache")
		cc.statics = append(cc.statics, &gosrc.Var{Name: name, Type: typ})
		return name
	}
	name := cc.members.New(naming.CacheField(cc.caches))
	cc.caches++
	cc.fields.Fields = append(cc.fields.Fields, gosrc.Field{Name: name, Type: typ})
	return cc.recv + "." + name
}

func (b *opBuilder) doc() string {
	doc := b.op.Doc.Text()
	if b.op.Deprecated {
		note := b.op.DeprecatedNote
		if note == "" {
			note = "deprecated in the delegate API."
		}
		if doc != "" {
			doc += "\n\n"
		}
		doc += "Deprecated: " + note
	}
	return doc
}

func (b *opBuilder) declare(doc, name string, params []gosrc.Param, results string, exported bool, body ...string) {
	if b.op.Static {
		b.cc.statics = append(b.cc.statics, &gosrc.Func{
			Doc:        doc,
			Name:       name,
			TypeParams: b.typeParams,
			Params:     params,
			Results:    results,
			Body:       body,
		})
		return
	}
	b.cc.method(doc, name, params, results, body...)
	if exported {
		b.cc.exported(doc, name, params, results)
	}
}

// call returns a call of the function or method name declared for this
// operation.
func (b *opBuilder) call(name string, args []string) string {
	if b.op.Static {
		return name + b.typeArgs + "(" + strings.Join(args, ", ") + ")"
	}
	return b.cc.recv + "." + name + "(" + strings.Join(args, ", ") + ")"
}

func (b *opBuilder) plain(public string) error {
	call, err := b.invoke()
	if err != nil {
		return err
	}
	params := b.params(len(b.op.Params))
	switch {
	case b.op.Fluent:
		b.declare(b.doc(), public, params, b.results(), true, call, "return "+b.cc.recv)
	case b.op.Return.IsVoid():
		b.declare(b.doc(), public, params, "", true, call)
	default:
		v, err := b.returnValue(call)
		if err != nil {
			return err
		}
		b.declare(b.doc(), public, params, b.results(), true, "return "+v)
	}
	return nil
}

// callbackForm declares the unexported method with the delegate's
// callback signature. Its trailing handler is adapted by the converter.
// A fluent result is dropped; the exported entry point returns the
// receiver instead.
func (b *opBuilder) callbackForm(private string) error {
	call, err := b.invoke()
	if err != nil {
		return err
	}
	params := b.params(len(b.op.Params))
	if b.op.Fluent || b.op.Return.IsVoid() {
		b.declare("", private, params, "", false, call)
		return nil
	}
	v, err := b.conv.ToWrapped(b.op.Return, call)
	if err != nil {
		return err
	}
	b.declare("", private, params, b.results(), false, "return "+v)
	return nil
}

func (b *opBuilder) callbackEntry(public, private string) error {
	params := b.params(len(b.op.Params))
	call := b.call(private, b.conv.Params)
	switch {
	case b.op.Fluent:
		b.declare(b.doc(), public, params, b.results(), true, call, "return "+b.cc.recv)
	case b.op.Return.IsVoid():
		b.declare(b.doc(), public, params, "", true, call)
	default:
		b.declare(b.doc(), public, params, b.results(), true, "return "+call)
	}
	return nil
}

// futureForm declares the exported method without the trailing handler.
// It passes a promise to the callback form and returns its future without
// waiting for the delegate to complete.
func (b *opBuilder) futureForm(public, private string) error {
	n := len(b.op.Params) - 1
	result := b.op.Params[n].Type.Arg(0).Arg(0)
	typ := b.cc.namer.TypeArg(result, true)

	promise := b.scope.New("promise")
	args := append(append([]string{}, b.conv.Params[:n]...), promise+".Handle")
	call := b.call(private, args)
	if !b.op.Fluent && !b.op.Return.IsVoid() {
		call = "_ = " + call
	}
	b.declare(b.doc(), public, b.params(n), "*"+b.cc.namer.Runtime("Future")+"["+typ+"]", true,
		promise+" := "+b.cc.namer.Runtime("NewPromise")+"["+typ+"]()",
		call,
		"return "+promise+".Future()",
	)
	return nil
}
