package synth

import (
	"github.com/cockroachdb/errors"

	"github.com/broady/axle/axlegen/convert"
	"github.com/broady/axle/axlegen/gosrc"
	"github.com/broady/axle/axlegen/model"
	"github.com/broady/axle/axlegen/naming"
)

// declareConstants emits one package variable per constant, holding the
// wrapped form of the delegate package's value.
func (cc *classContext) declareConstants() error {
	for _, k := range cc.class.Constants {
		conv := cc.converter(nil, cc.localScope(true))
		conv.Receiver = ""
		v, err := conv.ToWrapped(k.Type, cc.namer.Pkg(cc.class.Package, k.Name))
		if err != nil {
			return errors.Wrapf(err, "%s.%s", cc.class.QualifiedName(), k.Name)
		}
		cc.file.Add(&gosrc.Var{
			Doc:   k.Doc.Text(),
			Name:  cc.pkg.New(naming.Static(cc.class.Name, k.Name)),
			Value: v,
		})
	}
	return nil
}

// declareIdentity forwards String, Equal and HashCode to the delegate's
// identity unless the class declares them itself.
func (cc *classContext) declareIdentity() {
	n := cc.namer
	if !cc.declares("String") {
		cc.members.Reserve("String")
		cc.method("", "String", nil, "string", "return "+n.Pkg("fmt", "Sprint")+"("+cc.recv+".delegate)")
		cc.exported("", "String", nil, "string")
	}
	if !cc.declares("Equal", model.Object()) {
		cc.members.Reserve("Equal")
		params := []gosrc.Param{{Name: "o", Type: "any"}}
		cc.method("Equal reports whether o wraps the same delegate.", "Equal", params, "bool",
			"return "+n.Runtime("SameDelegate")+"("+cc.recv+", o)")
		cc.exported("", "Equal", params, "bool")
	}
	if !cc.declares("HashCode") {
		cc.members.Reserve("HashCode")
		cc.method("", "HashCode", nil, "uint64", "return "+n.Runtime("IdentityHash")+"("+cc.recv+".delegate)")
		cc.exported("", "HashCode", nil, "uint64")
	}
}

// declareCapabilities emits the adapters of the class's structural traits.
// Each is skipped when the class already declares an operation of the
// same name.
func (cc *classContext) declareCapabilities() error {
	caps := cc.class.Capabilities
	n := cc.namer
	if elem := caps.Iterable; elem != nil && !cc.declares("Iterator") {
		conv := cc.converter(nil, cc.localScope(false))
		it := cc.recv + ".delegate.Iterator()"
		if !conv.IsSameType(elem) {
			fn, err := conv.Func(elem, convert.ToWrapped)
			if err != nil {
				return err
			}
			it = n.Runtime("NewMappingIterator") + "(" + it + ", " + fn + ")"
		}
		results := n.Runtime("Iterator") + "[" + n.TypeArg(elem, true) + "]"
		cc.members.Reserve("Iterator")
		cc.method("Iterator returns an iterator over the elements of the delegate.", "Iterator", nil, results, "return "+it)
		cc.exported("", "Iterator", nil, results)

		if !cc.declares("All") {
			seq := n.Pkg("iter", "Seq") + "[" + n.TypeArg(elem, true) + "]"
			cc.members.Reserve("All")
			cc.method("All returns the elements of the delegate as a sequence.", "All", nil, seq,
				"return "+n.Runtime("Seq")+"("+cc.recv+".Iterator())")
			cc.exported("", "All", nil, seq)
		}
	}

	if elem := caps.Iterator; elem != nil {
		if !cc.declares("HasNext") {
			cc.members.Reserve("HasNext")
			cc.method("", "HasNext", nil, "bool", "return "+cc.recv+".delegate.HasNext()")
			cc.exported("", "HasNext", nil, "bool")
		}
		if !cc.declares("Next") {
			conv := cc.converter(nil, cc.localScope(false))
			v, err := conv.ToWrapped(elem, cc.recv+".delegate.Next()")
			if err != nil {
				return err
			}
			results := n.TypeArg(elem, true)
			cc.members.Reserve("Next")
			cc.method("", "Next", nil, results, "return "+v)
			cc.exported("", "Next", nil, results)
		}
	}

	if fn := caps.Function; fn != nil && !cc.declares("Apply", nil) {
		scope := cc.localScope(false)
		conv := cc.converter(nil, scope)
		arg := scope.New("arg")
		in, err := conv.ToDelegate(fn.Arg, arg)
		if err != nil {
			return err
		}
		params := []gosrc.Param{{Name: arg, Type: n.TypeArg(fn.Arg, true)}}
		cc.members.Reserve("Apply")
		call := cc.recv + ".delegate.Apply(" + in + ")"
		if fn.Result.IsVoid() {
			cc.method("", "Apply", params, "", call)
			cc.exported("", "Apply", params, "")
		} else {
			out, err := conv.ToWrapped(fn.Result, call)
			if err != nil {
				return err
			}
			results := n.TypeArg(fn.Result, true)
			cc.method("", "Apply", params, results, "return "+out)
			cc.exported("", "Apply", params, results)
		}
	}

	if elem := caps.ReadStream; elem != nil && !cc.declares("Subscribe", nil) {
		conv := cc.converter(nil, cc.localScope(false))
		fn, err := conv.Func(elem, convert.ToWrapped)
		if err != nil {
			return err
		}
		params := []gosrc.Param{{Name: "ctx", Type: n.Pkg("context", "Context")}}
		results := n.Pkg("iter", "Seq2") + "[" + n.TypeArg(elem, true) + ", error]"
		cc.members.Reserve("Subscribe")
		cc.method("Subscribe resumes the delegate stream and yields its elements until it\n"+
			"ends, fails or ctx is done.", "Subscribe", params, results,
			"return "+n.Runtime("Subscribe")+"["+n.TypeArg(elem, false)+", "+n.TypeArg(elem, true)+"](ctx, "+cc.recv+".delegate, "+fn+")")
		cc.exported("", "Subscribe", params, results)
	}

	if elem := caps.Handler; elem != nil && !cc.declares("AsHandler") && cc.hasHandle(elem) {
		results := n.Runtime("Handler") + "[" + n.TypeArg(elem, true) + "]"
		cc.members.Reserve("AsHandler")
		cc.method("AsHandler returns Handle as a handler value.", "AsHandler", nil, results, "return "+cc.recv+".Handle")
		cc.exported("", "AsHandler", nil, results)
	}
	return nil
}

// hasHandle reports whether a resolved operation becomes a Handle method
// taking one event of type elem.
func (cc *classContext) hasHandle(elem *model.TypeRef) bool {
	for _, op := range cc.ops {
		if !op.Static && naming.Exported(op.Name) == "Handle" && len(op.Params) == 1 &&
			op.Params[0].Type.Equal(elem) && op.Return.IsVoid() {
			return true
		}
	}
	return false
}
