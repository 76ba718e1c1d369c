package resolve

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/broady/axle/axlegen/model"
)

const (
	self  = "example.com/core.Conn"
	super = "example.com/core.Stream"
)

var str = model.Basic("string")

func op(name string, owners []string, params ...*model.TypeRef) *model.Operation {
	o := &model.Operation{Name: name, Owners: owners}
	for i, p := range params {
		o.Params = append(o.Params, &model.Param{Name: string(rune('a' + i)), Type: p})
	}
	return o
}

func owned(name string, params ...*model.TypeRef) *model.Operation {
	return op(name, []string{self}, params...)
}

func inherited(name string, params ...*model.TypeRef) *model.Operation {
	return op(name, []string{super}, params...)
}

func class(ops ...*model.Operation) *model.Class {
	return &model.Class{Name: "Conn", Package: "example.com/core", Concrete: true, Operations: ops}
}

func names(ops []*model.Operation) []string {
	out := make([]string, len(ops))
	for i, o := range ops {
		out[i] = o.Name + "/" + Classify(o).String()
	}
	return out
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		op   *model.Operation
		want Shape
	}{
		{"no params", owned("close"), Plain},
		{"plain params", owned("write", str, model.Basic("int")), Plain},
		{"handler", owned("handler", model.HandlerOf(str)), Callback},
		{"result handler", owned("send", str, model.ResultHandlerOf(str)), Future},
		{"result handler not last", owned("send", model.ResultHandlerOf(str), str), Plain},
		{"handler of list of results", owned("h", model.HandlerOf(model.ListOf(model.AsyncResultOf(str)))), Callback},
		{"async result param", owned("h", model.AsyncResultOf(str)), Plain},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.op))
		})
	}
}

func TestClassify_IgnoresName(t *testing.T) {
	a := owned("sendAsync", str)
	b := owned("send", str, model.ResultHandlerOf(str))
	assert.Equal(t, Plain, Classify(a))
	assert.Equal(t, Future, Classify(b))
}

func TestOverriddenBy(t *testing.T) {
	f := owned("m", str, model.ResultHandlerOf(str))
	assert.True(t, OverriddenBy(owned("m", str), f))
	assert.False(t, OverriddenBy(owned("m", model.Basic("int")), f), "positional type mismatch")
	assert.False(t, OverriddenBy(owned("n", str), f), "name mismatch")
	assert.False(t, OverriddenBy(owned("m"), f), "arity mismatch")
	assert.False(t, OverriddenBy(f, owned("m", str)), "relation is directional")
}

func TestResolve_PrefersFuture(t *testing.T) {
	c := owned("m", str)
	f := owned("m", str, model.ResultHandlerOf(model.Void()))

	res := Resolve(class(c, f))

	require.Len(t, res.Operations, 1)
	assert.Same(t, f, res.Operations[0])
	require.Len(t, res.Dropped, 1)
	assert.Same(t, c, res.Dropped[0].Op)
	assert.Equal(t, SubsumedCallback, res.Dropped[0].Reason)
	assert.Same(t, f, res.Dropped[0].By)
}

func TestResolve_CallbackSubsumed(t *testing.T) {
	c := owned("exec", str, model.HandlerOf(str))
	f := owned("exec", str, model.HandlerOf(str), model.ResultHandlerOf(model.Void()))

	res := Resolve(class(c, f))
	assert.Equal(t, []string{"exec/future"}, names(res.Operations))
}

func TestResolve_Cases(t *testing.T) {
	tests := []struct {
		name    string
		ops     func() []*model.Operation
		want    []string
		dropped []Reason
	}{
		{
			name: "unrelated operations pass through in order",
			ops: func() []*model.Operation {
				return []*model.Operation{
					owned("b", str),
					owned("a", model.ResultHandlerOf(str)),
					owned("c", model.HandlerOf(str)),
				}
			},
			want: []string{"b/plain", "a/future", "c/callback"},
		},
		{
			name: "owned future over inherited plain drops both",
			ops: func() []*model.Operation {
				return []*model.Operation{
					inherited("m", str),
					owned("m", str, model.ResultHandlerOf(str)),
				}
			},
			want:    []string{},
			dropped: []Reason{SubsumedCallback, ConflictingFuture},
		},
		{
			name: "inherited future over inherited plain sharing an owner drops both",
			ops: func() []*model.Operation {
				return []*model.Operation{
					inherited("m", str),
					inherited("m", str, model.ResultHandlerOf(str)),
				}
			},
			want:    []string{},
			dropped: []Reason{SubsumedCallback, ConflictingFuture},
		},
		{
			name: "inherited future over plain from a disjoint owner keeps future",
			ops: func() []*model.Operation {
				return []*model.Operation{
					op("m", []string{"example.com/core.Other"}, str),
					inherited("m", str, model.ResultHandlerOf(str)),
				}
			},
			want:    []string{"m/future"},
			dropped: []Reason{SubsumedCallback},
		},
		{
			name: "inherited plain is subsumed by owned future and owned plain by inherited future",
			ops: func() []*model.Operation {
				return []*model.Operation{
					owned("x", str),
					op("x", []string{super, "example.com/core.Other"}, str, model.ResultHandlerOf(str)),
				}
			},
			want:    []string{"x/future"},
			dropped: []Reason{SubsumedCallback},
		},
		{
			name: "overloads with different types are independent",
			ops: func() []*model.Operation {
				return []*model.Operation{
					owned("m", model.Basic("int")),
					owned("m", str, model.ResultHandlerOf(str)),
				}
			},
			want: []string{"m/plain", "m/future"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Resolve(class(tt.ops()...))
			got := names(res.Operations)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
			} else {
				assert.Equal(t, tt.want, got)
			}
			var reasons []Reason
			for _, d := range res.Dropped {
				reasons = append(reasons, d.Reason)
			}
			assert.Equal(t, tt.dropped, reasons)
		})
	}
}

func TestResolve_Idempotent(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	types := []*model.TypeRef{str, model.Basic("int"), model.ListOf(str)}
	ownerSets := [][]string{{self}, {super}, {self, super}, {"example.com/core.Other"}}

	for i := range 200 {
		var ops []*model.Operation
		for range 1 + rng.IntN(8) {
			var params []*model.TypeRef
			for range rng.IntN(3) {
				params = append(params, types[rng.IntN(len(types))])
			}
			switch rng.IntN(3) {
			case 1:
				params = append(params, model.HandlerOf(str))
			case 2:
				params = append(params, model.ResultHandlerOf(str))
			}
			name := []string{"m", "n"}[rng.IntN(2)]
			ops = append(ops, op(name, ownerSets[rng.IntN(len(ownerSets))], params...))
		}

		once := Resolve(class(ops...))
		twice := Resolve(class(once.Operations...))
		require.Equal(t, once.Operations, twice.Operations, "iteration %d", i)
		require.Empty(t, twice.Dropped, "iteration %d", i)
	}
}
