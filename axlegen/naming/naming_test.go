package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/broady/axle/axlegen/model"
)

func TestParseDialect(t *testing.T) {
	tests := []struct {
		in        string
		id        string
		translate string
		runtime   string
	}{
		{"", "async", "example.com/core/async", DefaultRuntime},
		{"rx", "rx", "example.com/core/rx", DefaultRuntime},
		{"rx?suffix=reactive", "rx", "example.com/core/reactive", DefaultRuntime},
		{"rx?runtime=example.com/rt", "rx", "example.com/core/rx", "example.com/rt"},
		{"rx?map=example.com/core=example.com/corerx", "rx", "example.com/corerx", DefaultRuntime},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, err := ParseDialect(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.id, d.ID)
			assert.Equal(t, tt.translate, d.Translate("example.com/core"))
			assert.Equal(t, tt.runtime, d.Runtime)
		})
	}
}

func TestParseDialect_Errors(t *testing.T) {
	for _, in := range []string{"Async", "9lives", "rx?bogus=1", "rx?map=nothing", "rx?%zz"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseDialect(in)
			assert.Error(t, err)
		})
	}
}

func TestDialect_String(t *testing.T) {
	d := MustParseDialect("rx?suffix=reactive&map=a=b")
	again, err := ParseDialect(d.String())
	require.NoError(t, err)
	assert.Equal(t, d.Suffix, again.Suffix)
	assert.Equal(t, d.Map, again.Map)
	assert.Equal(t, "async", MustParseDialect("").String())
}

func TestIdentifiers(t *testing.T) {
	assert.Equal(t, "GetName", Exported("getName"))
	assert.Equal(t, "send", Unexported("Send"))
	assert.Equal(t, "urlPath", Unexported("URLPath"))
	assert.Equal(t, "id", Unexported("ID"))
	assert.Equal(t, "read_stream", SnakeCase("ReadStream"))
	assert.Equal(t, "http_client", SnakeCase("HTTPClient"))
	assert.Equal(t, "type_", SafeIdent("type"))
	assert.Equal(t, "len_", SafeIdent("len"))
	assert.Equal(t, "name", SafeIdent("name"))
	assert.Equal(t, "import_", MethodIdent("import"))
	assert.Equal(t, "close", MethodIdent("close"))
}

func TestPackageName(t *testing.T) {
	assert.Equal(t, "axle", PackageName("github.com/broady/axle"))
	assert.Equal(t, "koanf", PackageName("github.com/knadh/koanf/v2"))
	assert.Equal(t, "isatty", PackageName("github.com/mattn/go-isatty"))
	assert.Equal(t, "myapi", PackageName("example.com/my-api"))
}

func TestScope(t *testing.T) {
	s := NewScope("delegate")
	assert.Equal(t, "delegate2", s.New("delegate"))
	assert.Equal(t, "send", s.New("send"))
	assert.Equal(t, "send2", s.New("send"))

	child := s.Fork()
	assert.Equal(t, "send3", child.New("send"))
	assert.False(t, s.Taken("send3"))
}

func TestImportSet(t *testing.T) {
	s := NewImportSet("example.com/core/async")
	assert.Equal(t, "", s.Add("example.com/core/async"))
	assert.Equal(t, "core", s.Add("example.com/core"))
	assert.Equal(t, "otherasync", s.Add("example.com/other/async"), "own package name is taken")
	assert.Equal(t, "core", s.Add("example.com/core"))
	assert.Equal(t, "altcore", s.Add("example.com/alt/core"))

	s.Reserve("reflect")
	assert.Equal(t, "stdreflect", s.Qualify("std/reflect", "Type")[:10])

	imports := s.Imports()
	require.Len(t, imports, 4)
	assert.Equal(t, Import{Path: "example.com/alt/core", Name: "altcore"}, imports[0])
	assert.Equal(t, Import{Path: "example.com/core"}, imports[1])
}

func TestNamer(t *testing.T) {
	n := NewNamer(MustParseDialect(""), "example.com/core")
	conn := model.API("example.com/core", "Conn")
	box := model.API("example.com/core", "Box", model.ClassVar("T", 0))
	other := model.API("example.com/other", "Peer")
	stream := &model.TypeRef{Kind: model.KindAPI, Package: "example.com/core", Name: "ReadStream", Interface: true, Args: []*model.TypeRef{model.Basic("string")}}

	tests := []struct {
		name     string
		t        *model.TypeRef
		delegate string
		wrapped  string
	}{
		{"basic", model.Basic("string"), "string", "string"},
		{"object", model.Object(), "any", "any"},
		{"class var", model.ClassVar("T", 0), "any", "T"},
		{"method var", model.Var("U"), "any", "any"},
		{"api", conn, "*core.Conn", "*Conn"},
		{"generic api", box, "*core.Box[any]", "*Box[T]"},
		{"foreign api", other, "*other.Peer", "*otherasync.Peer"},
		{"interface api", stream, "core.ReadStream[any]", "ReadStream[string]"},
		{"handler", model.HandlerOf(conn), "func(*core.Conn)", "func(*Conn)"},
		{"void handler", model.HandlerOf(model.Void()), "func()", "func()"},
		{"result handler", model.ResultHandlerOf(model.Void()), "func(axle.AsyncResult[struct{}])", "func(axle.AsyncResult[struct{}])"},
		{"list", model.ListOf(conn), "[]*core.Conn", "[]*Conn"},
		{"set", model.SetOf(model.Basic("string")), "map[string]struct{}", "map[string]struct{}"},
		{"map", model.MapOf(model.Basic("string"), conn), "map[string]*core.Conn", "map[string]*Conn"},
		{"function", model.FunctionOf(conn, model.Basic("int")), "func(*core.Conn) int", "func(*Conn) int"},
		{"class type", model.ClassTypeOf(conn), "reflect.Type", "axle.Class[*Conn]"},
		{"throwable", model.Throwable(), "error", "error"},
		{"data object", model.DataObject("example.com/core", "Options"), "*core.Options", "*core.Options"},
		{"enum", model.Enum("example.com/core", "Mode"), "core.Mode", "core.Mode"},
		{"publisher", model.SeqOf(conn), "axle.ReadStream[*core.Conn]", "iter.Seq[*Conn]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.delegate, n.Delegate(tt.t))
			assert.Equal(t, tt.wrapped, n.Wrapped(tt.t))
		})
	}

	paths := make(map[string]bool)
	for _, imp := range n.Imports.Imports() {
		paths[imp.Path] = true
	}
	assert.True(t, paths["example.com/core"])
	assert.True(t, paths["example.com/other/async"])
	assert.True(t, paths[DefaultRuntime])
	assert.True(t, paths["reflect"])
	assert.True(t, paths["iter"])
}

func TestTypeParams(t *testing.T) {
	assert.Equal(t, "", TypeParams(nil, nil))
	assert.Equal(t, "[K comparable, V any]", TypeParams([]string{"K", "V"}, map[string]bool{"K": true}))
	assert.Equal(t, "[K, V]", TypeArgs([]string{"K", "V"}))
}

func TestDeclNames(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{Factory("Conn"), "NewConn"},
		{FactoryOf("Box"), "NewBoxOf"},
		{TypeArgVar("Conn"), "ConnTypeArg"},
		{TypeArgFunc("Box"), "BoxTypeArgOf"},
		{ClassVar("Conn"), "ConnClass"},
		{TypeArgField(1), "typeArg1"},
		{TypeArgAccessor(0), "TypeArg0"},
		{Impl("ReadStream"), "readStreamImpl"},
		{Constructor("Conn"), "newConn"},
		{ConstructorWithTypeArgs("Box"), "newBoxWithTypeArgs"},
		{EmptyConstructor("Conn"), "NewEmptyConn"},
		{CacheField(2), "cached2"},
		{Static("Conn", "dial"), "ConnDial"},
		{Static("ConnPool", "NewConnPool"), "NewConnPool"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.got)
	}
}
