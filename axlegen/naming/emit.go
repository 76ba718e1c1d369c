package naming

import (
	"strconv"
	"strings"
)

// Names of the declarations generated for every translated class. The
// converter refers to them when crossing into another class, so they are
// derived in one place.

// Factory returns the name of the nil-preserving constructor, "NewConn".
func Factory(class string) string { return "New" + class }

// FactoryOf returns the name of the constructor taking explicit type
// argument tokens, "NewBoxOf".
func FactoryOf(class string) string { return "New" + class + "Of" }

// TypeArgVar returns the name of the package-level token of a non-generic
// class, "ConnTypeArg".
func TypeArgVar(class string) string { return class + "TypeArg" }

// TypeArgFunc returns the name of the token constructor of a generic
// class, "BoxTypeArgOf".
func TypeArgFunc(class string) string { return class + "TypeArgOf" }

// ClassVar returns the name of the package-level class literal, "ConnClass".
func ClassVar(class string) string { return class + "Class" }

// TypeArgField returns the field holding the i-th class type argument token.
func TypeArgField(i int) string { return "typeArg" + strconv.Itoa(i) }

// TypeArgAccessor returns the exported accessor for the i-th token.
func TypeArgAccessor(i int) string { return "TypeArg" + strconv.Itoa(i) }

// Impl returns the name of the struct implementing an abstract class.
func Impl(class string) string { return Unexported(class) + "Impl" }

// Constructor returns the name of the unexported constructor taking only a
// delegate, "newConn".
func Constructor(class string) string { return "new" + class }

// ConstructorWithTypeArgs returns the name of the unexported constructor of
// a generic class taking a delegate and its tokens, "newBoxWithTypeArgs".
func ConstructorWithTypeArgs(class string) string { return "new" + class + "WithTypeArgs" }

// EmptyConstructor returns the name of the no-argument constructor used by
// injection frameworks, "NewEmptyConn".
func EmptyConstructor(class string) string { return "NewEmpty" + class }

// CacheField returns the name of the field memoizing the i-th cached
// operation of an instance.
func CacheField(i int) string { return "cached" + strconv.Itoa(i) }

// Static returns the exported name of a static operation of class, prefixed
// with the class name unless the operation already mentions it: "ConnDial"
// for Conn.Dial, "NewConnPool" for ConnPool.NewConnPool.
func Static(class, op string) string {
	op = Exported(op)
	if strings.Contains(op, class) {
		return op
	}
	return class + op
}
