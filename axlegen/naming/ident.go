package naming

import (
	"go/token"
	"path"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Exported upper-cases the first rune of name.
func Exported(name string) string {
	r, n := utf8.DecodeRuneInString(name)
	if n == 0 {
		return name
	}
	return string(unicode.ToUpper(r)) + name[n:]
}

// Unexported lower-cases the leading run of upper-case runes, keeping the
// last one of a run followed by a lower-case rune: "URLPath" becomes
// "urlPath", "Send" becomes "send".
func Unexported(name string) string {
	runes := []rune(name)
	for i := range runes {
		if !unicode.IsUpper(runes[i]) {
			break
		}
		if i > 0 && i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
			break
		}
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}

// SnakeCase converts a Go identifier to snake_case for file names.
func SnakeCase(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) || i+1 < len(runes) && unicode.IsLower(runes[i+1])) {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// PackageName guesses the package name declared at an import path: the
// last element, skipping major version suffixes and dropping characters
// that are not valid in identifiers.
func PackageName(importPath string) string {
	base := path.Base(importPath)
	if len(base) > 1 && base[0] == 'v' {
		if _, err := strconv.Atoi(base[1:]); err == nil {
			base = path.Base(path.Dir(importPath))
		}
	}
	base = strings.TrimPrefix(base, "go-")
	base = strings.TrimSuffix(base, ".go")
	var b strings.Builder
	for _, r := range base {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) && b.Len() > 0 {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	if b.Len() == 0 {
		return "pkg"
	}
	return b.String()
}

var predeclared = map[string]bool{
	"any": true, "bool": true, "byte": true, "comparable": true, "complex64": true,
	"complex128": true, "error": true, "float32": true, "float64": true, "int": true,
	"int8": true, "int16": true, "int32": true, "int64": true, "rune": true,
	"string": true, "uint": true, "uint8": true, "uint16": true, "uint32": true,
	"uint64": true, "uintptr": true, "true": true, "false": true, "iota": true,
	"nil": true, "append": true, "cap": true, "clear": true, "close": true,
	"complex": true, "copy": true, "delete": true, "imag": true, "len": true,
	"make": true, "max": true, "min": true, "new": true, "panic": true,
	"print": true, "println": true, "real": true, "recover": true,
}

// MethodIdent returns name, suffixed with an underscore if it is a Go
// keyword. Method names are always selected, so predeclared names are fine.
func MethodIdent(name string) string {
	if token.IsKeyword(name) {
		return name + "_"
	}
	return name
}

// SafeIdent returns name, suffixed with an underscore if it is a Go keyword
// or shadows a predeclared identifier.
func SafeIdent(name string) string {
	if token.IsKeyword(name) || predeclared[name] {
		return name + "_"
	}
	if !token.IsIdentifier(name) {
		var b strings.Builder
		for _, r := range name {
			if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) && b.Len() > 0 {
				b.WriteRune(r)
			}
		}
		if b.Len() == 0 {
			return "arg"
		}
		return b.String()
	}
	return name
}

// Scope allocates identifiers that are unique within one Go scope.
// A repeated name gets a numeric suffix: send, send2, send3.
type Scope struct {
	used map[string]bool
}

// NewScope returns a scope with the given names already taken.
func NewScope(reserved ...string) *Scope {
	s := &Scope{used: make(map[string]bool)}
	for _, r := range reserved {
		s.used[r] = true
	}
	return s
}

// Reserve marks names as taken without allocating them.
func (s *Scope) Reserve(names ...string) {
	for _, n := range names {
		s.used[n] = true
	}
}

// Taken reports whether name is already in use.
func (s *Scope) Taken(name string) bool { return s.used[name] }

// New allocates name, or the first free numbered variant of it.
func (s *Scope) New(name string) string {
	if !s.used[name] {
		s.used[name] = true
		return name
	}
	for i := 2; ; i++ {
		n := name + strconv.Itoa(i)
		if !s.used[n] {
			s.used[n] = true
			return n
		}
	}
}

// Fork returns a child scope that sees every name taken in s.
// Names allocated in the child do not leak back.
func (s *Scope) Fork() *Scope {
	c := &Scope{used: make(map[string]bool, len(s.used))}
	for n := range s.used {
		c.used[n] = true
	}
	return c
}
