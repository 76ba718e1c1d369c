package model

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Kind identifies the shape of a type reference.
// The set is closed; converters switch over every member.
type Kind int

const (
	KindBasic       Kind = iota // Built-in scalar (string, int64, bool, []byte)
	KindObject                  // Untyped value (any)
	KindVariable                // Generic type parameter
	KindAPI                     // Type that is itself translated (wrapped API)
	KindHandler                 // Single-event callback: func(E)
	KindAsyncResult             // Completion outcome: axle.AsyncResult[E]
	KindList                    // Ordered collection: []E
	KindSet                     // Unordered unique collection: map[E]struct{}
	KindMap                     // Key-value mapping: map[K]V
	KindFunction                // Function value: func(A) R
	KindEnum                    // Enumeration type shared by both sides
	KindDataObject              // Plain data type shared by both sides
	KindClassType               // Type literal value
	KindThrowable               // error
	KindVoid                    // No value
	KindJSON                    // JSON document type
	KindOther                   // Anything else, passed through unchanged
)

var kindNames = [...]string{
	KindBasic:       "basic",
	KindObject:      "object",
	KindVariable:    "variable",
	KindAPI:         "api",
	KindHandler:     "handler",
	KindAsyncResult: "async_result",
	KindList:        "list",
	KindSet:         "set",
	KindMap:         "map",
	KindFunction:    "function",
	KindEnum:        "enum",
	KindDataObject:  "data_object",
	KindClassType:   "class_type",
	KindThrowable:   "throwable",
	KindVoid:        "void",
	KindJSON:        "json",
	KindOther:       "other",
}

// Kinds returns every kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, len(kindNames))
	for i := range kindNames {
		out[i] = Kind(i)
	}
	return out
}

// String returns the model file spelling of the kind.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Valid reports whether k is a member of the closed kind set.
func (k Kind) Valid() bool {
	return k >= 0 && int(k) < len(kindNames)
}

// Arity returns the fixed number of type arguments the kind requires,
// or -1 when the kind accepts any number (API types, Other).
func (k Kind) Arity() int {
	switch k {
	case KindHandler, KindAsyncResult, KindList, KindSet, KindClassType:
		return 1
	case KindMap, KindFunction:
		return 2
	case KindAPI, KindOther, KindEnum, KindDataObject:
		return -1
	default:
		return 0
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, errors.Newf("invalid kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
// Both "async_result" and "asyncresult" spellings are accepted.
func (k *Kind) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	s = strings.ReplaceAll(s, "-", "_")
	for i, name := range kindNames {
		if s == name || s == strings.ReplaceAll(name, "_", "") {
			*k = Kind(i)
			return nil
		}
	}
	switch s {
	case "primitive":
		*k = KindBasic
		return nil
	case "wrapped", "wrapped_api":
		*k = KindAPI
		return nil
	}
	return errors.Newf("unknown kind %q", string(text))
}
