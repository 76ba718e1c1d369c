package model

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(validateTypeRef, TypeRef{})
	v.RegisterStructValidation(validateOperation, Operation{})
	return v
}

// ModelError describes one malformed element of a class model.
type ModelError struct {
	// Class is the qualified name of the class being validated.
	Class string

	// Field is the path to the offending element, e.g.
	// "Operations[2].Params[0].Type.Args".
	Field string

	// Reason is a human-readable description of the violation.
	Reason string
}

func (e *ModelError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("model %s: %s", e.Class, e.Reason)
	}
	return fmt.Sprintf("model %s: %s: %s", e.Class, e.Field, e.Reason)
}

// ModelErrors aggregates every violation found in one class.
type ModelErrors []*ModelError

func (es ModelErrors) Error() string {
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Unwrap exposes the individual errors to errors.As.
func (es ModelErrors) Unwrap() []error {
	out := make([]error, len(es))
	for i, e := range es {
		out[i] = e
	}
	return out
}

// Validate checks the class for shape violations: arity mismatches,
// missing owners, undeclared type variables and dangling token bindings.
// It returns nil or a ModelErrors holding every violation found.
func (c *Class) Validate() error {
	var errs ModelErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, &ModelError{Class: c.QualifiedName(), Field: field, Reason: fmt.Sprintf(format, args...)})
	}

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return errors.Wrapf(err, "validate %s", c.QualifiedName())
		}
		for _, fe := range verrs {
			field := strings.TrimPrefix(fe.Namespace(), "Class.")
			add(field, "%s", describe(fe))
		}
	}

	if dup := firstDuplicate(c.TypeParams); dup != "" {
		add("TypeParams", "duplicate type parameter %q", dup)
	}
	if s := c.ConcreteSuper; s != nil && (s.Kind != KindAPI || s.Interface) {
		add("ConcreteSuper", "must be a concrete api type, got %s", s)
	}
	for i, s := range c.AbstractSupers {
		if s != nil && s.Kind != KindAPI {
			add(fmt.Sprintf("AbstractSupers[%d]", i), "must be an api type, got %s", s)
		}
	}

	for i, op := range c.Operations {
		if op == nil {
			continue
		}
		path := fmt.Sprintf("Operations[%d]", i)
		check := func(field string, t *TypeRef) {
			t.Walk(func(t *TypeRef) bool {
				if t.Kind != KindVariable || op.IsTypeParam(t.Name) {
					return true
				}
				idx := slices.Index(c.TypeParams, t.Name)
				switch {
				case idx < 0:
					add(field, "undeclared type variable %s", t.Name)
				case t.ClassParam && t.Index != idx:
					add(field, "type variable %s has index %d, declared at %d", t.Name, t.Index, idx)
				}
				return true
			})
		}
		for j, p := range op.Params {
			if p != nil {
				check(fmt.Sprintf("%s.Params[%d].Type", path, j), p.Type)
			}
		}
		check(path+".Return", op.Return)
		if dup := firstDuplicate(op.TypeParams); dup != "" {
			add(path+".TypeParams", "duplicate type parameter %q", dup)
		}
		for j, b := range op.TypeArgs {
			field := fmt.Sprintf("%s.TypeArgs[%d]", path, j)
			if !op.IsTypeParam(b.TypeParam) {
				add(field, "binds undeclared type parameter %q", b.TypeParam)
			}
			if b.Param >= len(op.Params) || op.Params[b.Param] == nil {
				add(field, "parameter index %d out of range", b.Param)
				continue
			}
			pt := op.Params[b.Param].Type
			switch {
			case pt == nil:
			case b.ClassType && pt.Kind != KindClassType:
				add(field, "parameter %d is %s, not a class type", b.Param, pt)
			case !b.ClassType && (pt.Kind != KindAPI || b.Index >= len(pt.Args)):
				add(field, "parameter %d (%s) has no type argument %d", b.Param, pt, b.Index)
			}
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func validateTypeRef(sl validator.StructLevel) {
	t := sl.Current().Interface().(TypeRef)
	if !t.Kind.Valid() {
		sl.ReportError(t.Kind, "Kind", "Kind", "kind", "")
		return
	}
	if n := t.Kind.Arity(); n >= 0 && len(t.Args) != n {
		sl.ReportError(t.Args, "Args", "Args", "arity", strconv.Itoa(n))
	}
	switch t.Kind {
	case KindBasic, KindVariable, KindAPI, KindEnum, KindDataObject, KindJSON, KindOther:
		if t.Name == "" {
			sl.ReportError(t.Name, "Name", "Name", "required", "")
		}
	}
	if t.Kind == KindAPI && t.Package == "" {
		sl.ReportError(t.Package, "Package", "Package", "required", "")
	}
}

func validateOperation(sl validator.StructLevel) {
	op := sl.Current().Interface().(Operation)
	if op.Fluent && op.Return.IsVoid() {
		sl.ReportError(op.Return, "Return", "Return", "fluent", "")
	}
	if op.Fluent && op.Static {
		sl.ReportError(op.Static, "Static", "Static", "fluent", "")
	}
	if op.CacheReturn && op.Return.IsVoid() {
		sl.ReportError(op.Return, "Return", "Return", "cache", "")
	}
}

// describe converts a validator.FieldError to a human-readable reason.
func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "min":
		return fmt.Sprintf("must have at least %s element(s)", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "kind":
		return fmt.Sprintf("invalid kind %v", fe.Value())
	case "arity":
		return fmt.Sprintf("requires exactly %s type argument(s)", fe.Param())
	case "fluent":
		return "fluent operations must be non-static and return a value"
	case "cache":
		return "cache-return operations must return a value"
	default:
		return "failed " + fe.Tag()
	}
}

func firstDuplicate(names []string) string {
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n] {
			return n
		}
		seen[n] = true
	}
	return ""
}
