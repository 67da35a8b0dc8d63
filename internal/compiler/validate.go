package compiler

import (
	"fmt"
	"strings"

	"github.com/roach88/bindgen/internal/emit"
	"github.com/roach88/bindgen/internal/ir"
	"github.com/roach88/bindgen/internal/pyast"
)

// Validation error codes (E100-E199)
const (
	ErrNamespaceEmpty      = "E101" // namespace is required
	ErrInvalidIdentifier   = "E102" // not a usable Python identifier
	ErrDuplicateName       = "E103" // duplicate top-level or member name
	ErrDuplicateVariant    = "E104" // duplicate enum variant
	ErrEmptyEnum           = "E105" // enum without variants
	ErrDuplicateParameter  = "E106" // duplicate field or argument name
	ErrUnresolvedType      = "E107" // named type does not exist or has another kind
	ErrRecursiveRecord     = "E108" // record contains itself without an optional
	ErrDuplicateEntryPoint = "E109" // two operations derive the same native symbol
	ErrReservedName        = "E110" // name is used by the generated module
	ErrShadowedName        = "E111" // argument hides a top-level name
)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks a compiled interface against the naming and reference
// rules the emitter relies on. Returns all errors found (does not fail-fast).
//
// Marshaling support is not checked here: an interface can be valid and
// still use kinds the emitter rejects.
func Validate(ci *ir.ComponentInterface) []ValidationError {
	v := &validator{ci: ci, top: topLevelNames(ci)}

	if strings.TrimSpace(ci.Namespace) == "" {
		v.add("namespace", ErrNamespaceEmpty, "namespace is required and must be non-empty")
	} else {
		v.ident("namespace", ci.Namespace)
	}

	top := make(map[string]string)
	declare := func(field, kind, name string) {
		v.ident(field, name)
		if emit.IsReserved(name) || emit.IsLocal(name) {
			v.add(field, ErrReservedName, fmt.Sprintf("%s %q is used by the generated module", kind, name))
		}
		if prev, ok := top[name]; ok {
			v.add(field, ErrDuplicateName, fmt.Sprintf("%s %q already declared as %s", kind, name, prev))
			return
		}
		top[name] = kind
	}

	for i, e := range ci.Enums {
		field := fmt.Sprintf("enums[%d]", i)
		declare(field+".name", "enum", e.Name)
		if len(e.Variants) == 0 {
			v.add(field+".variants", ErrEmptyEnum, fmt.Sprintf("enum %q has no variants", e.Name))
		}
		seen := make(map[string]bool)
		for j, variant := range e.Variants {
			vf := fmt.Sprintf("%s.variants[%d]", field, j)
			v.ident(vf, variant)
			if seen[variant] {
				v.add(vf, ErrDuplicateVariant, fmt.Sprintf("duplicate variant %q in enum %q", variant, e.Name))
			}
			seen[variant] = true
		}
	}

	for i, r := range ci.Records {
		field := fmt.Sprintf("records[%d]", i)
		declare(field+".name", "record", r.Name)
		seen := make(map[string]bool)
		for j, f := range r.Fields {
			ff := fmt.Sprintf("%s.fields[%d]", field, j)
			v.ident(ff+".name", f.Name)
			if f.Name == "self" {
				v.add(ff+".name", ErrReservedName, `"self" is reserved`)
			}
			if seen[f.Name] {
				v.add(ff+".name", ErrDuplicateParameter, fmt.Sprintf("duplicate field %q in record %q", f.Name, r.Name))
			}
			seen[f.Name] = true
			v.typeRef(ff+".type", f.Type)
		}
	}

	for i, fn := range ci.Functions {
		field := fmt.Sprintf("functions[%d]", i)
		declare(field+".name", "function", fn.Name)
		v.callable(field, fn.Arguments, fn.ReturnType)
	}

	for i, obj := range ci.Objects {
		field := fmt.Sprintf("objects[%d]", i)
		declare(field+".name", "object", obj.Name)

		members := make(map[string]bool)
		for j, ctor := range obj.Constructors {
			cf := fmt.Sprintf("%s.constructors[%d]", field, j)
			v.ident(cf+".name", ctor.Name)
			if members[ctor.Name] {
				v.add(cf+".name", ErrDuplicateName, fmt.Sprintf("duplicate member %q in object %q", ctor.Name, obj.Name))
			}
			members[ctor.Name] = true
			v.callable(cf, ctor.Arguments, nil)
		}
		for j, m := range obj.Methods {
			mf := fmt.Sprintf("%s.methods[%d]", field, j)
			v.ident(mf+".name", m.Name)
			if members[m.Name] {
				v.add(mf+".name", ErrDuplicateName, fmt.Sprintf("duplicate member %q in object %q", m.Name, obj.Name))
			}
			members[m.Name] = true
			v.callable(mf, m.Arguments, m.ReturnType)
		}
	}

	v.entryPoints()

	for _, cycle := range RecordCycles(ci) {
		v.add("records", ErrRecursiveRecord,
			fmt.Sprintf("record contains itself: %s", strings.Join(cycle, " -> ")))
	}

	return v.errs
}

type validator struct {
	ci   *ir.ComponentInterface
	top  map[string]bool
	errs []ValidationError
}

func topLevelNames(ci *ir.ComponentInterface) map[string]bool {
	top := make(map[string]bool)
	for _, e := range ci.Enums {
		top[e.Name] = true
	}
	for _, r := range ci.Records {
		top[r.Name] = true
	}
	for _, fn := range ci.Functions {
		top[fn.Name] = true
	}
	for _, obj := range ci.Objects {
		top[obj.Name] = true
	}
	return top
}

func (v *validator) add(field, code, msg string) {
	v.errs = append(v.errs, ValidationError{Field: field, Message: msg, Code: code})
}

// ident rejects names that cannot be used verbatim in the generated module.
func (v *validator) ident(field, name string) {
	switch {
	case name == "":
		v.add(field, ErrInvalidIdentifier, "name is required")
	case pyast.IsKeyword(name):
		v.add(field, ErrInvalidIdentifier, fmt.Sprintf("%q is a Python keyword", name))
	case !pyast.IsIdentifier(name):
		v.add(field, ErrInvalidIdentifier, fmt.Sprintf("%q is not a valid identifier", name))
	case strings.HasPrefix(name, "_"):
		v.add(field, ErrInvalidIdentifier, fmt.Sprintf("%q must not start with an underscore", name))
	}
}

func (v *validator) callable(field string, args []ir.Argument, ret ir.Type) {
	seen := make(map[string]bool)
	for i, a := range args {
		af := fmt.Sprintf("%s.args[%d]", field, i)
		v.ident(af+".name", a.Name)
		switch {
		case a.Name == "self":
			v.add(af+".name", ErrReservedName, `"self" is reserved`)
		case emit.IsReserved(a.Name):
			v.add(af+".name", ErrReservedName, fmt.Sprintf("argument %q is used by the generated module", a.Name))
		case v.top[a.Name]:
			v.add(af+".name", ErrShadowedName, fmt.Sprintf("argument %q hides the top-level %q", a.Name, a.Name))
		}
		if seen[a.Name] {
			v.add(af+".name", ErrDuplicateParameter, fmt.Sprintf("duplicate argument %q", a.Name))
		}
		seen[a.Name] = true
		v.typeRef(af+".type", a.Type)
	}
	if ret != nil {
		v.typeRef(field+".returns", ret)
	}
}

// entryPoints rejects operations whose native symbols collide with each
// other or with the buffer helpers. Symbols are lowercased, so Counter.new
// and a function counter_new meet on the same name.
func (v *validator) entryPoints() {
	owners := map[string]string{
		v.ci.BufferAlloc().Name: "the buffer allocator",
		v.ci.BufferFree().Name:  "the buffer release",
	}
	claim := func(field, owner string, ffi ir.FFIFunction) {
		if ffi.Name == "" {
			return
		}
		if prev, ok := owners[ffi.Name]; ok {
			v.add(field, ErrDuplicateEntryPoint, fmt.Sprintf("entry point %q already used by %s", ffi.Name, prev))
			return
		}
		owners[ffi.Name] = owner
	}

	for i, fn := range v.ci.Functions {
		claim(fmt.Sprintf("functions[%d].ffi_func", i), fmt.Sprintf("function %s", fn.Name), fn.FFIFunc)
	}
	for i, obj := range v.ci.Objects {
		for j, ctor := range obj.Constructors {
			claim(fmt.Sprintf("objects[%d].constructors[%d].ffi_func", i, j), fmt.Sprintf("%s.%s", obj.Name, ctor.Name), ctor.FFIFunc)
		}
		for j, m := range obj.Methods {
			claim(fmt.Sprintf("objects[%d].methods[%d].ffi_func", i, j), fmt.Sprintf("%s.%s", obj.Name, m.Name), m.FFIFunc)
		}
	}
}

// typeRef checks that every named type inside t exists with the same kind.
func (v *validator) typeRef(field string, t ir.Type) {
	if t == nil {
		v.add(field, ErrUnresolvedType, "type is required")
		return
	}
	ir.Walk(t, func(t ir.Type) {
		var ok bool
		switch n := t.(type) {
		case ir.Enum:
			_, ok = v.ci.Enum(n.Name)
		case ir.Record:
			_, ok = v.ci.Record(n.Name)
		case ir.Object:
			_, ok = v.ci.Object(n.Name)
		default:
			return
		}
		if !ok {
			v.add(field, ErrUnresolvedType, fmt.Sprintf("%s is not declared", t))
		}
	})
}
