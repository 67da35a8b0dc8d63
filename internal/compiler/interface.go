package compiler

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/bindgen/internal/ir"
)

//go:embed schema.cue
var schemaSrc string

// CompileInterface parses a CUE value into a ComponentInterface.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The value is the root of an interface definition:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`namespace: "geometry", record: Point: fields: [...]`)
//	ci, err := CompileInterface(v)
//
// The value is first checked against the embedded #Interface schema. Type
// expressions may name any enum, record or object of the same interface,
// regardless of declaration order.
func CompileInterface(v cue.Value) (*ir.ComponentInterface, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	if err := checkSchema(v); err != nil {
		return nil, err
	}

	ci := &ir.ComponentInterface{}

	nsVal := v.LookupPath(cue.ParsePath("namespace"))
	ns, err := nsVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	ci.Namespace = ns

	// Names first, so type expressions can refer forward.
	if ci.Enums, err = parseEnums(v); err != nil {
		return nil, err
	}
	recordVals, err := declare(v, "record", func(name string) {
		ci.Records = append(ci.Records, ir.RecordDefinition{Name: name})
	})
	if err != nil {
		return nil, err
	}
	objectVals, err := declare(v, "object", func(name string) {
		ci.Objects = append(ci.Objects, ir.ObjectDefinition{Name: name})
	})
	if err != nil {
		return nil, err
	}

	p := &parser{ci: ci}

	for i, rv := range recordVals {
		fields, err := p.arguments(rv.LookupPath(cue.ParsePath("fields")))
		if err != nil {
			return nil, err
		}
		for _, f := range fields {
			ci.Records[i].Fields = append(ci.Records[i].Fields, ir.Field(f))
		}
	}

	if ci.Functions, err = p.functions(v); err != nil {
		return nil, err
	}

	for i, ov := range objectVals {
		if err := p.object(&ci.Objects[i], ov); err != nil {
			return nil, err
		}
	}

	return ci, nil
}

func checkSchema(v cue.Value) error {
	schema := v.Context().CompileString(schemaSrc, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile interface schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Interface"))
	if err := def.Unify(v).Validate(cue.Concrete(true)); err != nil {
		return formatCUEError(err)
	}
	return nil
}

// parseEnums extracts enum definitions in declaration order.
func parseEnums(v cue.Value) ([]ir.EnumDefinition, error) {
	var enums []ir.EnumDefinition
	enumVal := v.LookupPath(cue.ParsePath("enum"))
	if !enumVal.Exists() {
		return enums, nil
	}

	iter, err := enumVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		variants, err := stringList(iter.Value())
		if err != nil {
			return nil, err
		}
		enums = append(enums, ir.EnumDefinition{Name: iter.Label(), Variants: variants})
	}
	return enums, nil
}

// declare calls add for every field label under section and returns the
// field values in the same order.
func declare(v cue.Value, section string, add func(name string)) ([]cue.Value, error) {
	sectionVal := v.LookupPath(cue.ParsePath(section))
	if !sectionVal.Exists() {
		return nil, nil
	}
	iter, err := sectionVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var vals []cue.Value
	for iter.Next() {
		add(iter.Label())
		vals = append(vals, iter.Value())
	}
	return vals, nil
}

type parser struct {
	ci *ir.ComponentInterface
}

func (p *parser) typeRef(v cue.Value) (ir.Type, error) {
	expr, err := v.String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	t, err := ir.ParseType(expr, p.ci.Resolve)
	if err != nil {
		return nil, &CompileError{
			Field:   "type",
			Message: err.Error(),
			Pos:     v.Pos(),
		}
	}
	return t, nil
}

// returnType parses an optional "returns" field. Absent means no return
// value.
func (p *parser) returnType(v cue.Value) (ir.Type, error) {
	retVal := v.LookupPath(cue.ParsePath("returns"))
	if !retVal.Exists() {
		return nil, nil
	}
	return p.typeRef(retVal)
}

// arguments parses a list of {name, type} structs. A missing list is empty.
func (p *parser) arguments(v cue.Value) ([]ir.Argument, error) {
	if !v.Exists() {
		return nil, nil
	}
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var args []ir.Argument
	for iter.Next() {
		item := iter.Value()
		name, err := item.LookupPath(cue.ParsePath("name")).String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		t, err := p.typeRef(item.LookupPath(cue.ParsePath("type")))
		if err != nil {
			return nil, err
		}
		args = append(args, ir.Argument{Name: name, Type: t})
	}
	return args, nil
}

func (p *parser) functions(v cue.Value) ([]ir.FunctionDefinition, error) {
	var funcs []ir.FunctionDefinition
	fnVal := v.LookupPath(cue.ParsePath("function"))
	if !fnVal.Exists() {
		return funcs, nil
	}
	iter, err := fnVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		name := iter.Label()
		args, err := p.arguments(iter.Value().LookupPath(cue.ParsePath("args")))
		if err != nil {
			return nil, err
		}
		ret, err := p.returnType(iter.Value())
		if err != nil {
			return nil, err
		}
		funcs = append(funcs, ir.FunctionDefinition{
			Name:       name,
			Arguments:  args,
			ReturnType: ret,
			FFIFunc:    ir.FunctionFFI(p.ci.Namespace, name, args, ret),
		})
	}
	return funcs, nil
}

func (p *parser) object(obj *ir.ObjectDefinition, v cue.Value) error {
	ns := p.ci.Namespace

	if ctors := v.LookupPath(cue.ParsePath("constructors")); ctors.Exists() {
		iter, err := ctors.List()
		if err != nil {
			return formatCUEError(err)
		}
		for iter.Next() {
			name, args, err := p.callable(iter.Value())
			if err != nil {
				return err
			}
			obj.Constructors = append(obj.Constructors, ir.ConstructorDefinition{
				Name:      name,
				Arguments: args,
				FFIFunc:   ir.ConstructorFFI(ns, obj.Name, name, args),
			})
		}
	}

	if methods := v.LookupPath(cue.ParsePath("methods")); methods.Exists() {
		iter, err := methods.List()
		if err != nil {
			return formatCUEError(err)
		}
		for iter.Next() {
			name, args, err := p.callable(iter.Value())
			if err != nil {
				return err
			}
			ret, err := p.returnType(iter.Value())
			if err != nil {
				return err
			}
			obj.Methods = append(obj.Methods, ir.MethodDefinition{
				Name:       name,
				Arguments:  args,
				ReturnType: ret,
				FFIFunc:    ir.MethodFFI(ns, obj.Name, name, args, ret),
			})
		}
	}
	return nil
}

func (p *parser) callable(v cue.Value) (string, []ir.Argument, error) {
	name, err := v.LookupPath(cue.ParsePath("name")).String()
	if err != nil {
		return "", nil, formatCUEError(err)
	}
	args, err := p.arguments(v.LookupPath(cue.ParsePath("args")))
	if err != nil {
		return "", nil, err
	}
	return name, args, nil
}

func stringList(v cue.Value) ([]string, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var out []string
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out = append(out, s)
	}
	return out, nil
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// Return first error with position info
	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
