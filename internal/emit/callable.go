package emit

import (
	"fmt"

	"github.com/roach88/bindgen/internal/ir"
	"github.com/roach88/bindgen/internal/pyast"
	"github.com/roach88/bindgen/internal/typemap"
)

// callBody coerces each argument, calls the entry point with the lowered
// arguments (after any leading fixed arguments) and lifts the result.
// With a nil ret the call is a bare statement.
func callBody(ffi ir.FFIFunction, args []ir.Argument, ret ir.Type, leading ...pyast.Expr) ([]pyast.Stmt, error) {
	var body []pyast.Stmt
	for _, a := range args {
		coerce, err := typemap.CoerceInput(a.Name, a.Type)
		if err != nil {
			return nil, fmt.Errorf("argument %s: %w", a.Name, err)
		}
		body = append(body, coerce)
	}

	callArgs := append([]pyast.Expr{}, leading...)
	for _, a := range args {
		lowered, err := typemap.Lower(pyast.N(a.Name), a.Type)
		if err != nil {
			return nil, fmt.Errorf("argument %s: %w", a.Name, err)
		}
		callArgs = append(callArgs, lowered)
	}
	call := pyast.Call{Func: pyast.Dot(libName, ffi.Name), Args: callArgs, Multiline: true}

	if ret == nil {
		return append(body, pyast.ExprStmt{X: call}), nil
	}
	lifted, err := typemap.Lift(pyast.N("_retval"), ret)
	if err != nil {
		return nil, fmt.Errorf("return value: %w", err)
	}
	return append(body,
		pyast.Assign{Target: pyast.N("_retval"), Value: call},
		pyast.Return{Value: lifted},
	), nil
}

func params(leading string, args []ir.Argument) []string {
	var out []string
	if leading != "" {
		out = append(out, leading)
	}
	for _, a := range args {
		out = append(out, a.Name)
	}
	return out
}

func functionDef(fn ir.FunctionDefinition) (pyast.Stmt, error) {
	body, err := callBody(fn.FFIFunc, fn.Arguments, fn.ReturnType)
	if err != nil {
		return nil, err
	}
	return pyast.FuncDef{Name: fn.Name, Params: params("", fn.Arguments), Body: body}, nil
}

// objectClass emits a class holding the native handle in self._handle.
// Exactly one constructor is supported; handles are never released.
func objectClass(obj ir.ObjectDefinition) (pyast.Stmt, error) {
	if len(obj.Constructors) != 1 {
		return nil, &ir.UnsupportedConstructorArityError{Object: obj.Name, Count: len(obj.Constructors)}
	}
	ctor := obj.Constructors[0]

	var init []pyast.Stmt
	for _, a := range ctor.Arguments {
		coerce, err := typemap.CoerceInput(a.Name, a.Type)
		if err != nil {
			return nil, fmt.Errorf("constructor %s argument %s: %w", ctor.Name, a.Name, err)
		}
		init = append(init, coerce)
	}
	var ctorArgs []pyast.Expr
	for _, a := range ctor.Arguments {
		lowered, err := typemap.Lower(pyast.N(a.Name), a.Type)
		if err != nil {
			return nil, fmt.Errorf("constructor %s argument %s: %w", ctor.Name, a.Name, err)
		}
		ctorArgs = append(ctorArgs, lowered)
	}
	init = append(init, pyast.Assign{
		Target: pyast.Dot("self", "_handle"),
		Value:  pyast.Call{Func: pyast.Dot(libName, ctor.FFIFunc.Name), Args: ctorArgs, Multiline: true},
	})

	body := []pyast.Stmt{
		pyast.FuncDef{Name: "__init__", Params: params("self", ctor.Arguments), Body: init},
	}
	for _, m := range obj.Methods {
		mbody, err := callBody(m.FFIFunc, m.Arguments, m.ReturnType, pyast.Dot("self", "_handle"))
		if err != nil {
			return nil, fmt.Errorf("method %s: %w", m.Name, err)
		}
		body = append(body,
			pyast.Blank{},
			pyast.FuncDef{Name: m.Name, Params: params("self", m.Arguments), Body: mbody},
		)
	}

	return pyast.ClassDef{
		Name:  obj.Name,
		Bases: []pyast.Expr{pyast.N("object")},
		Body:  body,
	}, nil
}
