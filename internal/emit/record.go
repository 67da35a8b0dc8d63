package emit

import (
	"fmt"
	"strings"

	"github.com/roach88/bindgen/internal/ir"
	"github.com/roach88/bindgen/internal/pyast"
	"github.com/roach88/bindgen/internal/typemap"
)

var classmethod = []pyast.Expr{pyast.N("classmethod")}

// recordClass emits a value class with the marshaling hooks used by the
// type mapper: _coerce, _lift, _liftFrom, _lower, _lowersIntoSize and
// _lowerInto.
func recordClass(r ir.RecordDefinition) (pyast.Stmt, error) {
	v := pyast.N("v")
	buf := pyast.N("buf")

	var (
		reads  []pyast.Expr
		size   pyast.Expr = pyast.Int{Value: 0}
		writes []pyast.Stmt
	)
	for _, f := range r.Fields {
		field := pyast.Attr{Value: v, Name: f.Name}

		read, err := typemap.LiftFrom(buf, f.Type)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		n, err := typemap.LowersIntoSize(field, f.Type)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		write, err := typemap.LowerInto(field, buf, f.Type)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}

		reads = append(reads, read)
		size = pyast.BinOp{Left: size, Op: "+", Right: n}
		writes = append(writes, pyast.ExprStmt{X: write})
	}

	methods := []pyast.Stmt{
		recordInit(r),
		pyast.Blank{},
		recordStr(r),
		pyast.Blank{},
		recordEq(r),
		pyast.Blank{},
		pyast.FuncDef{
			Decorators: classmethod,
			Name:       "_coerce",
			Params:     []string{"cls", "v"},
			Body: []pyast.Stmt{
				pyast.Assert{Test: pyast.C(pyast.N("isinstance"), v, pyast.N(r.Name))},
				pyast.Return{Value: v},
			},
		},
		pyast.Blank{},
		pyast.FuncDef{
			Decorators: classmethod,
			Name:       "_lift",
			Params:     []string{"cls", "rbuf"},
			Body: []pyast.Stmt{
				pyast.Return{Value: pyast.C(pyast.N("liftBuffer"), pyast.N("rbuf"), pyast.Dot("cls", "_liftFrom"))},
			},
		},
		pyast.Blank{},
		pyast.FuncDef{
			Decorators: classmethod,
			Name:       "_liftFrom",
			Params:     []string{"cls", "buf"},
			Body: []pyast.Stmt{
				pyast.Return{Value: pyast.Call{Func: pyast.N("cls"), Args: reads, Multiline: true}},
			},
		},
		pyast.Blank{},
		pyast.FuncDef{
			Decorators: classmethod,
			Name:       "_lower",
			Params:     []string{"cls", "v"},
			Body: []pyast.Stmt{
				pyast.Assign{
					Target: pyast.N("rbuf"),
					Value:  pyast.C(pyast.Dot("RustBuffer", "alloc"), pyast.C(pyast.Dot("cls", "_lowersIntoSize"), v)),
				},
				pyast.Assign{Target: buf, Value: pyast.C(pyast.N("RustBufferStream"), pyast.N("rbuf"))},
				pyast.ExprStmt{X: pyast.C(pyast.Dot("cls", "_lowerInto"), v, buf)},
				pyast.ExprStmt{X: pyast.C(pyast.Dot("buf", "finish"))},
				pyast.Return{Value: pyast.N("rbuf")},
			},
		},
		pyast.Blank{},
		pyast.FuncDef{
			Decorators: classmethod,
			Name:       "_lowersIntoSize",
			Params:     []string{"cls", "v"},
			Body:       []pyast.Stmt{pyast.Return{Value: size}},
		},
		pyast.Blank{},
		pyast.FuncDef{
			Decorators: classmethod,
			Name:       "_lowerInto",
			Params:     []string{"cls", "v", "buf"},
			Body:       writes,
		},
	}

	return pyast.ClassDef{
		Name:  r.Name,
		Bases: []pyast.Expr{pyast.N("object")},
		Body:  methods,
	}, nil
}

func recordInit(r ir.RecordDefinition) pyast.Stmt {
	params := []string{"self"}
	var body []pyast.Stmt
	for _, f := range r.Fields {
		params = append(params, f.Name)
		body = append(body, pyast.Assign{Target: pyast.Dot("self", f.Name), Value: pyast.N(f.Name)})
	}
	return pyast.FuncDef{Name: "__init__", Params: params, Body: body}
}

func recordStr(r ir.RecordDefinition) pyast.Stmt {
	placeholders := make([]string, len(r.Fields))
	args := make([]pyast.Expr, len(r.Fields))
	for i, f := range r.Fields {
		placeholders[i] = f.Name + "={}"
		args[i] = pyast.Dot("self", f.Name)
	}
	format := pyast.Str{Value: r.Name + "(" + strings.Join(placeholders, ", ") + ")"}
	return pyast.FuncDef{
		Name:   "__str__",
		Params: []string{"self"},
		Body: []pyast.Stmt{
			pyast.Return{Value: pyast.C(pyast.Attr{Value: format, Name: "format"}, args...)},
		},
	}
}

// recordEq compares field by field; instances of other classes are never
// equal.
func recordEq(r ir.RecordDefinition) pyast.Stmt {
	var test pyast.Expr = pyast.C(pyast.N("isinstance"), pyast.N("other"), pyast.N(r.Name))
	if len(r.Fields) > 0 {
		values := []pyast.Expr{test}
		for _, f := range r.Fields {
			values = append(values, pyast.Compare{
				Left:  pyast.Dot("self", f.Name),
				Op:    "==",
				Right: pyast.Dot("other", f.Name),
			})
		}
		test = pyast.BoolOp{Op: "and", Values: values}
	}
	return pyast.FuncDef{
		Name:   "__eq__",
		Params: []string{"self", "other"},
		Body:   []pyast.Stmt{pyast.Return{Value: test}},
	}
}
