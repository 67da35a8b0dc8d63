package emit

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/roach88/bindgen/internal/ir"
	"github.com/roach88/bindgen/internal/pyast"
	"github.com/roach88/bindgen/internal/typemap"
)

//go:embed prelude.py.tmpl
var preludeSrc string

var preludeTmpl = template.Must(template.New("prelude").Option("missingkey=error").Parse(preludeSrc))

// libName is the module-level name the ctypes library is bound to.
const libName = "_UniFFILib"

// Config holds the options that shape the generated Python without
// affecting the native interface.
type Config struct {
	// LibraryName, when set, is loaded with ctypes.cdll.LoadLibrary instead
	// of resolving libuniffi_<namespace> for the current platform.
	LibraryName string
}

// Emit builds the complete binding module for ci.
//
// Sections appear in a fixed order: header and runtime prelude, native
// entry point declarations, enums, records, functions, objects, __all__.
// The first unsupported construct aborts with an error and no module.
func Emit(ci *ir.ComponentInterface, cfg Config) (*pyast.Module, error) {
	if ci == nil {
		return nil, fmt.Errorf("emit: nil interface")
	}
	checksum, err := ir.InterfaceChecksum(ci)
	if err != nil {
		return nil, fmt.Errorf("emit: %w", err)
	}

	m := &pyast.Module{}
	m.Add(header(ci, checksum)...)

	prelude, err := renderPrelude(ci)
	if err != nil {
		return nil, err
	}
	m.Add(pyast.Blank{}, prelude)

	decls, err := ffiDecls(ci, cfg)
	if err != nil {
		return nil, err
	}
	m.Add(pyast.Blank{})
	m.Add(decls...)

	m.Add(pyast.Blank{}, pyast.Comment{Text: "Public interface members begin here."})

	for _, e := range ci.Enums {
		m.Add(pyast.Blank{}, enumClass(e))
	}
	for _, r := range ci.Records {
		cls, err := recordClass(r)
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", r.Name, err)
		}
		m.Add(pyast.Blank{}, cls)
	}
	for _, fn := range ci.Functions {
		def, err := functionDef(fn)
		if err != nil {
			return nil, fmt.Errorf("function %s: %w", fn.Name, err)
		}
		m.Add(pyast.Blank{}, def)
	}
	for _, obj := range ci.Objects {
		cls, err := objectClass(obj)
		if err != nil {
			return nil, fmt.Errorf("object %s: %w", obj.Name, err)
		}
		m.Add(pyast.Blank{}, cls)
	}

	m.Add(pyast.Blank{}, exportList(ci))
	return m, nil
}

// Generate emits and prints the binding module for ci.
func Generate(ci *ir.ComponentInterface, cfg Config) ([]byte, error) {
	m, err := Emit(ci, cfg)
	if err != nil {
		return nil, err
	}
	src, err := pyast.Format(m)
	if err != nil {
		return nil, fmt.Errorf("emit: print: %w", err)
	}
	return src, nil
}

func header(ci *ir.ComponentInterface, checksum string) []pyast.Stmt {
	return []pyast.Stmt{
		pyast.Comment{Text: fmt.Sprintf("This file was generated by bindgen %s. Do not edit.", ir.GeneratorVersion)},
		pyast.Comment{},
		pyast.Comment{Text: "Namespace: " + ci.Namespace},
		pyast.Comment{Text: "Interface checksum: " + checksum},
		pyast.Comment{Text: "Wire format: " + ir.WireVersion},
		pyast.Blank{},
		pyast.Import{Module: "ctypes"},
		pyast.Import{Module: "enum"},
		pyast.Import{Module: "struct"},
		pyast.Import{Module: "sys"},
	}
}

func renderPrelude(ci *ir.ComponentInterface) (pyast.Stmt, error) {
	var b strings.Builder
	err := preludeTmpl.Execute(&b, struct {
		Alloc string
		Free  string
	}{
		Alloc: ci.BufferAlloc().Name,
		Free:  ci.BufferFree().Name,
	})
	if err != nil {
		return nil, fmt.Errorf("emit: render prelude: %w", err)
	}
	return pyast.Raw{Text: b.String()}, nil
}

// ffiDecls binds the library and declares argtypes and restype for every
// native entry point.
func ffiDecls(ci *ir.ComponentInterface, cfg Config) ([]pyast.Stmt, error) {
	load := pyast.C(pyast.N("loadIndirect"), pyast.Keyword{Name: "componentName", Value: pyast.Str{Value: ci.Namespace}})
	if cfg.LibraryName != "" {
		load = pyast.C(pyast.Dot("ctypes", "cdll", "LoadLibrary"), pyast.Str{Value: cfg.LibraryName})
	}

	stmts := []pyast.Stmt{
		pyast.Comment{Text: "A ctypes library to expose the extern-C FFI definitions."},
		pyast.Comment{Text: "This is an implementation detail used internally by the public API."},
		pyast.Blank{},
		pyast.Assign{Target: pyast.N(libName), Value: load},
	}

	for _, fn := range ci.FFIFunctions() {
		args := make([]pyast.Expr, len(fn.Arguments))
		for i, a := range fn.Arguments {
			decl, err := typemap.DeclType(a.Type)
			if err != nil {
				return nil, fmt.Errorf("entry point %s argument %s: %w", fn.Name, a.Name, err)
			}
			args[i] = decl
		}

		var restype pyast.Expr = pyast.NoneLit{}
		if fn.ReturnType != nil {
			decl, err := typemap.DeclType(fn.ReturnType)
			if err != nil {
				return nil, fmt.Errorf("entry point %s return: %w", fn.Name, err)
			}
			restype = decl
		}

		stmts = append(stmts,
			pyast.Assign{
				Target: pyast.Dot(libName, fn.Name, "argtypes"),
				Value:  pyast.Tuple{Elts: args, Multiline: true},
			},
			pyast.Assign{
				Target: pyast.Dot(libName, fn.Name, "restype"),
				Value:  restype,
			},
		)
	}
	return stmts, nil
}

func enumClass(e ir.EnumDefinition) pyast.Stmt {
	body := make([]pyast.Stmt, len(e.Variants))
	for i, v := range e.Variants {
		body[i] = pyast.Assign{Target: pyast.N(v), Value: pyast.Int{Value: int64(i + 1)}}
	}
	return pyast.ClassDef{
		Name:  e.Name,
		Bases: []pyast.Expr{pyast.Dot("enum", "Enum")},
		Body:  body,
	}
}

func exportList(ci *ir.ComponentInterface) pyast.Stmt {
	var names []pyast.Expr
	for _, e := range ci.Enums {
		names = append(names, pyast.Str{Value: e.Name})
	}
	for _, r := range ci.Records {
		names = append(names, pyast.Str{Value: r.Name})
	}
	for _, fn := range ci.Functions {
		names = append(names, pyast.Str{Value: fn.Name})
	}
	for _, obj := range ci.Objects {
		names = append(names, pyast.Str{Value: obj.Name})
	}
	return pyast.Assign{Target: pyast.N("__all__"), Value: pyast.List{Elts: names, Multiline: true}}
}
