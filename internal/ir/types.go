package ir

import "strings"

// ComponentInterface is the complete, read-only description of a component's
// public surface. Definition slices are kept in declaration order; emission
// order and enum ordinals depend on it.
type ComponentInterface struct {
	Namespace string               `json:"namespace"`
	Enums     []EnumDefinition     `json:"enums"`
	Records   []RecordDefinition   `json:"records"`
	Functions []FunctionDefinition `json:"functions"`
	Objects   []ObjectDefinition   `json:"objects"`
}

// EnumDefinition is a named, ordered set of distinct variants.
type EnumDefinition struct {
	Name     string   `json:"name"`
	Variants []string `json:"variants"`
}

// Ordinal returns the 1-based ordinal of variant. Ordinal 0 is never assigned.
func (e *EnumDefinition) Ordinal(variant string) (uint32, bool) {
	for i, v := range e.Variants {
		if v == variant {
			return uint32(i + 1), true
		}
	}
	return 0, false
}

// Variant returns the variant name for a 1-based ordinal.
func (e *EnumDefinition) Variant(ordinal uint32) (string, bool) {
	if ordinal == 0 || int(ordinal) > len(e.Variants) {
		return "", false
	}
	return e.Variants[ordinal-1], true
}

// Field is one (name, type) pair of a record.
type Field struct {
	Name string `json:"name"`
	Type Type   `json:"type"`
}

// RecordDefinition is a named aggregate. Field order fixes both constructor
// parameter order and binary layout.
type RecordDefinition struct {
	Name   string  `json:"name"`
	Fields []Field `json:"fields"`
}

// Argument is a named, typed parameter.
type Argument struct {
	Name string `json:"name"`
	Type Type   `json:"type"`
}

// FFIFunction is a single exported symbol of the native library. Its
// argument and return types must match the compiled signature exactly.
type FFIFunction struct {
	Name       string     `json:"name"`
	Arguments  []Argument `json:"arguments"`
	ReturnType Type       `json:"return_type,omitempty"` // nil = no return value
}

// FunctionDefinition is a free function backed by one FFI function.
type FunctionDefinition struct {
	Name       string      `json:"name"`
	Arguments  []Argument  `json:"arguments"`
	ReturnType Type        `json:"return_type,omitempty"`
	FFIFunc    FFIFunction `json:"ffi_func"`
}

// ConstructorDefinition creates an object handle through one FFI function.
type ConstructorDefinition struct {
	Name      string      `json:"name"`
	Arguments []Argument  `json:"arguments"`
	FFIFunc   FFIFunction `json:"ffi_func"`
}

// MethodDefinition is an instance method. Its FFI function takes the object
// handle as the first argument.
type MethodDefinition struct {
	Name       string      `json:"name"`
	Arguments  []Argument  `json:"arguments"`
	ReturnType Type        `json:"return_type,omitempty"`
	FFIFunc    FFIFunction `json:"ffi_func"`
}

// ObjectDefinition is a type with reference semantics, represented across the
// boundary by an opaque u64 handle.
type ObjectDefinition struct {
	Name         string                  `json:"name"`
	Constructors []ConstructorDefinition `json:"constructors"`
	Methods      []MethodDefinition      `json:"methods"`
}

// Enum returns the enum definition with the given name.
func (ci *ComponentInterface) Enum(name string) (*EnumDefinition, bool) {
	for i := range ci.Enums {
		if ci.Enums[i].Name == name {
			return &ci.Enums[i], true
		}
	}
	return nil, false
}

// Record returns the record definition with the given name.
func (ci *ComponentInterface) Record(name string) (*RecordDefinition, bool) {
	for i := range ci.Records {
		if ci.Records[i].Name == name {
			return &ci.Records[i], true
		}
	}
	return nil, false
}

// Object returns the object definition with the given name.
func (ci *ComponentInterface) Object(name string) (*ObjectDefinition, bool) {
	for i := range ci.Objects {
		if ci.Objects[i].Name == name {
			return &ci.Objects[i], true
		}
	}
	return nil, false
}

// Function returns the free function with the given name.
func (ci *ComponentInterface) Function(name string) (*FunctionDefinition, bool) {
	for i := range ci.Functions {
		if ci.Functions[i].Name == name {
			return &ci.Functions[i], true
		}
	}
	return nil, false
}

// BufferAlloc is the entry point the bindings use to allocate a buffer owned
// by the native side.
func (ci *ComponentInterface) BufferAlloc() FFIFunction {
	return FFIFunction{
		Name:       ffiName(ci.Namespace, "bytebuffer", "alloc"),
		Arguments:  []Argument{{Name: "size", Type: U32{}}},
		ReturnType: Bytes{},
	}
}

// BufferFree is the entry point that releases a buffer returned by the
// native side.
func (ci *ComponentInterface) BufferFree() FFIFunction {
	return FFIFunction{
		Name:      ffiName(ci.Namespace, "bytebuffer", "free"),
		Arguments: []Argument{{Name: "buf", Type: Bytes{}}},
	}
}

// FFIFunctions returns every native entry point in emission order: buffer
// alloc and free, free functions, then each object's constructors and methods.
func (ci *ComponentInterface) FFIFunctions() []FFIFunction {
	funcs := []FFIFunction{ci.BufferAlloc(), ci.BufferFree()}
	for _, fn := range ci.Functions {
		funcs = append(funcs, fn.FFIFunc)
	}
	for _, obj := range ci.Objects {
		for _, ctor := range obj.Constructors {
			funcs = append(funcs, ctor.FFIFunc)
		}
		for _, meth := range obj.Methods {
			funcs = append(funcs, meth.FFIFunc)
		}
	}
	return funcs
}

// FunctionFFI derives the entry point of a free function.
func FunctionFFI(namespace, name string, args []Argument, ret Type) FFIFunction {
	return FFIFunction{
		Name:       ffiName(namespace, name),
		Arguments:  cloneArgs(args),
		ReturnType: ret,
	}
}

// ConstructorFFI derives the entry point of an object constructor. It
// returns the new object's handle.
func ConstructorFFI(namespace, object, name string, args []Argument) FFIFunction {
	return FFIFunction{
		Name:       ffiName(namespace, object, name),
		Arguments:  cloneArgs(args),
		ReturnType: U64{},
	}
}

// MethodFFI derives the entry point of an object method, with the handle
// prepended to the declared arguments.
func MethodFFI(namespace, object, name string, args []Argument, ret Type) FFIFunction {
	all := make([]Argument, 0, len(args)+1)
	all = append(all, Argument{Name: "handle", Type: U64{}})
	all = append(all, args...)
	return FFIFunction{
		Name:       ffiName(namespace, object, name),
		Arguments:  all,
		ReturnType: ret,
	}
}

func ffiName(parts ...string) string {
	return strings.ToLower(strings.Join(parts, "_"))
}

func cloneArgs(args []Argument) []Argument {
	if len(args) == 0 {
		return nil
	}
	out := make([]Argument, len(args))
	copy(out, args)
	return out
}
