package typemap

import (
	"github.com/roach88/bindgen/internal/ir"
	"github.com/roach88/bindgen/internal/pyast"
)

// streamMethod is the RustBufferStream accessor suffix for each fixed-size
// kind. Enums travel as their u32 ordinal.
func streamMethod(t ir.Type) (string, bool) {
	switch t.(type) {
	case ir.U32, ir.Enum:
		return "U32", true
	case ir.U64:
		return "U64", true
	case ir.Float:
		return "Float", true
	case ir.Double:
		return "Double", true
	case ir.Boolean:
		return "Bool", true
	}
	return "", false
}

// LowersIntoSize returns an expression for the number of bytes value
// occupies when written into a buffer.
func LowersIntoSize(value pyast.Expr, t ir.Type) (pyast.Expr, error) {
	switch v := t.(type) {
	case ir.U32, ir.U64, ir.Float, ir.Double, ir.Boolean, ir.Enum:
		size, _ := ir.WireSize(t)
		return pyast.Int{Value: int64(size)}, nil
	case ir.Record:
		return pyast.C(pyast.Dot(v.Name, "_lowersIntoSize"), value), nil
	case ir.Optional:
		inner, err := LowersIntoSize(pyast.N("v"), v.Inner)
		if err != nil {
			return nil, wrapOp(OpSize, err)
		}
		return pyast.C(pyast.N("lowersIntoSizeOptional"),
			value,
			pyast.Lambda{Params: []string{"v"}, Body: inner},
		), nil
	default:
		return nil, ir.NewUnsupportedType(OpSize, t)
	}
}

// LowerInto returns an expression that writes value into the stream target.
func LowerInto(value, target pyast.Expr, t ir.Type) (pyast.Expr, error) {
	if suffix, ok := streamMethod(t); ok {
		if _, isEnum := t.(ir.Enum); isEnum {
			value = pyast.Attr{Value: value, Name: "value"}
		}
		return pyast.C(pyast.Attr{Value: target, Name: "put" + suffix}, value), nil
	}
	switch v := t.(type) {
	case ir.Record:
		return pyast.C(pyast.Dot(v.Name, "_lowerInto"), value, target), nil
	case ir.Optional:
		inner, err := LowerInto(pyast.N("v"), pyast.N("buf"), v.Inner)
		if err != nil {
			return nil, wrapOp(OpLowerInto, err)
		}
		return pyast.C(pyast.N("lowerIntoOptional"),
			value,
			target,
			pyast.Lambda{Params: []string{"buf", "v"}, Body: inner},
		), nil
	default:
		return nil, ir.NewUnsupportedType(OpLowerInto, t)
	}
}

// LiftFrom returns an expression that reads a value of type t from the
// stream source.
func LiftFrom(source pyast.Expr, t ir.Type) (pyast.Expr, error) {
	if suffix, ok := streamMethod(t); ok {
		read := pyast.C(pyast.Attr{Value: source, Name: "get" + suffix})
		if e, isEnum := t.(ir.Enum); isEnum {
			return pyast.C(pyast.N(e.Name), read), nil
		}
		return read, nil
	}
	switch v := t.(type) {
	case ir.Record:
		return pyast.C(pyast.Dot(v.Name, "_liftFrom"), source), nil
	case ir.Optional:
		inner, err := LiftFrom(pyast.N("buf"), v.Inner)
		if err != nil {
			return nil, wrapOp(OpLiftFrom, err)
		}
		return pyast.C(pyast.N("liftFromOptional"),
			source,
			pyast.Lambda{Params: []string{"buf"}, Body: inner},
		), nil
	default:
		return nil, ir.NewUnsupportedType(OpLiftFrom, t)
	}
}
