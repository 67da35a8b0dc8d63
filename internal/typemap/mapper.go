package typemap

import (
	"errors"

	"github.com/roach88/bindgen/internal/ir"
	"github.com/roach88/bindgen/internal/pyast"
)

// Operation names reported in UnsupportedTypeError.Op.
const (
	OpDecl      = "decl"
	OpCoerce    = "coerce"
	OpLower     = "lower"
	OpLift      = "lift"
	OpSize      = "size"
	OpLowerInto = "lower_into"
	OpLiftFrom  = "lift_from"
)

// BufferType is the ctypes structure that carries every buffer-passed value.
const BufferType = "RustBuffer"

// DeclType returns the ctypes declaration for a value of type t crossing the
// boundary as an argument or return value.
func DeclType(t ir.Type) (pyast.Expr, error) {
	switch t.(type) {
	case ir.U32, ir.Enum:
		return pyast.Dot("ctypes", "c_uint32"), nil
	case ir.U64, ir.Object:
		return pyast.Dot("ctypes", "c_uint64"), nil
	case ir.Float:
		return pyast.Dot("ctypes", "c_float"), nil
	case ir.Double:
		return pyast.Dot("ctypes", "c_double"), nil
	case ir.Boolean:
		return pyast.Dot("ctypes", "c_byte"), nil
	case ir.Bytes, ir.Record, ir.Optional:
		return pyast.N(BufferType), nil
	default:
		return nil, ir.NewUnsupportedType(OpDecl, t)
	}
}

// CoerceInput returns the statement that normalizes argument name before it
// is lowered. Scalars are accepted unchanged.
func CoerceInput(name string, t ir.Type) (pyast.Stmt, error) {
	target := pyast.N(name)
	switch v := t.(type) {
	case ir.U32, ir.U64, ir.Float, ir.Double, ir.Boolean:
		return pyast.Assign{Target: target, Value: target}, nil
	case ir.Enum:
		return pyast.Assign{Target: target, Value: pyast.C(pyast.N(v.Name), target)}, nil
	case ir.Record:
		return pyast.Assign{Target: target, Value: pyast.C(pyast.Dot(v.Name, "_coerce"), target)}, nil
	default:
		return nil, ir.NewUnsupportedType(OpCoerce, t)
	}
}

// Lower returns the expression that converts value to the form passed to
// the native entry point.
func Lower(value pyast.Expr, t ir.Type) (pyast.Expr, error) {
	switch v := t.(type) {
	case ir.U32, ir.U64, ir.Float, ir.Double, ir.Boolean:
		return value, nil
	case ir.Enum:
		return pyast.Attr{Value: value, Name: "value"}, nil
	case ir.Record:
		return pyast.C(pyast.Dot(v.Name, "_lower"), value), nil
	case ir.Optional:
		size, err := LowersIntoSize(pyast.N("v"), v.Inner)
		if err != nil {
			return nil, wrapOp(OpLower, err)
		}
		write, err := LowerInto(pyast.N("v"), pyast.N("buf"), v.Inner)
		if err != nil {
			return nil, wrapOp(OpLower, err)
		}
		return pyast.C(pyast.N("lowerOptional"),
			value,
			pyast.Lambda{Params: []string{"v"}, Body: size},
			pyast.Lambda{Params: []string{"buf", "v"}, Body: write},
		), nil
	default:
		return nil, ir.NewUnsupportedType(OpLower, t)
	}
}

// Lift returns the expression that converts the native result value to a
// Python value.
func Lift(value pyast.Expr, t ir.Type) (pyast.Expr, error) {
	switch v := t.(type) {
	case ir.U32, ir.U64, ir.Float, ir.Double, ir.Boolean:
		return value, nil
	case ir.Enum:
		return pyast.C(pyast.N(v.Name), value), nil
	case ir.Record:
		return pyast.C(pyast.Dot(v.Name, "_lift"), value), nil
	case ir.Optional:
		read, err := LiftFrom(pyast.N("buf"), v.Inner)
		if err != nil {
			return nil, wrapOp(OpLift, err)
		}
		return pyast.C(pyast.N("liftOptional"),
			value,
			pyast.Lambda{Params: []string{"buf"}, Body: read},
		), nil
	default:
		return nil, ir.NewUnsupportedType(OpLift, t)
	}
}

// wrapOp reports an optional's failure under the outer operation while
// keeping the innermost offending type.
func wrapOp(op string, err error) error {
	var ute *ir.UnsupportedTypeError
	if errors.As(err, &ute) {
		return ir.NewUnsupportedType(op, ute.Type)
	}
	return err
}
