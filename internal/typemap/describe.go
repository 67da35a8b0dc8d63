package typemap

import "github.com/roach88/bindgen/internal/ir"

// DescribeType returns the Python-side name of t as it appears in generated
// comments and in CLI output. Unlike the other derivations it never fails:
// kinds that cannot be marshaled still have a readable name.
func DescribeType(t ir.Type) string {
	switch v := t.(type) {
	case nil:
		return "None"
	case ir.U32, ir.U64:
		return "int"
	case ir.Float, ir.Double:
		return "float"
	case ir.Boolean:
		return "bool"
	case ir.Bytes:
		return "bytes"
	case ir.String:
		return "str"
	case ir.Enum:
		return v.Name
	case ir.Record:
		return v.Name
	case ir.Object:
		return v.Name
	case ir.Optional:
		return "Optional[" + DescribeType(v.Inner) + "]"
	case ir.Sequence:
		return "list[" + DescribeType(v.Inner) + "]"
	case ir.Map:
		return "dict[str, " + DescribeType(v.Value) + "]"
	default:
		return t.String()
	}
}

// Signature describes a callable as "name(a: int, b: Point) -> float".
func Signature(name string, args []ir.Argument, ret ir.Type) string {
	s := name + "("
	for i, a := range args {
		if i > 0 {
			s += ", "
		}
		s += a.Name + ": " + DescribeType(a.Type)
	}
	return s + ") -> " + DescribeType(ret)
}
