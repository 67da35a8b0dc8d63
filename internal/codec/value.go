package codec

import (
	"encoding/hex"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/roach88/bindgen/internal/ir"
)

// Value is a decoded value of some ir.Type.
//
// This is a sealed interface - only types in this package implement it.
type Value interface {
	Kind() ir.Kind
	String() string
	value() // Marker method - seals interface to this package
}

// Scalar values. Handle is an opaque object handle.
type (
	U32    uint32
	U64    uint64
	Float  float32
	Double float64
	Bool   bool
	Handle uint64
	Bytes  []byte
)

// Variant is an enum value identified by variant name.
type Variant struct {
	Enum string
	Name string
}

// Record is a record value. Fields are keyed by field name; the encoded
// order comes from the record definition.
type Record struct {
	Name   string
	Fields map[string]Value
}

// Optional is present when Value is non-nil.
type Optional struct {
	Value Value
}

// None is the absent optional.
var None = Optional{}

// Some wraps v as a present optional.
func Some(v Value) Optional { return Optional{Value: v} }

func (U32) value()      {}
func (U64) value()      {}
func (Float) value()    {}
func (Double) value()   {}
func (Bool) value()     {}
func (Handle) value()   {}
func (Bytes) value()    {}
func (Variant) value()  {}
func (Record) value()   {}
func (Optional) value() {}

func (U32) Kind() ir.Kind      { return ir.KindU32 }
func (U64) Kind() ir.Kind      { return ir.KindU64 }
func (Float) Kind() ir.Kind    { return ir.KindFloat }
func (Double) Kind() ir.Kind   { return ir.KindDouble }
func (Bool) Kind() ir.Kind     { return ir.KindBoolean }
func (Handle) Kind() ir.Kind   { return ir.KindObject }
func (Bytes) Kind() ir.Kind    { return ir.KindBytes }
func (Variant) Kind() ir.Kind  { return ir.KindEnum }
func (Record) Kind() ir.Kind   { return ir.KindRecord }
func (Optional) Kind() ir.Kind { return ir.KindOptional }

func (v U32) String() string    { return strconv.FormatUint(uint64(v), 10) }
func (v U64) String() string    { return strconv.FormatUint(uint64(v), 10) }
func (v Float) String() string  { return strconv.FormatFloat(float64(v), 'g', -1, 32) }
func (v Double) String() string { return strconv.FormatFloat(float64(v), 'g', -1, 64) }
func (v Bool) String() string   { return strconv.FormatBool(bool(v)) }
func (v Handle) String() string { return "handle(" + strconv.FormatUint(uint64(v), 10) + ")" }
func (v Bytes) String() string  { return "bytes(" + hex.EncodeToString(v) + ")" }
func (v Variant) String() string {
	return v.Enum + "." + v.Name
}

func (v Record) String() string {
	keys := make([]string, 0, len(v.Fields))
	for k := range v.Fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var b strings.Builder
	b.WriteString(v.Name)
	b.WriteByte('(')
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(valueString(v.Fields[k]))
	}
	b.WriteByte(')')
	return b.String()
}

func (v Optional) String() string {
	if v.Value == nil {
		return "None"
	}
	return "Some(" + v.Value.String() + ")"
}

func valueString(v Value) string {
	if v == nil {
		return "<nil>"
	}
	return v.String()
}

// Equal reports whether two values are identical. Floats compare by bit
// pattern, so a NaN equals itself after a round trip.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case Float:
		y, ok := b.(Float)
		return ok && math.Float32bits(float32(x)) == math.Float32bits(float32(y))
	case Double:
		y, ok := b.(Double)
		return ok && math.Float64bits(float64(x)) == math.Float64bits(float64(y))
	case Bytes:
		y, ok := b.(Bytes)
		return ok && slices.Equal(x, y)
	case Record:
		y, ok := b.(Record)
		if !ok || x.Name != y.Name || len(x.Fields) != len(y.Fields) {
			return false
		}
		for k, xv := range x.Fields {
			yv, ok := y.Fields[k]
			if !ok || !Equal(xv, yv) {
				return false
			}
		}
		return true
	case Optional:
		y, ok := b.(Optional)
		return ok && Equal(x.Value, y.Value)
	default:
		return a == b
	}
}
