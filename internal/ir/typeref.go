package ir

import "fmt"

// Kind names one variant of the Type union.
type Kind string

// Type kinds. The first ten are marshalable; String, Sequence and Map can be
// described by an interface definition but every marshaling rule rejects them.
const (
	KindU32      Kind = "u32"
	KindU64      Kind = "u64"
	KindFloat    Kind = "float"
	KindDouble   Kind = "double"
	KindBoolean  Kind = "boolean"
	KindBytes    Kind = "bytes"
	KindEnum     Kind = "enum"
	KindRecord   Kind = "record"
	KindOptional Kind = "optional"
	KindObject   Kind = "object"
	KindString   Kind = "string"
	KindSequence Kind = "sequence"
	KindMap      Kind = "map"
)

// Type is a sealed interface over the type kinds that can appear in an
// interface definition. Only the variants declared in this file implement it.
type Type interface {
	Kind() Kind
	// String returns the canonical text form, e.g. "optional<record:Point>".
	String() string
	typeRef()
}

// U32 is an unsigned 32-bit integer.
type U32 struct{}

// U64 is an unsigned 64-bit integer.
type U64 struct{}

// Float is a single-precision float.
type Float struct{}

// Double is a double-precision float.
type Double struct{}

// Boolean is a truth value, one byte on the wire.
type Boolean struct{}

// Bytes is an opaque byte sequence carried in a buffer.
type Bytes struct{}

// String is text. Describable, not yet marshalable.
type String struct{}

// Enum references an EnumDefinition by name.
type Enum struct {
	Name string
}

// Record references a RecordDefinition by name.
type Record struct {
	Name string
}

// Object references an ObjectDefinition by name. Values are opaque handles.
type Object struct {
	Name string
}

// Optional wraps another type; absent values are encoded as a single tag byte.
type Optional struct {
	Inner Type
}

// Sequence is a homogeneous list. Describable, not yet marshalable.
type Sequence struct {
	Inner Type
}

// Map is a string-keyed map. Describable, not yet marshalable.
type Map struct {
	Value Type
}

func (U32) typeRef()      {}
func (U64) typeRef()      {}
func (Float) typeRef()    {}
func (Double) typeRef()   {}
func (Boolean) typeRef()  {}
func (Bytes) typeRef()    {}
func (String) typeRef()   {}
func (Enum) typeRef()     {}
func (Record) typeRef()   {}
func (Object) typeRef()   {}
func (Optional) typeRef() {}
func (Sequence) typeRef() {}
func (Map) typeRef()      {}

func (U32) Kind() Kind      { return KindU32 }
func (U64) Kind() Kind      { return KindU64 }
func (Float) Kind() Kind    { return KindFloat }
func (Double) Kind() Kind   { return KindDouble }
func (Boolean) Kind() Kind  { return KindBoolean }
func (Bytes) Kind() Kind    { return KindBytes }
func (String) Kind() Kind   { return KindString }
func (Enum) Kind() Kind     { return KindEnum }
func (Record) Kind() Kind   { return KindRecord }
func (Object) Kind() Kind   { return KindObject }
func (Optional) Kind() Kind { return KindOptional }
func (Sequence) Kind() Kind { return KindSequence }
func (Map) Kind() Kind      { return KindMap }

func (U32) String() string        { return string(KindU32) }
func (U64) String() string        { return string(KindU64) }
func (Float) String() string      { return string(KindFloat) }
func (Double) String() string     { return string(KindDouble) }
func (Boolean) String() string    { return string(KindBoolean) }
func (Bytes) String() string      { return string(KindBytes) }
func (String) String() string     { return string(KindString) }
func (t Enum) String() string     { return "enum:" + t.Name }
func (t Record) String() string   { return "record:" + t.Name }
func (t Object) String() string   { return "object:" + t.Name }
func (t Optional) String() string { return fmt.Sprintf("optional<%s>", typeString(t.Inner)) }
func (t Sequence) String() string { return fmt.Sprintf("sequence<%s>", typeString(t.Inner)) }
func (t Map) String() string      { return fmt.Sprintf("map<%s>", typeString(t.Value)) }

func typeString(t Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

// IsScalar reports whether t crosses the boundary as a machine scalar with no
// conversion at all (u32, u64, float, double, boolean).
func IsScalar(t Type) bool {
	switch t.(type) {
	case U32, U64, Float, Double, Boolean:
		return true
	}
	return false
}

// WireSize returns the fixed encoded size of t inside a buffer.
// ok is false for types whose size depends on the value or that have no
// in-buffer encoding.
func WireSize(t Type) (size int, ok bool) {
	switch t.(type) {
	case Boolean:
		return 1, true
	case U32, Float, Enum:
		return 4, true
	case U64, Double:
		return 8, true
	}
	return 0, false
}

// TagSize is the size of the presence tag that prefixes an optional value.
const TagSize = 1

// Equal reports whether two types are structurally identical.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.String() == b.String()
}

// Walk calls fn for t and then for every type nested inside it.
func Walk(t Type, fn func(Type)) {
	if t == nil {
		return
	}
	fn(t)
	switch v := t.(type) {
	case Optional:
		Walk(v.Inner, fn)
	case Sequence:
		Walk(v.Inner, fn)
	case Map:
		Walk(v.Value, fn)
	}
}
