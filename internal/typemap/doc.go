// Package typemap derives, for every type kind of the interface model, the
// Python fragments that move a value of that kind across the native
// boundary.
//
// Each derivation is a pure function of an ir.Type (and, where needed, the
// expression that holds the value). There are two families:
//
// Call-boundary derivations describe how an argument or return value is
// passed to a native entry point:
//
//	DeclType      the ctypes declaration used in argtypes / restype
//	CoerceInput   normalizes a caller-supplied argument
//	Lower         converts a Python value to its native form
//	Lift          converts a native result back to a Python value
//
// Buffer derivations describe how a value is stored inside a buffer, and
// are used for record fields and optional payloads:
//
//	LowersIntoSize  number of bytes the value will occupy
//	LowerInto       writes the value at the stream's offset
//	LiftFrom        reads a value at the stream's offset
//
// Every derivation matches on the type kind and returns an
// *ir.UnsupportedTypeError for kinds it does not cover. Nothing is ever
// emitted for a kind that fails; callers abort generation instead.
//
// The byte layout the buffer derivations produce is the one implemented by
// package codec. The two must change together.
package typemap
