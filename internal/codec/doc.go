// Package codec is the reference implementation of the buffer wire format
// used between generated bindings and the native library.
//
// WIRE FORMAT:
//
// Values that do not fit in a machine scalar travel in a Buffer, a
// (length, data) pair owned by exactly one side at a time. Inside a buffer
// every value is laid out back to back, with no padding or alignment:
//
//	u32, enum ordinal   4 bytes, big-endian
//	u64                 8 bytes, big-endian
//	float               4 bytes, IEEE-754 binary32, big-endian
//	double              8 bytes, IEEE-754 binary64, big-endian
//	boolean             1 byte, 0 = false
//	optional            1 tag byte (0 = absent) followed by the payload if present
//	record              fields concatenated in declaration order
//
// Enum ordinals are 1-based; 0 is never a valid ordinal.
//
// TWO-PASS ENCODING:
//
// Lowering a value first computes its exact encoded size (SizeOf), then
// allocates one buffer of that size and writes into it (WriteTo). A write
// that does not fill the buffer exactly is an error. Lifting reads a value
// and then requires that the whole buffer was consumed.
//
// BOUNDS:
//
// A Cursor refuses every access past the end of its buffer. The first
// violation poisons the cursor: all later reads and writes return the same
// *OutOfBoundsError.
//
// The generated Python helpers implement this exact layout; the tests in
// this package are the executable definition of it.
package codec
