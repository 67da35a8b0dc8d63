// Package harness runs codec conformance scenarios.
//
// A scenario is a YAML file naming an interface directory and a list of
// cases. Each case pins the wire form of one value: the harness encodes it
// with the codec, compares bytes and size with the expectation, and decodes
// the bytes back to the original value. Decode-only cases feed raw hex to
// the decoder, which is how truncated and malformed buffers are covered.
//
// Example:
//
//	name: geometry_points
//	description: Points are two packed big-endian doubles
//	spec: ../specs/geometry
//	cases:
//	  - name: point
//	    type: Point
//	    value: {x: 1.5, y: 2.5}
//	    hex: 3ff8000000000000 4004000000000000
//	    size: 16
//	  - name: truncated
//	    type: Point
//	    hex: 3ff8
//	    error: out_of_bounds
//
// RunWithGolden additionally snapshots every observed case (bytes, size,
// decoded form, failure kind) into testdata/golden, so a change to the wire
// format shows up as a golden diff even when no expectation was written.
package harness
