// Package ir provides the interface model consumed by the binding generator.
//
// This package contains type definitions only. All other internal packages
// import ir; ir imports nothing internal. The model is built once by the
// front end and is read-only afterwards.
//
// Key design constraints:
//   - Type is a sealed union; consumers switch on the concrete variant and
//     return UnsupportedTypeError for anything they do not handle
//   - Declaration order is preserved everywhere (enum ordinals, field layout,
//     emission order all depend on it)
//   - Enum ordinals are 1-based; 0 is reserved
//   - Entry point names are derived, never written by hand
package ir
