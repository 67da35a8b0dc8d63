package emit

// reserved lists the module-level names generated code depends on: the
// header imports, the prelude helpers and the builtins emitted bodies call.
// A declared type, function or argument with one of these names would
// shadow it.
var reserved = map[string]bool{
	// imports
	"ctypes": true,
	"enum":   true,
	"struct": true,
	"sys":    true,

	// prelude
	"OutOfBoundsError":       true,
	"TrailingBytesError":     true,
	"loadIndirect":           true,
	"RustBuffer":             true,
	"RustBufferStream":       true,
	"liftBuffer":             true,
	"lowerOptional":          true,
	"lowersIntoSizeOptional": true,
	"lowerIntoOptional":      true,
	"liftOptional":           true,
	"liftFromOptional":       true,

	// builtins
	"object":       true,
	"isinstance":   true,
	"classmethod":  true,
	"staticmethod": true,
	"getattr":      true,
	"bytes":        true,
	"enumerate":    true,
	"format":       true,
	"RuntimeError": true,
}

// locals are the parameter names of generated methods and lambdas. A
// declared type with one of these names is hidden inside those bodies.
var locals = map[string]bool{
	"self":  true,
	"cls":   true,
	"v":     true,
	"buf":   true,
	"rbuf":  true,
	"other": true,
}

// IsReserved reports whether name is used by the generated module itself.
func IsReserved(name string) bool {
	return reserved[name]
}

// IsLocal reports whether name is a parameter of generated code, which a
// declared type must not reuse.
func IsLocal(name string) bool {
	return locals[name]
}

