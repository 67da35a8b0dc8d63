package ir

// Version constants for the generator and the wire protocol.
const (
	// GeneratorVersion is the bindgen release.
	GeneratorVersion = "0.1.0"

	// WireVersion is the buffer protocol revision shared by the native
	// library and every generated binding.
	WireVersion = "1"
)
