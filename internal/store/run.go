package store

// Run is one recorded generate invocation.
type Run struct {
	ID  string
	Seq int64

	Namespace  string
	SourceDir  string
	OutputPath string

	// InterfaceHash is ir.InterfaceChecksum of the compiled interface.
	InterfaceHash string
	// OutputHash is the SHA-256 of the emitted module bytes.
	OutputHash string

	GeneratorVersion string
	Counts           Counts

	// Skipped is set when the output was left untouched because nothing
	// changed since the previous run.
	Skipped bool
}

// Counts tallies the constructs of a generated module.
type Counts struct {
	Enums     int `json:"enums"`
	Records   int `json:"records"`
	Functions int `json:"functions"`
	Objects   int `json:"objects"`
}

// Unchanged reports whether r produced the same output from the same
// interface as prev.
func (r Run) Unchanged(prev Run) bool {
	return r.InterfaceHash == prev.InterfaceHash &&
		r.OutputHash == prev.OutputHash &&
		r.GeneratorVersion == prev.GeneratorVersion
}
