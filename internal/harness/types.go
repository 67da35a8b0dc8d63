package harness

import (
	"errors"

	"github.com/roach88/bindgen/internal/codec"
	"github.com/roach88/bindgen/internal/ir"
)

// Failure kinds a case can expect.
const (
	KindOutOfBounds     = "out_of_bounds"
	KindTrailingBytes   = "trailing_bytes"
	KindUnsupportedType = "unsupported_type"
	KindTypeMismatch    = "type_mismatch"
	KindInvalidOrdinal  = "invalid_ordinal"
	KindUndefined       = "undefined"
	KindOther           = "other"
)

var kindSentinels = []struct {
	kind string
	err  error
}{
	{KindOutOfBounds, codec.ErrOutOfBounds},
	{KindTrailingBytes, codec.ErrTrailingBytes},
	{KindUnsupportedType, ir.ErrUnsupportedType},
	{KindTypeMismatch, codec.ErrTypeMismatch},
	{KindInvalidOrdinal, codec.ErrInvalidOrdinal},
	{KindUndefined, codec.ErrUndefined},
}

// ErrorKind classifies err by the codec and generator sentinels it wraps.
func ErrorKind(err error) string {
	for _, s := range kindSentinels {
		if errors.Is(err, s.err) {
			return s.kind
		}
	}
	return KindOther
}

func knownKind(kind string) bool {
	for _, s := range kindSentinels {
		if s.kind == kind {
			return true
		}
	}
	return false
}

// CaseResult is the observed outcome of one case.
type CaseResult struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Hex     string `json:"hex,omitempty"`
	Size    int    `json:"size"`
	Decoded string `json:"decoded,omitempty"`
	Error   string `json:"error,omitempty"` // failure kind
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every case matched its expectations.
	Pass bool `json:"pass"`

	// Cases holds one entry per case, in scenario order.
	Cases []CaseResult `json:"cases"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Cases:  []CaseResult{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// toCanonicalMap converts the observed cases to a map[string]any for
// canonical JSON serialization.
func (r *Result) toCanonicalMap(scenarioName string) map[string]any {
	cases := make([]any, len(r.Cases))
	for i, c := range r.Cases {
		m := map[string]any{
			"name": c.Name,
			"type": c.Type,
			"size": c.Size,
		}
		if c.Hex != "" {
			m["hex"] = c.Hex
		}
		if c.Decoded != "" {
			m["decoded"] = c.Decoded
		}
		if c.Error != "" {
			m["error"] = c.Error
		}
		cases[i] = m
	}
	return map[string]any{
		"scenario_name": scenarioName,
		"cases":         cases,
	}
}
