package harness

import (
	"encoding/hex"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/roach88/bindgen/internal/codec"
	"github.com/roach88/bindgen/internal/compiler"
	"github.com/roach88/bindgen/internal/ir"
)

// Harness runs conformance cases against one interface.
type Harness struct {
	ci     *ir.ComponentInterface
	codec  *codec.Codec
	logger *zap.Logger
}

// New creates a harness for ci. A nil logger discards output.
func New(ci *ir.ComponentInterface, logger *zap.Logger) *Harness {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Harness{
		ci:     ci,
		codec:  codec.New(ci),
		logger: logger.With(zap.String("namespace", ci.Namespace)),
	}
}

// Run executes a scenario and returns the result.
//
// Execution flow:
// 1. Load and compile the scenario's interface directory
// 2. Validate the interface
// 3. Run every case in order, recording observations and mismatches
//
// An error is returned only when the scenario cannot run at all; case
// mismatches are reported through Result.
func Run(scenario *Scenario, logger *zap.Logger) (*Result, error) {
	loaded, err := compiler.LoadDir(scenario.Spec)
	if err != nil {
		return nil, fmt.Errorf("failed to load interface: %w", err)
	}
	if errs := compiler.Validate(loaded.Interface); len(errs) > 0 {
		return nil, fmt.Errorf("invalid interface: %w", errs[0])
	}

	h := New(loaded.Interface, logger)
	return h.RunCases(scenario.Cases), nil
}

// RunCases runs cases in order. Every case runs even after a failure.
func (h *Harness) RunCases(cases []Case) *Result {
	result := NewResult()
	for i := range cases {
		c := &cases[i]
		observed, problems := h.runCase(c)
		result.Cases = append(result.Cases, observed)
		for _, p := range problems {
			result.AddError(fmt.Sprintf("case %q: %s", c.Name, p))
		}
		h.logger.Debug("case finished",
			zap.String("case", c.Name),
			zap.String("type", c.Type),
			zap.Int("size", observed.Size),
			zap.String("error", observed.Error),
			zap.Int("problems", len(problems)))
	}
	return result
}

func (h *Harness) runCase(c *Case) (CaseResult, []string) {
	observed := CaseResult{Name: c.Name, Type: c.Type}

	t, err := ir.ParseType(c.Type, h.ci.Resolve)
	if err != nil {
		observed.Error = KindUndefined
		return observed, expectError(c, observed.Error, err)
	}

	if c.HasValue() {
		return h.encodeCase(c, t, observed)
	}
	return h.decodeCase(c, t, observed)
}

func (h *Harness) encodeCase(c *Case, t ir.Type, observed CaseResult) (CaseResult, []string) {
	var raw any
	if err := c.Value.Decode(&raw); err != nil {
		observed.Error = KindOther
		return observed, []string{fmt.Sprintf("decode value: %v", err)}
	}

	v, err := codec.ValueOf(h.ci, t, raw)
	if err != nil {
		observed.Error = ErrorKind(err)
		return observed, expectError(c, observed.Error, err)
	}

	data, err := h.codec.Encode(t, v)
	if err != nil {
		observed.Error = ErrorKind(err)
		return observed, expectError(c, observed.Error, err)
	}
	observed.Hex = hex.EncodeToString(data)
	observed.Size = len(data)

	back, err := h.codec.Decode(t, data)
	if err != nil {
		observed.Error = ErrorKind(err)
		return observed, expectError(c, observed.Error, err)
	}
	observed.Decoded = back.String()

	var problems []string
	if c.Error != "" {
		problems = append(problems, fmt.Sprintf("expected %s error, encoded %d bytes", c.Error, len(data)))
	}
	if want := normalizeHex(c.Hex); want != "" && want != observed.Hex {
		problems = append(problems, fmt.Sprintf("hex = %s, want %s", observed.Hex, want))
	}
	if c.Size != nil && *c.Size != observed.Size {
		problems = append(problems, fmt.Sprintf("size = %d, want %d", observed.Size, *c.Size))
	}
	if !codec.Equal(v, back) {
		problems = append(problems, fmt.Sprintf("round trip = %s, want %s", back, v))
	}
	return observed, problems
}

func (h *Harness) decodeCase(c *Case, t ir.Type, observed CaseResult) (CaseResult, []string) {
	data, err := hex.DecodeString(normalizeHex(c.Hex))
	if err != nil {
		observed.Error = KindOther
		return observed, []string{fmt.Sprintf("invalid hex: %v", err)}
	}
	observed.Hex = hex.EncodeToString(data)
	observed.Size = len(data)

	v, err := h.codec.Decode(t, data)
	if err != nil {
		observed.Error = ErrorKind(err)
		return observed, expectError(c, observed.Error, err)
	}
	observed.Decoded = v.String()

	var problems []string
	if c.Error != "" {
		problems = append(problems, fmt.Sprintf("expected %s error, decoded %s", c.Error, v))
	}
	if c.Decoded != "" && c.Decoded != observed.Decoded {
		problems = append(problems, fmt.Sprintf("decoded = %s, want %s", observed.Decoded, c.Decoded))
	}
	return observed, problems
}

// expectError compares an observed failure with the case expectation.
func expectError(c *Case, kind string, err error) []string {
	if c.Error == "" {
		return []string{fmt.Sprintf("unexpected error: %v", err)}
	}
	if c.Error != kind {
		return []string{fmt.Sprintf("error kind = %s, want %s (%v)", kind, c.Error, err)}
	}
	return nil
}

func normalizeHex(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}

// ParseValue decodes YAML text into a Value of type t. It backs the encode
// command, which takes values in the same shape as scenario cases.
func ParseValue(ci *ir.ComponentInterface, t ir.Type, text string) (codec.Value, error) {
	var raw any
	if err := yaml.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("parse value: %w", err)
	}
	return codec.ValueOf(ci, t, raw)
}
