package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a codec conformance scenario.
// Scenarios pin the wire encoding of concrete values against an interface
// definition: each case encodes, checks the bytes, and decodes them back.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Spec is the directory of CUE interface definitions the cases refer to.
	// Relative paths are resolved against the scenario file location.
	Spec string `yaml:"spec"`

	// Cases run in order.
	Cases []Case `yaml:"cases"`
}

// Case is a single encode and/or decode check.
//
// With a value, the case encodes it, compares the bytes against Hex and
// Size when given, then decodes the bytes and requires the original value
// back. Without a value, Hex is decoded and Decoded (if set) is compared
// with the decoded value's string form.
type Case struct {
	Name string `yaml:"name"`

	// Type is a type expression, resolved against the interface.
	Type string `yaml:"type"`

	// Value is YAML-shaped data for Type. An explicit null is an absent
	// optional; a missing key means there is nothing to encode.
	Value yaml.Node `yaml:"value,omitempty"`

	// Hex is the expected encoding, or the input for decode-only cases.
	// Spaces are ignored.
	Hex string `yaml:"hex,omitempty"`

	// Size is the expected encoded length in bytes.
	Size *int `yaml:"size,omitempty"`

	// Decoded is the expected string form of a decode-only result.
	Decoded string `yaml:"decoded,omitempty"`

	// Error is the expected failure kind (see the Kind constants).
	Error string `yaml:"error,omitempty"`
}

// HasValue reports whether the case carries a value to encode.
func (c *Case) HasValue() bool {
	return c.Value.Kind != 0
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "case:" vs "cases:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Spec != "" && !filepath.IsAbs(scenario.Spec) {
		scenario.Spec = filepath.Join(filepath.Dir(path), scenario.Spec)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadScenarios loads every .yaml file in dir, in name order.
func LoadScenarios(dir string) ([]*Scenario, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	var scenarios []*Scenario
	for _, path := range matches {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Spec == "" {
		return fmt.Errorf("spec is required")
	}
	if info, err := os.Stat(s.Spec); err != nil || !info.IsDir() {
		return fmt.Errorf("spec directory not found: %s", s.Spec)
	}
	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}

	names := make(map[string]bool)
	for i, c := range s.Cases {
		if c.Name == "" {
			return fmt.Errorf("cases[%d]: name is required", i)
		}
		if names[c.Name] {
			return fmt.Errorf("cases[%d]: duplicate case name %q", i, c.Name)
		}
		names[c.Name] = true

		if c.Type == "" {
			return fmt.Errorf("cases[%d]: type is required", i)
		}
		if !c.HasValue() && c.Hex == "" {
			return fmt.Errorf("cases[%d]: value or hex is required", i)
		}
		if c.Error != "" && !knownKind(c.Error) {
			return fmt.Errorf("cases[%d]: unknown error kind %q", i, c.Error)
		}
		if c.Size != nil && *c.Size < 0 {
			return fmt.Errorf("cases[%d]: size must be non-negative", i)
		}
	}

	return nil
}
