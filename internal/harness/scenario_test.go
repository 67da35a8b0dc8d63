package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScenario writes content next to an empty spec directory and returns
// the scenario path.
func writeScenario(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "spec"), 0755))
	path := filepath.Join(dir, "test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario_ValidFile(t *testing.T) {
	path := writeScenario(t, `
name: test_scenario
description: "Test scenario for validation"
spec: spec
cases:
  - name: point
    type: Point
    value: {x: 1, y: 2}
    size: 16
  - name: raw
    type: u32
    hex: 0000 0001
    decoded: "1"
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "test_scenario", scenario.Name)
	assert.Equal(t, "Test scenario for validation", scenario.Description)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "spec"), scenario.Spec)
	require.Len(t, scenario.Cases, 2)

	assert.True(t, scenario.Cases[0].HasValue())
	require.NotNil(t, scenario.Cases[0].Size)
	assert.Equal(t, 16, *scenario.Cases[0].Size)

	assert.False(t, scenario.Cases[1].HasValue())
	assert.Equal(t, "0000 0001", scenario.Cases[1].Hex)
	assert.Nil(t, scenario.Cases[1].Size)
}

func TestLoadScenario_ExplicitNullIsAValue(t *testing.T) {
	path := writeScenario(t, `
name: nulls
description: null means an absent optional
spec: spec
cases:
  - name: absent
    type: u32?
    value: null
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)
	assert.True(t, scenario.Cases[0].HasValue())
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_UnknownField(t *testing.T) {
	path := writeScenario(t, `
name: typo
description: d
spec: spec
case:
  - name: a
    type: u32
    hex: "00000000"
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing name",
			content: "description: d\nspec: spec\ncases: [{name: a, type: u32, hex: '00000000'}]\n",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			content: "name: n\nspec: spec\ncases: [{name: a, type: u32, hex: '00000000'}]\n",
			wantErr: "description is required",
		},
		{
			name:    "missing spec",
			content: "name: n\ndescription: d\ncases: [{name: a, type: u32, hex: '00000000'}]\n",
			wantErr: "spec is required",
		},
		{
			name:    "spec directory missing",
			content: "name: n\ndescription: d\nspec: nowhere\ncases: [{name: a, type: u32, hex: '00000000'}]\n",
			wantErr: "spec directory not found",
		},
		{
			name:    "no cases",
			content: "name: n\ndescription: d\nspec: spec\ncases: []\n",
			wantErr: "cases list is required",
		},
		{
			name:    "case without name",
			content: "name: n\ndescription: d\nspec: spec\ncases: [{type: u32, hex: '00000000'}]\n",
			wantErr: "cases[0]: name is required",
		},
		{
			name:    "duplicate case",
			content: "name: n\ndescription: d\nspec: spec\ncases: [{name: a, type: u32, hex: '00'}, {name: a, type: u32, hex: '00'}]\n",
			wantErr: `cases[1]: duplicate case name "a"`,
		},
		{
			name:    "case without type",
			content: "name: n\ndescription: d\nspec: spec\ncases: [{name: a, hex: '00'}]\n",
			wantErr: "cases[0]: type is required",
		},
		{
			name:    "nothing to check",
			content: "name: n\ndescription: d\nspec: spec\ncases: [{name: a, type: u32}]\n",
			wantErr: "value or hex is required",
		},
		{
			name:    "unknown error kind",
			content: "name: n\ndescription: d\nspec: spec\ncases: [{name: a, type: u32, hex: '00', error: overflow}]\n",
			wantErr: `unknown error kind "overflow"`,
		},
		{
			name:    "negative size",
			content: "name: n\ndescription: d\nspec: spec\ncases: [{name: a, type: u32, value: 1, size: -1}]\n",
			wantErr: "size must be non-negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid scenario")
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenarios_Directory(t *testing.T) {
	scenarios, err := LoadScenarios("testdata/scenarios")
	require.NoError(t, err)

	names := make([]string, len(scenarios))
	for i, s := range scenarios {
		names[i] = s.Name
	}
	assert.Equal(t, []string{"enums_and_errors", "geometry_points", "optionals"}, names)
}

func TestLoadScenarios_ReportsFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("name: [\n"), 0644))

	_, err := LoadScenarios(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.yaml")
}
