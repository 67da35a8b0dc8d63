package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestConformance runs every scenario in testdata/scenarios against its
// golden snapshot.
func TestConformance(t *testing.T) {
	scenarios, err := LoadScenarios("testdata/scenarios")
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)

	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) {
			require.NoError(t, RunWithGolden(t, s))
		})
	}
}

func TestSnapshot_Canonical(t *testing.T) {
	result := NewResult()
	result.Cases = append(result.Cases,
		CaseResult{Name: "one", Type: "u32", Hex: "00000001", Size: 4, Decoded: "1"},
		CaseResult{Name: "bad", Type: "Nope", Error: KindUndefined},
	)

	data, err := Snapshot("snap", result)
	require.NoError(t, err)
	require.Equal(t,
		`{"cases":[{"decoded":"1","hex":"00000001","name":"one","size":4,"type":"u32"},`+
			`{"error":"undefined","name":"bad","size":0,"type":"Nope"}],"scenario_name":"snap"}`,
		string(data))
}

func TestRunWithGolden_SingleScenario(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", "optionals.yaml"))
	require.NoError(t, err)
	require.NoError(t, RunWithGolden(t, s))
}
