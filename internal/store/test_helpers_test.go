package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/bindgen/internal/testutil"
)

// createTestStore creates a new store in a temp directory with
// deterministic run ids.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, WithIDGenerator(testutil.NewSequentialIDs("run")))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun creates a run with minimal required fields.
func createTestRun(namespace, output, interfaceHash string) Run {
	return Run{
		Namespace:        namespace,
		SourceDir:        "specs/" + namespace,
		OutputPath:       output,
		InterfaceHash:    interfaceHash,
		OutputHash:       "out-" + interfaceHash,
		GeneratorVersion: "0.1.0",
		Counts:           Counts{Enums: 1, Records: 2, Functions: 3, Objects: 1},
	}
}
