package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bindgen/internal/store"
)

// seedLedger records runs for the given namespaces in a fresh ledger.
func seedLedger(t *testing.T, namespaces ...string) string {
	t.Helper()
	db := filepath.Join(t.TempDir(), "bindgen.db")
	ledger, err := store.Open(db)
	require.NoError(t, err)
	defer ledger.Close()

	for i, ns := range namespaces {
		_, err := ledger.RecordRun(context.Background(), store.Run{
			Namespace:        ns,
			SourceDir:        "/src/" + ns,
			OutputPath:       "/out/" + ns + ".py",
			InterfaceHash:    "abcdef0123456789abcdef",
			OutputHash:       "fedcba",
			GeneratorVersion: "test",
			Counts:           store.Counts{Records: i},
			Skipped:          i%2 == 1,
		})
		require.NoError(t, err)
	}
	return db
}

func TestHistory_Text(t *testing.T) {
	db := seedLedger(t, "geometry", "geometry")

	stdout, _, err := execute(t, "history", "--db", db)
	require.NoError(t, err)

	lines := splitLines(stdout)
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "[1] ")
	assert.Contains(t, lines[0], "geometry -> /out/geometry.py (written, interface abcdef012345)")
	assert.Contains(t, lines[1], "[2] ")
	assert.Contains(t, lines[1], "(skipped, interface abcdef012345)")
}

func TestHistory_JSONFilters(t *testing.T) {
	db := seedLedger(t, "geometry", "shapes", "geometry", "geometry")

	stdout, _, err := execute(t, "history", "--db", db, "--namespace", "geometry", "--limit", "2", "--format", "json")
	require.NoError(t, err)

	var result HistoryResult
	resp := decodeResponse(t, stdout, &result)
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, result.Runs, 2)
	assert.Equal(t, int64(3), result.Runs[0].Seq)
	assert.Equal(t, int64(4), result.Runs[1].Seq)
	assert.Equal(t, "/out/geometry.py", result.Runs[1].Output)
	assert.Equal(t, store.Counts{Records: 3}, result.Runs[1].Counts)
	assert.True(t, result.Runs[1].Skipped)
}

func TestHistory_Empty(t *testing.T) {
	db := seedLedger(t)

	stdout, _, err := execute(t, "history", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "No runs recorded.\n", stdout)

	stdout, _, err = execute(t, "history", "--db", db, "--format", "json")
	require.NoError(t, err)
	var result HistoryResult
	decodeResponse(t, stdout, &result)
	assert.NotNil(t, result.Runs)
	assert.Empty(t, result.Runs)
}

func TestHistory_RequiresDB(t *testing.T) {
	_, _, err := execute(t, "history")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "--db is required")
}

func TestHistory_MissingDB(t *testing.T) {
	db := filepath.Join(t.TempDir(), "absent.db")
	_, _, err := execute(t, "history", "--db", db)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "database not found")
	assert.NoFileExists(t, db)
}

func TestHistory_DBFromEnv(t *testing.T) {
	db := seedLedger(t, "geometry")
	t.Setenv("BINDGEN_DB", db)

	stdout, _, err := execute(t, "history")
	require.NoError(t, err)
	assert.Contains(t, stdout, "[1] ")
}

func TestShortHash(t *testing.T) {
	assert.Equal(t, "abc", shortHash("abc"))
	assert.Equal(t, "0123456789ab", shortHash("0123456789abcdef"))
}
