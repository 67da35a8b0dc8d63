package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Valid(t *testing.T) {
	stdout, _, err := execute(t, "validate", geometryDir)
	require.NoError(t, err)
	assert.Equal(t, "✓ Interface valid: geometry (1 enums, 1 records, 1 functions, 1 objects)\n", stdout)
}

func TestValidate_ValidJSON(t *testing.T) {
	stdout, _, err := execute(t, "validate", geometryDir, "--format", "json")
	require.NoError(t, err)

	var result ValidationResult
	resp := decodeResponse(t, stdout, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, result.Valid)
	require.NotNil(t, result.Interface)
	assert.Equal(t, InterfaceSummary{Namespace: "geometry", Enums: 1, Records: 1, Functions: 1, Objects: 1}, *result.Interface)
}

func TestValidate_Invalid(t *testing.T) {
	stdout, _, err := execute(t, "validate", invalidDir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "validation failed with 1 error(s)")
	assert.Contains(t, stdout, "✗ Validation failed")
	assert.Contains(t, stdout, "E105")
}

func TestValidate_InvalidJSON(t *testing.T) {
	stdout, _, err := execute(t, "validate", invalidDir, "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var result ValidationResult
	resp := decodeResponse(t, stdout, &result)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E105", resp.Error.Code)
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
}

// Schema-valid interfaces still fail when generation would fail.
func TestValidate_DryRunGeneration(t *testing.T) {
	stdout, _, err := execute(t, "validate", unsupportedDir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "E201: generate:")
}

func TestValidate_MissingDir(t *testing.T) {
	_, _, err := execute(t, "validate", "testdata/does-not-exist")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestValidate_RequiresArg(t *testing.T) {
	_, _, err := execute(t, "validate")
	require.Error(t, err)
}
