package compiler

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bindgen/internal/ir"
)

func TestLoadDirGeometry(t *testing.T) {
	result, err := LoadDir("testdata/geometry")
	require.NoError(t, err)

	assert.Equal(t, 2, result.FileCount)
	ci := result.Interface
	assert.Equal(t, "geometry", ci.Namespace)
	assert.Len(t, ci.Enums, 1)
	assert.Len(t, ci.Records, 2)
	assert.Len(t, ci.Functions, 3)
	assert.Len(t, ci.Objects, 1)

	line, ok := ci.Record("Line")
	require.True(t, ok)
	assert.Equal(t, ir.Optional{Inner: ir.U32{}}, line.Fields[3].Type)

	fn, ok := ci.Function("intersection")
	require.True(t, ok)
	assert.Equal(t, ir.Optional{Inner: ir.Record{Name: "Point"}}, fn.ReturnType)

	assert.Empty(t, Validate(ci))
}

func TestLoadDirErrors(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file.cue")
	require.NoError(t, os.WriteFile(file, []byte(`namespace: "x"`), 0o644))

	tests := []struct {
		name string
		dir  string
		code string
	}{
		{"missing directory", "testdata/does-not-exist", ErrCodeNotFound},
		{"not a directory", file, ErrCodeNotFound},
		{"no cue files", "testdata/empty", ErrCodeNoFiles},
		{"undefined type", "testdata/broken", ErrCodeGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadDir(tt.dir)
			require.Error(t, err)

			var loadErr *LoadError
			require.True(t, errors.As(err, &loadErr))
			assert.Equal(t, tt.code, loadErr.Code)
		})
	}
}

func TestLoadDirBrokenKeepsPosition(t *testing.T) {
	_, err := LoadDir("testdata/broken")

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.True(t, loadErr.Pos.IsValid())
	assert.Contains(t, loadErr.Error(), "bad.cue")
	assert.Contains(t, loadErr.Error(), "quaternion")
}

func TestFindCUEFilesSorted(t *testing.T) {
	files, err := FindCUEFiles("testdata/geometry")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join("testdata", "geometry", "api.cue"),
		filepath.Join("testdata", "geometry", "types.cue"),
	}, files)
}
