package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bindgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func testFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("format", "text", "")
	fs.Bool("verbose", false, "")
	fs.String("log-level", LevelWarning, "")
	fs.String("library-name", "", "")
	fs.String("db", "", "")
	return fs
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, &Config{Format: "text", LogLevel: LevelWarning}, cfg)
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `
format: json
verbose: true
log:
  level: debug
library: ./libgeometry.so
db: runs.db
`)

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, &Config{
		Format:   "json",
		Verbose:  true,
		LogLevel: LevelDebug,
		Library:  "./libgeometry.so",
		DB:       "runs.db",
	}, cfg)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "absent.yaml")
}

func TestLoadConfig_Env(t *testing.T) {
	path := writeConfig(t, "format: json\ndb: file.db\n")
	t.Setenv("BINDGEN_DB", "env.db")
	t.Setenv("BINDGEN_LOG_LEVEL", LevelError)

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "env.db", cfg.DB)
	assert.Equal(t, LevelError, cfg.LogLevel)
}

func TestLoadConfig_FlagsOverride(t *testing.T) {
	path := writeConfig(t, "format: json\nlibrary: from-file\ndb: file.db\n")
	t.Setenv("BINDGEN_DB", "env.db")

	fs := testFlagSet()
	require.NoError(t, fs.Parse([]string{"--db", "flag.db", "--library-name", "from-flag", "--log-level", LevelInfo}))

	cfg, err := LoadConfig(path, fs)
	require.NoError(t, err)

	assert.Equal(t, "flag.db", cfg.DB)
	assert.Equal(t, "from-flag", cfg.Library)
	assert.Equal(t, LevelInfo, cfg.LogLevel)
	// Unchanged flags keep lower-precedence values.
	assert.Equal(t, "json", cfg.Format)
}

func TestLoadConfig_UnchangedFlagsKeepDefaults(t *testing.T) {
	fs := testFlagSet()
	require.NoError(t, fs.Parse(nil))

	cfg, err := LoadConfig("", fs)
	require.NoError(t, err)

	assert.Equal(t, "text", cfg.Format)
	assert.False(t, cfg.Verbose)
	assert.Equal(t, LevelWarning, cfg.LogLevel)
}

func TestLoadConfig_VerboseFlag(t *testing.T) {
	fs := testFlagSet()
	require.NoError(t, fs.Parse([]string{"--verbose"}))

	cfg, err := LoadConfig("", fs)
	require.NoError(t, err)
	assert.True(t, cfg.Verbose)
}

func TestMapFlagToConfig(t *testing.T) {
	key, val := mapFlagToConfig("log-level", "debug")
	assert.Equal(t, "log.level", key)
	assert.Equal(t, "debug", val)

	key, _ = mapFlagToConfig("library-name", "x")
	assert.Equal(t, "library", key)

	key, _ = mapFlagToConfig("format", "json")
	assert.Equal(t, "format", key)
}

func TestConfigFileDrivesCommand(t *testing.T) {
	path := writeConfig(t, "format: json\n")

	stdout, _, err := execute(t, "validate", geometryDir, "--config", path)
	require.NoError(t, err)

	var result ValidationResult
	resp := decodeResponse(t, stdout, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, result.Valid)
}
