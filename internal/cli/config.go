package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/spf13/pflag"
)

// DefaultConfigFile is read from the working directory when --config is
// not given and the file exists.
const DefaultConfigFile = "bindgen.yaml"

// EnvPrefix prefixes environment overrides: BINDGEN_LOG_LEVEL sets log.level.
const EnvPrefix = "BINDGEN_"

// Config is the merged configuration of one CLI invocation.
// Sources apply in order: defaults, config file, environment, flags.
type Config struct {
	Format   string
	Verbose  bool
	LogLevel string

	// Library is the native library name passed to generate.
	Library string
	// DB is the generation ledger path. Empty disables the ledger.
	DB string
}

var configDefaults = map[string]interface{}{
	"format":    "text",
	"verbose":   false,
	"log.level": "warning",
	"library":   "",
	"db":        "",
}

// flagKeys maps flag names to config keys. Flags not listed keep their name.
var flagKeys = map[string]string{
	"log-level":    "log.level",
	"library-name": "library",
}

// LoadConfig merges defaults, the config file, BINDGEN_* variables and the
// flags of flagSet. An explicit path must exist; the default file is
// optional.
func LoadConfig(path string, flagSet *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(configDefaults, "."), nil); err != nil {
		return nil, fmt.Errorf("error loading defaults: %w", err)
	}

	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			path = DefaultConfigFile
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading config %s: %w", DefaultConfigFile, err)
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config %s: %w", path, err)
		}
	}

	envOpts := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, EnvPrefix)),
			"_",
			".",
		)
	})
	if err := k.Load(envOpts, nil); err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}

	if flagSet != nil {
		if err := k.Load(posflag.ProviderWithValue(flagSet, ".", k, mapFlagToConfig), nil); err != nil {
			return nil, fmt.Errorf("error loading flags: %w", err)
		}
	}

	return &Config{
		Format:   k.String("format"),
		Verbose:  k.Bool("verbose"),
		LogLevel: k.String("log.level"),
		Library:  k.String("library"),
		DB:       k.String("db"),
	}, nil
}

func mapFlagToConfig(key string, value string) (string, interface{}) {
	if mapped, ok := flagKeys[key]; ok {
		return mapped, value
	}
	return key, value
}
