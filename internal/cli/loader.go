package cli

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/roach88/bindgen/internal/compiler"
	"github.com/roach88/bindgen/internal/ir"
)

// InterfaceSummary counts the constructs of an interface.
type InterfaceSummary struct {
	Namespace string `json:"namespace"`
	Enums     int    `json:"enums"`
	Records   int    `json:"records"`
	Functions int    `json:"functions"`
	Objects   int    `json:"objects"`
}

func summarize(ci *ir.ComponentInterface) InterfaceSummary {
	return InterfaceSummary{
		Namespace: ci.Namespace,
		Enums:     len(ci.Enums),
		Records:   len(ci.Records),
		Functions: len(ci.Functions),
		Objects:   len(ci.Objects),
	}
}

func (s InterfaceSummary) String() string {
	return fmt.Sprintf("%s (%d enums, %d records, %d functions, %d objects)",
		s.Namespace, s.Enums, s.Records, s.Functions, s.Objects)
}

// loadInterface loads, compiles and validates the interface in dir.
// Failures are reported through f and returned as an ExitError: load
// problems exit with ExitCommandError, invalid interfaces with ExitFailure.
func loadInterface(f *OutputFormatter, logger *zap.Logger, dir string) (*ir.ComponentInterface, error) {
	loaded, err := compiler.LoadDir(dir)
	if err != nil {
		var loadErr *compiler.LoadError
		if errors.As(err, &loadErr) {
			var details any
			if loadErr.Pos.IsValid() {
				details = loadErr.Pos.String()
			}
			return nil, f.Fail(ExitCommandError, loadErr.Code, loadErr.Message, nil, details)
		}
		return nil, f.Fail(ExitCommandError, compiler.ErrCodeGeneric, err.Error(), nil, nil)
	}

	f.VerboseLog("Found %d CUE file(s) in %s", loaded.FileCount, dir)
	logger.Debug("interface loaded",
		zap.String("dir", dir),
		zap.Int("files", loaded.FileCount),
		zap.String("namespace", loaded.Interface.Namespace))

	if errs := compiler.Validate(loaded.Interface); len(errs) > 0 {
		return nil, outputValidationErrors(f, errs)
	}
	return loaded.Interface, nil
}
