package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/bindgen/internal/compiler"
	"github.com/roach88/bindgen/internal/emit"
	"github.com/roach88/bindgen/internal/ir"
	"github.com/roach88/bindgen/internal/store"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	Output        string // output file path, stdout when empty
	LibraryName   string // native library override
	DB            string // generation ledger path
	SkipUnchanged bool
}

// GenerateResult describes one generate run.
type GenerateResult struct {
	Interface         InterfaceSummary `json:"interface"`
	Output            string           `json:"output,omitempty"`
	InterfaceChecksum string           `json:"interface_checksum"`
	OutputChecksum    string           `json:"output_checksum"`
	Bytes             int              `json:"bytes"`
	Skipped           bool             `json:"skipped"`
	RunID             string           `json:"run_id,omitempty"`
	Seq               int64            `json:"seq,omitempty"`

	// Module carries the generated source when JSON output goes to stdout.
	Module string `json:"module,omitempty"`
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate <spec-dir>",
		Short: "Generate Python bindings for an interface",
		Long: `Generate a Python ctypes binding module from CUE interface definitions.

Generation is all-or-nothing: if any construct uses a type the bindings
cannot marshal, nothing is written.

With --db every run is recorded in a SQLite ledger. --skip-unchanged then
leaves the output untouched when the interface, the generator version and
the file on disk all match the previous run for the same output path.

Examples:
  bindgen generate ./interface -o geometry.py
  bindgen generate ./interface -o geometry.py --library-name ./libgeometry.so
  bindgen generate ./interface -o geometry.py --db bindgen.db --skip-unchanged`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path (default stdout)")
	cmd.Flags().StringVar(&opts.LibraryName, "library-name", "", "load this library instead of libuniffi_<namespace>")
	cmd.Flags().StringVar(&opts.DB, "db", "", "generation ledger database")
	cmd.Flags().BoolVar(&opts.SkipUnchanged, "skip-unchanged", false, "do not rewrite unchanged output (requires --db and -o)")

	return cmd
}

// settings resolves flag values against the merged configuration.
func (o *GenerateOptions) settings() (library, db string) {
	if o.Config != nil {
		return o.Config.Library, o.Config.DB
	}
	return o.LibraryName, o.DB
}

func runGenerate(ctx context.Context, opts *GenerateOptions, specDir string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	logger := opts.logger()
	library, dbPath := opts.settings()

	if opts.SkipUnchanged && (dbPath == "" || opts.Output == "") {
		return NewExitError(ExitCommandError, "--skip-unchanged requires --db and --output")
	}

	ci, err := loadInterface(formatter, logger, specDir)
	if err != nil {
		return err
	}

	src, err := emit.Generate(ci, emit.Config{LibraryName: library})
	if err != nil {
		logger.Debug("generation failed", zap.Error(err))
		return formatter.Fail(ExitFailure, generationCode(err), err.Error(), nil, nil)
	}

	ifaceSum, err := ir.InterfaceChecksum(ci)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeGeneration, err.Error(), nil, nil)
	}

	result := GenerateResult{
		Interface:         summarize(ci),
		InterfaceChecksum: ifaceSum,
		OutputChecksum:    ir.OutputChecksum(src),
		Bytes:             len(src),
	}

	run := store.Run{
		Namespace:        ci.Namespace,
		SourceDir:        specDir,
		OutputPath:       "-",
		InterfaceHash:    result.InterfaceChecksum,
		OutputHash:       result.OutputChecksum,
		GeneratorVersion: ir.GeneratorVersion,
		Counts: store.Counts{
			Enums:     result.Interface.Enums,
			Records:   result.Interface.Records,
			Functions: result.Interface.Functions,
			Objects:   result.Interface.Objects,
		},
	}
	if abs, err := filepath.Abs(specDir); err == nil {
		run.SourceDir = abs
	}

	var ledger *store.Store
	if dbPath != "" {
		ledger, err = store.Open(dbPath)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeLedger, err.Error(), nil, nil)
		}
		defer ledger.Close()
	}

	if opts.Output != "" {
		outPath, err := filepath.Abs(opts.Output)
		if err != nil {
			return formatter.Fail(ExitCommandError, compiler.ErrCodeWriteFailed, err.Error(), nil, nil)
		}
		run.OutputPath = outPath
		result.Output = opts.Output

		if opts.SkipUnchanged {
			unchanged, err := unchangedOnDisk(ctx, ledger, run)
			if err != nil {
				return formatter.Fail(ExitCommandError, ErrCodeLedger, err.Error(), nil, nil)
			}
			run.Skipped = unchanged
		}

		if !run.Skipped {
			if err := writeOutput(outPath, src); err != nil {
				return formatter.Fail(ExitCommandError, compiler.ErrCodeWriteFailed, err.Error(), nil, nil)
			}
		}
	}
	result.Skipped = run.Skipped

	if ledger != nil {
		recorded, err := ledger.RecordRun(ctx, run)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeLedger, err.Error(), nil, nil)
		}
		result.RunID = recorded.ID
		result.Seq = recorded.Seq
	}

	logger.Info("bindings generated",
		zap.String("namespace", ci.Namespace),
		zap.String("output", run.OutputPath),
		zap.Int("bytes", result.Bytes),
		zap.Bool("skipped", result.Skipped),
		zap.String("run_id", result.RunID))

	if opts.Output == "" {
		if formatter.JSON() {
			result.Module = string(src)
			return formatter.Success(result, "")
		}
		_, err := formatter.Writer.Write(src)
		return err
	}

	if result.Skipped {
		return formatter.Success(result, fmt.Sprintf("✓ %s unchanged, skipped", opts.Output))
	}
	return formatter.Success(result, fmt.Sprintf("✓ Generated %s for %s", opts.Output, result.Interface))
}

// unchangedOnDisk reports whether the latest run for run.OutputPath produced
// the same output and the file still holds exactly that output.
func unchangedOnDisk(ctx context.Context, ledger *store.Store, run store.Run) (bool, error) {
	prev, err := ledger.LatestRun(ctx, run.OutputPath)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read ledger: %w", err)
	}
	if !run.Unchanged(prev) {
		return false, nil
	}

	data, err := os.ReadFile(run.OutputPath)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read output: %w", err)
	}
	return ir.OutputChecksum(data) == prev.OutputHash, nil
}

func writeOutput(path string, src []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, src, 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
