package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/bindgen/internal/compiler"
	"github.com/roach88/bindgen/internal/emit"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid     bool                       `json:"valid"`
	Interface *InterfaceSummary          `json:"interface,omitempty"`
	Errors    []compiler.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <spec-dir>",
		Short: "Validate an interface without writing bindings",
		Long: `Validate the CUE interface definitions in a directory.

Runs the schema, naming and reference checks, then a dry-run generation so
that constructs the bindings cannot marshal are reported too. Nothing is
written.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, specDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
	logger := opts.logger()

	ci, err := loadInterface(formatter, logger, specDir)
	if err != nil {
		return err
	}

	// Dry run: the emitter rejects what it cannot marshal.
	if _, err := emit.Emit(ci, emit.Config{}); err != nil {
		logger.Debug("dry-run generation failed", zap.Error(err))
		return outputValidationErrors(formatter, []compiler.ValidationError{{
			Field:   "generate",
			Message: err.Error(),
			Code:    generationCode(err),
		}})
	}

	summary := summarize(ci)
	return formatter.Success(
		ValidationResult{Valid: true, Interface: &summary},
		"✓ Interface valid: "+summary.String(),
	)
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, errs []compiler.ValidationError) error {
	msg := fmt.Sprintf("validation failed with %d error(s)", len(errs))

	if formatter.JSON() {
		err := formatter.Fail(ExitFailure, errs[0].Code, errs[0].Message,
			ValidationResult{Valid: false, Errors: errs}, nil)
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			// Validation failures = exit code 1 (test/validation failure)
			return NewExitError(ExitFailure, msg)
		}
		return err
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		if err.Line > 0 {
			fmt.Fprintf(formatter.Writer, "line %d\n", err.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n\n", err.Code, err.Field, err.Message)
	}

	return NewExitError(ExitFailure, msg)
}
