package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/bindgen/internal/codec"
	"github.com/roach88/bindgen/internal/ir"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Validation, generation or scenario failure
	ExitCommandError = 2 // Command error (invalid paths, unreadable ledger, etc.)
)

// Generation error codes (E200-E299).
const (
	ErrCodeGeneration       = "E200" // generation failed for another reason
	ErrCodeUnsupportedType  = "E201" // a construct uses a kind with no marshaling rule
	ErrCodeConstructorArity = "E202" // an object does not declare exactly one constructor
	ErrCodeLedger           = "E203" // generation ledger could not be read or written
)

// Codec error codes (E300-E399).
const (
	ErrCodeCodec            = "E300" // malformed input (bad hex, bad YAML, ...)
	ErrCodeOutOfBounds      = "E301"
	ErrCodeTrailingBytes    = "E302"
	ErrCodeTypeMismatch     = "E303"
	ErrCodeInvalidOrdinal   = "E304"
	ErrCodeUndefinedType    = "E305"
	ErrCodeCodecUnsupported = "E306"
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)

	// Reported is set when the command already wrote the error to its output.
	Reported bool
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// generationCode maps an emitter failure to its error code.
func generationCode(err error) string {
	switch {
	case errors.Is(err, ir.ErrUnsupportedType):
		return ErrCodeUnsupportedType
	case errors.Is(err, ir.ErrUnsupportedConstructorArity):
		return ErrCodeConstructorArity
	default:
		return ErrCodeGeneration
	}
}

// codecCode maps an encode or decode failure to its error code.
func codecCode(err error) string {
	switch {
	case errors.Is(err, codec.ErrOutOfBounds):
		return ErrCodeOutOfBounds
	case errors.Is(err, codec.ErrTrailingBytes):
		return ErrCodeTrailingBytes
	case errors.Is(err, codec.ErrTypeMismatch):
		return ErrCodeTypeMismatch
	case errors.Is(err, codec.ErrInvalidOrdinal):
		return ErrCodeInvalidOrdinal
	case errors.Is(err, codec.ErrUndefined):
		return ErrCodeUndefinedType
	case errors.Is(err, ir.ErrUnsupportedType):
		return ErrCodeCodecUnsupported
	default:
		return ErrCodeCodec
	}
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// newFormatter builds a formatter that keeps diagnostics off stdout.
func newFormatter(opts *RootOptions, out, errOut io.Writer) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    out,
		ErrWriter: errOut,
		Verbose:   opts.Verbose,
	}
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // "E001", "E201", etc.
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// JSON reports whether the formatter emits JSON.
func (f *OutputFormatter) JSON() bool {
	return f.Format == "json"
}

// Success outputs a successful result. In text mode text is printed
// instead of data.
func (f *OutputFormatter) Success(data any, text string) error {
	if f.JSON() {
		return f.encode(CLIResponse{Status: "ok", Data: data})
	}
	_, err := fmt.Fprintln(f.Writer, text)
	return err
}

// Fail outputs an error response carrying data, and returns an ExitError
// with exitCode so the command exits non-zero.
func (f *OutputFormatter) Fail(exitCode int, code, message string, data, details any) error {
	if f.JSON() {
		if err := f.encode(CLIResponse{
			Status: "error",
			Data:   data,
			Error:  &CLIError{Code: code, Message: message, Details: details},
		}); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
		if f.Verbose && details != nil {
			fmt.Fprintf(f.Writer, "Details: %v\n", details)
		}
	}
	return &ExitError{Code: exitCode, Message: fmt.Sprintf("%s: %s", code, message), Reported: true}
}

func (f *OutputFormatter) encode(resp CLIResponse) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(resp)
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}
