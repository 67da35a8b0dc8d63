package cli

import (
	"encoding/hex"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/bindgen/internal/codec"
	"github.com/roach88/bindgen/internal/harness"
	"github.com/roach88/bindgen/internal/ir"
)

// CodecOptions holds flags for the encode and decode commands.
type CodecOptions struct {
	*RootOptions
	Type  string // type expression, e.g. "Point" or "u32?"
	Value string // YAML value (encode)
	Hex   string // buffer contents (decode)
}

// EncodeResult is the output of encode.
type EncodeResult struct {
	Type string `json:"type"`
	Hex  string `json:"hex"`
	Size int    `json:"size"`
}

// DecodeResult is the output of decode.
type DecodeResult struct {
	Type  string `json:"type"`
	Value any    `json:"value"`
	Text  string `json:"text"`
}

// NewEncodeCommand creates the encode command.
func NewEncodeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CodecOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "encode <spec-dir>",
		Short: "Encode a value in the buffer wire format",
		Long: `Encode a YAML value as the bytes the generated bindings would write.

Examples:
  bindgen encode ./interface --type Point --value '{x: 1.5, y: 2.5}'
  bindgen encode ./interface --type 'double?' --value null`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncode(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Type, "type", "", "type expression (required)")
	cmd.Flags().StringVar(&opts.Value, "value", "", "value as YAML (required)")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("value")

	return cmd
}

// NewDecodeCommand creates the decode command.
func NewDecodeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CodecOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "decode <spec-dir>",
		Short: "Decode buffer bytes into a value",
		Long: `Decode hex-encoded buffer contents the way the generated bindings would
read them. The buffer must be consumed exactly.

Examples:
  bindgen decode ./interface --type Point --hex 3ff80000000000004004000000000000`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Type, "type", "", "type expression (required)")
	cmd.Flags().StringVar(&opts.Hex, "hex", "", "buffer contents as hex, spaces allowed (required)")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("hex")

	return cmd
}

func runEncode(opts *CodecOptions, specDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	logger := opts.logger()

	ci, err := loadInterface(formatter, logger, specDir)
	if err != nil {
		return err
	}

	t, err := ir.ParseType(opts.Type, ci.Resolve)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeUndefinedType, err.Error(), nil, nil)
	}

	v, err := harness.ParseValue(ci, t, opts.Value)
	if err != nil {
		return formatter.Fail(ExitFailure, codecCode(err), err.Error(), nil, nil)
	}

	data, err := codec.New(ci).Encode(t, v)
	if err != nil {
		return formatter.Fail(ExitFailure, codecCode(err), err.Error(), nil, nil)
	}

	logger.Debug("value encoded", zap.String("type", opts.Type), zap.Int("size", len(data)))

	result := EncodeResult{Type: opts.Type, Hex: hex.EncodeToString(data), Size: len(data)}
	return formatter.Success(result, result.Hex)
}

func runDecode(opts *CodecOptions, specDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	logger := opts.logger()

	ci, err := loadInterface(formatter, logger, specDir)
	if err != nil {
		return err
	}

	t, err := ir.ParseType(opts.Type, ci.Resolve)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeUndefinedType, err.Error(), nil, nil)
	}

	data, err := hex.DecodeString(strings.Join(strings.Fields(opts.Hex), ""))
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeCodec, "invalid hex: "+err.Error(), nil, nil)
	}

	v, err := codec.New(ci).Decode(t, data)
	if err != nil {
		return formatter.Fail(ExitFailure, codecCode(err), err.Error(), nil, nil)
	}

	logger.Debug("value decoded", zap.String("type", opts.Type), zap.Int("size", len(data)))

	return formatter.Success(DecodeResult{
		Type:  opts.Type,
		Value: codec.Native(v),
		Text:  v.String(),
	}, v.String())
}
