package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/bindgen/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	DB        string
	Namespace string
	Limit     int
}

// RunRecord is the JSON form of a ledger row.
type RunRecord struct {
	Seq               int64        `json:"seq"`
	ID                string       `json:"id"`
	Namespace         string       `json:"namespace"`
	SourceDir         string       `json:"source_dir"`
	Output            string       `json:"output"`
	InterfaceChecksum string       `json:"interface_checksum"`
	OutputChecksum    string       `json:"output_checksum"`
	GeneratorVersion  string       `json:"generator_version"`
	Counts            store.Counts `json:"counts"`
	Skipped           bool         `json:"skipped"`
}

// HistoryResult holds the listed runs.
type HistoryResult struct {
	Runs []RunRecord `json:"runs"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded generate runs",
		Long: `List the runs recorded in a generation ledger, oldest first.

Examples:
  bindgen history --db bindgen.db
  bindgen history --db bindgen.db --namespace geometry --limit 5`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "generation ledger database (required)")
	cmd.Flags().StringVar(&opts.Namespace, "namespace", "", "only runs for this namespace")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "only the most recent N runs")

	return cmd
}

func runHistory(ctx context.Context, opts *HistoryOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	dbPath := opts.DB
	if opts.Config != nil {
		dbPath = opts.Config.DB
	}
	if dbPath == "" {
		return NewExitError(ExitCommandError, "--db is required")
	}
	// Opening would create an empty ledger; a missing one is a usage error.
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("database not found: %s", dbPath))
	}

	ledger, err := store.Open(dbPath)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeLedger, err.Error(), nil, nil)
	}
	defer ledger.Close()

	runs, err := ledger.ListRuns(ctx, opts.Namespace, opts.Limit)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeLedger, err.Error(), nil, nil)
	}

	result := HistoryResult{Runs: make([]RunRecord, len(runs))}
	for i, r := range runs {
		result.Runs[i] = RunRecord{
			Seq:               r.Seq,
			ID:                r.ID,
			Namespace:         r.Namespace,
			SourceDir:         r.SourceDir,
			Output:            r.OutputPath,
			InterfaceChecksum: r.InterfaceHash,
			OutputChecksum:    r.OutputHash,
			GeneratorVersion:  r.GeneratorVersion,
			Counts:            r.Counts,
			Skipped:           r.Skipped,
		}
	}

	if formatter.JSON() {
		return formatter.Success(result, "")
	}

	w := formatter.Writer
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}
	for _, r := range result.Runs {
		status := "written"
		if r.Skipped {
			status = "skipped"
		}
		fmt.Fprintf(w, "[%d] %s %s -> %s (%s, interface %s)\n",
			r.Seq, r.ID, r.Namespace, r.Output, status, shortHash(r.InterfaceChecksum))
	}
	return nil
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
