package store

import (
	"context"
	"fmt"
)

// RecordRun appends a run to the ledger and returns it with ID and Seq set.
// A caller-supplied ID is kept; otherwise one is generated.
//
// Seq is assigned as max(seq)+1 in the same immediate transaction as the
// insert, so runs are strictly ordered across every Store sharing the file.
func (s *Store) RecordRun(ctx context.Context, run Run) (Run, error) {
	if run.ID == "" {
		run.ID = s.ids.Generate()
	}

	countsJSON, err := marshalCounts(run.Counts)
	if err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("record run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&run.Seq); err != nil {
		return Run{}, fmt.Errorf("record run: next seq: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, namespace, source_dir, output_path, interface_hash, output_hash, generator_version, counts, skipped)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.Seq,
		run.Namespace,
		run.SourceDir,
		run.OutputPath,
		run.InterfaceHash,
		run.OutputHash,
		run.GeneratorVersion,
		countsJSON,
		run.Skipped,
	)
	if err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("record run: commit: %w", err)
	}
	return run, nil
}
