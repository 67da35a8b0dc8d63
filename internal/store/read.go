package store

import (
	"context"
	"fmt"
)

const runColumns = `id, seq, namespace, source_dir, output_path, interface_hash, output_hash, generator_version, counts, skipped`

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// LatestRun returns the most recent run that wrote outputPath.
// Returns sql.ErrNoRows if there is none.
func (s *Store) LatestRun(ctx context.Context, outputPath string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		WHERE output_path = ?
		ORDER BY seq DESC
		LIMIT 1
	`, outputPath)
	return scanRun(row)
}

// ReadRun retrieves a single run by ID.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		WHERE id = ?
	`, id)
	return scanRun(row)
}

// ListRuns returns the runs for namespace, or all runs when namespace is
// empty, ordered by seq ASC, id ASC COLLATE BINARY. A positive limit keeps
// only the most recent runs.
//
// Returns an empty slice (not nil) if no runs exist.
func (s *Store) ListRuns(ctx context.Context, namespace string, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs`
	var args []any
	if namespace != "" {
		query += ` WHERE namespace = ?`
		args = append(args, namespace)
	}
	if limit > 0 {
		// Newest rows first, re-ordered below.
		query = `SELECT * FROM (` + query + ` ORDER BY seq DESC LIMIT ?)`
		args = append(args, limit)
	}
	query += ` ORDER BY seq ASC, id COLLATE BINARY ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

func scanRun(row scanner) (Run, error) {
	var (
		run        Run
		countsJSON string
	)
	err := row.Scan(
		&run.ID,
		&run.Seq,
		&run.Namespace,
		&run.SourceDir,
		&run.OutputPath,
		&run.InterfaceHash,
		&run.OutputHash,
		&run.GeneratorVersion,
		&countsJSON,
		&run.Skipped,
	)
	if err != nil {
		// Preserve sql.ErrNoRows for callers.
		return Run{}, err
	}

	run.Counts, err = unmarshalCounts(countsJSON)
	if err != nil {
		return Run{}, err
	}
	return run, nil
}
