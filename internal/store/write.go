package store

import (
	"context"
	"fmt"
)

// BeginRun inserts a run in the converting state and returns it with its
// assigned seq. Run seq is one greater than the highest seq in the ledger,
// allocated inside the insert transaction.
func (s *Store) BeginRun(ctx context.Context, run Run) (Run, error) {
	if run.ID == "" {
		return Run{}, fmt.Errorf("begin run: empty run ID")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("begin run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&seq); err != nil {
		return Run{}, fmt.Errorf("begin run: next seq: %w", err)
	}

	run.Seq = seq
	run.State = RunConverting
	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, folder, output_root, profile, state, engine_version, ir_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.Seq,
		run.Folder,
		run.OutputRoot,
		run.Profile,
		string(run.State),
		run.EngineVersion,
		run.IRVersion,
	)
	if err != nil {
		return Run{}, fmt.Errorf("begin run: insert: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("begin run: commit: %w", err)
	}
	return run, nil
}

// WriteItem inserts an item outcome.
// Uses ON CONFLICT(run_id, seq) DO NOTHING for idempotency - a retried write
// of the same item is silently ignored.
//
// Note: The run referenced by RunID must exist (foreign key constraint).
func (s *Store) WriteItem(ctx context.Context, item Item) error {
	resources, err := marshalResources(item.Resources)
	if err != nil {
		return fmt.Errorf("write item: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO items
		(run_id, seq, uuid, path, status, output, source_digest, document_digest, losses, resources, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, seq) DO NOTHING
	`,
		item.RunID,
		item.Seq,
		item.UUID,
		item.Path,
		string(item.Status),
		item.Output,
		item.SourceDigest,
		item.DocumentDigest,
		item.Losses,
		resources,
		item.Error,
	)
	if err != nil {
		return fmt.Errorf("write item: %w", err)
	}
	return nil
}

// FinishRun records the final state, counts and manifest digest of a run.
func (s *Store) FinishRun(ctx context.Context, id string, state RunState, counts Counts, manifestDigest string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE runs
		SET state = ?, total = ?, succeeded = ?, failed = ?, skipped = ?, manifest_digest = ?
		WHERE id = ?
	`,
		string(state),
		counts.Total,
		counts.Succeeded,
		counts.Failed,
		counts.Skipped,
		manifestDigest,
		id,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("finish run %s: %w", id, ErrRunNotFound)
	}
	return nil
}
