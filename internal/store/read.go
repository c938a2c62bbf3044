package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const runColumns = `id, seq, folder, output_root, profile, state, total, succeeded, failed, skipped,
	manifest_digest, engine_version, ir_version`

const itemColumns = `run_id, seq, uuid, path, status, output, source_digest, document_digest, losses,
	resources, error`

// ReadRun returns the run with the given ID.
// Returns an error wrapping ErrRunNotFound if it does not exist.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("read run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("read run %s: %w", id, err)
	}
	return run, nil
}

// ListRuns returns the most recent runs, newest first.
// A limit of zero or less returns every run.
//
// Returns an empty slice (not nil) if the ledger is empty.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		ORDER BY seq DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadItems returns the items of a run in seq order.
//
// Returns an empty slice (not nil) if the run has no items.
func (s *Store) ReadItems(ctx context.Context, runID string) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+itemColumns+`
		FROM items
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}

// LastSuccess returns the most recent successful conversion of the asset
// with the given UUID. The boolean is false when the asset has never been
// converted successfully.
func (s *Store) LastSuccess(ctx context.Context, uuid string) (Item, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT i.run_id, i.seq, i.uuid, i.path, i.status, i.output,
		       i.source_digest, i.document_digest, i.losses, i.resources, i.error
		FROM items i
		JOIN runs r ON r.id = i.run_id
		WHERE i.uuid = ? AND i.status = ?
		ORDER BY r.seq DESC, i.seq DESC
		LIMIT 1
	`, uuid, string(ItemSucceeded))
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Item{}, false, nil
	}
	if err != nil {
		return Item{}, false, fmt.Errorf("last success %s: %w", uuid, err)
	}
	return item, true, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var run Run
	var state string
	err := sc.Scan(
		&run.ID,
		&run.Seq,
		&run.Folder,
		&run.OutputRoot,
		&run.Profile,
		&state,
		&run.Total,
		&run.Succeeded,
		&run.Failed,
		&run.Skipped,
		&run.ManifestDigest,
		&run.EngineVersion,
		&run.IRVersion,
	)
	if err != nil {
		return Run{}, err
	}
	run.State = RunState(state)
	return run, nil
}

func scanItem(sc scanner) (Item, error) {
	var item Item
	var status, resources string
	err := sc.Scan(
		&item.RunID,
		&item.Seq,
		&item.UUID,
		&item.Path,
		&status,
		&item.Output,
		&item.SourceDigest,
		&item.DocumentDigest,
		&item.Losses,
		&resources,
		&item.Error,
	)
	if err != nil {
		return Item{}, err
	}
	item.Status = ItemStatus(status)
	if item.Resources, err = unmarshalResources(resources); err != nil {
		return Item{}, err
	}
	return item, nil
}
