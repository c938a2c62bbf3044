package batch

import (
	"context"

	"github.com/roach88/uibridge/internal/ir"
	"github.com/roach88/uibridge/internal/store"
)

// Ledger failures never fail a run: the IR files are the product and the
// ledger only remembers them. A ledger that cannot start a run is detached
// for the rest of it.

func (d *Driver) beginLedger(ctx context.Context, r *run) Ledger {
	if d.ledger == nil {
		return nil
	}
	_, err := d.ledger.BeginRun(ctx, store.Run{
		ID:            r.id,
		Folder:        r.folder,
		OutputRoot:    r.req.OutputPath,
		Profile:       d.profile.Name(),
		EngineVersion: ir.EngineVersion,
		IRVersion:     ir.IRVersion,
	})
	if err != nil {
		d.logger.Warn("ledger unavailable for run", "run", r.id, "error", err)
		return nil
	}
	return d.ledger
}

func (d *Driver) writeLedgerItem(ctx context.Context, r *run, seq int64, it Item) {
	if r.ledger == nil {
		return
	}
	rec := store.Item{
		RunID:          r.id,
		Seq:            seq,
		UUID:           it.Asset.UUID,
		Path:           it.Asset.Path,
		Status:         it.Status,
		Output:         it.Output,
		SourceDigest:   it.SourceDigest,
		DocumentDigest: it.Digest,
		Losses:         it.Losses,
		Resources:      it.Resources,
	}
	if it.Err != nil {
		rec.Error = it.Err.Error()
	}
	// Cancellation must not lose the record of work already done.
	if err := r.ledger.WriteItem(context.WithoutCancel(ctx), rec); err != nil {
		d.logger.Warn("ledger write failed", "run", r.id, "asset", it.Asset.Path, "error", err)
	}
}

func (d *Driver) finishLedger(ctx context.Context, r *run, state store.RunState, manifestDigest string) {
	if r.ledger == nil {
		return
	}
	if err := r.ledger.FinishRun(context.WithoutCancel(ctx), r.id, state, r.counts, manifestDigest); err != nil {
		d.logger.Warn("ledger finish failed", "run", r.id, "error", err)
	}
}
