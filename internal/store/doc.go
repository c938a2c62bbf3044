// Package store provides the SQLite-backed run ledger.
//
// The ledger records every batch run and the outcome of every item in it:
//   - Runs: one row per batch, with aggregate counts and the manifest digest
//   - Items: one row per asset attempted, with status, output path, source
//     and document digests, loss count and error message
//
// # Ordering
//
// Runs and items are ordered by a logical seq, never by timestamps. Run seq
// is assigned by the store; item seq is the position of the item within its
// run. Queries always order by seq so results are stable across machines.
//
// # Idempotency
//
// Item writes use ON CONFLICT(run_id, seq) DO NOTHING, so a retried write
// of the same item is silently ignored.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
