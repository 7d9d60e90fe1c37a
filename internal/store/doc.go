// Package store holds the canonical collection of workflow runs and their
// fetched logs.
//
// # Overview
//
// The store is the single source of truth the UI renders from. It keeps
// runs in the server-reported order and reconciles each polled snapshot
// against what it already holds, reporting which identifiers were added,
// removed, or updated so the UI can adjust selection without guessing.
//
// # Concurrency Model
//
// The store is deliberately not thread-safe. It is owned by the event
// loop goroutine: background fetches never touch it directly, they send
// immutable results as messages and the event loop applies them one at a
// time. With a single owner there is nothing to lock.
//
// # Reconciliation Semantics
//
// Reconcile replaces the held order with the snapshot's order and diffs
// by run identifier:
//
//   - Added: identifier present in the snapshot, absent before
//   - Removed: identifier absent from the snapshot; its cached log is
//     dropped with it
//   - Updated: identifier present in both with any field changed
//
// Applying the same snapshot twice yields an empty diff, so a quiet
// repository produces no UI churn. Timestamps compare by instant, not
// representation, so a server switching time zones does not fake an
// update.
//
// # Log Lifecycle
//
// Each run's log moves through absent, loading, ready, or failed.
// BeginLogFetch gates duplicate work: it refuses while a fetch is
// pending or a log is already cached, but allows a retry after failure.
// Results for runs that vanished in the meantime are discarded.
package store
