// Package batch drives folder-wide conversions.
//
// A run walks Idle → Scanning → Converting → Completed (or Failed). Scanning
// asks discovery for every prefab under the source folder; converting loads,
// serializes and writes each one in order. Items are independent: a failed
// load, conversion or write is recorded and the run moves on.
//
// # Determinism
//
// Items are processed in path order on the caller's goroutine. Events are
// stamped from a logical clock and run IDs come from an injectable generator,
// so a run under test emits the same event stream every time.
//
// # Cooperative scheduling
//
// The driver yields between items (runtime.Gosched, plus an optional sleep)
// and checks the context there. A cancelled run stops before the next item
// and finishes as Failed.
package batch
