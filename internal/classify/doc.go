// Package classify maps source components to IR component records.
//
// The dispatch table is closed: every source kind name resolves to exactly
// one Outcome. Recognized kinds produce a record or a node singleton,
// structural kinds are dropped, LabelOutline folds into the label on the same
// node, and anything else falls back to a UIWidget carrying the node box.
// Enum translations are total tables; a value outside a table is omitted and
// reported as a loss instead of guessed.
package classify
