// Package convert walks scene trees in both directions.
//
// Serializer turns a source tree into an IR document: pre-order, one box read
// per node, components classified in encounter order, singletons bucketed
// into the node slots, children in order. Builder turns an IR document into a
// destination tree through a target.Mapper, filling documented defaults for
// missing optional fields. Capture reads a built destination tree back into a
// source tree so the two directions can be checked against each other.
//
// Neither direction mutates its input or keeps state between calls.
package convert
