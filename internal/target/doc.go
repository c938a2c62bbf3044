// Package target models destination UI trees and the mappers that populate
// them from IR records.
//
// A destination tree is engine-agnostic: nodes carry a transform and a list
// of components identified by the destination class name with a typed
// property record. Two mappers are provided: NGUI (widget components with
// named pivots and explicit depth) and UGUI (RectTransform anchors with
// Graphic components). Trees serialize to YAML for inspection and for the
// destination-side importer.
package target
