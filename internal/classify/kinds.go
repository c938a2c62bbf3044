package classify

import (
	"strings"

	"github.com/roach88/uibridge/internal/ir"
)

// Namespace is the optional prefix of source kind names.
const Namespace = "cc."

// Source kind names, without namespace.
const (
	SourceSprite       = "Sprite"
	SourceLabel        = "Label"
	SourceButton       = "Button"
	SourceScrollView   = "ScrollView"
	SourceLayout       = "Layout"
	SourceWidget       = "Widget"
	SourceLabelOutline = "LabelOutline"
)

// SourceKinds is the dispatch table from source kind to IR kind.
var SourceKinds = map[string]ir.Kind{
	SourceSprite:     ir.KindSprite,
	SourceLabel:      ir.KindLabel,
	SourceButton:     ir.KindButton,
	SourceScrollView: ir.KindScrollView,
	SourceLayout:     ir.KindGrid,
	SourceWidget:     ir.KindWidget,
}

// Outcome is how a source component was handled.
type Outcome int

// Outcomes.
const (
	// Mapped: a record for the components list.
	Mapped Outcome = iota
	// Singleton: a button flag, scrollView or grid for the node slots.
	Singleton
	// Dropped: a structural kind with no IR representation.
	Dropped
	// Auxiliary: folded into another component on the same node.
	Auxiliary
	// Fallback: an unknown kind kept as a UIWidget.
	Fallback
)

func (o Outcome) String() string {
	switch o {
	case Mapped:
		return "mapped"
	case Singleton:
		return "singleton"
	case Dropped:
		return "dropped"
	case Auxiliary:
		return "auxiliary"
	case Fallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// NormalizeKind strips the optional namespace from a source kind name.
func NormalizeKind(name string) string {
	return strings.TrimPrefix(strings.TrimSpace(name), Namespace)
}

// IsStructural reports whether a source kind carries no UI meaning of its
// own: transforms, render plumbing and prefab bookkeeping.
func IsStructural(name string) bool {
	k := NormalizeKind(name)
	switch k {
	case "Transform", "UITransform", "PrefabInfo", "Node", "":
		return true
	}
	return strings.Contains(k, "RenderComponent") || strings.Contains(k, "_SGComponent")
}

// IsAuxiliary reports whether a source kind is folded into another record.
// LabelOutline is the only one: its colour and width land on the node's
// label as outlineColor/outlineWidth instead of a standalone UIWidget, so
// it does not take the unknown-kind fallback.
func IsAuxiliary(name string) bool {
	return NormalizeKind(name) == SourceLabelOutline
}

// ProducedKinds returns the IR kinds the dispatch table can emit, in
// ir.AllKinds order.
func ProducedKinds() []ir.Kind {
	seen := make(map[ir.Kind]bool, len(SourceKinds))
	for _, k := range SourceKinds {
		seen[k] = true
	}
	var out []ir.Kind
	for _, k := range ir.AllKinds {
		if seen[k] {
			out = append(out, k)
		}
	}
	return out
}
