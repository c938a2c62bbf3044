package ir

// LossKind classifies an intentionally lossy mapping.
type LossKind string

// Loss kinds recorded while converting one asset.
const (
	// LossPivotQuantized: an anchor off the 0/0.5/1 grid was snapped to a named pivot.
	LossPivotQuantized LossKind = "pivot_quantized"
	// LossStructuralDropped: a structural source component has no IR record.
	LossStructuralDropped LossKind = "structural_dropped"
	// LossFallbackWidget: an unknown source kind was kept as a UIWidget.
	LossFallbackWidget LossKind = "fallback_widget"
	// LossSingletonOverwritten: a second scrollView or grid replaced the first.
	LossSingletonOverwritten LossKind = "singleton_overwritten"
	// LossUnmappedEnum: a source enum value has no IR counterpart and was omitted.
	LossUnmappedEnum LossKind = "unmapped_enum"
	// LossUnknownKind: the builder met an IR kind it cannot apply.
	LossUnknownKind LossKind = "unknown_kind"
	// LossDefaulted: an optional field was missing and took its default.
	LossDefaulted LossKind = "defaulted"
)

// LossEntry is one lossy mapping.
type LossEntry struct {
	Path    string   `json:"path"`
	Kind    LossKind `json:"kind"`
	Element string   `json:"element"`
	Reason  string   `json:"reason"`
}

// LossReport collects the lossy mappings applied to one asset. A nil
// *LossReport discards entries, so callers that do not care pass nil.
type LossReport struct {
	Entries []LossEntry `json:"entries,omitempty"`
}

// Add records an entry.
func (r *LossReport) Add(path string, kind LossKind, element, reason string) {
	if r == nil {
		return
	}
	r.Entries = append(r.Entries, LossEntry{Path: path, Kind: kind, Element: element, Reason: reason})
}

// Len returns the number of entries.
func (r *LossReport) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Entries)
}

// Count returns the number of entries of kind k.
func (r *LossReport) Count(k LossKind) int {
	if r == nil {
		return 0
	}
	n := 0
	for _, e := range r.Entries {
		if e.Kind == k {
			n++
		}
	}
	return n
}

// IsLossless reports whether nothing was lost.
func (r *LossReport) IsLossless() bool {
	return r.Len() == 0
}

// Merge appends other's entries to r.
func (r *LossReport) Merge(other *LossReport) {
	if r == nil || other == nil {
		return
	}
	r.Entries = append(r.Entries, other.Entries...)
}
