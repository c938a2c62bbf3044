package batch

import (
	"github.com/roach88/uibridge/internal/discovery"
	"github.com/roach88/uibridge/internal/ir"
	"github.com/roach88/uibridge/internal/manifest"
	"github.com/roach88/uibridge/internal/store"
)

// State is the lifecycle state of a run.
type State int

const (
	StateIdle State = iota
	StateScanning
	StateConverting
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScanning:
		return "scanning"
	case StateConverting:
		return "converting"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Request describes one batch export.
type Request struct {
	// SourceFolder is a db:// folder; a bare path is treated as relative to
	// db://.
	SourceFolder string
	// OutputPath is the directory IR files are written under.
	OutputPath string

	IncludeSubfolders      bool
	ExportResourceManifest bool

	// PreserveFolders mirrors the source folder layout under OutputPath.
	PreserveFolders bool

	// SkipUnchanged skips assets whose source digest matches their last
	// successful conversion in the ledger, provided that output still exists.
	SkipUnchanged bool
}

// Item is the outcome of one asset.
type Item struct {
	Asset        discovery.AssetRef
	Status       store.ItemStatus
	Output       string
	Losses       int
	Digest       string // document digest of the written IR
	SourceDigest string
	Err          error

	// Resources are the external assets the written document references.
	Resources []ir.Resource
}

// Result is what a finished run returns.
type Result struct {
	RunID string
	State State
	Layer discovery.Layer
	Items []Item
	store.Counts

	// Manifest holds the resources of successful items. It is written to
	// ManifestPath only when the request asked for it.
	Manifest     *manifest.Manifest
	ManifestPath string

	Loss *ir.LossReport
}

// Failures returns the failed items.
func (r *Result) Failures() []Item {
	var out []Item
	for _, it := range r.Items {
		if it.Status == store.ItemFailed {
			out = append(out, it)
		}
	}
	return out
}

// run is the state threaded through one batch. It is created per call and
// never shared.
type run struct {
	id     string
	req    Request
	folder string
	state  State
	total  int

	counts   store.Counts
	manifest *manifest.Manifest
	loss     *ir.LossReport
	items    []Item

	seen    map[string]bool // uuids already attempted
	outputs map[string]bool // output files claimed
	ledger  Ledger          // nil when no ledger or it failed to start
}

func newRun(id string, req Request) *run {
	return &run{
		id:       id,
		req:      req,
		folder:   discovery.NormalizeFolder(req.SourceFolder),
		state:    StateIdle,
		manifest: manifest.New(),
		loss:     &ir.LossReport{},
		seen:     make(map[string]bool),
		outputs:  make(map[string]bool),
	}
}

func (r *run) record(it Item) {
	r.items = append(r.items, it)
	r.counts.Tally(it.Status)
}

func (r *run) result(layer discovery.Layer) *Result {
	items := r.items
	if items == nil {
		items = []Item{}
	}
	return &Result{
		RunID:    r.id,
		State:    r.state,
		Layer:    layer,
		Items:    items,
		Counts:   r.counts,
		Manifest: r.manifest,
		Loss:     r.loss,
	}
}
