package store

import (
	"errors"

	"github.com/roach88/uibridge/internal/ir"
)

// ErrRunNotFound is returned when a run ID has no ledger row.
var ErrRunNotFound = errors.New("run not found")

// RunState is the persisted state of a batch run.
type RunState string

// Run states. A run is written as converting and finished as completed or
// failed.
const (
	RunConverting RunState = "converting"
	RunCompleted  RunState = "completed"
	RunFailed     RunState = "failed"
)

// ItemStatus is the outcome of one asset within a run.
type ItemStatus string

const (
	ItemSucceeded ItemStatus = "succeeded"
	ItemFailed    ItemStatus = "failed"
	ItemSkipped   ItemStatus = "skipped"
)

// Run is one batch run.
type Run struct {
	ID         string
	Seq        int64
	Folder     string
	OutputRoot string
	Profile    string
	State      RunState
	Counts

	ManifestDigest string
	EngineVersion  string
	IRVersion      string
}

// Counts are the aggregate item counts of a run.
type Counts struct {
	Total     int
	Succeeded int
	Failed    int
	Skipped   int
}

// Tally adds one item outcome to c.
func (c *Counts) Tally(status ItemStatus) {
	c.Total++
	switch status {
	case ItemSucceeded:
		c.Succeeded++
	case ItemFailed:
		c.Failed++
	case ItemSkipped:
		c.Skipped++
	}
}

// Item is the outcome of converting one asset.
type Item struct {
	RunID          string
	Seq            int64
	UUID           string
	Path           string
	Status         ItemStatus
	Output         string
	SourceDigest   string
	DocumentDigest string
	Losses         int
	Error          string

	// Resources are the external assets the written document references.
	// A skipped item carries those of the conversion it reused.
	Resources []ir.Resource
}
