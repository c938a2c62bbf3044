package harness

import (
	"github.com/roach88/uibridge/internal/ir"
	"github.com/roach88/uibridge/internal/target"
)

// Result is the outcome of one scenario run.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	Profile   string         `json:"profile"`
	Document  *ir.Document   `json:"document"`
	Target    *target.Node   `json:"target,omitempty"`
	Resources []ir.Resource  `json:"resources"`
	Losses    *ir.LossReport `json:"losses"`

	// Digest is the document digest of the serialized IR.
	Digest string `json:"digest"`
	// RoundTrip is true when the IR decoded from its own encoding has the
	// same digest.
	RoundTrip bool `json:"round_trip"`
	// Idempotent is true when serializing the prefab twice gave equal
	// digests.
	Idempotent bool `json:"idempotent"`

	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:      true,
		Resources: []ir.Resource{},
		Losses:    &ir.LossReport{},
		Errors:    []string{},
	}
}

// AddError records a failed assertion and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// FindNode returns the IR node at a slash-joined path, or nil.
func (r *Result) FindNode(path string) *ir.Document {
	if r.Document == nil {
		return nil
	}
	var found *ir.Document
	r.Document.Walk(func(p string, d *ir.Document) bool {
		if found != nil {
			return false
		}
		if p == path {
			found = d
			return false
		}
		return true
	})
	return found
}

// FindTargetNode returns the destination node at a slash-joined path, or
// nil. Generated wrappers such as a Canvas root are skipped when the path
// does not name them.
func (r *Result) FindTargetNode(path string) *target.Node {
	if r.Target == nil {
		return nil
	}
	if n := findTarget(r.Target, "", path); n != nil {
		return n
	}
	for _, c := range r.Target.Children {
		if n := findTarget(c, "", path); n != nil {
			return n
		}
	}
	return nil
}

func findTarget(n *target.Node, parent, path string) *target.Node {
	p := ir.JoinPath(parent, n.Name)
	if p == path {
		return n
	}
	for _, c := range n.Children {
		if found := findTarget(c, p, path); found != nil {
			return found
		}
	}
	return nil
}
