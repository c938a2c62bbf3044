package convert

import "github.com/roach88/uibridge/internal/ir"

// Collector receives the external resources a conversion references.
type Collector interface {
	AddResource(r ir.Resource)
}

// Resources is a Collector that keeps every resource in report order.
type Resources []ir.Resource

// AddResource implements Collector.
func (rs *Resources) AddResource(r ir.Resource) {
	*rs = append(*rs, r)
}

type discard struct{}

func (discard) AddResource(ir.Resource) {}
