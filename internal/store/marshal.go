package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/uibridge/internal/ir"
)

// marshalResources converts an item's resources to canonical JSON TEXT.
// Canonical bytes keep ledger rows stable across runs of the same asset.
func marshalResources(rs []ir.Resource) (string, error) {
	if len(rs) == 0 {
		return "[]", nil
	}
	data, err := ir.MarshalCanonical(rs)
	if err != nil {
		return "", fmt.Errorf("marshal resources: %w", err)
	}
	return string(data), nil
}

// unmarshalResources parses the resources column. Rows written before the
// column existed hold the default '[]'.
func unmarshalResources(data string) ([]ir.Resource, error) {
	if data == "" || data == "[]" {
		return nil, nil
	}
	var rs []ir.Resource
	if err := json.Unmarshal([]byte(data), &rs); err != nil {
		return nil, fmt.Errorf("unmarshal resources: %w", err)
	}
	return rs, nil
}
