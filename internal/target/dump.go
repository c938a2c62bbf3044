package target

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Dump encodes a destination tree as a YAML document with two-space indent.
func Dump(n *Node) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(n); err != nil {
		return nil, fmt.Errorf("dump %s: %w", n.Name, err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("dump %s: %w", n.Name, err)
	}
	return buf.Bytes(), nil
}
