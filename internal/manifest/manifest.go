// Package manifest accumulates the external resources referenced by a batch
// of converted assets and reads and writes the resource list file.
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/roach88/uibridge/internal/fsutil"
	"github.com/roach88/uibridge/internal/ir"
)

// ReservedName is the file name of the resource list. It is excluded from
// every IR scan.
const ReservedName = "resource_list.json"

// IsReserved reports whether path names the resource list file.
func IsReserved(path string) bool {
	return filepath.Base(path) == ReservedName
}

// Manifest is a flat resource list de-duplicated by uuid. Resources without
// a uuid are never de-duplicated.
type Manifest struct {
	resources []ir.Resource
	seen      map[string]struct{}
}

// New returns an empty manifest.
func New() *Manifest {
	return &Manifest{seen: make(map[string]struct{})}
}

// Add appends r unless a resource with the same uuid is already present. It
// reports whether r was added.
func (m *Manifest) Add(r ir.Resource) bool {
	if r.UUID != "" {
		if _, dup := m.seen[r.UUID]; dup {
			return false
		}
		m.seen[r.UUID] = struct{}{}
	}
	m.resources = append(m.resources, r)
	return true
}

// AddResource implements convert.Collector.
func (m *Manifest) AddResource(r ir.Resource) {
	m.Add(r)
}

// Merge adds every resource in rs in order.
func (m *Manifest) Merge(rs []ir.Resource) {
	for _, r := range rs {
		m.Add(r)
	}
}

// Resources returns the resources in insertion order. The returned slice
// MUST NOT be mutated by the caller.
func (m *Manifest) Resources() []ir.Resource {
	return m.resources
}

// Len returns the number of resources.
func (m *Manifest) Len() int {
	return len(m.resources)
}

// Digest returns the content digest of the resource list.
func (m *Manifest) Digest() (string, error) {
	return ir.ManifestDigest(m.resources)
}

type file struct {
	Resources []ir.Resource `json:"resources"`
}

// Marshal encodes the manifest as pretty JSON.
func (m *Manifest) Marshal() ([]byte, error) {
	f := file{Resources: m.resources}
	if f.Resources == nil {
		f.Resources = []ir.Resource{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(f); err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses a resource list file.
func Decode(data []byte) (*Manifest, error) {
	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	m := New()
	m.Merge(f.Resources)
	return m, nil
}

// Read loads the resource list at path.
func Read(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return Decode(data)
}

// Write stores the manifest at path atomically.
func Write(path string, m *Manifest) error {
	data, err := m.Marshal()
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(path, data)
}
