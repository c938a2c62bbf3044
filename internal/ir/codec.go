package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Marshal encodes doc as pretty UTF-8 JSON with two-space indentation.
// Key order follows the struct declaration, so output is deterministic.
func Marshal(doc *Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("marshal: nil document")
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes an IR file. Every node must carry pos, size and anchor;
// a node lacking any of them yields a *SchemaError. Optional fields take
// their documented defaults: name "Node", active true, scale (1,1,1).
func Unmarshal(data []byte) (*Document, error) {
	var shape presence
	if err := json.Unmarshal(data, &shape); err != nil {
		return nil, &SchemaError{Err: err}
	}
	if err := shape.check(""); err != nil {
		return nil, err
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &SchemaError{Err: err}
	}
	return &doc, nil
}

// UnmarshalJSON applies node defaults before decoding. Decoding into the
// prefilled value keeps defaults for keys the file omits, including single
// scale axes.
func (d *Document) UnmarshalJSON(data []byte) error {
	type plain Document
	p := plain{
		Name:   DefaultName,
		Active: true,
		Scale:  Vec3{X: 1, Y: 1, Z: 1},
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if p.Name == "" {
		p.Name = DefaultName
	}
	*d = Document(p)
	return nil
}

// presence mirrors the required keys of a Document without decoding them.
type presence struct {
	Name     string          `json:"name"`
	Pos      json.RawMessage `json:"pos"`
	Size     json.RawMessage `json:"size"`
	Anchor   json.RawMessage `json:"anchor"`
	Children []presence      `json:"children"`
}

func (p presence) check(parent string) error {
	name := p.Name
	if name == "" {
		name = DefaultName
	}
	path := JoinPath(parent, name)

	var missing []string
	for _, f := range []struct {
		key string
		raw json.RawMessage
	}{{"pos", p.Pos}, {"size", p.Size}, {"anchor", p.Anchor}} {
		if len(f.raw) == 0 || string(f.raw) == "null" {
			missing = append(missing, f.key)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Path: path, Missing: missing}
	}

	for _, c := range p.Children {
		if err := c.check(path); err != nil {
			return err
		}
	}
	return nil
}
