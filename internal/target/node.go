package target

import (
	"fmt"
	"math"
	"strings"

	"github.com/roach88/uibridge/internal/ir"
)

// Color is a destination colour with 0..1 channels.
type Color struct {
	R float64 `yaml:"r"`
	G float64 `yaml:"g"`
	B float64 `yaml:"b"`
	A float64 `yaml:"a"`
}

// White is the default graphic colour.
var White = Color{R: 1, G: 1, B: 1, A: 1}

// ColorFromHex parses six hex digits into an opaque colour. ok is false for
// malformed input, in which case White is returned.
func ColorFromHex(hex string) (Color, bool) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return White, false
	}
	var r, g, b int
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		return White, false
	}
	return Color{R: channel(r), G: channel(g), B: channel(b), A: 1}, true
}

func channel(v int) float64 {
	return math.Round(float64(v)/255*10000) / 10000
}

// Hex encodes the colour as six upper-case hex digits, ignoring alpha.
func (c Color) Hex() string {
	to := func(v float64) int {
		i := int(math.Round(v * 255))
		return max(0, min(255, i))
	}
	return fmt.Sprintf("%02X%02X%02X", to(c.R), to(c.G), to(c.B))
}

// RectTransform is the UGUI layout record of a node.
type RectTransform struct {
	AnchorMin        ir.Vec2 `yaml:"anchorMin"`
	AnchorMax        ir.Vec2 `yaml:"anchorMax"`
	Pivot            ir.Vec2 `yaml:"pivot"`
	SizeDelta        ir.Vec2 `yaml:"sizeDelta"`
	AnchoredPosition ir.Vec3 `yaml:"anchoredPosition"`
}

// Component is one destination component.
type Component struct {
	Kind  string `yaml:"kind"`
	Props any    `yaml:"props,omitempty"`
	// Generated marks components the mapper added to satisfy another
	// component, such as the Image a Button targets.
	Generated bool `yaml:"generated,omitempty"`
}

// Node is one destination node.
type Node struct {
	Name     string  `yaml:"name"`
	Active   bool    `yaml:"active"`
	Position ir.Vec3 `yaml:"position"`
	Scale    ir.Vec3 `yaml:"scale"`
	EulerZ   float64 `yaml:"eulerZ"`

	Rect *RectTransform `yaml:"rect,omitempty"`

	// Generated marks helper nodes the mapper created, such as a scroll
	// viewport. They have no IR counterpart.
	Generated bool `yaml:"generated,omitempty"`

	Components []Component `yaml:"components,omitempty"`
	Children   []*Node     `yaml:"children,omitempty"`

	parent *Node
}

// NewNode returns an active node with unit scale.
func NewNode(name string) *Node {
	return &Node{Name: name, Active: true, Scale: ir.Vec3{X: 1, Y: 1, Z: 1}}
}

// AddChild appends child and sets its parent.
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("target: cannot add nil child")
	}
	child.parent = n
	n.Children = append(n.Children, child)
}

// Parent returns the parent node, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Add appends a component and returns a pointer to it. The pointer is valid
// until the next Add.
func (n *Node) Add(kind string, props any) *Component {
	n.Components = append(n.Components, Component{Kind: kind, Props: props})
	return &n.Components[len(n.Components)-1]
}

// Component returns the first component of the given kind, or nil.
func (n *Node) Component(kind string) *Component {
	for i := range n.Components {
		if n.Components[i].Kind == kind {
			return &n.Components[i]
		}
	}
	return nil
}

// Has reports whether the node carries a component of the given kind.
func (n *Node) Has(kind string) bool {
	return n.Component(kind) != nil
}

// Kinds lists component kinds in order.
func (n *Node) Kinds() []string {
	out := make([]string, len(n.Components))
	for i, c := range n.Components {
		out[i] = c.Kind
	}
	return out
}

// Child returns the first direct child with the given name, or nil.
func (n *Node) Child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Depth returns the number of levels in the subtree rooted at n.
func (n *Node) Depth() int {
	d := 0
	for _, c := range n.Children {
		d = max(d, c.Depth())
	}
	return d + 1
}

// Count returns the number of nodes in the subtree rooted at n.
func (n *Node) Count() int {
	total := 1
	for _, c := range n.Children {
		total += c.Count()
	}
	return total
}
