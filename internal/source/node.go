package source

import "fmt"

// Color is a node or outline colour in the channel scale of the profile that
// produced it (0..255 for Legacy, 0..1 for Modern).
type Color struct {
	R, G, B, A float64
}

// Node is one node of a source scene tree.
type Node struct {
	Name   string
	Active bool

	// Local position, centre origin, y up.
	X, Y, Z float64

	ScaleX, ScaleY, ScaleZ float64

	// Rotation is the stored angle. Its sign convention depends on the
	// profile; use Profile.Rotation to read it.
	Rotation float64

	Width, Height float64

	// Normalized anchor, origin bottom left.
	AnchorX, AnchorY float64

	// Color is nil when the node carries none; it then reads as white.
	Color *Color

	// Components is the node's internal component list in attachment order.
	Components []Component

	// Lister, when set, is the host query API for components. Profiles that
	// prefer it fall back to Components when it fails.
	Lister ComponentLister

	// UUID identifies the asset this node was loaded from. Only set on roots.
	UUID string

	parent   *Node
	children []*Node
}

// ComponentLister is the host capability to enumerate a node's components.
type ComponentLister interface {
	ListComponents(n *Node) ([]Component, error)
}

// ListerFunc adapts a function to ComponentLister.
type ListerFunc func(n *Node) ([]Component, error)

// ListComponents calls f(n).
func (f ListerFunc) ListComponents(n *Node) ([]Component, error) {
	return f(n)
}

// NewNode returns an active node with unit scale and a centred anchor.
func NewNode(name string) *Node {
	n := &Node{Name: name}
	nodeDefaults(n)
	return n
}

func nodeDefaults(n *Node) {
	n.Active = true
	n.ScaleX = 1
	n.ScaleY = 1
	n.ScaleZ = 1
	n.AnchorX = 0.5
	n.AnchorY = 0.5
}

// AddChild appends child to n's children, detaching it from any previous parent.
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("source: cannot add nil child")
	}
	if isAncestor(child, n) {
		panic("source: adding child would create a cycle")
	}
	if child.parent != nil {
		child.parent.removeChild(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

// AddComponent appends c to the internal component list.
func (n *Node) AddComponent(c Component) *Node {
	n.Components = append(n.Components, c)
	return n
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at index.
func (n *Node) ChildAt(index int) *Node {
	if index < 0 || index >= len(n.children) {
		panic(fmt.Sprintf("source: child index %d out of range", index))
	}
	return n.children[index]
}

// Parent returns the parent node, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// SiblingIndex returns n's position among its parent's children; 0 for a root.
func (n *Node) SiblingIndex() int {
	if n.parent == nil {
		return 0
	}
	for i, c := range n.parent.children {
		if c == n {
			return i
		}
	}
	return 0
}

// Find returns the first descendant (pre-order, n included) with the given name.
func (n *Node) Find(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, c := range n.children {
		if found := c.Find(name); found != nil {
			return found
		}
	}
	return nil
}

func (n *Node) removeChild(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

func isAncestor(candidate, n *Node) bool {
	for p := n; p != nil; p = p.parent {
		if p == candidate {
			return true
		}
	}
	return false
}
