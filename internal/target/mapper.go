package target

import (
	"fmt"
	"strings"

	"github.com/roach88/uibridge/internal/ir"
)

// Mapper applies IR records to destination nodes. The builder normalizes
// every record before calling a mapper, so mappers never see missing colours,
// pivots, sprite types or font sizes.
type Mapper interface {
	// Framework names the destination, e.g. "ngui".
	Framework() string

	// ApplyNode creates the node for doc under parent (nil for a root) and
	// sets its name, active flag, transform, size and anchor.
	ApplyNode(parent *Node, doc *ir.Document) *Node

	ApplySprite(n *Node, rec ir.Component)
	ApplyLabel(n *Node, rec ir.Component)
	ApplyWidget(n *Node, rec ir.Component)

	// ApplyButton receives the whole document because the hit area is sized
	// from the node's first component.
	ApplyButton(n *Node, doc *ir.Document)
	ApplyScrollView(n *Node, sv ir.ScrollView)
	ApplyGrid(n *Node, g ir.Grid)
}

// Framework names.
const (
	FrameworkNGUI = "ngui"
	FrameworkUGUI = "ugui"
)

// Options configure the mappers.
type Options struct {
	// AutoCanvas wraps UGUI roots in a Canvas node.
	AutoCanvas bool
}

// NewMapper returns the mapper for a framework name.
func NewMapper(framework string, opts Options) (Mapper, error) {
	switch strings.ToLower(framework) {
	case FrameworkNGUI:
		return NewNGUI(), nil
	case FrameworkUGUI:
		return NewUGUI(opts), nil
	default:
		return nil, fmt.Errorf("unknown target framework %q (want %s or %s)", framework, FrameworkNGUI, FrameworkUGUI)
	}
}

// OutputName returns the file name an imported tree is written under.
func OutputName(framework, docName string) string {
	if framework == FrameworkUGUI {
		return docName + "_UGUI.prefab.yaml"
	}
	return docName + ".prefab.yaml"
}
