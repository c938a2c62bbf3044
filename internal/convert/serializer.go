package convert

import (
	"fmt"

	"github.com/roach88/uibridge/internal/classify"
	"github.com/roach88/uibridge/internal/geometry"
	"github.com/roach88/uibridge/internal/ir"
	"github.com/roach88/uibridge/internal/source"
)

// Serializer converts source trees into IR documents under one profile.
type Serializer struct {
	classifier *classify.Classifier
	collector  Collector
	loss       *ir.LossReport
}

// Option configures a Serializer or a Builder.
type Option func(*options)

type options struct {
	collector Collector
	loss      *ir.LossReport
}

// WithCollector reports referenced resources to c.
func WithCollector(c Collector) Option {
	return func(o *options) { o.collector = c }
}

// WithLoss records lossy mappings into r.
func WithLoss(r *ir.LossReport) Option {
	return func(o *options) { o.loss = r }
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.collector == nil {
		o.collector = discard{}
	}
	return o
}

// NewSerializer returns a serializer for profile p. A nil profile selects
// source.Modern.
func NewSerializer(p source.Profile, opts ...Option) *Serializer {
	o := buildOptions(opts)
	return &Serializer{
		classifier: classify.New(p),
		collector:  o.collector,
		loss:       o.loss,
	}
}

// Profile returns the serializer's profile.
func (s *Serializer) Profile() source.Profile {
	return s.classifier.Profile()
}

// Serialize converts the tree rooted at root. The source tree is only read.
func (s *Serializer) Serialize(root *source.Node) (*ir.Document, error) {
	if root == nil {
		return nil, &ConversionError{Code: ErrCodeNilInput, Message: "nil source node"}
	}
	return s.node(root, "")
}

func (s *Serializer) node(n *source.Node, parent string) (*ir.Document, error) {
	name := n.Name
	if name == "" {
		name = ir.DefaultName
	}
	path := ir.JoinPath(parent, name)

	if err := checkFinite(n, path); err != nil {
		return nil, err
	}

	p := s.classifier.Profile()
	scaleZ := n.ScaleZ
	if scaleZ == 0 {
		scaleZ = 1
	}
	doc := &ir.Document{
		Name:     name,
		Active:   n.Active,
		Pos:      ir.Vec3{X: geometry.Round2(n.X), Y: geometry.Round2(n.Y), Z: geometry.Round2(n.Z)},
		Scale:    ir.Vec3{X: geometry.Round2(n.ScaleX), Y: geometry.Round2(n.ScaleY), Z: geometry.Round2(scaleZ)},
		Rotation: geometry.Round2(p.Rotation(n.Rotation)),
		Size:     ir.Size{Width: geometry.RoundInt(n.Width), Height: geometry.RoundInt(n.Height)},
		Anchor:   ir.Vec2{X: geometry.Round2(n.AnchorX), Y: geometry.Round2(n.AnchorY)},
	}

	comps := p.Components(n)
	box := classify.NewBox(n, p, comps)
	for _, comp := range comps {
		r := s.classifier.Classify(n, comp, box)
		for _, l := range r.Losses {
			s.loss.Add(path, l.Kind, l.Element, l.Reason)
		}
		for _, res := range r.Resources {
			s.collector.AddResource(res)
		}

		switch r.Outcome {
		case classify.Mapped, classify.Fallback:
			doc.Components = append(doc.Components, *r.Record)
		case classify.Singleton:
			s.singleton(doc, r, path)
		}
	}

	if len(doc.Components) > 0 && !geometry.IsOnGrid(n.AnchorX, n.AnchorY) {
		s.loss.Add(path, ir.LossPivotQuantized, "pivot",
			fmt.Sprintf("anchor (%g, %g) snapped to %s", doc.Anchor.X, doc.Anchor.Y, box.Pivot))
	}

	for _, child := range n.Children() {
		cd, err := s.node(child, path)
		if err != nil {
			return nil, err
		}
		doc.Children = append(doc.Children, cd)
	}
	return doc, nil
}

func (s *Serializer) singleton(doc *ir.Document, r classify.Result, path string) {
	switch r.Kind {
	case ir.KindButton:
		doc.Button = true
	case ir.KindScrollView:
		if doc.ScrollView != nil {
			s.loss.Add(path, ir.LossSingletonOverwritten, string(ir.KindScrollView), "later scroll view replaces earlier one")
		}
		doc.ScrollView = r.ScrollView
	case ir.KindGrid:
		if doc.Grid != nil {
			s.loss.Add(path, ir.LossSingletonOverwritten, string(ir.KindGrid), "later layout replaces earlier one")
		}
		doc.Grid = r.Grid
	}
}

func checkFinite(n *source.Node, path string) error {
	fields := []struct {
		name string
		v    float64
	}{
		{"x", n.X}, {"y", n.Y}, {"z", n.Z},
		{"scaleX", n.ScaleX}, {"scaleY", n.ScaleY}, {"scaleZ", n.ScaleZ},
		{"rotation", n.Rotation},
		{"width", n.Width}, {"height", n.Height},
		{"anchorX", n.AnchorX}, {"anchorY", n.AnchorY},
	}
	for _, f := range fields {
		if !geometry.IsFinite(f.v) {
			return &ConversionError{
				Code:    ErrCodeNonFinite,
				Message: fmt.Sprintf("%s is %v", f.name, f.v),
				Path:    path,
			}
		}
	}
	return nil
}
