package convert

import (
	"fmt"

	"github.com/roach88/uibridge/internal/ir"
	"github.com/roach88/uibridge/internal/source"
	"github.com/roach88/uibridge/internal/target"
)

// recordAppliers dispatches components-list records to the mapper.
var recordAppliers = map[ir.Kind]func(target.Mapper, *target.Node, ir.Component){
	ir.KindSprite: target.Mapper.ApplySprite,
	ir.KindLabel:  target.Mapper.ApplyLabel,
	ir.KindWidget: target.Mapper.ApplyWidget,
}

// Handles reports whether the builder applies IR kind k, either from the
// components list or from a node slot.
func Handles(k ir.Kind) bool {
	if k.IsSingleton() {
		return true
	}
	_, ok := recordAppliers[k]
	return ok
}

// Builder builds destination trees from IR documents.
type Builder struct {
	mapper target.Mapper
	loss   *ir.LossReport
}

// NewBuilder returns a builder applying records through m. Only WithLoss is
// meaningful for a builder.
func NewBuilder(m target.Mapper, opts ...Option) *Builder {
	o := buildOptions(opts)
	return &Builder{mapper: m, loss: o.loss}
}

// Mapper returns the builder's mapper.
func (b *Builder) Mapper() target.Mapper {
	return b.mapper
}

// CanvasName names the root a UGUI tree is wrapped in.
const CanvasName = "Canvas"

// Build creates the tree for doc under parent, which may be nil, and returns
// its root. The document is only read. Without a parent, a mapper that asks
// for a canvas gets one as the returned root.
func (b *Builder) Build(doc *ir.Document, parent *target.Node) (*target.Node, error) {
	if doc == nil {
		return nil, &ConversionError{Code: ErrCodeNilInput, Message: "nil document"}
	}
	if parent == nil {
		if cm, ok := b.mapper.(interface{ AutoCanvas() bool }); ok && cm.AutoCanvas() {
			canvas := target.NewCanvas(CanvasName)
			b.node(doc, canvas, "")
			return canvas, nil
		}
	}
	return b.node(doc, parent, ""), nil
}

func (b *Builder) node(doc *ir.Document, parent *target.Node, parentPath string) *target.Node {
	path := ir.JoinPath(parentPath, doc.Name)
	n := b.mapper.ApplyNode(parent, doc)

	for i := range doc.Components {
		rec := b.normalize(doc.Components[i], path)
		apply, ok := recordAppliers[rec.Type]
		if !ok {
			b.loss.Add(path, ir.LossUnknownKind, string(rec.Type), "no destination component for this kind")
			continue
		}
		apply(b.mapper, n, rec)
	}

	if doc.Button {
		b.mapper.ApplyButton(n, doc)
	}
	if doc.ScrollView != nil {
		sv := *doc.ScrollView
		if !sv.Movement.IsValid() {
			b.loss.Add(path, ir.LossDefaulted, "movement", fmt.Sprintf("movement %d replaced by %d", sv.Movement, ir.MovementUnrestricted))
			sv.Movement = ir.MovementUnrestricted
		}
		b.mapper.ApplyScrollView(n, sv)
	}
	if doc.Grid != nil {
		g := *doc.Grid
		if !g.Arrangement.IsValid() {
			b.loss.Add(path, ir.LossDefaulted, "arrangement", fmt.Sprintf("arrangement %d replaced by %d", g.Arrangement, ir.ArrangementHorizontal))
			g.Arrangement = ir.ArrangementHorizontal
		}
		b.mapper.ApplyGrid(n, g)
	}

	for _, child := range doc.Children {
		if child != nil {
			b.node(child, n, path)
		}
	}
	return n
}

// normalize returns a copy of rec with missing or malformed optional fields
// replaced by their defaults.
func (b *Builder) normalize(rec ir.Component, path string) ir.Component {
	element := string(rec.Type)

	if _, _, _, ok := source.ParseHex(rec.Color); !ok {
		b.defaulted(path, element, "color", rec.Color, ir.DefaultColor)
		rec.Color = ir.DefaultColor
	}
	if !rec.Pivot.IsValid() {
		b.defaulted(path, element, "pivot", string(rec.Pivot), string(ir.PivotCenter))
		rec.Pivot = ir.PivotCenter
	}

	switch rec.Type {
	case ir.KindSprite:
		if !rec.SpType.IsValid() {
			b.defaulted(path, element, "spType", string(rec.SpType), string(ir.SpriteSimple))
			rec.SpType = ir.SpriteSimple
		}
	case ir.KindLabel:
		if rec.FontSize <= 0 {
			b.defaulted(path, element, "fontSize", fmt.Sprint(rec.FontSize), fmt.Sprint(ir.DefaultFontSize))
			rec.FontSize = ir.DefaultFontSize
		}
		if rec.Overflow != "" && !rec.Overflow.IsValid() {
			b.loss.Add(path, ir.LossUnmappedEnum, element, fmt.Sprintf("overflow %q dropped", rec.Overflow))
			rec.Overflow = ""
		}
		if rec.OutlineColor != "" {
			if _, _, _, ok := source.ParseHex(rec.OutlineColor); !ok {
				b.loss.Add(path, ir.LossUnmappedEnum, element, fmt.Sprintf("outline colour %q dropped", rec.OutlineColor))
				rec.OutlineColor = ""
			}
		}
	}
	return rec
}

func (b *Builder) defaulted(path, element, field, got, want string) {
	if got == "" {
		got = "missing"
	} else {
		got = fmt.Sprintf("%q", got)
	}
	b.loss.Add(path, ir.LossDefaulted, element, fmt.Sprintf("%s %s defaulted to %s", field, got, want))
}
