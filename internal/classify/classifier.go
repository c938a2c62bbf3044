package classify

import (
	"fmt"
	"math"
	"path"
	"strings"

	"github.com/roach88/uibridge/internal/geometry"
	"github.com/roach88/uibridge/internal/ir"
	"github.com/roach88/uibridge/internal/source"
)

// Box is the per-node context shared by every component on the node. It is
// read once per node by the serializer.
type Box struct {
	Size   ir.Size
	Color  string
	Pivot  ir.Pivot
	Offset ir.Vec2 // node position, used as the scroll offset

	// Outline is the first LabelOutline found on the node, if any.
	Outline *source.OutlineProps
}

// NewBox reads the shared context of n under profile p.
func NewBox(n *source.Node, p source.Profile, comps []source.Component) Box {
	b := Box{
		Size: ir.Size{
			Width:  geometry.RoundInt(n.Width),
			Height: geometry.RoundInt(n.Height),
		},
		Color:  p.ColorHex(n.Color),
		Pivot:  geometry.AnchorToPivot(n.AnchorX, n.AnchorY),
		Offset: ir.Vec2{X: geometry.Round2(n.X), Y: geometry.Round2(n.Y)},
	}
	for _, c := range comps {
		if IsAuxiliary(c.Kind) && c.Outline != nil {
			b.Outline = c.Outline
			break
		}
	}
	return b
}

// Result is the classification of one source component.
type Result struct {
	Outcome Outcome
	Kind    ir.Kind

	// Record is set for Mapped and Fallback outcomes.
	Record *ir.Component
	// Set for Singleton outcomes of the matching kind.
	ScrollView *ir.ScrollView
	Grid       *ir.Grid

	// Resources are the external assets the component references.
	Resources []ir.Resource
	// Losses lack a Path; the caller knows where the node sits.
	Losses []ir.LossEntry
}

// Classifier maps source components to IR records under one profile.
type Classifier struct {
	profile source.Profile
}

// New returns a classifier for profile p. A nil profile selects Modern.
func New(p source.Profile) *Classifier {
	if p == nil {
		p = source.Modern
	}
	return &Classifier{profile: p}
}

// Profile returns the classifier's profile.
func (c *Classifier) Profile() source.Profile {
	return c.profile
}

// Classify maps component comp on node n.
func (c *Classifier) Classify(n *source.Node, comp source.Component, box Box) Result {
	name := NormalizeKind(comp.Kind)

	if IsStructural(comp.Kind) {
		return Result{
			Outcome: Dropped,
			Losses:  []ir.LossEntry{{Kind: ir.LossStructuralDropped, Element: comp.Kind, Reason: "structural component"}},
		}
	}
	if IsAuxiliary(comp.Kind) {
		return Result{Outcome: Auxiliary}
	}

	kind, known := SourceKinds[name]
	if !known {
		r := Result{Outcome: Fallback, Kind: ir.KindWidget, Record: c.base(ir.KindWidget, n, comp, box)}
		r.Losses = append(r.Losses, ir.LossEntry{
			Kind:    ir.LossFallbackWidget,
			Element: comp.Kind,
			Reason:  "unrecognized component kept as UIWidget",
		})
		return r
	}

	switch kind {
	case ir.KindSprite:
		return c.sprite(n, comp, box)
	case ir.KindLabel:
		return c.label(n, comp, box)
	case ir.KindButton:
		return Result{Outcome: Singleton, Kind: ir.KindButton}
	case ir.KindScrollView:
		return c.scrollView(comp, box)
	case ir.KindGrid:
		return c.grid(comp)
	default:
		return Result{Outcome: Mapped, Kind: ir.KindWidget, Record: c.base(ir.KindWidget, n, comp, box)}
	}
}

func (c *Classifier) base(kind ir.Kind, n *source.Node, comp source.Component, box Box) *ir.Component {
	return &ir.Component{
		Type:  kind,
		Size:  box.Size,
		Color: box.Color,
		Pivot: box.Pivot,
		Depth: c.profile.Depth(n, comp),
	}
}

func (c *Classifier) sprite(n *source.Node, comp source.Component, box Box) Result {
	rec := c.base(ir.KindSprite, n, comp, box)
	r := Result{Outcome: Mapped, Kind: ir.KindSprite, Record: rec}

	sp := comp.Sprite
	if sp == nil {
		return r
	}

	if sp.Frame != nil {
		rec.SpName = sp.Frame.Name
		r.Resources = append(r.Resources, resource(*sp.Frame, ir.ResourceSpriteFrame))
		if sp.Texture != nil {
			if atlas := trimExt(sp.Texture.Name); atlas != "" {
				rec.Atlas = atlas
			}
			r.Resources = append(r.Resources, resource(*sp.Texture, ir.ResourceTexture))
		}
	}

	if sp.Type != nil {
		if st, ok := SpriteTypes[*sp.Type]; ok {
			rec.SpType = st
			if st == ir.SpriteFilled && sp.FillType != nil {
				dir := *sp.FillType
				rec.FillDir = &dir
			}
		} else {
			r.Losses = append(r.Losses, unmapped("sprite type", *sp.Type))
		}
	}

	if sp.Frame != nil && sp.Insets != nil {
		b := ir.Border{
			Left:   geometry.Round2(sp.Insets.Left),
			Right:  geometry.Round2(sp.Insets.Right),
			Top:    geometry.Round2(sp.Insets.Top),
			Bottom: geometry.Round2(sp.Insets.Bottom),
		}
		if b.Any() {
			rec.Border = &b
		}
	}
	return r
}

func (c *Classifier) label(n *source.Node, comp source.Component, box Box) Result {
	rec := c.base(ir.KindLabel, n, comp, box)
	r := Result{Outcome: Mapped, Kind: ir.KindLabel, Record: rec}

	lb := comp.Label
	if lb == nil {
		lb = &source.LabelProps{}
	}

	text := lb.Text
	rec.Text = &text
	rec.FontSize = geometry.RoundInt(lb.FontSize)
	if rec.FontSize == 0 {
		rec.FontSize = ir.DefaultFontSize
	}

	if lb.Overflow != nil {
		if ov, ok := Overflows[*lb.Overflow]; ok {
			rec.Overflow = ov
		} else {
			r.Losses = append(r.Losses, unmapped("label overflow", *lb.Overflow))
		}
	}

	if lb.Font != nil {
		if lb.Font.Bitmap {
			rec.BitmapFont = lb.Font.Name
			sx := geometry.Round2(lb.SpacingX)
			rec.SpacingX = &sx
			r.Resources = append(r.Resources, resource(lb.Font.AssetRef, ir.ResourceBitmapFont))
		} else {
			r.Resources = append(r.Resources, resource(lb.Font.AssetRef, ir.ResourceFont))
		}
	}

	if lb.LineHeight != 0 && lb.FontSize != 0 {
		sy := geometry.Round2(math.Max(0, lb.LineHeight-lb.FontSize))
		rec.SpacingY = &sy
	}

	if box.Outline != nil {
		rec.OutlineColor = c.profile.ColorHex(box.Outline.Color)
		rec.OutlineWidth = geometry.Round2(box.Outline.Width)
		if rec.OutlineWidth == 0 {
			rec.OutlineWidth = 1
		}
	}
	return r
}

func (c *Classifier) scrollView(comp source.Component, box Box) Result {
	var h, v bool
	if comp.Scroll != nil {
		h, v = comp.Scroll.Horizontal, comp.Scroll.Vertical
	}
	return Result{
		Outcome: Singleton,
		Kind:    ir.KindScrollView,
		ScrollView: &ir.ScrollView{
			Offset:   box.Offset,
			Size:     ir.Vec2{X: float64(box.Size.Width), Y: float64(box.Size.Height)},
			Movement: MovementFor(h, v),
		},
	}
}

func (c *Classifier) grid(comp source.Component) Result {
	r := Result{Outcome: Singleton, Kind: ir.KindGrid, Grid: &ir.Grid{Arrangement: ir.ArrangementHorizontal}}
	if comp.Layout != nil && comp.Layout.Type != nil {
		if a, ok := Arrangements[*comp.Layout.Type]; ok {
			r.Grid.Arrangement = a
		} else {
			r.Losses = append(r.Losses, unmapped("layout type", *comp.Layout.Type))
		}
	}
	return r
}

func resource(ref source.AssetRef, t ir.ResourceType) ir.Resource {
	return ir.Resource{Name: ref.Name, Type: t, Path: ref.Path, UUID: ref.UUID}
}

func unmapped(field string, v int) ir.LossEntry {
	return ir.LossEntry{
		Kind:    ir.LossUnmappedEnum,
		Element: field,
		Reason:  fmt.Sprintf("source value %d has no IR counterpart", v),
	}
}

// trimExt removes the final extension from an asset name.
func trimExt(name string) string {
	return strings.TrimSuffix(name, path.Ext(name))
}
