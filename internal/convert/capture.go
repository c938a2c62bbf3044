package convert

import (
	"github.com/roach88/uibridge/internal/classify"
	"github.com/roach88/uibridge/internal/geometry"
	"github.com/roach88/uibridge/internal/ir"
	"github.com/roach88/uibridge/internal/source"
	"github.com/roach88/uibridge/internal/target"
)

// Capture reads a built destination tree back into a source tree under
// profile p, so the tree can be serialized again. Generated nodes and
// components are skipped. A nil profile selects source.Modern.
//
// Capture reverses what the mappers write; fields the destination cannot
// hold (UGUI letter spacing, NGUI node size) come back as zero values.
func Capture(n *target.Node, p source.Profile) *source.Node {
	if n == nil {
		return nil
	}
	if p == nil {
		p = source.Modern
	}
	return capture(n, p)
}

func capture(n *target.Node, p source.Profile) *source.Node {
	s := source.NewNode(n.Name)
	s.Active = n.Active
	s.X, s.Y, s.Z = n.Position.X, n.Position.Y, n.Position.Z
	s.ScaleX, s.ScaleY, s.ScaleZ = n.Scale.X, n.Scale.Y, n.Scale.Z
	s.Rotation = p.StoredRotation(n.EulerZ)

	if n.Rect != nil {
		s.Width, s.Height = n.Rect.SizeDelta.X, n.Rect.SizeDelta.Y
		s.AnchorX, s.AnchorY = n.Rect.Pivot.X, n.Rect.Pivot.Y
	}

	sized := n.Rect != nil
	colored := false
	setColor := func(c target.Color) {
		if colored {
			return
		}
		colored = true
		sc := p.ColorFrom255(c.R*255, c.G*255, c.B*255, c.A*255)
		s.Color = &sc
	}
	setWidget := func(w target.Widget) {
		setColor(w.Color)
		if sized {
			return
		}
		sized = true
		s.Width, s.Height = float64(w.Width), float64(w.Height)
		if x, y, ok := geometry.PivotToAnchor(w.Pivot); ok {
			s.AnchorX, s.AnchorY = x, y
		}
	}

	for _, c := range n.Components {
		if c.Generated {
			continue
		}
		switch props := c.Props.(type) {
		case *target.Image:
			setColor(props.Color)
			s.Components = append(s.Components, spriteComponent(props.Sprite, props.Atlas, props.Type, props.FillMethod, props.Border, 0))
		case *target.Text:
			setColor(props.Color)
			s.Components = append(s.Components, textComponent(props))
		case *target.Outline:
			s.Components = append(s.Components, outlineComponent(p, props.EffectColor, props.EffectDistance.X))
		case *target.Button:
			s.Components = append(s.Components, source.Component{Kind: classify.SourceButton})
		case *target.ScrollRect:
			s.Components = append(s.Components, source.Component{
				Kind:   classify.SourceScrollView,
				Scroll: &source.ScrollProps{Horizontal: props.Horizontal, Vertical: props.Vertical},
			})
		case *target.LayoutGroup, *target.GridLayout:
			s.Components = append(s.Components, layoutComponent(c.Kind))
		case *target.LayoutElement:
			s.Components = append(s.Components, source.Component{Kind: classify.SourceWidget})

		case *target.UISprite:
			setWidget(props.Widget)
			s.Components = append(s.Components, spriteComponent(props.SpriteName, props.Atlas, props.Type, props.FillDirection, props.Border, props.Depth))
		case *target.UILabel:
			setWidget(props.Widget)
			s.Components = append(s.Components, labelComponent(props))
			if props.EffectStyle == "Outline" && props.EffectColor != nil {
				s.Components = append(s.Components, outlineComponent(p, *props.EffectColor, props.EffectDistance.X))
			}
		case *target.Widget:
			setWidget(*props)
			s.Components = append(s.Components, source.Component{Kind: classify.SourceWidget, ZOrder: props.Depth})
		case *target.UIScrollView:
			h, v := movementAxes(props.Movement)
			s.Components = append(s.Components, source.Component{
				Kind:   classify.SourceScrollView,
				Scroll: &source.ScrollProps{Horizontal: h, Vertical: v},
			})
		case *target.UIPanel:
			if !sized {
				sized = true
				s.Width, s.Height = props.BaseClipRegion[2], props.BaseClipRegion[3]
			}
		case *target.UIGrid:
			s.Components = append(s.Components, source.Component{
				Kind:   classify.SourceLayout,
				Layout: &source.LayoutProps{Type: source.Int(layoutFor(props.Arrangement))},
			})
		default:
			if c.Kind == target.NGUIButton {
				s.Components = append(s.Components, source.Component{Kind: classify.SourceButton})
			}
		}
	}

	for _, child := range n.Children {
		if child == nil || child.Generated {
			continue
		}
		s.AddChild(capture(child, p))
	}
	return s
}

func spriteComponent(name, atlas, spType string, fill *int, border *ir.Border, depth int) source.Component {
	sp := &source.SpriteProps{}
	if name != "" {
		sp.Frame = &source.AssetRef{Name: name}
		if atlas != "" {
			sp.Texture = &source.AssetRef{Name: atlas}
		}
	}
	if t, ok := reverse(classify.SpriteTypes, ir.SpriteType(spType)); ok {
		sp.Type = source.Int(t)
	}
	if fill != nil {
		sp.FillType = source.Int(*fill)
	}
	if border != nil {
		sp.Insets = &source.Insets{Left: border.Left, Right: border.Right, Top: border.Top, Bottom: border.Bottom}
	}
	return source.Component{Kind: classify.SourceSprite, ZOrder: depth, Sprite: sp}
}

func textComponent(t *target.Text) source.Component {
	lb := &source.LabelProps{Text: t.Text, FontSize: float64(t.FontSize)}
	for ov, tov := range target.TextOverflows {
		if tov.Horizontal == t.HorizontalOverflow && tov.Vertical == t.VerticalOverflow && tov.BestFit == t.BestFit {
			if v, ok := reverse(classify.Overflows, ov); ok {
				lb.Overflow = source.Int(v)
			}
			break
		}
	}
	if t.LineSpacing != 1 {
		lb.LineHeight = t.LineSpacing * float64(t.FontSize)
	}
	if t.BitmapFont && t.Font != "" {
		lb.Font = &source.FontRef{AssetRef: source.AssetRef{Name: t.Font}, Bitmap: true}
	}
	return source.Component{Kind: classify.SourceLabel, Label: lb}
}

func labelComponent(l *target.UILabel) source.Component {
	lb := &source.LabelProps{Text: l.Text, FontSize: float64(l.FontSize)}
	if l.OverflowMethod != "" {
		if v, ok := reverse(classify.Overflows, ir.Overflow(l.OverflowMethod)); ok {
			lb.Overflow = source.Int(v)
		}
	}
	if l.SpacingY != 0 {
		lb.LineHeight = float64(l.FontSize + l.SpacingY)
	}
	if l.BitmapFont != "" {
		lb.Font = &source.FontRef{AssetRef: source.AssetRef{Name: l.BitmapFont}, Bitmap: true}
		lb.SpacingX = float64(l.SpacingX)
	}
	return source.Component{Kind: classify.SourceLabel, ZOrder: l.Depth, Label: lb}
}

func outlineComponent(p source.Profile, c target.Color, width float64) source.Component {
	oc := p.ColorFrom255(c.R*255, c.G*255, c.B*255, c.A*255)
	return source.Component{
		Kind:    classify.SourceLabelOutline,
		Outline: &source.OutlineProps{Color: &oc, Width: width},
	}
}

func layoutComponent(kind string) source.Component {
	t := source.LayoutHorizontal
	switch kind {
	case target.UGUIVerticalLayout:
		t = source.LayoutVertical
	case target.UGUIGridLayout:
		t = source.LayoutGrid
	}
	return source.Component{Kind: classify.SourceLayout, Layout: &source.LayoutProps{Type: source.Int(t)}}
}

func layoutFor(a ir.Arrangement) int {
	switch a {
	case ir.ArrangementVertical:
		return source.LayoutVertical
	case ir.ArrangementCellSnap:
		return source.LayoutGrid
	default:
		return source.LayoutHorizontal
	}
}

func movementAxes(m ir.Movement) (h, v bool) {
	switch m {
	case ir.MovementHorizontal:
		return true, false
	case ir.MovementVertical:
		return false, true
	case ir.MovementUnrestricted:
		return true, true
	default:
		return false, false
	}
}

// reverse finds the smallest key mapping to v.
func reverse[V comparable](m map[int]V, v V) (int, bool) {
	best, found := 0, false
	for k, mv := range m {
		if mv == v && (!found || k < best) {
			best, found = k, true
		}
	}
	return best, found
}
