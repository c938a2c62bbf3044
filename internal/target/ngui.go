package target

import (
	"github.com/roach88/uibridge/internal/geometry"
	"github.com/roach88/uibridge/internal/ir"
)

// NGUI component kinds.
const (
	NGUISprite     = "UISprite"
	NGUILabel      = "UILabel"
	NGUIWidget     = "UIWidget"
	NGUIButton     = "UIButton"
	NGUICollider   = "BoxCollider"
	NGUIScrollView = "UIScrollView"
	NGUIPanel      = "UIPanel"
	NGUIGrid       = "UIGrid"
)

// Widget holds the fields every NGUI widget shares.
type Widget struct {
	Width  int      `yaml:"width"`
	Height int      `yaml:"height"`
	Color  Color    `yaml:"color"`
	Pivot  ir.Pivot `yaml:"pivot"`
	Depth  int      `yaml:"depth"`
}

// UISprite is an NGUI sprite.
type UISprite struct {
	Widget        `yaml:",inline"`
	SpriteName    string     `yaml:"spriteName,omitempty"`
	Atlas         string     `yaml:"atlas,omitempty"`
	Type          string     `yaml:"type"`
	FillDirection *int       `yaml:"fillDirection,omitempty"`
	Border        *ir.Border `yaml:"border,omitempty"`
}

// UILabel is an NGUI label.
type UILabel struct {
	Widget         `yaml:",inline"`
	Text           string  `yaml:"text"`
	FontSize       int     `yaml:"fontSize"`
	OverflowMethod string  `yaml:"overflowMethod,omitempty"`
	EffectStyle    string  `yaml:"effectStyle,omitempty"`
	EffectColor    *Color  `yaml:"effectColor,omitempty"`
	EffectDistance ir.Vec2 `yaml:"effectDistance,omitempty"`
	SpacingX       int     `yaml:"spacingX,omitempty"`
	SpacingY       int     `yaml:"spacingY,omitempty"`
	BitmapFont     string  `yaml:"bitmapFont,omitempty"`
}

// BoxCollider is the hit area NGUI buttons need.
type BoxCollider struct {
	Center ir.Vec3 `yaml:"center"`
	Size   ir.Vec3 `yaml:"size"`
}

// UIScrollView is an NGUI scroll view.
type UIScrollView struct {
	Movement ir.Movement `yaml:"movement"`
}

// UIPanel is the clipping panel a scroll view needs.
type UIPanel struct {
	Clipping       string     `yaml:"clipping"`
	ClipOffset     ir.Vec2    `yaml:"clipOffset"`
	BaseClipRegion [4]float64 `yaml:"baseClipRegion,flow"`
}

// UIGrid is an NGUI grid.
type UIGrid struct {
	Arrangement     ir.Arrangement `yaml:"arrangement"`
	MaxPerLine      int            `yaml:"maxPerLine"`
	CellWidth       float64        `yaml:"cellWidth"`
	CellHeight      float64        `yaml:"cellHeight"`
	AnimateSmoothly bool           `yaml:"animateSmoothly"`
}

// Defaults applied when building NGUI trees.
const (
	DefaultColliderSize = 100
	DefaultCellSize     = 100
)

// NGUI maps IR records onto NGUI widgets.
type NGUI struct{}

// NewNGUI returns the NGUI mapper.
func NewNGUI() *NGUI {
	return &NGUI{}
}

// Framework implements Mapper.
func (*NGUI) Framework() string { return FrameworkNGUI }

// ApplyNode implements Mapper. NGUI nodes have no size of their own; the
// widgets carry it.
func (*NGUI) ApplyNode(parent *Node, doc *ir.Document) *Node {
	n := NewNode(doc.Name)
	n.Active = doc.Active
	n.Position = doc.Pos
	n.Scale = doc.Scale
	n.EulerZ = doc.Rotation
	if parent != nil {
		parent.AddChild(n)
	}
	return n
}

func widget(rec ir.Component) Widget {
	c, _ := ColorFromHex(rec.Color)
	return Widget{
		Width:  rec.Size.Width,
		Height: rec.Size.Height,
		Color:  c,
		Pivot:  rec.Pivot,
		Depth:  rec.Depth,
	}
}

// ApplySprite implements Mapper.
func (*NGUI) ApplySprite(n *Node, rec ir.Component) {
	sp := &UISprite{
		Widget:     widget(rec),
		SpriteName: rec.SpName,
		Atlas:      rec.Atlas,
		Type:       string(rec.SpType),
		Border:     rec.Border,
	}
	if rec.SpType == ir.SpriteFilled && rec.FillDir != nil {
		dir := *rec.FillDir
		sp.FillDirection = &dir
	}
	n.Add(NGUISprite, sp)
}

// ApplyLabel implements Mapper.
func (*NGUI) ApplyLabel(n *Node, rec ir.Component) {
	lb := &UILabel{
		Widget:         widget(rec),
		FontSize:       rec.FontSize,
		OverflowMethod: string(rec.Overflow),
		BitmapFont:     rec.BitmapFont,
	}
	if rec.Text != nil {
		lb.Text = *rec.Text
	}
	if rec.SpacingX != nil {
		lb.SpacingX = int(*rec.SpacingX)
	}
	if rec.SpacingY != nil {
		lb.SpacingY = int(*rec.SpacingY)
	}
	if rec.OutlineColor != "" {
		if c, ok := ColorFromHex(rec.OutlineColor); ok {
			lb.EffectStyle = "Outline"
			lb.EffectColor = &c
			w := rec.OutlineWidth
			if w == 0 {
				w = 1
			}
			lb.EffectDistance = ir.Vec2{X: w, Y: w}
		}
	}
	n.Add(NGUILabel, lb)
}

// ApplyWidget implements Mapper.
func (*NGUI) ApplyWidget(n *Node, rec ir.Component) {
	w := widget(rec)
	n.Add(NGUIWidget, &w)
}

// ApplyButton implements Mapper. The collider takes the size and pivot of the
// node's first component, or a 100x100 centred box when there is none.
func (*NGUI) ApplyButton(n *Node, doc *ir.Document) {
	size := ir.Size{Width: DefaultColliderSize, Height: DefaultColliderSize}
	anchor := ir.Vec2{X: 0.5, Y: 0.5}
	if len(doc.Components) > 0 {
		first := doc.Components[0]
		if !first.Size.IsZero() {
			size = first.Size
		}
		if x, y, ok := geometry.PivotToAnchor(first.Pivot); ok {
			anchor = ir.Vec2{X: x, Y: y}
		}
	}
	off := geometry.BoxOffset(size, anchor)
	n.Add(NGUICollider, &BoxCollider{
		Center: ir.Vec3{X: off.X, Y: off.Y},
		Size:   ir.Vec3{X: float64(size.Width), Y: float64(size.Height), Z: 1},
	})
	n.Add(NGUIButton, nil)
}

// ApplyScrollView implements Mapper. The panel soft-clips to the scroll
// rectangle.
func (*NGUI) ApplyScrollView(n *Node, sv ir.ScrollView) {
	n.Add(NGUIScrollView, &UIScrollView{Movement: sv.Movement})
	if n.Has(NGUIPanel) {
		return
	}
	n.Add(NGUIPanel, &UIPanel{
		Clipping:       "SoftClip",
		ClipOffset:     sv.Offset,
		BaseClipRegion: [4]float64{sv.Offset.X, sv.Offset.Y, sv.Size.X, sv.Size.Y},
	})
}

// ApplyGrid implements Mapper.
func (*NGUI) ApplyGrid(n *Node, g ir.Grid) {
	n.Add(NGUIGrid, &UIGrid{
		Arrangement:     g.Arrangement,
		MaxPerLine:      0,
		CellWidth:       DefaultCellSize,
		CellHeight:      DefaultCellSize,
		AnimateSmoothly: false,
	})
}
