package target

import (
	"github.com/roach88/uibridge/internal/geometry"
	"github.com/roach88/uibridge/internal/ir"
)

// UGUI component kinds.
const (
	UGUICanvas           = "Canvas"
	UGUICanvasScaler     = "CanvasScaler"
	UGUIRaycaster        = "GraphicRaycaster"
	UGUIImage            = "Image"
	UGUIText             = "Text"
	UGUIOutline          = "Outline"
	UGUIButton           = "Button"
	UGUIScrollRect       = "ScrollRect"
	UGUIMask             = "Mask"
	UGUILayoutElement    = "LayoutElement"
	UGUIHorizontalLayout = "HorizontalLayoutGroup"
	UGUIVerticalLayout   = "VerticalLayoutGroup"
	UGUIGridLayout       = "GridLayoutGroup"
)

// Names of the helper nodes a ScrollRect needs.
const (
	ViewportName = "Viewport"
	ContentName  = "Content"
)

// Image is a UGUI image.
type Image struct {
	Color      Color      `yaml:"color"`
	Sprite     string     `yaml:"sprite,omitempty"`
	Atlas      string     `yaml:"atlas,omitempty"`
	Type       string     `yaml:"type"`
	FillMethod *int       `yaml:"fillMethod,omitempty"`
	Border     *ir.Border `yaml:"border,omitempty"`
}

// Text is a UGUI text.
type Text struct {
	Text               string  `yaml:"text"`
	FontSize           int     `yaml:"fontSize"`
	Color              Color   `yaml:"color"`
	Font               string  `yaml:"font,omitempty"`
	BitmapFont         bool    `yaml:"bitmapFont,omitempty"`
	Alignment          string  `yaml:"alignment"`
	HorizontalOverflow string  `yaml:"horizontalOverflow"`
	VerticalOverflow   string  `yaml:"verticalOverflow"`
	BestFit            bool    `yaml:"bestFit,omitempty"`
	LineSpacing        float64 `yaml:"lineSpacing"`
}

// Outline is a UGUI outline effect.
type Outline struct {
	EffectColor    Color   `yaml:"effectColor"`
	EffectDistance ir.Vec2 `yaml:"effectDistance"`
}

// Button is a UGUI button.
type Button struct {
	TargetGraphic string `yaml:"targetGraphic"`
	Interactable  bool   `yaml:"interactable"`
}

// ScrollRect is a UGUI scroll rect.
type ScrollRect struct {
	Horizontal   bool   `yaml:"horizontal"`
	Vertical     bool   `yaml:"vertical"`
	MovementType string `yaml:"movementType"`
	Viewport     string `yaml:"viewport"`
	Content      string `yaml:"content"`
}

// Mask is a UGUI mask.
type Mask struct {
	ShowMaskGraphic bool `yaml:"showMaskGraphic"`
}

// LayoutElement sizes a node that draws nothing.
type LayoutElement struct {
	PreferredWidth  float64 `yaml:"preferredWidth"`
	PreferredHeight float64 `yaml:"preferredHeight"`
}

// LayoutGroup is a horizontal or vertical layout group.
type LayoutGroup struct {
	ChildAlignment string `yaml:"childAlignment"`
}

// GridLayout is a UGUI grid layout group.
type GridLayout struct {
	CellSize   ir.Vec2 `yaml:"cellSize"`
	StartAxis  string  `yaml:"startAxis"`
	Constraint string  `yaml:"constraint"`
}

// CanvasScaler scales the canvas with the screen.
type CanvasScaler struct {
	UIScaleMode         string  `yaml:"uiScaleMode"`
	ReferenceResolution ir.Vec2 `yaml:"referenceResolution"`
}

// TextAnchors lists UGUI text anchors in ir.AllPivots order.
var TextAnchors = []string{
	"UpperLeft", "UpperCenter", "UpperRight",
	"MiddleLeft", "MiddleCenter", "MiddleRight",
	"LowerLeft", "LowerCenter", "LowerRight",
}

// TextOverflow is the UGUI rendition of a label overflow policy.
type TextOverflow struct {
	Horizontal string
	Vertical   string
	BestFit    bool
}

// TextOverflows maps IR overflow policies to UGUI text settings.
var TextOverflows = map[ir.Overflow]TextOverflow{
	ir.OverflowResizeFreely:  {Horizontal: "Overflow", Vertical: "Overflow"},
	ir.OverflowClampContent:  {Horizontal: "Wrap", Vertical: "Truncate"},
	ir.OverflowShrinkContent: {Horizontal: "Wrap", Vertical: "Truncate", BestFit: true},
	ir.OverflowResizeHeight:  {Horizontal: "Wrap", Vertical: "Overflow"},
}

// defaultTextOverflow is what a label without an overflow policy gets.
var defaultTextOverflow = TextOverflow{Horizontal: "Wrap", Vertical: "Truncate"}

// UGUI maps IR records onto RectTransform nodes with Graphic components.
type UGUI struct {
	opts Options
}

// NewUGUI returns the UGUI mapper.
func NewUGUI(opts Options) *UGUI {
	return &UGUI{opts: opts}
}

// Framework implements Mapper.
func (*UGUI) Framework() string { return FrameworkUGUI }

// AutoCanvas reports whether roots are wrapped in a Canvas.
func (u *UGUI) AutoCanvas() bool { return u.opts.AutoCanvas }

// NewCanvas returns a Canvas root named name.
func NewCanvas(name string) *Node {
	n := NewNode(name)
	n.Rect = &RectTransform{
		AnchorMin: ir.Vec2{X: 0.5, Y: 0.5},
		AnchorMax: ir.Vec2{X: 0.5, Y: 0.5},
		Pivot:     ir.Vec2{X: 0.5, Y: 0.5},
	}
	n.Add(UGUICanvas, nil)
	n.Add(UGUICanvasScaler, &CanvasScaler{
		UIScaleMode:         "ScaleWithScreenSize",
		ReferenceResolution: ir.Vec2{X: 1920, Y: 1080},
	})
	n.Add(UGUIRaycaster, nil)
	return n
}

// ApplyNode implements Mapper. anchorMin, anchorMax and pivot all take the
// node anchor, so sizeDelta is the node size.
func (*UGUI) ApplyNode(parent *Node, doc *ir.Document) *Node {
	n := NewNode(doc.Name)
	n.Active = doc.Active
	n.Position = doc.Pos
	n.Scale = doc.Scale
	n.EulerZ = doc.Rotation

	r := geometry.RectFromAnchor(doc.Anchor)
	n.Rect = &RectTransform{
		AnchorMin:        r.AnchorMin,
		AnchorMax:        r.AnchorMax,
		Pivot:            r.Pivot,
		SizeDelta:        ir.Vec2{X: float64(doc.Size.Width), Y: float64(doc.Size.Height)},
		AnchoredPosition: doc.Pos,
	}
	if parent != nil {
		parent.AddChild(n)
	}
	return n
}

// ApplySprite implements Mapper.
func (*UGUI) ApplySprite(n *Node, rec ir.Component) {
	c, _ := ColorFromHex(rec.Color)
	img := &Image{
		Color:  c,
		Sprite: rec.SpName,
		Atlas:  rec.Atlas,
		Type:   string(rec.SpType),
		Border: rec.Border,
	}
	if rec.SpType == ir.SpriteFilled && rec.FillDir != nil {
		dir := *rec.FillDir
		img.FillMethod = &dir
	}
	n.Add(UGUIImage, img)
}

// ApplyLabel implements Mapper. Line spacing is the ratio of line height to
// font size; letter spacing has no UGUI counterpart.
func (*UGUI) ApplyLabel(n *Node, rec ir.Component) {
	c, _ := ColorFromHex(rec.Color)
	ov, ok := TextOverflows[rec.Overflow]
	if !ok {
		ov = defaultTextOverflow
	}
	txt := &Text{
		FontSize:           rec.FontSize,
		Color:              c,
		Font:               rec.BitmapFont,
		BitmapFont:         rec.BitmapFont != "",
		Alignment:          TextAnchor(rec.Pivot),
		HorizontalOverflow: ov.Horizontal,
		VerticalOverflow:   ov.Vertical,
		BestFit:            ov.BestFit,
		LineSpacing:        1,
	}
	if rec.Text != nil {
		txt.Text = *rec.Text
	}
	if rec.SpacingY != nil && rec.FontSize > 0 {
		txt.LineSpacing = geometry.Round2(float64(rec.FontSize)+*rec.SpacingY) / float64(rec.FontSize)
	}
	n.Add(UGUIText, txt)

	if rec.OutlineColor != "" {
		oc, ok := ColorFromHex(rec.OutlineColor)
		if ok {
			w := rec.OutlineWidth
			if w == 0 {
				w = 1
			}
			n.Add(UGUIOutline, &Outline{EffectColor: oc, EffectDistance: ir.Vec2{X: w, Y: -w}})
		}
	}
}

// ApplyWidget implements Mapper.
func (*UGUI) ApplyWidget(n *Node, rec ir.Component) {
	n.Add(UGUILayoutElement, &LayoutElement{
		PreferredWidth:  float64(rec.Size.Width),
		PreferredHeight: float64(rec.Size.Height),
	})
}

// ApplyButton implements Mapper. A Button needs a target graphic; when the
// node has no Image one is generated.
func (*UGUI) ApplyButton(n *Node, _ *ir.Document) {
	if !n.Has(UGUIImage) {
		n.Add(UGUIImage, &Image{Color: White, Type: string(ir.SpriteSimple)}).Generated = true
	}
	n.Add(UGUIButton, &Button{TargetGraphic: UGUIImage, Interactable: true})
}

// ApplyScrollView implements Mapper. A ScrollRect gets a masked Viewport child
// holding a top-stretched Content child.
func (*UGUI) ApplyScrollView(n *Node, sv ir.ScrollView) {
	h, v := false, false
	switch sv.Movement {
	case ir.MovementHorizontal:
		h = true
	case ir.MovementVertical:
		v = true
	case ir.MovementUnrestricted:
		h, v = true, true
	}

	viewport := NewNode(ViewportName)
	viewport.Generated = true
	viewport.Rect = &RectTransform{
		AnchorMin: ir.Vec2{X: 0, Y: 0},
		AnchorMax: ir.Vec2{X: 1, Y: 1},
		Pivot:     ir.Vec2{X: 0.5, Y: 0.5},
	}
	viewport.Add(UGUIImage, &Image{Color: Color{R: 1, G: 1, B: 1, A: 0.01}, Type: string(ir.SpriteSimple)})
	viewport.Add(UGUIMask, &Mask{ShowMaskGraphic: false})

	content := NewNode(ContentName)
	content.Generated = true
	content.Rect = &RectTransform{
		AnchorMin: ir.Vec2{X: 0, Y: 1},
		AnchorMax: ir.Vec2{X: 1, Y: 1},
		Pivot:     ir.Vec2{X: 0, Y: 1},
		SizeDelta: ir.Vec2{X: 0, Y: sv.Size.Y},
	}
	viewport.AddChild(content)
	n.AddChild(viewport)

	n.Add(UGUIScrollRect, &ScrollRect{
		Horizontal:   h,
		Vertical:     v,
		MovementType: "Elastic",
		Viewport:     ViewportName,
		Content:      ViewportName + "/" + ContentName,
	})
}

// ApplyGrid implements Mapper. Single-axis arrangements become linear layout
// groups; cell snapping becomes a grid.
func (*UGUI) ApplyGrid(n *Node, g ir.Grid) {
	switch g.Arrangement {
	case ir.ArrangementVertical:
		n.Add(UGUIVerticalLayout, &LayoutGroup{ChildAlignment: "UpperLeft"})
	case ir.ArrangementCellSnap:
		n.Add(UGUIGridLayout, &GridLayout{
			CellSize:   ir.Vec2{X: DefaultCellSize, Y: DefaultCellSize},
			StartAxis:  "Horizontal",
			Constraint: "Flexible",
		})
	default:
		n.Add(UGUIHorizontalLayout, &LayoutGroup{ChildAlignment: "UpperLeft"})
	}
}

// TextAnchor returns the UGUI text anchor for a pivot, MiddleCenter for an
// unknown one.
func TextAnchor(p ir.Pivot) string {
	for i, v := range ir.AllPivots {
		if v == p {
			return TextAnchors[i]
		}
	}
	return "MiddleCenter"
}

// PivotForTextAnchor is the inverse of TextAnchor.
func PivotForTextAnchor(a string) ir.Pivot {
	for i, v := range TextAnchors {
		if v == a {
			return ir.AllPivots[i]
		}
	}
	return ir.PivotCenter
}
