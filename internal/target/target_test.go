package target

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/roach88/uibridge/internal/ir"
)

func TestColorFromHex(t *testing.T) {
	c, ok := ColorFromHex("FFFFFF")
	require.True(t, ok)
	assert.Equal(t, White, c)

	c, ok = ColorFromHex("#FF8000")
	require.True(t, ok)
	assert.Equal(t, Color{R: 1, G: 0.502, B: 0, A: 1}, c)
	assert.Equal(t, "FF8000", c.Hex())

	for _, bad := range []string{"", "FFF", "ZZZZZZ"} {
		c, ok = ColorFromHex(bad)
		assert.False(t, ok, bad)
		assert.Equal(t, White, c)
	}
}

func TestColorHexRoundTripsEveryChannel(t *testing.T) {
	for v := 0; v < 256; v++ {
		hex := strings.ToUpper(strings.Repeat(string("0123456789ABCDEF"[v>>4])+string("0123456789ABCDEF"[v&15]), 3))
		c, ok := ColorFromHex(hex)
		require.True(t, ok)
		assert.Equal(t, hex, c.Hex())
	}
}

func TestNodeTree(t *testing.T) {
	root := NewNode("Root")
	a := NewNode("A")
	b := NewNode("B")
	root.AddChild(a)
	a.AddChild(b)
	root.AddChild(NewNode("C"))

	assert.Same(t, root, a.Parent())
	assert.Equal(t, 3, root.Depth())
	assert.Equal(t, 4, root.Count())
	assert.Same(t, a, root.Child("A"))
	assert.Nil(t, root.Child("B"))

	a.Add("UISprite", nil)
	a.Add("UILabel", nil)
	assert.True(t, a.Has("UILabel"))
	assert.False(t, a.Has("UIGrid"))
	assert.Equal(t, []string{"UISprite", "UILabel"}, a.Kinds())

	assert.Panics(t, func() { root.AddChild(nil) })
}

func TestNewMapper(t *testing.T) {
	m, err := NewMapper("NGUI", Options{})
	require.NoError(t, err)
	assert.Equal(t, FrameworkNGUI, m.Framework())

	m, err = NewMapper("ugui", Options{AutoCanvas: true})
	require.NoError(t, err)
	assert.Equal(t, FrameworkUGUI, m.Framework())
	assert.True(t, m.(*UGUI).AutoCanvas())

	_, err = NewMapper("cocos", Options{})
	require.Error(t, err)
}

func TestOutputName(t *testing.T) {
	assert.Equal(t, "Main.prefab.yaml", OutputName(FrameworkNGUI, "Main"))
	assert.Equal(t, "Main_UGUI.prefab.yaml", OutputName(FrameworkUGUI, "Main"))
}

func testDoc() *ir.Document {
	return &ir.Document{
		Name:     "Btn",
		Active:   true,
		Pos:      ir.Vec3{X: 10, Y: 20},
		Scale:    ir.Vec3{X: 1, Y: 1, Z: 1},
		Rotation: 15,
		Size:     ir.Size{Width: 120, Height: 40},
		Anchor:   ir.Vec2{X: 0, Y: 1},
		Components: []ir.Component{{
			Type:  ir.KindSprite,
			Size:  ir.Size{Width: 120, Height: 40},
			Color: "FFFFFF",
			Pivot: ir.PivotTopLeft,
		}},
		Button: true,
	}
}

func TestNGUIButtonCollider(t *testing.T) {
	m := NewNGUI()
	doc := testDoc()
	n := m.ApplyNode(nil, doc)
	m.ApplyButton(n, doc)

	col := n.Component(NGUICollider)
	require.NotNil(t, col)
	bc := col.Props.(*BoxCollider)
	assert.Equal(t, ir.Vec3{X: 120, Y: 40, Z: 1}, bc.Size)
	assert.Equal(t, ir.Vec3{X: 60, Y: -20}, bc.Center)
	assert.True(t, n.Has(NGUIButton))

	// no components: 100x100 centred
	bare := &ir.Document{Name: "Bare"}
	n = m.ApplyNode(nil, bare)
	m.ApplyButton(n, bare)
	bc = n.Component(NGUICollider).Props.(*BoxCollider)
	assert.Equal(t, ir.Vec3{X: 100, Y: 100, Z: 1}, bc.Size)
	assert.Equal(t, ir.Vec3{}, bc.Center)
}

func TestNGUIScrollViewAndGrid(t *testing.T) {
	m := NewNGUI()
	n := NewNode("List")
	m.ApplyScrollView(n, ir.ScrollView{Offset: ir.Vec2{X: 5, Y: 6}, Size: ir.Vec2{X: 300, Y: 200}, Movement: ir.MovementVertical})
	m.ApplyGrid(n, ir.Grid{Arrangement: ir.ArrangementCellSnap})

	assert.Equal(t, []string{NGUIScrollView, NGUIPanel, NGUIGrid}, n.Kinds())
	panel := n.Component(NGUIPanel).Props.(*UIPanel)
	assert.Equal(t, "SoftClip", panel.Clipping)
	assert.Equal(t, [4]float64{5, 6, 300, 200}, panel.BaseClipRegion)

	grid := n.Component(NGUIGrid).Props.(*UIGrid)
	assert.Equal(t, UIGrid{Arrangement: ir.ArrangementCellSnap, CellWidth: 100, CellHeight: 100}, *grid)
}

func TestNGUILabelOutline(t *testing.T) {
	text := "Hi"
	sx, sy := 2.0, 4.0
	n := NewNode("L")
	NewNGUI().ApplyLabel(n, ir.Component{
		Type: ir.KindLabel, Color: "FFFFFF", Pivot: ir.PivotCenter,
		Text: &text, FontSize: 20, Overflow: ir.OverflowClampContent,
		SpacingX: &sx, SpacingY: &sy, OutlineColor: "000000",
	})

	lb := n.Component(NGUILabel).Props.(*UILabel)
	assert.Equal(t, "Hi", lb.Text)
	assert.Equal(t, "ClampContent", lb.OverflowMethod)
	assert.Equal(t, "Outline", lb.EffectStyle)
	require.NotNil(t, lb.EffectColor)
	assert.Equal(t, "000000", lb.EffectColor.Hex())
	assert.Equal(t, ir.Vec2{X: 1, Y: 1}, lb.EffectDistance)
	assert.Equal(t, 2, lb.SpacingX)
	assert.Equal(t, 4, lb.SpacingY)
}

func TestUGUINodeRect(t *testing.T) {
	n := NewUGUI(Options{}).ApplyNode(nil, testDoc())
	require.NotNil(t, n.Rect)
	assert.Equal(t, ir.Vec2{X: 0, Y: 1}, n.Rect.AnchorMin)
	assert.Equal(t, ir.Vec2{X: 0, Y: 1}, n.Rect.AnchorMax)
	assert.Equal(t, ir.Vec2{X: 0, Y: 1}, n.Rect.Pivot)
	assert.Equal(t, ir.Vec2{X: 120, Y: 40}, n.Rect.SizeDelta)
	assert.Equal(t, ir.Vec3{X: 10, Y: 20}, n.Rect.AnchoredPosition)
	assert.Equal(t, 15.0, n.EulerZ)
}

func TestUGUIButtonGeneratesImage(t *testing.T) {
	m := NewUGUI(Options{})
	n := NewNode("B")
	m.ApplyButton(n, testDoc())
	require.Equal(t, []string{UGUIImage, UGUIButton}, n.Kinds())
	assert.True(t, n.Components[0].Generated)

	n = NewNode("B")
	m.ApplySprite(n, testDoc().Components[0])
	m.ApplyButton(n, testDoc())
	require.Equal(t, []string{UGUIImage, UGUIButton}, n.Kinds())
	assert.False(t, n.Components[0].Generated)
}

func TestUGUIScrollRect(t *testing.T) {
	n := NewNode("List")
	NewUGUI(Options{}).ApplyScrollView(n, ir.ScrollView{Size: ir.Vec2{X: 300, Y: 200}, Movement: ir.MovementHorizontal})

	sr := n.Component(UGUIScrollRect).Props.(*ScrollRect)
	assert.True(t, sr.Horizontal)
	assert.False(t, sr.Vertical)

	vp := n.Child(ViewportName)
	require.NotNil(t, vp)
	assert.True(t, vp.Generated)
	assert.Equal(t, []string{UGUIImage, UGUIMask}, vp.Kinds())
	content := vp.Child(ContentName)
	require.NotNil(t, content)
	assert.Equal(t, ir.Vec2{X: 0, Y: 200}, content.Rect.SizeDelta)
}

func TestUGUIGridKinds(t *testing.T) {
	m := NewUGUI(Options{})
	for a, want := range map[ir.Arrangement]string{
		ir.ArrangementHorizontal: UGUIHorizontalLayout,
		ir.ArrangementVertical:   UGUIVerticalLayout,
		ir.ArrangementCellSnap:   UGUIGridLayout,
	} {
		n := NewNode("G")
		m.ApplyGrid(n, ir.Grid{Arrangement: a})
		assert.Equal(t, []string{want}, n.Kinds())
	}
}

func TestUGUILabel(t *testing.T) {
	text := "Score"
	sy := 6.0
	n := NewNode("L")
	NewUGUI(Options{}).ApplyLabel(n, ir.Component{
		Type: ir.KindLabel, Color: "FF0000", Pivot: ir.PivotTopLeft,
		Text: &text, FontSize: 30, Overflow: ir.OverflowShrinkContent,
		SpacingY: &sy, BitmapFont: "digits", OutlineColor: "000000", OutlineWidth: 2,
	})

	require.Equal(t, []string{UGUIText, UGUIOutline}, n.Kinds())
	txt := n.Component(UGUIText).Props.(*Text)
	assert.Equal(t, "UpperLeft", txt.Alignment)
	assert.True(t, txt.BestFit)
	assert.InDelta(t, 1.2, txt.LineSpacing, 1e-9)
	assert.True(t, txt.BitmapFont)
	assert.Equal(t, "FF0000", txt.Color.Hex())

	ol := n.Component(UGUIOutline).Props.(*Outline)
	assert.Equal(t, ir.Vec2{X: 2, Y: -2}, ol.EffectDistance)
}

func TestTextAnchorInverse(t *testing.T) {
	for _, p := range ir.AllPivots {
		assert.Equal(t, p, PivotForTextAnchor(TextAnchor(p)))
	}
	assert.Equal(t, "MiddleCenter", TextAnchor("Nowhere"))
	assert.Equal(t, ir.PivotCenter, PivotForTextAnchor("Nowhere"))
}

func TestNewCanvas(t *testing.T) {
	c := NewCanvas("Main")
	assert.Equal(t, []string{UGUICanvas, UGUICanvasScaler, UGUIRaycaster}, c.Kinds())
}

func TestDump(t *testing.T) {
	m := NewNGUI()
	doc := testDoc()
	root := m.ApplyNode(nil, doc)
	m.ApplySprite(root, doc.Components[0])

	data, err := Dump(root)
	require.NoError(t, err)

	var back map[string]any
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, "Btn", back["name"])
	comps := back["components"].([]any)
	require.Len(t, comps, 1)
	first := comps[0].(map[string]any)
	assert.Equal(t, "UISprite", first["kind"])
	props := first["props"].(map[string]any)
	assert.Equal(t, 120, props["width"])
	assert.Equal(t, "TopLeft", props["pivot"])
	assert.NotContains(t, string(data), "parent")
}
