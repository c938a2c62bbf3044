package convert

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/uibridge/internal/classify"
	"github.com/roach88/uibridge/internal/ir"
	"github.com/roach88/uibridge/internal/source"
	"github.com/roach88/uibridge/internal/target"
)

// fixture builds a small panel: a titled root, an icon button and a scroll
// list with one item. Colours are written in p's channel scale.
func fixture(p source.Profile, bitmap bool) *source.Node {
	root := source.NewNode("Panel")
	root.Width, root.Height = 400, 300
	root.AddComponent(source.Component{Kind: "cc.Widget"})

	title := source.NewNode("Title")
	title.X, title.Y = -190, 140
	title.ScaleX = 1.5
	title.Rotation = 30
	title.Width, title.Height = 200, 40
	title.AnchorX, title.AnchorY = 0, 1
	c := p.ColorFrom255(255, 204, 51, 255)
	title.Color = &c
	label := &source.LabelProps{Text: "Hello", FontSize: 24, LineHeight: 30, Overflow: source.Int(source.OverflowClamp)}
	if bitmap {
		label.Font = &source.FontRef{AssetRef: source.AssetRef{Name: "title", UUID: "f-1"}, Bitmap: true}
		label.SpacingX = 2
	}
	black := p.ColorFrom255(0, 0, 0, 255)
	title.AddComponent(source.Component{Kind: "cc.Label", ZOrder: 3, Label: label})
	title.AddComponent(source.Component{Kind: "cc.LabelOutline", Outline: &source.OutlineProps{Color: &black, Width: 2}})
	root.AddChild(title)

	icon := source.NewNode("Icon")
	icon.X, icon.Y = 150.25, -100
	icon.Width, icon.Height = 64, 64
	icon.AnchorX, icon.AnchorY = 1, 0
	icon.AddComponent(source.Component{Kind: "cc.Sprite", ZOrder: 1, Sprite: &source.SpriteProps{
		Frame:   &source.AssetRef{Name: "icon", UUID: "s-1"},
		Texture: &source.AssetRef{Name: "ui_atlas.png", UUID: "t-1"},
		Type:    source.Int(source.SpriteSliced),
		Insets:  &source.Insets{Left: 4, Right: 4, Top: 4, Bottom: 4},
	}})
	icon.AddComponent(source.Component{Kind: "cc.Button"})
	root.AddChild(icon)

	list := source.NewNode("List")
	list.Y = -20
	list.Width, list.Height = 200, 100
	list.AddComponent(source.Component{Kind: "cc.ScrollView", Scroll: &source.ScrollProps{Vertical: true}})
	list.AddComponent(source.Component{Kind: "cc.Layout", Layout: &source.LayoutProps{Type: source.Int(source.LayoutVertical)}})
	root.AddChild(list)

	item := source.NewNode("Item")
	item.Width, item.Height = 180, 20
	item.AddComponent(source.Component{Kind: "cc.Sprite", ZOrder: 2, Sprite: &source.SpriteProps{
		Frame:    &source.AssetRef{Name: "bar", UUID: "s-2"},
		Type:     source.Int(source.SpriteFilled),
		FillType: source.Int(2),
	}})
	list.AddChild(item)
	return root
}

func TestSerializeTwoNodeScenario(t *testing.T) {
	for _, p := range []source.Profile{source.Legacy, source.Modern} {
		t.Run(p.Name(), func(t *testing.T) {
			root := source.NewNode("Root")
			child := source.NewNode("Child")
			child.AnchorX, child.AnchorY = 0, 1
			child.Width, child.Height = 100, 50
			white := p.ColorFrom255(255, 255, 255, 255)
			child.Color = &white
			child.AddComponent(source.Component{Kind: "cc.Sprite"})
			root.AddChild(child)

			doc, err := NewSerializer(p).Serialize(root)
			require.NoError(t, err)
			assert.Equal(t, "Root", doc.Name)
			assert.Empty(t, doc.Components)
			require.Len(t, doc.Children, 1)

			rec := doc.Children[0].Components
			require.Len(t, rec, 1)
			assert.Equal(t, ir.KindSprite, rec[0].Type)
			assert.Equal(t, ir.PivotTopLeft, rec[0].Pivot)
			assert.Equal(t, "FFFFFF", rec[0].Color)
			assert.Equal(t, ir.Size{Width: 100, Height: 50}, rec[0].Size)

			for _, fw := range []string{target.FrameworkNGUI, target.FrameworkUGUI} {
				m, err := target.NewMapper(fw, target.Options{})
				require.NoError(t, err)
				built, err := NewBuilder(m).Build(doc, nil)
				require.NoError(t, err, fw)
				assert.Equal(t, 2, built.Depth(), fw)
				assert.Equal(t, 2, built.Count(), fw)
				assert.Empty(t, built.Components, fw)
				assert.Len(t, built.Child("Child").Components, 1, fw)
			}
		})
	}
}

func TestSerializeRoundsAndDefaults(t *testing.T) {
	n := source.NewNode("")
	n.X, n.Y, n.Z = 1.005, -2.004, 0
	n.ScaleZ = 0
	n.Width, n.Height = 10.5, 9.49

	doc, err := NewSerializer(source.Modern).Serialize(n)
	require.NoError(t, err)
	assert.Equal(t, ir.DefaultName, doc.Name)
	assert.Equal(t, ir.Vec3{X: 1.01, Y: -2, Z: 0}, doc.Pos)
	assert.Equal(t, ir.Vec3{X: 1, Y: 1, Z: 1}, doc.Scale)
	assert.Equal(t, ir.Size{Width: 11, Height: 9}, doc.Size)
}

func TestSerializeRotationFollowsProfile(t *testing.T) {
	n := source.NewNode("R")
	n.Rotation = 45

	legacy, err := NewSerializer(source.Legacy).Serialize(n)
	require.NoError(t, err)
	modern, err := NewSerializer(source.Modern).Serialize(n)
	require.NoError(t, err)

	assert.Equal(t, 45.0, legacy.Rotation)
	assert.Equal(t, -45.0, modern.Rotation)
}

func TestSerializeNonFinite(t *testing.T) {
	root := source.NewNode("Root")
	bad := source.NewNode("Bad")
	bad.Width = math.NaN()
	root.AddChild(bad)

	_, err := NewSerializer(nil).Serialize(root)
	require.Error(t, err)
	assert.True(t, IsNonFinite(err))
	assert.True(t, errors.Is(err, ErrConversion))

	var ce *ConversionError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "Root/Bad", ce.Path)
	assert.Contains(t, ce.Error(), "width")
}

func TestSerializeNil(t *testing.T) {
	_, err := NewSerializer(nil).Serialize(nil)
	var ce *ConversionError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, ErrCodeNilInput, ce.Code)
}

func TestSerializeSingletonsAndLosses(t *testing.T) {
	n := source.NewNode("Box")
	n.AnchorX, n.AnchorY = 0.3, 0.7
	n.AddComponent(source.Component{Kind: "cc.Transform"})
	n.AddComponent(source.Component{Kind: "cc.Sprite"})
	n.AddComponent(source.Component{Kind: "cc.Button"})
	n.AddComponent(source.Component{Kind: "cc.ScrollView", Scroll: &source.ScrollProps{Horizontal: true}})
	n.AddComponent(source.Component{Kind: "cc.ScrollView", Scroll: &source.ScrollProps{Vertical: true}})
	n.AddComponent(source.Component{Kind: "cc.Toggle"})

	var loss ir.LossReport
	doc, err := NewSerializer(source.Modern, WithLoss(&loss)).Serialize(n)
	require.NoError(t, err)

	assert.True(t, doc.Button)
	require.NotNil(t, doc.ScrollView)
	assert.Equal(t, ir.MovementVertical, doc.ScrollView.Movement, "last scroll view wins")
	assert.Nil(t, doc.Grid)

	require.Len(t, doc.Components, 2)
	assert.Equal(t, ir.KindSprite, doc.Components[0].Type)
	assert.Equal(t, ir.KindWidget, doc.Components[1].Type)

	assert.Equal(t, 1, loss.Count(ir.LossStructuralDropped))
	assert.Equal(t, 1, loss.Count(ir.LossSingletonOverwritten))
	assert.Equal(t, 1, loss.Count(ir.LossFallbackWidget))
	assert.Equal(t, 1, loss.Count(ir.LossPivotQuantized))
	for _, e := range loss.Entries {
		assert.Equal(t, "Box", e.Path)
	}
}

func TestSerializeOnGridAnchorIsLossless(t *testing.T) {
	var loss ir.LossReport
	n := source.NewNode("Box")
	n.AnchorX, n.AnchorY = 1, 0
	n.AddComponent(source.Component{Kind: "cc.Sprite"})

	_, err := NewSerializer(source.Modern, WithLoss(&loss)).Serialize(n)
	require.NoError(t, err)
	assert.True(t, loss.IsLossless())
}

func TestSerializeCollectsResources(t *testing.T) {
	var rs Resources
	_, err := NewSerializer(source.Modern, WithCollector(&rs)).Serialize(fixture(source.Modern, true))
	require.NoError(t, err)

	var uuids []string
	for _, r := range rs {
		uuids = append(uuids, r.UUID)
	}
	assert.Equal(t, []string{"f-1", "s-1", "t-1", "s-2"}, uuids)
	assert.Equal(t, ir.ResourceBitmapFont, rs[0].Type)
	assert.Equal(t, ir.ResourceTexture, rs[2].Type)
}

func TestSerializeUsesListerUnderModern(t *testing.T) {
	n := source.NewNode("L")
	n.AddComponent(source.Component{Kind: "cc.Sprite"})
	n.Lister = source.ListerFunc(func(*source.Node) ([]source.Component, error) {
		return []source.Component{{Kind: "cc.Label"}}, nil
	})

	modern, err := NewSerializer(source.Modern).Serialize(n)
	require.NoError(t, err)
	require.Len(t, modern.Components, 1)
	assert.Equal(t, ir.KindLabel, modern.Components[0].Type)

	legacy, err := NewSerializer(source.Legacy).Serialize(n)
	require.NoError(t, err)
	require.Len(t, legacy.Components, 1)
	assert.Equal(t, ir.KindSprite, legacy.Components[0].Type)

	n.Lister = source.ListerFunc(func(*source.Node) ([]source.Component, error) {
		return nil, errors.New("host unavailable")
	})
	fallback, err := NewSerializer(source.Modern).Serialize(n)
	require.NoError(t, err)
	require.Len(t, fallback.Components, 1)
	assert.Equal(t, ir.KindSprite, fallback.Components[0].Type)
}

func TestSerializeDoesNotMutateSource(t *testing.T) {
	root := fixture(source.Modern, false)
	before := mustSerialize(t, source.Modern, root)
	after := mustSerialize(t, source.Modern, root)
	assert.Equal(t, before, after)
	assert.Equal(t, "Panel", root.Name)
	assert.Equal(t, 3, root.NumChildren())
}

func TestSerializeIsIdempotent(t *testing.T) {
	a, err := NewSerializer(source.Modern).Serialize(fixture(source.Modern, true))
	require.NoError(t, err)
	b, err := NewSerializer(source.Modern).Serialize(fixture(source.Modern, true))
	require.NoError(t, err)

	assert.Equal(t, ir.MustDocumentDigest(a), ir.MustDocumentDigest(b))
}

func TestBuilderHandlesEveryKind(t *testing.T) {
	for _, k := range ir.AllKinds {
		assert.True(t, Handles(k), "builder has no path for %s", k)
	}
	for _, k := range classify.ProducedKinds() {
		assert.True(t, Handles(k), "classifier emits %s but builder ignores it", k)
	}
	assert.False(t, Handles(ir.Kind("UITexture")))
}

func TestBuildNormalizesMissingFields(t *testing.T) {
	doc := &ir.Document{
		Name:   "Partial",
		Active: true,
		Scale:  ir.Vec3{X: 1, Y: 1, Z: 1},
		Components: []ir.Component{
			{Type: ir.KindSprite},
			{Type: ir.KindLabel, Color: "00FF00", Pivot: ir.PivotLeft},
		},
	}

	var loss ir.LossReport
	n, err := NewBuilder(target.NewNGUI(), WithLoss(&loss)).Build(doc, nil)
	require.NoError(t, err)

	sp := n.Component(target.NGUISprite).Props.(*target.UISprite)
	assert.Equal(t, target.White, sp.Color)
	assert.Equal(t, ir.PivotCenter, sp.Pivot)
	assert.Equal(t, string(ir.SpriteSimple), sp.Type)
	assert.Equal(t, 0, sp.Depth)

	lb := n.Component(target.NGUILabel).Props.(*target.UILabel)
	assert.Equal(t, ir.DefaultFontSize, lb.FontSize)
	assert.Equal(t, ir.PivotLeft, lb.Pivot)
	assert.Equal(t, "", lb.Text)

	// colour, pivot and spType on the sprite; fontSize on the label.
	assert.Equal(t, 4, loss.Count(ir.LossDefaulted))
	assert.Equal(t, "Partial", loss.Entries[0].Path)
}

func TestBuildSkipsUnknownKinds(t *testing.T) {
	doc := &ir.Document{
		Name:   "Odd",
		Active: true,
		Components: []ir.Component{
			{Type: "UITexture", Color: "FFFFFF", Pivot: ir.PivotCenter},
			{Type: ir.KindWidget, Color: "FFFFFF", Pivot: ir.PivotCenter, Size: ir.Size{Width: 5, Height: 6}},
		},
	}

	var loss ir.LossReport
	n, err := NewBuilder(target.NewUGUI(target.Options{}), WithLoss(&loss)).Build(doc, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{target.UGUILayoutElement}, n.Kinds())
	assert.Equal(t, 1, loss.Count(ir.LossUnknownKind))
}

func TestBuildDefaultsInvalidSingletons(t *testing.T) {
	doc := &ir.Document{
		Name:       "S",
		ScrollView: &ir.ScrollView{Movement: 9},
		Grid:       &ir.Grid{Arrangement: -1},
	}

	var loss ir.LossReport
	n, err := NewBuilder(target.NewNGUI(), WithLoss(&loss)).Build(doc, nil)
	require.NoError(t, err)
	assert.Equal(t, ir.MovementUnrestricted, n.Component(target.NGUIScrollView).Props.(*target.UIScrollView).Movement)
	assert.Equal(t, ir.ArrangementHorizontal, n.Component(target.NGUIGrid).Props.(*target.UIGrid).Arrangement)
	assert.Equal(t, 2, loss.Count(ir.LossDefaulted))
}

func TestBuildUnderParentAndCanvas(t *testing.T) {
	doc := &ir.Document{Name: "Panel", Active: true}

	parent := target.NewNode("Host")
	n, err := NewBuilder(target.NewUGUI(target.Options{AutoCanvas: true})).Build(doc, parent)
	require.NoError(t, err)
	assert.Same(t, parent, n.Parent())

	root, err := NewBuilder(target.NewUGUI(target.Options{AutoCanvas: true})).Build(doc, nil)
	require.NoError(t, err)
	assert.Equal(t, CanvasName, root.Name)
	assert.True(t, root.Has(target.UGUICanvas))
	require.NotNil(t, root.Child("Panel"))

	plain, err := NewBuilder(target.NewUGUI(target.Options{})).Build(doc, nil)
	require.NoError(t, err)
	assert.Equal(t, "Panel", plain.Name)
}

func TestBuildNil(t *testing.T) {
	_, err := NewBuilder(target.NewNGUI()).Build(nil, nil)
	assert.ErrorIs(t, err, ErrConversion)
}

func TestBuildPreservesChildOrder(t *testing.T) {
	doc := mustSerializeDoc(t, source.Modern, fixture(source.Modern, false))
	n, err := NewBuilder(target.NewNGUI()).Build(doc, nil)
	require.NoError(t, err)

	var names []string
	for _, c := range n.Children {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Title", "Icon", "List"}, names)
}

func TestRoundTripUGUI(t *testing.T) {
	roundTrip(t, source.Modern, target.NewUGUI(target.Options{}), fixture(source.Modern, false))
}

func TestRoundTripNGUI(t *testing.T) {
	roundTrip(t, source.Legacy, target.NewNGUI(), fixture(source.Legacy, true))
}

func roundTrip(t *testing.T, p source.Profile, m target.Mapper, src *source.Node) {
	t.Helper()

	first := mustSerializeDoc(t, p, src)
	built, err := NewBuilder(m).Build(first, nil)
	require.NoError(t, err)

	second := mustSerializeDoc(t, p, Capture(built, p))
	assert.Equal(t, mustMarshal(t, first), mustMarshal(t, second))
}

func TestCaptureSkipsGenerated(t *testing.T) {
	doc := &ir.Document{
		Name:       "Scroll",
		Active:     true,
		Size:       ir.Size{Width: 10, Height: 10},
		Anchor:     ir.Vec2{X: 0.5, Y: 0.5},
		Button:     true,
		ScrollView: &ir.ScrollView{Movement: ir.MovementHorizontal},
	}
	built, err := NewBuilder(target.NewUGUI(target.Options{})).Build(doc, nil)
	require.NoError(t, err)
	require.NotNil(t, built.Child(target.ViewportName))

	src := Capture(built, source.Modern)
	assert.Equal(t, 0, src.NumChildren())
	var kinds []string
	for _, c := range src.Components {
		kinds = append(kinds, c.Kind)
	}
	assert.Equal(t, []string{classify.SourceButton, classify.SourceScrollView}, kinds)
	assert.Nil(t, src.Color, "generated image carries no node colour")
}

func TestCaptureNil(t *testing.T) {
	assert.Nil(t, Capture(nil, nil))
}

func TestRecovered(t *testing.T) {
	err := Recovered("boom")
	assert.Equal(t, ErrCodePanic, err.Code)
	assert.Contains(t, err.Error(), "boom")
	assert.ErrorIs(t, err, ErrConversion)

	cause := errors.New("inner")
	assert.ErrorIs(t, Recovered(cause), cause)
}

func mustSerializeDoc(t *testing.T, p source.Profile, n *source.Node) *ir.Document {
	t.Helper()
	doc, err := NewSerializer(p).Serialize(n)
	require.NoError(t, err)
	return doc
}

func mustSerialize(t *testing.T, p source.Profile, n *source.Node) string {
	t.Helper()
	return mustMarshal(t, mustSerializeDoc(t, p, n))
}

func mustMarshal(t *testing.T, doc *ir.Document) string {
	t.Helper()
	b, err := ir.Marshal(doc)
	require.NoError(t, err)
	return string(b)
}
