package project

import (
	"fmt"
	"math"
	"path"

	"github.com/tidwall/gjson"

	"github.com/roach88/uibridge/internal/classify"
	"github.com/roach88/uibridge/internal/source"
)

// Resolver looks up the assets a prefab references by uuid.
type Resolver interface {
	Lookup(uuid string) (*Asset, bool)
}

// Parse builds a source tree from serialized prefab or scene data. Colours
// and rotations are stored the way profile p expects them. res may be nil,
// in which case asset references keep only their uuid.
func Parse(data []byte, p source.Profile, res Resolver) (*source.Node, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON")
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsArray() {
		return nil, fmt.Errorf("expected an object array")
	}
	objs := doc.Array()
	if len(objs) == 0 {
		return nil, fmt.Errorf("empty object array")
	}
	if p == nil {
		p = source.Modern
	}

	root := 0
	switch objs[0].Get("__type__").String() {
	case TypePrefab, TypeScene:
		id := objs[0].Get("data.__id__")
		if !id.Exists() {
			return nil, fmt.Errorf("%s without data reference", objs[0].Get("__type__").String())
		}
		root = int(id.Int())
	}

	pr := &parser{objs: objs, profile: p, res: res, visiting: make(map[int]bool)}
	return pr.node(root)
}

type parser struct {
	objs     []gjson.Result
	profile  source.Profile
	res      Resolver
	visiting map[int]bool
}

func (pr *parser) obj(ref gjson.Result) (int, gjson.Result, error) {
	id := ref.Get("__id__")
	if !id.Exists() {
		return 0, gjson.Result{}, fmt.Errorf("reference without __id__: %s", ref.Raw)
	}
	i := int(id.Int())
	if i < 0 || i >= len(pr.objs) {
		return 0, gjson.Result{}, fmt.Errorf("reference %d out of range", i)
	}
	return i, pr.objs[i], nil
}

func (pr *parser) node(i int) (*source.Node, error) {
	if i < 0 || i >= len(pr.objs) {
		return nil, fmt.Errorf("node %d out of range", i)
	}
	if pr.visiting[i] {
		return nil, fmt.Errorf("node %d references itself", i)
	}
	pr.visiting[i] = true
	defer delete(pr.visiting, i)

	o := pr.objs[i]
	switch t := o.Get("__type__").String(); t {
	case "cc.Node", "cc.Scene", "cc.PrivateNode":
	default:
		return nil, fmt.Errorf("object %d is %q, not a node", i, t)
	}

	n := source.NewNode(o.Get("_name").String())
	if v := o.Get("_active"); v.Exists() {
		n.Active = v.Bool()
	}
	pr.transform(o, n)

	if s := o.Get("_contentSize"); s.Exists() {
		n.Width, n.Height = s.Get("width").Float(), s.Get("height").Float()
	}
	if a := o.Get("_anchorPoint"); a.Exists() {
		n.AnchorX, n.AnchorY = a.Get("x").Float(), a.Get("y").Float()
	}
	if c := o.Get("_color"); c.Exists() {
		col := pr.color(c)
		n.Color = &col
	}

	for _, ref := range o.Get("_components").Array() {
		_, co, err := pr.obj(ref)
		if err != nil {
			return nil, fmt.Errorf("node %q component: %w", n.Name, err)
		}
		n.AddComponent(pr.component(co))
	}

	for _, ref := range o.Get("_children").Array() {
		ci, _, err := pr.obj(ref)
		if err != nil {
			return nil, fmt.Errorf("node %q child: %w", n.Name, err)
		}
		child, err := pr.node(ci)
		if err != nil {
			return nil, err
		}
		n.AddChild(child)
	}
	return n, nil
}

// transform reads position, scale and rotation. 2.x packs them into _trs;
// 1.x stores separate fields. The clockwise rotation of 1.x and the
// counter-clockwise angle of 2.x are both converted to the profile's stored
// convention.
func (pr *parser) transform(o gjson.Result, n *source.Node) {
	if trs := o.Get("_trs.array"); trs.IsArray() {
		a := trs.Array()
		at := func(i, def float64) float64 {
			if int(i) < len(a) {
				return a[int(i)].Float()
			}
			return def
		}
		n.X, n.Y, n.Z = at(0, 0), at(1, 0), at(2, 0)
		n.ScaleX, n.ScaleY, n.ScaleZ = at(7, 1), at(8, 1), at(9, 1)
		if angle, ok := angleOf(o); ok {
			n.Rotation = pr.profile.StoredRotation(-angle)
		} else {
			qz, qw := at(5, 0), at(6, 1)
			n.Rotation = pr.profile.StoredRotation(-2 * math.Atan2(qz, qw) * 180 / math.Pi)
		}
		return
	}

	if p := o.Get("_position"); p.Exists() {
		n.X, n.Y, n.Z = p.Get("x").Float(), p.Get("y").Float(), p.Get("z").Float()
	}
	if s := o.Get("_scale"); s.Exists() {
		n.ScaleX, n.ScaleY = orOne(s.Get("x")), orOne(s.Get("y"))
		n.ScaleZ = orOne(s.Get("z"))
	} else {
		n.ScaleX, n.ScaleY = orOne(o.Get("_scaleX")), orOne(o.Get("_scaleY"))
	}
	if angle, ok := angleOf(o); ok {
		n.Rotation = pr.profile.StoredRotation(-angle)
	} else if r := o.Get("_rotationX"); r.Exists() {
		n.Rotation = pr.profile.StoredRotation(r.Float())
	}
}

func angleOf(o gjson.Result) (float64, bool) {
	if e := o.Get("_eulerAngles.z"); e.Exists() {
		return e.Float(), true
	}
	if a := o.Get("_angle"); a.Exists() {
		return a.Float(), true
	}
	return 0, false
}

func orOne(v gjson.Result) float64 {
	if !v.Exists() {
		return 1
	}
	return v.Float()
}

func (pr *parser) color(c gjson.Result) source.Color {
	a := 255.0
	if v := c.Get("a"); v.Exists() {
		a = v.Float()
	}
	return pr.profile.ColorFrom255(c.Get("r").Float(), c.Get("g").Float(), c.Get("b").Float(), a)
}

// first returns the first of keys present on o. Serialized components spell
// the same property with and without the _N$ prefix across versions.
func first(o gjson.Result, keys ...string) gjson.Result {
	for _, k := range keys {
		if v := o.Get(k); v.Exists() {
			return v
		}
	}
	return gjson.Result{}
}

func optInt(v gjson.Result) *int {
	if !v.Exists() || v.Type == gjson.Null {
		return nil
	}
	return source.Int(int(v.Int()))
}

func (pr *parser) component(o gjson.Result) source.Component {
	kind := o.Get("__type__").String()
	c := source.Component{Kind: kind, ZOrder: int(first(o, "_zOrder", "zOrder").Int())}

	switch classify.NormalizeKind(kind) {
	case classify.SourceSprite:
		c.Sprite = pr.sprite(o)
	case classify.SourceLabel:
		c.Label = pr.label(o)
	case classify.SourceLabelOutline:
		out := &source.OutlineProps{Width: 1}
		if w := first(o, "_width", "_N$width"); w.Exists() {
			out.Width = w.Float()
		}
		if col := o.Get("_color"); col.Exists() {
			cc := pr.color(col)
			out.Color = &cc
		}
		c.Outline = out
	case classify.SourceScrollView:
		c.Scroll = &source.ScrollProps{
			Horizontal: first(o, "horizontal", "_N$horizontal").Bool(),
			Vertical:   first(o, "vertical", "_N$vertical").Bool(),
		}
	case classify.SourceLayout:
		c.Layout = &source.LayoutProps{Type: optInt(first(o, "_layoutType", "_N$layoutType"))}
	}
	return c
}

func (pr *parser) sprite(o gjson.Result) *source.SpriteProps {
	sp := &source.SpriteProps{
		Type:     optInt(first(o, "_type", "_N$type")),
		FillType: optInt(first(o, "_fillType", "_N$fillType")),
	}
	uuid := first(o, "_spriteFrame", "_N$spriteFrame").Get("__uuid__").String()
	if uuid == "" {
		return sp
	}

	sp.Frame = &source.AssetRef{UUID: uuid}
	if pr.res == nil {
		return sp
	}
	a, ok := pr.res.Lookup(uuid)
	if !ok {
		return sp
	}

	sp.Frame.Name = path.Base(a.Path)
	sp.Frame.Path = a.Path
	owner := a
	if a.Parent != "" {
		if raw := a.Meta.Get("rawTextureUuid").String(); raw != "" {
			if t, ok := pr.res.Lookup(raw); ok {
				owner = t
			}
		} else if t, ok := pr.res.Lookup(a.Parent); ok {
			owner = t
		}
		if a.Meta.Exists() {
			sp.Insets = &source.Insets{
				Left:   a.Meta.Get("borderLeft").Float(),
				Right:  a.Meta.Get("borderRight").Float(),
				Top:    a.Meta.Get("borderTop").Float(),
				Bottom: a.Meta.Get("borderBottom").Float(),
			}
		}
	} else {
		sp.Frame.Name = a.Name()
	}
	sp.Texture = &source.AssetRef{Name: path.Base(owner.Path), UUID: owner.UUID, Path: owner.Path}
	return sp
}

func (pr *parser) label(o gjson.Result) *source.LabelProps {
	lb := &source.LabelProps{
		Text:       first(o, "_string", "_N$string", "string").String(),
		FontSize:   first(o, "_fontSize", "_N$fontSize").Float(),
		LineHeight: first(o, "_lineHeight", "_N$lineHeight").Float(),
		SpacingX:   first(o, "_spacingX", "_N$spacingX").Float(),
		Overflow:   optInt(first(o, "_overflow", "_N$overflow")),
	}

	uuid := first(o, "_N$file", "_file", "_font").Get("__uuid__").String()
	if uuid == "" {
		return lb
	}
	ref := source.FontRef{AssetRef: source.AssetRef{UUID: uuid}}
	if pr.res != nil {
		if a, ok := pr.res.Lookup(uuid); ok {
			ref.Name = a.Name()
			ref.Path = a.Path
			ref.Bitmap = a.Type == TypeBitmapFont
		}
	}
	lb.Font = &ref
	return lb
}
