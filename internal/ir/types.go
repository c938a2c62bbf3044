package ir

// Vec3 is a three-component vector (position, scale).
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Vec2 is a two-component vector (anchor, scroll offsets).
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is an integer width/height pair.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// IsZero reports whether both dimensions are zero.
func (s Size) IsZero() bool {
	return s.Width == 0 && s.Height == 0
}

// Border holds nine-slice insets in pixels.
type Border struct {
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
}

// Any reports whether at least one inset is positive.
func (b Border) Any() bool {
	return b.Left > 0 || b.Right > 0 || b.Top > 0 || b.Bottom > 0
}

// Document is one node of the IR tree. The root Document describes a whole
// prefab; nested Documents in Children describe its subtree.
type Document struct {
	Name     string  `json:"name"`
	Active   bool    `json:"active"`
	Pos      Vec3    `json:"pos"`
	Scale    Vec3    `json:"scale"`
	Rotation float64 `json:"rotation"`
	Size     Size    `json:"size"`
	Anchor   Vec2    `json:"anchor"`

	Components []Component `json:"components,omitempty"`

	// Button is a capability bit, not a draw call.
	Button     bool        `json:"button,omitempty"`
	ScrollView *ScrollView `json:"scrollView,omitempty"`
	Grid       *Grid       `json:"grid,omitempty"`

	Children []*Document `json:"children,omitempty"`
}

// Component is a drawable component record. Type selects which of the
// optional field groups are meaningful.
type Component struct {
	Type  Kind   `json:"type" jsonschema:"enum=UISprite,enum=UILabel,enum=UIWidget"`
	Size  Size   `json:"size"`
	Color string `json:"color" jsonschema:"pattern=^[0-9A-F]{6}$"`
	Pivot Pivot  `json:"pivot" jsonschema:"enum=TopLeft,enum=Top,enum=TopRight,enum=Left,enum=Center,enum=Right,enum=BottomLeft,enum=Bottom,enum=BottomRight"`
	Depth int    `json:"depth"`

	// Sprite fields.
	SpName  string     `json:"spName,omitempty"`
	Atlas   string     `json:"atlas,omitempty"`
	SpType  SpriteType `json:"spType,omitempty" jsonschema:"enum=Simple,enum=Sliced,enum=Tiled,enum=Filled"`
	FillDir *int       `json:"fillDir,omitempty"`
	Border  *Border    `json:"border,omitempty"`

	// Label fields.
	Text         *string  `json:"text,omitempty"`
	FontSize     int      `json:"fontSize,omitempty"`
	Overflow     Overflow `json:"overflow,omitempty" jsonschema:"enum=ResizeFreely,enum=ClampContent,enum=ShrinkContent,enum=ResizeHeight"`
	BitmapFont   string   `json:"bitmapFont,omitempty"`
	SpacingX     *float64 `json:"spacingX,omitempty"`
	SpacingY     *float64 `json:"spacingY,omitempty"`
	OutlineColor string   `json:"outlineColor,omitempty"`
	OutlineWidth float64  `json:"outlineWidth,omitempty"`
}

// ScrollView is the singleton scroll record of a node.
type ScrollView struct {
	Offset   Vec2     `json:"offset"`
	Size     Vec2     `json:"size"`
	Movement Movement `json:"movement" jsonschema:"minimum=0,maximum=3"`
}

// Grid is the singleton layout record of a node.
type Grid struct {
	Arrangement Arrangement `json:"arrangement" jsonschema:"minimum=0,maximum=2"`
}

// Resource is an external asset referenced by a converted document.
type Resource struct {
	Name string       `json:"name"`
	Type ResourceType `json:"type"`
	Path string       `json:"path"`
	UUID string       `json:"uuid"`
}

// DefaultName is used for nodes the source leaves unnamed.
const DefaultName = "Node"

// DefaultColor is the colour assumed when a record carries none.
const DefaultColor = "FFFFFF"

// DefaultFontSize replaces a zero source font size.
const DefaultFontSize = 40

// Walk visits d and its descendants in pre-order. Returning false from fn
// stops descent into that node's children.
func (d *Document) Walk(fn func(path string, doc *Document) bool) {
	d.walk("", fn)
}

func (d *Document) walk(parent string, fn func(string, *Document) bool) {
	path := JoinPath(parent, d.Name)
	if !fn(path, d) {
		return
	}
	for _, c := range d.Children {
		if c != nil {
			c.walk(path, fn)
		}
	}
}

// CountNodes returns the number of nodes in the tree rooted at d.
func (d *Document) CountNodes() int {
	n := 0
	d.Walk(func(string, *Document) bool {
		n++
		return true
	})
	return n
}

// JoinPath appends a node name to a slash-joined node path.
func JoinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}
