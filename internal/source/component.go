package source

// Sprite fill modes as stored by the source engine.
const (
	SpriteSimple = 0
	SpriteSliced = 1
	SpriteTiled  = 2
	SpriteFilled = 3
	SpriteMesh   = 4
)

// Label overflow modes as stored by the source engine.
const (
	OverflowNone         = 0
	OverflowClamp        = 1
	OverflowShrink       = 2
	OverflowResizeHeight = 3
)

// Layout types as stored by the source engine.
const (
	LayoutNone       = 0
	LayoutHorizontal = 1
	LayoutVertical   = 2
	LayoutGrid       = 3
)

// Component is one component attached to a source node. Kind is the class
// name, with or without the "cc." namespace. At most one of the property
// groups is set, matching Kind.
type Component struct {
	Kind string

	// ZOrder is the component draw order some hosts expose.
	ZOrder int

	Sprite  *SpriteProps
	Label   *LabelProps
	Outline *OutlineProps
	Scroll  *ScrollProps
	Layout  *LayoutProps
}

// AssetRef points at an external asset by name and uuid.
type AssetRef struct {
	Name string
	UUID string
	Path string
}

// Insets are the nine-slice borders of a sprite frame.
type Insets struct {
	Left, Right, Top, Bottom float64
}

// SpriteProps are the properties of a sprite component.
type SpriteProps struct {
	// Frame is the sprite frame; nil when none is assigned.
	Frame *AssetRef
	// Texture is the frame's backing texture, if known.
	Texture *AssetRef
	// Insets is nil when the frame declares no inset data.
	Insets *Insets

	Type     *int
	FillType *int
}

// FontRef is the font of a label.
type FontRef struct {
	AssetRef
	Bitmap bool
}

// LabelProps are the properties of a label component.
type LabelProps struct {
	Text       string
	FontSize   float64
	LineHeight float64
	Overflow   *int
	Font       *FontRef
	SpacingX   float64
}

// OutlineProps are the properties of a label outline component.
type OutlineProps struct {
	Color *Color
	Width float64
}

// ScrollProps are the properties of a scroll view component.
type ScrollProps struct {
	Horizontal bool
	Vertical   bool
}

// LayoutProps are the properties of a layout component.
type LayoutProps struct {
	Type *int
}

// Int returns a pointer to v, for optional enum fields.
func Int(v int) *int {
	return &v
}
