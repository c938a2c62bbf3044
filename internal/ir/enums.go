package ir

// Kind is the discriminator of a component record.
type Kind string

// Component kinds. The set is closed: classifier and builder tests iterate
// AllKinds to keep both directions in sync.
const (
	KindSprite     Kind = "UISprite"
	KindLabel      Kind = "UILabel"
	KindButton     Kind = "UIButton"
	KindScrollView Kind = "UIScrollView"
	KindGrid       Kind = "UIGrid"
	KindWidget     Kind = "UIWidget"
)

// AllKinds lists every component kind in declaration order.
var AllKinds = []Kind{KindSprite, KindLabel, KindButton, KindScrollView, KindGrid, KindWidget}

// IsValid reports whether k is one of the declared kinds.
func (k Kind) IsValid() bool {
	for _, v := range AllKinds {
		if v == k {
			return true
		}
	}
	return false
}

// IsSingleton reports whether records of this kind are stored in a node slot
// (button flag, scrollView, grid) instead of the components list.
func (k Kind) IsSingleton() bool {
	return k == KindButton || k == KindScrollView || k == KindGrid
}

// Pivot is one of the nine named anchor positions of the widget model.
type Pivot string

// Pivot names.
const (
	PivotTopLeft     Pivot = "TopLeft"
	PivotTop         Pivot = "Top"
	PivotTopRight    Pivot = "TopRight"
	PivotLeft        Pivot = "Left"
	PivotCenter      Pivot = "Center"
	PivotRight       Pivot = "Right"
	PivotBottomLeft  Pivot = "BottomLeft"
	PivotBottom      Pivot = "Bottom"
	PivotBottomRight Pivot = "BottomRight"
)

// AllPivots lists the nine pivots row by row, top row first.
var AllPivots = []Pivot{
	PivotTopLeft, PivotTop, PivotTopRight,
	PivotLeft, PivotCenter, PivotRight,
	PivotBottomLeft, PivotBottom, PivotBottomRight,
}

// IsValid reports whether p names one of the nine pivots.
func (p Pivot) IsValid() bool {
	for _, v := range AllPivots {
		if v == p {
			return true
		}
	}
	return false
}

// SpriteType is the fill mode of a sprite record.
type SpriteType string

// Sprite types.
const (
	SpriteSimple SpriteType = "Simple"
	SpriteSliced SpriteType = "Sliced"
	SpriteTiled  SpriteType = "Tiled"
	SpriteFilled SpriteType = "Filled"
)

// AllSpriteTypes lists every sprite type.
var AllSpriteTypes = []SpriteType{SpriteSimple, SpriteSliced, SpriteTiled, SpriteFilled}

// IsValid reports whether t is a declared sprite type.
func (t SpriteType) IsValid() bool {
	for _, v := range AllSpriteTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Overflow is the text overflow policy of a label record.
type Overflow string

// Overflow policies.
const (
	OverflowResizeFreely  Overflow = "ResizeFreely"
	OverflowClampContent  Overflow = "ClampContent"
	OverflowShrinkContent Overflow = "ShrinkContent"
	OverflowResizeHeight  Overflow = "ResizeHeight"
)

// AllOverflows lists every overflow policy.
var AllOverflows = []Overflow{OverflowResizeFreely, OverflowClampContent, OverflowShrinkContent, OverflowResizeHeight}

// IsValid reports whether o is a declared overflow policy.
func (o Overflow) IsValid() bool {
	for _, v := range AllOverflows {
		if v == o {
			return true
		}
	}
	return false
}

// Movement is the scroll axis policy of a scroll view record.
type Movement int

// Movement values, numbered as the widget model numbers them.
const (
	MovementHorizontal   Movement = 0
	MovementVertical     Movement = 1
	MovementUnrestricted Movement = 2
	MovementCustom       Movement = 3
)

// IsValid reports whether m is a declared movement.
func (m Movement) IsValid() bool {
	return m >= MovementHorizontal && m <= MovementCustom
}

// Arrangement is the layout direction of a grid record.
type Arrangement int

// Arrangement values.
const (
	ArrangementHorizontal Arrangement = 0
	ArrangementVertical   Arrangement = 1
	ArrangementCellSnap   Arrangement = 2
)

// IsValid reports whether a is a declared arrangement.
func (a Arrangement) IsValid() bool {
	return a >= ArrangementHorizontal && a <= ArrangementCellSnap
}

// ResourceType classifies an external asset reference.
type ResourceType string

// Resource types carried in the resource manifest.
const (
	ResourceSpriteFrame ResourceType = "SpriteFrame"
	ResourceTexture     ResourceType = "Texture2D"
	ResourceBitmapFont  ResourceType = "BitmapFont"
	ResourceFont        ResourceType = "Font"
)

// IsTexture reports whether the resource resolves to an image file.
func (t ResourceType) IsTexture() bool {
	return t == ResourceSpriteFrame || t == ResourceTexture
}

// IsFont reports whether the resource resolves to a font file.
func (t ResourceType) IsFont() bool {
	return t == ResourceBitmapFont || t == ResourceFont
}
