package geometry

import "github.com/roach88/uibridge/internal/ir"

// Rect is the anchor triplet of a RectTransform.
type Rect struct {
	AnchorMin ir.Vec2
	AnchorMax ir.Vec2
	Pivot     ir.Vec2
}

// RectFromAnchor places a rect at a point anchor: min, max and pivot all equal
// the node anchor, so SizeDelta equals the node size.
func RectFromAnchor(anchor ir.Vec2) Rect {
	return Rect{AnchorMin: anchor, AnchorMax: anchor, Pivot: anchor}
}

// IsPoint reports whether the rect anchors collapse to a single point.
func (r Rect) IsPoint() bool {
	return r.AnchorMin == r.AnchorMax
}

// BoxOffset returns the offset from a node's origin to the centre of its box.
// The origin sits at the anchor, so a box anchored bottom left has its centre
// at (+w/2, +h/2).
func BoxOffset(size ir.Size, anchor ir.Vec2) ir.Vec2 {
	return ir.Vec2{
		X: Round2((0.5 - anchor.X) * float64(size.Width)),
		Y: Round2((0.5 - anchor.Y) * float64(size.Height)),
	}
}

// CenterToTopLeft converts a centre-origin, y-up position of a box with the
// given anchor into the top-left corner of that box in y-down coordinates.
func CenterToTopLeft(pos ir.Vec2, size ir.Size, anchor ir.Vec2) ir.Vec2 {
	left := pos.X - anchor.X*float64(size.Width)
	top := pos.Y + (1-anchor.Y)*float64(size.Height)
	return ir.Vec2{X: Round2(left), Y: Round2(-top)}
}

// TopLeftToCenter is the inverse of CenterToTopLeft.
func TopLeftToCenter(corner ir.Vec2, size ir.Size, anchor ir.Vec2) ir.Vec2 {
	x := corner.X + anchor.X*float64(size.Width)
	y := -corner.Y - (1-anchor.Y)*float64(size.Height)
	return ir.Vec2{X: Round2(x), Y: Round2(y)}
}
