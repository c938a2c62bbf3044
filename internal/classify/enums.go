package classify

import (
	"github.com/roach88/uibridge/internal/ir"
	"github.com/roach88/uibridge/internal/source"
)

// SpriteTypes translates source sprite modes. Mesh sprites have no widget
// counterpart.
var SpriteTypes = map[int]ir.SpriteType{
	source.SpriteSimple: ir.SpriteSimple,
	source.SpriteSliced: ir.SpriteSliced,
	source.SpriteTiled:  ir.SpriteTiled,
	source.SpriteFilled: ir.SpriteFilled,
}

// Overflows translates source label overflow modes.
var Overflows = map[int]ir.Overflow{
	source.OverflowNone:         ir.OverflowResizeFreely,
	source.OverflowClamp:        ir.OverflowClampContent,
	source.OverflowShrink:       ir.OverflowShrinkContent,
	source.OverflowResizeHeight: ir.OverflowResizeHeight,
}

// Arrangements translates source layout types. A layout without a type
// arranges horizontally.
var Arrangements = map[int]ir.Arrangement{
	source.LayoutNone:       ir.ArrangementHorizontal,
	source.LayoutHorizontal: ir.ArrangementHorizontal,
	source.LayoutVertical:   ir.ArrangementVertical,
	source.LayoutGrid:       ir.ArrangementCellSnap,
}

// MovementFor derives the scroll policy from the two axis flags.
func MovementFor(horizontal, vertical bool) ir.Movement {
	switch {
	case horizontal && vertical:
		return ir.MovementUnrestricted
	case horizontal:
		return ir.MovementHorizontal
	case vertical:
		return ir.MovementVertical
	default:
		return ir.MovementCustom
	}
}
