package geometry

import "github.com/roach88/uibridge/internal/ir"

// Quantization thresholds: an axis value at or below Low snaps to the low
// edge, at or above High to the high edge, anything between to the middle.
const (
	Low  = 0.1
	High = 0.9
)

// AnchorToPivot quantizes a normalized anchor (origin bottom left) to one of
// the nine named pivots. The mapping is lossy: every anchor strictly between
// the thresholds collapses to the middle row or column.
func AnchorToPivot(x, y float64) ir.Pivot {
	row := 1
	switch {
	case y >= High:
		row = 0
	case y <= Low:
		row = 2
	}
	col := 1
	switch {
	case x <= Low:
		col = 0
	case x >= High:
		col = 2
	}
	return ir.AllPivots[row*3+col]
}

// PivotToAnchor returns the anchor on the 0/0.5/1 grid that a pivot names.
// ok is false for an unknown pivot name.
func PivotToAnchor(p ir.Pivot) (x, y float64, ok bool) {
	for i, v := range ir.AllPivots {
		if v == p {
			row, col := i/3, i%3
			return float64(col) / 2, 1 - float64(row)/2, true
		}
	}
	return 0.5, 0.5, false
}

// IsOnGrid reports whether the anchor survives AnchorToPivot unchanged,
// i.e. both axes already lie on 0, 0.5 or 1.
func IsOnGrid(x, y float64) bool {
	onGrid := func(v float64) bool { return v == 0 || v == 0.5 || v == 1 }
	return onGrid(x) && onGrid(y)
}
