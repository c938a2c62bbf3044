package geometry

import (
	"math"
	"strconv"
	"strings"
)

// Round2 rounds v to two decimal places, half away from zero, on the
// shortest decimal representation of v. 1.005 becomes 1.01 even though the
// nearest float64 is slightly below 1.005; -2.004 becomes -2. Negative zero
// is normalized to 0. NaN and infinities are returned unchanged.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	s := strconv.FormatFloat(math.Abs(v), 'f', -1, 64)
	whole, frac, _ := strings.Cut(s, ".")
	if len(frac) <= 2 {
		return normZero(v)
	}

	cents, err := strconv.ParseFloat(whole+frac[:2], 64)
	if err != nil {
		return normZero(math.Round(v*100) / 100)
	}
	if frac[2] >= '5' {
		cents++
	}
	r := cents / 100
	if v < 0 {
		r = -r
	}
	return normZero(r)
}

// RoundInt rounds v to the nearest integer, half away from zero.
func RoundInt(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(math.Round(v))
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// NormalizeDegrees maps an angle to the half-open range (-180, 180].
func NormalizeDegrees(deg float64) float64 {
	if !IsFinite(deg) {
		return deg
	}
	d := math.Mod(deg, 360)
	if d > 180 {
		d -= 360
	} else if d <= -180 {
		d += 360
	}
	return normZero(d)
}

// Negate flips a rotation between clockwise- and counter-clockwise-positive
// conventions.
func Negate(deg float64) float64 {
	return normZero(-deg)
}

func normZero(v float64) float64 {
	if v == 0 {
		return 0
	}
	return v
}
