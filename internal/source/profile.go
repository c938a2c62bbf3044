package source

import (
	"fmt"
	"math"
	"strings"
)

// Profile captures the unit conventions of one source engine version.
type Profile interface {
	// Name is the profile identifier used in flags and config.
	Name() string

	// ColorHex encodes a colour as six upper-case hex digits. nil is white.
	ColorHex(c *Color) string

	// ColorFrom255 builds a colour in this profile's channel scale from
	// 0..255 channel values.
	ColorFrom255(r, g, b, a float64) Color

	// Rotation converts the stored node angle to IR degrees.
	Rotation(stored float64) float64

	// StoredRotation is the inverse of Rotation.
	StoredRotation(deg float64) float64

	// Depth returns the draw depth recorded for component c on node n.
	Depth(n *Node, c Component) int

	// Components enumerates n's components in attachment order.
	Components(n *Node) []Component
}

// Profile names.
const (
	LegacyName = "legacy"
	ModernName = "modern"
)

var (
	// Legacy is Cocos Creator 1.x: 0..255 colours, rotation as stored,
	// component depth from zOrder, internal component list.
	Legacy Profile = legacyProfile{}

	// Modern is Cocos Creator 2.x: 0..1 colours, rotation is the negated
	// stored angle, depth from the node sibling index, host lister with
	// internal list fallback.
	Modern Profile = modernProfile{}
)

// ParseProfile resolves a profile by name. An empty name selects Modern.
func ParseProfile(name string) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", ModernName, "2", "2.x":
		return Modern, nil
	case LegacyName, "1", "1.x":
		return Legacy, nil
	default:
		return nil, fmt.Errorf("unknown source profile %q (want %s or %s)", name, LegacyName, ModernName)
	}
}

type legacyProfile struct{}

func (legacyProfile) Name() string { return LegacyName }

func (legacyProfile) ColorHex(c *Color) string {
	if c == nil {
		return "FFFFFF"
	}
	return hex3(c.R, c.G, c.B)
}

func (legacyProfile) ColorFrom255(r, g, b, a float64) Color {
	return Color{R: r, G: g, B: b, A: a}
}

func (legacyProfile) Rotation(stored float64) float64 { return stored }

func (legacyProfile) StoredRotation(deg float64) float64 { return deg }

func (legacyProfile) Depth(_ *Node, c Component) int { return c.ZOrder }

func (legacyProfile) Components(n *Node) []Component { return n.Components }

type modernProfile struct{}

func (modernProfile) Name() string { return ModernName }

func (modernProfile) ColorHex(c *Color) string {
	if c == nil {
		return "FFFFFF"
	}
	return hex3(c.R*255, c.G*255, c.B*255)
}

func (modernProfile) ColorFrom255(r, g, b, a float64) Color {
	return Color{R: r / 255, G: g / 255, B: b / 255, A: a / 255}
}

func (modernProfile) Rotation(stored float64) float64 { return normZero(-stored) }

func (modernProfile) StoredRotation(deg float64) float64 { return normZero(-deg) }

func (modernProfile) Depth(n *Node, _ Component) int { return n.SiblingIndex() }

func (modernProfile) Components(n *Node) []Component {
	if n.Lister != nil {
		comps, err := n.Lister.ListComponents(n)
		if err == nil {
			return comps
		}
	}
	return n.Components
}

func hex3(r, g, b float64) string {
	return fmt.Sprintf("%02X%02X%02X", channel(r), channel(g), channel(b))
}

func channel(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	c := int(math.Round(v))
	if c < 0 {
		return 0
	}
	if c > 255 {
		return 255
	}
	return c
}

func normZero(v float64) float64 {
	if v == 0 {
		return 0
	}
	return v
}

// ParseHex decodes six hex digits into 0..255 channels. ok is false for
// anything else.
func ParseHex(s string) (r, g, b float64, ok bool) {
	if len(s) != 6 {
		return 0, 0, 0, false
	}
	var ri, gi, bi int
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &ri, &gi, &bi); err != nil {
		return 0, 0, 0, false
	}
	return float64(ri), float64(gi), float64(bi), true
}
