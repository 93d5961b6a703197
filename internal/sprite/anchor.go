package sprite

import "fmt"

// Anchor is one of the nine icon positions around a sprite.
type Anchor string

const (
	AnchorTop         Anchor = "top"
	AnchorBottom      Anchor = "bottom"
	AnchorLeft        Anchor = "left"
	AnchorRight       Anchor = "right"
	AnchorCenter      Anchor = "center"
	AnchorTopLeft     Anchor = "top-left"
	AnchorTopRight    Anchor = "top-right"
	AnchorBottomLeft  Anchor = "bottom-left"
	AnchorBottomRight Anchor = "bottom-right"
)

// Anchors lists every anchor in display order.
var Anchors = []Anchor{
	AnchorTopLeft, AnchorTop, AnchorTopRight,
	AnchorLeft, AnchorCenter, AnchorRight,
	AnchorBottomLeft, AnchorBottom, AnchorBottomRight,
}

// diagonal icons sit closer so they stay on the ring's corner
const diagonalFactor = 0.7

// ParseAnchor validates an anchor name. Empty means bottom-right.
func ParseAnchor(s string) (Anchor, error) {
	if s == "" {
		return AnchorBottomRight, nil
	}
	for _, a := range Anchors {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("sprite: unknown icon position %q", s)
}

// Offset returns the icon offset from the sprite center for a sprite of
// the given size and ring width.
func (a Anchor) Offset(size, ringWidth float64) (dx, dy float64) {
	d := size/2 + ringWidth + 8
	diag := d * diagonalFactor

	switch a {
	case AnchorTop:
		return 0, -d
	case AnchorBottom:
		return 0, d
	case AnchorLeft:
		return -d, 0
	case AnchorRight:
		return d, 0
	case AnchorCenter:
		return 0, 0
	case AnchorTopLeft:
		return -diag, -diag
	case AnchorTopRight:
		return diag, -diag
	case AnchorBottomLeft:
		return -diag, diag
	default:
		return diag, diag
	}
}
