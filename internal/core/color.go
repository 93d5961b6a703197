package core

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a CSS-style hex color ("#rrggbb").
// The same value is used for ring strokes on every surface.
type Color string

// Common colors.
const (
	ColorNone  Color = ""
	ColorWhite Color = "#ffffff"
	ColorBlack Color = "#000000"
	ColorGray  Color = "#8a8a8a"
	ColorGold  Color = "#ffd700"
	ColorSky   Color = "#87ceeb"
)

// ParseColor validates a hex color and returns it in canonical lowercase
// six-digit form. Short "#rgb" colors are expanded.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	c, err := colorful.Hex(s)
	if err != nil {
		return ColorNone, fmt.Errorf("core: invalid color %q: %w", s, err)
	}
	return Color(c.Hex()), nil
}

// Valid reports whether c parses as a hex color.
func (c Color) Valid() bool {
	_, err := colorful.Hex(string(c))
	return err == nil
}

// RGB returns the 8-bit channels of c, or white for invalid colors.
func (c Color) RGB() (r, g, b uint8) {
	cc, err := colorful.Hex(string(c))
	if err != nil {
		return 255, 255, 255
	}
	return cc.RGB255()
}

// Blend mixes a toward b by t in [0, 1] in Lab space.
func Blend(a, b Color, t float64) Color {
	ca, errA := colorful.Hex(string(a))
	cb, errB := colorful.Hex(string(b))
	if errA != nil || errB != nil {
		return a
	}
	return Color(ca.BlendLab(cb, ClampF(t, 0, 1)).Clamped().Hex())
}

// ColorFromRGB builds a Color from 8-bit channels.
func ColorFromRGB(r, g, b uint8) Color {
	return Color(colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}.Hex())
}
