package config

import (
	"fmt"

	"github.com/vovakirdan/stream-orbs/internal/core"
)

// BowlPreset names a cradle width distribution for the pachinko board.
type BowlPreset string

const (
	BowlClassic  BowlPreset = "classic"  // Explicit bowl_sizes table
	BowlNarrow   BowlPreset = "narrow"   // Pattern 5: tight jackpot cradle
	BowlBalanced BowlPreset = "balanced" // Pattern 7
	BowlWide     BowlPreset = "wide"     // Pattern 9: forgiving center
)

// PatternForPreset returns the bowl_width_pattern for a preset.
func PatternForPreset(preset BowlPreset) (int, error) {
	switch preset {
	case BowlClassic:
		return 0, nil
	case BowlNarrow:
		return 5, nil
	case BowlBalanced:
		return 7, nil
	case BowlWide:
		return 9, nil
	}
	return 0, fmt.Errorf("config: unknown bowl preset %q", preset)
}

// ApplyPachinkoPreset switches the board to a bowl width preset.
func ApplyPachinkoPreset(cfg *PachinkoConfig, preset BowlPreset) error {
	pattern, err := PatternForPreset(preset)
	if err != nil {
		return err
	}
	cfg.BowlWidthPattern = pattern
	if pattern == 0 {
		cfg.BowlSizes = DefaultPachinkoConfig().BowlSizes
	}
	*cfg = cfg.Normalize()
	return nil
}

// bowlRadii holds cradle radii by distance from the center slot.
var bowlRadii = map[int][]float64{
	5: {0.15, 0.4, 0.7, 0.9},
	7: {0.2, 0.35, 0.55, 0.75, 0.9},
	9: {0.25, 0.35, 0.45, 0.6, 0.8, 0.9},
}

// GenerateBowlSizes returns cradle radius fractions for count slots using
// one of the 5/7/9 width patterns. Unknown patterns use 7.
func GenerateBowlSizes(count, pattern int) []float64 {
	if count <= 0 {
		return nil
	}
	radii, ok := bowlRadii[pattern]
	if !ok {
		radii = bowlRadii[7]
	}

	center := count / 2
	sizes := make([]float64, count)
	for i := range sizes {
		d := core.Abs(i - center)
		if d >= len(radii) {
			d = len(radii) - 1
		}
		sizes[i] = radii[d]
	}
	return sizes
}

// DefaultBowlValues returns a point table peaking at the center slot.
func DefaultBowlValues(count int) []int {
	if count <= 0 {
		return nil
	}
	center := count / 2
	values := make([]int, count)
	for i := range values {
		switch core.Abs(i - center) {
		case 0:
			values[i] = 1000
		case 1:
			values[i] = 500
		case 2:
			values[i] = 100
		default:
			values[i] = 10
		}
	}
	return values
}

// TierColor picks a slot color from its point value.
func TierColor(points int) core.Color {
	switch {
	case points >= 500:
		return "#ffd700"
	case points >= 100:
		return "#ff4500"
	case points >= 50:
		return "#32cd32"
	default:
		return core.ColorSky
	}
}

// Normalize derives any missing bowl tables from the bowl count.
func (c PachinkoConfig) Normalize() PachinkoConfig {
	out := c.Clone()
	if out.BowlCount <= 0 && len(out.BowlValues) > 0 {
		out.BowlCount = len(out.BowlValues)
	}
	if out.BowlCount <= 0 {
		return out
	}

	if len(out.BowlValues) != out.BowlCount && len(out.BowlValues) == 0 {
		out.BowlValues = DefaultBowlValues(out.BowlCount)
	}
	if len(out.BowlColors) != out.BowlCount {
		colors := make([]core.Color, out.BowlCount)
		for i := range colors {
			if i < len(out.BowlValues) {
				colors[i] = TierColor(out.BowlValues[i])
			} else {
				colors[i] = core.ColorSky
			}
		}
		out.BowlColors = colors
	}
	if out.BowlWidthPattern != 0 {
		out.BowlSizes = GenerateBowlSizes(out.BowlCount, out.BowlWidthPattern)
	} else if len(out.BowlSizes) != out.BowlCount {
		out.BowlSizes = GenerateBowlSizes(out.BowlCount, 7)
	}
	return out
}
