package snake

import (
	"github.com/vovakirdan/stream-orbs/internal/core"
)

// Path is the rectangular loop the chain follows. It is inset from the
// canvas edges by size/2 + margin, so every sprite size gets its own loop.
type Path struct {
	CanvasW float64
	CanvasH float64
	Margin  float64
}

func (p Path) inset(size float64) float64 {
	return size/2 + p.Margin
}

func (p Path) sides(size float64) (w, h float64) {
	m := p.inset(size)
	return p.CanvasW - 2*m, p.CanvasH - 2*m
}

// Perimeter returns the loop length for a sprite of the given size.
func (p Path) Perimeter(size float64) float64 {
	w, h := p.sides(size)
	return 2 * (w + h)
}

// Fraction returns how much of the loop a sprite of the given size occupies.
func (p Path) Fraction(size float64) float64 {
	per := p.Perimeter(size)
	if per <= 0 {
		return 0
	}
	return size / per
}

// Point returns the center position at the given progress. The loop runs
// clockwise from the top-left corner: top edge, right edge, bottom edge,
// left edge.
func (p Path) Point(progress, size float64) core.Vec2 {
	progress = core.Wrap01(progress)
	m := p.inset(size)
	w, h := p.sides(size)
	d := progress * 2 * (w + h)

	switch {
	case d <= w:
		return core.Vec2{X: m + d, Y: m}
	case d <= w+h:
		return core.Vec2{X: p.CanvasW - m, Y: m + (d - w)}
	case d <= 2*w+h:
		return core.Vec2{X: p.CanvasW - m - (d - w - h), Y: p.CanvasH - m}
	default:
		return core.Vec2{X: m, Y: p.CanvasH - m - (d - 2*w - h)}
	}
}

// Closest samples the loop at 1% steps and returns the progress whose
// point is nearest to pos.
func (p Path) Closest(pos core.Vec2, size float64) float64 {
	best := 0.0
	bestDist := -1.0
	for i := 0; i < 100; i++ {
		progress := float64(i) / 100
		d := core.Dist(pos, p.Point(progress, size))
		if bestDist < 0 || d < bestDist {
			best = progress
			bestDist = d
		}
	}
	return best
}
