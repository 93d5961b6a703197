package pachinko

import (
	"math"

	"github.com/vovakirdan/stream-orbs/internal/config"
	"github.com/vovakirdan/stream-orbs/internal/core"
)

// Board geometry.
const (
	PegRadius    = 4
	pegSpacing   = 35
	rowSpacing   = 45
	pegStartY    = 120
	pegEdge      = 15
	WallHeight   = 60
	WallWidth    = 6
	CradleBottom = 8  // Gap between the cradle floor and the canvas bottom
	CradleDepth  = 15 // Arc depth at the cradle center
	SpriteSize   = 16
	SpriteMass   = 0.3
	Gravity      = 0.6
	dropY        = -20
	stageY       = -50
)

// DropSpots are the release points across the top, as fractions of the width.
var DropSpots = []float64{0.1, 0.2, 0.25, 0.35, 0.45, 0.55, 0.65, 0.75, 0.8, 0.9}

// Board is the peg layout of a session.
type Board struct {
	Rows int
	Pegs []core.Vec2
}

// NewBoard lays out a staggered peg grid: rows start at y=120 every 45px,
// odd rows shift by half a column and drop pegs past the right margin.
func NewBoard(rows int, canvasW float64) Board {
	b := Board{Rows: rows}
	available := canvasW - 2*pegEdge
	count := int(math.Floor(available/pegSpacing)) + 1
	if count < 2 {
		count = 2
	}
	spacing := available / float64(count-1)

	for row := 0; row < rows; row++ {
		y := float64(pegStartY + row*rowSpacing)
		for i := 0; i < count; i++ {
			x := pegEdge + float64(i)*spacing
			if row%2 == 1 {
				x += spacing / 2
			}
			if x < pegEdge || x > canvasW-pegEdge {
				continue
			}
			b.Pegs = append(b.Pegs, core.Vec2{X: x, Y: y})
		}
	}
	return b
}

// Slots describes the scoring slots along the bottom of the canvas.
type Slots struct {
	cfg     config.PachinkoConfig
	canvasW float64
	canvasH float64
}

func newSlots(cfg config.PachinkoConfig, rt core.RuntimeConfig) Slots {
	return Slots{cfg: cfg, canvasW: rt.CanvasW, canvasH: rt.CanvasH}
}

// Count returns the number of slots.
func (s Slots) Count() int {
	return len(s.cfg.BowlValues)
}

// Width returns the width of one slot.
func (s Slots) Width() float64 {
	return s.canvasW / float64(s.Count())
}

// Index returns the slot whose x-range contains x, clamped to the board.
func (s Slots) Index(x float64) int {
	i := int(math.Floor(x / s.canvasW * float64(s.Count())))
	return core.Clamp(i, 0, s.Count()-1)
}

// Center returns the x of the slot center.
func (s Slots) Center(i int) float64 {
	return (float64(i) + 0.5) * s.Width()
}

// Radius returns the cradle radius of a slot.
func (s Slots) Radius(i int) float64 {
	size := 1.0
	if i < len(s.cfg.BowlSizes) {
		size = s.cfg.BowlSizes[i]
	}
	return (s.Width()/2 - 5) * size
}

// Points returns the score of a slot.
func (s Slots) Points(i int) int {
	return s.cfg.BowlValues[i]
}

// Color returns the ring color for a slot, falling back to value tiers.
func (s Slots) Color(i int) core.Color {
	if i < len(s.cfg.BowlColors) && s.cfg.BowlColors[i].Valid() {
		return s.cfg.BowlColors[i]
	}
	return config.TierColor(s.Points(i))
}

// CradleY returns the top y of a sprite resting in slot i at horizontal
// offset d from the slot center. Outside the cradle it rests on the rim.
func (s Slots) CradleY(i int, d, size float64) float64 {
	depth := 0.0
	if r := s.Radius(i); r > 0 && math.Abs(d) <= r {
		nd := d / r
		depth = math.Sqrt(1-nd*nd) * CradleDepth
	}
	return s.canvasH - CradleBottom - depth - size
}

// Walls returns the x of every divider between neighbouring slots.
func (s Slots) Walls() []float64 {
	walls := make([]float64, 0, s.Count()-1)
	for i := 1; i < s.Count(); i++ {
		walls = append(walls, float64(i)*s.Width())
	}
	return walls
}

// DropX returns the left edge for a sprite of the given size released at
// drop spot i.
func DropX(i int, size float64, canvasW float64) float64 {
	spot := DropSpots[i%len(DropSpots)]
	return spot*canvasW - size/2
}
