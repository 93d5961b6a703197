package race

import (
	"hash/fnv"
	"math"
)

// Track geometry.
const (
	StartY      = 50
	MaxLaneW    = 120
	trackMargin = 40
	frameMillis = 16 // Progress step assumes a 60fps frame
	wobbleFreq  = 0.16
	wobbleAmp   = 20
)

// Track maps lanes to canvas positions. Lanes are centered horizontally.
type Track struct {
	CanvasW  float64
	Lanes    int
	Distance float64
}

// LaneWidth returns the width of one lane.
func (t Track) LaneWidth() float64 {
	if t.Lanes <= 0 {
		return 0
	}
	return math.Min(MaxLaneW, (t.CanvasW-2*trackMargin)/float64(t.Lanes))
}

// Left returns the x of the left edge of the first lane.
func (t Track) Left() float64 {
	return (t.CanvasW - float64(t.Lanes)*t.LaneWidth()) / 2
}

// LaneX returns the x of the left edge of a lane.
func (t Track) LaneX(lane int) float64 {
	return t.Left() + float64(lane)*t.LaneWidth()
}

// LaneCenter returns the x of the center of a lane.
func (t Track) LaneCenter(lane int) float64 {
	return t.LaneX(lane) + t.LaneWidth()/2
}

// FinishY returns the y of the finish line.
func (t Track) FinishY() float64 {
	return StartY + t.Distance
}

// Step returns the progress gained in one frame at the given speed.
func Step(speed float64) float64 {
	return speed * frameMillis / 1000
}

// phase derives a stable wobble phase from a sprite id.
func phase(id string) float64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return float64(h.Sum32()) / math.MaxUint32 * 2 * math.Pi
}

// Wobble returns the sideways offset of a racer at the given tick.
func Wobble(id string, tick uint64) float64 {
	return math.Sin(float64(tick)*wobbleFreq+phase(id)) * wobbleAmp
}
