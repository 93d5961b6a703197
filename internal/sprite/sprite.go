// Package sprite defines the orb entity shared by every mode: its
// kinematics, its visual decoration and the per-mode scratch data.
package sprite

import (
	"math"

	"github.com/vovakirdan/stream-orbs/internal/core"
)

// Rest-size and ring defaults.
const (
	DefaultSize      = 32.0
	MinTargetSize    = 32.0
	DefaultRingWidth = 4.0
	ShrinkRate       = 0.1
	ShrinkSnap       = 0.5
)

// MoveState is the grounded wander behavior used by free-fall physics.
type MoveState int

const (
	MoveIdle MoveState = iota
	MoveWalk
	MoveDash
)

// String returns the wire name of the move state.
func (m MoveState) String() string {
	switch m {
	case MoveWalk:
		return "walk"
	case MoveDash:
		return "dash"
	default:
		return "idle"
	}
}

// Sprite is a single animated orb. X and Y are the top-left corner of the
// bounding box; Size is the rendered diameter.
type Sprite struct {
	ID string

	X, Y   float64
	VX, VY float64
	Mass   float64

	Image      core.Image
	ImageSrc   string
	Size       float64
	TargetSize float64
	RingColor  core.Color
	RingWidth  float64
	Label      string
	Icon       string
	IconAnchor Anchor

	Entering    bool
	OnGround    bool
	Exploding   bool
	Shrinking   bool
	BounceCount int

	MoveTimer int
	MoveState MoveState

	// Participant marks the sprite as eligible for lane races.
	Participant bool

	// Data is the active mode's scratch record, nil when the mode keeps none.
	Data ModeData
}

// Center returns the center of the sprite's bounding box.
func (s *Sprite) Center() core.Vec2 {
	return core.Vec2{X: s.X + s.Size/2, Y: s.Y + s.Size/2}
}

// SetCenter moves the sprite so that its center is at p.
func (s *Sprite) SetCenter(p core.Vec2) {
	s.X = p.X - s.Size/2
	s.Y = p.Y - s.Size/2
}

// Airborne reports whether gravity applies this frame.
func (s *Sprite) Airborne() bool {
	return !s.OnGround || s.Exploding
}

// ResetTargetSize recomputes the rest size from the current size.
func (s *Sprite) ResetTargetSize() {
	s.TargetSize = RestSize(s.Size)
}

// RestSize returns the size a sprite of the given size shrinks to.
func RestSize(size float64) float64 {
	return math.Max(size*0.8, MinTargetSize)
}

// StepShrink advances the shrink animation by one frame.
// Returns true if the size changed.
func (s *Sprite) StepShrink() bool {
	if !s.Shrinking {
		return false
	}
	if s.Size <= s.TargetSize {
		s.Shrinking = false
		return false
	}

	delta := s.Size - s.TargetSize
	if delta < ShrinkSnap {
		s.Size = s.TargetSize
		s.Shrinking = false
		return true
	}
	s.Size -= delta * ShrinkRate
	return true
}

// Clone returns a copy of the sprite with its own mode data.
func (s *Sprite) Clone() *Sprite {
	c := *s
	c.Data = cloneData(s.Data)
	return &c
}
