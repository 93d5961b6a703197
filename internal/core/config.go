package core

import (
	"math/rand"
	"time"
)

// RuntimeConfig contains configuration passed to modes at initialization.
// Modes use this for canvas bounds and for seeding their randomness.
type RuntimeConfig struct {
	CanvasW  float64 // Logical canvas width in pixels
	CanvasH  float64 // Logical canvas height in pixels
	TickRate int     // Frames per second (default 60)
	Seed     int64   // RNG seed, 0 means use current time
}

// DefaultConfig returns the portrait overlay canvas used by the display page.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		CanvasW:  405,
		CanvasH:  720,
		TickRate: 60,
		Seed:     0,
	}
}

// Center returns the canvas midpoint.
func (c RuntimeConfig) Center() Vec2 {
	return Vec2{X: c.CanvasW / 2, Y: c.CanvasH / 2}
}

// FrameInterval returns the fixed timer interval for one frame.
func (c RuntimeConfig) FrameInterval() time.Duration {
	rate := c.TickRate
	if rate <= 0 {
		rate = 60
	}
	return time.Second / time.Duration(rate)
}

// NewRand returns a random source seeded from the config.
func (c RuntimeConfig) NewRand() *rand.Rand {
	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed)) //nolint:gosec // visual randomness only
}
