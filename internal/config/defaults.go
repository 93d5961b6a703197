package config

import (
	_ "embed"

	"github.com/vovakirdan/stream-orbs/internal/core"
)

//go:embed defaults/physics.yaml
var defaultPhysicsYAML []byte

//go:embed defaults/snake.yaml
var defaultSnakeYAML []byte

//go:embed defaults/pachinko.yaml
var defaultPachinkoYAML []byte

//go:embed defaults/race.yaml
var defaultRaceYAML []byte

// DefaultPhysicsConfig returns the default free-fall configuration.
func DefaultPhysicsConfig() PhysicsConfig {
	return PhysicsConfig{
		Gravity:        0.6,
		AirResistance:  0.99,
		BounceDamping:  0.7,
		GroundFriction: 0.8,
		WallDamping:    0.7,
		GroundMargin:   5,
		Wander: WanderConfig{
			MinFrames:  60,
			MaxFrames:  180,
			IdleChance: 0.4,
			WalkChance: 0.3,
			WalkMin:    1,
			WalkMax:    3,
			DashMin:    4,
			DashMax:    10,
		},
	}
}

// DefaultSnakeConfig returns the default perimeter snake configuration.
func DefaultSnakeConfig() SnakeConfig {
	return SnakeConfig{
		Speed:         0.002,
		Margin:        10,
		CollectRadius: 30,
	}
}

// DefaultPachinkoConfig returns the default eleven-slot board.
func DefaultPachinkoConfig() PachinkoConfig {
	return PachinkoConfig{
		Rows:       8,
		Bounciness: 0.8,
		DragX:      0.92,
		DragY:      0.96,
		BowlCount:  11,
		BowlValues: []int{5, 20, 50, 100, 1000, 2000, 1000, 100, 50, 20, 5},
		BowlColors: []core.Color{
			"#87ceeb", "#32cd32", "#32cd32", "#ff4500", "#ffd700", "#ffd700",
			"#ffd700", "#ff4500", "#32cd32", "#32cd32", "#87ceeb",
		},
		BowlSizes:        []float64{0.9, 0.8, 0.7, 0.6, 0.3, 0.2, 0.3, 0.6, 0.7, 0.8, 0.9},
		BowlWidthPattern: 0,
		RespawnFrames:    120,
		DropDelay:        30,
	}
}

// DefaultRaceConfig returns the default four-lane race.
func DefaultRaceConfig() RaceConfig {
	return RaceConfig{
		RaceDistance:       500,
		LaneCount:          4,
		RaceSpeed:          2,
		EnableTurbulence:   true,
		TurbulenceStrength: 0.5,
		LaneColors: []core.Color{
			"#ff6b6b", "#4ecdc4", "#45b7d1", "#96ceb4",
			"#ffeaa7", "#dda0dd", "#ffb347", "#98d8c8",
		},
	}
}
