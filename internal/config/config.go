// Package config provides YAML-based mode configuration loading,
// validation and partial runtime updates.
package config

import (
	"github.com/vovakirdan/stream-orbs/internal/core"
)

// PhysicsConfig contains the tunables for the free-fall mode.
type PhysicsConfig struct {
	Gravity        float64      `yaml:"gravity"`
	AirResistance  float64      `yaml:"air_resistance"`
	BounceDamping  float64      `yaml:"bounce_damping"`
	GroundFriction float64      `yaml:"ground_friction"`
	WallDamping    float64      `yaml:"wall_damping"`
	GroundMargin   float64      `yaml:"ground_margin"`
	Wander         WanderConfig `yaml:"wander"`
}

// WanderConfig defines the grounded idle/walk/dash behavior.
type WanderConfig struct {
	MinFrames  int     `yaml:"min_frames"`
	MaxFrames  int     `yaml:"max_frames"`
	IdleChance float64 `yaml:"idle_chance"`
	WalkChance float64 `yaml:"walk_chance"`
	WalkMin    float64 `yaml:"walk_min"`
	WalkMax    float64 `yaml:"walk_max"`
	DashMin    float64 `yaml:"dash_min"`
	DashMax    float64 `yaml:"dash_max"`
}

// SnakeConfig contains the tunables for the perimeter snake mode.
type SnakeConfig struct {
	Speed         float64 `yaml:"speed"`
	Margin        float64 `yaml:"margin"`
	CollectRadius float64 `yaml:"collect_radius"`
}

// PachinkoConfig contains the tunables for the pachinko mode.
type PachinkoConfig struct {
	Rows             int          `yaml:"rows"`
	Bounciness       float64      `yaml:"bounciness"`
	DragX            float64      `yaml:"drag_x"`
	DragY            float64      `yaml:"drag_y"`
	BowlCount        int          `yaml:"bowl_count"`
	BowlValues       []int        `yaml:"bowl_values"`
	BowlColors       []core.Color `yaml:"bowl_colors"`
	BowlSizes        []float64    `yaml:"bowl_sizes"`
	BowlWidthPattern int          `yaml:"bowl_width_pattern"`
	RespawnFrames    int          `yaml:"respawn_frames"`
	DropDelay        int          `yaml:"drop_delay"`
}

// RaceConfig contains the tunables for the lane race mode.
type RaceConfig struct {
	RaceDistance       float64      `yaml:"race_distance"`
	LaneCount          int          `yaml:"lane_count"`
	RaceSpeed          float64      `yaml:"race_speed"`
	EnableTurbulence   bool         `yaml:"enable_turbulence"`
	TurbulenceStrength float64      `yaml:"turbulence_strength"`
	LaneColors         []core.Color `yaml:"lane_colors"`
}

// LaneColor returns the color for a lane, cycling through the palette.
func (c RaceConfig) LaneColor(lane int) core.Color {
	if len(c.LaneColors) == 0 {
		return core.ColorGray
	}
	return c.LaneColors[lane%len(c.LaneColors)]
}

// Clone returns a deep copy of the config.
func (c PachinkoConfig) Clone() PachinkoConfig {
	out := c
	out.BowlValues = append([]int(nil), c.BowlValues...)
	out.BowlColors = append([]core.Color(nil), c.BowlColors...)
	out.BowlSizes = append([]float64(nil), c.BowlSizes...)
	return out
}

// Clone returns a deep copy of the config.
func (c RaceConfig) Clone() RaceConfig {
	out := c
	out.LaneColors = append([]core.Color(nil), c.LaneColors...)
	return out
}
