package config

import (
	"errors"
	"fmt"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid value")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

func inUnit(v float64) bool {
	return v >= 0 && v <= 1
}

// Validate checks the free-fall tunables.
func (c PhysicsConfig) Validate() error {
	switch {
	case c.Gravity < 0:
		return invalid("gravity must not be negative, got %v", c.Gravity)
	case c.AirResistance <= 0 || c.AirResistance > 1:
		return invalid("air_resistance must be in (0, 1], got %v", c.AirResistance)
	case !inUnit(c.BounceDamping):
		return invalid("bounce_damping must be in [0, 1], got %v", c.BounceDamping)
	case !inUnit(c.GroundFriction):
		return invalid("ground_friction must be in [0, 1], got %v", c.GroundFriction)
	case !inUnit(c.WallDamping):
		return invalid("wall_damping must be in [0, 1], got %v", c.WallDamping)
	case c.GroundMargin < 0:
		return invalid("ground_margin must not be negative, got %v", c.GroundMargin)
	}

	w := c.Wander
	switch {
	case w.MinFrames < 1 || w.MaxFrames < w.MinFrames:
		return invalid("wander frames must satisfy 1 <= min <= max, got %d..%d", w.MinFrames, w.MaxFrames)
	case !inUnit(w.IdleChance) || !inUnit(w.WalkChance) || w.IdleChance+w.WalkChance > 1:
		return invalid("wander chances must be probabilities summing to at most 1, got idle=%v walk=%v", w.IdleChance, w.WalkChance)
	case w.WalkMin < 0 || w.WalkMax < w.WalkMin:
		return invalid("walk speed range %v..%v", w.WalkMin, w.WalkMax)
	case w.DashMin < 0 || w.DashMax < w.DashMin:
		return invalid("dash speed range %v..%v", w.DashMin, w.DashMax)
	}
	return nil
}

// Validate checks the perimeter snake tunables.
func (c SnakeConfig) Validate() error {
	switch {
	case c.Speed <= 0 || c.Speed >= 0.5:
		return invalid("speed must be in (0, 0.5), got %v", c.Speed)
	case c.Margin < 0:
		return invalid("margin must not be negative, got %v", c.Margin)
	case c.CollectRadius < 0:
		return invalid("collect_radius must not be negative, got %v", c.CollectRadius)
	}
	return nil
}

// Validate checks the pachinko tunables. Table lengths must match the
// bowl count; call Normalize first to derive missing tables.
func (c PachinkoConfig) Validate() error {
	switch {
	case c.Rows < 1 || c.Rows > 30:
		return invalid("rows must be in [1, 30], got %d", c.Rows)
	case c.Bounciness <= 0 || c.Bounciness > 3:
		return invalid("bounciness must be in (0, 3], got %v", c.Bounciness)
	case c.DragX <= 0 || c.DragX > 1:
		return invalid("drag_x must be in (0, 1], got %v", c.DragX)
	case c.DragY <= 0 || c.DragY > 1:
		return invalid("drag_y must be in (0, 1], got %v", c.DragY)
	case c.BowlCount < 1 || c.BowlCount > 40:
		return invalid("bowl_count must be in [1, 40], got %d", c.BowlCount)
	case c.RespawnFrames < 0:
		return invalid("respawn_frames must not be negative, got %d", c.RespawnFrames)
	case c.DropDelay < 1:
		return invalid("drop_delay must be at least 1, got %d", c.DropDelay)
	}

	switch c.BowlWidthPattern {
	case 0, 5, 7, 9:
	default:
		return invalid("bowl_width_pattern must be 5, 7 or 9, got %d", c.BowlWidthPattern)
	}

	if len(c.BowlValues) != c.BowlCount {
		return invalid("bowl_values has %d entries for %d bowls", len(c.BowlValues), c.BowlCount)
	}
	if len(c.BowlColors) != c.BowlCount {
		return invalid("bowl_colors has %d entries for %d bowls", len(c.BowlColors), c.BowlCount)
	}
	if len(c.BowlSizes) != c.BowlCount {
		return invalid("bowl_sizes has %d entries for %d bowls", len(c.BowlSizes), c.BowlCount)
	}
	for i, v := range c.BowlValues {
		if v < 0 {
			return invalid("bowl_values[%d] must not be negative, got %d", i, v)
		}
	}
	for i, col := range c.BowlColors {
		if !col.Valid() {
			return invalid("bowl_colors[%d] is not a hex color: %q", i, col)
		}
	}
	for i, s := range c.BowlSizes {
		if s <= 0 || s > 1 {
			return invalid("bowl_sizes[%d] must be in (0, 1], got %v", i, s)
		}
	}
	return nil
}

// Validate checks the lane race tunables.
func (c RaceConfig) Validate() error {
	switch {
	case c.RaceDistance <= 0:
		return invalid("race_distance must be positive, got %v", c.RaceDistance)
	case c.LaneCount < 1 || c.LaneCount > 16:
		return invalid("lane_count must be in [1, 16], got %d", c.LaneCount)
	case c.RaceSpeed <= 0:
		return invalid("race_speed must be positive, got %v", c.RaceSpeed)
	case c.TurbulenceStrength < 0:
		return invalid("turbulence_strength must not be negative, got %v", c.TurbulenceStrength)
	}
	for i, col := range c.LaneColors {
		if !col.Valid() {
			return invalid("lane_colors[%d] is not a hex color: %q", i, col)
		}
	}
	return nil
}
