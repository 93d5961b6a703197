package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Patch decodes a partial YAML or JSON document onto a copy of cur and
// validates the result. On any error cur is returned unchanged.
func Patch[T any](cur T, patch []byte, validate func(T) error) (T, error) {
	next := cur
	if err := yaml.Unmarshal(patch, &next); err != nil {
		return cur, fmt.Errorf("config: decode patch: %w", err)
	}
	if err := validate(next); err != nil {
		return cur, err
	}
	return next, nil
}

// PatchRace applies a partial update to a race config.
func PatchRace(cur RaceConfig, patch []byte) (RaceConfig, error) {
	next, err := Patch(cur.Clone(), patch, RaceConfig.Validate)
	if err != nil {
		return cur, err
	}
	return next, nil
}

// PatchPachinko applies a partial update to a pachinko config.
// Changing bowl_count without new tables regenerates the value, color and
// size tables for the new count.
func PatchPachinko(cur PachinkoConfig, patch []byte) (PachinkoConfig, error) {
	keys, err := patchKeys(patch)
	if err != nil {
		return cur, err
	}

	next := cur.Clone()
	if err := yaml.Unmarshal(patch, &next); err != nil {
		return cur, fmt.Errorf("config: decode patch: %w", err)
	}

	if keys["bowl_values"] && !keys["bowl_count"] {
		next.BowlCount = len(next.BowlValues)
	}
	if next.BowlCount != cur.BowlCount {
		if !keys["bowl_values"] {
			next.BowlValues = DefaultBowlValues(next.BowlCount)
		}
		if !keys["bowl_colors"] {
			next.BowlColors = nil
		}
		if !keys["bowl_sizes"] {
			next.BowlSizes = nil
		}
	}
	if keys["bowl_values"] && !keys["bowl_colors"] && len(next.BowlColors) != next.BowlCount {
		next.BowlColors = nil
	}

	next = next.Normalize()
	if err := next.Validate(); err != nil {
		return cur, err
	}
	return next, nil
}

// patchKeys returns the top-level keys present in a patch document.
func patchKeys(patch []byte) (map[string]bool, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(patch, &raw); err != nil {
		return nil, fmt.Errorf("config: decode patch: %w", err)
	}
	keys := make(map[string]bool, len(raw))
	for k := range raw {
		keys[k] = true
	}
	return keys, nil
}
