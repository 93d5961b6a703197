package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadPhysics loads the free-fall configuration.
// Search order: customPath -> ~/.orbs/configs/physics.yaml -> ./configs/physics.yaml -> embedded default
func LoadPhysics(customPath string) (PhysicsConfig, error) {
	return load("physics.yaml", customPath, defaultPhysicsYAML, DefaultPhysicsConfig, PhysicsConfig.Validate)
}

// LoadSnake loads the perimeter snake configuration.
// Search order: customPath -> ~/.orbs/configs/snake.yaml -> ./configs/snake.yaml -> embedded default
func LoadSnake(customPath string) (SnakeConfig, error) {
	return load("snake.yaml", customPath, defaultSnakeYAML, DefaultSnakeConfig, SnakeConfig.Validate)
}

// LoadPachinko loads the pachinko configuration.
// Search order: customPath -> ~/.orbs/configs/pachinko.yaml -> ./configs/pachinko.yaml -> embedded default
func LoadPachinko(customPath string) (PachinkoConfig, error) {
	cfg, err := load("pachinko.yaml", customPath, defaultPachinkoYAML, DefaultPachinkoConfig, PachinkoConfig.Validate)
	if err != nil {
		return cfg, err
	}
	return cfg.Normalize(), nil
}

// LoadRace loads the lane race configuration.
// Search order: customPath -> ~/.orbs/configs/race.yaml -> ./configs/race.yaml -> embedded default
func LoadRace(customPath string) (RaceConfig, error) {
	return load("race.yaml", customPath, defaultRaceYAML, DefaultRaceConfig, RaceConfig.Validate)
}

// load decodes a mode config on top of its hardcoded defaults so that
// partial files only override what they name.
func load[T any](filename, customPath string, embedded []byte, defaults func() T, validate func(T) error) (T, error) {
	// Try custom path first
	if customPath != "" {
		cfg := defaults()
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		if err := validate(cfg); err != nil {
			return defaults(), fmt.Errorf("invalid config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory, then local configs directory
	for _, path := range []string{userConfigPath(filename), filepath.Join("configs", filename)} {
		if path == "" {
			continue
		}
		if cfg, ok := tryFile(path, defaults, validate); ok {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg := defaults()
	if err := yaml.Unmarshal(embedded, &cfg); err != nil || validate(cfg) != nil {
		return defaults(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

func tryFile[T any](path string, defaults func() T, validate func(T) error) (T, bool) {
	cfg := defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, false
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, false
	}
	if err := validate(cfg); err != nil {
		return cfg, false
	}
	return cfg, true
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".orbs", "configs", filename)
}
