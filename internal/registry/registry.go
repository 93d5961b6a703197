// Package registry provides a global registry for mode factories.
// Modes register themselves in init() functions, allowing the stage
// to discover and instantiate modes without hardcoded dependencies.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownMode is returned by Create for ids that were never registered.
var ErrUnknownMode = errors.New("registry: unknown mode")

// ModeInfo contains metadata about a registered mode.
type ModeInfo struct {
	ID          string
	Title       string
	Description string
	Aliases     []string
}

// Factory creates a new, independent instance of a mode. Each instance
// owns its own configuration.
type Factory func() Mode

var (
	factories = make(map[string]Factory)
	infos     = make(map[string]ModeInfo)
	aliases   = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a mode factory to the registry.
// Typically called from a mode's init() function.
// Panics if a mode with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: mode %q already registered", id))
	}
	if _, exists := aliases[id]; exists {
		panic(fmt.Sprintf("registry: mode %q collides with an alias", id))
	}

	factories[id] = f

	m := f()
	infos[id] = ModeInfo{
		ID:          id,
		Title:       m.Title(),
		Description: m.Description(),
	}
}

// RegisterAlias makes alias resolve to an already registered mode id.
// Panics if the target is unknown or the alias is taken.
func RegisterAlias(alias, id string) {
	mu.Lock()
	defer mu.Unlock()

	info, ok := infos[id]
	if !ok {
		panic(fmt.Sprintf("registry: alias %q targets unknown mode %q", alias, id))
	}
	if _, exists := factories[alias]; exists {
		panic(fmt.Sprintf("registry: alias %q shadows a mode", alias))
	}
	if _, exists := aliases[alias]; exists {
		panic(fmt.Sprintf("registry: alias %q already registered", alias))
	}

	aliases[alias] = id
	info.Aliases = append(info.Aliases, alias)
	sort.Strings(info.Aliases)
	infos[id] = info
}

// List returns information about all registered modes, sorted by ID.
func List() []ModeInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]ModeInfo, 0, len(infos))
	for _, info := range infos {
		result = append(result, info)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Resolve maps an id or alias to the canonical mode id.
func Resolve(id string) (string, bool) {
	mu.RLock()
	defer mu.RUnlock()

	return resolve(id)
}

func resolve(id string) (string, bool) {
	if _, ok := factories[id]; ok {
		return id, true
	}
	if target, ok := aliases[id]; ok {
		return target, true
	}
	return "", false
}

// Create instantiates a new mode by its ID or alias.
// Returns an error wrapping ErrUnknownMode if the id is not registered.
func Create(id string) (Mode, error) {
	mu.RLock()
	defer mu.RUnlock()

	canonical, ok := resolve(id)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownMode, id)
	}

	return factories[canonical](), nil
}

// Exists checks if a mode with the given ID or alias is registered.
func Exists(id string) bool {
	_, ok := Resolve(id)
	return ok
}
