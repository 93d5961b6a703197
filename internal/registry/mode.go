package registry

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/stream-orbs/internal/core"
	"github.com/vovakirdan/stream-orbs/internal/sprite"
)

// State is a mode's session record (peg layout, race flag, head progress).
// It is returned from Initialize and Update and threaded back in on the
// next call; modes never keep it in package variables.
type State any

// Mode is the core interface that every behavior mode must implement.
// Modes contain pure logic: the stage owns timing, drawing of the sprites
// themselves, and the sprite list.
type Mode interface {
	// ID returns a unique identifier for this mode (e.g., "physics").
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Description is a one-line summary for mode pickers.
	Description() string

	// Initialize rewrites every sprite's kinematics and mode data for this
	// mode and returns fresh session state. Called on every switch into the
	// mode, including re-entering the active one.
	Initialize(env *Env, sprites []*sprite.Sprite) State

	// Update advances the simulation by one frame.
	Update(env *Env, sprites []*sprite.Sprite, st State) State

	// Render draws the mode's scenery (pegs, lanes, banners) before the
	// stage draws the sprites on top.
	Render(dst core.Surface, sprites []*sprite.Sprite, st State)
}

// Adder is implemented by modes that place newly added sprites themselves.
type Adder interface {
	HandleAdded(env *Env, s *sprite.Sprite, sprites []*sprite.Sprite, st State) State
}

// Rerunner is implemented by modes that can replay a single sprite.
type Rerunner interface {
	Rerun(env *Env, s *sprite.Sprite, sprites []*sprite.Sprite, st State) State
}

// Controller is implemented by modes that react to admin actions.
type Controller interface {
	Handle(env *Env, a core.Action, sprites []*sprite.Sprite, st State) State
}

// Configurable is implemented by modes with runtime tunables.
// UpdateConfig must validate the whole patched config before applying it;
// a rejected patch leaves the previous config in place.
type Configurable interface {
	Config() any
	UpdateConfig(patch []byte) error
}

// Result is a score or finishing position produced by a mode.
type Result struct {
	Mode     string `json:"mode"`
	SpriteID string `json:"id"`
	Label    string `json:"label,omitempty"`
	Score    int    `json:"score"`
	Slot     int    `json:"slot"` // Pachinko slot index (0-based) or race finishing position (1-based)
}

// Env carries per-frame context into a mode call.
type Env struct {
	RT   core.RuntimeConfig
	Rand *rand.Rand
	Tick uint64

	// OnFault is called when a single sprite's step panics.
	OnFault func(id string, err error)
	// OnResult receives scores and finishing positions.
	OnResult func(Result)
}

// NewEnv creates an Env with the given runtime config and random source.
func NewEnv(rt core.RuntimeConfig, rng *rand.Rand) *Env {
	return &Env{RT: rt, Rand: rng}
}

// Each runs fn for every sprite, recovering from panics per sprite so a
// faulty sprite is skipped while the rest of the frame proceeds.
func (e *Env) Each(sprites []*sprite.Sprite, fn func(s *sprite.Sprite)) {
	for _, s := range sprites {
		e.Guard(s, func() { fn(s) })
	}
}

// Guard runs fn and converts a panic into an OnFault report.
// Returns false if fn panicked.
func (e *Env) Guard(s *sprite.Sprite, fn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			if e.OnFault != nil {
				id := ""
				if s != nil {
					id = s.ID
				}
				e.OnFault(id, fmt.Errorf("sprite step panicked: %v", r))
			}
		}
	}()
	fn()
	return true
}

// Report forwards a result to OnResult when set.
func (e *Env) Report(r Result) {
	if e.OnResult != nil {
		e.OnResult(r)
	}
}

// Float returns a uniform value in [0, 1).
func (e *Env) Float() float64 {
	return e.Rand.Float64()
}

// Jitter returns a uniform value in [-span/2, span/2).
func (e *Env) Jitter(span float64) float64 {
	return (e.Rand.Float64() - 0.5) * span
}
