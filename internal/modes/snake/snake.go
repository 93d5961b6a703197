// Package snake implements the perimeter snake mode: a head sprite runs
// around the canvas edge and collects nearby sprites into a trailing chain.
package snake

import (
	"math"
	"sort"

	"github.com/vovakirdan/stream-orbs/internal/config"
	"github.com/vovakirdan/stream-orbs/internal/core"
	"github.com/vovakirdan/stream-orbs/internal/registry"
	"github.com/vovakirdan/stream-orbs/internal/sprite"
)

// ID is the registry id of this mode.
const ID = "snake"

func init() {
	registry.Register(ID, func() registry.Mode { return New(config.DefaultSnakeConfig()) })
}

// State is the snake session: where the head is and the next collection order.
type State struct {
	HeadProgress float64
	Counter      int
}

// Mode is the perimeter snake mode.
type Mode struct {
	cfg config.SnakeConfig
}

// New creates a snake mode with the given tunables.
func New(cfg config.SnakeConfig) *Mode {
	return &Mode{cfg: cfg}
}

// ID returns the mode identifier.
func (m *Mode) ID() string { return ID }

// Title returns the display name.
func (m *Mode) Title() string { return "Snake" }

// Description returns a one-line summary.
func (m *Mode) Description() string {
	return "Orbs form a snake that moves around the screen perimeter"
}

// Config returns a copy of the current tunables.
func (m *Mode) Config() any { return m.cfg }

// SetConfig replaces the tunables after validating them.
func (m *Mode) SetConfig(cfg config.SnakeConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	m.cfg = cfg
	return nil
}

// UpdateConfig applies a partial YAML/JSON update.
func (m *Mode) UpdateConfig(patch []byte) error {
	next, err := config.Patch(m.cfg, patch, config.SnakeConfig.Validate)
	if err != nil {
		return err
	}
	m.cfg = next
	return nil
}

// Path returns the loop for the given canvas.
func (m *Mode) Path(rt core.RuntimeConfig) Path {
	return Path{CanvasW: rt.CanvasW, CanvasH: rt.CanvasH, Margin: m.cfg.Margin}
}

// Initialize puts the first sprite on the loop at the point nearest to where
// it currently is; every other sprite stays put, uncollected.
func (m *Mode) Initialize(env *registry.Env, sprites []*sprite.Sprite) registry.State {
	st := &State{Counter: 1}
	path := m.Path(env.RT)

	for i, s := range sprites {
		s.VX, s.VY = 0, 0
		s.OnGround = true
		s.Entering = false
		s.Exploding = false
		s.Data = &sprite.SnakeData{}

		if i == 0 {
			progress := path.Closest(s.Center(), s.Size)
			s.Data = &sprite.SnakeData{Progress: progress, Collected: true, Order: 0}
			s.SetCenter(path.Point(progress, s.Size))
			st.HeadProgress = progress
		}
	}
	return st
}

// HandleAdded marks a new sprite as waiting to be collected.
func (m *Mode) HandleAdded(_ *registry.Env, s *sprite.Sprite, _ []*sprite.Sprite, st registry.State) registry.State {
	s.Data = &sprite.SnakeData{}
	return st
}

// Update advances the head, collects at most one sprite and re-lays the chain.
func (m *Mode) Update(env *registry.Env, sprites []*sprite.Sprite, prev registry.State) registry.State {
	st, ok := prev.(*State)
	if !ok || st == nil {
		return m.Initialize(env, sprites)
	}
	if len(sprites) == 0 {
		return st
	}

	path := m.Path(env.RT)
	m.ensureHead(sprites, st)

	st.HeadProgress = core.Wrap01(st.HeadProgress + m.cfg.Speed)

	m.collect(path, sprites, st)
	m.layout(env, path, sprites, st)

	env.Each(sprites, func(s *sprite.Sprite) {
		s.StepShrink()
	})
	return st
}

// ensureHead promotes the first sprite to head when the previous head was
// removed, and gives sprites from another mode fresh snake data.
func (m *Mode) ensureHead(sprites []*sprite.Sprite, st *State) {
	for _, s := range sprites {
		if s.Snake() == nil {
			s.Data = &sprite.SnakeData{}
		}
	}

	head := sprites[0].Snake()
	if head.Collected && head.Order == 0 {
		return
	}
	for _, s := range sprites[1:] {
		if d := s.Snake(); d.Collected && d.Order == 0 {
			return
		}
	}
	head.Collected = true
	head.Order = 0
}

// collect attaches the uncollected sprite closest to the head when it is
// within reach, placing it at the current tail.
func (m *Mode) collect(path Path, sprites []*sprite.Sprite, st *State) {
	head := sprites[0]
	hc := head.Center()

	var closest *sprite.Sprite
	closestDist := math.Inf(1)
	for _, s := range sprites[1:] {
		if s.Snake().Collected {
			continue
		}
		if d := core.Dist(hc, s.Center()); d < closestDist {
			closest, closestDist = s, d
		}
	}
	if closest == nil || closestDist >= (head.Size+closest.Size)/2+m.cfg.CollectRadius {
		return
	}

	cumulative := 0.0
	for _, s := range sprites {
		if s != closest && s.Snake().Collected {
			cumulative += path.Fraction(s.Size)
		}
	}

	d := closest.Snake()
	d.Collected = true
	d.Order = st.Counter
	d.Progress = core.Wrap01(st.HeadProgress - cumulative - path.Fraction(closest.Size))
	st.Counter++
}

// layout positions every collected sprite on the loop.
//
// Precondition: the chain is walked in ascending collection order. Each
// sprite trails the head by the summed fractions of every sprite ahead of
// it, so the order must be sorted explicitly every frame rather than taken
// from the sprite slice.
func (m *Mode) layout(env *registry.Env, path Path, sprites []*sprite.Sprite, st *State) {
	chain := Chain(sprites)

	cumulative := 0.0
	for _, s := range chain {
		progress := core.Wrap01(st.HeadProgress - cumulative)
		env.Guard(s, func() {
			s.Snake().Progress = progress
			s.SetCenter(path.Point(progress, s.Size))
		})
		cumulative += path.Fraction(s.Size)
	}
}

// Chain returns the collected sprites sorted by collection order.
func Chain(sprites []*sprite.Sprite) []*sprite.Sprite {
	chain := make([]*sprite.Sprite, 0, len(sprites))
	for _, s := range sprites {
		if d := s.Snake(); d != nil && d.Collected {
			chain = append(chain, s)
		}
	}
	sort.SliceStable(chain, func(i, j int) bool {
		return chain[i].Snake().Order < chain[j].Snake().Order
	})
	return chain
}

// Render shows the mode banner when the stage is empty.
func (m *Mode) Render(dst core.Surface, sprites []*sprite.Sprite, _ registry.State) {
	if len(sprites) == 0 {
		core.DrawBanner(dst, "Snake Mode Active (No Orbs)", "#4dff4d")
	}
}
