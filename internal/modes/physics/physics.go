// Package physics implements the free-fall mode: gravity, ground bounces,
// wall reflection and a grounded idle/walk/dash wander.
package physics

import (
	"math"

	"github.com/vovakirdan/stream-orbs/internal/config"
	"github.com/vovakirdan/stream-orbs/internal/core"
	"github.com/vovakirdan/stream-orbs/internal/registry"
	"github.com/vovakirdan/stream-orbs/internal/sprite"
)

// ID is the registry id of this mode.
const ID = "physics"

func init() {
	registry.Register(ID, func() registry.Mode { return New(config.DefaultPhysicsConfig()) })
}

// Mode is the free-fall physics mode. It keeps no session state.
type Mode struct {
	cfg config.PhysicsConfig
}

// New creates a physics mode with the given tunables.
func New(cfg config.PhysicsConfig) *Mode {
	return &Mode{cfg: cfg}
}

// ID returns the mode identifier.
func (m *Mode) ID() string { return ID }

// Title returns the display name.
func (m *Mode) Title() string { return "Physics" }

// Description returns a one-line summary.
func (m *Mode) Description() string {
	return "Orbs fall, bounce and wander along the ground"
}

// Config returns a copy of the current tunables.
func (m *Mode) Config() any { return m.cfg }

// SetConfig replaces the tunables after validating them.
func (m *Mode) SetConfig(cfg config.PhysicsConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	m.cfg = cfg
	return nil
}

// UpdateConfig applies a partial YAML/JSON update.
func (m *Mode) UpdateConfig(patch []byte) error {
	next, err := config.Patch(m.cfg, patch, config.PhysicsConfig.Validate)
	if err != nil {
		return err
	}
	m.cfg = next
	return nil
}

// Initialize drops every sprite from where it is with a small sideways drift.
func (m *Mode) Initialize(env *registry.Env, sprites []*sprite.Sprite) registry.State {
	for _, s := range sprites {
		s.VX = env.Jitter(4)
		s.VY = 0
		s.OnGround = false
		s.Entering = false
		s.Exploding = false
		s.Data = nil
	}
	return nil
}

// Update advances every sprite by one frame.
func (m *Mode) Update(env *registry.Env, sprites []*sprite.Sprite, st registry.State) registry.State {
	env.Each(sprites, func(s *sprite.Sprite) {
		m.step(env, s)
	})
	return st
}

// GroundY returns the resting y for a sprite of the given size.
func (m *Mode) GroundY(rt core.RuntimeConfig, size float64) float64 {
	return rt.CanvasH - size - m.cfg.GroundMargin
}

func (m *Mode) step(env *registry.Env, s *sprite.Sprite) {
	rt := env.RT
	c := m.cfg

	if s.Airborne() {
		s.VY += c.Gravity
		s.VX *= c.AirResistance
		s.VY *= c.AirResistance
		s.X += s.VX
		s.Y += s.VY

		groundY := m.GroundY(rt, s.Size)
		if s.Y >= groundY {
			s.Y = groundY
			s.OnGround = true

			if math.Abs(s.VY) > 1 {
				s.VY = -s.VY * c.BounceDamping
				s.VX *= c.GroundFriction
				s.OnGround = false
				s.BounceCount++
			} else {
				s.VY = 0
				s.VX *= c.GroundFriction
				s.Exploding = false
				s.Entering = false
				if s.Size > s.TargetSize && !s.Shrinking {
					s.Shrinking = true
					s.MoveTimer = 30 + env.Rand.Intn(60)
				}
			}
		}

		if s.X <= 0 {
			s.X = 0
			s.VX = -s.VX * c.WallDamping
		} else if s.X+s.Size >= rt.CanvasW {
			s.X = rt.CanvasW - s.Size
			s.VX = -s.VX * c.WallDamping
		}
	} else {
		m.wander(env, s)
	}

	if s.StepShrink() && s.OnGround {
		s.Y = m.GroundY(rt, s.Size)
	}
}

// wander rerolls the grounded move state when its timer runs out.
func (m *Mode) wander(env *registry.Env, s *sprite.Sprite) {
	w := m.cfg.Wander

	s.MoveTimer--
	if s.MoveTimer <= 0 {
		r := env.Float()
		switch {
		case r < w.IdleChance:
			s.MoveState = sprite.MoveIdle
			s.VX = 0
		case r < w.IdleChance+w.WalkChance:
			s.MoveState = sprite.MoveWalk
			s.VX = randomSign(env) * (w.WalkMin + env.Float()*(w.WalkMax-w.WalkMin))
		default:
			s.MoveState = sprite.MoveDash
			s.VX = randomSign(env) * (w.DashMin + env.Float()*(w.DashMax-w.DashMin))
		}
		s.MoveTimer = w.MinFrames + env.Rand.Intn(w.MaxFrames-w.MinFrames+1)
	}

	s.X += s.VX
	maxX := env.RT.CanvasW - s.Size
	if s.X <= 0 || s.X >= maxX {
		s.X = core.ClampF(s.X, 0, maxX)
		s.VX = -s.VX
	}
}

func randomSign(env *registry.Env) float64 {
	if env.Float() < 0.5 {
		return -1
	}
	return 1
}

// Render shows the mode banner when the stage is empty.
func (m *Mode) Render(dst core.Surface, sprites []*sprite.Sprite, _ registry.State) {
	if len(sprites) == 0 {
		core.DrawBanner(dst, "Physics Mode Active (No Orbs)", "#4d4dff")
	}
}
