// Package pachinko implements the drop-and-score mode: sprites burst out,
// get staged above a peg board, drop one at a time and settle into
// scoring cradles.
package pachinko

import (
	"math"

	"github.com/vovakirdan/stream-orbs/internal/config"
	"github.com/vovakirdan/stream-orbs/internal/core"
	"github.com/vovakirdan/stream-orbs/internal/registry"
	"github.com/vovakirdan/stream-orbs/internal/sprite"
)

// ID is the registry id of this mode.
const ID = "pachinko"

func init() {
	registry.Register(ID, func() registry.Mode { return New(config.DefaultPachinkoConfig()) })
	registry.RegisterAlias("sand", ID)
}

// State is the pachinko session.
type State struct {
	Exploding    bool
	RespawnTimer int
	DropCounter  int
	Board        Board
}

// Mode is the pachinko mode.
type Mode struct {
	cfg config.PachinkoConfig
}

// New creates a pachinko mode with the given tunables.
func New(cfg config.PachinkoConfig) *Mode {
	return &Mode{cfg: cfg.Normalize()}
}

// ID returns the mode identifier.
func (m *Mode) ID() string { return ID }

// Title returns the display name.
func (m *Mode) Title() string { return "Pachinko" }

// Description returns a one-line summary.
func (m *Mode) Description() string {
	return "Pachinko game with pegs, cradles, and scoring"
}

// Config returns a copy of the current tunables.
func (m *Mode) Config() any { return m.cfg.Clone() }

// SetConfig replaces the tunables after validating them.
func (m *Mode) SetConfig(cfg config.PachinkoConfig) error {
	cfg = cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return err
	}
	m.cfg = cfg
	return nil
}

// UpdateConfig applies a partial YAML/JSON update. Board changes take
// effect on the next frame.
func (m *Mode) UpdateConfig(patch []byte) error {
	next, err := config.PatchPachinko(m.cfg, patch)
	if err != nil {
		return err
	}
	m.cfg = next
	return nil
}

// Slots returns the scoring slots for the given canvas.
func (m *Mode) Slots(rt core.RuntimeConfig) Slots {
	return newSlots(m.cfg, rt)
}

// Initialize bursts every sprite outward from the center and queues them
// for dropping.
func (m *Mode) Initialize(env *registry.Env, sprites []*sprite.Sprite) registry.State {
	st := &State{
		Exploding:    true,
		RespawnTimer: m.cfg.RespawnFrames,
		Board:        NewBoard(m.cfg.Rows, env.RT.CanvasW),
	}

	n := float64(len(sprites))
	for i, s := range sprites {
		angle := float64(i)/n*2*math.Pi + env.Float()*0.5
		force := 15 + env.Float()*10

		s.Size = SpriteSize
		s.TargetSize = SpriteSize
		s.Shrinking = false
		s.Mass = SpriteMass
		s.VX = math.Cos(angle) * force
		s.VY = math.Sin(angle)*force - 5
		s.OnGround = false
		s.Entering = false
		s.Exploding = true
		s.Data = &sprite.PachinkoData{Waiting: true, DropOrder: i, Slot: -1}
	}
	return st
}

// HandleAdded drops a new sprite straight away from a random drop spot.
func (m *Mode) HandleAdded(env *registry.Env, s *sprite.Sprite, _ []*sprite.Sprite, st registry.State) registry.State {
	m.release(env, s, env.Rand.Intn(len(DropSpots)))
	return st
}

// Rerun drops a single sprite again from a random drop spot, clearing its
// previous score.
func (m *Mode) Rerun(env *registry.Env, s *sprite.Sprite, _ []*sprite.Sprite, st registry.State) registry.State {
	m.release(env, s, env.Rand.Intn(len(DropSpots)))
	s.RingColor = core.ColorWhite
	return st
}

// Handle restarts the drop sequence on ActionRerunAll.
func (m *Mode) Handle(env *registry.Env, a core.Action, sprites []*sprite.Sprite, prev registry.State) registry.State {
	st, ok := prev.(*State)
	if !ok || st == nil {
		return prev
	}
	if a == core.ActionRerunAll {
		st.Exploding = false
		st.DropCounter = 0
		m.stage(env, sprites)
		for _, s := range sprites {
			s.RingColor = core.ColorWhite
		}
	}
	return st
}

func (m *Mode) release(env *registry.Env, s *sprite.Sprite, spot int) {
	s.Size = SpriteSize
	s.TargetSize = SpriteSize
	s.Shrinking = false
	s.Mass = SpriteMass
	s.X = DropX(spot, s.Size, env.RT.CanvasW)
	s.Y = dropY
	s.VX = env.Jitter(0.5)
	s.VY = 0
	s.OnGround = false
	s.Exploding = false
	s.Entering = true

	order := 0
	if d := s.Pachinko(); d != nil {
		order = d.DropOrder
	}
	s.Data = &sprite.PachinkoData{DropOrder: order, Slot: -1}
}

// stage parks every sprite above the board, waiting in slice order.
func (m *Mode) stage(env *registry.Env, sprites []*sprite.Sprite) {
	for i, s := range sprites {
		s.X = env.RT.CanvasW/2 - 8
		s.Y = stageY
		s.VX, s.VY = 0, 0
		s.Exploding = false
		s.OnGround = false
		s.Entering = false
		s.Data = &sprite.PachinkoData{Waiting: true, DropOrder: i, Slot: -1}
	}
}

// next returns the waiting sprite with the lowest drop order.
func next(sprites []*sprite.Sprite) *sprite.Sprite {
	var out *sprite.Sprite
	for _, s := range sprites {
		d := s.Pachinko()
		if d == nil || !d.Waiting {
			continue
		}
		if out == nil || d.DropOrder < out.Pachinko().DropOrder {
			out = s
		}
	}
	return out
}

// Update runs the burst timer, releases the next sprite when due and
// advances every released sprite.
func (m *Mode) Update(env *registry.Env, sprites []*sprite.Sprite, prev registry.State) registry.State {
	st, ok := prev.(*State)
	if !ok || st == nil {
		return m.Initialize(env, sprites)
	}
	if st.Board.Rows != m.cfg.Rows {
		st.Board = NewBoard(m.cfg.Rows, env.RT.CanvasW)
	}

	if st.Exploding {
		st.RespawnTimer--
		if st.RespawnTimer <= 0 {
			st.Exploding = false
			m.stage(env, sprites)
		}
	}

	if !st.Exploding {
		st.DropCounter++
		if st.DropCounter >= m.cfg.DropDelay {
			st.DropCounter = 0
			if s := next(sprites); s != nil {
				m.release(env, s, s.Pachinko().DropOrder)
			}
		}
	}

	slots := m.Slots(env.RT)
	env.Each(sprites, func(s *sprite.Sprite) {
		m.step(env, st, slots, s)
	})
	return st
}

func (m *Mode) step(env *registry.Env, st *State, slots Slots, s *sprite.Sprite) {
	d := s.Pachinko()
	if d == nil {
		d = &sprite.PachinkoData{Slot: -1}
		s.Data = d
	}
	if d.Waiting && !s.Exploding {
		return
	}
	if s.OnGround && !s.Exploding {
		return
	}

	s.VY += Gravity
	m.hitPeg(env, s, st.Board)
	hitWall(env, s, slots)

	s.VX *= m.cfg.DragX
	s.VY *= m.cfg.DragY
	s.X += s.VX
	s.Y += s.VY

	w := env.RT.CanvasW
	if s.X <= 0 {
		s.X = 0
		s.VX = math.Abs(s.VX) * 0.8
	} else if s.X+s.Size >= w {
		s.X = w - s.Size
		s.VX = -math.Abs(s.VX) * 0.8
	}

	if d.Waiting {
		// Burst sprites bounce off the floor until they are staged.
		floor := env.RT.CanvasH - CradleBottom - s.Size
		if s.Y >= floor {
			s.Y = floor
			s.VY = -math.Abs(s.VY) * 0.3
			s.VX *= 0.9
		}
		return
	}

	m.land(env, slots, s, d)
}

// land handles contact with the cradle row. A sprite settles only inside a
// cradle once its fall has slowed; outside one it rolls along the rim
// toward the slot center.
func (m *Mode) land(env *registry.Env, slots Slots, s *sprite.Sprite, d *sprite.PachinkoData) {
	cx := s.X + s.Size/2
	i := slots.Index(cx)
	off := cx - slots.Center(i)

	restY := slots.CradleY(i, off, s.Size)
	if s.Y < restY {
		return
	}
	s.Y = restY

	if math.Abs(off) > 3 {
		s.VX += -off * 0.02
		s.VX *= 0.9
	} else {
		s.VX *= 0.8
	}

	inCradle := math.Abs(off) <= slots.Radius(i)
	if s.VY > 1 {
		s.VY = -s.VY * 0.3
		return
	}
	s.VY = 0
	if !inCradle {
		return
	}

	s.OnGround = true
	s.Exploding = false
	s.Entering = false
	d.Scored = true
	d.Score = slots.Points(i)
	d.Slot = i
	s.RingColor = slots.Color(i)

	env.Report(registry.Result{
		Mode:     ID,
		SpriteID: s.ID,
		Label:    s.Label,
		Score:    d.Score,
		Slot:     i,
	})
}

// hitPeg bounces off the first overlapping peg. The response is mostly
// random with a floor of 4px/frame on each axis so sprites never fall
// straight down a column of pegs.
func (m *Mode) hitPeg(env *registry.Env, s *sprite.Sprite, b Board) bool {
	c := s.Center()
	for _, p := range b.Pegs {
		dx, dy := c.X-p.X, c.Y-p.Y
		if math.Hypot(dx, dy) >= s.Size/2+PegRadius {
			continue
		}

		angle := math.Atan2(dy, dx)
		force := m.cfg.Bounciness
		s.VX = math.Cos(angle)*force*12 + env.Jitter(8)
		s.VY = math.Sin(angle)*force*10 + env.Jitter(6) - env.Float()*3

		const minBounce = 4
		if math.Abs(s.VX) < minBounce {
			s.VX = math.Copysign(minBounce, nonNegZero(s.VX))
		}
		if math.Abs(s.VY) < minBounce {
			s.VY = math.Copysign(minBounce, nonNegZero(s.VY))
		}
		return true
	}
	return false
}

// nonNegZero maps -0 to +0 so a zero velocity bounces in the positive
// direction.
func nonNegZero(v float64) float64 {
	if v == 0 {
		return 0
	}
	return v
}

// hitWall reflects a sprite off the slot dividers near the bottom.
func hitWall(env *registry.Env, s *sprite.Sprite, slots Slots) bool {
	h := env.RT.CanvasH
	if s.Y+s.Size < h-WallHeight || s.Y > h {
		return false
	}

	left, right := s.X, s.X+s.Size
	for _, x := range slots.Walls() {
		wl, wr := x-WallWidth/2, x+WallWidth/2

		if right >= wl && left < wl && s.VX > 0 {
			s.X = wl - s.Size
			s.VX = -math.Abs(s.VX)
			s.VY += env.Jitter(2)
			return true
		}
		if left <= wr && right > wr && s.VX < 0 {
			s.X = wr
			s.VX = math.Abs(s.VX)
			s.VY += env.Jitter(2)
			return true
		}
	}
	return false
}
