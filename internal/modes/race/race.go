// Package race implements the lane race mode: participants line up in
// lanes at the top of the canvas and race down to the finish line.
package race

import (
	"slices"

	"github.com/vovakirdan/stream-orbs/internal/config"
	"github.com/vovakirdan/stream-orbs/internal/core"
	"github.com/vovakirdan/stream-orbs/internal/registry"
	"github.com/vovakirdan/stream-orbs/internal/sprite"
)

// ID is the registry id of this mode.
const ID = "race"

func init() {
	registry.Register(ID, func() registry.Mode { return New(config.DefaultRaceConfig()) })
	registry.RegisterAlias("duckrace", ID)
}

// State is the race session.
type State struct {
	Racing bool
	Finish []string // Sprite ids in arrival order
	Winner string
	Lanes  int // Lane count the participants are currently assigned with
	Joined int // Next join order
}

// Position returns the 1-based finishing position of id, or 0.
func (st *State) Position(id string) int {
	return slices.Index(st.Finish, id) + 1
}

// Mode is the lane race mode.
type Mode struct {
	cfg config.RaceConfig
}

// New creates a race mode with the given tunables.
func New(cfg config.RaceConfig) *Mode {
	return &Mode{cfg: cfg.Clone()}
}

// ID returns the mode identifier.
func (m *Mode) ID() string { return ID }

// Title returns the display name.
func (m *Mode) Title() string { return "Lane Race" }

// Description returns a one-line summary.
func (m *Mode) Description() string {
	return "Participants race down the screen in lanes"
}

// Config returns a copy of the current tunables.
func (m *Mode) Config() any { return m.cfg.Clone() }

// SetConfig replaces the tunables after validating them.
func (m *Mode) SetConfig(cfg config.RaceConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	m.cfg = cfg.Clone()
	return nil
}

// UpdateConfig applies a partial YAML/JSON update. A new lane count
// reassigns lanes on the next frame.
func (m *Mode) UpdateConfig(patch []byte) error {
	next, err := config.PatchRace(m.cfg, patch)
	if err != nil {
		return err
	}
	m.cfg = next
	return nil
}

// Track returns the lane layout for the given canvas.
func (m *Mode) Track(rt core.RuntimeConfig) Track {
	return Track{CanvasW: rt.CanvasW, Lanes: m.cfg.LaneCount, Distance: m.cfg.RaceDistance}
}

func racer(s *sprite.Sprite) *sprite.RaceData {
	if !s.Participant {
		return nil
	}
	return s.Race()
}

// Initialize assigns participants to lanes in slice order and lines them up.
// Other sprites are left where they are.
func (m *Mode) Initialize(env *registry.Env, sprites []*sprite.Sprite) registry.State {
	st := &State{Lanes: m.cfg.LaneCount}
	track := m.Track(env.RT)

	for _, s := range sprites {
		s.Entering = false
		s.Exploding = false
		if !s.Participant {
			s.Data = nil
			continue
		}
		m.join(st, s)
		line(track, s)
	}
	return st
}

func (m *Mode) join(st *State, s *sprite.Sprite) {
	s.Data = &sprite.RaceData{Join: st.Joined, Lane: st.Joined % m.cfg.LaneCount}
	st.Joined++
}

// line resets a racer onto the start line of its lane.
func line(track Track, s *sprite.Sprite) {
	d := s.Race()
	d.Progress = 0
	d.Finished = false
	s.X = track.LaneCenter(d.Lane) - s.Size/2
	s.Y = StartY
	s.VX, s.VY = 0, 0
	s.OnGround = true
}

// HandleAdded lines up a new participant in the next lane.
func (m *Mode) HandleAdded(env *registry.Env, s *sprite.Sprite, _ []*sprite.Sprite, prev registry.State) registry.State {
	st, ok := prev.(*State)
	if !ok || st == nil || !s.Participant {
		return prev
	}
	m.join(st, s)
	line(m.Track(env.RT), s)
	return st
}

// Handle starts, resets or restarts the race.
func (m *Mode) Handle(env *registry.Env, a core.Action, sprites []*sprite.Sprite, prev registry.State) registry.State {
	st, ok := prev.(*State)
	if !ok || st == nil {
		return prev
	}

	switch a {
	case core.ActionStartRace:
		if !st.Racing {
			m.restart(env, st, sprites, true)
		}
	case core.ActionRerunAll:
		m.restart(env, st, sprites, true)
	case core.ActionResetRace:
		m.restart(env, st, sprites, false)
	}
	return st
}

func (m *Mode) restart(env *registry.Env, st *State, sprites []*sprite.Sprite, racing bool) {
	st.Racing = racing
	st.Finish = nil
	st.Winner = ""

	track := m.Track(env.RT)
	for _, s := range sprites {
		if racer(s) != nil {
			line(track, s)
		}
	}
}

// Rerun sends one participant back to the start line and drops it from
// the finish order. A decided race resumes so the sprite can run again.
func (m *Mode) Rerun(env *registry.Env, s *sprite.Sprite, _ []*sprite.Sprite, prev registry.State) registry.State {
	st, ok := prev.(*State)
	if !ok || st == nil || racer(s) == nil {
		return prev
	}

	if i := slices.Index(st.Finish, s.ID); i >= 0 {
		st.Finish = slices.Delete(st.Finish, i, i+1)
	}
	st.Winner = ""
	if len(st.Finish) > 0 {
		st.Winner = st.Finish[0]
	}
	st.Racing = st.Racing || st.Winner != ""
	line(m.Track(env.RT), s)
	return st
}

// Update advances every unfinished participant while the race is on.
func (m *Mode) Update(env *registry.Env, sprites []*sprite.Sprite, prev registry.State) registry.State {
	st, ok := prev.(*State)
	if !ok || st == nil {
		return m.Initialize(env, sprites)
	}
	track := m.Track(env.RT)

	for _, s := range sprites {
		if s.Participant && s.Race() == nil {
			m.join(st, s)
			line(track, s)
		}
	}
	if st.Lanes != m.cfg.LaneCount {
		m.relane(st, track, sprites)
	}
	if !st.Racing {
		return st
	}

	participants, finished := 0, 0
	env.Each(sprites, func(s *sprite.Sprite) {
		d := racer(s)
		if d == nil {
			return
		}
		participants++
		if !d.Finished {
			m.advance(env, track, st, s, d)
		}
		if d.Finished {
			finished++
		}
	})

	if len(st.Finish) > 0 {
		st.Winner = st.Finish[0]
	}
	// Finish may still hold sprites that left the stage or stopped racing;
	// only the racers present now decide when the race is over.
	if finished >= participants {
		st.Racing = false
	}
	return st
}

func (m *Mode) advance(env *registry.Env, track Track, st *State, s *sprite.Sprite, d *sprite.RaceData) {
	speed := m.cfg.RaceSpeed
	if m.cfg.EnableTurbulence {
		speed += env.Jitter(1) * m.cfg.TurbulenceStrength
	}
	d.Speed = speed
	d.Progress = core.ClampF(d.Progress+Step(speed), 0, 1)

	s.Y = StartY + d.Progress*track.Distance
	s.X = track.LaneCenter(d.Lane) - s.Size/2
	if m.cfg.EnableTurbulence {
		s.X += Wobble(s.ID, env.Tick)
	}

	if d.Progress >= 1 {
		d.Finished = true
		st.Finish = append(st.Finish, s.ID)
		env.Report(registry.Result{
			Mode:     ID,
			SpriteID: s.ID,
			Label:    s.Label,
			Slot:     len(st.Finish),
		})
	}
}

// relane reassigns every participant's lane from its join order after a
// lane count change.
func (m *Mode) relane(st *State, track Track, sprites []*sprite.Sprite) {
	st.Lanes = m.cfg.LaneCount
	for _, s := range sprites {
		d := racer(s)
		if d == nil {
			continue
		}
		d.Lane = d.Join % st.Lanes
		if !st.Racing && !d.Finished {
			line(track, s)
		} else {
			s.X = track.LaneCenter(d.Lane) - s.Size/2
		}
	}
}
