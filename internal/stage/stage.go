// Package stage owns the sprite list, the active mode and its session
// state. Every public method takes the stage lock, so frames never overlap
// with additions, removals or mode switches.
package stage

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/stream-orbs/internal/core"
	"github.com/vovakirdan/stream-orbs/internal/registry"
	"github.com/vovakirdan/stream-orbs/internal/sprite"

	// Register the built-in modes.
	_ "github.com/vovakirdan/stream-orbs/internal/modes/pachinko"
	_ "github.com/vovakirdan/stream-orbs/internal/modes/physics"
	_ "github.com/vovakirdan/stream-orbs/internal/modes/race"
	_ "github.com/vovakirdan/stream-orbs/internal/modes/snake"
)

// DefaultMode is the mode a new stage starts in.
const DefaultMode = "physics"

var (
	// ErrModeNotFound is returned when switching to an unregistered mode.
	ErrModeNotFound = errors.New("stage: mode not found")
	// ErrSpriteNotFound is returned for operations on an unknown sprite id.
	ErrSpriteNotFound = errors.New("stage: sprite not found")
	// ErrNotConfigurable is returned when the active mode has no tunables.
	ErrNotConfigurable = errors.New("stage: mode has no configuration")
)

// Loader starts loading an image and returns immediately.
type Loader interface {
	Load(src string) core.Image
}

// ChangeKind names a roster or mode change.
type ChangeKind string

const (
	ChangeAdded   ChangeKind = "added"
	ChangeRemoved ChangeKind = "removed"
	ChangeUpdated ChangeKind = "updated"
	ChangeCleared ChangeKind = "cleared"
	ChangeMode    ChangeKind = "mode"
	ChangeConfig  ChangeKind = "config"
)

// Change describes a mutation made through the stage API.
type Change struct {
	Kind     ChangeKind `json:"kind"`
	Mode     string     `json:"mode"`
	SpriteID string     `json:"id,omitempty"`
}

// Frame is a snapshot of the stage after a frame.
type Frame struct {
	Tick    uint64            `json:"tick"`
	Mode    string            `json:"mode"`
	Sprites []sprite.Snapshot `json:"orbs"`
}

// Option configures a Stage.
type Option func(*Stage)

// WithLogger sets the stage logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Stage) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithLoader sets the image loader used by Add and Update.
func WithLoader(l Loader) Option {
	return func(s *Stage) { s.loader = l }
}

// WithResults registers a callback for scores and finishing positions.
// It runs on the driver goroutine with the stage locked and must not call
// back into the stage.
func WithResults(fn func(registry.Result)) Option {
	return func(s *Stage) { s.onResult = fn }
}

// WithChanges registers a callback for roster and mode changes. The same
// locking rule as WithResults applies.
func WithChanges(fn func(Change)) Option {
	return func(s *Stage) { s.onChange = fn }
}

// WithMode sets the initial mode id.
func WithMode(id string) Option {
	return func(s *Stage) { s.initial = id }
}

// Stage is the entity manager.
type Stage struct {
	mu sync.Mutex

	rt     core.RuntimeConfig
	rng    *rand.Rand
	env    *registry.Env
	logger *log.Logger
	loader Loader

	onResult func(registry.Result)
	onChange func(Change)

	initial string
	sprites []*sprite.Sprite
	modes   map[string]registry.Mode
	active  registry.Mode
	state   registry.State
}

// New creates a stage on the given canvas and enters the initial mode.
func New(rt core.RuntimeConfig, opts ...Option) (*Stage, error) {
	if rt.CanvasW <= 0 || rt.CanvasH <= 0 {
		return nil, fmt.Errorf("stage: canvas must be positive, got %vx%v", rt.CanvasW, rt.CanvasH)
	}

	s := &Stage{
		rt:      rt,
		rng:     rt.NewRand(),
		logger:  log.New(io.Discard),
		initial: DefaultMode,
		modes:   make(map[string]registry.Mode),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.env = registry.NewEnv(rt, s.rng)
	s.env.OnFault = func(id string, err error) {
		s.logger.Warn("sprite step failed", "id", id, "err", err)
	}
	s.env.OnResult = func(r registry.Result) {
		s.logger.Debug("result", "mode", r.Mode, "id", r.SpriteID, "score", r.Score, "slot", r.Slot)
		if s.onResult != nil {
			s.onResult(r)
		}
	}

	if err := s.switchMode(s.initial); err != nil {
		return nil, err
	}
	return s, nil
}

// Runtime returns the canvas configuration.
func (s *Stage) Runtime() core.RuntimeConfig {
	return s.rt
}

// Mode returns the active mode id.
func (s *Stage) Mode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active.ID()
}

// Tick returns the number of frames stepped so far.
func (s *Stage) Tick() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.env.Tick
}

// Len returns the number of sprites on stage.
func (s *Stage) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sprites)
}

func (s *Stage) notify(kind ChangeKind, id string) {
	if s.onChange != nil {
		s.onChange(Change{Kind: kind, Mode: s.active.ID(), SpriteID: id})
	}
}

func (s *Stage) image(src string) core.Image {
	if s.loader == nil || src == "" {
		return nil
	}
	return s.loader.Load(src)
}

// Add creates a sprite from cfg, starts loading its image and lets the
// active mode place it. Returns the new sprite id.
func (s *Stage) Add(cfg sprite.Config) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", fmt.Errorf("stage: add: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if cfg.Image == nil {
		cfg.Image = s.image(cfg.ImageSrc)
	}
	sp := sprite.New(cfg, s.rt, s.rng)
	s.sprites = append(s.sprites, sp)

	if a, ok := s.active.(registry.Adder); ok {
		s.env.Guard(sp, func() {
			s.state = a.HandleAdded(s.env, sp, s.sprites, s.state)
		})
	}

	s.logger.Debug("sprite added", "id", sp.ID, "mode", s.active.ID())
	s.notify(ChangeAdded, sp.ID)
	return sp.ID, nil
}

// Remove deletes a sprite. Returns false if the id is unknown.
func (s *Stage) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return false
	}
	s.sprites = slices.Delete(s.sprites, i, i+1)
	s.notify(ChangeRemoved, id)
	return true
}

// Clear removes every sprite.
func (s *Stage) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sprites = nil
	s.notify(ChangeCleared, "")
}

// Update applies a styling patch to one sprite. A new image source
// starts a fresh load.
func (s *Stage) Update(id string, p sprite.Patch) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("stage: update: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrSpriteNotFound, id)
	}
	sp := s.sprites[i]
	prevSrc := sp.ImageSrc
	sp.Apply(p, s.rng)
	if sp.ImageSrc != prevSrc {
		sp.Image = s.image(sp.ImageSrc)
	}
	s.notify(ChangeUpdated, id)
	return nil
}

// Sprites returns snapshots of every sprite in slice order.
func (s *Stage) Sprites() []sprite.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshots()
}

// Configs returns the creation configs of every sprite, for saving a roster.
func (s *Stage) Configs() []sprite.Config {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]sprite.Config, len(s.sprites))
	for i, sp := range s.sprites {
		out[i] = sp.Config()
	}
	return out
}

func (s *Stage) snapshots() []sprite.Snapshot {
	out := make([]sprite.Snapshot, len(s.sprites))
	for i, sp := range s.sprites {
		out[i] = sp.Snapshot()
	}
	return out
}

// Snapshot returns the current frame view.
func (s *Stage) Snapshot() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Frame{Tick: s.env.Tick, Mode: s.active.ID(), Sprites: s.snapshots()}
}

func (s *Stage) index(id string) int {
	return slices.IndexFunc(s.sprites, func(sp *sprite.Sprite) bool { return sp.ID == id })
}

// SwitchMode enters the mode with the given id or alias and initializes
// every sprite for it. Switching to the active mode reinitializes it.
// An unknown id leaves the stage untouched.
func (s *Stage) SwitchMode(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.switchMode(id); err != nil {
		return err
	}
	s.notify(ChangeMode, "")
	return nil
}

func (s *Stage) switchMode(id string) error {
	m, err := s.mode(id)
	if err != nil {
		return err
	}

	s.active = m
	s.state = nil
	s.state = s.guardState(func() registry.State {
		return m.Initialize(s.env, s.sprites)
	})
	s.logger.Info("mode switched", "mode", m.ID(), "sprites", len(s.sprites))
	return nil
}

// mode returns the cached instance for id, creating it on first use so
// each mode keeps its own tunables across switches.
func (s *Stage) mode(id string) (registry.Mode, error) {
	canonical, ok := registry.Resolve(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q: %w", ErrModeNotFound, id, registry.ErrUnknownMode)
	}
	if m, ok := s.modes[canonical]; ok {
		return m, nil
	}
	m, err := registry.Create(canonical)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrModeNotFound, err)
	}
	s.modes[canonical] = m
	return m, nil
}

// guardState runs a whole-mode call, keeping the previous state if it panics.
func (s *Stage) guardState(fn func() registry.State) registry.State {
	next := s.state
	s.env.Guard(nil, func() { next = fn() })
	return next
}

// Config returns the active mode's tunables.
func (s *Stage) Config() (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.active.(registry.Configurable)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotConfigurable, s.active.ID())
	}
	return c.Config(), nil
}

// ModeConfig returns the tunables of any registered mode.
func (s *Stage) ModeConfig(id string) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.mode(id)
	if err != nil {
		return nil, err
	}
	c, ok := m.(registry.Configurable)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotConfigurable, m.ID())
	}
	return c.Config(), nil
}

// UpdateConfig applies a partial YAML/JSON update to the active mode.
// A rejected patch leaves the previous config in place.
func (s *Stage) UpdateConfig(patch []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.active.(registry.Configurable)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotConfigurable, s.active.ID())
	}
	if err := c.UpdateConfig(patch); err != nil {
		return fmt.Errorf("stage: %s config: %w", s.active.ID(), err)
	}
	s.logger.Info("mode config updated", "mode", s.active.ID())
	s.notify(ChangeConfig, "")
	return nil
}

// ConfigureMode applies a partial YAML/JSON update to any registered mode,
// active or not. The update is kept for later switches to that mode.
func (s *Stage) ConfigureMode(id string, patch []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.mode(id)
	if err != nil {
		return err
	}
	c, ok := m.(registry.Configurable)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotConfigurable, m.ID())
	}
	if err := c.UpdateConfig(patch); err != nil {
		return fmt.Errorf("stage: %s config: %w", m.ID(), err)
	}
	s.logger.Debug("mode configured", "mode", m.ID())
	if m == s.active {
		s.notify(ChangeConfig, "")
	}
	return nil
}

// Rerun replays one sprite in the active mode. Modes that cannot replay a
// single sprite ignore the call.
func (s *Stage) Rerun(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrSpriteNotFound, id)
	}
	r, ok := s.active.(registry.Rerunner)
	if !ok {
		return nil
	}
	sp := s.sprites[i]
	s.env.Guard(sp, func() {
		s.state = r.Rerun(s.env, sp, s.sprites, s.state)
	})
	return nil
}

// Explode pushes sprites away from (cx, cy). Returns the number affected.
func (s *Stage) Explode(cx, cy, force float64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sprite.Explode(s.sprites, cx, cy, force)
}

// Handle runs an admin action. Actions the stage does not own are passed
// to the active mode when it implements registry.Controller.
func (s *Stage) Handle(a core.Action) error {
	switch a {
	case core.ActionNone, core.ActionHelp, core.ActionQuit:
		return nil
	case core.ActionNextMode, core.ActionPrevMode:
		return s.SwitchMode(s.cycle(a == core.ActionNextMode))
	case core.ActionAddOrb:
		_, err := s.Add(s.randomConfig())
		return err
	case core.ActionClear:
		s.Clear()
		return nil
	case core.ActionExplode:
		c := s.rt.Center()
		s.Explode(c.X, c.Y, sprite.DefaultExplodeForce)
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.active.(registry.Controller); ok {
		s.state = s.guardState(func() registry.State {
			return c.Handle(s.env, a, s.sprites, s.state)
		})
	}
	return nil
}

// cycle returns the id of the registered mode after (or before) the
// active one.
func (s *Stage) cycle(forward bool) string {
	current := s.Mode()
	list := registry.List()
	i := slices.IndexFunc(list, func(info registry.ModeInfo) bool { return info.ID == current })
	step := 1
	if !forward {
		step = -1
	}
	return list[(i+step+len(list))%len(list)].ID
}

var palette = []core.Color{"#ff6b6b", "#4ecdc4", "#ffe66d", "#a29bfe", "#55efc4", "#fd79a8"}

func (s *Stage) randomConfig() sprite.Config {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := palette[s.rng.Intn(len(palette))]
	return sprite.Config{
		ImageSrc:    "color:" + string(c),
		RingColor:   c,
		Size:        40 + float64(s.rng.Intn(5))*8,
		Participant: true,
	}
}

// Step advances the active mode by one frame without drawing.
func (s *Stage) Step() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.step()
}

func (s *Stage) step() {
	s.env.Tick++
	s.state = s.guardState(func() registry.State {
		return s.active.Update(s.env, s.sprites, s.state)
	})
}

// Draw renders the current frame without stepping.
func (s *Stage) Draw(dst core.Surface) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draw(dst)
}

// Frame steps the simulation once and draws the result when dst is not nil.
func (s *Stage) Frame(dst core.Surface) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.step()
	if dst != nil {
		s.draw(dst)
	}
}
