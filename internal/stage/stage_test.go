package stage

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/vovakirdan/stream-orbs/internal/config"
	"github.com/vovakirdan/stream-orbs/internal/core"
	"github.com/vovakirdan/stream-orbs/internal/registry"
	"github.com/vovakirdan/stream-orbs/internal/sprite"
)

type fakeImage struct{ loaded bool }

func (f fakeImage) Loaded() bool     { return f.loaded }
func (f fakeImage) Tint() core.Color { return core.ColorSky }

type fakeLoader struct{ srcs []string }

func (l *fakeLoader) Load(src string) core.Image {
	l.srcs = append(l.srcs, src)
	return fakeImage{loaded: src != "pending"}
}

// faultyMode panics on sprites labelled "bad" and nudges the rest.
type faultyMode struct{}

func (faultyMode) ID() string          { return "test-faulty" }
func (faultyMode) Title() string       { return "Faulty" }
func (faultyMode) Description() string { return "panics on demand" }

func (faultyMode) Initialize(*registry.Env, []*sprite.Sprite) registry.State { return nil }

func (faultyMode) Update(env *registry.Env, sprites []*sprite.Sprite, st registry.State) registry.State {
	env.Each(sprites, func(s *sprite.Sprite) {
		if s.Label == "bad" {
			panic("bad sprite")
		}
		s.X++
	})
	return st
}

func (faultyMode) Render(core.Surface, []*sprite.Sprite, registry.State) {}

func init() {
	registry.Register("test-faulty", func() registry.Mode { return faultyMode{} })
}

func newStage(t *testing.T, opts ...Option) *Stage {
	t.Helper()
	rt := core.DefaultConfig()
	rt.Seed = 42
	st, err := New(rt, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return st
}

func TestNewDefaultsToPhysics(t *testing.T) {
	st := newStage(t)
	if st.Mode() != DefaultMode {
		t.Errorf("Mode() = %q, expected %q", st.Mode(), DefaultMode)
	}

	_, err := New(core.DefaultConfig(), WithMode("nope"))
	if !errors.Is(err, ErrModeNotFound) {
		t.Errorf("New(unknown mode) error = %v, expected ErrModeNotFound", err)
	}

	_, err = New(core.RuntimeConfig{CanvasW: 0, CanvasH: 10})
	if err == nil {
		t.Error("New() should reject an empty canvas")
	}
}

func TestAddRemoveClear(t *testing.T) {
	var changes []ChangeKind
	loader := &fakeLoader{}
	st := newStage(t, WithLoader(loader), WithChanges(func(c Change) { changes = append(changes, c.Kind) }))

	id, err := st.Add(sprite.Config{ImageSrc: "a.png", Label: "alice"})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if _, err := st.Add(sprite.Config{ImageSrc: "b.png", Size: -1}); err == nil {
		t.Error("Add() should reject a negative size")
	}
	if len(loader.srcs) != 1 || loader.srcs[0] != "a.png" {
		t.Errorf("loaded = %v, expected [a.png]", loader.srcs)
	}

	snaps := st.Sprites()
	if len(snaps) != 1 || snaps[0].ID != id || !snaps[0].Loaded {
		t.Fatalf("Sprites() = %+v, expected one loaded sprite %s", snaps, id)
	}

	if st.Remove("missing") {
		t.Error("Remove(missing) = true")
	}
	if !st.Remove(id) || st.Len() != 0 {
		t.Error("Remove() should delete the sprite")
	}

	st.Add(sprite.Config{ImageSrc: "a.png"})
	st.Add(sprite.Config{ImageSrc: "a.png"})
	st.Clear()
	if st.Len() != 0 {
		t.Errorf("Len() = %d after Clear, expected 0", st.Len())
	}

	expected := []ChangeKind{ChangeAdded, ChangeRemoved, ChangeAdded, ChangeAdded, ChangeCleared}
	if !slices.Equal(changes, expected) {
		t.Errorf("changes = %v, expected %v", changes, expected)
	}
}

func TestUpdatePatch(t *testing.T) {
	loader := &fakeLoader{}
	st := newStage(t, WithLoader(loader))
	id, _ := st.Add(sprite.Config{ImageSrc: "a.png"})

	size := 80.0
	src := "b.png"
	if err := st.Update(id, sprite.Patch{Size: &size, ImageSrc: &src}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	sp := st.sprites[0]
	if sp.Size != 80 || sp.TargetSize != 64 || sp.VY >= 0 {
		t.Errorf("sprite size=%v target=%v vy=%v, expected a jump at size 80", sp.Size, sp.TargetSize, sp.VY)
	}
	if !slices.Equal(loader.srcs, []string{"a.png", "b.png"}) {
		t.Errorf("loaded = %v, expected a reload for the new source", loader.srcs)
	}

	if err := st.Update("missing", sprite.Patch{}); !errors.Is(err, ErrSpriteNotFound) {
		t.Errorf("Update(missing) error = %v, expected ErrSpriteNotFound", err)
	}
	zero := 0.0
	if err := st.Update(id, sprite.Patch{Size: &zero}); err == nil {
		t.Error("Update() should reject a zero size")
	}
}

func TestSwitchToSnakeSnapsHead(t *testing.T) {
	st := newStage(t)
	st.Add(sprite.Config{ImageSrc: "a.png", Size: 64})
	sp := st.sprites[0]
	sp.X, sp.Y = 100, 300

	if err := st.SwitchMode("snake"); err != nil {
		t.Fatalf("SwitchMode() error = %v", err)
	}
	d := sp.Snake()
	if d == nil || !d.Collected || d.Order != 0 {
		t.Fatalf("snake data = %+v, expected collected head", d)
	}
	if math.Abs(d.Progress-0.85) > 1e-9 {
		t.Errorf("Progress = %v, expected 0.85", d.Progress)
	}
}

func TestSwitchModeIsRepeatable(t *testing.T) {
	st := newStage(t)
	for range 4 {
		st.Add(sprite.Config{ImageSrc: "a.png"})
	}

	st.SwitchMode("snake")
	first := st.Sprites()
	st.SwitchMode("snake")
	second := st.Sprites()

	for i := range first {
		if first[i].X != second[i].X || first[i].Y != second[i].Y {
			t.Errorf("sprite %d moved from (%v, %v) to (%v, %v) on re-entry",
				i, first[i].X, first[i].Y, second[i].X, second[i].Y)
		}
	}
}

func TestSwitchUnknownLeavesState(t *testing.T) {
	st := newStage(t)
	st.Add(sprite.Config{ImageSrc: "a.png"})
	st.SwitchMode("race")
	before := st.Sprites()

	err := st.SwitchMode("bowling")
	if !errors.Is(err, ErrModeNotFound) || !errors.Is(err, registry.ErrUnknownMode) {
		t.Errorf("SwitchMode(bowling) error = %v, expected ErrModeNotFound", err)
	}
	if st.Mode() != "race" {
		t.Errorf("Mode() = %q, expected race", st.Mode())
	}
	after := st.Sprites()
	if after[0].X != before[0].X || after[0].Y != before[0].Y {
		t.Error("failed switch should not move sprites")
	}
}

func TestSwitchByAlias(t *testing.T) {
	st := newStage(t)
	if err := st.SwitchMode("sand"); err != nil {
		t.Fatalf("SwitchMode(sand) error = %v", err)
	}
	if st.Mode() != "pachinko" {
		t.Errorf("Mode() = %q, expected pachinko", st.Mode())
	}
}

func TestModeConfigPersistsAcrossSwitches(t *testing.T) {
	st := newStage(t, WithMode("race"))
	if err := st.UpdateConfig([]byte("lane_count: 2\n")); err != nil {
		t.Fatalf("UpdateConfig() error = %v", err)
	}
	if err := st.UpdateConfig([]byte("lane_count: -1\n")); err == nil {
		t.Error("UpdateConfig() should reject a negative lane count")
	}

	st.SwitchMode("physics")
	st.SwitchMode("race")

	cfg, err := st.ModeConfig("race")
	if err != nil {
		t.Fatalf("ModeConfig() error = %v", err)
	}
	rc, ok := cfg.(config.RaceConfig)
	if !ok {
		t.Fatalf("ModeConfig() = %T, expected config.RaceConfig", cfg)
	}
	if rc.LaneCount != 2 {
		t.Errorf("LaneCount = %d, expected 2 after switching away and back", rc.LaneCount)
	}

	st.SwitchMode("test-faulty")
	if _, err := st.Config(); !errors.Is(err, ErrNotConfigurable) {
		t.Errorf("Config() error = %v, expected ErrNotConfigurable", err)
	}
}

func TestConfigureInactiveMode(t *testing.T) {
	st := newStage(t)

	if err := st.ConfigureMode("duckrace", []byte(`{"lane_count": 5}`)); err != nil {
		t.Fatalf("ConfigureMode() error = %v", err)
	}
	if st.Mode() != "physics" {
		t.Errorf("Mode() = %q, expected physics to stay active", st.Mode())
	}
	cfg, _ := st.ModeConfig("race")
	if rc := cfg.(config.RaceConfig); rc.LaneCount != 5 {
		t.Errorf("LaneCount = %d, expected 5", rc.LaneCount)
	}

	tests := []struct {
		name string
		id   string
		want error
	}{
		{"unknown mode", "bowling", ErrModeNotFound},
		{"not configurable", "test-faulty", ErrNotConfigurable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := st.ConfigureMode(tt.id, []byte("{}")); !errors.Is(err, tt.want) {
				t.Errorf("ConfigureMode(%q) error = %v, expected %v", tt.id, err, tt.want)
			}
		})
	}
	if err := st.ConfigureMode("race", []byte("lane_count: 0\n")); err == nil {
		t.Error("ConfigureMode() with zero lanes should fail")
	}
}

func TestRerunUnsupportedIsNoop(t *testing.T) {
	st := newStage(t)
	id, _ := st.Add(sprite.Config{ImageSrc: "a.png"})
	before := st.Sprites()[0]

	if err := st.Rerun(id); err != nil {
		t.Errorf("Rerun() error = %v, expected nil for physics", err)
	}
	if after := st.Sprites()[0]; after.X != before.X || after.Y != before.Y {
		t.Error("Rerun() should not touch sprites in physics")
	}
	if err := st.Rerun("missing"); !errors.Is(err, ErrSpriteNotFound) {
		t.Errorf("Rerun(missing) error = %v, expected ErrSpriteNotFound", err)
	}
}

func TestExplodeAtCenterIsFinite(t *testing.T) {
	st := newStage(t)
	st.Add(sprite.Config{ImageSrc: "a.png", Size: 32})
	sp := st.sprites[0]
	sp.X, sp.Y = 202-16, 360-16

	if n := st.Explode(202, 360, sprite.DefaultExplodeForce); n != 1 {
		t.Fatalf("Explode() = %d, expected 1", n)
	}
	if math.IsNaN(sp.VX) || math.IsNaN(sp.VY) || sp.VY >= 0 {
		t.Errorf("velocity = (%v, %v), expected a finite upward kick", sp.VX, sp.VY)
	}
	if !sp.Exploding || sp.OnGround {
		t.Error("exploded sprite should be airborne")
	}
}

func TestFaultySpriteIsIsolated(t *testing.T) {
	st := newStage(t, WithMode("test-faulty"))
	st.Add(sprite.Config{ImageSrc: "a.png", Label: "good"})
	st.Add(sprite.Config{ImageSrc: "a.png", Label: "bad"})
	st.Add(sprite.Config{ImageSrc: "a.png", Label: "good"})
	x0, x2 := st.sprites[0].X, st.sprites[2].X

	st.Step()

	if st.sprites[0].X != x0+1 || st.sprites[2].X != x2+1 {
		t.Error("healthy sprites should keep animating around a faulty one")
	}
	if st.Tick() != 1 {
		t.Errorf("Tick() = %d, expected 1", st.Tick())
	}
}

func TestHandleCyclesModes(t *testing.T) {
	st := newStage(t)
	list := registry.List()
	i := slices.IndexFunc(list, func(m registry.ModeInfo) bool { return m.ID == DefaultMode })
	next := list[(i+1)%len(list)].ID
	prev := list[(i-1+len(list))%len(list)].ID

	st.Handle(core.ActionNextMode)
	if st.Mode() != next {
		t.Errorf("Mode() = %q after next, expected %q", st.Mode(), next)
	}
	st.Handle(core.ActionPrevMode)
	st.Handle(core.ActionPrevMode)
	if st.Mode() != prev {
		t.Errorf("Mode() = %q after prev, expected %q", st.Mode(), prev)
	}
}

func TestHandleAddAndClear(t *testing.T) {
	st := newStage(t)
	if err := st.Handle(core.ActionAddOrb); err != nil {
		t.Fatalf("Handle(add) error = %v", err)
	}
	if st.Len() != 1 {
		t.Fatalf("Len() = %d, expected 1", st.Len())
	}
	if src := st.Sprites()[0].ImageSrc; len(src) < 6 || src[:6] != "color:" {
		t.Errorf("random orb source = %q, expected a color source", src)
	}
	st.Handle(core.ActionClear)
	if st.Len() != 0 {
		t.Errorf("Len() = %d after clear, expected 0", st.Len())
	}
}

func TestRaceResultsReported(t *testing.T) {
	var results []registry.Result
	st := newStage(t, WithMode("race"), WithResults(func(r registry.Result) { results = append(results, r) }))
	st.UpdateConfig([]byte("enable_turbulence: false\n"))

	id, _ := st.Add(sprite.Config{ImageSrc: "a.png", Label: "duck", Participant: true})
	st.Add(sprite.Config{ImageSrc: "a.png", Label: "spectator"})
	st.Handle(core.ActionStartRace)
	for range 100 {
		st.Step()
	}

	if len(results) != 1 {
		t.Fatalf("len(results) = %d, expected 1", len(results))
	}
	if r := results[0]; r.Mode != "race" || r.SpriteID != id || r.Slot != 1 || r.Label != "duck" {
		t.Errorf("result = %+v, expected first place for %s", r, id)
	}
}

func TestFrameSnapshot(t *testing.T) {
	st := newStage(t)
	st.Add(sprite.Config{ImageSrc: "a.png"})
	st.Frame(nil)
	st.Frame(nil)

	f := st.Snapshot()
	if f.Tick != 2 || f.Mode != DefaultMode || len(f.Sprites) != 1 {
		t.Errorf("Snapshot() = %+v, expected tick 2 with one sprite", f)
	}
}
