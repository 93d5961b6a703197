package snake

import (
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/vovakirdan/stream-orbs/internal/config"
	"github.com/vovakirdan/stream-orbs/internal/core"
	"github.com/vovakirdan/stream-orbs/internal/registry"
	"github.com/vovakirdan/stream-orbs/internal/sprite"
)

const eps = 1e-9

func newEnv() *registry.Env {
	return registry.NewEnv(core.DefaultConfig(), rand.New(rand.NewSource(1)))
}

func gap(ahead, behind float64) float64 {
	return core.Wrap01(ahead - behind)
}

func TestRegistered(t *testing.T) {
	if !registry.Exists(ID) {
		t.Fatalf("mode %q not registered", ID)
	}
}

func TestPathCorners(t *testing.T) {
	p := Path{CanvasW: 405, CanvasH: 720, Margin: 10}
	size := 32.0
	m := size/2 + 10
	w, h := 405-2*m, 720-2*m
	per := 2 * (w + h)

	tests := []struct {
		name     string
		progress float64
		expected core.Vec2
	}{
		{"top left", 0, core.Vec2{X: m, Y: m}},
		{"top right", w / per, core.Vec2{X: 405 - m, Y: m}},
		{"bottom right", (w + h) / per, core.Vec2{X: 405 - m, Y: 720 - m}},
		{"bottom left", (2*w + h) / per, core.Vec2{X: m, Y: 720 - m}},
		{"wraps", 1 + w/per, core.Vec2{X: 405 - m, Y: m}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Point(tt.progress, size)
			if core.Dist(got, tt.expected) > 1e-6 {
				t.Errorf("Point(%v) = %v, expected %v", tt.progress, got, tt.expected)
			}
		})
	}

	if got := p.Fraction(size); math.Abs(got-size/per) > eps {
		t.Errorf("Fraction() = %v, expected %v", got, size/per)
	}
}

func TestInitializeHeadFromCurrentPosition(t *testing.T) {
	env := newEnv()
	head := &sprite.Sprite{ID: "head", Size: 64, TargetSize: 64, X: 100, Y: 300, VX: 3, VY: -2}
	m := New(config.DefaultSnakeConfig())

	st := m.Initialize(env, []*sprite.Sprite{head}).(*State)

	if math.Abs(st.HeadProgress-0.85) > eps {
		t.Fatalf("HeadProgress = %v, expected 0.85", st.HeadProgress)
	}
	if st.HeadProgress == 0 {
		t.Fatal("head progress should follow the sprite, not the origin")
	}
	d := head.Snake()
	if d == nil || !d.Collected || d.Order != 0 {
		t.Fatalf("head data = %+v, expected collected with order 0", d)
	}
	expected := m.Path(env.RT).Point(0.85, 64)
	if core.Dist(head.Center(), expected) > 1e-6 {
		t.Errorf("head center = %v, expected %v", head.Center(), expected)
	}
	if head.VX != 0 || head.VY != 0 || !head.OnGround {
		t.Errorf("head kinematics = (%v, %v, ground %v), expected stationary", head.VX, head.VY, head.OnGround)
	}
	if st.Counter != 1 {
		t.Errorf("Counter = %d, expected 1", st.Counter)
	}
}

func TestInitializeKeepsOthersInPlace(t *testing.T) {
	env := newEnv()
	head := &sprite.Sprite{ID: "head", Size: 32, TargetSize: 32}
	other := &sprite.Sprite{ID: "b", Size: 32, TargetSize: 32, X: 200, Y: 400, VY: 5}
	m := New(config.DefaultSnakeConfig())

	m.Initialize(env, []*sprite.Sprite{head, other})

	if other.X != 200 || other.Y != 400 {
		t.Errorf("other moved to (%v, %v)", other.X, other.Y)
	}
	if d := other.Snake(); d == nil || d.Collected {
		t.Errorf("other data = %+v, expected uncollected", d)
	}
	if other.VY != 0 {
		t.Errorf("VY = %v, expected 0", other.VY)
	}
}

func TestCollectionBuildsEvenChain(t *testing.T) {
	env := newEnv()
	sprites := []*sprite.Sprite{
		{ID: "head", Size: 32, TargetSize: 32},
		{ID: "b", Size: 32, TargetSize: 32},
		{ID: "c", Size: 32, TargetSize: 32},
		{ID: "d", Size: 32, TargetSize: 32},
	}
	m := New(config.DefaultSnakeConfig())
	st := m.Initialize(env, sprites)

	// Park the rest right on the head so each frame collects one.
	for _, s := range sprites[1:] {
		s.X, s.Y = sprites[0].X, sprites[0].Y
	}

	for range 3 {
		st = m.Update(env, sprites, st)
	}

	for i, s := range sprites {
		d := s.Snake()
		if !d.Collected {
			t.Fatalf("sprite %s not collected", s.ID)
		}
		if d.Order != i {
			t.Errorf("sprite %s Order = %d, expected %d", s.ID, d.Order, i)
		}
	}
	if got := st.(*State).Counter; got != 4 {
		t.Errorf("Counter = %d, expected 4", got)
	}

	frac := m.Path(env.RT).Fraction(32)
	for i := 1; i < len(sprites); i++ {
		g := gap(sprites[i-1].Snake().Progress, sprites[i].Snake().Progress)
		if math.Abs(g-frac) > eps {
			t.Errorf("gap %d = %v, expected %v", i, g, frac)
		}
	}
}

func TestChainFollowsCollectionOrderNotSliceOrder(t *testing.T) {
	env := newEnv()
	head := &sprite.Sprite{ID: "head", Size: 32, TargetSize: 32, Data: &sprite.SnakeData{Collected: true}}
	late := &sprite.Sprite{ID: "late", Size: 48, TargetSize: 48, Data: &sprite.SnakeData{Collected: true, Order: 2}}
	early := &sprite.Sprite{ID: "early", Size: 40, TargetSize: 40, Data: &sprite.SnakeData{Collected: true, Order: 1}}
	m := New(config.DefaultSnakeConfig())
	path := m.Path(env.RT)

	st := &State{HeadProgress: 0.5, Counter: 3}
	m.Update(env, []*sprite.Sprite{head, late, early}, st)

	hp := st.HeadProgress
	if got, want := early.Snake().Progress, core.Wrap01(hp-path.Fraction(32)); math.Abs(got-want) > eps {
		t.Errorf("early progress = %v, expected %v", got, want)
	}
	if got, want := late.Snake().Progress, core.Wrap01(hp-path.Fraction(32)-path.Fraction(40)); math.Abs(got-want) > eps {
		t.Errorf("late progress = %v, expected %v", got, want)
	}

	chain := Chain([]*sprite.Sprite{late, head, early})
	if chain[0] != head || chain[1] != early || chain[2] != late {
		t.Errorf("Chain() order = %s,%s,%s", chain[0].ID, chain[1].ID, chain[2].ID)
	}
}

func TestFarSpriteIsNotCollected(t *testing.T) {
	env := newEnv()
	head := &sprite.Sprite{ID: "head", Size: 32, TargetSize: 32}
	far := &sprite.Sprite{ID: "far", Size: 32, TargetSize: 32, X: 200, Y: 360}
	m := New(config.DefaultSnakeConfig())
	st := m.Initialize(env, []*sprite.Sprite{head, far})

	for range 10 {
		st = m.Update(env, []*sprite.Sprite{head, far}, st)
	}
	if far.Snake().Collected {
		t.Error("sprite in the middle of the canvas should not be collected")
	}
	if far.X != 200 || far.Y != 360 {
		t.Errorf("uncollected sprite moved to (%v, %v)", far.X, far.Y)
	}
}

func TestHeadAdvancesAndWraps(t *testing.T) {
	env := newEnv()
	head := &sprite.Sprite{ID: "head", Size: 32, TargetSize: 32, Data: &sprite.SnakeData{Collected: true}}
	m := New(config.DefaultSnakeConfig())

	st := &State{HeadProgress: 0.999, Counter: 1}
	m.Update(env, []*sprite.Sprite{head}, st)

	if math.Abs(st.HeadProgress-0.001) > 1e-9 {
		t.Errorf("HeadProgress = %v, expected wrap to 0.001", st.HeadProgress)
	}
}

func TestHandleAddedJoinsUncollected(t *testing.T) {
	env := newEnv()
	m := New(config.DefaultSnakeConfig())
	s := &sprite.Sprite{ID: "new", Size: 32, Data: &sprite.RaceData{}}

	m.HandleAdded(env, s, nil, &State{})

	if d := s.Snake(); d == nil || d.Collected {
		t.Errorf("added sprite data = %+v, expected uncollected snake data", s.Data)
	}
}

func TestRemovedHeadIsReplaced(t *testing.T) {
	env := newEnv()
	next := &sprite.Sprite{ID: "next", Size: 32, TargetSize: 32, Data: &sprite.SnakeData{}}
	m := New(config.DefaultSnakeConfig())

	st := &State{HeadProgress: 0.25, Counter: 2}
	m.Update(env, []*sprite.Sprite{next}, st)

	d := next.Snake()
	if !d.Collected || d.Order != 0 {
		t.Fatalf("data = %+v, expected promoted head", d)
	}
	expected := m.Path(env.RT).Point(st.HeadProgress, 32)
	if core.Dist(next.Center(), expected) > 1e-6 {
		t.Errorf("new head center = %v, expected %v", next.Center(), expected)
	}
}

func TestRenderBanner(t *testing.T) {
	m := New(config.DefaultSnakeConfig())
	screen := core.NewScreen(405, 72, 405, 720)

	m.Render(screen, nil, nil)
	if !strings.Contains(screen.String(), "Snake Mode Active") {
		t.Error("empty stage should show the mode banner")
	}
}

func TestSetConfigRejectsInvalid(t *testing.T) {
	m := New(config.DefaultSnakeConfig())
	bad := config.DefaultSnakeConfig()
	bad.Speed = 0
	if err := m.SetConfig(bad); err == nil {
		t.Error("SetConfig() with zero speed should fail")
	}
	if got := m.Config().(config.SnakeConfig); got != config.DefaultSnakeConfig() {
		t.Errorf("Config() = %+v, expected defaults to survive a rejected update", got)
	}

	good := config.DefaultSnakeConfig()
	good.CollectRadius = 90
	if err := m.SetConfig(good); err != nil {
		t.Fatalf("SetConfig() error = %v", err)
	}
	if got := m.Config().(config.SnakeConfig).CollectRadius; got != 90 {
		t.Errorf("CollectRadius = %v, expected 90", got)
	}
}
