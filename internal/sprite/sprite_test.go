package sprite

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/vovakirdan/stream-orbs/internal/core"
)

func newRand() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func TestNewDefaults(t *testing.T) {
	rt := core.DefaultConfig()
	s := New(Config{ImageSrc: "a.png"}, rt, newRand())

	if s.ID == "" {
		t.Error("ID should be assigned")
	}
	if s.Size != DefaultSize {
		t.Errorf("Size = %v, expected %v", s.Size, DefaultSize)
	}
	if s.Y != -s.Size {
		t.Errorf("Y = %v, expected %v (above the canvas)", s.Y, -s.Size)
	}
	if s.X < 0 || s.X >= rt.CanvasW-s.Size {
		t.Errorf("X = %v, expected within [0, %v)", s.X, rt.CanvasW-s.Size)
	}
	if s.RingColor != core.ColorWhite || s.RingWidth != DefaultRingWidth {
		t.Errorf("ring = %q/%v, expected white/%v", s.RingColor, s.RingWidth, DefaultRingWidth)
	}
	if s.IconAnchor != AnchorBottomRight {
		t.Errorf("IconAnchor = %q, expected bottom-right", s.IconAnchor)
	}
	if !s.Entering {
		t.Error("new sprite should be entering")
	}
	if s.Participant {
		t.Error("sprites are not race participants by default")
	}
	if s.VY != 0 {
		t.Errorf("VY = %v, expected 0", s.VY)
	}
	if math.Abs(s.VX) >= 1 {
		t.Errorf("drop nudge VX = %v, expected |VX| < 1", s.VX)
	}
	if s.Data != nil {
		t.Errorf("Data = %v, expected nil", s.Data)
	}
}

func TestNewToss(t *testing.T) {
	rt := core.DefaultConfig()
	rng := newRand()
	for range 20 {
		s := New(Config{Entry: EntryToss}, rt, rng)
		if math.Abs(s.VX) != 2 {
			t.Fatalf("toss VX = %v, expected +-2", s.VX)
		}
	}
}

func TestTargetSize(t *testing.T) {
	tests := []struct {
		size     float64
		expected float64
	}{
		{64, 51.2},
		{40, 32},
		{16, 32},
		{100, 80},
	}

	for _, tc := range tests {
		s := New(Config{Size: tc.size}, core.DefaultConfig(), newRand())
		if math.Abs(s.TargetSize-tc.expected) > 1e-9 {
			t.Errorf("size %v: TargetSize = %v, expected %v", tc.size, s.TargetSize, tc.expected)
		}
	}
}

func TestNewUniqueIDs(t *testing.T) {
	rt := core.DefaultConfig()
	rng := newRand()
	seen := make(map[string]bool)
	for range 50 {
		s := New(Config{}, rt, rng)
		if seen[s.ID] {
			t.Fatalf("duplicate id %q", s.ID)
		}
		seen[s.ID] = true
	}
}

func TestStepShrink(t *testing.T) {
	s := &Sprite{Size: 64, TargetSize: 51.2, Shrinking: true}

	frames := 0
	for s.Shrinking && frames < 1000 {
		s.StepShrink()
		frames++
		if s.Size < s.TargetSize {
			t.Fatalf("Size %v dropped below target %v", s.Size, s.TargetSize)
		}
	}

	if s.Shrinking {
		t.Fatal("shrink animation never finished")
	}
	if s.Size != s.TargetSize {
		t.Errorf("Size = %v, expected snap to %v", s.Size, s.TargetSize)
	}
	if s.StepShrink() {
		t.Error("StepShrink() after finishing should report no change")
	}
}

func TestApplyJump(t *testing.T) {
	rng := newRand()
	s := New(Config{Size: 40}, core.DefaultConfig(), rng)
	s.OnGround = true
	s.Shrinking = true

	label := "viewer"
	if s.Apply(Patch{Label: &label}, rng) {
		t.Error("label-only patch should not jump")
	}
	if s.Label != "viewer" {
		t.Errorf("Label = %q, expected viewer", s.Label)
	}
	if !s.OnGround {
		t.Error("label-only patch should not lift the sprite")
	}

	size := 80.0
	if !s.Apply(Patch{Size: &size}, rng) {
		t.Fatal("size patch should jump")
	}
	if s.OnGround || s.Shrinking {
		t.Error("jumping sprite should be airborne and not shrinking")
	}
	if s.VY > -8 || s.VY < -12 {
		t.Errorf("VY = %v, expected in [-12, -8]", s.VY)
	}
	if math.Abs(s.TargetSize-64) > 1e-9 {
		t.Errorf("TargetSize = %v, expected 64", s.TargetSize)
	}
}

func TestPatchValidate(t *testing.T) {
	zero := 0.0
	if err := (Patch{Size: &zero}).Validate(); !errors.Is(err, errSize) {
		t.Errorf("Validate(size=0) = %v, expected size error", err)
	}

	bad := core.Color("teal")
	if err := (Patch{RingColor: &bad}).Validate(); err == nil {
		t.Error("Validate() should reject invalid colors")
	}

	anchor := Anchor("middle")
	if err := (Patch{IconAnchor: &anchor}).Validate(); err == nil {
		t.Error("Validate() should reject unknown anchors")
	}
}

func TestExplodeAtCenter(t *testing.T) {
	// Sprite centered exactly on the blast point.
	s := &Sprite{X: 202 - 16, Y: 360 - 16, Size: 32, OnGround: true}

	n := Explode([]*Sprite{s}, 202, 360, DefaultExplodeForce)
	if n != 1 {
		t.Fatalf("Explode() affected %d sprites, expected 1", n)
	}
	if math.IsNaN(s.VX) || math.IsNaN(s.VY) || math.IsInf(s.VX, 0) || math.IsInf(s.VY, 0) {
		t.Fatalf("velocity = (%v, %v), expected finite", s.VX, s.VY)
	}
	if s.VY >= 0 {
		t.Errorf("VY = %v, expected upward kick", s.VY)
	}
	if !s.Exploding || s.OnGround {
		t.Error("exploded sprite should be airborne and exploding")
	}
}

func TestExplodeFalloff(t *testing.T) {
	near := &Sprite{X: 100 - 16 + 50, Y: 100 - 16, Size: 32}
	far := &Sprite{X: 100 - 16 + 150, Y: 100 - 16, Size: 32}
	out := &Sprite{X: 100 - 16 + 250, Y: 100 - 16, Size: 32}

	Explode([]*Sprite{near, far, out}, 100, 100, 20)

	if math.Abs(near.VX-15) > 1e-9 {
		t.Errorf("near VX = %v, expected 15", near.VX)
	}
	if math.Abs(far.VX-5) > 1e-9 {
		t.Errorf("far VX = %v, expected 5", far.VX)
	}
	if out.VX != 0 || out.Exploding {
		t.Error("sprite outside the radius should be untouched")
	}
}

func TestAnchorOffset(t *testing.T) {
	tests := []struct {
		anchor Anchor
		dx, dy float64
	}{
		{AnchorTop, 0, -28},
		{AnchorRight, 28, 0},
		{AnchorCenter, 0, 0},
		{AnchorBottomRight, 28 * 0.7, 28 * 0.7},
		{AnchorTopLeft, -28 * 0.7, -28 * 0.7},
	}

	for _, tc := range tests {
		t.Run(string(tc.anchor), func(t *testing.T) {
			dx, dy := tc.anchor.Offset(32, 4)
			if math.Abs(dx-tc.dx) > 1e-9 || math.Abs(dy-tc.dy) > 1e-9 {
				t.Errorf("Offset() = (%v, %v), expected (%v, %v)", dx, dy, tc.dx, tc.dy)
			}
		})
	}
}

func TestModeDataAccessors(t *testing.T) {
	s := &Sprite{Data: &SnakeData{Collected: true}}
	if s.Snake() == nil {
		t.Error("Snake() should return the snake variant")
	}
	if s.Pachinko() != nil || s.Race() != nil {
		t.Error("other accessors should return nil for a snake sprite")
	}

	s.Data = &PachinkoData{Waiting: true}
	if !s.Hidden() {
		t.Error("waiting pachinko sprite should be hidden")
	}
	s.Exploding = true
	if s.Hidden() {
		t.Error("exploding pachinko sprite should stay visible")
	}
	s.Exploding = false

	c := s.Clone()
	c.Pachinko().Waiting = false
	if !s.Pachinko().Waiting {
		t.Error("Clone() should not share mode data")
	}
}

func TestSnapshot(t *testing.T) {
	s := &Sprite{ID: "a", Size: 16, Data: &PachinkoData{Scored: true, Score: 2000, Slot: 5}}
	snap := s.Snapshot()
	if snap.Score == nil || *snap.Score != 2000 {
		t.Errorf("Snapshot().Score = %v, expected 2000", snap.Score)
	}
	if snap.Lane != nil {
		t.Error("pachinko snapshot should not carry a lane")
	}
	if snap.Loaded {
		t.Error("sprite without image should not be loaded")
	}
}
