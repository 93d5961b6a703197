package core

import (
	"math"
	"strings"
	"testing"
)

type stubImage struct {
	loaded bool
	tint   Color
}

func (i stubImage) Loaded() bool { return i.loaded }
func (i stubImage) Tint() Color  { return i.tint }

func TestNewScreen(t *testing.T) {
	s := NewScreen(45, 40, 405, 720)

	if s.Width() != 45 {
		t.Errorf("Width() = %d, expected 45", s.Width())
	}
	if s.Height() != 40 {
		t.Errorf("Height() = %d, expected 40", s.Height())
	}

	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if s.Get(x, y) != ' ' {
				t.Fatalf("New screen should be blank, got %q at (%d, %d)", s.Get(x, y), x, y)
			}
		}
	}
}

func TestScreenSetGet(t *testing.T) {
	s := NewScreen(10, 10, 100, 100)

	s.Set(5, 5, 'X', ColorGold)
	if got := s.GetCell(5, 5); got.Rune != 'X' || got.Color != ColorGold {
		t.Errorf("GetCell(5, 5) = %+v, expected X in gold", got)
	}

	// Out of bounds is silent.
	s.Set(-1, 0, 'A', ColorNone)
	s.Set(100, 0, 'A', ColorNone)
	if s.Get(-1, 0) != ' ' {
		t.Error("Out of bounds Get should return space")
	}
}

func TestScreenToCell(t *testing.T) {
	s := NewScreen(45, 40, 405, 720)

	tests := []struct {
		x, y         float64
		wantX, wantY int
	}{
		{0, 0, 0, 0},
		{10, 20, 1, 1},
		{404, 719, 44, 39},
		{202.5, 360, 22, 20},
	}

	for _, tc := range tests {
		gx, gy := s.ToCell(tc.x, tc.y)
		if gx != tc.wantX || gy != tc.wantY {
			t.Errorf("ToCell(%v, %v) = (%d, %d), expected (%d, %d)", tc.x, tc.y, gx, gy, tc.wantX, tc.wantY)
		}
	}
}

func TestScreenFillAndClearRect(t *testing.T) {
	s := NewScreen(10, 10, 100, 100)

	s.FillRect(0, 0, 100, 100, ColorWhite)
	if s.Get(9, 9) != '█' {
		t.Errorf("FillRect should cover the whole screen, got %q", s.Get(9, 9))
	}

	s.ClearRect(0, 0, 50, 50)
	if s.Get(0, 0) != ' ' || s.Get(4, 4) != ' ' {
		t.Error("ClearRect should blank the top-left quadrant")
	}
	if s.Get(5, 5) != '█' {
		t.Error("ClearRect should not touch cells outside the rectangle")
	}
}

func TestScreenFillCircleTiny(t *testing.T) {
	s := NewScreen(10, 10, 100, 100)

	// Radius far smaller than a cell still marks the center cell.
	s.FillCircle(55, 55, 1, ColorGold)
	if s.Get(5, 5) != '●' {
		t.Errorf("tiny circle should mark its center cell, got %q", s.Get(5, 5))
	}
}

func TestScreenDrawCircularImageSkipsUnloaded(t *testing.T) {
	s := NewScreen(10, 10, 100, 100)

	s.DrawCircularImage(stubImage{loaded: false, tint: ColorGold}, 0, 0, 100)
	if strings.TrimSpace(s.String()) != "" {
		t.Error("unloaded image should not be drawn")
	}

	s.DrawCircularImage(nil, 0, 0, 100)

	s.DrawCircularImage(stubImage{loaded: true, tint: ColorGold}, 0, 0, 100)
	if got := s.GetCell(5, 5); got.Rune != '█' || got.Color != ColorGold {
		t.Errorf("loaded image center = %+v, expected gold block", got)
	}
	if s.Get(0, 0) != ' ' {
		t.Error("circular image should be clipped at the corners")
	}
}

func TestScreenStrokeArc(t *testing.T) {
	s := NewScreen(20, 20, 200, 200)
	s.StrokeArc(100, 100, 50, 0, 2*math.Pi, ColorWhite, 4)

	// Rightmost point of the ring.
	if s.Get(15, 10) != '∙' {
		t.Errorf("arc should pass through (15, 10), got %q", s.Get(15, 10))
	}
	// Center stays empty.
	if s.Get(10, 10) != ' ' {
		t.Errorf("arc should not fill the center, got %q", s.Get(10, 10))
	}
}

func TestScreenFillTextCentered(t *testing.T) {
	s := NewScreen(20, 5, 200, 50)
	s.FillText("ABCD", 100, 20, ColorWhite)

	row := s.Row(2)
	if strings.Index(row, "ABCD") != 8 {
		t.Errorf("FillText row = %q, expected ABCD starting at column 8", row)
	}
}

func TestScreenStringDimensions(t *testing.T) {
	s := NewScreen(4, 3, 40, 30)
	lines := strings.Split(s.String(), "\n")
	if len(lines) != 3 {
		t.Fatalf("String() produced %d lines, expected 3", len(lines))
	}
	for i, line := range lines {
		if len([]rune(line)) != 4 {
			t.Errorf("line %d has %d runes, expected 4", i, len([]rune(line)))
		}
	}
}

func TestScreenResize(t *testing.T) {
	s := NewScreen(4, 3, 40, 30)
	s.Resize(8, 6)
	if s.Width() != 8 || s.Height() != 6 {
		t.Errorf("Resize() = %dx%d, expected 8x6", s.Width(), s.Height())
	}
	gx, gy := s.ToCell(39, 29)
	if gx != 7 || gy != 5 {
		t.Errorf("ToCell after resize = (%d, %d), expected (7, 5)", gx, gy)
	}
}
