package core

import (
	"math"
	"strings"
)

// Cell is one terminal character with its foreground color.
type Cell struct {
	Rune  rune
	Color Color
}

var blankCell = Cell{Rune: ' '}

// Screen is a 2D character buffer that implements Surface.
// Canvas coordinates are scaled onto the cell grid so that a whole
// logical canvas fits into the terminal.
type Screen struct {
	width   int
	height  int
	canvasW float64
	canvasH float64
	cells   [][]Cell
}

// NewScreen creates a new screen buffer of width x height cells that maps
// a canvasW x canvasH logical canvas.
func NewScreen(width, height int, canvasW, canvasH float64) *Screen {
	s := &Screen{
		width:   width,
		height:  height,
		canvasW: canvasW,
		canvasH: canvasH,
	}
	s.allocate()
	s.Clear()
	return s
}

func (s *Screen) allocate() {
	s.cells = make([][]Cell, s.height)
	for y := range s.cells {
		s.cells[y] = make([]Cell, s.width)
	}
}

// Width returns the screen width in characters.
func (s *Screen) Width() int {
	return s.width
}

// Height returns the screen height in characters.
func (s *Screen) Height() int {
	return s.height
}

// CanvasSize returns the logical canvas mapped by this screen.
func (s *Screen) CanvasSize() (float64, float64) {
	return s.canvasW, s.canvasH
}

// Resize changes the cell dimensions. Content is cleared; the next frame
// redraws everything.
func (s *Screen) Resize(width, height int) {
	if width == s.width && height == s.height {
		return
	}
	s.width = width
	s.height = height
	s.allocate()
	s.Clear()
}

// Clear fills the entire screen with blank cells.
func (s *Screen) Clear() {
	for y := range s.cells {
		for x := range s.cells[y] {
			s.cells[y][x] = blankCell
		}
	}
}

// Set places a rune at the given cell.
// Out-of-bounds coordinates are silently ignored.
func (s *Screen) Set(x, y int, r rune, c Color) {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return
	}
	s.cells[y][x] = Cell{Rune: r, Color: c}
}

// Get returns the rune at the given cell, space when out of bounds.
func (s *Screen) Get(x, y int) rune {
	return s.GetCell(x, y).Rune
}

// GetCell returns the cell at the given position.
func (s *Screen) GetCell(x, y int) Cell {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return blankCell
	}
	return s.cells[y][x]
}

// DrawText writes a string horizontally starting at cell (x, y).
func (s *Screen) DrawText(x, y int, text string, c Color) {
	i := 0
	for _, r := range text {
		s.Set(x+i, y, r, c)
		i++
	}
}

// ToCell converts canvas coordinates to a cell position.
func (s *Screen) ToCell(x, y float64) (int, int) {
	return int(math.Floor(x * s.scaleX())), int(math.Floor(y * s.scaleY()))
}

func (s *Screen) scaleX() float64 {
	if s.canvasW <= 0 {
		return 1
	}
	return float64(s.width) / s.canvasW
}

func (s *Screen) scaleY() float64 {
	if s.canvasH <= 0 {
		return 1
	}
	return float64(s.height) / s.canvasH
}

// ClearRect blanks the cells covered by the canvas rectangle.
func (s *Screen) ClearRect(x, y, w, h float64) {
	s.fill(x, y, w, h, blankCell)
}

// FillRect fills the canvas rectangle with solid blocks.
func (s *Screen) FillRect(x, y, w, h float64, c Color) {
	s.fill(x, y, w, h, Cell{Rune: '█', Color: c})
}

func (s *Screen) fill(x, y, w, h float64, cell Cell) {
	x0, y0 := s.ToCell(x, y)
	x1, y1 := s.ToCell(x+w, y+h)
	if x1 == x0 {
		x1++
	}
	if y1 == y0 {
		y1++
	}
	for cy := y0; cy < y1; cy++ {
		for cx := x0; cx < x1; cx++ {
			if cx >= 0 && cx < s.width && cy >= 0 && cy < s.height {
				s.cells[cy][cx] = cell
			}
		}
	}
}

// StrokeRect outlines the canvas rectangle with box-drawing characters.
func (s *Screen) StrokeRect(x, y, w, h float64, c Color) {
	x0, y0 := s.ToCell(x, y)
	x1, y1 := s.ToCell(x+w, y+h)
	for cx := x0 + 1; cx < x1; cx++ {
		s.Set(cx, y0, '─', c)
		s.Set(cx, y1, '─', c)
	}
	for cy := y0 + 1; cy < y1; cy++ {
		s.Set(x0, cy, '│', c)
		s.Set(x1, cy, '│', c)
	}
	s.Set(x0, y0, '┌', c)
	s.Set(x1, y0, '┐', c)
	s.Set(x0, y1, '└', c)
	s.Set(x1, y1, '┘', c)
}

// Line draws a straight segment between two canvas points.
func (s *Screen) Line(x1, y1, x2, y2 float64, c Color) {
	cx1, cy1 := s.ToCell(x1, y1)
	cx2, cy2 := s.ToCell(x2, y2)

	r := '·'
	switch {
	case cy1 == cy2:
		r = '─'
	case cx1 == cx2:
		r = '│'
	}

	steps := Max(Abs(cx2-cx1), Abs(cy2-cy1))
	if steps == 0 {
		s.Set(cx1, cy1, r, c)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		px := int(math.Round(float64(cx1) + t*float64(cx2-cx1)))
		py := int(math.Round(float64(cy1) + t*float64(cy2-cy1)))
		s.Set(px, py, r, c)
	}
}

// StrokeArc plots points along the arc. The width is ignored because a
// terminal cell is already wider than any ring stroke.
func (s *Screen) StrokeArc(cx, cy, r, start, end float64, c Color, _ float64) {
	if r <= 0 {
		return
	}
	if end < start {
		start, end = end, start
	}
	// Roughly one sample per cell along the circumference.
	cells := r * (s.scaleX() + s.scaleY()) * (end - start)
	n := int(math.Ceil(cells * 2))
	if n < 8 {
		n = 8
	}
	for i := 0; i <= n; i++ {
		a := start + (end-start)*float64(i)/float64(n)
		px, py := s.ToCell(cx+math.Cos(a)*r, cy+math.Sin(a)*r)
		s.Set(px, py, '∙', c)
	}
}

// FillCircle fills every cell whose center lies inside the circle.
// Circles smaller than a cell still mark the cell under their center.
func (s *Screen) FillCircle(cx, cy, r float64, c Color) {
	s.disc(cx, cy, r, Cell{Rune: '●', Color: c})
}

// DrawCircularImage draws a loaded image as a disc in its tint color.
// Images that are not loaded are skipped.
func (s *Screen) DrawCircularImage(img Image, x, y, size float64) {
	if img == nil || !img.Loaded() {
		return
	}
	r := size / 2
	s.disc(x+r, y+r, r, Cell{Rune: '█', Color: img.Tint()})
}

func (s *Screen) disc(cx, cy, r float64, cell Cell) {
	x0, y0 := s.ToCell(cx-r, cy-r)
	x1, y1 := s.ToCell(cx+r, cy+r)
	sx, sy := s.scaleX(), s.scaleY()
	hit := false
	for py := y0; py <= y1; py++ {
		for px := x0; px <= x1; px++ {
			// Canvas position of the cell center.
			mx := (float64(px) + 0.5) / sx
			my := (float64(py) + 0.5) / sy
			if math.Hypot(mx-cx, my-cy) <= r {
				s.Set(px, py, cell.Rune, cell.Color)
				hit = true
			}
		}
	}
	if !hit {
		px, py := s.ToCell(cx, cy)
		s.Set(px, py, cell.Rune, cell.Color)
	}
}

// FillText draws text centered on canvas x.
func (s *Screen) FillText(text string, x, y float64, c Color) {
	cx, cy := s.ToCell(x, y)
	n := len([]rune(text))
	s.DrawText(cx-n/2, cy, text, c)
}

// String converts the screen buffer to plain text without colors.
func (s *Screen) String() string {
	var sb strings.Builder
	sb.Grow(s.width*s.height + s.height)

	for y := 0; y < s.height; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}
		for x := 0; x < s.width; x++ {
			sb.WriteRune(s.cells[y][x].Rune)
		}
	}
	return sb.String()
}

// Row returns the specified row as plain text.
func (s *Screen) Row(y int) string {
	if y < 0 || y >= s.height {
		return strings.Repeat(" ", s.width)
	}
	var sb strings.Builder
	for _, c := range s.cells[y] {
		sb.WriteRune(c.Rune)
	}
	return sb.String()
}
