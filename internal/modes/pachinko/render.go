package pachinko

import (
	"math"
	"strconv"

	"github.com/vovakirdan/stream-orbs/internal/core"
	"github.com/vovakirdan/stream-orbs/internal/registry"
	"github.com/vovakirdan/stream-orbs/internal/sprite"
)

const (
	pegColor      core.Color = "#ff6464"
	dropSpotColor core.Color = "#64ff64"
	wallFill      core.Color = "#646464"
	wallStroke    core.Color = "#969696"
	bannerColor   core.Color = "#ffc107"
)

// Render draws the board: pegs, drop spots, cradles with their point
// values and the slot dividers.
func (m *Mode) Render(dst core.Surface, sprites []*sprite.Sprite, prev registry.State) {
	w, h := dst.CanvasSize()
	rt := core.RuntimeConfig{CanvasW: w, CanvasH: h}

	board, ok := boardOf(prev)
	if !ok || board.Rows != m.cfg.Rows {
		board = NewBoard(m.cfg.Rows, w)
	}
	for _, p := range board.Pegs {
		dst.FillCircle(p.X, p.Y, PegRadius, pegColor)
	}

	for i, spot := range DropSpots {
		x := spot * w
		dst.FillCircle(x, 20, 6, dropSpotColor)
		dst.FillText(strconv.Itoa(i+1), x, 23, core.ColorWhite)
	}

	slots := m.Slots(rt)
	cradleY := h - 10
	for i := 0; i < slots.Count(); i++ {
		cx := slots.Center(i)
		r := slots.Radius(i)
		dst.StrokeArc(cx, cradleY, r, 0, math.Pi, slots.Color(i), 8)

		points := slots.Points(i)
		label := strconv.Itoa(points)
		if points >= 1000 {
			label += "!"
		}
		dst.FillText(label, cx, cradleY-r-10, core.ColorWhite)
	}

	for _, x := range slots.Walls() {
		dst.FillRect(x-WallWidth/2, h-WallHeight, WallWidth, WallHeight, wallFill)
		dst.StrokeRect(x-WallWidth/2, h-WallHeight, WallWidth, WallHeight, wallStroke)
	}

	if len(sprites) == 0 {
		core.DrawBanner(dst, "Pachinko Mode Active (No Orbs)", bannerColor)
	}
}

func boardOf(st registry.State) (Board, bool) {
	if s, ok := st.(*State); ok && s != nil {
		return s.Board, true
	}
	return Board{}, false
}
