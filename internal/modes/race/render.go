package race

import (
	"fmt"

	"github.com/vovakirdan/stream-orbs/internal/core"
	"github.com/vovakirdan/stream-orbs/internal/registry"
	"github.com/vovakirdan/stream-orbs/internal/sprite"
)

const (
	startColor  core.Color = "#00ff00"
	finishColor core.Color = "#ff0000"
	labelColor  core.Color = "#666666"
)

// Render draws the lanes, the start and finish lines, race status and the
// per-lane progress bars.
func (m *Mode) Render(dst core.Surface, sprites []*sprite.Sprite, prev registry.State) {
	w, _ := dst.CanvasSize()
	track := Track{CanvasW: w, Lanes: m.cfg.LaneCount, Distance: m.cfg.RaceDistance}
	laneW := track.LaneWidth()
	finishY := track.FinishY()

	for i := 0; i < track.Lanes; i++ {
		cx := track.LaneCenter(i)
		dst.Line(cx, StartY, cx, finishY, m.cfg.LaneColor(i))
		dst.FillText(fmt.Sprintf("Lane %d", i+1), cx, 40, labelColor)
	}

	left := track.Left()
	right := left + float64(track.Lanes)*laneW
	dst.Line(left, StartY, right, StartY, startColor)
	dst.Line(left, finishY, right, finishY, finishColor)

	st, _ := prev.(*State)
	if st == nil {
		st = &State{}
	}
	dst.FillText(m.status(st, sprites), w/2, 25, core.ColorWhite)

	for _, s := range sprites {
		d := racer(s)
		if d == nil {
			continue
		}
		x := track.LaneX(d.Lane)
		color := m.cfg.LaneColor(d.Lane)
		if h := d.Progress * track.Distance; h > 0 {
			dst.FillRect(x+4, StartY, 4, h, core.Blend(color, core.ColorGold, d.Progress))
		}
		if pos := st.Position(s.ID); pos > 0 {
			dst.FillText(fmt.Sprintf("#%d", pos), x+laneW-16, 65, core.ColorWhite)
		}
	}
}

func (m *Mode) status(st *State, sprites []*sprite.Sprite) string {
	switch {
	case st.Racing:
		return "Racing..."
	case st.Winner != "":
		for _, s := range sprites {
			if s.ID != st.Winner {
				continue
			}
			lane := 0
			if d := s.Race(); d != nil {
				lane = d.Lane
			}
			if s.Label != "" {
				return fmt.Sprintf("Winner: %s (Lane %d)", s.Label, lane+1)
			}
			return fmt.Sprintf("Winner: Lane %d", lane+1)
		}
		return "Race finished"
	default:
		return "Lane Race - start the race to begin"
	}
}
