package stage

import (
	"math"

	"github.com/vovakirdan/stream-orbs/internal/core"
	"github.com/vovakirdan/stream-orbs/internal/sprite"
)

// labelLift is how far above the sprite's top edge the label sits.
const labelLift = 30

func (s *Stage) draw(dst core.Surface) {
	w, h := dst.CanvasSize()
	dst.ClearRect(0, 0, w, h)

	s.env.Guard(nil, func() {
		s.active.Render(dst, s.sprites, s.state)
	})
	for _, sp := range s.sprites {
		s.env.Guard(sp, func() { drawSprite(dst, sp) })
	}
}

// drawSprite draws the avatar, ring, icon and label. Sprites whose image
// has not loaded are skipped entirely.
func drawSprite(dst core.Surface, sp *sprite.Sprite) {
	if sp.Hidden() || sp.Image == nil || !sp.Image.Loaded() {
		return
	}
	c := sp.Center()

	dst.DrawCircularImage(sp.Image, sp.X, sp.Y, sp.Size)
	if sp.RingWidth > 0 {
		dst.StrokeArc(c.X, c.Y, sp.Size/2+sp.RingWidth/2, 0, 2*math.Pi, sp.RingColor, sp.RingWidth)
	}
	if sp.Icon != "" {
		dx, dy := sp.IconAnchor.Offset(sp.Size, sp.RingWidth)
		dst.FillText(sp.Icon, c.X+dx, c.Y+dy, core.ColorWhite)
	}
	if sp.Label != "" {
		dst.FillText(sp.Label, c.X, sp.Y-labelLift, core.ColorWhite)
	}
}
