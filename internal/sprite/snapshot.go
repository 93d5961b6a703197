package sprite

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/stream-orbs/internal/core"
)

var errSize = errors.New("sprite: size must be positive")

func errNonPositiveSize(v float64) error {
	return fmt.Errorf("%w, got %v", errSize, v)
}

// Snapshot is a read-only, serializable view of a sprite used by display
// feeds and the admin UI.
type Snapshot struct {
	ID          string     `json:"id"`
	X           float64    `json:"x"`
	Y           float64    `json:"y"`
	Size        float64    `json:"size"`
	ImageSrc    string     `json:"imgSrc,omitempty"`
	Loaded      bool       `json:"loaded"`
	RingColor   core.Color `json:"ringColor"`
	RingWidth   float64    `json:"ringWidth"`
	Label       string     `json:"label,omitempty"`
	Icon        string     `json:"icon,omitempty"`
	IconAnchor  Anchor     `json:"iconPosition,omitempty"`
	Participant bool       `json:"gameParticipant"`
	OnGround    bool       `json:"onGround"`
	Hidden      bool       `json:"hidden,omitempty"`
	Score       *int       `json:"score,omitempty"`
	Slot        *int       `json:"slot,omitempty"`
	Lane        *int       `json:"lane,omitempty"`
	Progress    *float64   `json:"progress,omitempty"`
}

// Hidden reports whether the draw step should skip this sprite regardless
// of its image state. Pachinko sprites staged above the board are hidden
// once their opening burst is over.
func (s *Sprite) Hidden() bool {
	if d := s.Pachinko(); d != nil && d.Waiting && !s.Exploding {
		return true
	}
	return false
}

// Snapshot copies the displayable state of the sprite.
func (s *Sprite) Snapshot() Snapshot {
	snap := Snapshot{
		ID:          s.ID,
		X:           s.X,
		Y:           s.Y,
		Size:        s.Size,
		ImageSrc:    s.ImageSrc,
		Loaded:      s.Image != nil && s.Image.Loaded(),
		RingColor:   s.RingColor,
		RingWidth:   s.RingWidth,
		Label:       s.Label,
		Icon:        s.Icon,
		IconAnchor:  s.IconAnchor,
		Participant: s.Participant,
		OnGround:    s.OnGround,
		Hidden:      s.Hidden(),
	}

	switch d := s.Data.(type) {
	case *PachinkoData:
		if d.Scored {
			score, slot := d.Score, d.Slot
			snap.Score, snap.Slot = &score, &slot
		}
	case *RaceData:
		lane, progress := d.Lane, d.Progress
		snap.Lane, snap.Progress = &lane, &progress
	case *SnakeData:
		if d.Collected {
			progress := d.Progress
			snap.Progress = &progress
		}
	}
	return snap
}
