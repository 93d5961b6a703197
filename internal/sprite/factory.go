package sprite

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/vovakirdan/stream-orbs/internal/core"
)

// EntryStyle is how a new sprite enters the stage.
type EntryStyle string

const (
	EntryDrop EntryStyle = "drop"
	EntryToss EntryStyle = "toss"
)

// Config describes a sprite to create. It doubles as the saved roster
// record, so it carries yaml and json tags.
type Config struct {
	ImageSrc    string     `yaml:"imgSrc" json:"imgSrc"`
	Entry       EntryStyle `yaml:"entry,omitempty" json:"entry,omitempty"`
	Size        float64    `yaml:"size,omitempty" json:"size,omitempty"`
	RingColor   core.Color `yaml:"ringColor,omitempty" json:"ringColor,omitempty"`
	RingWidth   float64    `yaml:"ringWidth,omitempty" json:"ringWidth,omitempty"`
	Label       string     `yaml:"label,omitempty" json:"label,omitempty"`
	Icon        string     `yaml:"icon,omitempty" json:"icon,omitempty"`
	IconAnchor  Anchor     `yaml:"iconPosition,omitempty" json:"iconPosition,omitempty"`
	Participant bool       `yaml:"gameParticipant,omitempty" json:"gameParticipant,omitempty"`

	// Image is attached by the stage's loader; never serialized.
	Image core.Image `yaml:"-" json:"-"`
}

// Validate checks the optional styling fields.
func (c Config) Validate() error {
	if c.Size < 0 {
		return fmt.Errorf("sprite: size must be positive, got %v", c.Size)
	}
	if c.RingWidth < 0 {
		return fmt.Errorf("sprite: ring width must not be negative, got %v", c.RingWidth)
	}
	if c.RingColor != core.ColorNone && !c.RingColor.Valid() {
		return fmt.Errorf("sprite: invalid ring color %q", c.RingColor)
	}
	if _, err := ParseAnchor(string(c.IconAnchor)); err != nil {
		return err
	}
	switch c.Entry {
	case "", EntryDrop, EntryToss:
	default:
		return fmt.Errorf("sprite: unknown entry style %q", c.Entry)
	}
	return nil
}

// New creates a sprite above the top edge of the canvas at a random x.
// It only allocates the record; image loading is the caller's concern.
func New(cfg Config, rt core.RuntimeConfig, rng *rand.Rand) *Sprite {
	size := cfg.Size
	if size <= 0 {
		size = DefaultSize
	}

	ring := cfg.RingColor
	if ring == core.ColorNone {
		ring = core.ColorWhite
	}
	ringWidth := cfg.RingWidth
	if ringWidth == 0 {
		ringWidth = DefaultRingWidth
	}
	anchor, err := ParseAnchor(string(cfg.IconAnchor))
	if err != nil {
		anchor = AnchorBottomRight
	}

	span := rt.CanvasW - size
	if span < 0 {
		span = 0
	}

	var vx float64
	if cfg.Entry == EntryToss {
		vx = 2
		if rng.Float64() < 0.5 {
			vx = -2
		}
	} else {
		vx = (rng.Float64() - 0.5) * 2
	}

	return &Sprite{
		ID:          uuid.NewString(),
		X:           rng.Float64() * span,
		Y:           -size,
		VX:          vx,
		VY:          0,
		Mass:        size / 50,
		Image:       cfg.Image,
		ImageSrc:    cfg.ImageSrc,
		Size:        size,
		TargetSize:  RestSize(size),
		RingColor:   ring,
		RingWidth:   ringWidth,
		Label:       cfg.Label,
		Icon:        cfg.Icon,
		IconAnchor:  anchor,
		Entering:    true,
		Participant: cfg.Participant,
	}
}

// Config returns the creation config that reproduces this sprite's styling.
func (s *Sprite) Config() Config {
	return Config{
		ImageSrc:    s.ImageSrc,
		Size:        s.Size,
		RingColor:   s.RingColor,
		RingWidth:   s.RingWidth,
		Label:       s.Label,
		Icon:        s.Icon,
		IconAnchor:  s.IconAnchor,
		Participant: s.Participant,
	}
}
