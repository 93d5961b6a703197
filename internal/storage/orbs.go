package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/vovakirdan/stream-orbs/internal/core"
	"github.com/vovakirdan/stream-orbs/internal/sprite"
)

// ErrOrbNotFound is returned when deleting an orb that was never saved.
var ErrOrbNotFound = errors.New("storage: orb not found")

// SavedOrb is one entry of the saved roster.
type SavedOrb struct {
	ID       string
	Position int
	Config   sprite.Config
}

const orbColumns = `id, position, img_src, entry, size, ring_color, ring_width,
	label, icon, icon_position, participant`

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func upsertOrb(db execer, o SavedOrb) error {
	c := o.Config
	_, err := db.Exec(
		`INSERT INTO orbs (`+orbColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			position = excluded.position,
			img_src = excluded.img_src,
			entry = excluded.entry,
			size = excluded.size,
			ring_color = excluded.ring_color,
			ring_width = excluded.ring_width,
			label = excluded.label,
			icon = excluded.icon,
			icon_position = excluded.icon_position,
			participant = excluded.participant,
			updated_at = CURRENT_TIMESTAMP`,
		o.ID, o.Position, c.ImageSrc, string(c.Entry), c.Size, string(c.RingColor), c.RingWidth,
		c.Label, c.Icon, string(c.IconAnchor), c.Participant,
	)
	return err
}

// SaveOrb inserts or updates one roster entry. An empty ID gets a new
// one. Returns the stored ID.
func (s *Store) SaveOrb(o SavedOrb) (string, error) {
	if err := o.Config.Validate(); err != nil {
		return "", fmt.Errorf("storage: cannot save orb: %w", err)
	}
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if err := upsertOrb(s.db, o); err != nil {
		return "", fmt.Errorf("storage: cannot save orb: %w", err)
	}
	return o.ID, nil
}

// ReplaceOrbs replaces the whole roster in one transaction. Positions
// follow the slice order.
func (s *Store) ReplaceOrbs(cfgs []sprite.Config) error {
	for i, c := range cfgs {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("storage: orb %d: %w", i, err)
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.Exec("DELETE FROM orbs"); err != nil {
		return fmt.Errorf("storage: cannot clear orbs: %w", err)
	}
	for i, c := range cfgs {
		if err := upsertOrb(tx, SavedOrb{ID: uuid.NewString(), Position: i, Config: c}); err != nil {
			return fmt.Errorf("storage: cannot save orb %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit roster: %w", err)
	}
	return nil
}

// Orbs returns the saved roster ordered by position.
func (s *Store) Orbs() ([]SavedOrb, error) {
	rows, err := s.db.Query(`SELECT ` + orbColumns + ` FROM orbs ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query orbs: %w", err)
	}
	defer rows.Close()

	var out []SavedOrb
	for rows.Next() {
		var (
			o                   SavedOrb
			entry, ring, anchor string
		)
		if err := rows.Scan(
			&o.ID, &o.Position, &o.Config.ImageSrc, &entry, &o.Config.Size, &ring,
			&o.Config.RingWidth, &o.Config.Label, &o.Config.Icon, &anchor, &o.Config.Participant,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan orb: %w", err)
		}
		o.Config.Entry = sprite.EntryStyle(entry)
		o.Config.RingColor = core.Color(ring)
		o.Config.IconAnchor = sprite.Anchor(anchor)
		out = append(out, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// DeleteOrb removes one roster entry.
func (s *Store) DeleteOrb(id string) error {
	res, err := s.db.Exec("DELETE FROM orbs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("storage: cannot delete orb: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %q", ErrOrbNotFound, id)
	}
	return nil
}

// ClearOrbs deletes the whole roster.
func (s *Store) ClearOrbs() error {
	if _, err := s.db.Exec("DELETE FROM orbs"); err != nil {
		return fmt.Errorf("storage: cannot clear orbs: %w", err)
	}
	return nil
}
