package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/stream-orbs/internal/registry"
)

// ResultEntry is one stored score or finishing position.
type ResultEntry struct {
	ID        int64
	ModeID    string
	SpriteID  string
	Label     string
	Score     int
	Slot      int
	CreatedAt time.Time
}

// SaveResult records a mode result. Returns the ID of the inserted record.
func (s *Store) SaveResult(r registry.Result) (int64, error) {
	res, err := s.db.Exec(
		"INSERT INTO results (mode_id, sprite_id, label, score, slot) VALUES (?, ?, ?, ?, ?)",
		r.Mode, r.SpriteID, r.Label, r.Score, r.Slot,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save result: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// TopResults retrieves the best N results for the given mode: highest
// score first, then best (lowest) finishing position, then oldest.
func (s *Store) TopResults(modeID string, limit int) ([]ResultEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, mode_id, sprite_id, label, score, slot, created_at
		 FROM results
		 WHERE mode_id = ?
		 ORDER BY score DESC, slot ASC, id ASC
		 LIMIT ?`,
		modeID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query results: %w", err)
	}
	defer rows.Close()

	var entries []ResultEntry
	for rows.Next() {
		var e ResultEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.ModeID, &e.SpriteID, &e.Label, &e.Score, &e.Slot, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// HighScore returns the highest score for the given mode.
// Returns 0 if no results exist.
func (s *Store) HighScore(modeID string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM results WHERE mode_id = ?",
		modeID,
	).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// ClearResults deletes all results for the given mode.
func (s *Store) ClearResults(modeID string) error {
	if _, err := s.db.Exec("DELETE FROM results WHERE mode_id = ?", modeID); err != nil {
		return fmt.Errorf("storage: cannot clear results: %w", err)
	}
	return nil
}

// ModeStats contains aggregated statistics for a mode.
type ModeStats struct {
	ModeID     string
	Results    int
	HighScore  int
	AvgScore   float64
	TotalScore int64
	Wins       int // Results with slot 1
	LastPlayed time.Time
}

// GetModeStats retrieves aggregated statistics for a specific mode.
func (s *Store) GetModeStats(modeID string) (*ModeStats, error) {
	stats := &ModeStats{ModeID: modeID}

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0), COALESCE(SUM(score), 0),
		        COALESCE(SUM(CASE WHEN slot = 1 THEN 1 ELSE 0 END), 0)
		 FROM results WHERE mode_id = ?`,
		modeID,
	).Scan(&stats.Results, &stats.HighScore, &stats.AvgScore, &stats.TotalScore, &stats.Wins)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get mode stats: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRow(
		`SELECT created_at FROM results WHERE mode_id = ? ORDER BY created_at DESC, id DESC LIMIT 1`,
		modeID,
	).Scan(&lastPlayed)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTime(lastPlayed)
	}

	return stats, nil
}

// GetAllModeStats retrieves statistics for every mode that has results.
func (s *Store) GetAllModeStats() (map[string]*ModeStats, error) {
	rows, err := s.db.Query(
		`SELECT mode_id, COUNT(*), MAX(score), AVG(score), SUM(score),
		        SUM(CASE WHEN slot = 1 THEN 1 ELSE 0 END), MAX(created_at)
		 FROM results
		 GROUP BY mode_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all mode stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*ModeStats)
	for rows.Next() {
		var ms ModeStats
		var lastPlayed any
		if err := rows.Scan(&ms.ModeID, &ms.Results, &ms.HighScore, &ms.AvgScore, &ms.TotalScore, &ms.Wins, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		ms.LastPlayed = parseTime(lastPlayed)
		stats[ms.ModeID] = &ms
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}
