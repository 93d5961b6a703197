package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/stream-orbs/internal/storage"
)

type fakeResults struct {
	byMode map[string][]storage.ResultEntry
	err    error
	asked  []string
}

func (f *fakeResults) TopResults(modeID string, limit int) ([]storage.ResultEntry, error) {
	f.asked = append(f.asked, modeID)
	return f.byMode[modeID], f.err
}

func TestScoreboardRows(t *testing.T) {
	src := &fakeResults{byMode: map[string][]storage.ResultEntry{
		"race": {
			{SpriteID: "0123456789abcdef", Slot: 1, CreatedAt: time.Now()},
			{SpriteID: "b", Label: "bob", Slot: 2, CreatedAt: time.Now()},
		},
		"pachinko": {
			{SpriteID: "c", Label: "carol", Score: 100, CreatedAt: time.Now()},
		},
	}}

	m := NewScoreboardModel(src, 100, 30)
	m.SelectMode("duckrace")

	rows := m.Rows()
	if len(rows) != 2 {
		t.Fatalf("Rows() = %d, expected 2", len(rows))
	}
	if rows[0][1] != "01234567" || rows[0][2] != "1st" {
		t.Errorf("row 0 = %v, expected short id and 1st place", rows[0])
	}
	if rows[1][1] != "bob" || rows[1][2] != "2nd" {
		t.Errorf("row 1 = %v, expected bob in 2nd place", rows[1])
	}
	if got, expected := m.Summary(), "2 finishes | most wins: 01234567 (1)"; got != expected {
		t.Errorf("Summary() = %q, expected %q", got, expected)
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(ScoreboardModel)
	if got := src.asked[len(src.asked)-1]; got != "snake" {
		t.Errorf("tab loaded %q, expected snake", got)
	}
	if len(m.Rows()) != 0 {
		t.Errorf("Rows() = %d for snake, expected 0", len(m.Rows()))
	}
	if !strings.Contains(m.View(), "No results recorded yet") {
		t.Error("View() should show the empty message")
	}
}

func TestScoreboardError(t *testing.T) {
	m := NewScoreboardModel(&fakeResults{err: errors.New("disk on fire")}, 60, 20)
	if !strings.Contains(m.View(), "disk on fire") {
		t.Error("View() should show the load error")
	}
}

func TestScoreboardBack(t *testing.T) {
	m := NewScoreboardModel(nil, 60, 20)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil || !next.(ScoreboardModel).IsGoingBack() {
		t.Error("esc should go back")
	}
}

func TestScoreboardPachinkoColumns(t *testing.T) {
	src := &fakeResults{byMode: map[string][]storage.ResultEntry{
		"pachinko": {
			{SpriteID: "c", Label: "carol", Score: 100, Slot: 3, CreatedAt: time.Now()},
			{SpriteID: "d", Label: "dave", Score: 10, Slot: 0, CreatedAt: time.Now()},
		},
	}}

	m := NewScoreboardModel(src, 80, 24)
	m.SelectMode("pachinko")

	rows := m.Rows()
	if len(rows) != 2 {
		t.Fatalf("Rows() = %d, expected 2", len(rows))
	}
	if rows[0][2] != "100" || rows[0][3] != "4" {
		t.Errorf("row 0 = %v, expected 100 points in slot 4", rows[0])
	}
	if rows[1][3] != "1" {
		t.Errorf("row 1 slot = %q, expected 1", rows[1][3])
	}
	if got, expected := m.Summary(), "2 drops | 110 points | best: carol"; got != expected {
		t.Errorf("Summary() = %q, expected %q", got, expected)
	}
	if !strings.Contains(m.View(), "110 points") {
		t.Error("View() should include the summary")
	}
}

func TestOrdinal(t *testing.T) {
	tests := []struct {
		n        int
		expected string
	}{
		{0, "-"},
		{1, "1st"},
		{2, "2nd"},
		{3, "3rd"},
		{4, "4th"},
		{11, "11th"},
		{12, "12th"},
		{21, "21st"},
		{113, "113th"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := ordinal(tt.n); got != tt.expected {
				t.Errorf("ordinal(%d) = %q, expected %q", tt.n, got, tt.expected)
			}
		})
	}
}
