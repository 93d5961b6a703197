package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/stream-orbs/internal/modes/pachinko"
	"github.com/vovakirdan/stream-orbs/internal/modes/race"
	"github.com/vovakirdan/stream-orbs/internal/registry"
	"github.com/vovakirdan/stream-orbs/internal/storage"
)

const maxResults = 100

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextMode key.Binding
	PrevMode key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextMode, k.PrevMode, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("up/k", "scroll up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("down/j", "scroll down")),
		NextMode: key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "next mode")),
		PrevMode: key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("S-tab", "prev mode")),
		Back:     key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc/b", "back")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ResultSource provides stored results for the scoreboard.
type ResultSource interface {
	TopResults(modeID string, limit int) ([]storage.ResultEntry, error)
}

// resultColumn is one scoreboard column: a header and how to fill it.
type resultColumn struct {
	title string
	width int
	cell  func(rank int, r storage.ResultEntry) string
}

var (
	rankColumn = resultColumn{"Rank", 6, func(rank int, _ storage.ResultEntry) string {
		return fmt.Sprintf("#%d", rank)
	}}
	orbColumn = resultColumn{"Orb", 14, func(_ int, r storage.ResultEntry) string {
		if r.Label != "" {
			return r.Label
		}
		return shortID(r.SpriteID)
	}}
	dateColumn = resultColumn{"Date", 14, func(_ int, r storage.ResultEntry) string {
		return r.CreatedAt.Format("Jan 02 15:04")
	}}
)

// resultColumns picks the columns that mean something for a mode's results:
// races record a finishing place, pachinko a slot and its points.
func resultColumns(modeID string) []resultColumn {
	switch modeID {
	case race.ID:
		return []resultColumn{rankColumn, orbColumn, {"Place", 7, func(_ int, r storage.ResultEntry) string {
			return ordinal(r.Slot)
		}}, dateColumn}
	case pachinko.ID:
		return []resultColumn{rankColumn, orbColumn, {"Points", 8, func(_ int, r storage.ResultEntry) string {
			return strconv.Itoa(r.Score)
		}}, {"Slot", 5, func(_ int, r storage.ResultEntry) string {
			return strconv.Itoa(r.Slot + 1)
		}}, dateColumn}
	default:
		return []resultColumn{rankColumn, orbColumn, {"Score", 8, func(_ int, r storage.ResultEntry) string {
			return strconv.Itoa(r.Score)
		}}, dateColumn}
	}
}

func ordinal(n int) string {
	if n <= 0 {
		return "-"
	}
	suffix := "th"
	switch {
	case n%100 >= 11 && n%100 <= 13:
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}
	return strconv.Itoa(n) + suffix
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// ScoreboardModel is the Bubble Tea model for the results screen.
type ScoreboardModel struct {
	modes     []registry.ModeInfo
	cursor    int
	source    ResultSource
	results   []storage.ResultEntry
	err       error
	table     table.Model
	help      help.Model
	keys      ScoreboardKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewScoreboardModel creates a new scoreboard model on the first mode.
func NewScoreboardModel(source ResultSource, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		modes:  registry.List(),
		source: source,
		keys:   DefaultScoreboardKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.help.Width = width
	m.load()
	return m
}

// SelectMode moves to the given mode (aliases allowed).
func (m *ScoreboardModel) SelectMode(id string) {
	if canonical, ok := registry.Resolve(id); ok {
		id = canonical
	}
	for i, info := range m.modes {
		if info.ID == id {
			m.cursor = i
			m.load()
			return
		}
	}
}

func (m *ScoreboardModel) modeID() string {
	if len(m.modes) == 0 {
		return ""
	}
	return m.modes[m.cursor].ID
}

// load fetches the current mode's results and rebuilds the table around
// that mode's columns.
func (m *ScoreboardModel) load() {
	id := m.modeID()
	m.results, m.err = nil, nil
	if m.source != nil && id != "" {
		m.results, m.err = m.source.TopResults(id, maxResults)
	}

	cols := resultColumns(id)
	columns := make([]table.Column, len(cols))
	for i, c := range cols {
		columns[i] = table.Column{Title: c.title, Width: c.width}
	}
	rows := make([]table.Row, len(m.results))
	for i, r := range m.results {
		row := make(table.Row, len(cols))
		for j, c := range cols {
			row[j] = c.cell(i+1, r)
		}
		rows[i] = row
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(max(m.height-9, 3)),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	m.table = t
}

// Rows returns the rendered table rows.
func (m ScoreboardModel) Rows() []table.Row {
	return m.table.Rows()
}

// Summary describes the loaded results in one line: the leading orb of a
// race by wins, or the pachinko points collected.
func (m ScoreboardModel) Summary() string {
	if len(m.results) == 0 {
		return ""
	}
	switch m.modeID() {
	case race.ID:
		wins := make(map[string]int)
		best, bestWins := "", 0
		for _, r := range m.results {
			if r.Slot != 1 {
				continue
			}
			name := orbColumn.cell(0, r)
			wins[name]++
			if wins[name] > bestWins {
				best, bestWins = name, wins[name]
			}
		}
		if bestWins == 0 {
			return fmt.Sprintf("%d finishes", len(m.results))
		}
		return fmt.Sprintf("%d finishes | most wins: %s (%d)", len(m.results), best, bestWins)
	case pachinko.ID:
		total := 0
		for _, r := range m.results {
			total += r.Score
		}
		return fmt.Sprintf("%d drops | %d points | best: %s", len(m.results), total, orbColumn.cell(0, m.results[0]))
	default:
		return fmt.Sprintf("%d results", len(m.results))
	}
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.NextMode):
			m.step(1)
			return m, nil
		case key.Matches(msg, m.keys.PrevMode):
			m.step(-1)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.load()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *ScoreboardModel) step(delta int) {
	if len(m.modes) == 0 {
		return
	}
	m.cursor = (m.cursor + delta + len(m.modes)) % len(m.modes)
	m.load()
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	b.WriteString(titleStyle.Render(centerText("RESULTS", m.width)))
	b.WriteString("\n")
	b.WriteString(centerText(m.modeStrip(), m.width))
	b.WriteString("\n\n")

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	switch {
	case m.err != nil:
		b.WriteString(boxStyle.Render(dimStyle.Render("Cannot load results:\n" + m.err.Error())))
	case len(m.results) == 0:
		b.WriteString(boxStyle.Render(dimStyle.Render("No results recorded yet.\nRun a race or a pachinko round!")))
	default:
		b.WriteString(boxStyle.Render(m.table.View()))
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(m.Summary()))
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// modeStrip lists the mode ids with the current one highlighted.
func (m ScoreboardModel) modeStrip() string {
	active := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	idle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	parts := make([]string, len(m.modes))
	for i, info := range m.modes {
		if i == m.cursor {
			parts[i] = active.Render(" " + info.Title + " ")
		} else {
			parts[i] = idle.Render(" " + info.ID + " ")
		}
	}
	return strings.Join(parts, "")
}

// IsGoingBack returns true if user wants to go back.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the results screen, starting on the given mode when set.
// Returns true if user wants to go back, false if quitting.
func RunScoreboard(source ResultSource, modeID string, width, height int) (goBack bool, err error) {
	model := NewScoreboardModel(source, width, height)
	if modeID != "" {
		model.SelectMode(modeID)
	}

	finalModel, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		return false, err
	}
	m, ok := finalModel.(ScoreboardModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
