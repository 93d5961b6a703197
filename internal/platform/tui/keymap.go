package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/stream-orbs/internal/core"
)

// KeyMap defines the admin key bindings. Each binding maps to one stage
// action so the terminal and websocket admins stay interchangeable.
type KeyMap struct {
	Start    key.Binding
	Reset    key.Binding
	Explode  key.Binding
	RerunAll key.Binding
	NextMode key.Binding
	PrevMode key.Binding
	Add      key.Binding
	Clear    key.Binding
	Modes    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.NextMode, k.Explode, k.Modes, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Add, k.Clear, k.Explode},
		{k.NextMode, k.PrevMode, k.Modes},
		{k.Start, k.Reset, k.RerunAll},
		{k.Help, k.Quit},
	}
}

// DefaultKeyMap returns default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Start: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "start race"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset race"),
		),
		Explode: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "explode"),
		),
		RerunAll: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "rerun all"),
		),
		NextMode: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next mode"),
		),
		PrevMode: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "prev mode"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add orb"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear"),
		),
		Modes: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "modes"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Action translates a key message to an admin action.
// Returns ActionNone for unbound keys.
func (k KeyMap) Action(msg tea.KeyMsg) core.Action {
	switch {
	case key.Matches(msg, k.Quit):
		return core.ActionQuit
	case key.Matches(msg, k.Help):
		return core.ActionHelp
	case key.Matches(msg, k.Start):
		return core.ActionStartRace
	case key.Matches(msg, k.Reset):
		return core.ActionResetRace
	case key.Matches(msg, k.Explode):
		return core.ActionExplode
	case key.Matches(msg, k.RerunAll):
		return core.ActionRerunAll
	case key.Matches(msg, k.NextMode):
		return core.ActionNextMode
	case key.Matches(msg, k.PrevMode):
		return core.ActionPrevMode
	case key.Matches(msg, k.Add):
		return core.ActionAddOrb
	case key.Matches(msg, k.Clear):
		return core.ActionClear
	}
	return core.ActionNone
}

// MenuAction represents a picker-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
)

// MapKeyToMenuAction translates a key to a picker action.
func MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc", "m":
		return MenuActionBack
	}
	return MenuActionNone
}
