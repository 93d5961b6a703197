package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/stream-orbs/internal/core"
	"github.com/vovakirdan/stream-orbs/internal/registry"
	"github.com/vovakirdan/stream-orbs/internal/stage"
)

// Rows taken by the status and help lines below the stage.
const chromeRows = 2

// Model is the Bubble Tea model for the orb stage. By default it owns the
// simulation and steps it on every tick; display models only draw a stage
// that is driven elsewhere.
type Model struct {
	stage     *stage.Stage
	screen    *core.Screen
	keys      KeyMap
	help      help.Model
	menu      *MenuModel
	input     core.InputFrame
	interval  time.Duration
	drive     bool
	readOnly  bool
	status    string
	statusErr bool
	shotDir   string
	width     int
	quitting  bool
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// AsDisplay makes the model a read-only view of a stage driven elsewhere.
func AsDisplay() ModelOption {
	return func(m *Model) {
		m.drive = false
		m.readOnly = true
	}
}

// AsRemoteAdmin re-enables controls on a display model. The stage is still
// stepped elsewhere.
func AsRemoteAdmin() ModelOption {
	return func(m *Model) { m.readOnly = false }
}

// WithScreenshotDir sets where ctrl+s writes screenshots.
func WithScreenshotDir(dir string) ModelOption {
	return func(m *Model) { m.shotDir = dir }
}

// NewModel creates a Bubble Tea model over st sized to width x height cells.
func NewModel(st *stage.Stage, width, height int, opts ...ModelOption) Model {
	rt := st.Runtime()
	m := Model{
		stage:    st,
		screen:   core.NewScreen(width, max(height-chromeRows, 1), rt.CanvasW, rt.CanvasH),
		keys:     DefaultKeyMap(),
		help:     help.New(),
		input:    core.NewInputFrame(),
		interval: rt.FrameInterval(),
		drive:    true,
		shotDir:  filepath.Join(os.Getenv("HOME"), ".orbs", "screenshots"),
		width:    width,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.help.Width = width
	return m
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.interval)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.menu != nil {
		menu := m.menu.Update(msg)
		if id := menu.Selected(); id != "" {
			m.switchMode(id)
		}
		if menu.Closed() {
			m.menu = nil
		} else {
			m.menu = &menu
		}
		return m, nil
	}

	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	switch a := m.keys.Action(msg); a {
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit
	case core.ActionHelp:
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case core.ActionNone:
	default:
		if !m.readOnly {
			m.input.Set(a)
		}
		return m, nil
	}

	if m.readOnly {
		return m, nil
	}

	// Number keys jump straight to a registered mode.
	if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
		if list := registry.List(); int(s[0]-'1') < len(list) {
			m.switchMode(list[s[0]-'1'].ID)
		}
		return m, nil
	}

	if key.Matches(msg, m.keys.Modes) {
		menu := NewMenuModel(m.stage.Mode())
		m.menu = &menu
	}
	return m, nil
}

func (m *Model) switchMode(id string) {
	if err := m.stage.SwitchMode(id); err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.setStatus("mode: "+m.stage.Mode(), false)
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.help.Width = msg.Width
	m.screen.Resize(msg.Width, max(msg.Height-chromeRows, 1))
	return m, nil
}

// handleTick applies the actions collected since the last tick and advances
// the stage.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	for _, a := range m.input.List() {
		if err := m.stage.Handle(a); err != nil {
			m.setStatus(err.Error(), true)
		} else if a == core.ActionNextMode || a == core.ActionPrevMode {
			m.setStatus("mode: "+m.stage.Mode(), false)
		}
	}
	m.input.Clear()

	if m.drive {
		m.stage.Frame(m.screen)
	} else {
		m.stage.Draw(m.screen)
	}

	return m, tickCmd(m.interval)
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	if err := os.MkdirAll(m.shotDir, 0o755); err != nil {
		m.setStatus(err.Error(), true)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(m.shotDir, fmt.Sprintf("%s_%s.txt", m.stage.Mode(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.setStatus("saved "+path, false)
}

// Screen returns the cell buffer the stage is drawn into.
func (m Model) Screen() *core.Screen {
	return m.screen
}

// Status returns the current status line message.
func (m Model) Status() string {
	return m.status
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	if m.menu != nil {
		b.WriteString(m.menu.View(m.width))
	} else {
		b.WriteString(RenderScreen(m.screen))
	}
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	if !m.readOnly {
		b.WriteString("\n")
		helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
		b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	}
	return b.String()
}

func (m Model) statusLine() string {
	info := fmt.Sprintf(" %s | orbs: %d | tick: %d ", m.stage.Mode(), m.stage.Len(), m.stage.Tick())
	line := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Render(info)
	if m.status == "" {
		return line
	}
	color := lipgloss.Color("114")
	if m.statusErr {
		color = lipgloss.Color("203")
	}
	return line + lipgloss.NewStyle().Foreground(color).Render(m.status)
}

// Run starts the admin console over st until the user quits.
func Run(st *stage.Stage, width, height int, opts ...ModelOption) error {
	model := NewModel(st, width, height, opts...)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
