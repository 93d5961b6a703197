package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/stream-orbs/internal/registry"
)

// MenuModel is the mode picker overlay of the admin console.
type MenuModel struct {
	items    []registry.ModeInfo
	cursor   int
	current  string
	selected string // Set when the user picks a mode
	closed   bool
}

// NewMenuModel creates a picker with the cursor on the active mode.
func NewMenuModel(current string) MenuModel {
	m := MenuModel{items: registry.List(), current: current}
	for i, info := range m.items {
		if info.ID == current {
			m.cursor = i
		}
	}
	return m
}

// Update handles a key press. The picker is passive: the admin model reads
// Selected and Closed after each call.
func (m MenuModel) Update(msg tea.KeyMsg) MenuModel {
	m.selected = ""
	if len(m.items) == 0 {
		m.closed = true
		return m
	}

	switch MapKeyToMenuAction(msg) {
	case MenuActionUp:
		m.cursor--
		if m.cursor < 0 {
			m.cursor = len(m.items) - 1
		}
	case MenuActionDown:
		m.cursor = (m.cursor + 1) % len(m.items)
	case MenuActionSelect:
		m.selected = m.items[m.cursor].ID
		m.closed = true
	case MenuActionBack:
		m.closed = true
	}
	return m
}

// Selected returns the chosen mode ID, or "" when none was picked.
func (m MenuModel) Selected() string {
	return m.selected
}

// Closed reports whether the picker should be dismissed.
func (m MenuModel) Closed() bool {
	return m.closed
}

// View renders the picker centered in the given width.
func (m MenuModel) View(width int) string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	b.WriteString(centerText(titleStyle.Render("SELECT MODE"), width))
	b.WriteString("\n\n")

	selectedStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	for i, info := range m.items {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.cursor {
			cursor = "> "
			style = selectedStyle
		}
		marker := ""
		if info.ID == m.current {
			marker = " *"
		}
		line := style.Render(fmt.Sprintf("%s%d. %s%s", cursor, i+1, info.Title, marker))
		b.WriteString(centerText(line, width))
		b.WriteString("\n")
		if i == m.cursor && info.Description != "" {
			b.WriteString(centerText(descStyle.Render(info.Description), width))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(centerText(descStyle.Render("up/down select, enter switch, esc back"), width))
	return b.String()
}
