package tui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/stream-orbs/internal/core"
)

// styleCache maps hex colors to lipgloss styles. Several SSH sessions
// render concurrently, so access is locked.
var styleCache = struct {
	sync.RWMutex
	m map[core.Color]lipgloss.Style
}{m: map[core.Color]lipgloss.Style{core.ColorNone: lipgloss.NewStyle()}}

func colorStyle(c core.Color) lipgloss.Style {
	styleCache.RLock()
	style, ok := styleCache.m[c]
	styleCache.RUnlock()
	if ok {
		return style
	}

	style = lipgloss.NewStyle()
	if c.Valid() {
		style = style.Foreground(lipgloss.Color(string(c)))
	}
	styleCache.Lock()
	styleCache.m[c] = style
	styleCache.Unlock()
	return style
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			cell := s.GetCell(x, y)
			startColor := cell.Color

			var run strings.Builder
			for x < s.Width() {
				cell = s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			sb.WriteString(colorStyle(startColor).Render(run.String()))
		}
	}
	return sb.String()
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}
