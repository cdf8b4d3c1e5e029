package tui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-starwars/internal/core"
)

type styleKey struct {
	fg   core.RGB
	bold bool
}

var (
	stylesMu sync.Mutex
	styles   = make(map[styleKey]lipgloss.Style)
)

// styleFor returns the cached true-color style of a cell.
func styleFor(k styleKey) lipgloss.Style {
	stylesMu.Lock()
	defer stylesMu.Unlock()

	if s, ok := styles[k]; ok {
		return s
	}
	s := lipgloss.NewStyle().Bold(k.bold)
	if !k.fg.IsZero() {
		s = s.Foreground(lipgloss.Color(k.fg.Hex()))
	}
	styles[k] = s
	return s
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same style to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	var run strings.Builder
	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			cell := s.GetCell(x, y)
			start := styleKey{fg: cell.FG, bold: cell.Bold}

			run.Reset()
			for x < s.Width() {
				cell = s.GetCell(x, y)
				if (styleKey{fg: cell.FG, bold: cell.Bold}) != start {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			if start == (styleKey{}) {
				sb.WriteString(run.String())
				continue
			}
			sb.WriteString(styleFor(start).Render(run.String()))
		}
	}
	return sb.String()
}
