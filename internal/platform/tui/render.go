package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/orb-runner/internal/core"
)

// colorStyles maps each cell role to a 256-color lipgloss style.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault: lipgloss.NewStyle(),

	core.ColorOrb:      lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true),
	core.ColorBarrier:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	core.ColorPillar:   lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorRune:     lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true),
	core.ColorCrystal:  lipgloss.NewStyle().Foreground(lipgloss.Color("201")),
	core.ColorFragment: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	core.ColorFlash:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	core.ColorWall:     lipgloss.NewStyle().Foreground(lipgloss.Color("25")),

	core.ColorLabel:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	core.ColorProgress:  lipgloss.NewStyle().Foreground(lipgloss.Color("37")),
	core.ColorScore:     lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true),
	core.ColorReady:     lipgloss.NewStyle().Foreground(lipgloss.Color("87")).Bold(true),
	core.ColorPaused:    lipgloss.NewStyle().Foreground(lipgloss.Color("221")),
	core.ColorFailed:    lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
	core.ColorCompleted: lipgloss.NewStyle().Foreground(lipgloss.Color("84")).Bold(true),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Runs of cells sharing a role are styled together.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y, h := 0, s.Height(); y < h; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			role := s.GetCell(x, y).Color
			start := x
			for x < s.Width() && s.GetCell(x, y).Color == role {
				x++
			}
			sb.WriteString(styleFor(role).Render(cellText(s, y, start, x)))
		}
	}
	return sb.String()
}

// styleFor falls back to the unstyled default for unknown roles.
func styleFor(c core.Color) lipgloss.Style {
	if style, ok := colorStyles[c]; ok {
		return style
	}
	return colorStyles[core.ColorDefault]
}

// cellText returns the runes of row y in [from, to).
func cellText(s *core.Screen, y, from, to int) string {
	runes := make([]rune, 0, to-from)
	for x := from; x < to; x++ {
		runes = append(runes, s.GetCell(x, y).Rune)
	}
	return string(runes)
}
