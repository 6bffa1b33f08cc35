package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Tariqve/mashd/internal/theme"
)

// StatusBar renders the bottom hint bar, wrapping hints onto extra rows when
// they do not fit in width.
func StatusBar(p theme.Palette, hints []string, width int) string {
	segment := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(p.Border).
		Padding(0, 1).
		MarginRight(1)
	bar := lipgloss.NewStyle().PaddingLeft(2)

	segments := make([]string, 0, len(hints))
	for _, h := range hints {
		segments = append(segments, segment.Render(h))
	}
	if width <= 0 {
		return bar.Render(lipgloss.JoinHorizontal(lipgloss.Top, segments...))
	}

	rows := wrapSegments(segments, width)
	if len(rows) == 0 {
		return ""
	}
	maxRowWidth := 0
	for _, row := range rows {
		if w := lipgloss.Width(row); w > maxRowWidth {
			maxRowWidth = w
		}
	}
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, lipgloss.NewStyle().Width(maxRowWidth).Align(lipgloss.Center).Render(row))
	}
	block := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return bar.Width(width).Align(lipgloss.Center).Render(block)
}

// Hint formats a single keybind hint like "Scroll ↑/↓".
func Hint(p theme.Palette, key, desc string) string {
	keyCap := lipgloss.NewStyle().
		Foreground(p.Background).
		Background(p.Muted).
		Bold(true).
		Padding(0, 1)
	return lipgloss.NewStyle().Foreground(p.Muted).Render(desc+" ") + keyCap.Render(key)
}

func wrapSegments(segments []string, width int) []string {
	if width <= 0 {
		return []string{lipgloss.JoinHorizontal(lipgloss.Top, segments...)}
	}
	rows := make([]string, 0, 2)
	var current []string
	currentWidth := 0
	for _, seg := range segments {
		segWidth := lipgloss.Width(seg)
		if currentWidth > 0 && currentWidth+segWidth > width {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, current...))
			current = []string{seg}
			currentWidth = segWidth
			continue
		}
		current = append(current, seg)
		currentWidth += segWidth
	}
	if len(current) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, current...))
	}
	return rows
}
