package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Tariqve/mashd/internal/theme"
)

// ConfirmDialog renders a yes/no confirmation.
func ConfirmDialog(p theme.Palette, title, message string) string {
	header := lipgloss.NewStyle().
		Foreground(p.Primary).
		Bold(true).
		Render(title)

	muted := lipgloss.NewStyle().Foreground(p.Muted)
	body := muted.Render(message)
	hint := muted.Render("\ny: confirm | n: cancel")

	return boxStyle(p.Border).Width(innerWidth(40)).Render(header + "\n\n" + body + hint)
}
