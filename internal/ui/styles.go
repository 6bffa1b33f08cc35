package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Tariqve/mashd/internal/theme"
)

// --- Reusable Styles ---

// Styles are rebuilt from the palette on every render so a theme toggle takes
// effect on the next frame.
type Styles struct {
	Palette theme.Palette

	Banner       lipgloss.Style
	BannerAccent lipgloss.Style
	Header       lipgloss.Style
	Selected     lipgloss.Style
	Cursor       lipgloss.Style
	Normal       lipgloss.Style
	Muted        lipgloss.Style
	Success      lipgloss.Style
	Error        lipgloss.Style
	Warning      lipgloss.Style
	Accent       lipgloss.Style
	Danger       lipgloss.Style
	Divider      lipgloss.Style
	MetaKey      lipgloss.Style
	MetaValue    lipgloss.Style
	MetaPunct    lipgloss.Style

	PanelBox    lipgloss.Style
	ViewerBox   lipgloss.Style
	ItemActive  lipgloss.Style
	ItemNormal  lipgloss.Style
	ModalBox    lipgloss.Style
	FieldLabel  lipgloss.Style
	FieldActive lipgloss.Style
}

func newStyles(p theme.Palette) Styles {
	return Styles{
		Palette: p,

		Banner: lipgloss.NewStyle().
			Foreground(p.Primary).
			Bold(true),
		BannerAccent: lipgloss.NewStyle().
			Foreground(p.Secondary),
		Header: lipgloss.NewStyle().
			Foreground(p.Secondary).
			Bold(true),
		Selected: lipgloss.NewStyle().
			Foreground(p.Primary).
			Bold(true),
		Cursor: lipgloss.NewStyle().
			Foreground(p.Accent).
			Bold(true),
		Normal:  lipgloss.NewStyle().Foreground(p.Text),
		Muted:   lipgloss.NewStyle().Foreground(p.Muted),
		Success: lipgloss.NewStyle().Foreground(p.Success),
		Error: lipgloss.NewStyle().
			Foreground(p.Error).
			Bold(true),
		Warning: lipgloss.NewStyle().Foreground(p.Warning),
		Accent:  lipgloss.NewStyle().Foreground(p.Accent),
		Danger:  lipgloss.NewStyle().Foreground(p.Danger),
		Divider: lipgloss.NewStyle().Foreground(p.Border),
		MetaKey: lipgloss.NewStyle().
			Foreground(p.Secondary).
			Bold(true),
		MetaValue: lipgloss.NewStyle().Foreground(p.Text),
		MetaPunct: lipgloss.NewStyle().Foreground(p.Muted),

		PanelBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(0, 1),
		ViewerBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(1, 2),
		ItemActive: lipgloss.NewStyle().
			Foreground(p.Background).
			Background(p.Primary).
			Bold(true).
			Padding(0, 1),
		ItemNormal: lipgloss.NewStyle().
			Foreground(p.Text).
			Padding(0, 1),
		ModalBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Primary).
			Padding(1, 2),
		FieldLabel: lipgloss.NewStyle().
			Foreground(p.Muted),
		FieldActive: lipgloss.NewStyle().
			Foreground(p.Primary).
			Bold(true),
	}
}

// Rule returns a horizontal line.
func (s Styles) Rule(width int) string {
	if width <= 0 {
		return ""
	}
	return s.Divider.Render(strings.Repeat("─", width))
}
