package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const bannerArt = `
┏┳┓┏━┓┏━┓╻ ╻╺┳┓
┃┃┃┣━┫┗━┓┣━┫ ┃┃
╹ ╹╹ ╹┗━┛╹ ╹╺┻┛`

const bannerSubtitle = "knot library"

// RenderBanner returns the styled title block. Compact renders a single line
// for short terminals.
func RenderBanner(st Styles, compact bool) string {
	if compact {
		return st.Banner.Render("mashd") + st.Muted.Render(" · "+bannerSubtitle)
	}

	lines := splitLines(bannerArt)
	maxWidth := 0
	for _, line := range lines {
		if w := lipgloss.Width(line); w > maxWidth {
			maxWidth = w
		}
	}

	var rendered strings.Builder
	for _, line := range lines {
		if line == "" {
			continue
		}
		rendered.WriteString(st.Banner.Render(line) + "\n")
	}

	subtitle := st.Muted.
		Width(maxWidth).
		Align(lipgloss.Center).
		Render(bannerSubtitle)
	return rendered.String() + subtitle
}

func splitLines(s string) []string {
	return strings.Split(s, "\n")
}
