package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Tariqve/mashd/internal/highlight"
	"github.com/Tariqve/mashd/internal/knot"
	"github.com/Tariqve/mashd/internal/ui/components"
)

const viewerMinContentWidth = 10

func viewerContentWidth(st Styles, width int) int {
	if width <= 0 {
		return 0
	}
	contentWidth := width - st.ViewerBox.GetHorizontalFrameSize()
	if contentWidth < viewerMinContentWidth {
		contentWidth = viewerMinContentWidth
	}
	return contentWidth
}

func renderViewerBox(st Styles, content string, width, height int) string {
	if width <= 0 {
		return ""
	}
	// lipgloss.Style.Width includes padding but excludes borders.
	borderW := st.ViewerBox.GetBorderLeftSize() + st.ViewerBox.GetBorderRightSize()
	inner := width - borderW
	if inner < 1 {
		inner = 1
	}
	box := st.ViewerBox.Width(inner)
	if borderH := st.ViewerBox.GetBorderTopSize() + st.ViewerBox.GetBorderBottomSize(); height > borderH {
		box = box.Height(height - borderH)
	}
	return box.Render(content)
}

func renderViewerRow(st Styles, label, value string, width int) string {
	label = components.SanitizeOneLine(label)
	value = components.SanitizeOneLine(value)

	prefixWidth := lipgloss.Width(label) + 2 // ": "
	maxValue := width - prefixWidth
	if maxValue < 4 {
		maxValue = 4
	}
	value = components.ClampTextWidth(value, maxValue)
	return st.MetaKey.Render(label) + st.MetaPunct.Render(": ") + st.MetaValue.Render(value)
}

// renderViewer shows the selected knot with highlighted code, or a
// placeholder when nothing is selected.
func renderViewer(st Styles, k *knot.Knot, width, height int) string {
	contentWidth := viewerContentWidth(st, width)
	if k == nil {
		body := st.Muted.Render("No knot selected") + "\n\n" +
			st.Muted.Render("Pick one from the library (ctrl+b)")
		return renderViewerBox(st, body, width, height)
	}

	lines := []string{
		st.Banner.Render(components.ClampTextWidth(k.Name, contentWidth)),
		"",
		renderViewerRow(st, "File", knot.Filename(k.Name), contentWidth),
	}
	if !k.UpdatedAt.IsZero() {
		lines = append(lines, renderViewerRow(st, "Updated", k.UpdatedAt.Local().Format("2006-01-02 15:04"), contentWidth))
	}
	lines = append(lines, st.Rule(contentWidth))

	code := renderViewerCode(st, k.Code, contentWidth, viewerCodeLines(height, len(lines)))
	lines = append(lines, code)
	return renderViewerBox(st, strings.Join(lines, "\n"), width, height)
}

func viewerCodeLines(height, used int) int {
	if height <= 0 {
		return 40
	}
	// Border and vertical padding take four lines.
	n := height - 4 - used
	if n < 3 {
		n = 3
	}
	return n
}

func renderViewerCode(st Styles, code string, width, maxLines int) string {
	if strings.TrimSpace(code) == "" {
		return st.Muted.Render("(empty)")
	}
	lines := strings.Split(strings.TrimRight(highlight.Code(components.SanitizeText(code), st.Palette.CodeStyle), "\n"), "\n")
	more := 0
	if len(lines) > maxLines {
		more = len(lines) - maxLines + 1
		lines = lines[:maxLines-1]
	}
	clip := lipgloss.NewStyle().MaxWidth(width)
	for i, line := range lines {
		lines[i] = clip.Render(line)
	}
	if more > 0 {
		lines = append(lines, st.Muted.Render(fmt.Sprintf("… %d more lines", more)))
	}
	return strings.Join(lines, "\n")
}
