package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tariqve/mashd/internal/ui/components"
)

// renderAndWait draws the panel as a full frame and waits until the zone
// manager has recorded every id in want.
func renderAndWait(t *testing.T, p PanelModel, want ...string) string {
	t.Helper()
	frame := p.Scan(p.View())
	zr, ok := p.regions.(*zoneRegions)
	require.True(t, ok)
	require.Eventually(t, func() bool {
		for _, id := range want {
			if zr.manager.Get(id) == nil {
				return false
			}
		}
		return true
	}, time.Second, 5*time.Millisecond)
	return components.SanitizeText(frame)
}

// cellOf returns the screen cell where text first appears on a line that
// also contains anchor.
func cellOf(t *testing.T, frame, anchor, text string) (int, int) {
	t.Helper()
	for y, line := range strings.Split(frame, "\n") {
		if !strings.Contains(line, anchor) {
			continue
		}
		if i := strings.Index(line, text); i >= 0 {
			return lipgloss.Width(line[:i]), y
		}
	}
	t.Fatalf("%q not found next to %q in:\n%s", text, anchor, frame)
	return 0, 0
}

func leftClick(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func TestPanelWithBubblezoneRegions(t *testing.T) {
	s := &fakeStore{knots: testKnots(), menuOpen: true}
	tp := &fakeTheme{dark: true}
	p := NewPanelModel(s, tp, t.TempDir())
	p.SetSize(32, 30, 120, 40)
	p, _ = p.Mount()
	t.Cleanup(func() { p.Unmount() })

	frame := renderAndWait(t, p, rowZoneID("a"), rowZoneID("b"), menuZoneID("a"))

	x, y := cellOf(t, frame, "Beta", "Beta")
	p, _ = p.Update(leftClick(x, y))
	assert.Equal(t, "b", s.selected)

	x, y = cellOf(t, frame, "Alpha", "⋯")
	p, _ = p.Update(leftClick(x, y))
	require.True(t, p.PopoverOpen())

	frame = renderAndWait(t, p, zonePopover, actionZoneID(actionEdit))
	assert.Contains(t, frame, "Download")

	p, _ = p.Update(leftClick(100, 0))
	assert.False(t, p.PopoverOpen())
	assert.Equal(t, "b", s.selected)
	assert.Zero(t, tp.toggles)
}
