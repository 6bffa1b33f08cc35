package ui

import (
	"context"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Tariqve/mashd/internal/knot"
	"github.com/Tariqve/mashd/internal/store"
)

type fakeStore struct {
	knots    []knot.Knot
	selected string
	menuOpen bool
	selects  []string
	deletes  []string
	updates  []knot.Knot
	failSave error
}

func (s *fakeStore) Knots() []knot.Knot {
	out := make([]knot.Knot, len(s.knots))
	copy(out, s.knots)
	return out
}

func (s *fakeStore) Selected() string { return s.selected }
func (s *fakeStore) MenuOpen() bool   { return s.menuOpen }

func (s *fakeStore) SelectKnot(id string) {
	s.selects = append(s.selects, id)
	if knot.Contains(s.knots, id) {
		s.selected = id
	}
}

func (s *fakeStore) DeleteKnot(_ context.Context, id string) error {
	s.deletes = append(s.deletes, id)
	if !s.remove(id) {
		return fmt.Errorf("%w: %s", store.ErrNotFound, id)
	}
	return nil
}

func (s *fakeStore) UpdateKnot(_ context.Context, k knot.Knot) (knot.Knot, error) {
	if s.failSave != nil {
		return knot.Knot{}, s.failSave
	}
	for i := range s.knots {
		if s.knots[i].ID == k.ID {
			s.knots[i] = k
			s.updates = append(s.updates, k)
			return k, nil
		}
	}
	return knot.Knot{}, store.ErrNotFound
}

// remove drops id without going through the panel, like a delete made
// elsewhere.
func (s *fakeStore) remove(id string) bool {
	for i, k := range s.knots {
		if k.ID == id {
			s.knots = append(s.knots[:i], s.knots[i+1:]...)
			if s.selected == id {
				s.selected = ""
			}
			return true
		}
	}
	return false
}

type fakeTheme struct {
	dark    bool
	toggles int
}

func (f *fakeTheme) IsDark() bool { return f.dark }
func (f *fakeTheme) Toggle() {
	f.dark = !f.dark
	f.toggles++
}

type fakeRegions struct {
	inside  map[string]bool
	marked  map[string]int
	cleared []string
	scans   int
	closed  int
}

func newFakeRegions() *fakeRegions {
	return &fakeRegions{inside: map[string]bool{}, marked: map[string]int{}}
}

func (r *fakeRegions) Mark(id, v string) string {
	r.marked[id]++
	return v
}

func (r *fakeRegions) Scan(v string) string {
	r.scans++
	return v
}

func (r *fakeRegions) InBounds(id string, _ tea.MouseMsg) bool {
	return r.inside[id]
}

func (r *fakeRegions) Clear(id string) {
	r.cleared = append(r.cleared, id)
}

func (r *fakeRegions) Close() {
	r.closed++
}

func testKnots() []knot.Knot {
	return []knot.Knot{
		{ID: "a", Name: "Alpha", Code: "const a = 1"},
		{ID: "b", Name: "Beta", Code: "const b = 2"},
	}
}

type panelHarness struct {
	panel   PanelModel
	store   *fakeStore
	theme   *fakeTheme
	regions *fakeRegions
}

func newPanelHarness(t *testing.T, knots ...knot.Knot) *panelHarness {
	t.Helper()
	h := &panelHarness{
		store:   &fakeStore{knots: knots, menuOpen: true},
		theme:   &fakeTheme{dark: true},
		regions: newFakeRegions(),
	}
	h.panel = NewPanelModel(h.store, h.theme, t.TempDir())
	h.panel.newRegions = func() regions { return h.regions }
	h.panel.SetSize(32, 30, 120, 40)
	h.panel, _ = h.panel.Mount()
	return h
}

// click presses the left button with the given zones under the pointer.
func (h *panelHarness) click(zones ...string) tea.Cmd {
	h.regions.inside = map[string]bool{}
	for _, z := range zones {
		h.regions.inside[z] = true
	}
	var cmd tea.Cmd
	h.panel, cmd = h.panel.Update(tea.MouseMsg{
		Action: tea.MouseActionPress,
		Button: tea.MouseButtonLeft,
	})
	return cmd
}

func (h *panelHarness) press(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	h.panel, cmd = h.panel.Update(msg)
	return cmd
}

func (h *panelHarness) send(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	h.panel, cmd = h.panel.Update(msg)
	return cmd
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}
