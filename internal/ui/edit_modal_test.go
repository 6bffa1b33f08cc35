package ui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tariqve/mashd/internal/knot"
	"github.com/Tariqve/mashd/internal/ui/components"
)

func newTestModal(s *fakeStore) EditModal {
	m := NewEditModal(s.Knots()[0], s, true, closeEditCmd)
	m.SetSize(120, 40)
	return m
}

func typeText(m EditModal, text string) EditModal {
	for _, r := range text {
		m, _ = m.Update(runeKey(r))
	}
	return m
}

func TestEditModalStartsCleanOnName(t *testing.T) {
	m := newTestModal(&fakeStore{knots: testKnots()})

	assert.False(t, m.Dirty())
	assert.Equal(t, fieldName, m.focus)
	assert.Equal(t, "Alpha", m.name.Value())
	assert.Equal(t, "const a = 1", m.code.Value())
}

func TestEditModalTypingMakesItDirty(t *testing.T) {
	m := newTestModal(&fakeStore{knots: testKnots()})

	m = typeText(m, "!")

	assert.True(t, m.Dirty())
	assert.Equal(t, "Alpha!", m.name.Value())
}

func TestEditModalTabSwitchesToCode(t *testing.T) {
	m := newTestModal(&fakeStore{knots: testKnots()})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, fieldCode, m.focus)
	m = typeText(m, ";")

	assert.Equal(t, "const a = 1;", m.code.Value())
	assert.Equal(t, "Alpha", m.name.Value())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, fieldName, m.focus)
}

func TestEditModalSaveRejectsBlankName(t *testing.T) {
	s := &fakeStore{knots: testKnots()}
	m := newTestModal(s)
	m.name.SetValue("   ")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})

	assert.Nil(t, cmd)
	assert.False(t, m.saving)
	assert.NotEmpty(t, m.err)
	assert.Empty(t, s.updates)
	assert.Contains(t, components.SanitizeText(m.View()), m.err)
}

func TestEditModalSaveUpdatesStore(t *testing.T) {
	s := &fakeStore{knots: testKnots()}
	m := newTestModal(s)
	m.name.SetValue("  Alpha v2 ")
	m.code.SetValue("const a = 3")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	assert.True(t, m.saving)

	msg, ok := cmd().(knotSavedMsg)
	require.True(t, ok)
	assert.Equal(t, "a", msg.knot.ID)
	assert.Equal(t, "Alpha v2", msg.knot.Name)
	assert.Equal(t, "const a = 3", msg.knot.Code)
	require.Len(t, s.updates, 1)
}

func TestEditModalIgnoresKeysWhileSaving(t *testing.T) {
	m := newTestModal(&fakeStore{knots: testKnots()})
	m.saving = true

	m = typeText(m, "zz")

	assert.Equal(t, "Alpha", m.name.Value())
}

func TestEditModalSaveErrorShowsInline(t *testing.T) {
	s := &fakeStore{knots: testKnots(), failSave: errors.New("disk full")}
	m := newTestModal(s)
	m = typeText(m, "2")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	msg := cmd()
	e, ok := msg.(saveFailedMsg)
	require.True(t, ok)
	assert.Equal(t, "a", e.id)

	m, _ = m.Update(e)
	assert.False(t, m.saving)
	assert.Contains(t, m.err, "disk full")
	assert.True(t, m.Dirty())
}

func TestEditModalIgnoresUnrelatedErrors(t *testing.T) {
	m := newTestModal(&fakeStore{knots: testKnots()})
	m.saving = true

	m, cmd := m.Update(errMsg{errors.New("export failed")})
	assert.Nil(t, cmd)
	assert.Empty(t, m.err)
	assert.True(t, m.saving)

	m, _ = m.Update(saveFailedMsg{id: "b", err: errors.New("other knot")})
	assert.Empty(t, m.err)
	assert.True(t, m.saving)
}

func TestEditModalEscCallsClose(t *testing.T) {
	m := newTestModal(&fakeStore{knots: testKnots()})
	m = typeText(m, "x")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.Equal(t, editClosedMsg{}, cmd())
}

func TestEditModalViewShowsHighlightedPreviewWhenCodeBlurred(t *testing.T) {
	m := newTestModal(&fakeStore{knots: testKnots()})

	view := m.View()
	clean := components.SanitizeText(view)

	assert.Contains(t, clean, "Edit knot")
	assert.Contains(t, clean, "alpha.js")
	assert.Contains(t, clean, "const a = 1")
	assert.Contains(t, clean, "ctrl+s save")
}

func TestEditModalTextIsSameInBothModes(t *testing.T) {
	s := &fakeStore{knots: []knot.Knot{{ID: "a", Name: "Alpha", Code: "x"}}}
	dark := NewEditModal(s.Knots()[0], s, true, nil)
	light := NewEditModal(s.Knots()[0], s, false, nil)

	assert.Equal(t, components.SanitizeText(dark.View()), components.SanitizeText(light.View()))
	_, cmd := light.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, cmd)
}

func TestModalWidthBounds(t *testing.T) {
	assert.Equal(t, modalMinWidth, modalWidth(0))
	assert.Equal(t, 30, modalWidth(30))
	assert.Equal(t, 80, modalWidth(100))
	assert.Equal(t, modalMaxWidth, modalWidth(300))
}

func TestEditModalPreviewStripsControlSequences(t *testing.T) {
	s := &fakeStore{knots: []knot.Knot{{ID: "a", Name: "Alpha", Code: "x = '\x1b[2J\x1b]0;pwned\x07';"}}}
	m := NewEditModal(s.Knots()[0], s, true, nil)
	m.SetSize(120, 40)

	view := m.View()

	assert.NotContains(t, view, "\x1b[2J")
	assert.NotContains(t, view, "\x1b]")
	assert.NotContains(t, view, "pwned")
}
