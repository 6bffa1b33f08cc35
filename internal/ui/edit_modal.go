package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Tariqve/mashd/internal/highlight"
	"github.com/Tariqve/mashd/internal/knot"
	"github.com/Tariqve/mashd/internal/theme"
	"github.com/Tariqve/mashd/internal/ui/components"
)

type knotUpdater interface {
	UpdateKnot(ctx context.Context, k knot.Knot) (knot.Knot, error)
}

const (
	fieldName = iota
	fieldCode
)

const (
	modalMinWidth  = 44
	modalMaxWidth  = 100
	modalMinHeight = 6
	nameCharLimit  = 120
)

// EditModal edits the name and code of one knot snapshot.
type EditModal struct {
	knot    knot.Knot
	store   knotUpdater
	dark    bool
	onClose func() tea.Cmd

	name  textinput.Model
	code  textarea.Model
	focus int

	err    string
	saving bool
	ready  bool

	width  int
	height int
}

// NewEditModal returns a modal focused on the name field.
func NewEditModal(k knot.Knot, s knotUpdater, dark bool, onClose func() tea.Cmd) EditModal {
	name := textinput.New()
	name.Prompt = ""
	name.CharLimit = nameCharLimit
	name.SetValue(k.Name)
	name.Focus()

	code := textarea.New()
	code.CharLimit = 0
	code.MaxHeight = 0
	code.ShowLineNumbers = true
	code.SetValue(k.Code)
	code.Blur()

	m := EditModal{
		knot:    k,
		store:   s,
		dark:    dark,
		onClose: onClose,
		name:    name,
		code:    code,
		focus:   fieldName,
		ready:   true,
	}
	m.SetSize(0, 0)
	return m
}

func (m EditModal) Init() tea.Cmd {
	return textinput.Blink
}

// SetSize fits the modal to a screen of the given size.
func (m *EditModal) SetSize(screenWidth, screenHeight int) {
	m.width = modalWidth(screenWidth)
	m.height = screenHeight
	if !m.ready {
		return
	}
	inner := m.width - 6
	m.name.Width = inner - 1
	m.code.SetWidth(inner)
	m.code.SetHeight(m.codeHeight())
}

func modalWidth(screenWidth int) int {
	w := screenWidth * 80 / 100
	if w < modalMinWidth {
		w = modalMinWidth
	}
	if w > modalMaxWidth {
		w = modalMaxWidth
	}
	if screenWidth > 0 && w > screenWidth {
		w = screenWidth
	}
	return w
}

func (m EditModal) codeHeight() int {
	if m.height <= 0 {
		return 12
	}
	// Title, name field, labels, hints and the box frame.
	h := m.height - 16
	if h < modalMinHeight {
		h = modalMinHeight
	}
	return h
}

// Dirty reports whether the fields differ from the snapshot.
func (m EditModal) Dirty() bool {
	return m.name.Value() != m.knot.Name || m.code.Value() != m.knot.Code
}

func (m EditModal) Update(msg tea.Msg) (EditModal, tea.Cmd) {
	switch msg := msg.(type) {
	case saveFailedMsg:
		if msg.id != m.knot.ID {
			return m, nil
		}
		m.saving = false
		m.err = msg.err.Error()
		return m, nil
	case errMsg:
		return m, nil
	case tea.KeyMsg:
		if m.saving {
			return m, nil
		}
		switch {
		case isBack(msg):
			return m, m.close()
		case key.Matches(msg, keys.Save):
			return m.save()
		case key.Matches(msg, keys.NextField):
			return m, m.switchFocus()
		}
	}

	var cmd tea.Cmd
	if m.focus == fieldName {
		m.name, cmd = m.name.Update(msg)
	} else {
		m.code, cmd = m.code.Update(msg)
	}
	return m, cmd
}

func (m *EditModal) switchFocus() tea.Cmd {
	if m.focus == fieldName {
		m.focus = fieldCode
		m.name.Blur()
		return m.code.Focus()
	}
	m.focus = fieldName
	m.code.Blur()
	return m.name.Focus()
}

func (m EditModal) close() tea.Cmd {
	if m.onClose == nil {
		return nil
	}
	return m.onClose()
}

func (m EditModal) save() (EditModal, tea.Cmd) {
	name := strings.TrimSpace(m.name.Value())
	if err := knot.ValidateName(name); err != nil {
		m.err = err.Error()
		return m, nil
	}
	updated := m.knot
	updated.Name = name
	updated.Code = m.code.Value()

	m.err = ""
	m.saving = true
	return m, saveKnotCmd(m.store, updated)
}

func saveKnotCmd(s knotUpdater, k knot.Knot) tea.Cmd {
	return func() tea.Msg {
		saved, err := s.UpdateKnot(context.Background(), k)
		if err != nil {
			return saveFailedMsg{id: k.ID, err: fmt.Errorf("save knot: %w", err)}
		}
		return knotSavedMsg{knot: saved}
	}
}

func (m EditModal) View() string {
	st := newStyles(theme.For(m.dark))

	label := func(text string, field int) string {
		if m.focus == field {
			return st.FieldActive.Render(text)
		}
		return st.FieldLabel.Render(text)
	}

	var b strings.Builder
	b.WriteString(st.Banner.Render("Edit knot"))
	b.WriteString(st.Muted.Render("  " + knot.Filename(m.name.Value())))
	b.WriteString("\n\n")
	b.WriteString(label("Name", fieldName))
	b.WriteString("\n")
	b.WriteString(m.name.View())
	b.WriteString("\n\n")
	b.WriteString(label("Code", fieldCode))
	b.WriteString("\n")
	if m.focus == fieldCode {
		b.WriteString(m.code.View())
	} else {
		b.WriteString(m.codePreview(st))
	}
	if m.err != "" {
		b.WriteString("\n\n")
		b.WriteString(st.Error.Render(components.SanitizeOneLine(m.err)))
	}
	b.WriteString("\n\n")
	hint := "ctrl+s save · tab switch field · esc cancel"
	if m.saving {
		hint = "saving..."
	}
	b.WriteString(st.Muted.Render(hint))

	return st.ModalBox.Width(m.width - 2).Render(b.String())
}

// codePreview renders the code highlighted and read-only, cut to the
// textarea height.
func (m EditModal) codePreview(st Styles) string {
	inner := m.width - 6
	maxLines := m.codeHeight()
	lines := strings.Split(highlight.Code(components.SanitizeText(m.code.Value()), st.Palette.CodeStyle), "\n")
	more := 0
	if len(lines) > maxLines {
		more = len(lines) - maxLines
		lines = lines[:maxLines]
	}
	clip := lipgloss.NewStyle().MaxWidth(inner)
	for i, line := range lines {
		lines[i] = clip.Render(line)
	}
	out := strings.Join(lines, "\n")
	if more > 0 {
		out += "\n" + st.Muted.Render(fmt.Sprintf("… %d more lines", more))
	}
	return out
}
