package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Tariqve/mashd/internal/knot"
	"github.com/Tariqve/mashd/internal/store"
	"github.com/Tariqve/mashd/internal/theme"
	"github.com/Tariqve/mashd/internal/ui/components"
)

// KnotStore is the part of the knot store the panel reads and mutates.
type KnotStore interface {
	Knots() []knot.Knot
	Selected() string
	MenuOpen() bool
	SelectKnot(id string)
	DeleteKnot(ctx context.Context, id string) error
	UpdateKnot(ctx context.Context, k knot.Knot) (knot.Knot, error)
}

// ThemeProvider holds the dark-mode flag.
type ThemeProvider interface {
	IsDark() bool
	Toggle()
}

// --- Popover Actions ---

type popoverAction int

const (
	actionEdit popoverAction = iota
	actionDownload
	actionDelete
)

var popoverActions = []popoverAction{actionEdit, actionDownload, actionDelete}

func (a popoverAction) name() string {
	switch a {
	case actionEdit:
		return "edit"
	case actionDownload:
		return "download"
	case actionDelete:
		return "delete"
	}
	return "unknown"
}

func (a popoverAction) label() string {
	switch a {
	case actionEdit:
		return "Edit"
	case actionDownload:
		return "Download"
	case actionDelete:
		return "Delete"
	}
	return ""
}

// --- Messages ---

type knotCreatedMsg struct{ knot knot.Knot }
type knotSavedMsg struct{ knot knot.Knot }

// saveFailedMsg reports a failed modal save for knot id.
type saveFailedMsg struct {
	id  string
	err error
}
type knotDeletedMsg struct{ id string }
type knotExportedMsg struct {
	knot     knot.Knot
	exported knot.Exported
}
type themeToggledMsg struct{ dark bool }
type editClosedMsg struct{}

// --- Panel Model ---

const (
	panelChromeLines = 8
	popoverLines     = 5
	popoverWidth     = 16
)

// rowHandle holds the hit regions marked for one rendered knot.
type rowHandle struct {
	row  string
	menu string
}

// PanelModel is the knot side panel: the list, the per-row action popover
// and the edit modal it opens.
type PanelModel struct {
	store     KnotStore
	theme     ThemeProvider
	exportDir string

	// OnCreateNew runs when the create affordance is activated.
	OnCreateNew func() tea.Cmd
	// OnCloseMenu asks the host to hide the panel.
	OnCloseMenu func() tea.Cmd

	regions    regions
	newRegions func() regions
	rows       map[string]rowHandle

	popoverID    string
	popoverIndex int

	editing *knot.Knot
	modal   EditModal

	list         *components.List
	width        int
	height       int
	screenWidth  int
	screenHeight int
}

// NewPanelModel builds an unmounted panel.
func NewPanelModel(s KnotStore, tp ThemeProvider, exportDir string) PanelModel {
	m := PanelModel{
		store:      s,
		theme:      tp,
		exportDir:  exportDir,
		newRegions: newZoneRegions,
		rows:       map[string]rowHandle{},
		list:       components.NewList(10),
		width:      32,
	}
	m.sync()
	return m
}

// Mount installs the hit regions and turns on mouse reporting. Calling it on
// a mounted panel does nothing.
func (m PanelModel) Mount() (PanelModel, tea.Cmd) {
	if m.regions != nil {
		return m, nil
	}
	m.regions = m.newRegions()
	m.rows = map[string]rowHandle{}
	m.sync()
	return m, tea.EnableMouseCellMotion
}

// Unmount releases the hit regions and turns mouse reporting off.
func (m PanelModel) Unmount() (PanelModel, tea.Cmd) {
	if m.regions == nil {
		return m, nil
	}
	m.regions.Close()
	m.regions = nil
	m.rows = map[string]rowHandle{}
	m.closePopover()
	return m, tea.DisableMouse
}

func (m PanelModel) Mounted() bool {
	return m.regions != nil
}

// Scan records the regions marked in a full frame.
func (m PanelModel) Scan(frame string) string {
	if m.regions == nil {
		return frame
	}
	return m.regions.Scan(frame)
}

// SetSize sets the panel box size and the screen size the modal centers in.
func (m *PanelModel) SetSize(width, height, screenWidth, screenHeight int) {
	m.width = width
	m.height = height
	m.screenWidth = screenWidth
	m.screenHeight = screenHeight
	m.list.SetPageSize(height - panelChromeLines - popoverLines)
	m.modal.SetSize(screenWidth, screenHeight)
}

// PopoverOpen reports whether a row popover is showing.
func (m PanelModel) PopoverOpen() bool {
	return m.openPopoverID(m.store.Knots()) != ""
}

// ModalVisible reports whether the edit modal is showing. The target must
// still be in the store.
func (m PanelModel) ModalVisible() bool {
	return m.editingTarget(m.store.Knots()) != nil
}

// HasUnsavedEdits reports whether the open modal holds changes.
func (m PanelModel) HasUnsavedEdits() bool {
	return m.ModalVisible() && m.modal.Dirty()
}

func (m PanelModel) openPopoverID(knots []knot.Knot) string {
	if m.popoverID == "" || !knot.Contains(knots, m.popoverID) {
		return ""
	}
	return m.popoverID
}

func (m PanelModel) editingTarget(knots []knot.Knot) *knot.Knot {
	if m.editing == nil || !knot.Contains(knots, m.editing.ID) {
		return nil
	}
	return m.editing
}

// sync drops transient state that points at knots no longer in the store and
// clears the regions of removed rows.
func (m *PanelModel) sync() {
	knots := m.store.Knots()
	if m.openPopoverID(knots) == "" {
		m.closePopover()
	}
	if m.editingTarget(knots) == nil {
		m.editing = nil
	}

	names := make([]string, len(knots))
	live := make(map[string]struct{}, len(knots))
	for i, k := range knots {
		names[i] = k.Name
		live[k.ID] = struct{}{}
		if _, ok := m.rows[k.ID]; !ok && m.regions != nil {
			m.rows[k.ID] = rowHandle{row: rowZoneID(k.ID), menu: menuZoneID(k.ID)}
		}
	}
	for id, h := range m.rows {
		if _, ok := live[id]; ok {
			continue
		}
		if m.regions != nil {
			m.regions.Clear(h.row)
			m.regions.Clear(h.menu)
		}
		delete(m.rows, id)
	}
	m.list.SetItems(names)
}

// --- Update ---

func (m PanelModel) Update(msg tea.Msg) (PanelModel, tea.Cmd) {
	m.sync()

	switch msg := msg.(type) {
	case editClosedMsg:
		m.editing = nil
		return m, nil
	case knotSavedMsg:
		if m.editing != nil && m.editing.ID == msg.knot.ID {
			return m, closeEditCmd()
		}
		return m, nil
	case knotDeletedMsg:
		return m, nil
	}

	if m.ModalVisible() {
		var cmd tea.Cmd
		m.modal, cmd = m.modal.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeys(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

func (m PanelModel) handleKeys(msg tea.KeyMsg) (PanelModel, tea.Cmd) {
	knots := m.store.Knots()

	if open := m.openPopoverID(knots); open != "" {
		switch {
		case isBack(msg):
			m.closePopover()
		case isUp(msg):
			if m.popoverIndex > 0 {
				m.popoverIndex--
			}
		case isDown(msg):
			if m.popoverIndex < len(popoverActions)-1 {
				m.popoverIndex++
			}
		case isEnter(msg):
			return m.runAction(open, popoverActions[m.popoverIndex])
		case key.Matches(msg, keys.Edit):
			return m.runAction(open, actionEdit)
		case key.Matches(msg, keys.Download):
			return m.runAction(open, actionDownload)
		case key.Matches(msg, keys.Delete):
			return m.runAction(open, actionDelete)
		case key.Matches(msg, keys.Menu):
			m.togglePopover(open)
		}
		return m, nil
	}

	switch {
	case isUp(msg):
		m.list.Up()
	case isDown(msg):
		m.list.Down()
	case isEnter(msg):
		if id := m.cursorID(knots); id != "" {
			m.store.SelectKnot(id)
		}
	case key.Matches(msg, keys.Menu):
		if id := m.cursorID(knots); id != "" {
			m.togglePopover(id)
		}
	case key.Matches(msg, keys.New):
		return m, m.createNew()
	case key.Matches(msg, keys.Theme):
		return m, m.toggleTheme()
	case isBack(msg):
		return m, m.closeMenu()
	}
	return m, nil
}

func (m PanelModel) handleMouse(msg tea.MouseMsg) (PanelModel, tea.Cmd) {
	if m.regions == nil {
		return m, nil
	}
	// The wheel counts as a pointer event outside the popover.
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.closePopover()
		m.list.Up()
		return m, nil
	case tea.MouseButtonWheelDown:
		m.closePopover()
		m.list.Down()
		return m, nil
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	knots := m.store.Knots()
	if open := m.openPopoverID(knots); open != "" && m.regions.InBounds(zonePopover, msg) {
		for _, a := range popoverActions {
			if m.regions.InBounds(actionZoneID(a), msg) {
				return m.runAction(open, a)
			}
		}
		return m, nil
	}

	start, end := m.visibleRange(len(knots))
	for i := start; i < end; i++ {
		if m.regions.InBounds(menuZoneID(knots[i].ID), msg) {
			m.list.Select(i)
			m.togglePopover(knots[i].ID)
			return m, nil
		}
	}

	// Everything else is outside the popover.
	m.closePopover()

	switch {
	case m.regions.InBounds(zoneCreate, msg):
		return m, m.createNew()
	case m.regions.InBounds(zoneTheme, msg):
		return m, m.toggleTheme()
	case m.regions.InBounds(zoneClose, msg):
		return m, m.closeMenu()
	}
	for i := start; i < end; i++ {
		if m.regions.InBounds(rowZoneID(knots[i].ID), msg) {
			m.list.Select(i)
			m.store.SelectKnot(knots[i].ID)
			return m, nil
		}
	}
	return m, nil
}

// --- Gestures ---

func (m *PanelModel) togglePopover(id string) {
	if m.popoverID == id {
		m.closePopover()
		return
	}
	m.popoverID = id
	m.popoverIndex = 0
}

func (m *PanelModel) closePopover() {
	m.popoverID = ""
	m.popoverIndex = 0
}

// runAction fires a popover action for id and closes the popover.
func (m PanelModel) runAction(id string, a popoverAction) (PanelModel, tea.Cmd) {
	k, ok := knot.Find(m.store.Knots(), id)
	if !ok {
		m.closePopover()
		return m, nil
	}

	var cmd tea.Cmd
	switch a {
	case actionEdit:
		m, cmd = m.StartEdit(k)
	case actionDownload:
		cmd = downloadCmd(m.exportDir, k)
	case actionDelete:
		cmd = deleteKnotCmd(m.store, k.ID)
	}
	m.closePopover()
	return m, cmd
}

// StartEdit opens the edit modal on a snapshot of k.
func (m PanelModel) StartEdit(k knot.Knot) (PanelModel, tea.Cmd) {
	snapshot := k
	m.editing = &snapshot
	m.closePopover()
	m.modal = NewEditModal(snapshot, m.store, m.theme.IsDark(), closeEditCmd)
	m.modal.SetSize(m.screenWidth, m.screenHeight)
	return m, m.modal.Init()
}

func (m PanelModel) createNew() tea.Cmd {
	if m.OnCreateNew == nil {
		return nil
	}
	return m.OnCreateNew()
}

func (m PanelModel) closeMenu() tea.Cmd {
	if m.OnCloseMenu == nil {
		return nil
	}
	return m.OnCloseMenu()
}

func (m PanelModel) toggleTheme() tea.Cmd {
	m.theme.Toggle()
	dark := m.theme.IsDark()
	return func() tea.Msg {
		return themeToggledMsg{dark: dark}
	}
}

func (m PanelModel) cursorID(knots []knot.Knot) string {
	i := m.list.Selected()
	if i < 0 || i >= len(knots) {
		return ""
	}
	return knots[i].ID
}

// visibleRange is the list window clamped to n rows, which may differ from
// the list items if the store changed since the last sync.
func (m PanelModel) visibleRange(n int) (int, int) {
	start, end := m.list.VisibleRange()
	if start > n {
		start = n
	}
	if end > n {
		end = n
	}
	if end < start {
		end = start
	}
	return start, end
}

// --- Commands ---

func closeEditCmd() tea.Cmd {
	return func() tea.Msg {
		return editClosedMsg{}
	}
}

func deleteKnotCmd(s KnotStore, id string) tea.Cmd {
	return func() tea.Msg {
		err := s.DeleteKnot(context.Background(), id)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return errMsg{fmt.Errorf("delete knot: %w", err)}
		}
		return knotDeletedMsg{id: id}
	}
}

func downloadCmd(dir string, k knot.Knot) tea.Cmd {
	return func() tea.Msg {
		out, err := knot.Export(dir, k)
		if err != nil {
			return errMsg{fmt.Errorf("export %q: %w", k.Name, err)}
		}
		return knotExportedMsg{knot: k, exported: out}
	}
}

// --- View ---

type panelRow struct {
	ID       string
	Name     string
	Selected bool
	Cursor   bool
}

// projectRows maps knots to rows in store order.
func projectRows(knots []knot.Knot, selected string, cursor int) []panelRow {
	rows := make([]panelRow, len(knots))
	for i, k := range knots {
		rows[i] = panelRow{
			ID:       k.ID,
			Name:     k.Name,
			Selected: selected != "" && k.ID == selected,
			Cursor:   i == cursor,
		}
	}
	return rows
}

func themeLabel(dark bool) string {
	if dark {
		return "☀ Light mode"
	}
	return "☾ Dark mode"
}

func (m PanelModel) mark(id, v string) string {
	if m.regions == nil {
		return v
	}
	return m.regions.Mark(id, v)
}

func (m PanelModel) View() string {
	dark := m.theme.IsDark()
	st := newStyles(theme.For(dark))
	knots := m.store.Knots()

	inner := m.width - st.PanelBox.GetHorizontalFrameSize()
	if inner < 12 {
		inner = 12
	}

	closeBtn := m.mark(zoneClose, st.Muted.Render("×"))
	title := st.Header.Render("Library")
	gap := inner - lipgloss.Width(title) - lipgloss.Width(closeBtn)
	if gap < 1 {
		gap = 1
	}

	lines := []string{
		title + strings.Repeat(" ", gap) + closeBtn,
		st.Rule(inner),
	}

	rows := projectRows(knots, m.store.Selected(), m.list.Selected())
	if len(rows) == 0 {
		lines = append(lines, st.Muted.Render("No knots yet"))
	}
	open := m.openPopoverID(knots)
	start, end := m.visibleRange(len(rows))
	if start > 0 {
		lines = append(lines, st.Muted.Render(fmt.Sprintf("  ↑ %d more", start)))
	}
	for _, r := range rows[start:end] {
		lines = append(lines, m.renderRow(st, r, r.ID == open, inner))
		if r.ID == open {
			lines = append(lines, m.renderPopover(st, inner))
		}
	}
	if end < len(rows) {
		lines = append(lines, st.Muted.Render(fmt.Sprintf("  ↓ %d more", len(rows)-end)))
	}

	lines = append(lines,
		"",
		m.mark(zoneCreate, st.Accent.Render("+ Create New")),
		st.Rule(inner),
		m.mark(zoneTheme, st.Muted.Render(themeLabel(dark))),
	)

	box := st.PanelBox.Width(m.width - 2)
	if m.height > 2 {
		box = box.Height(m.height - 2)
	}
	return box.Render(strings.Join(lines, "\n"))
}

func (m PanelModel) renderRow(st Styles, r panelRow, open bool, width int) string {
	marker := " "
	if r.Selected {
		marker = st.Selected.Render("▌")
	}
	prefix := "  "
	if r.Cursor {
		prefix = st.Cursor.Render("> ")
	}

	toggle := st.Muted.Render("⋯")
	if open {
		toggle = st.Accent.Render("⋯")
	}

	nameWidth := width - 5
	if nameWidth < 1 {
		nameWidth = 1
	}
	name := components.PadRight(components.ClampTextWidth(r.Name, nameWidth), nameWidth)
	nameStyle := st.Normal
	if r.Selected {
		nameStyle = st.Selected
	}

	line := marker + prefix + nameStyle.Render(name)
	return m.mark(rowZoneID(r.ID), line) + " " + m.mark(menuZoneID(r.ID), toggle)
}

func (m PanelModel) renderPopover(st Styles, width int) string {
	w := popoverWidth
	if w > width-3 {
		w = width - 3
	}
	items := make([]string, 0, len(popoverActions))
	for i, a := range popoverActions {
		style := st.ItemNormal
		if a == actionDelete {
			style = style.Foreground(st.Palette.Danger)
		}
		if i == m.popoverIndex {
			style = st.ItemActive
		}
		label := style.Width(w - 2).Render(a.label())
		items = append(items, m.mark(actionZoneID(a), label))
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(st.Palette.Primary).
		Render(strings.Join(items, "\n"))
	return components.Indent(m.mark(zonePopover, box), 3)
}

// ModalView renders the edit modal, or "" when it is hidden.
func (m PanelModel) ModalView() string {
	if !m.ModalVisible() {
		return ""
	}
	return m.modal.View()
}
