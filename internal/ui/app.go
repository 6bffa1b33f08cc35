package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Tariqve/mashd/internal/config"
	"github.com/Tariqve/mashd/internal/knot"
	"github.com/Tariqve/mashd/internal/logger"
	"github.com/Tariqve/mashd/internal/store"
	"github.com/Tariqve/mashd/internal/theme"
	"github.com/Tariqve/mashd/internal/ui/components"
)

// --- Messages ---

type errMsg struct{ err error }
type clearToastMsg struct{}
type panelVisibilityMsg struct{ open bool }

type appToast struct {
	level string
	text  string
}

const (
	defaultPanelWidth = 32
	compactBannerRows = 30
	toastDuration     = 2500 * time.Millisecond
)

// --- App Model ---

// App is the root TUI model: the knot panel on the left and the viewer for
// the selected knot on the right.
type App struct {
	store  *store.Store
	theme  *theme.Provider
	config *config.Config

	panel      PanelModel
	panelWidth int

	width       int
	height      int
	helpOpen    bool
	quitConfirm bool
	toast       *appToast
}

// NewApp creates the root application model.
func NewApp(s *store.Store, tp *theme.Provider, cfg *config.Config) App {
	exportDir := ""
	panelWidth := defaultPanelWidth
	if cfg != nil {
		exportDir = cfg.ExportDir
		if cfg.PanelWidth > 0 {
			panelWidth = cfg.PanelWidth
		}
	}

	panel := NewPanelModel(s, tp, exportDir)
	panel.OnCreateNew = createKnotCmd(s)
	panel.OnCloseMenu = func() tea.Cmd {
		return func() tea.Msg {
			return panelVisibilityMsg{open: false}
		}
	}

	return App{
		store:      s,
		theme:      tp,
		config:     cfg,
		panel:      panel,
		panelWidth: panelWidth,
	}
}

func (a App) Init() tea.Cmd {
	open := a.store.MenuOpen()
	return func() tea.Msg {
		return panelVisibilityMsg{open: open}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resizePanel()
		return a, nil
	case clearToastMsg:
		a.toast = nil
		return a, nil
	case panelVisibilityMsg:
		return a.setPanelOpen(msg.open)
	case themeToggledMsg:
		return a, tea.Batch(a.saveThemeCmd(msg.dark), a.toastCmdForMsg(msg))
	case knotCreatedMsg:
		var cmd tea.Cmd
		a.panel, cmd = a.panel.StartEdit(msg.knot)
		return a, tea.Batch(cmd, a.toastCmdForMsg(msg))
	case tea.KeyMsg:
		return a.handleKeys(msg)
	case tea.MouseMsg:
		if !a.panel.Mounted() || a.helpOpen || a.quitConfirm || a.panel.ModalVisible() {
			return a, nil
		}
	}

	var cmd tea.Cmd
	a.panel, cmd = a.panel.Update(msg)

	toastCmd := a.toastCmdForMsg(msg)
	if toastCmd != nil && cmd != nil {
		return a, tea.Batch(cmd, toastCmd)
	}
	if toastCmd != nil {
		return a, toastCmd
	}
	return a, cmd
}

func (a App) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.quitConfirm {
		switch {
		case isConfirm(msg):
			return a, tea.Quit
		case isCancel(msg):
			a.quitConfirm = false
		}
		return a, nil
	}

	// The modal owns the keyboard; only ctrl+c escapes it.
	if a.panel.ModalVisible() {
		if isForceQuit(msg) {
			return a.requestQuit()
		}
		var cmd tea.Cmd
		a.panel, cmd = a.panel.Update(msg)
		return a, cmd
	}

	if a.helpOpen {
		if isBack(msg) || key.Matches(msg, keys.Help) {
			a.helpOpen = false
		}
		return a, nil
	}

	switch {
	case isQuit(msg):
		return a.requestQuit()
	case key.Matches(msg, keys.Help):
		a.helpOpen = true
		return a, nil
	case key.Matches(msg, keys.TogglePanel):
		return a.setPanelOpen(!a.store.MenuOpen())
	}

	if !a.store.MenuOpen() {
		return a, nil
	}
	var cmd tea.Cmd
	a.panel, cmd = a.panel.Update(msg)
	return a, cmd
}

func (a App) requestQuit() (tea.Model, tea.Cmd) {
	if a.hasUnsaved() {
		a.quitConfirm = true
		return a, nil
	}
	return a, tea.Quit
}

func (a App) hasUnsaved() bool {
	return a.panel.HasUnsavedEdits()
}

// setPanelOpen records the panel flag and mounts or unmounts the panel.
func (a App) setPanelOpen(open bool) (tea.Model, tea.Cmd) {
	a.store.SetMenuOpen(open)
	var cmd tea.Cmd
	if open {
		a.panel, cmd = a.panel.Mount()
	} else {
		a.panel, cmd = a.panel.Unmount()
	}
	a.resizePanel()
	return a, cmd
}

func (a *App) resizePanel() {
	w := a.panelWidth
	if a.width > 0 && w > a.width/2 {
		w = a.width / 2
	}
	a.panel.SetSize(w, a.bodyHeight(), a.width, a.height)
}

func (a App) bodyHeight() int {
	if a.height <= 0 {
		return 0
	}
	used := lipgloss.Height(a.renderBanner(newStyles(a.theme.Palette()))) + 4
	h := a.height - used
	if h < 8 {
		h = 8
	}
	return h
}

// --- View ---

func (a App) View() string {
	st := newStyles(a.theme.Palette())
	p := st.Palette

	banner := a.renderBanner(st)
	bodyHeight := a.bodyHeight()

	var body string
	switch {
	case a.quitConfirm:
		body = centerBlockUniform(a.renderQuitConfirm(p), a.width)
	case a.panel.ModalVisible():
		body = centerBlockUniform(a.panel.ModalView(), a.width)
	case a.helpOpen:
		body = centerBlockUniform(a.renderHelp(p), a.width)
	default:
		body = a.renderMain(st, bodyHeight)
	}

	hints := components.StatusBar(p, a.statusHints(p), a.width)

	feedback := ""
	if a.toast != nil {
		feedback = "\n" + centerBlockUniform(a.renderToast(p), a.width)
	}

	out := fmt.Sprintf("%s\n\n%s\n%s%s", banner, body, hints, feedback)
	return a.panel.Scan(out)
}

func (a App) renderBanner(st Styles) string {
	compact := a.height > 0 && a.height < compactBannerRows
	return centerBlockUniform(RenderBanner(st, compact), a.width)
}

func (a App) renderMain(st Styles, height int) string {
	var selected *knot.Knot
	if k, ok := a.store.Get(a.store.Selected()); ok {
		selected = &k
	}

	if !a.store.MenuOpen() {
		return renderViewer(st, selected, a.viewerWidth(0), height)
	}
	panel := a.panel.View()
	viewer := renderViewer(st, selected, a.viewerWidth(lipgloss.Width(panel)+1), height)
	return lipgloss.JoinHorizontal(lipgloss.Top, panel, " ", viewer)
}

func (a App) viewerWidth(used int) int {
	if a.width <= 0 {
		return 60
	}
	w := a.width - used
	if w < viewerMinContentWidth+6 {
		w = viewerMinContentWidth + 6
	}
	return w
}

func (a App) statusHints(p theme.Palette) []string {
	hint := func(b key.Binding) string {
		return components.Hint(p, b.Help().Key, b.Help().Desc)
	}
	switch {
	case a.quitConfirm:
		return []string{components.Hint(p, "y", "Quit"), components.Hint(p, "n", "Cancel")}
	case a.panel.ModalVisible():
		return []string{hint(keys.Save), hint(keys.NextField), components.Hint(p, "esc", "Cancel")}
	case a.helpOpen:
		return []string{hint(keys.Dismiss)}
	case !a.store.MenuOpen():
		return []string{hint(keys.TogglePanel), hint(keys.Help), hint(keys.Quit)}
	case a.panel.PopoverOpen():
		return []string{
			components.Hint(p, "↑/↓", "Choose"),
			components.Hint(p, "enter", "Run"),
			hint(keys.Edit),
			hint(keys.Download),
			hint(keys.Delete),
			hint(keys.Dismiss),
		}
	}
	return []string{
		components.Hint(p, "↑/↓", "Move"),
		hint(keys.Select),
		hint(keys.Menu),
		hint(keys.New),
		hint(keys.Theme),
		hint(keys.TogglePanel),
		hint(keys.Help),
		hint(keys.Quit),
	}
}

func (a App) renderHelp(p theme.Palette) string {
	bindings := []key.Binding{
		keys.Up, keys.Down, keys.Select, keys.Menu,
		keys.Edit, keys.Download, keys.Delete, keys.Dismiss,
		keys.New, keys.Theme, keys.TogglePanel, keys.Save,
		keys.Help, keys.Quit,
	}
	st := newStyles(p)
	lines := make([]string, 0, len(bindings)+2)
	lines = append(lines, st.Muted.Render("esc to close"), "")
	for _, b := range bindings {
		h := b.Help()
		lines = append(lines, "  "+st.Accent.Render(components.PadRight(h.Key, 8))+st.Normal.Render(h.Desc))
	}
	lines = append(lines, "", st.Muted.Render("Click a row to select it, ⋯ for its actions."))
	return components.Indent(components.TitledBox(p, "Help", strings.Join(lines, "\n"), a.width), 1)
}

func (a App) renderQuitConfirm(p theme.Palette) string {
	body := "You have unsaved changes. Quit anyway?"
	return components.Indent(components.ConfirmDialog(p, "Quit", body), 1)
}

// --- Toasts ---

func (a *App) setToast(level, text string) tea.Cmd {
	a.toast = &appToast{
		level: level,
		text:  components.SanitizeOneLine(text),
	}
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return clearToastMsg{}
	})
}

func (a App) renderToast(p theme.Palette) string {
	if a.toast == nil {
		return ""
	}
	title := "Info"
	switch a.toast.level {
	case "success":
		title = "Success"
	case "warning":
		title = "Warning"
	case "error":
		return components.ErrorBox(p, "Error", a.toast.text, a.width)
	}
	return components.TitledBox(p, title, a.toast.text, a.width)
}

func (a *App) toastCmdForMsg(msg tea.Msg) tea.Cmd {
	log := logger.Get()
	var level, text string
	switch msg := msg.(type) {
	case errMsg:
		log.Error("command failed", "err", msg.err)
		level, text = "error", msg.err.Error()
	case saveFailedMsg:
		log.Error("save failed", "id", msg.id, "err", msg.err)
	case knotCreatedMsg:
		level, text = "success", "Knot created."
	case knotSavedMsg:
		level, text = "success", "Knot saved."
	case knotDeletedMsg:
		level, text = "success", "Knot deleted."
	case knotExportedMsg:
		log.Info("knot exported", "id", msg.knot.ID, "path", msg.exported.Path, "bytes", msg.exported.Bytes)
		level, text = "success", "Exported "+msg.exported.Path
	case themeToggledMsg:
		level, text = "info", theme.Mode(msg.dark)+" mode"
	}
	if text == "" {
		return nil
	}
	return a.setToast(level, text)
}

// --- Commands ---

func createKnotCmd(s *store.Store) func() tea.Cmd {
	return func() tea.Cmd {
		return func() tea.Msg {
			name := knot.NextUntitledName(s.Knots())
			k, err := s.CreateKnot(context.Background(), name, knot.DefaultCode)
			if err != nil {
				return errMsg{fmt.Errorf("create knot: %w", err)}
			}
			return knotCreatedMsg{knot: k}
		}
	}
}

// saveThemeCmd persists the mode. A nil config means persistence is off.
func (a App) saveThemeCmd(dark bool) tea.Cmd {
	if a.config == nil {
		return nil
	}
	mode := theme.Mode(dark)
	a.config.Theme = mode
	return func() tea.Msg {
		if err := config.SaveTheme(mode); err != nil {
			return errMsg{fmt.Errorf("save theme: %w", err)}
		}
		logger.Get().Debug("theme saved", "mode", mode)
		return nil
	}
}

// --- Layout Helpers ---

func centerBlockUniform(s string, width int) string {
	if width <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	maxWidth := 0
	for _, line := range lines {
		w := lipgloss.Width(line)
		if w > maxWidth {
			maxWidth = w
		}
	}
	if maxWidth <= 0 || maxWidth >= width {
		return s
	}
	pad := (width - maxWidth) / 2
	if pad <= 0 {
		return s
	}
	prefix := strings.Repeat(" ", pad)
	for i := range lines {
		if lines[i] != "" {
			lines[i] = prefix + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}
