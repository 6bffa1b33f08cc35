package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// --- Key Map ---

type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	Select      key.Binding
	Menu        key.Binding
	Edit        key.Binding
	Download    key.Binding
	Delete      key.Binding
	Dismiss     key.Binding
	New         key.Binding
	Theme       key.Binding
	TogglePanel key.Binding
	Help        key.Binding
	Quit        key.Binding
	Save        key.Binding
	NextField   key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "Up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "Down"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "Select"),
	),
	Menu: key.NewBinding(
		key.WithKeys(".", "m"),
		key.WithHelp(".", "Actions"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "Edit"),
	),
	Download: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "Download"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "Delete"),
	),
	Dismiss: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "Close"),
	),
	New: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "New"),
	),
	Theme: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "Theme"),
	),
	TogglePanel: key.NewBinding(
		key.WithKeys("ctrl+b", "\\"),
		key.WithHelp("ctrl+b", "Panel"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "Help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "Quit"),
	),
	Save: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "Save"),
	),
	NextField: key.NewBinding(
		key.WithKeys("tab", "shift+tab"),
		key.WithHelp("tab", "Field"),
	),
}

// --- Key Helpers ---

func isKey(msg tea.KeyMsg, keys ...string) bool {
	for _, k := range keys {
		if msg.String() == k {
			return true
		}
	}
	return false
}

func isQuit(msg tea.KeyMsg) bool {
	return key.Matches(msg, keys.Quit)
}

func isForceQuit(msg tea.KeyMsg) bool {
	return isKey(msg, "ctrl+c")
}

func isBack(msg tea.KeyMsg) bool {
	if msg.Type == tea.KeyEsc {
		return true
	}
	return isKey(msg, "esc", "escape", "ctrl+[")
}

func isUp(msg tea.KeyMsg) bool {
	return key.Matches(msg, keys.Up)
}

func isDown(msg tea.KeyMsg) bool {
	return key.Matches(msg, keys.Down)
}

func isEnter(msg tea.KeyMsg) bool {
	return isKey(msg, "enter", "return")
}

func isConfirm(msg tea.KeyMsg) bool {
	return isKey(msg, "y", "Y")
}

func isCancel(msg tea.KeyMsg) bool {
	return isBack(msg) || isKey(msg, "n", "N")
}
