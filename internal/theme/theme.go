// Package theme owns the process-wide light/dark mode flag and the colors
// derived from it.
package theme

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

const (
	ModeDark  = "dark"
	ModeLight = "light"
)

// Palette is the set of colors the UI draws with.
type Palette struct {
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Accent     lipgloss.Color
	Background lipgloss.Color
	Surface    lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Success    lipgloss.Color
	Error      lipgloss.Color
	Warning    lipgloss.Color
	Border     lipgloss.Color
	Highlight  lipgloss.Color
	Danger     lipgloss.Color
	// Chroma style used for code.
	CodeStyle string
}

var (
	Dark = Palette{
		Primary:    lipgloss.Color("#7f57b4"), // purple
		Secondary:  lipgloss.Color("#436b77"), // teal
		Accent:     lipgloss.Color("#a7754e"), // warm
		Background: lipgloss.Color("#16161d"),
		Surface:    lipgloss.Color("#1f2937"),
		Text:       lipgloss.Color("#d7d9da"),
		Muted:      lipgloss.Color("#9ba0bf"),
		Success:    lipgloss.Color("#3f866b"),
		Error:      lipgloss.Color("#e06c75"),
		Warning:    lipgloss.Color("#c78854"),
		Border:     lipgloss.Color("#273540"),
		Highlight:  lipgloss.Color("#374151"),
		Danger:     lipgloss.Color("#f87171"),
		CodeStyle:  "monokai",
	}

	Light = Palette{
		Primary:    lipgloss.Color("#5b3a8c"),
		Secondary:  lipgloss.Color("#2f5561"),
		Accent:     lipgloss.Color("#8a5a33"),
		Background: lipgloss.Color("#ffffff"),
		Surface:    lipgloss.Color("#f3f4f6"),
		Text:       lipgloss.Color("#111827"),
		Muted:      lipgloss.Color("#6b7280"),
		Success:    lipgloss.Color("#2f6b53"),
		Error:      lipgloss.Color("#b42335"),
		Warning:    lipgloss.Color("#9a5b22"),
		Border:     lipgloss.Color("#d1d5db"),
		Highlight:  lipgloss.Color("#dbeafe"),
		Danger:     lipgloss.Color("#ef4444"),
		CodeStyle:  "github",
	}
)

// Provider holds the dark-mode flag for the lifetime of the process.
type Provider struct {
	mu       sync.RWMutex
	dark     bool
	onChange func(dark bool)
}

// New returns a provider starting in the given mode. onChange, if set, runs
// after every toggle with the new value.
func New(dark bool, onChange func(dark bool)) *Provider {
	return &Provider{dark: dark, onChange: onChange}
}

func (p *Provider) IsDark() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.dark
}

// Toggle flips the mode.
func (p *Provider) Toggle() {
	p.mu.Lock()
	p.dark = !p.dark
	dark := p.dark
	onChange := p.onChange
	p.mu.Unlock()

	if onChange != nil {
		onChange(dark)
	}
}

// Palette returns the colors for the current mode.
func (p *Provider) Palette() Palette {
	return For(p.IsDark())
}

// For returns the palette for a mode.
func For(dark bool) Palette {
	if dark {
		return Dark
	}
	return Light
}

// Mode names a dark flag.
func Mode(dark bool) string {
	if dark {
		return ModeDark
	}
	return ModeLight
}

// ParseMode accepts "dark" or "light"; empty means dark.
func ParseMode(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", ModeDark:
		return true, nil
	case ModeLight:
		return false, nil
	}
	return false, fmt.Errorf("unknown theme %q (want dark or light)", s)
}
