package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
)

// regions tracks where marked parts of the last frame landed on screen.
type regions interface {
	Mark(id, v string) string
	Scan(v string) string
	InBounds(id string, msg tea.MouseMsg) bool
	Clear(id string)
	Close()
}

// zoneRegions is a per-panel bubblezone manager.
type zoneRegions struct {
	manager *zone.Manager
}

func newZoneRegions() regions {
	return &zoneRegions{manager: zone.New()}
}

func (z *zoneRegions) Mark(id, v string) string {
	return z.manager.Mark(id, v)
}

func (z *zoneRegions) Scan(v string) string {
	return z.manager.Scan(v)
}

func (z *zoneRegions) InBounds(id string, msg tea.MouseMsg) bool {
	info := z.manager.Get(id)
	if info == nil {
		return false
	}
	return info.InBounds(msg)
}

func (z *zoneRegions) Clear(id string) {
	z.manager.Clear(id)
}

func (z *zoneRegions) Close() {
	z.manager.Close()
}

// --- Zone IDs ---

const (
	zoneCreate  = "knot:create"
	zoneTheme   = "knot:theme"
	zoneClose   = "knot:close"
	zonePopover = "knot:popover"
)

func rowZoneID(id string) string {
	return "knot:row:" + id
}

func menuZoneID(id string) string {
	return "knot:menu:" + id
}

func actionZoneID(a popoverAction) string {
	return "knot:action:" + a.name()
}
