// Package render draws a tabset as terminal text: a one-line button strip
// when the tabs fit, or a dropdown trigger with an optional list when they
// do not.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-runewidth"

	"github.com/b/tabset/pkg/config"
	"github.com/b/tabset/pkg/tabset"
)

// Zone ids for mouse hit-testing.
const (
	ZoneTrigger = "tabset:trigger"
	ZoneNewTab  = "tabset:new"
	ZoneOpenTab = "tabset:open"

	zoneTabPrefix   = "tabset:tab:"
	zoneClosePrefix = "tabset:close:"
	zoneEntryPrefix = "tabset:entry:"
)

func TabZone(id string) string   { return zoneTabPrefix + id }
func CloseZone(id string) string { return zoneClosePrefix + id }
func EntryZone(id string) string { return zoneEntryPrefix + id }

// MaxLabelWidth is the widest a label may render before it is truncated.
const MaxLabelWidth = 24

const placeholder = "Select a tab"

type Renderer struct {
	active   lipgloss.Style
	inactive lipgloss.Style
	disabled lipgloss.Style
	badge    lipgloss.Style
	action   lipgloss.Style

	separator string
	indicator string
	buttons   config.Buttons

	// Zones wraps clickable parts in bubblezone markers. The host must
	// have called zone.NewGlobal and must pass its View through zone.Scan.
	Zones bool
}

// New builds a renderer from the configured colors and buttons.
func New(style config.Style, buttons config.Buttons) *Renderer {
	return &Renderer{
		active: lipgloss.NewStyle().
			Foreground(lipgloss.Color(style.ActiveFg)).
			Background(lipgloss.Color(style.ActiveBg)).
			Bold(true).
			Padding(0, 1),
		inactive: lipgloss.NewStyle().
			Foreground(lipgloss.Color(style.InactiveFg)).
			Background(lipgloss.Color(style.InactiveBg)).
			Padding(0, 1),
		disabled: lipgloss.NewStyle().
			Foreground(lipgloss.Color(style.DisabledFg)).
			Background(lipgloss.Color(style.InactiveBg)).
			Faint(true).
			Padding(0, 1),
		badge:     lipgloss.NewStyle().Foreground(lipgloss.Color(style.BadgeFg)),
		action:    lipgloss.NewStyle().Foreground(lipgloss.Color("#27ae60")),
		separator: style.Separator,
		indicator: style.Indicator,
		buttons:   buttons,
	}
}

func (r *Renderer) mark(id, s string) string {
	if !r.Zones {
		return s
	}
	return zone.Mark(id, s)
}

func truncate(label string) string {
	return runewidth.Truncate(label, MaxLabelWidth, "…")
}

func badgeText(count *int) string {
	if count == nil {
		return ""
	}
	return fmt.Sprintf("%d", *count)
}

// Button renders one tab header. A nil count hides the badge; zero shows.
func (r *Renderer) Button(t tabset.Tab, active bool) string {
	return r.mark(TabZone(t.ID), r.button(t, active))
}

func (r *Renderer) button(t tabset.Tab, active bool) string {
	style := r.inactive
	switch {
	case t.Disabled:
		style = r.disabled
	case active:
		style = r.active
	}

	text := truncate(t.Label)
	if b := badgeText(t.Count); b != "" {
		text += " " + r.badge.Inherit(style).Render(b)
	}
	if t.Closeable && !t.Disabled {
		text += " " + r.mark(CloseZone(t.ID), "×")
	}
	return style.Render(text)
}

func (r *Renderer) actionButtons() []string {
	var parts []string
	if r.buttons.NewTab {
		parts = append(parts, r.mark(ZoneNewTab, r.action.Render("[+]")))
	}
	if r.buttons.OpenTab {
		parts = append(parts, r.mark(ZoneOpenTab, r.action.Render("[…]")))
	}
	return parts
}

// Strip renders every available tab inline, followed by the action buttons.
func (r *Renderer) Strip(snap tabset.Snapshot, active string) string {
	var parts []string
	for _, t := range snap {
		if t.Unavailable {
			continue
		}
		parts = append(parts, r.Button(t, t.ID == active))
	}
	strip := strings.Join(parts, r.separator)
	if extra := r.actionButtons(); len(extra) > 0 {
		if strip != "" {
			strip += r.separator
		}
		strip += strings.Join(extra, r.separator)
	}
	return strip
}

// StripWidth is the number of cells Strip needs for snap.
func (r *Renderer) StripWidth(snap tabset.Snapshot) int {
	plain := *r
	plain.Zones = false
	return lipgloss.Width(plain.Strip(snap, ""))
}

// Trigger renders the collapsed dropdown button.
func (r *Renderer) Trigger(tr tabset.Trigger, open bool) string {
	arrow := r.indicator
	if open {
		arrow = "▴"
	}
	if tr.Empty {
		return r.mark(ZoneTrigger, r.inactive.Render(placeholder+" "+arrow))
	}
	text := truncate(tr.Label)
	if b := badgeText(tr.Count); b != "" {
		text += " " + r.badge.Inherit(r.active).Render(b)
	}
	return r.mark(ZoneTrigger, r.active.Render(text+" "+arrow))
}

// List renders the open dropdown, one entry per line.
func (r *Renderer) List(entries []tabset.Entry) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		cursor := "  "
		if e.Selected {
			cursor = "› "
		}
		t := tabset.Tab{ID: e.ID, Label: e.Label, Count: e.Count, Disabled: e.Disabled}
		lines = append(lines, r.mark(EntryZone(e.ID), cursor+r.button(t, e.Selected)))
	}
	return strings.Join(lines, "\n")
}

// View renders ts in its current display mode.
func (r *Renderer) View(ts *tabset.Tabset) string {
	snap := ts.Registry.Current()
	active := ts.Selection.ActiveID()
	if ts.Overflow.Mode() == tabset.ModeInline {
		if len(snap) == 0 && !r.buttons.NewTab && !r.buttons.OpenTab {
			return r.disabled.Render("No tabs")
		}
		return r.Strip(snap, active)
	}

	open := ts.Overflow.IsOpen()
	line := r.Trigger(ts.Overflow.Trigger(), open)
	if extra := r.actionButtons(); len(extra) > 0 {
		line += r.separator + strings.Join(extra, r.separator)
	}
	if !open {
		return line
	}
	return line + "\n" + r.List(ts.Overflow.Entries())
}
