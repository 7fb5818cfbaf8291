package render

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/b/tabset/pkg/tabset"
)

// Region actions.
const (
	ActionSelect  = "select"
	ActionClose   = "close"
	ActionToggle  = "toggle"
	ActionNewTab  = "new_tab"
	ActionOpenTab = "open_tab"
)

// Region is a clickable cell range on one line of a View. EndCol is
// exclusive.
type Region struct {
	Line     int
	StartCol int
	EndCol   int
	Action   string
	Target   string
}

// Contains reports whether the cell at x, y is inside the region.
func (g Region) Contains(x, y int) bool {
	return y == g.Line && x >= g.StartCol && x < g.EndCol
}

// Layout computes the clickable regions of View(ts) for renderers that
// cannot use bubblezone, such as remote daemon clients. Close regions are
// listed before the tab that contains them.
func (r *Renderer) Layout(ts *tabset.Tabset) []Region {
	plain := *r
	plain.Zones = false
	sep := lipgloss.Width(plain.separator)

	var regions []Region
	col := 0
	add := func(line, width int, action, target string) {
		regions = append(regions, Region{Line: line, StartCol: col, EndCol: col + width, Action: action, Target: target})
	}

	if ts.Overflow.Mode() == tabset.ModeInline {
		first := true
		for _, t := range ts.Registry.Current() {
			if t.Unavailable {
				continue
			}
			if !first {
				col += sep
			}
			first = false
			w := lipgloss.Width(plain.button(t, false))
			if t.Closeable && !t.Disabled {
				// "× " sits just inside the right padding.
				regions = append(regions, Region{Line: 0, StartCol: col + w - 2, EndCol: col + w - 1, Action: ActionClose, Target: t.ID})
			}
			add(0, w, ActionSelect, t.ID)
			col += w
		}
		if !first && (plain.buttons.NewTab || plain.buttons.OpenTab) {
			col += sep
		}
	} else {
		open := ts.Overflow.IsOpen()
		w := lipgloss.Width(plain.Trigger(ts.Overflow.Trigger(), open))
		add(0, w, ActionToggle, "")
		col += w + sep
		if open {
			for i, e := range ts.Overflow.Entries() {
				regions = append(regions, Region{Line: i + 1, StartCol: 0, EndCol: lipgloss.Width(plain.List([]tabset.Entry{e})), Action: ActionSelect, Target: e.ID})
			}
		}
	}

	if plain.buttons.NewTab {
		w := lipgloss.Width(plain.action.Render("[+]"))
		add(0, w, ActionNewTab, "")
		col += w + sep
	}
	if plain.buttons.OpenTab {
		w := lipgloss.Width(plain.action.Render("[…]"))
		add(0, w, ActionOpenTab, "")
	}
	return regions
}

// HitTest returns the first region containing x, y.
func HitTest(regions []Region, x, y int) (Region, bool) {
	for _, g := range regions {
		if g.Contains(x, y) {
			return g, true
		}
	}
	return Region{}, false
}
