package tabset

import "log"

// Options configures a Tabset.
type Options struct {
	// ActiveHint is the id the host wants active initially.
	ActiveHint string
	// PermalinkID binds the active tab to the "<id>-active-tab" query
	// parameter. Empty disables permalinks.
	PermalinkID string
	// MaxWidth caps the container width in cells. Zero means no cap.
	MaxWidth int
	Logger   *log.Logger
}

// EventKind identifies a host notification.
type EventKind string

const (
	EventNewTab  EventKind = "new_tab"
	EventOpenTab EventKind = "open_tab"
	EventClose   EventKind = "close_tab"
)

// Event is a request the tabset cannot satisfy on its own and hands to the
// host, such as closing a tab.
type Event struct {
	Kind  EventKind
	TabID string
}

// Tabset wires a Registry, Selection, Overflow and Permalink together in the
// order their event dependencies require.
type Tabset struct {
	Registry  *Registry
	Selection *Selection
	Overflow  *Overflow
	Permalink *Permalink

	logger *log.Logger
	events stream[Event]
}

// New builds a tabset. store may be nil when permalinks are not used.
func New(opts Options, store QueryStore, measurer Measurer) *Tabset {
	reg := NewRegistry()
	sel := NewSelection(reg, opts.ActiveHint, opts.Logger)
	ov := NewOverflow(reg, sel, measurer, opts.MaxWidth)
	pl := NewPermalink(opts.PermalinkID, store, reg, sel, opts.Logger)
	return &Tabset{
		Registry:  reg,
		Selection: sel,
		Overflow:  ov,
		Permalink: pl,
		logger:    opts.Logger,
	}
}

// Close detaches every component.
func (t *Tabset) Close() {
	t.Permalink.Close()
	t.Overflow.Close()
	t.Selection.Close()
}

// Activate is the single path for clicks, Enter presses and dropdown picks.
func (t *Tabset) Activate(id string) bool {
	if t.Overflow.Mode() == ModeDropdown && t.Overflow.IsOpen() {
		return t.Overflow.Choose(id)
	}
	return t.Selection.Select(id)
}

// ActiveTab returns the active tab record.
func (t *Tabset) ActiveTab() (Tab, bool) {
	id := t.Selection.ActiveID()
	if id == "" {
		return Tab{}, false
	}
	return t.Registry.Current().Find(id)
}

// Step moves the selection by delta selectable tabs, wrapping around.
func (t *Tabset) Step(delta int) bool {
	snap := t.Registry.Current()
	var ids []string
	for _, tab := range snap {
		if tab.Selectable() {
			ids = append(ids, tab.ID)
		}
	}
	if len(ids) == 0 {
		return false
	}
	cur := -1
	active := t.Selection.ActiveID()
	for i, id := range ids {
		if id == active {
			cur = i
			break
		}
	}
	next := ((cur+delta)%len(ids) + len(ids)) % len(ids)
	if cur < 0 && delta < 0 {
		next = len(ids) - 1
	}
	return t.Activate(ids[next])
}

// Events calls fn for every host notification.
func (t *Tabset) Events(fn func(Event)) func() {
	return t.events.subscribe(fn)
}

// RequestNewTab notifies the host that the new-tab button was pressed.
func (t *Tabset) RequestNewTab() {
	t.events.publish(Event{Kind: EventNewTab})
}

// RequestOpenTab notifies the host that the open-tab button was pressed.
func (t *Tabset) RequestOpenTab() {
	t.events.publish(Event{Kind: EventOpenTab})
}

// RequestClose notifies the host that a tab's close button was pressed.
// Disabled, unknown and non-closeable tabs are ignored.
func (t *Tabset) RequestClose(id string) bool {
	tab, ok := t.Registry.Current().Find(id)
	if !ok || tab.Disabled || !tab.Closeable {
		if t.logger != nil {
			t.logger.Printf("tabset: close %q ignored", id)
		}
		return false
	}
	t.events.publish(Event{Kind: EventClose, TabID: id})
	return true
}
