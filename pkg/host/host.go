// Package host binds a tabset to its tab source, query store and renderer.
// Both the standalone bar and the daemon drive one Host each. A Host is not
// safe for concurrent use; callers serialize access.
package host

import (
	"fmt"
	"log"

	"github.com/b/tabset/pkg/bindings"
	"github.com/b/tabset/pkg/config"
	"github.com/b/tabset/pkg/grouping"
	"github.com/b/tabset/pkg/query"
	"github.com/b/tabset/pkg/render"
	"github.com/b/tabset/pkg/tabset"
	"github.com/b/tabset/pkg/tmux"
)

// Store is a query store that also exposes the location it represents.
type Store interface {
	tabset.QueryStore
	Path() string
	Navigate(rawQuery string) error
}

// WindowOps are the tmux calls made when the source is "tmux".
type WindowOps struct {
	List         func() ([]tmux.Window, error)
	SelectWindow func(id string) error
	NewWindow    func() error
	KillWindow   func(id string) error
}

// Tmux talks to the tmux server of the current session.
var Tmux = WindowOps{
	List:         tmux.ListWindows,
	SelectWindow: tmux.SelectWindow,
	NewWindow:    tmux.NewWindow,
	KillWindow:   tmux.KillWindow,
}

// NewTabLabel labels tabs created from the new-tab button in config mode.
const NewTabLabel = "New tab"

type Host struct {
	Config   *config.Config
	Keys     bindings.KeyMap
	Renderer *render.Renderer
	Measurer *render.Measurer
	Store    Store
	Tabset   *tabset.Tabset

	windows WindowOps
	logger  *log.Logger
	cancels []func()

	// tmuxActive is the window tmux last reported or was told to select.
	tmuxActive string
	syncing    bool
}

// New builds the tabset for cfg and loads its tabs. A nil store keeps the
// location in memory.
func New(cfg *config.Config, store Store, windows WindowOps, logger *log.Logger) *Host {
	if store == nil {
		store = query.NewMemory()
	}
	h := &Host{Store: store, windows: windows, logger: logger}
	h.build(cfg, cfg.Active, 0)
	return h
}

func (h *Host) logf(format string, args ...interface{}) {
	if h.logger != nil {
		h.logger.Printf(format, args...)
	}
}

// TmuxMode reports whether tabs mirror tmux windows.
func (h *Host) TmuxMode() bool {
	return h.Config.Source == "tmux"
}

func (h *Host) build(cfg *config.Config, hint string, width int) {
	zones := h.Renderer != nil && h.Renderer.Zones
	h.Config = cfg
	h.Keys = bindings.New(cfg.Bindings)
	h.Renderer = render.New(cfg.Style, cfg.Buttons)
	h.Renderer.Zones = zones
	h.Measurer = render.NewMeasurer(h.Renderer)
	h.Measurer.SetWidth(width)

	opts := cfg.Options()
	opts.ActiveHint = hint
	opts.Logger = h.logger
	h.Tabset = tabset.New(opts, h.Store, h.Measurer)
	h.Measurer.Source = h.Tabset.Registry

	h.cancels = []func(){
		h.Tabset.Events(h.handleEvent),
		h.Tabset.Selection.Subscribe(h.pushTmuxSelection),
	}
	h.loadTabs()
	h.Tabset.Overflow.Init()
}

// Close detaches the tabset from the store.
func (h *Host) Close() {
	for _, cancel := range h.cancels {
		cancel()
	}
	h.cancels = nil
	h.Tabset.Close()
}

func (h *Host) loadTabs() {
	if h.TmuxMode() {
		h.refreshWindows()
		return
	}
	h.Tabset.Registry.Reconcile(h.Config.ToTabs())
}

// RefreshWindows re-reads tmux windows. It does nothing for config tabs.
func (h *Host) RefreshWindows() {
	if h.TmuxMode() {
		h.refreshWindows()
	}
}

func (h *Host) refreshWindows() {
	windows, err := h.windows.List()
	if err != nil {
		h.logf("host: %v", err)
		return
	}
	tabs, active := tmux.TabsFromWindows(windows)
	tabs = grouping.Apply(tabs, windows, h.Config.Windows)
	h.syncing = true
	defer func() { h.syncing = false }()
	h.Tabset.Registry.Reconcile(tabs)
	if active != "" {
		h.tmuxActive = active
		h.Tabset.Selection.Select(active)
	}
}

// pushTmuxSelection makes tmux follow selections made in the bar or through
// the location. Selections read back from tmux are not echoed.
func (h *Host) pushTmuxSelection(id string) {
	if !h.TmuxMode() || h.syncing || id == "" || id == h.tmuxActive {
		return
	}
	h.tmuxActive = id
	if err := h.windows.SelectWindow(id); err != nil {
		h.logf("host: %v", err)
	}
}

func (h *Host) handleEvent(ev tabset.Event) {
	h.logf("host: event %s %s", ev.Kind, ev.TabID)
	switch ev.Kind {
	case tabset.EventClose:
		if h.TmuxMode() {
			if err := h.windows.KillWindow(ev.TabID); err != nil {
				h.logf("host: %v", err)
			}
			h.refreshWindows()
			return
		}
		h.Tabset.Registry.Unregister(ev.TabID)
	case tabset.EventNewTab:
		if h.TmuxMode() {
			if err := h.windows.NewWindow(); err != nil {
				h.logf("host: %v", err)
			}
			h.refreshWindows()
			return
		}
		id := h.Tabset.Registry.Register(tabset.Tab{Label: NewTabLabel, Closeable: h.Config.Buttons.Close})
		h.Tabset.Selection.Select(id)
	case tabset.EventOpenTab:
		// No picker to open; the event is only logged.
	}
}

// SetWidth records the container width and re-evaluates the display mode.
func (h *Host) SetWidth(width int) tabset.DisplayMode {
	h.Measurer.SetWidth(width)
	return h.Tabset.Overflow.Reflow()
}

// View renders the current state.
func (h *Host) View() string {
	return h.Renderer.View(h.Tabset)
}

// HandleKey applies a key press and returns the action it resolved to.
// Quit is left to the caller.
func (h *Host) HandleKey(k fmt.Stringer) bindings.Action {
	action := h.Keys.Resolve(k)
	ts := h.Tabset
	switch action {
	case bindings.Next:
		ts.Step(1)
	case bindings.Prev:
		ts.Step(-1)
	case bindings.Activate, bindings.ToggleList:
		ts.Overflow.ToggleList()
	case bindings.CloseList:
		ts.Overflow.CloseList()
	case bindings.NewTab:
		ts.RequestNewTab()
	case bindings.CloseTab:
		ts.RequestClose(ts.Selection.ActiveID())
	}
	return action
}

// Apply performs a click action on target.
func (h *Host) Apply(action, target string) {
	ts := h.Tabset
	switch action {
	case render.ActionSelect:
		ts.Activate(target)
	case render.ActionClose:
		ts.RequestClose(target)
	case render.ActionToggle:
		ts.Overflow.ToggleList()
	case render.ActionNewTab:
		ts.RequestNewTab()
	case render.ActionOpenTab:
		ts.RequestOpenTab()
	default:
		h.logf("host: unknown action %q", action)
	}
}

// Click applies whatever sits at cell x, y of View. It reports whether
// anything was hit.
func (h *Host) Click(x, y int) bool {
	g, ok := render.HitTest(h.Renderer.Layout(h.Tabset), x, y)
	if ok {
		h.Apply(g.Action, g.Target)
	}
	return ok
}

// Navigate replaces the location as if the user edited the URL.
func (h *Host) Navigate(rawQuery string) error {
	return h.Store.Navigate(rawQuery)
}

// ReloadQuery re-reads a file-backed store.
func (h *Host) ReloadQuery() error {
	if f, ok := h.Store.(*query.File); ok {
		return f.Reload()
	}
	return nil
}

// ApplyConfig swaps in a reloaded config. Style, bindings, buttons and tabs
// apply in place. A new source, permalink id or max width rebuilds the
// tabset with the current tab kept active.
func (h *Host) ApplyConfig(cfg *config.Config) {
	old := h.Config
	if cfg.Source != old.Source || cfg.PermalinkID != old.PermalinkID || cfg.MaxWidth != old.MaxWidth {
		active := h.Tabset.Selection.ActiveID()
		width := h.Measurer.Width()
		h.Close()
		h.build(cfg, active, width)
		return
	}
	h.Config = cfg
	h.Keys = bindings.New(cfg.Bindings)
	zones := h.Renderer.Zones
	*h.Renderer = *render.New(cfg.Style, cfg.Buttons)
	h.Renderer.Zones = zones
	h.loadTabs()
	h.Tabset.Overflow.Reflow()
}
