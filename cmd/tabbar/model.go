package main

import (
	"log"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/b/tabset/pkg/bindings"
	"github.com/b/tabset/pkg/config"
	"github.com/b/tabset/pkg/host"
	"github.com/b/tabset/pkg/render"
)

type refreshMsg struct{}
type tickMsg struct{}
type reloadConfigMsg struct{}
type reloadQueryMsg struct{}

const pollInterval = 5 * time.Second

type model struct {
	host       *host.Host
	configPath string
	help       help.Model
	showHelp   bool
	width      int
	// zones is set when the global bubblezone manager is running.
	zones  bool
	logger *log.Logger
}

func newModel(h *host.Host, configPath string, zones bool, logger *log.Logger) model {
	h.Renderer.Zones = zones
	return model{
		host:       h,
		configPath: configPath,
		help:       help.New(),
		zones:      zones,
		logger:     logger,
	}
}

func (m model) logf(format string, args ...interface{}) {
	if m.logger != nil {
		m.logger.Printf(format, args...)
	}
}

func tick() tea.Cmd {
	return tea.Tick(pollInterval, func(time.Time) tea.Msg { return tickMsg{} })
}

func (m model) Init() tea.Cmd {
	if m.host.TmuxMode() {
		return tick()
	}
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.host.HandleKey(msg) {
		case bindings.Quit:
			return m, tea.Quit
		case bindings.Help:
			m.showHelp = !m.showHelp
		}

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			return m, nil
		}
		switch msg.Button {
		case tea.MouseButtonLeft:
			if action, target, ok := m.zoneHit(msg); ok {
				m.host.Apply(action, target)
			} else {
				m.host.Click(msg.X, msg.Y)
			}
		case tea.MouseButtonMiddle:
			// Middle-click closes the clicked tab.
			action, target, ok := m.zoneHit(msg)
			if !ok {
				if g, hit := render.HitTest(m.host.Renderer.Layout(m.host.Tabset), msg.X, msg.Y); hit {
					action, target, ok = g.Action, g.Target, true
				}
			}
			if ok && (action == render.ActionSelect || action == render.ActionClose) {
				m.host.Apply(render.ActionClose, target)
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		mode := m.host.SetWidth(msg.Width)
		m.logf("resize width=%d mode=%s", msg.Width, mode)

	case refreshMsg:
		m.host.RefreshWindows()

	case tickMsg:
		m.host.RefreshWindows()
		return m, tick()

	case reloadConfigMsg:
		cfg, err := config.LoadConfig(m.configPath)
		if err != nil {
			m.logf("config reload: %v", err)
			return m, nil
		}
		wasTmux := m.host.TmuxMode()
		m.host.ApplyConfig(cfg)
		if m.host.TmuxMode() && !wasTmux {
			return m, tick()
		}

	case reloadQueryMsg:
		if err := m.host.ReloadQuery(); err != nil {
			m.logf("query reload: %v", err)
		}
	}
	return m, nil
}

// zoneHit resolves a click through bubblezone markers. Close buttons sit
// inside their tab's zone so they are checked first.
func (m model) zoneHit(msg tea.MouseMsg) (string, string, bool) {
	if !m.zones {
		return "", "", false
	}
	in := func(id string) bool {
		z := zone.Get(id)
		return z != nil && z.InBounds(msg)
	}
	switch {
	case in(render.ZoneTrigger):
		return render.ActionToggle, "", true
	case in(render.ZoneNewTab):
		return render.ActionNewTab, "", true
	case in(render.ZoneOpenTab):
		return render.ActionOpenTab, "", true
	}
	snap := m.host.Tabset.Registry.Current()
	for _, t := range snap {
		if in(render.CloseZone(t.ID)) {
			return render.ActionClose, t.ID, true
		}
	}
	for _, t := range snap {
		if in(render.TabZone(t.ID)) || in(render.EntryZone(t.ID)) {
			return render.ActionSelect, t.ID, true
		}
	}
	return "", "", false
}

func (m model) View() string {
	v := m.host.View()
	if m.showHelp {
		v += "\n" + m.help.View(m.host.Keys)
	}
	if m.zones {
		return zone.Scan(v)
	}
	return v
}
