package main

import (
	"log"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/b/tabset/pkg/bindings"
	"github.com/b/tabset/pkg/config"
	"github.com/b/tabset/pkg/daemon"
	"github.com/b/tabset/pkg/host"
	"github.com/b/tabset/pkg/query"
)

// Coordinator owns the one tabset every client renders. The host is touched
// only from the loop goroutine; exported methods post to the loop and wait.
type Coordinator struct {
	host *host.Host

	ops      chan func()
	done     chan struct{}
	stopOnce sync.Once
}

// NewCoordinator builds the shared host. A nil store keeps the location in
// memory.
func NewCoordinator(cfg *config.Config, store host.Store, logger *log.Logger) *Coordinator {
	return newCoordinator(cfg, store, logger, host.Tmux)
}

func newCoordinator(cfg *config.Config, store host.Store, logger *log.Logger, windows host.WindowOps) *Coordinator {
	c := &Coordinator{
		host: host.New(cfg, store, windows, logger),
		ops:  make(chan func()),
		done: make(chan struct{}),
	}
	go c.loop()
	return c
}

func (c *Coordinator) loop() {
	for {
		select {
		case op := <-c.ops:
			op()
		case <-c.done:
			return
		}
	}
}

// do runs fn on the loop and waits for it. A panic in fn is logged and the
// loop keeps running.
func (c *Coordinator) do(fn func()) {
	finished := make(chan struct{})
	op := func() {
		defer close(finished)
		defer recoverAndLog("coordinator")
		fn()
	}
	select {
	case c.ops <- op:
		<-finished
	case <-c.done:
	}
}

// Stop ends the loop and detaches the tabset.
func (c *Coordinator) Stop() {
	c.stopOnce.Do(func() {
		c.do(c.host.Close)
		close(c.done)
	})
}

// RenderForClient draws the shared tabset for one client.
func (c *Coordinator) RenderForClient(clientID string, width int, colorProfile string) *daemon.RenderPayload {
	var payload *daemon.RenderPayload
	c.do(func() {
		h := c.host
		lipgloss.SetColorProfile(profileFor(colorProfile))
		content := h.View()
		if width > 0 {
			content = lipgloss.NewStyle().MaxWidth(width).Render(content)
		}
		var regions []daemon.ClickableRegion
		for _, g := range h.Renderer.Layout(h.Tabset) {
			if width > 0 && g.StartCol >= width {
				continue
			}
			regions = append(regions, daemon.ClickableRegion{
				Line:     g.Line,
				StartCol: g.StartCol,
				EndCol:   g.EndCol,
				Action:   g.Action,
				Target:   g.Target,
			})
		}
		payload = &daemon.RenderPayload{
			Content:  content,
			Width:    width,
			Mode:     h.Tabset.Overflow.Mode().String(),
			ActiveID: h.Tabset.Selection.ActiveID(),
			ListOpen: h.Tabset.Overflow.IsOpen(),
			Location: h.Store.Path(),
			Regions:  regions,
		}
	})
	return payload
}

func profileFor(name string) termenv.Profile {
	switch name {
	case "Ascii":
		return termenv.Ascii
	case "ANSI":
		return termenv.ANSI
	case "TrueColor":
		return termenv.TrueColor
	}
	return termenv.ANSI256
}

// Resize re-evaluates the display mode for the narrowest client.
func (c *Coordinator) Resize(minWidth int) {
	c.do(func() { c.host.SetWidth(minWidth) })
}

// HandleInput applies a client's key, click or resolved action.
func (c *Coordinator) HandleInput(clientID string, input *daemon.InputPayload) {
	c.do(func() {
		switch input.Type {
		case "key":
			c.host.HandleKey(bindings.Name(input.Key))
		case "mouse":
			if input.Button != "" && input.Button != "left" {
				return
			}
			c.host.Click(input.MouseX, input.MouseY)
		case "action":
			c.host.Apply(input.ResolvedAction, input.ResolvedTarget)
		default:
			logEvent("INPUT_UNKNOWN client=%s type=%q", clientID, input.Type)
		}
	})
}

// Navigate replaces the shared location, as if a client edited its URL.
func (c *Coordinator) Navigate(rawQuery string) error {
	var err error
	c.do(func() { err = c.host.Navigate(rawQuery) })
	return err
}

// ReloadQuery picks up a query file changed by another process.
func (c *Coordinator) ReloadQuery() error {
	var err error
	c.do(func() { err = c.host.ReloadQuery() })
	return err
}

// RefreshWindows re-reads tmux windows. It does nothing for config tabs.
func (c *Coordinator) RefreshWindows() {
	c.do(c.host.RefreshWindows)
}

// ApplyConfig swaps in a reloaded config.
func (c *Coordinator) ApplyConfig(cfg *config.Config) {
	c.do(func() { c.host.ApplyConfig(cfg) })
}

// ActiveID returns the active tab id.
func (c *Coordinator) ActiveID() string {
	var id string
	c.do(func() { id = c.host.Tabset.Selection.ActiveID() })
	return id
}

var _ host.Store = (*query.File)(nil)
