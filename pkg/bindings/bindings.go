// Package bindings turns configured key names into bubbles key bindings and
// resolves key presses to tab bar actions. It is shared by the bubbletea bar
// and the daemon, which receives key names from remote renderers.
package bindings

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"

	"github.com/b/tabset/pkg/config"
)

type Action int

const (
	None Action = iota
	Next
	Prev
	Activate
	ToggleList
	CloseList
	NewTab
	CloseTab
	Help
	Quit
)

var actionNames = map[Action]string{
	None:       "none",
	Next:       "next",
	Prev:       "prev",
	Activate:   "activate",
	ToggleList: "toggle_list",
	CloseList:  "close_list",
	NewTab:     "new_tab",
	CloseTab:   "close_tab",
	Help:       "help",
	Quit:       "quit",
}

func (a Action) String() string {
	if s, ok := actionNames[a]; ok {
		return s
	}
	return fmt.Sprintf("action(%d)", int(a))
}

type KeyMap struct {
	Next       key.Binding
	Prev       key.Binding
	Activate   key.Binding
	ToggleList key.Binding
	CloseList  key.Binding
	NewTab     key.Binding
	CloseTab   key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// New builds a key map from configured bindings.
func New(b config.Bindings) KeyMap {
	return KeyMap{
		Next:       key.NewBinding(key.WithKeys(b.Next...), key.WithHelp(first(b.Next), "next tab")),
		Prev:       key.NewBinding(key.WithKeys(b.Prev...), key.WithHelp(first(b.Prev), "previous tab")),
		Activate:   key.NewBinding(key.WithKeys(b.Activate...), key.WithHelp(first(b.Activate), "activate")),
		ToggleList: key.NewBinding(key.WithKeys(b.Toggle...), key.WithHelp(first(b.Toggle), "tab list")),
		CloseList:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close list")),
		NewTab:     key.NewBinding(key.WithKeys(b.NewTab...), key.WithHelp(first(b.NewTab), "new tab")),
		CloseTab:   key.NewBinding(key.WithKeys(b.CloseTab...), key.WithHelp(first(b.CloseTab), "close tab")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys(b.Quit...), key.WithHelp(first(b.Quit), "quit")),
	}
}

func first(keys []string) string {
	if len(keys) == 0 {
		return ""
	}
	return keys[0]
}

// Name adapts a plain key name such as "enter" for key.Matches.
type Name string

func (n Name) String() string { return string(n) }

// Resolve maps a key press to an action. Earlier bindings win when a key is
// bound twice.
func (k KeyMap) Resolve(msg fmt.Stringer) Action {
	switch {
	case key.Matches(msg, k.Quit):
		return Quit
	case key.Matches(msg, k.CloseList):
		return CloseList
	case key.Matches(msg, k.Next):
		return Next
	case key.Matches(msg, k.Prev):
		return Prev
	case key.Matches(msg, k.Activate):
		return Activate
	case key.Matches(msg, k.ToggleList):
		return ToggleList
	case key.Matches(msg, k.NewTab):
		return NewTab
	case key.Matches(msg, k.CloseTab):
		return CloseTab
	case key.Matches(msg, k.Help):
		return Help
	}
	return None
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Activate, k.ToggleList, k.NewTab, k.CloseTab, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.CloseList}}
}
