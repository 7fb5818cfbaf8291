// Package tmux maps the current session's windows onto tabs.
package tmux

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/b/tabset/pkg/tabset"
)

// run executes tmux. Replaced in tests.
var run = func(args ...string) ([]byte, error) {
	return exec.Command("tmux", args...).Output()
}

const windowFormat = "#{window_id}\x1f#{window_index}\x1f#{window_name}\x1f#{window_active}\x1f#{window_bell_flag}\x1f#{window_panes}"

type Window struct {
	ID     string
	Index  int
	Name   string
	Active bool
	Bell   bool
	Panes  int
}

func ListWindows() ([]Window, error) {
	out, err := run("list-windows", "-F", windowFormat)
	if err != nil {
		return nil, fmt.Errorf("tmux list-windows failed: %w", err)
	}
	return parseWindows(string(out)), nil
}

func parseWindows(out string) []Window {
	var windows []Window
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}
		parts := strings.Split(line, "\x1f")
		if len(parts) < 6 {
			continue
		}
		index, err := strconv.Atoi(parts[1])
		if err != nil {
			continue
		}
		panes, _ := strconv.Atoi(parts[5])
		windows = append(windows, Window{
			ID:     parts[0],
			Index:  index,
			Name:   ansi.Strip(parts[2]),
			Active: parts[3] == "1",
			Bell:   parts[4] == "1",
			Panes:  panes,
		})
	}
	return windows
}

// TabsFromWindows converts windows to tab records in window order. Windows
// with more than one pane carry the pane count as their badge. The second
// return value is the id of the active window.
func TabsFromWindows(windows []Window) ([]tabset.Tab, string) {
	tabs := make([]tabset.Tab, 0, len(windows))
	active := ""
	for _, w := range windows {
		var count *int
		if w.Panes > 1 {
			count = tabset.IntPtr(w.Panes)
		}
		tabs = append(tabs, tabset.Tab{
			ID:             w.ID,
			Label:          fmt.Sprintf("%d:%s", w.Index, w.Name),
			Count:          count,
			PermalinkValue: w.Name,
			Closeable:      true,
		})
		if w.Active {
			active = w.ID
		}
	}
	return tabs, active
}

// SelectWindow switches the session to the window with the given id.
func SelectWindow(id string) error {
	if _, err := run("select-window", "-t", id); err != nil {
		return fmt.Errorf("tmux select-window %s: %w", id, err)
	}
	return nil
}

// NewWindow opens a window after the current one.
func NewWindow() error {
	if _, err := run("new-window", "-a"); err != nil {
		return fmt.Errorf("tmux new-window: %w", err)
	}
	return nil
}

// KillWindow closes the window with the given id.
func KillWindow(id string) error {
	if _, err := run("kill-window", "-t", id); err != nil {
		return fmt.Errorf("tmux kill-window %s: %w", id, err)
	}
	return nil
}
