package config

import (
	"github.com/b/tabset/pkg/paths"
	"github.com/b/tabset/pkg/tabset"
)

type Config struct {
	// Source is "config" for the tabs below or "tmux" for the session's windows.
	Source      string    `yaml:"source"`
	PermalinkID string    `yaml:"permalink_id"`
	Active      string    `yaml:"active"`
	MaxWidth    int       `yaml:"max_width"`
	Buttons     Buttons   `yaml:"buttons"`
	Tabs        []TabSpec `yaml:"tabs"`
	Style       Style     `yaml:"style"`
	Bindings    Bindings  `yaml:"bindings"`
	// Windows are rules applied to tmux windows, first match wins.
	Windows []WindowRule `yaml:"windows,omitempty"`
}

// WindowRule matches tmux window names by regular expression.
type WindowRule struct {
	Pattern string `yaml:"pattern"`
	Hide    bool   `yaml:"hide,omitempty"`
	Disable bool   `yaml:"disable,omitempty"`
	Label   string `yaml:"label,omitempty"`
}

type Buttons struct {
	NewTab  bool `yaml:"new_tab"`
	OpenTab bool `yaml:"open_tab"`
	Close   bool `yaml:"close"`
}

type TabSpec struct {
	ID        string `yaml:"id"`
	Label     string `yaml:"label"`
	Count     *int   `yaml:"count,omitempty"`
	Disabled  bool   `yaml:"disabled,omitempty"`
	Hidden    bool   `yaml:"hidden,omitempty"` // registered but unavailable
	Permalink string `yaml:"permalink,omitempty"`
	Closeable *bool  `yaml:"closeable,omitempty"` // nil follows buttons.close
}

type Style struct {
	// Theme names a built-in palette ("auto" follows the terminal
	// background). Colors set below override it.
	Theme      string `yaml:"theme,omitempty"`
	ActiveFg   string `yaml:"active_fg"`   // default: #ffffff
	ActiveBg   string `yaml:"active_bg"`   // default: #3498db
	InactiveFg string `yaml:"inactive_fg"` // default: #cccccc
	InactiveBg string `yaml:"inactive_bg"` // default: #333333
	DisabledFg string `yaml:"disabled_fg"` // default: #666666
	BadgeFg    string `yaml:"badge_fg"`    // default: #f39c12
	Separator  string `yaml:"separator"`
	Indicator  string `yaml:"indicator"` // dropdown trigger arrow
}

type Bindings struct {
	Next     []string `yaml:"next"`
	Prev     []string `yaml:"prev"`
	Activate []string `yaml:"activate"`
	Toggle   []string `yaml:"toggle_list"`
	NewTab   []string `yaml:"new_tab"`
	CloseTab []string `yaml:"close_tab"`
	Quit     []string `yaml:"quit"`
}

// DefaultConfigPath is the config.yaml under the tabset config dir.
func DefaultConfigPath() string {
	return paths.ConfigPath()
}

// Default returns a config with no tabs and every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// ToTabs converts the configured tabs into registry records.
func (c *Config) ToTabs() []tabset.Tab {
	tabs := make([]tabset.Tab, 0, len(c.Tabs))
	for _, spec := range c.Tabs {
		closeable := c.Buttons.Close
		if spec.Closeable != nil {
			closeable = *spec.Closeable
		}
		var count *int
		if spec.Count != nil {
			count = tabset.IntPtr(*spec.Count)
		}
		tabs = append(tabs, tabset.Tab{
			ID:             spec.ID,
			Label:          spec.Label,
			Count:          count,
			Disabled:       spec.Disabled,
			Unavailable:    spec.Hidden,
			PermalinkValue: spec.Permalink,
			Closeable:      closeable,
		})
	}
	return tabs
}

// Options builds the tabset options this config describes.
func (c *Config) Options() tabset.Options {
	return tabset.Options{
		ActiveHint:  c.Active,
		PermalinkID: c.PermalinkID,
		MaxWidth:    c.MaxWidth,
	}
}
