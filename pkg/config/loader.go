package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/b/tabset/pkg/colors"
)

var (
	ErrTabNotFound = errors.New("tab not found")
	ErrTabExists   = errors.New("tab already exists")
	ErrTabID       = errors.New("tab id is required")
)

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// LoadOrDefault loads path, falling back to Default when the file does not
// exist. Any other failure is returned.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// SaveConfig writes the config to the specified path
func SaveConfig(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// AddTab appends a tab. Ids must be unique.
func AddTab(cfg *Config, tab TabSpec) error {
	if tab.ID == "" {
		return ErrTabID
	}
	if FindTab(cfg, tab.ID) != nil {
		return ErrTabExists
	}
	cfg.Tabs = append(cfg.Tabs, tab)
	return nil
}

// UpdateTab replaces the tab with id oldID, keeping its position.
func UpdateTab(cfg *Config, oldID string, tab TabSpec) error {
	if tab.ID == "" {
		return ErrTabID
	}
	if tab.ID != oldID && FindTab(cfg, tab.ID) != nil {
		return ErrTabExists
	}
	for i := range cfg.Tabs {
		if cfg.Tabs[i].ID == oldID {
			cfg.Tabs[i] = tab
			return nil
		}
	}
	return ErrTabNotFound
}

// DeleteTab removes a tab by id.
func DeleteTab(cfg *Config, id string) error {
	for i := range cfg.Tabs {
		if cfg.Tabs[i].ID == id {
			cfg.Tabs = append(cfg.Tabs[:i], cfg.Tabs[i+1:]...)
			return nil
		}
	}
	return ErrTabNotFound
}

// FindTab returns a pointer to the tab with the given id, or nil if not found
func FindTab(cfg *Config, id string) *TabSpec {
	for i := range cfg.Tabs {
		if cfg.Tabs[i].ID == id {
			return &cfg.Tabs[i]
		}
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Source == "" {
		cfg.Source = "config"
	}
	if cfg.MaxWidth < 0 {
		cfg.MaxWidth = 0
	}

	s := &cfg.Style
	p := colors.Lookup(s.Theme)
	if s.ActiveFg == "" {
		if s.ActiveBg != "" {
			// Custom background without a foreground: pick a readable one.
			s.ActiveFg = colors.TextColorFor(s.ActiveBg)
		} else {
			s.ActiveFg = p.ActiveFg
		}
	}
	if s.ActiveBg == "" {
		s.ActiveBg = p.ActiveBg
	}
	if s.InactiveFg == "" {
		if s.InactiveBg != "" {
			s.InactiveFg = colors.TextColorFor(s.InactiveBg)
		} else {
			s.InactiveFg = p.InactiveFg
		}
	}
	if s.InactiveBg == "" {
		s.InactiveBg = p.InactiveBg
	}
	if s.DisabledFg == "" {
		s.DisabledFg = p.DisabledFg
	}
	if s.BadgeFg == "" {
		s.BadgeFg = p.BadgeFg
	}
	if s.Separator == "" {
		s.Separator = " "
	}
	if s.Indicator == "" {
		s.Indicator = "▾"
	}

	b := &cfg.Bindings
	if len(b.Next) == 0 {
		b.Next = []string{"right", "l", "tab"}
	}
	if len(b.Prev) == 0 {
		b.Prev = []string{"left", "h", "shift+tab"}
	}
	if len(b.Activate) == 0 {
		b.Activate = []string{"enter", " "}
	}
	if len(b.Toggle) == 0 {
		b.Toggle = []string{"o"}
	}
	if len(b.NewTab) == 0 {
		b.NewTab = []string{"n"}
	}
	if len(b.CloseTab) == 0 {
		b.CloseTab = []string{"x"}
	}
	if len(b.Quit) == 0 {
		b.Quit = []string{"q", "ctrl+c"}
	}
}
