package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/b/tabset/pkg/paths"
)

const sampleConfig = `
permalink_id: docs
active: guide
max_width: 60
buttons:
  close: true
tabs:
  - id: api
    label: API
    count: 0
  - id: guide
    label: Design guidelines
    permalink: Design guidelines
    closeable: false
  - id: wip
    label: WIP
    disabled: true
    hidden: true
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.PermalinkID != "docs" || cfg.Active != "guide" || cfg.MaxWidth != 60 {
		t.Fatalf("unexpected top level %+v", cfg)
	}
	if cfg.Source != "config" {
		t.Errorf("Source default = %q", cfg.Source)
	}
	if cfg.Style.ActiveBg != "#3498db" || cfg.Style.Indicator != "▾" {
		t.Errorf("style defaults not applied: %+v", cfg.Style)
	}
	if len(cfg.Bindings.Activate) == 0 {
		t.Errorf("binding defaults not applied")
	}

	tabs := cfg.ToTabs()
	if len(tabs) != 3 {
		t.Fatalf("ToTabs() returned %d tabs", len(tabs))
	}
	if tabs[0].Count == nil || *tabs[0].Count != 0 {
		t.Errorf("zero count lost: %v", tabs[0].Count)
	}
	if !tabs[0].Closeable || tabs[1].Closeable {
		t.Errorf("closeable = %v, %v; want true, false", tabs[0].Closeable, tabs[1].Closeable)
	}
	if tabs[1].Slug() != "design-guidelines" {
		t.Errorf("Slug() = %q", tabs[1].Slug())
	}
	if !tabs[2].Disabled || !tabs[2].Unavailable {
		t.Errorf("tab 2 flags = %+v", tabs[2])
	}
	if tabs[1].Count != nil {
		t.Errorf("missing count should stay nil")
	}

	opts := cfg.Options()
	if opts.ActiveHint != "guide" || opts.PermalinkID != "docs" || opts.MaxWidth != 60 {
		t.Errorf("Options() = %+v", opts)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v", err)
	}
	if _, err := LoadConfig(writeConfig(t, "tabs: [")); err == nil {
		t.Errorf("expected parse error")
	}
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadOrDefault() error: %v", err)
	}
	if len(cfg.Tabs) != 0 || cfg.Style.ActiveFg == "" {
		t.Fatalf("unexpected default config %+v", cfg)
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("SaveConfig() error: %v", err)
	}
	again, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(again.Tabs) != 3 || again.Tabs[1].Permalink != "Design guidelines" {
		t.Fatalf("tabs after reload = %+v", again.Tabs)
	}
	if again.Tabs[0].Count == nil || *again.Tabs[0].Count != 0 {
		t.Fatalf("zero count not persisted")
	}
}

func TestTabCRUD(t *testing.T) {
	cfg := Default()

	if err := AddTab(cfg, TabSpec{ID: "a", Label: "A"}); err != nil {
		t.Fatalf("AddTab(a): %v", err)
	}
	if err := AddTab(cfg, TabSpec{ID: "b", Label: "B"}); err != nil {
		t.Fatalf("AddTab(b): %v", err)
	}
	if err := AddTab(cfg, TabSpec{ID: "a"}); !errors.Is(err, ErrTabExists) {
		t.Errorf("duplicate AddTab error = %v", err)
	}
	if err := AddTab(cfg, TabSpec{Label: "no id"}); !errors.Is(err, ErrTabID) {
		t.Errorf("AddTab without id error = %v", err)
	}

	if err := UpdateTab(cfg, "a", TabSpec{ID: "b"}); !errors.Is(err, ErrTabExists) {
		t.Errorf("rename onto existing id error = %v", err)
	}
	if err := UpdateTab(cfg, "a", TabSpec{ID: "a2", Label: "A2"}); err != nil {
		t.Fatalf("UpdateTab: %v", err)
	}
	if cfg.Tabs[0].ID != "a2" {
		t.Errorf("update moved the tab: %+v", cfg.Tabs)
	}
	if err := UpdateTab(cfg, "zzz", TabSpec{ID: "zzz"}); !errors.Is(err, ErrTabNotFound) {
		t.Errorf("UpdateTab(missing) error = %v", err)
	}

	if tab := FindTab(cfg, "b"); tab == nil || tab.Label != "B" {
		t.Errorf("FindTab(b) = %+v", tab)
	}
	if err := DeleteTab(cfg, "b"); err != nil {
		t.Fatalf("DeleteTab: %v", err)
	}
	if FindTab(cfg, "b") != nil {
		t.Errorf("tab b still present")
	}
	if err := DeleteTab(cfg, "b"); !errors.Is(err, ErrTabNotFound) {
		t.Errorf("second DeleteTab error = %v", err)
	}
}

func TestDefaultConfigPathUsesConfigDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TABSET_CONFIG_DIR", dir)
	paths.ResetForTest()
	t.Cleanup(paths.ResetForTest)
	if got, want := DefaultConfigPath(), filepath.Join(dir, "config.yaml"); got != want {
		t.Fatalf("DefaultConfigPath() = %q, want %q", got, want)
	}
}

func TestThemeFillsUnsetColors(t *testing.T) {
	cfg := &Config{Style: Style{Theme: "nord", BadgeFg: "#ff0000"}}
	applyDefaults(cfg)
	if cfg.Style.ActiveBg != "#88c0d0" || cfg.Style.ActiveFg != "#2e3440" {
		t.Errorf("active = %s on %s", cfg.Style.ActiveFg, cfg.Style.ActiveBg)
	}
	if cfg.Style.BadgeFg != "#ff0000" {
		t.Errorf("explicit badge color overwritten: %s", cfg.Style.BadgeFg)
	}

	cfg = &Config{Style: Style{Theme: "missing"}}
	applyDefaults(cfg)
	if cfg.Style.ActiveBg != "#3498db" {
		t.Errorf("unknown theme ActiveBg = %s", cfg.Style.ActiveBg)
	}
}

func TestCustomBackgroundDerivesText(t *testing.T) {
	cfg := &Config{Style: Style{ActiveBg: "#f1c40f", InactiveBg: "#1e1e2e"}}
	applyDefaults(cfg)
	if cfg.Style.ActiveFg != "#000000" {
		t.Errorf("ActiveFg on yellow = %s", cfg.Style.ActiveFg)
	}
	if cfg.Style.InactiveFg != "#ffffff" {
		t.Errorf("InactiveFg on dark = %s", cfg.Style.InactiveFg)
	}
}
