// Package paths resolves where tabset keeps its files.
//
//	Config:  ~/.config/tabset/config.yaml   (TABSET_CONFIG_DIR)
//	State:   ~/.local/state/tabset/         (TABSET_STATE_DIR)
//	Runtime: $TMPDIR/tabset-<name>          (TABSET_RUNTIME_DIR)
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

type dir struct {
	env  string
	home []string
	once sync.Once
	path string
}

func (d *dir) get() string {
	d.once.Do(func() {
		if v := os.Getenv(d.env); v != "" {
			d.path = v
			return
		}
		home, err := os.UserHomeDir()
		if err != nil {
			d.path = "."
			return
		}
		d.path = filepath.Join(append([]string{home}, d.home...)...)
	})
	return d.path
}

func (d *dir) ensure() (string, error) {
	p := d.get()
	if err := os.MkdirAll(p, 0755); err != nil {
		return "", fmt.Errorf("create %s: %w", p, err)
	}
	return p, nil
}

var (
	configDir *dir
	stateDir  *dir
)

func init() {
	ResetForTest()
}

// ConfigDir is TABSET_CONFIG_DIR or ~/.config/tabset.
func ConfigDir() string { return configDir.get() }

// StateDir is TABSET_STATE_DIR or ~/.local/state/tabset.
func StateDir() string { return stateDir.get() }

// ConfigPath is the config.yaml inside ConfigDir.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// StatePath joins name onto StateDir, e.g. "query.yaml".
func StatePath(name string) string {
	return filepath.Join(StateDir(), name)
}

// RuntimePath names a per-user runtime file such as the daemon socket.
// Not cached, so tests can point TABSET_RUNTIME_DIR at a temp dir.
func RuntimePath(name string) string {
	base := os.Getenv("TABSET_RUNTIME_DIR")
	if base == "" {
		base = os.TempDir()
	}
	return filepath.Join(base, "tabset-"+name)
}

// EnsureConfigDir creates ConfigDir if needed.
func EnsureConfigDir() (string, error) { return configDir.ensure() }

// EnsureStateDir creates StateDir if needed.
func EnsureStateDir() (string, error) { return stateDir.ensure() }

// ResetForTest drops cached directories so the environment is read again.
func ResetForTest() {
	configDir = &dir{env: "TABSET_CONFIG_DIR", home: []string{".config", "tabset"}}
	stateDir = &dir{env: "TABSET_STATE_DIR", home: []string{".local", "state", "tabset"}}
}
