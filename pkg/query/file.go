package query

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

var ErrNoPath = errors.New("query file path is empty")

// File is a Memory store backed by a yaml map on disk. Set writes through;
// Reload picks up changes made by other processes.
type File struct {
	*Memory
	path   string
	logger *log.Logger
}

// OpenFile loads path if it exists. A missing file starts empty.
func OpenFile(path string, logger *log.Logger) (*File, error) {
	if path == "" {
		return nil, ErrNoPath
	}
	f := &File{Memory: NewMemory(), path: path, logger: logger}
	values, err := f.read()
	if err != nil {
		return nil, err
	}
	f.Memory.Replace(values)
	return f, nil
}

// Filename returns the backing file.
func (f *File) Filename() string {
	return f.path
}

// Set stores value and persists the full parameter set. Write failures are
// logged; the in-memory value still changes.
func (f *File) Set(key, value string) {
	if old, ok := f.Memory.Get(key); ok && old == value {
		return
	}
	f.Memory.Set(key, value)
	if err := f.save(); err != nil && f.logger != nil {
		f.logger.Printf("query: %v", err)
	}
}

// Reload re-reads the file and notifies subscribers of changed keys.
func (f *File) Reload() error {
	values, err := f.read()
	if err != nil {
		return err
	}
	f.Memory.Replace(values)
	return nil
}

func (f *File) read() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read query file: %w", err)
	}
	values := map[string]string{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse query file: %w", err)
	}
	return values, nil
}

func (f *File) save() error {
	data, err := yaml.Marshal(f.Memory.Values())
	if err != nil {
		return fmt.Errorf("failed to marshal query values: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return fmt.Errorf("failed to create query dir: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write query file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("failed to replace query file: %w", err)
	}
	return nil
}

// Navigate replaces the parameters from rawQuery and persists them.
func (f *File) Navigate(rawQuery string) error {
	if err := f.Memory.Navigate(rawQuery); err != nil {
		return err
	}
	return f.save()
}
