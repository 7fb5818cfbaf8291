package query

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce is how long a burst of events must stay quiet before
// onChange fires. One save commonly produces several events.
var watchDebounce = 50 * time.Millisecond

// WatchFile calls onChange once path has been written, created or replaced
// and no further event arrived within watchDebounce.
// The parent directory is watched so editors that save by rename are seen.
// onChange runs on the watcher goroutine; UI hosts should forward it into
// their own loop (tea.Program.Send). The returned func stops the watcher.
func WatchFile(path string, onChange func()) (func(), error) {
	if path == "" {
		return nil, ErrNoPath
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	target := filepath.Clean(path)
	done := make(chan struct{})
	go func() {
		defer close(done)
		var settle <-chan time.Time
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					settle = time.After(watchDebounce)
				}
			case <-settle:
				settle = nil
				onChange()
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return func() {
		watcher.Close()
		<-done
	}, nil
}
