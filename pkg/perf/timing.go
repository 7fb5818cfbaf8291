// Package perf writes optional timing lines for reflow and render passes.
// Set TABSET_PERF=1 to enable; output goes to TABSET_PERF_LOG or
// /tmp/tabset-perf.log.
package perf

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var (
	mu      sync.Mutex
	out     io.Writer
	enabled bool
	once    sync.Once
)

func setup() {
	once.Do(func() {
		if os.Getenv("TABSET_PERF") != "1" {
			return
		}
		path := os.Getenv("TABSET_PERF_LOG")
		if path == "" {
			path = "/tmp/tabset-perf.log"
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return
		}
		out = f
		enabled = true
	})
}

// SetOutput redirects timing output to w and enables it. A nil w disables
// timing. Intended for tests and embedding hosts.
func SetOutput(w io.Writer) {
	setup()
	mu.Lock()
	defer mu.Unlock()
	out = w
	enabled = w != nil
}

// Timer measures one named operation.
type Timer struct {
	name  string
	start time.Time
}

// Start begins timing name.
func Start(name string) *Timer {
	return &Timer{name: name, start: time.Now()}
}

// Stop logs and returns the elapsed time.
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Log("%s: %v", t.name, elapsed)
	return elapsed
}

// Log writes a timestamped line when timing is enabled.
func Log(format string, args ...interface{}) {
	setup()
	mu.Lock()
	defer mu.Unlock()
	if !enabled || out == nil {
		return
	}
	fmt.Fprintf(out, "%s: %s\n", time.Now().Format("15:04:05.000"), fmt.Sprintf(format, args...))
}

// IsEnabled reports whether timing output is on.
func IsEnabled() bool {
	setup()
	mu.Lock()
	defer mu.Unlock()
	return enabled
}
