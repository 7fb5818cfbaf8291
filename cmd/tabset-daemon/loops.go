package main

import (
	"os"
	"time"
)

const (
	refreshInterval   = 5 * time.Second
	idleCheckInterval = 10 * time.Second
	idleTimeout       = 30 * time.Second
)

// refreshLoop calls refresh on every signal and every interval tick, which
// covers tmux hooks that never fire. Bursts of signals collapse into one
// refresh per loop pass.
func refreshLoop(signals <-chan os.Signal, interval time.Duration, done <-chan struct{}, refresh func(fromSignal bool)) {
	defer recoverAndLog("refresh-loop")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		fromSignal := false
		select {
		case <-signals:
			fromSignal = true
		drain:
			for {
				select {
				case <-signals:
				default:
					break drain
				}
			}
		case <-ticker.C:
		case <-done:
			return
		}
		refresh(fromSignal)
	}
}

type clientCounter interface {
	ClientCount() int
	Done() <-chan struct{}
}

// idleMonitor calls onIdle once when no client has been connected for
// longer than timeout.
func idleMonitor(server clientCounter, interval, timeout time.Duration, onIdle func()) {
	defer recoverAndLog("idle-monitor")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	var idleSince time.Time
	for {
		select {
		case <-server.Done():
			return
		case <-ticker.C:
		}
		if server.ClientCount() > 0 {
			idleSince = time.Time{}
			continue
		}
		if idleSince.IsZero() {
			idleSince = time.Now()
		} else if time.Since(idleSince) > timeout {
			onIdle()
			return
		}
	}
}
