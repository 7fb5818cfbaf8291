package daemon

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
)

// claimPidfile writes this process's pid to path. A pidfile naming another
// live process means a daemon already owns the session.
func claimPidfile(path string) error {
	if data, err := os.ReadFile(path); err == nil {
		pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
		if err == nil && pid > 0 && pid != os.Getpid() && pidAlive(pid) {
			return fmt.Errorf("daemon already running with pid %d", pid)
		}
		os.Remove(path)
	}
	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0644); err != nil {
		return fmt.Errorf("failed to write pidfile: %w", err)
	}
	return nil
}

// pidAlive probes with signal 0; FindProcess always succeeds on Unix.
func pidAlive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}
