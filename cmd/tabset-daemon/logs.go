package main

import (
	"fmt"
	"log"
	"os"
	"runtime/debug"
)

var (
	crashLog *log.Logger
	eventLog *log.Logger
)

// openLog appends to /tmp/tabset-daemon-<session>-<kind>.log, falling back
// to stderr when the file cannot be opened.
func openLog(sessionID, kind, prefix string) *log.Logger {
	path := fmt.Sprintf("/tmp/tabset-daemon-%s-%s.log", sessionID, kind)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stderr, fmt.Sprintf("[%s] ", kind), log.LstdFlags)
	}
	return log.New(f, prefix, log.LstdFlags|log.Lmicroseconds)
}

func logEvent(format string, args ...interface{}) {
	if eventLog != nil {
		eventLog.Printf(format, args...)
	}
}

func logCrash(context string, r interface{}) {
	if crashLog == nil {
		crashLog = log.New(os.Stderr, "[crash] ", log.LstdFlags)
	}
	crashLog.Printf("=== CRASH in %s ===", context)
	crashLog.Printf("Panic: %v", r)
	crashLog.Printf("Stack trace:\n%s", debug.Stack())
	crashLog.Printf("=== END CRASH ===\n")
}

// recoverAndLog is deferred at the top of every long-lived goroutine.
func recoverAndLog(context string) {
	if r := recover(); r != nil {
		logCrash(context, r)
	}
}
