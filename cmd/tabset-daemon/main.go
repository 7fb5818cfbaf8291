package main

import (
	"flag"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	"github.com/b/tabset/pkg/config"
	"github.com/b/tabset/pkg/daemon"
	"github.com/b/tabset/pkg/paths"
	"github.com/b/tabset/pkg/perf"
	"github.com/b/tabset/pkg/query"
)

var (
	sessionID  = flag.String("session", "", "tmux session ID")
	configPath = flag.String("config", "", "config file (default: tabset config dir)")
	queryPath  = flag.String("query", "", "shared query file (default: tabset state dir)")
	debugMode  = flag.Bool("debug", false, "Enable debug logging")
)

var debugLog = log.New(os.Stderr, "", 0)

func main() {
	flag.Parse()

	if *sessionID == "" {
		out, err := exec.Command("tmux", "display-message", "-p", "#{session_id}").Output()
		if err == nil {
			*sessionID = strings.TrimSpace(string(out))
		}
	}
	if *sessionID == "" {
		*sessionID = "default"
	}

	crashLog = openLog(*sessionID, "crash", "")
	eventLog = openLog(*sessionID, "events", "[event] ")
	defer recoverAndLog("main")

	if *debugMode {
		debugLog = log.New(os.Stderr, "[daemon] ", log.LstdFlags|log.Lmicroseconds)
		perf.SetOutput(os.Stderr)
	}

	if *configPath == "" {
		*configPath = config.DefaultConfigPath()
	}
	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		debugLog.Printf("Config %s: %v, using defaults", *configPath, err)
		cfg = config.Default()
	}

	if *queryPath == "" {
		if _, err := paths.EnsureStateDir(); err != nil {
			debugLog.Printf("State dir: %v", err)
		}
		*queryPath = paths.StatePath("query.yaml")
	}
	store, err := query.OpenFile(*queryPath, eventLog)
	if err != nil {
		log.Fatalf("Failed to open query file: %v", err)
	}

	debugLog.Printf("Starting daemon for session %s", *sessionID)
	crashLog.Printf("Daemon started for session %s", *sessionID)

	coordinator := NewCoordinator(cfg, store, eventLog)
	defer coordinator.Stop()

	server := daemon.NewServer(*sessionID)
	server.Logger = eventLog

	wire(server, coordinator)

	if err := server.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
	debugLog.Printf("Server listening on %s", server.Path())
	logEvent("DAEMON_START session=%s pid=%d source=%s", *sessionID, os.Getpid(), cfg.Source)

	stopConfigWatch, err := query.WatchFile(*configPath, func() {
		defer recoverAndLog("config-watch")
		next, err := config.LoadConfig(*configPath)
		if err != nil {
			logEvent("CONFIG_RELOAD_ERROR err=%v", err)
			return
		}
		coordinator.ApplyConfig(next)
		logEvent("CONFIG_RELOAD path=%s", *configPath)
		server.BroadcastRender()
	})
	if err != nil {
		debugLog.Printf("Config watch disabled: %v", err)
	} else {
		defer stopConfigWatch()
	}

	stopQueryWatch, err := query.WatchFile(store.Filename(), func() {
		defer recoverAndLog("query-watch")
		if err := coordinator.ReloadQuery(); err != nil {
			logEvent("QUERY_RELOAD_ERROR err=%v", err)
			return
		}
		server.BroadcastRender()
	})
	if err != nil {
		debugLog.Printf("Query watch disabled: %v", err)
	} else {
		defer stopQueryWatch()
	}

	// SIGUSR1 from tmux hooks requests a window refresh.
	refreshSigCh := make(chan os.Signal, 10)
	signal.Notify(refreshSigCh, syscall.SIGUSR1)
	go refreshLoop(refreshSigCh, refreshInterval, server.Done(), func(fromSignal bool) {
		if fromSignal {
			logEvent("SIGNAL_REFRESH session=%s", *sessionID)
		}
		coordinator.RefreshWindows()
		server.BroadcastRender()
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	go idleMonitor(server, idleCheckInterval, idleTimeout, func() {
		logEvent("SHUTDOWN_REASON session=%s reason=idle_timeout clients=0", *sessionID)
		debugLog.Printf("No clients for %s, shutting down", idleTimeout)
		sigCh <- syscall.SIGTERM
	})

	<-sigCh
	debugLog.Printf("Shutting down daemon")
	logEvent("DAEMON_STOP session=%s pid=%d", *sessionID, os.Getpid())
	server.Stop()
}

// wire routes server callbacks into the coordinator. Broadcasts triggered
// while a client's own render is pending run on their own goroutine.
func wire(server *daemon.Server, coordinator *Coordinator) {
	server.OnRenderNeeded = func(clientID string, width, height int) (result *daemon.RenderPayload) {
		defer func() {
			if r := recover(); r != nil {
				debugLog.Printf("PANIC in OnRenderNeeded (client=%s): %v", clientID, r)
				logEvent("PANIC_RENDER client=%s err=%v", clientID, r)
				result = nil
			}
		}()
		info, _ := server.Client(clientID)
		return coordinator.RenderForClient(clientID, width, info.ColorProfile)
	}

	server.OnInput = func(clientID string, input *daemon.InputPayload) {
		defer func() {
			if r := recover(); r != nil {
				debugLog.Printf("PANIC in OnInput handler (client=%s): %v", clientID, r)
				logEvent("PANIC_INPUT client=%s err=%v", clientID, r)
			}
		}()
		logEvent("INPUT client=%s type=%s key=%q action=%s", clientID, input.Type, input.Key, input.ResolvedAction)
		coordinator.HandleInput(clientID, input)
		server.BroadcastRender()
	}

	// Resize fires before the subscribing client's first render.
	server.OnResize = func(clientID string, width, height int) {
		coordinator.Resize(server.MinWidth())
		logEvent("RESIZE client=%s width=%d min=%d profile=%s", clientID, width, server.MinWidth(), server.MinColorProfile())
		go server.BroadcastRender()
	}

	server.OnNavigate = func(clientID string, rawQuery string) {
		if err := coordinator.Navigate(rawQuery); err != nil {
			logEvent("NAVIGATE_ERROR client=%s query=%q err=%v", clientID, rawQuery, err)
			return
		}
		logEvent("NAVIGATE client=%s query=%q", clientID, rawQuery)
		server.BroadcastRender()
	}

	server.OnDisconnect = func(clientID string) {
		coordinator.Resize(server.MinWidth())
		debugLog.Printf("Client disconnected: %s", clientID)
		logEvent("CLIENT_DISCONNECT client=%s", clientID)
		go server.BroadcastRender()
	}
}
