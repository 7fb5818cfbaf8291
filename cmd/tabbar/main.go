package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/b/tabset/pkg/config"
	"github.com/b/tabset/pkg/host"
	"github.com/b/tabset/pkg/paths"
	"github.com/b/tabset/pkg/perf"
	"github.com/b/tabset/pkg/query"
)

var (
	configPath = flag.String("config", "", "config file (default: tabset config dir)")
	queryPath  = flag.String("query", "", "shared query file (default: tabset state dir)")
	location   = flag.String("location", "", "initial query string, e.g. ?docs-active-tab=api")
	debugMode  = flag.Bool("debug", false, "Log events to /tmp/tabset-bar-<pid>-events.log")
)

func eventLogger() *log.Logger {
	if !*debugMode {
		return nil
	}
	path := fmt.Sprintf("/tmp/tabset-bar-%d-events.log", os.Getpid())
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stderr, "[EVENT] ", log.LstdFlags)
	}
	perf.SetOutput(f)
	return log.New(f, "[event] ", log.LstdFlags|log.Lmicroseconds)
}

func main() {
	flag.Parse()
	logger := eventLogger()

	if *configPath == "" {
		*configPath = config.DefaultConfigPath()
	}
	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config %s: %v, using defaults\n", *configPath, err)
		cfg = config.Default()
	}

	if *queryPath == "" {
		if _, err := paths.EnsureStateDir(); err != nil {
			fmt.Fprintf(os.Stderr, "State dir: %v\n", err)
		}
		*queryPath = paths.StatePath("query.yaml")
	}
	store, err := query.OpenFile(*queryPath, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *location != "" {
		if err := store.Navigate(*location); err != nil {
			fmt.Fprintf(os.Stderr, "Bad location %q: %v\n", *location, err)
		}
	}

	lipgloss.SetColorProfile(termenv.EnvColorProfile())
	zone.NewGlobal()

	h := host.New(cfg, store, host.Tmux, logger)
	defer h.Close()
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		h.SetWidth(w)
	}

	m := newModel(h, *configPath, true, logger)
	p := tea.NewProgram(m, tea.WithMouseCellMotion())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGUSR1)
	go func() {
		for range sigChan {
			p.Send(refreshMsg{})
		}
	}()

	if stop, err := query.WatchFile(*configPath, func() { p.Send(reloadConfigMsg{}) }); err == nil {
		defer stop()
	} else if logger != nil {
		logger.Printf("config watch: %v", err)
	}
	if stop, err := query.WatchFile(store.Filename(), func() { p.Send(reloadQueryMsg{}) }); err == nil {
		defer stop()
	} else if logger != nil {
		logger.Printf("query watch: %v", err)
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if logger != nil {
		logger.Printf("exit location=%s", store.Path())
	}
}
