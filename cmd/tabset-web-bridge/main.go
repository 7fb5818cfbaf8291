package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	"github.com/b/tabset/pkg/daemon"
)

func main() {
	host := flag.String("host", "127.0.0.1", "HTTP server host (loopback only)")
	port := flag.Int("port", 8080, "HTTP server port")
	sessionID := flag.String("session", "", "tmux session ID")
	tokenFile := flag.String("token-file", "", "token file path (default: tabset state dir)")
	regenerateToken := flag.Bool("regenerate-token", false, "regenerate auth token on startup")
	authUser := flag.String("auth-user", "", "required username for web access")
	authPass := flag.String("auth-pass", "", "required password for web access")
	debugMode := flag.Bool("debug", false, "Log connections to stderr")
	flag.Parse()

	if *sessionID == "" {
		if out, err := exec.Command("tmux", "display-message", "-p", "#{session_id}").Output(); err == nil {
			*sessionID = strings.TrimSpace(string(out))
		}
	}

	tokenPath := *tokenFile
	if tokenPath == "" {
		tokenPath = DefaultTokenPath()
	}
	token, err := LoadToken(tokenPath, *regenerateToken)
	if err != nil {
		log.Fatalf("failed to load token: %v", err)
	}

	if *authUser == "" || *authPass == "" {
		log.Fatalf("auth-user and auth-pass are required")
	}

	var logger *log.Logger
	if *debugMode {
		logger = log.New(os.Stderr, "[bridge] ", log.LstdFlags|log.Lmicroseconds)
	}

	server := NewServer(ServerConfig{
		Host:       *host,
		Port:       *port,
		SocketPath: daemon.SocketPath(*sessionID),
		Token:      token,
		AuthUser:   *authUser,
		AuthPass:   *authPass,
		Logger:     logger,
	})
	if err := server.Start(); err != nil {
		log.Fatalf("server failed to start: %v", err)
	}
	fmt.Fprintf(os.Stderr, "Connect page: http://%s/connect\n", server.Addr())

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	server.Stop()
}
