package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/b/tabset/pkg/daemon"
)

type ServerConfig struct {
	Host       string
	Port       int
	SocketPath string
	Token      string
	AuthUser   string
	AuthPass   string
	Logger     *log.Logger
}

// Server relays browser websockets to the tabset daemon. Each browser gets
// its own daemon client, so its width and location are tracked separately.
type Server struct {
	cfg        ServerConfig
	clients    map[*ClientConn]struct{}
	clientSeq  uint64
	mu         sync.RWMutex
	httpServer *http.Server
	listener   net.Listener
	upgrader   websocket.Upgrader
}

type ClientConn struct {
	id     string
	conn   *websocket.Conn
	daemon *daemon.Client
	mu     sync.Mutex
}

// WebSocketMessage is a daemon message as the browser sees it.
type WebSocketMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Browser messages passed through to the daemon.
var forwarded = map[daemon.MessageType]bool{
	daemon.MsgSubscribe: true,
	daemon.MsgResize:    true,
	daemon.MsgInput:     true,
	daemon.MsgNavigate:  true,
}

func NewServer(cfg ServerConfig) *Server {
	s := &Server{
		cfg:     cfg,
		clients: make(map[*ClientConn]struct{}),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

func (s *Server) logf(format string, args ...interface{}) {
	if s.cfg.Logger != nil {
		s.cfg.Logger.Printf(format, args...)
	}
}

// Handler serves the page, the connect page and the websocket.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/connect", s.handleConnect)
	mux.HandleFunc("/ws", s.handleWebSocket)
	return mux
}

func (s *Server) Start() error {
	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logf("http server error: %v", err)
		}
	}()
	return nil
}

// Addr is the bound address once started.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) Stop() {
	if s.httpServer != nil {
		_ = s.httpServer.Close()
	}
	s.mu.Lock()
	clients := make([]*ClientConn, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()
	for _, c := range clients {
		c.close()
	}
}

func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if !isLoopbackRequest(r) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	if !s.validateAuth(r, true) || !s.validateToken(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(tabBarPageHTML))
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if !isLoopbackRequest(r) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	if !s.validateAuth(r, true) || !s.validateToken(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id := "web-" + strconv.FormatUint(atomic.AddUint64(&s.clientSeq, 1), 10)
	dc, err := daemon.Dial(s.cfg.SocketPath, id)
	if err != nil {
		s.logf("%s: %v", id, err)
		http.Error(w, "daemon unavailable", http.StatusBadGateway)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logf("websocket upgrade failed: %v", err)
		dc.Close()
		return
	}

	client := &ClientConn{id: id, conn: conn, daemon: dc}
	s.addClient(client)
	s.logf("%s connected from %s", id, r.RemoteAddr)

	go s.daemonLoop(client)
	go s.readLoop(client)
}

// readLoop forwards browser messages to the daemon until either side closes.
func (s *Server) readLoop(client *ClientConn) {
	defer func() {
		s.removeClient(client)
		client.close()
		s.logf("%s disconnected", client.id)
	}()

	for {
		msgType, data, err := client.conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		if err := s.handleTextMessage(client, data); err != nil {
			s.logf("%s: %v", client.id, err)
		}
	}
}

func (s *Server) handleTextMessage(client *ClientConn, data []byte) error {
	var msg WebSocketMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return err
	}
	t := daemon.MessageType(msg.Type)
	if !forwarded[t] {
		return fmt.Errorf("unsupported message type %q", msg.Type)
	}
	if len(msg.Payload) == 0 {
		return client.daemon.Send(t, nil)
	}
	return client.daemon.Send(t, msg.Payload)
}

// daemonLoop forwards daemon messages to the browser. The websocket is
// closed when the daemon goes away, which ends readLoop.
func (s *Server) daemonLoop(client *ClientConn) {
	defer client.conn.Close()
	for {
		msg, err := client.daemon.Receive(0)
		if err != nil {
			return
		}
		data, err := json.Marshal(WebSocketMessage{Type: string(msg.Type), Payload: msg.Payload})
		if err != nil {
			continue
		}
		if err := client.sendText(data); err != nil {
			return
		}
	}
}

func (s *Server) addClient(client *ClientConn) {
	s.mu.Lock()
	s.clients[client] = struct{}{}
	s.mu.Unlock()
}

func (s *Server) removeClient(client *ClientConn) {
	s.mu.Lock()
	delete(s.clients, client)
	s.mu.Unlock()
}

func (c *ClientConn) sendText(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *ClientConn) close() {
	_ = c.daemon.Close()
	_ = c.conn.Close()
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}
	originHost := originURL.Hostname()
	if originHost == "" {
		return false
	}
	requestHost, _, err := net.SplitHostPort(r.Host)
	if err != nil {
		requestHost = r.Host
	}
	return originHost == requestHost || originHost == "localhost" || originHost == "127.0.0.1"
}
