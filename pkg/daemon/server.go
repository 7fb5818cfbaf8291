package daemon

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// ClientInfo is a renderer's last reported size and color support.
type ClientInfo struct {
	Width        int
	Height       int
	ColorProfile string // "Ascii", "ANSI", "ANSI256", "TrueColor"
}

// peer is one subscribed connection.
type peer struct {
	id   string
	conn net.Conn
	info ClientInfo
	wmu  sync.Mutex
}

func (p *peer) write(msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	p.wmu.Lock()
	defer p.wmu.Unlock()
	p.conn.SetWriteDeadline(time.Now().Add(time.Second))
	_, err = p.conn.Write(append(data, '\n'))
	return err
}

// Server accepts renderer connections and fans renders out to them. Every
// callback may be invoked from several connection goroutines at once; hosts
// are expected to serialize them.
type Server struct {
	socketPath string
	pidPath    string
	listener   net.Listener

	mu    sync.RWMutex
	peers map[string]*peer

	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	seq      atomic.Uint64

	Logger *log.Logger

	// OnRenderNeeded returns the content for a client at its size.
	OnRenderNeeded func(clientID string, width, height int) *RenderPayload

	OnInput    func(clientID string, input *InputPayload)
	OnResize   func(clientID string, width, height int)
	OnNavigate func(clientID string, query string)
	// OnDisconnect runs after a client is removed.
	OnDisconnect func(clientID string)
}

// NewServer creates a server on the session's runtime socket.
func NewServer(sessionID string) *Server {
	return NewServerAt(SocketPath(sessionID), PidPath(sessionID))
}

// NewServerAt creates a server on explicit socket and pidfile paths.
func NewServerAt(socketPath, pidPath string) *Server {
	return &Server{
		socketPath: socketPath,
		pidPath:    pidPath,
		peers:      make(map[string]*peer),
		done:       make(chan struct{}),
	}
}

// Start claims the pidfile and listens on the socket.
func (s *Server) Start() error {
	if err := claimPidfile(s.pidPath); err != nil {
		return err
	}
	// A leftover socket belongs to a dead daemon once we own the pidfile.
	os.Remove(s.socketPath)

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		os.Remove(s.pidPath)
		return fmt.Errorf("failed to listen on socket: %w", err)
	}
	s.listener = listener

	s.wg.Add(1)
	go s.acceptLoop()
	return nil
}

// Stop closes every connection and removes the socket and pidfile.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
		if s.listener != nil {
			s.listener.Close()
		}
		s.mu.Lock()
		for id, p := range s.peers {
			p.conn.Close()
			delete(s.peers, id)
		}
		s.mu.Unlock()
		s.wg.Wait()
		os.Remove(s.socketPath)
		os.Remove(s.pidPath)
	})
}

// Done is closed when Stop is called.
func (s *Server) Done() <-chan struct{} {
	return s.done
}

func (s *Server) Path() string {
	return s.socketPath
}

func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.peers)
}

// Client returns a subscribed client's state.
func (s *Server) Client(clientID string) (ClientInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.peers[clientID]
	if !ok {
		return ClientInfo{}, false
	}
	return p.info, true
}

// ClientIDs lists subscribed clients in no particular order.
func (s *Server) ClientIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.peers))
	for id := range s.peers {
		ids = append(ids, id)
	}
	return ids
}

// MinWidth is the narrowest connected client, or 0 with no clients. The
// shared display mode is decided against it so every client fits.
func (s *Server) MinWidth() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	min := 0
	for _, p := range s.peers {
		if w := p.info.Width; w > 0 && (min == 0 || w < min) {
			min = w
		}
	}
	return min
}

// Lowest to highest; unknown profiles rank as ANSI256.
var profileRank = map[string]int{
	"Ascii":     0,
	"ANSI":      1,
	"ANSI256":   2,
	"TrueColor": 3,
}

// MinColorProfile is the weakest profile among clients, ANSI256 with none.
func (s *Server) MinColorProfile() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.peers) == 0 {
		return "ANSI256"
	}
	best, bestRank := "TrueColor", profileRank["TrueColor"]
	for _, p := range s.peers {
		name := p.info.ColorProfile
		rank, ok := profileRank[name]
		if !ok {
			name, rank = "ANSI256", profileRank["ANSI256"]
		}
		if rank < bestRank {
			best, bestRank = name, rank
		}
	}
	return best
}

func (s *Server) logf(format string, args ...interface{}) {
	if s.Logger != nil {
		s.Logger.Printf(format, args...)
	}
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.done:
				return
			default:
				s.logf("accept: %v", err)
				continue
			}
		}
		s.wg.Add(1)
		go s.serveConn(conn)
	}
}

// serveConn reads json lines until the client hangs up or unsubscribes.
func (s *Server) serveConn(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	p := &peer{conn: conn}
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		var msg Message
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			s.logf("bad message: %v", err)
			continue
		}
		if !s.dispatch(p, msg) {
			break
		}
	}
	s.removeClient(p)
}

// dispatch handles one message. It returns false when the connection
// should end.
func (s *Server) dispatch(p *peer, msg Message) bool {
	switch msg.Type {
	case MsgSubscribe:
		s.subscribe(p, msg)
	case MsgUnsubscribe:
		return false
	case MsgResize:
		var resize ResizePayload
		if err := msg.Decode(&resize); err != nil {
			return true
		}
		s.mu.Lock()
		p.info.Width, p.info.Height = resize.Width, resize.Height
		if resize.ColorProfile != "" {
			p.info.ColorProfile = resize.ColorProfile
		}
		s.mu.Unlock()
		if s.OnResize != nil {
			s.OnResize(p.id, resize.Width, resize.Height)
		}
		s.sendRender(p)
	case MsgInput:
		var input InputPayload
		if err := msg.Decode(&input); err == nil && s.OnInput != nil {
			s.OnInput(p.id, &input)
		}
	case MsgNavigate:
		var nav NavigatePayload
		if err := msg.Decode(&nav); err == nil && s.OnNavigate != nil {
			s.OnNavigate(p.id, nav.Query)
		}
	case MsgPing:
		p.write(Message{Type: MsgPong, ClientID: p.id})
	default:
		s.logf("unknown message type %q from %s", msg.Type, p.id)
	}
	return true
}

// subscribe registers the peer. Missing sizes default to 80x1 ANSI256.
func (s *Server) subscribe(p *peer, msg Message) {
	id := msg.ClientID
	if id == "" {
		id = fmt.Sprintf("client-%p", p.conn)
	}
	info := ClientInfo{Width: 80, Height: 1, ColorProfile: "ANSI256"}
	var resize ResizePayload
	if msg.Decode(&resize) == nil {
		if resize.Width > 0 {
			info.Width = resize.Width
		}
		if resize.Height > 0 {
			info.Height = resize.Height
		}
		if resize.ColorProfile != "" {
			info.ColorProfile = resize.ColorProfile
		}
	}

	s.mu.Lock()
	p.id = id
	p.info = info
	s.peers[id] = p
	s.mu.Unlock()
	s.logf("subscribe %s (%dx%d %s)", id, info.Width, info.Height, info.ColorProfile)

	if s.OnResize != nil {
		s.OnResize(id, info.Width, info.Height)
	}
	s.sendRender(p)
}

// removeClient drops p unless a newer connection has taken over its id.
func (s *Server) removeClient(p *peer) {
	s.mu.Lock()
	clientID := p.id
	current, ok := s.peers[clientID]
	ok = ok && current == p
	if ok {
		delete(s.peers, clientID)
	}
	s.mu.Unlock()
	if !ok {
		return
	}
	s.logf("disconnect %s", clientID)
	if s.OnDisconnect != nil {
		s.OnDisconnect(clientID)
	}
}

// BroadcastRender sends a fresh render to every subscribed client.
func (s *Server) BroadcastRender() {
	s.mu.RLock()
	peers := make([]*peer, 0, len(s.peers))
	for _, p := range s.peers {
		peers = append(peers, p)
	}
	s.mu.RUnlock()
	for _, p := range peers {
		s.sendRender(p)
	}
}

func (s *Server) sendRender(p *peer) {
	if s.OnRenderNeeded == nil {
		return
	}
	s.mu.RLock()
	id, width, height := p.id, p.info.Width, p.info.Height
	s.mu.RUnlock()

	render := s.OnRenderNeeded(id, width, height)
	if render == nil {
		return
	}
	render.SequenceNum = s.seq.Add(1)

	msg, err := NewMessage(MsgRender, id, render)
	if err != nil {
		s.logf("render %s: %v", id, err)
		return
	}
	if err := p.write(msg); err != nil {
		s.logf("send %s: %v", id, err)
	}
}
