package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/b/tabset/pkg/daemon"
)

// startDaemon runs a daemon socket whose render reports the last navigated
// query as its location.
func startDaemon(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	sock := filepath.Join(dir, "d.sock")
	d := daemon.NewServerAt(sock, filepath.Join(dir, "d.pid"))

	var mu sync.Mutex
	location := "/"
	d.OnRenderNeeded = func(id string, w, _ int) *daemon.RenderPayload {
		mu.Lock()
		defer mu.Unlock()
		return &daemon.RenderPayload{Content: " API  Guide ", Width: w, Mode: "inline", Location: location}
	}
	d.OnNavigate = func(_ string, q string) {
		mu.Lock()
		location = "/" + q
		mu.Unlock()
		d.BroadcastRender()
	}
	require.NoError(t, d.Start())
	t.Cleanup(d.Stop)
	return sock
}

func newTestBridge(t *testing.T, sock string) (*Server, *httptest.Server) {
	t.Helper()
	s := NewServer(ServerConfig{SocketPath: sock, Token: "tok", AuthUser: "u", AuthPass: "p"})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		s.Stop()
	})
	return s, ts
}

func wsURL(ts *httptest.Server, query string) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?" + query
}

func readRender(t *testing.T, conn *websocket.Conn) daemon.RenderPayload {
	t.Helper()
	for {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		var msg WebSocketMessage
		require.NoError(t, json.Unmarshal(data, &msg))
		if msg.Type != string(daemon.MsgRender) {
			continue
		}
		var r daemon.RenderPayload
		require.NoError(t, json.Unmarshal(msg.Payload, &r))
		return r
	}
}

func TestBridgeRelaysRenderAndNavigate(t *testing.T) {
	_, ts := newTestBridge(t, startDaemon(t))

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts, "token=tok&user=u&pass=p"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(map[string]interface{}{
		"type":    "subscribe",
		"payload": map[string]interface{}{"width": 40, "height": 1, "color_profile": "Ascii"},
	}))
	r := readRender(t, conn)
	require.Equal(t, " API  Guide ", r.Content)
	require.Equal(t, 40, r.Width)

	require.NoError(t, conn.WriteJSON(map[string]interface{}{
		"type":    "navigate",
		"payload": map[string]string{"query": "?docs-active-tab=guide"},
	}))
	r = readRender(t, conn)
	require.Equal(t, "/?docs-active-tab=guide", r.Location)
}

func TestBridgeRejectsBadCredentials(t *testing.T) {
	_, ts := newTestBridge(t, startDaemon(t))

	for _, q := range []string{"", "token=tok", "token=nope&user=u&pass=p", "token=tok&user=u&pass=x"} {
		resp, err := http.Get(ts.URL + "/ws?" + q)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode, q)
	}
}

func TestBridgeWithoutDaemon(t *testing.T) {
	_, ts := newTestBridge(t, filepath.Join(t.TempDir(), "missing.sock"))

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(ts, "token=tok&user=u&pass=p"), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestIndexPage(t *testing.T) {
	_, ts := newTestBridge(t, startDaemon(t))

	resp, err := http.Get(ts.URL + "/?token=tok&user=u&pass=p&docs-active-tab=api")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp2, err := http.Get(ts.URL + "/elsewhere?token=tok&user=u&pass=p")
	require.NoError(t, err)
	resp2.Body.Close()
	require.Equal(t, http.StatusNotFound, resp2.StatusCode)
}

func TestConnectPageShowsQRCode(t *testing.T) {
	_, ts := newTestBridge(t, startDaemon(t))

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/connect", nil)
	require.NoError(t, err)
	req.SetBasicAuth("u", "p")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "data:image/png;base64,")
	require.Contains(t, string(body), "token=tok")
}

func TestHandleTextMessageFiltersTypes(t *testing.T) {
	s := NewServer(ServerConfig{})
	err := s.handleTextMessage(&ClientConn{id: "web-1"}, []byte(`{"type":"ping"}`))
	require.ErrorContains(t, err, "unsupported")
	require.Error(t, s.handleTextMessage(&ClientConn{id: "web-1"}, []byte(`{`)))
}

func TestCheckOrigin(t *testing.T) {
	s := NewServer(ServerConfig{})
	tests := []struct {
		origin, host string
		want         bool
	}{
		{"", "127.0.0.1:8080", true},
		{"http://127.0.0.1:8080", "127.0.0.1:8080", true},
		{"http://localhost:3000", "127.0.0.1:8080", true},
		{"http://evil.example", "127.0.0.1:8080", false},
		{"::bad", "127.0.0.1:8080", false},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/ws", nil)
		r.Host = tt.host
		if tt.origin != "" {
			r.Header.Set("Origin", tt.origin)
		}
		require.Equal(t, tt.want, s.checkOrigin(r), tt.origin)
	}
}

func TestTokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "web-token")
	first, err := LoadToken(path, false)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	again, err := LoadToken(path, false)
	require.NoError(t, err)
	require.Equal(t, first, again)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())

	fresh, err := LoadToken(path, true)
	require.NoError(t, err)
	require.NotEqual(t, first, fresh)
}

func TestValidateAuth(t *testing.T) {
	s := NewServer(ServerConfig{Token: "tok", AuthUser: "u", AuthPass: "p"})

	r := httptest.NewRequest(http.MethodGet, "/?user=u&pass=p", nil)
	require.True(t, s.validateAuth(r, true))
	require.False(t, s.validateAuth(r, false))

	r = httptest.NewRequest(http.MethodGet, "/?user=u&pass=p", nil)
	r.SetBasicAuth("u", "wrong")
	require.False(t, s.validateAuth(r, true))

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.SetBasicAuth("u", "p")
	require.True(t, s.validateAuth(r, false))
	require.False(t, s.validateToken(r))
}
