package main

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/skip2/go-qrcode"

	"github.com/b/tabset/pkg/paths"
)

func DefaultTokenPath() string {
	return paths.StatePath("web-token")
}

// LoadToken returns the token stored at path. A new token is written when
// regenerate is set or the file holds none.
func LoadToken(path string, regenerate bool) (string, error) {
	if !regenerate {
		if data, err := os.ReadFile(path); err == nil {
			if token := strings.TrimSpace(string(data)); token != "" {
				return token, nil
			}
		}
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(buf)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(token+"\n"), 0600); err != nil {
		return "", err
	}
	return token, nil
}

// pageURL is the tab bar page with credentials in the query.
func (s *Server) pageURL(host string) string {
	q := url.Values{}
	q.Set("token", s.cfg.Token)
	q.Set("user", s.cfg.AuthUser)
	q.Set("pass", s.cfg.AuthPass)
	return fmt.Sprintf("http://%s/?%s", host, q.Encode())
}

// handleConnect shows a QR code for the page URL so a phone on the same
// machine can open it.
func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	if !isLoopbackRequest(r) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	if !s.validateAuth(r, true) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	link := s.pageURL(r.Host)
	png, err := qrcode.Encode(link, qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "failed to generate qr code", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = fmt.Fprintf(w, connectPageHTML, base64.StdEncoding.EncodeToString(png), link)
}

func isLoopbackRequest(r *http.Request) bool {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func (s *Server) validateToken(r *http.Request) bool {
	token := r.URL.Query().Get("token")
	return token != "" && equal(token, s.cfg.Token)
}

// validateAuth accepts basic auth, or user and pass query parameters when
// allowQuery is set. Browsers cannot send basic auth on a websocket.
func (s *Server) validateAuth(r *http.Request, allowQuery bool) bool {
	user, pass, ok := r.BasicAuth()
	if !ok {
		if !allowQuery {
			return false
		}
		q := r.URL.Query()
		user, pass = q.Get("user"), q.Get("pass")
		if user == "" || pass == "" {
			return false
		}
	}
	return equal(user, s.cfg.AuthUser) && equal(pass, s.cfg.AuthPass)
}

const connectPageHTML = `<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Tabset Connect</title>
    <style>
      body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif; margin: 32px; }
      .qr { width: 256px; height: 256px; border: 1px solid #ddd; padding: 8px; }
      code { display: block; margin-top: 12px; padding: 12px; background: #f6f6f6; border-radius: 8px; word-break: break-all; }
    </style>
  </head>
  <body>
    <h1>Tabset Connect</h1>
    <p>Loopback connections only.</p>
    <img class="qr" src="data:image/png;base64,%s" alt="QR code" />
    <code>%s</code>
  </body>
</html>
`
