package daemon

import (
	"encoding/json"
	"fmt"

	"github.com/b/tabset/pkg/paths"
)

// MessageType identifies the type of message
type MessageType string

const (
	MsgSubscribe   MessageType = "subscribe"
	MsgUnsubscribe MessageType = "unsubscribe"
	MsgRender      MessageType = "render"
	MsgInput       MessageType = "input"
	MsgResize      MessageType = "resize"
	MsgNavigate    MessageType = "navigate" // Renderer -> Daemon: query string edited
	MsgPing        MessageType = "ping"
	MsgPong        MessageType = "pong"
)

// Message is one json line on the socket.
type Message struct {
	Type     MessageType     `json:"type"`
	ClientID string          `json:"client_id,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

// NewMessage encodes payload into a message. A nil payload is omitted.
func NewMessage(t MessageType, clientID string, payload interface{}) (Message, error) {
	msg := Message{Type: t, ClientID: clientID}
	if payload == nil {
		return msg, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return msg, fmt.Errorf("encode %s payload: %w", t, err)
	}
	msg.Payload = data
	return msg, nil
}

// Decode unmarshals the payload into v.
func (m Message) Decode(v interface{}) error {
	if len(m.Payload) == 0 {
		return fmt.Errorf("%s message has no payload", m.Type)
	}
	return json.Unmarshal(m.Payload, v)
}

// ClickableRegion is a cell range on one line of Content. EndCol is
// exclusive.
type ClickableRegion struct {
	Line     int    `json:"line"`
	StartCol int    `json:"start_col"`
	EndCol   int    `json:"end_col"`
	Action   string `json:"action"` // "select", "close", "toggle", "new_tab", "open_tab"
	Target   string `json:"target,omitempty"`
}

// RenderPayload is a pre-rendered tab bar for one client.
type RenderPayload struct {
	SequenceNum uint64            `json:"seq"`
	Content     string            `json:"content"`
	Width       int               `json:"width"`
	Mode        string            `json:"mode"` // "inline" or "dropdown"
	ActiveID    string            `json:"active_id"`
	ListOpen    bool              `json:"list_open"`
	Location    string            `json:"location"` // e.g. "/?docs-active-tab=api"
	Regions     []ClickableRegion `json:"regions"`
}

// InputPayload is a key press, mouse click or an action the renderer has
// already resolved from Regions.
type InputPayload struct {
	SequenceNum    uint64 `json:"seq"`
	Type           string `json:"type"` // "key", "mouse" or "action"
	Key            string `json:"key,omitempty"`
	MouseX         int    `json:"mouse_x,omitempty"`
	MouseY         int    `json:"mouse_y,omitempty"`
	Button         string `json:"button,omitempty"` // "left", "middle"
	ResolvedAction string `json:"resolved_action,omitempty"`
	ResolvedTarget string `json:"resolved_target,omitempty"`
}

// ResizePayload contains terminal dimensions and capabilities
type ResizePayload struct {
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	ColorProfile string `json:"color_profile,omitempty"` // "Ascii", "ANSI", "ANSI256", "TrueColor"
}

// NavigatePayload carries a query string such as "?docs-active-tab=api".
type NavigatePayload struct {
	Query string `json:"query"`
}

// SocketPath returns the daemon socket path for a session
func SocketPath(sessionID string) string {
	if sessionID == "" {
		sessionID = "default"
	}
	return paths.RuntimePath(fmt.Sprintf("daemon-%s.sock", sessionID))
}

// PidPath returns the pidfile path for a session
func PidPath(sessionID string) string {
	if sessionID == "" {
		sessionID = "default"
	}
	return paths.RuntimePath(fmt.Sprintf("daemon-%s.pid", sessionID))
}
