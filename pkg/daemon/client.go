package daemon

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"
)

// Client is the renderer side of the socket.
type Client struct {
	ID      string
	conn    net.Conn
	scanner *bufio.Scanner
	writeMu sync.Mutex
}

// Dial connects to a daemon socket.
func Dial(socketPath, clientID string) (*Client, error) {
	conn, err := net.DialTimeout("unix", socketPath, 2*time.Second)
	if err != nil {
		return nil, fmt.Errorf("connect to daemon: %w", err)
	}
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	return &Client{ID: clientID, conn: conn, scanner: scanner}, nil
}

// Send writes one message with the client's id.
func (c *Client) Send(t MessageType, payload interface{}) error {
	msg, err := NewMessage(t, c.ID, payload)
	if err != nil {
		return err
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_, err = c.conn.Write(append(data, '\n'))
	return err
}

// Subscribe registers with the daemon at the given size.
func (c *Client) Subscribe(width, height int, colorProfile string) error {
	return c.Send(MsgSubscribe, ResizePayload{Width: width, Height: height, ColorProfile: colorProfile})
}

// Receive blocks for the next message. timeout <= 0 waits forever.
func (c *Client) Receive(timeout time.Duration) (Message, error) {
	if timeout > 0 {
		c.conn.SetReadDeadline(time.Now().Add(timeout))
	} else {
		c.conn.SetReadDeadline(time.Time{})
	}
	if !c.scanner.Scan() {
		if err := c.scanner.Err(); err != nil {
			return Message{}, err
		}
		return Message{}, fmt.Errorf("daemon closed the connection")
	}
	var msg Message
	if err := json.Unmarshal(c.scanner.Bytes(), &msg); err != nil {
		return Message{}, fmt.Errorf("decode message: %w", err)
	}
	return msg, nil
}

// NextRender skips messages until a render arrives.
func (c *Client) NextRender(timeout time.Duration) (*RenderPayload, error) {
	for {
		msg, err := c.Receive(timeout)
		if err != nil {
			return nil, err
		}
		if msg.Type != MsgRender {
			continue
		}
		var render RenderPayload
		if err := msg.Decode(&render); err != nil {
			return nil, err
		}
		return &render, nil
	}
}

func (c *Client) Close() error {
	return c.conn.Close()
}
