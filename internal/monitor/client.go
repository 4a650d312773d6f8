package monitor

import (
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"github.com/muurk/canbridge/internal/frame"
	"github.com/muurk/canbridge/internal/urls"
)

const dialTimeout = 5 * time.Second

// Client is a websocket connection to a running bridge. It reads the
// envelope stream and can push candump formatted frames onto the bus.
type Client struct {
	conn *websocket.Conn
	url  string
}

// Dial connects to the bridge behind serviceURL. The URL may be a base
// address ("192.168.4.16:3000", "http://pi4:3000") or a full ws:// endpoint.
func Dial(serviceURL string) (*Client, error) {
	wsURL, err := urls.WebSocket(serviceURL)
	if err != nil {
		return nil, err
	}

	dialer := websocket.Dialer{HandshakeTimeout: dialTimeout}
	conn, _, err := dialer.Dial(wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", wsURL, err)
	}

	return &Client{conn: conn, url: wsURL}, nil
}

// URL returns the websocket endpoint the client is connected to.
func (c *Client) URL() string {
	return c.url
}

// ReadEnvelope blocks for the next envelope from the bridge.
func (c *Client) ReadEnvelope() (frame.Envelope, error) {
	for {
		msgType, data, err := c.conn.ReadMessage()
		if err != nil {
			return frame.Envelope{}, err
		}
		// The bridge only sends text; anything else is not ours to decode.
		if msgType != websocket.TextMessage {
			continue
		}
		return frame.DecodeEnvelope(data)
	}
}

// SendFrame validates the candump text locally and forwards it to the bridge.
func (c *Client) SendFrame(text string) error {
	if _, err := frame.Parse(text); err != nil {
		return err
	}
	if err := c.conn.SetWriteDeadline(time.Now().Add(dialTimeout)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, []byte(text))
}

// Close performs the websocket close handshake.
func (c *Client) Close() error {
	deadline := time.Now().Add(time.Second)
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = c.conn.WriteControl(websocket.CloseMessage, msg, deadline)
	return c.conn.Close()
}
