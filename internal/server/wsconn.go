package server

import (
	"time"

	"github.com/gorilla/websocket"

	"github.com/muurk/canbridge/internal/bridge"
)

// writeWait bounds how long a single websocket write may block.
const writeWait = 10 * time.Second

// wsConn adapts a gorilla websocket connection to the bridge.ClientConn
// interface. The bridge loop is the only reader and the only writer, so no
// extra locking is needed on top of gorilla's one-reader one-writer rule.
type wsConn struct {
	conn *websocket.Conn
}

func newWSConn(conn *websocket.Conn) *wsConn {
	return &wsConn{conn: conn}
}

// Receive blocks for the next client message. A normal close handshake is
// reported as bridge.ErrClientClosed so callers can tell orderly departure
// from transport failure.
func (c *wsConn) Receive() (bridge.Message, error) {
	msgType, data, err := c.conn.ReadMessage()
	if err != nil {
		if websocket.IsCloseError(err,
			websocket.CloseNormalClosure,
			websocket.CloseGoingAway,
			websocket.CloseNoStatusReceived,
		) {
			return bridge.Message{}, bridge.ErrClientClosed
		}
		return bridge.Message{}, err
	}

	kind := bridge.BinaryMessage
	if msgType == websocket.TextMessage {
		kind = bridge.TextMessage
	}
	return bridge.Message{Kind: kind, Data: data}, nil
}

// Send writes a single text message to the client.
func (c *wsConn) Send(payload []byte) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

func (c *wsConn) Close() error {
	return c.conn.Close()
}
