package bridge

import "errors"

// ErrClientClosed reports that the client ended its connection normally.
// Adapters return it from Receive in place of a transport-specific close
// error so the loop can tell an orderly goodbye from a failure.
var ErrClientClosed = errors.New("client connection closed")

// MessageKind distinguishes the transport message types the loop reacts to.
// Control frames (ping/pong) are absorbed by the transport adapter and never
// surface here.
type MessageKind int

const (
	// TextMessage carries frame text in the "<hex id>#<hex payload>" form.
	TextMessage MessageKind = iota
	// BinaryMessage is acknowledged and otherwise ignored.
	BinaryMessage
)

// Message is one inbound client message.
type Message struct {
	Kind MessageKind
	Data []byte
}

// ClientConn is the duplex channel to one browser client. Receive blocks
// until a message arrives, returning ErrClientClosed on a normal close. The
// loop is the only writer, so implementations may assume at most one
// outstanding Send.
type ClientConn interface {
	Receive() (Message, error)
	Send(payload []byte) error
	Close() error
}
