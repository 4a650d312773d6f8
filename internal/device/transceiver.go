package device

import "github.com/muurk/canbridge/internal/frame"

// Transceiver is the raw handle pair to a CAN bus interface. Receive blocks
// until a frame arrives or the underlying handle errors; Send writes exactly
// one frame and never retries.
//
// The production implementation is SocketCAN (see OpenSocketCAN); tests
// substitute in-memory fakes.
type Transceiver interface {
	Receive() (frame.Frame, error)
	Send(frame.Frame) error
	Close() error
}
