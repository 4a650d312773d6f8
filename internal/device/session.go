package device

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/muurk/canbridge/internal/frame"
	"github.com/muurk/canbridge/internal/logging"
)

// ErrClosed is returned by Send once the session has observed an I/O failure
// or been closed. A closed session never reopens - callers construct a new
// one with Open.
var ErrClosed = errors.New("device session closed")

// Session owns one open Transceiver and exposes its inbound traffic as a
// frame stream. A session is either open or closed; any read or write failure
// closes it permanently.
type Session struct {
	name   string
	tr     Transceiver
	frames chan frame.Frame
	done   chan struct{}

	mu   sync.Mutex
	open bool
}

// Open acquires the named SocketCAN interface and starts the read pump.
func Open(name string) (*Session, error) {
	tr, err := OpenSocketCAN(name)
	if err != nil {
		return nil, fmt.Errorf("open CAN device %s: %w", name, err)
	}
	return NewSession(name, tr), nil
}

// NewSession wraps an already-open Transceiver in a Session and starts its
// read pump. The session takes ownership of the transceiver.
func NewSession(name string, tr Transceiver) *Session {
	s := &Session{
		name:   name,
		tr:     tr,
		frames: make(chan frame.Frame),
		done:   make(chan struct{}),
		open:   true,
	}
	go s.readPump()
	logging.LogDeviceEvent(name, "session_opened", nil)
	return s
}

// Name returns the bus interface name the session was opened with.
func (s *Session) Name() string {
	return s.name
}

// Frames returns the inbound frame stream. The channel is closed when the
// underlying read handle errors or the session is closed; it is never
// restarted.
func (s *Session) Frames() <-chan frame.Frame {
	return s.frames
}

// IsOpen reports whether the session is still usable.
func (s *Session) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// Send writes one frame to the bus. Any failure closes the session and is
// returned to the caller; retry policy lives with the caller, not here.
func (s *Session) Send(f frame.Frame) error {
	if !s.IsOpen() {
		return ErrClosed
	}
	if err := s.tr.Send(f); err != nil {
		logging.LogDeviceEvent(s.name, "send_failed", err)
		s.Close()
		return fmt.Errorf("send to %s: %w", s.name, err)
	}
	return nil
}

// Close releases both bus handles. Safe to call more than once and safe to
// call concurrently with the read pump.
func (s *Session) Close() {
	s.mu.Lock()
	if !s.open {
		s.mu.Unlock()
		return
	}
	s.open = false
	close(s.done)
	s.mu.Unlock()

	_ = s.tr.Close()
	logging.LogDeviceEvent(s.name, "session_closed", nil)
}

// readPump moves frames from the transceiver to the Frames channel until a
// read error or Close. Closing the channel is how consumers learn the read
// stream ended.
func (s *Session) readPump() {
	defer close(s.frames)

	for {
		f, err := s.tr.Receive()
		if err != nil {
			select {
			case <-s.done:
				// shut down by Close; the error is just the handle closing
			default:
				logging.Debug("Device read failed",
					zap.String("device", s.name),
					zap.Error(err),
				)
			}
			s.Close()
			return
		}

		select {
		case s.frames <- f:
		case <-s.done:
			return
		}
	}
}
