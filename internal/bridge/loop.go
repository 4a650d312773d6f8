package bridge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/canbridge/internal/device"
	"github.com/muurk/canbridge/internal/frame"
	"github.com/muurk/canbridge/internal/logging"
)

// DefaultHeartbeat is the tick period used when Options.Heartbeat is unset.
// The tick doubles as the reconnect pacer: reopen attempts happen at most
// once per tick, never in a busy loop.
const DefaultHeartbeat = time.Second

// verdict is what an event handler tells the loop to do next.
type verdict int

const (
	verdictContinue  verdict = iota // keep multiplexing
	verdictReconnect                // device gone; drop the session, retry on a later tick
	verdictFatal                    // client gone; stop the loop
)

// Options configure one bridge loop.
type Options struct {
	// Device is the CAN interface name relayed to and from.
	Device string
	// ServiceURL is the bridge's own reachable address, stamped into every
	// envelope.
	ServiceURL string
	// Heartbeat overrides the tick period. Zero means DefaultHeartbeat.
	Heartbeat time.Duration
	// Open overrides how device sessions are acquired. Nil means device.Open.
	Open func(name string) (*device.Session, error)
	// RemoteAddr identifies the client in log output.
	RemoteAddr string
}

// Loop relays frames between one client connection and one CAN device
// session. Each accepted client gets its own Loop with its own device
// handles; nothing is shared across loops.
type Loop struct {
	conn    ClientConn
	opts    Options
	session *device.Session
	seq     uint64
}

// New creates a bridge loop for one client connection. Run must be called to
// start relaying.
func New(conn ClientConn, opts Options) *Loop {
	if opts.Heartbeat <= 0 {
		opts.Heartbeat = DefaultHeartbeat
	}
	if opts.Open == nil {
		opts.Open = device.Open
	}
	return &Loop{conn: conn, opts: opts}
}

// Run drives the loop until the client disconnects, a write to the client
// fails, or ctx is canceled. Device failures never end the loop; they drop
// the session and the next tick tries to reopen it.
func (l *Loop) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer l.dropSession()
	defer func() { _ = l.conn.Close() }()

	type received struct {
		msg Message
		err error
	}

	// Single receive pump feeding the select below. Closing the connection
	// (our deferred Close) unblocks a pending Receive.
	incoming := make(chan received)
	go func() {
		for {
			msg, err := l.conn.Receive()
			select {
			case incoming <- received{msg: msg, err: err}:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()

	// Initial open attempt; either way the client gets one status notice.
	if s, err := l.opts.Open(l.opts.Device); err != nil {
		logging.LogDeviceEvent(l.opts.Device, "open_failed", err)
		if l.sendNotice(fmt.Sprintf("CAN device %s unavailable: %v", l.opts.Device, err)) == verdictFatal {
			return
		}
	} else {
		l.session = s
		if l.sendNotice(fmt.Sprintf("CAN device %s connected", l.opts.Device)) == verdictFatal {
			return
		}
	}

	ticker := time.NewTicker(l.opts.Heartbeat)
	defer ticker.Stop()

	for {
		// A dropped session leaves frames nil, and a nil channel never
		// fires - the device branch simply goes quiet until reopen.
		var frames <-chan frame.Frame
		if l.session != nil {
			frames = l.session.Frames()
		}

		var v verdict
		select {
		case r := <-incoming:
			v = l.handleClient(r.msg, r.err)
		case f, ok := <-frames:
			v = l.handleDevice(f, ok)
		case <-ticker.C:
			v = l.handleTick()
		case <-ctx.Done():
			return
		}

		switch v {
		case verdictContinue:
		case verdictReconnect:
			l.dropSession()
		case verdictFatal:
			return
		}
	}
}

// handleClient processes one inbound client message or receive error.
func (l *Loop) handleClient(msg Message, err error) verdict {
	if err != nil {
		if errors.Is(err, ErrClientClosed) {
			logging.LogConnection(l.opts.RemoteAddr, "client_disconnected")
		} else {
			logging.Warn("Client receive failed",
				zap.String("remote_addr", l.opts.RemoteAddr),
				zap.Error(err),
			)
		}
		return verdictFatal
	}

	if msg.Kind != TextMessage {
		logging.Debug("Ignoring non-text client message",
			zap.String("remote_addr", l.opts.RemoteAddr),
			zap.Int("length", len(msg.Data)),
		)
		return verdictContinue
	}

	f, perr := frame.Parse(string(msg.Data))
	if perr != nil {
		// Malformed input is logged and dropped; the client stays connected.
		logging.Warn("Discarding malformed client frame",
			zap.String("remote_addr", l.opts.RemoteAddr),
			zap.Error(perr),
		)
		return verdictContinue
	}

	if l.session == nil {
		return l.sendNotice(fmt.Sprintf("CAN device %s unavailable, frame %s not sent", l.opts.Device, f))
	}

	if serr := l.session.Send(f); serr != nil {
		// The session closed itself; report it and fall back to no-device.
		if l.sendNotice(fmt.Sprintf("CAN write failed: %v", serr)) == verdictFatal {
			return verdictFatal
		}
		return verdictReconnect
	}

	logging.LogClientFrame(l.opts.RemoteAddr, "client->bus", f.String())
	return verdictContinue
}

// handleDevice processes one frame from the device stream, or its end.
func (l *Loop) handleDevice(f frame.Frame, ok bool) verdict {
	if !ok {
		logging.LogDeviceEvent(l.opts.Device, "read_stream_ended", nil)
		if l.sendNotice(fmt.Sprintf("CAN device %s disconnected", l.opts.Device)) == verdictFatal {
			return verdictFatal
		}
		return verdictReconnect
	}

	env := l.nextEnvelope()
	env.Data = f.String()
	logging.LogClientFrame(l.opts.RemoteAddr, "bus->client", env.Data)
	return l.push(env)
}

// handleTick sends the heartbeat and, when the device is down, makes one
// reopen attempt. A failed reopen stays silent beyond the heartbeat itself.
func (l *Loop) handleTick() verdict {
	if l.sendNotice("heartbeat") == verdictFatal {
		return verdictFatal
	}

	if l.session == nil {
		s, err := l.opts.Open(l.opts.Device)
		if err != nil {
			logging.Debug("Device reopen failed",
				zap.String("device", l.opts.Device),
				zap.Error(err),
			)
			return verdictContinue
		}
		l.session = s
		logging.LogDeviceEvent(l.opts.Device, "reopened", nil)
		return l.sendNotice(fmt.Sprintf("CAN device %s connected", l.opts.Device))
	}

	return verdictContinue
}

// sendNotice pushes a notice-only envelope to the client.
func (l *Loop) sendNotice(notice string) verdict {
	env := l.nextEnvelope()
	env.Notice = notice
	return l.push(env)
}

// push writes one envelope to the client. A client write failure is always
// fatal: the client is assumed gone and nothing is retried.
func (l *Loop) push(env frame.Envelope) verdict {
	payload, err := env.Encode()
	if err != nil {
		logging.Error("Envelope encoding failed", zap.Error(err))
		return verdictContinue
	}
	if err := l.conn.Send(payload); err != nil {
		logging.Info("Client send failed, ending bridge",
			zap.String("remote_addr", l.opts.RemoteAddr),
			zap.Error(err),
		)
		return verdictFatal
	}
	return verdictContinue
}

// nextEnvelope allocates the next sequence number. Sequences increase by
// exactly one per outbound envelope for the lifetime of the connection.
func (l *Loop) nextEnvelope() frame.Envelope {
	l.seq++
	return frame.Envelope{Sequence: l.seq, ServiceURL: l.opts.ServiceURL}
}

// dropSession releases the current device session, if any. The next tick
// constructs a fresh one; the old handles are never reused.
func (l *Loop) dropSession() {
	if l.session != nil {
		l.session.Close()
		l.session = nil
	}
}
