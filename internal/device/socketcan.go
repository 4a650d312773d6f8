package device

import (
	"context"
	"fmt"
	"io"
	"net"

	"go.einride.tech/can"
	"go.einride.tech/can/pkg/socketcan"

	"github.com/muurk/canbridge/internal/frame"
)

// OpenSocketCAN dials the named SocketCAN interface (e.g. "can0") and returns
// a Transceiver backed by separate receive and transmit connections. Either
// both connections are established or neither is kept - a failure on the
// second dial closes the first before returning.
func OpenSocketCAN(name string) (Transceiver, error) {
	rx, err := socketcan.Dial("can", name)
	if err != nil {
		return nil, fmt.Errorf("open %s for receive: %w", name, err)
	}

	tx, err := socketcan.Dial("can", name)
	if err != nil {
		_ = rx.Close()
		return nil, fmt.Errorf("open %s for transmit: %w", name, err)
	}

	return &socketCANTransceiver{
		rx:   rx,
		tx:   tx,
		recv: socketcan.NewReceiver(rx),
		send: socketcan.NewTransmitter(tx),
	}, nil
}

type socketCANTransceiver struct {
	rx, tx net.Conn
	recv   *socketcan.Receiver
	send   *socketcan.Transmitter
}

func (t *socketCANTransceiver) Receive() (frame.Frame, error) {
	if !t.recv.Receive() {
		if err := t.recv.Err(); err != nil {
			return frame.Frame{}, fmt.Errorf("bus receive: %w", err)
		}
		return frame.Frame{}, io.EOF
	}

	f := t.recv.Frame()
	var data []byte
	if f.Length > 0 {
		data = make([]byte, f.Length)
		copy(data, f.Data[:f.Length])
	}
	return frame.Frame{ID: f.ID, Data: data}, nil
}

func (t *socketCANTransceiver) Send(f frame.Frame) error {
	if len(f.Data) > can.MaxDataLength {
		return fmt.Errorf("payload of %d bytes exceeds classic CAN limit of %d", len(f.Data), can.MaxDataLength)
	}
	if f.ID > can.MaxExtendedID {
		return fmt.Errorf("id 0x%x exceeds 29-bit extended range", f.ID)
	}

	out := can.Frame{
		ID:         f.ID,
		Length:     uint8(len(f.Data)),
		IsExtended: f.ID > can.MaxID,
	}
	copy(out.Data[:], f.Data)

	return t.send.TransmitFrame(context.Background(), out)
}

func (t *socketCANTransceiver) Close() error {
	err := t.rx.Close()
	if cerr := t.tx.Close(); err == nil {
		err = cerr
	}
	return err
}
