package frame

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// Frame represents a single CAN bus frame: a numeric identifier and a short
// byte payload (0-8 bytes for classic frames).
type Frame struct {
	ID   uint32
	Data []byte
}

// FormatError describes why a frame's text form failed to parse.
type FormatError struct {
	Input  string // the text that failed to parse
	Reason string // what was wrong with it
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid frame %q: %s", e.Input, e.Reason)
}

// Parse decodes candump-style frame text "<hex id>#<hex payload>".
//
// The id segment is parsed as hexadecimal without a 0x prefix; hex digits are
// case-insensitive. The payload segment must have even length and decode as
// hex bytes. No payload length cap is enforced here - the transceiver layer
// rejects oversize payloads.
func Parse(text string) (Frame, error) {
	idPart, dataPart, found := strings.Cut(text, "#")
	if !found {
		return Frame{}, &FormatError{Input: text, Reason: "missing '#' separator"}
	}

	if idPart == "" {
		return Frame{}, &FormatError{Input: text, Reason: "empty id"}
	}

	id, err := strconv.ParseUint(idPart, 16, 32)
	if err != nil {
		return Frame{}, &FormatError{Input: text, Reason: "id is not 32-bit hex"}
	}

	if len(dataPart)%2 != 0 {
		return Frame{}, &FormatError{Input: text, Reason: "payload hex has odd length"}
	}

	data, err := hex.DecodeString(dataPart)
	if err != nil {
		return Frame{}, &FormatError{Input: text, Reason: "payload is not hex"}
	}
	if len(data) == 0 {
		data = nil
	}

	return Frame{ID: uint32(id), Data: data}, nil
}

// String renders the frame in its wire text form. Hex output is always
// lowercase and the result round-trips through Parse.
func (f Frame) String() string {
	return fmt.Sprintf("%x#%s", f.ID, hex.EncodeToString(f.Data))
}
