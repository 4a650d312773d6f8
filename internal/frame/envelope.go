package frame

import "encoding/json"

// Envelope is the JSON message sent to a browser client. Every outbound
// message carries a strictly increasing sequence number and the bridge's own
// reachable address; exactly one of Data or Notice is normally populated.
//
// Optional fields are omitted from the JSON entirely when empty, never
// encoded as null.
type Envelope struct {
	Sequence   uint64 `json:"sequence"`
	ServiceURL string `json:"serviceUrl"`
	Data       string `json:"data,omitempty"`   // relayed frame in wire text form
	Notice     string `json:"notice,omitempty"` // status or error message
}

// Encode serializes the envelope to its wire JSON form.
func (e Envelope) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// DecodeEnvelope parses the wire JSON form back into an Envelope. Used by the
// monitor and send clients; the server itself only encodes.
func DecodeEnvelope(data []byte) (Envelope, error) {
	var e Envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return Envelope{}, err
	}
	return e, nil
}
