package frame

import (
	"strings"
	"testing"
)

func TestEnvelopeEncode(t *testing.T) {
	tests := []struct {
		name string
		env  Envelope
		want string
	}{
		{
			name: "data envelope omits notice",
			env: Envelope{
				Sequence:   1,
				ServiceURL: "http://192.168.1.10:3000",
				Data:       "1a3#deadbeef",
			},
			want: `{"sequence":1,"serviceUrl":"http://192.168.1.10:3000","data":"1a3#deadbeef"}`,
		},
		{
			name: "notice envelope omits data",
			env: Envelope{
				Sequence:   2,
				ServiceURL: "http://192.168.1.10:3000",
				Notice:     "CAN device can0 unavailable",
			},
			want: `{"sequence":2,"serviceUrl":"http://192.168.1.10:3000","notice":"CAN device can0 unavailable"}`,
		},
		{
			name: "bare heartbeat omits both optional fields",
			env: Envelope{
				Sequence:   3,
				ServiceURL: "http://192.168.1.10:3000",
			},
			want: `{"sequence":3,"serviceUrl":"http://192.168.1.10:3000"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.env.Encode()
			if err != nil {
				t.Fatalf("Encode() failed: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Encode() = %s, want %s", got, tt.want)
			}
			// absent fields must be omitted, not null
			if strings.Contains(string(got), "null") {
				t.Errorf("Encode() emitted null: %s", got)
			}
		})
	}
}

func TestDecodeEnvelope(t *testing.T) {
	env, err := DecodeEnvelope([]byte(`{"sequence":7,"serviceUrl":"http://10.0.0.2:3000","data":"123#00"}`))
	if err != nil {
		t.Fatalf("DecodeEnvelope() failed: %v", err)
	}
	if env.Sequence != 7 {
		t.Errorf("sequence = %d, want 7", env.Sequence)
	}
	if env.Data != "123#00" {
		t.Errorf("data = %q, want %q", env.Data, "123#00")
	}
	if env.Notice != "" {
		t.Errorf("notice = %q, want empty", env.Notice)
	}

	if _, err := DecodeEnvelope([]byte(`{`)); err == nil {
		t.Error("DecodeEnvelope of truncated JSON succeeded, want error")
	}
}

func TestEnvelopeRoundTrip(t *testing.T) {
	in := Envelope{Sequence: 42, ServiceURL: "http://example:3000", Notice: "heartbeat"}
	data, err := in.Encode()
	if err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}
	out, err := DecodeEnvelope(data)
	if err != nil {
		t.Fatalf("DecodeEnvelope() failed: %v", err)
	}
	if out != in {
		t.Errorf("round-trip = %+v, want %+v", out, in)
	}
}
