package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/muurk/canbridge/internal/bridge"
)

// wsTestServer upgrades incoming requests and hands the server side wsConn to
// the provided handler.
func wsTestServer(t *testing.T, handle func(*wsConn)) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		handle(newWSConn(conn))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func dialWS(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestWSConnReceiveKinds(t *testing.T) {
	received := make(chan bridge.Message, 2)
	ts := wsTestServer(t, func(c *wsConn) {
		defer c.Close()
		for i := 0; i < 2; i++ {
			msg, err := c.Receive()
			if err != nil {
				t.Errorf("Receive() error = %v", err)
				return
			}
			received <- msg
		}
	})

	client := dialWS(t, ts)
	if err := client.WriteMessage(websocket.TextMessage, []byte("1a3#deadbeef")); err != nil {
		t.Fatal(err)
	}
	if err := client.WriteMessage(websocket.BinaryMessage, []byte{0x01, 0x02}); err != nil {
		t.Fatal(err)
	}

	msg := <-received
	if msg.Kind != bridge.TextMessage {
		t.Errorf("first message Kind = %v, want TextMessage", msg.Kind)
	}
	if string(msg.Data) != "1a3#deadbeef" {
		t.Errorf("first message Data = %q", msg.Data)
	}

	msg = <-received
	if msg.Kind != bridge.BinaryMessage {
		t.Errorf("second message Kind = %v, want BinaryMessage", msg.Kind)
	}
}

func TestWSConnNormalCloseIsClientClosed(t *testing.T) {
	errs := make(chan error, 1)
	ts := wsTestServer(t, func(c *wsConn) {
		defer c.Close()
		_, err := c.Receive()
		errs <- err
	})

	client := dialWS(t, ts)
	deadline := time.Now().Add(time.Second)
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := client.WriteControl(websocket.CloseMessage, msg, deadline); err != nil {
		t.Fatal(err)
	}

	select {
	case err := <-errs:
		if !errors.Is(err, bridge.ErrClientClosed) {
			t.Errorf("Receive() error = %v, want ErrClientClosed", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for Receive to return")
	}
}

func TestWSConnSend(t *testing.T) {
	ts := wsTestServer(t, func(c *wsConn) {
		defer c.Close()
		if err := c.Send([]byte(`{"sequence":1}`)); err != nil {
			t.Errorf("Send() error = %v", err)
		}
	})

	client := dialWS(t, ts)
	msgType, data, err := client.ReadMessage()
	if err != nil {
		t.Fatalf("client read failed: %v", err)
	}
	if msgType != websocket.TextMessage {
		t.Errorf("message type = %d, want TextMessage", msgType)
	}
	if string(data) != `{"sequence":1}` {
		t.Errorf("payload = %q", data)
	}
}

func TestHandleStatic(t *testing.T) {
	s := &Server{}

	tests := []struct {
		name        string
		path        string
		wantStatus  int
		wantType    string
		wantBodySub string
	}{
		{
			name:        "root serves index",
			path:        "/",
			wantStatus:  http.StatusOK,
			wantType:    "text/html",
			wantBodySub: "canbridge",
		},
		{
			name:       "stylesheet has css content type",
			path:       "/style.css",
			wantStatus: http.StatusOK,
			wantType:   "text/css",
		},
		{
			name:       "script is served",
			path:       "/app.js",
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing asset is 404",
			path:       "/missing.js",
			wantStatus: http.StatusNotFound,
		},
		{
			name:        "extensionless path falls back to index",
			path:        "/dashboard/traffic",
			wantStatus:  http.StatusOK,
			wantBodySub: "canbridge",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rec := httptest.NewRecorder()
			s.handleStatic(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantType != "" {
				if got := rec.Header().Get("Content-Type"); !strings.HasPrefix(got, tt.wantType) {
					t.Errorf("Content-Type = %q, want prefix %q", got, tt.wantType)
				}
			}
			if tt.wantBodySub != "" && !strings.Contains(rec.Body.String(), tt.wantBodySub) {
				t.Errorf("body does not contain %q", tt.wantBodySub)
			}
		})
	}
}

func TestNewTLSConfigMissingFiles(t *testing.T) {
	if _, err := NewTLSConfig("/nonexistent/cert.pem", "/nonexistent/key.pem"); err == nil {
		t.Error("NewTLSConfig() with missing files should fail")
	}
}
