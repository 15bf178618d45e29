// ABOUTME: Tests for the live WebSocket hub.
// ABOUTME: Dials a real test server and checks hello, broadcast, ping, and disconnect handling.

package live

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(hub)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	return msg
}

func TestHub_HelloAndBroadcast(t *testing.T) {
	hub := NewHub()
	conn := dialHub(t, hub)

	if msg := readMessage(t, conn); msg.Type != EventHello {
		t.Fatalf("first message type = %q, want %q", msg.Type, EventHello)
	}
	if hub.ClientCount() != 1 {
		t.Errorf("ClientCount() = %d, want 1", hub.ClientCount())
	}

	hub.Broadcast(EventSnapshotRefreshed, map[string]any{"seed": 42})

	msg := readMessage(t, conn)
	if msg.Type != EventSnapshotRefreshed {
		t.Fatalf("message type = %q, want %q", msg.Type, EventSnapshotRefreshed)
	}
	data, ok := msg.Data.(map[string]any)
	if !ok || data["seed"] != float64(42) {
		t.Errorf("message data = %#v, want seed 42", msg.Data)
	}
}

func TestHub_AnswersPing(t *testing.T) {
	hub := NewHub()
	conn := dialHub(t, hub)
	readMessage(t, conn)

	if err := conn.WriteJSON(Message{Type: "ping"}); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	if msg := readMessage(t, conn); msg.Type != EventPong {
		t.Errorf("reply type = %q, want %q", msg.Type, EventPong)
	}
}

func TestHub_UnregistersOnClose(t *testing.T) {
	hub := NewHub()
	conn := dialHub(t, hub)
	readMessage(t, conn)

	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if hub.ClientCount() != 0 {
		t.Errorf("ClientCount() = %d after close, want 0", hub.ClientCount())
	}

	// Broadcasting with no clients is a no-op.
	hub.Broadcast(EventSnapshotRefreshed, nil)
}

func TestHub_RejectsForeignOrigin(t *testing.T) {
	srv := httptest.NewServer(NewHub())
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	origins := []string{
		"https://evil.example",
		"https://localhost.evil.example",
		"https://evil.example/localhost",
		"https://127.0.0.1.evil.example",
		"null",
	}
	for _, origin := range origins {
		t.Run(origin, func(t *testing.T) {
			header := http.Header{"Origin": []string{origin}}
			conn, resp, err := websocket.DefaultDialer.Dial(url, header)
			if err == nil {
				conn.Close()
				t.Fatalf("Dial() with origin %q succeeded", origin)
			}
			if resp == nil || resp.StatusCode != http.StatusForbidden {
				t.Errorf("response = %v, want 403", resp)
			}
		})
	}
}

func TestCheckOrigin(t *testing.T) {
	tests := []struct {
		name   string
		host   string
		origin string
		want   bool
	}{
		{"no origin", "portal.example.com:8501", "", true},
		{"same host", "portal.example.com:8501", "https://portal.example.com", true},
		{"same host different case", "portal.example.com", "https://Portal.Example.com:443", true},
		{"localhost dev server", "portal.example.com", "http://localhost:3000", true},
		{"loopback v4", "portal.example.com", "http://127.0.0.1:8501", true},
		{"loopback v6", "portal.example.com", "http://[::1]:8501", true},
		{"other host", "portal.example.com", "https://evil.example", false},
		{"localhost subdomain lookalike", "portal.example.com", "https://localhost.evil.example", false},
		{"localhost in path", "portal.example.com", "https://evil.example/localhost", false},
		{"host as suffix", "portal.example.com", "https://notportal.example.com", false},
		{"host in userinfo", "portal.example.com", "https://portal.example.com@evil.example", false},
		{"not a url", "portal.example.com", "null", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/live", nil)
			req.Host = tt.host
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if got := checkOrigin(req); got != tt.want {
				t.Errorf("checkOrigin(host=%q, origin=%q) = %v, want %v", tt.host, tt.origin, got, tt.want)
			}
		})
	}
}

func TestHub_PlainHTTPRequest(t *testing.T) {
	rr := httptest.NewRecorder()
	NewHub().ServeHTTP(rr, httptest.NewRequest("GET", "/api/live", nil))

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}
