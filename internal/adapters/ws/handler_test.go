package ws

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	logAdapter "github.com/bft-labs/calcpad/internal/adapters/log"
	"github.com/bft-labs/calcpad/internal/domain"
)

// wireMessage decodes both render and error messages.
type wireMessage struct {
	Session     string                 `json:"session"`
	Main        string                 `json:"main"`
	Secondary   string                 `json:"secondary"`
	History     []domain.RenderedEntry `json:"history"`
	Placeholder string                 `json:"placeholder"`
	Memory      bool                   `json:"memory"`
	Error       string                 `json:"error"`
}

func newTestServer(t *testing.T, cfg Config) (*Handler, *httptest.Server) {
	t.Helper()
	h := NewHandler(cfg, logAdapter.NewNoopLogger())
	ts := httptest.NewServer(h.Routes())
	t.Cleanup(func() {
		_ = h.CloseSessions(time.Second)
		ts.Close()
	})
	return h, ts
}

func wsURL(ts *httptest.Server) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) wireMessage {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var m wireMessage
	if err := conn.ReadJSON(&m); err != nil {
		t.Fatalf("read: %v", err)
	}
	return m
}

func button(t *testing.T, conn *websocket.Conn, action, value string) wireMessage {
	t.Helper()
	if err := conn.WriteJSON(inbound{Type: typeButton, Action: action, Value: value}); err != nil {
		t.Fatalf("write: %v", err)
	}
	return read(t, conn)
}

func key(t *testing.T, conn *websocket.Conn, k string) wireMessage {
	t.Helper()
	if err := conn.WriteJSON(inbound{Type: typeKey, Key: k}); err != nil {
		t.Fatalf("write: %v", err)
	}
	return read(t, conn)
}

func TestSession_InitialRender(t *testing.T) {
	_, ts := newTestServer(t, DefaultConfig())
	conn := dial(t, ts)

	m := read(t, conn)
	if _, err := uuid.Parse(m.Session); err != nil {
		t.Errorf("session %q is not a uuid: %v", m.Session, err)
	}
	if m.Main != "0" || m.Secondary != "" {
		t.Errorf("initial render = %+v", m)
	}
	if m.Placeholder != domain.NoHistoryText {
		t.Errorf("Placeholder = %q, want %q", m.Placeholder, domain.NoHistoryText)
	}
}

func TestSession_ButtonsAndKeys(t *testing.T) {
	_, ts := newTestServer(t, DefaultConfig())
	conn := dial(t, ts)
	first := read(t, conn)

	button(t, conn, "number", "5")
	m := button(t, conn, "operator", "+")
	if m.Secondary != "5 +" {
		t.Errorf("Secondary = %q, want %q", m.Secondary, "5 +")
	}
	key(t, conn, "3")
	m = key(t, conn, "Enter")

	if m.Session != first.Session {
		t.Errorf("session changed: %q -> %q", first.Session, m.Session)
	}
	if m.Main != "8" || m.Secondary != "" {
		t.Errorf("after equals = %+v", m)
	}
	if len(m.History) != 1 || m.History[0].Expression != "5 + 3" || m.History[0].Result != "8" {
		t.Errorf("History = %+v", m.History)
	}
	if m.Placeholder != "" {
		t.Errorf("Placeholder = %q, want empty", m.Placeholder)
	}

	m = key(t, conn, "Escape")
	if m.Main != "0" || len(m.History) != 1 {
		t.Errorf("after clear = %+v", m)
	}
}

func TestSession_UnboundKeyRendersUnchanged(t *testing.T) {
	_, ts := newTestServer(t, DefaultConfig())
	conn := dial(t, ts)
	read(t, conn)

	key(t, conn, "7")
	m := key(t, conn, "Shift")
	if m.Error != "" || m.Main != "7" {
		t.Errorf("unbound key reply = %+v", m)
	}
}

func TestSession_RejectsBadMessages(t *testing.T) {
	_, ts := newTestServer(t, DefaultConfig())
	conn := dial(t, ts)
	read(t, conn)

	if err := conn.WriteMessage(websocket.TextMessage, []byte("{not json")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if m := read(t, conn); m.Error == "" {
		t.Errorf("malformed message reply = %+v, want error", m)
	}

	if m := button(t, conn, "theme", ""); !strings.Contains(m.Error, "theme") {
		t.Errorf("unknown action reply = %+v", m)
	}

	if err := conn.WriteJSON(inbound{Type: "resize"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if m := read(t, conn); m.Error == "" {
		t.Errorf("unknown type reply = %+v, want error", m)
	}

	// Still usable afterwards.
	if m := key(t, conn, "4"); m.Main != "4" {
		t.Errorf("Main = %q, want 4", m.Main)
	}
}

func TestSession_StatesAreIndependent(t *testing.T) {
	_, ts := newTestServer(t, DefaultConfig())
	a := dial(t, ts)
	b := dial(t, ts)
	idA := read(t, a).Session
	idB := read(t, b).Session

	if idA == idB {
		t.Fatalf("sessions share id %q", idA)
	}
	key(t, a, "9")
	if m := key(t, b, "1"); m.Main != "1" {
		t.Errorf("session b Main = %q, want 1", m.Main)
	}
}

func TestHandler_SessionLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxSessions = 1
	h, ts := newTestServer(t, cfg)

	conn := dial(t, ts)
	read(t, conn)
	if h.SessionCount() != 1 {
		t.Fatalf("SessionCount() = %d, want 1", h.SessionCount())
	}

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(ts), nil)
	if err == nil {
		t.Fatal("second dial succeeded, want rejection")
	}
	if resp == nil || resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("response = %v, want 503", resp)
	}
}

func TestHandler_SessionLimitConcurrent(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxSessions = 2
	h, ts := newTestServer(t, cfg)

	const dialers = 8
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted []*websocket.Conn
		rejected int
	)
	for i := 0; i < dialers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			conn, resp, err := websocket.DefaultDialer.Dial(wsURL(ts), nil)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if resp != nil && resp.StatusCode == http.StatusServiceUnavailable {
					rejected++
				}
				return
			}
			accepted = append(accepted, conn)
		}()
	}
	wg.Wait()
	defer func() {
		for _, c := range accepted {
			c.Close()
		}
	}()

	if len(accepted) != cfg.MaxSessions {
		t.Errorf("accepted %d sessions, want %d", len(accepted), cfg.MaxSessions)
	}
	if rejected != dialers-cfg.MaxSessions {
		t.Errorf("rejected %d dials with 503, want %d", rejected, dialers-cfg.MaxSessions)
	}
	if n := h.SessionCount(); n != cfg.MaxSessions {
		t.Errorf("SessionCount() = %d, want %d", n, cfg.MaxSessions)
	}
}

func TestHandler_AcceptsAfterCloseSessions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxSessions = 1
	h, ts := newTestServer(t, cfg)

	read(t, dial(t, ts))
	if err := h.CloseSessions(time.Second); err != nil {
		t.Fatalf("CloseSessions() = %v", err)
	}

	// The freed slot can be taken again.
	m := read(t, dial(t, ts))
	if m.Main != "0" {
		t.Errorf("Main = %q, want 0", m.Main)
	}
}

func TestHandler_CloseSessions(t *testing.T) {
	h, ts := newTestServer(t, DefaultConfig())
	conn := dial(t, ts)
	read(t, conn)

	if err := h.CloseSessions(time.Second); err != nil {
		t.Fatalf("CloseSessions() = %v", err)
	}
	if h.SessionCount() != 0 {
		t.Errorf("SessionCount() = %d, want 0", h.SessionCount())
	}
}

func TestHandler_CheckOrigin(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AllowedOrigins = []string{"calc.example.com"}
	_, ts := newTestServer(t, cfg)

	tests := []struct {
		origin string
		wantOK bool
	}{
		{"", true},
		{ts.URL, true},
		{"https://calc.example.com", true},
		{"https://evil.example.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			header := http.Header{}
			if tt.origin != "" {
				header.Set("Origin", tt.origin)
			}
			conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts), header)
			if (err == nil) != tt.wantOK {
				t.Fatalf("Dial() error = %v, wantOK %v", err, tt.wantOK)
			}
			if conn != nil {
				conn.Close()
			}
		})
	}
}

func TestRoutes_PageAndHealth(t *testing.T) {
	_, ts := newTestServer(t, DefaultConfig())

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), `id="mainDisplay"`) {
		t.Errorf("GET / = %d, body missing display", resp.StatusCode)
	}

	resp, err = http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "ok" {
		t.Errorf("GET /healthz body = %q, want ok", body)
	}

	resp, err = http.Get(ts.URL + "/missing")
	if err != nil {
		t.Fatalf("GET /missing: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("GET /missing = %d, want 404", resp.StatusCode)
	}
}
