// Package ws serves the calculator widget to browsers. Every WebSocket
// connection gets its own calculator; nothing is shared between sessions
// and nothing outlives the connection.
package ws

import (
	"encoding/json"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/bft-labs/calcpad/internal/adapters/keymap"
	"github.com/bft-labs/calcpad/internal/app"
	"github.com/bft-labs/calcpad/internal/domain"
	"github.com/bft-labs/calcpad/internal/ports"
)

// sendBuffer is the number of outbound messages queued per session.
const sendBuffer = 16

// Config holds the transport settings.
type Config struct {
	// HistoryLimit bounds each session's history.
	HistoryLimit int

	// ReadLimit is the maximum size in bytes of an inbound message.
	ReadLimit int64

	// WriteWait is the time allowed to write a message.
	WriteWait time.Duration

	// PongWait is the time allowed between pongs; pings are sent at 9/10 of it.
	PongWait time.Duration

	// MaxSessions caps the number of open connections.
	MaxSessions int

	// AllowedOrigins lists extra Origin hosts accepted on upgrade.
	// Requests without an Origin header and same-host requests are always accepted.
	AllowedOrigins []string
}

// DefaultConfig returns the default transport settings.
func DefaultConfig() Config {
	return Config{
		HistoryLimit: domain.DefaultHistoryLimit,
		ReadLimit:    4096,
		WriteWait:    10 * time.Second,
		PongWait:     60 * time.Second,
		MaxSessions:  100,
	}
}

// Handler upgrades requests to calculator sessions.
type Handler struct {
	cfg      Config
	logger   ports.Logger
	upgrader websocket.Upgrader

	mu       sync.Mutex
	sessions map[string]*session
	reserved int  // slots taken by upgrades in progress
	closing  bool // set while CloseSessions runs
	wg       sync.WaitGroup
}

// NewHandler creates a Handler. Zero fields in cfg take their defaults.
func NewHandler(cfg Config, logger ports.Logger) *Handler {
	def := DefaultConfig()
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = def.HistoryLimit
	}
	if cfg.ReadLimit <= 0 {
		cfg.ReadLimit = def.ReadLimit
	}
	if cfg.WriteWait <= 0 {
		cfg.WriteWait = def.WriteWait
	}
	if cfg.PongWait <= 0 {
		cfg.PongWait = def.PongWait
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = def.MaxSessions
	}

	h := &Handler{
		cfg:      cfg,
		logger:   logger,
		sessions: make(map[string]*session),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// Routes returns the HTTP routes of the widget: the page, the socket and a
// health check.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", servePage)
	mux.Handle("/ws", h)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// ServeHTTP upgrades the request and starts a session.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !h.reserve() {
		h.logger.Warn("session limit reached, rejecting connection",
			ports.String("remote", r.RemoteAddr),
			ports.Int("max_sessions", h.cfg.MaxSessions),
		)
		http.Error(w, domain.ErrTooManySessions.Error(), http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.release()
		// Upgrade has already written the HTTP error.
		h.logger.Warn("websocket upgrade failed",
			ports.String("remote", r.RemoteAddr),
			ports.Err(err),
		)
		return
	}

	s := &session{
		id:      uuid.NewString(),
		conn:    conn,
		ctrl:    app.NewController(h.cfg.HistoryLimit, h.logger),
		send:    make(chan []byte, sendBuffer),
		handler: h,
	}
	s.ctrl.Subscribe(ports.RenderListenerFunc(s.publish))

	h.mu.Lock()
	h.reserved--
	if h.closing {
		h.mu.Unlock()
		h.wg.Add(-2)
		_ = conn.Close()
		return
	}
	h.sessions[s.id] = s
	h.mu.Unlock()

	h.logger.Info("session opened",
		ports.String("session", s.id),
		ports.String("remote", r.RemoteAddr),
	)

	go s.writePump()
	go s.readPump()
}

// reserve takes a session slot and registers the session's two pumps with
// the wait group. It reports false when the server is full or closing.
func (h *Handler) reserve() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closing || len(h.sessions)+h.reserved >= h.cfg.MaxSessions {
		return false
	}
	h.reserved++
	h.wg.Add(2)
	return true
}

// release gives back a slot taken by reserve when no session was started.
func (h *Handler) release() {
	h.mu.Lock()
	h.reserved--
	h.mu.Unlock()
	h.wg.Add(-2)
}

// SessionCount returns the number of open sessions, counting upgrades in
// progress.
func (h *Handler) SessionCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions) + h.reserved
}

// CloseSessions closes every open connection and waits for the session
// goroutines to exit, or until timeout. It returns ErrShutdownTimeout if
// sessions are still running when the timeout expires.
// New connections are refused while it runs.
func (h *Handler) CloseSessions(timeout time.Duration) error {
	h.mu.Lock()
	h.closing = true
	for _, s := range h.sessions {
		_ = s.conn.Close()
	}
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		h.closing = false
		h.mu.Unlock()
	}()

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return domain.ErrShutdownTimeout
	}
}

func (h *Handler) remove(s *session) {
	h.mu.Lock()
	delete(h.sessions, s.id)
	h.mu.Unlock()
}

// checkOrigin accepts non-browser clients, same-host pages and the
// configured origins.
func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if u.Host == r.Host {
		return true
	}
	for _, allowed := range h.cfg.AllowedOrigins {
		if u.Host == allowed || origin == allowed {
			return true
		}
	}
	h.logger.Warn("rejected websocket origin", ports.String("origin", origin))
	return false
}

// inbound is a client message.
type inbound struct {
	Type   string `json:"type"`
	Key    string `json:"key,omitempty"`
	Action string `json:"action,omitempty"`
	Value  string `json:"value,omitempty"`
}

// Inbound message types.
const (
	typeKey    = "key"
	typeButton = "button"
)

// renderMessage is sent after every inbound message.
type renderMessage struct {
	Session string `json:"session"`
	domain.RenderModel
}

// errorMessage is sent for messages that could not be handled.
type errorMessage struct {
	Session string `json:"session"`
	Error   string `json:"error"`
}

type session struct {
	id      string
	conn    *websocket.Conn
	ctrl    *app.Controller
	send    chan []byte
	handler *Handler
}

// readPump owns s.send: it is the only goroutine that writes to or closes it.
func (s *session) readPump() {
	h := s.handler
	defer func() {
		h.remove(s)
		close(s.send)
		h.logger.Info("session closed", ports.String("session", s.id))
		h.wg.Done()
	}()

	s.conn.SetReadLimit(h.cfg.ReadLimit)
	_ = s.conn.SetReadDeadline(time.Now().Add(h.cfg.PongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(h.cfg.PongWait))
	})

	s.publish(s.ctrl.Render())

	for {
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				h.logger.Warn("unexpected close", ports.String("session", s.id), ports.Err(err))
			}
			return
		}
		s.handle(msg)
	}
}

func (s *session) handle(msg []byte) {
	var in inbound
	if err := json.Unmarshal(msg, &in); err != nil {
		s.reject("malformed message")
		return
	}

	switch in.Type {
	case typeKey:
		e, ok := keymap.FromKey(in.Key)
		if !ok {
			s.publish(s.ctrl.Render())
			return
		}
		s.ctrl.Dispatch(e)
	case typeButton:
		e, err := keymap.FromButton(in.Action, in.Value)
		if err != nil {
			s.handler.logger.Debug("button action not defined",
				ports.String("session", s.id),
				ports.String("action", in.Action),
			)
			s.reject(err.Error())
			return
		}
		s.ctrl.Dispatch(e)
	default:
		s.reject("unknown message type " + in.Type)
	}
}

func (s *session) reject(reason string) {
	s.handler.logger.Warn("rejected message",
		ports.String("session", s.id),
		ports.String("reason", reason),
	)
	s.enqueue(errorMessage{Session: s.id, Error: reason})
}

// publish is the session's render listener.
func (s *session) publish(model domain.RenderModel) {
	s.enqueue(renderMessage{Session: s.id, RenderModel: model})
}

func (s *session) enqueue(v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		s.handler.logger.Error("encode message", ports.String("session", s.id), ports.Err(err))
		return
	}
	select {
	case s.send <- b:
	default:
		s.handler.logger.Warn("send buffer full, dropping message", ports.String("session", s.id))
	}
}

func (s *session) writePump() {
	h := s.handler
	ticker := time.NewTicker(h.cfg.PongWait * 9 / 10)
	defer func() {
		ticker.Stop()
		_ = s.conn.Close()
		h.wg.Done()
	}()

	for {
		select {
		case msg, ok := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteWait))
			if !ok {
				_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
