package calcpad

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/bft-labs/calcpad/internal/adapters/ws"
	"github.com/bft-labs/calcpad/internal/app"
	"github.com/bft-labs/calcpad/internal/domain"
	"github.com/bft-labs/calcpad/internal/ports"
)

// DefaultListen is the default listen address of a Server.
const DefaultListen = "127.0.0.1:8080"

// State is the lifecycle state of a Server.
type State = app.State

// Server lifecycle states.
const (
	StateStopped  = app.StateStopped
	StateStarting = app.StateStarting
	StateRunning  = app.StateRunning
	StateStopping = app.StateStopping
	StateCrashed  = app.StateCrashed
)

// Config holds the server configuration. Zero fields take their defaults
// in SetDefaults.
type Config struct {
	// Listen is the TCP address to serve on. Port 0 picks a free port;
	// see Server.Addr.
	Listen string

	// AllowedOrigins lists extra Origin hosts accepted on WebSocket upgrade.
	AllowedOrigins []string

	// HistoryLimit bounds each session's history.
	HistoryLimit int

	// MaxSessions caps the number of concurrent WebSocket sessions.
	MaxSessions int

	// ReadLimit is the maximum size in bytes of an inbound message.
	ReadLimit int64

	// WriteWait is the time allowed to write a message to a session.
	WriteWait time.Duration

	// PongWait is the time allowed between pongs from a session.
	PongWait time.Duration

	// ShutdownTimeout bounds Stop.
	ShutdownTimeout time.Duration

	// ConfigPath is handed to plugins; the server does not read it.
	ConfigPath string
}

// SetDefaults fills zero fields with default values.
func (c *Config) SetDefaults() {
	def := ws.DefaultConfig()
	if strings.TrimSpace(c.Listen) == "" {
		c.Listen = DefaultListen
	}
	if c.HistoryLimit == 0 {
		c.HistoryLimit = def.HistoryLimit
	}
	if c.MaxSessions == 0 {
		c.MaxSessions = def.MaxSessions
	}
	if c.ReadLimit == 0 {
		c.ReadLimit = def.ReadLimit
	}
	if c.WriteWait == 0 {
		c.WriteWait = def.WriteWait
	}
	if c.PongWait == 0 {
		c.PongWait = def.PongWait
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = app.ShutdownTimeout
	}
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	switch {
	case c.HistoryLimit < 0:
		return fmt.Errorf("%w: history limit must be positive", domain.ErrInvalidConfig)
	case c.MaxSessions < 0:
		return fmt.Errorf("%w: max sessions must be positive", domain.ErrInvalidConfig)
	case c.ReadLimit < 0:
		return fmt.Errorf("%w: read limit must be positive", domain.ErrInvalidConfig)
	case c.WriteWait < 0, c.PongWait < 0, c.ShutdownTimeout < 0:
		return fmt.Errorf("%w: timeouts must be positive", domain.ErrInvalidConfig)
	}
	return nil
}

// Server serves the calculator widget. Use NewServer to create one, then
// Start to begin serving.
type Server struct {
	config    Config
	opts      options
	logger    ports.Logger
	lifecycle *app.Lifecycle
	handler   *ws.Handler
	listen    func(network, address string) (net.Listener, error)

	mu         sync.Mutex
	httpServer *http.Server
	addr       string
}

// NewServer creates a server in StateStopped.
// Returns an error wrapping ErrInvalidConfig if cfg is invalid.
func NewServer(cfg Config, opts ...Option) (*Server, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := applyOptions(opts)

	var observer app.StateObserver
	if o.observer != nil {
		observer = app.StateObserver(o.observer)
	}

	handler := ws.NewHandler(ws.Config{
		HistoryLimit:   cfg.HistoryLimit,
		ReadLimit:      cfg.ReadLimit,
		WriteWait:      cfg.WriteWait,
		PongWait:       cfg.PongWait,
		MaxSessions:    cfg.MaxSessions,
		AllowedOrigins: cfg.AllowedOrigins,
	}, o.logger)

	return &Server{
		config:    cfg,
		opts:      o,
		logger:    o.logger,
		lifecycle: app.NewLifecycle(o.logger, observer),
		handler:   handler,
		listen:    net.Listen,
	}, nil
}

// Handler returns the HTTP routes of the widget, for mounting into an
// existing server instead of calling Start.
func (s *Server) Handler() http.Handler {
	return s.handler.Routes()
}

// Start listens on the configured address and serves in the background.
// It returns once the listener is open. ctx scopes plugins and request
// contexts; call Stop to shut the server down.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.lifecycle.CanStart() {
		return domain.ErrAlreadyRunning
	}
	if err := s.lifecycle.TransitionTo(app.StateStarting, "Start() called"); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.lifecycle.SetCancel(cancel)

	ln, err := s.listen("tcp", s.config.Listen)
	if err != nil {
		cancel()
		_ = s.lifecycle.TransitionTo(app.StateCrashed, "listen failed")
		return fmt.Errorf("listen %s: %w", s.config.Listen, err)
	}
	s.addr = ln.Addr().String()

	pluginCfg := PluginConfig{
		Addr:        s.addr,
		ConfigPath:  s.config.ConfigPath,
		Logger:      s.logger,
		SetLogLevel: s.opts.setLogLevel,
	}
	for i, p := range s.opts.plugins {
		if err := p.Initialize(runCtx, pluginCfg); err != nil {
			s.logger.Error("plugin initialization failed",
				ports.String("plugin", p.Name()),
				ports.Err(err))
			s.shutdownPlugins(s.opts.plugins[:i])
			_ = ln.Close()
			cancel()
			_ = s.lifecycle.TransitionTo(app.StateCrashed, "plugin init failed: "+p.Name())
			return fmt.Errorf("initialize plugin %s: %w", p.Name(), err)
		}
		s.logger.Info("plugin initialized", ports.String("plugin", p.Name()))
	}

	srv := &http.Server{
		Handler:           s.handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return runCtx },
	}
	s.httpServer = srv

	// Running is entered before serving, so a listener failure can only
	// move Running to Crashed.
	if err := s.lifecycle.TransitionTo(app.StateRunning, "listening"); err != nil {
		_ = ln.Close()
		cancel()
		s.shutdownPlugins(s.opts.plugins)
		return fmt.Errorf("start %s: %w", s.addr, err)
	}

	s.lifecycle.Go(func() {
		err := srv.Serve(ln)
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return
		}
		s.logger.Error("server error", ports.Err(err))
		if s.lifecycle.TransitionTo(app.StateCrashed, err.Error()) == nil {
			cancel()
			s.shutdownPlugins(s.opts.plugins)
		}
	})

	s.logger.Info("serving calculator", ports.String("addr", s.addr))
	return nil
}

// Stop closes the listener and every open session, then shuts plugins
// down in reverse order. Returns nil on graceful shutdown,
// ErrShutdownTimeout if ShutdownTimeout expired first.
func (s *Server) Stop() error {
	s.mu.Lock()
	if !s.lifecycle.CanStop() {
		s.mu.Unlock()
		return domain.ErrNotRunning
	}
	if err := s.lifecycle.TransitionTo(app.StateStopping, "Stop() called"); err != nil {
		s.mu.Unlock()
		return err
	}
	srv := s.httpServer
	s.mu.Unlock()

	timeout := s.config.ShutdownTimeout
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Shutdown does not wait for hijacked connections, so sessions are
	// closed separately.
	err := srv.Shutdown(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		err = domain.ErrShutdownTimeout
	}
	if cerr := s.handler.CloseSessions(timeout); err == nil {
		err = cerr
	}
	s.lifecycle.Cancel()
	if werr := s.lifecycle.WaitWithTimeout(timeout); err == nil {
		err = werr
	}

	s.shutdownPlugins(s.opts.plugins)

	if err != nil {
		_ = s.lifecycle.TransitionTo(app.StateCrashed, "shutdown failed")
	} else {
		_ = s.lifecycle.TransitionTo(app.StateStopped, "graceful shutdown")
	}
	return err
}

// Status returns the current lifecycle state.
// Safe to call concurrently from any goroutine.
func (s *Server) Status() State {
	return s.lifecycle.State()
}

// Addr returns the address the server listens on, or "" before the first
// Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// SessionCount returns the number of open WebSocket sessions.
func (s *Server) SessionCount() int {
	return s.handler.SessionCount()
}

func (s *Server) shutdownPlugins(plugins []Plugin) {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	for i := len(plugins) - 1; i >= 0; i-- {
		p := plugins[i]
		if err := p.Shutdown(ctx); err != nil {
			s.logger.Error("plugin shutdown failed",
				ports.String("plugin", p.Name()),
				ports.Err(err))
			continue
		}
		s.logger.Info("plugin shutdown complete", ports.String("plugin", p.Name()))
	}
}
