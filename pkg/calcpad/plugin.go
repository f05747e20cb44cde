package calcpad

import "context"

// Plugin extends a Server with optional behavior.
type Plugin interface {
	// Name identifies the plugin in logs.
	Name() string

	// Initialize is called during Start. ctx is cancelled when the server
	// stops. A returned error aborts Start.
	Initialize(ctx context.Context, cfg PluginConfig) error

	// Shutdown is called during Stop and must release everything
	// Initialize started.
	Shutdown(ctx context.Context) error
}

// PluginConfig is what a plugin gets to know about the server.
type PluginConfig struct {
	// Addr is the address the server is listening on.
	Addr string

	// ConfigPath is the file the server configuration was loaded from,
	// or "" if there is none.
	ConfigPath string

	// Logger is the server's logger.
	Logger Logger

	// SetLogLevel changes the log level at runtime. It is nil unless the
	// server was created with WithLogLevelFunc.
	SetLogLevel func(level string) error
}

// BasePlugin provides no-op Initialize and Shutdown for embedding.
type BasePlugin struct{}

// Name returns "base".
func (BasePlugin) Name() string { return "base" }

// Initialize does nothing.
func (BasePlugin) Initialize(context.Context, PluginConfig) error { return nil }

// Shutdown does nothing.
func (BasePlugin) Shutdown(context.Context) error { return nil }
