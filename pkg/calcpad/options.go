package calcpad

import (
	logAdapter "github.com/bft-labs/calcpad/internal/adapters/log"
	"github.com/bft-labs/calcpad/internal/ports"
)

// Logger is the interface for structured logging.
type Logger = ports.Logger

// LogField represents a structured log field.
type LogField = ports.Field

// StateObserver is called after every lifecycle transition of a Server.
type StateObserver func(previous, current State, reason string)

// Option configures optional behavior of a Calculator or a Server.
type Option func(*options)

type options struct {
	logger      ports.Logger
	plugins     []Plugin
	observer    StateObserver
	setLogLevel func(level string) error
}

func defaultOptions() options {
	return options{logger: logAdapter.NewNoopLogger()}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logAdapter.NewNoopLogger()
	}
	return o
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithPlugin registers a plugin to be initialized when the server starts.
// Plugins are initialized in registration order and shut down in reverse
// order. Calculators ignore plugins.
func WithPlugin(plugin Plugin) Option {
	return func(o *options) {
		o.plugins = append(o.plugins, plugin)
	}
}

// WithStateObserver sets a function called after every server lifecycle
// transition. It is called synchronously and must not block.
func WithStateObserver(observer StateObserver) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// WithLogLevelFunc sets the function plugins use to change the log level.
func WithLogLevelFunc(fn func(level string) error) Option {
	return func(o *options) {
		o.setLogLevel = fn
	}
}
