// Package configwatcher reloads the calcpad config file when it changes.
// Only the log level takes effect at runtime; other settings are read on
// the next start.
package configwatcher

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/calcpad/internal/cliconfig"
	"github.com/bft-labs/calcpad/internal/ports"
	"github.com/bft-labs/calcpad/pkg/calcpad"
)

// Plugin watches the server's config file.
type Plugin struct {
	mu sync.Mutex

	// Configuration
	retryInterval time.Duration
	debounceDelay time.Duration
	onReload      func(cliconfig.FileConfig)

	// Runtime state
	path        string
	level       string
	setLogLevel func(string) error
	logger      calcpad.Logger
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	debounce    *time.Timer
}

// Config holds configuration options for the config watcher plugin.
type Config struct {
	// RetryInterval is the delay between attempts to watch a config
	// directory that does not exist yet.
	// Default: 5 seconds
	RetryInterval time.Duration

	// DebounceDelay is the delay to wait after a file change before reloading.
	// Default: 100 milliseconds
	DebounceDelay time.Duration

	// OnReload, if set, is called with every successfully parsed file.
	OnReload func(cliconfig.FileConfig)
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		RetryInterval: 5 * time.Second,
		DebounceDelay: 100 * time.Millisecond,
	}
}

// New creates a new config watcher plugin with the given configuration.
func New(cfg Config) *Plugin {
	def := DefaultConfig()
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = def.RetryInterval
	}
	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = def.DebounceDelay
	}
	return &Plugin{
		retryInterval: cfg.RetryInterval,
		debounceDelay: cfg.DebounceDelay,
		onReload:      cfg.OnReload,
	}
}

// Name returns the plugin identifier.
func (p *Plugin) Name() string {
	return "configwatcher"
}

// Initialize starts watching cfg.ConfigPath. Without a config path the
// plugin stays idle.
func (p *Plugin) Initialize(ctx context.Context, cfg calcpad.PluginConfig) error {
	p.mu.Lock()
	p.path = cfg.ConfigPath
	p.setLogLevel = cfg.SetLogLevel
	p.logger = cfg.Logger
	p.level = ""
	p.mu.Unlock()

	if p.path == "" {
		p.logger.Warn("config watcher disabled: no config file")
		return nil
	}

	watchCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.logger.Info("config watcher plugin initialized", ports.String("path", p.path))

	p.wg.Add(1)
	go p.watchLoop(watchCtx)
	return nil
}

// Shutdown stops the watcher and any pending reload.
func (p *Plugin) Shutdown(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()

	p.mu.Lock()
	if p.debounce != nil {
		p.debounce.Stop()
		p.debounce = nil
	}
	p.mu.Unlock()
	return nil
}

func (p *Plugin) watchLoop(ctx context.Context) {
	defer p.wg.Done()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		p.logger.Error("config watcher: failed to create watcher", ports.Err(err))
		return
	}
	defer watcher.Close()

	// Editors replace files on save, so the directory is watched rather
	// than the file.
	dir := filepath.Dir(p.path)
	name := filepath.Base(p.path)
	for {
		err := watcher.Add(dir)
		if err == nil {
			break
		}
		p.logger.Warn("config watcher: failed to watch directory",
			ports.String("dir", dir),
			ports.Err(err))
		select {
		case <-ctx.Done():
			return
		case <-time.After(p.retryInterval):
		}
	}

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			p.debounceReload(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			p.logger.Error("config watcher: watcher error", ports.Err(err))
		}
	}
}

func (p *Plugin) debounceReload(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.debounce != nil {
		p.debounce.Stop()
	}
	p.debounce = time.AfterFunc(p.debounceDelay, func() {
		if ctx.Err() != nil {
			return
		}
		p.reload()
	})
}

// reload parses the file and applies the log level if it changed.
func (p *Plugin) reload() {
	fc, err := cliconfig.LoadFileConfig(p.path)
	if err != nil {
		p.logger.Error("config watcher: reload failed",
			ports.String("path", p.path),
			ports.Err(err))
		return
	}

	level := strings.ToLower(strings.TrimSpace(fc.LogLevel))

	p.mu.Lock()
	changed := level != "" && level != p.level
	setLogLevel := p.setLogLevel
	onReload := p.onReload
	p.mu.Unlock()

	if changed && setLogLevel != nil {
		if err := setLogLevel(level); err != nil {
			p.logger.Error("config watcher: invalid log level",
				ports.String("level", level),
				ports.Err(err))
		} else {
			p.mu.Lock()
			p.level = level
			p.mu.Unlock()
			p.logger.Info("log level changed", ports.String("level", level))
		}
	}

	p.logger.Info("config reloaded", ports.String("path", p.path))
	if onReload != nil {
		onReload(fc)
	}
}

var _ calcpad.Plugin = (*Plugin)(nil)
