package configwatcher

import "github.com/bft-labs/calcpad/pkg/calcpad"

// WithConfigWatcher returns a calcpad Option that enables config file
// watching. The server's Config.ConfigPath names the file, and
// calcpad.WithLogLevelFunc provides the level setter.
//
// Usage:
//
//	srv, err := calcpad.NewServer(cfg,
//	    calcpad.WithLogLevelFunc(setLevel),
//	    configwatcher.WithConfigWatcher(configwatcher.Config{
//	        DebounceDelay: 100 * time.Millisecond,
//	    }),
//	)
func WithConfigWatcher(cfg Config) calcpad.Option {
	return calcpad.WithPlugin(New(cfg))
}

// WithDefaultConfigWatcher returns a calcpad Option that enables config
// watching with default settings (retry every 5s, debounce 100ms).
func WithDefaultConfigWatcher() calcpad.Option {
	return WithConfigWatcher(DefaultConfig())
}
