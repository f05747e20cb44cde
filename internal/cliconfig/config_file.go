package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	Listen         string   `toml:"listen"`
	AllowedOrigins []string `toml:"allowed_origins"`
	HistoryLimit   int      `toml:"history_limit"`
	MaxSessions    int      `toml:"max_sessions"`
	ReadLimit      int      `toml:"read_limit"`
	WriteWait      string   `toml:"write_wait"`
	PongWait       string   `toml:"pong_wait"`
	LogLevel       string   `toml:"log_level"`
	WatchConfig    *bool    `toml:"watch_config"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.calcpad/config.toml, or "" if the home
// directory is unknown.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".calcpad", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("listen", fc.Listen, &cfg.Listen)
	s.setStrings("allowed-origins", fc.AllowedOrigins, &cfg.AllowedOrigins)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	s.setInt("history-limit", fc.HistoryLimit, &cfg.HistoryLimit)
	s.setInt("max-sessions", fc.MaxSessions, &cfg.MaxSessions)
	s.setInt("read-limit", fc.ReadLimit, &cfg.ReadLimit)

	if err := s.setDuration("write-wait", fc.WriteWait, &cfg.WriteWait); err != nil {
		return err
	}
	if err := s.setDuration("pong-wait", fc.PongWait, &cfg.PongWait); err != nil {
		return err
	}

	s.setBool("watch-config", fc.WatchConfig, &cfg.WatchConfig)
	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
