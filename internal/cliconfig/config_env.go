package cliconfig

import "os"

// EnvPrefix prefixes every environment variable read by ApplyEnvConfig.
const EnvPrefix = "CALCPAD_"

// ApplyEnvConfig applies configuration from environment variables (CALCPAD_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("listen", os.Getenv(EnvPrefix+"LISTEN"), &cfg.Listen)
	s.setStrings("allowed-origins", splitList(os.Getenv(EnvPrefix+"ALLOWED_ORIGINS")), &cfg.AllowedOrigins)
	s.setString("log-level", os.Getenv(EnvPrefix+"LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setIntFromString("history-limit", os.Getenv(EnvPrefix+"HISTORY_LIMIT"), &cfg.HistoryLimit); err != nil {
		return err
	}
	if err := s.setIntFromString("max-sessions", os.Getenv(EnvPrefix+"MAX_SESSIONS"), &cfg.MaxSessions); err != nil {
		return err
	}
	if err := s.setIntFromString("read-limit", os.Getenv(EnvPrefix+"READ_LIMIT"), &cfg.ReadLimit); err != nil {
		return err
	}

	if err := s.setDuration("write-wait", os.Getenv(EnvPrefix+"WRITE_WAIT"), &cfg.WriteWait); err != nil {
		return err
	}
	if err := s.setDuration("pong-wait", os.Getenv(EnvPrefix+"PONG_WAIT"), &cfg.PongWait); err != nil {
		return err
	}

	s.setBoolFromString("watch-config", os.Getenv(EnvPrefix+"WATCH_CONFIG"), &cfg.WatchConfig)
	return nil
}
