package cliconfig

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bft-labs/calcpad/internal/domain"
)

// DefaultListen is the default HTTP listen address.
const DefaultListen = "127.0.0.1:8080"

// Config holds CLI configuration for calcpad.
type Config struct {
	Listen         string
	AllowedOrigins []string

	HistoryLimit int
	MaxSessions  int
	ReadLimit    int

	WriteWait time.Duration
	PongWait  time.Duration

	LogLevel    string
	WatchConfig bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Listen:       DefaultListen,
		HistoryLimit: domain.DefaultHistoryLimit,
		MaxSessions:  100,
		ReadLimit:    4096,
		WriteWait:    10 * time.Second,
		PongWait:     60 * time.Second,
		LogLevel:     "info",
	}
}

// Validate checks the configuration for errors and normalizes it.
func (c *Config) Validate() error {
	c.Listen = strings.TrimSpace(c.Listen)
	if c.Listen == "" {
		return fmt.Errorf("%w: listen address is required", domain.ErrInvalidConfig)
	}
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("%w: history limit must be positive", domain.ErrInvalidConfig)
	}
	if c.MaxSessions <= 0 {
		return fmt.Errorf("%w: max sessions must be positive", domain.ErrInvalidConfig)
	}
	if c.ReadLimit <= 0 {
		return fmt.Errorf("%w: read limit must be positive", domain.ErrInvalidConfig)
	}
	if c.WriteWait <= 0 {
		return fmt.Errorf("%w: write wait must be positive", domain.ErrInvalidConfig)
	}
	if c.PongWait <= 0 {
		return fmt.Errorf("%w: pong wait must be positive", domain.ErrInvalidConfig)
	}

	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log level %q", domain.ErrInvalidConfig, c.LogLevel)
	}
	return nil
}

// configSetter applies configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setStrings sets a list if not empty and flag not changed.
func (s *configSetter) setStrings(flag string, value []string, dst *[]string) {
	if len(value) == 0 || s.changed[flag] {
		return
	}
	*dst = append([]string(nil), value...)
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString sets a bool from "true"/"1"; anything else is false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}

// splitList splits a comma separated list, dropping blanks.
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
