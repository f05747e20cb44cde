// Package calcpad is a calculator widget served to browsers.
//
// Example usage:
//
//	cfg := calcpad.DefaultConfig()
//	cfg.Listen = "127.0.0.1:8080"
//	srv, err := calcpad.NewServer(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := srv.Start(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
//	defer srv.Stop()
//
// The full API, including plugins and options, lives in pkg/calcpad.
package calcpad

import (
	"github.com/rs/zerolog"

	"github.com/bft-labs/calcpad/internal/cliconfig"
	"github.com/bft-labs/calcpad/pkg/calcpad"
)

// Config holds the configuration of a widget server.
type Config = calcpad.Config

// Server serves the calculator widget.
type Server = calcpad.Server

// Calculator is a single calculator state with its history.
type Calculator = calcpad.Calculator

// DefaultListen is the default listen address.
const DefaultListen = calcpad.DefaultListen

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	var cfg Config
	cfg.SetDefaults()
	return cfg
}

// NewServer creates a server in the Stopped state.
func NewServer(cfg Config, opts ...calcpad.Option) (*Server, error) {
	return calcpad.NewServer(cfg, opts...)
}

// NewCalculator creates a calculator keeping at most historyLimit entries.
func NewCalculator(historyLimit int) *Calculator {
	return calcpad.NewCalculator(historyLimit)
}

// Logger returns the console logger used by the calcpad command. Its output
// follows the level last passed to SetLevel.
func Logger() zerolog.Logger {
	return cliconfig.Logger()
}

// SetLevel changes the level of loggers returned by Logger at runtime.
func SetLevel(level string) error {
	return cliconfig.SetLevel(level)
}
