package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	logAdapter "github.com/bft-labs/calcpad/internal/adapters/log"
	"github.com/bft-labs/calcpad/internal/cliconfig"
	"github.com/bft-labs/calcpad/pkg/calcpad"
	"github.com/bft-labs/calcpad/plugins/configwatcher"
)

const helpDescription = `
Serve a small calculator widget to your browser.

Highlights:
  - Chained arithmetic, square, modulo and a memory register.
  - The ten most recent calculations stay on screen.
  - Every browser tab gets its own calculator; nothing is stored.
  - Configure via file, env (CALCPAD_*), or flags; the log level reloads live.
`

var longHelp = strings.TrimSpace(helpDescription)

var exampleUsage = strings.TrimSpace(`
  calcpad --listen 127.0.0.1:8080
  calcpad --config $HOME/.calcpad/config.toml --watch-config
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	log := cliconfig.Logger()
	_ = cliconfig.SetLevel(cfg.LogLevel)

	root := &cobra.Command{
		Use:     "calcpad",
		Short:   "Serve a calculator widget to your browser",
		Long:    longHelp,
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			loaded := ""
			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
				loaded = cfgFile
			}

			// CALCPAD_* override the file but not changed flags.
			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := cliconfig.SetLevel(cfg.LogLevel); err != nil {
				return err
			}

			log.Info().Interface("config", cfg).Str("file", loaded).Msg("configuration")

			libCfg := calcpad.Config{
				Listen:         cfg.Listen,
				AllowedOrigins: cfg.AllowedOrigins,
				HistoryLimit:   cfg.HistoryLimit,
				MaxSessions:    cfg.MaxSessions,
				ReadLimit:      int64(cfg.ReadLimit),
				WriteWait:      cfg.WriteWait,
				PongWait:       cfg.PongWait,
				ConfigPath:     loaded,
			}

			opts := []calcpad.Option{
				calcpad.WithLogger(logAdapter.NewZerologAdapterWithLogger(log)),
				calcpad.WithLogLevelFunc(cliconfig.SetLevel),
			}
			if cfg.WatchConfig {
				opts = append(opts, configwatcher.WithDefaultConfigWatcher())
			}

			srv, err := calcpad.NewServer(libCfg, opts...)
			if err != nil {
				return fmt.Errorf("create server: %w", err)
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			if err := srv.Start(ctx); err != nil {
				return fmt.Errorf("start server: %w", err)
			}
			log.Info().Str("url", "http://"+srv.Addr()+"/").Msg("calculator ready")

			<-sigCh
			log.Info().Msg("received signal, stopping...")

			if err := srv.Stop(); err != nil {
				return fmt.Errorf("stop server: %w", err)
			}
			return nil
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.calcpad/config.toml)")
	root.Flags().StringVar(&cfg.Listen, "listen", cfg.Listen, "HTTP listen address")
	root.Flags().StringSliceVar(&cfg.AllowedOrigins, "allowed-origins", cfg.AllowedOrigins, "extra Origin hosts accepted for WebSocket connections")
	root.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (trace, debug, info, warn, error)")

	root.Flags().IntVar(&cfg.HistoryLimit, "history-limit", cfg.HistoryLimit, "calculations kept in each session's history")
	root.Flags().IntVar(&cfg.MaxSessions, "max-sessions", cfg.MaxSessions, "maximum concurrent browser sessions")
	root.Flags().IntVar(&cfg.ReadLimit, "read-limit", cfg.ReadLimit, "maximum inbound message size in bytes")
	if err := root.Flags().MarkHidden("read-limit"); err != nil {
		log.Info().Err(err).Msg("failed to hide read-limit flag")
	}

	root.Flags().DurationVar(&cfg.WriteWait, "write-wait", cfg.WriteWait, "time allowed to write a message to a session")
	root.Flags().DurationVar(&cfg.PongWait, "pong-wait", cfg.PongWait, "time allowed between pongs before a session is dropped")
	root.Flags().BoolVar(&cfg.WatchConfig, "watch-config", cfg.WatchConfig, "reload the log level when the config file changes")

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("calcpad")
		os.Exit(1)
	}
}
