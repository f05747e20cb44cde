package cliconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestApplyFileConfig(t *testing.T) {
	trueVal := true

	tests := []struct {
		name       string
		fileConfig FileConfig
		changed    map[string]bool
		initial    Config
		expected   Config
		wantErr    bool
	}{
		{
			name: "applies all values",
			fileConfig: FileConfig{
				Listen:         ":9000",
				AllowedOrigins: []string{"calc.example.com"},
				HistoryLimit:   5,
				MaxSessions:    3,
				ReadLimit:      512,
				WriteWait:      "2s",
				PongWait:       "30s",
				LogLevel:       "debug",
				WatchConfig:    &trueVal,
			},
			changed: map[string]bool{},
			initial: DefaultConfig(),
			expected: Config{
				Listen:         ":9000",
				AllowedOrigins: []string{"calc.example.com"},
				HistoryLimit:   5,
				MaxSessions:    3,
				ReadLimit:      512,
				WriteWait:      2 * time.Second,
				PongWait:       30 * time.Second,
				LogLevel:       "debug",
				WatchConfig:    true,
			},
		},
		{
			name:       "respects changed flags",
			fileConfig: FileConfig{Listen: ":9000", HistoryLimit: 5},
			changed:    map[string]bool{"listen": true},
			initial:    Config{Listen: ":7000"},
			expected:   Config{Listen: ":7000", HistoryLimit: 5},
		},
		{
			name:       "zero values keep defaults",
			fileConfig: FileConfig{},
			changed:    map[string]bool{},
			initial:    DefaultConfig(),
			expected:   DefaultConfig(),
		},
		{
			name:       "invalid duration",
			fileConfig: FileConfig{PongWait: "soon"},
			changed:    map[string]bool{},
			initial:    Config{},
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.initial
			err := ApplyFileConfig(&cfg, tt.fileConfig, tt.changed)

			if tt.wantErr {
				if err == nil {
					t.Error("ApplyFileConfig() expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplyFileConfig() unexpected error: %v", err)
			}
			assertConfig(t, cfg, tt.expected)
		})
	}
}

func TestLoadFileConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `listen = "0.0.0.0:8181"
allowed_origins = ["calc.example.com", "pad.example.com"]
history_limit = 20
write_wait = "5s"
log_level = "warn"
watch_config = true
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatalf("LoadFileConfig() error: %v", err)
	}
	if fc.Listen != "0.0.0.0:8181" {
		t.Errorf("Listen = %q", fc.Listen)
	}
	if len(fc.AllowedOrigins) != 2 || fc.AllowedOrigins[1] != "pad.example.com" {
		t.Errorf("AllowedOrigins = %v", fc.AllowedOrigins)
	}
	if fc.HistoryLimit != 20 || fc.WriteWait != "5s" || fc.LogLevel != "warn" {
		t.Errorf("fc = %+v", fc)
	}
	if fc.WatchConfig == nil || !*fc.WatchConfig {
		t.Errorf("WatchConfig = %v, want true", fc.WatchConfig)
	}
}

func TestLoadFileConfig_Errors(t *testing.T) {
	if _, err := LoadFileConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("listen = = 1"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadFileConfig(path); err == nil {
		t.Error("expected error for invalid TOML")
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()
	if path == "" {
		t.Skip("no home directory")
	}
	if !strings.HasSuffix(path, filepath.Join(".calcpad", "config.toml")) {
		t.Errorf("DefaultConfigPath() = %q", path)
	}
}

func TestFileExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f")
	if FileExists(path) {
		t.Error("FileExists() = true before create")
	}
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	if !FileExists(path) {
		t.Error("FileExists() = false after create")
	}
}

func assertConfig(t *testing.T, got, want Config) {
	t.Helper()
	if got.Listen != want.Listen {
		t.Errorf("Listen = %v, want %v", got.Listen, want.Listen)
	}
	if strings.Join(got.AllowedOrigins, ",") != strings.Join(want.AllowedOrigins, ",") {
		t.Errorf("AllowedOrigins = %v, want %v", got.AllowedOrigins, want.AllowedOrigins)
	}
	if got.HistoryLimit != want.HistoryLimit {
		t.Errorf("HistoryLimit = %v, want %v", got.HistoryLimit, want.HistoryLimit)
	}
	if got.MaxSessions != want.MaxSessions {
		t.Errorf("MaxSessions = %v, want %v", got.MaxSessions, want.MaxSessions)
	}
	if got.ReadLimit != want.ReadLimit {
		t.Errorf("ReadLimit = %v, want %v", got.ReadLimit, want.ReadLimit)
	}
	if got.WriteWait != want.WriteWait {
		t.Errorf("WriteWait = %v, want %v", got.WriteWait, want.WriteWait)
	}
	if got.PongWait != want.PongWait {
		t.Errorf("PongWait = %v, want %v", got.PongWait, want.PongWait)
	}
	if got.LogLevel != want.LogLevel {
		t.Errorf("LogLevel = %v, want %v", got.LogLevel, want.LogLevel)
	}
	if got.WatchConfig != want.WatchConfig {
		t.Errorf("WatchConfig = %v, want %v", got.WatchConfig, want.WatchConfig)
	}
}
