package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"PORT", "API_PREFIX", "CORS_ORIGIN", "CHAT_THINK_DELAY", "CHAT_SEED_DEMO",
	"LOG_LEVEL", "LOG_FILE", "CHAT_TELEMETRY", "CHAT_TELEMETRY_DIR",
}

// clearEnv blanks every key Load reads; t.Setenv restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "/api", cfg.APIPrefix)
	assert.Equal(t, "http://localhost:5173", cfg.CORSOrigin)
	assert.Equal(t, 500*time.Millisecond, cfg.ThinkDelay)
	assert.True(t, cfg.SeedDemoData)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Empty(t, cfg.LogFile)
	assert.False(t, cfg.Telemetry)
	assert.Equal(t, "logs", cfg.TelemetryDir)
	assert.Equal(t, ":5000", cfg.Addr())
}

func TestLoad_Env(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8081")
	t.Setenv("CHAT_THINK_DELAY", "0")
	t.Setenv("CHAT_SEED_DEMO", "false")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CHAT_TELEMETRY", "1")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Port)
	assert.Zero(t, cfg.ThinkDelay)
	assert.False(t, cfg.SeedDemoData)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.True(t, cfg.Telemetry)
}

func TestLoad_FileThenEnvPrecedence(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "chat.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "7000"
api_prefix: /v1
think_delay: 2s
seed_demo_data: false
log_level: warn
`), 0o644))
	t.Setenv("PORT", "9000")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port, "env wins over file")
	assert.Equal(t, "/v1", cfg.APIPrefix)
	assert.Equal(t, 2*time.Second, cfg.ThinkDelay)
	assert.False(t, cfg.SeedDemoData)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
	assert.Equal(t, "http://localhost:5173", cfg.CORSOrigin, "unset keys keep defaults")
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("port: [unclosed"), 0o644))
	_, err = Load(bad)
	assert.Error(t, err)

	t.Setenv("CHAT_THINK_DELAY", "soon")
	_, err = Load("")
	assert.Error(t, err)
}

func TestParseDelay(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"500", 500 * time.Millisecond, false},
		{"1.5s", 1500 * time.Millisecond, false},
		{" 250ms ", 250 * time.Millisecond, false},
		{"-5", 0, true},
		{"-1s", 0, true},
		{"later", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDelay(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"Warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLogLevel(in), in)
	}
}
