package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port       string
	APIPrefix  string
	CORSOrigin string

	ThinkDelay   time.Duration
	SeedDemoData bool

	LogLevel slog.Level
	LogFile  string // empty = console only

	Telemetry    bool
	TelemetryDir string
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Port:         "5000",
		APIPrefix:    "/api",
		CORSOrigin:   "http://localhost:5173",
		ThinkDelay:   500 * time.Millisecond,
		SeedDemoData: true,
		LogLevel:     slog.LevelInfo,
		TelemetryDir: "logs",
	}
}

// fileConfig mirrors Config in the YAML overlay. Pointers tell unset keys from zero values.
type fileConfig struct {
	Port         *string `yaml:"port"`
	APIPrefix    *string `yaml:"api_prefix"`
	CORSOrigin   *string `yaml:"cors_origin"`
	ThinkDelay   *string `yaml:"think_delay"`
	SeedDemoData *bool   `yaml:"seed_demo_data"`
	LogLevel     *string `yaml:"log_level"`
	LogFile      *string `yaml:"log_file"`
	Telemetry    *bool   `yaml:"telemetry"`
	TelemetryDir *string `yaml:"telemetry_dir"`
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if v == "1" || v == "true" || v == "TRUE" {
		return true
	}
	return false
}

// Load builds the config from defaults, then the optional YAML file at path, then env vars.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.Port != nil {
		c.Port = *fc.Port
	}
	if fc.APIPrefix != nil {
		c.APIPrefix = *fc.APIPrefix
	}
	if fc.CORSOrigin != nil {
		c.CORSOrigin = *fc.CORSOrigin
	}
	if fc.ThinkDelay != nil {
		d, err := parseDelay(*fc.ThinkDelay)
		if err != nil {
			return fmt.Errorf("config file think_delay: %w", err)
		}
		c.ThinkDelay = d
	}
	if fc.SeedDemoData != nil {
		c.SeedDemoData = *fc.SeedDemoData
	}
	if fc.LogLevel != nil {
		c.LogLevel = ParseLogLevel(*fc.LogLevel)
	}
	if fc.LogFile != nil {
		c.LogFile = *fc.LogFile
	}
	if fc.Telemetry != nil {
		c.Telemetry = *fc.Telemetry
	}
	if fc.TelemetryDir != nil {
		c.TelemetryDir = *fc.TelemetryDir
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Port = getEnv("PORT", c.Port)
	c.APIPrefix = getEnv("API_PREFIX", c.APIPrefix)
	c.CORSOrigin = getEnv("CORS_ORIGIN", c.CORSOrigin)

	if v := os.Getenv("CHAT_THINK_DELAY"); v != "" {
		d, err := parseDelay(v)
		if err != nil {
			return fmt.Errorf("CHAT_THINK_DELAY: %w", err)
		}
		c.ThinkDelay = d
	}

	c.SeedDemoData = getBoolEnv("CHAT_SEED_DEMO", c.SeedDemoData)
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = ParseLogLevel(v)
	}
	c.LogFile = getEnv("LOG_FILE", c.LogFile)
	c.Telemetry = getBoolEnv("CHAT_TELEMETRY", c.Telemetry)
	c.TelemetryDir = getEnv("CHAT_TELEMETRY_DIR", c.TelemetryDir)
	return nil
}

// parseDelay accepts Go durations ("750ms") or bare milliseconds ("750").
func parseDelay(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if ms, err := strconv.Atoi(s); err == nil {
		if ms < 0 {
			return 0, fmt.Errorf("negative delay %q", s)
		}
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid delay %q: %w", s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("negative delay %q", s)
	}
	return d, nil
}

func ParseLogLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}
