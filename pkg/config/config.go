// Package config loads the lab's runtime settings from a YAML file
// and QALABS_* environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/letsconfuse/manualQaLabs/pkg/env"
	"github.com/letsconfuse/manualQaLabs/pkg/logging"
	"github.com/letsconfuse/manualQaLabs/pkg/store"
)

// Log formats.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
	FormatZap     = "zap"
)

// Config holds every runtime setting.
type Config struct {
	Server      ServerConfig   `yaml:"server"`
	Store       StoreConfig    `yaml:"store"`
	Log         LogConfig      `yaml:"log"`
	Metrics     MetricsConfig  `yaml:"metrics"`
	Sessions    SessionsConfig `yaml:"sessions"`
	HistoryPath string         `yaml:"history_path"`
	CatalogPath string         `yaml:"catalog_path"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string `yaml:"addr"`
	ReadTimeout  string `yaml:"read_timeout"`
	WriteTimeout string `yaml:"write_timeout"`

	// Token, when set, is required as a bearer token on every
	// mutating request.
	Token string `yaml:"token,omitempty"`
}

// StoreConfig selects the progress store.
type StoreConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Format         string `yaml:"format"`
	Level          string `yaml:"level"`
	Path           string `yaml:"path"`
	DetectionsPath string `yaml:"detections_path"`
	Verbose        bool   `yaml:"verbose"`

	// Dir, when set, writes lab.log and detections.log in that
	// directory in place of path and detections_path.
	Dir string `yaml:"dir"`
}

// MetricsConfig toggles the Prometheus exporter.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// SessionsConfig controls idle session reaping.
type SessionsConfig struct {
	IdleTimeout  string `yaml:"idle_timeout"`
	ReapInterval string `yaml:"reap_interval"`
}

// DefaultConfig returns the settings used when nothing is
// configured.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  "15s",
			WriteTimeout: "15s",
		},
		Store: StoreConfig{
			Driver: store.DriverMemory,
		},
		Log: LogConfig{
			Format: FormatConsole,
			Level:  "info",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
		Sessions: SessionsConfig{
			IdleTimeout:  "30m",
			ReapInterval: "1m",
		},
	}
}

// Load reads path over the defaults, applies environment
// overrides from loader and validates the result. A missing file
// yields the defaults; an empty path skips the file.
func Load(path string, loader env.Loader) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		f, err := os.Open(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			err = cfg.decode(f)
			_ = f.Close()
			if err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	if loader != nil {
		if err := cfg.ApplyEnv(loader); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults without environment
// overrides or validation.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := cfg.decode(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func (c *Config) decode(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// ReadTimeout returns the server read timeout.
func (c *Config) ReadTimeout() time.Duration {
	return duration(c.Server.ReadTimeout, 15*time.Second)
}

// WriteTimeout returns the server write timeout.
func (c *Config) WriteTimeout() time.Duration {
	return duration(c.Server.WriteTimeout, 15*time.Second)
}

// IdleTimeout returns the idle time after which sessions are
// reaped.
func (c *Config) IdleTimeout() time.Duration {
	return duration(c.Sessions.IdleTimeout, 30*time.Minute)
}

// ReapInterval returns how often idle sessions are swept.
func (c *Config) ReapInterval() time.Duration {
	return duration(c.Sessions.ReapInterval, time.Minute)
}

// LogLevel returns the parsed log level. Debug is forced when
// verbose is set.
func (c *Config) LogLevel() logging.LogLevel {
	if c.Log.Verbose {
		return logging.LevelDebug
	}
	level, err := logging.ParseLevel(c.Log.Level)
	if err != nil {
		return logging.LevelInfo
	}
	return level
}

// OpenStore opens the configured progress store.
func (c *Config) OpenStore() (store.Store, error) {
	return store.Open(c.Store.Driver, c.Store.Path)
}

// NewLogger builds the configured logger. For the console and zap
// formats a non-empty log.path or log.dir adds a JSON Lines copy of
// every entry in that file.
func (c *Config) NewLogger() (logging.Logger, error) {
	verbose := c.LogLevel() == logging.LevelDebug
	var primary logging.Logger
	switch c.Log.Format {
	case FormatJSON:
		return c.jsonLogger(verbose)
	case FormatZap:
		l, err := logging.NewZapLogger(c.LogLevel(), verbose)
		if err != nil {
			return nil, err
		}
		primary = l
	case "", FormatConsole:
		primary = logging.NewConsoleLogger(verbose)
	default:
		return nil, fmt.Errorf("unknown log format %q", c.Log.Format)
	}

	if c.Log.Path == "" && c.Log.Dir == "" {
		return primary, nil
	}
	file, err := c.jsonLogger(verbose)
	if err != nil {
		_ = primary.Close()
		return nil, err
	}
	return logging.NewMultiLogger(primary, file), nil
}

func (c *Config) jsonLogger(verbose bool) (logging.Logger, error) {
	if c.Log.Dir != "" {
		l, err := logging.SetupLogging(c.Log.Dir, c.LogLevel(), verbose)
		if err != nil {
			return nil, err
		}
		return l, nil
	}
	l, err := logging.NewJSONLogger(logging.LoggerConfig{
		OutputPath:   c.Log.Path,
		DetectionLog: c.Log.DetectionsPath,
		Level:        c.LogLevel(),
		Verbose:      verbose,
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

// Redacted returns a copy that is safe to print or log.
func (c *Config) Redacted() *Config {
	out := *c
	if out.Server.Token != "" {
		out.Server.Token = env.RedactSecret(out.Server.Token)
	}
	return &out
}

func duration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
