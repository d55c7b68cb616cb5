package config

import (
	"fmt"
	"time"
)

// Default values for the overlay server configuration.
const (
	DefaultHost      = "127.0.0.1"
	DefaultPort      = 4690
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
	DefaultLogOutput = "stderr"
	DefaultKeepalive = "15s"
)

// DefaultKeepaliveInterval is DefaultKeepalive as a time.Duration.
const DefaultKeepaliveInterval = 15 * time.Second

// Config is the root configuration for the floatlog overlay server.
type Config struct {
	Server ServerConfig `yaml:"server" json:"server"`
	Store  StoreConfig  `yaml:"store" json:"store"`
	Log    LogConfig    `yaml:"log" json:"log"`
	Stream StreamConfig `yaml:"stream" json:"stream"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	// Host is the bind address. Default: 127.0.0.1
	Host string `yaml:"host" json:"host"`
	// Port is the listen port. Default: 4690
	Port int `yaml:"port" json:"port"`
	// APIKey enables API key authentication when non-empty.
	// Clients send it as X-API-Key or a bearer token.
	APIKey string `yaml:"api_key,omitempty" json:"api_key,omitempty"`
	// CORS configures cross-origin access to the API.
	CORS CORSConfig `yaml:"cors" json:"cors"`
}

// CORSConfig defines cross-origin resource sharing settings.
type CORSConfig struct {
	// Enabled enables CORS handling. When false, no CORS headers are added.
	Enabled bool `yaml:"enabled" json:"enabled"`
	// Origins specifies allowed origins. Empty allows any origin.
	Origins []string `yaml:"origins,omitempty" json:"origins,omitempty"`
}

// StoreConfig holds log store settings.
type StoreConfig struct {
	// MaxEntries caps the store size; the oldest entries are evicted
	// beyond it. 0 = unbounded.
	MaxEntries int `yaml:"max_entries" json:"max_entries"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is the minimum level: debug, info, warn, error. Default: info
	Level string `yaml:"level" json:"level"`
	// Format is the output format: text, json. Default: text
	Format string `yaml:"format" json:"format"`
	// Output is "stderr", "stdout", or a file path. Default: stderr
	Output string `yaml:"output" json:"output"`
}

// StreamConfig holds live feed settings.
type StreamConfig struct {
	// Keepalive is the SSE keepalive interval, e.g. "15s". Default: 15s
	Keepalive string `yaml:"keepalive" json:"keepalive"`
}

// Default returns a Config populated with default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: DefaultHost,
			Port: DefaultPort,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
			Output: DefaultLogOutput,
		},
		Stream: StreamConfig{
			Keepalive: DefaultKeepalive,
		},
	}
}

// Validate checks the configuration for out-of-range or unknown values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range (1-65535)", c.Server.Port)
	}

	if c.Store.MaxEntries < 0 {
		return fmt.Errorf("store.max_entries %d is out of range (must be >= 0)", c.Store.MaxEntries)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if c.Log.Level != "" && !validLevels[c.Log.Level] {
		return fmt.Errorf("log.level %q is invalid, must be one of: debug, info, warn, error", c.Log.Level)
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if c.Log.Format != "" && !validFormats[c.Log.Format] {
		return fmt.Errorf("log.format %q is invalid, must be \"text\" or \"json\"", c.Log.Format)
	}

	if c.Stream.Keepalive != "" {
		d, err := time.ParseDuration(c.Stream.Keepalive)
		if err != nil {
			return fmt.Errorf("stream.keepalive %q is not a valid duration: %w", c.Stream.Keepalive, err)
		}
		if d < time.Second {
			return fmt.Errorf("stream.keepalive %s is too short (minimum 1s)", d)
		}
	}

	return nil
}

// KeepaliveInterval returns the parsed keepalive duration, falling back to
// the default when unset.
func (c *Config) KeepaliveInterval() time.Duration {
	if c.Stream.Keepalive == "" {
		return DefaultKeepaliveInterval
	}
	d, err := time.ParseDuration(c.Stream.Keepalive)
	if err != nil {
		return DefaultKeepaliveInterval
	}
	return d
}
