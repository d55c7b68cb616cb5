package cliconfig

import "fmt"

// CLIConfig represents the complete configuration for the floatlog CLI.
// Configuration values can come from multiple sources with the following precedence:
// 1. Command-line flags (highest priority)
// 2. Environment variables
// 3. Local config file (.floatlogrc.json in current directory)
// 4. Global config file (~/.config/floatlog/config.json)
// 5. Default values (lowest priority)
type CLIConfig struct {
	// Server settings (floatlog serve)
	Host       string `json:"host,omitempty"`
	Port       int    `json:"port,omitempty"`
	MaxEntries int    `json:"maxEntries,omitempty"`

	// Client settings (floatlog logs, status, ...)
	URL    string `json:"url,omitempty"`
	APIKey string `json:"apiKey,omitempty"`

	// Output settings
	JSON bool `json:"json,omitempty"`

	// Sources tracks where each value came from (for debugging)
	Sources map[string]string `json:"-"`
}

// ConfigSource identifies where a config value originated.
const (
	SourceDefault = "default"
	SourceEnv     = "env"
	SourceGlobal  = "global"
	SourceLocal   = "local"
	SourceFlag    = "flag"
)

// Validate checks that the configuration values are within acceptable ranges.
func (c *CLIConfig) Validate() error {
	if c.Port != 0 && (c.Port < 1 || c.Port > 65535) {
		return fmt.Errorf("port %d is out of range (1-65535)", c.Port)
	}
	if c.MaxEntries < 0 {
		return fmt.Errorf("maxEntries %d is out of range (must be >= 0)", c.MaxEntries)
	}
	return nil
}
