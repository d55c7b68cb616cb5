package cliconfig

import "strconv"

// DefaultHost is the default bind address for the overlay server.
const DefaultHost = "127.0.0.1"

// DefaultPort is the default overlay server port.
const DefaultPort = 4690

// DefaultMaxEntries is the default log store retention cap (0 = unbounded).
const DefaultMaxEntries = 0

// DefaultURL returns the default overlay API URL for the given port.
func DefaultURL(port int) string {
	if port == 0 {
		port = DefaultPort
	}
	return "http://" + DefaultHost + ":" + strconv.Itoa(port)
}

// NewDefault creates a new CLIConfig with default values.
func NewDefault() *CLIConfig {
	cfg := &CLIConfig{
		Host:       DefaultHost,
		Port:       DefaultPort,
		MaxEntries: DefaultMaxEntries,
		Sources:    make(map[string]string),
	}
	cfg.URL = DefaultURL(cfg.Port)

	// Mark all as default source
	cfg.Sources["host"] = SourceDefault
	cfg.Sources["port"] = SourceDefault
	cfg.Sources["maxEntries"] = SourceDefault
	cfg.Sources["url"] = SourceDefault

	return cfg
}
