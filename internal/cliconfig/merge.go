package cliconfig

// MergeConfig merges source config into target, updating sources tracking.
// Only non-zero values from source are applied. Boolean fields merge only
// when true (an explicit false in a file cannot be told apart from unset).
func MergeConfig(target, source *CLIConfig, sourceType string) {
	if source == nil {
		return
	}
	if target.Sources == nil {
		target.Sources = make(map[string]string)
	}

	if source.Host != "" {
		target.Host = source.Host
		target.Sources["host"] = sourceType
	}
	if source.Port != 0 {
		target.Port = source.Port
		target.Sources["port"] = sourceType
	}
	if source.MaxEntries != 0 {
		target.MaxEntries = source.MaxEntries
		target.Sources["maxEntries"] = sourceType
	}
	if source.URL != "" {
		target.URL = source.URL
		target.Sources["url"] = sourceType
	}
	if source.APIKey != "" {
		target.APIKey = source.APIKey
		target.Sources["apiKey"] = sourceType
	}
	if source.JSON {
		target.JSON = source.JSON
		target.Sources["json"] = sourceType
	}
}

// ResolveURL resolves the overlay API URL, checking sources in priority order:
// 1. Explicit flag value
// 2. Environment variable (FLOATLOG_URL)
// 3. Config files (local, then global)
// 4. Default value
func ResolveURL(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if url := GetURLFromEnv(); url != "" {
		return url
	}
	cfg, err := LoadAll()
	if err != nil || cfg.URL == "" {
		return DefaultURL(DefaultPort)
	}
	return cfg.URL
}

// ResolveAPIKey resolves the API key, checking sources in priority order:
// 1. Explicit flag value
// 2. Environment variable (FLOATLOG_API_KEY)
// 3. Config files (local, then global)
// 4. Empty string (no auth)
func ResolveAPIKey(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if key := GetAPIKeyFromEnv(); key != "" {
		return key
	}
	cfg, err := LoadAll()
	if err != nil {
		return ""
	}
	return cfg.APIKey
}
