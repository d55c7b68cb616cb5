// Package cliconfig provides configuration types and loading for the floatlog CLI.
//
// It implements a layered configuration system with the following precedence
// (highest to lowest):
//
//  1. Command-line flags
//  2. Environment variables (FLOATLOG_* prefix)
//  3. Local config file (.floatlogrc.json in current directory)
//  4. Global config file (~/.config/floatlog/config.json)
//  5. Default values
//
// The package handles configuration discovery, loading, and merging. It
// tracks the source of each configuration value for debugging purposes.
//
// Key types:
//
//   - CLIConfig: Complete configuration structure for the CLI
//   - ConfigSource: Constants identifying where config values originated
//
// Key functions:
//
//   - LoadAll: Loads and merges configuration from all sources
//   - FindLocalConfig: Locates .floatlogrc.json in the current directory
//   - FindGlobalConfig: Locates the global config file
//   - LoadEnvConfig: Applies environment variable overrides
//   - ResolveURL / ResolveAPIKey: flag-aware resolution for client commands
package cliconfig
