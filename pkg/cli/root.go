package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ethanCharter/floatlog/internal/cliconfig"
)

var (
	// Persistent flags available to all subcommands
	overlayURL string
	apiKeyFlag string
	jsonOutput bool

	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "floatlog",
	Short: "floatlog is a reactive request-log store with an HTTP overlay",
	Long: `floatlog holds captured HTTP request/response log entries in memory and
exposes them over a small HTTP API: list, ingest, clear, and live feeds
over SSE and WebSocket.

Run 'floatlog serve' to start the overlay server, then point clients at
it with --url or the FLOATLOG_URL environment variable.`,
	SilenceUsage:  true,
	SilenceErrors: true, // We handle errors in Execute()
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&overlayURL, "url", "", "Overlay API base URL (default: "+cliconfig.DefaultURL(0)+")")
	rootCmd.PersistentFlags().StringVar(&apiKeyFlag, "api-key", "", "API key for the overlay API (or set FLOATLOG_API_KEY)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output command results in JSON format")
}
