package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ethanCharter/floatlog/pkg/config"
	"github.com/ethanCharter/floatlog/pkg/logging"
	"github.com/ethanCharter/floatlog/pkg/logstore"
	"github.com/ethanCharter/floatlog/pkg/metrics"
	"github.com/ethanCharter/floatlog/pkg/overlay"
)

// shutdownTimeout is the maximum time to wait for graceful shutdown.
const shutdownTimeout = 10 * time.Second

// serveFlagVals is the package-level instance bound to cobra flags.
var serveFlagVals serveFlags

// serveFlags holds all parsed command-line flags for the serve command.
type serveFlags struct {
	configFile  string
	host        string
	port        int
	apiKey      string
	maxEntries  int
	corsOrigins string
	keepalive   time.Duration
	logLevel    string
	logFormat   string
}

// serveCmd represents the serve command — the foreground overlay server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the overlay server (foreground)",
	Long: `Start the floatlog overlay server in the foreground.

The server holds log entries in memory and serves them over HTTP:
GET /logs to list, POST /logs to ingest, DELETE /logs to clear, and
GET /logs/stream (SSE) or GET /logs/ws (WebSocket) for live feeds.

Configuration comes from an optional config file overridden by flags.`,
	Example: `  # Start with defaults on 127.0.0.1:4690
  floatlog serve

  # Start with a config file on a custom port
  floatlog serve --config floatlog.yaml --port 8690

  # Bound retention with API key auth
  floatlog serve --max-entries 1000 --api-key s3cret`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd, &serveFlagVals)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	f := &serveFlagVals
	serveCmd.Flags().StringVarP(&f.configFile, "config", "c", "", "Path to configuration file (.yaml or .json)")
	serveCmd.Flags().StringVar(&f.host, "host", "", "Bind address (default: 127.0.0.1)")
	serveCmd.Flags().IntVarP(&f.port, "port", "p", 0, "Listen port (default: 4690)")
	serveCmd.Flags().StringVar(&f.apiKey, "api-key", "", "Require this API key on every request")
	serveCmd.Flags().IntVar(&f.maxEntries, "max-entries", 0, "Maximum retained entries, oldest evicted (0 = unbounded)")
	serveCmd.Flags().StringVar(&f.corsOrigins, "cors-origins", "", "Comma-separated CORS allowed origins (empty = CORS disabled)")
	serveCmd.Flags().DurationVar(&f.keepalive, "keepalive", 0, "SSE keepalive interval (default: 15s)")
	serveCmd.Flags().StringVar(&f.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	serveCmd.Flags().StringVar(&f.logFormat, "log-format", "", "Log format (text, json)")
}

// runServe loads configuration, assembles the store and overlay, and
// blocks until SIGINT/SIGTERM.
func runServe(cmd *cobra.Command, f *serveFlags) error {
	cfg, err := config.LoadOrDefault(f.configFile)
	if err != nil {
		return err
	}
	applyServeFlags(cfg, cmd, f)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, closer, err := buildLogger(cfg)
	if err != nil {
		return err
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}

	var storeOpts []logstore.Option
	if cfg.Store.MaxEntries > 0 {
		storeOpts = append(storeOpts, logstore.WithMaxEntries(cfg.Store.MaxEntries))
	}
	store := logstore.New(storeOpts...)

	opts := []overlay.Option{
		overlay.WithHost(cfg.Server.Host),
		overlay.WithPort(cfg.Server.Port),
		overlay.WithLogger(logger),
		overlay.WithMetrics(metrics.Init()),
		overlay.WithKeepalive(cfg.KeepaliveInterval()),
		overlay.WithVersion(Version),
	}
	if cfg.Server.APIKey != "" {
		opts = append(opts, overlay.WithAPIKey(cfg.Server.APIKey))
	}
	if cfg.Server.CORS.Enabled {
		opts = append(opts, overlay.WithCORS(cfg.Server.CORS.Origins...))
	}

	api := overlay.New(store, opts...)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := api.Start(ctx); err != nil {
		return err
	}

	logger.Info("floatlog started",
		"addr", api.Addr(),
		"max_entries", cfg.Store.MaxEntries,
		"auth", cfg.Server.APIKey != "",
		"version", Version,
	)
	fmt.Printf("floatlog overlay listening on http://%s\n", api.Addr())
	fmt.Println("Press Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	fmt.Println("\nShutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	return api.Stop(shutdownCtx)
}

// applyServeFlags overlays explicitly set flags onto the loaded config.
// Flags win over file values, which win over defaults.
func applyServeFlags(cfg *config.Config, cmd *cobra.Command, f *serveFlags) {
	if f.host != "" {
		cfg.Server.Host = f.host
	}
	if f.port != 0 {
		cfg.Server.Port = f.port
	}
	if f.apiKey != "" {
		cfg.Server.APIKey = f.apiKey
	}
	if cmd.Flags().Changed("max-entries") {
		cfg.Store.MaxEntries = f.maxEntries
	}
	if f.corsOrigins != "" {
		cfg.Server.CORS.Enabled = true
		cfg.Server.CORS.Origins = splitOrigins(f.corsOrigins)
	}
	if f.keepalive > 0 {
		cfg.Stream.Keepalive = f.keepalive.String()
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	if f.logFormat != "" {
		cfg.Log.Format = f.logFormat
	}
}

// splitOrigins parses a comma-separated origins list, trimming blanks.
func splitOrigins(s string) []string {
	var origins []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// buildLogger constructs the operational logger from config. When the
// output is a file path the returned closer owns the file handle.
func buildLogger(cfg *config.Config) (logger *slog.Logger, closer *os.File, err error) {
	lc := logging.Config{
		Level:  logging.ParseLevel(cfg.Log.Level),
		Format: logging.ParseFormat(cfg.Log.Format),
	}

	switch cfg.Log.Output {
	case "", "stderr":
		lc.Output = os.Stderr
	case "stdout":
		lc.Output = os.Stdout
	default:
		file, err := os.OpenFile(cfg.Log.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file %s: %w", cfg.Log.Output, err)
		}
		// File output keeps a human-readable copy on stderr and writes
		// JSON records to the file for aggregation.
		opts := &slog.HandlerOptions{Level: lc.Level}
		handler := logging.NewMultiHandler(
			slog.NewTextHandler(os.Stderr, opts),
			slog.NewJSONHandler(file, opts),
		)
		return slog.New(handler), file, nil
	}

	return logging.New(lc), closer, nil
}
