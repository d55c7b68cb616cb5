package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/ethanCharter/floatlog/internal/cliconfig"
	"github.com/ethanCharter/floatlog/pkg/cli/internal/output"
	"github.com/ethanCharter/floatlog/pkg/logstore"
)

// logsFlagVals is the package-level instance bound to cobra flags.
var logsFlagVals logsFlags

type logsFlags struct {
	typ      string
	path     string
	filter   string
	dataPath string
	limit    int
	offset   int
	verbose  bool
	clear    bool
	follow   bool
	ws       bool
}

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "List, clear, or tail captured log entries",
	Long: `List captured log entries, newest first.

Filters are applied server-side: --type matches the HTTP method,
--path is a glob (/api/**), --filter is an expression over the payload
fields (type == "POST" && path matches "^/api"), and --datapath is a
JSONPath that must select a value inside the request or response data.`,
	Example: `  # Show recent entries
  floatlog logs

  # Only POSTs under /api
  floatlog logs --type POST --path '/api/**'

  # Expression filter
  floatlog logs --filter 'response == "500"'

  # Entries whose JSON body has a user ID
  floatlog logs --datapath '$.user.id'

  # Tail the live feed (SSE)
  floatlog logs --follow

  # Tail over WebSocket instead
  floatlog logs --follow --ws

  # Clear the store
  floatlog logs --clear`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLogs(&logsFlagVals)
	},
}

func init() {
	rootCmd.AddCommand(logsCmd)

	f := &logsFlagVals
	logsCmd.Flags().StringVarP(&f.typ, "type", "t", "", "Filter by request type (HTTP method)")
	logsCmd.Flags().StringVarP(&f.path, "path", "p", "", "Filter by path glob (e.g. /api/**)")
	logsCmd.Flags().StringVar(&f.filter, "filter", "", "Filter by expression over the payload fields")
	logsCmd.Flags().StringVar(&f.dataPath, "datapath", "", "Filter by JSONPath into request/response data")
	logsCmd.Flags().IntVarP(&f.limit, "limit", "n", 0, "Maximum entries to show (0 = all)")
	logsCmd.Flags().IntVar(&f.offset, "offset", 0, "Entries to skip from the newest")
	logsCmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "Show query, header, and body detail")
	logsCmd.Flags().BoolVar(&f.clear, "clear", false, "Clear all log entries")
	logsCmd.Flags().BoolVarP(&f.follow, "follow", "f", false, "Stream entries in real-time (like tail -f)")
	logsCmd.Flags().BoolVar(&f.ws, "ws", false, "Use the WebSocket feed for --follow instead of SSE")
}

func runLogs(f *logsFlags) error {
	if f.clear {
		client := NewClientFromFlags()
		count, err := client.ClearLogs()
		if err != nil {
			return fmt.Errorf("%s", FormatConnectionError(err))
		}
		fmt.Printf("Cleared %d log entries\n", count)
		return nil
	}

	if f.follow {
		if f.ws {
			return followWebSocket(f)
		}
		return followSSE(f)
	}

	client := NewClientFromFlags()
	result, err := client.GetLogs(&LogFilter{
		Type:     f.typ,
		Path:     f.path,
		Query:    f.filter,
		DataPath: f.dataPath,
		Limit:    f.limit,
		Offset:   f.offset,
	})
	if err != nil {
		return fmt.Errorf("%s", FormatConnectionError(err))
	}

	if jsonOutput {
		return output.JSON(result)
	}

	if len(result.Logs) == 0 {
		fmt.Println("No log entries")
		return nil
	}

	if f.verbose {
		printVerboseEntries(result.Logs)
	} else {
		printEntryTable(result.Logs)
	}
	if result.Total > result.Count {
		fmt.Printf("(%d of %d entries shown)\n", result.Count, result.Total)
	}
	return nil
}

// printEntryTable renders entries as an aligned table.
func printEntryTable(entries []logstore.Entry) {
	w := output.Table()
	fmt.Fprintln(w, "TYPE\tPATH\tRESPONSE\tMESSAGE")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			e.RequestType, clip(e.Path, 40), clip(e.Response, 30), clip(e.Message, 40))
	}
	_ = w.Flush()
}

// printVerboseEntries renders entries with full detail blocks.
func printVerboseEntries(entries []logstore.Entry) {
	for i := range entries {
		printVerboseEntry(&entries[i])
	}
}

func printVerboseEntry(e *logstore.Entry) {
	fmt.Printf("%s %s -> %s\n", e.RequestType, e.Path, e.Response)
	if e.Message != "" && e.Message != logstore.Placeholder {
		fmt.Printf("  Message: %s\n", e.Message)
	}
	if e.QueryParameter != "" && e.QueryParameter != logstore.Placeholder {
		fmt.Printf("  Query: %s\n", e.QueryParameter)
	}
	if e.Header != "" && e.Header != logstore.Placeholder {
		fmt.Printf("  Header: %s\n", e.Header)
	}
	if e.RequestData != "" && e.RequestData != logstore.Placeholder {
		fmt.Printf("  Request: %s\n", clip(e.RequestData, 200))
	}
	if e.ResponseData != "" && e.ResponseData != logstore.Placeholder {
		fmt.Printf("  Response: %s\n", clip(e.ResponseData, 200))
	}
	if e.Curl != "" && e.Curl != logstore.Placeholder {
		fmt.Printf("  Curl: %s\n", e.Curl)
	}
	fmt.Println()
}

// clip shortens s for table display.
func clip(s string, max int) string {
	if len(s) > max {
		return s[:max-3] + "..."
	}
	return s
}

// feedPrinter turns consecutive full-sequence snapshots into
// incremental output: new entries on growth, a clear notice on reset.
type feedPrinter struct {
	prevLen int
	verbose bool
	json    bool
}

// consume prints whatever changed between the previous snapshot and
// entries. Snapshots may be skipped under load, so growth can be more
// than one entry at a time.
func (p *feedPrinter) consume(entries []logstore.Entry) {
	switch {
	case len(entries) == 0 && p.prevLen > 0:
		fmt.Println("(store cleared)")
	case len(entries) > p.prevLen:
		fresh := entries[:len(entries)-p.prevLen]
		// Oldest of the new entries first, matching arrival order.
		for i := len(fresh) - 1; i >= 0; i-- {
			p.printOne(&fresh[i])
		}
	}
	p.prevLen = len(entries)
}

func (p *feedPrinter) printOne(e *logstore.Entry) {
	switch {
	case p.json:
		data, err := json.Marshal(e)
		if err != nil {
			return
		}
		fmt.Println(string(data))
	case p.verbose:
		printVerboseEntry(e)
	default:
		fmt.Printf("%-7s %-40s %s\n", e.RequestType, clip(e.Path, 40), clip(e.Response, 30))
	}
}

// followSSE tails the SSE live feed until interrupted.
func followSSE(f *logsFlags) error {
	baseURL := cliconfig.ResolveURL(overlayURL)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nStopping log stream...")
		cancel()
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/logs/stream", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	if key := cliconfig.ResolveAPIKey(apiKeyFlag); key != "" {
		req.Header.Set(APIKeyHeader, key)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("%s", FormatConnectionError(&APIError{
			ErrorCode: "connection_error",
			Message:   fmt.Sprintf("cannot connect to overlay API at %s: %v", baseURL, err),
		}))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	fmt.Println("Streaming log entries (press Ctrl+C to stop)...")
	fmt.Println()

	printer := &feedPrinter{verbose: f.verbose, json: jsonOutput}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	event := ""
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			if event != "logs" {
				continue
			}
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			var envelope struct {
				Logs []logstore.Entry `json:"logs"`
			}
			if err := json.Unmarshal([]byte(data), &envelope); err != nil {
				continue // skip malformed events
			}
			printer.consume(envelope.Logs)
		}
	}

	if err := scanner.Err(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("error reading stream: %w", err)
	}
	return nil
}

// followWebSocket tails the WebSocket live feed until interrupted.
func followWebSocket(f *logsFlags) error {
	baseURL := cliconfig.ResolveURL(overlayURL)
	wsURL, err := websocketURL(baseURL)
	if err != nil {
		return err
	}

	header := http.Header{}
	if key := cliconfig.ResolveAPIKey(apiKeyFlag); key != "" {
		header.Set(APIKeyHeader, key)
	}

	dialer := websocket.Dialer{}
	conn, resp, err := dialer.Dial(wsURL, header)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("connection failed: %v (HTTP %d)", err, resp.StatusCode)
		}
		return fmt.Errorf("connection failed: %v", err)
	}
	defer func() { _ = conn.Close() }()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nStopping log stream...")
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		_ = conn.Close()
	}()

	fmt.Println("Streaming log entries (press Ctrl+C to stop)...")
	fmt.Println()

	printer := &feedPrinter{verbose: f.verbose, json: jsonOutput}

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			if strings.Contains(err.Error(), "use of closed network connection") {
				return nil
			}
			return fmt.Errorf("error reading stream: %w", err)
		}

		var envelope struct {
			Logs []logstore.Entry `json:"logs"`
		}
		if err := json.Unmarshal(message, &envelope); err != nil {
			continue
		}
		printer.consume(envelope.Logs)
	}
}

// websocketURL converts an http(s) base URL into the ws(s) feed URL.
func websocketURL(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid overlay URL %q: %w", baseURL, err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
		// already a websocket URL
	default:
		return "", fmt.Errorf("invalid overlay URL scheme %q", u.Scheme)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/logs/ws"
	return u.String(), nil
}
