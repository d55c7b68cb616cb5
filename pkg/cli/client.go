package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ethanCharter/floatlog/internal/cliconfig"
	"github.com/ethanCharter/floatlog/pkg/logstore"
)

// APIKeyHeader is the HTTP header for API key authentication.
const APIKeyHeader = "X-API-Key"

// OverlayClient provides methods for communicating with the floatlog
// overlay API.
type OverlayClient interface {
	// GetLogs returns log entries with optional filtering.
	GetLogs(filter *LogFilter) (*LogResult, error)
	// AddLog ingests one payload and returns the stored entry.
	AddLog(payload logstore.Payload) (*logstore.Entry, error)
	// ClearLogs empties the log store and returns the number of
	// entries removed.
	ClearLogs() (int, error)
	// Status returns server status information.
	Status() (*StatusResult, error)
	// Health checks if the server is running.
	Health() error
	// ExportScript fetches the shell replay script.
	ExportScript() ([]byte, error)
}

// LogFilter specifies filtering criteria for log entries.
type LogFilter struct {
	Type     string // HTTP method, case-insensitive exact match
	Path     string // glob, e.g. /api/**
	Query    string // expr expression over the payload fields
	DataPath string // JSONPath into the request/response data
	Limit    int
	Offset   int
}

// LogResult contains log query results.
type LogResult struct {
	Logs  []logstore.Entry `json:"logs"`
	Count int              `json:"count"`
	Total int              `json:"total"`
}

// StatusResult contains overlay server status.
type StatusResult struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	Uptime      int    `json:"uptime"`
	Entries     int    `json:"entries"`
	MaxEntries  int    `json:"maxEntries"`
	Subscribers int    `json:"subscribers"`
	Streams     struct {
		SSE       int `json:"sse"`
		WebSocket int `json:"websocket"`
	} `json:"streams"`
}

// APIError represents an error response from the overlay API.
type APIError struct {
	StatusCode int
	ErrorCode  string
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// overlayClient implements OverlayClient using HTTP.
type overlayClient struct {
	baseURL    string
	httpClient *http.Client
	apiKey     string
}

// ClientOption configures an overlay client.
type ClientOption func(*overlayClient)

// WithTimeout sets the HTTP timeout for the client.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *overlayClient) {
		c.httpClient.Timeout = timeout
	}
}

// WithClientAPIKey sets the API key for authentication.
func WithClientAPIKey(key string) ClientOption {
	return func(c *overlayClient) {
		c.apiKey = key
	}
}

// NewOverlayClient creates an overlay API client against baseURL
// (e.g. "http://127.0.0.1:4690").
func NewOverlayClient(baseURL string, opts ...ClientOption) OverlayClient {
	c := &overlayClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewClientFromFlags creates an overlay client from the persistent
// --url and --api-key flags, falling back to environment variables and
// config files. This is the way CLI commands obtain a client.
func NewClientFromFlags(opts ...ClientOption) OverlayClient {
	if key := cliconfig.ResolveAPIKey(apiKeyFlag); key != "" {
		opts = append([]ClientOption{WithClientAPIKey(key)}, opts...)
	}
	return NewOverlayClient(cliconfig.ResolveURL(overlayURL), opts...)
}

// GetLogs returns log entries matching the filter, newest first.
func (c *overlayClient) GetLogs(filter *LogFilter) (*LogResult, error) {
	path := "/logs"
	if filter != nil {
		q := url.Values{}
		if filter.Type != "" {
			q.Set("type", filter.Type)
		}
		if filter.Path != "" {
			q.Set("path", filter.Path)
		}
		if filter.Query != "" {
			q.Set("q", filter.Query)
		}
		if filter.DataPath != "" {
			q.Set("datapath", filter.DataPath)
		}
		if filter.Limit > 0 {
			q.Set("limit", strconv.Itoa(filter.Limit))
		}
		if filter.Offset > 0 {
			q.Set("offset", strconv.Itoa(filter.Offset))
		}
		if len(q) > 0 {
			path += "?" + q.Encode()
		}
	}

	resp, err := c.get(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}

	var result LogResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &result, nil
}

// AddLog ingests one payload object.
func (c *overlayClient) AddLog(payload logstore.Payload) (*logstore.Entry, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}

	resp, err := c.post("/logs", body)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusCreated {
		return nil, c.parseError(resp)
	}

	var entry logstore.Entry
	if err := json.NewDecoder(resp.Body).Decode(&entry); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &entry, nil
}

// ClearLogs empties the log store.
func (c *overlayClient) ClearLogs() (int, error) {
	resp, err := c.delete("/logs")
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return 0, c.parseError(resp)
	}

	var result struct {
		Message string `json:"message"`
		Cleared int    `json:"cleared"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("failed to parse response: %w", err)
	}
	return result.Cleared, nil
}

// Status returns overlay server status.
func (c *overlayClient) Status() (*StatusResult, error) {
	resp, err := c.get("/status")
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}

	var result StatusResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &result, nil
}

// Health checks if the server is running.
func (c *overlayClient) Health() error {
	resp, err := c.get("/health")
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return c.parseError(resp)
	}
	return nil
}

// ExportScript fetches the shell replay script built from captured
// curl commands.
func (c *overlayClient) ExportScript() ([]byte, error) {
	resp, err := c.get("/logs/export")
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}
	return io.ReadAll(resp.Body)
}

// get performs an HTTP GET request.
func (c *overlayClient) get(path string) (*http.Response, error) {
	return c.doRequest(http.MethodGet, path, nil)
}

// post performs an HTTP POST request with a JSON body.
func (c *overlayClient) post(path string, body []byte) (*http.Response, error) {
	return c.doRequest(http.MethodPost, path, body)
}

// delete performs an HTTP DELETE request.
func (c *overlayClient) delete(path string) (*http.Response, error) {
	return c.doRequest(http.MethodDelete, path, nil)
}

// doRequest performs an HTTP request with common headers.
func (c *overlayClient) doRequest(method, path string, body []byte) (*http.Response, error) {
	fullURL := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequest(method, fullURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	if c.apiKey != "" {
		req.Header.Set(APIKeyHeader, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{
			StatusCode: 0,
			ErrorCode:  "connection_error",
			Message:    fmt.Sprintf("cannot connect to overlay API at %s: %v", c.baseURL, err),
		}
	}
	return resp, nil
}

// parseError converts an error response body into an APIError.
func (c *overlayClient) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var errResp struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
		return &APIError{
			StatusCode: resp.StatusCode,
			ErrorCode:  errResp.Error,
			Message:    errResp.Message,
		}
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		ErrorCode:  "unknown_error",
		Message:    fmt.Sprintf("server returned status %d: %s", resp.StatusCode, string(body)),
	}
}

// FormatConnectionError renders a friendly hint for connection errors.
func FormatConnectionError(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == 0 {
		return apiErr.Message + "\n\nIs the server running? Start it with: floatlog serve"
	}
	return err.Error()
}
