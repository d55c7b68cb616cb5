package overlay

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ethanCharter/floatlog/pkg/httputil"
	"github.com/ethanCharter/floatlog/pkg/logstore"
	"github.com/ethanCharter/floatlog/pkg/util"
)

// HealthResponse is the GET /health body.
type HealthResponse struct {
	Status string `json:"status"`
	Uptime int    `json:"uptime"`
}

// StatusResponse is the GET /status body.
type StatusResponse struct {
	Status      string       `json:"status"`
	Version     string       `json:"version"`
	Uptime      int          `json:"uptime"`
	Entries     int          `json:"entries"`
	MaxEntries  int          `json:"maxEntries"`
	Subscribers int          `json:"subscribers"`
	Streams     StreamCounts `json:"streams"`
}

// StreamCounts breaks down active live feed connections by kind.
type StreamCounts struct {
	SSE       int `json:"sse"`
	WebSocket int `json:"websocket"`
}

// LogListResponse is the GET /logs envelope. Count is the number of
// entries returned after pagination; Total is the number matching the
// filter.
type LogListResponse struct {
	Logs  []logstore.Entry `json:"logs"`
	Count int              `json:"count"`
	Total int              `json:"total"`
}

// ClearResponse is the DELETE /logs body.
type ClearResponse struct {
	Message string `json:"message"`
	Cleared int    `json:"cleared"`
}

// handleHealth handles GET /health.
func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteOK(w, HealthResponse{
		Status: "ok",
		Uptime: a.Uptime(),
	})
}

// handleStatus handles GET /status.
func (a *API) handleStatus(w http.ResponseWriter, r *http.Request) {
	httputil.WriteOK(w, StatusResponse{
		Status:      "ok",
		Version:     a.version,
		Uptime:      a.Uptime(),
		Entries:     a.store.Len(),
		MaxEntries:  a.store.MaxEntries(),
		Subscribers: a.store.Subscribers(),
		Streams: StreamCounts{
			SSE:       a.sseConns.Count(),
			WebSocket: a.wsConns.Count(),
		},
	})
}

// handleListLogs handles GET /logs. Entries come back newest first,
// filtered by the type, path, q, and datapath query parameters and
// paginated by limit and offset.
func (a *API) handleListLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := logstore.Filter{
		Type:     q.Get("type"),
		Path:     q.Get("path"),
		Query:    q.Get("q"),
		DataPath: q.Get("datapath"),
	}
	matcher, err := filter.Matcher()
	if err != nil {
		httputil.WriteBadRequest(w, "invalid_filter", err.Error())
		return
	}

	limit, ok := parsePositiveInt(q.Get("limit"))
	if q.Get("limit") != "" && !ok {
		httputil.WriteBadRequest(w, "invalid_limit", "limit must be a positive integer")
		return
	}
	offset, ok := parseNonNegativeInt(q.Get("offset"))
	if q.Get("offset") != "" && !ok {
		httputil.WriteBadRequest(w, "invalid_offset", "offset must be a non-negative integer")
		return
	}

	matched := matcher.Apply(a.store.Entries())
	page := paginate(matched, limit, offset)

	httputil.WriteOK(w, LogListResponse{
		Logs:  page,
		Count: len(page),
		Total: len(matched),
	})
}

// handleAddLog handles POST /logs. The body is one flat payload object;
// oversized data, response_data, and curl values are truncated before
// the entry is built and stored.
func (a *API) handleAddLog(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, a.maxBody)

	var payload logstore.Payload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			httputil.WritePayloadTooLarge(w, "payload_too_large",
				fmt.Sprintf("request body exceeds %d bytes", a.maxBody))
			return
		}
		httputil.WriteBadRequest(w, "invalid_payload", "request body must be a JSON object of string fields")
		return
	}

	for _, key := range []string{logstore.KeyData, logstore.KeyResponseData, logstore.KeyCurl} {
		if v, ok := payload[key]; ok {
			payload[key] = util.TruncateField(v, util.MaxFieldSize)
		}
	}

	entry := logstore.FromPayload(payload)
	a.store.Add(entry)
	_ = a.metrics.EntriesTotal.Inc()

	httputil.WriteCreated(w, entry)
}

// handleClearLogs handles DELETE /logs.
func (a *API) handleClearLogs(w http.ResponseWriter, r *http.Request) {
	cleared := a.store.Len()
	a.store.Clear()
	_ = a.metrics.StoreClearsTotal.Inc()

	httputil.WriteOK(w, ClearResponse{
		Message: "log store cleared",
		Cleared: cleared,
	})
}

// handleExportLogs handles GET /logs/export. It emits a shell script
// replaying the captured requests, oldest first, built from the entries
// that carry a usable curl command.
func (a *API) handleExportLogs(w http.ResponseWriter, r *http.Request) {
	entries := a.store.Entries()

	var sb strings.Builder
	replayable := 0
	for i := len(entries) - 1; i >= 0; i-- {
		curl := entries[i].Curl
		if curl == "" || curl == logstore.Placeholder {
			continue
		}
		sb.WriteString(curl)
		sb.WriteByte('\n')
		replayable++
	}

	w.Header().Set("Content-Type", "text/x-shellscript")
	w.Header().Set("Content-Disposition", `attachment; filename="floatlog-replay.sh"`)
	w.WriteHeader(http.StatusOK)

	fmt.Fprintf(w, "#!/bin/sh\n# floatlog replay: %d of %d captured requests, exported %s\n",
		replayable, len(entries), time.Now().UTC().Format(time.RFC3339))
	_, _ = io.WriteString(w, sb.String())
}

// parsePositiveInt returns a parsed int only when the value is a valid positive integer.
func parsePositiveInt(v string) (int, bool) {
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// parseNonNegativeInt returns a parsed int only when the value is a valid non-negative integer.
func parseNonNegativeInt(v string) (int, bool) {
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// paginate slices entries by offset and limit. A limit of zero means no
// limit. The result is never nil so it serializes as [].
func paginate(entries []logstore.Entry, limit, offset int) []logstore.Entry {
	if offset >= len(entries) {
		return []logstore.Entry{}
	}
	page := entries[offset:]
	if limit > 0 && limit < len(page) {
		page = page[:limit]
	}
	return page
}
