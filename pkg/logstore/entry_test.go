package logstore

import (
	"encoding/json"
	"strings"
	"testing"
)

// ── Payload construction ─────────────────────────────────────────────────────

func TestFromPayload_EmptyPayloadDefaultsAllFields(t *testing.T) {
	e := FromPayload(Payload{})

	want := Entry{
		RequestType:    "-",
		Response:       "-",
		QueryParameter: "-",
		Header:         "-",
		RequestData:    "-",
		ResponseData:   "-",
		Path:           "-",
		Message:        "-",
		Curl:           "-",
	}
	if e != want {
		t.Errorf("empty payload: got %+v, want all fields %q", e, Placeholder)
	}
}

func TestFromPayload_NilPayload(t *testing.T) {
	e := FromPayload(nil)
	if e.RequestType != "-" || e.Curl != "-" {
		t.Errorf("nil payload should default all fields, got %+v", e)
	}
}

func TestFromPayload_MapsAllKeys(t *testing.T) {
	e := FromPayload(Payload{
		"type":           "POST",
		"response":       "201",
		"queryparameter": "page=2",
		"header":         "Accept: application/json",
		"data":           `{"name":"ana"}`,
		"response_data":  `{"id":7}`,
		"message":        "created",
		"curl":           "curl -X POST https://api.test/users",
	})

	if e.RequestType != "POST" {
		t.Errorf("RequestType: got %q", e.RequestType)
	}
	if e.Response != "201" {
		t.Errorf("Response: got %q", e.Response)
	}
	if e.QueryParameter != "page=2" {
		t.Errorf("QueryParameter: got %q", e.QueryParameter)
	}
	if e.Header != "Accept: application/json" {
		t.Errorf("Header: got %q", e.Header)
	}
	if e.RequestData != `{"name":"ana"}` {
		t.Errorf("RequestData: got %q", e.RequestData)
	}
	if e.ResponseData != `{"id":7}` {
		t.Errorf("ResponseData: got %q", e.ResponseData)
	}
	if e.Message != "created" {
		t.Errorf("Message: got %q", e.Message)
	}
	if e.Curl != "curl -X POST https://api.test/users" {
		t.Errorf("Curl: got %q", e.Curl)
	}
}

func TestFromPayload_IgnoresPathKey(t *testing.T) {
	// A "path" key in the payload is never read.
	e := FromPayload(Payload{"path": "/api/users", "type": "GET"})

	if e.Path != "-" {
		t.Errorf("Path should be %q regardless of payload, got %q", Placeholder, e.Path)
	}
	if e.RequestType != "GET" {
		t.Errorf("RequestType: got %q", e.RequestType)
	}
}

func TestFromPayload_PresentEmptyValueStaysEmpty(t *testing.T) {
	// Only absent keys default to "-"; an empty value is kept as is.
	e := FromPayload(Payload{"type": ""})

	if e.RequestType != "" {
		t.Errorf("present empty key should stay empty, got %q", e.RequestType)
	}
	if e.Response != "-" {
		t.Errorf("absent key should default, got %q", e.Response)
	}
}

// ── Payload serialization ────────────────────────────────────────────────────

func TestToPayload_EmitsAllNineKeys(t *testing.T) {
	e := Entry{
		RequestType:    "GET",
		Response:       "200",
		QueryParameter: "q=x",
		Header:         "X-Test: 1",
		RequestData:    "req",
		ResponseData:   "resp",
		Path:           "/items",
		Message:        "ok",
		Curl:           "curl https://api.test/items",
	}

	p := e.ToPayload()

	want := Payload{
		"type":           "GET",
		"response":       "200",
		"queryparameter": "q=x",
		"header":         "X-Test: 1",
		"data":           "req",
		"response_data":  "resp",
		"path":           "/items",
		"message":        "ok",
		"curl":           "curl https://api.test/items",
	}

	if len(p) != len(want) {
		t.Fatalf("expected %d keys, got %d: %v", len(want), len(p), p)
	}
	for k, v := range want {
		got, ok := p[k]
		if !ok {
			t.Errorf("missing key %q", k)
			continue
		}
		if got != v {
			t.Errorf("key %q: got %q want %q", k, got, v)
		}
	}
}

func TestToPayload_EmitsEmptyFields(t *testing.T) {
	// Unset fields are still emitted, as empty strings.
	p := Entry{}.ToPayload()

	if len(p) != 9 {
		t.Fatalf("expected 9 keys for zero entry, got %d", len(p))
	}
	for k, v := range p {
		if v != "" {
			t.Errorf("key %q: expected empty, got %q", k, v)
		}
	}
}

func TestPayloadRoundTrip_LosesOnlyPath(t *testing.T) {
	e := Entry{
		RequestType:    "PUT",
		Response:       "204",
		QueryParameter: "force=true",
		Header:         "If-Match: abc",
		RequestData:    `{"v":2}`,
		ResponseData:   "",
		Path:           "/docs/42",
		Message:        "updated",
		Curl:           "curl -X PUT https://api.test/docs/42",
	}

	got := FromPayload(e.ToPayload())

	want := e
	want.Path = Placeholder // the one field the round trip cannot carry
	if got != want {
		t.Errorf("round trip: got %+v, want %+v", got, want)
	}
	if got.Path == e.Path {
		t.Error("Path should not survive the round trip")
	}
}

// ── JSON shape ───────────────────────────────────────────────────────────────

func TestEntry_JSONKeysMatchPayloadKeys(t *testing.T) {
	data, err := json.Marshal(Entry{RequestType: "GET", Path: "/x"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal raw: %v", err)
	}

	for _, key := range []string{
		"type", "response", "queryparameter", "header",
		"data", "response_data", "path", "message", "curl",
	} {
		if _, ok := raw[key]; !ok {
			t.Errorf("JSON should always carry key %q", key)
		}
	}
	if len(raw) != 9 {
		t.Errorf("expected exactly 9 JSON keys, got %d", len(raw))
	}
}

func TestEntry_JSONRoundTripKeepsPath(t *testing.T) {
	// Unlike the payload mapping, the JSON form carries Path in full.
	e := Entry{RequestType: "GET", Path: "/api/users"}

	data, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded Entry
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if decoded != e {
		t.Errorf("JSON round trip: got %+v want %+v", decoded, e)
	}
}

// ── Rendering ────────────────────────────────────────────────────────────────

func TestEntry_StringOrder(t *testing.T) {
	e := Entry{
		RequestType:    "GET",
		Response:       "200",
		QueryParameter: "QUERY",
		Header:         "HEADER",
		RequestData:    "REQ",
		ResponseData:   "RESP",
		Path:           "/p",
		Message:        "msg",
		Curl:           "curl",
	}

	// Header renders before QueryParameter.
	want := "GET, 200, HEADER, QUERY, REQ, RESP, /p, msg, curl"
	if got := e.String(); got != want {
		t.Errorf("String():\n got  %q\n want %q", got, want)
	}
}

func TestEntry_StringRendersUnsetFieldsEmpty(t *testing.T) {
	e := Entry{RequestType: "GET"}

	got := e.String()
	if !strings.HasPrefix(got, "GET, ") {
		t.Errorf("String() should start with the request type, got %q", got)
	}
	if n := strings.Count(got, ","); n != 8 {
		t.Errorf("expected 8 separators for 9 fields, got %d in %q", n, got)
	}
}

// ── Equality ─────────────────────────────────────────────────────────────────

func TestEntry_StructuralEquality(t *testing.T) {
	a := Entry{RequestType: "GET", Path: "/x", Response: "200"}
	b := Entry{Response: "200", Path: "/x", RequestType: "GET"}

	if a != b {
		t.Error("entries with identical field values must be equal")
	}
}

func TestEntry_AnySingleFieldChangeBreaksEquality(t *testing.T) {
	base := Entry{
		RequestType:    "GET",
		Response:       "200",
		QueryParameter: "q",
		Header:         "h",
		RequestData:    "d",
		ResponseData:   "rd",
		Path:           "/p",
		Message:        "m",
		Curl:           "c",
	}

	mutations := []struct {
		name   string
		mutate func(*Entry)
	}{
		{"RequestType", func(e *Entry) { e.RequestType = "POST" }},
		{"Response", func(e *Entry) { e.Response = "500" }},
		{"QueryParameter", func(e *Entry) { e.QueryParameter = "q2" }},
		{"Header", func(e *Entry) { e.Header = "h2" }},
		{"RequestData", func(e *Entry) { e.RequestData = "d2" }},
		{"ResponseData", func(e *Entry) { e.ResponseData = "rd2" }},
		{"Path", func(e *Entry) { e.Path = "/p2" }},
		{"Message", func(e *Entry) { e.Message = "m2" }},
		{"Curl", func(e *Entry) { e.Curl = "c2" }},
	}

	for _, m := range mutations {
		changed := base
		m.mutate(&changed)
		if changed == base {
			t.Errorf("changing %s should break equality", m.name)
		}
	}
}

func TestEntry_UsableAsMapKey(t *testing.T) {
	// Entry is comparable, so it works as a map key out of the box.
	seen := map[Entry]int{}
	seen[Entry{RequestType: "GET"}]++
	seen[Entry{RequestType: "GET"}]++
	seen[Entry{RequestType: "POST"}]++

	if seen[Entry{RequestType: "GET"}] != 2 {
		t.Errorf("expected 2 GET sightings, got %d", seen[Entry{RequestType: "GET"}])
	}
	if len(seen) != 2 {
		t.Errorf("expected 2 distinct entries, got %d", len(seen))
	}
}
