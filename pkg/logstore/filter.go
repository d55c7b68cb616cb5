package logstore

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/ohler55/ojg/jp"
)

// Filter defines criteria for selecting entries. Zero-value fields are
// ignored; every populated field must match.
type Filter struct {
	// Type matches RequestType, case-insensitive.
	Type string

	// Path is a glob matched against Path. Supports * and ** in the
	// usual way, e.g. "/api/**" or "/users/*".
	Path string

	// Query is a boolean expression over the payload-keyed fields,
	// e.g. `type == "POST" && path matches "^/api"`. An expression
	// that evaluates to a non-boolean never matches.
	Query string

	// DataPath is a JSONPath that must select at least one value in
	// the entry's request or response data parsed as JSON. Entries
	// whose data is not valid JSON do not match.
	DataPath string
}

// IsZero reports whether no criteria are set.
func (f Filter) IsZero() bool {
	return f == Filter{}
}

// Matcher is a compiled Filter ready to test entries.
type Matcher struct {
	filter   Filter
	program  *vm.Program
	dataPath jp.Expr
}

// Matcher compiles the filter. Malformed path globs, query expressions
// and JSONPaths are reported here so that Match stays error-free.
func (f Filter) Matcher() (*Matcher, error) {
	m := &Matcher{filter: f}

	if f.Path != "" && !doublestar.ValidatePattern(f.Path) {
		return nil, fmt.Errorf("invalid path pattern %q", f.Path)
	}

	if f.Query != "" {
		program, err := expr.Compile(f.Query, expr.Env(exprEnv(Entry{})))
		if err != nil {
			return nil, fmt.Errorf("compile query %q: %w", f.Query, err)
		}
		m.program = program
	}

	if f.DataPath != "" {
		path, err := jp.ParseString(f.DataPath)
		if err != nil {
			return nil, fmt.Errorf("invalid data path %q: %w", f.DataPath, err)
		}
		m.dataPath = path
	}

	return m, nil
}

// Match reports whether e satisfies every populated criterion.
func (m *Matcher) Match(e Entry) bool {
	f := m.filter

	if f.Type != "" && !strings.EqualFold(f.Type, e.RequestType) {
		return false
	}

	if f.Path != "" {
		// Pattern was validated at compile time, so err is always nil.
		ok, err := doublestar.Match(f.Path, e.Path)
		if err != nil || !ok {
			return false
		}
	}

	if m.program != nil {
		out, err := expr.Run(m.program, exprEnv(e))
		if err != nil {
			return false
		}
		matched, ok := out.(bool)
		if !ok || !matched {
			return false
		}
	}

	if m.dataPath != nil {
		if !m.dataPathMatches(e.RequestData) && !m.dataPathMatches(e.ResponseData) {
			return false
		}
	}

	return true
}

// Apply returns the entries that match, preserving order. With no
// criteria set the input slice is returned as is.
func (m *Matcher) Apply(entries []Entry) []Entry {
	if m.filter.IsZero() {
		return entries
	}
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if m.Match(e) {
			out = append(out, e)
		}
	}
	return out
}

func (m *Matcher) dataPathMatches(data string) bool {
	if data == "" {
		return false
	}

	var parsed interface{}
	if err := json.Unmarshal([]byte(data), &parsed); err != nil {
		// Not valid JSON: doesn't match, not an error.
		return false
	}

	return len(m.dataPath.Get(parsed)) > 0
}

// exprEnv exposes an entry to query expressions under its payload keys.
func exprEnv(e Entry) map[string]interface{} {
	return map[string]interface{}{
		KeyType:           e.RequestType,
		KeyResponse:       e.Response,
		KeyQueryParameter: e.QueryParameter,
		KeyHeader:         e.Header,
		KeyData:           e.RequestData,
		KeyResponseData:   e.ResponseData,
		KeyPath:           e.Path,
		KeyMessage:        e.Message,
		KeyCurl:           e.Curl,
	}
}
