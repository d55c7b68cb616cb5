package logstore

import "strings"

// Payload keys used by FromPayload and ToPayload.
const (
	KeyType           = "type"
	KeyResponse       = "response"
	KeyQueryParameter = "queryparameter"
	KeyHeader         = "header"
	KeyData           = "data"
	KeyResponseData   = "response_data"
	KeyPath           = "path"
	KeyMessage        = "message"
	KeyCurl           = "curl"
)

// Placeholder is substituted for every field whose key is absent from a
// source payload.
const Placeholder = "-"

// Payload is the flat string-keyed wire form of an Entry.
type Payload map[string]string

// Entry captures one HTTP request/response cycle for inspection.
//
// All fields are plain strings; the zero value "" means unset. Entry is
// a comparable value type: two entries with identical field values are
// equal regardless of how they were constructed, and an entry is never
// mutated after construction.
type Entry struct {
	// RequestType is the HTTP method (GET, POST, ...).
	RequestType string `json:"type"`

	// Response is a raw response summary, typically the status code.
	Response string `json:"response"`

	// QueryParameter holds the request query parameters.
	QueryParameter string `json:"queryparameter"`

	// Header holds the request headers.
	Header string `json:"header"`

	// RequestData is the request body content.
	RequestData string `json:"data"`

	// ResponseData is the response body content.
	ResponseData string `json:"response_data"`

	// Path is the request URL path.
	Path string `json:"path"`

	// Message is a free-form note, e.g. an error description.
	Message string `json:"message"`

	// Curl is a shell-reproducible representation of the request.
	Curl string `json:"curl"`
}

// FromPayload builds an Entry from a flat payload mapping. Each field
// whose key is absent becomes the literal "-". The "path" key is never
// read: Path always comes back "-", so a ToPayload/FromPayload round
// trip is lossy by exactly that one field.
func FromPayload(p Payload) Entry {
	return Entry{
		RequestType:    valueOr(p, KeyType),
		Response:       valueOr(p, KeyResponse),
		QueryParameter: valueOr(p, KeyQueryParameter),
		Header:         valueOr(p, KeyHeader),
		RequestData:    valueOr(p, KeyData),
		ResponseData:   valueOr(p, KeyResponseData),
		Path:           Placeholder,
		Message:        valueOr(p, KeyMessage),
		Curl:           valueOr(p, KeyCurl),
	}
}

func valueOr(p Payload, key string) string {
	if v, ok := p[key]; ok {
		return v
	}
	return Placeholder
}

// ToPayload serializes the entry to its flat wire mapping. All nine
// fields are emitted: RequestData under "data", ResponseData under
// "response_data", the rest under their lowercased field names.
func (e Entry) ToPayload() Payload {
	return Payload{
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

// String renders the entry as one comma-separated line. The render
// order places Header before QueryParameter; fields render exactly as
// held, including empty ones.
func (e Entry) String() string {
	return strings.Join([]string{
		e.RequestType,
		e.Response,
		e.Header,
		e.QueryParameter,
		e.RequestData,
		e.ResponseData,
		e.Path,
		e.Message,
		e.Curl,
	}, ", ")
}
