package sse

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Event is a single server-sent event.
type Event struct {
	// Type is the event name dispatched to listeners.
	// Empty means the default "message" event.
	Type string

	// ID is the last-event-id value sent to the client.
	ID string

	// Retry is the reconnection delay in milliseconds. Zero omits the field.
	Retry int

	// Data is the event payload. Strings and byte slices pass through
	// verbatim; anything else is JSON encoded.
	Data interface{}
}

// Encoder handles SSE message formatting per the WHATWG specification.
// See: https://html.spec.whatwg.org/multipage/server-sent-events.html
type Encoder struct{}

// NewEncoder creates a new SSE encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Format renders an event into wire format, ending with the blank line
// that dispatches it.
func (e *Encoder) Format(event *Event) (string, error) {
	if event == nil {
		return "", ErrInvalidField
	}

	var sb strings.Builder

	// Write event type if present
	if event.Type != "" {
		if strings.ContainsAny(event.Type, "\r\n") {
			return "", ErrInvalidField
		}
		sb.WriteString(fieldEvent)
		sb.WriteString(event.Type)
		sb.WriteByte('\n')
	}

	// Write event ID if present
	if event.ID != "" {
		if strings.ContainsAny(event.ID, "\r\n") {
			return "", ErrInvalidField
		}
		sb.WriteString(fieldID)
		sb.WriteString(event.ID)
		sb.WriteByte('\n')
	}

	// Write retry if present
	if event.Retry > 0 {
		sb.WriteString(fieldRetry)
		sb.WriteString(strconv.Itoa(event.Retry))
		sb.WriteByte('\n')
	}

	dataStr, err := e.formatData(event.Data)
	if err != nil {
		return "", err
	}

	if len(dataStr) > MaxEventDataSize {
		return "", ErrEventTooLarge
	}

	// Split multiline data into multiple data: fields
	lines := strings.Split(dataStr, "\n")
	for _, line := range lines {
		sb.WriteString(fieldData)
		sb.WriteString(line)
		sb.WriteByte('\n')
	}

	// End with blank line to dispatch the event
	sb.WriteByte('\n')

	return sb.String(), nil
}

// FormatComment formats a comment line (keepalive, etc).
// Comments start with : and are ignored by EventSource clients.
func (e *Encoder) FormatComment(comment string) string {
	var sb strings.Builder

	// Handle multiline comments
	lines := strings.Split(comment, "\n")
	for _, line := range lines {
		sb.WriteString(fieldComment)
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	sb.WriteByte('\n')

	return sb.String()
}

// FormatKeepalive returns a keepalive comment.
func (e *Encoder) FormatKeepalive() string {
	return ": keepalive\n\n"
}

// FormatRetry formats a retry interval message.
func (e *Encoder) FormatRetry(retryMs int) string {
	return fmt.Sprintf("%s%d\n\n", fieldRetry, retryMs)
}

// formatData converts event data to string format.
func (e *Encoder) formatData(data interface{}) (string, error) {
	if data == nil {
		return "", nil
	}

	switch v := data.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		jsonBytes, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("failed to marshal event data: %w", err)
		}
		return string(jsonBytes), nil
	}
}
