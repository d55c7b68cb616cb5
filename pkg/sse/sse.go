// Package sse implements the server side of Server-Sent Events: event
// encoding per the WHATWG specification and tracking of active stream
// connections.
package sse

import (
	"errors"
	"time"
)

const (
	// ContentTypeEventStream is the MIME type for SSE responses.
	ContentTypeEventStream = "text/event-stream"

	// DefaultKeepalive is the default interval between keepalive comments.
	DefaultKeepalive = 15 * time.Second

	// DefaultRetryMs is the reconnection delay advertised to clients in milliseconds.
	DefaultRetryMs = 3000

	// MaxEventDataSize is the maximum size of a single event payload in bytes.
	MaxEventDataSize = 1 << 20 // 1MB
)

// SSE field prefixes per the WHATWG specification.
const (
	fieldEvent   = "event:"
	fieldData    = "data:"
	fieldID      = "id:"
	fieldRetry   = "retry:"
	fieldComment = ":"
)

// Errors
var (
	// ErrFlusherNotSupported indicates the response writer doesn't support flushing.
	ErrFlusherNotSupported = errors.New("sse: flusher not supported")

	// ErrEventTooLarge indicates the event data exceeds MaxEventDataSize.
	ErrEventTooLarge = errors.New("sse: event data too large")

	// ErrInvalidField indicates an event type or ID containing line breaks.
	ErrInvalidField = errors.New("sse: invalid field value")

	// ErrMaxConnectionsReached indicates the maximum connection count was reached.
	ErrMaxConnectionsReached = errors.New("sse: maximum connections reached")
)
