// Package logstore provides an in-memory reactive store of captured
// HTTP request/response log entries for debugging and inspection.
//
// This package serves floatlog users who need to see what requests an
// application made and what came back. It is distinct from operational
// logging (which uses log/slog for platform debugging).
//
// # Core Types
//
// Entry is the central type: an immutable, comparable value record of
// one request/response cycle. It converts to and from a flat
// string-keyed Payload mapping for ingestion and export.
//
// Store owns an ordered sequence of entries, newest first. Every
// mutation (Add, Clear) replaces the whole sequence and synchronously
// notifies subscribed listeners with the new sequence, in subscription
// order. Published slices are never mutated afterwards, so consumers
// may hold them as stable snapshots.
//
// # Usage
//
//	store := logstore.New(logstore.WithMaxEntries(1000))
//	unsubscribe := store.Subscribe(func(entries []logstore.Entry) {
//	    render(entries)
//	})
//	defer unsubscribe()
//
//	store.Add(logstore.FromPayload(logstore.Payload{
//	    "type": "GET",
//	    "response": "200",
//	}))
//
// # Package Design
//
// This is a leaf package with no internal dependencies, allowing it to
// be imported by any package without creating import cycles.
package logstore
