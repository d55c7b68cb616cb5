// Package overlay exposes a logstore.Store over HTTP: a small REST
// surface for listing, ingesting, and clearing entries, plus SSE and
// WebSocket live feeds that forward every published sequence to
// connected clients.
//
// The server is assembled with functional options and runs alongside
// the program that feeds the store:
//
//	store := logstore.New()
//	api := overlay.New(store, overlay.WithPort(4690))
//	if err := api.Start(ctx); err != nil {
//		...
//	}
//	defer api.Stop(context.Background())
//
// Live feed consumers always receive the latest published sequence;
// a consumer that cannot keep up skips intermediate snapshots rather
// than stalling the store.
package overlay
