package overlay

import "github.com/ethanCharter/floatlog/pkg/logstore"

// feed bridges the store's synchronous listener to a connection writer.
// The store must never block on a slow consumer, so the bridge holds at
// most one pending sequence: offering a new one replaces it. The writer
// therefore always wakes up to the latest published sequence and skips
// any it was too slow to see.
type feed struct {
	ch chan []logstore.Entry
}

func newFeed() *feed {
	return &feed{ch: make(chan []logstore.Entry, 1)}
}

// offer makes entries the next sequence the consumer receives,
// displacing a pending one. It never blocks.
func (f *feed) offer(entries []logstore.Entry) {
	for {
		select {
		case f.ch <- entries:
			return
		default:
		}
		select {
		case <-f.ch:
		default:
		}
	}
}

// next yields the pending sequence.
func (f *feed) next() <-chan []logstore.Entry {
	return f.ch
}
