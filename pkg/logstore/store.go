package logstore

import "sync"

// Listener receives the full entry sequence after every mutation.
// Listeners run synchronously on the mutating goroutine and must not
// block for long; a listener that needs to do slow work should hand the
// snapshot off to its own goroutine.
type Listener func(entries []Entry)

// Option configures a Store.
type Option func(*Store)

// WithMaxEntries bounds the store to n entries. When a new entry would
// exceed the bound, the oldest entries are evicted from the tail.
// n <= 0 leaves the store unbounded, which is the default.
func WithMaxEntries(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxEntries = n
		}
	}
}

// subscription pairs a listener with its registration identity so the
// unsubscribe capability removes exactly this registration.
type subscription struct {
	id int64
	fn Listener
}

// Store holds an ordered sequence of Entry, newest first, and notifies
// subscribed listeners with the new full sequence after every mutation.
//
// Sequences are immutable: every mutation builds a fresh slice and no
// slice is written again once published, so slices handed out by
// Entries or passed to a Listener remain valid snapshots forever.
//
// All methods are safe for concurrent use. Publication is synchronous
// with respect to the mutating caller and delivers to listeners in
// subscription order, exactly once per mutation.
type Store struct {
	mu         sync.RWMutex
	entries    []Entry
	maxEntries int

	subMu  sync.Mutex
	subs   []subscription
	nextID int64
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{entries: []Entry{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add prepends entry to the sequence and publishes the result: the new
// head is entry, the tail is the previous sequence in order. When a
// max-entries bound is configured the oldest entries fall off the tail.
func (s *Store) Add(entry Entry) {
	s.mu.Lock()
	next := make([]Entry, 0, len(s.entries)+1)
	next = append(next, entry)
	next = append(next, s.entries...)
	if s.maxEntries > 0 && len(next) > s.maxEntries {
		next = next[:s.maxEntries]
	}
	s.entries = next
	s.mu.Unlock()

	s.publish(next)
}

// Clear replaces the sequence with an empty one and publishes it.
func (s *Store) Clear() {
	s.mu.Lock()
	next := []Entry{}
	s.entries = next
	s.mu.Unlock()

	s.publish(next)
}

// Entries returns the current sequence, newest first. The returned
// slice is a stable snapshot that the store will never write again;
// callers must not modify it.
func (s *Store) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries
}

// Len returns the number of stored entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// MaxEntries returns the configured bound, 0 when unbounded.
func (s *Store) MaxEntries() int {
	return s.maxEntries
}

// Subscribe registers fn to receive every sequence published after this
// call. It returns an unsubscribe function that removes the
// registration; the function is safe to call from any goroutine,
// including from inside a listener during fan-out, and calling it more
// than once is harmless. A listener may itself call Add or Clear; the
// nested mutation publishes fully before the outer fan-out resumes, so
// later listeners of the outer round still see the pre-mutation
// sequence.
func (s *Store) Subscribe(fn Listener) func() {
	s.subMu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// Subscribers returns the number of registered listeners.
func (s *Store) Subscribers() int {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	return len(s.subs)
}

// publish invokes every registered listener with entries, in
// subscription order. The listener set is snapshotted before fan-out so
// an unsubscribe during iteration cannot disturb delivery; a listener
// removed mid-publication still receives this publication.
func (s *Store) publish(entries []Entry) {
	s.subMu.Lock()
	snapshot := make([]subscription, len(s.subs))
	copy(snapshot, s.subs)
	s.subMu.Unlock()

	for _, sub := range snapshot {
		sub.fn(entries)
	}
}
