package service

import "sync"

// keyedLocks serializes directory side effects per identity. The directory
// server offers no cross-operation atomicity, so two operations against the
// same distinguished name must not run concurrently within this process.
// Entries are reference-counted and removed when the last holder releases.
type keyedLocks struct {
	mu      sync.Mutex
	entries map[int64]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyedLocks() keyedLocks {
	return keyedLocks{entries: make(map[int64]*lockEntry)}
}

// lock acquires the lock for id and returns the release func.
func (k *keyedLocks) lock(id int64) func() {
	k.mu.Lock()
	entry, ok := k.entries[id]
	if !ok {
		entry = &lockEntry{}
		k.entries[id] = entry
	}
	entry.refs++
	k.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		k.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(k.entries, id)
		}
		k.mu.Unlock()
	}
}
