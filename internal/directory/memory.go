package directory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"cloudid/pkg/platform/sentinel"
)

// InMemory is a directory double for tests and local development. It mirrors
// the LDAP client's error contract, including the unusable initial password:
// entries are created with a password no bind can match.
type InMemory struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
}

type memoryEntry struct {
	entry    Entry
	password string
}

var _ Client = (*InMemory)(nil)

// NewInMemory constructs an empty in-memory directory.
func NewInMemory() *InMemory {
	return &InMemory{entries: make(map[string]*memoryEntry)}
}

// BindAs succeeds iff the entry exists and the secret matches its current
// password. The unusable marker never matches anything.
func (d *InMemory) BindAs(ctx context.Context, dn, secret string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	entry, ok := d.entries[dn]
	if !ok {
		// A bind against a missing entry is indistinguishable from a wrong
		// password at the protocol level.
		return fmt.Errorf("bind %s: %w", dn, sentinel.ErrAuthFailed)
	}
	if secret == "" || strings.HasPrefix(entry.password, "!") || entry.password != secret {
		return fmt.Errorf("bind %s: %w", dn, sentinel.ErrAuthFailed)
	}
	return nil
}

// CreateEntry adds an entry with an unusable initial password.
func (d *InMemory) CreateEntry(ctx context.Context, dn string, entry Entry) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.entries[dn]; ok {
		return fmt.Errorf("add %s: %w", dn, sentinel.ErrConflict)
	}
	d.entries[dn] = &memoryEntry{entry: entry, password: unusablePassword()}
	return nil
}

// DeleteEntry removes the entry at dn.
func (d *InMemory) DeleteEntry(ctx context.Context, dn string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.entries[dn]; !ok {
		return fmt.Errorf("delete %s: %w", dn, sentinel.ErrNotFound)
	}
	delete(d.entries, dn)
	return nil
}

// SetPassword overwrites the password without knowing the old one.
func (d *InMemory) SetPassword(ctx context.Context, dn, newSecret string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	entry, ok := d.entries[dn]
	if !ok {
		return fmt.Errorf("modify %s: %w", dn, sentinel.ErrNotFound)
	}
	entry.password = newSecret
	return nil
}

// ChangePassword verifies the old password before replacing it.
func (d *InMemory) ChangePassword(ctx context.Context, dn, oldSecret, newSecret string) error {
	if err := d.BindAs(ctx, dn, oldSecret); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	entry, ok := d.entries[dn]
	if !ok {
		return fmt.Errorf("modify %s: %w", dn, sentinel.ErrNotFound)
	}
	entry.password = newSecret
	return nil
}

// HasEntry reports whether an entry exists at dn. Test helper.
func (d *InMemory) HasEntry(dn string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.entries[dn]
	return ok
}

// EntryAt returns the entry stored at dn. Test helper.
func (d *InMemory) EntryAt(dn string) (Entry, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	entry, ok := d.entries[dn]
	if !ok {
		return Entry{}, false
	}
	return entry.entry, true
}
