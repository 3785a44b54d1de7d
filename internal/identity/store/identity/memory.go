package identity

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"cloudid/internal/identity/models"
	"cloudid/pkg/platform/sentinel"
)

// InMemory is a thread-safe in-memory identity store used in tests and local
// development. It mirrors the Postgres store's semantics, including the
// conditional status update and the unique constraints on email and secrets.
type InMemory struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]*models.Identity
}

// NewInMemory constructs an empty store.
func NewInMemory() *InMemory {
	return &InMemory{
		nextID: 1,
		byID:   make(map[int64]*models.Identity),
	}
}

// Create inserts a record and assigns its id. Returns sentinel.ErrConflict
// when the email or either secret is already taken.
func (s *InMemory) Create(ctx context.Context, record *models.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(record.Email)
	for _, existing := range s.byID {
		if strings.ToLower(existing.Email) == email {
			return fmt.Errorf("email %q: %w", record.Email, sentinel.ErrConflict)
		}
		if existing.ConfirmationSecret == record.ConfirmationSecret ||
			existing.ResetSecret == record.ResetSecret ||
			existing.ConfirmationSecret == record.ResetSecret ||
			existing.ResetSecret == record.ConfirmationSecret {
			return fmt.Errorf("secret collision: %w", sentinel.ErrConflict)
		}
	}

	record.ID = s.nextID
	s.nextID++
	s.byID[record.ID] = clone(record)
	return nil
}

// FindByID returns the record or sentinel.ErrNotFound.
func (s *InMemory) FindByID(ctx context.Context, id int64) (*models.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(record), nil
}

// FindByEmail returns the record matching the email, case-insensitively.
func (s *InMemory) FindByEmail(ctx context.Context, email string) (*models.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	email = strings.ToLower(email)
	for _, record := range s.byID {
		if strings.ToLower(record.Email) == email {
			return clone(record), nil
		}
	}
	return nil, sentinel.ErrNotFound
}

// FindByConfirmationSecret looks a record up by its confirmation link token.
func (s *InMemory) FindByConfirmationSecret(ctx context.Context, secret string) (*models.Identity, error) {
	return s.findOne(func(r *models.Identity) bool { return r.ConfirmationSecret == secret })
}

// FindByResetSecret looks a record up by its reset link token.
func (s *InMemory) FindByResetSecret(ctx context.Context, secret string) (*models.Identity, error) {
	return s.findOne(func(r *models.Identity) bool { return r.ResetSecret == secret })
}

// FindByDirectoryDN resolves a certificate subject to a record. Zero or
// multiple matches fail closed with sentinel.ErrNotFound.
func (s *InMemory) FindByDirectoryDN(ctx context.Context, dn string) (*models.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var found *models.Identity
	for _, record := range s.byID {
		if record.DirectoryDN != "" && record.DirectoryDN == dn {
			if found != nil {
				return nil, fmt.Errorf("ambiguous directory dn %q: %w", dn, sentinel.ErrNotFound)
			}
			found = record
		}
	}
	if found == nil {
		return nil, sentinel.ErrNotFound
	}
	return clone(found), nil
}

// FindByLoginID resolves an external login principal to its record.
func (s *InMemory) FindByLoginID(ctx context.Context, loginID string) (*models.Identity, error) {
	if loginID == "" {
		return nil, sentinel.ErrNotFound
	}
	return s.findOne(func(r *models.Identity) bool { return r.LoginID == loginID })
}

// ListByStatus returns all records in the given status, ordered by id.
func (s *InMemory) ListByStatus(ctx context.Context, status models.Status) ([]*models.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Identity
	for id := int64(1); id < s.nextID; id++ {
		if record, ok := s.byID[id]; ok && record.Status == status {
			out = append(out, clone(record))
		}
	}
	return out, nil
}

// UpdateStatus performs a compare-and-swap on the record's status. The guard
// is evaluated against the stored status, not the caller's copy: a mismatch
// returns sentinel.ErrInvalidState and mutates nothing.
func (s *InMemory) UpdateStatus(ctx context.Context, id int64, from, to models.Status, opts ...StatusUpdateOption) (*models.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if record.Status != from {
		return nil, fmt.Errorf("status is %q, expected %q: %w", record.Status, from, sentinel.ErrInvalidState)
	}

	update := buildStatusUpdate(opts)
	record.Status = to
	if update.DirectoryDN != nil {
		record.DirectoryDN = *update.DirectoryDN
	}
	if update.LoginID != nil {
		record.LoginID = *update.LoginID
	}
	record.UpdatedAt = time.Now()
	return clone(record), nil
}

// Delete removes the record, returning sentinel.ErrNotFound when absent.
func (s *InMemory) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.byID, id)
	return nil
}

func (s *InMemory) findOne(match func(*models.Identity) bool) (*models.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, record := range s.byID {
		if match(record) {
			return clone(record), nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func clone(record *models.Identity) *models.Identity {
	copied := *record
	return &copied
}
