package login

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"cloudid/pkg/platform/sentinel"
)

// InMemory is the account store used in tests and local development.
type InMemory struct {
	mu         sync.Mutex
	byID       map[string]Account
	byUsername map[string]string
}

var _ Accounts = (*InMemory)(nil)

// NewInMemory constructs an empty store.
func NewInMemory() *InMemory {
	return &InMemory{
		byID:       make(map[string]Account),
		byUsername: make(map[string]string),
	}
}

func (s *InMemory) CreateDisabled(ctx context.Context, username string) (Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.byUsername[username]; ok {
		return s.byID[id], nil
	}

	account := Account{ID: uuid.NewString(), Username: username, Enabled: false}
	s.byID[account.ID] = account
	s.byUsername[username] = account.ID
	return account, nil
}

func (s *InMemory) SetEnabled(ctx context.Context, id string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.byID[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	account.Enabled = enabled
	s.byID[id] = account
	return nil
}

func (s *InMemory) Find(ctx context.Context, id string) (Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.byID[id]
	if !ok {
		return Account{}, sentinel.ErrNotFound
	}
	return account, nil
}

func (s *InMemory) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.byID[id]
	if !ok {
		return nil
	}
	delete(s.byID, id)
	delete(s.byUsername, account.Username)
	return nil
}
