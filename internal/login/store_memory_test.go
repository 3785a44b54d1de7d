package login

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"cloudid/pkg/platform/sentinel"
)

type MemoryAccountsSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *MemoryAccountsSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestMemoryAccountsSuite(t *testing.T) {
	suite.Run(t, new(MemoryAccountsSuite))
}

func (s *MemoryAccountsSuite) TestCreateDisabledIsIdempotentPerUsername() {
	first, err := s.store.CreateDisabled(s.ctx, "a@example.org")
	s.Require().NoError(err)
	s.False(first.Enabled)

	second, err := s.store.CreateDisabled(s.ctx, "a@example.org")
	s.Require().NoError(err)
	s.Equal(first.ID, second.ID)
}

func (s *MemoryAccountsSuite) TestEnableFlow() {
	account, err := s.store.CreateDisabled(s.ctx, "a@example.org")
	s.Require().NoError(err)

	s.Require().NoError(s.store.SetEnabled(s.ctx, account.ID, true))

	found, err := s.store.Find(s.ctx, account.ID)
	s.Require().NoError(err)
	s.True(found.Enabled)

	s.Require().ErrorIs(s.store.SetEnabled(s.ctx, "missing", true), sentinel.ErrNotFound)
}

func (s *MemoryAccountsSuite) TestDeleteIsIdempotent() {
	account, err := s.store.CreateDisabled(s.ctx, "a@example.org")
	s.Require().NoError(err)

	s.Require().NoError(s.store.Delete(s.ctx, account.ID))
	s.Require().NoError(s.store.Delete(s.ctx, account.ID))

	_, err = s.store.Find(s.ctx, account.ID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	// username is free again after deletion
	again, err := s.store.CreateDisabled(s.ctx, "a@example.org")
	s.Require().NoError(err)
	s.NotEqual(account.ID, again.ID)
}
